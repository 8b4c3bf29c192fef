package database

import (
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/kidlearn/core/material"
	"github.com/trezcool/kidlearn/core/user"
)

const demoPassword = "password123"

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// Seed loads the demo accounts and catalog.
// It is a no-op when the catalog already has materials.
func Seed(usrRepo user.Repository, matRepo material.Repository) error {
	if _, total, err := matRepo.QueryMaterials(material.QueryFilter{Limit: 1}); err != nil {
		return errors.Wrap(err, "checking catalog")
	} else if total > 0 {
		return nil
	}

	users := []user.User{
		{Email: "parent@example.com", Name: "Sarah Johnson", Role: user.RoleParent, Avatar: "👩‍👧", CreatedAt: date(2024, 1, 15)},
		{Email: "teacher@example.com", Name: "Mr. Thompson", Role: user.RoleEducator, Avatar: "👨‍🏫", CreatedAt: date(2024, 1, 10)},
	}
	var educator user.User
	for _, usr := range users {
		if err := usrRepo.CheckEmailUniqueness(usr.Email); err != nil {
			if errors.Is(err, user.ErrEmailExists) {
				existing, err := usrRepo.GetUserByEmail(usr.Email)
				if err != nil {
					return errors.Wrapf(err, "fetching seeded user %s", usr.Email)
				}
				if existing.IsEducator() {
					educator = existing
				}
				continue
			}
			return errors.Wrapf(err, "checking user %s", usr.Email)
		}
		if err := usr.SetPassword(demoPassword); err != nil {
			return errors.Wrapf(err, "hashing password for %s", usr.Email)
		}
		created, err := usrRepo.CreateUser(usr)
		if err != nil {
			return errors.Wrapf(err, "creating user %s", usr.Email)
		}
		if created.IsEducator() {
			educator = created
		}
	}

	materials := []material.Material{
		{
			Title: "ABC Tracing Fun", Description: "Learn to trace letters A-Z with colorful guides and fun characters!",
			Type: material.TypeWorksheet, GradeLevel: material.GradeKindergarten, Thumbnail: "📝",
			DownloadURL: "/materials/abc-tracing.pdf", CreatedAt: date(2024, 6, 1),
			Downloads: 1250, Likes: 89, Tags: []string{"alphabet", "writing", "tracing"},
		},
		{
			Title: "Number Puzzle Adventure", Description: "Solve puzzles while learning numbers 1-100!",
			Type: material.TypePuzzle, GradeLevel: material.Grade1, Thumbnail: "🧩",
			IsInteractive: true, CreatedAt: date(2024, 5, 28),
			Downloads: 890, Likes: 156, Tags: []string{"numbers", "math", "puzzle"},
		},
		{
			Title: "Animal Coloring Book", Description: "Color beautiful animals from around the world!",
			Type: material.TypeDrawing, GradeLevel: material.GradeKindergarten, Thumbnail: "🎨",
			DownloadURL: "/materials/animals-coloring.pdf", CreatedAt: date(2024, 5, 25),
			Downloads: 2100, Likes: 234, Tags: []string{"animals", "coloring", "art"},
		},
		{
			Title: "Math Monsters Game", Description: "Battle friendly monsters with your math skills!",
			Type: material.TypeGame, GradeLevel: material.Grade2, Thumbnail: "👾",
			IsInteractive: true, CreatedAt: date(2024, 5, 20),
			Downloads: 3500, Likes: 567, Tags: []string{"math", "addition", "subtraction", "game"},
		},
		{
			Title: "Science Activity Book", Description: "Explore the wonders of science with hands-on activities!",
			Type: material.TypeActivityBook, GradeLevel: material.Grade3, Thumbnail: "🔬",
			DownloadURL: "/materials/science-activities.pdf", CreatedAt: date(2024, 5, 15),
			Downloads: 780, Likes: 123, Tags: []string{"science", "experiments", "activities"},
		},
		{
			Title: "Reading Comprehension Stories", Description: "Fun stories with questions to boost reading skills!",
			Type: material.TypeWorksheet, GradeLevel: material.Grade4, Thumbnail: "📚",
			DownloadURL: "/materials/reading-stories.pdf", CreatedAt: date(2024, 5, 10),
			Downloads: 920, Likes: 178, Tags: []string{"reading", "comprehension", "stories"},
		},
		{
			Title: "Fraction Pizza Party", Description: "Learn fractions by making virtual pizzas!",
			Type: material.TypeGame, GradeLevel: material.Grade5, Thumbnail: "🍕",
			IsInteractive: true, CreatedAt: date(2024, 5, 5),
			Downloads: 1450, Likes: 289, Tags: []string{"fractions", "math", "game"},
		},
		{
			Title: "Shape Explorer Puzzle", Description: "Match and learn geometric shapes through puzzles!",
			Type: material.TypePuzzle, GradeLevel: material.Grade1, Thumbnail: "🔷",
			IsInteractive: true, CreatedAt: date(2024, 5, 1),
			Downloads: 670, Likes: 98, Tags: []string{"shapes", "geometry", "puzzle"},
		},
	}
	for i := range materials {
		materials[i].AuthorID = educator.ID
		materials[i].AuthorName = educator.Name
		if _, err := matRepo.CreateMaterial(materials[i]); err != nil {
			return errors.Wrapf(err, "creating material %q", materials[i].Title)
		}
	}
	return nil
}
