package material

import (
	"fmt"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/kidlearn/core/user"
)

var (
	ErrNotFound    = errors.New("material not found")
	ErrNotEducator = errors.New("only educators can submit materials")
)

type (
	Repository interface {
		CreateMaterial(mat Material) (Material, error)
		// QueryMaterials applies an AND operation on the set QueryFilter fields and
		// returns the matching page along with the total match count.
		QueryMaterials(filter QueryFilter) ([]Material, int, error)
		GetMaterialByID(id string) (Material, error)
		IncrementDownloads(id string) (Material, error)
		IncrementLikes(id string) (int, error)
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) Query(filter QueryFilter) ([]Material, int, error) {
	filter.Clean()
	return svc.repo.QueryMaterials(filter)
}

func (svc *Service) GetByID(id string) (Material, error) {
	return svc.repo.GetMaterialByID(id)
}

// Submit appends a new Material authored by actingUsr. The author's name is
// snapshotted on the material and never refreshed afterwards.
func (svc *Service) Submit(nm NewMaterial, actingUsr user.User) (Material, error) {
	if !actingUsr.IsEducator() {
		return Material{}, ErrNotEducator
	}
	tags := nm.Tags
	if tags == nil {
		tags = []string{}
	}
	mat := Material{
		Title:         nm.Title,
		Description:   nm.Description,
		Type:          nm.Type,
		GradeLevel:    nm.GradeLevel,
		Thumbnail:     Thumbnail(nm.Type),
		DownloadURL:   nm.DownloadURL,
		IsInteractive: nm.IsInteractive,
		AuthorID:      actingUsr.ID,
		AuthorName:    actingUsr.Name,
		CreatedAt:     time.Now().UTC(),
		Tags:          tags,
	}
	return svc.repo.CreateMaterial(mat)
}

// Download counts a download and returns the material's download URL,
// falling back to a placeholder when no file was uploaded.
func (svc *Service) Download(id string) (string, error) {
	mat, err := svc.repo.IncrementDownloads(id)
	if err != nil {
		return "", err
	}
	if mat.DownloadURL == "" {
		return fmt.Sprintf("/materials/%s/download-file", mat.ID), nil
	}
	return mat.DownloadURL, nil
}

// Like counts a like and returns the new like count.
func (svc *Service) Like(id string) (int, error) {
	return svc.repo.IncrementLikes(id)
}
