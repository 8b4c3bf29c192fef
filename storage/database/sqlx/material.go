package sqlxrepos

import (
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/kidlearn/core/material"
)

const materialColumns = `id, title, description, type, grade_level, thumbnail, download_url,
	is_interactive, author_id, author_name, created_at, downloads, likes, tags`

type materialRow struct {
	ID            int64          `db:"id"`
	Title         string         `db:"title"`
	Description   string         `db:"description"`
	Type          string         `db:"type"`
	GradeLevel    string         `db:"grade_level"`
	Thumbnail     string         `db:"thumbnail"`
	DownloadURL   null.String    `db:"download_url"`
	IsInteractive bool           `db:"is_interactive"`
	AuthorID      int64          `db:"author_id"`
	AuthorName    string         `db:"author_name"`
	CreatedAt     time.Time      `db:"created_at"`
	Downloads     int            `db:"downloads"`
	Likes         int            `db:"likes"`
	Tags          pq.StringArray `db:"tags"`
}

func (r materialRow) unpack() material.Material {
	return material.Material{
		ID:            strconv.FormatInt(r.ID, 10),
		Title:         r.Title,
		Description:   r.Description,
		Type:          r.Type,
		GradeLevel:    r.GradeLevel,
		Thumbnail:     r.Thumbnail,
		DownloadURL:   r.DownloadURL.String,
		IsInteractive: r.IsInteractive,
		AuthorID:      strconv.FormatInt(r.AuthorID, 10),
		AuthorName:    r.AuthorName,
		CreatedAt:     r.CreatedAt,
		Downloads:     r.Downloads,
		Likes:         r.Likes,
		Tags:          r.Tags,
	}
}

type materialRepository struct {
	db *sqlx.DB
}

var _ material.Repository = (*materialRepository)(nil) // interface compliance check

func NewMaterialRepository(db *sqlx.DB) material.Repository {
	return &materialRepository{db: db}
}

func (repo *materialRepository) CreateMaterial(mat material.Material) (material.Material, error) {
	const q = `
	INSERT INTO material (title, description, type, grade_level, thumbnail, download_url,
		is_interactive, author_id, author_name, created_at, downloads, likes, tags)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	RETURNING id`

	authorID, err := strconv.ParseInt(mat.AuthorID, 10, 64)
	if err != nil {
		return material.Material{}, errors.Wrapf(err, "invalid author id %q", mat.AuthorID)
	}
	downloadURL := null.NewString(mat.DownloadURL, mat.DownloadURL != "")

	var id int64
	err = repo.db.Get(
		&id, q,
		mat.Title, mat.Description, mat.Type, mat.GradeLevel, mat.Thumbnail, downloadURL,
		mat.IsInteractive, authorID, mat.AuthorName, mat.CreatedAt, mat.Downloads, mat.Likes,
		pq.Array(mat.Tags),
	)
	if err != nil {
		return material.Material{}, errors.Wrap(err, "inserting material")
	}
	mat.ID = strconv.FormatInt(id, 10)
	return mat, nil
}

// whereClause builds an AND filter with numbered args.
func whereClause(filter material.QueryFilter) (string, []interface{}) {
	var clauses []string
	var args []interface{}

	if filter.Type != "" {
		args = append(args, filter.Type)
		clauses = append(clauses, fmt.Sprintf("type = $%d", len(args)))
	}
	if filter.GradeLevel != "" {
		args = append(args, filter.GradeLevel)
		clauses = append(clauses, fmt.Sprintf("grade_level = $%d", len(args)))
	}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		n := len(args)
		clauses = append(clauses, fmt.Sprintf(
			"(title ILIKE $%d OR description ILIKE $%d OR EXISTS (SELECT 1 FROM unnest(tags) tag WHERE tag ILIKE $%d))",
			n, n, n,
		))
	}

	if len(clauses) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

func (repo *materialRepository) QueryMaterials(filter material.QueryFilter) ([]material.Material, int, error) {
	where, args := whereClause(filter)

	// count before paginating
	var total int
	if err := repo.db.Get(&total, "SELECT COUNT(*) FROM material"+where, args...); err != nil {
		return nil, 0, errors.Wrap(err, "counting materials")
	}

	q := "SELECT " + materialColumns + " FROM material" + where + " ORDER BY id"
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		q += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		q += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	var rows []materialRow
	if err := repo.db.Select(&rows, q, args...); err != nil {
		return nil, 0, errors.Wrap(err, "selecting materials")
	}
	mats := make([]material.Material, 0, len(rows))
	for _, r := range rows {
		mats = append(mats, r.unpack())
	}
	return mats, total, nil
}

func (repo *materialRepository) GetMaterialByID(id string) (material.Material, error) {
	pk, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return material.Material{}, material.ErrNotFound
	}

	q := "SELECT " + materialColumns + " FROM material WHERE id = $1"
	var row materialRow
	if err = repo.db.Get(&row, q, pk); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return material.Material{}, material.ErrNotFound
		}
		return material.Material{}, errors.Wrap(err, "selecting material by id")
	}
	return row.unpack(), nil
}

func (repo *materialRepository) IncrementDownloads(id string) (material.Material, error) {
	pk, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return material.Material{}, material.ErrNotFound
	}

	q := "UPDATE material SET downloads = downloads + 1 WHERE id = $1 RETURNING " + materialColumns
	var row materialRow
	if err = repo.db.Get(&row, q, pk); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return material.Material{}, material.ErrNotFound
		}
		return material.Material{}, errors.Wrap(err, "incrementing downloads")
	}
	return row.unpack(), nil
}

func (repo *materialRepository) IncrementLikes(id string) (int, error) {
	pk, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return 0, material.ErrNotFound
	}

	const q = `UPDATE material SET likes = likes + 1 WHERE id = $1 RETURNING likes`
	var likes int
	if err = repo.db.Get(&likes, q, pk); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, material.ErrNotFound
		}
		return 0, errors.Wrap(err, "incrementing likes")
	}
	return likes, nil
}
