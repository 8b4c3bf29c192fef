package sqlxrepos

import (
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/kidlearn/core/stats"
)

type statsRepository struct {
	db *sqlx.DB
}

var _ stats.Repository = (*statsRepository)(nil) // interface compliance check

func NewStatsRepository(db *sqlx.DB) stats.Repository {
	return &statsRepository{db: db}
}

func (repo *statsRepository) GetStats() (stats.Stats, error) {
	st := stats.Stats{GradeBreakdown: make(map[string]int)}

	const catalogQ = `SELECT COUNT(*), COALESCE(SUM(downloads), 0) FROM material`
	if err := repo.db.QueryRow(catalogQ).Scan(&st.TotalMaterials, &st.TotalDownloads); err != nil {
		return stats.Stats{}, errors.Wrap(err, "aggregating materials")
	}

	const gradesQ = `SELECT grade_level, COUNT(*) FROM material GROUP BY grade_level`
	rows, err := repo.db.Query(gradesQ)
	if err != nil {
		return stats.Stats{}, errors.Wrap(err, "aggregating grade levels")
	}
	defer rows.Close()
	for rows.Next() {
		var grade string
		var count int
		if err = rows.Scan(&grade, &count); err != nil {
			return stats.Stats{}, errors.Wrap(err, "scanning grade level")
		}
		st.GradeBreakdown[grade] = count
	}
	if err = rows.Err(); err != nil {
		return stats.Stats{}, errors.Wrap(err, "iterating grade levels")
	}

	const usersQ = `SELECT COUNT(*) FROM "user"`
	if err = repo.db.Get(&st.TotalUsers, usersQ); err != nil {
		return stats.Stats{}, errors.Wrap(err, "counting users")
	}
	return st, nil
}
