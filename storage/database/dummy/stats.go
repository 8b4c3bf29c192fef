package dummydb

import (
	"github.com/trezcool/kidlearn/core/stats"
)

type statsRepository struct {
	db *DB
}

var _ stats.Repository = (*statsRepository)(nil) // interface compliance check

func NewStatsRepository(db *DB) stats.Repository {
	return &statsRepository{db: db}
}

func (repo *statsRepository) GetStats() (stats.Stats, error) {
	st := stats.Stats{GradeBreakdown: make(map[string]int)}

	repo.db.material.RLock()
	st.TotalMaterials = len(repo.db.material.table)
	for _, mat := range repo.db.material.table {
		st.TotalDownloads += mat.Downloads
		st.GradeBreakdown[mat.GradeLevel]++
	}
	repo.db.material.RUnlock()

	repo.db.user.RLock()
	st.TotalUsers = len(repo.db.user.table)
	repo.db.user.RUnlock()

	return st, nil
}
