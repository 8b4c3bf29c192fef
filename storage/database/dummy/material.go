package dummydb

import (
	"strconv"
	"strings"

	"github.com/trezcool/kidlearn/core/material"
)

type materialRepository struct {
	db *materialTable
}

var _ material.Repository = (*materialRepository)(nil) // interface compliance check

func NewMaterialRepository(db *DB) material.Repository {
	return &materialRepository{db: db.material}
}

// query returns all materials in insertion order. callers must hold the lock.
func (repo *materialRepository) query() []material.Material {
	mats := make([]material.Material, 0, len(repo.db.order))
	for _, id := range repo.db.order {
		mats = append(mats, *repo.db.table[id])
	}
	return mats
}

func (repo *materialRepository) CreateMaterial(mat material.Material) (material.Material, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	repo.db.pkCount++
	mat.ID = strconv.Itoa(repo.db.pkCount)
	repo.db.table[mat.ID] = &mat
	repo.db.order = append(repo.db.order, mat.ID)
	return mat, nil
}

func (repo *materialRepository) QueryMaterials(filter material.QueryFilter) ([]material.Material, int, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	mats := repo.query()

	if filter.Type != "" {
		var filtered []material.Material
		for _, m := range mats {
			if m.Type == filter.Type {
				filtered = append(filtered, m)
			}
		}
		mats = filtered
	}
	if filter.GradeLevel != "" {
		var filtered []material.Material
		for _, m := range mats {
			if m.GradeLevel == filter.GradeLevel {
				filtered = append(filtered, m)
			}
		}
		mats = filtered
	}
	// materials with search keyword matching Title, Description or any tag ?
	if filter.Search != "" {
		search := strings.ToLower(filter.Search)
		var filtered []material.Material
		for _, m := range mats {
			if matchesSearch(m, search) {
				filtered = append(filtered, m)
			}
		}
		mats = filtered
	}

	total := len(mats)

	// paginate after counting the total
	if filter.Offset >= total {
		return []material.Material{}, total, nil
	}
	mats = mats[filter.Offset:]
	if filter.Limit > 0 && filter.Limit < len(mats) {
		mats = mats[:filter.Limit]
	}
	return mats, total, nil
}

func matchesSearch(m material.Material, search string) bool {
	if strings.Contains(strings.ToLower(m.Title), search) ||
		strings.Contains(strings.ToLower(m.Description), search) {
		return true
	}
	for _, tag := range m.Tags {
		if strings.Contains(strings.ToLower(tag), search) {
			return true
		}
	}
	return false
}

func (repo *materialRepository) GetMaterialByID(id string) (material.Material, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if mat, ok := repo.db.table[id]; ok {
		return *mat, nil
	}
	return material.Material{}, material.ErrNotFound
}

func (repo *materialRepository) IncrementDownloads(id string) (material.Material, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	mat, ok := repo.db.table[id]
	if !ok {
		return material.Material{}, material.ErrNotFound
	}
	mat.Downloads++
	return *mat, nil
}

func (repo *materialRepository) IncrementLikes(id string) (int, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	mat, ok := repo.db.table[id]
	if !ok {
		return 0, material.ErrNotFound
	}
	mat.Likes++
	return mat.Likes, nil
}
