package dummydb

import (
	"sync"

	"github.com/trezcool/kidlearn/core/material"
	"github.com/trezcool/kidlearn/core/user"
)

type (
	DB struct {
		user     *userTable
		material *materialTable
	}

	userTable struct {
		sync.RWMutex
		pkCount int
		table   map[string]*user.User
		order   []string // IDs in insertion order
	}

	materialTable struct {
		sync.RWMutex
		pkCount int
		table   map[string]*material.Material
		order   []string // IDs in insertion order
	}
)

func Open() (*DB, error) {
	db := &DB{
		user:     &userTable{table: make(map[string]*user.User)},
		material: &materialTable{table: make(map[string]*material.Material)},
	}
	return db, nil
}
