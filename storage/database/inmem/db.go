package inmemdb

import (
	"sync"

	"github.com/mwalimu/ratiba/core/post"
)

type (
	DB struct {
		post *postTable
	}

	postTable struct {
		sync.RWMutex
		table map[string]*post.Post
	}
)

func Open() (*DB, error) {
	db := &DB{
		post: &postTable{table: make(map[string]*post.Post)},
	}
	return db, nil
}
