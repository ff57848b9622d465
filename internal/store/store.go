// Package store holds the key/value backends used to keep saved games.
// Values are opaque strings; the engine decides what goes in them.
package store

import (
	"context"
	"errors"
)

var (
	ErrBadName  = errors.New("bad name for store")
	ErrNotFound = errors.New("value not found")
)

// Store is a string key/value store. Get returns [ErrNotFound] when key is
// absent. Delete does not fail on missing keys.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

func isLetter(c rune) bool {
	return 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z' || c == '_'
}

// validName reports whether name may be spliced into SQL as a table name.
func validName(name string) bool {
	if name == "" {
		return false
	}
	for _, c := range name {
		if !isLetter(c) {
			return false
		}
	}
	return true
}
