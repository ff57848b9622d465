package config

import (
	"fmt"
	"os"
	"strings"
)

type StoreKind string

const (
	MemoryStore   StoreKind = "memory"
	SQLiteStore   StoreKind = "sqlite"
	PostgresStore StoreKind = "postgres"
)

type Store struct {
	Kind       StoreKind
	SQLitePath string
}

func NewStore() (*Store, error) {
	kind := MemoryStore
	if s, ok := os.LookupEnv("STORE"); ok {
		kind = StoreKind(strings.ToLower(strings.TrimSpace(s)))
	}

	cfg := &Store{Kind: kind}
	switch kind {
	case MemoryStore, PostgresStore:
	case SQLiteStore:
		path, ok := os.LookupEnv("SQLITE_PATH")
		if !ok {
			return nil, fmt.Errorf("no SQLITE_PATH env variable set")
		}
		cfg.SQLitePath = path
	default:
		return nil, fmt.Errorf("unknown STORE %q", kind)
	}
	return cfg, nil
}
