package orm

import (
	"github.com/glebarez/sqlite"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/pescuma/cheeky/lib/storages"
)

const InMemory = ":memory:"

func WithSqlite(file string) gorm.Dialector {
	return sqlite.Open(file + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
}

func WithSqliteInMemory() gorm.Dialector {
	return sqlite.Open(InMemory)
}

// NewSqliteStorage opens the workspace database at path, or a private in memory one when path is InMemory.
func NewSqliteStorage(path string, logger zerolog.Logger) (storages.Storage, error) {
	if path == "" || path == InMemory {
		return NewGormStorage(WithSqliteInMemory(), logger, 1)
	}

	return NewGormStorage(WithSqlite(path), logger, 0)
}
