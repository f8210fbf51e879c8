package postgres

import (
	"database/sql"

	"github.com/LafyOjo/APIShield-Plus-sub000/internal/analytics/repository"
	pkgLog "github.com/LafyOjo/APIShield-Plus-sub000/pkg/log"
)

type implRepository struct {
	l  pkgLog.Logger
	db *sql.DB
}

var _ repository.Repository = &implRepository{}

func New(l pkgLog.Logger, db *sql.DB) *implRepository {
	return &implRepository{
		l:  l,
		db: db,
	}
}
