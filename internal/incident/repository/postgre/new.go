package postgres

import (
	"database/sql"
	"time"

	"github.com/LafyOjo/APIShield-Plus-sub000/internal/incident/repository"
	pkgLog "github.com/LafyOjo/APIShield-Plus-sub000/pkg/log"
)

type implRepository struct {
	l     pkgLog.Logger
	db    *sql.DB
	clock func() time.Time
}

var _ repository.Repository = &implRepository{}

func New(l pkgLog.Logger, db *sql.DB) *implRepository {
	return &implRepository{
		l:     l,
		db:    db,
		clock: time.Now,
	}
}
