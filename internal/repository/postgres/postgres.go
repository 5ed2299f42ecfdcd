package postgres

import (
	"github.com/jmoiron/sqlx"

	"reminderd/internal/repository"
)

type reminderRepository struct {
	db *sqlx.DB
}

func NewReminderRepository(db *sqlx.DB) repository.ReminderRepository {
	return &reminderRepository{db: db}
}
