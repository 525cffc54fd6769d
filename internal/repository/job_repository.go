package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/tvermeulen/Portfolio-Rebuild-Backend/internal/apperrors"
	"github.com/tvermeulen/Portfolio-Rebuild-Backend/internal/model"
)

// JobRepository provides data access methods for the rebuild_job table.
type JobRepository struct {
	db *sql.DB
}

// NewJobRepository creates a new JobRepository with the provided database connection.
func NewJobRepository(db *sql.DB) *JobRepository {
	return &JobRepository{db: db}
}

// Create persists a new rebuild job.
func (r *JobRepository) Create(job model.RebuildJob) error {
	query := `
		INSERT INTO rebuild_job (id, fund, start_date, status, message)
		VALUES (?, ?, ?, ?, ?)
	`
	_, err := r.db.Exec(query,
		job.ID,
		job.Fund,
		job.StartDate.UTC().Format("2006-01-02"),
		job.Status,
		job.Message,
	)
	if err != nil {
		return fmt.Errorf("failed to insert rebuild job: %w", err)
	}
	return nil
}

// UpdateStatus moves a job to a new status with a human-readable message.
func (r *JobRepository) UpdateStatus(id, status, message string) error {
	query := `
		UPDATE rebuild_job
		SET status = ?, message = ?, updated_at = ?
		WHERE id = ?
	`
	result, err := r.db.Exec(query, status, message, time.Now().UTC().Format(timeFormat), id)
	if err != nil {
		return fmt.Errorf("failed to update rebuild job: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rebuild job update: %w", err)
	}
	if affected == 0 {
		return apperrors.ErrJobNotFound
	}
	return nil
}

// Get retrieves a rebuild job by ID.
func (r *JobRepository) Get(id string) (model.RebuildJob, error) {
	query := `
		SELECT id, fund, start_date, status, message, created_at, updated_at
		FROM rebuild_job
		WHERE id = ?
	`

	var job model.RebuildJob
	var startStr, createdStr, updatedStr string
	var message sql.NullString

	err := r.db.QueryRow(query, id).Scan(
		&job.ID,
		&job.Fund,
		&startStr,
		&job.Status,
		&message,
		&createdStr,
		&updatedStr,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return model.RebuildJob{}, apperrors.ErrJobNotFound
	}
	if err != nil {
		return model.RebuildJob{}, fmt.Errorf("failed to query rebuild job: %w", err)
	}

	job.Message = message.String
	if job.StartDate, err = ParseTime(startStr); err != nil {
		return model.RebuildJob{}, err
	}
	if job.CreatedAt, err = ParseTime(createdStr); err != nil {
		return model.RebuildJob{}, err
	}
	if job.UpdatedAt, err = ParseTime(updatedStr); err != nil {
		return model.RebuildJob{}, err
	}

	return job, nil
}
