package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/omnisaude/saude-api/internal/model"
)

func (r *eventRepository) Create(ctx context.Context, event *model.HealthEvent) error {
	defer r.observe("create", time.Now())

	query := `
		INSERT INTO health_events (
			id, user_id, professional_id, date,
			start_time, end_time, type, title, description,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	event.CreatedAt = time.Now()
	event.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		event.ID,
		event.UserID,
		event.ProfessionalID,
		event.Date,
		event.StartTime,
		event.EndTime,
		event.Type,
		event.Title,
		event.Description,
		event.CreatedAt,
		event.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create event: %w", err)
	}
	return nil
}

func (r *eventRepository) Get(ctx context.Context, id uuid.UUID) (*model.HealthEvent, error) {
	defer r.observe("get", time.Now())

	query := `
		SELECT id, user_id, professional_id, date,
			   start_time, end_time, type, title, description,
			   created_at, updated_at
		FROM health_events
		WHERE id = $1
	`
	var event model.HealthEvent
	if err := r.db.GetContext(ctx, &event, query, id); err != nil {
		return nil, fmt.Errorf("failed to get event: %w", err)
	}

	files, err := r.GetFiles(ctx, id)
	if err != nil {
		return nil, err
	}
	event.Files = toFileValues(files)

	return &event, nil
}

func (r *eventRepository) Update(ctx context.Context, id uuid.UUID, patch *model.UpdateEventRequest) (*model.HealthEvent, error) {
	defer r.observe("update", time.Now())

	sets := []string{}
	args := []interface{}{}
	argCount := 1

	addSet := func(column string, value interface{}) {
		sets = append(sets, fmt.Sprintf("%s = $%d", column, argCount))
		args = append(args, value)
		argCount++
	}

	if patch.StartTime != nil {
		addSet("start_time", *patch.StartTime)
	}
	if patch.EndTime != nil {
		addSet("end_time", *patch.EndTime)
	}
	if patch.Type != nil {
		addSet("type", *patch.Type)
	}
	if patch.Title != nil {
		addSet("title", *patch.Title)
	}
	if patch.Description != nil {
		addSet("description", *patch.Description)
	}
	addSet("updated_at", time.Now())

	query := fmt.Sprintf("UPDATE health_events SET %s WHERE id = $%d", strings.Join(sets, ", "), argCount)
	args = append(args, id)

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to update event: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return nil, fmt.Errorf("failed to update event: %w", sql.ErrNoRows)
	}

	return r.Get(ctx, id)
}

func (r *eventRepository) Delete(ctx context.Context, id uuid.UUID) error {
	defer r.observe("delete", time.Now())

	query := `
		DELETE FROM health_events
		WHERE id = $1
	`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete event: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("failed to delete event: %w", sql.ErrNoRows)
	}

	return nil
}

func (r *eventRepository) FindByDateAndProfessional(ctx context.Context, date string, professionalID uuid.UUID, excludeID *uuid.UUID) ([]*model.HealthEvent, error) {
	defer r.observe("find_by_date_professional", time.Now())

	query := `
		SELECT id, user_id, professional_id, date,
			   start_time, end_time, type, title, description,
			   created_at, updated_at
		FROM health_events
		WHERE date = $1 AND professional_id = $2
	`
	args := []interface{}{date, professionalID}

	if excludeID != nil {
		query += " AND id != $3"
		args = append(args, *excludeID)
	}

	query += " ORDER BY start_time ASC"

	var events []*model.HealthEvent
	if err := r.db.SelectContext(ctx, &events, query, args...); err != nil {
		return nil, fmt.Errorf("failed to find events: %w", err)
	}
	return events, nil
}

func (r *eventRepository) FindByUser(ctx context.Context, userID uuid.UUID) ([]*model.HealthEvent, error) {
	query := `
		SELECT id, user_id, professional_id, date,
			   start_time, end_time, type, title, description,
			   created_at, updated_at
		FROM health_events
		WHERE user_id = $1
		ORDER BY date ASC, start_time ASC
	`
	var events []*model.HealthEvent
	if err := r.db.SelectContext(ctx, &events, query, userID); err != nil {
		return nil, fmt.Errorf("failed to list user events: %w", err)
	}

	for _, event := range events {
		files, err := r.GetFiles(ctx, event.ID)
		if err != nil {
			return nil, err
		}
		event.Files = toFileValues(files)
	}
	return events, nil
}

func (r *eventRepository) FindByDate(ctx context.Context, date string) ([]*model.HealthEvent, error) {
	query := `
		SELECT id, user_id, professional_id, date,
			   start_time, end_time, type, title, description,
			   created_at, updated_at
		FROM health_events
		WHERE date = $1
		ORDER BY start_time ASC
	`
	var events []*model.HealthEvent
	if err := r.db.SelectContext(ctx, &events, query, date); err != nil {
		return nil, fmt.Errorf("failed to list events by date: %w", err)
	}
	return events, nil
}

func (r *eventRepository) AddFile(ctx context.Context, file *model.EventFile) error {
	query := `
		INSERT INTO event_files (id, event_id, name, url, public_id, size, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	if file.ID == uuid.Nil {
		file.ID = uuid.New()
	}
	file.CreatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		file.ID,
		file.EventID,
		file.Name,
		file.URL,
		file.PublicID,
		file.Size,
		file.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to add event file: %w", err)
	}
	return nil
}

func (r *eventRepository) GetFiles(ctx context.Context, eventID uuid.UUID) ([]*model.EventFile, error) {
	query := `
		SELECT id, event_id, name, url, public_id, size, created_at
		FROM event_files
		WHERE event_id = $1
		ORDER BY created_at ASC
	`
	var files []*model.EventFile
	if err := r.db.SelectContext(ctx, &files, query, eventID); err != nil {
		return nil, fmt.Errorf("failed to get event files: %w", err)
	}
	return files, nil
}

func (r *eventRepository) DeleteFile(ctx context.Context, fileID uuid.UUID) error {
	query := `
		DELETE FROM event_files
		WHERE id = $1
	`
	if _, err := r.db.ExecContext(ctx, query, fileID); err != nil {
		return fmt.Errorf("failed to delete event file: %w", err)
	}
	return nil
}

func toFileValues(files []*model.EventFile) []model.EventFile {
	out := make([]model.EventFile, 0, len(files))
	for _, f := range files {
		if f != nil {
			out = append(out, *f)
		}
	}
	return out
}
