package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/omnisaude/saude-api/internal/model"
)

func (r *professionalRepository) Create(ctx context.Context, professional *model.Professional) error {
	query := `
		INSERT INTO professionals (
			id, name, specialty, registration, email, phone,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	professional.ID = uuid.New()
	professional.CreatedAt = time.Now()
	professional.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		professional.ID,
		professional.Name,
		professional.Specialty,
		professional.Registration,
		professional.Email,
		professional.Phone,
		professional.CreatedAt,
		professional.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create professional: %w", err)
	}
	return nil
}

func (r *professionalRepository) Get(ctx context.Context, id uuid.UUID) (*model.Professional, error) {
	query := `
		SELECT id, name, specialty, registration, email, phone,
			   created_at, updated_at
		FROM professionals
		WHERE id = $1
	`
	var professional model.Professional
	if err := r.db.GetContext(ctx, &professional, query, id); err != nil {
		return nil, fmt.Errorf("failed to get professional: %w", err)
	}
	return &professional, nil
}

func (r *professionalRepository) Update(ctx context.Context, professional *model.Professional) error {
	query := `
		UPDATE professionals
		SET name = $1, specialty = $2, email = $3, phone = $4, updated_at = $5
		WHERE id = $6
	`
	professional.UpdatedAt = time.Now()

	result, err := r.db.ExecContext(ctx, query,
		professional.Name,
		professional.Specialty,
		professional.Email,
		professional.Phone,
		professional.UpdatedAt,
		professional.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update professional: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("failed to update professional: %w", sql.ErrNoRows)
	}

	return nil
}

func (r *professionalRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `
		DELETE FROM professionals
		WHERE id = $1
	`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete professional: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("failed to delete professional: %w", sql.ErrNoRows)
	}

	return nil
}

func (r *professionalRepository) List(ctx context.Context, filters *model.ProfessionalFilters) ([]*model.Professional, error) {
	query := `
		SELECT id, name, specialty, registration, email, phone,
			   created_at, updated_at
		FROM professionals
		WHERE 1=1
	`
	args := []interface{}{}
	argCount := 1

	if filters != nil {
		if filters.Specialty != "" {
			query += fmt.Sprintf(" AND specialty = $%d", argCount)
			args = append(args, filters.Specialty)
			argCount++
		}
		if filters.SearchTerm != "" {
			query += fmt.Sprintf(" AND name ILIKE $%d", argCount)
			args = append(args, "%"+filters.SearchTerm+"%")
			argCount++
		}
	}

	query += " ORDER BY name ASC"

	var professionals []*model.Professional
	if err := r.db.SelectContext(ctx, &professionals, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list professionals: %w", err)
	}
	return professionals, nil
}
