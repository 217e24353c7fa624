// Package compositions stores user-built team compositions.
package compositions

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"tacticshub/pkg/models"
)

type Repo struct {
	DB *sql.DB
}

func NewRepo(db *sql.DB) *Repo {
	return &Repo{DB: db}
}

// Query filters List. PublicOnly wins over UserID.
type Query struct {
	UserID     string
	PublicOnly bool
}

const columns = `id, user_id, author, name, description, units, rating, is_public, created_at, updated_at`

type scanner interface {
	Scan(dest ...any) error
}

func scan(s scanner) (models.Composition, error) {
	var (
		c           models.Composition
		description sql.NullString
		unitsJSON   string
		rating      sql.NullString
		created     time.Time
		updated     time.Time
	)
	if err := s.Scan(&c.ID, &c.UserID, &c.Author, &c.Name, &description, &unitsJSON, &rating, &c.IsPublic, &created, &updated); err != nil {
		return c, err
	}
	c.Description = description.String
	c.Rating = models.Rating(rating.String)
	c.CreatedAt = created
	c.UpdatedAt = updated
	_ = json.Unmarshal([]byte(unitsJSON), &c.Units)
	if c.Units == nil {
		c.Units = []models.BoardUnit{}
	}
	return c, nil
}

func (r *Repo) List(ctx context.Context, q Query) ([]models.Composition, error) {
	sqlStr := `SELECT ` + columns + ` FROM compositions`
	var args []any
	switch {
	case q.PublicOnly:
		sqlStr += ` WHERE is_public = 1`
	case q.UserID != "":
		sqlStr += ` WHERE user_id = ?`
		args = append(args, q.UserID)
	}
	sqlStr += ` ORDER BY created_at DESC, id ASC`

	rows, err := r.DB.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("list compositions: %w", err)
	}
	defer rows.Close()

	out := []models.Composition{}
	for rows.Next() {
		c, err := scan(rows)
		if err != nil {
			return nil, fmt.Errorf("scan composition: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows err: %w", err)
	}
	return out, nil
}

func (r *Repo) Get(ctx context.Context, id string) (*models.Composition, error) {
	row := r.DB.QueryRowContext(ctx, `SELECT `+columns+` FROM compositions WHERE id = ?`, id)
	c, err := scan(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get composition: %w", err)
	}
	return &c, nil
}

func (r *Repo) Create(ctx context.Context, c models.Composition) error {
	units, err := json.Marshal(c.Units)
	if err != nil {
		return fmt.Errorf("encode units: %w", err)
	}
	_, err = r.DB.ExecContext(ctx, `
		INSERT INTO compositions (id, user_id, author, name, description, units, rating, is_public, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, c.ID, c.UserID, c.Author, c.Name, nullable(c.Description), string(units), nullable(string(c.Rating)), c.IsPublic, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create composition: %w", err)
	}
	return nil
}

// Update rewrites every editable field. Owner and author never change.
func (r *Repo) Update(ctx context.Context, c models.Composition) (bool, error) {
	units, err := json.Marshal(c.Units)
	if err != nil {
		return false, fmt.Errorf("encode units: %w", err)
	}
	res, err := r.DB.ExecContext(ctx, `
		UPDATE compositions
		SET name = ?, description = ?, units = ?, rating = ?, is_public = ?, updated_at = ?
		WHERE id = ?
	`, c.Name, nullable(c.Description), string(units), nullable(string(c.Rating)), c.IsPublic, c.UpdatedAt, c.ID)
	if err != nil {
		return false, fmt.Errorf("update composition: %w", err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

func (r *Repo) Delete(ctx context.Context, id string) (bool, error) {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM compositions WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("delete composition: %w", err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
