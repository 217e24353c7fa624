// Package catalog stores the administrator-owned reference data: units,
// traits, item components and items.
package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"tacticshub/pkg/models"
)

type Repo struct {
	DB *sql.DB
}

func NewRepo(db *sql.DB) *Repo {
	return &Repo{DB: db}
}

type scanner interface {
	Scan(dest ...any) error
}

// units

func scanUnit(s scanner) (models.Unit, error) {
	var (
		u          models.Unit
		traitsJSON string
	)
	if err := s.Scan(&u.ID, &u.Name, &u.Cost, &u.Image, &traitsJSON); err != nil {
		return u, err
	}
	_ = json.Unmarshal([]byte(traitsJSON), &u.Traits)
	return u, nil
}

func (r *Repo) ListUnits(ctx context.Context) ([]models.Unit, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, name, cost, image, traits
		FROM units
		ORDER BY cost ASC, name ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list units: %w", err)
	}
	defer rows.Close()

	out := []models.Unit{}
	for rows.Next() {
		u, err := scanUnit(rows)
		if err != nil {
			return nil, fmt.Errorf("scan unit: %w", err)
		}
		out = append(out, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows err: %w", err)
	}
	return out, nil
}

func (r *Repo) GetUnit(ctx context.Context, id string) (*models.Unit, error) {
	row := r.DB.QueryRowContext(ctx, `SELECT id, name, cost, image, traits FROM units WHERE id = ?`, id)
	u, err := scanUnit(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get unit: %w", err)
	}
	return &u, nil
}

func (r *Repo) CreateUnit(ctx context.Context, u models.Unit) error {
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO units (id, name, cost, image, traits)
		VALUES (?, ?, ?, ?, ?)
	`, u.ID, u.Name, u.Cost, u.Image, toJSON(u.Traits))
	if err != nil {
		return fmt.Errorf("create unit: %w", err)
	}
	return nil
}

func (r *Repo) UpdateUnit(ctx context.Context, u models.Unit) (bool, error) {
	res, err := r.DB.ExecContext(ctx, `
		UPDATE units
		SET name = ?, cost = ?, image = ?, traits = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, u.Name, u.Cost, u.Image, toJSON(u.Traits), u.ID)
	if err != nil {
		return false, fmt.Errorf("update unit: %w", err)
	}
	return affected(res), nil
}

// traits

func scanTrait(s scanner) (models.Trait, error) {
	var (
		t      models.Trait
		bpJSON string
	)
	if err := s.Scan(&t.ID, &t.Name, &t.Image, &bpJSON); err != nil {
		return t, err
	}
	_ = json.Unmarshal([]byte(bpJSON), &t.Breakpoints)
	return t, nil
}

func (r *Repo) ListTraits(ctx context.Context) ([]models.Trait, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, name, image, breakpoints
		FROM traits
		ORDER BY name ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list traits: %w", err)
	}
	defer rows.Close()

	out := []models.Trait{}
	for rows.Next() {
		t, err := scanTrait(rows)
		if err != nil {
			return nil, fmt.Errorf("scan trait: %w", err)
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows err: %w", err)
	}
	return out, nil
}

func (r *Repo) GetTrait(ctx context.Context, id string) (*models.Trait, error) {
	row := r.DB.QueryRowContext(ctx, `SELECT id, name, image, breakpoints FROM traits WHERE id = ?`, id)
	t, err := scanTrait(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get trait: %w", err)
	}
	return &t, nil
}

func (r *Repo) CreateTrait(ctx context.Context, t models.Trait) error {
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO traits (id, name, image, breakpoints)
		VALUES (?, ?, ?, ?)
	`, t.ID, t.Name, t.Image, toJSON(t.Breakpoints))
	if err != nil {
		return fmt.Errorf("create trait: %w", err)
	}
	return nil
}

func (r *Repo) UpdateTrait(ctx context.Context, t models.Trait) (bool, error) {
	res, err := r.DB.ExecContext(ctx, `
		UPDATE traits
		SET name = ?, image = ?, breakpoints = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, t.Name, t.Image, toJSON(t.Breakpoints), t.ID)
	if err != nil {
		return false, fmt.Errorf("update trait: %w", err)
	}
	return affected(res), nil
}

// components

func scanComponent(s scanner) (models.Component, error) {
	var c models.Component
	err := s.Scan(&c.ID, &c.Name, &c.Image)
	return c, err
}

func (r *Repo) ListComponents(ctx context.Context) ([]models.Component, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT id, name, image FROM components ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("list components: %w", err)
	}
	defer rows.Close()

	out := []models.Component{}
	for rows.Next() {
		c, err := scanComponent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan component: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows err: %w", err)
	}
	return out, nil
}

func (r *Repo) GetComponent(ctx context.Context, id string) (*models.Component, error) {
	row := r.DB.QueryRowContext(ctx, `SELECT id, name, image FROM components WHERE id = ?`, id)
	c, err := scanComponent(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get component: %w", err)
	}
	return &c, nil
}

func (r *Repo) CreateComponent(ctx context.Context, c models.Component) error {
	_, err := r.DB.ExecContext(ctx, `INSERT INTO components (id, name, image) VALUES (?, ?, ?)`, c.ID, c.Name, c.Image)
	if err != nil {
		return fmt.Errorf("create component: %w", err)
	}
	return nil
}

func (r *Repo) UpdateComponent(ctx context.Context, c models.Component) (bool, error) {
	res, err := r.DB.ExecContext(ctx, `
		UPDATE components
		SET name = ?, image = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, c.Name, c.Image, c.ID)
	if err != nil {
		return false, fmt.Errorf("update component: %w", err)
	}
	return affected(res), nil
}

// items

func scanItem(s scanner) (models.Item, error) {
	var (
		it         models.Item
		recipeJSON sql.NullString
	)
	if err := s.Scan(&it.ID, &it.Name, &it.Type, &it.Image, &recipeJSON); err != nil {
		return it, err
	}
	if recipeJSON.Valid {
		_ = json.Unmarshal([]byte(recipeJSON.String), &it.Recipe)
	}
	return it, nil
}

func (r *Repo) ListItems(ctx context.Context) ([]models.Item, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT id, name, type, image, recipe FROM items ORDER BY type ASC, name ASC`)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()

	out := []models.Item{}
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		out = append(out, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows err: %w", err)
	}
	return out, nil
}

func (r *Repo) GetItem(ctx context.Context, id string) (*models.Item, error) {
	row := r.DB.QueryRowContext(ctx, `SELECT id, name, type, image, recipe FROM items WHERE id = ?`, id)
	it, err := scanItem(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get item: %w", err)
	}
	return &it, nil
}

func (r *Repo) CreateItem(ctx context.Context, it models.Item) error {
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO items (id, name, type, image, recipe)
		VALUES (?, ?, ?, ?, ?)
	`, it.ID, it.Name, it.Type, it.Image, recipeValue(it.Recipe))
	if err != nil {
		return fmt.Errorf("create item: %w", err)
	}
	return nil
}

func (r *Repo) UpdateItem(ctx context.Context, it models.Item) (bool, error) {
	res, err := r.DB.ExecContext(ctx, `
		UPDATE items
		SET name = ?, type = ?, image = ?, recipe = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, it.Name, it.Type, it.Image, recipeValue(it.Recipe), it.ID)
	if err != nil {
		return false, fmt.Errorf("update item: %w", err)
	}
	return affected(res), nil
}

// Delete removes one row from a catalog table. table must be one of the
// four catalog collections.
func (r *Repo) Delete(ctx context.Context, table, id string) (bool, error) {
	switch table {
	case "units", "traits", "components", "items":
	default:
		return false, fmt.Errorf("delete: unknown collection %q", table)
	}
	res, err := r.DB.ExecContext(ctx, `DELETE FROM `+table+` WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("delete from %s: %w", table, err)
	}
	return affected(res), nil
}

// Snapshot loads the whole catalog.
func (r *Repo) Snapshot(ctx context.Context) (models.GameData, error) {
	var (
		data models.GameData
		err  error
	)
	if data.Units, err = r.ListUnits(ctx); err != nil {
		return data, err
	}
	if data.Traits, err = r.ListTraits(ctx); err != nil {
		return data, err
	}
	if data.Components, err = r.ListComponents(ctx); err != nil {
		return data, err
	}
	if data.Items, err = r.ListItems(ctx); err != nil {
		return data, err
	}
	return data, nil
}

func toJSON(v any) string {
	b, err := json.Marshal(v)
	if err != nil || string(b) == "null" {
		return "[]"
	}
	return string(b)
}

// recipeValue stores base items with a NULL recipe.
func recipeValue(recipe []string) any {
	if len(recipe) == 0 {
		return nil
	}
	return toJSON(recipe)
}

func affected(res sql.Result) bool {
	n, _ := res.RowsAffected()
	return n > 0
}
