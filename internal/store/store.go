// Package store persists the kitchen catalog in SQLite. It stores records
// as they were validated by the kitchen constructors and never computes
// costs itself.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/Simplici0/recipecost/internal/kitchen"
)

// ErrNotFound is returned when a record id does not exist.
var ErrNotFound = errors.New("record not found")

// Store is the SQLite-backed repository.
type Store struct {
	db *sql.DB
}

// New wraps an open, migrated database.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func newID() string {
	return uuid.NewString()
}

type scanner interface {
	Scan(dest ...any) error
}

const ingredientColumns = `id, name, supplier_id, ap_unit, price_mode, ap_cost, ap_quantity, yield_percent, ep_unit`

func scanIngredient(row scanner) (kitchen.Ingredient, error) {
	var (
		ing  kitchen.Ingredient
		mode string
	)
	if err := row.Scan(
		&ing.ID,
		&ing.Name,
		&ing.SupplierID,
		&ing.APUnit,
		&mode,
		&ing.Price.Amount,
		&ing.Price.Quantity,
		&ing.YieldPercent,
		&ing.EPUnit,
	); err != nil {
		return kitchen.Ingredient{}, err
	}
	m, err := parsePriceMode(mode)
	if err != nil {
		return kitchen.Ingredient{}, fmt.Errorf("ingredient %s: %w", ing.ID, err)
	}
	ing.Price.Mode = m
	return ing, nil
}

func parsePriceMode(s string) (kitchen.PriceMode, error) {
	switch s {
	case kitchen.PriceTotal.String():
		return kitchen.PriceTotal, nil
	case kitchen.PricePerUnit.String():
		return kitchen.PricePerUnit, nil
	default:
		return 0, fmt.Errorf("unknown price mode %q", s)
	}
}

// ListIngredients returns every ingredient ordered by name.
func (s *Store) ListIngredients(ctx context.Context) ([]kitchen.Ingredient, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+ingredientColumns+` FROM ingredients ORDER BY name ASC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("query ingredients: %w", err)
	}
	defer rows.Close()

	var items []kitchen.Ingredient
	for rows.Next() {
		ing, err := scanIngredient(rows)
		if err != nil {
			return nil, fmt.Errorf("scan ingredient: %w", err)
		}
		items = append(items, ing)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate ingredients: %w", err)
	}
	return items, nil
}

// GetIngredient loads one ingredient.
func (s *Store) GetIngredient(ctx context.Context, id string) (kitchen.Ingredient, error) {
	ing, err := scanIngredient(s.db.QueryRowContext(ctx, `SELECT `+ingredientColumns+` FROM ingredients WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return kitchen.Ingredient{}, ErrNotFound
	}
	if err != nil {
		return kitchen.Ingredient{}, fmt.Errorf("query ingredient %s: %w", id, err)
	}
	return ing, nil
}

// CreateIngredient inserts ing with a fresh id and returns the stored copy.
func (s *Store) CreateIngredient(ctx context.Context, ing kitchen.Ingredient) (kitchen.Ingredient, error) {
	ing.ID = newID()
	if _, err := s.db.ExecContext(ctx, `
		INSERT INTO ingredients (`+ingredientColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, ing.ID, ing.Name, ing.SupplierID, ing.APUnit, ing.Price.Mode.String(), ing.Price.Amount, ing.Price.Quantity, ing.YieldPercent, ing.EPUnit); err != nil {
		return kitchen.Ingredient{}, fmt.Errorf("insert ingredient: %w", err)
	}
	return ing, nil
}

// UpdateIngredient overwrites the ingredient with ing.ID.
func (s *Store) UpdateIngredient(ctx context.Context, ing kitchen.Ingredient) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE ingredients
		SET
			name = ?,
			supplier_id = ?,
			ap_unit = ?,
			price_mode = ?,
			ap_cost = ?,
			ap_quantity = ?,
			yield_percent = ?,
			ep_unit = ?,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, ing.Name, ing.SupplierID, ing.APUnit, ing.Price.Mode.String(), ing.Price.Amount, ing.Price.Quantity, ing.YieldPercent, ing.EPUnit, ing.ID)
	if err != nil {
		return fmt.Errorf("update ingredient %s: %w", ing.ID, err)
	}
	return expectAffected(result, "ingredient", ing.ID)
}

// Pantry snapshots the whole ingredient table for one costing pass.
func (s *Store) Pantry(ctx context.Context) (*kitchen.Pantry, error) {
	items, err := s.ListIngredients(ctx)
	if err != nil {
		return nil, err
	}
	return kitchen.NewPantry(items...), nil
}

func expectAffected(result sql.Result, kind, id string) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("read affected rows for %s %s: %w", kind, id, err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
