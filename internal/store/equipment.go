package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Simplici0/recipecost/internal/kitchen"
)

// ListEquipment returns all equipment ordered by name.
func (s *Store) ListEquipment(ctx context.Context) ([]kitchen.Equipment, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, capacity, capacity_unit
		FROM equipment
		ORDER BY name ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query equipment: %w", err)
	}
	defer rows.Close()

	var items []kitchen.Equipment
	for rows.Next() {
		var eq kitchen.Equipment
		if err := rows.Scan(&eq.ID, &eq.Name, &eq.Capacity, &eq.CapacityUnit); err != nil {
			return nil, fmt.Errorf("scan equipment: %w", err)
		}
		items = append(items, eq)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate equipment: %w", err)
	}
	return items, nil
}

// GetEquipment loads one piece of equipment.
func (s *Store) GetEquipment(ctx context.Context, id string) (kitchen.Equipment, error) {
	var eq kitchen.Equipment
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, capacity, capacity_unit
		FROM equipment
		WHERE id = ?
	`, id).Scan(&eq.ID, &eq.Name, &eq.Capacity, &eq.CapacityUnit)
	if errors.Is(err, sql.ErrNoRows) {
		return kitchen.Equipment{}, ErrNotFound
	}
	if err != nil {
		return kitchen.Equipment{}, fmt.Errorf("query equipment %s: %w", id, err)
	}
	return eq, nil
}

// CreateEquipment inserts eq with a fresh id. Names are unique.
func (s *Store) CreateEquipment(ctx context.Context, eq kitchen.Equipment) (kitchen.Equipment, error) {
	var exists bool
	if err := s.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM equipment WHERE name = ? LIMIT 1)`, eq.Name).Scan(&exists); err != nil {
		return kitchen.Equipment{}, fmt.Errorf("check equipment %q existence: %w", eq.Name, err)
	}
	if exists {
		return kitchen.Equipment{}, &kitchen.FieldError{
			Field: "name",
			Err:   fmt.Errorf("%w: equipment %q already exists", kitchen.ErrInvalidRecord, eq.Name),
		}
	}

	eq.ID = newID()
	if _, err := s.db.ExecContext(ctx, `
		INSERT INTO equipment (id, name, capacity, capacity_unit)
		VALUES (?, ?, ?, ?)
	`, eq.ID, eq.Name, eq.Capacity, eq.CapacityUnit); err != nil {
		return kitchen.Equipment{}, fmt.Errorf("insert equipment: %w", err)
	}
	return eq, nil
}
