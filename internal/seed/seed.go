package seed

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/Simplici0/recipecost/internal/kitchen"
)

// DefaultEquipment is what a fresh kitchen starts with.
var DefaultEquipment = []kitchen.Equipment{
	{Name: "20 lb mixer", Capacity: 20, CapacityUnit: "lb"},
	{Name: "40 qt kettle", Capacity: 40, CapacityUnit: "qt"},
	{Name: "Deck oven", Capacity: 12, CapacityUnit: "each"},
}

// Stats contains seed operation counters.
type Stats struct {
	Inserts int
}

// Run executes the startup seed in an idempotent way. Equipment is matched
// by name; an existing row with a different capacity is left alone.
func Run(db *sql.DB) (Stats, error) {
	tx, err := db.Begin()
	if err != nil {
		return Stats{}, fmt.Errorf("begin seed transaction: %w", err)
	}

	stats := Stats{}

	for _, eq := range DefaultEquipment {
		if err := ensureEquipment(tx, eq, &stats); err != nil {
			_ = tx.Rollback()
			return Stats{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		return Stats{}, fmt.Errorf("commit seed transaction: %w", err)
	}

	return stats, nil
}

func ensureEquipment(tx *sql.Tx, eq kitchen.Equipment, stats *Stats) error {
	var exists bool
	if err := tx.QueryRow(`SELECT EXISTS(SELECT 1 FROM equipment WHERE name = ? LIMIT 1)`, eq.Name).Scan(&exists); err != nil {
		return fmt.Errorf("check equipment %q existence: %w", eq.Name, err)
	}
	if exists {
		return nil
	}

	if _, err := tx.Exec(`
		INSERT INTO equipment (id, name, capacity, capacity_unit)
		VALUES (?, ?, ?, ?)
	`, uuid.NewString(), eq.Name, eq.Capacity, eq.CapacityUnit); err != nil {
		return fmt.Errorf("insert equipment %q: %w", eq.Name, err)
	}
	stats.Inserts++
	return nil
}
