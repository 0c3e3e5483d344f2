package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Simplici0/recipecost/internal/kitchen"
)

const recipeColumns = `id, name, original_yield, yield_unit, prep_minutes, cook_minutes, menu_price, target_food_cost_percent`

func scanRecipe(row scanner) (kitchen.Recipe, error) {
	var r kitchen.Recipe
	err := row.Scan(
		&r.ID,
		&r.Name,
		&r.OriginalYield,
		&r.YieldUnit,
		&r.PrepMinutes,
		&r.CookMinutes,
		&r.MenuPrice,
		&r.TargetFoodCostPercent,
	)
	return r, err
}

// ListRecipes returns recipe headers ordered by name. Lines are not loaded.
func (s *Store) ListRecipes(ctx context.Context) ([]kitchen.Recipe, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+recipeColumns+` FROM recipes ORDER BY name ASC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("query recipes: %w", err)
	}
	defer rows.Close()

	var items []kitchen.Recipe
	for rows.Next() {
		r, err := scanRecipe(rows)
		if err != nil {
			return nil, fmt.Errorf("scan recipe: %w", err)
		}
		items = append(items, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate recipes: %w", err)
	}
	return items, nil
}

// GetRecipe loads a recipe with its lines in order.
func (s *Store) GetRecipe(ctx context.Context, id string) (kitchen.Recipe, error) {
	r, err := scanRecipe(s.db.QueryRowContext(ctx, `SELECT `+recipeColumns+` FROM recipes WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return kitchen.Recipe{}, ErrNotFound
	}
	if err != nil {
		return kitchen.Recipe{}, fmt.Errorf("query recipe %s: %w", id, err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT ingredient_id, name, quantity, usage_unit
		FROM recipe_lines
		WHERE recipe_id = ?
		ORDER BY position ASC
	`, id)
	if err != nil {
		return kitchen.Recipe{}, fmt.Errorf("query recipe lines %s: %w", id, err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			line         kitchen.Line
			ingredientID sql.NullString
		)
		if err := rows.Scan(&ingredientID, &line.Name, &line.Quantity, &line.UsageUnit); err != nil {
			return kitchen.Recipe{}, fmt.Errorf("scan recipe line: %w", err)
		}
		line.IngredientID = ingredientID.String
		r.Lines = append(r.Lines, line)
	}
	if err := rows.Err(); err != nil {
		return kitchen.Recipe{}, fmt.Errorf("iterate recipe lines %s: %w", id, err)
	}
	return r, nil
}

// CreateRecipe inserts r and its lines with a fresh id.
func (s *Store) CreateRecipe(ctx context.Context, r kitchen.Recipe) (kitchen.Recipe, error) {
	r.ID = newID()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return kitchen.Recipe{}, fmt.Errorf("begin recipe transaction: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO recipes (`+recipeColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, r.ID, r.Name, r.OriginalYield, r.YieldUnit, r.PrepMinutes, r.CookMinutes, r.MenuPrice, r.TargetFoodCostPercent); err != nil {
		_ = tx.Rollback()
		return kitchen.Recipe{}, fmt.Errorf("insert recipe: %w", err)
	}
	if err := insertLines(ctx, tx, r.ID, r.Lines); err != nil {
		_ = tx.Rollback()
		return kitchen.Recipe{}, err
	}

	if err := tx.Commit(); err != nil {
		return kitchen.Recipe{}, fmt.Errorf("commit recipe transaction: %w", err)
	}
	return r, nil
}

// UpdateRecipe overwrites the recipe header and replaces all of its lines
// in one transaction.
func (s *Store) UpdateRecipe(ctx context.Context, r kitchen.Recipe) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin recipe transaction: %w", err)
	}

	result, err := tx.ExecContext(ctx, `
		UPDATE recipes
		SET
			name = ?,
			original_yield = ?,
			yield_unit = ?,
			prep_minutes = ?,
			cook_minutes = ?,
			menu_price = ?,
			target_food_cost_percent = ?,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, r.Name, r.OriginalYield, r.YieldUnit, r.PrepMinutes, r.CookMinutes, r.MenuPrice, r.TargetFoodCostPercent, r.ID)
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("update recipe %s: %w", r.ID, err)
	}
	if err := expectAffected(result, "recipe", r.ID); err != nil {
		_ = tx.Rollback()
		return err
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM recipe_lines WHERE recipe_id = ?`, r.ID); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("delete recipe lines %s: %w", r.ID, err)
	}
	if err := insertLines(ctx, tx, r.ID, r.Lines); err != nil {
		_ = tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit recipe transaction: %w", err)
	}
	return nil
}

func insertLines(ctx context.Context, tx *sql.Tx, recipeID string, lines []kitchen.Line) error {
	for i, line := range lines {
		var ingredientID sql.NullString
		if !line.Provisional() {
			ingredientID = sql.NullString{String: line.IngredientID, Valid: true}
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO recipe_lines (recipe_id, position, ingredient_id, name, quantity, usage_unit)
			VALUES (?, ?, ?, ?, ?, ?)
		`, recipeID, i, ingredientID, line.Name, line.Quantity, line.UsageUnit); err != nil {
			return fmt.Errorf("insert recipe line %d: %w", i, err)
		}
	}
	return nil
}
