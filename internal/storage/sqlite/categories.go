package sqlite

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/julianstephens/thrift/internal/models"
)

func (s *Store) AddCategory(category models.Category) error {
	res, err := s.db.Exec(
		"INSERT INTO categories (id, name) VALUES (?, ?) ON CONFLICT(name) DO NOTHING",
		category.ID, category.Name,
	)
	if err != nil {
		return fmt.Errorf("adding category %q: %w", category.Name, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("category %q: %w", category.Name, models.ErrDuplicateCategory)
	}
	return nil
}

func (s *Store) GetCategoryByName(name string) (models.Category, error) {
	var c models.Category
	err := s.db.QueryRow("SELECT id, name FROM categories WHERE name = ?", name).Scan(&c.ID, &c.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Category{}, fmt.Errorf("category %q: %w", name, models.ErrNotFound)
	}
	return c, err
}

func (s *Store) GetAllCategories() ([]models.Category, error) {
	rows, err := s.db.Query("SELECT id, name FROM categories ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []models.Category
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

// DeleteCategory removes the label from the registry. Entries keep their copy.
func (s *Store) DeleteCategory(id string) error {
	res, err := s.db.Exec("DELETE FROM categories WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting category %s: %w", id, err)
	}
	return expectOne(res, "category", id)
}
