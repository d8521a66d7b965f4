package postgres

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/julianstephens/thrift/internal/models"
)

const goalColumns = "id, name, description, target_amount, created_at, counts_from"

func scanGoal(row scanner) (models.Goal, error) {
	var g models.Goal
	if err := row.Scan(&g.ID, &g.Name, &g.Description, &g.TargetAmount, &g.CreatedAt, &g.CountsFrom); err != nil {
		return models.Goal{}, err
	}
	g.CreatedAt = g.CreatedAt.Local()
	g.CountsFrom = g.CountsFrom.Local()
	return g, nil
}

func (s *Store) AddGoal(goal models.Goal) error {
	_, err := s.db.Exec(
		"INSERT INTO goals ("+goalColumns+") VALUES ($1, $2, $3, $4, $5, $6)",
		goal.ID, goal.Name, goal.Description, goal.TargetAmount, goal.CreatedAt, goal.CountsFrom,
	)
	if err != nil {
		return fmt.Errorf("adding goal %s: %w", goal.ID, err)
	}
	return nil
}

func (s *Store) GetGoal(id string) (models.Goal, error) {
	row := s.db.QueryRow("SELECT "+goalColumns+" FROM goals WHERE id = $1", id)
	g, err := scanGoal(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Goal{}, fmt.Errorf("goal %s: %w", id, models.ErrNotFound)
	}
	return g, err
}

func (s *Store) GetAllGoals() ([]models.Goal, error) {
	rows, err := s.db.Query("SELECT " + goalColumns + " FROM goals ORDER BY created_at, name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var goals []models.Goal
	for rows.Next() {
		g, err := scanGoal(rows)
		if err != nil {
			return nil, err
		}
		goals = append(goals, g)
	}
	return goals, rows.Err()
}

func (s *Store) UpdateGoal(goal models.Goal) error {
	res, err := s.db.Exec(`
		UPDATE goals SET name = $1, description = $2, target_amount = $3, created_at = $4, counts_from = $5
		WHERE id = $6`,
		goal.Name, goal.Description, goal.TargetAmount, goal.CreatedAt, goal.CountsFrom, goal.ID,
	)
	if err != nil {
		return fmt.Errorf("updating goal %s: %w", goal.ID, err)
	}
	return expectOne(res, "goal", goal.ID)
}

func (s *Store) DeleteGoal(id string) error {
	res, err := s.db.Exec("DELETE FROM goals WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("deleting goal %s: %w", id, err)
	}
	return expectOne(res, "goal", id)
}
