package sqlite

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/julianstephens/thrift/internal/models"
)

const goalColumns = "id, name, description, target_amount, created_at, counts_from"

func scanGoal(row scanner) (models.Goal, error) {
	var g models.Goal
	var created, from string
	if err := row.Scan(&g.ID, &g.Name, &g.Description, &g.TargetAmount, &created, &from); err != nil {
		return models.Goal{}, err
	}

	var err error
	if g.CreatedAt, err = parseTime(created); err != nil {
		return models.Goal{}, err
	}
	if g.CountsFrom, err = parseTime(from); err != nil {
		return models.Goal{}, err
	}
	return g, nil
}

func (s *Store) AddGoal(goal models.Goal) error {
	_, err := s.db.Exec(
		"INSERT INTO goals ("+goalColumns+") VALUES (?, ?, ?, ?, ?, ?)",
		goal.ID, goal.Name, goal.Description, goal.TargetAmount.String(),
		formatTime(goal.CreatedAt), formatTime(goal.CountsFrom),
	)
	if err != nil {
		return fmt.Errorf("adding goal %s: %w", goal.ID, err)
	}
	return nil
}

func (s *Store) GetGoal(id string) (models.Goal, error) {
	row := s.db.QueryRow("SELECT "+goalColumns+" FROM goals WHERE id = ?", id)
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
	res, err := s.db.Exec(
		`UPDATE goals SET name = ?, description = ?, target_amount = ?, created_at = ?, counts_from = ?
		 WHERE id = ?`,
		goal.Name, goal.Description, goal.TargetAmount.String(),
		formatTime(goal.CreatedAt), formatTime(goal.CountsFrom), goal.ID,
	)
	if err != nil {
		return fmt.Errorf("updating goal %s: %w", goal.ID, err)
	}
	return expectOne(res, "goal", goal.ID)
}

func (s *Store) DeleteGoal(id string) error {
	res, err := s.db.Exec("DELETE FROM goals WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting goal %s: %w", id, err)
	}
	return expectOne(res, "goal", id)
}
