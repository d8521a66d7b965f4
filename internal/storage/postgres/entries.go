package postgres

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/julianstephens/thrift/internal/models"
)

const entryColumns = "id, name, amount, category, timestamp"

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(row scanner) (models.Entry, error) {
	var e models.Entry
	if err := row.Scan(&e.ID, &e.Name, &e.Amount, &e.Category, &e.Timestamp); err != nil {
		return models.Entry{}, err
	}
	e.Timestamp = e.Timestamp.Local()
	return e, nil
}

func (s *Store) AddEntry(entry models.Entry) error {
	_, err := s.db.Exec(
		"INSERT INTO entries ("+entryColumns+") VALUES ($1, $2, $3, $4, $5)",
		entry.ID, entry.Name, entry.Amount, entry.Category, entry.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("adding entry %s: %w", entry.ID, err)
	}
	return nil
}

func (s *Store) GetEntry(id string) (models.Entry, error) {
	row := s.db.QueryRow("SELECT "+entryColumns+" FROM entries WHERE id = $1", id)
	e, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Entry{}, fmt.Errorf("entry %s: %w", id, models.ErrNotFound)
	}
	return e, err
}

func (s *Store) GetAllEntries() ([]models.Entry, error) {
	rows, err := s.db.Query("SELECT " + entryColumns + " FROM entries ORDER BY timestamp DESC, name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []models.Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (s *Store) UpdateEntry(entry models.Entry) error {
	res, err := s.db.Exec(
		"UPDATE entries SET name = $1, amount = $2, category = $3, timestamp = $4 WHERE id = $5",
		entry.Name, entry.Amount, entry.Category, entry.Timestamp, entry.ID,
	)
	if err != nil {
		return fmt.Errorf("updating entry %s: %w", entry.ID, err)
	}
	return expectOne(res, "entry", entry.ID)
}

func (s *Store) DeleteEntry(id string) error {
	res, err := s.db.Exec("DELETE FROM entries WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("deleting entry %s: %w", id, err)
	}
	return expectOne(res, "entry", id)
}

func expectOne(res sql.Result, kind, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%s %s: %w", kind, id, models.ErrNotFound)
	}
	return nil
}
