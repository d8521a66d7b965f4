package storage

import "github.com/julianstephens/thrift/internal/models"

type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Settings
	GetSettings() (models.Settings, error)
	SaveSettings(models.Settings) error

	// Entries
	AddEntry(models.Entry) error
	GetEntry(id string) (models.Entry, error)
	// GetAllEntries returns every entry, newest first.
	GetAllEntries() ([]models.Entry, error)
	// UpdateEntry replaces every field of the entry with the same ID.
	UpdateEntry(models.Entry) error
	DeleteEntry(id string) error

	// Goals
	AddGoal(models.Goal) error
	GetGoal(id string) (models.Goal, error)
	GetAllGoals() ([]models.Goal, error)
	UpdateGoal(models.Goal) error
	DeleteGoal(id string) error

	// Categories. Names are unique; AddCategory returns
	// models.ErrDuplicateCategory for a name already present.
	AddCategory(models.Category) error
	GetCategoryByName(name string) (models.Category, error)
	GetAllCategories() ([]models.Category, error)
	DeleteCategory(id string) error

	// Schema
	// Migrate applies pending migrations and returns how many ran.
	Migrate(logFn func(string)) (int, error)
	SchemaVersion() (uint, error)
	LatestSchemaVersion() (uint, error)

	// Utils
	GetConfigPath() string
}
