package models

// Category is a label in the category registry. Entries copy the name, so
// removing a category leaves existing entries untouched.
type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
