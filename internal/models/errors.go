package models

import "errors"

var (
	ErrEmptyName         = errors.New("empty name")
	ErrInvalidAmount     = errors.New("amount must be a positive number")
	ErrEmptyCategory     = errors.New("empty category")
	ErrInvalidTarget     = errors.New("target amount must be a positive number")
	ErrInvalidKind       = errors.New("kind must be saved or wasted")
	ErrInvalidCurrency   = errors.New("unknown currency code")
	ErrInvalidLanguage   = errors.New("unsupported language")
	ErrNotFound          = errors.New("not found")
	ErrDuplicateCategory = errors.New("category already exists")
)
