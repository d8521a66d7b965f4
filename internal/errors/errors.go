package errors

import (
	stderrors "errors"
	"fmt"
	"os"

	"github.com/julianstephens/thrift/internal/logger"
	"github.com/julianstephens/thrift/internal/models"
)

// Format formats an error message with a consistent "Error: " prefix
func Format(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Error: %v", err)
}

// Formatf formats an error message with a consistent "Error: " prefix using a format string
func Formatf(format string, args ...interface{}) string {
	return fmt.Sprintf("Error: "+format, args...)
}

var userMessages = []struct {
	target error
	msg    string
}{
	{models.ErrEmptyName, "Name is required"},
	{models.ErrInvalidAmount, "Enter an amount greater than zero"},
	{models.ErrEmptyCategory, "Pick a category"},
	{models.ErrInvalidTarget, "Target must be greater than zero"},
	{models.ErrInvalidKind, "Choose saved or wasted"},
	{models.ErrInvalidCurrency, "Unknown currency code"},
	{models.ErrInvalidLanguage, "Unsupported language"},
	{models.ErrNotFound, "Item no longer exists"},
	{models.ErrDuplicateCategory, "That category already exists"},
}

// UserMessage returns the short, one-shot text shown to the user for err.
// Validation errors map to their own wording; anything else is a store
// failure and gets a generic message (the detail goes to the log).
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	for _, m := range userMessages {
		if stderrors.Is(err, m.target) {
			return m.msg
		}
	}
	return "Something went wrong, please try again"
}

// Report logs a failed operation once and returns the user-facing message.
func Report(op string, err error) string {
	if err == nil {
		return ""
	}
	logger.Error("Operation failed", "op", op, "error", err)
	return UserMessage(err)
}

// Fatal logs an error and exits the program with exit code 1
func Fatal(err error) {
	if err != nil {
		logger.Error("Command execution failed", "error", err)
		fmt.Fprintf(os.Stderr, "%s\n", Format(err))
		os.Exit(1)
	}
}

// Fatalf logs and formats an error message, then exits the program with exit code 1
func Fatalf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	logger.Error("Command execution failed", "error", msg)
	fmt.Fprintf(os.Stderr, "%s\n", Formatf(format, args...))
	os.Exit(1)
}
