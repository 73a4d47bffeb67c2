package content

import (
	"errors"
	"fmt"
)

// ErrValidation совпадает с любой ValidationError.
var ErrValidation = errors.New("validation failed")

// ValidationError ввод пользователя, отклонённый до сетевых вызовов.
type ValidationError struct {
	Field  string
	Reason string
	// Cause уточняет вид ошибки, например storage.ErrFileTooLarge.
	Cause error
}

func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() []error {
	if e.Cause == nil {
		return []error{ErrValidation}
	}
	return []error{ErrValidation, e.Cause}
}

// IsValidationError проверяет, является ли ошибка ошибкой валидации
func IsValidationError(err error) bool {
	return errors.Is(err, ErrValidation)
}
