package model

import "fmt"

// ValidationError reports a bad or missing input field. It is raised before
// any store call is made.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func required(field string) ValidationError {
	return ValidationError{Field: field, Message: field + " is required"}
}
