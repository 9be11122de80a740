package services

import "fmt"

// Service-level error taxonomy. Handlers translate these into HTTP
// responses; raw store or transport errors never cross the boundary.

type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string { return "Validation error" }

type DuplicateUsernameError struct {
	Username string
}

func (e *DuplicateUsernameError) Error() string { return "Username already exists" }

// InvalidCredentialsError deliberately carries no detail: a wrong password
// and an unknown username must be indistinguishable to the caller.
type InvalidCredentialsError struct{}

func (e *InvalidCredentialsError) Error() string { return "Invalid username or password" }

type UnauthorizedError struct{ Message string }

func (e *UnauthorizedError) Error() string { return e.Message }

type NotFoundError struct{ Message string }

func (e *NotFoundError) Error() string { return e.Message }

type UpstreamError struct {
	Message string
}

func (e *UpstreamError) Error() string { return fmt.Sprintf("Gemini API error: %s", e.Message) }
