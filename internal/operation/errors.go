package operation

// ValidationError is raised locally when a required field is missing. No
// request is made.
type ValidationError struct {
	Message string
}

func (e ValidationError) Error() string {
	return e.Message
}

// ApplicationError is a failure reported by the backend in a well-formed reply.
type ApplicationError struct {
	Message string
}

func (e ApplicationError) Error() string {
	return e.Message
}

func newApplicationError(message string) ApplicationError {
	if message == "" {
		message = "backend reported failure without a message"
	}
	return ApplicationError{Message: message}
}
