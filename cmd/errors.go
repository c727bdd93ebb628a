package cmd

// UsageError indicates that the command was invoked incorrectly, or
// that the repository it was pointed at could not be used.
type UsageError struct {
	Err error
}

func (e *UsageError) Error() string {
	return e.Err.Error()
}

func (e *UsageError) Unwrap() error {
	return e.Err
}
