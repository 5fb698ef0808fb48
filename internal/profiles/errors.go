package profiles

import "fmt"

// UnknownProfileError is returned when a job key has no profile.
type UnknownProfileError struct {
	Key string
}

func (e *UnknownProfileError) Error() string {
	return fmt.Sprintf("unknown job profile: %q", e.Key)
}

// LoadError represents a failure to parse or validate the embedded profile table.
type LoadError struct {
	Message string
	Cause   error
}

func (e *LoadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("load job profiles: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("load job profiles: %s", e.Message)
}

func (e *LoadError) Unwrap() error {
	return e.Cause
}
