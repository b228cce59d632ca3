package timeline

import "errors"

var (
	// ErrSubjectNotFound indicates the customer or company doesn't exist.
	ErrSubjectNotFound = errors.New("subject not found")
	// ErrSourceNotFound indicates the note or message being logged doesn't exist.
	ErrSourceNotFound = errors.New("activity source not found")
)
