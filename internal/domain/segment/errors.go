package segment

import (
	"errors"
	"fmt"
)

var (
	// ErrRunInProgress indicates another materialization run holds the lock.
	ErrRunInProgress = errors.New("segment materialization already running")
	// ErrEvaluation indicates a segment's conditions could not be evaluated.
	ErrEvaluation = errors.New("segment evaluation failed")
	// ErrInvalidCondition indicates a condition that cannot be compiled, such
	// as an unknown field or operator. Only these failures skip a segment.
	ErrInvalidCondition = errors.New("invalid segment condition")
)

// EvaluationError wraps an evaluator failure for one segment.
type EvaluationError struct {
	SegmentID string
	Err       error
}

func (e *EvaluationError) Error() string {
	return fmt.Sprintf("%s: segment %s: %v", ErrEvaluation, e.SegmentID, e.Err)
}

func (e *EvaluationError) Unwrap() []error {
	return []error{ErrEvaluation, e.Err}
}
