package learning

import (
	"errors"
	"fmt"
)

// ErrTraining is matched by every *TrainingError.
var ErrTraining = errors.New("training failed")

// TrainingError reports a dataset that cannot support a split and k-fold
// cross-validation.
type TrainingError struct {
	Rows    int
	MinRows int
	Reason  string
}

func (e *TrainingError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("training failed: %s", e.Reason)
	}
	return fmt.Sprintf("training failed: need at least %d rows, got %d", e.MinRows, e.Rows)
}

func (e *TrainingError) Unwrap() error { return ErrTraining }
