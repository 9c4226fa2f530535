package dataset

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrMissingColumns is matched by *MissingColumnsError.
	ErrMissingColumns = errors.New("missing required columns")
	// ErrEmptyDataset means cleaning and outlier removal left no rows.
	ErrEmptyDataset = errors.New("no rows left after cleaning and outlier removal")
)

// MissingColumnsError は別名解決と合成の後も必須列が欠けている場合のエラーです。
type MissingColumnsError struct {
	Missing   []string
	Available []string
}

func (e *MissingColumnsError) Error() string {
	return fmt.Sprintf("missing required columns: [%s]. Available: [%s]",
		strings.Join(e.Missing, ", "), strings.Join(e.Available, ", "))
}

func (e *MissingColumnsError) Unwrap() error { return ErrMissingColumns }
