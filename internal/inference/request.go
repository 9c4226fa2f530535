package inference

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/Shayanthavi/FitTrack-AI/internal/wellness"
)

// ErrInvalidInput is matched by every *InvalidInputError.
var ErrInvalidInput = errors.New("invalid input")

// InvalidInputError reports a missing, non-numeric or negative request field.
type InvalidInputError struct {
	Field  string
	Reason string
}

func (e *InvalidInputError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("invalid input: %s", e.Reason)
	}
	return fmt.Sprintf("invalid input: %s %s", e.Field, e.Reason)
}

func (e *InvalidInputError) Unwrap() error { return ErrInvalidInput }

// DefaultDate is echoed back when a request carries no date.
const DefaultDate = "today"

// Request is a decoded prediction request.
type Request struct {
	Observation wellness.Observation
	Date        string
}

// ParseRequest decodes {"steps", "sleep_hours", "calories", "date"?}. Each
// feature may be a JSON number or a numeric string. Fractional steps and
// calories are truncated.
func ParseRequest(data []byte) (*Request, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil || fields == nil {
		return nil, &InvalidInputError{Reason: "body must be a JSON object"}
	}

	var missing []string
	for _, name := range wellness.FeatureOrder {
		if raw, ok := fields[name]; !ok || string(raw) == "null" {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, &InvalidInputError{
			Field:  strings.Join(missing, ", "),
			Reason: fmt.Sprintf("is required (required fields: %s)", strings.Join(wellness.FeatureOrder, ", ")),
		}
	}

	values := make(map[string]float64, len(wellness.FeatureOrder))
	for _, name := range wellness.FeatureOrder {
		v, err := number(fields[name])
		if err != nil {
			return nil, &InvalidInputError{Field: name, Reason: "must be numeric"}
		}
		if v < 0 {
			return nil, &InvalidInputError{Field: name, Reason: "cannot be negative"}
		}
		values[name] = v
	}

	req := &Request{
		Observation: wellness.Observation{
			Steps:      int(values[wellness.FeatureSteps]),
			SleepHours: values[wellness.FeatureSleepHours],
			Calories:   int(values[wellness.FeatureCalories]),
		},
		Date: DefaultDate,
	}
	if raw, ok := fields["date"]; ok {
		var date string
		if err := json.Unmarshal(raw, &date); err != nil {
			return nil, &InvalidInputError{Field: "date", Reason: "must be a string"}
		}
		if date != "" {
			req.Date = date
		}
	}
	return req, nil
}

func number(raw json.RawMessage) (float64, error) {
	var v float64
	if err := json.Unmarshal(raw, &v); err != nil {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return 0, err
		}
		v, err = strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return 0, err
		}
	}
	if math.IsNaN(v) || math.IsInf(v, 0) || v > math.MaxInt32 {
		return 0, fmt.Errorf("out of range")
	}
	return v, nil
}
