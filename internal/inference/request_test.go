package inference

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Shayanthavi/FitTrack-AI/internal/wellness"
)

func TestParseRequest(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		want     wellness.Observation
		wantDate string
	}{
		{
			name:     "numbers",
			body:     `{"steps": 8000, "sleep_hours": 7.5, "calories": 2000}`,
			want:     wellness.Observation{Steps: 8000, SleepHours: 7.5, Calories: 2000},
			wantDate: "today",
		},
		{
			name:     "numeric strings and date",
			body:     `{"steps": "6500", "sleep_hours": " 6 ", "calories": "1800.9", "date": "2024-03-02"}`,
			want:     wellness.Observation{Steps: 6500, SleepHours: 6, Calories: 1800},
			wantDate: "2024-03-02",
		},
		{
			name:     "zero values are valid",
			body:     `{"steps": 0, "sleep_hours": 0, "calories": 0, "date": ""}`,
			want:     wellness.Observation{},
			wantDate: "today",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := ParseRequest([]byte(tt.body))
			require.NoError(t, err)
			assert.Equal(t, tt.want, req.Observation)
			assert.Equal(t, tt.wantDate, req.Date)
		})
	}
}

func TestParseRequest_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		body  string
		field string
	}{
		{name: "not json", body: `steps=1`},
		{name: "array", body: `[1,2,3]`},
		{name: "missing calories", body: `{"steps": 1, "sleep_hours": 7}`, field: "calories"},
		{name: "null steps", body: `{"steps": null, "sleep_hours": 7, "calories": 1}`, field: "steps"},
		{name: "non numeric", body: `{"steps": "lots", "sleep_hours": 7, "calories": 1}`, field: "steps"},
		{name: "bool", body: `{"steps": 1, "sleep_hours": true, "calories": 1}`, field: "sleep_hours"},
		{name: "negative", body: `{"steps": 1, "sleep_hours": 7, "calories": -5}`, field: "calories"},
		{name: "bad date", body: `{"steps": 1, "sleep_hours": 7, "calories": 5, "date": 3}`, field: "date"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseRequest([]byte(tt.body))
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidInput)

			var ie *InvalidInputError
			require.True(t, errors.As(err, &ie))
			assert.Equal(t, tt.field, ie.Field)
		})
	}
}

func TestParseRequest_ListsEveryMissingField(t *testing.T) {
	_, err := ParseRequest([]byte(`{}`))
	var ie *InvalidInputError
	require.True(t, errors.As(err, &ie))
	assert.Equal(t, "steps, sleep_hours, calories", ie.Field)
}
