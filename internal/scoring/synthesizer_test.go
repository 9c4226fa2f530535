package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Shayanthavi/FitTrack-AI/internal/wellness"
)

func TestSynthesize(t *testing.T) {
	tests := []struct {
		name     string
		steps    float64
		sleep    float64
		calories float64
		want     int
	}{
		{"all top bands", 10000, 8, 2000, 100},
		{"all bottom bands", 4000, 5, 3000, 30},
		{"middle bands", 7500, 6.5, 1600, 70},
		{"lowest mid bands", 5000, 10, 2500, 60},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Synthesize(tt.steps, tt.sleep, tt.calories))
		})
	}
}

func TestSynthesize_IsDeterministic(t *testing.T) {
	first := Synthesize(8123, 7.2, 1999)
	for i := 0; i < 100; i++ {
		assert.Equal(t, first, Synthesize(8123, 7.2, 1999))
	}
}

func TestStepsPoints_Boundaries(t *testing.T) {
	assert.Equal(t, 40, StepsPoints(10000))
	assert.Equal(t, 30, StepsPoints(9999))
	assert.Equal(t, 30, StepsPoints(7000))
	assert.Equal(t, 20, StepsPoints(6999))
	assert.Equal(t, 20, StepsPoints(5000))
	assert.Equal(t, 10, StepsPoints(4999))
	assert.Equal(t, 10, StepsPoints(0))
}

func TestSleepPoints_Boundaries(t *testing.T) {
	assert.Equal(t, 30, SleepPoints(7))
	assert.Equal(t, 30, SleepPoints(9))
	assert.Equal(t, 20, SleepPoints(9.01))
	assert.Equal(t, 20, SleepPoints(6))
	assert.Equal(t, 20, SleepPoints(10))
	assert.Equal(t, 10, SleepPoints(10.5))
	assert.Equal(t, 10, SleepPoints(5.99))
}

func TestCaloriesPoints_Boundaries(t *testing.T) {
	assert.Equal(t, 30, CaloriesPoints(1800))
	assert.Equal(t, 30, CaloriesPoints(2200))
	assert.Equal(t, 20, CaloriesPoints(1799))
	assert.Equal(t, 20, CaloriesPoints(1500))
	assert.Equal(t, 20, CaloriesPoints(2500))
	assert.Equal(t, 10, CaloriesPoints(1499))
	assert.Equal(t, 10, CaloriesPoints(2501))
}

func TestSynthesizeObservation(t *testing.T) {
	obs := wellness.Observation{Steps: 10000, SleepHours: 8, Calories: 2000}
	assert.Equal(t, 100, SynthesizeObservation(obs))
}
