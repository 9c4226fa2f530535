package wellness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObservation_Vector(t *testing.T) {
	obs := Observation{Steps: 8000, SleepHours: 7.5, Calories: 2100}

	vec, err := obs.Vector(FeatureOrder)
	require.NoError(t, err)
	assert.Equal(t, []float64{8000, 7.5, 2100}, vec)

	// a recorded order different from the canonical one is honoured, not silently reordered
	vec, err = obs.Vector([]string{FeatureCalories, FeatureSteps, FeatureSleepHours})
	require.NoError(t, err)
	assert.Equal(t, []float64{2100, 8000, 7.5}, vec)
}

func TestObservation_VectorRejectsBadOrder(t *testing.T) {
	obs := Observation{Steps: 1, SleepHours: 1, Calories: 1}

	_, err := obs.Vector([]string{FeatureSteps, FeatureSleepHours})
	assert.Error(t, err)

	_, err = obs.Vector([]string{FeatureSteps, FeatureSteps, FeatureCalories})
	assert.Error(t, err)

	_, err = obs.Vector([]string{FeatureSteps, "heart_rate", FeatureCalories})
	assert.Error(t, err)
}

func TestObservation_Validate(t *testing.T) {
	assert.NoError(t, Observation{}.Validate())
	assert.Error(t, Observation{Steps: -1}.Validate())
	assert.Error(t, Observation{SleepHours: -0.5}.Validate())
}

func TestCanonicalOrder_IsACopy(t *testing.T) {
	order := CanonicalOrder()
	order[0] = "mutated"
	assert.Equal(t, FeatureSteps, FeatureOrder[0])
}
