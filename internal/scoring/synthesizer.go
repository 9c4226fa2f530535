// Package scoring computes the synthetic wellness label used when a dataset
// carries no health_score column.
package scoring

import "github.com/Shayanthavi/FitTrack-AI/internal/wellness"

// StepsPoints scores daily steps (max 40).
func StepsPoints(steps float64) int {
	switch {
	case steps >= 10000:
		return 40
	case steps >= 7000:
		return 30
	case steps >= 5000:
		return 20
	default:
		return 10
	}
}

// SleepPoints scores hours of sleep (max 30). Both bands are inclusive.
func SleepPoints(hours float64) int {
	switch {
	case hours >= 7 && hours <= 9:
		return 30
	case hours >= 6 && hours <= 10:
		return 20
	default:
		return 10
	}
}

// CaloriesPoints scores calorie intake (max 30). Both bands are inclusive.
func CaloriesPoints(calories float64) int {
	switch {
	case calories >= 1800 && calories <= 2200:
		return 30
	case calories >= 1500 && calories <= 2500:
		return 20
	default:
		return 10
	}
}

// Synthesize は歩数・睡眠・カロリーから 10〜100 の合成スコアを算出します。
// 学習データにラベルが無い場合の正解値として使われるため、帯域の境界値は固定です。
func Synthesize(steps, sleepHours, calories float64) int {
	return StepsPoints(steps) + SleepPoints(sleepHours) + CaloriesPoints(calories)
}

// SynthesizeObservation is Synthesize over an Observation.
func SynthesizeObservation(o wellness.Observation) int {
	return Synthesize(float64(o.Steps), o.SleepHours, float64(o.Calories))
}
