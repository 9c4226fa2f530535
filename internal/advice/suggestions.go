// Package advice maps raw daily inputs and a health score to fixed,
// threshold-based suggestions.
package advice

import (
	"fmt"
	"math"
	"strconv"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Category of a suggestion. Suggest always returns them in this order.
type Category string

const (
	CategoryActivity  Category = "Activity"
	CategorySleep     Category = "Sleep"
	CategoryNutrition Category = "Nutrition"
	CategoryOverall   Category = "Overall"
)

// Severity of a suggestion.
type Severity string

const (
	SeverityUrgent  Severity = "urgent"
	SeverityWarning Severity = "warning"
	SeveritySuccess Severity = "success"
	SeverityInfo    Severity = "info"
)

// Suggestion is one piece of advice. Score is set on the Overall entry only.
type Suggestion struct {
	Category Category `json:"category"`
	Severity Severity `json:"level"`
	Message  string   `json:"message"`
	Tip      string   `json:"tip"`
	Score    *int     `json:"score,omitempty"`
}

var printer = message.NewPrinter(language.English)

// Suggest returns exactly four suggestions: Activity, Sleep, Nutrition, Overall.
// score is truncated to an integer before banding.
func Suggest(steps int, sleepHours float64, calories int, score float64) []Suggestion {
	return []Suggestion{
		activity(steps),
		sleep(sleepHours),
		nutrition(calories),
		overall(score),
	}
}

func activity(steps int) Suggestion {
	s := printer.Sprintf("%d", steps)
	switch {
	case steps < 5000:
		return Suggestion{
			Category: CategoryActivity,
			Severity: SeverityUrgent,
			Message:  fmt.Sprintf("Your step count (%s) is quite low. Try to reach at least 7,000 steps daily!", s),
			Tip:      "Take short walks every hour, use stairs, or walk during phone calls.",
		}
	case steps < 7000:
		return Suggestion{
			Category: CategoryActivity,
			Severity: SeverityWarning,
			Message:  fmt.Sprintf("Good progress with %s steps! Aim for 10,000 for optimal health.", s),
			Tip:      "Add a 20-minute evening walk to reach your goal.",
		}
	default:
		return Suggestion{
			Category: CategoryActivity,
			Severity: SeveritySuccess,
			Message:  fmt.Sprintf("Excellent! You achieved %s steps. Keep it up!", s),
			Tip:      "Maintain this consistency for long-term health benefits.",
		}
	}
}

func sleep(hours float64) Suggestion {
	h := formatHours(hours)
	switch {
	case hours < 6:
		return Suggestion{
			Category: CategorySleep,
			Severity: SeverityUrgent,
			Message:  fmt.Sprintf("Only %s hours of sleep! Aim for 7-8 hours for better recovery.", h),
			Tip:      "Create a bedtime routine and avoid screens 1 hour before sleep.",
		}
	case hours < 7:
		return Suggestion{
			Category: CategorySleep,
			Severity: SeverityWarning,
			Message:  fmt.Sprintf("%s hours is okay, but try for 7-8 hours.", h),
			Tip:      "Go to bed 30 minutes earlier tonight.",
		}
	case hours <= 9:
		return Suggestion{
			Category: CategorySleep,
			Severity: SeveritySuccess,
			Message:  fmt.Sprintf("Great sleep duration of %s hours!", h),
			Tip:      "Keep this consistent sleep schedule.",
		}
	default:
		return Suggestion{
			Category: CategorySleep,
			Severity: SeverityInfo,
			Message:  fmt.Sprintf("%s hours is quite long. Focus on sleep quality.", h),
			Tip:      "Consider factors like room temperature and mattress comfort.",
		}
	}
}

func nutrition(calories int) Suggestion {
	switch {
	case calories < 1500:
		return Suggestion{
			Category: CategoryNutrition,
			Severity: SeverityWarning,
			Message:  fmt.Sprintf("%d calories seems low. Ensure adequate nutrition.", calories),
			Tip:      "Add nutrient-dense snacks like nuts, fruits, or smoothies.",
		}
	case calories > 2500:
		return Suggestion{
			Category: CategoryNutrition,
			Severity: SeverityWarning,
			Message:  fmt.Sprintf("%d calories is high. Consider portion control.", calories),
			Tip:      "Focus on vegetables, lean proteins, and whole grains.",
		}
	default:
		return Suggestion{
			Category: CategoryNutrition,
			Severity: SeveritySuccess,
			Message:  fmt.Sprintf("Balanced intake of %d calories!", calories),
			Tip:      "Stay hydrated and include colorful foods.",
		}
	}
}

func overall(score float64) Suggestion {
	n := int(math.Trunc(score))
	s := Suggestion{Category: CategoryOverall, Score: &n}
	switch {
	case n >= 80:
		s.Severity = SeveritySuccess
		s.Message = fmt.Sprintf("Outstanding! Your AI health score is %d/100.", n)
		s.Tip = "You're a health champion! Keep inspiring others."
	case n >= 60:
		s.Severity = SeveritySuccess
		s.Message = fmt.Sprintf("Good job! Your AI health score is %d/100.", n)
		s.Tip = "Small improvements can push you to excellence."
	case n >= 40:
		s.Severity = SeverityWarning
		s.Message = fmt.Sprintf("Your AI health score is %d/100. Room for improvement!", n)
		s.Tip = "Focus on one area at a time. Start with what feels easiest."
	default:
		s.Severity = SeverityUrgent
		s.Message = fmt.Sprintf("Your AI health score is %d/100. Let's improve!", n)
		s.Tip = "Start small: set achievable daily goals and build from there."
	}
	return s
}

// formatHours keeps one decimal for whole hours ("7.0") and the shortest
// exact form otherwise ("6.25").
func formatHours(h float64) string {
	if h == math.Trunc(h) {
		return strconv.FormatFloat(h, 'f', 1, 64)
	}
	return strconv.FormatFloat(h, 'f', -1, 64)
}
