package dataset

import (
	"fmt"
	"strings"

	"github.com/Shayanthavi/FitTrack-AI/internal/wellness"
)

// Alias maps a set of recognised header spellings onto one canonical column.
// Synonyms are tried in order; the canonical spelling always comes first.
type Alias struct {
	Canonical string
	Synonyms  []string
}

// AliasTable is consulted in order; it is the only source of column matching.
var AliasTable = []Alias{
	{Canonical: wellness.FeatureSteps, Synonyms: []string{"steps", "totalsteps", "total_steps", "step_count"}},
	{Canonical: wellness.FeatureCalories, Synonyms: []string{"calories", "calorie", "total_calories", "calories_burned"}},
	{Canonical: wellness.FeatureSleepHours, Synonyms: []string{"sleep_hours", "sleep", "sleep_time", "total_sleep"}},
	{Canonical: wellness.LabelHealthScore, Synonyms: []string{"health_score"}},
}

// NormalizeHeader trims, lowercases and replaces spaces with underscores.
func NormalizeHeader(name string) string {
	name = strings.TrimPrefix(name, "\ufeff")
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), " ", "_")
}

// Reconcile は正規化済みヘッダーを別名表で正準名に解決し、正準名から列番号への対応を返します。
// 同じ正準名に複数の列が一致した場合は表の順で最初の列を採用し、残りは警告として返します。
// 表に無い列は無視されます。
func Reconcile(headers []string) (map[string]int, []string) {
	position := make(map[string]int, len(headers))
	for i, h := range headers {
		if _, dup := position[h]; !dup {
			position[h] = i
		}
	}

	columns := make(map[string]int, len(AliasTable))
	var warnings []string
	for _, alias := range AliasTable {
		for _, syn := range alias.Synonyms {
			idx, ok := position[syn]
			if !ok {
				continue
			}
			if chosen, taken := columns[alias.Canonical]; taken {
				warnings = append(warnings, fmt.Sprintf("column %q also maps to %q; using %q",
					syn, alias.Canonical, headers[chosen]))
				continue
			}
			columns[alias.Canonical] = idx
		}
	}
	return columns, warnings
}

// CanonicalHeaders returns headers with every column chosen by Reconcile renamed
// to its canonical name. Other columns are returned unchanged.
func CanonicalHeaders(headers []string) []string {
	normalized := make([]string, len(headers))
	for i, h := range headers {
		normalized[i] = NormalizeHeader(h)
	}
	columns, _ := Reconcile(normalized)
	out := make([]string, len(normalized))
	copy(out, normalized)
	for canonical, idx := range columns {
		out[idx] = canonical
	}
	return out
}
