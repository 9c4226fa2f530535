// Package dataset turns arbitrary activity CSV files into a cleaned, labelled
// training set in the canonical feature order.
package dataset

import (
	"math"
	"math/rand"
	"sort"
	"strconv"
	"strings"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/stat"

	"github.com/Shayanthavi/FitTrack-AI/internal/scoring"
	"github.com/Shayanthavi/FitTrack-AI/internal/wellness"
)

// Options controls data preparation.
type Options struct {
	// SynthesizeSleep fills a missing sleep_hours column with random whole hours.
	SynthesizeSleep bool
	// SleepMin and SleepMax bound the synthetic sleep hours, both inclusive.
	SleepMin int
	SleepMax int
	// ZThreshold drops rows whose |z| exceeds it on any feature.
	ZThreshold float64
	// Seed drives the synthetic sleep generator.
	Seed int64
}

// DefaultOptions returns the preparation settings of the original pipeline.
func DefaultOptions() Options {
	return Options{
		SynthesizeSleep: true,
		SleepMin:        6,
		SleepMax:        8,
		ZThreshold:      3,
		Seed:            42,
	}
}

// Prepared は前処理済みの学習データです。
// Features の各行は FeatureOrder の順に並び、Targets と同じ長さを持ちます。
type Prepared struct {
	Features        [][]float64
	Targets         []float64
	Rows            int
	FeatureOrder    []string
	SyntheticSleep  bool
	SyntheticLabels bool
	// InputRows is the number of records read; Dropped counts rows removed by
	// cleaning and outlier filtering.
	InputRows int
	Dropped   int
	Warnings  []string
}

// Observations converts the feature rows back into observations. Steps and
// calories are rounded since median fill may produce fractional values.
func (p *Prepared) Observations() []wellness.Observation {
	out := make([]wellness.Observation, len(p.Features))
	for i, row := range p.Features {
		out[i] = wellness.Observation{
			Steps:      int(math.Round(row[0])),
			SleepHours: row[1],
			Calories:   int(math.Round(row[2])),
		}
	}
	return out
}

// Preparer は CSV の列名揺れを吸収し、欠損補完・ラベル合成・外れ値除去を行います。
type Preparer struct {
	opts   Options
	logger *zap.Logger
}

// NewPreparer creates a Preparer. A nil logger discards output.
func NewPreparer(opts Options, logger *zap.Logger) *Preparer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Preparer{opts: opts, logger: logger}
}

// PrepareFile loads a CSV file and prepares it.
func (p *Preparer) PrepareFile(path string) (*Prepared, error) {
	table, err := LoadCSV(path)
	if err != nil {
		return nil, err
	}
	p.logger.Info("Data loaded", zap.String("path", path), zap.Int("rows", len(table.Rows)), zap.Strings("columns", table.Header))
	return p.Prepare(table)
}

// Prepare runs the full cleaning pipeline over a raw table.
func (p *Preparer) Prepare(table *Table) (*Prepared, error) {
	headers := make([]string, len(table.Header))
	for i, h := range table.Header {
		headers[i] = NormalizeHeader(h)
	}
	columns, warnings := Reconcile(headers)
	for _, w := range warnings {
		p.logger.Warn("Ambiguous column mapping", zap.String("detail", w))
	}

	out := &Prepared{
		FeatureOrder: wellness.CanonicalOrder(),
		InputRows:    len(table.Rows),
		Warnings:     warnings,
	}

	n := len(table.Rows)
	feats := make([][]float64, len(wellness.FeatureOrder))

	if _, ok := columns[wellness.FeatureSleepHours]; !ok && p.opts.SynthesizeSleep {
		p.logger.Warn("'sleep_hours' not found. Creating synthetic sleep_hours",
			zap.Int("min", p.opts.SleepMin), zap.Int("max", p.opts.SleepMax))
		feats[1] = p.synthesizeSleep(n)
		out.SyntheticSleep = true
		out.Warnings = append(out.Warnings, "sleep_hours was synthesized")
	}

	var missing []string
	for i, name := range wellness.FeatureOrder {
		if feats[i] != nil {
			continue
		}
		idx, ok := columns[name]
		if !ok {
			missing = append(missing, name)
			continue
		}
		feats[i] = parseColumn(table, idx)
	}
	if len(missing) > 0 {
		return nil, &MissingColumnsError{Missing: missing, Available: headers}
	}

	for i := range feats {
		fillMedian(feats[i])
	}

	var targets []float64
	if idx, ok := columns[wellness.LabelHealthScore]; ok {
		targets = parseColumn(table, idx)
		fillMedian(targets)
		for i, v := range targets {
			if !math.IsNaN(v) {
				targets[i] = math.Max(wellness.MinScore, math.Min(wellness.MaxScore, v))
			}
		}
	} else {
		p.logger.Warn("'health_score' column not found. Creating synthetic health scores")
		targets = make([]float64, n)
		for r := 0; r < n; r++ {
			targets[r] = float64(scoring.Synthesize(feats[0][r], feats[1][r], feats[2][r]))
		}
		out.SyntheticLabels = true
	}

	keep := make([]bool, n)
	for r := 0; r < n; r++ {
		keep[r] = !math.IsNaN(targets[r])
		for i := range feats {
			if math.IsNaN(feats[i][r]) {
				keep[r] = false
			}
		}
	}
	p.markOutliers(feats, keep)

	for r := 0; r < n; r++ {
		if !keep[r] {
			continue
		}
		row := make([]float64, len(feats))
		for i := range feats {
			row[i] = feats[i][r]
		}
		out.Features = append(out.Features, row)
		out.Targets = append(out.Targets, targets[r])
	}
	out.Rows = len(out.Features)
	out.Dropped = n - out.Rows

	if out.Rows == 0 {
		return nil, ErrEmptyDataset
	}

	lo, hi := minMax(out.Targets)
	p.logger.Info("Data prepared",
		zap.Int("samples", out.Rows),
		zap.Int("dropped", out.Dropped),
		zap.Strings("features", out.FeatureOrder),
		zap.Float64("target_min", lo),
		zap.Float64("target_max", hi))
	return out, nil
}

func (p *Preparer) synthesizeSleep(n int) []float64 {
	rng := rand.New(rand.NewSource(p.opts.Seed))
	span := p.opts.SleepMax - p.opts.SleepMin + 1
	if span < 1 {
		span = 1
	}
	col := make([]float64, n)
	for i := range col {
		col[i] = float64(p.opts.SleepMin + rng.Intn(span))
	}
	return col
}

// markOutliers clears keep for rows whose absolute z-score exceeds the
// threshold on any feature. Every feature's statistics are computed over the
// same row set, the rows kept before filtering. A zero-variance feature never
// flags a row.
func (p *Preparer) markOutliers(feats [][]float64, keep []bool) {
	if p.opts.ZThreshold <= 0 {
		return
	}
	candidates := append([]bool(nil), keep...)
	for _, col := range feats {
		values := make([]float64, 0, len(col))
		for r, v := range col {
			if candidates[r] {
				values = append(values, v)
			}
		}
		if len(values) == 0 {
			return
		}
		mean, std := stat.PopMeanStdDev(values, nil)
		if std == 0 || math.IsNaN(std) {
			continue
		}
		for r, v := range col {
			if candidates[r] && math.Abs(v-mean)/std > p.opts.ZThreshold {
				keep[r] = false
			}
		}
	}
}

func parseColumn(table *Table, idx int) []float64 {
	col := make([]float64, len(table.Rows))
	for r := range table.Rows {
		col[r] = parseCell(table.Cell(r, idx))
	}
	return col
}

// parseCell returns NaN for blank, non-numeric, non-finite or negative cells.
func parseCell(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return math.NaN()
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(v, 0) || v < 0 {
		return math.NaN()
	}
	return v
}

// fillMedian replaces NaN entries with the median of the present values.
// A column with no present values is left untouched.
func fillMedian(col []float64) {
	m := median(col)
	if math.IsNaN(m) {
		return
	}
	for i, v := range col {
		if math.IsNaN(v) {
			col[i] = m
		}
	}
}

func median(col []float64) float64 {
	present := make([]float64, 0, len(col))
	for _, v := range col {
		if !math.IsNaN(v) {
			present = append(present, v)
		}
	}
	if len(present) == 0 {
		return math.NaN()
	}
	sort.Float64s(present)
	mid := len(present) / 2
	if len(present)%2 == 1 {
		return present[mid]
	}
	return (present[mid-1] + present[mid]) / 2
}

func minMax(xs []float64) (float64, float64) {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, x := range xs {
		lo = math.Min(lo, x)
		hi = math.Max(hi, x)
	}
	return lo, hi
}
