package display

import (
	"strconv"
	"strings"
	"sync"

	"github.com/hammamikhairi/ottoguide/internal/domain"
)

// Compile-time interface check.
var _ domain.Display = (*Recorder)(nil)

// Field names a logical display field.
type Field string

const (
	FieldStep         Field = "step"
	FieldTimeLeft     Field = "time_left"
	FieldTimer        Field = "timer"
	FieldNutrition    Field = "nutrition"
	FieldPanel        Field = "panel"
	FieldPanelVisible Field = "panel_visible"
	FieldRows         Field = "rows"
	FieldProgress     Field = "progress"
)

// Snapshot is the latest value of every field.
type Snapshot struct {
	Step         string
	TimeLeft     string
	Timer        string
	Nutrition    string
	Panel        string
	PanelVisible bool
	Rows         []domain.IngredientRow
	Progress     string
}

// ChangeFunc is called after a field is written, with the field's new value
// rendered as text. Called without the recorder lock held.
type ChangeFunc func(field Field, value string)

// RecorderOption configures a Recorder.
type RecorderOption func(*Recorder)

// WithHistory keeps every value written, not just the latest. The history
// grows with every write, so leave it off for long-running sinks.
func WithHistory() RecorderOption {
	return func(r *Recorder) {
		r.history = make(map[Field][]string)
	}
}

// Recorder is an in-memory display. It keeps the latest value and a write
// count per field, optionally the full write history, and optionally reports
// every write. Safe for concurrent use.
type Recorder struct {
	mu       sync.Mutex
	snap     Snapshot
	writes   map[Field]int
	history  map[Field][]string // nil unless WithHistory
	onChange ChangeFunc
}

// NewRecorder creates an empty recorder. onChange may be nil.
func NewRecorder(onChange ChangeFunc, opts ...RecorderOption) *Recorder {
	r := &Recorder{
		writes:   make(map[Field]int),
		onChange: onChange,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Recorder) SetStep(text string) {
	r.write(FieldStep, text, func(s *Snapshot) { s.Step = text })
}

func (r *Recorder) SetTimeLeft(text string) {
	r.write(FieldTimeLeft, text, func(s *Snapshot) { s.TimeLeft = text })
}

func (r *Recorder) SetTimer(text string) {
	r.write(FieldTimer, text, func(s *Snapshot) { s.Timer = text })
}

func (r *Recorder) SetNutrition(text string) {
	r.write(FieldNutrition, text, func(s *Snapshot) { s.Nutrition = text })
}

func (r *Recorder) SetPanel(text string) {
	r.write(FieldPanel, text, func(s *Snapshot) { s.Panel = text })
}

func (r *Recorder) SetPanelVisible(visible bool) {
	r.write(FieldPanelVisible, strconv.FormatBool(visible), func(s *Snapshot) { s.PanelVisible = visible })
}

func (r *Recorder) SetProgress(text string) {
	r.write(FieldProgress, text, func(s *Snapshot) { s.Progress = text })
}

// SetRows replaces the row list. The slice is copied.
func (r *Recorder) SetRows(rows []domain.IngredientRow) {
	cp := make([]domain.IngredientRow, len(rows))
	copy(cp, rows)

	names := make([]string, len(cp))
	for i, row := range cp {
		names[i] = row.Ingredient()
	}
	r.write(FieldRows, strings.Join(names, ", "), func(s *Snapshot) { s.Rows = cp })
}

func (r *Recorder) write(f Field, value string, apply func(*Snapshot)) {
	r.mu.Lock()
	apply(&r.snap)
	r.writes[f]++
	if r.history != nil {
		r.history[f] = append(r.history[f], value)
	}
	cb := r.onChange
	r.mu.Unlock()

	if cb != nil {
		cb(f, value)
	}
}

// Snapshot returns a copy of the current field values.
func (r *Recorder) Snapshot() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	s := r.snap
	s.Rows = append([]domain.IngredientRow(nil), r.snap.Rows...)
	return s
}

// History returns every value written to f, oldest first. Always empty
// without WithHistory.
func (r *Recorder) History(f Field) []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.history[f]...)
}

// Writes returns how many times f has been written.
func (r *Recorder) Writes(f Field) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.writes[f]
}
