package ingredients

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/hammamikhairi/ottoguide/internal/display"
	"github.com/hammamikhairi/ottoguide/internal/domain"
	"github.com/hammamikhairi/ottoguide/internal/fetch"
	"github.com/hammamikhairi/ottoguide/internal/logger"
)

// rosterAPI serves whatever roster is set; nil means the fetch fails.
type rosterAPI struct {
	mu     sync.Mutex
	roster []string
}

func (a *rosterAPI) set(r []string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.roster = r
}

func (a *rosterAPI) Recipe(context.Context) (*domain.IngredientRoster, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.roster == nil {
		return nil, domain.ErrFetchFailed
	}
	return &domain.IngredientRoster{Ingredients: append([]string(nil), a.roster...)}, nil
}

func (a *rosterAPI) Timer(context.Context) (*domain.TimerStatus, error) {
	return nil, domain.ErrFetchFailed
}
func (a *rosterAPI) Status(context.Context) (*domain.RecipeStatus, error) {
	return nil, domain.ErrFetchFailed
}
func (a *rosterAPI) Nutrition(context.Context, string) (*domain.NutritionInfo, error) {
	return nil, domain.ErrFetchFailed
}
func (a *rosterAPI) Progress(context.Context) (*domain.ProgressStatus, error) {
	return nil, domain.ErrFetchFailed
}

// selectRecorder captures the ingredient each tap resolved to.
type selectRecorder struct {
	mu       sync.Mutex
	selected []string
}

func (s *selectRecorder) Select(_ context.Context, ingredient string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected = append(s.selected, ingredient)
}

func (s *selectRecorder) all() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.selected...)
}

func TestBuildBindsEachRowToItsOwnIngredient(t *testing.T) {
	api := &rosterAPI{roster: []string{"egg", "flour", "milk"}}
	rec := display.NewRecorder(nil)
	sel := &selectRecorder{}
	b := NewBuilder(api, rec, sel, logger.New(logger.LevelOff, nil))

	if err := b.Build(context.Background()); err != nil {
		t.Fatalf("build: %v", err)
	}

	rows := rec.Snapshot().Rows
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}

	// Tap in reverse order so a shared loop variable would show up as
	// every tap resolving to "milk".
	for i := len(rows) - 1; i >= 0; i-- {
		rows[i].Tap()
	}

	got := sel.all()
	want := []string{"milk", "flour", "egg"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("tap %d resolved to %q, want %q (all: %v)", i, got[i], want[i], got)
		}
	}
	for i, row := range rows {
		if row.Ingredient() != []string{"egg", "flour", "milk"}[i] {
			t.Fatalf("row %d text %q out of roster order", i, row.Ingredient())
		}
	}
}

func TestBuildReplacesRows(t *testing.T) {
	api := &rosterAPI{roster: []string{"egg", "flour", "milk"}}
	rec := display.NewRecorder(nil)
	sel := &selectRecorder{}
	b := NewBuilder(api, rec, sel, logger.New(logger.LevelOff, nil))
	ctx := context.Background()

	if err := b.Build(ctx); err != nil {
		t.Fatalf("first build: %v", err)
	}
	api.set([]string{"salt"})
	if err := b.Build(ctx); err != nil {
		t.Fatalf("second build: %v", err)
	}

	rows := rec.Snapshot().Rows
	if len(rows) != 1 || rows[0].Ingredient() != "salt" {
		t.Fatalf("expected exactly [salt], got %d rows", len(rows))
	}
	if len(b.Rows()) != 1 {
		t.Fatalf("builder kept %d rows", len(b.Rows()))
	}

	rows[0].Tap()
	if got := sel.all(); len(got) != 1 || got[0] != "salt" {
		t.Fatalf("tap resolved to %v", got)
	}
}

func TestBuildFailureKeepsRows(t *testing.T) {
	api := &rosterAPI{roster: []string{"egg"}}
	rec := display.NewRecorder(nil)
	b := NewBuilder(api, rec, &selectRecorder{}, logger.New(logger.LevelOff, nil))
	ctx := context.Background()

	if err := b.Build(ctx); err != nil {
		t.Fatalf("build: %v", err)
	}
	api.set(nil)

	err := b.Build(ctx)
	if !errors.Is(err, domain.ErrFetchFailed) {
		t.Fatalf("expected ErrFetchFailed, got %v", err)
	}
	if rows := rec.Snapshot().Rows; len(rows) != 1 {
		t.Fatalf("expected previous row kept, got %d rows", len(rows))
	}
	if n := rec.Writes(display.FieldRows); n != 1 {
		t.Fatalf("failed build must not write rows, got %d writes", n)
	}
}

func TestBuildEmptyRoster(t *testing.T) {
	api := &rosterAPI{roster: []string{"egg"}}
	rec := display.NewRecorder(nil)
	b := NewBuilder(api, rec, &selectRecorder{}, logger.New(logger.LevelOff, nil))
	ctx := context.Background()

	_ = b.Build(ctx)
	api.set([]string{})
	if err := b.Build(ctx); err != nil {
		t.Fatalf("build: %v", err)
	}
	if rows := rec.Snapshot().Rows; len(rows) != 0 {
		t.Fatalf("expected empty list, got %d rows", len(rows))
	}
}

func TestBuildUnexpectedRosterShapeKeepsRows(t *testing.T) {
	var body atomic.Value
	body.Store(`{"ingredients": ["egg", "flour"]}`)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(body.Load().(string)))
	}))
	defer srv.Close()

	log := logger.New(logger.LevelOff, nil)
	rec := display.NewRecorder(nil)
	b := NewBuilder(fetch.NewClient(srv.URL, log), rec, &selectRecorder{}, log)
	ctx := context.Background()

	if err := b.Build(ctx); err != nil {
		t.Fatalf("build: %v", err)
	}

	body.Store(`{"error": "no active session"}`)
	if err := b.Build(ctx); !errors.Is(err, domain.ErrFetchFailed) {
		t.Fatalf("expected ErrFetchFailed, got %v", err)
	}
	if rows := rec.Snapshot().Rows; len(rows) != 2 {
		t.Fatalf("expected both rows kept, got %d", len(rows))
	}
	if n := len(b.Rows()); n != 2 {
		t.Fatalf("builder dropped rows: %d left", n)
	}
}
