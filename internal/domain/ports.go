package domain

import "context"

// CookingAPI is the remote cooking-session server. Every method performs a
// single GET and either decodes the payload or returns an error wrapping
// ErrFetchFailed.
type CookingAPI interface {
	Timer(ctx context.Context) (*TimerStatus, error)
	Status(ctx context.Context) (*RecipeStatus, error)
	Nutrition(ctx context.Context, ingredient string) (*NutritionInfo, error)
	Recipe(ctx context.Context) (*IngredientRoster, error)
	Progress(ctx context.Context) (*ProgressStatus, error)
}

// Display receives the text of each logical field. Implementations can be a
// terminal UI, a line printer, or an in-memory recorder. The core never
// talks to a widget toolkit directly.
type Display interface {
	SetStep(text string)
	SetTimeLeft(text string)
	SetTimer(text string)
	SetNutrition(text string) // passive line, driven by the status cycle
	SetPanel(text string)     // interactive panel, driven by row taps
	SetPanelVisible(visible bool)
	SetRows(rows []IngredientRow)
	SetProgress(text string)
}

// StepListener is told when the displayed step changes. Used for audible
// cues; implementations must not block.
type StepListener interface {
	StepChanged(step string)
}
