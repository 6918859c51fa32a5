package domain

// IngredientRow is one displayed ingredient. The ingredient value and the
// tap handler are fixed when the row is built, so every row resolves to its
// own ingredient no matter how many rows share the same handler.
type IngredientRow struct {
	ingredient string
	onTap      func(ingredient string)
}

// NewIngredientRow binds ingredient to onTap. A nil onTap makes Tap a no-op.
func NewIngredientRow(ingredient string, onTap func(ingredient string)) IngredientRow {
	return IngredientRow{ingredient: ingredient, onTap: onTap}
}

// Ingredient returns the row's text.
func (r IngredientRow) Ingredient() string { return r.ingredient }

// Tap invokes the row's handler with the row's own ingredient.
func (r IngredientRow) Tap() {
	if r.onTap != nil {
		r.onTap(r.ingredient)
	}
}
