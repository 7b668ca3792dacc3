package nutrient

import (
	"Nutrition-Tracker/domain"
	"Nutrition-Tracker/entities"
	"context"

	"github.com/google/uuid"
)

type (
	// Line is one ingredient of a meal, either live or from a history snapshot.
	Line struct {
		IngredientID uuid.UUID
		Quantity     float64
		Unit         string
	}

	// Facts are macro values per 100 g of an ingredient.
	Facts struct {
		Kcal    float64 `json:"kcal_100g"`
		Protein float64 `json:"protein_100g"`
		Carbs   float64 `json:"carbs_100g"`
		Fat     float64 `json:"fat_100g"`
	}

	// Catalog resolves ingredient ids to facts. Unknown ids are absent from the result.
	Catalog interface {
		LookupFacts(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]Facts, error)
	}

	Totals struct {
		Kcal    float64
		Protein float64
		Carbs   float64
		Fat     float64
		Weight  float64
	}

	Aggregator struct {
		catalog Catalog
	}
)

func NewAggregator(catalog Catalog) *Aggregator {
	return &Aggregator{catalog: catalog}
}

func FactsOf(i *entities.Ingredient) Facts {
	return Facts{
		Kcal:    i.Kcal100g,
		Protein: i.Protein100g,
		Carbs:   i.Carbs100g,
		Fat:     i.Fat100g,
	}
}

func LinesFromSnapshot(lines []entities.SnapshotLine) []Line {
	out := make([]Line, 0, len(lines))
	for _, l := range lines {
		out = append(out, Line{IngredientID: l.IngredientID, Quantity: l.Quantity, Unit: l.Unit})
	}
	return out
}

func LinesFromMeal(lines []entities.MealIngredient) []Line {
	out := make([]Line, 0, len(lines))
	for _, l := range lines {
		out = append(out, Line{IngredientID: l.IngredientID, Quantity: l.Quantity, Unit: l.Unit})
	}
	return out
}

func IDs(lines []Line) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(lines))
	ids := make([]uuid.UUID, 0, len(lines))
	for _, l := range lines {
		if _, ok := seen[l.IngredientID]; ok {
			continue
		}
		seen[l.IngredientID] = struct{}{}
		ids = append(ids, l.IngredientID)
	}
	return ids
}

// Compute resolves every line against the catalog and sums the contributions.
// Lines whose ingredient is missing from the catalog are skipped.
func (a *Aggregator) Compute(ctx context.Context, lines []Line) (Totals, error) {
	if len(lines) == 0 {
		return Totals{}, nil
	}
	facts, err := a.catalog.LookupFacts(ctx, IDs(lines))
	if err != nil {
		return Totals{}, err
	}
	return Sum(lines, facts), nil
}

// ComputeEach totals several line groups with a single catalog lookup.
func (a *Aggregator) ComputeEach(ctx context.Context, groups [][]Line) ([]Totals, error) {
	var all []Line
	for _, g := range groups {
		all = append(all, g...)
	}
	out := make([]Totals, len(groups))
	if len(all) == 0 {
		return out, nil
	}

	facts, err := a.catalog.LookupFacts(ctx, IDs(all))
	if err != nil {
		return nil, err
	}
	for i, g := range groups {
		out[i] = Sum(g, facts)
	}
	return out, nil
}

// Sum adds quantity * macro / 100 for each resolvable line.
func Sum(lines []Line, facts map[uuid.UUID]Facts) Totals {
	var t Totals
	for _, l := range lines {
		f, ok := facts[l.IngredientID]
		if !ok {
			continue
		}
		t.Kcal += l.Quantity * f.Kcal / 100
		t.Protein += l.Quantity * f.Protein / 100
		t.Carbs += l.Quantity * f.Carbs / 100
		t.Fat += l.Quantity * f.Fat / 100
		t.Weight += l.Quantity
	}
	return t
}

// Summary returns totals with the per-100g view, or ErrNoNutrients when nothing resolved.
func (a *Aggregator) Summary(ctx context.Context, lines []Line) (domain.NutrientsResponse, error) {
	total, err := a.Compute(ctx, lines)
	if err != nil {
		return domain.NutrientsResponse{}, err
	}
	per100, err := total.PerHundredGrams()
	if err != nil {
		return domain.NutrientsResponse{}, err
	}
	return domain.NutrientsResponse{
		Total:           total.Response(),
		PerHundredGrams: per100.Response(),
	}, nil
}

func (t Totals) Add(o Totals) Totals {
	return Totals{
		Kcal:    t.Kcal + o.Kcal,
		Protein: t.Protein + o.Protein,
		Carbs:   t.Carbs + o.Carbs,
		Fat:     t.Fat + o.Fat,
		Weight:  t.Weight + o.Weight,
	}
}

// Scale multiplies every figure, weight included, by factor.
func (t Totals) Scale(factor float64) Totals {
	return Totals{
		Kcal:    t.Kcal * factor,
		Protein: t.Protein * factor,
		Carbs:   t.Carbs * factor,
		Fat:     t.Fat * factor,
		Weight:  t.Weight * factor,
	}
}

func (t Totals) PerHundredGrams() (Totals, error) {
	if t.Weight <= 0 {
		return Totals{}, domain.ErrNoNutrients
	}
	return Totals{
		Kcal:    t.Kcal / t.Weight * 100,
		Protein: t.Protein / t.Weight * 100,
		Carbs:   t.Carbs / t.Weight * 100,
		Fat:     t.Fat / t.Weight * 100,
		Weight:  100,
	}, nil
}

func (t Totals) Response() domain.NutrientTotals {
	return domain.NutrientTotals{
		Kcal:    t.Kcal,
		Protein: t.Protein,
		Carbs:   t.Carbs,
		Fat:     t.Fat,
		Weight:  t.Weight,
	}
}
