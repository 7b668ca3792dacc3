package meal

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"Nutrition-Tracker/domain"
	"Nutrition-Tracker/entities"
	"Nutrition-Tracker/pkg/nutrient"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

func (s stubIngredients) LookupFacts(_ context.Context, ids []uuid.UUID) (map[uuid.UUID]nutrient.Facts, error) {
	out := make(map[uuid.UUID]nutrient.Facts)
	for _, id := range ids {
		if i, ok := s[id]; ok {
			out[id] = nutrient.FactsOf(&i)
		}
	}
	return out, nil
}

var (
	chicken = uuid.MustParse("00000000-0000-4000-8000-000000000001")
	rice    = uuid.MustParse("00000000-0000-4000-8000-000000000002")
	olive   = uuid.MustParse("00000000-0000-4000-8000-000000000003")
	egg     = uuid.MustParse("00000000-0000-4000-8000-000000000004")
)

type mealFixture struct {
	repo      *memMealRepo
	diets     *stubDiets
	items     stubIngredients
	versioner *Versioner
	service   MealService
	owner     string
	category  uuid.UUID
	diet      uuid.UUID
}

func newMealFixture() *mealFixture {
	f := &mealFixture{
		repo:     newMemMealRepo(),
		owner:    uuid.NewString(),
		category: uuid.New(),
		diet:     uuid.New(),
		items: stubIngredients{
			chicken: {ID: chicken, ProductName: "Chicken breast", Kcal100g: 165, Protein100g: 31, Fat100g: 3.6},
			rice:    {ID: rice, ProductName: "Rice", Kcal100g: 55, Protein100g: 1.2, Carbs100g: 12, Fat100g: 0.1},
			olive:   {ID: olive, ProductName: "Olive oil", Kcal100g: 884, Fat100g: 100},
			egg:     {ID: egg, ProductName: "Egg", Kcal100g: 143, Protein100g: 12.6, Carbs100g: 0.7, Fat100g: 9.5},
		},
	}
	f.diets = &stubDiets{
		categories: map[uuid.UUID]bool{f.category: true},
		diets:      map[uuid.UUID]bool{f.diet: true},
	}
	f.versioner = NewVersioner(f.repo)
	f.service = NewMealService(f.repo, f.diets, f.items, f.versioner, nutrient.NewAggregator(f.items))
	return f
}

func (f *mealFixture) createMeal(t *testing.T) uuid.UUID {
	t.Helper()
	res, err := f.service.CreateMeal(context.Background(), domain.CreateMealRequest{
		Name:        "Chicken rice",
		Description: "lunch",
		Ingredients: []domain.MealIngredientRequest{
			{IngredientID: chicken.String(), Quantity: 100, Unit: "g"},
			{IngredientID: rice.String(), Quantity: 200, Unit: "g"},
		},
	}, f.owner)
	require.NoError(t, err)
	return uuid.MustParse(res.ID)
}

func TestCreateMealWritesFirstVersion(t *testing.T) {
	f := newMealFixture()
	id := f.createMeal(t)

	meal, err := f.repo.GetMealByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, 1, meal.Version)
	assert.Equal(t, []int{1}, f.repo.versions(id))

	v1, err := f.service.GetMealVersion(context.Background(), id.String(), 1)
	require.NoError(t, err)
	assert.Len(t, v1.Ingredients, 2)
	assert.Equal(t, "Chicken rice", v1.Meal.Name)
}

func TestCreateMealRejectsUnknownReferences(t *testing.T) {
	f := newMealFixture()
	missing := uuid.NewString()

	_, err := f.service.CreateMeal(context.Background(), domain.CreateMealRequest{
		Name:       "x",
		CategoryID: &missing,
	}, f.owner)
	assert.ErrorIs(t, err, domain.ErrCategoryNotFound)

	_, err = f.service.CreateMeal(context.Background(), domain.CreateMealRequest{
		Name:        "x",
		Ingredients: []domain.MealIngredientRequest{{IngredientID: missing, Quantity: 1}},
	}, f.owner)
	assert.ErrorIs(t, err, domain.ErrIngredientNotFound)

	_, err = f.service.CreateMeal(context.Background(), domain.CreateMealRequest{
		Name: "x",
		Ingredients: []domain.MealIngredientRequest{
			{IngredientID: rice.String(), Quantity: 1},
			{IngredientID: rice.String(), Quantity: 2},
		},
	}, f.owner)
	assert.ErrorIs(t, err, domain.ErrDuplicateIngredient)
	assert.Empty(t, f.repo.st().meals)
}

func TestMutationsAdvanceVersion(t *testing.T) {
	f := newMealFixture()
	ctx := context.Background()
	id := f.createMeal(t)
	name := "Chicken rice bowl"

	_, err := f.service.UpdateMeal(ctx, id.String(), domain.UpdateMealRequest{Name: &name}, f.owner)
	require.NoError(t, err)
	_, err = f.service.AssignCategory(ctx, id.String(), domain.AssignCategoryRequest{CategoryID: f.category.String()}, f.owner)
	require.NoError(t, err)
	_, err = f.service.AddIngredient(ctx, id.String(), domain.MealIngredientRequest{IngredientID: olive.String(), Quantity: 10, Unit: "ml"}, f.owner)
	require.NoError(t, err)
	_, err = f.service.RemoveIngredient(ctx, id.String(), rice.String(), f.owner)
	require.NoError(t, err)
	res, err := f.service.AssignDiet(ctx, id.String(), domain.AssignDietRequest{DietID: f.diet.String()}, f.owner)
	require.NoError(t, err)

	assert.Equal(t, 6, res.Version)
	assert.Equal(t, []int{1, 2, 3, 4, 5}, f.repo.versions(id))

	// each snapshot holds the state that was live before the next change
	v2, err := f.repo.GetHistory(ctx, id, 2)
	require.NoError(t, err)
	assert.Equal(t, name, v2.Composition.Data().Meal.Name)
	assert.Nil(t, v2.Composition.Data().Meal.CategoryID)

	v4, err := f.repo.GetHistory(ctx, id, 4)
	require.NoError(t, err)
	assert.Len(t, v4.Composition.Data().Ingredients, 3)

	v1, err := f.service.GetMealVersionNutrients(ctx, id.String(), 1)
	require.NoError(t, err)
	assert.InDelta(t, 275, v1.Total.Kcal, 1e-9)

	live, err := f.service.GetMealNutrients(ctx, id.String())
	require.NoError(t, err)
	assert.InDelta(t, 165+88.4, live.Total.Kcal, 1e-9)
}

func TestSnapshotIsWrittenOnce(t *testing.T) {
	f := newMealFixture()
	ctx := context.Background()
	id := f.createMeal(t)

	meal, err := f.repo.GetMealByID(ctx, id)
	require.NoError(t, err)
	inserted, err := f.repo.CreateHistory(ctx, NewHistory(meal, nil))
	require.NoError(t, err)
	assert.False(t, inserted)

	_, err = f.service.RemoveCategory(ctx, id.String(), f.owner)
	require.Error(t, err)
	_, err = f.service.UpdateMeal(ctx, id.String(), domain.UpdateMealRequest{Description: new(string)}, f.owner)
	require.NoError(t, err)

	assert.Equal(t, []int{1}, f.repo.versions(id))
	v1, err := f.repo.GetHistory(ctx, id, 1)
	require.NoError(t, err)
	assert.Len(t, v1.Composition.Data().Ingredients, 2)
}

func TestRejectedMutationWritesNothing(t *testing.T) {
	f := newMealFixture()
	ctx := context.Background()
	id := f.createMeal(t)

	tests := []struct {
		name string
		run  func() error
		want error
	}{
		{
			name: "ingredient already present",
			run: func() error {
				_, err := f.service.AddIngredient(ctx, id.String(), domain.MealIngredientRequest{IngredientID: rice.String(), Quantity: 5}, f.owner)
				return err
			},
			want: domain.ErrIngredientAlreadyInMeal,
		},
		{
			name: "remove missing ingredient",
			run: func() error {
				_, err := f.service.RemoveIngredient(ctx, id.String(), egg.String(), f.owner)
				return err
			},
			want: domain.ErrIngredientNotInMeal,
		},
		{
			name: "no diet to update",
			run: func() error {
				_, err := f.service.UpdateDiet(ctx, id.String(), domain.AssignDietRequest{DietID: f.diet.String()}, f.owner)
				return err
			},
			want: domain.ErrNoDietAssigned,
		},
		{
			name: "not the creator",
			run: func() error {
				_, err := f.service.AddIngredient(ctx, id.String(), domain.MealIngredientRequest{IngredientID: egg.String(), Quantity: 50}, uuid.NewString())
				return err
			},
			want: domain.ErrForbidden,
		},
		{
			name: "unknown meal",
			run: func() error {
				_, err := f.service.RemoveDiet(ctx, uuid.NewString(), f.owner)
				return err
			},
			want: domain.ErrMealNotFound,
		},
		{
			name: "empty update",
			run: func() error {
				_, err := f.service.UpdateMeal(ctx, id.String(), domain.UpdateMealRequest{}, f.owner)
				return err
			},
			want: domain.ErrEmptyMealUpdate,
		},
		{
			name: "empty details applied directly",
			run: func() error {
				_, err := f.versioner.Apply(ctx, id, f.owner, UpdateDetails(nil, nil))
				return err
			},
			want: domain.ErrEmptyMealUpdate,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.run(), tt.want)

			meal, err := f.repo.GetMealByID(ctx, id)
			require.NoError(t, err)
			assert.Equal(t, 1, meal.Version)
			assert.Equal(t, []int{1}, f.repo.versions(id))
		})
	}
}

func TestFailedApplyRollsBack(t *testing.T) {
	f := newMealFixture()
	ctx := context.Background()
	id := f.createMeal(t)

	// drop v1 so the rollback of a fresh snapshot is observable
	f.repo.st().history = nil
	f.repo.failAdd = errors.New("connection reset")

	_, err := f.service.AddIngredient(ctx, id.String(), domain.MealIngredientRequest{IngredientID: egg.String(), Quantity: 50}, f.owner)
	assert.ErrorIs(t, err, domain.ErrUnavailable)

	meal, err := f.repo.GetMealByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 1, meal.Version)
	assert.Empty(t, f.repo.versions(id))
}

func TestEmptyReplaceStillBumps(t *testing.T) {
	f := newMealFixture()
	ctx := context.Background()
	id := f.createMeal(t)

	res, err := f.service.ReplaceIngredients(ctx, id.String(), domain.ReplaceIngredientsRequest{}, f.owner)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Version)
	assert.Empty(t, res.Ingredients)

	_, err = f.service.GetMealNutrients(ctx, id.String())
	assert.ErrorIs(t, err, domain.ErrNoNutrients)

	old, err := f.service.GetMealVersion(ctx, id.String(), 1)
	require.NoError(t, err)
	assert.Len(t, old.Ingredients, 2)
}

func TestConcurrentMutationsSerialise(t *testing.T) {
	f := newMealFixture()
	ctx := context.Background()
	id := f.createMeal(t)

	extra := make([]uuid.UUID, 8)
	for i := range extra {
		extra[i] = uuid.New()
		f.items[extra[i]] = entities.Ingredient{ID: extra[i], ProductName: fmt.Sprintf("item %d", i)}
	}

	var wg sync.WaitGroup
	errs := make(chan error, len(extra))
	for _, ing := range extra {
		wg.Add(1)
		go func(ing uuid.UUID) {
			defer wg.Done()
			_, err := f.service.AddIngredient(ctx, id.String(), domain.MealIngredientRequest{IngredientID: ing.String(), Quantity: 1}, f.owner)
			errs <- err
		}(ing)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	meal, err := f.repo.GetMealByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, len(extra)+1, meal.Version)

	want := make([]int, 0, len(extra))
	for v := 1; v <= len(extra); v++ {
		want = append(want, v)
	}
	assert.Equal(t, want, f.repo.versions(id))
}

func TestEnsureSnapshot(t *testing.T) {
	f := newMealFixture()
	ctx := context.Background()
	id := f.createMeal(t)

	_, err := f.service.AddIngredient(ctx, id.String(), domain.MealIngredientRequest{IngredientID: egg.String(), Quantity: 50}, f.owner)
	require.NoError(t, err)
	assert.Equal(t, []int{1}, f.repo.versions(id))

	live, err := f.versioner.EnsureSnapshot(ctx, id, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, live.MealVersion)
	assert.Len(t, live.Composition.Data().Ingredients, 3)

	again, err := f.versioner.EnsureSnapshot(ctx, id, 2)
	require.NoError(t, err)
	assert.Equal(t, live.ID, again.ID)
	assert.Equal(t, []int{1, 2}, f.repo.versions(id))

	_, err = f.versioner.EnsureSnapshot(ctx, id, 3)
	assert.ErrorIs(t, err, domain.ErrMealVersionNotFound)

	require.NoError(t, f.service.DeleteMeal(ctx, id.String(), f.owner))
	old, err := f.versioner.EnsureSnapshot(ctx, id, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, old.MealVersion)

	_, err = f.versioner.EnsureSnapshot(ctx, uuid.New(), 1)
	assert.ErrorIs(t, err, domain.ErrMealVersionNotFound)
}

// interleavingRepo runs onMiss once, right after the first history lookup outside a
// transaction misses. Transactions still run against the wrapped repo.
type interleavingRepo struct {
	*memMealRepo
	onMiss func()
	fired  bool
}

func (r *interleavingRepo) GetHistory(ctx context.Context, mealID uuid.UUID, version int) (*entities.MealHistory, error) {
	h, err := r.memMealRepo.GetHistory(ctx, mealID, version)
	if errors.Is(err, gorm.ErrRecordNotFound) && !r.fired && r.onMiss != nil {
		r.fired = true
		r.onMiss()
	}
	return h, err
}

func TestEnsureSnapshotAfterConcurrentMutation(t *testing.T) {
	f := newMealFixture()
	ctx := context.Background()
	id := f.createMeal(t)

	_, err := f.service.AddIngredient(ctx, id.String(), domain.MealIngredientRequest{IngredientID: egg.String(), Quantity: 50}, f.owner)
	require.NoError(t, err)
	require.Equal(t, []int{1}, f.repo.versions(id))

	// the owner removes the egg between the unlocked lookup and the row lock,
	// which moves the meal to v3 and writes the v2 row
	repo := &interleavingRepo{memMealRepo: f.repo}
	repo.onMiss = func() {
		_, err := f.service.RemoveIngredient(ctx, id.String(), egg.String(), f.owner)
		require.NoError(t, err)
	}

	history, err := NewVersioner(repo).EnsureSnapshot(ctx, id, 2)
	require.NoError(t, err)
	assert.True(t, repo.fired)
	assert.Equal(t, 2, history.MealVersion)
	assert.Len(t, history.Composition.Data().Ingredients, 3)
	assert.Equal(t, []int{1, 2}, f.repo.versions(id))

	meal, err := f.repo.GetMealByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 3, meal.Version)
}

func TestDeleteMealRequiresOwner(t *testing.T) {
	f := newMealFixture()
	ctx := context.Background()
	id := f.createMeal(t)

	assert.ErrorIs(t, f.service.DeleteMeal(ctx, id.String(), uuid.NewString()), domain.ErrMealNotOwned)
	require.NoError(t, f.service.DeleteMeal(ctx, id.String(), f.owner))

	_, err := f.service.GetMeal(ctx, id.String())
	assert.ErrorIs(t, err, domain.ErrMealNotFound)

	versions, err := f.service.GetMealVersions(ctx, id.String())
	require.NoError(t, err)
	assert.Len(t, versions, 1)
}

func TestSearchMealsAppliesDietPreferences(t *testing.T) {
	f := newMealFixture()
	allowed, banned := uuid.New(), uuid.New()
	f.diets.userDiets = []entities.UserDiet{
		{DietID: allowed, Allowed: true},
		{DietID: banned, Allowed: false},
	}

	_, _, err := f.service.SearchMeals(context.Background(), domain.SearchMealRequest{Query: "rice"}, f.owner, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, "rice", f.repo.lastFind.Query)
	assert.Equal(t, []uuid.UUID{allowed}, f.repo.lastFind.AllowedDiets)
	assert.Equal(t, []uuid.UUID{banned}, f.repo.lastFind.ExcludedDiets)

	_, _, err = f.service.SearchMeals(context.Background(), domain.SearchMealRequest{Query: "rice", AllowMore: true}, f.owner, 1, 10)
	require.NoError(t, err)
	assert.Empty(t, f.repo.lastFind.AllowedDiets)
	assert.Equal(t, []uuid.UUID{banned}, f.repo.lastFind.ExcludedDiets)
}

func TestCompositionRejectsCorruptRows(t *testing.T) {
	mealID := uuid.New()
	good := &entities.MealHistory{
		ID:          uuid.New(),
		MealID:      mealID,
		MealVersion: 2,
		Composition: datatypes.NewJSONType(entities.MealComposition{
			Meal:        entities.MealSnapshot{ID: mealID, Version: 2},
			Ingredients: []entities.SnapshotLine{{IngredientID: rice, Quantity: 10}},
		}),
	}
	_, err := Composition(good)
	require.NoError(t, err)

	wrongVersion := *good
	wrongVersion.MealVersion = 3
	_, err = Composition(&wrongVersion)
	assert.ErrorIs(t, err, domain.ErrCorruptSnapshot)

	negative := *good
	negative.Composition = datatypes.NewJSONType(entities.MealComposition{
		Meal:        entities.MealSnapshot{ID: mealID, Version: 2},
		Ingredients: []entities.SnapshotLine{{IngredientID: rice, Quantity: -1}},
	})
	_, err = Composition(&negative)
	assert.ErrorIs(t, err, domain.ErrValidation)
}
