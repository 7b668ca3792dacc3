package consumption

import (
	"context"
	"testing"
	"time"

	"Nutrition-Tracker/domain"
	"Nutrition-Tracker/entities"
	"Nutrition-Tracker/pkg/nutrient"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type memRepo struct {
	logs      map[uuid.UUID]entities.FoodLog
	schedules map[uuid.UUID]entities.FoodSchedule
}

func newMemRepo() *memRepo {
	return &memRepo{
		logs:      make(map[uuid.UUID]entities.FoodLog),
		schedules: make(map[uuid.UUID]entities.FoodSchedule),
	}
}

func (m *memRepo) CreateFoodLog(_ context.Context, log *entities.FoodLog) error {
	m.logs[log.ID] = *log
	return nil
}

func (m *memRepo) GetFoodLogByID(_ context.Context, id uuid.UUID) (*entities.FoodLog, error) {
	l, ok := m.logs[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &l, nil
}

func (m *memRepo) GetFoodLogs(_ context.Context, userID uuid.UUID, _, _ int) ([]entities.FoodLog, int64, error) {
	var out []entities.FoodLog
	for _, l := range m.logs {
		if l.UserID == userID {
			out = append(out, l)
		}
	}
	return out, int64(len(out)), nil
}

func (m *memRepo) GetFoodLogsBetween(_ context.Context, userID uuid.UUID, from, to time.Time) ([]entities.FoodLog, error) {
	var out []entities.FoodLog
	for _, l := range m.logs {
		if l.UserID == userID && !l.At.Before(from) && l.At.Before(to) {
			out = append(out, l)
		}
	}
	return out, nil
}

func (m *memRepo) DeleteFoodLog(_ context.Context, id uuid.UUID) error {
	delete(m.logs, id)
	return nil
}

func (m *memRepo) CreateFoodSchedule(_ context.Context, schedule *entities.FoodSchedule) error {
	m.schedules[schedule.ID] = *schedule
	return nil
}

func (m *memRepo) GetFoodScheduleByID(_ context.Context, id uuid.UUID) (*entities.FoodSchedule, error) {
	s, ok := m.schedules[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &s, nil
}

func (m *memRepo) GetFoodSchedules(_ context.Context, userID uuid.UUID, _, _ int) ([]entities.FoodSchedule, int64, error) {
	var out []entities.FoodSchedule
	for _, s := range m.schedules {
		if s.UserID == userID {
			out = append(out, s)
		}
	}
	return out, int64(len(out)), nil
}

func (m *memRepo) GetFoodSchedulesBetween(_ context.Context, userID uuid.UUID, from, to time.Time) ([]entities.FoodSchedule, error) {
	var out []entities.FoodSchedule
	for _, s := range m.schedules {
		if s.UserID == userID && !s.At.Before(from) && s.At.Before(to) {
			out = append(out, s)
		}
	}
	// keep a stable order for assertions
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j].At.Before(out[j-1].At); j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	return out, nil
}

func (m *memRepo) DeleteFoodSchedule(_ context.Context, id uuid.UUID) error {
	delete(m.schedules, id)
	return nil
}

// historyStore serves both snapshot resolution and lookups by history id.
type historyStore struct {
	rows []entities.MealHistory
}

func (h *historyStore) add(mealID uuid.UUID, version int, name string, lines ...entities.SnapshotLine) entities.MealHistory {
	row := entities.MealHistory{
		ID:          uuid.New(),
		MealID:      mealID,
		MealVersion: version,
		Composition: datatypes.NewJSONType(entities.MealComposition{
			Meal:        entities.MealSnapshot{ID: mealID, Name: name, Version: version},
			Ingredients: lines,
		}),
	}
	h.rows = append(h.rows, row)
	return row
}

func (h *historyStore) EnsureSnapshot(_ context.Context, mealID uuid.UUID, version int) (*entities.MealHistory, error) {
	for i := range h.rows {
		if h.rows[i].MealID == mealID && h.rows[i].MealVersion == version {
			return &h.rows[i], nil
		}
	}
	return nil, domain.ErrMealVersionNotFound
}

func (h *historyStore) GetHistoriesByIDs(_ context.Context, ids []uuid.UUID) ([]entities.MealHistory, error) {
	var out []entities.MealHistory
	for _, row := range h.rows {
		for _, id := range ids {
			if row.ID == id {
				out = append(out, row)
				break
			}
		}
	}
	return out, nil
}

type goalStore map[uuid.UUID]entities.UserDetails

func (g goalStore) GetUserDetails(_ context.Context, userID uuid.UUID) (*entities.UserDetails, error) {
	d, ok := g[userID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &d, nil
}

type pantry map[uuid.UUID]entities.Ingredient

func (p pantry) GetIngredientsByIDs(_ context.Context, ids []uuid.UUID) ([]entities.Ingredient, error) {
	var out []entities.Ingredient
	for _, id := range ids {
		if i, ok := p[id]; ok {
			out = append(out, i)
		}
	}
	return out, nil
}

func (p pantry) LookupFacts(_ context.Context, ids []uuid.UUID) (map[uuid.UUID]nutrient.Facts, error) {
	out := make(map[uuid.UUID]nutrient.Facts)
	for _, id := range ids {
		if i, ok := p[id]; ok {
			out[id] = nutrient.FactsOf(&i)
		}
	}
	return out, nil
}

var (
	chicken = uuid.MustParse("00000000-0000-4000-8000-000000000001")
	rice    = uuid.MustParse("00000000-0000-4000-8000-000000000002")
	olive   = uuid.MustParse("00000000-0000-4000-8000-000000000003")

	fixedNow = time.Date(2025, 3, 10, 9, 30, 0, 0, time.UTC)
)

type fixture struct {
	repo      *memRepo
	histories *historyStore
	goals     goalStore
	service   *consumptionService
	user      uuid.UUID
	mealID    uuid.UUID
	v1        entities.MealHistory
}

func newFixture() *fixture {
	items := pantry{
		chicken: {ID: chicken, ProductName: "Chicken breast", Kcal100g: 165, Protein100g: 31, Fat100g: 3.6},
		rice:    {ID: rice, ProductName: "Rice", Kcal100g: 55, Protein100g: 1.2, Carbs100g: 12, Fat100g: 0.1},
		olive:   {ID: olive, ProductName: "Olive oil", Kcal100g: 884, Fat100g: 100},
	}
	f := &fixture{
		repo:      newMemRepo(),
		histories: &historyStore{},
		goals:     goalStore{},
		user:      uuid.New(),
		mealID:    uuid.New(),
	}
	f.v1 = f.histories.add(f.mealID, 1, "Chicken rice",
		entities.SnapshotLine{IngredientID: chicken, Quantity: 100, Unit: "g"},
		entities.SnapshotLine{IngredientID: rice, Quantity: 200, Unit: "g"},
	)
	svc := NewConsumptionService(f.repo, f.histories, f.histories, f.goals, items, nutrient.NewAggregator(items)).(*consumptionService)
	svc.now = func() time.Time { return fixedNow }
	f.service = svc
	return f
}

func TestCreateFoodLogResolvesVersion(t *testing.T) {
	f := newFixture()
	res, err := f.service.CreateFoodLog(context.Background(), domain.CreateFoodLogRequest{
		MealID:      f.mealID.String(),
		MealVersion: 1,
		Portion:     1.5,
		At:          "12:00:00 10-03-2025",
	}, f.user.String())
	require.NoError(t, err)

	assert.Equal(t, f.v1.ID.String(), res.MealHistoryID)
	assert.Equal(t, 1, res.MealVersion)
	assert.Equal(t, "Chicken rice", res.MealName)
	assert.Equal(t, time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC), res.At)
}

func TestCreateFoodLogRejectsBadInput(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.service.CreateFoodLog(ctx, domain.CreateFoodLogRequest{
		MealID: f.mealID.String(), MealVersion: 1, Portion: 0, At: "12:00:00 10-03-2025",
	}, f.user.String())
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = f.service.CreateFoodLog(ctx, domain.CreateFoodLogRequest{
		MealID: f.mealID.String(), MealVersion: 1, Portion: 1, At: "2025-03-10T12:00:00Z",
	}, f.user.String())
	assert.ErrorIs(t, err, domain.ErrInvalidTime)

	_, err = f.service.CreateFoodLog(ctx, domain.CreateFoodLogRequest{
		MealID: f.mealID.String(), MealVersion: 7, Portion: 1, At: "12:00:00 10-03-2025",
	}, f.user.String())
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Empty(t, f.repo.logs)
}

func TestDailyTotalsScalesByPortion(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.service.CreateFoodLog(ctx, domain.CreateFoodLogRequest{
		MealID: f.mealID.String(), MealVersion: 1, Portion: 1.5, At: "12:00:00 10-03-2025",
	}, f.user.String())
	require.NoError(t, err)
	// next day, must not count
	_, err = f.service.CreateFoodLog(ctx, domain.CreateFoodLogRequest{
		MealID: f.mealID.String(), MealVersion: 1, Portion: 1, At: "00:00:00 11-03-2025",
	}, f.user.String())
	require.NoError(t, err)

	res, err := f.service.DailyTotals(ctx, f.user.String(), f.user.String(), "10-03-2025", false)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Logs)
	assert.InDelta(t, 412.5, res.Consumed.Kcal, 1e-9)
	assert.InDelta(t, 450, res.Consumed.Weight, 1e-9)
	assert.Nil(t, res.Goals)
	assert.Nil(t, res.Percentages)
}

func TestDailyTotalsUsesLoggedVersion(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.service.CreateFoodLog(ctx, domain.CreateFoodLogRequest{
		MealID: f.mealID.String(), MealVersion: 1, Portion: 1, At: "08:00:00 10-03-2025",
	}, f.user.String())
	require.NoError(t, err)

	f.histories.add(f.mealID, 2, "Chicken rice",
		entities.SnapshotLine{IngredientID: chicken, Quantity: 100, Unit: "g"},
		entities.SnapshotLine{IngredientID: rice, Quantity: 200, Unit: "g"},
		entities.SnapshotLine{IngredientID: olive, Quantity: 10, Unit: "g"},
	)

	res, err := f.service.DailyTotals(ctx, f.user.String(), f.user.String(), "10-03-2025", false)
	require.NoError(t, err)
	assert.InDelta(t, 275, res.Consumed.Kcal, 1e-9)
}

func TestDailyTotalsComparesGoals(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.goals[f.user] = entities.UserDetails{UserID: f.user, KcalGoal: 1100, ProteinGoal: 0, CarbGoal: 100, FatGoal: 20}

	_, err := f.service.CreateFoodLog(ctx, domain.CreateFoodLogRequest{
		MealID: f.mealID.String(), MealVersion: 1, Portion: 1, At: "12:00:00 10-03-2025",
	}, f.user.String())
	require.NoError(t, err)

	res, err := f.service.DailyTotals(ctx, f.user.String(), f.user.String(), "10-03-2025", true)
	require.NoError(t, err)
	require.NotNil(t, res.Percentages)
	assert.InDelta(t, 25, res.Percentages.Kcal, 1e-9)
	assert.Equal(t, 0.0, res.Percentages.Protein)
	assert.InDelta(t, 24, res.Percentages.Carbs, 1e-9)
	assert.Equal(t, 1100.0, res.Goals.Kcal)
}

func TestDailyTotalsWithoutDetails(t *testing.T) {
	f := newFixture()
	res, err := f.service.DailyTotals(context.Background(), f.user.String(), f.user.String(), "10-03-2025", true)
	require.NoError(t, err)
	assert.Equal(t, 0, res.Logs)
	assert.Equal(t, domain.NutrientGoals{}, *res.Goals)
	assert.Equal(t, domain.NutrientGoals{}, *res.Percentages)
}

func TestDailyTotalsForbiddenForOtherUser(t *testing.T) {
	f := newFixture()
	_, err := f.service.DailyTotals(context.Background(), uuid.NewString(), f.user.String(), "10-03-2025", false)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = f.service.DailyTotals(context.Background(), f.user.String(), f.user.String(), "2025-03-10", false)
	assert.ErrorIs(t, err, domain.ErrInvalidDate)
}

func TestCreateFoodScheduleInPast(t *testing.T) {
	f := newFixture()
	_, err := f.service.CreateFoodSchedule(context.Background(), domain.CreateFoodScheduleRequest{
		MealID: f.mealID.String(), MealVersion: 1, At: "09:29:59 10-03-2025",
	}, f.user.String())
	assert.ErrorIs(t, err, domain.ErrScheduleInPast)
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Empty(t, f.repo.schedules)
}

func TestShoppingListMergesIngredients(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	other := uuid.New()
	f.histories.add(other, 3, "Rice bowl",
		entities.SnapshotLine{IngredientID: rice, Quantity: 150, Unit: "gram"},
		entities.SnapshotLine{IngredientID: olive, Quantity: 5, Unit: "ml"},
		entities.SnapshotLine{IngredientID: uuid.New(), Quantity: 1, Unit: "g"},
	)

	for _, req := range []domain.CreateFoodScheduleRequest{
		{MealID: f.mealID.String(), MealVersion: 1, At: "19:00:00 10-03-2025"},
		{MealID: other.String(), MealVersion: 3, At: "12:00:00 12-03-2025"},
		{MealID: other.String(), MealVersion: 3, At: "12:00:00 20-03-2025"},
	} {
		_, err := f.service.CreateFoodSchedule(ctx, req, f.user.String())
		require.NoError(t, err)
	}

	res, err := f.service.ShoppingList(ctx, f.user.String(), f.user.String(), domain.DefaultShoppingDays)
	require.NoError(t, err)

	assert.Equal(t, time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC), res.From)
	assert.Equal(t, time.Date(2025, 3, 17, 0, 0, 0, 0, time.UTC), res.To)
	require.Len(t, res.Meals, 2)
	assert.Equal(t, "Chicken rice", res.Meals[0].Meal.Name)
	assert.Len(t, res.Meals[1].Ingredients, 2)

	require.Len(t, res.Summary, 3)
	assert.Equal(t, "Chicken breast", res.Summary[0].ProductName)
	assert.Equal(t, "Rice", res.Summary[1].ProductName)
	assert.InDelta(t, 350, res.Summary[1].Quantity, 1e-9)
	assert.Equal(t, "g", res.Summary[1].Unit)
	assert.Equal(t, "Olive oil", res.Summary[2].ProductName)
}

func TestShoppingListRejectsHorizon(t *testing.T) {
	f := newFixture()
	_, err := f.service.ShoppingList(context.Background(), f.user.String(), f.user.String(), 0)
	assert.ErrorIs(t, err, domain.ErrInvalidHorizon)
}

func TestDeleteRequiresOwner(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	log, err := f.service.CreateFoodLog(ctx, domain.CreateFoodLogRequest{
		MealID: f.mealID.String(), MealVersion: 1, Portion: 1, At: "12:00:00 10-03-2025",
	}, f.user.String())
	require.NoError(t, err)
	schedule, err := f.service.CreateFoodSchedule(ctx, domain.CreateFoodScheduleRequest{
		MealID: f.mealID.String(), MealVersion: 1, At: "12:00:00 11-03-2025",
	}, f.user.String())
	require.NoError(t, err)

	stranger := uuid.NewString()
	assert.ErrorIs(t, f.service.DeleteFoodLog(ctx, log.ID, stranger), domain.ErrFoodLogNotOwned)
	assert.ErrorIs(t, f.service.DeleteFoodSchedule(ctx, schedule.ID, stranger), domain.ErrScheduleNotOwned)
	assert.Len(t, f.repo.logs, 1)
	assert.Len(t, f.repo.schedules, 1)

	require.NoError(t, f.service.DeleteFoodLog(ctx, log.ID, f.user.String()))
	require.NoError(t, f.service.DeleteFoodSchedule(ctx, schedule.ID, f.user.String()))
	assert.Empty(t, f.repo.logs)

	assert.ErrorIs(t, f.service.DeleteFoodLog(ctx, log.ID, f.user.String()), domain.ErrFoodLogNotFound)
}
