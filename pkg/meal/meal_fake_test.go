package meal

import (
	"context"
	"sort"
	"sync"

	"Nutrition-Tracker/entities"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type memStore struct {
	meals   map[uuid.UUID]entities.Meal
	lines   map[uuid.UUID][]entities.MealIngredient
	history []entities.MealHistory
}

func (s *memStore) clone() *memStore {
	c := &memStore{
		meals:   make(map[uuid.UUID]entities.Meal, len(s.meals)),
		lines:   make(map[uuid.UUID][]entities.MealIngredient, len(s.lines)),
		history: append([]entities.MealHistory(nil), s.history...),
	}
	for k, v := range s.meals {
		c.meals[k] = v
	}
	for k, v := range s.lines {
		c.lines[k] = append([]entities.MealIngredient(nil), v...)
	}
	return c
}

// memMealRepo is an in-memory MealRepository. RunInTx serialises transactions
// and restores the previous state when fn fails.
type memMealRepo struct {
	txMu   *sync.Mutex
	dataMu *sync.Mutex
	store  **memStore

	failAdd  error
	lastFind MealFilter
}

func newMemMealRepo() *memMealRepo {
	st := &memStore{
		meals: make(map[uuid.UUID]entities.Meal),
		lines: make(map[uuid.UUID][]entities.MealIngredient),
	}
	return &memMealRepo{txMu: &sync.Mutex{}, dataMu: &sync.Mutex{}, store: &st}
}

func (r *memMealRepo) st() *memStore { return *r.store }

func (r *memMealRepo) RunInTx(_ context.Context, fn func(repo MealRepository) error) error {
	r.txMu.Lock()
	defer r.txMu.Unlock()

	r.dataMu.Lock()
	saved := r.st().clone()
	r.dataMu.Unlock()

	if err := fn(r); err != nil {
		r.dataMu.Lock()
		*r.store = saved
		r.dataMu.Unlock()
		return err
	}
	return nil
}

func (r *memMealRepo) CreateMeal(_ context.Context, meal *entities.Meal) error {
	r.dataMu.Lock()
	defer r.dataMu.Unlock()
	r.st().meals[meal.ID] = *meal
	return nil
}

func (r *memMealRepo) GetMealByID(_ context.Context, id uuid.UUID) (*entities.Meal, error) {
	r.dataMu.Lock()
	defer r.dataMu.Unlock()
	m, ok := r.st().meals[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &m, nil
}

func (r *memMealRepo) LockMealByID(ctx context.Context, id uuid.UUID) (*entities.Meal, error) {
	return r.GetMealByID(ctx, id)
}

func (r *memMealRepo) UpdateMeal(_ context.Context, meal *entities.Meal) error {
	r.dataMu.Lock()
	defer r.dataMu.Unlock()
	if _, ok := r.st().meals[meal.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	r.st().meals[meal.ID] = *meal
	return nil
}

func (r *memMealRepo) DeleteMeal(_ context.Context, id uuid.UUID) error {
	r.dataMu.Lock()
	defer r.dataMu.Unlock()
	if _, ok := r.st().meals[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.st().meals, id)
	delete(r.st().lines, id)
	return nil
}

func (r *memMealRepo) GetMeals(_ context.Context, filter MealFilter, _, _ int) ([]*entities.Meal, int64, error) {
	r.dataMu.Lock()
	defer r.dataMu.Unlock()
	r.lastFind = filter

	var out []*entities.Meal
	for _, m := range r.st().meals {
		m := m
		if filter.CreatorID != nil && m.CreatorID != *filter.CreatorID {
			continue
		}
		out = append(out, &m)
	}
	return out, int64(len(out)), nil
}

func (r *memMealRepo) GetIngredients(_ context.Context, mealID uuid.UUID) ([]entities.MealIngredient, error) {
	r.dataMu.Lock()
	defer r.dataMu.Unlock()
	lines := append([]entities.MealIngredient(nil), r.st().lines[mealID]...)
	sort.Slice(lines, func(i, j int) bool {
		return lines[i].IngredientID.String() < lines[j].IngredientID.String()
	})
	return lines, nil
}

func (r *memMealRepo) ReplaceIngredients(_ context.Context, mealID uuid.UUID, lines []entities.MealIngredient) error {
	r.dataMu.Lock()
	defer r.dataMu.Unlock()
	fresh := make([]entities.MealIngredient, len(lines))
	for i, l := range lines {
		l.MealID = mealID
		fresh[i] = l
	}
	r.st().lines[mealID] = fresh
	return nil
}

func (r *memMealRepo) AddIngredient(_ context.Context, line *entities.MealIngredient) error {
	if r.failAdd != nil {
		return r.failAdd
	}
	r.dataMu.Lock()
	defer r.dataMu.Unlock()
	r.st().lines[line.MealID] = append(r.st().lines[line.MealID], *line)
	return nil
}

func (r *memMealRepo) RemoveIngredient(_ context.Context, mealID, ingredientID uuid.UUID) error {
	r.dataMu.Lock()
	defer r.dataMu.Unlock()
	lines := r.st().lines[mealID]
	kept := make([]entities.MealIngredient, 0, len(lines))
	for _, l := range lines {
		if l.IngredientID != ingredientID {
			kept = append(kept, l)
		}
	}
	if len(kept) == len(lines) {
		return gorm.ErrRecordNotFound
	}
	r.st().lines[mealID] = kept
	return nil
}

func (r *memMealRepo) HistoryExists(ctx context.Context, mealID uuid.UUID, version int) (bool, error) {
	_, err := r.GetHistory(ctx, mealID, version)
	if err == gorm.ErrRecordNotFound {
		return false, nil
	}
	return err == nil, err
}

func (r *memMealRepo) CreateHistory(_ context.Context, history *entities.MealHistory) (bool, error) {
	r.dataMu.Lock()
	defer r.dataMu.Unlock()
	for _, h := range r.st().history {
		if h.MealID == history.MealID && h.MealVersion == history.MealVersion {
			return false, nil
		}
	}
	r.st().history = append(r.st().history, *history)
	return true, nil
}

func (r *memMealRepo) GetHistory(_ context.Context, mealID uuid.UUID, version int) (*entities.MealHistory, error) {
	r.dataMu.Lock()
	defer r.dataMu.Unlock()
	for _, h := range r.st().history {
		if h.MealID == mealID && h.MealVersion == version {
			h := h
			return &h, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memMealRepo) GetHistoryByID(_ context.Context, id uuid.UUID) (*entities.MealHistory, error) {
	r.dataMu.Lock()
	defer r.dataMu.Unlock()
	for _, h := range r.st().history {
		if h.ID == id {
			h := h
			return &h, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memMealRepo) GetHistoriesByIDs(ctx context.Context, ids []uuid.UUID) ([]entities.MealHistory, error) {
	var out []entities.MealHistory
	for _, id := range ids {
		if h, err := r.GetHistoryByID(ctx, id); err == nil {
			out = append(out, *h)
		}
	}
	return out, nil
}

func (r *memMealRepo) ListHistory(_ context.Context, mealID uuid.UUID) ([]entities.MealHistory, error) {
	r.dataMu.Lock()
	defer r.dataMu.Unlock()
	var out []entities.MealHistory
	for _, h := range r.st().history {
		if h.MealID == mealID {
			out = append(out, h)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].MealVersion < out[j].MealVersion })
	return out, nil
}

func (r *memMealRepo) versions(mealID uuid.UUID) []int {
	hs, _ := r.ListHistory(context.Background(), mealID)
	out := make([]int, 0, len(hs))
	for _, h := range hs {
		out = append(out, h.MealVersion)
	}
	return out
}

type stubDiets struct {
	categories map[uuid.UUID]bool
	diets      map[uuid.UUID]bool
	userDiets  []entities.UserDiet
}

func (s *stubDiets) CategoryExists(_ context.Context, id uuid.UUID) (bool, error) {
	return s.categories[id], nil
}

func (s *stubDiets) DietExists(_ context.Context, id uuid.UUID) (bool, error) {
	return s.diets[id], nil
}

func (s *stubDiets) GetUserDiets(context.Context, uuid.UUID) ([]entities.UserDiet, error) {
	return s.userDiets, nil
}

type stubIngredients map[uuid.UUID]entities.Ingredient

func (s stubIngredients) GetIngredientsByIDs(_ context.Context, ids []uuid.UUID) ([]entities.Ingredient, error) {
	var out []entities.Ingredient
	for _, id := range ids {
		if i, ok := s[id]; ok {
			out = append(out, i)
		}
	}
	return out, nil
}
