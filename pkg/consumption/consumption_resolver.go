package consumption

import (
	"Nutrition-Tracker/domain"
	"Nutrition-Tracker/entities"
	"Nutrition-Tracker/pkg/authz"
	"Nutrition-Tracker/pkg/meal"
	"Nutrition-Tracker/pkg/nutrient"
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DailyTotals sums every log of the day, each scaled by its portion and resolved
// against the exact meal version that was logged.
func (s *consumptionService) DailyTotals(ctx context.Context, callerID, userID, date string, compare bool) (domain.DailyTotalsResponse, error) {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return domain.DailyTotalsResponse{}, domain.ErrParseUUID
	}
	if err := authz.RequireOwner(userUUID, callerID, domain.ErrUserNotAllowed); err != nil {
		return domain.DailyTotalsResponse{}, err
	}
	from, to, err := DayRange(date)
	if err != nil {
		return domain.DailyTotalsResponse{}, err
	}

	logs, err := s.consumptionRepository.GetFoodLogsBetween(ctx, userUUID, from, to)
	if err != nil {
		return domain.DailyTotalsResponse{}, domain.Unavailable(err)
	}

	ids := make([]uuid.UUID, 0, len(logs))
	for _, l := range logs {
		ids = append(ids, l.MealHistoryID)
	}
	histories, err := s.historyIndex(ctx, ids)
	if err != nil {
		return domain.DailyTotalsResponse{}, err
	}

	groups := make([][]nutrient.Line, len(logs))
	for i, l := range logs {
		h, ok := histories[l.MealHistoryID]
		if !ok {
			return domain.DailyTotalsResponse{}, domain.ErrMealVersionNotFound
		}
		comp, err := meal.Composition(h)
		if err != nil {
			return domain.DailyTotalsResponse{}, err
		}
		groups[i] = nutrient.LinesFromSnapshot(comp.Ingredients)
	}

	perLog, err := s.aggregator.ComputeEach(ctx, groups)
	if err != nil {
		return domain.DailyTotalsResponse{}, domain.Unavailable(err)
	}
	var consumed nutrient.Totals
	for i, t := range perLog {
		consumed = consumed.Add(t.Scale(logs[i].Portion))
	}

	res := domain.DailyTotalsResponse{
		Date:     from.Format(domain.DateLayout),
		Logs:     len(logs),
		Consumed: consumed.Response(),
	}
	if !compare {
		return res, nil
	}

	goals, err := s.userGoals(ctx, userUUID)
	if err != nil {
		return domain.DailyTotalsResponse{}, err
	}
	res.Goals = &goals
	res.Percentages = &domain.NutrientGoals{
		Kcal:    percentOf(consumed.Kcal, goals.Kcal),
		Protein: percentOf(consumed.Protein, goals.Protein),
		Carbs:   percentOf(consumed.Carbs, goals.Carbs),
		Fat:     percentOf(consumed.Fat, goals.Fat),
	}
	return res, nil
}

// ShoppingList gathers the ingredients of every schedule from today through the
// next days-1 days, per meal and merged by ingredient.
func (s *consumptionService) ShoppingList(ctx context.Context, callerID, userID string, days int) (domain.ShoppingListResponse, error) {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return domain.ShoppingListResponse{}, domain.ErrParseUUID
	}
	if err := authz.RequireOwner(userUUID, callerID, domain.ErrUserNotAllowed); err != nil {
		return domain.ShoppingListResponse{}, err
	}
	if days < 1 {
		return domain.ShoppingListResponse{}, domain.ErrInvalidHorizon
	}

	from := s.now().UTC().Truncate(24 * time.Hour)
	to := from.AddDate(0, 0, days)

	schedules, err := s.consumptionRepository.GetFoodSchedulesBetween(ctx, userUUID, from, to)
	if err != nil {
		return domain.ShoppingListResponse{}, domain.Unavailable(err)
	}

	ids := make([]uuid.UUID, 0, len(schedules))
	for _, sc := range schedules {
		ids = append(ids, sc.MealHistoryID)
	}
	histories, err := s.historyIndex(ctx, ids)
	if err != nil {
		return domain.ShoppingListResponse{}, err
	}

	comps := make([]entities.MealComposition, len(schedules))
	var all []nutrient.Line
	for i, sc := range schedules {
		h, ok := histories[sc.MealHistoryID]
		if !ok {
			return domain.ShoppingListResponse{}, domain.ErrMealVersionNotFound
		}
		comp, err := meal.Composition(h)
		if err != nil {
			return domain.ShoppingListResponse{}, err
		}
		comps[i] = comp
		all = append(all, nutrient.LinesFromSnapshot(comp.Ingredients)...)
	}

	names, err := s.productNames(ctx, nutrient.IDs(all))
	if err != nil {
		return domain.ShoppingListResponse{}, err
	}

	res := domain.ShoppingListResponse{
		From:    from,
		To:      to,
		Meals:   make([]domain.ShoppingMeal, 0, len(schedules)),
		Summary: []domain.ShoppingLine{},
	}
	summary := make(map[uuid.UUID]int)

	for i, sc := range schedules {
		lines := make([]domain.ShoppingLine, 0, len(comps[i].Ingredients))
		for _, l := range comps[i].Ingredients {
			name, ok := names[l.IngredientID]
			if !ok {
				continue
			}
			line := domain.ShoppingLine{
				IngredientID: l.IngredientID.String(),
				ProductName:  name,
				Quantity:     l.Quantity,
				Unit:         l.Unit,
			}
			lines = append(lines, line)

			if idx, seen := summary[l.IngredientID]; seen {
				res.Summary[idx].Quantity += l.Quantity
				continue
			}
			summary[l.IngredientID] = len(res.Summary)
			res.Summary = append(res.Summary, line)
		}

		res.Meals = append(res.Meals, domain.ShoppingMeal{
			ScheduleID:  sc.ID.String(),
			At:          sc.At,
			Meal:        meal.SnapshotResponse(comps[i].Meal),
			Ingredients: lines,
		})
	}
	return res, nil
}

func (s *consumptionService) productNames(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]string, error) {
	names := make(map[uuid.UUID]string, len(ids))
	if len(ids) == 0 {
		return names, nil
	}
	ingredients, err := s.ingredients.GetIngredientsByIDs(ctx, ids)
	if err != nil {
		return nil, domain.Unavailable(err)
	}
	for _, i := range ingredients {
		names[i.ID] = i.ProductName
	}
	return names, nil
}

// userGoals returns zero goals when the user has not filled in details yet.
func (s *consumptionService) userGoals(ctx context.Context, userID uuid.UUID) (domain.NutrientGoals, error) {
	details, err := s.goals.GetUserDetails(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.NutrientGoals{}, nil
		}
		return domain.NutrientGoals{}, domain.Unavailable(err)
	}
	return domain.NutrientGoals{
		Kcal:    details.KcalGoal,
		Protein: details.ProteinGoal,
		Carbs:   details.CarbGoal,
		Fat:     details.FatGoal,
	}, nil
}

func percentOf(value, goal float64) float64 {
	if goal <= 0 {
		return 0
	}
	return value / goal * 100
}
