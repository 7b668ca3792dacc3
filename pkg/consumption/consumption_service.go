package consumption

import (
	"Nutrition-Tracker/domain"
	"Nutrition-Tracker/entities"
	"Nutrition-Tracker/internal/utils"
	"Nutrition-Tracker/pkg/authz"
	"Nutrition-Tracker/pkg/meal"
	"Nutrition-Tracker/pkg/nutrient"
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type (
	// Snapshotter resolves a (meal, version) pair to its history row.
	Snapshotter interface {
		EnsureSnapshot(ctx context.Context, mealID uuid.UUID, version int) (*entities.MealHistory, error)
	}

	HistorySource interface {
		GetHistoriesByIDs(ctx context.Context, ids []uuid.UUID) ([]entities.MealHistory, error)
	}

	GoalSource interface {
		GetUserDetails(ctx context.Context, userID uuid.UUID) (*entities.UserDetails, error)
	}

	IngredientLookup interface {
		GetIngredientsByIDs(ctx context.Context, ids []uuid.UUID) ([]entities.Ingredient, error)
	}

	ConsumptionService interface {
		CreateFoodLog(ctx context.Context, req domain.CreateFoodLogRequest, userID string) (domain.FoodLogResponse, error)
		GetFoodLog(ctx context.Context, id string, userID string) (domain.FoodLogResponse, error)
		GetFoodLogs(ctx context.Context, userID string, page, limit int) ([]domain.FoodLogResponse, int64, error)
		GetFoodLogsByDate(ctx context.Context, userID string, date string) ([]domain.FoodLogResponse, error)
		DeleteFoodLog(ctx context.Context, id string, userID string) error

		CreateFoodSchedule(ctx context.Context, req domain.CreateFoodScheduleRequest, userID string) (domain.FoodScheduleResponse, error)
		GetFoodSchedule(ctx context.Context, id string, userID string) (domain.FoodScheduleResponse, error)
		GetFoodSchedules(ctx context.Context, userID string, page, limit int) ([]domain.FoodScheduleResponse, int64, error)
		GetFoodSchedulesByDate(ctx context.Context, userID string, date string) ([]domain.FoodScheduleResponse, error)
		DeleteFoodSchedule(ctx context.Context, id string, userID string) error

		DailyTotals(ctx context.Context, callerID, userID, date string, compare bool) (domain.DailyTotalsResponse, error)
		ShoppingList(ctx context.Context, callerID, userID string, days int) (domain.ShoppingListResponse, error)
	}

	consumptionService struct {
		consumptionRepository ConsumptionRepository
		snapshots             Snapshotter
		histories             HistorySource
		goals                 GoalSource
		ingredients           IngredientLookup
		aggregator            *nutrient.Aggregator
		now                   func() time.Time
	}
)

func NewConsumptionService(
	consumptionRepository ConsumptionRepository,
	snapshots Snapshotter,
	histories HistorySource,
	goals GoalSource,
	ingredients IngredientLookup,
	aggregator *nutrient.Aggregator,
) ConsumptionService {
	return &consumptionService{
		consumptionRepository: consumptionRepository,
		snapshots:             snapshots,
		histories:             histories,
		goals:                 goals,
		ingredients:           ingredients,
		aggregator:            aggregator,
		now:                   time.Now,
	}
}

func (s *consumptionService) CreateFoodLog(ctx context.Context, req domain.CreateFoodLogRequest, userID string) (domain.FoodLogResponse, error) {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return domain.FoodLogResponse{}, domain.ErrParseUUID
	}
	if req.Portion <= 0 {
		return domain.FoodLogResponse{}, domain.ErrInvalidPortion
	}
	at, err := ParseAt(req.At)
	if err != nil {
		return domain.FoodLogResponse{}, err
	}
	history, err := s.resolveHistory(ctx, req.MealID, req.MealVersion)
	if err != nil {
		return domain.FoodLogResponse{}, err
	}

	log := &entities.FoodLog{
		ID:            uuid.New(),
		UserID:        userUUID,
		MealHistoryID: history.ID,
		Portion:       req.Portion,
		At:            at,
	}
	if err := s.consumptionRepository.CreateFoodLog(ctx, log); err != nil {
		return domain.FoodLogResponse{}, domain.Unavailable(err)
	}

	utils.Log.WithFields(logrus.Fields{
		"user_id":      userID,
		"meal_id":      history.MealID,
		"meal_version": history.MealVersion,
	}).Info("food logged")
	return toFoodLogResponse(log, history), nil
}

func (s *consumptionService) GetFoodLog(ctx context.Context, id string, userID string) (domain.FoodLogResponse, error) {
	log, err := s.ownedFoodLog(ctx, id, userID)
	if err != nil {
		return domain.FoodLogResponse{}, err
	}
	histories, err := s.historyIndex(ctx, []uuid.UUID{log.MealHistoryID})
	if err != nil {
		return domain.FoodLogResponse{}, err
	}
	return toFoodLogResponse(log, histories[log.MealHistoryID]), nil
}

func (s *consumptionService) GetFoodLogs(ctx context.Context, userID string, page, limit int) ([]domain.FoodLogResponse, int64, error) {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return nil, 0, domain.ErrParseUUID
	}
	logs, count, err := s.consumptionRepository.GetFoodLogs(ctx, userUUID, page, limit)
	if err != nil {
		return nil, 0, domain.Unavailable(err)
	}
	res, err := s.foodLogResponses(ctx, logs)
	return res, count, err
}

func (s *consumptionService) GetFoodLogsByDate(ctx context.Context, userID string, date string) ([]domain.FoodLogResponse, error) {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return nil, domain.ErrParseUUID
	}
	from, to, err := DayRange(date)
	if err != nil {
		return nil, err
	}
	logs, err := s.consumptionRepository.GetFoodLogsBetween(ctx, userUUID, from, to)
	if err != nil {
		return nil, domain.Unavailable(err)
	}
	return s.foodLogResponses(ctx, logs)
}

func (s *consumptionService) DeleteFoodLog(ctx context.Context, id string, userID string) error {
	log, err := s.ownedFoodLog(ctx, id, userID)
	if err != nil {
		return err
	}
	if err := s.consumptionRepository.DeleteFoodLog(ctx, log.ID); err != nil {
		return domain.Unavailable(err)
	}
	return nil
}

// CreateFoodSchedule records a planned meal. The time must lie in the future.
func (s *consumptionService) CreateFoodSchedule(ctx context.Context, req domain.CreateFoodScheduleRequest, userID string) (domain.FoodScheduleResponse, error) {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return domain.FoodScheduleResponse{}, domain.ErrParseUUID
	}
	at, err := ParseAt(req.At)
	if err != nil {
		return domain.FoodScheduleResponse{}, err
	}
	if !at.After(s.now()) {
		return domain.FoodScheduleResponse{}, domain.ErrScheduleInPast
	}
	history, err := s.resolveHistory(ctx, req.MealID, req.MealVersion)
	if err != nil {
		return domain.FoodScheduleResponse{}, err
	}

	schedule := &entities.FoodSchedule{
		ID:            uuid.New(),
		UserID:        userUUID,
		MealHistoryID: history.ID,
		At:            at,
	}
	if err := s.consumptionRepository.CreateFoodSchedule(ctx, schedule); err != nil {
		return domain.FoodScheduleResponse{}, domain.Unavailable(err)
	}
	return toFoodScheduleResponse(schedule, history), nil
}

func (s *consumptionService) GetFoodSchedule(ctx context.Context, id string, userID string) (domain.FoodScheduleResponse, error) {
	schedule, err := s.ownedFoodSchedule(ctx, id, userID)
	if err != nil {
		return domain.FoodScheduleResponse{}, err
	}
	histories, err := s.historyIndex(ctx, []uuid.UUID{schedule.MealHistoryID})
	if err != nil {
		return domain.FoodScheduleResponse{}, err
	}
	return toFoodScheduleResponse(schedule, histories[schedule.MealHistoryID]), nil
}

func (s *consumptionService) GetFoodSchedules(ctx context.Context, userID string, page, limit int) ([]domain.FoodScheduleResponse, int64, error) {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return nil, 0, domain.ErrParseUUID
	}
	schedules, count, err := s.consumptionRepository.GetFoodSchedules(ctx, userUUID, page, limit)
	if err != nil {
		return nil, 0, domain.Unavailable(err)
	}
	res, err := s.foodScheduleResponses(ctx, schedules)
	return res, count, err
}

func (s *consumptionService) GetFoodSchedulesByDate(ctx context.Context, userID string, date string) ([]domain.FoodScheduleResponse, error) {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return nil, domain.ErrParseUUID
	}
	from, to, err := DayRange(date)
	if err != nil {
		return nil, err
	}
	schedules, err := s.consumptionRepository.GetFoodSchedulesBetween(ctx, userUUID, from, to)
	if err != nil {
		return nil, domain.Unavailable(err)
	}
	return s.foodScheduleResponses(ctx, schedules)
}

func (s *consumptionService) DeleteFoodSchedule(ctx context.Context, id string, userID string) error {
	schedule, err := s.ownedFoodSchedule(ctx, id, userID)
	if err != nil {
		return err
	}
	if err := s.consumptionRepository.DeleteFoodSchedule(ctx, schedule.ID); err != nil {
		return domain.Unavailable(err)
	}
	return nil
}

func (s *consumptionService) resolveHistory(ctx context.Context, mealID string, version int) (*entities.MealHistory, error) {
	id, err := uuid.Parse(mealID)
	if err != nil {
		return nil, domain.ErrParseUUID
	}
	if version < 1 {
		return nil, domain.ErrMealVersionNotFound
	}
	return s.snapshots.EnsureSnapshot(ctx, id, version)
}

func (s *consumptionService) ownedFoodLog(ctx context.Context, id string, userID string) (*entities.FoodLog, error) {
	logID, err := uuid.Parse(id)
	if err != nil {
		return nil, domain.ErrParseUUID
	}
	log, err := s.consumptionRepository.GetFoodLogByID(ctx, logID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrFoodLogNotFound
		}
		return nil, domain.Unavailable(err)
	}
	if err := authz.RequireOwner(log.UserID, userID, domain.ErrFoodLogNotOwned); err != nil {
		return nil, err
	}
	return log, nil
}

func (s *consumptionService) ownedFoodSchedule(ctx context.Context, id string, userID string) (*entities.FoodSchedule, error) {
	scheduleID, err := uuid.Parse(id)
	if err != nil {
		return nil, domain.ErrParseUUID
	}
	schedule, err := s.consumptionRepository.GetFoodScheduleByID(ctx, scheduleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrFoodScheduleNotFound
		}
		return nil, domain.Unavailable(err)
	}
	if err := authz.RequireOwner(schedule.UserID, userID, domain.ErrScheduleNotOwned); err != nil {
		return nil, err
	}
	return schedule, nil
}

func (s *consumptionService) historyIndex(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*entities.MealHistory, error) {
	histories, err := s.histories.GetHistoriesByIDs(ctx, ids)
	if err != nil {
		return nil, domain.Unavailable(err)
	}
	index := make(map[uuid.UUID]*entities.MealHistory, len(histories))
	for i := range histories {
		index[histories[i].ID] = &histories[i]
	}
	return index, nil
}

func (s *consumptionService) foodLogResponses(ctx context.Context, logs []entities.FoodLog) ([]domain.FoodLogResponse, error) {
	ids := make([]uuid.UUID, 0, len(logs))
	for _, l := range logs {
		ids = append(ids, l.MealHistoryID)
	}
	histories, err := s.historyIndex(ctx, ids)
	if err != nil {
		return nil, err
	}
	res := make([]domain.FoodLogResponse, 0, len(logs))
	for i := range logs {
		res = append(res, toFoodLogResponse(&logs[i], histories[logs[i].MealHistoryID]))
	}
	return res, nil
}

func (s *consumptionService) foodScheduleResponses(ctx context.Context, schedules []entities.FoodSchedule) ([]domain.FoodScheduleResponse, error) {
	ids := make([]uuid.UUID, 0, len(schedules))
	for _, sc := range schedules {
		ids = append(ids, sc.MealHistoryID)
	}
	histories, err := s.historyIndex(ctx, ids)
	if err != nil {
		return nil, err
	}
	res := make([]domain.FoodScheduleResponse, 0, len(schedules))
	for i := range schedules {
		res = append(res, toFoodScheduleResponse(&schedules[i], histories[schedules[i].MealHistoryID]))
	}
	return res, nil
}

// ParseAt reads a "HH:MM:SS DD-MM-YYYY" timestamp as UTC.
func ParseAt(raw string) (time.Time, error) {
	at, err := time.ParseInLocation(domain.TimeLayout, raw, time.UTC)
	if err != nil {
		return time.Time{}, domain.ErrInvalidTime
	}
	return at, nil
}

// DayRange returns [date 00:00, next day 00:00) in UTC for a "DD-MM-YYYY" date.
func DayRange(date string) (time.Time, time.Time, error) {
	day, err := time.ParseInLocation(domain.DateLayout, date, time.UTC)
	if err != nil {
		return time.Time{}, time.Time{}, domain.ErrInvalidDate
	}
	return day, day.AddDate(0, 0, 1), nil
}

func toFoodLogResponse(log *entities.FoodLog, history *entities.MealHistory) domain.FoodLogResponse {
	res := domain.FoodLogResponse{
		ID:            log.ID.String(),
		UserID:        log.UserID.String(),
		MealHistoryID: log.MealHistoryID.String(),
		Portion:       log.Portion,
		At:            log.At,
	}
	if history != nil {
		res.MealID = history.MealID.String()
		res.MealVersion = history.MealVersion
		res.MealName = history.Composition.Data().Meal.Name
	}
	return res
}

func toFoodScheduleResponse(schedule *entities.FoodSchedule, history *entities.MealHistory) domain.FoodScheduleResponse {
	res := domain.FoodScheduleResponse{
		ID:            schedule.ID.String(),
		UserID:        schedule.UserID.String(),
		MealHistoryID: schedule.MealHistoryID.String(),
		At:            schedule.At,
	}
	if history != nil {
		res.MealID = history.MealID.String()
		res.MealVersion = history.MealVersion
		res.MealName = history.Composition.Data().Meal.Name
	}
	return res
}

var _ Snapshotter = (*meal.Versioner)(nil)
