package consumption

import (
	"Nutrition-Tracker/entities"
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type (
	ConsumptionRepository interface {
		CreateFoodLog(ctx context.Context, log *entities.FoodLog) error
		GetFoodLogByID(ctx context.Context, id uuid.UUID) (*entities.FoodLog, error)
		GetFoodLogs(ctx context.Context, userID uuid.UUID, page, limit int) ([]entities.FoodLog, int64, error)
		GetFoodLogsBetween(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]entities.FoodLog, error)
		DeleteFoodLog(ctx context.Context, id uuid.UUID) error

		CreateFoodSchedule(ctx context.Context, schedule *entities.FoodSchedule) error
		GetFoodScheduleByID(ctx context.Context, id uuid.UUID) (*entities.FoodSchedule, error)
		GetFoodSchedules(ctx context.Context, userID uuid.UUID, page, limit int) ([]entities.FoodSchedule, int64, error)
		GetFoodSchedulesBetween(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]entities.FoodSchedule, error)
		DeleteFoodSchedule(ctx context.Context, id uuid.UUID) error
	}

	consumptionRepository struct {
		db *gorm.DB
	}
)

func NewConsumptionRepository(db *gorm.DB) ConsumptionRepository {
	return &consumptionRepository{db: db}
}

func (r *consumptionRepository) CreateFoodLog(ctx context.Context, log *entities.FoodLog) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(log).Error
}

func (r *consumptionRepository) GetFoodLogByID(ctx context.Context, id uuid.UUID) (*entities.FoodLog, error) {
	var log entities.FoodLog
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&log).Error; err != nil {
		return nil, err
	}
	return &log, nil
}

func (r *consumptionRepository) GetFoodLogs(ctx context.Context, userID uuid.UUID, page, limit int) ([]entities.FoodLog, int64, error) {
	var logs []entities.FoodLog
	var count int64
	offset := (page - 1) * limit

	if err := r.db.WithContext(ctx).
		Model(&entities.FoodLog{}).
		Where("user_id = ?", userID).
		Count(&count).Error; err != nil {
		return nil, 0, err
	}

	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Offset(offset).
		Limit(limit).
		Order("at desc").
		Find(&logs).Error; err != nil {
		return nil, 0, err
	}

	return logs, count, nil
}

// GetFoodLogsBetween returns logs with from <= at < to.
func (r *consumptionRepository) GetFoodLogsBetween(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]entities.FoodLog, error) {
	var logs []entities.FoodLog
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND at >= ? AND at < ?", userID, from, to).
		Order("at asc").
		Find(&logs).Error; err != nil {
		return nil, err
	}
	return logs, nil
}

func (r *consumptionRepository) DeleteFoodLog(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&entities.FoodLog{}).Error
}

func (r *consumptionRepository) CreateFoodSchedule(ctx context.Context, schedule *entities.FoodSchedule) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(schedule).Error
}

func (r *consumptionRepository) GetFoodScheduleByID(ctx context.Context, id uuid.UUID) (*entities.FoodSchedule, error) {
	var schedule entities.FoodSchedule
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&schedule).Error; err != nil {
		return nil, err
	}
	return &schedule, nil
}

func (r *consumptionRepository) GetFoodSchedules(ctx context.Context, userID uuid.UUID, page, limit int) ([]entities.FoodSchedule, int64, error) {
	var schedules []entities.FoodSchedule
	var count int64
	offset := (page - 1) * limit

	if err := r.db.WithContext(ctx).
		Model(&entities.FoodSchedule{}).
		Where("user_id = ?", userID).
		Count(&count).Error; err != nil {
		return nil, 0, err
	}

	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Offset(offset).
		Limit(limit).
		Order("at asc").
		Find(&schedules).Error; err != nil {
		return nil, 0, err
	}

	return schedules, count, nil
}

func (r *consumptionRepository) GetFoodSchedulesBetween(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]entities.FoodSchedule, error) {
	var schedules []entities.FoodSchedule
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND at >= ? AND at < ?", userID, from, to).
		Order("at asc").
		Find(&schedules).Error; err != nil {
		return nil, err
	}
	return schedules, nil
}

func (r *consumptionRepository) DeleteFoodSchedule(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&entities.FoodSchedule{}).Error
}
