package entities

import (
	"time"

	"github.com/google/uuid"
)

type FoodLog struct {
	ID            uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	UserID        uuid.UUID `gorm:"type:uuid;index:idx_food_log_user_at;not null" json:"user_id"`
	MealHistoryID uuid.UUID `gorm:"type:uuid;not null" json:"meal_history_id"`
	Portion       float64   `gorm:"not null;default:1" json:"portion"`
	At            time.Time `gorm:"type:timestamp with time zone;index:idx_food_log_user_at;not null" json:"at"`

	User        *User        `gorm:"foreignKey:UserID"`
	MealHistory *MealHistory `gorm:"foreignKey:MealHistoryID"`
	Timestamp
}

type FoodSchedule struct {
	ID            uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	UserID        uuid.UUID `gorm:"type:uuid;index:idx_food_schedule_user_at;not null" json:"user_id"`
	MealHistoryID uuid.UUID `gorm:"type:uuid;not null" json:"meal_history_id"`
	At            time.Time `gorm:"type:timestamp with time zone;index:idx_food_schedule_user_at;not null" json:"at"`

	User        *User        `gorm:"foreignKey:UserID"`
	MealHistory *MealHistory `gorm:"foreignKey:MealHistoryID"`
	Timestamp
}
