package entities

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Meal struct {
	ID          uuid.UUID  `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	Name        string     `gorm:"type:varchar(255);not null" json:"name"`
	Description string     `gorm:"type:text" json:"description"`
	CreatorID   uuid.UUID  `gorm:"type:uuid;index;not null" json:"creator_id"`
	CategoryID  *uuid.UUID `gorm:"type:uuid" json:"category_id"`
	DietID      *uuid.UUID `gorm:"type:uuid" json:"diet_id"`
	Version     int        `gorm:"not null;default:1" json:"version"`
	LastUpdate  time.Time  `gorm:"type:timestamp with time zone" json:"last_update"`

	Creator  *User         `gorm:"foreignKey:CreatorID"`
	Category *MealCategory `gorm:"foreignKey:CategoryID"`
	Diet     *Diet         `gorm:"foreignKey:DietID"`
	Timestamp
}

type MealIngredient struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	MealID       uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_meal_ingredient;not null" json:"meal_id"`
	IngredientID uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_meal_ingredient;not null" json:"ingredient_id"`
	Unit         string    `gorm:"type:varchar(20)" json:"unit"`
	Quantity     float64   `gorm:"not null" json:"quantity"`

	Ingredient *Ingredient `gorm:"foreignKey:IngredientID"`
}

// MealHistory rows are written only by the versioning engine and never updated.
// There is no foreign key to meals so that logged versions survive meal deletion.
type MealHistory struct {
	ID          uuid.UUID                           `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	MealID      uuid.UUID                           `gorm:"type:uuid;uniqueIndex:idx_meal_version;not null" json:"meal_id"`
	MealVersion int                                 `gorm:"uniqueIndex:idx_meal_version;not null" json:"meal_version"`
	Composition datatypes.JSONType[MealComposition] `gorm:"type:jsonb;not null" json:"composition"`
	CreatedAt   time.Time                           `gorm:"type:timestamp with time zone;autoCreateTime" json:"created_at"`
}

// MealComposition is the frozen state of a meal at one version.
type MealComposition struct {
	Meal        MealSnapshot   `json:"meal"`
	Ingredients []SnapshotLine `json:"ingredients"`
}

type MealSnapshot struct {
	ID          uuid.UUID  `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	CreatorID   uuid.UUID  `json:"creator_id"`
	DietID      *uuid.UUID `json:"diet_id"`
	CategoryID  *uuid.UUID `json:"category_id"`
	Version     int        `json:"version"`
	LastUpdate  time.Time  `json:"last_update"`
}

type SnapshotLine struct {
	IngredientID uuid.UUID `json:"ingredient_id"`
	Unit         string    `json:"unit"`
	Quantity     float64   `json:"quantity"`
}
