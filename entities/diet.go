package entities

import "github.com/google/uuid"

type Diet struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	Name        string    `gorm:"type:varchar(100);uniqueIndex;not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`

	Timestamp
}

type UserDiet struct {
	ID      uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	UserID  uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_user_diet" json:"user_id"`
	DietID  uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_user_diet" json:"diet_id"`
	Allowed bool      `gorm:"not null" json:"allowed"`

	User *User `gorm:"foreignKey:UserID"`
	Diet *Diet `gorm:"foreignKey:DietID"`
	Timestamp
}

type MealCategory struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	Category    string    `gorm:"type:varchar(100);uniqueIndex;not null" json:"category"`
	Description string    `gorm:"type:text" json:"description"`

	Timestamp
}
