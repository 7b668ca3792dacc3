package entities

import (
	"time"

	"github.com/google/uuid"
)

const (
	LinkConfirmEmail  = "confirm_email"
	LinkResetPassword = "reset_password"
)

type User struct {
	ID             uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	Name           string    `gorm:"type:varchar(100);not null" json:"name"`
	Email          string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Password       string    `gorm:"type:varchar(255);not null" json:"-"`
	Role           string    `gorm:"type:varchar(20);default:'user'" json:"role"`
	EmailConfirmed bool      `gorm:"default:false" json:"email_confirmed"`
	Active         bool      `gorm:"default:false" json:"active"`

	Details *UserDetails `gorm:"foreignKey:UserID"`
	Timestamp
}

// UserDetails holds body measurements and daily nutrient goals.
type UserDetails struct {
	UserID      uuid.UUID `gorm:"type:uuid;primary_key" json:"user_id"`
	Age         int       `json:"age"`
	Gender      string    `gorm:"type:char(1)" json:"gender"`
	Height      float64   `json:"height"`
	Weight      float64   `json:"weight"`
	KcalGoal    float64   `json:"kcal_goal"`
	FatGoal     float64   `json:"fat_goal"`
	ProteinGoal float64   `json:"protein_goal"`
	CarbGoal    float64   `json:"carb_goal"`

	Timestamp
}

type UserLink struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	UserID   uuid.UUID `gorm:"type:uuid;index" json:"user_id"`
	Code     string    `gorm:"type:text;uniqueIndex" json:"-"`
	Type     string    `gorm:"type:varchar(32)" json:"type"`
	Used     bool      `gorm:"default:false" json:"used"`
	ExpireAt time.Time `gorm:"type:timestamp with time zone" json:"expire_at"`

	User *User `gorm:"foreignKey:UserID"`
	Timestamp
}
