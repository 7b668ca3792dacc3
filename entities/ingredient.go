package entities

import "github.com/google/uuid"

// Ingredient is catalog data imported from Open Food Facts. Macro values are per 100 g.
type Ingredient struct {
	ID              uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	ProductName     string    `gorm:"type:text;not null" json:"product_name"`
	GenericName     string    `gorm:"type:text" json:"generic_name"`
	Kcal100g        float64   `gorm:"column:kcal_100g" json:"kcal_100g"`
	Protein100g     float64   `gorm:"column:protein_100g" json:"protein_100g"`
	Carbs100g       float64   `gorm:"column:carbs_100g" json:"carbs_100g"`
	Fat100g         float64   `gorm:"column:fat_100g" json:"fat_100g"`
	Brand           string    `gorm:"type:text" json:"brand"`
	Barcode         string    `gorm:"type:varchar(64);index" json:"barcode"`
	ImageURL        string    `gorm:"type:text" json:"image_url"`
	LabelsTags      string    `gorm:"type:text" json:"labels_tags"`
	ProductQuantity *float64  `json:"product_quantity"`
	Allergens       string    `gorm:"type:text" json:"allergens"`

	Timestamp
}
