package store

import "time"

// FoodGroup is a CNF food group
type FoodGroup struct {
	ID         int    `gorm:"primaryKey;autoIncrement:false"`
	Code       int    `gorm:"not null"`
	Name       string `gorm:"not null"`
	NameFrench string
}

// Food is a CNF food name row
type Food struct {
	ID                int    `gorm:"primaryKey;autoIncrement:false"`
	Code              int    `gorm:"index"`
	FoodGroupID       int    `gorm:"not null;index"`
	Description       string `gorm:"not null;index"`
	DescriptionFrench string
}

// Nutrient is a CNF nutrient name row
type Nutrient struct {
	ID     int    `gorm:"primaryKey;autoIncrement:false"`
	Code   int    `gorm:"not null"`
	Symbol string
	Unit   string
	Name   string `gorm:"not null"`
}

// NutrientAmount holds one value per (food, nutrient) pair, per 100 g
type NutrientAmount struct {
	FoodID     int     `gorm:"primaryKey;autoIncrement:false"`
	NutrientID int     `gorm:"primaryKey;autoIncrement:false;index"`
	Value      float64 `gorm:"not null"`
}

// LoggedMeal is one meal entry of a user. SlotKey is set for breakfast,
// lunch and dinner so each can exist once per user and date; snacks leave it NULL.
type LoggedMeal struct {
	ID          uint             `gorm:"primaryKey"`
	UserID      string           `gorm:"not null;index:idx_logged_meal_user_date"`
	MealType    string           `gorm:"not null"`
	MealDate    time.Time        `gorm:"not null;index:idx_logged_meal_user_date"`
	SlotKey     *string          `gorm:"uniqueIndex"`
	Ingredients []MealIngredient `gorm:"foreignKey:MealID"`
	CreatedAt   time.Time
}

// MealIngredient is one food eaten as part of a logged meal
type MealIngredient struct {
	ID            uint    `gorm:"primaryKey"`
	MealID        uint    `gorm:"not null;index"`
	FoodID        int     `gorm:"not null"`
	QuantityGrams float64 `gorm:"not null"`
	WasSwapped    bool    `gorm:"not null;default:false"`
}

// Models lists every table managed by AutoMigrate
func Models() []any {
	return []any{
		&FoodGroup{},
		&Food{},
		&Nutrient{},
		&NutrientAmount{},
		&LoggedMeal{},
		&MealIngredient{},
	}
}
