// Package mock provides an in-memory sqlite catalog seeded with a small,
// hand-checked slice of Canadian Nutrient File data.
package mock

import (
	"context"
	"fmt"
	"regexp"

	"github.com/nutriswap/backend/internal/domain"
	"github.com/nutriswap/backend/internal/infrastructure/store"
	applog "github.com/nutriswap/backend/internal/log"

	"gorm.io/gorm"
)

// Seeded food groups
const (
	GroupPoultry = 5
	GroupFruits  = 9
	GroupGrains  = 10
	GroupSweets  = 19
)

// Seeded foods
const (
	ChickenThigh  = 100
	ChickenBreast = 101
	GroundTurkey  = 102
	Duck          = 103
	Apple         = 200
	Banana        = 201
	Raspberries   = 202
	RolledOats    = 300
	HardCandy     = 400
)

type seedFood struct {
	id, group   int
	description string
	amounts     map[domain.NutrientID]float64
}

var foods = []seedFood{
	{ChickenThigh, GroupPoultry, "Chicken, thigh, meat and skin, roasted", map[domain.NutrientID]float64{
		domain.NutrientEnergy: 232, domain.NutrientProtein: 10, domain.NutrientFat: 15.5, domain.NutrientSugar: 0}},
	{ChickenBreast, GroupPoultry, "Chicken, breast, meat only, roasted", map[domain.NutrientID]float64{
		domain.NutrientEnergy: 165, domain.NutrientProtein: 15, domain.NutrientFat: 3.6, domain.NutrientSugar: 0}},
	{GroundTurkey, GroupPoultry, "Turkey, ground, cooked", map[domain.NutrientID]float64{
		domain.NutrientEnergy: 203, domain.NutrientProtein: 27, domain.NutrientFat: 10.4, domain.NutrientSugar: 0}},
	{Duck, GroupPoultry, "Duck, meat and skin, roasted", map[domain.NutrientID]float64{
		domain.NutrientEnergy: 337, domain.NutrientProtein: 19, domain.NutrientFat: 28.4, domain.NutrientSugar: 0}},
	{Apple, GroupFruits, "Apple, raw, with skin", map[domain.NutrientID]float64{
		domain.NutrientEnergy: 52, domain.NutrientProtein: 0.3, domain.NutrientCarbohydrate: 13.8,
		domain.NutrientFiber: 2.4, domain.NutrientSugar: 10.4}},
	{Banana, GroupFruits, "Banana, raw", map[domain.NutrientID]float64{
		domain.NutrientEnergy: 89, domain.NutrientProtein: 1.1, domain.NutrientCarbohydrate: 22.8,
		domain.NutrientFiber: 2.6, domain.NutrientSugar: 12.2}},
	{Raspberries, GroupFruits, "Raspberries, raw", map[domain.NutrientID]float64{
		domain.NutrientEnergy: 52, domain.NutrientProtein: 1.2, domain.NutrientCarbohydrate: 11.9,
		domain.NutrientFiber: 6.5, domain.NutrientSugar: 4.4}},
	{RolledOats, GroupGrains, "Cereal, oats, rolled, dry", map[domain.NutrientID]float64{
		domain.NutrientEnergy: 379, domain.NutrientProtein: 13.2, domain.NutrientFat: 6.5,
		domain.NutrientCarbohydrate: 67.7, domain.NutrientFiber: 10.1, domain.NutrientSugar: 1}},
	{HardCandy, GroupSweets, "Candies, hard", map[domain.NutrientID]float64{
		domain.NutrientEnergy: 394, domain.NutrientCarbohydrate: 98, domain.NutrientSugar: 62.9}},
}

var groups = []store.FoodGroup{
	{ID: GroupPoultry, Code: 5, Name: "Poultry Products"},
	{ID: GroupFruits, Code: 9, Name: "Fruits and fruit juices"},
	{ID: GroupGrains, Code: 10, Name: "Cereal grains"},
	{ID: GroupSweets, Code: 19, Name: "Sweets"},
}

var nonWord = regexp.MustCompile(`[^A-Za-z0-9]+`)

// New returns a fresh seeded in-memory database. Databases with the same
// name share state, so tests should pass a unique name such as t.Name().
func New(ctx context.Context, name string) (*gorm.DB, error) {
	applog.Debug(ctx, "initialising mock catalog", "name", name)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", nonWord.ReplaceAllString(name, "_"))
	db, err := store.OpenSQLite(dsn)
	if err != nil {
		return nil, err
	}
	if err := seed(ctx, db); err != nil {
		return nil, err
	}
	return db, nil
}

func seed(ctx context.Context, db *gorm.DB) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		rows := make([]store.FoodGroup, len(groups))
		copy(rows, groups)
		if err := tx.Create(&rows).Error; err != nil {
			return fmt.Errorf("seed groups: %w", err)
		}

		var nutrients []store.Nutrient
		for _, n := range domain.Vocabulary() {
			nutrients = append(nutrients, store.Nutrient{ID: int(n.ID), Code: int(n.ID), Unit: n.Unit, Name: n.StoreName})
		}
		if err := tx.Create(&nutrients).Error; err != nil {
			return fmt.Errorf("seed nutrients: %w", err)
		}

		for _, f := range foods {
			if err := tx.Create(&store.Food{ID: f.id, Code: f.id, FoodGroupID: f.group, Description: f.description}).Error; err != nil {
				return fmt.Errorf("seed food %d: %w", f.id, err)
			}
			for nid, v := range f.amounts {
				if err := tx.Create(&store.NutrientAmount{FoodID: f.id, NutrientID: int(nid), Value: v}).Error; err != nil {
					return fmt.Errorf("seed amount %d/%d: %w", f.id, nid, err)
				}
			}
		}
		return nil
	})
}
