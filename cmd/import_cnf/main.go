package main

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/nutriswap/backend/config"
	"github.com/nutriswap/backend/internal/domain"
	"github.com/nutriswap/backend/internal/infrastructure/store"
	applog "github.com/nutriswap/backend/internal/log"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CNF export file names, read from the import directory
const (
	foodGroupFile      = "FOOD GROUP.csv"
	foodNameFile       = "FOOD NAME.csv"
	nutrientNameFile   = "NUTRIENT NAME.csv"
	nutrientAmountFile = "NUTRIENT AMOUNT.csv"
)

const batchSize = 500

func main() {
	dir := "cnf"
	if len(os.Args) > 1 {
		dir = os.Args[1]
	}

	if err := run(dir); err != nil {
		fmt.Fprintf(os.Stderr, "import failed: %v\n", err)
		os.Exit(1)
	}
}

func run(dir string) error {
	if strings.TrimSpace(dir) == "" {
		return fmt.Errorf("import directory must not be empty")
	}
	if _, err := os.Stat(dir); err != nil {
		return fmt.Errorf("locate import directory: %w", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := applog.SetLevel(cfg.Log.Level); err != nil {
		return err
	}

	database, err := store.Open(cfg.Database)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}

	summary, err := importCatalog(context.Background(), database, dir)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "Imported %d groups, %d foods, %d nutrients, %d amounts from %s (%d rows skipped)\n",
		summary.groups, summary.foods, summary.nutrients, summary.amounts, filepath.Base(dir), summary.skipped)
	return nil
}

type importSummary struct {
	groups, foods, nutrients, amounts int
	skipped                           int
}

// importCatalog upserts the four CNF tables found in dir. Each file is
// loaded in its own transaction. Only amounts for nutrients of the engine
// vocabulary are kept.
func importCatalog(ctx context.Context, db *gorm.DB, dir string) (importSummary, error) {
	var summary importSummary

	groupRows, err := readCSV(filepath.Join(dir, foodGroupFile))
	if err != nil {
		return summary, fmt.Errorf("read %s: %w", foodGroupFile, err)
	}
	groups, skipped := buildFoodGroups(ctx, groupRows)
	summary.skipped += skipped
	if err := upsert(ctx, db, groups); err != nil {
		return summary, fmt.Errorf("import food groups: %w", err)
	}
	summary.groups = len(groups)

	foodRows, err := readCSV(filepath.Join(dir, foodNameFile))
	if err != nil {
		return summary, fmt.Errorf("read %s: %w", foodNameFile, err)
	}
	foods, skipped := buildFoods(ctx, foodRows)
	summary.skipped += skipped
	if err := upsert(ctx, db, foods); err != nil {
		return summary, fmt.Errorf("import foods: %w", err)
	}
	summary.foods = len(foods)

	nutrientRows, err := readCSV(filepath.Join(dir, nutrientNameFile))
	if err != nil {
		return summary, fmt.Errorf("read %s: %w", nutrientNameFile, err)
	}
	nutrients, idMap, skipped := buildNutrients(ctx, nutrientRows)
	summary.skipped += skipped
	if err := upsert(ctx, db, nutrients); err != nil {
		return summary, fmt.Errorf("import nutrients: %w", err)
	}
	summary.nutrients = len(nutrients)

	amountRows, err := readCSV(filepath.Join(dir, nutrientAmountFile))
	if err != nil {
		return summary, fmt.Errorf("read %s: %w", nutrientAmountFile, err)
	}
	amounts, skipped := buildAmounts(ctx, amountRows, idMap)
	summary.skipped += skipped
	if err := upsert(ctx, db, amounts); err != nil {
		return summary, fmt.Errorf("import nutrient amounts: %w", err)
	}
	summary.amounts = len(amounts)

	applog.Info(ctx, "cnf import finished",
		"groups", summary.groups, "foods", summary.foods,
		"nutrients", summary.nutrients, "amounts", summary.amounts,
		"skipped", summary.skipped)
	return summary, nil
}

// upsert writes rows in batches inside one transaction, overwriting rows
// with the same primary key so the import can be rerun.
func upsert[T any](ctx context.Context, db *gorm.DB, rows []T) error {
	if len(rows) == 0 {
		return nil
	}
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Clauses(clause.OnConflict{UpdateAll: true}).CreateInBatches(&rows, batchSize).Error
	})
}

func buildFoodGroups(ctx context.Context, rows []map[string]string) ([]store.FoodGroup, int) {
	var out []store.FoodGroup
	skipped := 0
	for idx, row := range rows {
		id, err1 := parseInt(row["FoodGroupID"])
		code, err2 := parseInt(row["FoodGroupCode"])
		name := normalizeText(row["FoodGroupName"])
		if err := errors.Join(err1, err2); err != nil || name == "" {
			skipped++
			applog.Warn(ctx, "skipping food group row", "row", idx+2, "err", err)
			continue
		}
		out = append(out, store.FoodGroup{ID: id, Code: code, Name: name, NameFrench: normalizeText(row["FoodGroupNameF"])})
	}
	return out, skipped
}

func buildFoods(ctx context.Context, rows []map[string]string) ([]store.Food, int) {
	var out []store.Food
	skipped := 0
	for idx, row := range rows {
		id, err1 := parseInt(row["FoodID"])
		group, err2 := parseInt(row["FoodGroupID"])
		description := normalizeText(row["FoodDescription"])
		if err := errors.Join(err1, err2); err != nil || description == "" {
			skipped++
			applog.Warn(ctx, "skipping food row", "row", idx+2, "err", err)
			continue
		}
		code, err := parseInt(row["FoodCode"])
		if err != nil {
			code = id
		}
		out = append(out, store.Food{
			ID:                id,
			Code:              code,
			FoodGroupID:       group,
			Description:       description,
			DescriptionFrench: normalizeText(row["FoodDescriptionF"]),
		})
	}
	return out, skipped
}

// buildNutrients keeps the vocabulary nutrients and returns a map from CNF
// nutrient id to vocabulary id. A row matches the vocabulary by id, or by
// its CNF name when the id differs.
func buildNutrients(ctx context.Context, rows []map[string]string) ([]store.Nutrient, map[int]domain.NutrientID, int) {
	byName := make(map[string]domain.NutrientInfo)
	for _, n := range domain.Vocabulary() {
		byName[n.StoreName] = n
	}

	var out []store.Nutrient
	idMap := make(map[int]domain.NutrientID)
	emitted := make(map[domain.NutrientID]bool)
	skipped := 0
	for idx, row := range rows {
		id, err := parseInt(row["NutrientID"])
		if err != nil {
			skipped++
			applog.Warn(ctx, "skipping nutrient row", "row", idx+2, "err", err)
			continue
		}
		name := strings.ToUpper(normalizeText(row["NutrientName"]))

		info, ok := domain.NutrientID(id).Info()
		if !ok {
			info, ok = byName[name]
		}
		if !ok {
			continue
		}
		if _, seen := idMap[id]; seen {
			continue
		}
		idMap[id] = info.ID
		if emitted[info.ID] {
			continue
		}
		emitted[info.ID] = true

		code, err := parseInt(row["NutrientCode"])
		if err != nil {
			code = id
		}
		out = append(out, store.Nutrient{
			ID:     int(info.ID),
			Code:   code,
			Symbol: normalizeText(row["NutrientSymbol"]),
			Unit:   info.Unit,
			Name:   info.StoreName,
		})
	}
	return out, idMap, skipped
}

func buildAmounts(ctx context.Context, rows []map[string]string, idMap map[int]domain.NutrientID) ([]store.NutrientAmount, int) {
	var out []store.NutrientAmount
	seen := make(map[[2]int]int)
	skipped := 0
	for idx, row := range rows {
		cnfID, err := parseInt(row["NutrientID"])
		if err != nil {
			skipped++
			applog.Warn(ctx, "skipping amount row", "row", idx+2, "err", err)
			continue
		}
		nutrient, ok := idMap[cnfID]
		if !ok {
			continue
		}
		foodID, err1 := parseInt(row["FoodID"])
		value, err2 := strconv.ParseFloat(strings.TrimSpace(row["NutrientValue"]), 64)
		if err := errors.Join(err1, err2); err != nil || value < 0 || math.IsNaN(value) || math.IsInf(value, 0) {
			skipped++
			applog.Warn(ctx, "skipping amount row", "row", idx+2, "err", err)
			continue
		}

		// (food, nutrient) is unique; a later row replaces an earlier one
		key := [2]int{foodID, int(nutrient)}
		if i, dup := seen[key]; dup {
			out[i].Value = value
			continue
		}
		seen[key] = len(out)
		out = append(out, store.NutrientAmount{FoodID: foodID, NutrientID: int(nutrient), Value: value})
	}
	return out, skipped
}

func readCSV(path string) ([]map[string]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}

	if len(rows) == 0 {
		return nil, errors.New("csv is empty")
	}

	header := rows[0]
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}
	records := make([]map[string]string, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if len(row) == 0 {
			continue
		}

		record := make(map[string]string, len(header))
		for idx, key := range header {
			if idx >= len(row) {
				continue
			}
			record[strings.TrimSpace(key)] = strings.TrimSpace(row[idx])
		}
		records = append(records, record)
	}

	return records, nil
}

func parseInt(value string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0, fmt.Errorf("parse %q: %w", value, err)
	}
	return n, nil
}

func normalizeText(value string) string {
	return strings.Join(strings.Fields(value), " ")
}
