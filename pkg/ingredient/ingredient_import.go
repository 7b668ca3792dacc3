package ingredient

import (
	"Nutrition-Tracker/domain"
	"Nutrition-Tracker/entities"
	"Nutrition-Tracker/internal/utils"
	"bufio"
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
)

const DefaultImportBatch = 5000

// Open Food Facts export columns mapped onto the catalog.
const (
	colProductName     = "product_name"
	colGenericName     = "generic_name"
	colKcal            = "energy-kcal_100g"
	colProtein         = "proteins_100g"
	colCarbs           = "carbohydrates_100g"
	colFat             = "fat_100g"
	colBrands          = "brands"
	colCode            = "code"
	colImageURL        = "image_url"
	colLabelsTags      = "labels_tags"
	colProductQuantity = "product_quantity"
	colAllergens       = "allergens"
)

type Importer struct {
	ingredientRepository IngredientRepository
	batchSize            int
}

func NewImporter(ingredientRepository IngredientRepository, batchSize int) *Importer {
	if batchSize < 1 {
		batchSize = DefaultImportBatch
	}
	return &Importer{ingredientRepository: ingredientRepository, batchSize: batchSize}
}

// Import reads a tab separated Open Food Facts export. Fields are taken verbatim, without
// quote handling. Rows without a product name are skipped. Each batch is committed on its own.
func (im *Importer) Import(ctx context.Context, r io.Reader, gzipped bool) (domain.ImportResult, error) {
	var result domain.ImportResult

	if gzipped {
		gz, err := gzip.NewReader(r)
		if err != nil {
			return result, fmt.Errorf("open gzip stream: %w", err)
		}
		defer gz.Close()
		r = gz
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 1<<20), 64<<20)

	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return result, fmt.Errorf("read header: %w", err)
		}
		return result, nil
	}
	columns := indexColumns(scanner.Text())
	if _, ok := columns[colProductName]; !ok {
		return result, fmt.Errorf("export has no %s column", colProductName)
	}

	batch := make([]entities.Ingredient, 0, im.batchSize)
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		if err := im.ingredientRepository.CreateIngredients(ctx, batch); err != nil {
			return domain.Unavailable(err)
		}
		result.Imported += len(batch)
		batch = make([]entities.Ingredient, 0, im.batchSize)
		utils.Log.WithFields(logrus.Fields{"read": result.Read, "imported": result.Imported}).Debug("ingredient batch committed")
		return nil
	}

	for scanner.Scan() {
		result.Read++
		ingredient, ok := parseRow(strings.Split(scanner.Text(), "\t"), columns)
		if !ok {
			result.Skipped++
			continue
		}
		batch = append(batch, ingredient)
		if len(batch) >= im.batchSize {
			if err := ctx.Err(); err != nil {
				return result, err
			}
			if err := flush(); err != nil {
				return result, err
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return result, fmt.Errorf("read line %d: %w", result.Read+1, err)
	}
	if err := flush(); err != nil {
		return result, err
	}

	utils.Log.WithFields(logrus.Fields{
		"read":     result.Read,
		"imported": result.Imported,
		"skipped":  result.Skipped,
	}).Info("ingredient import finished")
	return result, nil
}

func indexColumns(header string) map[string]int {
	columns := make(map[string]int)
	for i, name := range strings.Split(strings.TrimRight(header, "\r"), "\t") {
		columns[strings.TrimSpace(name)] = i
	}
	return columns
}

func parseRow(fields []string, columns map[string]int) (entities.Ingredient, bool) {
	get := func(name string) string {
		i, ok := columns[name]
		if !ok || i >= len(fields) {
			return ""
		}
		return strings.TrimSpace(fields[i])
	}

	name := get(colProductName)
	if name == "" {
		return entities.Ingredient{}, false
	}

	return entities.Ingredient{
		ProductName:     name,
		GenericName:     get(colGenericName),
		Kcal100g:        parseFloat(get(colKcal)),
		Protein100g:     parseFloat(get(colProtein)),
		Carbs100g:       parseFloat(get(colCarbs)),
		Fat100g:         parseFloat(get(colFat)),
		Brand:           get(colBrands),
		Barcode:         get(colCode),
		ImageURL:        get(colImageURL),
		LabelsTags:      get(colLabelsTags),
		ProductQuantity: parseOptionalFloat(get(colProductQuantity)),
		Allergens:       get(colAllergens),
	}, true
}

func parseFloat(raw string) float64 {
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v < 0 {
		return 0
	}
	return v
}

func parseOptionalFloat(raw string) *float64 {
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil
	}
	return &v
}
