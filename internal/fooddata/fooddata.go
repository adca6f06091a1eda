// Package fooddata reads food items from a CSV dataset. The first column is
// the food code, the second the food name; nutrient columns are looked up by
// header name. The file is scanned on every call, so edits to the file show
// up on the next query.
package fooddata

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
)

// DefaultSearchLimit is used when Search is given a non-positive limit.
const DefaultSearchLimit = 10

// DefaultServingSize is reported when a row has no servings_unit value.
const DefaultServingSize = "serving"

var (
	// ErrNotFound means the dataset was read but no row matched.
	ErrNotFound = errors.New("food not found")
	// ErrDatasetUnavailable means the dataset could not be opened or parsed.
	ErrDatasetUnavailable = errors.New("food dataset unavailable")
)

// Header names of the nutrient columns. Suffixes carry the unit.
const (
	colEnergy   = "energy_kcal"
	colCarbs    = "carb_g"
	colProtein  = "protein_g"
	colFat      = "fat_g"
	colFiber    = "fibre_g"
	colSugar    = "freesugar_g"
	colCalcium  = "calcium_mg"
	colIron     = "iron_mg"
	colSodium   = "sodium_mg"
	colVitaminC = "vitc_mg"
	colServing  = "servings_unit"
)

/* ─── Types ──────────────────────────────────────────────────────────── */

// SearchResult is one autocomplete hit.
type SearchResult struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Index int    `json:"index"`
}

// Nutrients is the normalized nutrient set of a food row. Values missing from
// the row, or not parseable as numbers, are zero.
type Nutrients struct {
	Calories    float64 `json:"calories"`
	Carbs       float64 `json:"carbs"`
	Protein     float64 `json:"protein"`
	Fat         float64 `json:"fat"`
	Fiber       float64 `json:"fiber"`
	Sugar       float64 `json:"sugar"`
	Calcium     float64 `json:"calcium"`
	Iron        float64 `json:"iron"`
	Sodium      float64 `json:"sodium"`
	VitaminC    float64 `json:"vitaminC"`
	ServingSize string  `json:"servingSize"`
}

// Scale returns n with every numeric value multiplied by qty.
func (n Nutrients) Scale(qty float64) Nutrients {
	return Nutrients{
		Calories:    n.Calories * qty,
		Carbs:       n.Carbs * qty,
		Protein:     n.Protein * qty,
		Fat:         n.Fat * qty,
		Fiber:       n.Fiber * qty,
		Sugar:       n.Sugar * qty,
		Calcium:     n.Calcium * qty,
		Iron:        n.Iron * qty,
		Sodium:      n.Sodium * qty,
		VitaminC:    n.VitaminC * qty,
		ServingSize: n.ServingSize,
	}
}

// Food is a single dataset row. Fields holds every column present in the row
// keyed by header name, as written in the file.
type Food struct {
	Index     int
	Code      string
	Name      string
	Fields    map[string]string
	Nutrients Nutrients
}

// MarshalJSON flattens the raw columns to the top level and adds "index" and
// "nutrients", so clients see the row the way it is stored plus the
// normalized view.
func (f Food) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(f.Fields)+2)
	for k, v := range f.Fields {
		out[k] = v
	}
	out["index"] = f.Index
	out["nutrients"] = f.Nutrients
	return json.Marshal(out)
}

/* ─── Dataset ────────────────────────────────────────────────────────── */

// Dataset is a read-only handle on a CSV file. It holds no open file and no
// cached rows; concurrent calls each do their own scan.
type Dataset struct {
	path string
}

// New returns a Dataset backed by the CSV file at path. The file is not
// opened until the first query.
func New(path string) *Dataset {
	return &Dataset{path: path}
}

// Path returns the dataset file path.
func (d *Dataset) Path() string {
	return d.path
}

// SearchFoods returns up to limit rows whose name contains query, ignoring
// case, in file order. An empty query matches every row.
func (d *Dataset) SearchFoods(query string, limit int) ([]SearchResult, error) {
	if limit <= 0 {
		limit = DefaultSearchLimit
	}
	q := strings.ToLower(query)
	results := []SearchResult{}

	err := d.scan(func(_ []string, index int, row []string) bool {
		if len(row) > 1 && strings.Contains(strings.ToLower(row[1]), q) {
			results = append(results, SearchResult{ID: row[0], Name: row[1], Index: index})
		}
		return len(results) < limit
	})
	if err != nil {
		return []SearchResult{}, err
	}
	return results, nil
}

// FoodByIndex returns the data row at the 1-based index (header excluded).
func (d *Dataset) FoodByIndex(index int) (*Food, error) {
	if index <= 0 {
		return nil, fmt.Errorf("index %d: %w", index, ErrNotFound)
	}
	return d.find(func(i int, row []string) bool {
		return i == index && len(row) > 0
	}, fmt.Sprintf("index %d", index))
}

// FoodByCode returns the first row whose code column equals code exactly.
func (d *Dataset) FoodByCode(code string) (*Food, error) {
	return d.find(func(_ int, row []string) bool {
		return len(row) > 0 && row[0] == code
	}, fmt.Sprintf("code %q", code))
}

// Search is SearchFoods with every failure reported as no results.
func (d *Dataset) Search(query string, limit int) []SearchResult {
	results, _ := d.SearchFoods(query, limit)
	return results
}

// ByIndex is FoodByIndex with failures reported as ok=false. A broken dataset
// cannot be told apart from a missing row here; use FoodByIndex for that.
func (d *Dataset) ByIndex(index int) (*Food, bool) {
	f, err := d.FoodByIndex(index)
	return f, err == nil
}

// ByCode is FoodByCode with failures reported as ok=false.
func (d *Dataset) ByCode(code string) (*Food, bool) {
	f, err := d.FoodByCode(code)
	return f, err == nil
}

/* ─── Scanning ───────────────────────────────────────────────────────── */

func (d *Dataset) find(match func(index int, row []string) bool, what string) (*Food, error) {
	var found *Food
	err := d.scan(func(header []string, index int, row []string) bool {
		if !match(index, row) {
			return true
		}
		found = newFood(header, index, row)
		return false
	})
	if err != nil {
		return nil, err
	}
	if found == nil {
		return nil, fmt.Errorf("%s: %w", what, ErrNotFound)
	}
	return found, nil
}

// scan opens the file and calls fn for every data row with its 1-based index
// until fn returns false. Any open or parse error wraps ErrDatasetUnavailable.
func (d *Dataset) scan(fn func(header []string, index int, row []string) bool) error {
	f, err := os.Open(d.path)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDatasetUnavailable, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	// Rows may be shorter or longer than the header; quoting is loose.
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	header, err := r.Read()
	if err != nil {
		return fmt.Errorf("%w: read header: %v", ErrDatasetUnavailable, err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	for index := 1; ; index++ {
		row, err := r.Read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("%w: row %d: %v", ErrDatasetUnavailable, index, err)
		}
		if !fn(header, index, row) {
			return nil
		}
	}
}

/* ─── Row normalization ──────────────────────────────────────────────── */

// newFood maps the row onto header names and builds the nutrient view.
// Columns beyond the header are dropped.
func newFood(header []string, index int, row []string) *Food {
	fields := make(map[string]string, len(header))
	for i, v := range row {
		if i < len(header) {
			fields[header[i]] = v
		}
	}

	f := &Food{Index: index, Fields: fields}
	if len(row) > 0 {
		f.Code = row[0]
	}
	if len(row) > 1 {
		f.Name = row[1]
	}

	serving := strings.TrimSpace(fields[colServing])
	if serving == "" {
		serving = DefaultServingSize
	}
	f.Nutrients = Nutrients{
		Calories:    number(fields, colEnergy),
		Carbs:       number(fields, colCarbs),
		Protein:     number(fields, colProtein),
		Fat:         number(fields, colFat),
		Fiber:       number(fields, colFiber),
		Sugar:       number(fields, colSugar),
		Calcium:     number(fields, colCalcium),
		Iron:        number(fields, colIron),
		Sodium:      number(fields, colSodium),
		VitaminC:    number(fields, colVitaminC),
		ServingSize: serving,
	}
	return f
}

// number parses a column as float64. Absent, blank, NaN, and malformed values are 0.
func number(fields map[string]string, col string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(fields[col]), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
