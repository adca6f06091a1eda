package main

import (
	"strings"
	"time"

	"lg/nutrition-goals-api/internal/goalcalc"
)

/* ─── Domain structs ─────────────────────────────────────────────────── */

// user maps to the users table. AuthToken and Password are hidden from JSON responses.
type user struct {
	ID        int        `json:"id" db:"id"`
	Username  string     `json:"username" db:"username"`
	Email     string     `json:"email" db:"email"`
	AuthToken string     `json:"-" db:"auth_token"`
	Password  string     `json:"-" db:"password"`
	CreatedAt *time.Time `json:"created_at" db:"created_at"`
}

// userDetails maps to user_details: one row per user holding the body profile
// that daily goals are computed from. Gender is stored as "M" or "F" and
// activity_level in its canonical spelling.
type userDetails struct {
	ID            int        `json:"id"             db:"id"`
	UserID        int        `json:"-"              db:"user_id"`
	Age           int        `json:"age"            db:"age"`
	Height        float64    `json:"height"         db:"height"`
	CurrentWeight float64    `json:"current_weight" db:"current_weight"`
	Gender        string     `json:"gender"         db:"gender"`
	ActivityLevel string     `json:"activity_level" db:"activity_level"`
	GoalWeight    float64    `json:"goal_weight"    db:"goal_weight"`
	CreatedAt     *time.Time `json:"created_at"     db:"created_at"`
	UpdatedAt     *time.Time `json:"updated_at"     db:"updated_at"`
}

// biometrics converts the stored profile to calculator input.
func (d userDetails) biometrics() goalcalc.Biometrics {
	return goalcalc.Biometrics{
		Gender:        d.Gender,
		Age:           d.Age,
		HeightCM:      d.Height,
		WeightKG:      d.CurrentWeight,
		ActivityLevel: d.ActivityLevel,
		GoalWeightKG:  d.GoalWeight,
	}
}

// dailyGoal maps to daily_goals. Rewritten every time user_details changes.
type dailyGoal struct {
	ID            int        `json:"id"            db:"id"`
	UserID        int        `json:"-"             db:"user_id"`
	Calories      int        `json:"calories"      db:"calories"`
	Protein       float64    `json:"protein"       db:"protein"`
	Carbohydrates float64    `json:"carbohydrates" db:"carbohydrates"`
	Fat           float64    `json:"fat"           db:"fat"`
	Policy        string     `json:"policy"        db:"policy"`
	UpdatedAt     *time.Time `json:"updated_at"    db:"updated_at"`
}

// waterIntake maps to water_intake. Amount is millilitres.
type waterIntake struct {
	ID        int        `json:"id"        db:"id"`
	UserID    int        `json:"-"         db:"user_id"`
	Amount    float64    `json:"amount"    db:"amount"`
	Timestamp *time.Time `json:"timestamp" db:"timestamp"`
}

// foodConsumption maps to food_consumption. Nutrient values are stored as
// eaten (already scaled by qty and with any client overrides applied), so
// later dataset edits do not rewrite history.
type foodConsumption struct {
	ID            int        `json:"id"            db:"id"`
	UserID        int        `json:"-"             db:"user_id"`
	FoodIndex     int        `json:"food_index"    db:"food_index"`
	FoodID        string     `json:"food_id"       db:"food_id"`
	FoodName      string     `json:"food_name"     db:"food_name"`
	Qty           float64    `json:"qty"           db:"qty"`
	Calories      float64    `json:"calories"      db:"calories"`
	Protein       float64    `json:"protein"       db:"protein"`
	Carbohydrates float64    `json:"carbohydrates" db:"carbohydrates"`
	Fat           float64    `json:"fat"           db:"fat"`
	Timestamp     *time.Time `json:"timestamp"     db:"timestamp"`
}

// consumptionSummary is the response shape for GET /api/food/consumption.
// Goal and the *_left fields are nil when the user has no daily goal yet.
type consumptionSummary struct {
	Date          string            `json:"date"`
	Calories      float64           `json:"calories"`
	Protein       float64           `json:"protein"`
	Carbohydrates float64           `json:"carbohydrates"`
	Fat           float64           `json:"fat"`
	Items         []foodConsumption `json:"items"`
	Goal          *dailyGoal        `json:"goal"`
	CaloriesLeft  *float64          `json:"calories_left"`
	ProteinLeft   *float64          `json:"protein_left"`
	CarbsLeft     *float64          `json:"carbohydrates_left"`
	FatLeft       *float64          `json:"fat_left"`
}

/* ─── Request bodies ─────────────────────────────────────────────────── */

// userDetailsRequest is the body for POST and PATCH /api/users/userDetails.
// All fields are pointers: POST requires every field, PATCH applies only the
// non-nil ones.
type userDetailsRequest struct {
	Age           *int     `json:"age"`
	Height        *float64 `json:"height"`
	CurrentWeight *float64 `json:"current_weight"`
	Gender        *string  `json:"gender"`
	ActivityLevel *string  `json:"activity_level"`
	GoalWeight    *float64 `json:"goal_weight"`
}

// missingField returns the JSON name of the first nil field, or "".
func (r userDetailsRequest) missingField() string {
	switch {
	case r.Age == nil:
		return "age"
	case r.Height == nil:
		return "height"
	case r.CurrentWeight == nil:
		return "current_weight"
	case r.Gender == nil:
		return "gender"
	case r.ActivityLevel == nil:
		return "activity_level"
	case r.GoalWeight == nil:
		return "goal_weight"
	}
	return ""
}

// applyTo copies the non-nil fields onto d and normalizes gender and
// activity level spellings.
func (r userDetailsRequest) applyTo(d *userDetails) {
	if r.Age != nil {
		d.Age = *r.Age
	}
	if r.Height != nil {
		d.Height = *r.Height
	}
	if r.CurrentWeight != nil {
		d.CurrentWeight = *r.CurrentWeight
	}
	if r.Gender != nil {
		d.Gender = *r.Gender
	}
	if r.ActivityLevel != nil {
		d.ActivityLevel = *r.ActivityLevel
	}
	if r.GoalWeight != nil {
		d.GoalWeight = *r.GoalWeight
	}
	d.Gender = canonicalGender(d.Gender)
	d.ActivityLevel = goalcalc.CanonicalActivityLevel(d.ActivityLevel)
}

// canonicalGender stores "male"/"female" in any case as "M"/"F". Anything
// else is left for validation to reject.
func canonicalGender(g string) string {
	switch strings.ToLower(strings.TrimSpace(g)) {
	case "m", "male":
		return "M"
	case "f", "female":
		return "F"
	}
	return g
}

// addFoodRequest is the body for POST /api/food/addFood. FoodID wins over
// FoodIndex. Qty defaults to 1. Explicit nutrient values replace the
// looked-up (and qty-scaled) ones.
type addFoodRequest struct {
	FoodID        string   `json:"food_id"`
	FoodIndex     int      `json:"food_index"`
	Qty           *float64 `json:"qty"`
	Calories      *float64 `json:"calories"`
	Protein       *float64 `json:"protein"`
	Carbohydrates *float64 `json:"carbohydrates"`
	Fat           *float64 `json:"fat"`
}
