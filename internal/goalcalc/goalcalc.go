// Package goalcalc turns a user's body profile into a daily calorie target and
// a protein/carbohydrate/fat split in grams.
package goalcalc

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// ErrInvalidInput is wrapped by every error returned from Validate.
var ErrInvalidInput = errors.New("invalid input")

/* ─── Types ──────────────────────────────────────────────────────────── */

// Biometrics is the per-request profile used to derive daily goals.
// Weights are kilograms, height is centimeters.
type Biometrics struct {
	Gender        string
	Age           int
	HeightCM      float64
	WeightKG      float64
	ActivityLevel string
	GoalWeightKG  float64
}

// Macros is a calorie budget split into grams.
type Macros struct {
	ProteinG float64 `json:"protein"`
	CarbsG   float64 `json:"carbohydrates"`
	FatG     float64 `json:"fat"`
}

// Result is the daily goal produced by DailyGoals.
type Result struct {
	Calories int `json:"calories"`
	Macros
}

// Policy holds the constants that differ between the two calculators the
// product has shipped: the one behind the user-details flow and the
// standalone terminal calculator.
type Policy struct {
	Name string
	// Multipliers is keyed by lower-case activity label.
	Multipliers map[string]float64
	DeficitKcal float64
	SurplusKcal float64
	// LossFloorKcal is the minimum goal on the loss path. Zero disables it.
	LossFloorKcal float64
	// MacroDecimals is the number of decimal places kept on macro grams.
	MacroDecimals int
}

/* ─── Policies ───────────────────────────────────────────────────────── */

const (
	sedentaryMultiplier = 1.2
	mediumMultiplier    = 1.55
	highMultiplier      = 1.725

	proteinShare = 0.3
	carbShare    = 0.4
	fatShare     = 0.3

	kcalPerGramProtein = 4
	kcalPerGramCarb    = 4
	kcalPerGramFat     = 9
)

// activityMultipliers is the canonical vocabulary (sedentary, medium, high).
// "moderate" is the spelling the terminal calculator used for the medium tier
// and is kept as an alias so both vocabularies resolve the same way.
var activityMultipliers = map[string]float64{
	"sedentary": sedentaryMultiplier,
	"medium":    mediumMultiplier,
	"moderate":  mediumMultiplier,
	"high":      highMultiplier,
}

// DetailsPolicy is the default: loss goals never drop below 1200 kcal and
// macros keep one decimal place.
var DetailsPolicy = Policy{
	Name:          "details",
	Multipliers:   activityMultipliers,
	DeficitKcal:   500,
	SurplusKcal:   300,
	LossFloorKcal: 1200,
	MacroDecimals: 1,
}

// ScriptPolicy matches the standalone calculator: no loss floor and macros
// rounded to whole grams.
var ScriptPolicy = Policy{
	Name:          "script",
	Multipliers:   activityMultipliers,
	DeficitKcal:   500,
	SurplusKcal:   300,
	MacroDecimals: 0,
}

// PolicyByName resolves a policy from configuration. Empty selects DetailsPolicy.
func PolicyByName(name string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", DetailsPolicy.Name:
		return DetailsPolicy, nil
	case ScriptPolicy.Name:
		return ScriptPolicy, nil
	}
	return Policy{}, fmt.Errorf("unknown goal policy %q (want %q or %q)", name, DetailsPolicy.Name, ScriptPolicy.Name)
}

// ActivityLevels returns the accepted activity labels, canonical ones first.
func ActivityLevels() []string {
	return []string{"sedentary", "medium", "high", "moderate"}
}

// IsActivityLevel reports whether level is in the activity vocabulary.
func IsActivityLevel(level string) bool {
	_, ok := activityMultipliers[normalize(level)]
	return ok
}

// CanonicalActivityLevel maps an accepted label to its canonical spelling.
// Unknown labels are returned normalized but otherwise unchanged.
func CanonicalActivityLevel(level string) string {
	l := normalize(level)
	if l == "moderate" {
		return "medium"
	}
	return l
}

/* ─── Formula steps ──────────────────────────────────────────────────── */

// IsMale reports whether gender is a male marker ("m" or "male", any case).
func IsMale(gender string) bool {
	g := normalize(gender)
	return g == "m" || g == "male"
}

// IsGender reports whether gender is a recognised male or female marker.
func IsGender(gender string) bool {
	switch normalize(gender) {
	case "m", "male", "f", "female":
		return true
	}
	return false
}

// BMR computes basal metabolic rate with the Mifflin-St Jeor equation.
// Anything that is not a male marker uses the female constant. Inputs are not
// checked, so implausible values can produce a negative BMR.
func BMR(gender string, weightKG, heightCM float64, age int) float64 {
	bmr := 10*weightKG + 6.25*heightCM - 5*float64(age)
	if IsMale(gender) {
		return bmr + 5
	}
	return bmr - 161
}

// Calculator applies a Policy to the formula chain.
type Calculator struct {
	policy Policy
}

// New returns a Calculator for p.
func New(p Policy) *Calculator {
	if p.Multipliers == nil {
		p.Multipliers = activityMultipliers
	}
	return &Calculator{policy: p}
}

// Policy returns the policy the calculator was built with.
func (c *Calculator) Policy() Policy {
	return c.policy
}

// ActivityMultiplier looks up level case-insensitively; unknown levels get
// the sedentary multiplier.
func (c *Calculator) ActivityMultiplier(level string) float64 {
	if m, ok := c.policy.Multipliers[normalize(level)]; ok {
		return m
	}
	return sedentaryMultiplier
}

// GoalCalories adjusts tdee toward the goal weight. Only the loss path is
// floored.
func (c *Calculator) GoalCalories(tdee, currentWeightKG, goalWeightKG float64) float64 {
	switch {
	case goalWeightKG < currentWeightKG:
		goal := tdee - c.policy.DeficitKcal
		if c.policy.LossFloorKcal > 0 && goal < c.policy.LossFloorKcal {
			return c.policy.LossFloorKcal
		}
		return goal
	case goalWeightKG > currentWeightKG:
		return tdee + c.policy.SurplusKcal
	default:
		return tdee
	}
}

// MacroSplit apportions calories 30% protein, 40% carbohydrate, 30% fat.
func (c *Calculator) MacroSplit(calories float64) Macros {
	return Macros{
		ProteinG: roundTo(calories*proteinShare/kcalPerGramProtein, c.policy.MacroDecimals),
		CarbsG:   roundTo(calories*carbShare/kcalPerGramCarb, c.policy.MacroDecimals),
		FatG:     roundTo(calories*fatShare/kcalPerGramFat, c.policy.MacroDecimals),
	}
}

// DailyGoals runs BMR → TDEE → goal calories → macro split. Callers are
// expected to have run Validate first.
func (c *Calculator) DailyGoals(b Biometrics) Result {
	bmr := BMR(b.Gender, b.WeightKG, b.HeightCM, b.Age)
	tdee := bmr * c.ActivityMultiplier(b.ActivityLevel)
	goal := c.GoalCalories(tdee, b.WeightKG, b.GoalWeightKG)
	return Result{
		Calories: int(math.Round(goal)),
		Macros:   c.MacroSplit(goal),
	}
}

/* ─── Validation ─────────────────────────────────────────────────────── */

// Validate checks that every numeric field is positive and that gender and
// activity level are known. It does not clamp anything.
func Validate(b Biometrics) error {
	switch {
	case !IsGender(b.Gender):
		return fmt.Errorf("%w: gender must be one of: M, F, male, female", ErrInvalidInput)
	case b.Age <= 0:
		return fmt.Errorf("%w: age must be positive, got %d", ErrInvalidInput, b.Age)
	case b.HeightCM <= 0:
		return fmt.Errorf("%w: height must be positive, got %g", ErrInvalidInput, b.HeightCM)
	case b.WeightKG <= 0:
		return fmt.Errorf("%w: current weight must be positive, got %g", ErrInvalidInput, b.WeightKG)
	case b.GoalWeightKG <= 0:
		return fmt.Errorf("%w: goal weight must be positive, got %g", ErrInvalidInput, b.GoalWeightKG)
	case !IsActivityLevel(b.ActivityLevel):
		return fmt.Errorf("%w: activity level must be one of: %s", ErrInvalidInput, strings.Join(ActivityLevels(), ", "))
	}
	return nil
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func roundTo(v float64, decimals int) float64 {
	if decimals <= 0 {
		return math.Round(v)
	}
	p := math.Pow(10, float64(decimals))
	return math.Round(v*p) / p
}
