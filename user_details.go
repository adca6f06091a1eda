package main

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"

	"lg/nutrition-goals-api/internal/goalcalc"
)

// getUserDetails returns the authenticated user's body profile.
// GET /api/users/userDetails.
func (h *Handler) getUserDetails(c *gin.Context) {
	userID := c.GetInt("user_id")

	d, err := queryOne[userDetails](h.db, c,
		"SELECT * FROM user_details WHERE user_id = @userID",
		pgx.NamedArgs{"userID": userID})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			apiError(c, http.StatusNotFound, "user details not found")
		} else {
			apiError(c, http.StatusInternalServerError, "failed to fetch user details")
		}
		return
	}

	c.JSON(http.StatusOK, d)
}

// postUserDetails creates or replaces the body profile, then recomputes and
// stores the daily goal. POST /api/users/userDetails. Every field is required.
func (h *Handler) postUserDetails(c *gin.Context) {
	userID := c.GetInt("user_id")

	var body userDetailsRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if f := body.missingField(); f != "" {
		apiError(c, http.StatusBadRequest, f+" is required")
		return
	}

	var d userDetails
	body.applyTo(&d)
	if err := goalcalc.Validate(d.biometrics()); err != nil {
		apiError(c, http.StatusBadRequest, validationMessage(err))
		return
	}

	saved, err := queryOne[userDetails](h.db, c,
		`INSERT INTO user_details (user_id, age, height, current_weight, gender, activity_level, goal_weight)
		 VALUES (@userID, @age, @height, @currentWeight, @gender, @activityLevel, @goalWeight)
		 ON CONFLICT (user_id) DO UPDATE SET
			age            = EXCLUDED.age,
			height         = EXCLUDED.height,
			current_weight = EXCLUDED.current_weight,
			gender         = EXCLUDED.gender,
			activity_level = EXCLUDED.activity_level,
			goal_weight    = EXCLUDED.goal_weight,
			updated_at     = now()
		 RETURNING *`,
		userDetailsArgs(userID, d))
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to save user details")
		return
	}

	goal, err := h.saveDailyGoal(c, userID, saved)
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to save daily goals")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"user_details": saved, "daily_goals": goal})
}

// patchUserDetails updates only the provided fields, then recomputes the
// daily goal. PATCH /api/users/userDetails. The merged profile is validated
// as a whole so a partial update cannot leave an invalid row behind.
func (h *Handler) patchUserDetails(c *gin.Context) {
	userID := c.GetInt("user_id")

	var body userDetailsRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	d, err := queryOne[userDetails](h.db, c,
		"SELECT * FROM user_details WHERE user_id = @userID",
		pgx.NamedArgs{"userID": userID})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			apiError(c, http.StatusNotFound, "user details not found")
		} else {
			apiError(c, http.StatusInternalServerError, "failed to fetch user details")
		}
		return
	}

	body.applyTo(&d)
	if err := goalcalc.Validate(d.biometrics()); err != nil {
		apiError(c, http.StatusBadRequest, validationMessage(err))
		return
	}

	saved, err := queryOne[userDetails](h.db, c,
		`UPDATE user_details SET
			age            = @age,
			height         = @height,
			current_weight = @currentWeight,
			gender         = @gender,
			activity_level = @activityLevel,
			goal_weight    = @goalWeight,
			updated_at     = now()
		 WHERE user_id = @userID
		 RETURNING *`,
		userDetailsArgs(userID, d))
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to update user details")
		return
	}

	goal, err := h.saveDailyGoal(c, userID, saved)
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to save daily goals")
		return
	}

	c.JSON(http.StatusOK, gin.H{"user_details": saved, "daily_goals": goal})
}

// getDailyGoal returns the stored daily goal.
// GET /api/food/dailyGoal. 404 until user details have been submitted.
func (h *Handler) getDailyGoal(c *gin.Context) {
	userID := c.GetInt("user_id")

	goal, err := queryOne[dailyGoal](h.db, c,
		"SELECT * FROM daily_goals WHERE user_id = @userID",
		pgx.NamedArgs{"userID": userID})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			apiError(c, http.StatusNotFound, "daily goals not found")
		} else {
			apiError(c, http.StatusInternalServerError, "failed to fetch daily goals")
		}
		return
	}

	c.JSON(http.StatusOK, goal)
}

// saveDailyGoal computes the goal for d with the configured policy and
// upserts it.
func (h *Handler) saveDailyGoal(c *gin.Context, userID int, d userDetails) (dailyGoal, error) {
	res := h.calc.DailyGoals(d.biometrics())

	goal, err := queryOne[dailyGoal](h.db, c,
		`INSERT INTO daily_goals (user_id, calories, protein, carbohydrates, fat, policy)
		 VALUES (@userID, @calories, @protein, @carbohydrates, @fat, @policy)
		 ON CONFLICT (user_id) DO UPDATE SET
			calories      = EXCLUDED.calories,
			protein       = EXCLUDED.protein,
			carbohydrates = EXCLUDED.carbohydrates,
			fat           = EXCLUDED.fat,
			policy        = EXCLUDED.policy,
			updated_at    = now()
		 RETURNING *`,
		pgx.NamedArgs{
			"userID": userID, "calories": res.Calories,
			"protein": res.ProteinG, "carbohydrates": res.CarbsG, "fat": res.FatG,
			"policy": h.calc.Policy().Name,
		})
	if err != nil {
		log.Printf("[saveDailyGoal] upsert failed for user %d: %v", userID, err)
	}
	return goal, err
}

func userDetailsArgs(userID int, d userDetails) pgx.NamedArgs {
	return pgx.NamedArgs{
		"userID": userID, "age": d.Age, "height": d.Height,
		"currentWeight": d.CurrentWeight, "gender": d.Gender,
		"activityLevel": d.ActivityLevel, "goalWeight": d.GoalWeight,
	}
}

// validationMessage strips the sentinel prefix so clients see only the
// field-level reason.
func validationMessage(err error) string {
	return strings.TrimPrefix(err.Error(), goalcalc.ErrInvalidInput.Error()+": ")
}
