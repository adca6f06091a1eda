package main

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
)

// getConsumption returns the day's food entries, their totals, and what is
// left of the daily goal.
// GET /api/food/consumption?date=YYYY-MM-DD (defaults to today).
func (h *Handler) getConsumption(c *gin.Context) {
	userID := c.GetInt("user_id")
	date := c.DefaultQuery("date", time.Now().Format("2006-01-02"))

	// An unparseable date would silently match no rows.
	if _, err := time.Parse("2006-01-02", date); err != nil {
		apiError(c, http.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
		return
	}

	items, err := queryMany[foodConsumption](h.db, c,
		`SELECT * FROM food_consumption
		 WHERE user_id = @userID AND timestamp::date = @date
		 ORDER BY timestamp`,
		pgx.NamedArgs{"userID": userID, "date": date})
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to fetch food consumption")
		return
	}

	var goal *dailyGoal
	g, err := queryOne[dailyGoal](h.db, c,
		"SELECT * FROM daily_goals WHERE user_id = @userID",
		pgx.NamedArgs{"userID": userID})
	switch {
	case err == nil:
		goal = &g
	case !errors.Is(err, pgx.ErrNoRows):
		apiError(c, http.StatusInternalServerError, "failed to fetch daily goals")
		return
	}

	c.JSON(http.StatusOK, summarizeConsumption(date, items, goal))
}

// summarizeConsumption totals items and, when goal is set, the remainder of
// each target. Remainders go negative once a target is exceeded.
func summarizeConsumption(date string, items []foodConsumption, goal *dailyGoal) consumptionSummary {
	s := consumptionSummary{Date: date, Items: items, Goal: goal}
	if s.Items == nil {
		s.Items = []foodConsumption{}
	}
	for _, it := range items {
		s.Calories += it.Calories
		s.Protein += it.Protein
		s.Carbohydrates += it.Carbohydrates
		s.Fat += it.Fat
	}
	if goal != nil {
		calories := float64(goal.Calories) - s.Calories
		protein := goal.Protein - s.Protein
		carbs := goal.Carbohydrates - s.Carbohydrates
		fat := goal.Fat - s.Fat
		s.CaloriesLeft, s.ProteinLeft, s.CarbsLeft, s.FatLeft = &calories, &protein, &carbs, &fat
	}
	return s
}

// deleteConsumption removes a food entry. Returns 204 on success, 404 if not found.
// DELETE /api/food/consumption/:id. Ownership is enforced by matching user_id too.
func (h *Handler) deleteConsumption(c *gin.Context) {
	userID := c.GetInt("user_id")
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		apiError(c, http.StatusBadRequest, "invalid id")
		return
	}

	result, err := h.db.Exec(c,
		"DELETE FROM food_consumption WHERE id = @id AND user_id = @userID",
		pgx.NamedArgs{"id": id, "userID": userID})
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to delete food entry")
		return
	}
	if result.RowsAffected() == 0 {
		apiError(c, http.StatusNotFound, "food entry not found")
		return
	}

	c.Status(http.StatusNoContent)
}
