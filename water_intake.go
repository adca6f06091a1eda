package main

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
)

// maxWaterIntakeML caps a single entry; anything larger is a typo.
const maxWaterIntakeML = 10000

// getWaterIntake lists the user's water intake entries, newest first.
// GET /api/food/waterIntake[?date=YYYY-MM-DD]. Without date, all entries.
// Returns an empty array (not null) if there are none.
func (h *Handler) getWaterIntake(c *gin.Context) {
	userID := c.GetInt("user_id")
	args := pgx.NamedArgs{"userID": userID}

	query := "SELECT * FROM water_intake WHERE user_id = @userID"
	if date := c.Query("date"); date != "" {
		if _, err := time.Parse("2006-01-02", date); err != nil {
			apiError(c, http.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
			return
		}
		query += " AND timestamp::date = @date"
		args["date"] = date
	}
	query += " ORDER BY timestamp DESC"

	entries, err := queryMany[waterIntake](h.db, c, query, args)
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to fetch water intake")
		return
	}

	c.JSON(http.StatusOK, entries)
}

// createWaterIntake records water drunk now.
// POST /api/food/waterIntake. Body: { "amount": 250 } (millilitres).
func (h *Handler) createWaterIntake(c *gin.Context) {
	userID := c.GetInt("user_id")

	var body struct {
		Amount float64 `json:"amount"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if body.Amount <= 0 || body.Amount > maxWaterIntakeML {
		apiError(c, http.StatusBadRequest, "amount must be between 0 and 10000 ml")
		return
	}

	entry, err := queryOne[waterIntake](h.db, c,
		`INSERT INTO water_intake (user_id, amount)
		 VALUES (@userID, @amount)
		 RETURNING *`,
		pgx.NamedArgs{"userID": userID, "amount": body.Amount})
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to record water intake")
		return
	}

	c.JSON(http.StatusCreated, entry)
}
