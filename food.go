package main

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"

	"lg/nutrition-goals-api/internal/fooddata"
)

// foodAutocomplete returns foods whose name contains q.
// GET /api/food/foodAutocomplete?q=rice[&limit=10] (public).
// An empty q returns no results rather than the whole dataset.
func (h *Handler) foodAutocomplete(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusOK, gin.H{"results": []fooddata.SearchResult{}})
		return
	}

	limit := fooddata.DefaultSearchLimit
	if s := c.Query("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n <= 0 {
			apiError(c, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}

	results, err := h.foods.SearchFoods(query, limit)
	if err != nil {
		// Degrade to an empty result; the lookup is best-effort.
		log.Printf("[foodAutocomplete] %v", err)
	}

	c.JSON(http.StatusOK, gin.H{"results": results})
}

// getFood returns one food with its nutrients.
// GET /api/food/getFood?id=CODE or ?index=N (public). index wins when both
// are given. A broken dataset is reported the same as a missing food.
func (h *Handler) getFood(c *gin.Context) {
	id := c.Query("id")
	indexParam := c.Query("index")

	if id == "" && indexParam == "" {
		apiError(c, http.StatusBadRequest, "Missing required parameter: either id or index must be provided")
		return
	}

	var (
		food *fooddata.Food
		err  error
	)
	if indexParam != "" {
		index, convErr := strconv.Atoi(indexParam)
		if convErr != nil {
			apiError(c, http.StatusBadRequest, "Invalid index format")
			return
		}
		food, err = h.foods.FoodByIndex(index)
	} else {
		food, err = h.foods.FoodByCode(id)
	}
	if err != nil {
		logDatasetError("getFood", err)
		apiError(c, http.StatusNotFound, "Food not found")
		return
	}

	c.JSON(http.StatusOK, food)
}

// addFood records a food the user ate.
// POST /api/food/addFood. Body: addFoodRequest. The food is resolved from the
// dataset by food_id, else food_index; nutrients are scaled by qty and then
// any explicit values in the body override them.
func (h *Handler) addFood(c *gin.Context) {
	userID := c.GetInt("user_id")

	var body addFoodRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "Invalid data format")
		return
	}
	if body.FoodID == "" && body.FoodIndex <= 0 {
		apiError(c, http.StatusBadRequest, "food_id or food_index is required")
		return
	}
	qty := 1.0
	if body.Qty != nil {
		if *body.Qty <= 0 {
			apiError(c, http.StatusBadRequest, "qty must be positive")
			return
		}
		qty = *body.Qty
	}

	food, err := h.resolveFood(body.FoodID, body.FoodIndex)
	if err != nil {
		logDatasetError("addFood", err)
		apiError(c, http.StatusNotFound, "Food not found")
		return
	}

	entry := consumptionFor(food, qty, body)
	saved, err := queryOne[foodConsumption](h.db, c,
		`INSERT INTO food_consumption (user_id, food_index, food_id, food_name, qty, calories, protein, carbohydrates, fat)
		 VALUES (@userID, @foodIndex, @foodID, @foodName, @qty, @calories, @protein, @carbohydrates, @fat)
		 RETURNING *`,
		pgx.NamedArgs{
			"userID": userID, "foodIndex": entry.FoodIndex, "foodID": entry.FoodID,
			"foodName": entry.FoodName, "qty": entry.Qty, "calories": entry.Calories,
			"protein": entry.Protein, "carbohydrates": entry.Carbohydrates, "fat": entry.Fat,
		})
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to add food")
		return
	}

	c.JSON(http.StatusCreated, saved)
}

// resolveFood looks a food up by code when one is given, else by index.
func (h *Handler) resolveFood(code string, index int) (*fooddata.Food, error) {
	if code != "" {
		return h.foods.FoodByCode(code)
	}
	return h.foods.FoodByIndex(index)
}

// consumptionFor builds the row to store for food eaten in qty servings.
func consumptionFor(food *fooddata.Food, qty float64, body addFoodRequest) foodConsumption {
	n := food.Nutrients.Scale(qty)
	entry := foodConsumption{
		FoodIndex:     food.Index,
		FoodID:        food.Code,
		FoodName:      food.Name,
		Qty:           qty,
		Calories:      n.Calories,
		Protein:       n.Protein,
		Carbohydrates: n.Carbs,
		Fat:           n.Fat,
	}
	if entry.FoodName == "" {
		entry.FoodName = "Unknown Food"
	}
	if body.Calories != nil {
		entry.Calories = *body.Calories
	}
	if body.Protein != nil {
		entry.Protein = *body.Protein
	}
	if body.Carbohydrates != nil {
		entry.Carbohydrates = *body.Carbohydrates
	}
	if body.Fat != nil {
		entry.Fat = *body.Fat
	}
	return entry
}

// logDatasetError logs failures other than a plain miss. Callers still answer
// 404 so clients see one behaviour for both.
func logDatasetError(tag string, err error) {
	if errors.Is(err, fooddata.ErrDatasetUnavailable) {
		log.Printf("[%s] %v", tag, err)
	}
}
