package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"lg/nutrition-goals-api/internal/fooddata"
	"lg/nutrition-goals-api/internal/goalcalc"
)

const testFoodCSV = "food_code,food_name,energy_kcal,carb_g,protein_g,fat_g,fibre_g,freesugar_g,calcium_mg,iron_mg,sodium_mg,vitc_mg,servings_unit\n" +
	"ASC001,Hot tea (Garam Chai),16.14,2.58,0.39,0.53,0,2.58,14.2,0.02,3.12,0.01,cup\n" +
	"ASC002,Boiled rice (Uble chawal),117.2,25.6,2.6,0.2,0.3,0,3.6,0.2,1.4,0,bowl\n" +
	"ASC003,Jeera rice,131.6,24.9,2.9,2.4,0.5,0,9.1,0.6,9.9,0.5,bowl\n"

// setupFoodTest returns a router wired to a Handler with a temp food CSV and
// no database. Authenticated routes get a fixed user_id instead of the
// auth middleware.
func setupFoodTest(t *testing.T) (*gin.Engine, *Handler) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "food_details.csv")
	if err := os.WriteFile(path, []byte(testFoodCSV), 0o644); err != nil {
		t.Fatalf("write csv: %v", err)
	}

	gin.SetMode(gin.TestMode)
	h := &Handler{foods: fooddata.New(path), calc: goalcalc.New(goalcalc.DetailsPolicy)}
	router := gin.New()
	router.GET("/api/food/foodAutocomplete", h.foodAutocomplete)
	router.GET("/api/food/getFood", h.getFood)

	authed := router.Group("/api", func(c *gin.Context) {
		c.Set("user_id", 1)
		c.Next()
	})
	authed.POST("/food/addFood", h.addFood)
	return router, h
}

func doRequest(router *gin.Engine, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var resp map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse error response: %v (%s)", err, w.Body.String())
	}
	return resp["error"]
}

/* ─── foodAutocomplete ───────────────────────────────────────────────── */

func TestFoodAutocomplete_Results(t *testing.T) {
	router, _ := setupFoodTest(t)

	w := doRequest(router, "GET", "/api/food/foodAutocomplete?q=RICE", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Results []fooddata.SearchResult `json:"results"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if len(resp.Results) != 2 {
		t.Fatalf("expected 2 results, got %+v", resp.Results)
	}
	if resp.Results[0].ID != "ASC002" || resp.Results[0].Index != 2 {
		t.Errorf("unexpected first result: %+v", resp.Results[0])
	}
}

func TestFoodAutocomplete_Limit(t *testing.T) {
	router, _ := setupFoodTest(t)

	w := doRequest(router, "GET", "/api/food/foodAutocomplete?q=rice&limit=1", "")
	if !strings.Contains(w.Body.String(), "ASC002") || strings.Contains(w.Body.String(), "ASC003") {
		t.Errorf("expected only the first match, got %s", w.Body.String())
	}

	w = doRequest(router, "GET", "/api/food/foodAutocomplete?q=rice&limit=zero", "")
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for bad limit, got %d", w.Code)
	}
}

// TestFoodAutocomplete_EmptyQuery verifies the handler filters out "" rather
// than returning the whole dataset.
func TestFoodAutocomplete_EmptyQuery(t *testing.T) {
	router, _ := setupFoodTest(t)

	w := doRequest(router, "GET", "/api/food/foodAutocomplete", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if strings.TrimSpace(w.Body.String()) != `{"results":[]}` {
		t.Errorf("expected empty results, got %s", w.Body.String())
	}
}

func TestFoodAutocomplete_MissingDataset(t *testing.T) {
	router, h := setupFoodTest(t)
	h.foods = fooddata.New(filepath.Join(t.TempDir(), "gone.csv"))

	w := doRequest(router, "GET", "/api/food/foodAutocomplete?q=rice", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if strings.TrimSpace(w.Body.String()) != `{"results":[]}` {
		t.Errorf("expected empty results, got %s", w.Body.String())
	}
}

/* ─── getFood ────────────────────────────────────────────────────────── */

func TestGetFood_ByIndexAndID(t *testing.T) {
	router, _ := setupFoodTest(t)

	for _, target := range []string{"/api/food/getFood?index=2", "/api/food/getFood?id=ASC002"} {
		w := doRequest(router, "GET", target, "")
		if w.Code != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d: %s", target, w.Code, w.Body.String())
		}
		var resp struct {
			FoodName  string             `json:"food_name"`
			Index     int                `json:"index"`
			Nutrients fooddata.Nutrients `json:"nutrients"`
		}
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("failed to parse response: %v", err)
		}
		if resp.FoodName != "Boiled rice (Uble chawal)" || resp.Index != 2 {
			t.Errorf("%s: unexpected food %+v", target, resp)
		}
		if resp.Nutrients.Calories != 117.2 || resp.Nutrients.ServingSize != "bowl" {
			t.Errorf("%s: unexpected nutrients %+v", target, resp.Nutrients)
		}
	}
}

func TestGetFood_Errors(t *testing.T) {
	router, _ := setupFoodTest(t)
	cases := []struct {
		target string
		status int
		msg    string
	}{
		{"/api/food/getFood", http.StatusBadRequest, "Missing required parameter: either id or index must be provided"},
		{"/api/food/getFood?index=abc", http.StatusBadRequest, "Invalid index format"},
		{"/api/food/getFood?index=0", http.StatusNotFound, "Food not found"},
		{"/api/food/getFood?index=-1", http.StatusNotFound, "Food not found"},
		{"/api/food/getFood?index=99", http.StatusNotFound, "Food not found"},
		{"/api/food/getFood?id=XYZ-unknown", http.StatusNotFound, "Food not found"},
	}
	for _, tc := range cases {
		t.Run(tc.target, func(t *testing.T) {
			w := doRequest(router, "GET", tc.target, "")
			if w.Code != tc.status {
				t.Fatalf("expected %d, got %d: %s", tc.status, w.Code, w.Body.String())
			}
			if got := decodeError(t, w); got != tc.msg {
				t.Errorf("error = %q, want %q", got, tc.msg)
			}
		})
	}
}

/* ─── addFood (paths that return before the database) ────────────────── */

func TestAddFood_Validation(t *testing.T) {
	router, _ := setupFoodTest(t)
	cases := []struct {
		name   string
		body   string
		status int
	}{
		{"malformed", `{"food_index":"two"}`, http.StatusBadRequest},
		{"no food reference", `{}`, http.StatusBadRequest},
		{"zero qty", `{"food_id":"ASC001","qty":0}`, http.StatusBadRequest},
		{"unknown code", `{"food_id":"NOPE"}`, http.StatusNotFound},
		{"index past end", `{"food_index":42}`, http.StatusNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := doRequest(router, "POST", "/api/food/addFood", tc.body)
			if w.Code != tc.status {
				t.Errorf("expected %d, got %d: %s", tc.status, w.Code, w.Body.String())
			}
		})
	}
}

// TestConsumptionFor verifies qty scaling and that explicit values win.
func TestConsumptionFor(t *testing.T) {
	_, h := setupFoodTest(t)
	food, err := h.foods.FoodByCode("ASC002")
	if err != nil {
		t.Fatalf("FoodByCode: %v", err)
	}

	entry := consumptionFor(food, 2, addFoodRequest{})
	if entry.Calories != 234.4 || entry.Protein != 5.2 || entry.Qty != 2 {
		t.Errorf("scaled entry = %+v", entry)
	}
	if entry.FoodID != "ASC002" || entry.FoodIndex != 2 || entry.FoodName != "Boiled rice (Uble chawal)" {
		t.Errorf("identity fields = %+v", entry)
	}

	cal, fat := 300.0, 0.0
	entry = consumptionFor(food, 2, addFoodRequest{Calories: &cal, Fat: &fat})
	if entry.Calories != 300 || entry.Fat != 0 || entry.Carbohydrates != 51.2 {
		t.Errorf("override entry = %+v", entry)
	}
}
