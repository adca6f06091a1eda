package main

import (
	"net/http"
	"net/http/httptest"
	"slices"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"lg/nutrition-goals-api/internal/goalcalc"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("DB_URL", "postgres://localhost/test")
	t.Setenv("ADDR", "")
	t.Setenv("FOOD_CSV_PATH", "")
	t.Setenv("GOAL_POLICY", "")
	t.Setenv("CORS_ORIGINS", "")

	cfg, err := loadConfig()
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.Addr != "localhost:3000" || cfg.FoodCSVPath != "food_details.csv" {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
	if cfg.GoalPolicy.Name != goalcalc.DetailsPolicy.Name {
		t.Errorf("policy = %q, want details", cfg.GoalPolicy.Name)
	}
	if len(cfg.CORSOrigins) != 0 {
		t.Errorf("expected no origins, got %v", cfg.CORSOrigins)
	}
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Setenv("DB_URL", "postgres://localhost/test")
	t.Setenv("ADDR", ":8080")
	t.Setenv("FOOD_CSV_PATH", "/data/foods.csv")
	t.Setenv("GOAL_POLICY", "script")
	t.Setenv("CORS_ORIGINS", "https://a.example, ,https://b.example")

	cfg, err := loadConfig()
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.Addr != ":8080" || cfg.FoodCSVPath != "/data/foods.csv" || cfg.GoalPolicy.Name != "script" {
		t.Errorf("overrides not applied: %+v", cfg)
	}
	if !slices.Equal(cfg.CORSOrigins, []string{"https://a.example", "https://b.example"}) {
		t.Errorf("origins = %v", cfg.CORSOrigins)
	}

	c := cfg.corsConfig()
	if c.AllowAllOrigins || !slices.Contains(c.AllowHeaders, "Authorization") {
		t.Errorf("unexpected cors config: %+v", c)
	}
}

func TestLoadConfig_Errors(t *testing.T) {
	t.Setenv("DB_URL", "")
	if _, err := loadConfig(); err == nil {
		t.Error("expected error without DB_URL")
	}

	t.Setenv("DB_URL", "postgres://localhost/test")
	t.Setenv("GOAL_POLICY", "keto")
	if _, err := loadConfig(); err == nil {
		t.Error("expected error for unknown policy")
	}
}

func TestBearerToken(t *testing.T) {
	cases := []struct {
		header string
		token  string
		ok     bool
	}{
		{"Bearer abc-123", "abc-123", true},
		{"Bearer   abc ", "abc", true},
		{"Bearer ", "", false},
		{"Basic abc", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		token, ok := bearerToken(tc.header)
		if token != tc.token || ok != tc.ok {
			t.Errorf("bearerToken(%q) = %q, %v; want %q, %v", tc.header, token, ok, tc.token, tc.ok)
		}
	}
}

// TestRegisterRoutes_RequiresAuth checks that protected routes reject
// requests without a token before any database lookup.
func TestRegisterRoutes_RequiresAuth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := &Handler{calc: goalcalc.New(goalcalc.DetailsPolicy)}
	router := gin.New()
	h.registerRoutes(router)

	for _, route := range []struct{ method, path string }{
		{"GET", "/api/users/me"},
		{"GET", "/api/food/dailyGoal"},
		{"POST", "/api/food/addFood"},
		{"DELETE", "/api/food/consumption/1"},
	} {
		w := doRequest(router, route.method, route.path, "")
		if w.Code != http.StatusUnauthorized {
			t.Errorf("%s %s: expected 401, got %d", route.method, route.path, w.Code)
		}
	}

	w := doRequest(router, "POST", "/api/login", `{"username":""}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("login without credentials: expected 400, got %d", w.Code)
	}
}

func TestRateLimitByIP(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/ping", rateLimitByIP(time.Hour, 2), func(c *gin.Context) { c.Status(http.StatusOK) })

	send := func(addr string) int {
		req := httptest.NewRequest("GET", "/ping", nil)
		req.RemoteAddr = addr
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w.Code
	}

	for i := 0; i < 2; i++ {
		if code := send("198.51.100.7:1234"); code != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i+1, code)
		}
	}
	if code := send("198.51.100.7:1234"); code != http.StatusTooManyRequests {
		t.Errorf("expected 429 after burst, got %d", code)
	}
	if code := send("198.51.100.8:1234"); code != http.StatusOK {
		t.Errorf("other client: expected 200, got %d", code)
	}
}
