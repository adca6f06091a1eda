package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/gin-contrib/cors"

	"lg/nutrition-goals-api/internal/goalcalc"
)

// config is read from the environment once at startup. A .env file, if
// present, is loaded into the environment first (see main).
type config struct {
	DBURL       string
	Addr        string
	FoodCSVPath string
	GoalPolicy  goalcalc.Policy
	CORSOrigins []string
}

// loadConfig reads and checks all settings. DB_URL is required; everything
// else has a default.
func loadConfig() (config, error) {
	cfg := config{
		DBURL:       os.Getenv("DB_URL"),
		Addr:        envOr("ADDR", "localhost:3000"),
		FoodCSVPath: envOr("FOOD_CSV_PATH", "food_details.csv"),
	}
	if cfg.DBURL == "" {
		return cfg, fmt.Errorf("DB_URL not set")
	}

	policy, err := goalcalc.PolicyByName(os.Getenv("GOAL_POLICY"))
	if err != nil {
		return cfg, err
	}
	cfg.GoalPolicy = policy

	for _, o := range strings.Split(os.Getenv("CORS_ORIGINS"), ",") {
		if o = strings.TrimSpace(o); o != "" {
			cfg.CORSOrigins = append(cfg.CORSOrigins, o)
		}
	}
	return cfg, nil
}

// corsConfig allows every origin unless CORS_ORIGINS lists specific ones.
func (cfg config) corsConfig() cors.Config {
	c := cors.DefaultConfig()
	if len(cfg.CORSOrigins) == 0 {
		c.AllowAllOrigins = true
	} else {
		c.AllowOrigins = cfg.CORSOrigins
	}
	c.AllowHeaders = append(c.AllowHeaders, "Authorization")
	return c
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
