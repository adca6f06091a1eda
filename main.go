package main

import (
	"context"
	"log"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"lg/nutrition-goals-api/internal/fooddata"
	"lg/nutrition-goals-api/internal/goalcalc"
)

func main() {
	log.SetPrefix("lg/nutrition-goals-api: ")
	log.SetFlags(log.LstdFlags)

	// A missing .env is fine in deployments that set the environment directly.
	if err := godotenv.Load(); err != nil {
		log.Printf("[main] no .env loaded: %v", err)
	}

	cfg, err := loadConfig()
	if err != nil {
		log.Fatalf("[main] config: %v", err)
	}

	pool, err := getDBPool(context.Background(), cfg.DBURL)
	if err != nil {
		log.Fatalf("[main] %v", err)
	}
	defer pool.Close()

	h := &Handler{
		db:    pool,
		foods: fooddata.New(cfg.FoodCSVPath),
		calc:  goalcalc.New(cfg.GoalPolicy),
	}
	log.Printf("[main] food dataset %s, goal policy %q", cfg.FoodCSVPath, cfg.GoalPolicy.Name)

	router := gin.Default()
	router.SetTrustedProxies(nil)
	router.Use(cors.New(cfg.corsConfig()))
	h.registerRoutes(router)

	log.Printf("[main] listening on %s", cfg.Addr)
	if err := router.Run(cfg.Addr); err != nil {
		log.Fatalf("[main] %v", err)
	}
}
