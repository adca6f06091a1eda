package main

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"lg/nutrition-goals-api/internal/fooddata"
	"lg/nutrition-goals-api/internal/goalcalc"
)

// Handler holds shared dependencies for all route handlers.
type Handler struct {
	db    *pgxpool.Pool
	foods *fooddata.Dataset     // food CSV, scanned per request
	calc  *goalcalc.Calculator // policy chosen by GOAL_POLICY
}

/* ─── Database helpers ────────────────────────────────────────────────── */

// queryOne runs a query and scans the first row into T using RowToStructByName.
// Logs query and scan errors for debugging (e.g. struct/column mismatches).
func queryOne[T any](pool *pgxpool.Pool, c *gin.Context, sql string, args pgx.NamedArgs) (T, error) {
	rows, err := pool.Query(c, sql, args)
	if err != nil {
		log.Printf("[queryOne] Query error: %v", err)
		var zero T
		return zero, err
	}
	result, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[T])
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		log.Printf("[queryOne] Scan error: %v", err)
	}
	return result, err
}

// queryMany runs a query and scans all rows into []T using RowToStructByName.
// Never returns a nil slice on success so JSON encodes [] rather than null.
func queryMany[T any](pool *pgxpool.Pool, c *gin.Context, sql string, args pgx.NamedArgs) ([]T, error) {
	rows, err := pool.Query(c, sql, args)
	if err != nil {
		log.Printf("[queryMany] Query error: %v", err)
		return nil, err
	}
	results, err := pgx.CollectRows(rows, pgx.RowToStructByName[T])
	if err != nil {
		log.Printf("[queryMany] Scan error: %v", err)
		return nil, err
	}
	if results == nil {
		results = []T{}
	}
	return results, nil
}

// apiError returns a consistent JSON error response: {"error": "message"}.
func apiError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}

/* ─── Server setup ────────────────────────────────────────────────────── */

// getDBPool creates a connection pool for dbURL.
func getDBPool(ctx context.Context, dbURL string) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(dbURL)
	if err != nil {
		return nil, fmt.Errorf("parse DB URL: %w", err)
	}
	// Simple protocol avoids "cached plan must not change result type" after
	// migrations alter a table behind a long-lived pool.
	poolCfg.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeSimpleProtocol
	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return pool, nil
}

// registerRoutes registers all API routes on the router.
func (h *Handler) registerRoutes(router *gin.Engine) {
	// Public routes
	router.POST("/api/login", rateLimitByIP(loginEvery, loginBurst), h.login)
	router.GET("/api/food/foodAutocomplete", h.foodAutocomplete)
	router.GET("/api/food/getFood", h.getFood)

	// Authenticated routes
	api := router.Group("/api", h.authMiddleware())
	api.GET("/users/me", h.getCurrentUser)
	api.GET("/users/userDetails", h.getUserDetails)
	api.POST("/users/userDetails", h.postUserDetails)
	api.PATCH("/users/userDetails", h.patchUserDetails)
	api.GET("/food/dailyGoal", h.getDailyGoal)
	api.GET("/food/waterIntake", h.getWaterIntake)
	api.POST("/food/waterIntake", h.createWaterIntake)
	api.POST("/food/addFood", h.addFood)
	api.GET("/food/consumption", h.getConsumption)
	api.DELETE("/food/consumption/:id", h.deleteConsumption)
}
