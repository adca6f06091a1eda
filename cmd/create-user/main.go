// CLI tool to create a user with a bcrypt-hashed password and, optionally, the
// body details and daily goal that the app would otherwise ask for on first login.
// Usage: go run ./cmd/create-user
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"

	"lg/nutrition-goals-api/internal/goalcalc"
)

func main() {
	if err := godotenv.Load(); err != nil {
		fmt.Fprintf(os.Stderr, "Error loading .env file: %v\n", err)
		os.Exit(1)
	}

	policy, err := goalcalc.PolicyByName(os.Getenv("GOAL_POLICY"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	conn, err := pgx.Connect(ctx, os.Getenv("DB_URL"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Unable to connect to database: %v\n", err)
		os.Exit(1)
	}
	defer conn.Close(ctx)

	reader := bufio.NewReader(os.Stdin)
	username := prompt(reader, "Username")
	email := prompt(reader, "Email")
	password := prompt(reader, "Password")
	if username == "" || password == "" {
		fmt.Fprintln(os.Stderr, "Username and password are required")
		os.Exit(1)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error hashing password: %v\n", err)
		os.Exit(1)
	}
	authToken := uuid.New().String()

	tx, err := conn.Begin(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error starting transaction: %v\n", err)
		os.Exit(1)
	}
	defer tx.Rollback(ctx)

	var userID int
	err = tx.QueryRow(ctx,
		`INSERT INTO users (username, email, password, auth_token)
		 VALUES ($1, $2, $3, $4) RETURNING id`,
		username, email, string(hash), authToken,
	).Scan(&userID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating user: %v\n", err)
		os.Exit(1)
	}

	var goal *goalcalc.Result
	if strings.EqualFold(prompt(reader, "Add body details now? [y/N]"), "y") {
		b, err := readBiometrics(reader)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			os.Exit(1)
		}
		res := goalcalc.New(policy).DailyGoals(b)
		if err := insertDetails(ctx, tx, userID, b, res, policy.Name); err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			os.Exit(1)
		}
		goal = &res
	}

	if err := tx.Commit(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error committing: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("\nUser created successfully!\n")
	fmt.Printf("  ID:         %d\n", userID)
	fmt.Printf("  Username:   %s\n", username)
	fmt.Printf("  Auth Token: %s\n", authToken)
	if goal != nil {
		fmt.Printf("  Daily goal: %d kcal, %gg protein, %gg carbs, %gg fat\n",
			goal.Calories, goal.ProteinG, goal.CarbsG, goal.FatG)
	}
}

func prompt(reader *bufio.Reader, label string) string {
	fmt.Printf("%s: ", label)
	line, _ := reader.ReadString('\n')
	return strings.TrimSpace(line)
}

// readBiometrics prompts for each profile field and validates the result.
func readBiometrics(reader *bufio.Reader) (goalcalc.Biometrics, error) {
	var b goalcalc.Biometrics
	var err error

	if b.Age, err = strconv.Atoi(prompt(reader, "Age (years)")); err != nil {
		return b, fmt.Errorf("invalid age: %w", err)
	}
	if b.HeightCM, err = strconv.ParseFloat(prompt(reader, "Height (cm)"), 64); err != nil {
		return b, fmt.Errorf("invalid height: %w", err)
	}
	if b.WeightKG, err = strconv.ParseFloat(prompt(reader, "Current weight (kg)"), 64); err != nil {
		return b, fmt.Errorf("invalid weight: %w", err)
	}
	if b.GoalWeightKG, err = strconv.ParseFloat(prompt(reader, "Goal weight (kg)"), 64); err != nil {
		return b, fmt.Errorf("invalid goal weight: %w", err)
	}
	b.Gender = prompt(reader, "Gender (M/F)")
	b.ActivityLevel = goalcalc.CanonicalActivityLevel(prompt(reader, "Activity level (sedentary, medium, high)"))

	if goalcalc.IsMale(b.Gender) {
		b.Gender = "M"
	} else if strings.EqualFold(b.Gender, "f") || strings.EqualFold(b.Gender, "female") {
		b.Gender = "F"
	}
	return b, goalcalc.Validate(b)
}

func insertDetails(ctx context.Context, tx pgx.Tx, userID int, b goalcalc.Biometrics, res goalcalc.Result, policy string) error {
	if _, err := tx.Exec(ctx,
		`INSERT INTO user_details (user_id, age, height, current_weight, gender, activity_level, goal_weight)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		userID, b.Age, b.HeightCM, b.WeightKG, b.Gender, b.ActivityLevel, b.GoalWeightKG); err != nil {
		return fmt.Errorf("error creating user details: %w", err)
	}
	if _, err := tx.Exec(ctx,
		`INSERT INTO daily_goals (user_id, calories, protein, carbohydrates, fat, policy)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		userID, res.Calories, res.ProteinG, res.CarbsG, res.FatG, policy); err != nil {
		return fmt.Errorf("error creating daily goals: %w", err)
	}
	return nil
}
