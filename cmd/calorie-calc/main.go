// CLI tool that asks for body details on stdin and prints daily calorie and
// macro goals. Needs no database. Uses the script policy (no 1200 kcal loss
// floor, whole-gram macros) unless -policy says otherwise.
// Usage: go run ./cmd/calorie-calc [-policy details|script]
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"lg/nutrition-goals-api/internal/goalcalc"
)

func main() {
	policyName := flag.String("policy", goalcalc.ScriptPolicy.Name, "goal policy: details or script")
	flag.Parse()

	policy, err := goalcalc.PolicyByName(*policyName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(2)
	}

	if err := run(os.Stdin, os.Stdout, goalcalc.New(policy)); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

// run reads the profile from in, one field per line in prompt order, and
// writes the goals to out.
func run(in io.Reader, out io.Writer, calc *goalcalc.Calculator) error {
	reader := bufio.NewReader(in)
	ask := func(label string) string {
		fmt.Fprintf(out, "%s: ", label)
		line, _ := reader.ReadString('\n')
		return strings.TrimSpace(line)
	}

	fmt.Fprintln(out, "Enter your details below:")
	var b goalcalc.Biometrics
	var err error
	if b.WeightKG, err = strconv.ParseFloat(ask("Current weight (kg)"), 64); err != nil {
		return fmt.Errorf("invalid weight: %w", err)
	}
	if b.HeightCM, err = strconv.ParseFloat(ask("Height (cm)"), 64); err != nil {
		return fmt.Errorf("invalid height: %w", err)
	}
	if b.Age, err = strconv.Atoi(ask("Age (years)")); err != nil {
		return fmt.Errorf("invalid age: %w", err)
	}
	b.Gender = ask("Gender (male/female)")
	b.ActivityLevel = ask("Activity level (sedentary, medium, high)")
	if b.GoalWeightKG, err = strconv.ParseFloat(ask("Goal weight (kg)"), 64); err != nil {
		return fmt.Errorf("invalid goal weight: %w", err)
	}

	res := calc.DailyGoals(b)
	fmt.Fprintln(out, "\nYour Daily Goals:")
	fmt.Fprintf(out, "Calories: %d kcal\n", res.Calories)
	fmt.Fprintf(out, "Protein: %g g\n", res.ProteinG)
	fmt.Fprintf(out, "Carbohydrates: %g g\n", res.CarbsG)
	fmt.Fprintf(out, "Fat: %g g\n", res.FatG)
	return nil
}
