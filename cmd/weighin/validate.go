// ABOUTME: Input validation helpers for CLI arguments.
// ABOUTME: Weight bounds, name rules, and weigh-in date window.
package main

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const (
	weightMin     = 30
	weightMax     = 300
	minNameLength = 2
	maxNameLength = 30
)

var namePattern = regexp.MustCompile(`^[a-zA-Z\s'-]+$`)

// parseWeight parses a weight argument, accepting both dot and comma
// decimal separators, and enforces the plausible-human range.
func parseWeight(arg string) (float64, error) {
	s := strings.TrimSpace(strings.ReplaceAll(arg, ",", "."))
	if s == "" {
		return 0, fmt.Errorf("weight is required")
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid weight: %s", arg)
	}
	if v < weightMin || v > weightMax {
		return 0, fmt.Errorf("weight must be between %d-%dkg", weightMin, weightMax)
	}
	return v, nil
}

func validateName(name string) (string, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return "", fmt.Errorf("name is required")
	}
	if len(trimmed) < minNameLength {
		return "", fmt.Errorf("name must be at least %d characters", minNameLength)
	}
	if len(trimmed) > maxNameLength {
		return "", fmt.Errorf("name cannot exceed %d characters", maxNameLength)
	}
	if !namePattern.MatchString(trimmed) {
		return "", fmt.Errorf("name can only contain letters, spaces, hyphens and apostrophes")
	}
	return trimmed, nil
}

// validateRecordedAt rejects future weigh-ins and anything older than a
// year; nobody backfills further than that in a group challenge.
func validateRecordedAt(t time.Time) error {
	now := time.Now()
	if t.After(now) {
		return fmt.Errorf("date cannot be in the future")
	}
	if t.Before(now.AddDate(-1, 0, 0)) {
		return fmt.Errorf("date cannot be more than 1 year ago")
	}
	return nil
}

func parseTime(s string) (time.Time, error) {
	formats := []string{
		"2006-01-02 15:04",
		"2006-01-02T15:04",
		"2006-01-02",
		time.RFC3339,
	}
	for _, f := range formats {
		if t, err := time.Parse(f, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized time format")
}
