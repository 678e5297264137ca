// Package scoring parses the free-text score and overs values entered by a scorer.
//
// Scores are written "<runs>/<wickets>", for example "186/4". Overs are written
// "<overs>.<balls>" where the digit after the point counts balls of the current
// over, so "5.3" is five overs and three balls, 5.5 overs as a decimal.
package scoring

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

const BallsPerOver = 6

var (
	ErrEmpty    = errors.New("value is empty")
	ErrNegative = errors.New("value must not be negative")
)

// ParseError reports a score field that could not be read as a number.
type ParseError struct {
	Field string
	Input string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("cannot parse %s %q: %v", e.Field, e.Input, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

type Score struct {
	Runs    int `json:"runs"`
	Wickets int `json:"wickets"`
}

func (s Score) String() string {
	return fmt.Sprintf("%d/%d", s.Runs, s.Wickets)
}

// ParseScore reads "<runs>/<wickets>". Runs are required. A missing wickets
// segment means no wickets fell.
func ParseScore(text string) (Score, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Score{}, &ParseError{Field: "runs", Input: text, Err: ErrEmpty}
	}

	runsPart, wicketsPart, hasWickets := strings.Cut(text, "/")
	runs, err := parseCount(runsPart)
	if err != nil {
		return Score{}, &ParseError{Field: "runs", Input: text, Err: err}
	}

	wickets := 0
	if hasWickets {
		wickets, err = parseCount(wicketsPart)
		if err != nil {
			return Score{}, &ParseError{Field: "wickets", Input: text, Err: err}
		}
	}

	return Score{Runs: runs, Wickets: wickets}, nil
}

func parseCount(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrEmpty
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, ErrNegative
	}
	return n, nil
}

// ParseOvers converts "<overs>.<balls>" to decimal overs. Unreadable parts
// count as zero, so "" and "abc" both give 0.
func ParseOvers(text string) float64 {
	text = strings.TrimSpace(text)
	if text == "" {
		return 0
	}
	wholePart, ballsPart, _ := strings.Cut(text, ".")

	whole, err := strconv.Atoi(strings.TrimSpace(wholePart))
	if err != nil || whole < 0 {
		whole = 0
	}
	balls, err := strconv.Atoi(strings.TrimSpace(ballsPart))
	if err != nil || balls < 0 {
		balls = 0
	}
	return float64(whole) + float64(balls)/BallsPerOver
}

// FormatOvers renders decimal overs back to cricket notation, e.g. 5.5 -> "5.3".
func FormatOvers(overs float64) string {
	if overs <= 0 || math.IsNaN(overs) || math.IsInf(overs, 0) {
		return "0"
	}
	totalBalls := int(math.Round(overs * BallsPerOver))
	whole, balls := totalBalls/BallsPerOver, totalBalls%BallsPerOver
	if balls == 0 {
		return strconv.Itoa(whole)
	}
	return fmt.Sprintf("%d.%d", whole, balls)
}
