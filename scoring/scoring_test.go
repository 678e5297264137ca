package scoring

import (
	"errors"
	"fmt"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseScore(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Score
		wantErr bool
		field   string
	}{
		{name: "runs and wickets", input: "186/4", want: Score{Runs: 186, Wickets: 4}},
		{name: "all out", input: "90/6", want: Score{Runs: 90, Wickets: 6}},
		{name: "no wickets segment", input: "120", want: Score{Runs: 120}},
		{name: "whitespace", input: " 74 / 2 ", want: Score{Runs: 74, Wickets: 2}},
		{name: "empty", input: "", wantErr: true, field: "runs"},
		{name: "letters for runs", input: "abc/4", wantErr: true, field: "runs"},
		{name: "missing runs", input: "/4", wantErr: true, field: "runs"},
		{name: "negative runs", input: "-5/2", wantErr: true, field: "runs"},
		{name: "bad wickets", input: "100/x", wantErr: true, field: "wickets"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseScore(tt.input)
			if tt.wantErr {
				var perr *ParseError
				require.True(t, errors.As(err, &perr), "expected *ParseError, got %v", err)
				assert.Equal(t, tt.field, perr.Field)
				assert.Equal(t, Score{}, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseError_Unwrap(t *testing.T) {
	_, err := ParseScore("-1/0")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNegative)
	assert.Contains(t, err.Error(), `"-1/0"`)
}

func TestParseOvers(t *testing.T) {
	tests := []struct {
		input string
		want  float64
	}{
		{"5.3", 5.5},
		{"20", 20},
		{"4.2", 4 + 2.0/6},
		{"0.1", 1.0 / 6},
		{"6.0", 6},
		{"", 0},
		{"abc", 0},
		{"abc.3", 0.5},
		{"3.x", 3},
		{" 5.3 ", 5.5},
		{"-2.3", 0.5},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%q", tt.input), func(t *testing.T) {
			assert.InDelta(t, tt.want, ParseOvers(tt.input), 1e-9)
		})
	}
}

func TestFormatOvers(t *testing.T) {
	assert.Equal(t, "5.3", FormatOvers(5.5))
	assert.Equal(t, "20", FormatOvers(20))
	assert.Equal(t, "4.2", FormatOvers(4+2.0/6))
	assert.Equal(t, "0", FormatOvers(0))
	assert.Equal(t, "0", FormatOvers(-1))
}

func TestOvers_StableUnderReparse(t *testing.T) {
	for whole := 0; whole <= 20; whole++ {
		for balls := 0; balls <= 5; balls++ {
			in := strconv.Itoa(whole) + "." + strconv.Itoa(balls)
			parsed := ParseOvers(in)
			assert.InDelta(t, float64(whole)+float64(balls)/6, parsed, 1e-9, in)

			again := ParseOvers(FormatOvers(parsed))
			assert.InDelta(t, parsed, again, 1e-9, in)
			assert.Equal(t, FormatOvers(parsed), FormatOvers(again), in)
		}
	}
}
