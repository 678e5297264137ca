package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"

	"github.com/Dosada05/cricket-league/fixtures"
	"github.com/Dosada05/cricket-league/models"
	"github.com/Dosada05/cricket-league/seed"
	"github.com/Dosada05/cricket-league/standings"
)

const (
	inputFlag   = "input"
	oversFlag   = "overs"
	allOutFlag  = "all-out"
	yamlFlag    = "yaml"
	doubleFlag  = "double"
	startFlag   = "start"
	timesFlag   = "time"
	venueFlag   = "venue"
	teamsFlag   = "teams"
	stdinCLIArg = "-"
)

var build string
var semanticVersion = "v0.1.0-dev" + build

type tableRow struct {
	Rank   int     `yaml:"rank"`
	Team   string  `yaml:"team"`
	Played int     `yaml:"played"`
	Won    int     `yaml:"won"`
	Lost   int     `yaml:"lost"`
	Points int     `yaml:"points"`
	NRR    float64 `yaml:"nrr"`
	Form   string  `yaml:"form"`
}

func openInput(location string) (io.ReadCloser, error) {
	if location == stdinCLIArg {
		return io.NopCloser(os.Stdin), nil
	}
	f, err := os.Open(location)
	if err != nil {
		return nil, fmt.Errorf("provided input is not a readable file: %w", err)
	}
	return f, nil
}

func loadTournament(location string, rules standings.Rules) (models.Tournament, error) {
	r, err := openInput(location)
	if err != nil {
		return models.Tournament{}, err
	}
	defer r.Close()
	return seed.Load(r, rules)
}

func formString(form []bool) string {
	var b strings.Builder
	for _, won := range form {
		if won {
			b.WriteByte('W')
		} else {
			b.WriteByte('L')
		}
	}
	return b.String()
}

func tableRows(t models.Tournament, table []models.TeamStats) []tableRow {
	rows := make([]tableRow, 0, len(table))
	for _, s := range table {
		name := s.TeamID
		if team, ok := t.Team(s.TeamID); ok && team.Name != "" {
			name = team.Name
		}
		rows = append(rows, tableRow{
			Rank:   s.Rank,
			Team:   name,
			Played: s.Played,
			Won:    s.Won,
			Lost:   s.Lost,
			Points: s.Points,
			NRR:    s.NRR,
			Form:   formString(s.LastFiveResults),
		})
	}
	return rows
}

func writeTable(w io.Writer, rows []tableRow) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tTEAM\tP\tW\tL\tPTS\tNRR\tFORM")
	for _, r := range rows {
		fmt.Fprintf(tw, "%d\t%s\t%d\t%d\t%d\t%d\t%+.3f\t%s\n",
			r.Rank, r.Team, r.Played, r.Won, r.Lost, r.Points, r.NRR, r.Form)
	}
	return tw.Flush()
}

func encodeYAML(w io.Writer, v any) error {
	yamlEncoder := yaml.NewEncoder(w)
	yamlEncoder.SetIndent(2)
	if err := yamlEncoder.Encode(v); err != nil {
		return fmt.Errorf("encoding to YAML failed: %w", err)
	}
	if err := yamlEncoder.Close(); err != nil {
		return fmt.Errorf("encoding to YAML failed on close: %w", err)
	}
	return nil
}

func runTable(w io.Writer, input string, rules standings.Rules, asYAML bool) error {
	if err := rules.Validate(); err != nil {
		return err
	}
	t, err := loadTournament(input, rules)
	if err != nil {
		return err
	}
	table, err := rules.Rebuild(t.TeamIDs(), t.Matches)
	if err != nil {
		return fmt.Errorf("rebuild standings: %w", err)
	}
	rows := tableRows(t, table)
	if asYAML {
		return encodeYAML(w, rows)
	}
	return writeTable(w, rows)
}

// runFixtures replaces whatever matches the input lists with a fresh round robin.
func runFixtures(w io.Writer, input string, opts fixtures.Options) error {
	t, err := loadTournament(input, standings.DefaultRules())
	if err != nil {
		return err
	}
	t.Matches, err = fixtures.RoundRobin(t.TeamIDs(), opts)
	if err != nil {
		return err
	}
	return encodeYAML(w, seed.FromTournament(t))
}

// runPlayoffs appends the first knockout round, seeded from the current table,
// after the last listed match.
func runPlayoffs(w io.Writer, input string, rules standings.Rules, qualifiers int, opts fixtures.Options) error {
	t, err := loadTournament(input, rules)
	if err != nil {
		return err
	}
	table, err := rules.Rebuild(t.TeamIDs(), t.Matches)
	if err != nil {
		return fmt.Errorf("rebuild standings: %w", err)
	}
	for _, m := range t.Matches {
		if m.Number >= opts.FirstNumber {
			opts.FirstNumber = m.Number + 1
		}
	}
	knockout, err := fixtures.Knockout(table, qualifiers, opts)
	if err != nil {
		return err
	}
	t.Matches = append(t.Matches, knockout...)
	return encodeYAML(w, seed.FromTournament(t))
}

func main() {
	var (
		inputLocation string
		overs         float64
		allOut        int
		asYAML        bool
		double        bool
		start         string
		venue         string
		qualifiers    int
	)
	inputFlagDef := func() cli.Flag {
		return &cli.StringFlag{
			Name:        inputFlag,
			Aliases:     []string{"i"},
			Usage:       "Path to the tournament YAML file, or \"-\" for stdin",
			Destination: &inputLocation,
			Required:    true,
		}
	}

	app := &cli.App{
		Name:    "standingsctl",
		Usage:   "Compute cricket points tables and fixture lists from a tournament file",
		Version: semanticVersion,
		Commands: []*cli.Command{
			{
				Name:  "table",
				Usage: "Rebuild the points table from every completed match",
				Flags: []cli.Flag{
					inputFlagDef(),
					&cli.Float64Flag{
						Name:        oversFlag,
						Usage:       "Overs credited to a side that is bowled out",
						Value:       standings.DefaultAllottedOvers,
						Destination: &overs,
					},
					&cli.IntFlag{
						Name:        allOutFlag,
						Usage:       "Wickets that end an innings",
						Value:       standings.DefaultAllOutWickets,
						Destination: &allOut,
					},
					&cli.BoolFlag{
						Name:        yamlFlag,
						Usage:       "Print the table as YAML instead of text",
						Destination: &asYAML,
					},
				},
				Action: func(cCtx *cli.Context) error {
					rules := standings.Rules{AllottedOvers: overs, AllOutWickets: allOut}
					return runTable(os.Stdout, inputLocation, rules, asYAML)
				},
			},
			{
				Name:  "fixtures",
				Usage: "Generate a round-robin schedule for the teams in the file",
				Flags: []cli.Flag{
					inputFlagDef(),
					&cli.BoolFlag{
						Name:        doubleFlag,
						Usage:       "Play every pairing home and away",
						Destination: &double,
					},
					&cli.StringFlag{
						Name:        startFlag,
						Usage:       "Date of the first match (YYYY-MM-DD)",
						Value:       time.Now().Format(fixtures.DateLayout),
						Destination: &start,
					},
					&cli.StringSliceFlag{
						Name:  timesFlag,
						Usage: "Start time of a match slot; repeat for several matches per day",
					},
					&cli.StringFlag{
						Name:        venueFlag,
						Usage:       "Venue for every generated match",
						Destination: &venue,
					},
				},
				Action: func(cCtx *cli.Context) error {
					startDate, err := time.Parse(fixtures.DateLayout, start)
					if err != nil {
						return fmt.Errorf("invalid --%s: %w", startFlag, err)
					}
					return runFixtures(os.Stdout, inputLocation, fixtures.Options{
						Double: double,
						Start:  startDate,
						Times:  cCtx.StringSlice(timesFlag),
						Venue:  venue,
					})
				},
			},
			{
				Name:  "playoffs",
				Usage: "Append knockout matches for the top teams of the table",
				Flags: []cli.Flag{
					inputFlagDef(),
					&cli.IntFlag{
						Name:        teamsFlag,
						Usage:       "Number of qualifiers; 2 schedules the final",
						Value:       2,
						Destination: &qualifiers,
					},
					&cli.StringFlag{
						Name:        startFlag,
						Usage:       "Date of the first knockout match (YYYY-MM-DD)",
						Value:       time.Now().Format(fixtures.DateLayout),
						Destination: &start,
					},
					&cli.StringFlag{
						Name:        venueFlag,
						Usage:       "Venue for every knockout match",
						Destination: &venue,
					},
				},
				Action: func(cCtx *cli.Context) error {
					startDate, err := time.Parse(fixtures.DateLayout, start)
					if err != nil {
						return fmt.Errorf("invalid --%s: %w", startFlag, err)
					}
					return runPlayoffs(os.Stdout, inputLocation, standings.DefaultRules(), qualifiers, fixtures.Options{
						Start: startDate,
						Venue: venue,
					})
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
