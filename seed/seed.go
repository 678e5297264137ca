// Package seed reads a tournament definition from YAML: teams, the fixture
// list and any results already played.
package seed

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/Dosada05/cricket-league/fixtures"
	"github.com/Dosada05/cricket-league/models"
	"github.com/Dosada05/cricket-league/scoring"
	"github.com/Dosada05/cricket-league/standings"
)

var ErrInvalid = errors.New("invalid seed")

type File struct {
	ID       string        `yaml:"id"`
	Name     string        `yaml:"name"`
	Teams    []TeamEntry   `yaml:"teams"`
	Matches  []MatchEntry  `yaml:"matches,omitempty"`
	Fixtures *FixturesSpec `yaml:"fixtures,omitempty"`
}

type TeamEntry struct {
	ID           string   `yaml:"id"`
	Name         string   `yaml:"name"`
	ShortName    string   `yaml:"short_name,omitempty"`
	PrimaryColor string   `yaml:"primary_color,omitempty"`
	Captain      string   `yaml:"captain,omitempty"`
	Players      []string `yaml:"players,omitempty"`
	LogoKey      string   `yaml:"logo_key,omitempty"`
}

type MatchEntry struct {
	ID     string       `yaml:"id,omitempty"`
	Number int          `yaml:"number,omitempty"`
	Team1  string       `yaml:"team1"`
	Team2  string       `yaml:"team2"`
	Date   string       `yaml:"date,omitempty"`
	Time   string       `yaml:"time,omitempty"`
	Venue  string       `yaml:"venue,omitempty"`
	Final  bool         `yaml:"final,omitempty"`
	Status string       `yaml:"status,omitempty"`
	Result *ResultEntry `yaml:"result,omitempty"`
}

// ResultEntry uses the notation a scorer writes: "120/3" for a score and
// "4.2" for overs.
type ResultEntry struct {
	Winner           string `yaml:"winner"`
	WinningTeamScore string `yaml:"winning_team_score"`
	LosingTeamScore  string `yaml:"losing_team_score"`
	WinMargin        string `yaml:"win_margin,omitempty"`
	PlayerOfMatch    string `yaml:"player_of_match,omitempty"`
	WinningTeamOvers string `yaml:"winning_team_overs"`
	LosingTeamOvers  string `yaml:"losing_team_overs"`
}

// FixturesSpec asks for a generated round robin when no matches are listed.
type FixturesSpec struct {
	Double bool     `yaml:"double,omitempty"`
	Start  string   `yaml:"start"`
	Times  []string `yaml:"times,omitempty"`
	Venue  string   `yaml:"venue,omitempty"`
}

func LoadFile(path string, rules standings.Rules) (models.Tournament, error) {
	f, err := os.Open(path)
	if err != nil {
		return models.Tournament{}, err
	}
	defer f.Close()

	t, err := Load(f, rules)
	if err != nil {
		return models.Tournament{}, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// Load decodes and validates a seed. Wickets above rules.AllOutWickets are
// rejected. The returned tournament has no standings; build them with
// rules.Rebuild.
func Load(r io.Reader, rules standings.Rules) (models.Tournament, error) {
	var file File
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil {
		return models.Tournament{}, fmt.Errorf("%w: decode: %w", ErrInvalid, err)
	}
	return file.Tournament(rules)
}

func (f File) Tournament(rules standings.Rules) (models.Tournament, error) {
	if strings.TrimSpace(f.ID) == "" {
		return models.Tournament{}, fmt.Errorf("%w: id is required", ErrInvalid)
	}

	t := models.Tournament{ID: f.ID, Name: f.Name}
	known := make(map[string]bool, len(f.Teams))
	for i, e := range f.Teams {
		if e.ID == "" {
			return models.Tournament{}, fmt.Errorf("%w: team %d has no id", ErrInvalid, i+1)
		}
		if known[e.ID] {
			return models.Tournament{}, fmt.Errorf("%w: team %q listed twice", ErrInvalid, e.ID)
		}
		known[e.ID] = true

		team := models.Team{
			ID:           e.ID,
			Name:         e.Name,
			ShortName:    e.ShortName,
			PrimaryColor: e.PrimaryColor,
			Captain:      e.Captain,
			Players:      append([]string{}, e.Players...),
		}
		if e.LogoKey != "" {
			key := e.LogoKey
			team.LogoKey = &key
		}
		t.Teams = append(t.Teams, team)
	}

	switch {
	case len(f.Matches) > 0:
		matches, err := f.matches(known, rules)
		if err != nil {
			return models.Tournament{}, err
		}
		t.Matches = matches
	case f.Fixtures != nil:
		matches, err := f.Fixtures.generate(t.TeamIDs())
		if err != nil {
			return models.Tournament{}, fmt.Errorf("%w: fixtures: %w", ErrInvalid, err)
		}
		t.Matches = matches
	default:
		t.Matches = []models.Match{}
	}
	return t, nil
}

func (f File) matches(known map[string]bool, rules standings.Rules) ([]models.Match, error) {
	ids := make(map[string]bool, len(f.Matches))
	out := make([]models.Match, 0, len(f.Matches))
	for i, e := range f.Matches {
		m := models.Match{
			ID:      e.ID,
			Number:  e.Number,
			Team1:   e.Team1,
			Team2:   e.Team2,
			Date:    e.Date,
			Time:    e.Time,
			Venue:   e.Venue,
			IsFinal: e.Final,
		}
		if m.Number == 0 {
			m.Number = i + 1
		}
		if m.ID == "" {
			m.ID = fmt.Sprintf("m%d", m.Number)
		}
		if ids[m.ID] {
			return nil, fmt.Errorf("%w: match %q listed twice", ErrInvalid, m.ID)
		}
		ids[m.ID] = true

		if !known[m.Team1] || !known[m.Team2] {
			return nil, fmt.Errorf("%w: match %s references unknown team (%q v %q)", ErrInvalid, m.ID, m.Team1, m.Team2)
		}
		if m.Team1 == m.Team2 {
			return nil, fmt.Errorf("%w: match %s has %q on both sides", ErrInvalid, m.ID, m.Team1)
		}

		var result *models.MatchResult
		if e.Result != nil {
			res, err := e.Result.toModel(m, rules)
			if err != nil {
				return nil, fmt.Errorf("%w: match %s: %w", ErrInvalid, m.ID, err)
			}
			result = &res
		}
		status := models.MatchStatus(e.Status)
		if status == "" && result != nil {
			status = models.StatusCompleted
		}
		state, err := models.StateFor(status, result)
		if err != nil {
			return nil, fmt.Errorf("%w: match %s: %w", ErrInvalid, m.ID, err)
		}
		m.State = state
		out = append(out, m)
	}
	return out, nil
}

func (e ResultEntry) toModel(m models.Match, rules standings.Rules) (models.MatchResult, error) {
	var loser string
	switch e.Winner {
	case models.TieResult:
		loser = models.TieResult
	case m.Team1, m.Team2:
		loser = m.Opponent(e.Winner)
	default:
		return models.MatchResult{}, fmt.Errorf("winner %q did not play", e.Winner)
	}

	winning, err := scoring.ParseScore(e.WinningTeamScore)
	if err != nil {
		return models.MatchResult{}, fmt.Errorf("winning_team_score: %w", err)
	}
	losing, err := scoring.ParseScore(e.LosingTeamScore)
	if err != nil {
		return models.MatchResult{}, fmt.Errorf("losing_team_score: %w", err)
	}
	if winning.Wickets > rules.AllOutWickets || losing.Wickets > rules.AllOutWickets {
		return models.MatchResult{}, fmt.Errorf("more than %d wickets", rules.AllOutWickets)
	}

	res := models.MatchResult{
		Winner:           e.Winner,
		Loser:            loser,
		WinningTeamScore: winning.String(),
		LosingTeamScore:  losing.String(),
		WinMargin:        e.WinMargin,
		PlayerOfMatch:    e.PlayerOfMatch,
		WinningTeamOvers: scoring.ParseOvers(e.WinningTeamOvers),
		LosingTeamOvers:  scoring.ParseOvers(e.LosingTeamOvers),
	}
	res.NRR = standings.MatchNRR(res)
	return res, nil
}

func (s FixturesSpec) generate(teamIDs []string) ([]models.Match, error) {
	start, err := time.Parse(fixtures.DateLayout, s.Start)
	if err != nil {
		return nil, fmt.Errorf("start date: %w", err)
	}
	return fixtures.RoundRobin(teamIDs, fixtures.Options{
		Double: s.Double,
		Start:  start,
		Times:  s.Times,
		Venue:  s.Venue,
	})
}

// FromTournament converts t back to the seed layout, so generated fixtures and
// recorded results can be written out as YAML.
func FromTournament(t models.Tournament) File {
	f := File{ID: t.ID, Name: t.Name}
	for _, team := range t.Teams {
		e := TeamEntry{
			ID:           team.ID,
			Name:         team.Name,
			ShortName:    team.ShortName,
			PrimaryColor: team.PrimaryColor,
			Captain:      team.Captain,
			Players:      team.Players,
		}
		if team.LogoKey != nil {
			e.LogoKey = *team.LogoKey
		}
		f.Teams = append(f.Teams, e)
	}
	for _, m := range t.Matches {
		e := MatchEntry{
			ID:     m.ID,
			Number: m.Number,
			Team1:  m.Team1,
			Team2:  m.Team2,
			Date:   m.Date,
			Time:   m.Time,
			Venue:  m.Venue,
			Final:  m.IsFinal,
			Status: string(m.Status()),
		}
		if res, ok := m.Result(); ok {
			e.Result = &ResultEntry{
				Winner:           res.Winner,
				WinningTeamScore: res.WinningTeamScore,
				LosingTeamScore:  res.LosingTeamScore,
				WinMargin:        res.WinMargin,
				PlayerOfMatch:    res.PlayerOfMatch,
				WinningTeamOvers: scoring.FormatOvers(res.WinningTeamOvers),
				LosingTeamOvers:  scoring.FormatOvers(res.LosingTeamOvers),
			}
		}
		f.Matches = append(f.Matches, e)
	}
	return f
}
