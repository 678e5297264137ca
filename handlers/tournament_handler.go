package handlers

import (
	"context"
	"net/http"

	"github.com/Dosada05/cricket-league/models"
	"github.com/Dosada05/cricket-league/services"
)

// TournamentReader is the read side served by TournamentHandler.
type TournamentReader interface {
	GetTournament(ctx context.Context, id string) (*models.Tournament, error)
	GetTeam(ctx context.Context, tournamentID, teamID string) (*models.Team, error)
	GetTeamStats(ctx context.Context, tournamentID, teamID string) (*models.TeamStats, error)
	ListStandings(ctx context.Context, tournamentID string) ([]models.TeamStats, error)
	ListUpcomingMatches(ctx context.Context, tournamentID string, count int) ([]models.Match, error)
	ListResultsByDate(ctx context.Context, tournamentID string) ([]services.ResultDay, error)
}

type TournamentHandler struct {
	tournamentService TournamentReader
}

func NewTournamentHandler(ts TournamentReader) *TournamentHandler {
	return &TournamentHandler{
		tournamentService: ts,
	}
}

// GetByIDHandler godoc
// @Summary Турнир целиком: команды, матчи и таблица
// @Tags tournaments
// @Produce json
// @Param tournamentID path string true "Tournament ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]string "Турнир не найден"
// @Router /tournaments/{tournamentID} [get]
func (h *TournamentHandler) GetByIDHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getStringFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	tournament, err := h.tournamentService.GetTournament(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"tournament": tournament}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// StandingsHandler godoc
// @Summary Таблица очков, отсортированная по очкам и NRR
// @Tags tournaments
// @Produce json
// @Param tournamentID path string true "Tournament ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]string "Турнир не найден"
// @Router /tournaments/{tournamentID}/standings [get]
func (h *TournamentHandler) StandingsHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getStringFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	table, err := h.tournamentService.ListStandings(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"standings": table}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// TeamHandler godoc
// @Summary Команда турнира
// @Tags teams
// @Produce json
// @Param tournamentID path string true "Tournament ID"
// @Param teamID path string true "Team ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]string "Турнир или команда не найдены"
// @Router /tournaments/{tournamentID}/teams/{teamID} [get]
func (h *TournamentHandler) TeamHandler(w http.ResponseWriter, r *http.Request) {
	tournamentID, teamID, ok := teamParams(w, r)
	if !ok {
		return
	}

	team, err := h.tournamentService.GetTeam(r.Context(), tournamentID, teamID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"team": team}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// TeamStatsHandler godoc
// @Summary Строка таблицы для команды
// @Tags teams
// @Produce json
// @Param tournamentID path string true "Tournament ID"
// @Param teamID path string true "Team ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]string "Турнир или команда не найдены"
// @Router /tournaments/{tournamentID}/teams/{teamID}/stats [get]
func (h *TournamentHandler) TeamStatsHandler(w http.ResponseWriter, r *http.Request) {
	tournamentID, teamID, ok := teamParams(w, r)
	if !ok {
		return
	}

	stats, err := h.tournamentService.GetTeamStats(r.Context(), tournamentID, teamID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"stats": stats}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// UpcomingMatchesHandler godoc
// @Summary Ближайшие запланированные матчи
// @Tags matches
// @Produce json
// @Param tournamentID path string true "Tournament ID"
// @Param count query int false "Сколько матчей вернуть (0 = все)"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]string "Неверный count"
// @Failure 404 {object} map[string]string "Турнир не найден"
// @Router /tournaments/{tournamentID}/matches/upcoming [get]
func (h *TournamentHandler) UpcomingMatchesHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getStringFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	count, err := getIntQuery(r, "count", 0)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	matches, err := h.tournamentService.ListUpcomingMatches(r.Context(), id, count)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"matches": matches}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ResultsHandler godoc
// @Summary Сыгранные матчи, сгруппированные по дате
// @Tags matches
// @Produce json
// @Param tournamentID path string true "Tournament ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]string "Турнир не найден"
// @Router /tournaments/{tournamentID}/matches/results [get]
func (h *TournamentHandler) ResultsHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getStringFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	days, err := h.tournamentService.ListResultsByDate(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"days": days}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func teamParams(w http.ResponseWriter, r *http.Request) (string, string, bool) {
	tournamentID, err := getStringFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return "", "", false
	}
	teamID, err := getStringFromURL(r, "teamID")
	if err != nil {
		badRequestResponse(w, r, err)
		return "", "", false
	}
	return tournamentID, teamID, true
}
