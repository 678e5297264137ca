package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/Dosada05/cricket-league/middleware"
	"github.com/Dosada05/cricket-league/services"
)

type ResultSubmitter interface {
	SubmitResult(ctx context.Context, tournamentID, matchID string, input services.SubmitResultInput) (*services.SubmitResultOutput, error)
}

type MatchHandler struct {
	resultService ResultSubmitter
	logger        *slog.Logger
}

func NewMatchHandler(rs ResultSubmitter, logger *slog.Logger) *MatchHandler {
	return &MatchHandler{
		resultService: rs,
		logger:        logger,
	}
}

// SubmitResultHandler godoc
// @Summary Внести результат матча
// @Tags matches
// @Description Завершает матч, пересчитывает таблицу и NRR и рассылает обновление.
// @Accept json
// @Produce json
// @Param tournamentID path string true "Tournament ID"
// @Param matchID path string true "Match ID"
// @Param input body services.SubmitResultInput true "Результат"
// @Success 200 {object} services.SubmitResultOutput
// @Failure 400 {object} map[string]string "Ошибка валидации или разбора счёта"
// @Failure 401 {object} map[string]string "Неавторизован"
// @Failure 403 {object} map[string]string "Нет прав"
// @Failure 404 {object} map[string]string "Турнир или матч не найден"
// @Failure 409 {object} map[string]string "Результат уже внесён"
// @Security BearerAuth
// @Router /tournaments/{tournamentID}/matches/{matchID}/result [post]
func (h *MatchHandler) SubmitResultHandler(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getStringFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	matchID, err := getStringFromURL(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.SubmitResultInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	out, err := h.resultService.SubmitResult(r.Context(), tournamentID, matchID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	h.logger.Info("Result submitted",
		slog.String("tournament_id", tournamentID),
		slog.String("match_id", matchID),
		slog.String("by", middleware.GetSubjectFromContext(r.Context())),
	)

	if err := writeJSON(w, http.StatusOK, out, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
