package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/Dosada05/cricket-league/services"
)

type ScorerAuthenticator interface {
	LoginScorer(ctx context.Context, pin string) (*services.ScorerToken, error)
}

type AuthHandler struct {
	authService ScorerAuthenticator
}

func NewAuthHandler(authService ScorerAuthenticator) *AuthHandler {
	return &AuthHandler{authService: authService}
}

type ScorerLoginInput struct {
	PIN string `json:"pin"`
}

// ScorerLogin godoc
// @Summary Получить токен счётчика по PIN
// @Tags auth
// @Accept json
// @Produce json
// @Param input body ScorerLoginInput true "PIN"
// @Success 200 {object} services.ScorerToken
// @Failure 400 {object} map[string]string "PIN не указан"
// @Failure 401 {object} map[string]string "Неверный PIN"
// @Router /auth/scorer [post]
func (h *AuthHandler) ScorerLogin(w http.ResponseWriter, r *http.Request) {
	var input ScorerLoginInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if strings.TrimSpace(input.PIN) == "" {
		badRequestResponse(w, r, errors.New("pin is required"))
		return
	}

	token, err := h.authService.LoginScorer(r.Context(), input.PIN)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, token, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
