package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"slices"

	"github.com/gorilla/websocket"

	"github.com/Dosada05/cricket-league/realtime"
	"github.com/Dosada05/cricket-league/services"
)

type SnapshotSource interface {
	Snapshot(ctx context.Context, tournamentID string) (services.StandingsSnapshot, error)
}

type WebSocketHandler struct {
	hub       *realtime.Hub
	snapshots SnapshotSource
	upgrader  websocket.Upgrader
	logger    *slog.Logger
}

// NewWebSocketHandler accepts connections whose Origin is in allowedOrigins;
// "*" allows any origin.
func NewWebSocketHandler(hub *realtime.Hub, snapshots SnapshotSource, allowedOrigins []string, logger *slog.Logger) *WebSocketHandler {
	allowAll := slices.Contains(allowedOrigins, "*")
	return &WebSocketHandler{
		hub:       hub,
		snapshots: snapshots,
		logger:    logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return allowAll || origin == "" || slices.Contains(allowedOrigins, origin)
			},
		},
	}
}

// ServeWs подключает клиента к комнате турнира /ws/tournaments/{tournamentID}.
// Первым сообщением клиент получает текущую таблицу.
func (h *WebSocketHandler) ServeWs(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getStringFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	snapshot, err := h.snapshots.Snapshot(r.Context(), tournamentID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	initial, err := json.Marshal(realtime.Message{
		Type:    realtime.MessageStandingsSnapshot,
		Payload: snapshot,
		RoomID:  tournamentID,
	})
	if err != nil {
		serverErrorResponse(w, r, err)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written the HTTP error.
		h.logger.Warn("Websocket upgrade failed", slog.String("tournament_id", tournamentID), slog.Any("error", err))
		return
	}

	h.hub.Attach(conn, tournamentID, initial)
	h.logger.Debug("Websocket client attached", slog.String("tournament_id", tournamentID))
}
