package httpapi

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/riskibarqy/frogcrew/internal/domain/game"
	"github.com/riskibarqy/frogcrew/internal/domain/position"
	"github.com/riskibarqy/frogcrew/internal/usecase"
)

func (h *Handler) ListGames(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r, "httpapi.Handler.ListGames")
	defer span.End()

	var scheduleID int64
	if raw := strings.TrimSpace(r.URL.Query().Get("scheduleId")); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			writeError(ctx, w, &validationError{Fields: map[string]string{"scheduleId": "scheduleId must be a positive integer."}})
			return
		}
		scheduleID = id
	}

	games, err := h.gameService.List(ctx, scheduleID)
	if err != nil {
		h.logger.WarnContext(ctx, "list games failed", "schedule_id", scheduleID, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]game.Game, 0, len(games))
	for _, g := range games {
		items = append(items, gameForResponse(g))
	}
	writeSuccess(ctx, w, http.StatusOK, msgFind, items)
}

func (h *Handler) GetGame(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r, "httpapi.Handler.GetGame")
	defer span.End()

	gameID, err := pathID(r, "gameID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	g, err := h.gameService.Get(ctx, gameID)
	if err != nil {
		h.logger.WarnContext(ctx, "get game failed", "game_id", gameID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, msgFind, gameForResponse(g))
}

func (h *Handler) CreateGame(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r, "httpapi.Handler.CreateGame")
	defer span.End()

	var req createGameRequest
	if err := decodeJSON(r, &req, false); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	g, err := h.gameService.Create(ctx, usecase.CreateGameInput{
		ScheduleID:        req.ScheduleID,
		Sport:             req.Sport,
		GameDate:          req.GameDate,
		GameStart:         req.GameStart,
		Venue:             req.Venue,
		Opponent:          req.Opponent,
		RequiredPositions: req.RequiredPositions,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "create game failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, msgAdd, gameForResponse(g))
}

func (h *Handler) UpdateGame(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r, "httpapi.Handler.UpdateGame")
	defer span.End()

	gameID, err := pathID(r, "gameID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	var req updateGameRequest
	if err := decodeJSON(r, &req, false); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	g, err := h.gameService.Update(ctx, gameID, usecase.UpdateGameInput{
		ScheduleID:        req.ScheduleID,
		Sport:             req.Sport,
		GameDate:          req.GameDate,
		GameStart:         req.GameStart,
		Venue:             req.Venue,
		Opponent:          req.Opponent,
		RequiredPositions: req.RequiredPositions,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "update game failed", "game_id", gameID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, msgUpdate, gameForResponse(g))
}

func (h *Handler) DeleteGame(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r, "httpapi.Handler.DeleteGame")
	defer span.End()

	gameID, err := pathID(r, "gameID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	if err := h.gameService.Delete(ctx, gameID); err != nil {
		h.logger.WarnContext(ctx, "delete game failed", "game_id", gameID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, msgDelete, nil)
}

func (h *Handler) PublishGame(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r, "httpapi.Handler.PublishGame")
	defer span.End()

	gameID, err := pathID(r, "gameID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	g, err := h.gameService.Publish(ctx, gameID)
	if err != nil {
		h.logger.WarnContext(ctx, "publish game failed", "game_id", gameID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, msgPublish, gameForResponse(g))
}

// gameForResponse renders absent lists as [] rather than null.
func gameForResponse(g game.Game) game.Game {
	if g.RequiredPositions == nil {
		g.RequiredPositions = []position.Position{}
	}
	if g.CrewedMembers == nil {
		g.CrewedMembers = []game.Assignment{}
	}
	return g
}
