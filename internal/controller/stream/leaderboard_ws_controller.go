package stream

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"quizroom/internal/dto"
	"quizroom/internal/service"
)

// LeaderboardWSController streams leaderboard snapshots over a websocket.
// Each connection receives the current standings immediately, then a fresh
// snapshot every time a submission for the quiz is created or deleted.
type LeaderboardWSController struct {
	hub            *service.LeaderboardHub
	resultsService service.ResultsService
	upgrader       websocket.Upgrader
}

func NewLeaderboardWSController(hub *service.LeaderboardHub, resultsService service.ResultsService) *LeaderboardWSController {
	return &LeaderboardWSController{
		hub:            hub,
		resultsService: resultsService,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type outboundMessage struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

type errorPayload struct {
	Message string `json:"message"`
}

// ServeLeaderboard godoc
// @Summary Live leaderboard stream for a quiz
// @Description Upgrades to a websocket and pushes {"type":"leaderboard"} messages as standings change.
// @Tags Stream
// @Param quiz_id path int true "Quiz ID"
// @Success 101 "Switching protocols"
// @Failure 400 {object} dto.ErrorResponse "Invalid quiz ID"
// @Router /ws/quizzes/{quiz_id}/leaderboard [get]
func (c *LeaderboardWSController) ServeLeaderboard(ctx *gin.Context) {
	raw := ctx.Param("quiz_id")
	quizID, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid quiz ID format"})
		return
	}

	conn, err := c.upgrader.Upgrade(ctx.Writer, ctx.Request, nil)
	if err != nil {
		log.Warn().Err(err).Msg("leaderboard stream: upgrade failed")
		return
	}
	defer conn.Close()

	board, err := c.resultsService.Leaderboard(ctx.Request.Context(), uint(quizID))
	if err != nil {
		msg := "internal error"
		if errors.Is(err, service.ErrQuizNotFound) {
			msg = "quiz not found"
		}
		_ = conn.WriteJSON(outboundMessage{Type: "error", Payload: errorPayload{Message: msg}})
		return
	}

	updates, cancel := c.hub.Subscribe(uint(quizID))
	defer cancel()

	readerGone := make(chan struct{})
	go func() {
		defer close(readerGone)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	if err := conn.WriteJSON(outboundMessage{Type: "leaderboard", Payload: board}); err != nil {
		return
	}

	for {
		select {
		case update, ok := <-updates:
			if !ok {
				return
			}
			if err := conn.WriteJSON(outboundMessage{Type: "leaderboard", Payload: update}); err != nil {
				log.Debug().Err(err).Uint64("quiz_id", quizID).Msg("leaderboard stream: write failed, dropping subscriber")
				return
			}
		case <-readerGone:
			return
		}
	}
}
