package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/noah-isme/training-registration-api/internal/realtime"
)

// FeedHandler streams dashboard snapshots over a websocket.
type FeedHandler struct {
	serve gin.HandlerFunc
}

// NewFeedHandler constructs a feed handler on hub.
func NewFeedHandler(hub *realtime.Hub, upgrader *websocket.Upgrader, logger *zap.Logger) *FeedHandler {
	return &FeedHandler{serve: realtime.ServeWs(hub, upgrader, logger)}
}

// Stream godoc
// @Summary Live dashboard feed
// @Description Websocket delivering registrations.snapshot events; clients may send {"event":"refresh"}
// @Tags HR Session
// @Success 101
// @Failure 401 {object} response.Envelope
// @Router /hr/feed [get]
func (h *FeedHandler) Stream(c *gin.Context) {
	h.serve(c)
}
