package api

import (
	"net/http"
	"slices"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/lalith-99/plotgrid/internal/service"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
)

// StreamHandler pushes a project's plot events to websocket clients.
type StreamHandler struct {
	svc      *service.ProjectService
	upgrader websocket.Upgrader
	logger   *zap.Logger
}

// NewStreamHandler accepts handshakes from allowedOrigins; "*" allows any.
func NewStreamHandler(svc *service.ProjectService, allowedOrigins []string, logger *zap.Logger) *StreamHandler {
	anyOrigin := slices.Contains(allowedOrigins, "*")
	return &StreamHandler{
		svc:    svc,
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return anyOrigin || origin == "" || slices.Contains(allowedOrigins, origin)
			},
		},
	}
}

func (h *StreamHandler) Register(rg *gin.RouterGroup) {
	rg.GET("/projects/:id/stream", h.Stream)
}

// Stream handles GET /v1/projects/:id/stream. Each plot event is sent as
// one JSON text message. Client messages are read and discarded so close
// frames and pongs are processed.
func (h *StreamHandler) Stream(c *gin.Context) {
	projectID := c.Param("id")

	// Subscribe before upgrading. Once the connection is a websocket there is
	// no status code left to send, so a missing project has to be turned
	// into a 404 while this is still a plain HTTP request.
	feed, cancel, err := h.svc.Subscribe(c.Request.Context(), projectID)
	if err != nil {
		respondError(c, h.logger, "project", err)
		return
	}
	defer cancel()

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade has already written the error response.
		h.logger.Warn("websocket upgrade failed", zap.String("project_id", projectID), zap.Error(err))
		return
	}
	defer conn.Close()

	closed := make(chan struct{})
	go func() {
		defer close(closed)
		conn.SetReadLimit(512)
		_ = conn.SetReadDeadline(time.Now().Add(pongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(pongWait))
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ping := time.NewTicker(pingPeriod)
	defer ping.Stop()

	h.logger.Debug("stream opened", zap.String("project_id", projectID))
	for {
		select {
		case <-closed:
			return
		case ev, ok := <-feed:
			if !ok {
				_ = conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseGoingAway, ""), time.Now().Add(writeWait))
				return
			}
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(ev); err != nil {
				h.logger.Debug("stream write failed", zap.String("project_id", projectID), zap.Error(err))
				return
			}
		case <-ping.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		}
	}
}
