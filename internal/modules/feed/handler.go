package feed

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

type Handler struct {
	hub      *Hub
	upgrader websocket.Upgrader
}

// NewHandler builds the feed endpoint. checkOrigin may be nil to accept any
// origin.
func NewHandler(hub *Hub, checkOrigin func(r *http.Request) bool) *Handler {
	if checkOrigin == nil {
		checkOrigin = func(*http.Request) bool { return true }
	}
	return &Handler{
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     checkOrigin,
		},
	}
}

func (h *Handler) RegisterRoutes(r gin.IRouter) {
	r.GET("/ws/feed", h.Serve)
}

// Serve godoc
// @Summary Live upload feed
// @Description Upgrades to a websocket that streams artwork.created and threed.created events. Optional ?topics=a,b narrows the stream.
// @Tags Feed
// @Router /ws/feed [get]
func (h *Handler) Serve(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error
		h.hub.log.Debug().Err(err).Msg("websocket upgrade failed")
		return
	}
	h.hub.ServeWS(conn, splitTopics(c.Query("topics")))
}

func splitTopics(raw string) []string {
	var out []string
	for _, t := range strings.Split(raw, ",") {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}
