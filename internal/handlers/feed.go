package handlers

import (
	"log"
	"net/http"
	"os"

	"github.com/RichmondRamil/task-management/internal/feed"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var feedUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		allowed := os.Getenv("ALLOWED_ORIGIN")
		if allowed == "" {
			return true
		}
		return r.Header.Get("Origin") == allowed
	},
}

// FeedHandler upgrades authenticated clients onto the task change feed.
type FeedHandler struct {
	hub *feed.Hub
}

// NewFeedHandler creates a new FeedHandler.
func NewFeedHandler(hub *feed.Hub) *FeedHandler {
	return &FeedHandler{
		hub: hub,
	}
}

// Stream handles GET /api/tasks/feed. The connection receives every task
// insert, update, and delete as a JSON frame until the client disconnects.
func (h *FeedHandler) Stream(c *gin.Context) {
	conn, err := feedUpgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("feed: upgrade failed: %v", err)
		return
	}

	client := feed.NewClient(h.hub, conn)
	go client.Run()
}
