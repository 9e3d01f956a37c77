package handlers

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/olahol/melody"
)

// WSHandler pushes light change signals to clients watching a budget, so
// shared views refresh without polling.
type WSHandler struct {
	M *melody.Melody
}

func NewWSHandler() *WSHandler {
	m := melody.New()

	m.Config.MaxMessageSize = 1024 * 1024

	// Keep-alive settings tuned for cloud hosting proxies
	m.Config.PingPeriod = 30 * time.Second
	m.Config.PongWait = 60 * time.Second

	m.HandleDisconnect(func(s *melody.Session) {
		budgetID, _ := s.Get("budget_id")
		log.Printf("🔌 Client disconnected from budget: %v", budgetID)
	})

	m.HandleError(func(s *melody.Session, err error) {
		log.Printf("❌ WebSocket Error: %v", err)
	})

	return &WSHandler{M: m}
}

// HandleWS upgrades the request and subscribes the session to one budget.
func (h *WSHandler) HandleWS(c *gin.Context) {
	budgetID := c.Param("id")

	h.M.HandleConnect(func(s *melody.Session) {
		s.Set("budget_id", budgetID)
		log.Printf("✅ Client connected to budget: %s", budgetID)
	})

	if err := h.M.HandleRequest(c.Writer, c.Request); err != nil {
		log.Printf("❌ Failed to upgrade websocket: %v", err)
	}
}

// BroadcastUpdate signals every session subscribed to the budget.
func (h *WSHandler) BroadcastUpdate(budgetID, updateType, actor string) {
	if h == nil || h.M == nil {
		return
	}

	msg := []byte(`{"type": "` + updateType + `", "user": "` + actor + `"}`)

	err := h.M.BroadcastFilter(msg, func(q *melody.Session) bool {
		id, exists := q.Get("budget_id")
		return exists && id == budgetID
	})
	if err != nil {
		log.Printf("⚠️ Error broadcasting to budget %s: %v", budgetID, err)
	}
}
