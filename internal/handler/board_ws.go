package handler

import (
	"log"

	"github.com/gofiber/contrib/websocket"

	"drawboard-backend/internal/relay"
)

// BoardWSHandler 드로잉 보드 WebSocket 핸들러. 실제 동작은 relay.Hub 에
// 위임하고 여기서는 연결 수명만 관리한다.
type BoardWSHandler struct {
	hub *relay.Hub
}

// NewBoardWSHandler BoardWSHandler 생성
func NewBoardWSHandler(hub *relay.Hub) *BoardWSHandler {
	return &BoardWSHandler{hub: hub}
}

// HandleWebSocket WebSocket 연결 처리. 라우트 가드에서 JWT 검증을 마치고
// Locals 에 사용자 정보를 실어 보낸다.
func (h *BoardWSHandler) HandleWebSocket(c *websocket.Conn) {
	userID, ok1 := c.Locals("userId").(int64)
	nickname, ok2 := c.Locals("nickname").(string)

	if !ok1 || !ok2 {
		c.WriteMessage(websocket.TextMessage, []byte(`{"type":"error","message":"invalid session"}`))
		c.Close()
		return
	}

	log.Printf("보드 클라이언트 연결: user=%d (%s)", userID, nickname)
	h.hub.HandleConnection(c, c, userID, nickname)
	log.Printf("보드 클라이언트 연결 해제: user=%d", userID)
}
