package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/jinterlante1206/AleutianGrid/services/sheet/collab"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
	ReadBufferSize:  64 * 1024,
	WriteBufferSize: 64 * 1024,
}

// HandleSheetWebSocket upgrades the connection and hands it to the hub. The
// connection starts in the pre-join state: everything but a join event is
// dropped until the client identifies itself.
func HandleSheetWebSocket(hub *collab.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			slog.Error("failed to upgrade the websocket", "error", err)
			return
		}

		client := collab.NewClient(hub, ws)
		hub.Register(client)

		go client.WritePump()
		client.ReadPump()
	}
}
