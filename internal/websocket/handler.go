package websocket

import (
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

// ServeWs registers the connection with the hub and pumps until the peer
// leaves.
func ServeWs(hub *Hub, c *websocket.Conn) {
	client := &Client{Id: uuid.NewString(), Hub: hub, Conn: c, Send: make(chan []byte, 256)}
	select {
	case hub.register <- client:
	case <-hub.done:
		return
	}

	go client.writePump()
	client.readPump()
}
