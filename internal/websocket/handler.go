package websocket

import (
	"github.com/gofiber/websocket/v2"
)

// ServeWs attaches one websocket connection to the hub.
func ServeWs(hub *Hub, c *websocket.Conn, subscriberID string) {
	client := &Client{Hub: hub, Conn: c, SubscriberID: subscriberID, Send: make(chan []byte, 256)}
	client.Hub.register <- client

	go client.writePump()
	client.readPump()
}
