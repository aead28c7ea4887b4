package main

import (
	"time"

	"github.com/gorilla/websocket"
)

// wsWriter is the one method of *websocket.Conn the heartbeat loop
// writes through.
type wsWriter interface {
	WriteMessage(messageType int, data []byte) error
}

// writeWSWithHeartbeat drains send onto the connection and emits a ping
// frame once the link has been idle for idlePing. Game broadcasts reset
// the idle clock, so an active viewer never sees a ping. Returns when
// send is closed or a write fails.
func writeWSWithHeartbeat(conn wsWriter, send <-chan []byte, idlePing time.Duration) error {
	if idlePing <= 0 {
		idlePing = 30 * time.Second
	}
	ticker := time.NewTicker(idlePing)
	defer ticker.Stop()
	lastWrite := time.Now()
	pingPayload := mustMarshal(wsMessage{Type: "ping"})

	for {
		select {
		case msg, ok := <-send:
			if !ok {
				return nil
			}
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return err
			}
			lastWrite = time.Now()
		case <-ticker.C:
			if time.Since(lastWrite) < idlePing {
				continue
			}
			if err := conn.WriteMessage(websocket.TextMessage, pingPayload); err != nil {
				return err
			}
			lastWrite = time.Now()
		}
	}
}
