package server

import (
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	sendBuffer = 64
)

// client is one websocket connection bound to a participant.
type client struct {
	participant string
	conn        *websocket.Conn
	send        chan []byte
	done        chan struct{}
	log         *slog.Logger
	once        sync.Once
}

func newClient(participant string, conn *websocket.Conn, log *slog.Logger) *client {
	return &client{
		participant: participant,
		conn:        conn,
		send:        make(chan []byte, sendBuffer),
		done:        make(chan struct{}),
		log:         log.With(slog.String("participant", participant)),
	}
}

// enqueue queues a frame without blocking. Frames for a slow client are
// dropped.
func (c *client) enqueue(frame Outbound) {
	data, err := json.Marshal(frame)
	if err != nil {
		c.log.Error("encode frame", slog.Any("error", err))
		return
	}

	select {
	case <-c.done:
	case c.send <- data:
	default:
		c.log.Warn("send buffer full, frame dropped", slog.String("type", frame.Type))
	}
}

// close stops the write pump, which closes the connection.
func (c *client) close() {
	c.once.Do(func() {
		close(c.done)
	})
}

func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)

	defer func() {
		ticker.Stop()
		c.close()
		_ = c.conn.Close()
	}()

	for {
		select {
		case <-c.done:
			_ = c.conn.WriteControl(
				websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(writeWait),
			)

			return
		case data := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))

			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				c.log.Debug("write failed", slog.Any("error", err))
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))

			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump hands every inbound message to handle until the connection
// fails.
func (c *client) readPump(limit int64, handle func(data []byte)) {
	defer c.close()

	if limit > 0 {
		c.conn.SetReadLimit(limit)
	}

	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))

	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(
				err,
				websocket.CloseNormalClosure,
				websocket.CloseGoingAway,
			) {
				c.log.Debug("connection closed", slog.Any("error", err))
			}

			return
		}

		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))

		handle(data)
	}
}
