package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"vehicledash/internal/services"
)

type WebSocketController struct {
	hub       *services.WebSocketHub
	source    TelemetrySource
	assistant *services.Assistant
	logger    *zap.Logger
	upgrader  websocket.Upgrader
}

func NewWebSocketController(hub *services.WebSocketHub, source TelemetrySource, assistant *services.Assistant, logger *zap.Logger) *WebSocketController {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WebSocketController{
		hub:       hub,
		source:    source,
		assistant: assistant,
		logger:    logger.Named("ws"),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				// origins are filtered by the CORS middleware
				return true
			},
		},
	}
}

// HandleWebSocket upgrades the connection and streams telemetry frames
func (wc *WebSocketController) HandleWebSocket(c *gin.Context) {
	ws, err := wc.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		wc.logger.Warn("upgrade failed", zap.Error(err), zap.String("ip", c.ClientIP()))
		return
	}

	client := services.NewClientConnection(ws)
	wc.logger.Debug("new connection", zap.String("client", client.ID), zap.String("ip", c.ClientIP()))

	wc.hub.Register(client)

	// first frame is the current state so the client never starts empty
	if data, err := json.Marshal(wc.source.Snapshot()); err == nil {
		select {
		case client.Send <- services.WebSocketMessage{Type: "telemetry", Timestamp: time.Now(), Data: data}:
		default:
		}
	}

	go wc.readPump(client)
	go wc.writePump(client)
}

// readPump reads messages from the WebSocket client
func (wc *WebSocketController) readPump(client *services.ClientConnection) {
	defer func() {
		wc.hub.Unregister(client.ID)
		client.Conn.Close()
	}()

	for {
		var msg services.WebSocketMessage
		if err := client.Conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				wc.logger.Warn("read error", zap.String("client", client.ID), zap.Error(err))
			}
			return
		}

		var reply services.WebSocketMessage
		switch msg.Type {
		case "ping":
			reply = services.WebSocketMessage{Type: "pong", Timestamp: time.Now()}

		case "ask":
			reply = wc.answer(msg.Text)

		case "unsubscribe":
			return

		default:
			wc.logger.Debug("unknown message type", zap.String("type", msg.Type))
			continue
		}

		select {
		case client.Send <- reply:
		case <-client.Close:
			return
		}
	}
}

func (wc *WebSocketController) answer(text string) services.WebSocketMessage {
	_, answer, err := wc.assistant.Ask(context.Background(), wc.source.CurrentSample(), services.TypedInput{Value: text})
	if err != nil {
		return services.WebSocketMessage{Type: "error", Timestamp: time.Now(), Error: err.Error()}
	}
	data, err := json.Marshal(answer)
	if err != nil {
		return services.WebSocketMessage{Type: "error", Timestamp: time.Now(), Error: err.Error()}
	}
	return services.WebSocketMessage{Type: "answer", Timestamp: answer.Timestamp, Data: data}
}

// writePump writes messages to the WebSocket client
func (wc *WebSocketController) writePump(client *services.ClientConnection) {
	defer client.Conn.Close()

	for {
		select {
		case msg, ok := <-client.Send:
			if !ok {
				client.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := client.Conn.WriteJSON(msg); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
					wc.logger.Warn("write error", zap.String("client", client.ID), zap.Error(err))
				}
				return
			}

		case <-client.Close:
			client.Conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		}
	}
}
