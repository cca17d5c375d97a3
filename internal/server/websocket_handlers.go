package server

import (
	"context"
	"sync"
	"time"

	"github.com/1willcobb/myfilmfriends-server/internal/auth"
	"github.com/1willcobb/myfilmfriends-server/internal/models"
	"github.com/1willcobb/myfilmfriends-server/internal/observability"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

const wsWriteTimeout = 10 * time.Second

// NotificationsWebSocket streams the caller's notification and chat events.
// It must be mounted behind the auth guard.
func (s *Server) NotificationsWebSocket() fiber.Handler {
	upgrade := websocket.New(func(conn *websocket.Conn) {
		userID, _ := conn.Locals(auth.LocalUserID).(uint)
		if userID == 0 {
			_ = conn.Close()
			return
		}

		observability.WebSocketConnections.Inc()
		defer observability.WebSocketConnections.Dec()

		ctx, cancel := context.WithCancel(s.shutdownCtx)
		defer cancel()

		var (
			writeMu sync.Mutex
			closed  bool
		)
		closeConn := func() {
			writeMu.Lock()
			defer writeMu.Unlock()
			if !closed {
				closed = true
				_ = conn.Close()
			}
		}
		send := func(payload string) {
			writeMu.Lock()
			defer writeMu.Unlock()
			if closed {
				return
			}
			_ = conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
			if err := conn.WriteMessage(websocket.TextMessage, []byte(payload)); err != nil {
				cancel()
			}
		}

		stop, err := s.notifier.SubscribeUser(ctx, userID, send)
		if err != nil {
			observability.Logger.Warn("notification subscribe failed", "user_id", userID, "error", err)
			_ = conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseTryAgainLater, "realtime unavailable"))
			return
		}

		// The conn returns to the upgrader's pool once this func returns, so
		// every helper touching it has to be finished by then.
		done := make(chan struct{})
		var wg sync.WaitGroup
		wg.Add(1)
		go func() {
			defer wg.Done()
			select {
			case <-ctx.Done():
				closeConn()
			case <-done:
			}
		}()
		defer func() {
			close(done)
			wg.Wait()
			stop()
			closeConn()
		}()

		// Client frames are ignored; reading detects disconnects.
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	})

	return func(c *fiber.Ctx) error {
		if !websocket.IsWebSocketUpgrade(c) {
			return models.RespondWithError(c, fiber.StatusUpgradeRequired,
				models.NewValidationError("WebSocket upgrade required"))
		}
		return upgrade(c)
	}
}
