package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"

	"cvcrafter/internal/api/middleware"
	"cvcrafter/internal/worker"
)

// WsHandler forwards a profile's export notifications to a websocket.
type WsHandler struct {
	redisClient *redis.Client
	logger      *slog.Logger
	upgrader    websocket.Upgrader
}

// NewWsHandler builds the handler. With no allowed origins only same-host
// pages may connect.
func NewWsHandler(redisClient *redis.Client, logger *slog.Logger, allowedOrigins []string) *WsHandler {
	return &WsHandler{
		redisClient: redisClient,
		logger:      logger,
		upgrader:    websocket.Upgrader{CheckOrigin: originChecker(allowedOrigins)},
	}
}

func originChecker(allowed []string) func(*http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		if len(allowed) > 0 {
			return slices.Contains(allowed, origin)
		}
		u, err := url.Parse(origin)
		return err == nil && strings.EqualFold(u.Host, r.Host)
	}
}

type wsSubscribeMessage struct {
	Type    string `json:"type"`
	Profile string `json:"profile"`
}

type wsAck struct {
	Status  string `json:"status"`
	Profile string `json:"profile"`
}

const wsWriteTimeout = 10 * time.Second

var errSubscribeRequired = errors.New("subscribe message required")

// HandleConnection upgrades the request and forwards notifications of one
// profile. The profile comes from the "profile" query parameter or, failing
// that, from a first {"type":"subscribe","profile":...} message.
func (h *WsHandler) HandleConnection(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Error("upgrade websocket failed", slog.Any("error", err))
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	baseLog := h.logger.With(
		slog.String("client_ip", c.ClientIP()),
	)

	profileCh := make(chan string, 1)
	errCh := make(chan error, 2)

	if profile := c.Query("profile"); profile != "" {
		if !middleware.ValidProfile(profile) {
			writeClose(conn, websocket.ClosePolicyViolation, "invalid profile")
			baseLog.Warn("websocket subscribe rejected", slog.String("profile", profile))
			return
		}
		profileCh <- profile
	}
	go h.readLoop(ctx, conn, len(profileCh) > 0, profileCh, errCh, cancel, baseLog)

	var profile string
	select {
	case <-ctx.Done():
		return
	case err := <-errCh:
		if err != nil {
			baseLog.Warn("websocket subscribe failed", slog.Any("error", err))
		}
		return
	case profile = <-profileCh:
	}

	profileLog := baseLog.With(slog.String("profile", profile))
	go h.subscribeLoop(ctx, conn, profile, errCh, cancel, profileLog)

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil {
			profileLog.Info("websocket connection closed", slog.Any("error", err))
		} else {
			profileLog.Info("websocket connection closed")
		}
	}
}

func (h *WsHandler) readLoop(
	ctx context.Context,
	conn *websocket.Conn,
	subscribed bool,
	profileCh chan<- string,
	errCh chan<- error,
	cancel context.CancelFunc,
	log *slog.Logger,
) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		_, message, err := conn.ReadMessage()
		if err != nil {
			writeClose(conn, websocket.CloseAbnormalClosure, "read error")
			errCh <- fmt.Errorf("read message: %w", err)
			cancel()
			return
		}

		if subscribed {
			// Client messages after the subscription are ignored; reading
			// detects the disconnect.
			continue
		}

		var msg wsSubscribeMessage
		if err := json.Unmarshal(message, &msg); err != nil {
			writeClose(conn, websocket.ClosePolicyViolation, "invalid subscribe payload")
			errCh <- fmt.Errorf("decode subscribe payload: %w", err)
			cancel()
			return
		}
		if msg.Type != "subscribe" || !middleware.ValidProfile(msg.Profile) {
			writeClose(conn, websocket.ClosePolicyViolation, "subscribe required")
			errCh <- errSubscribeRequired
			cancel()
			return
		}

		subscribed = true
		profileCh <- msg.Profile
		log.Info("websocket subscribed", slog.String("profile", msg.Profile))
	}
}

func writeClose(conn *websocket.Conn, code int, text string) {
	deadline := time.Now().Add(5 * time.Second)
	_ = conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(code, text), deadline)
}

func (h *WsHandler) subscribeLoop(
	ctx context.Context,
	conn *websocket.Conn,
	profile string,
	errCh chan<- error,
	cancel context.CancelFunc,
	log *slog.Logger,
) {
	channel := worker.NotifyChannel(profile)
	pubsub := h.redisClient.Subscribe(ctx, channel)
	defer pubsub.Close()

	// Receive blocks until redis confirms, so no notification published
	// after the ack below is missed.
	if _, err := pubsub.Receive(ctx); err != nil {
		errCh <- fmt.Errorf("subscribe %s: %w", channel, err)
		cancel()
		return
	}
	log.Info("subscribed to redis channel", slog.String("channel", channel))

	ack, _ := json.Marshal(wsAck{Status: "subscribed", Profile: profile})
	if err := h.write(conn, ack); err != nil {
		errCh <- fmt.Errorf("write ack: %w", err)
		cancel()
		return
	}

	ch := pubsub.Channel()
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				errCh <- fmt.Errorf("pubsub channel closed")
				cancel()
				return
			}

			log.Debug("forwarding message to client", slog.String("channel", channel))
			if err := h.write(conn, []byte(msg.Payload)); err != nil {
				errCh <- fmt.Errorf("write message: %w", err)
				cancel()
				return
			}
		case <-ticker.C:
			deadline := time.Now().Add(5 * time.Second)
			if err := conn.WriteControl(websocket.PingMessage, []byte("ping"), deadline); err != nil {
				errCh <- fmt.Errorf("write ping: %w", err)
				cancel()
				return
			}
		}
	}
}

// write sends one text frame. Only subscribeLoop writes data frames.
func (h *WsHandler) write(conn *websocket.Conn, payload []byte) error {
	if err := conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout)); err != nil {
		return err
	}
	return conn.WriteMessage(websocket.TextMessage, payload)
}
