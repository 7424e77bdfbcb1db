package host

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/appo-sh/hostbridge/bridge"
	"github.com/appo-sh/hostbridge/internal/monitoring"
)

// Session serves one guest WebSocket connection: a read loop that decodes
// request frames, dispatches them through the registry, and writes response
// frames back. Events are pushed into the same connection by the server's
// broadcast path.
type Session struct {
	id       string
	conn     *websocket.Conn
	registry *Registry
	limiter  *rate.Limiter
	metrics  *monitoring.Metrics
	log      *zap.Logger

	writeMu sync.Mutex
}

func newSession(conn *websocket.Conn, reg *Registry, limiter *rate.Limiter, m *monitoring.Metrics, log *zap.Logger) *Session {
	id := uuid.New().String()
	return &Session{
		id:       id,
		conn:     conn,
		registry: reg,
		limiter:  limiter,
		metrics:  m,
		log:      log.With(zap.String("session_id", id)),
	}
}

// ID returns the session's unique identifier.
func (s *Session) ID() string { return s.id }

// run reads frames until the connection drops. Each request is handled
// synchronously so responses for one guest preserve arrival order.
func (s *Session) run(ctx context.Context) {
	s.log.Info("session started", zap.String("remote", s.conn.RemoteAddr().String()))
	defer s.log.Info("session ended")

	for {
		_, raw, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.log.Warn("connection closed unexpectedly", zap.Error(err))
			}
			return
		}

		if s.limiter != nil && !s.limiter.Allow() {
			s.metrics.RateLimited.Inc()
			s.log.Warn("inbound frame rate limited")
			continue
		}

		var req bridge.Request
		if err := sonic.Unmarshal(raw, &req); err != nil || req.Type == "" {
			s.metrics.BadFrames.Inc()
			s.log.Warn("malformed inbound frame", zap.Error(err))
			continue
		}

		s.handle(ctx, req)
	}
}

func (s *Session) handle(ctx context.Context, req bridge.Request) {
	feature, action, _ := strings.Cut(req.Type, ".")
	payload, _ := req.Payload.(map[string]any)

	start := time.Now()
	data, err := s.registry.Dispatch(ctx, req.Type, payload)
	s.metrics.RequestDuration.WithLabelValues(feature, action).Observe(time.Since(start).Seconds())

	// Frames without an id cannot be answered. Guests normally stamp ids on
	// every frame, but foreign clients may omit them for fire-and-forget use.
	if req.ID == "" {
		if err != nil {
			s.log.Warn("notification failed", zap.String("type", req.Type), zap.Error(err))
		}
		return
	}

	resp := bridge.Response{ID: req.ID, Success: err == nil}
	status := "ok"
	if err != nil {
		resp.Error = err.Error()
		status = "error"
		s.log.Debug("request failed", zap.String("type", req.Type), zap.Error(err))
	} else {
		resp.Data = data
	}
	s.metrics.RequestsTotal.WithLabelValues(feature, action, status).Inc()

	if err := s.writeJSON(resp); err != nil {
		s.log.Warn("response write failed", zap.String("id", req.ID), zap.Error(err))
	}
}

// sendEvent pushes a broadcast frame to the guest.
func (s *Session) sendEvent(event string, data any) error {
	return s.writeJSON(bridge.Event{Event: event, Data: data})
}

func (s *Session) writeJSON(v any) error {
	frame, err := sonic.Marshal(v)
	if err != nil {
		return err
	}
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	return s.conn.WriteMessage(websocket.TextMessage, frame)
}
