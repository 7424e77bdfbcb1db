package host

import (
	"context"
	"errors"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/appo-sh/hostbridge/internal/config"
	"github.com/appo-sh/hostbridge/internal/monitoring"
)

// Server is the reference host daemon. It accepts guest WebSocket sessions,
// answers their requests through the handler registry, and broadcasts events
// to every connected session.
type Server struct {
	cfg      *config.Config
	router   *gin.Engine
	registry *Registry
	metrics  *monitoring.Metrics
	log      *zap.Logger
	upgrader websocket.Upgrader

	sessionsMu sync.RWMutex
	sessions   map[string]*Session

	httpServer *http.Server
	flapCancel context.CancelFunc
}

// NewServer builds a daemon from config: fixtures are loaded (or defaulted),
// the builtin handlers registered, and the HTTP routes mounted.
func NewServer(cfg *config.Config, logger *zap.Logger) (*Server, error) {
	fx := DefaultFixtures()
	if cfg.Fixtures.Path != "" {
		loaded, err := LoadFixtures(cfg.Fixtures.Path)
		if err != nil {
			return nil, err
		}
		fx = loaded
		logger.Info("fixtures loaded", zap.String("path", cfg.Fixtures.Path))
	}

	registry := NewRegistry()
	RegisterBuiltin(registry, fx)

	// Each daemon carries its own Prometheus registry so multiple instances
	// can coexist in one process.
	promReg := prometheus.NewRegistry()

	s := &Server{
		cfg:      cfg,
		registry: registry,
		metrics:  monitoring.NewMetrics(promReg),
		log:      logger,
		sessions: make(map[string]*Session),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			// Development host: guests connect from arbitrary origins.
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}

	if !cfg.Logging.Development {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:    []string{"Origin", "Content-Type", "Accept"},
		MaxAge:          12 * time.Hour,
	}))
	router.GET("/health", s.handleHealth)
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(promReg, promhttp.HandlerOpts{})))
	router.GET("/ws", s.handleWS)
	s.router = router

	return s, nil
}

// Registry exposes the handler registry so embedders can add or replace
// feature handlers before serving.
func (s *Server) Registry() *Registry { return s.registry }

// Handler returns the daemon's HTTP handler, useful for mounting it into an
// existing server or an httptest one.
func (s *Server) Handler() http.Handler { return s.router }

// Run listens on the configured address and serves until ctx is canceled or
// the listener fails.
func (s *Server) Run(ctx context.Context) error {
	addr := net.JoinHostPort(s.cfg.Server.Host, s.cfg.Server.Port)
	s.httpServer = &http.Server{Addr: addr, Handler: s.router}

	if s.cfg.Events.NetworkFlapInterval > 0 {
		flapCtx, cancel := context.WithCancel(ctx)
		s.flapCancel = cancel
		go s.flapNetwork(flapCtx, s.cfg.Events.NetworkFlapInterval)
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("hostd listening", zap.String("addr", addr))
		errCh <- s.httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		return s.Shutdown()
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// Shutdown stops the listener gracefully and closes every guest session.
func (s *Server) Shutdown() error {
	if s.flapCancel != nil {
		s.flapCancel()
	}

	s.sessionsMu.Lock()
	for _, sess := range s.sessions {
		_ = sess.conn.Close()
	}
	s.sessionsMu.Unlock()

	if s.httpServer == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.httpServer.Shutdown(ctx)
}

// Broadcast sends an event frame to every connected session and returns how
// many sessions received it.
func (s *Server) Broadcast(event string, data any) int {
	s.sessionsMu.RLock()
	targets := make([]*Session, 0, len(s.sessions))
	for _, sess := range s.sessions {
		targets = append(targets, sess)
	}
	s.sessionsMu.RUnlock()

	sent := 0
	for _, sess := range targets {
		if err := sess.sendEvent(event, data); err != nil {
			s.log.Debug("event delivery failed",
				zap.String("event", event),
				zap.String("session_id", sess.ID()),
				zap.Error(err))
			continue
		}
		sent++
	}
	s.metrics.EventsBroadcast.WithLabelValues(event).Add(float64(sent))
	return sent
}

func (s *Server) handleHealth(c *gin.Context) {
	s.sessionsMu.RLock()
	count := len(s.sessions)
	s.sessionsMu.RUnlock()
	c.JSON(http.StatusOK, gin.H{
		"status":   "ok",
		"sessions": count,
		"features": s.registry.Features(),
	})
}

func (s *Server) handleWS(c *gin.Context) {
	conn, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	var limiter *rate.Limiter
	if s.cfg.RateLimit.Enabled {
		limiter = rate.NewLimiter(rate.Limit(s.cfg.RateLimit.RequestsPerSecond), s.cfg.RateLimit.Burst)
	}

	sess := newSession(conn, s.registry, limiter, s.metrics, s.log)
	s.addSession(sess)
	defer s.removeSession(sess)

	sess.run(c.Request.Context())
}

func (s *Server) addSession(sess *Session) {
	s.sessionsMu.Lock()
	s.sessions[sess.ID()] = sess
	s.sessionsMu.Unlock()
	s.metrics.SessionsActive.Inc()
	s.metrics.SessionsTotal.Inc()
}

func (s *Server) removeSession(sess *Session) {
	s.sessionsMu.Lock()
	delete(s.sessions, sess.ID())
	s.sessionsMu.Unlock()
	s.metrics.SessionsActive.Dec()
}

// flapNetwork alternates connected and disconnected network.change events on
// a fixed interval so guest subscriptions can be exercised without a real
// network transition.
func (s *Server) flapNetwork(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	connected := true
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			connected = !connected
			netType := "wifi"
			if !connected {
				netType = "none"
			}
			n := s.Broadcast("network.change", map[string]any{
				"isConnected": connected,
				"type":        netType,
			})
			s.log.Debug("network flap broadcast",
				zap.Bool("connected", connected),
				zap.Int("sessions", n))
		}
	}
}
