// Package server seats websocket bots at tables and runs games between them.
//
// Bots connect to /ws and introduce themselves with a hello message. Once
// enough bots are waiting, a game starts with a freshly loaded revolver and a
// random seating order. Each turn the acting bot receives an action_request
// and must answer within the decision timeout or it folds.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/lox/revolver/internal/protocol"
)

// Server represents the WebSocket server
type Server struct {
	config   Config
	logger   *log.Logger
	clock    quartz.Clock
	upgrader websocket.Upgrader
	registry *prometheus.Registry
	metrics  *Metrics
	pool     *pool

	ctx    context.Context
	cancel context.CancelFunc
	games  sync.WaitGroup

	mu   sync.Mutex
	bots map[string]*Bot

	seedBase  int64
	started   atomic.Int64
	finished  atomic.Int64
	done      chan struct{}
	closeDone sync.Once
}

// Option configures a Server.
type Option func(*Server)

// WithClock sets the clock used for decision timeouts.
func WithClock(clock quartz.Clock) Option {
	return func(s *Server) { s.clock = clock }
}

// WithRegistry registers metrics with reg instead of a private registry.
func WithRegistry(reg *prometheus.Registry) Option {
	return func(s *Server) { s.registry = reg }
}

// New creates a server. Call Handler or ListenAndServe to accept bots.
func New(config Config, logger *log.Logger, opts ...Option) (*Server, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid server config: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &Server{
		config: config,
		logger: logger.WithPrefix("server"),
		clock:  quartz.NewReal(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		ctx:      ctx,
		cancel:   cancel,
		bots:     make(map[string]*Bot),
		seedBase: config.Seed,
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.registry == nil {
		s.registry = prometheus.NewRegistry()
		s.registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}
	if s.seedBase == 0 {
		s.seedBase = time.Now().UnixNano()
	}

	s.pool = newPool(config.Seats, s.startGame)
	s.metrics = NewMetrics(s.registry, func() float64 { return float64(s.pool.size()) })
	return s, nil
}

// Handler returns the HTTP handler serving /ws, /health and /metrics.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("/health", s.handleHealth)
	mux.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
	return mux
}

// ListenAndServe listens on the configured address and serves until ctx is
// cancelled or MaxGames games have finished.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.config.Addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", s.config.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is cancelled or MaxGames games
// have finished.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()
	s.logger.Info("Server listening", "addr", ln.Addr().String(), "seats", s.config.Seats)

	select {
	case err := <-errCh:
		s.Close()
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	case <-s.done:
		s.logger.Info("Game limit reached", "games", s.finished.Load())
	}

	s.Close()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	return nil
}

// Done is closed once MaxGames games have finished.
func (s *Server) Done() <-chan struct{} {
	return s.done
}

// Close stops matchmaking, aborts running games and disconnects every bot.
func (s *Server) Close() {
	s.pool.close()
	s.cancel()

	s.mu.Lock()
	for _, b := range s.bots {
		b.Close()
	}
	s.mu.Unlock()

	s.games.Wait()
}

// Metrics exposes the server's collectors.
func (s *Server) Metrics() *Metrics {
	return s.metrics
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = fmt.Fprintf(w, "OK")
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("Failed to upgrade connection", "error", err)
		return
	}

	hello, err := readHello(conn)
	if err != nil {
		s.logger.Warn("Rejecting connection", "remote", r.RemoteAddr, "error", err)
		frame, _ := protocol.Marshal(protocol.TypeError, protocol.Error{Code: protocol.CodeBadHello, Message: err.Error()})
		_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
		_ = conn.WriteMessage(websocket.TextMessage, frame)
		_ = conn.Close()
		return
	}

	bot := s.register(hello.Name, conn)
	go bot.writePump()
	go func() {
		bot.readPump()
		s.unregister(bot)
	}()

	if err := bot.Send(protocol.TypeWelcome, protocol.Welcome{BotID: bot.ID, Seats: s.config.Seats}); err != nil {
		bot.Close()
		return
	}
	s.pool.add(bot)
}

func readHello(conn *websocket.Conn) (protocol.Hello, error) {
	var hello protocol.Hello

	_ = conn.SetReadDeadline(time.Now().Add(helloWait))
	_, frame, err := conn.ReadMessage()
	if err != nil {
		return hello, fmt.Errorf("reading hello: %w", err)
	}
	msg, err := protocol.Unmarshal(frame)
	if err != nil {
		return hello, err
	}
	if err := msg.Decode(protocol.TypeHello, &hello); err != nil {
		return hello, err
	}
	if hello.Name == "" {
		return hello, fmt.Errorf("hello must include a name")
	}
	return hello, nil
}

// register records a bot under a unique ID derived from its name.
func (s *Server) register(name string, conn *websocket.Conn) *Bot {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := name
	for n := 2; s.bots[id] != nil; n++ {
		id = fmt.Sprintf("%s#%d", name, n)
	}
	bot := newBot(id, conn, s.logger)
	s.bots[id] = bot
	s.metrics.Bots.Inc()
	s.logger.Info("Bot connected", "bot", id, "total", len(s.bots))
	return bot
}

func (s *Server) unregister(b *Bot) {
	s.pool.remove(b)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.bots[b.ID] == b {
		delete(s.bots, b.ID)
		s.metrics.Bots.Dec()
		s.logger.Info("Bot disconnected", "bot", b.ID, "total", len(s.bots))
	}
}
