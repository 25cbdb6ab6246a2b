// Package web serves the browser front end: a static page and one websocket
// session per tab, each with its own game controller.
package web

import (
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/tomz197/circles/internal/loop/config"
	"github.com/tomz197/circles/internal/loop/server"
)

// Options configures the web front end.
type Options struct {
	Page      string // HTML served at "/"; {{.SSHHost}} and {{.MaxPoints}} are substituted
	SSHHost   string // Shown on the page as the SSH alternative
	MaxPoints int    // Point-count ceiling, 0 for the default
	Logger    *log.Logger
}

// Server routes "/" and "/ws".
type Server struct {
	hub      server.GameServer
	opts     Options
	logger   *log.Logger
	page     string
	upgrader websocket.Upgrader
	mux      *http.ServeMux
	sessions sync.WaitGroup
}

// Ensure Server is an http.Handler.
var _ http.Handler = (*Server)(nil)

// NewServer creates the handler. Sessions register with hub.
func NewServer(hub server.GameServer, opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	if opts.MaxPoints <= 0 {
		opts.MaxPoints = config.DefaultMaxPoints
	}

	s := &Server{
		hub:    hub,
		opts:   opts,
		logger: opts.Logger,
		page: strings.NewReplacer(
			"{{.SSHHost}}", opts.SSHHost,
			"{{.MaxPoints}}", strconv.Itoa(opts.MaxPoints),
		).Replace(opts.Page),
		upgrader: websocket.Upgrader{
			// The page may be served from another host behind a proxy.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		mux: http.NewServeMux(),
	}
	s.mux.HandleFunc("GET /{$}", s.handleIndex)
	s.mux.HandleFunc("GET /ws", s.handleWS)
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// Wait blocks until every websocket session has ended.
func (s *Server) Wait() {
	s.sessions.Wait()
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	io.WriteString(w, s.page)
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already replied with an HTTP error.
		s.logger.Warn("websocket upgrade failed", "remote", r.RemoteAddr, "err", err)
		return
	}

	s.sessions.Add(1)
	defer s.sessions.Done()

	sess := newSession(conn, s.hub, sessionOptions{
		username:  "web:" + r.RemoteAddr,
		maxPoints: s.opts.MaxPoints,
		logger:    s.logger,
	})
	sess.run()
}
