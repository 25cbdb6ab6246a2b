package web

import (
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/tomz197/circles/internal/game"
	"github.com/tomz197/circles/internal/loop/config"
	"github.com/tomz197/circles/internal/loop/server"
	"github.com/tomz197/circles/internal/protocol"
	"github.com/tomz197/circles/internal/sched"
)

type sessionOptions struct {
	username  string
	maxPoints int
	logger    *log.Logger
}

// session is one websocket connection. A reader goroutine feeds decoded
// frames into inbox; everything else, including every write to conn, happens
// on the goroutine running run.
type session struct {
	conn    *websocket.Conn
	hub     server.GameServer
	client  *server.ClientHandle
	sched   *sched.Scheduler
	game    *game.Controller
	logger  *log.Logger
	inbox   chan protocol.Envelope
	readErr chan error

	notices  []protocol.Notice
	reported uint64 // Last round whose outcome went to the hub
}

func newSession(conn *websocket.Conn, hub server.GameServer, opts sessionOptions) *session {
	client := hub.RegisterClient(opts.username)
	s := &session{
		conn:    conn,
		hub:     hub,
		client:  client,
		sched:   sched.New(nil),
		logger:  opts.logger.With("session", client.ID, "remote", conn.RemoteAddr().String()),
		inbox:   make(chan protocol.Envelope, config.WSInboxSize),
		readErr: make(chan error, 1),
	}
	s.game = game.NewController(s.sched, game.Options{
		MaxPoints: opts.maxPoints,
		Notifier:  game.Notifiers(game.LogNotifier(s.logger), game.NotifierFunc(s.queueNotice)),
	})
	return s
}

func (s *session) run() {
	defer func() {
		s.game.Close()
		s.hub.UnregisterClient(s.client.ID)
		s.conn.Close()
	}()

	s.conn.SetReadLimit(config.WSReadLimit)
	_ = s.conn.SetReadDeadline(time.Now().Add(config.WSPongWait))
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(config.WSPongWait))
	})

	quit := make(chan struct{})
	defer close(quit)
	go s.readLoop(quit)

	s.logger.Info("web session started")

	hello := protocol.Hello{V: protocol.Version, MaxPoints: s.game.MaxPoints()}
	if err := s.send(protocol.MsgHello, hello); err != nil {
		s.logger.Debug("hello failed", "err", err)
		return
	}
	if err := s.flush(); err != nil {
		return
	}

	ping := time.NewTicker(config.WSPingInterval)
	defer ping.Stop()
	timer := time.NewTimer(0)
	defer timer.Stop()

	for {
		s.armTimer(timer)
		dirty := false

		select {
		case env := <-s.inbox:
			s.dispatch(env)
			dirty = true

		case <-timer.C:
			dirty = s.sched.Poll() > 0

		case err := <-s.readErr:
			s.logger.Info("web session ended", "reason", err)
			return

		case ev, ok := <-s.client.EventsCh:
			if !ok {
				return
			}
			if ev.Type == server.EventServerShutdown {
				_ = s.send(protocol.MsgShutdown, protocol.Shutdown{})
				_ = s.conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
					time.Now().Add(config.WSWriteWait))
				return
			}

		case <-ping.C:
			_ = s.conn.SetWriteDeadline(time.Now().Add(config.WSWriteWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				s.logger.Debug("ping failed", "err", err)
				return
			}
		}

		if dirty {
			if err := s.flush(); err != nil {
				s.logger.Debug("write failed", "err", err)
				return
			}
		}
	}
}

// readLoop decodes frames until the connection fails. Malformed frames are dropped.
func (s *session) readLoop(quit <-chan struct{}) {
	for {
		_, msg, err := s.conn.ReadMessage()
		if err != nil {
			s.readErr <- err
			return
		}
		env, err := protocol.DecodeEnvelope(msg)
		if err != nil {
			s.logger.Debug("dropping malformed frame", "err", err)
			continue
		}
		select {
		case s.inbox <- env:
		case <-quit:
			return
		}
	}
}

// armTimer points timer at the scheduler's next due timer, or stops it.
func (s *session) armTimer(timer *time.Timer) {
	due, ok := s.sched.NextDue()
	if !ok {
		timer.Stop()
		return
	}
	timer.Reset(max(time.Until(due), 0))
}

// dispatch applies one client message to the controller.
func (s *session) dispatch(env protocol.Envelope) {
	switch env.T {
	case protocol.MsgPoints:
		p, err := protocol.DecodePayload[protocol.Points](env)
		if err != nil {
			s.logger.Debug("bad points payload", "err", err)
			return
		}
		if err := s.game.Configure(p.Text); err != nil {
			s.logger.Debug("points rejected", "text", p.Text, "err", err)
		}

	case protocol.MsgStart:
		if err := s.game.Start(); err != nil {
			s.logger.Debug("start rejected", "err", err)
			return
		}
		s.logger.Info("round started", "round", s.game.Generation(), "points", s.game.RoundSize())

	case protocol.MsgClick:
		c, err := protocol.DecodePayload[protocol.Click](env)
		if err != nil {
			s.logger.Debug("bad click payload", "err", err)
			return
		}
		s.game.Click(c.ID)
		s.reportOutcome()

	default:
		s.logger.Debug("ignoring unknown message", "type", env.T)
	}
}

// reportOutcome tells the hub about a round that just ended.
func (s *session) reportOutcome() {
	outcome := s.game.Outcome()
	gen := s.game.Generation()
	if !outcome.Terminal() || gen == s.reported {
		return
	}
	s.reported = gen
	s.hub.RecordOutcome(s.client.ID, server.RoundResult{
		Outcome: outcome,
		Points:  s.game.RoundSize(),
		Elapsed: s.game.Elapsed(),
	})
	s.logger.Info("round finished", "round", gen, "outcome", outcome, "elapsed", s.game.Elapsed())
}

func (s *session) queueNotice(ev game.Event) {
	s.notices = append(s.notices, protocol.NoticeFromEvent(ev))
}

// flush sends queued notices followed by the current state.
func (s *session) flush() error {
	for _, n := range s.notices {
		if err := s.send(protocol.MsgNotice, n); err != nil {
			return err
		}
	}
	s.notices = s.notices[:0]
	return s.send(protocol.MsgState, s.game.View())
}

func (s *session) send(t string, payload any) error {
	b, err := protocol.Encode(t, payload)
	if err != nil {
		return err
	}
	_ = s.conn.SetWriteDeadline(time.Now().Add(config.WSWriteWait))
	return s.conn.WriteMessage(websocket.TextMessage, b)
}
