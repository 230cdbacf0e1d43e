// Package server runs the authoritative game server: it accepts TCP and
// WebSocket connections, feeds their frames into per-player sessions,
// and drives the world simulation from a single tick goroutine.
package server

import (
	"crypto/tls"
	"errors"
	"fmt"
	"math/rand"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/RishithSahu/FunSnakes/internal/config"
	"github.com/RishithSahu/FunSnakes/internal/game"
	"github.com/RishithSahu/FunSnakes/internal/session"
	"github.com/RishithSahu/FunSnakes/internal/storage"
)

// command is a world mutation staged by a connection goroutine and
// applied in order by the driver at the start of the next tick. The
// driver is the only writer of world state; this queue is how joins and
// leaves reach it.
type command func(now time.Time)

// Server owns the listeners, the session registry and the simulation.
type Server struct {
	cfg      config.Config
	logger   *log.Logger
	world    *game.World
	sessions *session.Registry
	ids      *session.Identities
	store    *storage.Store

	commandsMu sync.Mutex
	commands   []command

	connsMu sync.Mutex
	conns   map[frameConn]struct{}
	closed  bool

	listenerMu sync.Mutex
	listener   net.Listener
	httpSrv    *http.Server

	stop     chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// New assembles a server. The identity registry is warmed from the
// database when one is configured; without it, identities live only for
// the process lifetime.
func New(cfg config.Config, logger *log.Logger) (*Server, error) {
	var store *storage.Store
	if cfg.Server.DB != "" {
		var err error
		store, err = storage.Open(cfg.Server.DB)
		if err != nil {
			logger.Warn("could not open identity database", "error", err)
			store = nil
		}
	}

	ids, err := session.NewIdentities(store)
	if err != nil {
		if store != nil {
			store.Close()
		}
		return nil, fmt.Errorf("server: load identities: %w", err)
	}

	return &Server{
		cfg:      cfg,
		logger:   logger,
		world:    game.NewWorld(cfg.World.Params(), rand.New(rand.NewSource(time.Now().UnixNano()))),
		sessions: session.NewRegistry(),
		ids:      ids,
		store:    store,
		conns:    make(map[frameConn]struct{}),
		stop:     make(chan struct{}),
	}, nil
}

// ListenAndServe starts the listeners and the driver, then blocks
// accepting connections until Shutdown.
func (s *Server) ListenAndServe() error {
	ln, err := net.Listen("tcp", s.cfg.Server.Listen)
	if err != nil {
		return fmt.Errorf("server: listen %s: %w", s.cfg.Server.Listen, err)
	}
	if s.cfg.TLS.Enabled {
		tlsCfg, err := s.tlsConfig()
		if err != nil {
			ln.Close()
			return err
		}
		ln = tls.NewListener(ln, tlsCfg)
		s.logger.Info("TLS enabled", "cert", s.cfg.TLS.Cert)
	}
	s.listenerMu.Lock()
	s.listener = ln
	s.listenerMu.Unlock()
	s.logger.Info("game server listening", "address", s.cfg.Server.Listen, "max_players", s.cfg.Server.MaxPlayers)

	if s.cfg.Server.WSListen != "" {
		s.startWebSocket()
	}

	s.wg.Add(1)
	go s.runDriver()

	for {
		conn, err := ln.Accept()
		if err != nil {
			select {
			case <-s.stop:
				s.wg.Wait()
				return nil
			default:
			}
			if errors.Is(err, net.ErrClosed) {
				s.wg.Wait()
				return nil
			}
			s.logger.Error("accept failed", "error", err)
			continue
		}
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.handleSession(newTCPConn(conn))
		}()
	}
}

// Shutdown closes the listeners, every live session and the driver.
// Connection closure is immediate; there is no per-connection drain.
func (s *Server) Shutdown() {
	s.stopOnce.Do(func() {
		close(s.stop)
		s.listenerMu.Lock()
		if s.listener != nil {
			s.listener.Close()
		}
		if s.httpSrv != nil {
			s.httpSrv.Close()
		}
		s.listenerMu.Unlock()

		// Close every accepted connection, registered or not. Closing
		// the http server does not reach upgraded WebSocket sockets,
		// and a connection still waiting for its join frame is in no
		// registry; this set is what unblocks both.
		s.connsMu.Lock()
		s.closed = true
		for c := range s.conns {
			c.Close()
		}
		s.connsMu.Unlock()

		s.sessions.Each(func(sess *session.Session) {
			sess.Close()
		})
		if s.store != nil {
			s.store.Close()
		}
		s.logger.Info("server stopped")
	})
}

// tlsConfig loads the server certificate. Nothing about the peer is
// verified; the certificate may be self-signed. Confidentiality only.
func (s *Server) tlsConfig() (*tls.Config, error) {
	cert, err := tls.LoadX509KeyPair(s.cfg.TLS.Cert, s.cfg.TLS.Key)
	if err != nil {
		return nil, fmt.Errorf("server: load TLS key pair: %w", err)
	}
	return &tls.Config{
		Certificates: []tls.Certificate{cert},
		MinVersion:   tls.VersionTLS12,
	}, nil
}

// trackConn records an accepted connection until its handler returns.
// Shutdown closes the tracked set, which is the only way to unblock a
// handler still waiting for its join frame.
func (s *Server) trackConn(c frameConn) bool {
	s.connsMu.Lock()
	defer s.connsMu.Unlock()
	if s.closed {
		return false
	}
	s.conns[c] = struct{}{}
	return true
}

func (s *Server) untrackConn(c frameConn) {
	s.connsMu.Lock()
	delete(s.conns, c)
	s.connsMu.Unlock()
}

// enqueue stages a world mutation for the next tick.
func (s *Server) enqueue(cmd command) {
	s.commandsMu.Lock()
	s.commands = append(s.commands, cmd)
	s.commandsMu.Unlock()
}

func (s *Server) drainCommands(now time.Time) {
	s.commandsMu.Lock()
	cmds := s.commands
	s.commands = nil
	s.commandsMu.Unlock()

	for _, cmd := range cmds {
		cmd(now)
	}
}

// Addr returns the TCP listener address, useful when listening on :0.
// Nil until ListenAndServe has bound the port.
func (s *Server) Addr() net.Addr {
	s.listenerMu.Lock()
	defer s.listenerMu.Unlock()
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}
