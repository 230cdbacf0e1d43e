package server

import (
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/RishithSahu/FunSnakes/internal/protocol"
	"github.com/RishithSahu/FunSnakes/internal/session"
)

// frameConn is one client connection regardless of transport. TCP and
// WebSocket clients speak the same message set; the handler below never
// knows which it has.
type frameConn interface {
	// ReadFrame blocks for the next message. Decode failures wrap
	// protocol.ErrMalformed; everything else is a transport error.
	ReadFrame() (*protocol.Message, error)

	// WriteRaw sends one already-encoded frame in a single write.
	WriteRaw(frame []byte) error

	Close() error
	RemoteAddr() string
}

// tcpConn adapts a net.Conn (plain or TLS) to frameConn.
type tcpConn struct {
	conn   net.Conn
	reader *protocol.Reader
}

func newTCPConn(conn net.Conn) *tcpConn {
	return &tcpConn{conn: conn, reader: protocol.NewReader(conn)}
}

func (c *tcpConn) ReadFrame() (*protocol.Message, error) {
	return c.reader.Next()
}

func (c *tcpConn) WriteRaw(frame []byte) error {
	_, err := c.conn.Write(frame)
	return err
}

func (c *tcpConn) Close() error {
	return c.conn.Close()
}

func (c *tcpConn) RemoteAddr() string {
	return c.conn.RemoteAddr().String()
}

// handleSession runs one connection from join handshake to cleanup.
// It owns the receive loop; a separate write pump drains the session's
// outbound channel so slow readers never block the driver.
func (s *Server) handleSession(conn frameConn) {
	if !s.trackConn(conn) {
		conn.Close()
		return
	}
	defer s.untrackConn(conn)

	remote := conn.RemoteAddr()

	join, err := s.readJoin(conn)
	if err != nil {
		s.logger.Warn("invalid join", "remote", remote, "error", err)
		conn.Close()
		return
	}

	// Cheap pre-check; TryRegister below is the authoritative gate.
	if s.sessions.Len() >= s.cfg.Server.MaxPlayers {
		s.rejectFull(conn, remote)
		return
	}

	name := join.Name
	if name == "" {
		name = fmt.Sprintf("Player%d", s.sessions.Len()+1)
	}
	color := join.Color
	if color == "" {
		color = "#ff0000"
	}

	prevID, known := s.ids.Lookup(name)
	playerID, err := s.ids.Assign(name, s.sessions.Active)
	if err != nil {
		s.logger.Warn("identity not persisted", "name", name, "error", err)
	}

	sess := session.NewSession(playerID, name, color, 64)

	// Stage the spawn for the driver; the world belongs to it alone.
	if join.Reconnect && join.LastScore > 0 {
		score, length := join.LastScore, join.LastLength
		s.enqueue(func(now time.Time) {
			s.world.SpawnWithProgress(playerID, name, color, score, length, now)
		})
		s.logger.Info("player reconnected", "name", name, "player_id", playerID,
			"score", score, "length", length, "remote", remote)
	} else {
		s.enqueue(func(now time.Time) {
			s.world.Spawn(playerID, name, color, now)
		})
		s.logger.Info("player joined", "name", name, "player_id", playerID,
			"resumed", known && prevID == playerID, "remote", remote)
	}

	// Queue the ack before registering so it precedes any broadcast.
	ack, err := protocol.Encode(protocol.JoinAck(playerID))
	if err != nil {
		conn.Close()
		return
	}
	sess.Send(ack)

	// The atomic admission: check and insert under one lock, so two
	// joins racing at capacity cannot both get in. The staged spawn is
	// withdrawn on rejection.
	if !s.sessions.TryRegister(sess, s.cfg.Server.MaxPlayers) {
		s.enqueue(func(_ time.Time) {
			s.world.Remove(playerID)
		})
		s.rejectFull(conn, remote)
		return
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.writePump(sess, conn)
	}()

	s.receiveLoop(sess, conn)

	// Disconnection is immediate removal, never the respawn path. The
	// removal is staged before unregistering so a reconnect's spawn
	// always lands after it.
	s.enqueue(func(now time.Time) {
		if sn := s.world.Snake(playerID); sn != nil && s.store != nil {
			if err := s.store.RecordScore(sn.Name, sn.Score); err != nil {
				s.logger.Warn("score not recorded", "name", sn.Name, "error", err)
			}
		}
		s.world.Remove(playerID)
	})
	s.sessions.Unregister(sess)
	sess.Close()
	s.logger.Info("player disconnected", "name", name, "player_id", playerID, "remote", remote)
}

// readJoin expects the first frame of a connection to be a join. An
// unparseable or non-join first frame closes the connection.
func (s *Server) readJoin(conn frameConn) (*protocol.Message, error) {
	msg, err := conn.ReadFrame()
	if err != nil {
		return nil, err
	}
	if msg.Type != protocol.TypeJoin {
		return nil, fmt.Errorf("expected join, got %q", msg.Type)
	}
	return msg, nil
}

// rejectFull replies with an error frame before closing, so the client
// can tell a full server from a network failure.
func (s *Server) rejectFull(conn frameConn, remote string) {
	if frame, err := protocol.Encode(protocol.ErrorMessage("Server is full")); err == nil {
		conn.WriteRaw(frame)
	}
	conn.Close()
	s.logger.Info("join rejected, server full", "remote", remote)
}

// receiveLoop decodes frames until the connection dies. A malformed
// frame is discarded; only transport errors end the loop. Direction
// input goes to the player's queue for the driver; chat bypasses the
// queue entirely.
func (s *Server) receiveLoop(sess *session.Session, conn frameConn) {
	for {
		select {
		case <-sess.Done():
			return
		default:
		}

		msg, err := conn.ReadFrame()
		if err != nil {
			if errors.Is(err, protocol.ErrMalformed) {
				s.logger.Debug("malformed frame discarded", "player_id", sess.PlayerID, "error", err)
				continue
			}
			return
		}

		switch msg.Type {
		case protocol.TypeInput:
			sess.Queue().Push(session.InputEvent{DX: msg.DX, DY: msg.DY})
		case protocol.TypeChat:
			s.broadcastChat(sess, msg.Text)
		default:
			// Unknown or repeated join frames are discarded.
		}
	}
}

// writePump sends queued frames until the session closes. A write error
// closes the session, which in turn unblocks the receive loop by
// closing the connection.
func (s *Server) writePump(sess *session.Session, conn frameConn) {
	defer conn.Close()
	for {
		select {
		case <-sess.Done():
			return
		case frame := <-sess.Outbound():
			if err := conn.WriteRaw(frame); err != nil {
				sess.Close()
				return
			}
		}
	}
}
