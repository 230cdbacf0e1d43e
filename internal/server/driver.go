package server

import (
	"time"

	"github.com/RishithSahu/FunSnakes/internal/game"
	"github.com/RishithSahu/FunSnakes/internal/protocol"
	"github.com/RishithSahu/FunSnakes/internal/session"
)

// runDriver is the simulation goroutine: the only writer of world
// state. Each pass applies staged joins/leaves, drains every input
// queue, ticks the world, and every Kth tick broadcasts a snapshot.
// Pacing sleeps max(0, period - elapsed).
func (s *Server) runDriver() {
	defer s.wg.Done()

	period := s.cfg.World.TickPeriod()
	sinceBroadcast := 0

	for {
		select {
		case <-s.stop:
			return
		default:
		}

		start := time.Now()

		s.drainCommands(start)
		s.applyInputs()
		result := s.world.Tick(start)
		s.reportTick(result)

		sinceBroadcast++
		if sinceBroadcast >= s.cfg.World.BroadcastEvery {
			sinceBroadcast = 0
			s.broadcastState()
		}

		if wait := period - time.Since(start); wait > 0 {
			select {
			case <-s.stop:
				return
			case <-time.After(wait):
			}
		}
	}
}

// applyInputs drains every player's queue in arrival order before
// movement, so all inputs queued during the last tick window take
// effect this tick.
func (s *Server) applyInputs() {
	s.sessions.Each(func(sess *session.Session) {
		for _, ev := range sess.Queue().Drain() {
			s.world.SetDirection(sess.PlayerID, ev.DX, ev.DY)
		}
	})
}

// reportTick logs deaths and respawns and records final scores on the
// leaderboard.
func (s *Server) reportTick(result game.TickResult) {
	for _, d := range result.Deaths {
		victim := s.world.Snake(d.VictimID)
		s.logger.Info("snake died", "player_id", d.VictimID, "killer_id", d.KillerID, "score", d.Score)
		if victim != nil && s.store != nil {
			if err := s.store.RecordScore(victim.Name, d.Score); err != nil {
				s.logger.Warn("score not recorded", "name", victim.Name, "error", err)
			}
		}
	}
	for _, id := range result.Respawned {
		s.logger.Info("snake respawned", "player_id", id)
	}
}

// broadcastState builds the snapshot once and sends each connection a
// copy of the envelope stamped with its own player id. No per-recipient
// filtering happens: every client sees the whole world.
func (s *Server) broadcastState() {
	shared := s.world.Snapshot()
	s.sessions.Each(func(sess *session.Session) {
		state := *shared
		state.PlayerID = sess.PlayerID
		frame, err := protocol.Encode(protocol.StateUpdate(&state))
		if err != nil {
			s.logger.Error("state encode failed", "error", err)
			return
		}
		sess.Send(frame)
	})
}

// broadcastChat relays a chat line to every connection, tagged with the
// sender. Called from connection goroutines; it only touches the
// session registry, never the world.
func (s *Server) broadcastChat(from *session.Session, text string) {
	frame, err := protocol.Encode(protocol.ChatBroadcast(from.PlayerID, from.Name, text))
	if err != nil {
		return
	}
	s.logger.Info("chat", "name", from.Name, "text", text)
	s.sessions.Each(func(sess *session.Session) {
		sess.Send(frame)
	})
}
