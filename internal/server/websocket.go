package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/RishithSahu/FunSnakes/internal/protocol"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	CheckOrigin: func(r *http.Request) bool {
		// Browser clients connect from arbitrary origins; the join
		// handshake is the only gate, same as raw TCP.
		return true
	},
}

// startWebSocket serves the /ws endpoint for browser clients. Each
// WebSocket text message carries exactly one JSON object of the same
// message set spoken over TCP.
func (s *Server) startWebSocket() {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		ws, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			s.logger.Warn("websocket upgrade failed", "remote", r.RemoteAddr, "error", err)
			return
		}
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.handleSession(&wsConn{conn: ws})
		}()
	})

	s.listenerMu.Lock()
	s.httpSrv = &http.Server{Addr: s.cfg.Server.WSListen, Handler: mux}
	s.listenerMu.Unlock()
	s.logger.Info("websocket listener on", "address", s.cfg.Server.WSListen)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if err := s.httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Error("websocket server error", "error", err)
		}
	}()
}

// wsConn adapts a gorilla WebSocket connection to frameConn.
type wsConn struct {
	conn *websocket.Conn
}

func (c *wsConn) ReadFrame() (*protocol.Message, error) {
	_, data, err := c.conn.ReadMessage()
	if err != nil {
		return nil, err
	}
	var msg protocol.Message
	if err := json.Unmarshal(bytes.TrimSpace(data), &msg); err != nil {
		return nil, fmt.Errorf("%w: %v", protocol.ErrMalformed, err)
	}
	if msg.Type == "" {
		return nil, fmt.Errorf("%w: missing type", protocol.ErrMalformed)
	}
	return &msg, nil
}

func (c *wsConn) WriteRaw(frame []byte) error {
	// The WebSocket message boundary replaces the newline.
	return c.conn.WriteMessage(websocket.TextMessage, bytes.TrimSuffix(frame, []byte("\n")))
}

func (c *wsConn) Close() error {
	return c.conn.Close()
}

func (c *wsConn) RemoteAddr() string {
	return c.conn.RemoteAddr().String()
}
