package network

import (
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"derby/arena"
	"derby/protocol"
)

const (
	readLimit     = 1 << 20 // 1MB
	readDeadline  = 60 * time.Second
	writeDeadline = 10 * time.Second
	pingEvery     = 25 * time.Second
)

var upgrader = websocket.Upgrader{
	// For dev, allow all origins. Lock this down in prod.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Server bridges websocket clients to the arena: reads decode into commands
// for the inbox, the arena broadcasts snapshots back through the conn.
type Server struct {
	arena *arena.Arena
}

func NewServer(a *arena.Arena) *Server {
	return &Server{arena: a}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWS)
	return mux
}

// wsConn adapts a websocket connection to arena.Conn. Send runs on the arena
// goroutine and the close path on the reader's, so writes take a mutex.
type wsConn struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (c *wsConn) Send(b []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeDeadline))
	return c.conn.WriteMessage(websocket.TextMessage, b)
}

func (c *wsConn) Close() error {
	return c.conn.Close()
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println("upgrade:", err)
		return
	}

	// Basic timeouts + pong handling (keeps connections healthy)
	conn.SetReadLimit(readLimit)
	_ = conn.SetReadDeadline(time.Now().Add(readDeadline))
	conn.SetPongHandler(func(string) error {
		_ = conn.SetReadDeadline(time.Now().Add(readDeadline))
		return nil
	})

	wc := &wsConn{conn: conn}
	reply := make(chan arena.WatchResult, 1)
	s.arena.Inbox <- arena.Watch{Conn: wc, Reply: reply}
	res := <-reply

	welcome := protocol.Welcome{
		ClientID:   res.ClientID,
		TickMillis: int(s.arena.TickEvery() / time.Millisecond),
	}
	if b, err := protocol.Encode(protocol.MsgWelcome, welcome); err == nil {
		_ = wc.Send(b)
	}

	// Ping loop; WriteControl is safe alongside the arena's data writes.
	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(pingEvery)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				deadline := time.Now().Add(writeDeadline)
				if err := conn.WriteControl(websocket.PingMessage, nil, deadline); err != nil {
					return
				}
			case <-done:
				return
			}
		}
	}()

	defer func() {
		close(done)
		s.arena.Inbox <- arena.Leave{ClientID: res.ClientID}
	}()

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			return
		}
		env, err := protocol.DecodeEnvelope(msg)
		if err != nil {
			log.Printf("network: bad envelope from %s: %v", res.ClientID, err)
			continue
		}
		switch env.T {
		case protocol.MsgHello:
			// Nothing to negotiate yet; the welcome already went out.
		case protocol.MsgCommand:
			cmd, err := protocol.DecodePayload[protocol.Command](env)
			if err != nil {
				log.Printf("network: bad command from %s: %v", res.ClientID, err)
				continue
			}
			s.arena.Inbox <- arena.Command{Verb: cmd.Verb}
		default:
			log.Printf("network: unexpected message type %q from %s", env.T, res.ClientID)
		}
	}
}
