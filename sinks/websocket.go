package sinks

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"newswire/models/constants"
	"newswire/models/entities"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

const writeWait = 5 * time.Second

// WebSocketSink broadcasts envelope JSON to every connected subscriber.
// Subscribers that cannot keep up are disconnected instead of slowing the
// broadcast down.
type WebSocketSink struct {
	upgrader websocket.Upgrader
	port     int

	mu    sync.Mutex
	conns map[*websocket.Conn]struct{}
}

func NewWebSocket() *WebSocketSink {
	return &WebSocketSink{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		port:  viper.GetInt(constants.WebSocketPort),
		conns: map[*websocket.Conn]struct{}{},
	}
}

func (sink *WebSocketSink) Name() string {
	return "websocket"
}

func (sink *WebSocketSink) ListenAndServe() {
	mux := http.NewServeMux()
	mux.HandleFunc("/subscribe", sink.subscribe)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", sink.port),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info().Msgf("WebSocket sink listening on port %d", sink.port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("WebSocket sink server stopped")
		}
	}()
}

func (sink *WebSocketSink) subscribe(w http.ResponseWriter, r *http.Request) {
	conn, err := sink.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn().Err(err).Msg("WebSocket upgrade failed")
		return
	}

	sink.mu.Lock()
	sink.conns[conn] = struct{}{}
	sink.mu.Unlock()
	log.Debug().Msgf("WebSocket subscriber connected (%s)", conn.RemoteAddr())

	// Reader loop only exists to notice the peer going away.
	go func() {
		for {
			if _, _, errRead := conn.ReadMessage(); errRead != nil {
				sink.drop(conn)
				return
			}
		}
	}()
}

func (sink *WebSocketSink) drop(conn *websocket.Conn) {
	sink.mu.Lock()
	delete(sink.conns, conn)
	sink.mu.Unlock()
	conn.Close()
}

// Deliver fans the event out to the current subscriber set. No subscribers is
// a successful delivery; pub/sub has nothing to wait for.
func (sink *WebSocketSink) Deliver(_ context.Context, event entities.Envelope) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	sink.mu.Lock()
	conns := make([]*websocket.Conn, 0, len(sink.conns))
	for conn := range sink.conns {
		conns = append(conns, conn)
	}
	sink.mu.Unlock()

	for _, conn := range conns {
		conn.SetWriteDeadline(time.Now().Add(writeWait))
		if errWrite := conn.WriteMessage(websocket.TextMessage, payload); errWrite != nil {
			log.Warn().Err(errWrite).Msgf("WebSocket subscriber dropped (%s)", conn.RemoteAddr())
			sink.drop(conn)
		}
	}
	return nil
}
