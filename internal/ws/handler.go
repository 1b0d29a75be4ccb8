package ws

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const writeTimeout = 3 * time.Second

// Arena is the part of the arena a websocket session needs.
type Arena interface {
	Join(ctx context.Context, name string, outbox chan string) (int, error)
	Dispatch(playerID int, line string)
	Leave(playerID int)
}

// Handler upgrades the request and plays the line protocol over text frames:
// one frame per outbound line, and every inbound frame is split into lines.
// An optional ?name= sets the display name.
func Handler(a Arena, outboxSize int, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			// In dev ONLY, you can loosen origin checks:
			// OriginPatterns: []string{"http://localhost:*", "http://127.0.0.1:*"},
		})
		if err != nil {
			log.Debug("websocket accept failed", zap.Error(err))
			return
		}
		defer conn.CloseNow()

		log := log.With(zap.String("session", uuid.NewString()), zap.String("remote", r.RemoteAddr))

		outbox := make(chan string, outboxSize)
		id, err := a.Join(r.Context(), r.URL.Query().Get("name"), outbox)
		if err != nil {
			log.Warn("join refused", zap.Error(err))
			conn.Close(websocket.StatusTryAgainLater, "arena unavailable")
			return
		}
		log = log.With(zap.Int("player_id", id))
		log.Info("websocket client connected")

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		// Writer goroutine. It runs until the arena closes the outbox, which
		// happens on Leave or on arena shutdown.
		writerDone := make(chan struct{})
		go func() {
			defer close(writerDone)
			for msg := range outbox {
				if ctx.Err() != nil {
					continue
				}
				for _, line := range outboundLines(msg) {
					wctx, wcancel := context.WithTimeout(ctx, writeTimeout)
					err := conn.Write(wctx, websocket.MessageText, []byte(line))
					wcancel()
					if err != nil {
						log.Debug("write failed", zap.Error(err))
						cancel()
						break
					}
				}
			}
			conn.Close(websocket.StatusGoingAway, "bye")
		}()

		// Reader loop
		for {
			_, data, err := conn.Read(ctx)
			if err != nil {
				switch websocket.CloseStatus(err) {
				case websocket.StatusNormalClosure, websocket.StatusGoingAway:
				default:
					log.Debug("read failed", zap.Error(err))
				}
				break
			}
			for _, line := range inboundLines(string(data)) {
				a.Dispatch(id, line)
			}
		}

		a.Leave(id)
		<-writerDone
		log.Info("websocket client disconnected")
	}
}

func outboundLines(msg string) []string {
	var lines []string
	for _, line := range strings.Split(msg, "\n") {
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

func inboundLines(frame string) []string {
	frame = strings.TrimRight(frame, "\r\n")
	lines := strings.Split(frame, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}
