// Package tcpserver exposes the arena over newline-delimited TCP.
package tcpserver

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// Arena is the part of the arena a connection needs.
type Arena interface {
	Join(ctx context.Context, name string, outbox chan string) (int, error)
	Dispatch(playerID int, line string)
	Leave(playerID int)
}

type Server struct {
	arena      Arena
	outboxSize int
	log        *zap.Logger

	mu       sync.Mutex
	listener net.Listener
	conns    map[net.Conn]struct{}
	closed   bool
	wg       sync.WaitGroup
}

func New(arena Arena, outboxSize int, log *zap.Logger) *Server {
	return &Server{
		arena:      arena,
		outboxSize: outboxSize,
		log:        log,
		conns:      make(map[net.Conn]struct{}),
	}
}

// ListenAndServe listens on addr and serves until ctx ends or Close is called.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln, one worker goroutine per connection.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		ln.Close()
		return net.ErrClosed
	}
	s.listener = ln
	s.mu.Unlock()

	s.log.Info("listening", zap.String("addr", ln.Addr().String()))

	stop := context.AfterFunc(ctx, func() { s.Close() })
	defer stop()

	for {
		conn, err := ln.Accept()
		if err != nil {
			if s.isClosed() {
				s.wg.Wait()
				return nil
			}
			var ne net.Error
			if errors.As(err, &ne) && ne.Timeout() {
				s.log.Warn("accept failed", zap.Error(err))
				continue
			}
			return fmt.Errorf("accept: %w", err)
		}

		if !s.track(conn) {
			conn.Close()
			continue
		}
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			defer s.untrack(conn)
			s.handleConn(ctx, conn)
		}()
	}
}

// Close stops accepting and closes every open connection.
func (s *Server) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true

	var err error
	if s.listener != nil {
		err = multierr.Append(err, s.listener.Close())
	}
	for conn := range s.conns {
		err = multierr.Append(err, conn.Close())
	}
	return err
}

func (s *Server) handleConn(ctx context.Context, conn net.Conn) {
	defer conn.Close()
	log := s.log.With(zap.String("session", uuid.NewString()), zap.Stringer("remote", conn.RemoteAddr()))

	outbox := make(chan string, s.outboxSize)
	id, err := s.arena.Join(ctx, "", outbox)
	if err != nil {
		log.Warn("join refused", zap.Error(err))
		return
	}
	log = log.With(zap.Int("player_id", id))
	log.Info("client connected")

	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		w := bufio.NewWriter(conn)
		for msg := range outbox {
			if _, err := w.WriteString(msg); err != nil {
				log.Debug("write failed", zap.Error(err))
				conn.Close()
				drainOutbox(outbox)
				return
			}
			// Flush once the queue is empty so bursts go out together.
			if len(outbox) == 0 {
				if err := w.Flush(); err != nil {
					log.Debug("flush failed", zap.Error(err))
					conn.Close()
					drainOutbox(outbox)
					return
				}
			}
		}
	}()

	scanner := bufio.NewScanner(conn)
	for scanner.Scan() {
		s.arena.Dispatch(id, scanner.Text())
	}
	if err := scanner.Err(); err != nil && !errors.Is(err, net.ErrClosed) {
		log.Debug("read failed", zap.Error(err))
	}

	s.arena.Leave(id)
	conn.Close()
	select {
	case <-writerDone:
	case <-ctx.Done():
	}
	log.Info("client disconnected")
}

// drainOutbox discards queued text until the arena closes the outbox, so the
// hub never blocks on a dead connection.
func drainOutbox(outbox chan string) {
	for range outbox {
	}
}

func (s *Server) track(conn net.Conn) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	s.conns[conn] = struct{}{}
	return true
}

func (s *Server) untrack(conn net.Conn) {
	s.mu.Lock()
	delete(s.conns, conn)
	s.mu.Unlock()
}

func (s *Server) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}
