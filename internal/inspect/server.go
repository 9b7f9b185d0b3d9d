// Package inspect serves the world query surface over a websocket. Every
// query runs on the loop that owns the world: the server hands it a
// closure through Calls and waits for the answer.
package inspect

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/samdwyer/burrow/internal/chunk"
	"github.com/samdwyer/burrow/internal/geom"
	"github.com/samdwyer/burrow/internal/space"
)

// World is the query surface the inspector reads.
type World interface {
	ID() string
	Counter() int
	ChunkCount() int
	BuilderCount() int
	ContainingSpace(p geom.IntVector2) *space.Space
	ContainingChunk(p geom.IntVector2) *chunk.Chunk
	ContainingBuilder(p geom.IntVector2) *chunk.Builder
	SpaceByName(name string) (*space.Space, bool)
	CellAt(p geom.IntVector2) (space.Cell, bool)
}

// Server answers inspector queries.
type Server struct {
	log   *slog.Logger
	calls chan func()
	world World
}

// New creates a server. log may be nil.
func New(log *slog.Logger) *Server {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Server{log: log, calls: make(chan func())}
}

// Calls delivers queries to the owning loop, which must run each one.
func (s *Server) Calls() <-chan func() { return s.calls }

// SetWorld swaps the world being inspected. Call it from the owning loop.
func (s *Server) SetWorld(w World) { s.world = w }

// Handler returns the HTTP handler with the websocket endpoint at /ws.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.serveWS)
	return mux
}

// ListenAndServe serves on addr until ctx is done.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.log.Info("inspector listening", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("inspector: %w", err)
	}
	return nil
}

func (s *Server) serveWS(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		s.log.Warn("websocket accept failed", "error", err)
		return
	}
	defer conn.Close(websocket.StatusNormalClosure, "")
	s.log.Debug("inspector client connected", "remote", r.RemoteAddr)

	ctx := r.Context()
	for {
		var req Request
		if err := wsjson.Read(ctx, conn, &req); err != nil {
			var ce websocket.CloseError
			if !errors.As(err, &ce) && ctx.Err() == nil {
				s.log.Debug("inspector read failed", "error", err)
			}
			return
		}
		resp := s.do(ctx, req)
		if err := wsjson.Write(ctx, conn, resp); err != nil {
			s.log.Debug("inspector write failed", "error", err)
			return
		}
	}
}

// do runs req on the owning loop and waits for its answer.
func (s *Server) do(ctx context.Context, req Request) Response {
	done := make(chan Response, 1)
	select {
	case s.calls <- func() { done <- s.answer(req) }:
	case <-ctx.Done():
		return Response{ID: req.ID, Op: req.Op, Error: ctx.Err().Error()}
	}
	select {
	case resp := <-done:
		return resp
	case <-ctx.Done():
		return Response{ID: req.ID, Op: req.Op, Error: ctx.Err().Error()}
	}
}
