package admin

import (
	"net/http"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
)

// handleEvents upgrades to a websocket and streams every Bus event to
// the client until the connection closes or the request context is
// cancelled. There is no client-to-server message loop here — the
// stream is one-directional, unlike the teacher's REPL socket, so
// there is nothing to read back.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: []string{"*"},
	})
	if err != nil {
		s.logger.Warnw("admin events: websocket accept", "error", err)
		return
	}
	defer conn.CloseNow()

	ctx := r.Context()
	sub, unsubscribe := s.cfg.Bus.Subscribe(32)
	defer unsubscribe()

	for {
		select {
		case <-ctx.Done():
			return
		case evt, ok := <-sub:
			if !ok {
				return
			}
			if err := wsjson.Write(ctx, conn, evt); err != nil {
				s.logger.Warnw("admin events: write", "error", err)
				return
			}
		}
	}
}
