package gateway

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"code.swapex.io/swapex/core/events"
	"code.swapex.io/swapex/core/subscribers"
	"code.swapex.io/swapex/logging"
	"code.swapex.io/swapex/metrics"

	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(*http.Request) bool {
		return true
	},
}

// parseStreamFilters reads the comma separated event types and the
// optional party and asset filters of a stream request.
func parseStreamFilters(r *http.Request) ([]events.Type, []func(events.Event) bool, error) {
	q := r.URL.Query()
	var types []events.Type
	if raw := q.Get("types"); len(raw) > 0 {
		for _, name := range strings.Split(raw, ",") {
			t, ok := events.TryFromString(strings.TrimSpace(name))
			if !ok {
				return nil, nil, fmt.Errorf("%w: unknown event type %q", ErrInvalidRequest, name)
			}
			types = append(types, *t)
		}
	}

	filters := []func(events.Event) bool{}
	if party := q.Get("party"); len(party) > 0 {
		filters = append(filters, events.GetPartyIDFilter(party))
	}
	if asset := q.Get("asset"); len(asset) > 0 {
		filters = append(filters, events.GetAssetIDFilter(asset))
	}
	return types, filters, nil
}

// StreamEvents upgrades the connection to a websocket and pushes every
// committed event matching the request filters until the client leaves.
func (s *Server) StreamEvents(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	types, filters, err := parseStreamFilters(r)
	if err != nil {
		writeError(w, err, http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithCancel(s.ctx)
	defer cancel()

	// subscribe before answering the upgrade so no event committed after
	// the handshake is missed
	sub := subscribers.NewStreamSub(ctx, types, s.cfg.StreamBuffer, filters...)
	id := s.bus.Subscribe(sub)
	defer s.bus.Unsubscribe(id)

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Debug("failed to upgrade", logging.Error(err))
		return
	}
	defer conn.Close()

	start := time.Now()
	defer metrics.APIRequestAndTimeWS("events", start)

	s.log.Debug("event stream opened",
		logging.Int("subscriber", id),
		logging.String("remote-addr", r.RemoteAddr),
	)

	// the client is not expected to send anything, reading only
	// notices it went away and handles the pongs
	go func() {
		defer cancel()
		conn.SetReadLimit(512)
		_ = conn.SetReadDeadline(time.Now().Add(pongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(pongWait))
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(writeWait))
			return
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		case msg, ok := <-sub.Events():
			if !ok {
				return
			}
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(msg); err != nil {
				s.log.Debug("event stream closed", logging.Int("subscriber", id), logging.Error(err))
				return
			}
		}
	}
}
