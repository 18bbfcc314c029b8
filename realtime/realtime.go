// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"

	"github.com/danielhkuo/wee-saviya/auth"
	"github.com/danielhkuo/wee-saviya/middleware"
	"github.com/danielhkuo/wee-saviya/models"
	"github.com/danielhkuo/wee-saviya/proxy"
	"github.com/danielhkuo/wee-saviya/ratelimit"
)

// Event names
const (
	EventMessage  = "ai-message"
	EventResponse = "ai-response"
	EventError    = "ai-error"
)

// Frame is one inbound message.
type Frame struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// Reply is one outbound message.
type Reply struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

// DefaultMaxInflight bounds concurrent workflow calls per connection.
const DefaultMaxInflight = 4

const rateLimitedMessage = "Too many requests, please try again later."

var chatRoute = proxy.ChatRoute.WithPolicy(proxy.Surface)

type Server struct {
	proxy       *proxy.Proxy
	accept      *websocket.AcceptOptions
	limiter     *ratelimit.Limiter
	maxInflight int
	now         func() time.Time
}

type Option func(*Server)

// WithMaxInflight caps the workflow calls one connection may have open.
// Reading pauses while the cap is reached.
func WithMaxInflight(n int) Option {
	return func(s *Server) {
		if n > 0 {
			s.maxInflight = n
		}
	}
}

// WithLimiter charges every ai-message against limiter, keyed like the
// HTTP routes.
func WithLimiter(l *ratelimit.Limiter) Option {
	return func(s *Server) { s.limiter = l }
}

// NewServer builds the WebSocket endpoint. A "*" entry in allowedOrigins
// disables the origin check.
func NewServer(p *proxy.Proxy, allowedOrigins []string, opts ...Option) *Server {
	accept := &websocket.AcceptOptions{}
	for _, origin := range allowedOrigins {
		if origin == "*" {
			accept.InsecureSkipVerify = true
			break
		}
	}
	if !accept.InsecureSkipVerify {
		accept.OriginPatterns = originHosts(allowedOrigins)
	}

	s := &Server{proxy: p, accept: accept, maxInflight: DefaultMaxInflight, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, s.accept)
	if err != nil {
		slog.Warn("websocket upgrade failed", "remote", r.RemoteAddr, "error", err)
		return
	}
	defer conn.Close(websocket.StatusNormalClosure, "closing")

	c := connection{
		id:        uuid.NewString(),
		sessionID: auth.SessionID(r),
		clientKey: middleware.ClientKey(r),
		conn:      conn,
	}
	slog.Info("websocket connected", "conn_id", c.id, "remote", r.RemoteAddr)

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	var inflight errgroup.Group
	inflight.SetLimit(s.maxInflight)
	err = s.readLoop(ctx, c, &inflight)

	cancel()
	inflight.Wait()

	status := websocket.CloseStatus(err)
	if status == websocket.StatusNormalClosure || status == websocket.StatusGoingAway || errors.Is(err, context.Canceled) {
		slog.Info("websocket disconnected", "conn_id", c.id)
	} else {
		slog.Info("websocket disconnected", "conn_id", c.id, "error", err)
	}
}

// connection is the per-socket state shared by its messages
type connection struct {
	id        string
	sessionID string
	clientKey string
	conn      *websocket.Conn
}

func (c connection) send(ctx context.Context, reply Reply) {
	if err := wsjson.Write(ctx, c.conn, reply); err != nil {
		slog.Warn("websocket write failed", "conn_id", c.id, "error", err)
	}
}

func (s *Server) readLoop(ctx context.Context, c connection, inflight *errgroup.Group) error {
	for {
		typ, msg, err := c.conn.Read(ctx)
		if err != nil {
			return err
		}
		if typ != websocket.MessageText {
			slog.Warn("dropping binary frame", "conn_id", c.id)
			continue
		}

		var frame Frame
		if err := json.Unmarshal(msg, &frame); err != nil {
			slog.Warn("dropping malformed frame", "conn_id", c.id, "error", err)
			continue
		}

		switch frame.Event {
		case EventMessage:
			if !s.admit(ctx, c) {
				c.send(ctx, Reply{Event: EventError, Data: models.Response{Success: false, Message: rateLimitedMessage}})
				continue
			}
			data := frame.Data
			// Blocks while the connection is at its in-flight cap
			inflight.Go(func() error {
				c.send(ctx, s.handleMessage(ctx, data, c.sessionID))
				return nil
			})
		default:
			slog.Debug("ignoring unknown event", "conn_id", c.id, "event", frame.Event)
		}
	}
}

// admit charges one message to the client's rate budget. Limiter errors
// let the message through.
func (s *Server) admit(ctx context.Context, c connection) bool {
	if s.limiter == nil {
		return true
	}
	d, err := s.limiter.Allow(ctx, c.clientKey)
	if err != nil {
		slog.Warn("rate limiter unavailable", "conn_id", c.id, "error", err)
		return true
	}
	if !d.Allowed {
		slog.Warn("rate limit exceeded", "conn_id", c.id, "client", c.clientKey)
	}
	return d.Allowed
}

// handleMessage runs one ai-message through validation and the chat
// workflow and returns the frame to send back.
func (s *Server) handleMessage(ctx context.Context, data json.RawMessage, sessionID string) Reply {
	var req models.ChatRequest
	if len(data) > 0 {
		if err := json.Unmarshal(data, &req); err != nil {
			return Reply{Event: EventError, Data: models.Response{Success: false, Message: "Invalid JSON"}}
		}
	}

	if errs := req.Validate(); errs != nil {
		return Reply{Event: EventError, Data: models.Response{Success: false, Errors: errs}}
	}

	payload := models.NewChatPayload(req, sessionID, s.now())
	res := s.proxy.Handle(ctx, chatRoute, payload, req.Language)
	if res.Failed() {
		return Reply{Event: EventError, Data: res.Body}
	}
	return Reply{Event: EventResponse, Data: res.Body.Data}
}

// originHosts reduces origins to the host patterns the handshake matches.
func originHosts(origins []string) []string {
	hosts := make([]string, 0, len(origins))
	for _, origin := range origins {
		if u, err := url.Parse(origin); err == nil && u.Host != "" {
			hosts = append(hosts, u.Host)
			continue
		}
		hosts = append(hosts, origin)
	}
	return hosts
}
