package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"sync/atomic"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	hzws "github.com/hertz-contrib/websocket"
	"github.com/redis/go-redis/v9"

	"github.com/inkwave/inkchat/internal/config"
	"github.com/inkwave/inkchat/internal/service"
	"github.com/inkwave/inkchat/pkg/log"
	"github.com/inkwave/inkchat/pkg/token"
)

// WsServer owns the connection lifecycle: handshake authentication,
// registration into the presence registry and deregistration on any
// close signal.
type WsServer struct {
	upgrader       *websocket.Upgrader
	cfg            *config.Config
	registry       *Registry
	dispatcher     *Dispatcher
	registerChan   chan *Client
	unregisterChan chan *Client
	convService    *service.ConversationService
	onlineUserNum  atomic.Int64
	onlineConnNum  atomic.Int64
	maxConnNum     int64
}

// NewWsServer creates a new WebSocket server
func NewWsServer(cfg *config.Config, rdb *redis.Client, convService *service.ConversationService) *WsServer {
	upgrader := &websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     func(r *http.Request) bool { return true },
	}

	registry := NewRegistry(rdb)

	return &WsServer{
		upgrader:       upgrader,
		cfg:            cfg,
		registry:       registry,
		dispatcher:     NewDispatcher(registry, cfg.WebSocket.PushChannelSize, cfg.WebSocket.PushWorkerNum),
		registerChan:   make(chan *Client, 1000),
		unregisterChan: make(chan *Client, 1000),
		convService:    convService,
		maxConnNum:     cfg.WebSocket.MaxConnNum,
	}
}

// Dispatcher returns the dispatcher, wired into the conversation service as
// its event pusher.
func (s *WsServer) Dispatcher() *Dispatcher {
	return s.dispatcher
}

// Run starts the lifecycle event loop and the push workers
func (s *WsServer) Run(ctx context.Context) {
	go s.eventLoop(ctx)
	s.dispatcher.Run(ctx)
}

// eventLoop handles client registration and unregistration
func (s *WsServer) eventLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case client := <-s.registerChan:
			s.registerClient(ctx, client)
		case client := <-s.unregisterChan:
			s.unregisterClient(ctx, client)
		}
	}
}

// registerClient registers a client
func (s *WsServer) registerClient(ctx context.Context, client *Client) {
	wasOnline := s.registry.HasConnection(client.UserId)
	if !wasOnline {
		s.onlineUserNum.Add(1)
	}

	s.registry.Register(ctx, client)
	s.onlineConnNum.Add(1)

	log.CtxInfo(ctx, "client registered: user_id=%d, conn_id=%s, online_users=%d, online_conns=%d",
		client.UserId, client.ConnId, s.onlineUserNum.Load(), s.onlineConnNum.Load())
}

// unregisterClient unregisters a client
func (s *WsServer) unregisterClient(ctx context.Context, client *Client) {
	isUserOffline := s.registry.Deregister(ctx, client)
	s.onlineConnNum.Add(-1)

	if isUserOffline {
		s.onlineUserNum.Add(-1)
	}

	log.CtxInfo(ctx, "client unregistered: user_id=%d, conn_id=%s, user_offline=%v, online_users=%d, online_conns=%d",
		client.UserId, client.ConnId, isUserOffline, s.onlineUserNum.Load(), s.onlineConnNum.Load())
}

// UnregisterClient queues client for unregistration
func (s *WsServer) UnregisterClient(client *Client) {
	select {
	case s.unregisterChan <- client:
	default:
		log.Warn("unregister channel full: user_id=%d", client.UserId)
	}
}

// HandleConnection handles a new WebSocket connection on a plain net/http
// listener.
func (s *WsServer) HandleConnection(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	if s.onlineConnNum.Load() >= s.maxConnNum {
		http.Error(w, "connection limit exceeded", http.StatusServiceUnavailable)
		return
	}

	tok := r.URL.Query().Get(QueryToken)

	// The credential is checked exactly once, before the connection can
	// ever reach the registry.
	claims, err := token.Verify(tok, s.cfg.JWT.Secret)
	if err != nil {
		log.CtxDebug(ctx, "handshake token rejected: %v", err)
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.CtxWarn(ctx, "websocket upgrade failed: %v", err)
		return
	}

	connId := uuid.New().String()
	wsConn := NewGorillaClientConn(conn, s.cfg.WebSocket.MaxMessageSize, PongWait, PingPeriod, s.cfg.WebSocket.WriteChannelSize)
	client := NewClient(wsConn, claims.UserId, claims.Role, connId, s)

	s.registerChan <- client
	client.Start()
}

// HandleHertzConnection handles a WebSocket connection upgraded by Hertz.
func (s *WsServer) HandleHertzConnection(ctx context.Context, c *app.RequestContext, upgrader *hzws.HertzUpgrader) {
	if s.onlineConnNum.Load() >= s.maxConnNum {
		c.String(http.StatusServiceUnavailable, "connection limit exceeded")
		return
	}

	tok := string(c.Query(QueryToken))

	claims, err := token.Verify(tok, s.cfg.JWT.Secret)
	if err != nil {
		log.CtxDebug(ctx, "handshake token rejected: %v", err)
		c.String(http.StatusUnauthorized, "unauthorized")
		return
	}

	err = upgrader.Upgrade(c, func(conn *hzws.Conn) {
		connId := uuid.New().String()
		wsConn := NewHertzClientConn(conn, s.cfg.WebSocket.MaxMessageSize, PongWait, PingPeriod, s.cfg.WebSocket.WriteChannelSize)
		client := NewClient(wsConn, claims.UserId, claims.Role, connId, s)

		s.registerChan <- client

		// Blocking: the Hertz handler owns the connection for its lifetime.
		client.readLoop()
	})

	if err != nil {
		log.CtxWarn(ctx, "websocket upgrade failed: %v", err)
		return
	}
}

// OnlineUserCount returns online user count
func (s *WsServer) OnlineUserCount() int64 {
	return s.onlineUserNum.Load()
}

// OnlineConnCount returns online connection count
func (s *WsServer) OnlineConnCount() int64 {
	return s.onlineConnNum.Load()
}

// HandleGetUnreadCount serves the on-demand unread badge over the push channel.
func (s *WsServer) HandleGetUnreadCount(ctx context.Context, client *Client, req *WSRequest) ([]byte, error) {
	count, err := s.convService.UnreadCount(ctx, client.UserId)
	if err != nil {
		return nil, err
	}

	return json.Marshal(UnreadCountData{Count: count})
}
