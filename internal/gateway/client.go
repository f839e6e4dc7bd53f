package gateway

import (
	"context"
	"encoding/json"
	"sync"
	"sync/atomic"

	"github.com/inkwave/inkchat/pkg/log"
)

// Client is one authenticated WebSocket connection. A user may hold several
// at once (multiple tabs); each is registered and torn down independently.
type Client struct {
	mu        sync.Mutex
	conn      ClientConn
	UserId    int64
	Role      string
	ConnId    string
	server    *WsServer
	closed    atomic.Bool
	closedErr error
	ctx       context.Context
	cancel    context.CancelFunc
}

// NewClient creates a new client
func NewClient(conn ClientConn, userId int64, role, connId string, server *WsServer) *Client {
	ctx, cancel := context.WithCancel(context.Background())
	return &Client{
		conn:   conn,
		UserId: userId,
		Role:   role,
		ConnId: connId,
		server: server,
		ctx:    ctx,
		cancel: cancel,
	}
}

// Start starts the client message handling
func (c *Client) Start() {
	go c.readLoop()
}

// readLoop continuously reads frames from the connection. Any read error,
// including a missed liveness deadline, ends the loop and deregisters the
// connection.
func (c *Client) readLoop() {
	defer func() {
		if r := recover(); r != nil {
			c.closedErr = ErrPanic
			log.CtxError(c.ctx, "client read loop panic: user_id=%d, error=%v", c.UserId, r)
		}
		c.close()
	}()

	for {
		message, err := c.conn.ReadMessage()
		if err != nil {
			log.CtxDebug(c.ctx, "read message error: user_id=%d, error=%v", c.UserId, err)
			c.closedErr = err
			return
		}

		if c.closed.Load() {
			c.closedErr = ErrConnClosed
			return
		}

		if err := c.handleMessage(message); err != nil {
			log.CtxWarn(c.ctx, "handle message error: user_id=%d, error=%v", c.UserId, err)
			c.closedErr = err
			return
		}
	}
}

// handleMessage handles a single incoming frame
func (c *Client) handleMessage(message []byte) error {
	var req WSRequest
	if err := json.Unmarshal(message, &req); err != nil {
		return c.replyError(&req, ErrInvalidProtocol)
	}

	log.CtxDebug(c.ctx, "received frame: event=%s, user_id=%d", req.Event, c.UserId)

	var resp []byte
	var err error

	switch req.Event {
	case EventGetUnreadCount:
		resp, err = c.server.HandleGetUnreadCount(c.ctx, c, &req)
	default:
		return c.replyError(&req, ErrInvalidProtocol)
	}

	return c.reply(&req, err, resp)
}

// reply sends a response frame to the client
func (c *Client) reply(req *WSRequest, err error, data []byte) error {
	resp := WSResponse{
		Event:       req.Event,
		OperationId: req.OperationId,
		Data:        data,
	}

	if err != nil {
		resp.ErrCode = 1
		resp.ErrMsg = err.Error()
	}

	return c.writeResponse(resp)
}

// replyError sends an error response frame
func (c *Client) replyError(req *WSRequest, err error) error {
	resp := WSResponse{
		Event:       req.Event,
		OperationId: req.OperationId,
		ErrCode:     1,
		ErrMsg:      err.Error(),
	}
	return c.writeResponse(resp)
}

// writeResponse writes a frame to the connection
func (c *Client) writeResponse(resp WSResponse) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed.Load() {
		return nil
	}

	data, err := json.Marshal(resp)
	if err != nil {
		return err
	}

	return c.conn.WriteMessage(data)
}

// PushEvent pushes a server-initiated event frame to this connection.
func (c *Client) PushEvent(event string, data []byte) error {
	if c.closed.Load() {
		return ErrConnClosed
	}

	return c.writeResponse(WSResponse{
		Event: event,
		Data:  data,
	})
}

// Close closes the client connection
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed.Load() {
		return nil
	}

	c.closed.Store(true)
	c.cancel()
	return c.conn.Close()
}

// close handles cleanup when connection is closed
func (c *Client) close() {
	c.Close()
	if c.server != nil {
		c.server.UnregisterClient(c)
	}
}

// IsClosed returns whether the client is closed
func (c *Client) IsClosed() bool {
	return c.closed.Load()
}
