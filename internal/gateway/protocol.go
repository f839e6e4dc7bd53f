package gateway

import (
	"encoding/json"
	"time"
)

// Event names. Client-initiated events get a response frame echoing the
// operation id; server-initiated pushes carry no operation id.
const (
	// Client -> server
	EventGetUnreadCount = "get_unread_count"

	// Server -> client
	EventNewMessage = "new_message"
)

// Timeout constants
const (
	// WriteWait is time allowed to write a message to the peer
	WriteWait = 10 * time.Second

	// PongWait is time allowed to read the next pong message from the peer
	PongWait = 30 * time.Second

	// PingPeriod is period between pings. Must be less than PongWait
	PingPeriod = (PongWait * 9) / 10

	// MaxMessageSize is maximum message size allowed from peer
	MaxMessageSize = 51200
)

// Query parameter keys for the handshake
const (
	QueryToken = "token"
)

// WSRequest is a client-initiated frame on the push channel.
type WSRequest struct {
	Event       string          `json:"event"`                  // request type
	OperationId string          `json:"operation_id,omitempty"` // client trace id, echoed back
	Data        json.RawMessage `json:"data,omitempty"`         // business data
}

// WSResponse is any server frame: a reply to a WSRequest or a push event.
type WSResponse struct {
	Event       string          `json:"event"`
	OperationId string          `json:"operation_id,omitempty"`
	ErrCode     int             `json:"err_code"`
	ErrMsg      string          `json:"err_msg,omitempty"`
	Data        json.RawMessage `json:"data,omitempty"`
}

// UnreadCountData is the payload for get_unread_count replies.
type UnreadCountData struct {
	Count int64 `json:"count"`
}
