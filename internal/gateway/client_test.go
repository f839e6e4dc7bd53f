package gateway

import (
	"testing"
	"time"
)

func TestClient_InvalidFrameGetsErrorReply(t *testing.T) {
	conn := newFakeConn()
	client := NewClient(conn, 1, "user", "conn-1", nil)

	if err := client.handleMessage([]byte("not json")); err != nil {
		t.Fatalf("handleMessage should reply, not fail: %v", err)
	}

	resp, ok := conn.lastResponse()
	if !ok {
		t.Fatal("expected an error reply frame")
	}
	if resp.ErrCode == 0 {
		t.Error("expected nonzero err_code for malformed frame")
	}
}

func TestClient_UnknownEventGetsErrorReply(t *testing.T) {
	conn := newFakeConn()
	client := NewClient(conn, 1, "user", "conn-1", nil)

	if err := client.handleMessage([]byte(`{"event":"no_such_event","operation_id":"op-7"}`)); err != nil {
		t.Fatalf("handleMessage should reply, not fail: %v", err)
	}

	resp, ok := conn.lastResponse()
	if !ok {
		t.Fatal("expected an error reply frame")
	}
	if resp.ErrCode == 0 {
		t.Error("expected nonzero err_code for unknown event")
	}
	if resp.OperationId != "op-7" {
		t.Errorf("OperationId = %q, want echo of the request's op-7", resp.OperationId)
	}
}

func TestClient_PushEventAfterClose(t *testing.T) {
	conn := newFakeConn()
	client := NewClient(conn, 1, "user", "conn-1", nil)

	if err := client.Close(); err != nil {
		t.Fatalf("close failed: %v", err)
	}
	if !client.IsClosed() {
		t.Fatal("expected client to report closed")
	}

	if err := client.PushEvent(EventNewMessage, []byte(`{}`)); err != ErrConnClosed {
		t.Errorf("PushEvent after close = %v, want ErrConnClosed", err)
	}
	if len(conn.writtenFrames()) != 0 {
		t.Error("no frame should be written after close")
	}
}

func TestClient_ReadLoopDeregistersOnEOF(t *testing.T) {
	conn := newFakeConn()
	client := NewClient(conn, 1, "user", "conn-1", nil)
	client.Start()

	// Closing the conn fails the pending read and the loop tears down.
	conn.Close()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if client.IsClosed() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("client did not close after read error")
}
