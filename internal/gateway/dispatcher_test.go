package gateway

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/inkwave/inkchat/internal/entity"
)

func testMessage(id int64) *entity.Message {
	return &entity.Message{
		Id:             id,
		ConversationId: 100,
		SenderId:       1,
		ReceiverId:     2,
		Content:        "hello there",
		CreatedAt:      entity.NowUnixMilli(),
	}
}

// waitForFrame polls until the conn has at least n written frames.
func waitForFrame(t *testing.T, conn *fakeConn, n int) [][]byte {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		frames := conn.writtenFrames()
		if len(frames) >= n {
			return frames
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %d frames, got %d", n, len(conn.writtenFrames()))
	return nil
}

func TestDispatcher_PushToConnectedUser(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reg := NewRegistry(nil)
	conn := newFakeConn()
	client := NewClient(conn, 2, "user", "conn-1", nil)
	reg.Register(ctx, client)

	d := NewDispatcher(reg, 16, 2)
	d.Run(ctx)

	msg := testMessage(1001)
	d.AsyncPushToUsers(msg, []int64{2})

	frames := waitForFrame(t, conn, 1)

	var resp WSResponse
	if err := json.Unmarshal(frames[0], &resp); err != nil {
		t.Fatalf("unmarshal pushed frame failed: %v", err)
	}
	if resp.Event != EventNewMessage {
		t.Errorf("Event = %q, want %q", resp.Event, EventNewMessage)
	}

	var info entity.MessageInfo
	if err := json.Unmarshal(resp.Data, &info); err != nil {
		t.Fatalf("unmarshal message payload failed: %v", err)
	}
	if info.Id != 1001 || info.Content != "hello there" {
		t.Errorf("unexpected payload: %+v", info)
	}
}

func TestDispatcher_FanOutToAllConnections(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reg := NewRegistry(nil)
	conn1 := newFakeConn()
	conn2 := newFakeConn()
	reg.Register(ctx, NewClient(conn1, 2, "user", "tab-1", nil))
	reg.Register(ctx, NewClient(conn2, 2, "user", "tab-2", nil))

	d := NewDispatcher(reg, 16, 2)
	d.Run(ctx)

	d.AsyncPushToUsers(testMessage(1002), []int64{2})

	// Both tabs of the same user receive the event.
	waitForFrame(t, conn1, 1)
	waitForFrame(t, conn2, 1)
}

func TestDispatcher_OfflineUserIsNoOp(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reg := NewRegistry(nil)
	d := NewDispatcher(reg, 16, 2)
	d.Run(ctx)

	// Nobody registered for user 5; nothing should happen and nothing panics.
	d.AsyncPushToUsers(testMessage(1003), []int64{5})
	time.Sleep(50 * time.Millisecond)
}

func TestDispatcher_FailedWriteIsSwallowed(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reg := NewRegistry(nil)
	broken := newFakeConn()
	broken.failWrite = true
	healthy := newFakeConn()
	reg.Register(ctx, NewClient(broken, 2, "user", "broken", nil))
	reg.Register(ctx, NewClient(healthy, 2, "user", "healthy", nil))

	d := NewDispatcher(reg, 16, 2)
	d.Run(ctx)

	d.AsyncPushToUsers(testMessage(1004), []int64{2})

	// The broken connection fails silently; the healthy one still gets the frame.
	waitForFrame(t, healthy, 1)
	if len(broken.writtenFrames()) != 0 {
		t.Error("broken connection should not have recorded a frame")
	}
}

func TestDispatcher_NoPushAfterDeregister(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reg := NewRegistry(nil)
	conn := newFakeConn()
	client := NewClient(conn, 2, "user", "conn-1", nil)
	reg.Register(ctx, client)
	reg.Deregister(ctx, client)

	d := NewDispatcher(reg, 16, 2)
	d.Run(ctx)

	d.AsyncPushToUsers(testMessage(1005), []int64{2})
	time.Sleep(50 * time.Millisecond)

	if len(conn.writtenFrames()) != 0 {
		t.Error("expected no frames after deregistration")
	}
}
