package gateway

import (
	"context"
	"fmt"
	"sync"
	"testing"
)

func newTestClient(userId int64, connId string) *Client {
	return NewClient(newFakeConn(), userId, "user", connId, nil)
}

func TestRegistry_RegisterAndGetAll(t *testing.T) {
	ctx := context.Background()
	reg := NewRegistry(nil)

	client := newTestClient(1, "conn-1")
	reg.Register(ctx, client)

	clients, ok := reg.GetAll(1)
	if !ok {
		t.Fatal("expected user 1 to be registered")
	}
	if len(clients) != 1 || clients[0].ConnId != "conn-1" {
		t.Fatalf("unexpected clients: %v", clients)
	}

	if !reg.HasConnection(1) {
		t.Error("expected HasConnection(1) to be true")
	}
	if reg.HasConnection(2) {
		t.Error("expected HasConnection(2) to be false")
	}
}

func TestRegistry_MultipleConnectionsPerUser(t *testing.T) {
	ctx := context.Background()
	reg := NewRegistry(nil)

	// Same user on two tabs.
	c1 := newTestClient(1, "conn-1")
	c2 := newTestClient(1, "conn-2")
	reg.Register(ctx, c1)
	reg.Register(ctx, c2)

	clients, ok := reg.GetAll(1)
	if !ok || len(clients) != 2 {
		t.Fatalf("expected 2 connections, got %d", len(clients))
	}

	// Dropping one tab leaves the other registered.
	offline := reg.Deregister(ctx, c1)
	if offline {
		t.Error("user should still be online with one connection left")
	}

	clients, ok = reg.GetAll(1)
	if !ok || len(clients) != 1 || clients[0].ConnId != "conn-2" {
		t.Fatalf("expected conn-2 to remain, got %v", clients)
	}

	// Dropping the last tab takes the user fully offline.
	offline = reg.Deregister(ctx, c2)
	if !offline {
		t.Error("expected user to be fully offline")
	}
	if _, ok := reg.GetAll(1); ok {
		t.Error("expected no entry after last connection deregistered")
	}
}

func TestRegistry_DeregisterUnknown(t *testing.T) {
	ctx := context.Background()
	reg := NewRegistry(nil)

	if offline := reg.Deregister(ctx, newTestClient(99, "ghost")); offline {
		t.Error("deregistering an unknown client should not report offline transition")
	}
}

func TestRegistry_OnlineUserCount(t *testing.T) {
	ctx := context.Background()
	reg := NewRegistry(nil)

	// Spread users across shards.
	for i := int64(1); i <= 100; i++ {
		reg.Register(ctx, newTestClient(i, fmt.Sprintf("conn-%d", i)))
	}

	if got := reg.OnlineUserCount(); got != 100 {
		t.Errorf("OnlineUserCount() = %d, want 100", got)
	}
}

func TestRegistry_IsOnlineWithoutRedis(t *testing.T) {
	ctx := context.Background()
	reg := NewRegistry(nil)

	client := newTestClient(1, "conn-1")
	reg.Register(ctx, client)

	if !reg.IsOnline(ctx, 1) {
		t.Error("expected user 1 online")
	}
	if reg.IsOnline(ctx, 2) {
		t.Error("expected user 2 offline")
	}
}

func TestRegistry_ConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	reg := NewRegistry(nil)

	const users = 64
	const connsPerUser = 4

	var wg sync.WaitGroup
	for u := int64(1); u <= users; u++ {
		for c := 0; c < connsPerUser; c++ {
			wg.Add(1)
			go func(userId int64, n int) {
				defer wg.Done()
				client := newTestClient(userId, fmt.Sprintf("conn-%d-%d", userId, n))
				reg.Register(ctx, client)
				reg.GetAll(userId)
				reg.Deregister(ctx, client)
			}(u, c)
		}
	}
	wg.Wait()

	if got := reg.OnlineUserCount(); got != 0 {
		t.Errorf("expected empty registry after churn, got %d users", got)
	}
}
