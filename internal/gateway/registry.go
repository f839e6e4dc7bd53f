package gateway

import (
	"context"
	"fmt"
	"time"

	"sync"

	"github.com/redis/go-redis/v9"

	"github.com/inkwave/inkchat/pkg/constant"
)

// registryShardCount must be a power of two.
const registryShardCount = 32

const onlineTTL = 60 * time.Second

// Registry is the process-wide presence map from user id to live connection
// handles. Locking is per shard, so unrelated users' connect/disconnect and
// dispatch traffic never serialize on a single mutex. No operation here ever
// blocks on I/O; the Redis online flags are best-effort side writes.
type Registry struct {
	shards [registryShardCount]registryShard
	rdb    *redis.Client
}

type registryShard struct {
	mu    sync.RWMutex
	users map[int64][]*Client
}

// NewRegistry creates a new Registry. rdb may be nil; the Redis online flags
// are then skipped entirely.
func NewRegistry(rdb *redis.Client) *Registry {
	r := &Registry{rdb: rdb}
	for i := range r.shards {
		r.shards[i].users = make(map[int64][]*Client)
	}
	return r
}

func (r *Registry) shardFor(userId int64) *registryShard {
	return &r.shards[uint64(userId)&(registryShardCount-1)]
}

// Register adds the client under its user id, creating the entry if absent.
func (r *Registry) Register(ctx context.Context, client *Client) {
	shard := r.shardFor(client.UserId)

	shard.mu.Lock()
	shard.users[client.UserId] = append(shard.users[client.UserId], client)
	shard.mu.Unlock()

	r.setOnline(ctx, client.UserId)
}

// Deregister removes exactly this client's handle, leaving the user's other
// connections intact. When the last handle goes, the key is removed so the
// map does not grow with connect/disconnect churn. Returns true when the user
// is now fully offline.
func (r *Registry) Deregister(ctx context.Context, client *Client) bool {
	shard := r.shardFor(client.UserId)

	shard.mu.Lock()
	clients, exists := shard.users[client.UserId]
	if !exists {
		shard.mu.Unlock()
		return false
	}

	remaining := make([]*Client, 0, len(clients))
	for _, c := range clients {
		if c.ConnId != client.ConnId {
			remaining = append(remaining, c)
		}
	}

	if len(remaining) == 0 {
		delete(shard.users, client.UserId)
		shard.mu.Unlock()
		r.setOffline(ctx, client.UserId)
		return true
	}

	shard.users[client.UserId] = remaining
	shard.mu.Unlock()
	return false
}

// GetAll returns a copy of the user's live connection handles.
func (r *Registry) GetAll(userId int64) ([]*Client, bool) {
	shard := r.shardFor(userId)

	shard.mu.RLock()
	defer shard.mu.RUnlock()

	clients, exists := shard.users[userId]
	if !exists {
		return nil, false
	}

	out := make([]*Client, len(clients))
	copy(out, clients)
	return out, true
}

// HasConnection checks if user has any local connection
func (r *Registry) HasConnection(userId int64) bool {
	shard := r.shardFor(userId)

	shard.mu.RLock()
	defer shard.mu.RUnlock()
	return len(shard.users[userId]) > 0
}

// OnlineUserCount returns the number of locally online users
func (r *Registry) OnlineUserCount() int {
	count := 0
	for i := range r.shards {
		shard := &r.shards[i]
		shard.mu.RLock()
		count += len(shard.users)
		shard.mu.RUnlock()
	}
	return count
}

// IsOnline checks if user is online, consulting Redis for connections held by
// other instances.
func (r *Registry) IsOnline(ctx context.Context, userId int64) bool {
	if r.HasConnection(userId) {
		return true
	}

	if r.rdb != nil {
		key := fmt.Sprintf(constant.RedisKeyOnline(), userId)
		exists, _ := r.rdb.Exists(ctx, key).Result()
		return exists > 0
	}

	return false
}

// setOnline marks user as online in Redis
func (r *Registry) setOnline(ctx context.Context, userId int64) {
	if r.rdb == nil {
		return
	}

	key := fmt.Sprintf(constant.RedisKeyOnline(), userId)
	r.rdb.Set(ctx, key, constant.StatusOnline, onlineTTL)
}

// setOffline marks user as offline in Redis
func (r *Registry) setOffline(ctx context.Context, userId int64) {
	if r.rdb == nil {
		return
	}

	key := fmt.Sprintf(constant.RedisKeyOnline(), userId)
	r.rdb.Del(ctx, key)
}

// RefreshOnlineStatus refreshes the online flag TTL for a still-connected user
func (r *Registry) RefreshOnlineStatus(ctx context.Context, userId int64) {
	if r.rdb == nil {
		return
	}

	if r.HasConnection(userId) {
		key := fmt.Sprintf(constant.RedisKeyOnline(), userId)
		r.rdb.Expire(ctx, key, onlineTTL)
	}
}
