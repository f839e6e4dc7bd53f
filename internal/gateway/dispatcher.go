package gateway

import (
	"context"
	"encoding/json"

	"github.com/inkwave/inkchat/internal/entity"
	"github.com/inkwave/inkchat/pkg/log"
)

// pushTask is one queued delivery: an event fanned out to every live
// connection of each target user.
type pushTask struct {
	Event     string
	Msg       *entity.Message
	TargetIds []int64
}

// Dispatcher delivers events to live connections via the Registry. Delivery
// is best effort: a user with no connections is a silent no-op, a slow or
// broken handle drops the frame, and nothing here ever blocks the caller
// beyond the enqueue attempt.
type Dispatcher struct {
	registry *Registry
	tasks    chan *pushTask
	workers  int
}

// NewDispatcher creates a new Dispatcher
func NewDispatcher(registry *Registry, queueSize, workers int) *Dispatcher {
	if queueSize <= 0 {
		queueSize = 10000
	}
	if workers <= 0 {
		workers = 10
	}
	return &Dispatcher{
		registry: registry,
		tasks:    make(chan *pushTask, queueSize),
		workers:  workers,
	}
}

// Run starts the push workers
func (d *Dispatcher) Run(ctx context.Context) {
	for i := 0; i < d.workers; i++ {
		go d.pushLoop(ctx)
	}
	log.Info("started %d push workers", d.workers)
}

// pushLoop handles async event pushing
func (d *Dispatcher) pushLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case task := <-d.tasks:
			d.process(ctx, task)
		}
	}
}

// process fans one task out to every live connection of every target.
func (d *Dispatcher) process(ctx context.Context, task *pushTask) {
	data, err := json.Marshal(task.Msg.ToMessageInfo())
	if err != nil {
		log.CtxError(ctx, "marshal push payload failed: msg_id=%d, error=%v", task.Msg.Id, err)
		return
	}

	for _, userId := range task.TargetIds {
		clients, ok := d.registry.GetAll(userId)
		if !ok {
			continue
		}

		for _, client := range clients {
			if err := client.PushEvent(task.Event, data); err != nil {
				// Persistence already succeeded; a failed push is logged and dropped.
				log.CtxDebug(ctx, "push to client failed: user_id=%d, conn_id=%s, error=%v",
					userId, client.ConnId, err)
			}
		}
	}
}

// AsyncPushToUsers queues a new_message event for the target users. Never
// blocks; when the queue is full the event is dropped and the clients fall
// back to polling.
func (d *Dispatcher) AsyncPushToUsers(msg *entity.Message, userIds []int64) {
	task := &pushTask{
		Event:     EventNewMessage,
		Msg:       msg,
		TargetIds: userIds,
	}

	select {
	case d.tasks <- task:
	default:
		log.Warn("push channel full, event dropped: conv_id=%d, msg_id=%d", msg.ConversationId, msg.Id)
	}
}
