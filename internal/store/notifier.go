package store

import (
	"context"
	"sync"
	"time"

	"github.com/lib/pq"
	"go.uber.org/zap"
)

// Channel is the postgres NOTIFY channel the schema triggers publish on.
// The payload of each notification is the name of the table that changed.
const Channel = "inventory_changes"

const (
	minReconnectInterval = 10 * time.Second
	maxReconnectInterval = time.Minute
	pingInterval         = 90 * time.Second
)

// Notifier fans table-change notifications out to repository subscriptions.
// Each subscriber gets a buffered tick channel; a tick means "the table
// changed, re-read your snapshot", never a delta.
type Notifier struct {
	logger *zap.Logger

	mu   sync.Mutex
	seq  int
	subs map[string]map[int]chan struct{}
}

func NewNotifier(logger *zap.Logger) *Notifier {
	return &Notifier{
		logger: logger,
		subs:   make(map[string]map[int]chan struct{}),
	}
}

// Subscribe registers interest in changes to one table. The cancel func is
// idempotent and must be called when the consumer no longer needs updates.
func (n *Notifier) Subscribe(table string) (<-chan struct{}, func()) {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.seq++
	id := n.seq
	ch := make(chan struct{}, 1)

	if n.subs[table] == nil {
		n.subs[table] = make(map[int]chan struct{})
	}
	n.subs[table][id] = ch

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			n.mu.Lock()
			delete(n.subs[table], id)
			n.mu.Unlock()
		})
	}

	return ch, cancel
}

// Dispatch wakes every subscriber of the given table. The send is
// non-blocking: a pending tick already covers the newest state because
// subscribers re-read the whole snapshot on every tick.
func (n *Notifier) Dispatch(table string) {
	n.mu.Lock()
	defer n.mu.Unlock()

	for _, ch := range n.subs[table] {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// Listen connects a pq.Listener to the NOTIFY channel and pumps
// notifications into Dispatch until the context is cancelled.
func (n *Notifier) Listen(ctx context.Context, dbURL string) error {
	listener := pq.NewListener(dbURL, minReconnectInterval, maxReconnectInterval,
		func(event pq.ListenerEventType, err error) {
			if err != nil {
				n.logger.Warn("postgres listener event", zap.Int("event", int(event)), zap.Error(err))
			}
		})

	if err := listener.Listen(Channel); err != nil {
		listener.Close()
		return err
	}

	n.logger.Info("listening for inventory changes", zap.String("channel", Channel))

	for {
		select {
		case <-ctx.Done():
			return listener.Close()
		case notification := <-listener.Notify:
			if notification == nil {
				// connection was re-established; subscribers may have missed
				// notifications, so wake everyone
				n.dispatchAll()
				continue
			}
			n.Dispatch(notification.Extra)
		case <-time.After(pingInterval):
			go func() {
				if err := listener.Ping(); err != nil {
					n.logger.Warn("postgres listener ping failed", zap.Error(err))
				}
			}()
		}
	}
}

func (n *Notifier) dispatchAll() {
	n.mu.Lock()
	tables := make([]string, 0, len(n.subs))
	for table := range n.subs {
		tables = append(tables, table)
	}
	n.mu.Unlock()

	for _, table := range tables {
		n.Dispatch(table)
	}
}
