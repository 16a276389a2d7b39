package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// DefaultInvalidationChannel carries article cache invalidations between instances
const DefaultInvalidationChannel = "quote:article:invalidate"

// InvalidationMessage asks peers to drop one article, or all of them when ArticleID is empty
type InvalidationMessage struct {
	ArticleID string `json:"article_id,omitempty"`
	Origin    string `json:"origin"`
	Timestamp int64  `json:"timestamp"`
}

// RedisArticleInvalidator fans invalidations out over Redis Pub/Sub
type RedisArticleInvalidator struct {
	client  redis.UniversalClient
	channel string
	origin  string
	logger  *zap.Logger

	mu      sync.Mutex
	cancel  context.CancelFunc
	running bool
	done    chan struct{}
}

// NewRedisArticleInvalidator creates an invalidator. origin identifies this
// instance so it can skip its own messages.
func NewRedisArticleInvalidator(client redis.UniversalClient, origin string, logger *zap.Logger) *RedisArticleInvalidator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisArticleInvalidator{
		client:  client,
		channel: DefaultInvalidationChannel,
		origin:  origin,
		logger:  logger,
	}
}

// Publish announces an invalidation
func (i *RedisArticleInvalidator) Publish(ctx context.Context, articleID string) error {
	data, err := json.Marshal(InvalidationMessage{
		ArticleID: articleID,
		Origin:    i.origin,
		Timestamp: time.Now().UnixNano(),
	})
	if err != nil {
		return fmt.Errorf("failed to encode invalidation: %w", err)
	}
	if err := i.client.Publish(ctx, i.channel, data).Err(); err != nil {
		return fmt.Errorf("failed to publish invalidation: %w", err)
	}
	return nil
}

// Subscribe blocks, calling fn for every message from other instances, until ctx ends or Close is called
func (i *RedisArticleInvalidator) Subscribe(ctx context.Context, fn func(InvalidationMessage)) error {
	i.mu.Lock()
	if i.running {
		i.mu.Unlock()
		return fmt.Errorf("invalidation subscription already running")
	}
	subCtx, cancel := context.WithCancel(ctx)
	i.cancel = cancel
	i.running = true
	i.done = make(chan struct{})
	done := i.done
	i.mu.Unlock()

	defer func() {
		i.mu.Lock()
		i.running = false
		i.mu.Unlock()
		close(done)
	}()

	pubsub := i.client.Subscribe(subCtx, i.channel)
	defer pubsub.Close()
	if _, err := pubsub.Receive(subCtx); err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", i.channel, err)
	}
	i.logger.Info("Subscribed to article cache invalidations", zap.String("channel", i.channel))

	ch := pubsub.Channel()
	for {
		select {
		case <-subCtx.Done():
			return subCtx.Err()
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			var m InvalidationMessage
			if err := json.Unmarshal([]byte(msg.Payload), &m); err != nil {
				i.logger.Warn("Dropping malformed invalidation", zap.String("payload", msg.Payload))
				continue
			}
			if m.Origin == i.origin {
				continue
			}
			i.dispatch(fn, m)
		}
	}
}

func (i *RedisArticleInvalidator) dispatch(fn func(InvalidationMessage), m InvalidationMessage) {
	defer func() {
		if r := recover(); r != nil {
			i.logger.Error("Panic in invalidation callback", zap.Any("panic", r))
		}
	}()
	fn(m)
}

// Close stops a running subscription and waits briefly for it to exit
func (i *RedisArticleInvalidator) Close() error {
	i.mu.Lock()
	cancel, done := i.cancel, i.done
	i.mu.Unlock()
	if cancel == nil {
		return nil
	}
	cancel()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		i.logger.Warn("Timed out waiting for invalidation subscription to stop")
	}
	return nil
}
