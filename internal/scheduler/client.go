package scheduler

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"

	"magnetlab_backend/platform/config"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
)

const (
	defaultQueue       = "default"
	emailMaxRetry      = 5
	webhookMaxRetry    = 8
	defaultConcurrency = 10
)

type Client struct {
	client *asynq.Client
	queue  string
}

// TaskEnqueuer is the producer side used by the notification module.
type TaskEnqueuer interface {
	EnqueueOwnerEmail(ctx context.Context, payload OwnerEmailPayload) error
	EnqueueWebhookDelivery(ctx context.Context, payload WebhookDeliveryPayload) error
}

var _ TaskEnqueuer = (*Client)(nil)

func NewClient(cfg config.SchedulerConfig) (*Client, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL, cfg.GetRedisTLSInsecure())
	if err != nil {
		return nil, err
	}

	return &Client{
		client: asynq.NewClient(opt),
		queue:  queueName(cfg),
	}, nil
}

func (c *Client) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}

func (c *Client) EnqueueOwnerEmail(ctx context.Context, payload OwnerEmailPayload) error {
	task, err := NewOwnerEmailTask(payload)
	if err != nil {
		return err
	}
	return c.enqueue(ctx, task, payload.IdempotencyKey(), emailMaxRetry)
}

func (c *Client) EnqueueWebhookDelivery(ctx context.Context, payload WebhookDeliveryPayload) error {
	task, err := NewWebhookDeliveryTask(payload)
	if err != nil {
		return err
	}
	return c.enqueue(ctx, task, payload.IdempotencyKey(), webhookMaxRetry)
}

// enqueue uses the idempotency key as task ID, so publishing the same event
// twice yields a single task.
func (c *Client) enqueue(ctx context.Context, task *asynq.Task, taskID string, maxRetry int) error {
	if c == nil || c.client == nil {
		return nil
	}

	_, err := c.client.EnqueueContext(ctx, task,
		asynq.Queue(c.queue),
		asynq.TaskID(taskID),
		asynq.MaxRetry(maxRetry),
	)
	if errors.Is(err, asynq.ErrTaskIDConflict) {
		return nil
	}
	return err
}

func queueName(cfg config.SchedulerConfig) string {
	if queue := cfg.GetAsynqQueueName(); queue != "" {
		return queue
	}
	return defaultQueue
}

func redisOptions(redisURL string, tlsInsecure bool) (*redis.Options, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}

	if opt.TLSConfig != nil {
		clone := opt.TLSConfig.Clone()
		if tlsInsecure {
			clone.InsecureSkipVerify = true
		}
		opt.TLSConfig = clone
	} else if tlsInsecure {
		opt.TLSConfig = &tls.Config{InsecureSkipVerify: true}
	}
	return opt, nil
}

func redisClientOpt(redisURL string, tlsInsecure bool) (asynq.RedisClientOpt, error) {
	opt, err := redisOptions(redisURL, tlsInsecure)
	if err != nil {
		return asynq.RedisClientOpt{}, err
	}

	return asynq.RedisClientOpt{
		Addr:      opt.Addr,
		Password:  opt.Password,
		DB:        opt.DB,
		TLSConfig: opt.TLSConfig,
	}, nil
}
