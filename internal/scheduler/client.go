// Package scheduler provides the asynq task queue: the client side used
// by the API process and the worker consumed by cmd/worker.
package scheduler

import (
	"context"
	"crypto/tls"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"tripdesk_backend/platform/config"
)

// Client enqueues notification tasks. A nil Client drops tasks silently,
// so the API can run without Redis in development.
type Client struct {
	client *asynq.Client
	queue  string
}

// NewClient creates an asynq client from the scheduler configuration.
func NewClient(cfg config.SchedulerConfig) (*Client, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL, cfg.GetRedisTLSInsecure())
	if err != nil {
		return nil, err
	}

	queue := cfg.GetAsynqQueueName()
	if queue == "" {
		queue = "default"
	}

	return &Client{
		client: asynq.NewClient(opt),
		queue:  queue,
	}, nil
}

// Close releases the underlying Redis connection.
func (c *Client) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}

// EnqueueAssignmentNotice queues an assignment-notice email.
func (c *Client) EnqueueAssignmentNotice(ctx context.Context, payload AssignmentNoticePayload) error {
	if c == nil || c.client == nil {
		return nil
	}

	task, err := NewAssignmentNoticeTask(payload)
	if err != nil {
		return err
	}

	_, err = c.client.EnqueueContext(ctx, task, asynq.Queue(c.queue))
	return err
}

// EnqueueBookingConfirmation queues a booking-confirmation email.
func (c *Client) EnqueueBookingConfirmation(ctx context.Context, payload BookingConfirmationPayload) error {
	if c == nil || c.client == nil {
		return nil
	}

	task, err := NewBookingConfirmationTask(payload)
	if err != nil {
		return err
	}

	_, err = c.client.EnqueueContext(ctx, task, asynq.Queue(c.queue))
	return err
}

// EnqueueLeadReceived queues a lead-received acknowledgement email.
func (c *Client) EnqueueLeadReceived(ctx context.Context, payload LeadReceivedPayload) error {
	if c == nil || c.client == nil {
		return nil
	}

	task, err := NewLeadReceivedTask(payload)
	if err != nil {
		return err
	}

	_, err = c.client.EnqueueContext(ctx, task, asynq.Queue(c.queue))
	return err
}

func redisClientOpt(redisURL string, tlsInsecure bool) (asynq.RedisClientOpt, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return asynq.RedisClientOpt{}, err
	}

	var tlsConfig *tls.Config
	if opt.TLSConfig != nil {
		clone := opt.TLSConfig.Clone()
		if tlsInsecure {
			clone.InsecureSkipVerify = true
		}
		tlsConfig = clone
	} else if tlsInsecure {
		tlsConfig = &tls.Config{InsecureSkipVerify: true}
	}

	return asynq.RedisClientOpt{
		Addr:      opt.Addr,
		Password:  opt.Password,
		DB:        opt.DB,
		TLSConfig: tlsConfig,
	}, nil
}
