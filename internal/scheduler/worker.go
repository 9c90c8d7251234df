package scheduler

import (
	"context"
	"fmt"

	"magnetlab_backend/internal/email"
	"magnetlab_backend/internal/webhooks"
	"magnetlab_backend/platform/config"
	"magnetlab_backend/platform/logger"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

// WebhookDeliverer posts one signed event to one endpoint.
type WebhookDeliverer interface {
	Deliver(ctx context.Context, ev webhooks.OutboundEvent) error
}

// Processor runs the task handlers. Every handler consults the ledger first,
// so a retried task never repeats a side effect that already succeeded.
type Processor struct {
	sender   email.Sender
	webhooks WebhookDeliverer
	ledger   Ledger
	log      *logger.Logger
}

func NewProcessor(sender email.Sender, deliverer WebhookDeliverer, ledger Ledger, log *logger.Logger) *Processor {
	return &Processor{sender: sender, webhooks: deliverer, ledger: ledger, log: log}
}

func (p *Processor) HandleOwnerEmail(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseOwnerEmailPayload(task)
	if err != nil {
		return fmt.Errorf("parse owner email payload: %v: %w", err, asynq.SkipRetry)
	}

	return p.once(ctx, payload.IdempotencyKey(), func() error {
		lead := email.LeadNotification{
			OwnerName:    payload.OwnerName,
			LeadEmail:    payload.LeadEmail,
			LeadName:     payload.LeadName,
			FunnelTitle:  payload.FunnelTitle,
			DashboardURL: payload.DashboardURL,
		}
		switch payload.Kind {
		case OwnerEmailLeadCaptured:
			return p.sender.SendLeadCapturedEmail(ctx, payload.ToEmail, lead)
		case OwnerEmailLeadQualified:
			return p.sender.SendLeadQualifiedEmail(ctx, payload.ToEmail, lead)
		default:
			return fmt.Errorf("unknown owner email kind %q: %w", payload.Kind, asynq.SkipRetry)
		}
	})
}

func (p *Processor) HandleWebhookDelivery(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseWebhookDeliveryPayload(task)
	if err != nil {
		return fmt.Errorf("parse webhook payload: %v: %w", err, asynq.SkipRetry)
	}

	endpointID, err := uuid.Parse(payload.EndpointID)
	if err != nil {
		return fmt.Errorf("parse endpoint id: %v: %w", err, asynq.SkipRetry)
	}
	eventID, err := uuid.Parse(payload.EventID)
	if err != nil {
		return fmt.Errorf("parse event id: %v: %w", err, asynq.SkipRetry)
	}

	return p.once(ctx, payload.IdempotencyKey(), func() error {
		return p.webhooks.Deliver(ctx, webhooks.OutboundEvent{
			EndpointID: endpointID,
			EventID:    eventID,
			EventType:  payload.EventType,
			Payload:    payload.Body,
		})
	})
}

func (p *Processor) once(ctx context.Context, key string, fn func() error) error {
	done, err := p.ledger.Delivered(ctx, key)
	if err != nil {
		return err
	}
	if done {
		p.log.Info("task already delivered, skipping", "key", key)
		return nil
	}

	if err := fn(); err != nil {
		return err
	}

	if err := p.ledger.MarkDelivered(ctx, key); err != nil {
		// The side effect happened; a retry here would repeat it.
		p.log.Error("failed to record delivery", "key", key, "error", err)
	}
	return nil
}

type Worker struct {
	server *asynq.Server
	mux    *asynq.ServeMux
	log    *logger.Logger
}

func NewWorker(cfg config.SchedulerConfig, processor *Processor, log *logger.Logger) (*Worker, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL, cfg.GetRedisTLSInsecure())
	if err != nil {
		return nil, err
	}

	concurrency := cfg.GetAsynqConcurrency()
	if concurrency < 1 {
		concurrency = defaultConcurrency
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			queueName(cfg): 1,
		},
	})

	mux := asynq.NewServeMux()
	mux.HandleFunc(TaskOwnerEmail, processor.HandleOwnerEmail)
	mux.HandleFunc(TaskWebhookDelivery, processor.HandleWebhookDelivery)

	return &Worker{
		server: server,
		mux:    mux,
		log:    log,
	}, nil
}

func (w *Worker) Run(ctx context.Context) {
	if w == nil || w.server == nil {
		return
	}

	go func() {
		<-ctx.Done()
		w.server.Shutdown()
	}()

	if err := w.server.Run(w.mux); err != nil {
		w.log.Error("scheduler worker stopped", "error", err)
	}
}
