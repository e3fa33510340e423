package scheduler

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"
	qrcode "github.com/skip2/go-qrcode"

	directoryrepo "tripdesk_backend/internal/directory/repository"
	"tripdesk_backend/internal/email"
	"tripdesk_backend/platform/config"
	"tripdesk_backend/platform/logger"
)

// Worker consumes notification tasks and delivers the emails.
type Worker struct {
	server *asynq.Server
	mux    *asynq.ServeMux
	agents directoryrepo.AgentReader
	mail   email.Sender
	cfg    config.NotificationConfig
	log    *logger.Logger
}

// NewWorker creates the asynq worker with all task handlers registered.
func NewWorker(cfg config.SchedulerConfig, notifCfg config.NotificationConfig, pool *pgxpool.Pool, mail email.Sender, log *logger.Logger) (*Worker, error) {
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

	concurrency := cfg.GetAsynqConcurrency()
	if concurrency < 1 {
		concurrency = 10
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			queue: 1,
		},
	})

	mux := asynq.NewServeMux()
	w := &Worker{
		server: server,
		mux:    mux,
		agents: directoryrepo.New(pool),
		mail:   mail,
		cfg:    notifCfg,
		log:    log,
	}

	mux.HandleFunc(TaskAssignmentNotice, w.handleAssignmentNotice)
	mux.HandleFunc(TaskBookingConfirmation, w.handleBookingConfirmation)
	mux.HandleFunc(TaskLeadReceived, w.handleLeadReceived)

	return w, nil
}

// Run blocks until ctx is cancelled.
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

func (w *Worker) handleAssignmentNotice(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseAssignmentNoticePayload(task)
	if err != nil {
		return err
	}

	agentID, err := uuid.Parse(payload.AgentID)
	if err != nil {
		return err
	}

	agent, err := w.agents.GetByID(ctx, agentID)
	if err != nil {
		return err
	}

	detailURL := w.detailURL(payload.WorkItemType, payload.WorkItemID)
	if err := w.mail.SendAssignmentNoticeEmail(ctx, agent.Email, agent.Name, payload.WorkItemType, payload.CustomerName, detailURL); err != nil {
		w.log.NotificationError("email", agent.Email, err)
		return err
	}
	return nil
}

func (w *Worker) handleBookingConfirmation(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseBookingConfirmationPayload(task)
	if err != nil {
		return err
	}

	var attachments []email.Attachment
	qr, err := qrcode.Encode(payload.Reference, qrcode.Medium, 256)
	if err != nil {
		// A failed QR render should not block the confirmation itself.
		w.log.Error("booking confirmation qr render failed", "reference", payload.Reference, "error", err)
	} else {
		attachments = append(attachments, email.Attachment{
			FileName: payload.Reference + ".png",
			Content:  qr,
		})
	}

	if err := w.mail.SendBookingConfirmationEmail(ctx, payload.CustomerEmail, payload.CustomerName, payload.Reference, payload.PackageName, attachments...); err != nil {
		w.log.NotificationError("email", payload.CustomerEmail, err)
		return err
	}
	return nil
}

func (w *Worker) handleLeadReceived(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseLeadReceivedPayload(task)
	if err != nil {
		return err
	}

	if err := w.mail.SendLeadReceivedEmail(ctx, payload.CustomerEmail, payload.CustomerName); err != nil {
		w.log.NotificationError("email", payload.CustomerEmail, err)
		return err
	}
	return nil
}

func (w *Worker) detailURL(workItemType, workItemID string) string {
	base := strings.TrimRight(w.cfg.GetAppBaseURL(), "/")
	switch workItemType {
	case "booking":
		return base + "/bookings/" + workItemID
	default:
		return base + "/leads/" + workItemID
	}
}
