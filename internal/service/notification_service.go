package service

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/campusvoice/issue-service/internal/config"
	"github.com/campusvoice/issue-service/internal/events"
)

// NotificationService turns domain events into user-facing notifications:
// a structured "toast" log line, an optional email stub and an optional
// webhook delivery.
type NotificationService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	cfg        config.NotificationConfig
	client     *resty.Client
}

// NewNotificationService creates the service. A nil client gets a default one
// bounded by the configured webhook timeout.
func NewNotificationService(dispatcher events.Dispatcher, logger *zap.Logger, cfg config.NotificationConfig, client *resty.Client) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if client == nil {
		client = resty.NewWithClient(&http.Client{Timeout: cfg.WebhookTimeout()})
	}
	return &NotificationService{
		dispatcher: dispatcher,
		logger:     logger,
		cfg:        cfg,
		client:     client,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventSessionStarted, n.handleSession)
	n.dispatcher.Subscribe(events.EventSessionEnded, n.handleSession)
	n.dispatcher.Subscribe(events.EventIssueSubmitted, n.handleIssueSubmitted)
	n.dispatcher.Subscribe(events.EventIssueStatusChanged, n.handleIssueChanged)
	n.dispatcher.Subscribe(events.EventIssuePriorityChanged, n.handleIssueChanged)
	n.dispatcher.Subscribe(events.EventIssueAssigned, n.handleIssueChanged)
	n.dispatcher.Subscribe(events.EventIssueCommentAdded, n.handleCommentAdded)
	n.dispatcher.Subscribe(events.EventIssueRated, n.handleIssueChanged)
}

func (n *NotificationService) handleSession(_ context.Context, event events.Event) error {
	n.toast(event)
	return nil
}

func (n *NotificationService) handleIssueSubmitted(ctx context.Context, event events.Event) error {
	n.toast(event)
	n.sendEmailNotificationStub(ctx, event)
	return n.sendWebhook(ctx, event)
}

func (n *NotificationService) handleIssueChanged(ctx context.Context, event events.Event) error {
	n.toast(event)
	return n.sendWebhook(ctx, event)
}

func (n *NotificationService) handleCommentAdded(ctx context.Context, event events.Event) error {
	n.toast(event)
	n.sendEmailNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) toast(event events.Event) {
	n.logger.Info(event.Message,
		zap.String("event_type", string(event.Type)),
		zap.String("issue_id", event.IssueID),
		zap.String("actor_id", event.Actor.ID),
		zap.String("actor_role", string(event.Actor.Role)),
		zap.Any("payload", event.Payload))
}

func (n *NotificationService) sendEmailNotificationStub(_ context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.EmailFrom) == "" {
		return
	}
	n.logger.Debug("sendEmailNotificationStub",
		zap.String("from", n.cfg.EmailFrom),
		zap.String("issue_id", event.IssueID),
		zap.String("event_type", string(event.Type)))
}

// sendWebhook posts the event as JSON when a webhook URL is configured.
func (n *NotificationService) sendWebhook(ctx context.Context, event events.Event) error {
	url := strings.TrimSpace(n.cfg.WebhookURL)
	if url == "" {
		return nil
	}
	resp, err := n.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(event).
		Post(url)
	if err != nil {
		n.logger.Warn("webhook delivery failed", zap.String("event_type", string(event.Type)), zap.Error(err))
		return fmt.Errorf("resty.Client.Post: %w", err)
	}
	if resp.IsError() {
		n.logger.Warn("webhook rejected event",
			zap.String("event_type", string(event.Type)),
			zap.Int("status", resp.StatusCode()))
		return fmt.Errorf("webhook responded %d", resp.StatusCode())
	}
	return nil
}
