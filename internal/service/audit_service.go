package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/employee-service/internal/config"
	"github.com/spec-kit/employee-service/internal/events"
)

// AuditRecorder persists events; *audit.Log satisfies it.
type AuditRecorder interface {
	Append(event events.Event) (uint64, error)
}

// AuditService records employee change events.
type AuditService struct {
	dispatcher events.Dispatcher
	recorder   AuditRecorder
	logger     *zap.Logger
	cfg        config.AuditConfig
}

// NewAuditService creates the service. recorder may be nil, in which case events are only logged.
func NewAuditService(dispatcher events.Dispatcher, recorder AuditRecorder, logger *zap.Logger, cfg config.AuditConfig) *AuditService {
	return &AuditService{
		dispatcher: dispatcher,
		recorder:   recorder,
		logger:     logger,
		cfg:        cfg,
	}
}

// RegisterHandlers subscribes to events.
func (a *AuditService) RegisterHandlers() {
	if a.dispatcher == nil {
		return
	}
	a.dispatcher.Subscribe(events.EventEmployeeCreated, a.handleEmployeeEvent)
	a.dispatcher.Subscribe(events.EventEmployeeUpdated, a.handleEmployeeEvent)
	a.dispatcher.Subscribe(events.EventEmployeeDeleted, a.handleEmployeeEvent)
}

func (a *AuditService) handleEmployeeEvent(ctx context.Context, event events.Event) error {
	fields := []zap.Field{
		zap.String("event_id", event.ID),
		zap.String("event_type", string(event.Type)),
		zap.Int64("employee_id", event.EmployeeID),
	}
	if event.Actor.Subject != "" {
		fields = append(fields, zap.String("actor", event.Actor.Subject))
	}
	if event.Actor.RequestID != "" {
		fields = append(fields, zap.String("request_id", event.Actor.RequestID))
	}
	a.logger.Info("employee changed", fields...)

	a.sendWebhookNotificationStub(ctx, event)

	if a.recorder == nil {
		return nil
	}
	index, err := a.recorder.Append(event)
	if err != nil {
		return err
	}
	a.logger.Debug("audit entry written", zap.Uint64("index", index), zap.String("event_id", event.ID))
	return nil
}

func (a *AuditService) sendWebhookNotificationStub(_ context.Context, event events.Event) {
	if strings.TrimSpace(a.cfg.WebhookURL) == "" {
		return
	}
	a.logger.Debug("sendWebhookNotificationStub",
		zap.String("url", a.cfg.WebhookURL),
		zap.Int64("employee_id", event.EmployeeID),
		zap.String("event_type", string(event.Type)))
}
