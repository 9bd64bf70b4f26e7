// Package jobs contains the asynchronous task definitions and the Asynq
// worker runtime.
package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/centavo-sv/centavo/internal/payroll"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskTypePayrollRun executes a payroll run for one organization.
	TaskTypePayrollRun = "payroll:run"
	// TaskTypeInvoiceOverdueScan flags issued invoices past their due date.
	TaskTypeInvoiceOverdueScan = "invoices:overdue-scan"
	// TaskTypeSendEmail sends transactional notifications.
	TaskTypeSendEmail = "mail:send"
)

// PayrollRunPayload identifies the run to execute.
type PayrollRunPayload struct {
	OrgID   int64  `json:"org_id"`
	Period  string `json:"period"`
	ActorID int64  `json:"actor_id"`
}

// NewPayrollRunTask constructs an Asynq task for a payroll run.
func NewPayrollRunTask(payload PayrollRunPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypePayrollRun, data, asynq.MaxRetry(3)), nil
}

// PayrollRunner executes a payroll run. Implemented by the payroll service.
type PayrollRunner interface {
	RunPayroll(ctx context.Context, orgID int64, period string, actorID int64) (payroll.Run, []payroll.Payslip, error)
}

// NewPayrollRunHandler returns the Asynq handler for payroll runs.
func NewPayrollRunHandler(runner PayrollRunner, logger *slog.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		var payload PayrollRunPayload
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return asynq.SkipRetry
		}
		if _, _, err := runner.RunPayroll(ctx, payload.OrgID, payload.Period, payload.ActorID); err != nil {
			if errors.Is(err, payroll.ErrRunExists) {
				// A run for the period already landed, nothing to redo.
				return nil
			}
			logger.Error("payroll run task failed",
				slog.Int64("org_id", payload.OrgID),
				slog.String("period", payload.Period),
				slog.Any("error", err))
			return err
		}
		logger.Info("payroll run completed",
			slog.Int64("org_id", payload.OrgID),
			slog.String("period", payload.Period))
		return nil
	}
}

// OverdueMarker flags overdue invoices. Implemented by the invoices service.
type OverdueMarker interface {
	MarkOverdue(ctx context.Context, asOf time.Time) (int64, error)
}

// NewInvoiceOverdueScanTask constructs the cron task for the overdue scan.
func NewInvoiceOverdueScanTask() *asynq.Task {
	return asynq.NewTask(TaskTypeInvoiceOverdueScan, nil)
}

// NewInvoiceOverdueScanHandler returns the Asynq handler for the nightly scan.
func NewInvoiceOverdueScanHandler(marker OverdueMarker, logger *slog.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		flagged, err := marker.MarkOverdue(ctx, time.Now().UTC())
		if err != nil {
			logger.Error("invoice overdue scan failed", slog.Any("error", err))
			return err
		}
		logger.Info("invoice overdue scan completed", slog.Int64("flagged", flagged))
		return nil
	}
}

// SendEmailPayload describes the information required to send an email.
type SendEmailPayload struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// NewSendEmailTask constructs an Asynq task.
func NewSendEmailTask(payload SendEmailPayload) (*asynq.Task, error) {
	if payload.To == "" {
		return nil, errors.New("jobs: email recipient required")
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypeSendEmail, data), nil
}

// NewSendEmailHandler returns the Asynq handler for outbound mail.
func NewSendEmailHandler(logger *slog.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		var payload SendEmailPayload
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return asynq.SkipRetry
		}
		// TODO: wire an SMTP relay once the notifications service lands.
		logger.Info("send email",
			slog.String("to", payload.To),
			slog.String("subject", payload.Subject))
		return nil
	}
}
