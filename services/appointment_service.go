package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"studiojb-backend/models"
	"studiojb-backend/repository"
)

var ErrInvalidTransition = errors.New("invalid status transition")

// Notifier sends client-facing messages about an appointment.
type Notifier interface {
	SendConfirmation(ctx context.Context, appointmentID uint)
}

type noopNotifier struct{}

func (noopNotifier) SendConfirmation(context.Context, uint) {}

// AppointmentService applies status changes and records them in the
// appointment history.
type AppointmentService struct {
	appointments repository.AppointmentRepository
	history      repository.HistoryRepository
	notifier     Notifier
	logger       *slog.Logger
}

func NewAppointmentService(appointments repository.AppointmentRepository, history repository.HistoryRepository, notifier Notifier, logger *slog.Logger) *AppointmentService {
	if notifier == nil {
		notifier = noopNotifier{}
	}
	return &AppointmentService{appointments: appointments, history: history, notifier: notifier, logger: logger}
}

// CanTransition reports whether an appointment may move from one status to
// another.
func CanTransition(from, to string) bool {
	switch to {
	case models.StatusConfirmed:
		return from == models.StatusPending || from == models.StatusPendingPayment
	case models.StatusCompleted:
		return from == models.StatusConfirmed
	case models.StatusCancelledByClient, models.StatusCancelledBySalon:
		return from != models.StatusCompleted && !models.IsCancelled(from)
	}
	return false
}

// ChangeStatus moves an appointment to status. extra columns are written in
// the same update.
func (s *AppointmentService) ChangeStatus(ctx context.Context, id uint, status, changedBy, reason string, extra map[string]interface{}) (*models.Appointment, error) {
	current, err := s.appointments.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !CanTransition(current.Status, status) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, current.Status, status)
	}

	updates := map[string]interface{}{"status": status}
	for k, v := range extra {
		updates[k] = v
	}
	if err := s.appointments.Update(ctx, id, updates); err != nil {
		return nil, fmt.Errorf("update appointment %d: %w", id, err)
	}

	if err := s.history.Create(ctx, &models.AppointmentHistory{
		AppointmentID: id,
		OldStatus:     current.Status,
		NewStatus:     status,
		ChangedBy:     changedBy,
		Reason:        reason,
	}); err != nil {
		// history is best effort once the status is written
		s.logger.Error("failed to record appointment history", "appointment_id", id, "err", err)
	}

	s.logger.Info("appointment status changed",
		"appointment_id", id,
		"from", current.Status,
		"to", status,
		"changed_by", changedBy,
	)

	if status == models.StatusConfirmed {
		s.notifier.SendConfirmation(ctx, id)
	}

	return s.appointments.FindByID(ctx, id)
}

// RecordCreation writes the initial history row of a new appointment.
func (s *AppointmentService) RecordCreation(ctx context.Context, a *models.Appointment, changedBy string) {
	if err := s.history.Create(ctx, &models.AppointmentHistory{
		AppointmentID: a.ID,
		NewStatus:     a.Status,
		ChangedBy:     changedBy,
	}); err != nil {
		s.logger.Error("failed to record appointment history", "appointment_id", a.ID, "err", err)
	}
}
