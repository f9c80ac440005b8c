// services/availability_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"studiojb-backend/repository"
)

const (
	slotStep     = 30 // minutes
	mondayStart  = 9
	defaultStart = 8
	closingHour  = 18
)

// AvailabilityService computes the bookable slots of a day.
type AvailabilityService struct {
	services     repository.ServiceRepository
	appointments repository.AppointmentRepository
}

func NewAvailabilityService(services repository.ServiceRepository, appointments repository.AppointmentRepository) *AvailabilityService {
	return &AvailabilityService{services: services, appointments: appointments}
}

// CandidateSlots returns every slot the salon offers on date, ascending.
// Mondays open at 09:00, other days at 08:00; the last slot is 18:30.
func CandidateSlots(date time.Time) []string {
	startHour := defaultStart
	if date.Weekday() == time.Monday {
		startHour = mondayStart
	}

	var slots []string
	for hour := startHour; hour <= closingHour; hour++ {
		for minute := 0; minute < 60; minute += slotStep {
			if hour == closingHour && minute > 30 {
				break
			}
			slots = append(slots, fmt.Sprintf("%02d:%02d", hour, minute))
		}
	}
	return slots
}

// ListAvailableSlots returns the slots of date still open for serviceID.
// The day's occupied times are read once; the outcome is the same as
// checking each slot with IsSlotAvailable.
func (s *AvailabilityService) ListAvailableSlots(ctx context.Context, date time.Time, serviceID uint) ([]string, error) {
	service, err := s.services.FindByID(ctx, serviceID)
	if errors.Is(err, repository.ErrNotFound) {
		return []string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load service %d: %w", serviceID, err)
	}

	candidates := CandidateSlots(date)
	if service.CanBeConcurrent {
		return candidates, nil
	}

	occupied, err := s.appointments.OccupiedTimes(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("load appointments: %w", err)
	}
	taken := make(map[string]struct{}, len(occupied))
	for _, t := range occupied {
		taken[normalizeSlot(t)] = struct{}{}
	}

	available := make([]string, 0, len(candidates))
	for _, slot := range candidates {
		if _, ok := taken[slot]; !ok {
			available = append(available, slot)
		}
	}
	return available, nil
}

// IsSlotAvailable checks a single slot. Unknown services are never available.
func (s *AvailabilityService) IsSlotAvailable(ctx context.Context, date time.Time, slot string, serviceID uint) (bool, error) {
	service, err := s.services.FindByID(ctx, serviceID)
	if errors.Is(err, repository.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("load service %d: %w", serviceID, err)
	}
	if service.CanBeConcurrent {
		return true, nil
	}

	n, err := s.appointments.CountActiveAt(ctx, date, slot)
	if err != nil {
		return false, fmt.Errorf("count appointments at %s: %w", slot, err)
	}
	return n == 0, nil
}

// CheckSpecialServiceAvailability reports whether the period of date is still
// free for a special service type (mechas or selagem).
func (s *AvailabilityService) CheckSpecialServiceAvailability(ctx context.Context, date time.Time, specialType, period string) (bool, error) {
	booked, err := s.appointments.ListSpecial(ctx, date, specialType, period)
	if err != nil {
		return false, fmt.Errorf("load %s appointments: %w", specialType, err)
	}
	return len(booked) == 0, nil
}

// normalizeSlot trims seconds some drivers append to time columns.
func normalizeSlot(t string) string {
	if len(t) > 5 {
		return t[:5]
	}
	return t
}
