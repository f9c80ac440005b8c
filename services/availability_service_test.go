package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"studiojb-backend/models"
	"studiojb-backend/repository/repotest"
)

func TestCandidateSlots(t *testing.T) {
	monday := CandidateSlots(mustDate(t, "2024-03-04"))
	assert.Len(t, monday, 20)
	assert.Equal(t, "09:00", monday[0])
	assert.Equal(t, "18:30", monday[len(monday)-1])

	tuesday := CandidateSlots(mustDate(t, "2024-03-05"))
	assert.Len(t, tuesday, 22)
	assert.Equal(t, "08:00", tuesday[0])
	assert.Equal(t, "08:30", tuesday[1])
	assert.Equal(t, "18:30", tuesday[len(tuesday)-1])

	for i := 1; i < len(tuesday); i++ {
		assert.Less(t, tuesday[i-1], tuesday[i])
	}
}

func newAvailability(store *repotest.Store) *AvailabilityService {
	repos := store.Repositories()
	return NewAvailabilityService(repos.Services, repos.Appointments)
}

func TestListAvailableSlotsRemovesOccupied(t *testing.T) {
	store := repotest.NewStore()
	svc := store.AddService(haircut())
	day := mustDate(t, "2024-03-05")

	store.AddAppointment(models.Appointment{AppointmentDate: day, AppointmentTime: "10:00", Status: models.StatusConfirmed})
	store.AddAppointment(models.Appointment{AppointmentDate: day, AppointmentTime: "14:30:00", Status: models.StatusPending})
	store.AddAppointment(models.Appointment{AppointmentDate: day, AppointmentTime: "11:00", Status: models.StatusCancelledByClient})
	store.AddAppointment(models.Appointment{AppointmentDate: day, AppointmentTime: "11:30", Status: models.StatusCancelledBySalon})
	store.AddAppointment(models.Appointment{AppointmentDate: mustDate(t, "2024-03-06"), AppointmentTime: "09:00", Status: models.StatusConfirmed})

	slots, err := newAvailability(store).ListAvailableSlots(context.Background(), day, svc.ID)
	require.NoError(t, err)

	assert.Len(t, slots, 20)
	assert.NotContains(t, slots, "10:00")
	assert.NotContains(t, slots, "14:30")
	assert.Contains(t, slots, "11:00")
	assert.Contains(t, slots, "11:30")
	assert.Contains(t, slots, "09:00")
}

func TestListAvailableSlotsMatchesSingleChecks(t *testing.T) {
	store := repotest.NewStore()
	svc := store.AddService(haircut())
	day := mustDate(t, "2024-03-04")
	for _, slot := range []string{"09:00", "12:30", "18:30"} {
		store.AddAppointment(models.Appointment{AppointmentDate: day, AppointmentTime: slot, Status: models.StatusPendingPayment})
	}
	availability := newAvailability(store)
	ctx := context.Background()

	slots, err := availability.ListAvailableSlots(ctx, day, svc.ID)
	require.NoError(t, err)

	var expected []string
	for _, slot := range CandidateSlots(day) {
		ok, err := availability.IsSlotAvailable(ctx, day, slot, svc.ID)
		require.NoError(t, err)
		if ok {
			expected = append(expected, slot)
		}
	}
	assert.Equal(t, expected, slots)
}

func TestConcurrentServiceIgnoresOccupancy(t *testing.T) {
	store := repotest.NewStore()
	nails := haircut()
	nails.Category = models.CategoryNails
	nails.CanBeConcurrent = true
	svc := store.AddService(nails)
	day := mustDate(t, "2024-03-05")
	store.AddAppointment(models.Appointment{AppointmentDate: day, AppointmentTime: "10:00", Status: models.StatusConfirmed})

	availability := newAvailability(store)
	slots, err := availability.ListAvailableSlots(context.Background(), day, svc.ID)
	require.NoError(t, err)
	assert.Equal(t, CandidateSlots(day), slots)

	ok, err := availability.IsSlotAvailable(context.Background(), day, "10:00", svc.ID)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestUnknownServiceHasNoSlots(t *testing.T) {
	availability := newAvailability(repotest.NewStore())
	day := mustDate(t, "2024-03-05")

	slots, err := availability.ListAvailableSlots(context.Background(), day, 99)
	require.NoError(t, err)
	assert.Empty(t, slots)

	ok, err := availability.IsSlotAvailable(context.Background(), day, "10:00", 99)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestListAvailableSlotsPropagatesStoreErrors(t *testing.T) {
	store := repotest.NewStore()
	svc := store.AddService(haircut())
	boom := errors.New("connection reset")
	store.FailAppointments = boom

	_, err := newAvailability(store).ListAvailableSlots(context.Background(), mustDate(t, "2024-03-05"), svc.ID)
	assert.ErrorIs(t, err, boom)
}

func TestCheckSpecialServiceAvailability(t *testing.T) {
	store := repotest.NewStore()
	day := mustDate(t, "2024-03-05")
	store.AddAppointment(models.Appointment{
		AppointmentDate: day, AppointmentTime: "09:00", Status: models.StatusConfirmed,
		IsMechas: true, MechasPeriod: models.PeriodMorning,
	})
	store.AddAppointment(models.Appointment{
		AppointmentDate: day, AppointmentTime: "14:00", Status: models.StatusCancelledBySalon,
		IsSelagem: true, SelagemPeriod: models.PeriodAfternoon,
	})
	availability := newAvailability(store)
	ctx := context.Background()

	free, err := availability.CheckSpecialServiceAvailability(ctx, day, models.SpecialMechas, models.PeriodMorning)
	require.NoError(t, err)
	assert.False(t, free)

	free, err = availability.CheckSpecialServiceAvailability(ctx, day, models.SpecialMechas, models.PeriodAfternoon)
	require.NoError(t, err)
	assert.True(t, free)

	free, err = availability.CheckSpecialServiceAvailability(ctx, day, models.SpecialSelagem, models.PeriodAfternoon)
	require.NoError(t, err)
	assert.True(t, free, "cancelled selagem does not hold the period")
}
