package repository

import (
	"context"
	"time"

	"studiojb-backend/models"
	"studiojb-backend/utils"

	"gorm.io/gorm"
)

type gormAppointments struct{ db *gorm.DB }

func (r *gormAppointments) Create(ctx context.Context, a *models.Appointment) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *gormAppointments) FindByID(ctx context.Context, id uint) (*models.Appointment, error) {
	var a models.Appointment
	err := r.db.WithContext(ctx).
		Preload("Client").
		Preload("Service").
		First(&a, "id = ?", id).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &a, nil
}

func (r *gormAppointments) List(ctx context.Context, f AppointmentFilter) ([]models.Appointment, error) {
	q := r.db.WithContext(ctx).Model(&models.Appointment{}).
		Preload("Client").
		Preload("Service")
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.ClientID != 0 {
		q = q.Where("client_id = ?", f.ClientID)
	}
	if f.From != nil {
		q = q.Where("appointment_date >= ?", f.From.Format(utils.DateLayout))
	}
	if f.To != nil {
		q = q.Where("appointment_date <= ?", f.To.Format(utils.DateLayout))
	}
	if f.ClientID != 0 {
		// a client's history reads newest first
		q = q.Order("appointment_date DESC")
	} else {
		q = q.Order("appointment_date ASC").Order("appointment_time ASC")
	}
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}

	var appointments []models.Appointment
	if err := q.Find(&appointments).Error; err != nil {
		return nil, err
	}
	return appointments, nil
}

func (r *gormAppointments) Update(ctx context.Context, id uint, updates map[string]interface{}) error {
	res := r.db.WithContext(ctx).Model(&models.Appointment{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *gormAppointments) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.Appointment{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *gormAppointments) CountActiveAt(ctx context.Context, date time.Time, slot string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Appointment{}).
		Where("appointment_date = ? AND appointment_time = ?", date.Format(utils.DateLayout), slot).
		Where("status NOT IN ?", models.CancelledStatuses).
		Count(&n).Error
	return n, err
}

func (r *gormAppointments) OccupiedTimes(ctx context.Context, date time.Time) ([]string, error) {
	var times []string
	err := r.db.WithContext(ctx).Model(&models.Appointment{}).
		Where("appointment_date = ?", date.Format(utils.DateLayout)).
		Where("status NOT IN ?", models.CancelledStatuses).
		Pluck("appointment_time", &times).Error
	return times, err
}

func (r *gormAppointments) ListSpecial(ctx context.Context, date time.Time, specialType, period string) ([]models.Appointment, error) {
	flag, periodColumn := "is_selagem", "selagem_period"
	if specialType == models.SpecialMechas {
		flag, periodColumn = "is_mechas", "mechas_period"
	}
	var appointments []models.Appointment
	err := r.db.WithContext(ctx).
		Where("appointment_date = ?", date.Format(utils.DateLayout)).
		Where(flag+" = ?", true).
		Where(periodColumn+" = ?", period).
		Where("status NOT IN ?", models.CancelledStatuses).
		Find(&appointments).Error
	return appointments, err
}
