package repository

import (
	"context"
	"time"

	"studiojb-backend/models"

	"gorm.io/gorm"
)

type gormKits struct{ db *gorm.DB }

func (r *gormKits) Create(ctx context.Context, k *models.PromotionalKit) error {
	return r.db.WithContext(ctx).Create(k).Error
}

func (r *gormKits) FindByID(ctx context.Context, id uint) (*models.PromotionalKit, error) {
	var k models.PromotionalKit
	if err := r.db.WithContext(ctx).First(&k, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &k, nil
}

func (r *gormKits) List(ctx context.Context, activeOnly bool) ([]models.PromotionalKit, error) {
	q := r.db.WithContext(ctx).Order("created_at DESC")
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}
	var kits []models.PromotionalKit
	if err := q.Find(&kits).Error; err != nil {
		return nil, err
	}
	return kits, nil
}

func (r *gormKits) Save(ctx context.Context, k *models.PromotionalKit) error {
	return r.db.WithContext(ctx).Save(k).Error
}

type gormDebtPayments struct{ db *gorm.DB }

func (r *gormDebtPayments) Create(ctx context.Context, p *models.DebtPayment) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *gormDebtPayments) ListByAppointment(ctx context.Context, appointmentID uint) ([]models.DebtPayment, error) {
	var payments []models.DebtPayment
	err := r.db.WithContext(ctx).
		Where("appointment_id = ?", appointmentID).
		Order("payment_date DESC").
		Find(&payments).Error
	return payments, err
}

type gormHistory struct{ db *gorm.DB }

func (r *gormHistory) Create(ctx context.Context, h *models.AppointmentHistory) error {
	return r.db.WithContext(ctx).Create(h).Error
}

func (r *gormHistory) ListByAppointment(ctx context.Context, appointmentID uint) ([]models.AppointmentHistory, error) {
	var history []models.AppointmentHistory
	err := r.db.WithContext(ctx).
		Where("appointment_id = ?", appointmentID).
		Order("changed_at DESC").
		Find(&history).Error
	return history, err
}

type gormUsers struct{ db *gorm.DB }

func (r *gormUsers) Create(ctx context.Context, u *models.User) error {
	return r.db.WithContext(ctx).Create(u).Error
}

func (r *gormUsers) FindByID(ctx context.Context, id uint) (*models.User, error) {
	var u models.User
	if err := r.db.WithContext(ctx).First(&u, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &u, nil
}

func (r *gormUsers) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	var u models.User
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&u).Error; err != nil {
		return nil, notFound(err)
	}
	return &u, nil
}

func (r *gormUsers) TouchLastLogin(ctx context.Context, id uint, at time.Time) error {
	return r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Update("last_login", at).Error
}

type gormNotifications struct{ db *gorm.DB }

func (r *gormNotifications) FindTemplate(ctx context.Context, kind string) (*models.NotificationTemplate, error) {
	var t models.NotificationTemplate
	if err := r.db.WithContext(ctx).Where("type = ? AND is_active = ?", kind, true).First(&t).Error; err != nil {
		return nil, notFound(err)
	}
	return &t, nil
}

func (r *gormNotifications) SaveTemplate(ctx context.Context, t *models.NotificationTemplate) error {
	return r.db.WithContext(ctx).Save(t).Error
}

func (r *gormNotifications) ListTemplates(ctx context.Context) ([]models.NotificationTemplate, error) {
	var templates []models.NotificationTemplate
	err := r.db.WithContext(ctx).Order("type ASC").Find(&templates).Error
	return templates, err
}

func (r *gormNotifications) CreateLog(ctx context.Context, l *models.NotificationLog) error {
	return r.db.WithContext(ctx).Create(l).Error
}
