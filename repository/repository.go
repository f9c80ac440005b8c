// Package repository is the narrow query/command surface the booking and
// admin code uses to reach the database.
package repository

import (
	"context"
	"errors"
	"time"

	"studiojb-backend/models"

	"gorm.io/gorm"
)

var ErrNotFound = errors.New("record not found")

type ServiceRepository interface {
	Create(ctx context.Context, s *models.Service) error
	FindByID(ctx context.Context, id uint) (*models.Service, error)
	List(ctx context.Context, category string, activeOnly bool) ([]models.Service, error)
	Save(ctx context.Context, s *models.Service) error
	Delete(ctx context.Context, id uint) error
}

// AppointmentFilter narrows admin listings. Zero values mean "any".
type AppointmentFilter struct {
	Status   string
	ClientID uint
	From     *time.Time
	To       *time.Time
	Limit    int
}

type AppointmentRepository interface {
	Create(ctx context.Context, a *models.Appointment) error
	FindByID(ctx context.Context, id uint) (*models.Appointment, error)
	List(ctx context.Context, f AppointmentFilter) ([]models.Appointment, error)
	Update(ctx context.Context, id uint, updates map[string]interface{}) error
	Delete(ctx context.Context, id uint) error

	// CountActiveAt counts appointments at date+time that are not cancelled.
	CountActiveAt(ctx context.Context, date time.Time, slot string) (int64, error)
	// OccupiedTimes returns the times of every non-cancelled appointment on date.
	OccupiedTimes(ctx context.Context, date time.Time) ([]string, error)
	// ListSpecial returns non-cancelled appointments on date booked for a
	// special service type in the given period.
	ListSpecial(ctx context.Context, date time.Time, specialType, period string) ([]models.Appointment, error)
}

type ClientRepository interface {
	Create(ctx context.Context, c *models.Client) error
	FindByID(ctx context.Context, id uint) (*models.Client, error)
	FindByPhone(ctx context.Context, phone string) (*models.Client, error)
	FindByCPF(ctx context.Context, cpf string) (*models.Client, error)
	List(ctx context.Context) ([]models.Client, error)
	Save(ctx context.Context, c *models.Client) error
}

type KitRepository interface {
	Create(ctx context.Context, k *models.PromotionalKit) error
	FindByID(ctx context.Context, id uint) (*models.PromotionalKit, error)
	List(ctx context.Context, activeOnly bool) ([]models.PromotionalKit, error)
	Save(ctx context.Context, k *models.PromotionalKit) error
}

type DebtPaymentRepository interface {
	Create(ctx context.Context, p *models.DebtPayment) error
	ListByAppointment(ctx context.Context, appointmentID uint) ([]models.DebtPayment, error)
}

type HistoryRepository interface {
	Create(ctx context.Context, h *models.AppointmentHistory) error
	ListByAppointment(ctx context.Context, appointmentID uint) ([]models.AppointmentHistory, error)
}

type UserRepository interface {
	Create(ctx context.Context, u *models.User) error
	FindByID(ctx context.Context, id uint) (*models.User, error)
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	TouchLastLogin(ctx context.Context, id uint, at time.Time) error
}

type NotificationRepository interface {
	FindTemplate(ctx context.Context, kind string) (*models.NotificationTemplate, error)
	SaveTemplate(ctx context.Context, t *models.NotificationTemplate) error
	ListTemplates(ctx context.Context) ([]models.NotificationTemplate, error)
	CreateLog(ctx context.Context, l *models.NotificationLog) error
}

// Repositories groups the gorm-backed implementations.
type Repositories struct {
	Services      ServiceRepository
	Appointments  AppointmentRepository
	Clients       ClientRepository
	Kits          KitRepository
	DebtPayments  DebtPaymentRepository
	History       HistoryRepository
	Users         UserRepository
	Notifications NotificationRepository
}

func New(db *gorm.DB) *Repositories {
	return &Repositories{
		Services:      &gormServices{db: db},
		Appointments:  &gormAppointments{db: db},
		Clients:       &gormClients{db: db},
		Kits:          &gormKits{db: db},
		DebtPayments:  &gormDebtPayments{db: db},
		History:       &gormHistory{db: db},
		Users:         &gormUsers{db: db},
		Notifications: &gormNotifications{db: db},
	}
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
