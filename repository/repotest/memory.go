// Package repotest provides in-memory repositories for tests.
package repotest

import (
	"context"
	"sort"
	"sync"
	"time"

	"studiojb-backend/models"
	"studiojb-backend/repository"
)

// Store backs every in-memory repository. Fail* fields force errors.
type Store struct {
	mu sync.Mutex

	services      map[uint]models.Service
	appointments  map[uint]models.Appointment
	clients       map[uint]models.Client
	kits          map[uint]models.PromotionalKit
	debtPayments  []models.DebtPayment
	history       []models.AppointmentHistory
	users         map[uint]models.User
	templates     map[string]models.NotificationTemplate
	notifications []models.NotificationLog
	nextID        uint

	FailAppointments error
}

func NewStore() *Store {
	return &Store{
		services:     map[uint]models.Service{},
		appointments: map[uint]models.Appointment{},
		clients:      map[uint]models.Client{},
		kits:         map[uint]models.PromotionalKit{},
		users:        map[uint]models.User{},
		templates:    map[string]models.NotificationTemplate{},
	}
}

// Repositories exposes the store through the repository interfaces.
func (s *Store) Repositories() *repository.Repositories {
	return &repository.Repositories{
		Services:      serviceRepo{s},
		Appointments:  appointmentRepo{s},
		Clients:       clientRepo{s},
		Kits:          kitRepo{s},
		DebtPayments:  debtPaymentRepo{s},
		History:       historyRepo{s},
		Users:         userRepo{s},
		Notifications: notificationRepo{s},
	}
}

func (s *Store) id() uint {
	s.nextID++
	return s.nextID
}

// AddService stores svc and returns it with its id.
func (s *Store) AddService(svc models.Service) models.Service {
	s.mu.Lock()
	defer s.mu.Unlock()
	if svc.ID == 0 {
		svc.ID = s.id()
	}
	s.services[svc.ID] = svc
	return svc
}

func (s *Store) AddClient(c models.Client) models.Client {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c.ID == 0 {
		c.ID = s.id()
	}
	s.clients[c.ID] = c
	return c
}

func (s *Store) AddAppointment(a models.Appointment) models.Appointment {
	s.mu.Lock()
	defer s.mu.Unlock()
	if a.ID == 0 {
		a.ID = s.id()
	}
	s.appointments[a.ID] = a
	return a
}

func (s *Store) Appointment(id uint) (models.Appointment, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.appointments[id]
	return a, ok
}

func (s *Store) History() []models.AppointmentHistory {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.AppointmentHistory(nil), s.history...)
}

func (s *Store) NotificationLogs() []models.NotificationLog {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.NotificationLog(nil), s.notifications...)
}

func sameDay(a, b time.Time) bool {
	return a.Format("2006-01-02") == b.Format("2006-01-02")
}

type serviceRepo struct{ s *Store }

func (r serviceRepo) Create(_ context.Context, svc *models.Service) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	svc.ID = r.s.id()
	r.s.services[svc.ID] = *svc
	return nil
}

func (r serviceRepo) FindByID(_ context.Context, id uint) (*models.Service, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	svc, ok := r.s.services[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &svc, nil
}

func (r serviceRepo) List(_ context.Context, category string, activeOnly bool) ([]models.Service, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []models.Service{}
	for _, svc := range r.s.services {
		if category != "" && svc.Category != category {
			continue
		}
		if activeOnly && !svc.IsActive {
			continue
		}
		out = append(out, svc)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r serviceRepo) Save(_ context.Context, svc *models.Service) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.services[svc.ID] = *svc
	return nil
}

func (r serviceRepo) Delete(_ context.Context, id uint) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.services[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.s.services, id)
	return nil
}

type appointmentRepo struct{ s *Store }

func (r appointmentRepo) Create(_ context.Context, a *models.Appointment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.FailAppointments != nil {
		return r.s.FailAppointments
	}
	a.ID = r.s.id()
	stored := *a
	stored.Client, stored.Service = nil, nil
	r.s.appointments[a.ID] = stored
	return nil
}

func (r appointmentRepo) withRelations(a models.Appointment) models.Appointment {
	if c, ok := r.s.clients[a.ClientID]; ok {
		a.Client = &c
	}
	if svc, ok := r.s.services[a.ServiceID]; ok {
		a.Service = &svc
	}
	return a
}

func (r appointmentRepo) FindByID(_ context.Context, id uint) (*models.Appointment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.FailAppointments != nil {
		return nil, r.s.FailAppointments
	}
	a, ok := r.s.appointments[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	a = r.withRelations(a)
	return &a, nil
}

func (r appointmentRepo) List(_ context.Context, f repository.AppointmentFilter) ([]models.Appointment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.FailAppointments != nil {
		return nil, r.s.FailAppointments
	}
	out := []models.Appointment{}
	for _, a := range r.s.appointments {
		if f.Status != "" && a.Status != f.Status {
			continue
		}
		if f.ClientID != 0 && a.ClientID != f.ClientID {
			continue
		}
		if f.From != nil && a.AppointmentDate.Before(*f.From) {
			continue
		}
		if f.To != nil && a.AppointmentDate.After(*f.To) {
			continue
		}
		out = append(out, r.withRelations(a))
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].AppointmentDate.Equal(out[j].AppointmentDate) {
			if f.ClientID != 0 {
				return out[i].AppointmentDate.After(out[j].AppointmentDate)
			}
			return out[i].AppointmentDate.Before(out[j].AppointmentDate)
		}
		return out[i].AppointmentTime < out[j].AppointmentTime
	})
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

func (r appointmentRepo) Update(_ context.Context, id uint, updates map[string]interface{}) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	a, ok := r.s.appointments[id]
	if !ok {
		return repository.ErrNotFound
	}
	for k, v := range updates {
		switch k {
		case "status":
			a.Status = v.(string)
		case "down_payment_paid":
			a.DownPaymentPaid = v.(bool)
		case "payment_order_nsu":
			ref := v.(string)
			a.PaymentOrderNSU = &ref
		case "notes":
			a.Notes = v.(string)
		}
	}
	r.s.appointments[id] = a
	return nil
}

func (r appointmentRepo) Delete(_ context.Context, id uint) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.appointments[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.s.appointments, id)
	return nil
}

func (r appointmentRepo) CountActiveAt(_ context.Context, date time.Time, slot string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.FailAppointments != nil {
		return 0, r.s.FailAppointments
	}
	var n int64
	for _, a := range r.s.appointments {
		if sameDay(a.AppointmentDate, date) && a.AppointmentTime == slot && !models.IsCancelled(a.Status) {
			n++
		}
	}
	return n, nil
}

func (r appointmentRepo) OccupiedTimes(_ context.Context, date time.Time) ([]string, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.FailAppointments != nil {
		return nil, r.s.FailAppointments
	}
	var times []string
	for _, a := range r.s.appointments {
		if sameDay(a.AppointmentDate, date) && !models.IsCancelled(a.Status) {
			times = append(times, a.AppointmentTime)
		}
	}
	return times, nil
}

func (r appointmentRepo) ListSpecial(_ context.Context, date time.Time, specialType, period string) ([]models.Appointment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []models.Appointment
	for _, a := range r.s.appointments {
		if !sameDay(a.AppointmentDate, date) || models.IsCancelled(a.Status) {
			continue
		}
		switch {
		case specialType == models.SpecialMechas && a.IsMechas && a.MechasPeriod == period,
			specialType == models.SpecialSelagem && a.IsSelagem && a.SelagemPeriod == period:
			out = append(out, a)
		}
	}
	return out, nil
}

type clientRepo struct{ s *Store }

func (r clientRepo) Create(_ context.Context, c *models.Client) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c.ID = r.s.id()
	r.s.clients[c.ID] = *c
	return nil
}

func (r clientRepo) FindByID(_ context.Context, id uint) (*models.Client, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.clients[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &c, nil
}

func (r clientRepo) find(match func(models.Client) bool) (*models.Client, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, c := range r.s.clients {
		if match(c) {
			c := c
			return &c, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r clientRepo) FindByPhone(_ context.Context, phone string) (*models.Client, error) {
	return r.find(func(c models.Client) bool { return c.Phone == phone })
}

func (r clientRepo) FindByCPF(_ context.Context, cpf string) (*models.Client, error) {
	return r.find(func(c models.Client) bool { return cpf != "" && c.CPF == cpf })
}

func (r clientRepo) List(_ context.Context) ([]models.Client, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []models.Client{}
	for _, c := range r.s.clients {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (r clientRepo) Save(_ context.Context, c *models.Client) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.clients[c.ID] = *c
	return nil
}

type kitRepo struct{ s *Store }

func (r kitRepo) Create(_ context.Context, k *models.PromotionalKit) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	k.ID = r.s.id()
	r.s.kits[k.ID] = *k
	return nil
}

func (r kitRepo) FindByID(_ context.Context, id uint) (*models.PromotionalKit, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	k, ok := r.s.kits[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &k, nil
}

func (r kitRepo) List(_ context.Context, activeOnly bool) ([]models.PromotionalKit, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []models.PromotionalKit{}
	for _, k := range r.s.kits {
		if activeOnly && !k.IsActive {
			continue
		}
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (r kitRepo) Save(_ context.Context, k *models.PromotionalKit) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.kits[k.ID] = *k
	return nil
}

type debtPaymentRepo struct{ s *Store }

func (r debtPaymentRepo) Create(_ context.Context, p *models.DebtPayment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p.ID = r.s.id()
	r.s.debtPayments = append(r.s.debtPayments, *p)
	return nil
}

func (r debtPaymentRepo) ListByAppointment(_ context.Context, appointmentID uint) ([]models.DebtPayment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []models.DebtPayment{}
	for _, p := range r.s.debtPayments {
		if p.AppointmentID == appointmentID {
			out = append(out, p)
		}
	}
	return out, nil
}

type historyRepo struct{ s *Store }

func (r historyRepo) Create(_ context.Context, h *models.AppointmentHistory) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	h.ID = r.s.id()
	r.s.history = append(r.s.history, *h)
	return nil
}

func (r historyRepo) ListByAppointment(_ context.Context, appointmentID uint) ([]models.AppointmentHistory, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []models.AppointmentHistory{}
	for _, h := range r.s.history {
		if h.AppointmentID == appointmentID {
			out = append(out, h)
		}
	}
	return out, nil
}

type userRepo struct{ s *Store }

// Create mirrors the gorm hook and hashes the plaintext password.
func (r userRepo) Create(_ context.Context, u *models.User) error {
	if err := u.BeforeCreate(nil); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u.ID = r.s.id()
	r.s.users[u.ID] = *u
	return nil
}

func (r userRepo) FindByID(_ context.Context, id uint) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &u, nil
}

func (r userRepo) FindByUsername(_ context.Context, username string) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Username == username {
			u := u
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r userRepo) TouchLastLogin(_ context.Context, id uint, at time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.LastLogin = &at
	r.s.users[id] = u
	return nil
}

type notificationRepo struct{ s *Store }

func (r notificationRepo) FindTemplate(_ context.Context, kind string) (*models.NotificationTemplate, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	t, ok := r.s.templates[kind]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &t, nil
}

func (r notificationRepo) SaveTemplate(_ context.Context, t *models.NotificationTemplate) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if t.ID == 0 {
		t.ID = r.s.id()
	}
	r.s.templates[t.Type] = *t
	return nil
}

func (r notificationRepo) ListTemplates(_ context.Context) ([]models.NotificationTemplate, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []models.NotificationTemplate{}
	for _, t := range r.s.templates {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Type < out[j].Type })
	return out, nil
}

func (r notificationRepo) CreateLog(_ context.Context, l *models.NotificationLog) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	l.ID = r.s.id()
	r.s.notifications = append(r.s.notifications, *l)
	return nil
}
