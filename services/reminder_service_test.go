package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"studiojb-backend/metrics"
	"studiojb-backend/models"
	"studiojb-backend/repository/repotest"
	"studiojb-backend/utils"
)

type sentMessage struct{ to, from, body string }

type fakeSender struct {
	sent []sentMessage
	err  error
}

func (f *fakeSender) Send(to, from, body string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.sent = append(f.sent, sentMessage{to, from, body})
	return "SM123", nil
}

func notificationFixture(t *testing.T, sender MessageSender, cfg NotificationConfig) (*repotest.Store, *NotificationService, models.Appointment) {
	t.Helper()
	store := repotest.NewStore()
	svc := store.AddService(haircut())
	client := store.AddClient(models.Client{Name: "Ana", Phone: "11987654321"})
	a := store.AddAppointment(models.Appointment{
		ClientID: client.ID, ServiceID: svc.ID,
		AppointmentDate: mustDate(t, "2024-03-05"), AppointmentTime: "10:00",
		Status: models.StatusConfirmed,
	})
	ns := NewNotificationService(store.Repositories(), sender, cfg, metrics.New(prometheus.NewRegistry()), discardLogger())
	return store, ns, a
}

func TestSendConfirmationSMS(t *testing.T) {
	sender := &fakeSender{}
	store, ns, a := notificationFixture(t, sender, NotificationConfig{FromNumber: "+15005550006"})

	ns.SendConfirmation(context.Background(), a.ID)

	require.Len(t, sender.sent, 1)
	assert.Equal(t, "+5511987654321", sender.sent[0].to)
	assert.Equal(t, "+15005550006", sender.sent[0].from)
	assert.Equal(t, "Olá Ana! Seu horário de Corte feminino no Studio JB está confirmado para 05/03/2024 às 10:00.", sender.sent[0].body)

	logs := store.NotificationLogs()
	require.Len(t, logs, 1)
	assert.Equal(t, "sms", logs[0].Channel)
	assert.Equal(t, "sent", logs[0].Status)
}

func TestSendConfirmationUsesTemplateAndWhatsApp(t *testing.T) {
	sender := &fakeSender{}
	store, ns, a := notificationFixture(t, sender, NotificationConfig{WhatsAppNumber: "+14155238886"})
	require.NoError(t, store.Repositories().Notifications.SaveTemplate(context.Background(), &models.NotificationTemplate{
		Type: models.NotificationConfirmation, Message: "[ClientName], até [Date]!", IsActive: true,
	}))

	ns.SendConfirmation(context.Background(), a.ID)

	require.Len(t, sender.sent, 1)
	assert.Equal(t, "whatsapp:+5511987654321", sender.sent[0].to)
	assert.Equal(t, "whatsapp:+14155238886", sender.sent[0].from)
	assert.Equal(t, "Ana, até 05/03/2024!", sender.sent[0].body)
}

func TestSendFailureIsLoggedNotPropagated(t *testing.T) {
	sender := &fakeSender{err: errors.New("twilio down")}
	store, ns, a := notificationFixture(t, sender, NotificationConfig{})

	ns.SendConfirmation(context.Background(), a.ID)

	logs := store.NotificationLogs()
	require.Len(t, logs, 1)
	assert.Equal(t, "failed", logs[0].Status)
	assert.Equal(t, "twilio down", logs[0].ErrorMessage)
}

func TestSendWithoutSender(t *testing.T) {
	store, ns, a := notificationFixture(t, nil, NotificationConfig{})
	ns.SendConfirmation(context.Background(), a.ID)

	logs := store.NotificationLogs()
	require.Len(t, logs, 1)
	assert.Equal(t, "failed", logs[0].Status)
}

func TestSendDailyRemindersTargetsTomorrowConfirmed(t *testing.T) {
	sender := &fakeSender{}
	store := repotest.NewStore()
	svc := store.AddService(haircut())
	client := store.AddClient(models.Client{Name: "Ana", Phone: "11987654321"})

	tomorrow := mustDate(t, time.Now().UTC().AddDate(0, 0, 1).Format(utils.DateLayout))
	store.AddAppointment(models.Appointment{ClientID: client.ID, ServiceID: svc.ID, AppointmentDate: tomorrow, AppointmentTime: "10:00", Status: models.StatusConfirmed})
	store.AddAppointment(models.Appointment{ClientID: client.ID, ServiceID: svc.ID, AppointmentDate: tomorrow, AppointmentTime: "11:00", Status: models.StatusPending})
	store.AddAppointment(models.Appointment{ClientID: client.ID, ServiceID: svc.ID, AppointmentDate: tomorrow.AddDate(0, 0, 1), AppointmentTime: "10:00", Status: models.StatusConfirmed})

	ns := NewNotificationService(store.Repositories(), sender, NotificationConfig{Location: time.UTC}, nil, discardLogger())
	ns.SendDailyReminders()

	require.Len(t, sender.sent, 1)
	assert.Contains(t, sender.sent[0].body, "10:00")
	assert.Contains(t, sender.sent[0].body, "Lembrete")
}

func TestSchedulerRejectsBadSpec(t *testing.T) {
	_, ns, _ := notificationFixture(t, nil, NotificationConfig{ReminderSpec: "not a cron"})
	assert.Error(t, ns.StartScheduler())
	ns.Stop()
}
