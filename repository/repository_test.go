package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"studiojb-backend/models"
)

func newMockDB(t *testing.T) (*Repositories, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return New(db), mock
}

func day(t *testing.T) time.Time {
	d, err := time.Parse("2006-01-02", "2024-03-05")
	require.NoError(t, err)
	return d
}

func TestCountActiveAtExcludesCancelled(t *testing.T) {
	repos, mock := newMockDB(t)
	mock.ExpectQuery(`SELECT count\(\*\) FROM "appointments" WHERE .*appointment_date = \$1 AND appointment_time = \$2.* AND status NOT IN \(\$3,\$4\)`).
		WithArgs("2024-03-05", "10:00", models.StatusCancelledByClient, models.StatusCancelledBySalon).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

	n, err := repos.Appointments.CountActiveAt(context.Background(), day(t), "10:00")
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOccupiedTimes(t *testing.T) {
	repos, mock := newMockDB(t)
	mock.ExpectQuery(`SELECT "appointment_time" FROM "appointments" WHERE appointment_date = \$1 AND status NOT IN \(\$2,\$3\)`).
		WithArgs("2024-03-05", models.StatusCancelledByClient, models.StatusCancelledBySalon).
		WillReturnRows(sqlmock.NewRows([]string{"appointment_time"}).AddRow("09:00").AddRow("14:30"))

	times, err := repos.Appointments.OccupiedTimes(context.Background(), day(t))
	require.NoError(t, err)
	assert.Equal(t, []string{"09:00", "14:30"}, times)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListSpecialFiltersByPeriod(t *testing.T) {
	repos, mock := newMockDB(t)
	mock.ExpectQuery(`SELECT \* FROM "appointments" WHERE appointment_date = \$1 AND is_mechas = \$2 AND mechas_period = \$3 AND status NOT IN \(\$4,\$5\)`).
		WithArgs("2024-03-05", true, models.PeriodMorning, models.StatusCancelledByClient, models.StatusCancelledBySalon).
		WillReturnRows(sqlmock.NewRows([]string{"id", "appointment_time", "is_mechas", "mechas_period"}).
			AddRow(4, "09:00", true, models.PeriodMorning))

	list, err := repos.Appointments.ListSpecial(context.Background(), day(t), models.SpecialMechas, models.PeriodMorning)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, uint(4), list[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindServiceNotFound(t *testing.T) {
	repos, mock := newMockDB(t)
	mock.ExpectQuery(`SELECT \* FROM "services" WHERE id = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repos.Services.FindByID(context.Background(), 9)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindClientByPhone(t *testing.T) {
	repos, mock := newMockDB(t)
	mock.ExpectQuery(`SELECT \* FROM "clients" WHERE phone = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "phone"}).AddRow(3, "Ana", "11987654321"))

	c, err := repos.Clients.FindByPhone(context.Background(), "11987654321")
	require.NoError(t, err)
	assert.Equal(t, uint(3), c.ID)
	assert.Equal(t, "Ana", c.Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteMissingAppointment(t *testing.T) {
	repos, mock := newMockDB(t)
	mock.ExpectExec(`DELETE FROM "appointments" WHERE id = \$1`).
		WithArgs(7).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repos.Appointments.Delete(context.Background(), 7)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
