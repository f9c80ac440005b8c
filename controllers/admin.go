package controllers

import (
	"log/slog"
	"time"

	"studiojb-backend/repository"
	"studiojb-backend/services"
)

// AdminController serves the back-office under /api/admin. Handlers are
// spread over the files named after the resource they manage.
type AdminController struct {
	Repos        *repository.Repositories
	Appointments *services.AppointmentService
	Logger       *slog.Logger
	Location     *time.Location
}
