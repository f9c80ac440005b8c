package routes

import (
	"log/slog"
	"net/http"
	"time"

	"studiojb-backend/config"
	"studiojb-backend/controllers"
	"studiojb-backend/metrics"
	"studiojb-backend/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Deps is everything the router hands to controllers and middleware.
type Deps struct {
	Config      *config.Config
	Logger      *slog.Logger
	Metrics     *metrics.BookingMetrics
	Gatherer    prometheus.Gatherer
	RateLimiter *utils.RateLimiter
	Booking     *controllers.BookingController
	Admin       *controllers.AdminController
	Auth        *controllers.AuthController
}

func SetupRouter(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     d.Config.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.Use(config.PerformanceLogger(d.Logger, d.Metrics))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if d.Gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{})))
	}

	auth := r.Group("/auth")
	{
		auth.POST("/login", d.Auth.Login)
		auth.POST("/logout", d.Auth.Logout)

		auth.Use(utils.AuthMiddleware(d.Config.JWTSecret))
		auth.GET("/me", d.Auth.Me)
	}

	api := r.Group("/api")
	api.GET("/services", d.Admin.GetPublicServices)
	api.GET("/kits", d.Admin.GetPublicKits)

	booking := api.Group("/booking")
	if d.RateLimiter != nil {
		booking.Use(d.RateLimiter.Middleware(d.Logger))
	}
	{
		booking.GET("/slots", d.Booking.GetAvailableSlots)
		booking.GET("/special-availability", d.Booking.GetSpecialAvailability)
		booking.GET("/payment/return", d.Booking.PaymentReturn)

		sessions := booking.Group("/sessions")
		{
			sessions.POST("", d.Booking.StartSession)
			sessions.GET("/:id", d.Booking.GetSession)
			sessions.DELETE("/:id", d.Booking.RestartSession)
			sessions.POST("/:id/register", d.Booking.RegisterClient)
			sessions.POST("/:id/identify", d.Booking.IdentifyClient)
			sessions.PUT("/:id/service", d.Booking.SelectService)
			sessions.PUT("/:id/slot", d.Booking.SelectSlot)
			sessions.POST("/:id/checkout", d.Booking.Checkout)
		}
	}

	admin := api.Group("/admin")
	admin.Use(utils.AuthMiddleware(d.Config.JWTSecret))
	{
		appointments := admin.Group("/appointments")
		{
			appointments.GET("", d.Admin.GetAppointments)
			appointments.GET("/:id", d.Admin.GetAppointment)
			appointments.PUT("/:id/status", d.Admin.UpdateAppointmentStatus)
			appointments.DELETE("/:id", d.Admin.DeleteAppointment)
			appointments.GET("/:id/debt-payments", d.Admin.GetDebtPayments)
		}

		clients := admin.Group("/clients")
		{
			clients.GET("", d.Admin.GetClients)
			clients.GET("/:id", d.Admin.GetClient)
			clients.PUT("/:id", d.Admin.UpdateClient)
			clients.GET("/:id/appointments", d.Admin.GetClientAppointments)
		}

		services := admin.Group("/services")
		{
			services.POST("", d.Admin.CreateService)
			services.GET("", d.Admin.GetServices)
			services.GET("/:id", d.Admin.GetService)
			services.PUT("/:id", d.Admin.UpdateService)
			services.DELETE("/:id", d.Admin.DeleteService)
		}

		kits := admin.Group("/kits")
		{
			kits.POST("", d.Admin.CreateKit)
			kits.GET("", d.Admin.GetKits)
			kits.PUT("/:id", d.Admin.UpdateKit)
		}

		admin.POST("/debt-payments", d.Admin.CreateDebtPayment)
		admin.GET("/dashboard", d.Admin.GetDashboardOverview)
		admin.GET("/reports", d.Admin.GetReportAnalytics)

		templates := admin.Group("/notification-templates")
		{
			templates.GET("", d.Admin.GetNotificationTemplates)
			templates.PUT("/:type", d.Admin.UpdateNotificationTemplate)
		}

		admin.POST("/users", d.Auth.CreateUser)
	}

	return r
}
