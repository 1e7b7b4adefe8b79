package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mediq-health/mediq-api/internal/config"
	"github.com/mediq-health/mediq-api/internal/domain"
	"github.com/mediq-health/mediq-api/internal/middleware"
	"github.com/mediq-health/mediq-api/internal/service"
	"github.com/mediq-health/mediq-api/pkg/auth"
	"github.com/mediq-health/mediq-api/pkg/metrics"
)

type Services struct {
	Auth          *service.AuthService
	Patients      *service.PatientService
	Doctors       *service.DoctorService
	Hospitals     *service.HospitalService
	Appointments  *service.AppointmentService
	Records       *service.MedicalRecordService
	Medicines     *service.MedicineService
	Prescriptions *service.PrescriptionService
	Assistant     *service.AssistantService
}

// NewRouter assembles the full HTTP surface: middleware chain, health and
// metrics endpoints, and the versioned API groups.
func NewRouter(
	cfg *config.Config,
	svcs Services,
	jwtManager *auth.JWTManager,
	collector *metrics.Collector,
	log *zap.Logger,
) *gin.Engine {
	if cfg.App.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger(log))
	r.Use(middleware.Metrics(collector))
	r.Use(middleware.CORS(cfg.CORS))

	globalLimiter := middleware.NewRateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.BurstSize)
	r.Use(middleware.RateLimit(globalLimiter))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"version": cfg.App.Version,
		})
	})
	r.GET("/metrics", gin.WrapH(metrics.MetricsHandler()))

	authHandler := NewAuthHandler(svcs.Auth)
	patientHandler := NewPatientHandler(svcs.Patients, collector)
	doctorHandler := NewDoctorHandler(svcs.Doctors)
	hospitalHandler := NewHospitalHandler(svcs.Hospitals)
	appointmentHandler := NewAppointmentHandler(svcs.Appointments, collector)
	recordHandler := NewRecordHandler(svcs.Records)
	medicineHandler := NewMedicineHandler(svcs.Medicines)
	prescriptionHandler := NewPrescriptionHandler(svcs.Prescriptions, collector)
	assistantHandler := NewAssistantHandler(svcs.Assistant)

	authenticated := middleware.Authenticate(jwtManager)
	staffOnly := middleware.RequireRole(domain.RoleAdmin, domain.RoleDoctor)
	adminOnly := middleware.RequireRole(domain.RoleAdmin)

	api := r.Group("/api/v1")

	// Auth endpoints carry a stricter per-IP budget against brute force.
	authLimiter := middleware.NewRateLimiter(
		float64(cfg.RateLimit.AuthRequestsPerMinute)/60.0,
		cfg.RateLimit.AuthRequestsPerMinute,
	)
	authGroup := api.Group("/auth", middleware.RateLimit(authLimiter))
	{
		authGroup.POST("/register", middleware.AuthenticateOptional(jwtManager), authHandler.Register)
		authGroup.POST("/login", authHandler.Login)
		authGroup.POST("/refresh", authHandler.Refresh)
		authGroup.POST("/change-password", authenticated, authHandler.ChangePassword)
	}

	patients := api.Group("/patients", authenticated)
	{
		patients.POST("", staffOnly, patientHandler.Create)
		patients.GET("", staffOnly, patientHandler.List)
		patients.GET("/:id", patientHandler.Get)
		patients.PATCH("/:id", patientHandler.Update)
		patients.DELETE("/:id", staffOnly, patientHandler.Deactivate)
	}

	doctors := api.Group("/doctors", authenticated)
	{
		doctors.POST("", adminOnly, doctorHandler.Create)
		doctors.GET("", doctorHandler.List)
		doctors.GET("/:id", doctorHandler.Get)
		doctors.PATCH("/:id", adminOnly, doctorHandler.Update)
		doctors.DELETE("/:id", adminOnly, doctorHandler.Delete)
		doctors.GET("/:id/slots", appointmentHandler.AvailableSlots)
	}

	hospitals := api.Group("/hospitals", authenticated)
	{
		hospitals.POST("", adminOnly, hospitalHandler.Create)
		hospitals.GET("", hospitalHandler.List)
		hospitals.GET("/:id", hospitalHandler.Get)
		hospitals.PATCH("/:id", adminOnly, hospitalHandler.Update)
		hospitals.DELETE("/:id", adminOnly, hospitalHandler.Delete)
	}

	appointments := api.Group("/appointments", authenticated)
	{
		appointments.POST("", appointmentHandler.Create)
		appointments.GET("", appointmentHandler.List)
		appointments.GET("/:id", appointmentHandler.Get)
		appointments.PATCH("/:id", appointmentHandler.Reschedule)
		appointments.POST("/:id/cancel", appointmentHandler.Cancel)
		appointments.POST("/:id/confirm", appointmentHandler.Confirm)
		appointments.POST("/:id/start", staffOnly, appointmentHandler.Start)
		appointments.POST("/:id/complete", staffOnly, appointmentHandler.Complete)
	}

	records := api.Group("/medical-records", authenticated)
	{
		records.POST("", staffOnly, recordHandler.Create)
		records.GET("", recordHandler.List)
		records.GET("/:id", recordHandler.Get)
		records.POST("/:id/addenda", staffOnly, recordHandler.AddAddendum)
	}

	medicines := api.Group("/medicines", authenticated)
	{
		medicines.POST("", adminOnly, medicineHandler.Create)
		medicines.GET("", medicineHandler.List)
		medicines.GET("/:id", medicineHandler.Get)
		medicines.PATCH("/:id", adminOnly, medicineHandler.Update)
		medicines.DELETE("/:id", adminOnly, medicineHandler.Delete)
	}

	prescriptions := api.Group("/prescriptions", authenticated)
	{
		prescriptions.POST("", staffOnly, prescriptionHandler.Create)
		prescriptions.GET("", prescriptionHandler.List)
		prescriptions.GET("/:id", prescriptionHandler.Get)
		prescriptions.POST("/:id/refill", prescriptionHandler.Refill)
		prescriptions.POST("/:id/cancel", staffOnly, prescriptionHandler.Cancel)
	}

	assistantGroup := api.Group("/assistant")
	{
		// The active greeting is public so the chat widget can load pre-login.
		assistantGroup.GET("/active", assistantHandler.GetActive)

		configs := assistantGroup.Group("/configs", authenticated, adminOnly)
		{
			configs.POST("", assistantHandler.Create)
			configs.GET("", assistantHandler.List)
			configs.GET("/:id", assistantHandler.Get)
			configs.PATCH("/:id", assistantHandler.Update)
			configs.POST("/:id/activate", assistantHandler.Activate)
			configs.DELETE("/:id", assistantHandler.Delete)
		}
	}

	return r
}
