package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"residence-be-svc/internal/middleware"
	"residence-be-svc/internal/service"
	"residence-be-svc/pkg/logger"
)

// Services groups the services the HTTP layer depends on
type Services struct {
	Auth            service.AuthService
	Resident        service.ResidentService
	Complaint       service.ComplaintService
	ServiceProvider service.ServiceProviderService
	Bill            service.BillService
}

// SetupRoutes sets up all API routes
func SetupRoutes(router *gin.Engine, services Services, logger *logger.Logger) {
	// Initialize handlers
	authHandler := NewAuthHandler(services.Auth, logger)
	residentHandler := NewResidentHandler(services.Resident, logger)
	complaintHandler := NewComplaintHandler(services.Complaint, logger)
	providerHandler := NewServiceProviderHandler(services.ServiceProvider, logger)
	billHandler := NewBillHandler(services.Bill, logger)

	authenticate := middleware.Authenticator(services.Auth, logger)
	adminOnly := middleware.AdminOnly(logger)
	adminOrResident := middleware.AdminOrResident(logger)

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Prometheus metrics
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API v1 group
	v1 := router.Group("/api/v1")
	{
		// Health check
		v1.GET("/health", HealthCheck)

		admin := v1.Group("/admin")
		{
			// Auth routes
			admin.POST("/login", authHandler.AdminLogin)
			admin.POST("/service-provider/login", authHandler.ServiceProviderLogin)
			admin.POST("/service-provider/register", authHandler.RegisterServiceProvider)
			admin.POST("/resident/login", authHandler.ResidentLogin)
			admin.POST("/resident/register", authHandler.RegisterResident)
			admin.POST("/logout", authenticate, authHandler.Logout)
			admin.GET("/me", authenticate, authHandler.Me)

			// Resident routes
			residents := admin.Group("/resident", authenticate)
			{
				residents.GET("/complaints", adminOrResident, complaintHandler.ListComplaints)
				residents.POST("/complaints", adminOrResident, complaintHandler.CreateComplaint)
				residents.PUT("/complaints/:id/admin-status-update", adminOnly, complaintHandler.UpdateStatus)
				residents.PUT("/complaints/:id/respond", adminOnly, complaintHandler.Respond)

				residents.GET("", adminOnly, residentHandler.ListResidents)
				residents.POST("", adminOnly, residentHandler.CreateResident)
				residents.GET("/:id", adminOnly, residentHandler.GetResident)
				residents.PUT("/:id/approval", adminOnly, residentHandler.SetApproval)
				residents.DELETE("/:id", adminOnly, residentHandler.DeleteResident)
			}

			// Service provider routes
			providers := admin.Group("/service-providers", authenticate, adminOnly)
			{
				providers.GET("/all", providerHandler.ListServiceProviders)
				providers.GET("/stats/overview", providerHandler.Stats)
				providers.PUT("/:id/approval", providerHandler.SetApproval)
				providers.DELETE("/:id", providerHandler.DeleteServiceProvider)
			}

			// Maintenance bill routes
			maintenance := admin.Group("/maintenance", authenticate)
			{
				maintenance.GET("", adminOrResident, billHandler.ListBills)
				maintenance.POST("/generate", adminOnly, billHandler.GenerateBills)
				maintenance.GET("/export", adminOnly, billHandler.ExportBills)
				maintenance.GET("/resident/:residentId", adminOrResident, billHandler.ResidentBills)
				maintenance.PUT("/:id/status", adminOnly, billHandler.UpdateStatus)
				maintenance.PUT("/:id/mark-paid", adminOrResident, billHandler.MarkPaid)
			}
		}
	}
}

// HealthCheck handles GET /api/v1/health
// @Summary Health check
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /api/v1/health [get]
func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": "Server is running",
		"service": "Residence Backend Service",
	})
}
