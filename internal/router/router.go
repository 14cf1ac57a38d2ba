package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"invoicedesk/internal/domain"
	"invoicedesk/internal/handler"
	"invoicedesk/internal/middleware"
	"invoicedesk/internal/service"
)

// Setup configures the Gin engine with all routes and middleware.
func Setup(
	authSvc service.AuthService,
	allowedOrigins []string,
	sessionH *handler.SessionHandler,
	invoiceH *handler.InvoiceHandler,
	leadH *handler.LeadHandler,
	healthH *handler.HealthHandler,
) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.CORS(allowedOrigins))

	// Health checks
	r.GET("/healthz", healthH.Liveness)
	r.GET("/readyz", healthH.Readiness)

	// API documentation
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	r.GET("/swagger", func(c *gin.Context) {
		c.Redirect(http.StatusFound, "/swagger/index.html")
	})

	// Protected routes - require valid JWT
	v1 := r.Group("/api/v1")
	v1.Use(middleware.AuthMiddleware(authSvc))
	v1.Use(middleware.TenantGuard())

	// Editing sessions
	sessions := v1.Group("/sessions")
	sessions.POST("", sessionH.Open)
	sessions.GET("/:id", sessionH.Get)
	sessions.DELETE("/:id", sessionH.Close)
	sessions.POST("/:id/edit", sessionH.EnterEdit)
	sessions.POST("/:id/exit", sessionH.ExitEdit)
	sessions.PUT("/:id/header", sessionH.UpdateHeader)
	sessions.PUT("/:id/jurisdiction", sessionH.SetJurisdiction)
	sessions.POST("/:id/lines", sessionH.AddLine)
	sessions.DELETE("/:id/lines/:index", sessionH.RemoveLine)
	sessions.PATCH("/:id/lines/:index", sessionH.UpdateLine)
	sessions.PUT("/:id/lines/:index/amount", sessionH.SetLineAmount)
	sessions.PUT("/:id/overrides/:key", sessionH.SetOverride)
	sessions.PUT("/:id/labels/:key", sessionH.SetLabel)
	sessions.PUT("/:id/received", sessionH.SetReceivedAmount)
	sessions.POST("/:id/lead", sessionH.SelectLead)
	sessions.POST("/:id/save", sessionH.Save)
	sessions.POST("/:id/submit", sessionH.Submit)
	sessions.GET("/:id/pdf", sessionH.PDF)

	// Saved invoices
	invoices := v1.Group("/invoices")
	invoices.GET("", invoiceH.List)
	invoices.GET("/export.csv", invoiceH.ExportCSV)
	invoices.GET("/:id", invoiceH.GetByID)
	invoices.GET("/:id/export.xlsx", invoiceH.ExportXLSX)
	invoices.DELETE("/:id", middleware.RequireRole(domain.RoleAdmin), invoiceH.Delete)

	// Lead directory
	v1.GET("/leads", leadH.List)

	return r
}
