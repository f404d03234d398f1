package rest

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"fraudguard/internal/metrics"
)

type RouterConfig struct {
	AllowedOrigins []string
	// Metrics is optional; without it /metrics is not served.
	Metrics *metrics.Metrics
}

// SetupCommonEndpoints registers health, metrics, rules and the audit event feed.
func SetupCommonEndpoints(router *gin.Engine, handlers *Handlers, m *metrics.Metrics) {
	router.GET("/health", handlers.Health)
	router.GET("/health/detailed", handlers.DetailedHealth)
	router.GET("/health/stats", handlers.HealthStats)

	if m != nil {
		router.GET("/metrics", gin.WrapH(m.Handler()))
	}

	api := router.Group("/api/v1")
	api.GET("/rules", handlers.Rules)
	api.GET("/events", handlers.Events)
	api.GET("/events/stats", handlers.EventStats)
}

func SetupRouter(handlers *Handlers, cfg RouterConfig) *gin.Engine {
	router := gin.New()

	router.Use(gin.Recovery(), RequestID(), AccessLog(), CORSMiddleware(cfg.AllowedOrigins))
	if cfg.Metrics != nil {
		router.Use(cfg.Metrics.Middleware())
	}

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	api := router.Group("/api/v1")
	{
		users := api.Group("/users")
		users.POST("", handlers.CreateUser)
		users.GET("", handlers.ListUsers)
		users.GET("/:id", handlers.GetUser)
		users.PUT("/:id", handlers.UpdateUser)
		users.DELETE("/:id", handlers.DeleteUser)
		users.PUT("/:id/password", handlers.ChangePassword)
		users.GET("/:id/accounts", handlers.UserAccounts)
		users.GET("/:id/transactions", handlers.UserTransactions)
		users.GET("/:id/stats", handlers.UserStats)

		accounts := api.Group("/accounts")
		accounts.POST("", handlers.CreateAccount)
		accounts.GET("/number/:number", handlers.GetAccountByNumber)
		accounts.GET("/:id", handlers.GetAccount)
		accounts.GET("/:id/transactions", handlers.AccountTransactions)
		accounts.GET("/:id/stats", handlers.AccountStats)

		transactions := api.Group("/transactions")
		transactions.POST("", handlers.CreateTransaction)
		transactions.POST("/evaluate", handlers.EvaluateTransaction)
		transactions.GET("", handlers.ListTransactions)
		transactions.GET("/fraudulent", handlers.ListFraudulent)
		transactions.GET("/generate", handlers.GenerateTransaction)
		transactions.GET("/:id", handlers.GetTransaction)
		transactions.PUT("/:id", handlers.UpdateTransaction)
		transactions.DELETE("/:id", handlers.DeleteTransaction)

		alerts := api.Group("/alerts")
		alerts.GET("", handlers.ListAlerts)
		alerts.GET("/status/:status", handlers.AlertsByStatus)
		alerts.GET("/:id", handlers.GetAlert)
		alerts.PUT("/:id/status", handlers.UpdateAlertStatus)

		dashboard := api.Group("/dashboard")
		dashboard.GET("/statistics", handlers.Statistics)
		dashboard.GET("/fraud-by-period", handlers.Trends)
		dashboard.GET("/fraud-by-country", handlers.FraudByCountry)
		dashboard.GET("/fraud-by-device", handlers.FraudByDevice)
		dashboard.GET("/recent-suspicious", handlers.RecentSuspicious)
		dashboard.GET("/pending-alerts", handlers.PendingAlerts)
		dashboard.GET("/high-risk-accounts", handlers.HighRiskAccounts)

		analytics := api.Group("/analytics")
		analytics.GET("/dashboard", handlers.Dashboard)
		analytics.GET("/trends", handlers.Trends)
		analytics.GET("/fraud-by-country", handlers.FraudByCountry)
		analytics.GET("/fraud-by-device", handlers.FraudByDevice)
		analytics.GET("/hourly-patterns", handlers.HourlyPatterns)
		analytics.GET("/users", handlers.UserAnalytics)
		analytics.GET("/high-risk-transactions", handlers.HighRiskTransactions)
		analytics.GET("/overview", handlers.Overview)
		analytics.GET("/export/:kind", handlers.Export)
	}

	SetupCommonEndpoints(router, handlers, cfg.Metrics)

	return router
}
