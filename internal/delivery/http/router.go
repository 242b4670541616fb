package http

import (
	"time"

	"github.com/suntzu974/papang/internal/delivery/http/controllers"
	authctl "github.com/suntzu974/papang/internal/delivery/http/controllers/auth"
	expensectl "github.com/suntzu974/papang/internal/delivery/http/controllers/expense"
	"github.com/suntzu974/papang/internal/delivery/http/controllers/middleware"
	"github.com/suntzu974/papang/internal/service"
	"github.com/suntzu974/papang/pkg/logger"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func InitRoutes(l logger.Log, u service.Collection) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	config := cors.Config{
		AllowOrigins:     []string{"http://localhost:8080"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}

	r.Use(cors.New(config))

	statusController := controllers.NewStatusHandler()
	authController := authctl.NewAuthHandler(l, u.AuthService)
	expenseController := expensectl.NewExpenseHandler(l, u.ExpenseService)
	authProvider := middleware.NewAuthMiddlewareProvider(l, u.AuthService)

	v1 := r.Group("/v1", middleware.LoggingMiddleware(l))
	{
		v1.GET("/status", statusController.Status)

		auth := v1.Group("/auth")
		{
			auth.POST("/register", authController.Register)
			auth.POST("/login", authController.Login)
			auth.POST("/refresh", authController.Refresh)
			auth.GET("/verify-email", authController.VerifyEmail)
			auth.POST("/resend-verification", authController.ResendVerification)
			auth.POST("/forgot-password", authController.ForgotPassword)
			auth.POST("/reset-password", authController.ResetPassword)

			protected := auth.Group("", authProvider.AuthMiddleware)
			{
				protected.GET("/me", authController.Me)
				protected.PUT("/me", authController.UpdateMe)
				protected.DELETE("/logout", authController.Logout)
				protected.PUT("/change-password", authController.ChangePassword)
			}
		}

		expenses := v1.Group("/expenses", authProvider.AuthMiddleware)
		{
			expenses.POST("", expenseController.CreateExpense)
			expenses.GET("", expenseController.ListExpenses)
			expenses.PUT("", expenseController.UpdateExpense)
			expenses.DELETE("/:expense_id", expenseController.DeleteExpense)
			expenses.PUT("/:expense_id/receipt", expenseController.UploadReceipt)
		}
	}
	return r
}
