package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"smsauth/internal/handlers"
)

func SetupRoutes(
	r *gin.Engine,
	registerHandler *handlers.RegisterHandler,
	authHandler *handlers.AuthHandler,
	passwordHandler *handlers.PasswordHandler,
) *gin.Engine {

	// ---- регистрация
	reg := r.Group("/register")
	{
		reg.POST("/request_code", registerHandler.RequestCode)
		reg.POST("/verify_code", registerHandler.VerifyCode)
	}
	r.POST("/register", registerHandler.Register)

	// ---- вход
	r.POST("/login", authHandler.Login)

	// ---- сброс пароля
	pwd := r.Group("/password")
	{
		pwd.POST("/request_code", passwordHandler.RequestCode)
		pwd.POST("/reset", passwordHandler.Reset)
	}

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}
