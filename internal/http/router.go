package httpx

import (
	"github.com/gin-gonic/gin"

	"github.com/Triostacksoftware/authkit/internal/http/handlers"
	"github.com/Triostacksoftware/authkit/internal/http/middleware"
)

func BuildRouter(ah *handlers.AuthHandlers, mw *middleware.SessionMW) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/health", func(c *gin.Context) { c.JSON(200, gin.H{"ok": true}) })

	auth := r.Group("/auth")
	auth.POST("/register", ah.Register)
	auth.POST("/login", ah.Login)
	auth.POST("/logout", ah.Logout)

	otp := auth.Group("/otp")
	otp.POST("/register/send", ah.SendRegisterOTP)
	otp.POST("/register/verify", ah.VerifyRegisterOTP)
	otp.POST("/login/send", ah.SendLoginOTP)
	otp.POST("/login/verify", ah.VerifyLoginOTP)

	// Non-aborting session probe
	auth.GET("/session", func(c *gin.Context) {
		if claims := mw.IsLoggedIn(c); claims != nil {
			c.JSON(200, gin.H{"data": gin.H{"logged_in": true, "user": claims}})
			return
		}
		c.JSON(200, gin.H{"data": gin.H{"logged_in": false}})
	})

	v := r.Group("/auth").Use(mw.WithSession())
	v.GET("/me", ah.Me)

	return r
}
