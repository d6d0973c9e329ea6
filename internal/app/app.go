package app

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Triostacksoftware/authkit/internal/config"
	httpx "github.com/Triostacksoftware/authkit/internal/http"
	"github.com/Triostacksoftware/authkit/internal/http/handlers"
	"github.com/Triostacksoftware/authkit/internal/http/middleware"
)

func Run(cfg *config.Config) error {
	if cfg.GinMode != "" {
		gin.SetMode(cfg.GinMode)
	}

	container, err := NewContainer(cfg)
	if err != nil {
		return err
	}
	defer container.Close()

	authH := handlers.NewAuthHandlers(container.AuthSvc, cfg.IsProduction(), cfg.SessionTTL)
	sessionMW := middleware.NewSessionMW(container.TokenSvc)

	r := httpx.BuildRouter(authH, sessionMW)

	container.Sweeper.Start()
	defer container.Sweeper.Stop()

	addr := ":" + cfg.Port
	log.Printf("listening on %s", addr)
	return http.ListenAndServe(addr, r)
}
