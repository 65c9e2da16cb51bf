package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/eventos-alt/Chamada-pronta-para-o-gcp/config"
	"github.com/eventos-alt/Chamada-pronta-para-o-gcp/database"
	"github.com/eventos-alt/Chamada-pronta-para-o-gcp/handlers"
	"github.com/eventos-alt/Chamada-pronta-para-o-gcp/routes"
)

func main() {
	cfg := config.Load()

	var log *zap.Logger
	var err error
	if cfg.AppEnv == "prod" {
		log, err = zap.NewProduction()
	} else {
		log, err = zap.NewDevelopment()
	}
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	// sem banco não tem serviço; falha cedo
	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatal("falha ao conectar no banco", zap.Error(err))
	}

	e := echo.New()
	e.HideBanner = true
	e.Validator = handlers.NewValidator()
	e.Use(middleware.Recover())
	e.Use(middleware.Logger())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAuthorization},
	}))

	routes.RegisterRoutes(e, db, log, cfg.JWTSecret)

	go func() {
		addr := ":" + cfg.AppPort
		log.Info("servidor ouvindo", zap.String("addr", addr))
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatal("servidor caiu", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		log.Fatal("shutdown com erro", zap.Error(err))
	}
	log.Info("servidor encerrado")
}
