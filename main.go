package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"planillabus/internal/clock"
	intconfig "planillabus/internal/config"
	"planillabus/internal/domain"
	"planillabus/internal/gateway"
	router "planillabus/internal/http"
	"planillabus/internal/http/handlers"
	"planillabus/internal/services"
	"planillabus/internal/ticketform"

	"github.com/gin-gonic/gin"
)

func main() {
	env := intconfig.LoadEnv()
	if env.GinMode != "" {
		gin.SetMode(env.GinMode)
	}

	db := intconfig.ConnectDB(env)
	defer intconfig.CloseDB()

	loc := env.Location()
	clk := clock.NewSystem(loc)

	hs := handlers.Handlers{
		DB:       db,
		Clock:    clk,
		Resolver: domain.FareResolver{},
		Tokens:   services.TicketTokens{Secret: []byte(env.TicketTokenSecret), Now: clk.Now},
		Location: loc,
		Forms:    ticketform.NewSessions(env.FormSessionTTL),
	}
	if env.UpstreamAPIURL != "" {
		hs.Refs = gateway.NewClient(env.UpstreamAPIURL, env.UpstreamTimeout)
		log.Printf("[CONFIG] datos de referencia desde %s", env.UpstreamAPIURL)
	}

	r := router.NewRouter(env, hs)
	handlers.SetRouter(r)

	srv := &http.Server{
		Addr:              env.AppAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       20 * time.Second,
		WriteTimeout:      20 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Printf("Servidor escuchando en http://localhost%s", env.AppAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("No se pudo iniciar el servidor: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("Apagando servidor...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Apagado del servidor fallido: %v", err)
	}

	log.Println("Servidor detenido correctamente.")
}
