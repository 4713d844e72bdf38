package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/priya-kumar159/CodeQuest-Project/internal/app"
	"github.com/priya-kumar159/CodeQuest-Project/internal/config"
	"github.com/priya-kumar159/CodeQuest-Project/internal/httpapi"
	sharedauth "github.com/priya-kumar159/CodeQuest-Project/internal/shared/auth"
	"github.com/priya-kumar159/CodeQuest-Project/internal/shared/logging"
	sharedserver "github.com/priya-kumar159/CodeQuest-Project/internal/shared/server"
)

func main() {
	ctx := context.Background()
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Errorf("config error: %w", err))
	}

	logger := logging.NewLogger("codequest")

	deps, err := app.Build(ctx, cfg, logger)
	if err != nil {
		panic(fmt.Errorf("startup error: %w", err))
	}
	defer func() {
		if err := deps.Close(); err != nil {
			logger.Error("failed to close stores", "error", err)
		}
	}()

	verifier, err := sharedauth.NewVerifier(sharedauth.Config{
		Mode:     cfg.Auth.Mode,
		JWKSURL:  cfg.Auth.JWKSURL,
		Audience: cfg.Auth.Audience,
		Issuer:   cfg.Auth.Issuer,
	})
	if err != nil {
		panic(fmt.Errorf("auth verifier error: %w", err))
	}

	router := sharedserver.NewRouter("codequest", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(sharedauth.Middleware(verifier))
			httpapi.RegisterRoutes(r, deps.Controller, deps.Catalog, logger)
		})
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	if err := sharedserver.Run(ctx, srv, logger); err != nil && !errors.Is(err, http.ErrServerClosed) {
		panic(err)
	}
}
