package main

import (
	"context"
	"io"
	"net/http"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"

	"github.com/amigos-terceira-idade/desktop/core"
	"github.com/amigos-terceira-idade/desktop/internal/config"
	"github.com/amigos-terceira-idade/desktop/internal/logger"
	"github.com/amigos-terceira-idade/desktop/internal/session"
	"github.com/amigos-terceira-idade/desktop/services"
	"github.com/amigos-terceira-idade/desktop/ui"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load(ctx)
	if err != nil {
		panic(err)
	}
	log := logger.Init(cfg.LogLevel, cfg.LogPretty, nil)

	store, err := core.OpenStore(cfg.CredentialBackend, cfg.DataDir)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open credential store")
	}

	state := session.NewState()
	gateway := services.NewRequestGateway(cfg.APIBaseURL, &http.Client{Timeout: cfg.HTTPTimeout}, state)
	manager := services.NewSessionManager(gateway, store, state)
	backend := services.NewBackendService(gateway)

	go func() {
		hctx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		if status, err := backend.HealthCheck(hctx); err != nil {
			log.Warn().Err(err).Str("url", cfg.APIBaseURL).Msg("backend unreachable")
		} else {
			log.Info().Str("service", status.Service).Str("status", status.Status).Msg("backend healthy")
		}
	}()

	myApp := app.New()

	var current fyne.Window

	swapTo := func(win fyne.Window) {
		previous := current
		current = win
		win.Show()
		if previous != nil {
			previous.Close()
		}
	}

	showLogin := func(notice string) {
		swapTo(ui.NewLoginWindow(myApp, manager, notice).Win)
	}
	showHome := func() {
		swapTo(ui.NewHomeWindow(myApp, backend, manager).Win)
	}

	// Restore must finish before any window decides between its
	// authenticated and unauthenticated branch.
	manager.Restore()

	state.Subscribe(func(snap session.Snapshot, reason session.Reason) {
		fyne.Do(func() {
			switch reason {
			case session.ReasonSignedIn:
				showHome()
			case session.ReasonSignedOut:
				showLogin("")
			case session.ReasonExpired:
				showLogin("Sua sessão expirou. Entre novamente.")
			}
		})
	})

	if snap := state.Get(); snap.IsAuthenticated {
		log.Info().Msg("session restored, opening home window")
		showHome()
	} else {
		log.Info().Msg("no session, opening login window")
		showLogin("")
	}

	myApp.Run()

	if closer, ok := store.(io.Closer); ok {
		if err := closer.Close(); err != nil {
			log.Warn().Err(err).Msg("failed to close credential store")
		}
	}
	log.Info().Msg("application exited")
}
