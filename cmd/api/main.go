package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/vinigoulartalves/wealthcheck/internal/auth"
	"github.com/vinigoulartalves/wealthcheck/internal/config"
	wealthHttp "github.com/vinigoulartalves/wealthcheck/internal/http"
	loginHandler "github.com/vinigoulartalves/wealthcheck/internal/http/login"
	"github.com/vinigoulartalves/wealthcheck/internal/http/resource"
	sessionHandler "github.com/vinigoulartalves/wealthcheck/internal/http/sessions"
	"github.com/vinigoulartalves/wealthcheck/internal/proxy"
	"github.com/vinigoulartalves/wealthcheck/internal/remote"
	"github.com/vinigoulartalves/wealthcheck/internal/session"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	if cfg.BaseURL() == "" {
		slog.Warn("remote API base URL is not configured; proxy calls will fail until it is set")
	}

	client := remote.New(cfg.BaseURL(), cfg.Remote.Timeout)
	sessions := session.NewStore(cfg.Session.Path)

	var (
		despesaService = proxy.NewService(client, proxy.Despesas())
		receitaService = proxy.NewService(client, proxy.Receitas())
		authService    = auth.NewService(client)
	)

	var (
		despesasH = resource.NewHandler(despesaService, "despesa", "despesas", false)
		receitasH = resource.NewHandler(receitaService, "receita", "receitas", true)
		loginH    = loginHandler.NewHandler(authService, sessions)
		sessionsH = sessionHandler.NewHandler(sessions)
	)

	router := wealthHttp.New(despesasH, receitasH, loginH, sessionsH, cfg.CORS.AllowedOrigins)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	slog.Info("starting server", "app", cfg.App.Name, "port", port)

	if err := http.ListenAndServe(port, router); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
