package main

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	authhttp "github.com/semenovda/todo-vault/internal/auth/http"
	authservice "github.com/semenovda/todo-vault/internal/auth/service"
	"github.com/semenovda/todo-vault/internal/common/clock"
	"github.com/semenovda/todo-vault/internal/common/config"
	commoncrypto "github.com/semenovda/todo-vault/internal/common/crypto"
	"github.com/semenovda/todo-vault/internal/common/db"
	commonhttp "github.com/semenovda/todo-vault/internal/common/http"
	"github.com/semenovda/todo-vault/internal/common/jwtverify"
	"github.com/semenovda/todo-vault/internal/common/logger"
	srv "github.com/semenovda/todo-vault/internal/common/server"
	todohttp "github.com/semenovda/todo-vault/internal/todo/http"
	todorepo "github.com/semenovda/todo-vault/internal/todo/repository"
	todoservice "github.com/semenovda/todo-vault/internal/todo/service"
	userrepo "github.com/semenovda/todo-vault/internal/user/repository"
)

func main() {
	log, err := logger.New(os.Getenv("LOG_DIR"), "api", os.Getenv("LOG_LEVEL"))
	if err != nil {
		os.Stderr.WriteString(fmt.Sprintf("failed to initialize logger: %v\n", err))
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	if err := db.RunMigrations(context.Background(), log, cfg.DatabaseURL); err != nil {
		log.Fatalf("failed to run migrations: %v", err)
	}

	pool := db.NewPool(log, cfg.DatabaseURL)
	defer pool.Close()

	realClock := clock.NewRealClock()
	hasher := &commoncrypto.BcryptHasher{}
	idGenerator := commoncrypto.NewUUIDGenerator()
	tokenIssuer := authservice.NewTokenIssuer(cfg.JWTSecret, cfg.TokenTTL, realClock)

	users := userrepo.NewPgRepository(pool)
	authService := authservice.NewAuthService(users, hasher, idGenerator, tokenIssuer, realClock, log)

	todos := todorepo.NewPgRepository(pool)
	todoService := todoservice.NewTodoService(todos, log)

	authHandler := authhttp.NewHandler(authService, cfg.RequestTimeout, log)
	todoHandler := todohttp.NewHandler(todoService, cfg.RequestTimeout, log)
	identityGate := jwtverify.Middleware(cfg.JWTSecret, log)

	mux := http.NewServeMux()
	mux.Handle("/api/auth/", authHandler)
	mux.Handle("/api/todos", identityGate(todoHandler))
	mux.Handle("/api/todos/", identityGate(todoHandler))
	mux.HandleFunc("/health", commonhttp.HealthHandler(log))
	mux.Handle("/metrics", promhttp.Handler())

	baseHandler := commonhttp.BuildBaseHandler(log, mux)

	serverConfig := srv.DefaultServerConfig(cfg.HTTPPort)
	server := srv.NewServer(serverConfig, baseHandler)

	srv.StartWithGracefulShutdown(server, log, "api")
}
