package main

import (
	"context"
	stdlog "log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	// Nossos pacotes de infraestrutura e utilitários
	"storerating/config"
	"storerating/internal/pkg/cache"
	"storerating/internal/pkg/database"
	"storerating/internal/pkg/logger"
	"storerating/internal/pkg/token"
	"storerating/internal/pkg/validate"

	// Camadas para Injeção de Dependências
	"storerating/internal/api/auth"
	"storerating/internal/api/rating"
	"storerating/internal/api/router"
	"storerating/internal/api/store"
	"storerating/internal/api/user"
	"storerating/internal/repository/ratingrepo"
	"storerating/internal/repository/storerepo"
	"storerating/internal/repository/userrepo"
	"storerating/internal/service/authservice"
	"storerating/internal/service/ratingservice"
	"storerating/internal/service/storeservice"
	"storerating/internal/service/userservice"
)

// @title StoreRating API
// @version 1.0
// @description API de avaliação de lojas com papéis admin, user e store_owner.
// @BasePath /api
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// 0. Variáveis de ambiente (.env é opcional; em Docker vêm do sistema)
	if err := godotenv.Load(); err != nil {
		stdlog.Println("Aviso: arquivo .env não encontrado. Usando apenas o ambiente do sistema.")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		stdlog.Fatalf("%v", err)
	}
	log := logger.NewLogger(cfg.LogLevel)
	log.Info("Configurações carregadas.", map[string]interface{}{"env": cfg.Environment, "port": cfg.Port})

	// 1. Infraestrutura

	// A. Banco de Dados (PostgreSQL)
	db, err := database.NewPostgresDB(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("Falha ao conectar ao banco de dados.", err)
	}
	defer db.Close()
	log.Info("Conexão PostgreSQL estabelecida.", nil)

	// B. Cache (Redis), usado só pelo rate limiter. Indisponível = modo aberto.
	cacheClient, err := cache.NewRedisClient(cfg.RedisAddr)
	if err != nil {
		log.Warn("Redis indisponível; o rate limiter vai liberar as requisições.", map[string]interface{}{"error": err.Error()})
	} else {
		log.Info("Conexão Redis estabelecida.", nil)
	}
	defer cacheClient.Close()

	// 2. Injeção de dependências: Repository -> Service -> Handler
	tokenSvc := token.NewService(cfg.JWTSecretKey, cfg.TokenExpiry())
	v := validate.New()

	userRepo := userrepo.NewUserRepository(db, cfg.DBTimeout(), log)
	storeRepo := storerepo.NewStoreRepository(db, cfg.DBTimeout(), log)
	ratingRepo := ratingrepo.NewRatingRepository(db, cfg.DBTimeout(), log)
	log.Debug("Repositórios inicializados.", nil)

	authSvc := authservice.NewService(userRepo, tokenSvc, log)
	userSvc := userservice.NewService(userRepo, log)
	storeSvc := storeservice.NewService(storeRepo, userRepo, log)
	ratingSvc := ratingservice.NewService(ratingRepo, storeRepo, log)
	log.Debug("Serviços inicializados.", nil)

	handlers := router.Handlers{
		Auth:    auth.NewHandler(authSvc, v, log),
		Users:   user.NewHandler(userSvc, v, log),
		Stores:  store.NewHandler(storeSvc, v, log),
		Ratings: rating.NewHandler(ratingSvc, v, log),
	}

	// 3. Roteador e servidor
	r := router.NewRouter(handlers, router.Options{
		TokenService:   tokenSvc,
		Cache:          cacheClient,
		RateLimit:      cfg.RateLimitMaxRequests,
		RateWindow:     cfg.RateLimitPeriod(),
		AllowedOrigins: cfg.CORSAllowedOrigins,
		Logger:         log,
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// 4. Execução e Graceful Shutdown
	go func() {
		log.Info("Servidor StoreRating ouvindo na porta", map[string]interface{}{"port": cfg.Port})
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Servidor falhou.", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	<-quit
	log.Info("Sinal de encerramento recebido. Desligando servidor...", nil)

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error("Desligamento do servidor forçado.", err)
	}

	log.Info("Servidor encerrado com sucesso.", nil)
}
