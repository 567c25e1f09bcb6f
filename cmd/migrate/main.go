package main

import (
	"context"
	"flag"
	"fmt"
	stdlog "log"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/pressly/goose/v3"

	"storerating/internal/pkg/database"
	"storerating/internal/pkg/logger"
	"storerating/internal/seed"
)

// Cfg é o subconjunto da configuração usado pelas migrações.
type Cfg struct {
	DatabaseURL string `envconfig:"DATABASE_URL" required:"true"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`
}

func main() {
	if err := godotenv.Load(); err != nil {
		stdlog.Printf("Aviso: arquivo .env não encontrado; usando o ambiente do sistema: %v", err)
	}

	var cfg Cfg
	if err := envconfig.Process("", &cfg); err != nil {
		stdlog.Fatal(err)
	}
	log := logger.NewLogger(cfg.LogLevel)

	var (
		migrationsDir string
		withSeed      bool
	)
	flag.StringVar(&migrationsDir, "dir", "./sql", "directory with migration files")
	flag.BoolVar(&withSeed, "seed", false, "insert sample data after the migrations")
	flag.Parse()

	db, err := database.NewPostgresDB(cfg.DatabaseURL)
	if err != nil {
		stdlog.Fatalf("goose: failed to connect to DB: %v\n", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			stdlog.Fatalf("goose: failed to close DB: %v\n", err)
		}
	}()

	if err := goose.SetDialect("postgres"); err != nil {
		stdlog.Fatalf("goose: %v", err)
	}
	goose.SetLogger(goose.NopLogger())

	arguments := flag.Args()
	if len(arguments) == 0 {
		arguments = []string{"up"}
	}

	command := arguments[0]
	var args []string
	if len(arguments) > 1 {
		args = arguments[1:]
	}

	if withSeed && command != "up" {
		stdlog.Fatalf("-seed só pode ser usado com o comando up (recebido %q)", command)
	}

	if err := goose.Run(command, db, migrationsDir, args...); err != nil {
		stdlog.Fatalf("goose %v: %v", command, err)
	}
	fmt.Printf("goose %s success\n", command)

	if !withSeed {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	res, err := seed.New(db, log).Run(ctx)
	if err != nil {
		stdlog.Fatalf("seed: %v", err)
	}
	fmt.Printf("seed success: %d users, %d stores created\n", res.UsersCreated, res.StoresCreated)
}
