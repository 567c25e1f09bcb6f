package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config armazena todas as configurações do servidor StoreRating.
// Os valores vêm de variáveis de ambiente (opcionalmente carregadas de um .env).
type Config struct {
	// Geral
	Port        string `envconfig:"PORT" default:"8080"`
	Environment string `envconfig:"ENV" default:"development"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`

	// Banco de Dados (PostgreSQL)
	DatabaseURL  string `envconfig:"DATABASE_URL" required:"true"`
	DBTimeoutSec int    `envconfig:"DB_TIMEOUT_SEC" default:"5"`

	// Cache (Redis), usado apenas pelo rate limiter
	RedisAddr string `envconfig:"REDIS_ADDR" default:"localhost:6379"`

	// Segurança (JWT)
	JWTSecretKey string `envconfig:"JWT_SECRET_KEY" required:"true"`
	JWTExpiryMin int    `envconfig:"JWT_EXPIRY_MIN" default:"1440"`

	// Rate Limiting das rotas de autenticação
	RateLimitMaxRequests int `envconfig:"RATE_LIMIT_MAX_REQUESTS" default:"20"`
	RateLimitPeriodMin   int `envconfig:"RATE_LIMIT_PERIOD_MIN" default:"15"`

	// CORS, lista separada por vírgulas
	CORSAllowedOrigins []string `envconfig:"CORS_ALLOWED_ORIGINS" default:"http://localhost:3000"`
}

// DBTimeout é o limite de cada chamada ao banco.
func (c *Config) DBTimeout() time.Duration {
	return time.Duration(c.DBTimeoutSec) * time.Second
}

// TokenExpiry é a validade dos tokens emitidos no login.
func (c *Config) TokenExpiry() time.Duration {
	return time.Duration(c.JWTExpiryMin) * time.Minute
}

// RateLimitPeriod é a janela fixa do rate limiter.
func (c *Config) RateLimitPeriod() time.Duration {
	return time.Duration(c.RateLimitPeriodMin) * time.Minute
}

// IsProduction informa se o servidor roda em produção.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Environment, "production")
}

// LoadConfig carrega as configurações a partir das variáveis de ambiente.
// Falha quando uma variável obrigatória está ausente ou um valor é inválido.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("erro de configuração: %w", err)
	}

	if cfg.DBTimeoutSec <= 0 {
		return nil, fmt.Errorf("erro de configuração: DB_TIMEOUT_SEC deve ser positivo (recebido %d)", cfg.DBTimeoutSec)
	}
	if cfg.JWTExpiryMin <= 0 {
		return nil, fmt.Errorf("erro de configuração: JWT_EXPIRY_MIN deve ser positivo (recebido %d)", cfg.JWTExpiryMin)
	}
	if cfg.RateLimitMaxRequests <= 0 || cfg.RateLimitPeriodMin <= 0 {
		return nil, fmt.Errorf("erro de configuração: rate limit inválido (%d requisições / %d min)", cfg.RateLimitMaxRequests, cfg.RateLimitPeriodMin)
	}
	return &cfg, nil
}
