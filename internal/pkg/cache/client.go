package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// Client define o contrato de contadores com expiração usado pelo rate limiter.
// Nenhum dado de domínio (lojas, médias) passa pelo cache.
type Client interface {
	Incr(ctx context.Context, key string) (int64, error)
	Expire(ctx context.Context, key string, ttl time.Duration) error
	TTL(ctx context.Context, key string) (time.Duration, error)
	Close() error
}

// RedisClient é a implementação concreta da interface Client, usando Redis.
type RedisClient struct {
	rdb *redis.Client
}

// NewRedisClient cria o cliente Redis e testa a conexão com PING.
// Um erro aqui não é fatal para o servidor: o rate limiter opera em modo aberto.
func NewRedisClient(addr string) (*RedisClient, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr: addr,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	c := &RedisClient{rdb: rdb}
	if err := rdb.Ping(ctx).Err(); err != nil {
		return c, fmt.Errorf("falha ao conectar ao Redis em %s: %w", addr, err)
	}
	return c, nil
}

// Incr incrementa o contador da chave, criando-o com valor 1 se não existir.
func (c *RedisClient) Incr(ctx context.Context, key string) (int64, error) {
	return c.rdb.Incr(ctx, key).Result()
}

// Expire define o tempo de vida da chave.
func (c *RedisClient) Expire(ctx context.Context, key string, ttl time.Duration) error {
	return c.rdb.Expire(ctx, key, ttl).Err()
}

// TTL devolve o tempo de vida restante da chave.
func (c *RedisClient) TTL(ctx context.Context, key string) (time.Duration, error) {
	return c.rdb.TTL(ctx, key).Result()
}

// Close encerra o pool de conexões com o Redis.
func (c *RedisClient) Close() error {
	return c.rdb.Close()
}
