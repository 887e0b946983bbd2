package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/hypernova-labs/catalog-service/internal/config"
	"github.com/hypernova-labs/catalog-service/internal/models"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const (
	productListKeyPrefix = "catalog:products:v"
	productVersionKey    = "catalog:products:version"
)

// ErrCacheMiss indica que la lista de productos no está en caché
var ErrCacheMiss = errors.New("cache miss")

// Redis representa la conexión a Redis
type Redis struct {
	*redis.Client
}

// ConnectRedis establece la conexión a Redis
func ConnectRedis(cfg *config.Config) (*Redis, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.GetRedisAddr(),
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 2,
		MaxRetries:   3,
	})

	// Verificar conexión
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("error pinging Redis: %w", err)
	}

	return &Redis{client}, nil
}

// HealthCheck verifica la salud de Redis
func (r *Redis) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	return r.Ping(ctx).Err()
}

// ProductCache guarda la lista de productos en Redis
type ProductCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *logrus.Logger
}

// NewProductCache crea una nueva instancia del caché
func NewProductCache(client *redis.Client, ttl time.Duration, logger *logrus.Logger) *ProductCache {
	return &ProductCache{
		client: client,
		ttl:    ttl,
		logger: logger,
	}
}

// Version obtiene la versión actual de la lista; cero si nunca se invalidó
func (c *ProductCache) Version(ctx context.Context) (int64, error) {
	version, err := c.client.Get(ctx, productVersionKey).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, fmt.Errorf("error reading product cache version: %w", err)
	}
	return version, nil
}

// GetProducts obtiene la lista cacheada para version; retorna ErrCacheMiss si no existe
func (c *ProductCache) GetProducts(ctx context.Context, version int64) ([]models.Product, error) {
	data, err := c.client.Get(ctx, productListKey(version)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrCacheMiss
		}
		return nil, fmt.Errorf("error reading product cache: %w", err)
	}

	var products []models.Product
	if err := json.Unmarshal(data, &products); err != nil {
		return nil, fmt.Errorf("error decoding product cache: %w", err)
	}
	return products, nil
}

// SetProducts guarda la lista leída bajo version. Si entretanto hubo un
// Invalidate la entrada queda bajo una versión que ya nadie lee y expira con el TTL.
func (c *ProductCache) SetProducts(ctx context.Context, version int64, products []models.Product) error {
	data, err := json.Marshal(products)
	if err != nil {
		return fmt.Errorf("error encoding product cache: %w", err)
	}
	if err := c.client.SetNX(ctx, productListKey(version), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("error writing product cache: %w", err)
	}
	return nil
}

// Invalidate avanza la versión de la lista
func (c *ProductCache) Invalidate(ctx context.Context) error {
	if err := c.client.Incr(ctx, productVersionKey).Err(); err != nil {
		return fmt.Errorf("error invalidating product cache: %w", err)
	}
	return nil
}

func productListKey(version int64) string {
	return productListKeyPrefix + strconv.FormatInt(version, 10)
}
