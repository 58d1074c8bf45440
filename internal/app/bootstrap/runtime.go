package bootstrap

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	appconfig "github.com/wolfman30/barbershop-booking-site/internal/config"
	"github.com/wolfman30/barbershop-booking-site/internal/session"
	"github.com/wolfman30/barbershop-booking-site/pkg/logging"
)

// BuildRedisClient returns a configured Redis client or nil when disabled.
// When verify is true, a ping is issued and failures return nil.
func BuildRedisClient(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger, verify bool) *redis.Client {
	if cfg == nil || strings.TrimSpace(cfg.RedisAddr) == "" {
		return nil
	}
	if logger == nil {
		logger = logging.Default()
	}
	if ctx == nil {
		ctx = context.Background()
	}

	redisOptions := &redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	}
	if cfg.RedisTLS {
		redisOptions.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	client := redis.NewClient(redisOptions)
	if !verify {
		return client
	}
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("redis not available", "error", err)
		_ = client.Close()
		return nil
	}
	return client
}

// BuildSessionStore picks the session backend. Outside production a missing
// Redis falls back to the in-memory store; in production it is an error.
// The returned close function is never nil.
func BuildSessionStore(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger) (session.Store, func() error, error) {
	if cfg == nil {
		return nil, nil, errors.New("bootstrap: config is required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	noop := func() error { return nil }

	if cfg.UseMemorySessions {
		if cfg.IsProduction() {
			logger.Warn("in-memory sessions in production; sessions are lost on restart")
		}
		logger.Info("using in-memory session store")
		return session.NewMemoryStore(), noop, nil
	}

	client := BuildRedisClient(ctx, cfg, logger, true)
	if client == nil {
		if cfg.IsProduction() {
			return nil, nil, fmt.Errorf("bootstrap: redis unavailable at %q", cfg.RedisAddr)
		}
		logger.Warn("redis unavailable, falling back to in-memory sessions", "addr", cfg.RedisAddr)
		return session.NewMemoryStore(), noop, nil
	}
	logger.Info("using redis session store", "addr", cfg.RedisAddr)
	return session.NewRedisStore(client), client.Close, nil
}

// BuildSessionManager wires cookie signing and the store into a manager.
// Without SESSION_SECRET a random secret is generated outside production,
// which invalidates sessions on every restart.
func BuildSessionManager(cfg *appconfig.Config, store session.Store, logger *logging.Logger) (*session.Manager, error) {
	if logger == nil {
		logger = logging.Default()
	}
	secret := cfg.SessionSecret
	if secret == "" {
		if cfg.IsProduction() {
			return nil, errors.New("bootstrap: SESSION_SECRET is required in production")
		}
		secret = uuid.NewString() + uuid.NewString()
		logger.Warn("SESSION_SECRET not set, using an ephemeral secret")
	}
	codec, err := session.NewCookieCodec(secret)
	if err != nil {
		return nil, fmt.Errorf("bootstrap: %w", err)
	}
	return session.NewManager(session.ManagerOptions{
		Store:        store,
		Codec:        codec,
		TTL:          cfg.SessionTTL,
		SecureCookie: cfg.SessionCookieSecure,
		Logger:       logger,
	}), nil
}
