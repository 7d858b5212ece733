package http

import (
	"context"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jonboulle/clockwork"
	"github.com/redis/go-redis/v9"

	appratelimit "shieldgate/internal/application/ratelimit"
	"shieldgate/internal/infrastructure/auth"
	"shieldgate/internal/infrastructure/config"
	"shieldgate/internal/infrastructure/permission"
	infraratelimit "shieldgate/internal/infrastructure/ratelimit"
	"shieldgate/internal/infrastructure/scheduler"
	"shieldgate/internal/interfaces/http/handlers"
	"shieldgate/internal/shared/logger"
)

const redisPingTimeout = 5 * time.Second

// Container holds all infrastructure components, the rate limiter and the
// router. It is responsible for wiring everything together and providing a
// Shutdown() method for graceful termination.
type Container struct {
	cfg   *config.Config
	log   logger.Interface
	clock clockwork.Clock

	redis            *redis.Client
	tieredLimiter    *appratelimit.TieredRateLimiter
	schedulerManager *scheduler.SchedulerManager
	router           *Router
}

// NewContainer creates a new Container with all dependencies wired together.
// With the redis backend the server must be reachable at startup.
func NewContainer(cfg *config.Config, clock clockwork.Clock, log logger.Interface) (*Container, error) {
	c := &Container{
		cfg:   cfg,
		log:   log,
		clock: clock,
	}

	if err := c.initInfrastructure(); err != nil {
		_ = c.Shutdown()
		return nil, err
	}
	if err := c.initRateLimiting(); err != nil {
		_ = c.Shutdown()
		return nil, err
	}
	if err := c.initRouter(); err != nil {
		_ = c.Shutdown()
		return nil, err
	}

	return c, nil
}

func (c *Container) initInfrastructure() error {
	if c.cfg.RateLimit.Backend != infraratelimit.BackendRedis {
		return nil
	}

	c.redis = redis.NewClient(&redis.Options{
		Addr:     c.cfg.Redis.GetAddr(),
		Password: c.cfg.Redis.Password,
		DB:       c.cfg.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), redisPingTimeout)
	defer cancel()
	if err := c.redis.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("failed to connect to redis at %s: %w", c.cfg.Redis.GetAddr(), err)
	}

	c.log.Infow("redis connected", "addr", c.cfg.Redis.GetAddr(), "db", c.cfg.Redis.DB)
	return nil
}

func (c *Container) initRateLimiting() error {
	limits, err := appratelimit.LimitsFromConfig(c.cfg.RateLimit.Tiers)
	if err != nil {
		return err
	}

	factory := infraratelimit.StoreFactory{
		Backend:    c.cfg.RateLimit.Backend,
		KeyPrefix:  c.cfg.RateLimit.KeyPrefix,
		StaleAfter: c.cfg.RateLimit.StaleAfter,
	}
	if c.redis != nil {
		factory.RedisClient = c.redis
	}

	c.tieredLimiter, err = appratelimit.NewTieredRateLimiter(limits, factory, c.clock, c.log.Named("ratelimit"))
	if err != nil {
		return fmt.Errorf("failed to create rate limiter: %w", err)
	}

	// redis keys expire on their own
	if c.cfg.RateLimit.Backend == infraratelimit.BackendRedis {
		return nil
	}

	c.schedulerManager, err = scheduler.NewSchedulerManager(c.clock, c.log.Named("scheduler"))
	if err != nil {
		return err
	}
	if _, err := c.schedulerManager.RegisterSweepJob(c.cfg.RateLimit.SweepInterval, appratelimit.NewSweepJob(c.tieredLimiter)); err != nil {
		return err
	}
	return nil
}

func (c *Container) initRouter() error {
	var redisClient redis.Cmdable
	if c.redis != nil {
		redisClient = c.redis
	}

	enforcer, err := permission.NewEnforcer(permission.DefaultPolicies, c.log.Named("permission"))
	if err != nil {
		return err
	}

	c.router = NewRouter(c.cfg, RouterDeps{
		TokenVerifier:  auth.NewJWTService(c.cfg.Auth.JWT.Secret, c.cfg.Auth.JWT.AccessTTL, c.clock),
		TierLimiter:    c.tieredLimiter,
		HealthHandler:  handlers.NewHealthHandler(redisClient, c.clock, c.log.Named("health")),
		Permissions:    enforcer,
		RateLimitAdmin: c.tieredLimiter,
	}, c.log)
	c.router.SetupRoutes()
	return nil
}

// Engine returns the configured gin engine.
func (c *Container) Engine() *gin.Engine {
	return c.router.GetEngine()
}

// StartBackground starts the scheduled jobs.
func (c *Container) StartBackground() {
	if c.schedulerManager != nil {
		c.schedulerManager.Start()
	}
}

// Shutdown stops background jobs and closes connections.
func (c *Container) Shutdown() error {
	var firstErr error

	if c.schedulerManager != nil {
		if err := c.schedulerManager.Stop(); err != nil {
			firstErr = err
		}
	}

	if c.redis != nil {
		if err := c.redis.Close(); err != nil {
			c.log.Errorw("failed to close redis client", "error", err)
			if firstErr == nil {
				firstErr = err
			}
		}
	}

	return firstErr
}
