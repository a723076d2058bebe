package container

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"

	"github.com/AI-Powered-Itinerary-Planner/voyage-client/internal/account"
	"github.com/AI-Powered-Itinerary-Planner/voyage-client/internal/api"
	"github.com/AI-Powered-Itinerary-Planner/voyage-client/internal/auth"
	"github.com/AI-Powered-Itinerary-Planner/voyage-client/internal/config"
	"github.com/AI-Powered-Itinerary-Planner/voyage-client/internal/delivery/oauth"
	"github.com/AI-Powered-Itinerary-Planner/voyage-client/internal/infrastructure/database"
	"github.com/AI-Powered-Itinerary-Planner/voyage-client/internal/session"
	"github.com/AI-Powered-Itinerary-Planner/voyage-client/internal/storage"
	"github.com/AI-Powered-Itinerary-Planner/voyage-client/internal/wizard"
)

// Container holds all application dependencies
type Container struct {
	Config   *config.Config
	DB       *sqlx.DB
	Redis    *redis.Client
	Sessions *session.Controller
	API      *api.Client
	Auth     *auth.Coordinator
	Account  *account.Manager
	Relay    *oauth.Relay
}

// NewContainer creates a new dependency injection container
func NewContainer(ctx context.Context, cfg *config.Config) (*Container, error) {
	c := &Container{Config: cfg}

	// Initialize the durable store backend
	durable, err := c.newDurableStore(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	adapter := storage.NewAdapter(durable, storage.NewMemoryStore())

	sessions, err := session.NewController(ctx, adapter)
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("failed to restore session: %w", err)
	}
	c.Sessions = sessions

	c.API = api.NewClient(cfg.Backend.BaseURL, cfg.Backend.Timeout, sessions.Token)
	c.Auth = auth.NewCoordinator(c.API, sessions)
	c.Account = account.NewManager(sessions, c.API, adapter)
	c.Relay = oauth.NewRelay(&cfg.Relay, &cfg.Google, c.Auth)

	return c, nil
}

// NewWizard starts a fresh profile-creation draft.
func (c *Container) NewWizard() *wizard.Accumulator {
	return wizard.NewAccumulator(c.Sessions, c.API)
}

func (c *Container) newDurableStore(cfg *config.Config) (storage.Store, error) {
	switch cfg.Storage.Type {
	case "redis":
		client, err := database.NewRedisClient(&cfg.Redis)
		if err != nil {
			return nil, err
		}
		c.Redis = client
		return storage.NewRedisStore(client, "voyage"), nil
	case "postgres":
		db, err := database.NewPostgresDB(&cfg.Database)
		if err != nil {
			return nil, err
		}
		c.DB = db
		return storage.NewPostgresStore(db)
	default:
		return storage.NewFileStore(cfg.Storage.Path)
	}
}

// Close closes all connections
func (c *Container) Close() error {
	// Close Redis
	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			fmt.Printf("Error closing Redis: %v\n", err)
		}
	}

	// Close database
	if c.DB != nil {
		if err := c.DB.Close(); err != nil {
			return fmt.Errorf("failed to close database: %w", err)
		}
	}

	return nil
}
