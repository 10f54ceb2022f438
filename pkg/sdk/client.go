package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nebula-labs/catalog/internal/config"
	"github.com/nebula-labs/catalog/internal/db"
	"github.com/nebula-labs/catalog/internal/db/dial"
	"github.com/nebula-labs/catalog/internal/domain/document"
	"github.com/nebula-labs/catalog/internal/domain/filter"
	domres "github.com/nebula-labs/catalog/internal/domain/resource"
	resourcerepo "github.com/nebula-labs/catalog/internal/repository/resource"
	healthuc "github.com/nebula-labs/catalog/internal/usecase/health"
	resourceuc "github.com/nebula-labs/catalog/internal/usecase/resource"
)

// Internal interfaces for substitution in tests.
type resourceUseCase interface {
	Search(ctx context.Context, f filter.Filter) ([]document.Document, error)
	Get(ctx context.Context, id string) (document.Document, error)
}

type healthUseCase interface {
	Check(ctx context.Context) healthuc.Report
}

// Client is the catalog SDK entry point. It is safe for concurrent use.
type Client struct {
	store     db.Store
	resources map[domres.Kind]resourceUseCase
	healthSvc healthUseCase
	obs       *observer
}

// New creates a Client and waits for the database to become ready.
// The provided context bounds the connection and readiness check.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{}
	for _, o := range opts {
		o.apply(cfg)
	}

	if cfg.database.Driver == "" {
		return nil, errors.New("catalog: database required (use WithMongo, WithRedis or WithValkey)")
	}
	if err := cfg.applyDefaults(); err != nil {
		return nil, err
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}

	store, err := dial.Open(ctx, cfg.database, cfg.storage)
	if err != nil {
		return nil, fmt.Errorf("catalog: %w", err)
	}

	readiness := time.Duration(cfg.database.ReadinessTimeout) * time.Second
	if err := store.WaitForReady(ctx, readiness); err != nil {
		store.Close()
		return nil, fmt.Errorf("catalog: database not ready: %w", err)
	}

	return wireClient(store, cfg.storage, obs), nil
}

// applyDefaults fills the same defaults the API server uses and rejects
// collection overrides for unknown kinds.
func (c *clientConfig) applyDefaults() error {
	full := config.Config{Database: c.database, Storage: c.storage}
	full.ApplyDefaults()
	c.database, c.storage = full.Database, full.Storage

	for kind := range c.storage.Collections {
		if _, err := domres.Parse(kind); err != nil {
			return fmt.Errorf("catalog: %w", err)
		}
	}
	return nil
}

func wireClient(store db.Store, storage config.StorageConfig, obs *observer) *Client {
	resources := make(map[domres.Kind]resourceUseCase, len(domres.All()))
	for _, kind := range domres.All() {
		repo := resourcerepo.New(kind, store.Collection(storage.Collection(kind)))
		resources[kind] = resourceuc.New(kind, repo)
	}

	return &Client{
		store:     store,
		resources: resources,
		healthSvc: healthuc.New(store),
		obs:       obs,
	}
}

// Close releases all resources.
func (c *Client) Close() {
	if c.store != nil {
		c.store.Close()
	}
}

// Ping checks database connectivity.
func (c *Client) Ping(ctx context.Context) (err error) {
	start := time.Now()
	defer func() { c.obs.observe("", "ping", start, err) }()

	if err = c.store.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// Courses returns the course query service.
func (c *Client) Courses() *ResourceService { return c.service(domres.Course) }

// Degrees returns the degree query service.
func (c *Client) Degrees() *ResourceService { return c.service(domres.Degree) }

// Sections returns the section query service.
func (c *Client) Sections() *ResourceService { return c.service(domres.Section) }

// Exams returns the exam query service.
func (c *Client) Exams() *ResourceService { return c.service(domres.Exam) }

// Resource returns the query service for a kind by name ("course", "degree", "section", "exam").
func (c *Client) Resource(kind string) (*ResourceService, error) {
	k, err := domres.Parse(kind)
	if err != nil {
		return nil, err
	}
	return c.service(k), nil
}

func (c *Client) service(k domres.Kind) *ResourceService {
	return &ResourceService{kind: k.String(), svc: c.resources[k], obs: c.obs}
}
