// Package svntools provides the public Go library API for the asset GUID
// pre-commit check.
//
// # Basic Usage
//
//	client, err := svntools.New(svntools.Options{
//	    ConfigPath: "config/SVNToolSetting.json",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	report, err := client.Validate(ctx, "/srv/svn/game", "42-1a")
//	if err != nil {
//	    log.Fatal(err) // the commit must be rejected
//	}
//	if !report.Passed {
//	    // reject with report.SyncViolations, report.Collisions, report.Mutations
//	}
package svntools

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/lxiaocode/SVNTools/internal/commit"
	"github.com/lxiaocode/SVNTools/internal/config"
	"github.com/lxiaocode/SVNTools/internal/engine"
	"github.com/lxiaocode/SVNTools/internal/registry"
	"github.com/lxiaocode/SVNTools/internal/svnlook"
)

// Options configures a Client.
type Options struct {
	// ConfigPath is the settings file. Default: "./config/SVNToolSetting.json".
	// A missing file leaves the check disabled.
	ConfigPath string

	// Registry replaces the registry named by the settings' database.
	// The Client does not close a registry it was given.
	Registry RegistryClient

	// Svnlook overrides the svnlook binary from the settings.
	Svnlook string

	Logger *slog.Logger
}

// Client validates commits against the asset registry.
// It is safe for concurrent use; runs share one registry.
type Client struct {
	cfg *config.Config

	mu           sync.Mutex
	registry     registry.Client
	ownsRegistry bool
	svnlook      string
	logger       *slog.Logger
}

// New loads settings and creates a Client. The registry is opened on first use.
func New(opts Options) (*Client, error) {
	if opts.ConfigPath == "" {
		opts.ConfigPath = config.DefaultPath
	}

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("loading config %s: %w", opts.ConfigPath, err)
	}

	bin := cfg.Svnlook
	if opts.Svnlook != "" {
		bin = opts.Svnlook
	}

	return &Client{
		cfg:      cfg,
		registry: opts.Registry,
		svnlook:  bin,
		logger:   opts.Logger,
	}, nil
}

// Enabled reports whether the settings turn the check on.
func (c *Client) Enabled() bool {
	return c.cfg.Enable
}

// Validate checks pending transaction txn of repository repos.
// A disabled Client returns a passing report without reading the transaction.
func (c *Client) Validate(ctx context.Context, repos, txn string) (*Report, error) {
	return c.validateLook(ctx, &svnlook.Look{Binary: c.svnlook, Repos: repos, Txn: txn})
}

// ValidateRevision checks an already committed revision.
func (c *Client) ValidateRevision(ctx context.Context, repos, revision string) (*Report, error) {
	return c.validateLook(ctx, &svnlook.Look{Binary: c.svnlook, Repos: repos, Revision: revision})
}

func (c *Client) validateLook(ctx context.Context, look *svnlook.Look) (*Report, error) {
	if !c.Enabled() {
		return engine.Aggregate(nil, nil, nil), nil
	}
	if err := look.Validate(); err != nil {
		return nil, err
	}

	records, err := look.Changed(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing changes: %w", err)
	}
	return c.ValidateChanges(ctx, records, look)
}

// ValidateChanges checks an already listed change set, reading metadata
// content through content. It runs even when the Client is disabled.
func (c *Client) ValidateChanges(ctx context.Context, records []ChangeRecord, content ContentFetcher) (*Report, error) {
	snap, err := commit.NewSnapshot(records, c.cfg.MetaExtension)
	if err != nil {
		return nil, err
	}

	reg, err := c.openRegistry(ctx)
	if err != nil {
		return nil, err
	}

	eng := &engine.ValidateEngine{
		Registry: reg,
		Content:  content,
		Logger:   c.logger,
	}
	return eng.Validate(ctx, snap)
}

func (c *Client) openRegistry(ctx context.Context) (registry.Client, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.registry != nil {
		return c.registry, nil
	}

	reg, err := registry.Open(ctx, c.cfg.Database, c.cfg.RegistryTable)
	if err != nil {
		return nil, err
	}
	c.registry = reg
	c.ownsRegistry = true
	return reg, nil
}

// Close releases a registry opened by the Client.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.ownsRegistry && c.registry != nil {
		err := c.registry.Close()
		c.registry = nil
		c.ownsRegistry = false
		return err
	}
	return nil
}
