// Copyright (c) 2025 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package config is an adapter which accepts yaml formatted config
// files from its users and allows the spweb to instantiate different
// components, from the adapter or use cases layers, using those loaded
// configuration settings.
// The parsed and validated configurations should be passed to their
// ultimate components as a series of individual params (for the
// mandatory items) and a series of functional options (for the
// optional items), so they may be accumulated and validated in another
// (possibly non-exported) config struct (or directly in the relevant
// end-component such as a UseCase instance). This design decision
// causes a bit of redundancy in favor of a defensive solution.
package config

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/smartplate/smartplate/pkg/adapter/auth/jwt"
	"github.com/smartplate/smartplate/pkg/adapter/config/settings"
	"github.com/smartplate/smartplate/pkg/adapter/db/postgres"
	"github.com/smartplate/smartplate/pkg/adapter/email/smtp"
	"github.com/smartplate/smartplate/pkg/adapter/event/hub"
	rgin "github.com/smartplate/smartplate/pkg/adapter/restful/gin"
	"github.com/smartplate/smartplate/pkg/core/email"
	"github.com/smartplate/smartplate/pkg/core/match"
	"github.com/smartplate/smartplate/pkg/core/repo"
	"github.com/smartplate/smartplate/pkg/core/usecase/requestuc"
	"gopkg.in/yaml.v3"
)

var validate = validator.New()

// Config contains all settings which are required by different parts
// of the project, such as adapters or use cases. It is preferred to
// implement Config with primitive fields or other structs which are
// defined locally, not models or structs which are defined in lower
// layers, so the configuration can be kept intact while other layers
// can change freely.
type Config struct {
	Database Database // PostgreSQL database connection settings
	Gin      Gin      // Gin-Gonic instantiation settings
	Auth     Auth     // access token issuance settings
	Mail     Mail     // outbound SMTP relay settings; optional
	Events   Events   // event fan-out settings
	Usecases Usecases // configuration settings for supported use cases
}

// Load function loads, validates, and normalizes the configuration
// file and returns its settings as an instance of the Config struct.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	c := &Config{}
	if err := yaml.Unmarshal(data, c); err != nil {
		return nil, fmt.Errorf("unmarshalling yaml: %w", err)
	}
	if err := c.ValidateAndNormalize(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return c, nil
}

// ValidateAndNormalize validates the configuration settings and
// returns an error if they were not acceptable. It can also modify
// settings in order to normalize them or replace some zero values
// with their expected default values (if any).
func (c *Config) ValidateAndNormalize() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid settings: %w", err)
	}
	c.Gin.normalize()
	return nil
}

// ConnectionPool creates a database connection pool using the
// connection information which are kept in the `c` settings.
func (c *Config) ConnectionPool(
	ctx context.Context, r repo.Role,
) (repo.Pool, error) {
	p, err := c.Database.ConnectionPool(ctx, r)
	if err != nil {
		return nil, fmt.Errorf(
			"%#v.ConnectionPool: %w", c.Database, err,
		)
	}
	return p, nil
}

// Database contains the database related configuration settings.
type Database struct {
	Host    string `validate:"required"` // DBMS server address
	Port    int    `validate:"required"` // DBMS server port number
	Name    string `validate:"required"` // database name
	PassDir string `yaml:"pass-dir" validate:"required"`

	// RoleSuffix specifies a possibly empty suffix for the database
	// role names. Normally, repo.AdminRole and repo.NormalRole roles
	// are used. In the parallel test cases, it is required to create
	// multiple non-colliding roles in the same database cluster and
	// so having a unique (per test) role suffix helps with parallelism.
	RoleSuffix repo.Role `yaml:"role-suffix,omitempty"`
}

// ConnectionPool creates a database connection pool using the
// connection information which are kept in the `d` settings.
// The password of the `r` role is looked up in the .pgpass file in
// the d.PassDir folder, which should conform with the pgpass format
// with lines like this:
//
//	host:port:dbname:role:password
//
// The `d.RoleSuffix` will be appended to the given `r` role name too.
func (d Database) ConnectionPool(
	ctx context.Context, r repo.Role,
) (repo.Pool, error) {
	path := filepath.Join(d.PassDir, ".pgpass")
	u, err := d.ConnectionURL(r, path)
	if err != nil {
		return nil, fmt.Errorf("using %q pass-file: %w", path, err)
	}
	p, err := postgres.NewPool(ctx, u)
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}
	return p, nil
}

// ConnectionURL returns the database connection URL embedding the host,
// port, role name, database name, and password value. These items are
// directly taken from the `d` settings, but the role name which is
// specified by the `r` argument and the password value which is read
// from the given `path` file. Returned URL has the postgresql scheme.
// The `path` file may contain empty or `#`-commented lines in addition
// to the password specifying lines.
func (d Database) ConnectionURL(
	r repo.Role, path string,
) (string, error) {
	passLines, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading pass-file: %w", err)
	}
	r = r + d.RoleSuffix
	prfx := fmt.Sprintf("%s:%d:%s:%s:", d.Host, d.Port, d.Name, r)
	var pass string
	for _, line := range strings.Split(string(passLines), "\n") {
		if line == "" || line[0] == '#' {
			continue
		}
		if strings.HasPrefix(line, prfx) {
			pass = line[len(prfx):]
			break
		}
	}
	if pass == "" {
		return "", fmt.Errorf("no matching password line")
	}
	u := url.URL{
		Scheme: "postgresql",
		User:   url.UserPassword(string(r), pass),
		Host:   fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:   d.Name,
	}
	return u.String(), nil
}

// ConnectionInfo returns the host, port, and database name of the
// connection information which are kept in this Database instance.
func (d Database) ConnectionInfo() (dbName, host string, port int) {
	return d.Name, d.Host, d.Port
}

// Gin contains the gin-gonic related configuration settings.
// The middleware fields are defined as pointers, so it is possible to
// distinguish an explicitly disabled middleware from an uninitialized
// setting which should take its default value.
type Gin struct {
	Logger   *bool  // Whether to register the gin.Logger() middleware
	Recovery *bool  // Whether to register the gin.Recovery() middleware
	Listen   string `yaml:",omitempty"` // listening address, like :8080
}

func (g *Gin) normalize() {
	t := true
	if g.Logger == nil {
		g.Logger = &t
	}
	if g.Recovery == nil {
		g.Recovery = &t
	}
	if g.Listen == "" {
		g.Listen = ":8080"
	}
}

// NewEngine instantiates a new gin-gonic engine instance based on
// the `g` settings.
func (g Gin) NewEngine() *rgin.Engine {
	middlewares := make([]rgin.HandlerFunc, 0, 2)
	if *g.Logger {
		middlewares = append(middlewares, rgin.Logger())
	}
	if *g.Recovery {
		middlewares = append(middlewares, rgin.Recovery())
	}
	return rgin.New(middlewares...)
}

// Auth contains the access token issuance settings.
type Auth struct {
	// Secret is the HS256 signing secret of issued tokens. It must be
	// kept out of version control.
	Secret string `validate:"required"`

	// TokenValidity bounds the lifetime of issued tokens.
	// A nil value indicates that validity is left uninitialized, so
	// the jwt adapter may select its default value.
	TokenValidity *settings.Duration `yaml:"token-validity,omitempty"`
}

// NewIssuer instantiates a token issuer based on the `a` settings.
func (a Auth) NewIssuer() (*jwt.Issuer, error) {
	var v time.Duration
	if a.TokenValidity != nil {
		v = time.Duration(*a.TokenValidity)
	}
	i, err := jwt.New(a.Secret, v)
	if err != nil {
		return nil, fmt.Errorf("creating token issuer: %w", err)
	}
	return i, nil
}

// Mail contains the outbound SMTP relay settings. An empty host
// disables mail dispatch entirely.
type Mail struct {
	Host     string `yaml:",omitempty"`
	Port     int    `yaml:",omitempty"`
	Username string `yaml:",omitempty"`
	Password string `yaml:",omitempty"`
	Sender   string `yaml:",omitempty"`
}

// NewDispatcher instantiates a mail dispatcher based on the `m`
// settings, falling back to a discarding dispatcher when no relay
// host is configured.
func (m Mail) NewDispatcher() email.Dispatcher {
	if m.Host == "" {
		return email.Discard{}
	}
	return smtp.New(m.Host, m.Port, m.Username, m.Password, m.Sender)
}

// Events contains the event fan-out settings.
type Events struct {
	// BufferSize is the per-subscriber events channel capacity.
	// A zero value lets the hub adapter select its default value.
	BufferSize int `yaml:"buffer-size,omitempty"`
}

// NewHub instantiates an events hub based on the `e` settings.
func (e Events) NewHub() *hub.Hub {
	return hub.New(e.BufferSize)
}

// Usecases contains the configuration settings for all use cases.
type Usecases struct {
	Matching Matching // volunteer matching policy settings
}

// Matching contains the tunable knobs of the volunteer matching
// policies. Fields are defined as pointers, so an explicitly
// configured zero can be distinguished from an uninitialized setting
// which should take its default value from the match package.
type Matching struct {
	// NeutralDistanceKm is assumed as the distance between two parties
	// when either side lacks coordinates.
	NeutralDistanceKm *float64 `yaml:"neutral-distance-km,omitempty"`

	// EscalationThreshold is the capacity score below which a task is
	// considered too demanding for a single volunteer.
	EscalationThreshold *float64 `yaml:"escalation-threshold,omitempty"`
}

// NewUseCase instantiates a new request lifecycle use case based on
// the settings in the `m` struct, in addition to the given pool,
// repos, and extra options.
func (m Matching) NewUseCase(
	p repo.Pool, rs repo.Requests, ps repo.Participants,
	opts ...requestuc.Option,
) (*requestuc.UseCase, error) {
	if m.NeutralDistanceKm != nil || m.EscalationThreshold != nil {
		mp := match.DefaultParams()
		if m.NeutralDistanceKm != nil {
			mp.NeutralDistanceKm = *m.NeutralDistanceKm
		}
		if m.EscalationThreshold != nil {
			mp.EscalationThreshold = *m.EscalationThreshold
		}
		opts = append(opts, requestuc.WithMatching(mp))
	}
	return requestuc.New(p, rs, ps, opts...)
}
