package postgres

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ospoc/ospoc/constants"
)

const (
	AppDBName = constants.AppName

	healthRetryInterval = time.Second
	healthMaxRetries    = 10
)

type TLSConfig struct {
	CertFile           string
	KeyFile            string
	CACertFile         string
	InsecureSkipVerify bool
}

type DialOption func(opts *dialOpts)

// WithTLS connects to postgres over TLS. A client certificate is only
// presented when both CertFile and KeyFile are set.
func WithTLS(cfg TLSConfig) DialOption {
	return func(opts *dialOpts) {
		opts.tls = &cfg
	}
}

// WithMaxConns sets the maximum size of the connection pool.
func WithMaxConns(n int32) DialOption {
	return func(opts *dialOpts) {
		opts.maxConns = n
	}
}

type dialOpts struct {
	tls      *TLSConfig
	maxConns int32
}

// Dial creates a connection pool to the postgres database and waits for it
// to accept connections.
func Dial(ctx context.Context, user string, password string, hostPort string, dbName string, opts ...DialOption) (*pgxpool.Pool, error) {
	var o dialOpts
	for _, opt := range opts {
		opt(&o)
	}

	sslMode := "disable"
	if o.tls != nil {
		sslMode = "require"
	}

	dsn := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(user, password),
		Host:     hostPort,
		Path:     dbName,
		RawQuery: "sslmode=" + sslMode,
	}

	cfg, err := pgxpool.ParseConfig(dsn.String())
	if err != nil {
		return nil, fmt.Errorf("parse postgres config: %w", err)
	}
	if o.maxConns > 0 {
		cfg.MaxConns = o.maxConns
	}

	if o.tls != nil {
		tlsCfg, err := newTLSConfig(*o.tls)
		if err != nil {
			return nil, err
		}
		tlsCfg.ServerName = cfg.ConnConfig.Host
		cfg.ConnConfig.TLSConfig = tlsCfg
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create postgres pool: %w", err)
	}

	if err = waitHealthy(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}

	return pool, nil
}

func waitHealthy(ctx context.Context, pool *pgxpool.Pool) error {
	pingFn := func() error {
		pctx, cancel := context.WithTimeout(ctx, time.Second)
		defer cancel()
		return pool.Ping(pctx)
	}
	bo := backoff.WithContext(backoff.WithMaxRetries(backoff.NewConstantBackOff(healthRetryInterval), healthMaxRetries), ctx)
	if err := backoff.Retry(pingFn, bo); err != nil {
		return fmt.Errorf("postgres connection unhealthy: %w", err)
	}
	return nil
}

func newTLSConfig(cfg TLSConfig) (*tls.Config, error) {
	tlsCfg := &tls.Config{
		InsecureSkipVerify: cfg.InsecureSkipVerify, //nolint:gosec
	}

	if cfg.CertFile != "" && cfg.KeyFile != "" {
		cert, err := tls.LoadX509KeyPair(cfg.CertFile, cfg.KeyFile)
		if err != nil {
			return nil, fmt.Errorf("load postgres client cert: %w", err)
		}
		tlsCfg.Certificates = []tls.Certificate{cert}
	}

	if cfg.CACertFile != "" {
		caCert, err := os.ReadFile(cfg.CACertFile)
		if err != nil {
			return nil, fmt.Errorf("read postgres ca cert: %w", err)
		}
		caCertPool := x509.NewCertPool()
		if !caCertPool.AppendCertsFromPEM(caCert) {
			return nil, errors.New("failed to append postgres ca cert")
		}
		tlsCfg.RootCAs = caCertPool
	}

	return tlsCfg, nil
}
