package app

import (
	"github.com/cohesivestack/valgo"
	"github.com/joshjon/kit/log"

	"github.com/ospoc/ospoc/internal/valgoutil"
	"github.com/ospoc/ospoc/postgres"
)

const (
	defaultServerPort = 8080
	defaultCORSOrigin = "*"
	defaultSQLiteDir  = "data"
)

// Config is the service configuration. It is loaded from a yaml file and
// environment variables.
type Config struct {
	Port        int          `yaml:"port" env:"PORT"` // default: 8080
	Logger      LoggerConfig `yaml:"logger" envPrefix:"LOGGER_"`
	CorsOrigins []string     `yaml:"corsOrigins" env:"CORS_ORIGINS"` // default: *
	OSP         OSPConfig    `yaml:"osp" envPrefix:"OSP_"`
	// Postgres (optional): orders are stored in SQLite when not set.
	Postgres *PostgresConfig `yaml:"postgres" envPrefix:"POSTGRES_"`
	SQLite   SQLiteConfig    `yaml:"sqlite" envPrefix:"SQLITE_"`
}

func (c *Config) InitDefaults() {
	c.Port = defaultServerPort
	c.Logger.InitDefaults()
	c.CorsOrigins = []string{defaultCORSOrigin}
	c.SQLite.InitDefaults()
}

func (c *Config) Validation() *valgo.Validation {
	v := valgo.New()
	v.Is(valgo.Int(c.Port, "port").GreaterOrEqualTo(0))
	v.In("logger", c.Logger.Validation())
	v.In("osp", c.OSP.Validation())

	for i, origin := range c.CorsOrigins {
		v.InRow("corsOrigins", i, valgo.Is(valgoutil.CORSOriginValidator(origin, "origin")))
	}

	if c.Postgres != nil {
		v.In("postgres", c.Postgres.Validation())
	} else {
		v.In("sqlite", c.SQLite.Validation())
	}

	return v
}

// OSPConfig configures the platform API that project namespaces are
// provisioned on.
type OSPConfig struct {
	URL   string        `yaml:"url" env:"URL"`
	Token string        `yaml:"token" env:"TOKEN"` // sent verbatim as the Authorization header
	TLS   *OSPTLSConfig `yaml:"tls" envPrefix:"TLS_"`
}

func (c *OSPConfig) Validation() *valgo.Validation {
	v := valgo.Is(
		valgoutil.HTTPURLValidator(c.URL, "url"),
		valgo.String(c.Token, "token").Not().Blank(),
	)
	if c.TLS != nil {
		v.In("tls", c.TLS.Validation())
	}
	return v
}

type OSPTLSConfig struct {
	CACertFile         string `yaml:"caCertFile" env:"CA_CERT_FILE"`
	InsecureSkipVerify bool   `yaml:"insecureSkipVerify" env:"INSECURE_SKIP_VERIFY"` // not intended for production environments
}

func (c *OSPTLSConfig) Validation() *valgo.Validation {
	v := valgo.New()
	if c.CACertFile != "" {
		v.Is(valgoutil.FileExistsValidator(c.CACertFile, "caCertFile"))
	}
	return v
}

type LoggerConfig struct {
	Level      string `yaml:"level" env:"LEVEL"`           // default: info
	Structured bool   `yaml:"structured" env:"STRUCTURED"` // default: true
}

func (c *LoggerConfig) InitDefaults() {
	c.Structured = true
	c.Level = "info"
}

func (c *LoggerConfig) Validation() *valgo.Validation {
	return valgo.Is(valgo.String(c.Level, "level").Passing(func(_ string) bool {
		_, ok := log.ParseLevel(c.Level)
		return ok
	}, "Must be one of [debug, info, warn, error]"))
}

type TLSConfig struct {
	CertFile           string `yaml:"certFile" env:"CERT_FILE"`
	KeyFile            string `yaml:"keyFile" env:"KEY_FILE"`
	CACertFile         string `yaml:"caCertFile" env:"CA_CERT_FILE"`
	InsecureSkipVerify bool   `yaml:"insecureSkipVerify" env:"INSECURE_SKIP_VERIFY"` // client TLS only (not intended for production environments)
}

func (c *TLSConfig) Validation() *valgo.Validation {
	v := valgo.New()
	if c.CertFile != "" || c.KeyFile != "" {
		v.Is(
			valgo.String(c.CertFile, "certFile").Not().Blank(),
			valgo.String(c.KeyFile, "keyFile").Not().Blank(),
		)
	}
	return v
}

type PostgresConfig struct {
	// Database defaults to "ospoc". Overriding is discouraged for compatibility with pgtool.
	Database string     `yaml:"database" env:"DATABASE"`
	HostPort string     `yaml:"hostPort"  env:"HOST_PORT"`
	User     string     `yaml:"user"  env:"USER"`
	Password string     `yaml:"password"  env:"PASSWORD"`
	MaxConns int32      `yaml:"maxConns" env:"MAX_CONNS"`
	TLS      *TLSConfig `yaml:"tls" envPrefix:"TLS_"`
}

func (c *PostgresConfig) InitDefaults() {
	if c.Database == "" {
		c.Database = postgres.AppDBName
	}
}

func (c *PostgresConfig) Validation() *valgo.Validation {
	v := valgo.Is(
		valgoutil.HostPortValidator(c.HostPort, "hostPort"),
		valgo.String(c.User, "user").Not().Blank(),
		valgo.Int32(c.MaxConns, "maxConns").GreaterOrEqualTo(0),
	)
	if c.TLS != nil {
		v.In("tls", c.TLS.Validation())
	}
	return v
}

type SQLiteConfig struct {
	Dir      string `yaml:"dir" env:"DIR"`           // default: data
	InMemory bool   `yaml:"inMemory" env:"IN_MEMORY"` // orders are lost on shutdown
}

func (c *SQLiteConfig) InitDefaults() {
	c.Dir = defaultSQLiteDir
}

func (c *SQLiteConfig) Validation() *valgo.Validation {
	v := valgo.New()
	if !c.InMemory {
		v.Is(valgo.String(c.Dir, "dir").Not().Blank())
	}
	return v
}
