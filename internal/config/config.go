// Package config загружает настройки сервера: значения по умолчанию,
// затем YAML файл, затем флаги командной строки.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/iudanet/bulletinmirror/internal/crypto"
	"github.com/iudanet/bulletinmirror/internal/models"
	"github.com/iudanet/bulletinmirror/internal/transfer"
	"github.com/iudanet/bulletinmirror/internal/validation"
)

// ErrInvalidConfig возвращается Validate
var ErrInvalidConfig = errors.New("invalid config")

// PeerConfig описывает одного пира в конфигурации
type PeerConfig struct {
	ID        string `yaml:"id"`
	Address   string `yaml:"address"`
	PublicKey string `yaml:"public_key"`
	Direction string `yaml:"direction"`
}

// MirrorConfig - параметры зеркалирования
type MirrorConfig struct {
	Interval       time.Duration `yaml:"interval"`
	InactiveSleep  time.Duration `yaml:"inactive_sleep"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
	MaxChunkSize   int64         `yaml:"max_chunk_size"`
	MaxConcurrent  int           `yaml:"max_concurrent"`
	LegacyOnly     bool          `yaml:"legacy_only"`
}

// LogConfig - параметры логирования
type LogConfig struct {
	Level      string `yaml:"level"`
	Format     string `yaml:"format"`
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
}

// Config holds runtime settings of the mirroring server.
//
// Пустые пути к файлам вычисляются относительно DataDir в Validate.
type Config struct {
	ListenAddr string       `yaml:"listen_addr"`
	DataDir    string       `yaml:"data_dir"`
	BoltPath   string       `yaml:"bolt_path"`
	SQLitePath string       `yaml:"sqlite_path"`
	KeyFile    string       `yaml:"key_file"`
	Log        LogConfig    `yaml:"log"`
	Peers      []PeerConfig `yaml:"peers"`
	Mirror     MirrorConfig `yaml:"mirror"`
	RateLimit  int          `yaml:"rate_limit"`
}

// LoadDefaults populates Config with defaults suitable for a single server.
func (c *Config) LoadDefaults() {
	c.ListenAddr = ":8443"
	c.DataDir = "data"
	c.BoltPath = ""
	c.SQLitePath = ""
	c.KeyFile = ""
	c.RateLimit = 600
	c.Mirror = MirrorConfig{
		Interval:       10 * time.Second,
		InactiveSleep:  15 * time.Minute,
		RequestTimeout: 30 * time.Second,
		MaxChunkSize:   1 << 20,
		MaxConcurrent:  4,
	}
	c.Log = LogConfig{
		Level:      "info",
		Format:     "text",
		MaxSizeMB:  100,
		MaxBackups: 5,
		MaxAgeDays: 30,
	}
	c.Peers = nil
}

// BindFlags registers command-line flags writing directly into c.
func (c *Config) BindFlags(fs *pflag.FlagSet) {
	fs.StringVar(&c.ListenAddr, "listen", c.ListenAddr, "HTTP listen address")
	fs.StringVar(&c.DataDir, "data-dir", c.DataDir, "directory for databases, key file and temporary transfers")
	fs.StringVar(&c.BoltPath, "bolt-path", c.BoltPath, "bulletin store path (default <data-dir>/bulletins.db)")
	fs.StringVar(&c.SQLitePath, "sqlite-path", c.SQLitePath, "peer registry path (default <data-dir>/peers.db)")
	fs.StringVar(&c.KeyFile, "key-file", c.KeyFile, "server key file (default <data-dir>/server.key)")
	fs.IntVar(&c.RateLimit, "rate-limit", c.RateLimit, "requests per minute allowed for each peer")
	fs.DurationVar(&c.Mirror.Interval, "mirror-interval", c.Mirror.Interval, "delay between mirroring rounds")
	fs.DurationVar(&c.Mirror.InactiveSleep, "inactive-sleep", c.Mirror.InactiveSleep, "pause after a round without work")
	fs.DurationVar(&c.Mirror.RequestTimeout, "request-timeout", c.Mirror.RequestTimeout, "timeout of a single call to a peer")
	fs.Int64Var(&c.Mirror.MaxChunkSize, "max-chunk-size", c.Mirror.MaxChunkSize, "maximum transfer chunk in bytes")
	fs.IntVar(&c.Mirror.MaxConcurrent, "max-concurrent", c.Mirror.MaxConcurrent, "peers mirrored at the same time (0 = unlimited)")
	fs.BoolVar(&c.Mirror.LegacyOnly, "legacy-only", c.Mirror.LegacyOnly, "answer only the sealed-only listing (older protocol)")
	fs.StringVar(&c.Log.Level, "log-level", c.Log.Level, "log level: debug, info, warn, error")
	fs.StringVar(&c.Log.Format, "log-format", c.Log.Format, "log format: text or json")
	fs.StringVar(&c.Log.File, "log-file", c.Log.File, "log file with rotation (default stderr)")
}

// Load overlays the YAML file at path (if any) onto c, then re-applies flags
// set explicitly on fs so they keep priority over the file, and validates.
func Load(c *Config, path string, fs *pflag.FlagSet) error {
	changed := make(map[string]string)
	if fs != nil {
		fs.Visit(func(f *pflag.Flag) {
			changed[f.Name] = f.Value.String()
		})
	}

	if path != "" {
		if err := loadYAML(c, path); err != nil {
			return err
		}
	}

	for name, value := range changed {
		if err := fs.Set(name, value); err != nil {
			return fmt.Errorf("failed to apply flag --%s: %w", name, err)
		}
	}

	return c.Validate()
}

func loadYAML(c *Config, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open config file: %w", err)
	}
	defer func() {
		_ = f.Close()
	}()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

// Validate checks values and fills derived file paths.
func (c *Config) Validate() error {
	var errs []error
	add := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf(format, args...))
	}

	if c.ListenAddr == "" {
		add("listen address is empty")
	}
	if c.DataDir == "" {
		add("data dir is empty")
	}
	if c.Mirror.Interval <= 0 {
		add("mirror interval must be positive")
	}
	if c.Mirror.InactiveSleep <= 0 {
		add("inactive sleep must be positive")
	}
	if c.Mirror.RequestTimeout < 0 {
		add("request timeout must not be negative")
	}
	if c.Mirror.MaxChunkSize <= 0 || c.Mirror.MaxChunkSize > transfer.MaxChunkSizeLimit {
		add("max chunk size must be in (0, %d]", transfer.MaxChunkSizeLimit)
	}
	if c.Mirror.MaxConcurrent < 0 {
		add("max concurrent must not be negative")
	}
	if c.RateLimit <= 0 {
		add("rate limit must be positive")
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		add("unknown log format %q", c.Log.Format)
	}
	if _, err := ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, err)
	}

	seen := make(map[string]bool)
	for i, p := range c.Peers {
		if err := p.validate(); err != nil {
			add("peer #%d: %w", i+1, err)
			continue
		}
		if seen[p.ID] {
			add("peer #%d: duplicate id %q", i+1, p.ID)
		}
		seen[p.ID] = true
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
	}

	if c.BoltPath == "" {
		c.BoltPath = filepath.Join(c.DataDir, "bulletins.db")
	}
	if c.SQLitePath == "" {
		c.SQLitePath = filepath.Join(c.DataDir, "peers.db")
	}
	if c.KeyFile == "" {
		c.KeyFile = filepath.Join(c.DataDir, "server.key")
	}
	return nil
}

// TempDir returns the directory for partially transferred bulletins.
func (c *Config) TempDir() string {
	return filepath.Join(c.DataDir, "transfer")
}

func (p PeerConfig) validate() error {
	if err := validation.ValidatePeerID(p.ID); err != nil {
		return err
	}
	direction, err := models.ParseDirection(p.Direction)
	if err != nil {
		return err
	}
	if _, err := crypto.ParsePublicKey(p.PublicKey); err != nil {
		return fmt.Errorf("peer %s: %w", p.ID, err)
	}
	peer := models.Peer{Direction: direction}
	if peer.CallsOut() && p.Address == "" {
		return fmt.Errorf("peer %s: outbound peer needs an address", p.ID)
	}
	return nil
}

// ToPeer converts the configured peer into a registry record.
func (p PeerConfig) ToPeer() (*models.Peer, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}
	direction, _ := models.ParseDirection(p.Direction)
	return &models.Peer{
		ID:        p.ID,
		Address:   strings.TrimRight(p.Address, "/"),
		PublicKey: p.PublicKey,
		Direction: direction,
	}, nil
}
