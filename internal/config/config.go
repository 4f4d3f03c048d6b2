package config

import (
	"strings"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/sobadon/sktv/domain/model/channel"
	"github.com/sobadon/sktv/domain/model/guide"
	"github.com/sobadon/sktv/internal/errutil"
)

const Prefix = "SKTV_"

const (
	StoreSqlite   = "sqlite"
	StoreSnapshot = "snapshot"
	StoreNone     = "none"
)

type Config struct {
	Feeds    []string `env:"FEEDS" envSeparator:"," envDefault:"http://api.rtvs.sk/xml/xmltv.xml"`
	Channels []string `env:"CHANNELS" envSeparator:","`

	Interval     time.Duration `env:"INTERVAL" envDefault:"6h"`
	FetchTimeout time.Duration `env:"FETCH_TIMEOUT" envDefault:"30s"`
	SoftLimit    int64         `env:"SOFT_LIMIT_BYTES" envDefault:"10485760"`
	// 展開後の上限
	MaxDecompressed int64         `env:"MAX_DECOMPRESSED_BYTES" envDefault:"268435456"`
	RetryAttempts   uint          `env:"RETRY_ATTEMPTS" envDefault:"3"`
	RetryDelay      time.Duration `env:"RETRY_DELAY" envDefault:"1m"`

	Lookback    time.Duration `env:"LOOKBACK" envDefault:"2h"`
	Lookahead   time.Duration `env:"LOOKAHEAD" envDefault:"168h"`
	MaxResults  int           `env:"MAX_RESULTS" envDefault:"500"`
	MaxScan     int           `env:"MAX_SCAN" envDefault:"10000"`
	MaxUpcoming int           `env:"MAX_UPCOMING" envDefault:"10"`

	TZ string `env:"TZ" envDefault:"Europe/Bratislava"`

	// sqlite, snapshot, none
	Store        string `env:"STORE" envDefault:"sqlite"`
	SqlitePath   string `env:"SQLITE_PATH" envDefault:"sktv.sqlite3"`
	SnapshotPath string `env:"SNAPSHOT_PATH" envDefault:"sktv-guide.json"`

	// 空なら HTTP は立てない
	HTTPAddr string `env:"HTTP_ADDR"`

	LogLevel      string `env:"LOG_LEVEL" envDefault:"info"`
	LogFile       string `env:"LOG_FILE"`
	LogMaxSizeMB  int    `env:"LOG_MAX_SIZE_MB" envDefault:"50"`
	LogMaxBackups int    `env:"LOG_MAX_BACKUPS" envDefault:"3"`
}

// 環境変数から読む
// environment が nil でなければ OS の環境変数の代わりに使う
func Parse(logger zerolog.Logger, environment map[string]string) (Config, error) {
	var c Config
	opts := env.Options{
		Prefix: Prefix,
		OnSet: func(tag string, value interface{}, isDefault bool) {
			logger.Info().Msgf("Set %s to %v (default? %v)", tag, value, isDefault)
		},
	}
	if environment != nil {
		opts.Environment = environment
	}

	if err := env.Parse(&c, opts); err != nil {
		return Config{}, errors.Wrap(errutil.ErrConfig, err.Error())
	}
	c.Feeds = trimAll(c.Feeds)
	c.Channels = trimAll(c.Channels)
	if err := c.validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

func (c Config) validate() error {
	switch c.Store {
	case StoreSqlite, StoreSnapshot, StoreNone:
	default:
		return errors.Wrapf(errutil.ErrConfig, "unknown store %q", c.Store)
	}
	if c.Interval <= 0 {
		return errors.Wrapf(errutil.ErrConfig, "interval must be positive: %s", c.Interval)
	}
	if c.Lookback < 0 || c.Lookahead < 0 {
		return errors.Wrap(errutil.ErrConfig, "window must not be negative")
	}
	if len(c.Feeds) == 0 {
		return errors.Wrap(errutil.ErrConfig, "no feeds")
	}
	if c.MaxResults <= 0 || c.MaxScan <= 0 {
		return errors.Wrap(errutil.ErrConfig, "max results and max scan must be positive")
	}
	return nil
}

func (c Config) Window() guide.Window {
	return guide.Window{
		Lookback:   c.Lookback,
		Lookahead:  c.Lookahead,
		MaxResults: c.MaxResults,
		MaxScan:    c.MaxScan,
	}
}

// 空なら nil（表の全チャンネル）
func (c Config) ChannelIDs() []channel.ID {
	var ids []channel.ID
	for _, ch := range trimAll(c.Channels) {
		ids = append(ids, channel.ID(ch))
	}
	return ids
}

// "a, b,," -> ["a", "b"]
func trimAll(values []string) []string {
	var out []string
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
