package xmltv

import (
	"net/http"
	"time"

	"github.com/sobadon/sktv/domain/repository"
	"github.com/sobadon/sktv/internal/metrics"
)

const (
	DefaultTimeout         = 30 * time.Second
	DefaultSoftLimit       = 10 << 20
	DefaultMaxDecompressed = 256 << 20
)

type Config struct {
	Name string
	URL  string

	// 0 なら DefaultTimeout
	Timeout time.Duration

	// これを超えるサイズは警告だけ出して受け入れる
	// 0 なら DefaultSoftLimit
	SoftLimit int64

	// 展開後のサイズの上限、超えたら ErrDecompress
	// 0 なら DefaultMaxDecompressed
	MaxDecompressed int64

	// 0 なら DefaultMaxProgrammes
	MaxProgrammes int
}

type client struct {
	httpClient *http.Client
	config     Config
	metrics    *metrics.Metrics
}

func New(config Config, m *metrics.Metrics) repository.FeedSource {
	if config.Timeout <= 0 {
		config.Timeout = DefaultTimeout
	}
	if config.SoftLimit <= 0 {
		config.SoftLimit = DefaultSoftLimit
	}
	if config.MaxDecompressed <= 0 {
		config.MaxDecompressed = DefaultMaxDecompressed
	}
	if config.MaxProgrammes <= 0 {
		config.MaxProgrammes = DefaultMaxProgrammes
	}
	if config.Name == "" {
		config.Name = config.URL
	}
	if m == nil {
		m = metrics.Discard()
	}

	return &client{
		// タイムアウトは Fetch ごとに context で掛ける
		httpClient: &http.Client{},
		config:     config,
		metrics:    m,
	}
}

func (c *client) Name() string {
	return c.config.Name
}
