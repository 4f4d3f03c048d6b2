// Package common wires the pieces shared by the run and show commands.
package common

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/sobadon/sktv/domain/model/channel"
	"github.com/sobadon/sktv/domain/repository"
	"github.com/sobadon/sktv/infrastructures/snapshot"
	"github.com/sobadon/sktv/infrastructures/sqlite"
	"github.com/sobadon/sktv/infrastructures/xmltv"
	"github.com/sobadon/sktv/internal/config"
	"github.com/sobadon/sktv/internal/errutil"
	"github.com/sobadon/sktv/internal/logutil"
	"github.com/sobadon/sktv/internal/metrics"
	"github.com/sobadon/sktv/internal/timeutil"
	"github.com/sobadon/sktv/usecase"
	"github.com/spf13/afero"
)

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// 設定を読み、ログの出力先を合わせる
func Setup(logger zerolog.Logger) (config.Config, io.Closer, error) {
	cfg, err := config.Parse(logger, nil)
	if err != nil {
		return config.Config{}, nil, err
	}

	closer, err := logutil.Setup(logutil.Options{
		Level:      cfg.LogLevel,
		File:       cfg.LogFile,
		MaxSizeMB:  cfg.LogMaxSizeMB,
		MaxBackups: cfg.LogMaxBackups,
	})
	if err != nil {
		return config.Config{}, nil, err
	}
	return cfg, closer, nil
}

// 設定された保存先を開く
// StoreNone なら nil を返す
func OpenPersistence(ctx context.Context, cfg config.Config) (repository.GuidePersistence, io.Closer, error) {
	switch cfg.Store {
	case config.StoreSqlite:
		db, err := sqlite.NewDB(cfg.SqlitePath)
		if err != nil {
			return nil, nil, err
		}
		if err := sqlite.Setup(ctx, db); err != nil {
			db.Close()
			return nil, nil, err
		}
		return sqlite.New(db), db, nil
	case config.StoreSnapshot:
		return snapshot.New(afero.NewOsFs(), cfg.SnapshotPath), nopCloser{}, nil
	case config.StoreNone:
		return nil, nopCloser{}, nil
	}
	return nil, nil, errors.Wrapf(errutil.ErrConfig, "unknown store %q", cfg.Store)
}

func NewFeeds(cfg config.Config, m *metrics.Metrics) ([]repository.FeedSource, error) {
	feeds := make([]repository.FeedSource, 0, len(cfg.Feeds))
	for i, raw := range cfg.Feeds {
		u, err := url.Parse(raw)
		if err != nil || u.Host == "" {
			return nil, errors.Wrapf(errutil.ErrConfig, "invalid feed url: %q", raw)
		}
		feeds = append(feeds, xmltv.New(xmltv.Config{
			Name:            fmt.Sprintf("%d:%s", i, u.Host),
			URL:             raw,
			Timeout:         cfg.FetchTimeout,
			SoftLimit:       cfg.SoftLimit,
			MaxDecompressed: cfg.MaxDecompressed,
			// これより後ろの programme は抽出でも見ない
			MaxProgrammes: cfg.MaxScan,
		}, m))
	}
	return feeds, nil
}

func NewGuide(cfg config.Config, feeds []repository.FeedSource, persistence repository.GuidePersistence, m *metrics.Metrics) (*time.Location, usecase.GuideUsecase, error) {
	loc, err := timeutil.Location(cfg.TZ)
	if err != nil {
		return nil, nil, err
	}

	g, err := usecase.NewGuide(feeds, persistence, usecase.GuideConfig{
		Table:       channel.DefaultTable(),
		Window:      cfg.Window(),
		Location:    loc,
		Clock:       timeutil.SystemClock(loc),
		MaxUpcoming: cfg.MaxUpcoming,
	}, m)
	if err != nil {
		return nil, nil, err
	}
	return loc, g, nil
}
