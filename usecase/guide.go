package usecase

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/sobadon/sktv/domain/model/channel"
	"github.com/sobadon/sktv/domain/model/feed"
	"github.com/sobadon/sktv/domain/model/guide"
	"github.com/sobadon/sktv/domain/model/program"
	"github.com/sobadon/sktv/domain/repository"
	"github.com/sobadon/sktv/internal/errutil"
	"github.com/sobadon/sktv/internal/metrics"
	"github.com/sobadon/sktv/internal/timeutil"
	"github.com/sourcegraph/conc/iter"
)

// 最新の番組表を読み手に渡す
// 書き手は更新サイクルだけ
type GuideStore struct {
	current atomic.Pointer[guide.Guide]
}

func (s *GuideStore) Load() (guide.Guide, bool) {
	g := s.current.Load()
	if g == nil {
		return guide.Guide{}, false
	}
	return *g, true
}

func (s *GuideStore) Store(g guide.Guide) {
	s.current.Store(&g)
}

type GuideUsecase interface {
	Update(ctx context.Context, ids []channel.ID) (guide.Guide, error)
	Restore(ctx context.Context) (guide.Guide, error)
	Current() (guide.Guide, bool)
	NowNext(id channel.ID, now time.Time) guide.NowNext
	View(id channel.ID, now time.Time) ChannelView
	Views(ids []channel.ID, now time.Time) []ChannelView
}

var _ GuideUsecase = (*ucGuide)(nil)

type GuideConfig struct {
	Table    channel.Table
	Window   guide.Window
	Location *time.Location
	Clock    timeutil.Clock

	// now/next で返す次番組の数
	MaxUpcoming int

	// now/next を覚えておくチャンネル数
	CacheSize int
}

type ucGuide struct {
	feeds       []repository.FeedSource
	persistence repository.GuidePersistence
	config      GuideConfig
	store       *GuideStore
	nowNext     *NowNextCache
	metrics     *metrics.Metrics

	extract func(ctx context.Context, doc *feed.Document, id channel.ID, now time.Time) ExtractResult
}

// persistence は nil でもよい
func NewGuide(
	feeds []repository.FeedSource,
	persistence repository.GuidePersistence,
	config GuideConfig,
	m *metrics.Metrics,
) (*ucGuide, error) {
	if config.Location == nil {
		config.Location = time.Local
	}
	if config.Clock == nil {
		config.Clock = timeutil.SystemClock(config.Location)
	}
	if config.MaxUpcoming <= 0 {
		config.MaxUpcoming = DefaultMaxUpcoming
	}
	if config.CacheSize <= 0 {
		config.CacheSize = 64
	}
	if m == nil {
		m = metrics.Discard()
	}

	nowNext, err := NewNowNextCache(config.CacheSize, config.MaxUpcoming)
	if err != nil {
		return nil, err
	}

	extractor := Extractor{Table: config.Table, Window: config.Window, Location: config.Location}
	return &ucGuide{
		feeds:       feeds,
		persistence: persistence,
		config:      config,
		store:       &GuideStore{},
		nowNext:     nowNext,
		metrics:     m,
		extract:     extractor.Extract,
	}, nil
}

// 全フィードを取得し直して番組表を作り直す
// 戻り値の Guide は常に ids の全チャンネルを持つ（取れなかったチャンネルは空）
// 返されるエラー
// - errutil.ErrAllFeedsFailed: どのフィードも取れなかった。前回の番組表はそのまま残る
func (u *ucGuide) Update(ctx context.Context, ids []channel.ID) (guide.Guide, error) {
	if len(ids) == 0 {
		ids = u.config.Table.IDs()
	}

	started := time.Now()
	now := u.config.Clock()
	g := guide.New(uuid.New(), now, ids)

	logger := log.Ctx(ctx).With().Str("cycle_id", g.CycleID.String()).Logger()
	ctx = logger.WithContext(ctx)

	docs := u.fetchAll(ctx)
	if len(docs) == 0 {
		u.metrics.Cycles.WithLabelValues("failed").Inc()
		err := errors.Wrapf(errutil.ErrAllFeedsFailed, "%d feeds", len(u.feeds))
		logger.Error().Msgf("%+v", err)
		return g, err
	}

	for _, id := range ids {
		pgrams, err := u.buildChannel(ctx, docs, id, now)
		if err != nil {
			// このチャンネルだけ空にして続ける
			logger.Error().Str("channel", id.String()).Msgf("%+v", err)
			pgrams = []program.Program{}
		}
		g.Channels[id] = pgrams
		u.metrics.ChannelPrograms.WithLabelValues(id.String()).Set(float64(len(pgrams)))
	}

	u.store.Store(g)
	u.metrics.Cycles.WithLabelValues("ok").Inc()
	u.metrics.CycleDuration.Observe(time.Since(started).Seconds())
	logger.Info().Msgf("successfully updated guide (feeds = %d/%d, channels = %d, programs = %d)",
		len(docs), len(u.feeds), len(ids), g.ProgramCount())

	if u.persistence != nil {
		if err := u.persistence.Save(ctx, g); err != nil {
			// 保存できなくても読み手には新しい番組表を見せる
			logger.Error().Msgf("%+v", err)
		}
	}

	return g, nil
}

// 前回保存した番組表を読み込んで読み手に見せる
// 起動直後、最初の更新が終わるまでの間に使う
// 返されるエラー
// - errutil.ErrNotFound: 保存されたものが無い
func (u *ucGuide) Restore(ctx context.Context) (guide.Guide, error) {
	if u.persistence == nil {
		return guide.Guide{}, errors.Wrap(errutil.ErrNotFound, "no persistence configured")
	}
	g, err := u.persistence.Load(ctx)
	if err != nil {
		return guide.Guide{}, err
	}
	for id, pgrams := range g.Channels {
		for i := range pgrams {
			pgrams[i] = pgrams[i].In(u.config.Location)
		}
		g.Channels[id] = pgrams
	}
	u.store.Store(g)
	log.Ctx(ctx).Info().Msgf("restored guide (cycle_id = %s, fetched_at = %s, programs = %d)",
		g.CycleID, g.FetchedAt.Format(time.RFC3339), g.ProgramCount())
	return g, nil
}

func (u *ucGuide) Current() (guide.Guide, bool) {
	return u.store.Load()
}

// 全フィードを並行に取得する
// 失敗したフィードは捨てる（理由はフィード側でログに出ている）
func (u *ucGuide) fetchAll(ctx context.Context) []*feed.Document {
	fetched := iter.Map(u.feeds, func(source *repository.FeedSource) *feed.Document {
		doc, err := (*source).Fetch(ctx)
		if err != nil {
			log.Ctx(ctx).Warn().Str("feed", (*source).Name()).Msgf("feed is unavailable in this cycle: %v", err)
			return nil
		}
		return doc
	})

	docs := make([]*feed.Document, 0, len(fetched))
	for _, doc := range fetched {
		if doc != nil {
			docs = append(docs, doc)
		}
	}
	return docs
}

// 1 チャンネル分を全フィードから集めて並べ直す
// 中で panic しても他のチャンネルには影響させない
func (u *ucGuide) buildChannel(ctx context.Context, docs []*feed.Document, id channel.ID, now time.Time) (pgrams []program.Program, err error) {
	defer func() {
		if r := recover(); r != nil {
			pgrams = nil
			err = errors.Wrapf(errutil.ErrChannelProcessing, "channel %s: %v", id, r)
		}
	}()

	pgrams = []program.Program{}
	for _, doc := range docs {
		res := u.extract(ctx, doc, id, now)
		for reason, n := range res.Skipped {
			u.metrics.EntriesSkipped.WithLabelValues(reason.String()).Add(float64(n))
		}
		pgrams = append(pgrams, res.Programs...)
	}

	sortPrograms(pgrams)
	if limit := u.config.Window.MaxResults; limit > 0 && len(pgrams) > limit {
		pgrams = pgrams[:limit]
	}
	log.Ctx(ctx).Debug().Msgf("built channel (channel = %s, programs = %d)", id, len(pgrams))
	return pgrams, nil
}
