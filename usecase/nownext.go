package usecase

import (
	"time"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/pkg/errors"
	"github.com/sobadon/sktv/domain/model/channel"
	"github.com/sobadon/sktv/domain/model/guide"
	"github.com/sobadon/sktv/domain/model/program"
	"github.com/sobadon/sktv/internal/errutil"
)

const (
	DefaultMaxUpcoming = 10

	// 計算した now/next を使い回してよい時間
	NowNextTTL = 30 * time.Second
)

// pgrams は Start 昇順であること
// 放送中は start <= now < stop の最初の 1 件
// 次番組は start > now のものを maxUpcoming 件まで
func Resolve(pgrams []program.Program, now time.Time, maxUpcoming int) guide.NowNext {
	var res guide.NowNext
	for i := range pgrams {
		p := pgrams[i]
		switch {
		case res.Current == nil && p.AiringAt(now):
			current := p
			res.Current = &current
		case p.Start.After(now):
			if len(res.Upcoming) >= maxUpcoming {
				// 昇順なのでこの先に放送中の番組は無い
				return res
			}
			res.Upcoming = append(res.Upcoming, p)
		}
	}
	return res
}

// 計算済みの now/next
type NowNextEntry struct {
	CycleID    uuid.UUID
	ComputedAt time.Time
	Result     guide.NowNext
}

// 同じサイクルで TTL 内なら使い回せる
// 時計が戻った場合も計算し直す
func (e NowNextEntry) FreshAt(now time.Time, cycleID uuid.UUID) bool {
	if e.CycleID != cycleID {
		return false
	}
	elapsed := now.Sub(e.ComputedAt)
	return elapsed >= 0 && elapsed < NowNextTTL
}

// entry が使えればそのまま返し、使えなければ計算し直して新しい entry も返す
// entry は nil でもよい
func ResolveCached(entry *NowNextEntry, pgrams []program.Program, now time.Time, cycleID uuid.UUID, maxUpcoming int) (guide.NowNext, NowNextEntry) {
	if entry != nil && entry.FreshAt(now, cycleID) {
		return entry.Result, *entry
	}
	fresh := NowNextEntry{
		CycleID:    cycleID,
		ComputedAt: now,
		Result:     Resolve(pgrams, now, maxUpcoming),
	}
	return fresh.Result, fresh
}

// チャンネルごとの NowNextEntry を持つ
// 読むたびに ResolveCached で鮮度を確かめる
type NowNextCache struct {
	entries     *lru.Cache[channel.ID, NowNextEntry]
	maxUpcoming int
}

func NewNowNextCache(size int, maxUpcoming int) (*NowNextCache, error) {
	entries, err := lru.New[channel.ID, NowNextEntry](size)
	if err != nil {
		return nil, errors.Wrap(errutil.ErrInternal, err.Error())
	}
	return &NowNextCache{entries: entries, maxUpcoming: maxUpcoming}, nil
}

func (c *NowNextCache) Get(g guide.Guide, id channel.ID, now time.Time) guide.NowNext {
	var entry *NowNextEntry
	if e, ok := c.entries.Get(id); ok {
		entry = &e
	}

	res, next := ResolveCached(entry, g.Programs(id), now, g.CycleID, c.maxUpcoming)
	if entry == nil || next.CycleID != entry.CycleID || !next.ComputedAt.Equal(entry.ComputedAt) {
		c.entries.Add(id, next)
	}
	return res
}

func (c *NowNextCache) Len() int {
	return c.entries.Len()
}

// 最新の番組表から id の now/next を返す
// 番組表がまだ無ければ空
func (u *ucGuide) NowNext(id channel.ID, now time.Time) guide.NowNext {
	g, ok := u.store.Load()
	if !ok {
		return guide.NowNext{}
	}
	return u.nowNext.Get(g, id, now)
}
