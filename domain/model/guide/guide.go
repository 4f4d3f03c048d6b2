package guide

import (
	"time"

	"github.com/google/uuid"
	"github.com/sobadon/sktv/domain/model/channel"
	"github.com/sobadon/sktv/domain/model/program"
)

// 1 回の更新サイクルの結果
// 各チャンネルの番組は Start 昇順
// 読み手には丸ごと差し替えで渡し、差し替え後に中身を書き換えることはない
type Guide struct {
	CycleID   uuid.UUID
	FetchedAt time.Time
	Channels  map[channel.ID][]program.Program
}

func New(cycleID uuid.UUID, fetchedAt time.Time, ids []channel.ID) Guide {
	g := Guide{
		CycleID:   cycleID,
		FetchedAt: fetchedAt,
		Channels:  make(map[channel.ID][]program.Program, len(ids)),
	}
	for _, id := range ids {
		g.Channels[id] = []program.Program{}
	}
	return g
}

func (g Guide) Programs(id channel.ID) []program.Program {
	return g.Channels[id]
}

func (g Guide) ProgramCount() int {
	n := 0
	for _, pgrams := range g.Channels {
		n += len(pgrams)
	}
	return n
}

type Window struct {
	// now - Lookback 以降に始まる番組を残す
	// 少し前に始まった放送中の番組を拾うため
	Lookback time.Duration

	// now + Lookahead までに始まる番組を残す
	Lookahead time.Duration

	// 1 チャンネルあたりの上限
	MaxResults int

	// 1 文書あたりに見る programme の上限
	MaxScan int
}

func DefaultWindow() Window {
	return Window{
		Lookback:   2 * time.Hour,
		Lookahead:  7 * 24 * time.Hour,
		MaxResults: 500,
		MaxScan:    10000,
	}
}

// [now - Lookback, now + Lookahead] に start が入るか
// 両端を含む
func (w Window) Contains(now time.Time, start time.Time) bool {
	return !start.Before(now.Add(-w.Lookback)) && !start.After(now.Add(w.Lookahead))
}

type NowNext struct {
	Current  *program.Program
	Upcoming []program.Program
}
