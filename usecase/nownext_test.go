package usecase

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/sobadon/sktv/domain/model/channel"
	"github.com/sobadon/sktv/domain/model/guide"
	"github.com/sobadon/sktv/domain/model/program"
	"github.com/sobadon/sktv/internal/testutil"
	"github.com/sobadon/sktv/internal/timeutil"
)

func mustProgram(t *testing.T, title string, start, stop time.Time) program.Program {
	t.Helper()
	p, err := program.New(program.Params{Title: title, Start: start, Stop: stop})
	if err != nil {
		t.Fatal(err)
	}
	return p
}

func titleOf(p *program.Program) string {
	if p == nil {
		return ""
	}
	return p.Title
}

func TestResolve(t *testing.T) {
	cet := timeutil.LocationCET()
	hm := func(v string) time.Time { return testutil.MustTime(t, "2024-01-01 "+v, cet) }

	c := mustProgram(t, "C", hm("08:00"), hm("09:00"))
	a := mustProgram(t, "A", hm("09:30"), hm("10:30"))
	b := mustProgram(t, "B", hm("11:00"), hm("12:00"))
	d := mustProgram(t, "D", hm("12:00"), hm("13:00"))
	e := mustProgram(t, "E", hm("13:00"), hm("14:00"))

	tests := []struct {
		name         string
		pgrams       []program.Program
		now          time.Time
		maxUpcoming  int
		wantCurrent  string
		wantUpcoming []string
	}{
		{
			name:         "放送中と次番組に分かれ、終わった番組はどちらにも入らない",
			pgrams:       []program.Program{c, a, b},
			now:          hm("10:00"),
			maxUpcoming:  10,
			wantCurrent:  "A",
			wantUpcoming: []string{"B"},
		},
		{
			name:         "次番組は上限まで",
			pgrams:       []program.Program{c, a, b, d, e},
			now:          hm("10:00"),
			maxUpcoming:  2,
			wantCurrent:  "A",
			wantUpcoming: []string{"B", "D"},
		},
		{
			name:         "開始ちょうどは放送中",
			pgrams:       []program.Program{a, b},
			now:          hm("09:30"),
			maxUpcoming:  10,
			wantCurrent:  "A",
			wantUpcoming: []string{"B"},
		},
		{
			name:         "終了ちょうどは放送中ではない",
			pgrams:       []program.Program{a, b},
			now:          hm("10:30"),
			maxUpcoming:  10,
			wantCurrent:  "",
			wantUpcoming: []string{"B"},
		},
		{
			name:         "番組の隙間",
			pgrams:       []program.Program{c, a},
			now:          hm("09:15"),
			maxUpcoming:  10,
			wantCurrent:  "",
			wantUpcoming: []string{"A"},
		},
		{
			name:         "全部終わっている",
			pgrams:       []program.Program{c, a},
			now:          hm("20:00"),
			maxUpcoming:  10,
			wantCurrent:  "",
			wantUpcoming: nil,
		},
		{
			name:         "空",
			pgrams:       nil,
			now:          hm("10:00"),
			maxUpcoming:  10,
			wantCurrent:  "",
			wantUpcoming: nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Resolve(tt.pgrams, tt.now, tt.maxUpcoming)
			if diff := cmp.Diff(tt.wantCurrent, titleOf(got.Current)); diff != "" {
				t.Errorf("Resolve() current mismatch (-want +got):\n%s", diff)
			}
			var upcoming []string
			for _, p := range got.Upcoming {
				upcoming = append(upcoming, p.Title)
			}
			if diff := cmp.Diff(tt.wantUpcoming, upcoming); diff != "" {
				t.Errorf("Resolve() upcoming mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestResolveCached(t *testing.T) {
	cet := timeutil.LocationCET()
	hm := func(v string) time.Time { return testutil.MustTime(t, "2024-01-01 "+v, cet) }

	pgrams := []program.Program{
		mustProgram(t, "A", hm("09:30"), hm("10:00")),
		mustProgram(t, "B", hm("10:00"), hm("11:00")),
	}
	cycle := uuid.New()
	computedAt := hm("09:59").Add(50 * time.Second)
	cached := NowNextEntry{
		CycleID:    cycle,
		ComputedAt: computedAt,
		Result:     Resolve(pgrams, computedAt, 10),
	}

	tests := []struct {
		name           string
		entry          *NowNextEntry
		now            time.Time
		cycleID        uuid.UUID
		wantCurrent    string
		wantComputedAt time.Time
	}{
		{
			name:           "entry が無ければ計算する",
			entry:          nil,
			now:            computedAt,
			cycleID:        cycle,
			wantCurrent:    "A",
			wantComputedAt: computedAt,
		},
		{
			name:           "30 秒以内なら古い結果をそのまま返す",
			entry:          &cached,
			now:            computedAt.Add(29 * time.Second),
			cycleID:        cycle,
			wantCurrent:    "A",
			wantComputedAt: computedAt,
		},
		{
			name:           "30 秒ちょうどで計算し直す",
			entry:          &cached,
			now:            computedAt.Add(30 * time.Second),
			cycleID:        cycle,
			wantCurrent:    "B",
			wantComputedAt: computedAt.Add(30 * time.Second),
		},
		{
			name:           "サイクルが変われば 30 秒以内でも計算し直す",
			entry:          &cached,
			now:            computedAt.Add(time.Second),
			cycleID:        uuid.New(),
			wantCurrent:    "A",
			wantComputedAt: computedAt.Add(time.Second),
		},
		{
			name:           "時計が戻ったら計算し直す",
			entry:          &cached,
			now:            computedAt.Add(-time.Minute),
			cycleID:        cycle,
			wantCurrent:    "A",
			wantComputedAt: computedAt.Add(-time.Minute),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, entry := ResolveCached(tt.entry, pgrams, tt.now, tt.cycleID, 10)
			if diff := cmp.Diff(tt.wantCurrent, titleOf(got.Current)); diff != "" {
				t.Errorf("ResolveCached() current mismatch (-want +got):\n%s", diff)
			}
			if !entry.ComputedAt.Equal(tt.wantComputedAt) {
				t.Errorf("ResolveCached() ComputedAt = %v, want %v", entry.ComputedAt, tt.wantComputedAt)
			}
			if entry.CycleID != tt.cycleID {
				t.Errorf("ResolveCached() CycleID = %v, want %v", entry.CycleID, tt.cycleID)
			}
		})
	}
}

func TestNowNextCache_Get(t *testing.T) {
	cet := timeutil.LocationCET()
	hm := func(v string) time.Time { return testutil.MustTime(t, "2024-01-01 "+v, cet) }

	g := guide.New(uuid.New(), hm("06:00"), []channel.ID{"rtvs1", "ta3"})
	g.Channels["rtvs1"] = []program.Program{
		mustProgram(t, "A", hm("09:30"), hm("10:00")),
		mustProgram(t, "B", hm("10:00"), hm("11:00")),
	}

	cache, err := NewNowNextCache(8, 10)
	if err != nil {
		t.Fatal(err)
	}

	now := hm("09:59").Add(45 * time.Second)
	if got := titleOf(cache.Get(g, "rtvs1", now).Current); got != "A" {
		t.Errorf("Get() current = %q, want %q", got, "A")
	}
	// 10:00 を過ぎても 30 秒以内は同じ結果
	if got := titleOf(cache.Get(g, "rtvs1", now.Add(20*time.Second)).Current); got != "A" {
		t.Errorf("Get() current = %q, want %q (cached)", got, "A")
	}
	if got := titleOf(cache.Get(g, "rtvs1", now.Add(40*time.Second)).Current); got != "B" {
		t.Errorf("Get() current = %q, want %q (expired)", got, "B")
	}

	// 新しいサイクルでは即座に作り直す
	next := guide.New(uuid.New(), hm("10:00"), []channel.ID{"rtvs1"})
	next.Channels["rtvs1"] = []program.Program{mustProgram(t, "X", hm("10:00"), hm("12:00"))}
	if got := titleOf(cache.Get(next, "rtvs1", now.Add(41*time.Second)).Current); got != "X" {
		t.Errorf("Get() current = %q, want %q (new cycle)", got, "X")
	}

	if got := cache.Get(g, "ta3", now); got.Current != nil || len(got.Upcoming) != 0 {
		t.Errorf("Get() = %+v, want empty", got)
	}
	if cache.Len() != 2 {
		t.Errorf("Len() = %d, want 2", cache.Len())
	}
}
