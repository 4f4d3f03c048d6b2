package usecase

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/sobadon/sktv/domain/model/channel"
	"github.com/sobadon/sktv/domain/model/feed"
	"github.com/sobadon/sktv/domain/model/guide"
	"github.com/sobadon/sktv/domain/model/program"
	"github.com/sobadon/sktv/infrastructures/xmltv"
)

type ExtractResult struct {
	// Start 昇順、MaxResults 件まで
	Programs []program.Program

	// 採用しなかった programme の理由ごとの件数
	Skipped map[guide.SkipReason]int

	// MaxScan に達して文書の途中で打ち切った
	ScanTruncated bool

	// MaxResults を超えたので後ろを捨てた
	Truncated bool
}

func (r ExtractResult) SkippedTotal() int {
	n := 0
	for _, c := range r.Skipped {
		n += c
	}
	return n
}

type Extractor struct {
	Table    channel.Table
	Window   guide.Window
	Location *time.Location
}

// 1 つの programme を見た結果
// skip が空なら採用
type entryResult struct {
	program program.Program
	skip    guide.SkipReason
}

// 文書から id のチャンネルの番組を取り出す
// 個々の programme の不備は Skipped に数えるだけで、全体を止めることはない
func (e Extractor) Extract(ctx context.Context, doc *feed.Document, id channel.ID, now time.Time) ExtractResult {
	res := ExtractResult{
		Programs: []program.Program{},
		Skipped:  map[guide.SkipReason]int{},
	}
	if doc == nil {
		return res
	}

	aliases := e.Table.AliasesFor(id)
	// 同じ channel 属性は何度も出てくるので判定を覚えておく
	memberOf := map[string]bool{}

	for i, entry := range doc.Programmes {
		if e.Window.MaxScan > 0 && i >= e.Window.MaxScan {
			res.ScanTruncated = true
			log.Ctx(ctx).Warn().Msgf("stopped scanning programmes (channel = %s, scanned = %d, total = %d)",
				id, e.Window.MaxScan, len(doc.Programmes))
			break
		}

		member, ok := memberOf[entry.Channel]
		if !ok {
			member = matchAny(aliases, entry.Channel, doc.DisplayNames(entry.Channel))
			memberOf[entry.Channel] = member
		}
		if !member && !(entry.DisplayName != "" && matchAny(aliases, entry.DisplayName, nil)) {
			res.Skipped[guide.SkipChannelMismatch]++
			continue
		}

		r := e.extractEntry(entry, now)
		if r.skip != "" {
			res.Skipped[r.skip]++
			continue
		}
		res.Programs = append(res.Programs, r.program)
	}

	sortPrograms(res.Programs)
	if e.Window.MaxResults > 0 && len(res.Programs) > e.Window.MaxResults {
		log.Ctx(ctx).Info().Msgf("truncated programs (channel = %s, found = %d, kept = %d)",
			id, len(res.Programs), e.Window.MaxResults)
		res.Programs = res.Programs[:e.Window.MaxResults]
		res.Truncated = true
	}

	return res
}

func (e Extractor) extractEntry(entry feed.Programme, now time.Time) entryResult {
	if entry.Start == "" || entry.Stop == "" {
		return entryResult{skip: guide.SkipMissingTime}
	}

	start, err := xmltv.ParseTimestamp(entry.Start, e.Location)
	if err != nil {
		return entryResult{skip: guide.SkipMalformedTimestamp}
	}
	stop, err := xmltv.ParseTimestamp(entry.Stop, e.Location)
	if err != nil {
		return entryResult{skip: guide.SkipMalformedTimestamp}
	}

	if !e.Window.Contains(now, start) {
		return entryResult{skip: guide.SkipOutOfWindow}
	}

	pgram, err := program.New(program.Params{
		Title:        entry.Title,
		EpisodeTitle: entry.SubTitle,
		Description:  entry.Desc,
		Genre:        entry.Category,
		Start:        start,
		Stop:         stop,
		Episode:      episodeCode(entry.EpisodeNums),
		Link:         entry.URL,
		IsLive:       entry.Live,
		IsPremiere:   entry.Premiere,
	})
	if err != nil {
		return entryResult{skip: guide.SkipInvalidRange}
	}
	return entryResult{program: pgram}
}

// 大文字小文字を無視して、どれかの表記ゆれが部分文字列として含まれるか
func matchAny(aliases []string, attr string, displayNames []string) bool {
	candidates := make([]string, 0, 1+len(displayNames))
	candidates = append(candidates, channel.Fold(attr))
	for _, name := range displayNames {
		candidates = append(candidates, channel.Fold(name))
	}

	for _, alias := range aliases {
		for _, c := range candidates {
			if strings.Contains(c, alias) {
				return true
			}
		}
	}
	return false
}

// 同じ開始時刻なら文書内の順を保つ
func sortPrograms(pgrams []program.Program) {
	sort.SliceStable(pgrams, func(i, j int) bool {
		return pgrams[i].Start.Before(pgrams[j].Start)
	})
}

// onscreen 表記があればそれを、無ければ xmltv_ns を "S01E05" にする
func episodeCode(nums []feed.EpisodeNum) string {
	for _, n := range nums {
		if n.System == "onscreen" {
			return n.Value
		}
	}
	for _, n := range nums {
		if n.System == "xmltv_ns" || n.System == "" {
			if code := xmltvNSCode(n.Value); code != "" {
				return code
			}
		}
	}
	return ""
}

// xmltv_ns は 0 始まりの "season.episode.part"
// "2/5" のように総数が付くことがある
func xmltvNSCode(value string) string {
	parts := strings.Split(value, ".")
	if len(parts) < 2 {
		return ""
	}

	season, hasSeason := nsNumber(parts[0])
	episode, hasEpisode := nsNumber(parts[1])
	switch {
	case hasSeason && hasEpisode:
		return fmt.Sprintf("S%02dE%02d", season+1, episode+1)
	case hasEpisode:
		return fmt.Sprintf("E%02d", episode+1)
	case hasSeason:
		return fmt.Sprintf("S%02d", season+1)
	}
	return ""
}

func nsNumber(s string) (int, bool) {
	if i := strings.Index(s, "/"); i >= 0 {
		s = s[:i]
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}
