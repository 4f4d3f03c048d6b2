package usecase

import (
	"fmt"
	"time"

	"github.com/sobadon/sktv/domain/model/channel"
	"github.com/sobadon/sktv/domain/model/program"
)

const (
	// 放送中の番組が分からないときの状態
	UnavailableState = "Nedostupné"

	viewMaxUpcoming = 10
	viewMaxPrograms = 50
)

// 表示用の番組
type ProgramView struct {
	Title        string `json:"title"`
	Supertitle   string `json:"supertitle"`
	EpisodeTitle string `json:"episode_title"`
	Time         string `json:"time"`
	StopTime     string `json:"stop_time"`
	Date         string `json:"date"`
	Genre        string `json:"genre"`
	Duration     string `json:"duration"`
	Description  string `json:"description"`
	Episode      string `json:"episode"`
	Link         string `json:"link"`
	Live         bool   `json:"live"`
	Premiere     bool   `json:"premiere"`
}

func NewProgramView(p program.Program) ProgramView {
	return ProgramView{
		Title:        p.Title,
		Supertitle:   p.Supertitle,
		EpisodeTitle: p.EpisodeTitle,
		Time:         p.Time(),
		StopTime:     p.StopTime(),
		Date:         p.Date(),
		Genre:        p.Genre,
		Duration:     p.DurationLabel(),
		Description:  p.Description,
		Episode:      p.Episode,
		Link:         p.Link,
		Live:         p.IsLive,
		Premiere:     p.IsPremiere,
	}
}

// 1 チャンネル分の表示
type ChannelView struct {
	ID            channel.ID    `json:"channel_id"`
	Name          string        `json:"channel"`
	State         string        `json:"state"`
	TotalPrograms int           `json:"total_programs"`
	Current       *ProgramView  `json:"current,omitempty"`
	Upcoming      []ProgramView `json:"upcoming_programs"`
	All           []ProgramView `json:"all_programs"`

	// All を切り詰めたときだけ
	Note string `json:"note,omitempty"`

	FetchedAt time.Time `json:"fetched_at"`
}

func (u *ucGuide) View(id channel.ID, now time.Time) ChannelView {
	view := ChannelView{
		ID:       id,
		Name:     u.config.Table.DisplayName(id),
		State:    UnavailableState,
		Upcoming: []ProgramView{},
		All:      []ProgramView{},
	}

	g, ok := u.store.Load()
	if !ok {
		return view
	}
	view.FetchedAt = g.FetchedAt

	pgrams := g.Programs(id)
	view.TotalPrograms = len(pgrams)

	nn := u.NowNext(id, now)
	if nn.Current != nil {
		current := NewProgramView(*nn.Current)
		view.Current = &current
		view.State = nn.Current.Title
	}
	for i, p := range nn.Upcoming {
		if i >= viewMaxUpcoming {
			break
		}
		view.Upcoming = append(view.Upcoming, NewProgramView(p))
	}

	for i, p := range pgrams {
		if i >= viewMaxPrograms {
			view.Note = fmt.Sprintf("showing first %d of %d programs", viewMaxPrograms, len(pgrams))
			break
		}
		view.All = append(view.All, NewProgramView(p))
	}

	return view
}

// ids が空なら表の定義順に全チャンネル
func (u *ucGuide) Views(ids []channel.ID, now time.Time) []ChannelView {
	if len(ids) == 0 {
		ids = u.config.Table.IDs()
	}
	views := make([]ChannelView, 0, len(ids))
	for _, id := range ids {
		views = append(views, u.View(id, now))
	}
	return views
}
