package program

import (
	"fmt"
	"time"

	"github.com/pkg/errors"
	"github.com/sobadon/sktv/internal/errutil"
)

// <title> が無い番組に付けるタイトル
const PlaceholderTitle = "Bez názvu"

type Program struct {
	// 番組タイトル
	Title string `json:"title"`

	// シリーズ名など
	// どのフィードも埋めてこないので基本は空
	Supertitle string `json:"supertitle"`

	// <sub-title>
	EpisodeTitle string `json:"episode_title"`

	// <desc>
	Description string `json:"description"`

	// 最初の <category>
	Genre string `json:"genre"`

	// 番組の開始日時・終了日時
	// 設定されたローカルタイムゾーンに揃えてある
	Start time.Time `json:"start"`
	Stop  time.Time `json:"stop"`

	// "S01E05" や onscreen 表記
	Episode string `json:"episode"`

	// <url>
	Link string `json:"link"`

	IsLive     bool `json:"live"`
	IsPremiere bool `json:"premiere"`
}

type Params struct {
	Title        string
	Supertitle   string
	EpisodeTitle string
	Description  string
	Genre        string
	Start        time.Time
	Stop         time.Time
	Episode      string
	Link         string
	IsLive       bool
	IsPremiere   bool
}

// 返されるエラー
// - errutil.ErrMalformedEntry: Start, Stop のどちらかが無い、または Stop <= Start
func New(p Params) (Program, error) {
	if p.Start.IsZero() || p.Stop.IsZero() {
		return Program{}, errors.Wrap(errutil.ErrMalformedEntry, "start or stop is missing")
	}
	if !p.Stop.After(p.Start) {
		return Program{}, errors.Wrapf(errutil.ErrMalformedEntry, "stop (%s) is not after start (%s)",
			p.Stop.Format(time.RFC3339), p.Start.Format(time.RFC3339))
	}

	title := p.Title
	if title == "" {
		title = PlaceholderTitle
	}

	return Program{
		Title:        title,
		Supertitle:   p.Supertitle,
		EpisodeTitle: p.EpisodeTitle,
		Description:  p.Description,
		Genre:        p.Genre,
		Start:        p.Start,
		Stop:         p.Stop,
		Episode:      p.Episode,
		Link:         p.Link,
		IsLive:       p.IsLive,
		IsPremiere:   p.IsPremiere,
	}, nil
}

// 分単位の放送時間（端数切り捨て）
func (p Program) DurationMinutes() int {
	return int(p.Stop.Sub(p.Start) / time.Minute)
}

// "60 min"
func (p Program) DurationLabel() string {
	return fmt.Sprintf("%d min", p.DurationMinutes())
}

// "2024-01-01"
func (p Program) Date() string {
	return p.Start.Format("2006-01-02")
}

// "09:00"
func (p Program) Time() string {
	return p.Start.Format("15:04")
}

func (p Program) StopTime() string {
	return p.Stop.Format("15:04")
}

// now が放送時間内か
// start <= now < stop
func (p Program) AiringAt(now time.Time) bool {
	return !p.Start.After(now) && now.Before(p.Stop)
}

// 別タイムゾーンで表した同じ番組
func (p Program) In(loc *time.Location) Program {
	p.Start = p.Start.In(loc)
	p.Stop = p.Stop.In(loc)
	return p
}
