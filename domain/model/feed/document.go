// Package feed holds the raw, unnormalized shape of an XMLTV document.
package feed

type Document struct {
	Channels   []Channel
	Programmes []Programme

	// programme が上限で打ち切られた
	Truncated bool

	// channel id -> <display-name> 群
	displayNames map[string][]string
}

type Channel struct {
	ID           string
	DisplayNames []string
}

// 属性・子要素は文字列のまま
// 時刻の解釈は抽出時に行う
type Programme struct {
	Channel string
	Start   string
	Stop    string

	Title    string
	SubTitle string
	Desc     string
	Category string
	URL      string

	// system 属性ごとの <episode-num>
	EpisodeNums []EpisodeNum

	// programme 内に display-name を直接持つ方言がある
	DisplayName string

	Premiere bool
	Live     bool
}

type EpisodeNum struct {
	System string
	Value  string
}

func NewDocument(channels []Channel, programmes []Programme) *Document {
	d := &Document{
		Channels:     channels,
		Programmes:   programmes,
		displayNames: make(map[string][]string, len(channels)),
	}
	for _, ch := range channels {
		d.displayNames[ch.ID] = append(d.displayNames[ch.ID], ch.DisplayNames...)
	}
	return d
}

// <channel id="..."> に紐づく <display-name> を返す
func (d *Document) DisplayNames(channelID string) []string {
	if d == nil || d.displayNames == nil {
		return nil
	}
	return d.displayNames[channelID]
}
