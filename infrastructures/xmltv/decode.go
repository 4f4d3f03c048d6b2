package xmltv

import (
	"encoding/xml"
	"io"
	"strings"

	"github.com/pkg/errors"
	"github.com/sobadon/sktv/domain/model/feed"
	"github.com/sobadon/sktv/internal/errutil"
	"golang.org/x/net/html/charset"
)

type xmlText struct {
	Lang  string `xml:"lang,attr"`
	Value string `xml:",chardata"`
}

type xmlChannel struct {
	ID          string    `xml:"id,attr"`
	DisplayName []xmlText `xml:"display-name"`
}

type xmlEpisodeNum struct {
	System string `xml:"system,attr"`
	Value  string `xml:",chardata"`
}

type xmlProgramme struct {
	Start   string `xml:"start,attr"`
	Stop    string `xml:"stop,attr"`
	Channel string `xml:"channel,attr"`

	Title       []xmlText       `xml:"title"`
	SubTitle    []xmlText       `xml:"sub-title"`
	Desc        []xmlText       `xml:"desc"`
	Category    []xmlText       `xml:"category"`
	EpisodeNum  []xmlEpisodeNum `xml:"episode-num"`
	URL         []string        `xml:"url"`
	DisplayName []xmlText       `xml:"display-name"`

	// 空要素 <premiere/> があるかどうかだけ見る
	Premiere *struct{} `xml:"premiere"`
	Live     *struct{} `xml:"live"`
}

// 1 文書から読む programme の上限
// 抽出側もこれより先は見ない
const DefaultMaxProgrammes = 10000

// XMLTV 文書をストリームで読み、素の形のまま feed.Document にする
// 時刻の解釈やチャンネルの絞り込みはここではしない
// programme と channel はそれぞれ maxProgrammes 件まで（0 以下なら DefaultMaxProgrammes）
// programme が上限に達したらそこで読むのをやめ、Truncated を立てて返す
// 返されるエラー
// - errutil.ErrParse: 文書として壊れている、または <tv> が無い
// - errutil.ErrDecompress: r が展開に失敗した
func Decode(r io.Reader, maxProgrammes int) (*feed.Document, error) {
	if maxProgrammes <= 0 {
		maxProgrammes = DefaultMaxProgrammes
	}

	decoder := xml.NewDecoder(r)
	// windows-1250 や iso-8859-2 で配信するフィードがある
	decoder.CharsetReader = charset.NewReaderLabel

	var (
		channels   []feed.Channel
		programmes []feed.Programme
		seenTV     bool
		inTV       bool
		truncated  bool
	)
	for !truncated {
		token, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, parseError(err)
		}

		switch el := token.(type) {
		case xml.StartElement:
			switch el.Name.Local {
			case "tv":
				seenTV, inTV = true, true

			case "channel":
				if !inTV || len(channels) >= maxProgrammes {
					if err := decoder.Skip(); err != nil {
						return nil, parseError(err)
					}
					continue
				}
				var raw xmlChannel
				if err := decoder.DecodeElement(&raw, &el); err != nil {
					return nil, parseError(err)
				}
				channels = append(channels, toChannel(raw))

			case "programme":
				if !inTV {
					if err := decoder.Skip(); err != nil {
						return nil, parseError(err)
					}
					continue
				}
				if len(programmes) >= maxProgrammes {
					truncated = true
					continue
				}
				var raw xmlProgramme
				if err := decoder.DecodeElement(&raw, &el); err != nil {
					return nil, parseError(err)
				}
				programmes = append(programmes, toProgramme(raw))
			}

		case xml.EndElement:
			if el.Name.Local == "tv" {
				inTV = false
			}
		}
	}

	if !seenTV {
		return nil, errors.Wrap(errutil.ErrParse, "no <tv> element")
	}

	doc := feed.NewDocument(channels, programmes)
	doc.Truncated = truncated
	return doc, nil
}

// 展開側のエラーはそのまま返す
func parseError(err error) error {
	if errors.Is(err, errutil.ErrDecompress) {
		return err
	}
	return errors.Wrap(errutil.ErrParse, err.Error())
}

func toChannel(raw xmlChannel) feed.Channel {
	ch := feed.Channel{ID: strings.TrimSpace(raw.ID)}
	for _, name := range raw.DisplayName {
		if v := strings.TrimSpace(name.Value); v != "" {
			ch.DisplayNames = append(ch.DisplayNames, v)
		}
	}
	return ch
}

func toProgramme(raw xmlProgramme) feed.Programme {
	p := feed.Programme{
		Channel:     strings.TrimSpace(raw.Channel),
		Start:       strings.TrimSpace(raw.Start),
		Stop:        strings.TrimSpace(raw.Stop),
		Title:       firstText(raw.Title),
		SubTitle:    firstText(raw.SubTitle),
		Desc:        firstText(raw.Desc),
		Category:    firstText(raw.Category),
		DisplayName: firstText(raw.DisplayName),
		Premiere:    raw.Premiere != nil,
		Live:        raw.Live != nil,
	}
	for _, u := range raw.URL {
		if v := strings.TrimSpace(u); v != "" {
			p.URL = v
			break
		}
	}
	for _, ep := range raw.EpisodeNum {
		if v := strings.TrimSpace(ep.Value); v != "" {
			p.EpisodeNums = append(p.EpisodeNums, feed.EpisodeNum{System: ep.System, Value: v})
		}
	}
	return p
}

// 言語違いで複数あるときは最初の空でないもの
func firstText(values []xmlText) string {
	for _, v := range values {
		if s := strings.TrimSpace(v.Value); s != "" {
			return s
		}
	}
	return ""
}
