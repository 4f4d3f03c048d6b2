package channel

import (
	"golang.org/x/text/cases"
)

// 設定や表示で使う安定したチャンネル ID
// フィードごとのチャンネル表記とは別物
type ID string

func (id ID) String() string {
	return string(id)
}

type Entry struct {
	ID ID

	// 表示用の名前
	Name string

	// フィード側で使われる表記ゆれ
	// 部分一致で使うので短すぎるものは他チャンネルにも当たりうる
	Aliases []string
}

type Table struct {
	entries []Entry
	index   map[ID]int
}

func NewTable(entries ...Entry) Table {
	t := Table{
		entries: make([]Entry, 0, len(entries)),
		index:   make(map[ID]int, len(entries)),
	}
	for _, e := range entries {
		if _, dup := t.index[e.ID]; dup {
			continue
		}
		folded := make([]string, 0, len(e.Aliases))
		seen := make(map[string]bool, len(e.Aliases))
		for _, alias := range e.Aliases {
			f := Fold(alias)
			if f == "" || seen[f] {
				continue
			}
			seen[f] = true
			folded = append(folded, f)
		}
		t.index[e.ID] = len(t.entries)
		t.entries = append(t.entries, Entry{ID: e.ID, Name: e.Name, Aliases: folded})
	}
	return t
}

// 大文字小文字を区別しない比較のための畳み込み
// Caser はゴルーチン間で共有できないので毎回作る
func Fold(s string) string {
	return cases.Fold().String(s)
}

// 既知の ID なら設定された表記ゆれ（畳み込み済み）を返す
// 未知の ID ならその ID 自身だけを返す
func (t Table) AliasesFor(id ID) []string {
	i, ok := t.index[id]
	if !ok || len(t.entries[i].Aliases) == 0 {
		return []string{Fold(string(id))}
	}
	aliases := make([]string, len(t.entries[i].Aliases))
	copy(aliases, t.entries[i].Aliases)
	return aliases
}

// 定義順
func (t Table) IDs() []ID {
	ids := make([]ID, 0, len(t.entries))
	for _, e := range t.entries {
		ids = append(ids, e.ID)
	}
	return ids
}

func (t Table) Known(id ID) bool {
	_, ok := t.index[id]
	return ok
}

// 未知の ID はそのまま返す
func (t Table) DisplayName(id ID) string {
	if i, ok := t.index[id]; ok && t.entries[i].Name != "" {
		return t.entries[i].Name
	}
	return string(id)
}
