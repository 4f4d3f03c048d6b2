// Package snapshot mirrors the latest guide to a single JSON file.
package snapshot

import (
	"context"
	"encoding/json"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/sobadon/sktv/domain/model/channel"
	"github.com/sobadon/sktv/domain/model/guide"
	"github.com/sobadon/sktv/domain/model/program"
	"github.com/sobadon/sktv/domain/repository"
	"github.com/sobadon/sktv/internal/errutil"
	"github.com/sobadon/sktv/internal/fileutil"
	"github.com/spf13/afero"
)

const formatVersion = 1

type snapshotChannel struct {
	ID       channel.ID        `json:"id"`
	Programs []program.Program `json:"programs"`
}

// ファイル上の形
// 日時は encoding/json の RFC 3339 表記になる
type snapshotFile struct {
	Version   int               `json:"version"`
	CycleID   uuid.UUID         `json:"cycle_id"`
	FetchedAt time.Time         `json:"fetched_at"`
	Channels  []snapshotChannel `json:"channels"`
}

type store struct {
	fs   afero.Fs
	path string
}

func New(fs afero.Fs, path string) repository.GuidePersistence {
	return &store{fs: fs, path: path}
}

func (s *store) Save(ctx context.Context, g guide.Guide) error {
	file := snapshotFile{
		Version:   formatVersion,
		CycleID:   g.CycleID,
		FetchedAt: g.FetchedAt,
		Channels:  make([]snapshotChannel, 0, len(g.Channels)),
	}
	for id, pgrams := range g.Channels {
		file.Channels = append(file.Channels, snapshotChannel{ID: id, Programs: pgrams})
	}

	b, err := json.Marshal(file)
	if err != nil {
		return errors.Wrap(errutil.ErrSnapshotWrite, err.Error())
	}
	if err := fileutil.WriteFileAtomic(s.fs, s.path, b); err != nil {
		return errors.Wrap(errutil.ErrSnapshotWrite, err.Error())
	}

	log.Ctx(ctx).Debug().Msgf("wrote snapshot (path = %s, size = %d)", s.path, len(b))
	return nil
}

// 返されるエラー
// - errutil.ErrNotFound
// - errutil.ErrSnapshotRead
func (s *store) Load(ctx context.Context) (guide.Guide, error) {
	b, err := afero.ReadFile(s.fs, s.path)
	if errors.Is(err, os.ErrNotExist) {
		return guide.Guide{}, errors.Wrapf(errutil.ErrNotFound, "no snapshot at %s", s.path)
	}
	if err != nil {
		return guide.Guide{}, errors.Wrap(errutil.ErrSnapshotRead, err.Error())
	}

	var file snapshotFile
	if err := json.Unmarshal(b, &file); err != nil {
		return guide.Guide{}, errors.Wrap(errutil.ErrSnapshotRead, err.Error())
	}
	if file.Version != formatVersion {
		return guide.Guide{}, errors.Wrapf(errutil.ErrSnapshotRead, "unsupported snapshot version %d", file.Version)
	}

	ids := make([]channel.ID, 0, len(file.Channels))
	for _, ch := range file.Channels {
		ids = append(ids, ch.ID)
	}
	g := guide.New(file.CycleID, file.FetchedAt, ids)
	for _, ch := range file.Channels {
		for _, pgram := range ch.Programs {
			// 手で書き換えられたファイルでも壊れた番組は入れない
			p, err := program.New(program.Params{
				Title:        pgram.Title,
				Supertitle:   pgram.Supertitle,
				EpisodeTitle: pgram.EpisodeTitle,
				Description:  pgram.Description,
				Genre:        pgram.Genre,
				Start:        pgram.Start,
				Stop:         pgram.Stop,
				Episode:      pgram.Episode,
				Link:         pgram.Link,
				IsLive:       pgram.IsLive,
				IsPremiere:   pgram.IsPremiere,
			})
			if err != nil {
				return guide.Guide{}, errors.Wrap(errutil.ErrSnapshotRead, err.Error())
			}
			g.Channels[ch.ID] = append(g.Channels[ch.ID], p)
		}
	}
	return g, nil
}
