package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"io/fs"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"
	"github.com/pressly/goose/v3"
	"github.com/sobadon/sktv/domain/model/channel"
	"github.com/sobadon/sktv/domain/model/guide"
	"github.com/sobadon/sktv/domain/model/program"
	"github.com/sobadon/sktv/domain/repository"
	"github.com/sobadon/sktv/internal/errutil"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

// 日時はオフセット付きの RFC 3339 文字列で持つ
const timeLayout = time.RFC3339Nano

type guideSqlite struct {
	CycleID   string `db:"cycle_id"`
	FetchedAt string `db:"fetched_at"`
}

type guideChannelSqlite struct {
	CycleID   string `db:"cycle_id"`
	ChannelID string `db:"channel_id"`
	Position  int    `db:"position"`
}

type programSqlite struct {
	UUID         string         `db:"uuid"`
	CycleID      string         `db:"cycle_id"`
	ChannelID    string         `db:"channel_id"`
	Position     int            `db:"position"`
	Title        string         `db:"title"`
	Supertitle   sql.NullString `db:"supertitle"`
	EpisodeTitle sql.NullString `db:"episode_title"`
	Description  sql.NullString `db:"description"`
	Genre        sql.NullString `db:"genre"`
	Start        string         `db:"start"`
	Stop         string         `db:"stop"`
	Episode      sql.NullString `db:"episode"`
	Link         sql.NullString `db:"link"`
	Live         bool           `db:"live"`
	Premiere     bool           `db:"premiere"`
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func programSqliteToModelProgram(pgramSqlite programSqlite) (program.Program, error) {
	start, err := time.Parse(timeLayout, pgramSqlite.Start)
	if err != nil {
		return program.Program{}, errors.Wrap(errutil.ErrDatabaseQuery, err.Error())
	}
	stop, err := time.Parse(timeLayout, pgramSqlite.Stop)
	if err != nil {
		return program.Program{}, errors.Wrap(errutil.ErrDatabaseQuery, err.Error())
	}

	return program.New(program.Params{
		Title:        pgramSqlite.Title,
		Supertitle:   pgramSqlite.Supertitle.String, // 空文字になってくれればよい
		EpisodeTitle: pgramSqlite.EpisodeTitle.String,
		Description:  pgramSqlite.Description.String,
		Genre:        pgramSqlite.Genre.String,
		Start:        start,
		Stop:         stop,
		Episode:      pgramSqlite.Episode.String,
		Link:         pgramSqlite.Link.String,
		IsLive:       pgramSqlite.Live,
		IsPremiere:   pgramSqlite.Premiere,
	})
}

func modelProgramToProgramSqlite(cycleID uuid.UUID, id channel.ID, position int, pgram program.Program) programSqlite {
	return programSqlite{
		UUID:         uuid.NewString(),
		CycleID:      cycleID.String(),
		ChannelID:    id.String(),
		Position:     position,
		Title:        pgram.Title,
		Supertitle:   nullString(pgram.Supertitle),
		EpisodeTitle: nullString(pgram.EpisodeTitle),
		Description:  nullString(pgram.Description),
		Genre:        nullString(pgram.Genre),
		Start:        pgram.Start.Format(timeLayout),
		Stop:         pgram.Stop.Format(timeLayout),
		Episode:      nullString(pgram.Episode),
		Link:         nullString(pgram.Link),
		Live:         pgram.IsLive,
		Premiere:     pgram.IsPremiere,
	}
}

func NewDB(dbPath string) (*sqlx.DB, error) {
	db, err := sqlx.Open("sqlite3", dbPath)
	if err != nil {
		return nil, errors.Wrap(errutil.ErrDatabaseOpen, err.Error())
	}
	return db, nil
}

// マイグレーションを当てる
func Setup(ctx context.Context, db *sqlx.DB) error {
	migrations, err := fs.Sub(embedMigrations, "migrations")
	if err != nil {
		return errors.Wrap(errutil.ErrInternal, err.Error())
	}

	provider, err := goose.NewProvider(goose.DialectSQLite3, db.DB, migrations)
	if err != nil {
		return errors.Wrap(errutil.ErrDatabaseMigrate, err.Error())
	}
	if _, err := provider.Up(ctx); err != nil {
		return errors.Wrap(errutil.ErrDatabaseMigrate, err.Error())
	}
	return nil
}

type client struct {
	DB *sqlx.DB
}

func New(db *sqlx.DB) repository.GuidePersistence {
	return &client{
		DB: db,
	}
}

// 前回分を消してから 1 トランザクションで書き込む
func (c *client) Save(ctx context.Context, g guide.Guide) error {
	tx, err := c.DB.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(errutil.ErrDatabaseQuery, err.Error())
	}
	defer tx.Rollback()

	for _, table := range []string{"programs", "guide_channels", "guides"} {
		if _, err := tx.ExecContext(ctx, "delete from "+table); err != nil {
			return errors.Wrap(errutil.ErrDatabaseQuery, err.Error())
		}
	}

	_, err = tx.NamedExecContext(ctx,
		`insert into guides (cycle_id, fetched_at) values (:cycle_id, :fetched_at)`,
		guideSqlite{CycleID: g.CycleID.String(), FetchedAt: g.FetchedAt.Format(timeLayout)})
	if err != nil {
		return errors.Wrap(errutil.ErrDatabaseQuery, err.Error())
	}

	position := 0
	for id, pgrams := range g.Channels {
		_, err := tx.NamedExecContext(ctx,
			`insert into guide_channels (cycle_id, channel_id, position) values (:cycle_id, :channel_id, :position)`,
			guideChannelSqlite{CycleID: g.CycleID.String(), ChannelID: id.String(), Position: position})
		if err != nil {
			return errors.Wrap(errutil.ErrDatabaseQuery, err.Error())
		}
		position++

		for i, pgram := range pgrams {
			_, err := tx.NamedExecContext(ctx,
				`insert into programs (uuid, cycle_id, channel_id, position, title, supertitle, episode_title, description, genre, start, stop, episode, link, live, premiere)
				values
				(:uuid, :cycle_id, :channel_id, :position, :title, :supertitle, :episode_title, :description, :genre, :start, :stop, :episode, :link, :live, :premiere)`,
				modelProgramToProgramSqlite(g.CycleID, id, i, pgram))
			if err != nil {
				return errors.Wrap(errutil.ErrDatabaseQuery, err.Error())
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.Wrap(errutil.ErrDatabaseQuery, err.Error())
	}
	return nil
}

// 返されるエラー
// - errutil.ErrNotFound
func (c *client) Load(ctx context.Context) (guide.Guide, error) {
	var guidesSqlite []guideSqlite
	err := c.DB.SelectContext(ctx, &guidesSqlite, `select cycle_id, fetched_at from guides order by created_at desc limit 1`)
	if err != nil {
		return guide.Guide{}, errors.Wrap(errutil.ErrDatabaseQuery, err.Error())
	}
	if len(guidesSqlite) == 0 {
		return guide.Guide{}, errors.Wrap(errutil.ErrNotFound, "not found guide")
	}

	cycleID, err := uuid.Parse(guidesSqlite[0].CycleID)
	if err != nil {
		return guide.Guide{}, errors.Wrap(errutil.ErrDatabaseQuery, err.Error())
	}
	fetchedAt, err := time.Parse(timeLayout, guidesSqlite[0].FetchedAt)
	if err != nil {
		return guide.Guide{}, errors.Wrap(errutil.ErrDatabaseQuery, err.Error())
	}

	var channelsSqlite []guideChannelSqlite
	err = c.DB.SelectContext(ctx, &channelsSqlite,
		`select cycle_id, channel_id, position from guide_channels where cycle_id = ? order by position`, cycleID.String())
	if err != nil {
		return guide.Guide{}, errors.Wrap(errutil.ErrDatabaseQuery, err.Error())
	}
	ids := make([]channel.ID, 0, len(channelsSqlite))
	for _, ch := range channelsSqlite {
		ids = append(ids, channel.ID(ch.ChannelID))
	}
	g := guide.New(cycleID, fetchedAt, ids)

	var pgramsSqlite []programSqlite
	err = c.DB.SelectContext(ctx, &pgramsSqlite,
		`select uuid, cycle_id, channel_id, position, title, supertitle, episode_title, description, genre, start, stop, episode, link, live, premiere
		from programs where cycle_id = ? order by channel_id, position`, cycleID.String())
	if err != nil {
		return guide.Guide{}, errors.Wrap(errutil.ErrDatabaseQuery, err.Error())
	}

	for _, pgramSqlite := range pgramsSqlite {
		pgram, err := programSqliteToModelProgram(pgramSqlite)
		if err != nil {
			return guide.Guide{}, err
		}
		id := channel.ID(pgramSqlite.ChannelID)
		g.Channels[id] = append(g.Channels[id], pgram)
	}

	return g, nil
}
