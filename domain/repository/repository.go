//go:generate mockgen -source=$GOFILE -destination ../../testdata/mock/domain/$GOPACKAGE/$GOFILE
package repository

import (
	"context"

	"github.com/sobadon/sktv/domain/model/feed"
	"github.com/sobadon/sktv/domain/model/guide"
)

type FeedSource interface {
	// ログ・メトリクスに使う名前
	Name() string

	// フィードを取得して解析する
	// 返されるエラー（どれも「このサイクルはデータなし」として扱われる想定）
	// - errutil.ErrFetch
	// - errutil.ErrFetchStatus
	// - errutil.ErrDecompress
	// - errutil.ErrParse
	Fetch(ctx context.Context) (*feed.Document, error)
}

type GuidePersistence interface {
	// 前回分を丸ごと置き換える
	Save(ctx context.Context, g guide.Guide) error

	// 最後に保存されたものを取得
	// 返されるエラー
	// - errutil.ErrNotFound
	Load(ctx context.Context) (guide.Guide, error)
}
