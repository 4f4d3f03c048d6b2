package run

import (
	"context"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/pkg/errors"
	zlog "github.com/rs/zerolog/log"
	"github.com/sobadon/sktv/domain/model/channel"
	"github.com/sobadon/sktv/domain/model/guide"
	"github.com/sobadon/sktv/internal/errutil"
)

type updater interface {
	Update(ctx context.Context, ids []channel.ID) (guide.Guide, error)
}

// 全フィードが落ちていたときだけ間隔を空けてやり直す
// チャンネル単位の欠けは次のサイクルに任せる
func updateWithRetry(ctx context.Context, u updater, ids []channel.ID, attempts uint, delay time.Duration) error {
	if attempts == 0 {
		attempts = 1
	}

	return retry.Do(
		func() error {
			_, err := u.Update(ctx, ids)
			return err
		},
		retry.Context(ctx),
		retry.Attempts(attempts),
		retry.Delay(delay),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(func(err error) bool {
			return errors.Is(err, errutil.ErrAllFeedsFailed)
		}),
		retry.OnRetry(func(n uint, err error) {
			zlog.Ctx(ctx).Warn().Msgf("update failed, retrying (attempt = %d/%d): %v", n+1, attempts, err)
		}),
	)
}
