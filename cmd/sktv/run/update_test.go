package run

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/sobadon/sktv/domain/model/channel"
	"github.com/sobadon/sktv/domain/model/guide"
	"github.com/sobadon/sktv/internal/errutil"
	"github.com/sobadon/sktv/internal/testutil"
)

type fakeUpdater struct {
	errs  []error
	calls int
}

func (f *fakeUpdater) Update(ctx context.Context, ids []channel.ID) (guide.Guide, error) {
	var err error
	if f.calls < len(f.errs) {
		err = f.errs[f.calls]
	}
	f.calls++
	return guide.Guide{}, err
}

func Test_updateWithRetry(t *testing.T) {
	allFailed := errors.Wrap(errutil.ErrAllFeedsFailed, "2 feeds")

	tests := []struct {
		name      string
		errs      []error
		attempts  uint
		wantCalls int
		wantErr   error
	}{
		{
			name:      "一度で成功",
			errs:      nil,
			attempts:  3,
			wantCalls: 1,
		},
		{
			name:      "全フィード失敗はやり直して成功",
			errs:      []error{allFailed, allFailed},
			attempts:  3,
			wantCalls: 3,
		},
		{
			name:      "回数を使い切ったら最後のエラー",
			errs:      []error{allFailed, allFailed, allFailed},
			attempts:  3,
			wantCalls: 3,
			wantErr:   errutil.ErrAllFeedsFailed,
		},
		{
			name:      "それ以外のエラーはやり直さない",
			errs:      []error{errors.Wrap(errutil.ErrInternal, "boom")},
			attempts:  3,
			wantCalls: 1,
			wantErr:   errutil.ErrInternal,
		},
		{
			name:      "0 回指定でも 1 回は実行する",
			errs:      []error{allFailed},
			attempts:  0,
			wantCalls: 1,
			wantErr:   errutil.ErrAllFeedsFailed,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := &fakeUpdater{errs: tt.errs}
			err := updateWithRetry(context.Background(), u, nil, tt.attempts, time.Millisecond)
			if !testutil.ErrorsIs(err, tt.wantErr) {
				t.Errorf("updateWithRetry() error = %v, wantErr %v", err, tt.wantErr)
			}
			if u.calls != tt.wantCalls {
				t.Errorf("updateWithRetry() calls = %d, want %d", u.calls, tt.wantCalls)
			}
		})
	}
}
