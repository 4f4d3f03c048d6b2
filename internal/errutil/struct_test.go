package errutil

import (
	"testing"

	"github.com/pkg/errors"
)

func TestCodeOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "wrap なしの InternalError",
			err:  ErrFetch,
			want: "fetch",
		},
		{
			name: "wrap ありの InternalError",
			err:  errors.Wrapf(ErrFetchStatus, "http status code is %d", 404),
			want: "fetch_status",
		},
		{
			name: "InternalError 以外は unknown",
			err:  errors.New("something"),
			want: "unknown",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CodeOf(tt.err); got != tt.want {
				t.Errorf("CodeOf() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestInternalError_Is(t *testing.T) {
	err := errors.Wrap(ErrAllFeedsFailed, "2 feeds")
	if !errors.Is(err, ErrAllFeedsFailed) {
		t.Errorf("errors.Is() = false, want true")
	}
	if errors.Is(err, ErrFetch) {
		t.Errorf("errors.Is(ErrFetch) = true, want false")
	}
}
