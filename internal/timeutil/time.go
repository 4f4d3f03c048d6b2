package timeutil

import (
	"time"

	"github.com/pkg/errors"
	"github.com/sobadon/sktv/internal/errutil"
)

const DefaultLocationName = "Europe/Bratislava"

// タイムゾーン名から *time.Location を得る
// tzdata はバイナリ側で time/tzdata を import して埋め込む前提
func Location(name string) (*time.Location, error) {
	if name == "" {
		name = DefaultLocationName
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, errors.Wrapf(errutil.ErrConfig, "unknown time zone %q: %s", name, err)
	}
	return loc, nil
}

// テストなどで tzdata に頼らず使える中央ヨーロッパ時間（冬時間固定）
func LocationCET() *time.Location {
	return time.FixedZone("CET", 1*60*60)
}

// Clock は現在時刻の取得を差し替えられるようにするためのもの
type Clock func() time.Time

func SystemClock(loc *time.Location) Clock {
	return func() time.Time {
		return time.Now().In(loc)
	}
}

func FixedClock(t time.Time) Clock {
	return func() time.Time {
		return t
	}
}
