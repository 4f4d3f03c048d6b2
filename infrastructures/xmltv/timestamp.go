package xmltv

import (
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/sobadon/sktv/internal/errutil"
)

const (
	layoutSeconds = "20060102150405"
	layoutMinutes = "200601021504"
)

// XMLTV の日時 "YYYYMMDDHHMMSS +HHMM" を loc 上の時刻にする
// 秒の無い 12 桁の方言も受け付ける
// オフセットが無ければ loc のローカル時刻とみなす
// 返されるエラー
// - errutil.ErrMalformedTimestamp
func ParseTimestamp(raw string, loc *time.Location) (time.Time, error) {
	s := strings.TrimSpace(raw)

	digits := 0
	for digits < len(s) && '0' <= s[digits] && s[digits] <= '9' {
		digits++
	}

	var layout, naive string
	switch {
	case digits >= len(layoutSeconds):
		layout, naive = layoutSeconds, s[:len(layoutSeconds)]
	case digits == len(layoutMinutes):
		layout, naive = layoutMinutes, s[:digits]
	default:
		// 13 桁は秒が欠けているのか分からないので受け付けない
		return time.Time{}, errors.Wrapf(errutil.ErrMalformedTimestamp, "unexpected number of digits (%d): %q", digits, raw)
	}

	zone := loc
	if suffix := strings.TrimSpace(s[digits:]); suffix != "" {
		offset, err := parseOffset(suffix)
		if err != nil {
			return time.Time{}, errors.Wrapf(errutil.ErrMalformedTimestamp, "%s: %q", err.Error(), raw)
		}
		zone = time.FixedZone("", offset)
	}

	t, err := time.ParseInLocation(layout, naive, zone)
	if err != nil {
		return time.Time{}, errors.Wrap(errutil.ErrMalformedTimestamp, err.Error())
	}
	return t.In(loc), nil
}

// "+0100", "-0530", "+01:00" を秒に
func parseOffset(s string) (int, error) {
	var sign int
	switch s[0] {
	case '+':
		sign = 1
	case '-':
		sign = -1
	default:
		return 0, errors.New("offset must start with + or -")
	}

	body := strings.Replace(s[1:], ":", "", 1)
	if len(body) != 4 {
		return 0, errors.New("offset must be HHMM")
	}
	hours, err := strconv.Atoi(body[:2])
	if err != nil {
		return 0, errors.Wrap(err, "offset hours")
	}
	minutes, err := strconv.Atoi(body[2:])
	if err != nil {
		return 0, errors.Wrap(err, "offset minutes")
	}
	if hours > 23 || minutes > 59 {
		return 0, errors.New("offset out of range")
	}

	return sign * (hours*60*60 + minutes*60), nil
}
