package xmltv

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/sobadon/sktv/internal/errutil"
	"github.com/sobadon/sktv/internal/testutil"
	"github.com/sobadon/sktv/internal/timeutil"
)

func TestParseTimestamp(t *testing.T) {
	cet := timeutil.LocationCET()

	tests := []struct {
		name    string
		raw     string
		want    time.Time
		wantErr error
	}{
		{
			name: "14 桁 + 同じオフセット",
			raw:  "20240101090000 +0100",
			want: time.Date(2024, 1, 1, 9, 0, 0, 0, cet),
		},
		{
			name: "14 桁 + UTC はローカルに直す",
			raw:  "20240101090000 +0000",
			want: time.Date(2024, 1, 1, 10, 0, 0, 0, cet),
		},
		{
			name: "14 桁 + マイナスオフセット",
			raw:  "20240101090000 -0500",
			want: time.Date(2024, 1, 1, 15, 0, 0, 0, cet),
		},
		{
			name: "オフセットがコロン区切り",
			raw:  "20240101090000 +02:00",
			want: time.Date(2024, 1, 1, 8, 0, 0, 0, cet),
		},
		{
			name: "空白なしのオフセット",
			raw:  "20240101090000+0100",
			want: time.Date(2024, 1, 1, 9, 0, 0, 0, cet),
		},
		{
			name: "オフセットなしはローカル時刻",
			raw:  "20240101090000",
			want: time.Date(2024, 1, 1, 9, 0, 0, 0, cet),
		},
		{
			name: "12 桁（秒なし）",
			raw:  "202401010900",
			want: time.Date(2024, 1, 1, 9, 0, 0, 0, cet),
		},
		{
			name: "12 桁 + オフセット",
			raw:  "202401010900 +0000",
			want: time.Date(2024, 1, 1, 10, 0, 0, 0, cet),
		},
		{
			name: "秒は保持される",
			raw:  "20240101090045 +0100",
			want: time.Date(2024, 1, 1, 9, 0, 45, 0, cet),
		},
		{
			name: "日付をまたぐ変換",
			raw:  "20231231233000 -0100",
			want: time.Date(2024, 1, 1, 1, 30, 0, 0, cet),
		},
		{
			name:    "13 桁",
			raw:     "2024010109001 +0100",
			wantErr: errutil.ErrMalformedTimestamp,
		},
		{
			name:    "13 桁（オフセットなし）",
			raw:     "2024010109001",
			wantErr: errutil.ErrMalformedTimestamp,
		},
		{
			name:    "桁が足りない",
			raw:     "2024010109",
			wantErr: errutil.ErrMalformedTimestamp,
		},
		{
			name:    "空文字",
			raw:     "",
			wantErr: errutil.ErrMalformedTimestamp,
		},
		{
			name:    "存在しない月",
			raw:     "20241301090000",
			wantErr: errutil.ErrMalformedTimestamp,
		},
		{
			name:    "存在しない日",
			raw:     "20240230090000",
			wantErr: errutil.ErrMalformedTimestamp,
		},
		{
			name:    "25 時",
			raw:     "20240101250000",
			wantErr: errutil.ErrMalformedTimestamp,
		},
		{
			name:    "オフセットが壊れている",
			raw:     "20240101090000 CET",
			wantErr: errutil.ErrMalformedTimestamp,
		},
		{
			name:    "オフセットの桁が足りない",
			raw:     "20240101090000 +01",
			wantErr: errutil.ErrMalformedTimestamp,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseTimestamp(tt.raw, cet)
			if !testutil.ErrorsIs(err, tt.wantErr) {
				t.Errorf("ParseTimestamp() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("ParseTimestamp() mismatch (-want +got):\n%s", diff)
			}
			if err == nil && got.Location() != cet {
				t.Errorf("ParseTimestamp() location = %v, want %v", got.Location(), cet)
			}
		})
	}
}

// どのオフセットで書かれていても naive - offset と同じ瞬間になる
func TestParseTimestamp_offsetArithmetic(t *testing.T) {
	cet := timeutil.LocationCET()
	naive := time.Date(2024, 3, 10, 18, 45, 30, 0, time.UTC)

	for _, offset := range []string{"+0000", "+0100", "+0200", "-0330", "+0545", "-1200", "+1400"} {
		t.Run(offset, func(t *testing.T) {
			got, err := ParseTimestamp("20240310184530 "+offset, cet)
			if err != nil {
				t.Fatal(err)
			}
			seconds, err := parseOffset(offset)
			if err != nil {
				t.Fatal(err)
			}
			want := naive.Add(-time.Duration(seconds) * time.Second)
			if !got.Equal(want) {
				t.Errorf("ParseTimestamp() = %v, want %v", got, want)
			}
		})
	}
}
