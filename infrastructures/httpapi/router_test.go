package httpapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/sobadon/sktv/domain/model/channel"
	"github.com/sobadon/sktv/internal/metrics"
	"github.com/sobadon/sktv/internal/timeutil"
	"github.com/sobadon/sktv/usecase"
)

type fakeViewer struct{}

func (fakeViewer) View(id channel.ID, now time.Time) usecase.ChannelView {
	return usecase.ChannelView{ID: id, Name: string(id), State: usecase.UnavailableState}
}

func (f fakeViewer) Views(ids []channel.ID, now time.Time) []usecase.ChannelView {
	views := make([]usecase.ChannelView, 0, len(ids))
	for _, id := range ids {
		views = append(views, f.View(id, now))
	}
	return views
}

func TestNewRouter(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	m.Cycles.WithLabelValues("ok").Inc()

	router := NewRouter(fakeViewer{}, Config{
		Channels: []channel.ID{"rtvs1", "ta3"},
		Clock:    timeutil.FixedClock(time.Date(2024, 1, 1, 10, 0, 0, 0, timeutil.LocationCET())),
		Gatherer: reg,
		Logger:   zerolog.Nop(),
	})

	tests := []struct {
		name       string
		path       string
		wantStatus int
		wantIDs    []channel.ID
		wantBody   string
	}{
		{
			name:       "一覧は設定順",
			path:       "/channels",
			wantStatus: http.StatusOK,
			wantIDs:    []channel.ID{"rtvs1", "ta3"},
		},
		{
			name:       "1 チャンネル",
			path:       "/channels/ta3",
			wantStatus: http.StatusOK,
			wantIDs:    []channel.ID{"ta3"},
		},
		{
			name:       "設定に無いチャンネルは 404",
			path:       "/channels/joj",
			wantStatus: http.StatusNotFound,
			wantBody:   `"not_found"`,
		},
		{
			name:       "メトリクス",
			path:       "/metrics",
			wantStatus: http.StatusOK,
			wantBody:   `sktv_cycles_total{result="ok"} 1`,
		},
		{
			name:       "ヘルスチェック",
			path:       "/health",
			wantStatus: http.StatusOK,
			wantBody:   `"ok"`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if tt.wantBody != "" && !strings.Contains(rec.Body.String(), tt.wantBody) {
				t.Errorf("body = %s, want to contain %s", rec.Body.String(), tt.wantBody)
			}
			if tt.wantIDs == nil {
				return
			}

			var views []usecase.ChannelView
			body := strings.TrimSpace(rec.Body.String())
			if !strings.HasPrefix(body, "[") {
				body = "[" + body + "]"
			}
			if err := json.Unmarshal([]byte(body), &views); err != nil {
				t.Fatal(err)
			}
			var got []channel.ID
			for _, v := range views {
				got = append(got, v.ID)
				if v.State != usecase.UnavailableState {
					t.Errorf("State = %q, want %q", v.State, usecase.UnavailableState)
				}
			}
			if diff := cmp.Diff(tt.wantIDs, got); diff != "" {
				t.Errorf("channel ids mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
