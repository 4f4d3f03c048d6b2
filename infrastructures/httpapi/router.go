// Package httpapi serves channel views and metrics over HTTP.
package httpapi

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/sobadon/sktv/domain/model/channel"
	"github.com/sobadon/sktv/internal/timeutil"
	"github.com/sobadon/sktv/usecase"
)

type GuideViewer interface {
	View(id channel.ID, now time.Time) usecase.ChannelView
	Views(ids []channel.ID, now time.Time) []usecase.ChannelView
}

type Config struct {
	// 一覧に出すチャンネル
	// 空なら表の全チャンネル
	Channels []channel.ID

	Table    channel.Table
	Clock    timeutil.Clock
	Gatherer prometheus.Gatherer
	Logger   zerolog.Logger
}

type server struct {
	viewer GuideViewer
	config Config
}

func NewRouter(viewer GuideViewer, config Config) http.Handler {
	if len(config.Channels) == 0 {
		config.Channels = config.Table.IDs()
	}
	if config.Clock == nil {
		config.Clock = time.Now
	}
	if config.Gatherer == nil {
		config.Gatherer = prometheus.DefaultGatherer
	}
	s := &server{viewer: viewer, config: config}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.accessLog)
	r.Use(middleware.Recoverer)

	r.Get("/health", s.health)
	r.Get("/channels", s.listChannels)
	r.Get("/channels/{id}", s.getChannel)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(config.Gatherer, promhttp.HandlerOpts{}))
	return r
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, map[string]string{"error": code, "message": msg})
}

func (s *server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *server) listChannels(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.viewer.Views(s.config.Channels, s.config.Clock()))
}

func (s *server) getChannel(w http.ResponseWriter, r *http.Request) {
	id := channel.ID(chi.URLParam(r, "id"))
	if !s.served(id) {
		writeError(w, http.StatusNotFound, "not_found", "unknown channel: "+id.String())
		return
	}
	writeJSON(w, http.StatusOK, s.viewer.View(id, s.config.Clock()))
}

func (s *server) served(id channel.ID) bool {
	for _, c := range s.config.Channels {
		if c == id {
			return true
		}
	}
	return false
}

func (s *server) accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		started := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		s.config.Logger.Debug().
			Str("request_id", middleware.GetReqID(r.Context())).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("elapsed", time.Since(started)).
			Msg("http request")
	})
}
