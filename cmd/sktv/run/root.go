package run

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	zlog "github.com/rs/zerolog/log"
	"github.com/sobadon/sktv/cmd/sktv/common"
	"github.com/sobadon/sktv/domain/model/channel"
	"github.com/sobadon/sktv/infrastructures/httpapi"
	"github.com/sobadon/sktv/internal/errutil"
	"github.com/sobadon/sktv/internal/logutil"
	"github.com/sobadon/sktv/internal/metrics"
	"github.com/sobadon/sktv/internal/timeutil"
	"github.com/spf13/cobra"
)

var (
	log = logutil.NewLogger()
)

func Command() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "run",
		Short: "fetch feeds periodically",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run()
		},
	}
	return rootCmd
}

func run() error {
	log.Info().Msg("start")

	config, logCloser, err := common.Setup(log)
	if err != nil {
		return err
	}
	defer logCloser.Close()

	ctx := log.WithContext(context.Background())

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	persistence, storeCloser, err := common.OpenPersistence(ctx, config)
	if err != nil {
		return err
	}
	defer storeCloser.Close()

	feeds, err := common.NewFeeds(config, m)
	if err != nil {
		return err
	}

	loc, ucGuide, err := common.NewGuide(config, feeds, persistence, m)
	if err != nil {
		return err
	}
	log.Info().Msg("setup done")

	// 最初の更新が終わるまでは前回の番組表を見せる
	if _, err := ucGuide.Restore(ctx); err != nil {
		log.Info().Msgf("start without saved guide: %v", err)
	}

	ids := config.ChannelIDs()
	scheduler := gocron.NewScheduler(loc)

	jobUpdate := func(ctx context.Context, job gocron.Job) {
		ctx = logutil.NewLogger().With().
			Int("job_count", job.RunCount()).
			Str("job", "update").
			Logger().WithContext(ctx)
		zlog.Ctx(ctx).Info().Msg("job start")
		err := updateWithRetry(ctx, ucGuide, ids, config.RetryAttempts, config.RetryDelay)
		if err != nil {
			zlog.Ctx(ctx).Error().Msgf("%+v", err)
		}
	}
	// 前のサイクルが終わっていなければ次は飛ばす
	_, err = scheduler.Every(config.Interval).SingletonMode().DoWithJobDetails(jobUpdate, ctx)
	if err != nil {
		return errors.Wrap(errutil.ErrScheduler, err.Error())
	}

	var srv *http.Server
	if config.HTTPAddr != "" {
		srv = &http.Server{
			Addr: config.HTTPAddr,
			Handler: httpapi.NewRouter(ucGuide, httpapi.Config{
				Channels: ids,
				Table:    channel.DefaultTable(),
				Clock:    timeutil.SystemClock(loc),
				Gatherer: reg,
				Logger:   logutil.NewLogger(),
			}),
			ReadHeaderTimeout: 10 * time.Second,
		}
		go func() {
			log.Info().Msgf("listen on %s", config.HTTPAddr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error().Msgf("%+v", errors.Wrap(errutil.ErrInternal, err.Error()))
			}
		}()
	}

	scheduler.StartAsync()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Interrupt")

	scheduler.Stop()
	if srv != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error().Msgf("%+v", errors.Wrap(errutil.ErrInternal, err.Error()))
		}
	}

	return nil
}
