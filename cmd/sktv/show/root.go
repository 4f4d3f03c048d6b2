package show

import (
	"context"
	"encoding/json"
	"os"
	"time"

	"github.com/pkg/errors"
	"github.com/sobadon/sktv/cmd/sktv/common"
	"github.com/sobadon/sktv/domain/model/channel"
	"github.com/sobadon/sktv/internal/errutil"
	"github.com/sobadon/sktv/internal/logutil"
	"github.com/sobadon/sktv/internal/metrics"
	"github.com/spf13/cobra"
)

var (
	log = logutil.NewLogger()
)

type options struct {
	json     bool
	all      bool
	channels []string
}

func Command() *cobra.Command {
	var opts options
	rootCmd := &cobra.Command{
		Use:   "show",
		Short: "show now/next from the saved guide",
		RunE: func(cmd *cobra.Command, args []string) error {
			return show(opts)
		},
	}
	rootCmd.Flags().BoolVar(&opts.json, "json", false, "print as json")
	rootCmd.Flags().BoolVar(&opts.all, "all", false, "list all programs")
	rootCmd.Flags().StringSliceVarP(&opts.channels, "channel", "c", nil, "channel ids (default: SKTV_CHANNELS or all)")
	return rootCmd
}

func show(opts options) error {
	config, logCloser, err := common.Setup(log)
	if err != nil {
		return err
	}
	defer logCloser.Close()

	ctx := log.WithContext(context.Background())

	persistence, storeCloser, err := common.OpenPersistence(ctx, config)
	if err != nil {
		return err
	}
	defer storeCloser.Close()

	loc, ucGuide, err := common.NewGuide(config, nil, persistence, metrics.Discard())
	if err != nil {
		return err
	}
	if _, err := ucGuide.Restore(ctx); err != nil {
		return err
	}

	ids := config.ChannelIDs()
	if len(opts.channels) > 0 {
		ids = make([]channel.ID, 0, len(opts.channels))
		for _, c := range opts.channels {
			ids = append(ids, channel.ID(c))
		}
	}

	views := ucGuide.Views(ids, time.Now().In(loc))

	if opts.json {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(views); err != nil {
			return errors.Wrap(errutil.ErrInternal, err.Error())
		}
		return nil
	}
	if err := render(os.Stdout, views, opts.all); err != nil {
		return errors.Wrap(errutil.ErrInternal, err.Error())
	}
	return nil
}
