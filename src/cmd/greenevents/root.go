package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/jackyeh168/green_events/src/internal/app"
	"github.com/jackyeh168/green_events/src/internal/config"
	"github.com/jackyeh168/green_events/src/internal/logging"
)

// cli 子指令共用的設定與 logger
type cli struct {
	cfg    config.Config
	logger *slog.Logger
}

func newRootCommand() *cobra.Command {
	c := &cli{}

	root := &cobra.Command{
		Use:           "greenevents",
		Short:         "Green event check-in and reward points",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			c.cfg = cfg
			c.logger = logging.New(os.Stderr, cfg.LogLevel, cfg.LogFormat)
			slog.SetDefault(c.logger)
			return nil
		},
	}

	root.AddCommand(
		c.serveCommand(),
		c.migrateCommand(),
		c.qrCommand(),
		c.scanCommand(),
		c.tokenCommand(),
	)
	return root
}

// container 建立並返回執行期依賴；呼叫者負責 Close
func (c *cli) container() (*app.Container, error) {
	return app.Build(c.cfg, c.logger)
}
