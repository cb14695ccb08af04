package site

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"git.newshub.network/newshub/newshub/src/config"
	"git.newshub.network/newshub/newshub/src/db"
	"git.newshub.network/newshub/newshub/src/logging"
	"git.newshub.network/newshub/newshub/src/notify"
	"git.newshub.network/newshub/newshub/src/social"
	"github.com/spf13/cobra"
)

var SiteCommand = &cobra.Command{
	Use:   "newshub",
	Short: "Run the newshub server",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		conn := db.NewConnPool()
		defer conn.Close()

		notifier := notify.NewNotifier(conn, social.NewClient())

		server := &http.Server{
			Addr:    config.Config.Addr,
			Handler: NewRouter(conn, notifier),
		}

		signals := make(chan os.Signal, 1)
		signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
		go func() {
			sig := <-signals
			logging.Info().Str("signal", sig.String()).Msg("shutting down")

			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			server.Shutdown(shutdownCtx)

			notifier.Shutdown(10 * time.Second)
		}()

		logging.Info().Str("addr", config.Config.Addr).Msg("serving newshub")
		err := server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Fatal().Err(err).Msg("server failed")
		}
	},
}
