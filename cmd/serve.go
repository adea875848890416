package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/quizdoc/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve quiz generation and text extraction over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		rt, err := setup(cmd, true)
		if err != nil {
			return err
		}
		defer rt.Close()

		if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
			rt.cfg.Server.Addr = addr
		}

		gen, err := rt.llmGenerator(ctx)
		if err != nil {
			return err
		}
		ext, err := rt.extractor(ctx)
		if err != nil {
			return err
		}

		srv := server.New(rt.cfg.Server, server.Deps{
			Completer: gen,
			Extractor: ext,
			Logger:    rt.logger.Named("http"),
		})
		rt.logger.Info("serving", zap.String("addr", rt.cfg.Server.Addr), zap.String("model", rt.provider.ModelID()))
		return srv.ListenAndServe(ctx)
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (overrides server.addr)")
}
