package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/jgivc/sitemapgen/internal/app"
	"github.com/spf13/cobra"
)

var cfgFileName string

func main() {
	root := &cobra.Command{
		Use:           "sitemapgen",
		Short:         "Generate sitemap.xml for a static site",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&cfgFileName, "config", "c", "", "Path to config file")

	root.AddCommand(generateCmd(), serveCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func generateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "generate",
		Short: "Write the sitemap into the destination directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return app.New(cfgFileName).Generate(ctx)
		},
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the published sitemap over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app.New(cfgFileName)

			errc := make(chan error, 1)
			go func() {
				errc <- a.Start()
			}()

			c := make(chan os.Signal, 1)
			signal.Notify(c, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
			defer signal.Stop(c)

			select {
			case err := <-errc:
				return err
			case <-c:
				fmt.Println("Received termination signal. Shutting down...")
			}

			a.Stop()

			return <-errc
		},
	}
}
