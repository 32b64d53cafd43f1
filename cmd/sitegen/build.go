package main

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"essex_travel/internal/build"
)

type buildOptions struct {
	out     string
	workers int
	strict  bool
	watch   bool
	report  bool
}

func buildCmd() *cobra.Command {
	var opts buildOptions
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Render every page, schema document, sitemap and robots.txt",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuild(cmd, opts)
		},
	}
	cmd.Flags().StringVar(&opts.out, "out", "dist", "output directory")
	cmd.Flags().IntVar(&opts.workers, "workers", 0, "concurrent page renders (defaults to BUILD_WORKERS)")
	cmd.Flags().BoolVar(&opts.strict, "strict", false, "fail when any page's structured data does not validate")
	cmd.Flags().BoolVar(&opts.watch, "watch", false, "rebuild whenever the catalog directory changes")
	cmd.Flags().BoolVar(&opts.report, "report", false, "print the build report as JSON")
	return cmd
}

func runBuild(cmd *cobra.Command, opts buildOptions) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	p, err := loadProject()
	if err != nil {
		return err
	}
	if opts.workers < 1 {
		opts.workers = p.cfg.Workers
	}

	once := func() error {
		pages, err := p.pages()
		if err != nil {
			return err
		}
		rep, err := build.New(pages, opts.workers, opts.strict).Build(ctx, opts.out)
		for _, f := range rep.Failures {
			log.Warn().Str("path", f.Path).Strs("issues", f.Issues).Msg("structured data issues")
		}
		if opts.report {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			_ = enc.Encode(rep)
		}
		return err
	}

	if err := once(); err != nil && !opts.watch {
		return err
	} else if err != nil {
		log.Error().Err(err).Msg("initial build failed, watching for changes")
	}
	if !opts.watch {
		return nil
	}
	if catalogDir == "" {
		return errors.New("--watch needs --catalog: the embedded catalog never changes")
	}

	log.Info().Str("dir", catalogDir).Msg("watching catalog")
	err = build.Watch(ctx, catalogDir, build.DefaultDebounce, func() {
		c, err := loadCatalog(catalogDir)
		if err != nil {
			log.Error().Err(err).Msg("catalog reload failed, keeping previous")
			return
		}
		p.cat = c
		if err := once(); err != nil {
			log.Error().Err(err).Msg("rebuild failed")
		}
	})
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
