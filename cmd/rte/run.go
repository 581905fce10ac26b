package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/gops/agent"
	"github.com/rs/zerolog"
	"github.com/scott-cotton/cli"
	"github.com/signadot/richtext"
	"github.com/signadot/richtext/ir"
	"github.com/signadot/richtext/links"
	"github.com/signadot/richtext/script"
	"github.com/signadot/richtext/tracking"
)

func runScripts(cfg *RunConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Run.Parse(cc, args)
	if err != nil {
		return err
	}
	if len(args) == 0 {
		return fmt.Errorf("%w: run requires at least one script", cli.ErrUsage)
	}
	if cfg.Gops {
		if err := agent.Listen(agent.Options{}); err != nil {
			fmt.Fprintf(os.Stderr, "gops agent failed: %v\n", err)
		}
		defer agent.Close()
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	level := zerolog.WarnLevel
	if cfg.Verbose {
		level = zerolog.InfoLevel
	}
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level).With().Timestamp().Logger()

	host, err := cfg.host()
	if err != nil {
		return err
	}
	var doc *ir.Node
	if cfg.Doc != "" {
		doc, err = getDocFile(cc, cfg.Doc)
		if err != nil {
			return fmt.Errorf("error decoding %s: %w", cfg.Doc, err)
		}
	}
	rec := &tracking.Recorder{}
	opts := richtext.Options{
		Host:    host,
		Tracker: tracking.Multi(rec, &tracking.LogHandler{Log: log}),
		Log:     log,
	}
	if cfg.Pick != "" {
		opts.Picker = links.StaticPicker(cfg.Pick)
	}
	sess, err := richtext.Open(doc, opts)
	if err != nil {
		return err
	}
	r := &script.Runner{Session: sess, Events: rec, Log: log}
	for _, file := range args {
		d, err := readFile(cc, file)
		if err != nil {
			return err
		}
		s, err := script.Parse(file, string(d))
		if err != nil {
			return err
		}
		if err := r.Run(ctx, s); err != nil {
			return fmt.Errorf("error running %s: %w", file, err)
		}
	}
	return cfg.writeDoc(cc.Out, sess.Editor.Root())
}
