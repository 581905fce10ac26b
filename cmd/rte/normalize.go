package main

import (
	"fmt"
	"io"
	"maps"
	"os"
	"slices"

	"github.com/scott-cotton/cli"
	"github.com/signadot/richtext"
	"github.com/signadot/richtext/ir"
	"github.com/signadot/richtext/normalize"
)

func normalizeDocs(cfg *NormalizeConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Normalize.Parse(cc, args)
	if err != nil {
		return err
	}
	host, err := cfg.host()
	if err != nil {
		return err
	}
	return eachDoc(cc, args, func(file string, i int, doc *ir.Node) error {
		res, stats, err := richtext.Normalize(doc, host)
		if err != nil {
			return err
		}
		if cfg.Stats {
			writeStats(os.Stderr, fmt.Sprintf("%s[%d]", file, i), stats)
		}
		return cfg.writeDoc(cc.Out, res)
	})
}

func check(cfg *CheckConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Check.Parse(cc, args)
	if err != nil {
		return err
	}
	host, err := cfg.host()
	if err != nil {
		return err
	}
	z, err := richtext.Normalizer(host)
	if err != nil {
		return err
	}
	if len(args) == 0 {
		args = []string{"-"}
	}
	dirty := 0
	for _, file := range args {
		docs, err := getDocs(cc, file)
		if err != nil {
			return fmt.Errorf("error processing %s: %w", file, err)
		}
		for i, doc := range docs {
			stats, err := z.Check(doc)
			if err != nil {
				return fmt.Errorf("error processing %s document %d: %w", file, i, err)
			}
			if stats.Normalized() {
				continue
			}
			dirty++
			if !cfg.Quiet {
				writeStats(cc.Out, fmt.Sprintf("%s[%d]", file, i), stats)
			}
		}
	}
	if dirty > 0 {
		return cli.ExitCodeErr(1)
	}
	return nil
}

func writeStats(w io.Writer, name string, stats *normalize.Stats) {
	if stats.Normalized() {
		fmt.Fprintf(w, "%s: normalized\n", name)
		return
	}
	fmt.Fprintf(w, "%s: %d rewrites\n", name, stats.Rewrites)
	for _, rule := range slices.Sorted(maps.Keys(stats.Fired)) {
		fmt.Fprintf(w, "\t%s %d\n", rule, stats.Fired[rule])
	}
}
