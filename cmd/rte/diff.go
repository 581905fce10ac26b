package main

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/scott-cotton/cli"
	"github.com/signadot/richtext/ir"
	"github.com/signadot/richtext/libdiff"
	"github.com/signadot/richtext/script"
)

func diff(cfg *DiffConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Diff.Parse(cc, args)
	if err != nil {
		cfg.Diff.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) != 2 {
		return fmt.Errorf("%w: diff requires 2 args, got %v", cli.ErrUsage, args)
	}
	d1, err := getDocFile(cc, args[0])
	if err != nil {
		return fmt.Errorf("error decoding %s: %w", args[0], err)
	}
	d2, err := getDocFile(cc, args[1])
	if err != nil {
		return fmt.Errorf("error decoding %s: %w", args[1], err)
	}
	if cfg.Reverse {
		d1, d2 = d2, d1
	}
	differs, err := diffInputs(cfg, cc, d1, d2)
	if err != nil {
		return err
	}
	if differs {
		return cli.ExitCodeErr(1)
	}
	return nil
}

func diffInputs(cfg *DiffConfig, cc *cli.Context, from, to *ir.Node) (bool, error) {
	if ir.FingerprintOf(from) == ir.FingerprintOf(to) {
		return false, nil
	}
	if cfg.Text {
		edits := libdiff.DiffText(script.Text(from), script.Text(to))
		for _, e := range edits {
			if _, err := fmt.Fprintln(cc.Out, e); err != nil {
				return false, err
			}
		}
		return len(edits) > 0, nil
	}
	d, err := libdiff.MergePatch(from, to)
	if err != nil {
		return false, err
	}
	if !cfg.WireOut {
		var buf bytes.Buffer
		if err := json.Indent(&buf, d, "", "  "); err == nil {
			d = buf.Bytes()
		}
	}
	if _, err := cc.Out.Write(d); err != nil {
		return false, err
	}
	if len(d) == 0 || d[len(d)-1] != '\n' {
		_, err = cc.Out.Write([]byte("\n"))
	}
	return true, err
}
