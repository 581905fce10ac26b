package main

import (
	"fmt"

	"github.com/scott-cotton/cli"
	"github.com/signadot/richtext"
	"github.com/signadot/richtext/ir"
	"github.com/signadot/richtext/libdiff"
)

func patch(cfg *PatchConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Patch.Parse(cc, args)
	if err != nil {
		return err
	}
	if len(args) == 0 {
		return fmt.Errorf("%w: patch requires a patch argument", cli.ErrUsage)
	}
	var p []byte
	if cfg.String {
		p = []byte(args[0])
	} else {
		p, err = readFile(cc, args[0])
		if err != nil {
			return fmt.Errorf("error reading patch %s: %w", args[0], err)
		}
	}
	host, err := cfg.host()
	if err != nil {
		return err
	}
	return eachDoc(cc, args[1:], func(_ string, i int, doc *ir.Node) error {
		var res *ir.Node
		if cfg.JSON {
			res, err = libdiff.ApplyPatch(doc, p)
		} else {
			res, err = libdiff.ApplyMergePatch(doc, p)
		}
		if err != nil {
			return fmt.Errorf("error patching document %d: %w", i, err)
		}
		if !cfg.Raw {
			res, _, err = richtext.Normalize(res, host)
			if err != nil {
				return err
			}
		}
		return cfg.writeDoc(cc.Out, res)
	})
}
