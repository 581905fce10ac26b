package main

import (
	"fmt"

	"github.com/scott-cotton/cli"
	"github.com/signadot/richtext/encode"
	"github.com/signadot/richtext/ir"
)

func view(cfg *ViewConfig, cc *cli.Context, args []string) error {
	args, err := cfg.View.Parse(cc, args)
	if err != nil {
		return err
	}
	opts := cfg.encOpts(cc.Out)
	opts = append(opts, encode.EncodePaths(cfg.Paths), encode.Depth(cfg.Depth))
	return eachDoc(cc, args, func(_ string, i int, doc *ir.Node) error {
		if err := encode.Encode(doc, cc.Out, opts...); err != nil {
			return fmt.Errorf("error encoding result %d: %w", i, err)
		}
		return nil
	})
}
