package main

import (
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/scott-cotton/cli"
	"github.com/signadot/richtext/config"
	"github.com/signadot/richtext/encode"
	"github.com/signadot/richtext/ir"
)

type MainConfig struct {
	Color   bool   `cli:"name=color desc='encode with color'"`
	WireOut bool   `cli:"name=wire desc='output in compact format'"`
	Config  string `cli:"name=config desc='host configuration file (default $RT_CONFIG or ./richtext.yaml)'"`

	Out      string
	CloseOut func() error

	Main *cli.Command
}

// host loads the host configuration: the -config file, then $RT_CONFIG,
// then richtext.{yaml,yml,json} in the working directory.
func (cfg *MainConfig) host() (*config.Host, error) {
	if cfg.Config != "" {
		return config.Load(cfg.Config)
	}
	h, err := config.FromEnv()
	if err != nil {
		return nil, err
	}
	if h != nil {
		return h, nil
	}
	return config.Find(".")
}

func (cfg *MainConfig) writeDoc(w io.Writer, doc *ir.Node) error {
	if cfg.WireOut {
		return ir.Encode(w, doc)
	}
	return ir.EncodeIndent(w, doc)
}

func (cfg *MainConfig) encOpts(w io.Writer) []encode.EncodeOption {
	res := []encode.EncodeOption{
		encode.EncodeWire(cfg.WireOut),
	}
	if cfg.Color {
		res = append(res, encode.EncodeColors(encode.NewColors()))
		return res
	}
	colorsSet := false
	for _, opt := range cfg.Main.Opts {
		if opt.Name != "color" {
			continue
		}
		colorsSet = opt.Value != nil
		break
	}
	if colorsSet {
		return res
	}
	f, ok := w.(*os.File)
	if !ok {
		return res
	}
	if isatty.IsTerminal(f.Fd()) {
		res = append(res, encode.EncodeColors(encode.NewColors()))
	}
	return res
}

type NormalizeConfig struct {
	*MainConfig
	Stats bool `cli:"name=stats desc='report fired rules on stderr'"`

	Normalize *cli.Command
}

type CheckConfig struct {
	*MainConfig
	Quiet bool `cli:"name=q desc='only set the exit code'"`

	Check *cli.Command
}

type ViewConfig struct {
	*MainConfig
	Paths bool `cli:"name=paths desc='prefix nodes with their path'"`
	Depth int  `cli:"name=depth desc='max depth to render (0 for all)'"`

	View *cli.Command
}

type DiffConfig struct {
	*MainConfig
	Reverse bool `cli:"name=r desc='reverse the diff'"`
	Text    bool `cli:"name=text desc='diff the plain text of the documents'"`

	Diff *cli.Command
}

type PatchConfig struct {
	*MainConfig
	JSON   bool `cli:"name=json desc='patch is an RFC 6902 json patch'"`
	String bool `cli:"name=s desc='patch arg as string'"`
	Raw    bool `cli:"name=raw desc='do not normalize the result'"`

	Patch *cli.Command
}

type RunConfig struct {
	*MainConfig
	Doc     string `cli:"name=d desc='initial document (default empty)'"`
	Pick    string `cli:"name=pick desc='entity id the reference picker returns'"`
	Verbose bool   `cli:"name=v desc='log tracking events on stderr'"`
	Gops    bool   `cli:"name=gops desc='start a gops agent'"`

	Run *cli.Command
}
