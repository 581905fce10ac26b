package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/expr-lang/expr"
)

var ErrURIRejected = errors.New("uri rejected")

// URIEnv is what a uri rule sees.
type URIEnv struct {
	URI    string `expr:"uri"`
	Scheme string `expr:"scheme"`
	Host   string `expr:"host"`
	Path   string `expr:"path"`
}

func uriOpts() []expr.Option {
	return []expr.Option{
		expr.Env(URIEnv{}),
		expr.AsBool(),
		expr.Function("domainOf", func(params ...any) (any, error) {
			h := params[0].(string)
			parts := strings.Split(h, ".")
			if len(parts) < 2 {
				return h, nil
			}
			return strings.Join(parts[len(parts)-2:], "."), nil
		},
			new(func(string) string)),
	}
}

// CompileURIRule compiles an expr boolean expression over uri, scheme,
// host and path into a validator, for example
//
//	scheme == "https" && domainOf(host) in ["contentful.com", "zombo.com"]
func CompileURIRule(rule string) (func(string) error, error) {
	prog, err := expr.Compile(rule, uriOpts()...)
	if err != nil {
		return nil, fmt.Errorf("uri rule: %w", err)
	}
	return func(uri string) error {
		u, err := url.Parse(uri)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrURIRejected, err)
		}
		out, err := expr.Run(prog, URIEnv{URI: uri, Scheme: u.Scheme, Host: u.Hostname(), Path: u.Path})
		if err != nil {
			return fmt.Errorf("%w: %w", ErrURIRejected, err)
		}
		if ok, _ := out.(bool); !ok {
			return fmt.Errorf("%w: %s does not satisfy %s", ErrURIRejected, uri, rule)
		}
		return nil
	}, nil
}
