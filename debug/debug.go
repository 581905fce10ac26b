package debug

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
)

type debug struct {
	Normalize bool
	Rules     bool
	Pipeline  bool
	Links     bool
	Edit      bool
}

var d *debug

func init() {
	d = &debug{}
	d.Normalize = boolEnv("RT_DEBUG_NORMALIZE")
	d.Rules = boolEnv("RT_DEBUG_RULES")
	d.Pipeline = boolEnv("RT_DEBUG_PIPELINE")
	d.Links = boolEnv("RT_DEBUG_LINKS")
	d.Edit = boolEnv("RT_DEBUG_EDIT")
}

func boolEnv(v string) bool {
	x := os.Getenv(v)
	if x == "" {
		return false
	}
	b, _ := strconv.ParseBool(x)
	return b
}

func Normalize() bool {
	return d.Normalize
}
func Rules() bool {
	return d.Rules
}
func Pipeline() bool {
	return d.Pipeline
}
func Links() bool {
	return d.Links
}
func Edit() bool {
	return d.Edit
}

// Logf writes a trace line to stderr. Values implementing json.Marshaler
// (documents, nodes) are rendered as compact JSON.
func Logf(format string, args ...any) {
	for i, a := range args {
		if m, ok := a.(json.Marshaler); ok {
			if d, err := m.MarshalJSON(); err == nil {
				args[i] = string(d)
			}
		}
	}
	fmt.Fprintf(os.Stderr, format, args...)
}

func LogAny(v any) {
	d, err := json.Marshal(v)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", v)
		return
	}
	os.Stderr.Write(d)
	os.Stderr.Write([]byte{'\n'})
}
