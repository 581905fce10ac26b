package encode

type EncodeOption func(*EncState)

// EncState holds the options of one Encode call.
type EncState struct {
	Color  func(a ColorAttr, s string) string
	indent int
	depth  int
	wire   bool
	paths  bool
}

func Indent(n int) EncodeOption {
	return func(es *EncState) { es.indent = n }
}

// Depth stops rendering below depth n; zero means no limit.
func Depth(n int) EncodeOption {
	return func(es *EncState) { es.depth = n }
}

func EncodeColors(c *Colors) EncodeOption {
	return func(es *EncState) { es.Color = c.Color }
}

// EncodeWire writes compact wire JSON instead of an outline.
func EncodeWire(v bool) EncodeOption {
	return func(es *EncState) { es.wire = v }
}

// EncodePaths prefixes every line with the node's path.
func EncodePaths(v bool) EncodeOption {
	return func(es *EncState) { es.paths = v }
}
