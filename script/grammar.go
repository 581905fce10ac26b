// Package script reads and runs editing session scripts: sequences of
// typing, key presses, selections, pastes, commands and link form steps
// followed by expectations on the resulting document.
//
//	# make a link
//	type "lazy dog"
//	select 0:5 0:8
//	key mod+k
//	link uri "https://zombo.com"
//	link submit
//	expect text "lazy dog"
//	expect events "insert"
package script

import (
	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

type Script struct {
	Stmts []*Stmt `@@*`
}

// Stmt is one step. Exactly one field is set.
type Stmt struct {
	Pos lexer.Position

	Type   *string  `  "type" @(String|Raw)`
	Keys   []string `| "key" @(String|Ident) ( "," @(String|Ident) )*`
	Select *Select  `| "select" @@`
	Paste  *Paste   `| "paste" @@`
	Exec   *Exec    `| "exec" @@`
	Link   *Link    `| "link" @@`
	Drop   *Drop    `| "drop" @@`
	Expect *Expect  `| "expect" @@`
}

// Select is "all" or an anchor and an optional focus, each written
// block:offset.
type Select struct {
	All    bool   `  @"all"`
	Anchor string `| @Loc`
	Focus  string `  @Loc?`
}

type Paste struct {
	MIME string `@(String|Ident)`
	Data string `@(String|Raw)`
}

type Exec struct {
	Command string  `@Ident`
	Arg     *string `@(String|Raw)?`
}

// Link drives the link form: open, toggle, submit and cancel take no
// arguments; type, text and uri set a form field; pick runs the picker;
// edit and remove take the path of a link; convert takes a path, a type
// and a uri or entity id.
type Link struct {
	Op   string   `@("open"|"toggle"|"submit"|"cancel"|"pick"|"type"|"text"|"uri"|"edit"|"remove"|"convert")`
	Args []string `@(String|Raw|Path)*`
}

type Drop struct {
	From string `@Path "to"`
	To   string `@Path`
}

// Expect checks the session. value compares the document with a JSON
// value, match matches it against a JSON pattern, text compares the
// block texts joined by newlines, events the comma separated tracked
// actions since the previous events check, and selection the
// block:offset of the anchor and focus.
type Expect struct {
	What string `@("value"|"match"|"text"|"events"|"selection")`
	Want string `@(String|Raw)`
}

var scriptLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Comment", Pattern: `#[^\n]*`},
	{Name: "String", Pattern: `"(\\.|[^"\\])*"`},
	{Name: "Raw", Pattern: "`[^`]*`"},
	{Name: "Path", Pattern: `\$(\[\d+\])*`},
	{Name: "Loc", Pattern: `\d+:\d+`},
	{Name: "Ident", Pattern: `[A-Za-z0-9/][A-Za-z0-9_.+/\-]*`},
	{Name: "Punct", Pattern: `,`},
	{Name: "Whitespace", Pattern: `\s+`},
})

var parser = participle.MustBuild[Script](
	participle.Lexer(scriptLexer),
	participle.Elide("Comment", "Whitespace"),
	participle.Unquote("String", "Raw"),
)

// Parse reads a script. name is used in positions.
func Parse(name, src string) (*Script, error) {
	return parser.ParseString(name, src)
}
