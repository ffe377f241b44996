package netlist

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	phyengine "github.com/physicslab/phyengine-go"
	"github.com/physicslab/phyengine-go/circuit"
)

// Deck is a parsed netlist: the circuit it describes and the analysis
// its .analyze directive requests. Request is nil when the source has
// no directive.
type Deck struct {
	Graph   *circuit.Graph
	Request *phyengine.Request
}

var netlistLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Comment", Pattern: `\*[^\n]*`},
	{Name: "EOL", Pattern: `\r?\n`},
	{Name: "Whitespace", Pattern: `[ \t]+`},
	{Name: "Directive", Pattern: `\.[a-zA-Z]+`},
	{Name: "Equals", Pattern: `=`},
	{Name: "Value", Pattern: `[-+]?[0-9]*\.?[0-9]+([eE][-+]?[0-9]+)?(meg|[TGkmunpf])?`},
	{Name: "Ident", Pattern: `[a-zA-Z_][a-zA-Z0-9_]*`},
})

type netlistFile struct {
	Lines []*line `parser:"@@*"`
}

// line is one statement. Comments are elided by the lexer, so a
// comment-only line reduces to a blank one.
type line struct {
	Blank     bool       `parser:"  @EOL"`
	Directive *directive `parser:"| @@ EOL"`
	Card      *card      `parser:"| @@ EOL"`
}

// card is one element: a name, a model token, one net per pin, then
// key=value parameters. Nets and parameter keys share token shapes, so
// the grammar accepts one mixed list and build enforces the ordering.
type card struct {
	Name  string      `parser:"@Ident"`
	Model string      `parser:"@Ident"`
	Items []*cardItem `parser:"@@*"`
}

type cardItem struct {
	Key   string `parser:"( @Ident Equals"`
	Value string `parser:"  @( Value | Ident )"`
	Net   string `parser:"| @( Ident | Value ) )"`
}

type directive struct {
	Name string          `parser:"@Directive"`
	Args []*directiveArg `parser:"@@*"`
}

type directiveArg struct {
	Key   string `parser:"( @Ident Equals"`
	Value string `parser:"  @( Value | Ident )"`
	Flag  string `parser:"| @( Ident | Value ) )"`
}

var parser = participle.MustBuild[netlistFile](
	participle.Lexer(netlistLexer),
	participle.Elide("Comment", "Whitespace"),
	participle.UseLookahead(2),
)

// ParseString parses netlist source.
func ParseString(input string) (*Deck, error) {
	if !strings.HasSuffix(input, "\n") {
		input += "\n" // every statement form requires a terminator
	}
	f, err := parser.ParseString("", input)
	if err != nil {
		return nil, fmt.Errorf("netlist: %w", err)
	}
	return build(f)
}

// Parse parses netlist source from a reader.
func Parse(r io.Reader) (*Deck, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("netlist: %w", err)
	}
	return ParseString(string(data))
}

// ParseFile parses the named netlist file.
func ParseFile(path string) (*Deck, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("netlist: %w", err)
	}
	return ParseString(string(data))
}
