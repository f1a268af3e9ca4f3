// Package directive recognizes the annotations carried by comment lines.
//
// A comment is one of
//
//	name: <ident>[<variant symbols>]
//	param: <ident> : <type> <description>
//
// or plain documentation. Names of parameters are normalized to snake_case.
package directive

import (
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/electwix/sqlinclude/internal/conv"
)

// Kind identifies what a comment line carries.
type Kind int

const (
	// KindDoc is free documentation text.
	KindDoc Kind = iota
	// KindName is a statement name directive.
	KindName
	// KindParam is a parameter declaration.
	KindParam
)

func (k Kind) String() string {
	switch k {
	case KindName:
		return "name"
	case KindParam:
		return "param"
	default:
		return "doc"
	}
}

// Directive is the recognized content of one comment line.
type Directive struct {
	Kind Kind
	// Name is the statement name or the snake_case parameter name.
	Name string
	// Variant is the symbol run after a statement name, possibly empty.
	Variant string
	// Type is the declared parameter type.
	Type string
	// Text is the parameter description, or the verbatim comment for docs.
	Text string
}

// commentLexer tokenizes a comment with the marker already removed. The
// variant run must follow the statement name without white space, so the
// Variant state has no Whitespace rule.
//
//nolint:govet // Participle DSL uses unkeyed fields
var commentLexer = lexer.MustStateful(lexer.Rules{
	"Root": {
		{"Whitespace", `\s+`, nil},
		{"NameKey", `name:`, lexer.Push("Name")},
		{"ParamKey", `param:`, lexer.Push("Param")},
		{"Text", `.+`, nil},
	},
	"Name": {
		{"Whitespace", `\s+`, nil},
		{"StmtName", `[[:alpha:]][[:word:]]*`, lexer.Push("Variant")},
	},
	"Variant": {
		{"Variant", `[!#$%&*+./:<=>?@^|~-]+`, nil},
		{"Rest", `.+`, nil},
	},
	"Param": {
		{"Whitespace", `\s+`, nil},
		{"ParamName", `[[:alpha:]][[:word:]]*`, nil},
		{"Colon", `:`, lexer.Push("Type")},
	},
	"Type": {
		{"Whitespace", `\s+`, nil},
		{"Type", `\S+`, lexer.Push("Description")},
	},
	"Description": {
		{"Whitespace", `\s+`, nil},
		{"Description", `.+`, nil},
	},
})

//nolint:govet // Participle struct tags are DSL, not reflect tags
type comment struct {
	Name  *nameDirective  `  NameKey @@`
	Param *paramDirective `| ParamKey @@`
	Text  string          `| @Text`
}

//nolint:govet // Participle struct tags are DSL, not reflect tags
type nameDirective struct {
	Ident   string `@StmtName`
	Variant string `@Variant?`
	Rest    string `@Rest?`
}

//nolint:govet // Participle struct tags are DSL, not reflect tags
type paramDirective struct {
	Ident       string `@ParamName Colon`
	Type        string `@Type`
	Description string `@Description?`
}

var commentParser = participle.MustBuild[comment](
	participle.Lexer(commentLexer),
	participle.Elide("Whitespace"),
)

// Recognize classifies a comment line. Anything that is not a well formed
// directive is documentation and is returned verbatim.
func Recognize(text string) Directive {
	doc := Directive{Kind: KindDoc, Text: text}
	if strings.TrimSpace(text) == "" {
		return doc
	}
	parsed, err := commentParser.ParseString("", text)
	if err != nil {
		return doc
	}
	switch {
	case parsed.Name != nil:
		return Directive{
			Kind:    KindName,
			Name:    parsed.Name.Ident,
			Variant: parsed.Name.Variant,
		}
	case parsed.Param != nil:
		return Directive{
			Kind: KindParam,
			Name: conv.ToSnakeCase(parsed.Param.Ident),
			Type: parsed.Param.Type,
			Text: parsed.Param.Description,
		}
	default:
		return doc
	}
}

// ParamDoc formats the documentation line generated for a parameter.
func ParamDoc(name, description string) string {
	return " * `" + name + "` " + description
}
