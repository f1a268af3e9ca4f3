package catalog

import "github.com/alecthomas/participle/v2/lexer"

// variantLexer recognizes the punctuation tokens accepted as variant
// selectors. Longer tokens come first so that "..=" wins over "..".
//
//nolint:govet // Participle DSL uses unkeyed fields
var variantLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Punct", Pattern: `>>=|<<=|\.\.\.|\.\.=|\.\.|::|&&|&=|==|=>|>>|>=|<<|<=|<-|\|\||\|=|->|-=|[+^/*!%]=|[@,#$?;~_.&=<>|:+^/*!%-]`},
})

// ValidVariant reports whether v is exactly one punctuation token.
func ValidVariant(v string) bool {
	if v == "" {
		return false
	}
	lex, err := variantLexer.LexString("", v)
	if err != nil {
		return false
	}
	tokens, err := lexer.ConsumeAll(lex)
	if err != nil {
		return false
	}
	count := 0
	for _, tok := range tokens {
		if tok.EOF() {
			continue
		}
		count++
	}
	return count == 1
}
