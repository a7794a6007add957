package request

import "strings"

var phraseEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

// QuotePhrase wraps s in double quotes, escaping backslashes and quotes,
// so the backend reads it as one literal phrase.
func QuotePhrase(s string) string {
	return `"` + phraseEscaper.Replace(s) + `"`
}

// TranslateSearchText splits raw text on whitespace, quotes every token and
// rejoins with single spaces, so each token is matched as a literal phrase.
func TranslateSearchText(raw string) string {
	tokens := strings.Fields(raw)
	for i, t := range tokens {
		tokens[i] = QuotePhrase(t)
	}
	return strings.Join(tokens, " ")
}
