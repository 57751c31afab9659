package ignore

import (
	"regexp"
	"strings"
)

// Pattern is a single compiled ignore rule.
type Pattern struct {
	re     *regexp.Regexp // Anchored regular expression for the pattern.
	negate bool           // True when the source line started with '!'.
	line   string         // Original pattern text, without the negation mark.
}

// Precompiled expressions used while translating '**' segments.
var (
	doubleStarMiddle   = regexp.MustCompile(`/\*\*/`)
	doubleStarTrailing = regexp.MustCompile(`/\*\*$`)
	doubleStarLeading  = regexp.MustCompile(`^\*\*/`)
)

// Placeholders keep '**' expansions out of reach of the single-star
// rewrite below.
const (
	markMiddle   = "\x00M\x00"
	markTrailing = "\x00T\x00"
	markLeading  = "\x00L\x00"
)

// compilePattern translates one gitignore pattern into an anchored regular
// expression and wraps it in a Pattern. Patterns without a leading slash
// match any path suffix; patterns with a trailing slash match directories
// only. Returns nil if the resulting expression does not compile.
func compilePattern(pattern string, negate bool) *Pattern {
	expr := escapeMeta(pattern)

	expr = doubleStarMiddle.ReplaceAllString(expr, markMiddle)
	expr = doubleStarTrailing.ReplaceAllString(expr, markTrailing)
	expr = doubleStarLeading.ReplaceAllString(expr, markLeading)

	expr = strings.ReplaceAll(expr, "*", `[^/]*`)
	expr = strings.ReplaceAll(expr, "?", `.`)

	expr = strings.ReplaceAll(expr, markMiddle, `(/|/.+/)`)
	expr = strings.ReplaceAll(expr, markTrailing, `(/.*)?`)
	expr = strings.ReplaceAll(expr, markLeading, `(.*/)?`)

	expr = anchor(expr, pattern)

	re, err := regexp.Compile(expr)
	if err != nil {
		return nil
	}
	return &Pattern{re: re, negate: negate, line: pattern}
}

// anchor pins the expression to the whole path. Directory patterns (trailing
// slash) match the directory and anything under it; rooted patterns (leading
// slash) match only from the top of the scope.
func anchor(expr, pattern string) string {
	if strings.HasSuffix(pattern, "/") {
		expr += `(/.*)?$`
	} else {
		expr += `(|/.*)?$`
	}

	if strings.HasPrefix(pattern, "/") {
		return "^" + strings.TrimPrefix(expr, "/")
	}
	return `^(|.*/)` + expr
}

// escapeMeta escapes regexp metacharacters except '*', '?', and '/', which
// carry wildcard meaning in ignore patterns.
func escapeMeta(pattern string) string {
	const meta = `.+()|^$[]{}\`
	var b strings.Builder
	for _, r := range pattern {
		if strings.ContainsRune(meta, r) {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}
