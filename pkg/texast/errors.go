package texast

import (
	"fmt"
	"strings"
)

// SyntaxError is a structural problem found while parsing, anchored at the
// offending token.
type SyntaxError struct {
	Token   Token
	Message string
}

func (e SyntaxError) Error() string {
	return fmt.Sprintf("%d:%d: %s", e.Token.Row+1, e.Token.Col+1, e.Message)
}

// SyntaxErrors is an ordered list of syntax errors from one parse.
type SyntaxErrors []SyntaxError

func (errs SyntaxErrors) Error() string {
	switch len(errs) {
	case 0:
		return "no syntax errors"
	case 1:
		return errs[0].Error()
	}
	parts := make([]string, len(errs))
	for i, e := range errs {
		parts[i] = e.Error()
	}
	return fmt.Sprintf("%d syntax errors: %s", len(errs), strings.Join(parts, "; "))
}
