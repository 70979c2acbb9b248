package texast

import (
	"fmt"
	"unicode/utf8"
)

// TokenKind classifies a token produced by the LaTeX scanner.
type TokenKind uint16

// Token kinds. Reserved characters come first, derived units after.
const (
	TokHash              TokenKind = iota // '#'
	TokDollar                             // '$'
	TokDoubleDollar                       // '$$'
	TokCaret                              // '^'
	TokUnderscore                         // '_'
	TokAmpersand                          // '&'
	TokLeftBrace                          // '{'
	TokRightBrace                         // '}'
	TokLeftBracket                        // '['
	TokRightBracket                       // ']'
	TokTilde                              // '~'
	TokBackslash                          // lone '\'
	TokDoubleBackslash                    // '\\'
	TokSlashOpenBracket                   // '\['
	TokSlashCloseBracket                  // '\]'

	TokWord        // run of non-reserved, non-space characters
	TokCommand     // '\' + letters, lexeme without the backslash
	TokEscapedChar // '\' + reserved char or space, lexeme without the backslash
	TokComment     // '%' to end of line, lexeme without the '%'
	TokNewline     // one physical line break
)

var tokenKindNames = [...]string{ //nolint:gochecknoglobals // lookup table
	TokHash:              "Hash",
	TokDollar:            "Dollar",
	TokDoubleDollar:      "DoubleDollar",
	TokCaret:             "Caret",
	TokUnderscore:        "Underscore",
	TokAmpersand:         "Ampersand",
	TokLeftBrace:         "LeftBrace",
	TokRightBrace:        "RightBrace",
	TokLeftBracket:       "LeftBracket",
	TokRightBracket:      "RightBracket",
	TokTilde:             "Tilde",
	TokBackslash:         "Backslash",
	TokDoubleBackslash:   "DoubleBackslash",
	TokSlashOpenBracket:  "SlashOpenBracket",
	TokSlashCloseBracket: "SlashCloseBracket",
	TokWord:              "Word",
	TokCommand:           "Command",
	TokEscapedChar:       "EscapedChar",
	TokComment:           "Comment",
	TokNewline:           "Newline",
}

// String returns the kind name without the Tok prefix.
func (k TokenKind) String() string {
	if int(k) < len(tokenKindNames) {
		return tokenKindNames[k]
	}
	return fmt.Sprintf("TokenKind(%d)", k)
}

// Token is a lexical unit of LaTeX source.
type Token struct {
	// Kind classifies the token.
	Kind TokenKind

	// Lexeme is the token text. For commands and escaped characters the
	// backslash is stripped, for comments the '%' is stripped.
	Lexeme string

	// Row and Col are 0-based. Col counts runes from the start of the line.
	Row int
	Col int

	// Offset and End delimit the full source span in bytes, including any
	// stripped prefix.
	Offset int
	End    int
}

// IsOperator reports whether the token is a superscript or subscript operator.
func (t Token) IsOperator() bool {
	return t.Kind == TokCaret || t.Kind == TokUnderscore
}

// IsBeginEnvr reports whether the token is the \begin command.
func (t Token) IsBeginEnvr() bool {
	return t.Kind == TokCommand && t.Lexeme == "begin"
}

// IsEndEnvr reports whether the token is the \end command.
func (t Token) IsEndEnvr() bool {
	return t.Kind == TokCommand && t.Lexeme == "end"
}

// Width returns the lexeme length in runes.
func (t Token) Width() int {
	return utf8.RuneCountInString(t.Lexeme)
}

// Source returns the source text the token was scanned from.
func (t Token) Source(content []byte) []byte {
	if t.Offset < 0 || t.End > len(content) || t.Offset > t.End {
		return nil
	}
	return content[t.Offset:t.End]
}

// String renders the token as Kind("lexeme").
func (t Token) String() string {
	return fmt.Sprintf("%s(%q)", t.Kind, t.Lexeme)
}

// Literal reconstructs the source spelling of the token from its kind and
// lexeme, re-adding stripped prefixes.
func (t Token) Literal() string {
	switch t.Kind {
	case TokCommand, TokEscapedChar:
		return `\` + t.Lexeme
	case TokComment:
		return "%" + t.Lexeme
	case TokNewline:
		return "\n"
	default:
		return t.Lexeme
	}
}
