package latex

import (
	"unicode"
	"unicode/utf8"

	"github.com/yaklabco/texhelper/pkg/texast"
)

// scanner performs a single left-to-right pass over LaTeX source.
// It never fails: every input, including invalid UTF-8, yields tokens.
type scanner struct {
	src    string
	tokens []texast.Token
	pos    int // byte offset
	row    int
	col    int // rune column

	// Start of the token being scanned.
	startPos int
	startRow int
	startCol int
}

// Scan converts source text into tokens. Whitespace separates tokens but does
// not produce any; each physical newline produces one Newline token.
func Scan(source string) []texast.Token {
	const initialCapacityDivisor = 3
	s := &scanner{
		src:    source,
		tokens: make([]texast.Token, 0, len(source)/initialCapacityDivisor+1),
	}
	s.scan()
	return s.tokens
}

func (s *scanner) scan() {
	for s.pos < len(s.src) {
		s.mark()
		r, _ := s.peek(0)

		switch r {
		case '#':
			s.single(texast.TokHash)
		case '^':
			s.single(texast.TokCaret)
		case '_':
			s.single(texast.TokUnderscore)
		case '&':
			s.single(texast.TokAmpersand)
		case '{':
			s.single(texast.TokLeftBrace)
		case '}':
			s.single(texast.TokRightBrace)
		case '[':
			s.single(texast.TokLeftBracket)
		case ']':
			s.single(texast.TokRightBracket)
		case '~':
			s.single(texast.TokTilde)
		case '$':
			s.scanDollar()
		case '%':
			s.scanComment()
		case '\\':
			s.scanBackslash()
		case '\n':
			s.advance()
			s.emit(texast.TokNewline, "\n")
		case '\r':
			if next, _ := s.peek(1); next == '\n' {
				s.advance()
				s.advance()
				s.emit(texast.TokNewline, "\n")
				continue
			}
			s.advance()
		default:
			if isSpace(r) {
				s.skipSpaces()
				continue
			}
			s.scanWord()
		}
	}
}

// mark records the start of a token.
func (s *scanner) mark() {
	s.startPos, s.startRow, s.startCol = s.pos, s.row, s.col
}

// peek decodes the rune n runes ahead without consuming.
func (s *scanner) peek(n int) (rune, int) {
	off := s.pos
	for ; n > 0; n-- {
		if off >= len(s.src) {
			return utf8.RuneError, 0
		}
		_, width := utf8.DecodeRuneInString(s.src[off:])
		off += width
	}
	if off >= len(s.src) {
		return utf8.RuneError, 0
	}
	return utf8.DecodeRuneInString(s.src[off:])
}

// hasAhead reports whether a rune exists n runes ahead.
func (s *scanner) hasAhead(n int) bool {
	_, width := s.peek(n)
	return width > 0
}

// advance consumes one rune, tracking row and column.
func (s *scanner) advance() {
	r, width := utf8.DecodeRuneInString(s.src[s.pos:])
	s.pos += width
	if r == '\n' {
		s.row++
		s.col = 0
		return
	}
	s.col++
}

func (s *scanner) emit(kind texast.TokenKind, lexeme string) {
	s.tokens = append(s.tokens, texast.Token{
		Kind:   kind,
		Lexeme: lexeme,
		Row:    s.startRow,
		Col:    s.startCol,
		Offset: s.startPos,
		End:    s.pos,
	})
}

func (s *scanner) single(kind texast.TokenKind) {
	s.advance()
	s.emit(kind, s.src[s.startPos:s.pos])
}

func (s *scanner) scanDollar() {
	s.advance()
	if next, _ := s.peek(0); next == '$' {
		s.advance()
		s.emit(texast.TokDoubleDollar, "$$")
		return
	}
	s.emit(texast.TokDollar, "$")
}

// scanComment consumes from '%' up to, but not including, the line break.
func (s *scanner) scanComment() {
	s.advance()
	textStart := s.pos
	for s.pos < len(s.src) {
		r, _ := s.peek(0)
		if r == '\n' {
			break
		}
		if r == '\r' {
			if next, _ := s.peek(1); next == '\n' {
				break
			}
		}
		s.advance()
	}
	s.emit(texast.TokComment, s.src[textStart:s.pos])
}

func (s *scanner) scanBackslash() {
	s.advance()
	if !s.hasAhead(0) {
		s.emit(texast.TokBackslash, `\`)
		return
	}

	next, _ := s.peek(0)
	switch {
	case next == '\\':
		s.advance()
		s.emit(texast.TokDoubleBackslash, `\\`)
	case isEscapable(next):
		s.advance()
		s.emit(texast.TokEscapedChar, string(next))
	case next == '[':
		s.advance()
		s.emit(texast.TokSlashOpenBracket, `\[`)
	case next == ']':
		s.advance()
		s.emit(texast.TokSlashCloseBracket, `\]`)
	case unicode.IsLetter(next):
		nameStart := s.pos
		for s.pos < len(s.src) {
			r, _ := s.peek(0)
			if !unicode.IsLetter(r) {
				break
			}
			s.advance()
		}
		s.emit(texast.TokCommand, s.src[nameStart:s.pos])
	default:
		// Forced space before a line break, or a backslash we cannot pair.
		// The following character is scanned on its own.
		s.emit(texast.TokBackslash, `\`)
	}
}

func (s *scanner) skipSpaces() {
	for s.pos < len(s.src) {
		r, _ := s.peek(0)
		if !isSpace(r) {
			return
		}
		s.advance()
	}
}

// scanWord consumes a maximal run of non-reserved, non-space characters.
func (s *scanner) scanWord() {
	for s.pos < len(s.src) {
		r, width := s.peek(0)
		if s.pos > s.startPos && (isReserved(r) || isSeparator(r)) {
			break
		}
		if width == 0 {
			break
		}
		s.advance()
	}
	s.emit(texast.TokWord, s.src[s.startPos:s.pos])
}

// isReserved reports characters that end a Word.
func isReserved(r rune) bool {
	switch r {
	case '#', '$', '%', '^', '&', '_', '{', '}', '\\', '~', '[', ']':
		return true
	}
	return false
}

// isEscapable reports characters that form an EscapedChar after a backslash.
func isEscapable(r rune) bool {
	switch r {
	case '#', '$', '%', '^', '&', '_', '{', '}', '~', ' ':
		return true
	}
	return false
}

// isSpace reports intra-line whitespace. Line breaks are handled separately.
func isSpace(r rune) bool {
	return r != '\n' && r != '\r' && unicode.IsSpace(r)
}

func isSeparator(r rune) bool {
	return r == '\n' || r == '\r' || unicode.IsSpace(r)
}
