package latex

import (
	"fmt"
	"unicode/utf8"

	"github.com/yaklabco/texhelper/pkg/texast"
)

// closer identifies a delimiter that ends a paragraph when an enclosing rule
// owns it.
type closer int

const (
	closeBrace closer = iota
	closeBracket
	closeDisplay
	closeEnvr
	closerCount
)

// grammar is the recursive-descent state for one parse. The token slice is
// shared; pos and limit bound the region being parsed. Math bodies are parsed
// by narrowing limit to the closing delimiter.
type grammar struct {
	tokens []texast.Token
	pos    int
	limit  int

	tree *texast.Tree
	errs texast.SyntaxErrors

	depth    int
	maxDepth int
	aborted  bool

	owned [closerCount]int
}

func newGrammar(tokens []texast.Token, maxDepth int) *grammar {
	return &grammar{
		tokens:   tokens,
		limit:    len(tokens),
		tree:     texast.NewTree(),
		maxDepth: maxDepth,
	}
}

func (g *grammar) atEnd() bool {
	return g.aborted || g.pos >= g.limit
}

func (g *grammar) peek() texast.Token {
	return g.tokens[g.pos]
}

func (g *grammar) peekKind(kind texast.TokenKind) bool {
	return !g.atEnd() && g.tokens[g.pos].Kind == kind
}

// atParagraphBreak reports two or more consecutive newlines at pos.
func (g *grammar) atParagraphBreak() bool {
	return g.pos+1 < g.limit &&
		g.tokens[g.pos].Kind == texast.TokNewline &&
		g.tokens[g.pos+1].Kind == texast.TokNewline
}

func (g *grammar) skipNewlines() {
	for g.peekKind(texast.TokNewline) {
		g.pos++
	}
}

func (g *grammar) errorf(tok texast.Token, format string, args ...any) {
	if g.aborted {
		return
	}
	g.errs = append(g.errs, texast.SyntaxError{Token: tok, Message: fmt.Sprintf(format, args...)})
}

// enter guards recursion. Past the limit the whole parse is cut short with a
// single error.
func (g *grammar) enter(tok texast.Token) bool {
	if g.depth >= g.maxDepth {
		g.errorf(tok, "nesting too deep (limit %d)", g.maxDepth)
		g.aborted = true
		return false
	}
	g.depth++
	return true
}

func (g *grammar) leave() {
	g.depth--
}

// leaf appends a single-token node to parent and consumes the token.
func (g *grammar) leaf(parent texast.NodeID, kind texast.NodeKind, lexeme string) texast.NodeID {
	id := g.tree.Add(kind, lexeme)
	g.tree.SetSpan(id, g.pos, g.pos)
	g.tree.AppendChild(parent, id)
	g.pos++
	return id
}

// spanChildren sets a container's span from its first and last child.
func (g *grammar) spanChildren(id texast.NodeID) {
	children := g.tree.Children(id)
	if len(children) == 0 {
		return
	}
	first := g.tree.Node(children[0]).FirstToken
	last := g.tree.Node(children[len(children)-1]).LastToken
	g.tree.SetSpan(id, first, last)
}

// passage fills id with paragraphs until the input ends or a paragraph stops
// on a closer owned by an enclosing rule.
func (g *grammar) passage(id texast.NodeID) {
	for {
		g.skipNewlines()
		if g.atEnd() {
			break
		}
		para := g.paragraph()
		if len(g.tree.Children(para)) > 0 {
			g.tree.AppendChild(id, para)
		}
		if g.atEnd() || !g.peekKind(texast.TokNewline) {
			break
		}
	}
	g.spanChildren(id)
}

func (g *grammar) paragraph() texast.NodeID {
	para := g.tree.Add(texast.NodeParagraph, "")
	g.fillParagraph(para)
	g.spanChildren(para)
	return para
}

// fillParagraph appends elements to para. It returns at the end of input, at
// a paragraph break, or at a closer some enclosing rule owns.
func (g *grammar) fillParagraph(para texast.NodeID) {
	for !g.atEnd() {
		tok := g.peek()

		switch tok.Kind {
		case texast.TokNewline:
			if g.atParagraphBreak() {
				return
			}
			g.pos++
		case texast.TokWord:
			g.leaf(para, texast.NodeWord, tok.Lexeme)
		case texast.TokHash:
			g.leaf(para, texast.NodeWord, tok.Lexeme)
		case texast.TokComment:
			g.leaf(para, texast.NodeComment, tok.Lexeme)
		case texast.TokEscapedChar:
			g.leaf(para, texast.NodeEscapedChar, tok.Lexeme)
		case texast.TokAmpersand:
			g.leaf(para, texast.NodeAmpersand, tok.Lexeme)
		case texast.TokTilde:
			g.leaf(para, texast.NodeOperation, tok.Lexeme)
		case texast.TokBackslash:
			g.leaf(para, texast.NodeWord, " ")
		case texast.TokDoubleBackslash:
			g.leaf(para, texast.NodeDoubleBackSlash, tok.Lexeme)
		case texast.TokCaret, texast.TokUnderscore:
			g.operation(para)
		case texast.TokLeftBrace:
			g.appendIfAny(para, g.group(texast.NodeCurlyBracketArg, closeBrace, texast.TokRightBrace))
		case texast.TokLeftBracket:
			g.appendIfAny(para, g.group(texast.NodeSquareBracketArg, closeBracket, texast.TokRightBracket))
		case texast.TokSlashOpenBracket:
			g.appendIfAny(para, g.group(texast.NodeDisplayMath, closeDisplay, texast.TokSlashCloseBracket))
		case texast.TokDollar:
			g.appendIfAny(para, g.math(texast.NodeInlineMath))
		case texast.TokDoubleDollar:
			g.appendIfAny(para, g.math(texast.NodeDisplayMath))
		case texast.TokRightBrace:
			if g.owned[closeBrace] > 0 {
				return
			}
			g.errorf(tok, "unexpected '}' without matching '{'")
			g.pos++
		case texast.TokSlashCloseBracket:
			if g.owned[closeDisplay] > 0 {
				return
			}
			g.errorf(tok, `unexpected '\]' without matching '\['`)
			g.pos++
		case texast.TokRightBracket:
			if g.owned[closeBracket] > 0 {
				return
			}
			// A stray ']' is ordinary text in LaTeX.
			g.leaf(para, texast.NodeWord, tok.Lexeme)
		case texast.TokCommand:
			switch {
			case tok.IsBeginEnvr():
				g.appendIfAny(para, g.environment())
			case tok.IsEndEnvr():
				if g.owned[closeEnvr] > 0 {
					return
				}
				g.strayEnd()
			default:
				g.appendIfAny(para, g.command())
			}
		default:
			g.errorf(tok, "unexpected token %s", tok)
			g.pos++
		}
	}
}

func (g *grammar) appendIfAny(parent, child texast.NodeID) {
	if child != texast.NoNode {
		g.tree.AppendChild(parent, child)
	}
}

// operation parses '^' or '_' and its right operand. The left operand is the
// last character of a Word token immediately before the operator; that Word
// keeps its full text and the character is recorded as the Operation base.
func (g *grammar) operation(para texast.NodeID) {
	opIdx := g.pos
	opTok := g.peek()
	op := g.tree.Add(texast.NodeOperation, opTok.Lexeme)
	g.tree.AppendChild(para, op)

	if base, ok := g.baseBefore(para, opIdx); ok {
		g.tree.SetBase(op, base)
	}
	g.pos++

	last := opIdx
	var suffix string
	switch {
	case g.atEnd():
		g.errorf(opTok, "expected operand after '%s'", opTok.Lexeme)
	case g.peekKind(texast.TokWord):
		word := g.peek().Lexeme
		_, size := utf8.DecodeRuneInString(word)
		operand := g.tree.Add(texast.NodeWord, word[:size])
		g.tree.SetSpan(operand, g.pos, g.pos)
		g.tree.AppendChild(op, operand)
		suffix = word[size:]
		last = g.pos
		g.pos++
	case g.peekKind(texast.TokLeftBrace):
		arg := g.group(texast.NodeCurlyBracketArg, closeBrace, texast.TokRightBrace)
		if arg != texast.NoNode {
			g.tree.AppendChild(op, arg)
			last = g.pos - 1
		}
	default:
		g.errorf(g.peek(), "expected word or '{' after '%s', found %s", opTok.Lexeme, g.peek())
	}
	g.tree.SetSpan(op, opIdx, last)

	// a^bc binds only b; the rest of the word follows the operation.
	if suffix != "" {
		rest := g.tree.Add(texast.NodeWord, suffix)
		g.tree.SetSpan(rest, last, last)
		g.tree.AppendChild(para, rest)
	}
}

// baseBefore returns the last character of the Word token directly before the
// operator, when that Word is the previous element of the paragraph.
func (g *grammar) baseBefore(para texast.NodeID, opIdx int) (string, bool) {
	children := g.tree.Children(para)
	if len(children) < 2 || opIdx == 0 {
		return "", false
	}
	prev := g.tree.Node(children[len(children)-2])
	if prev.Kind != texast.NodeWord || prev.LastToken != opIdx-1 {
		return "", false
	}
	tok := g.tokens[opIdx-1]
	if tok.Kind != texast.TokWord || tok.End != g.tokens[opIdx].Offset {
		return "", false
	}
	r, size := utf8.DecodeLastRuneInString(prev.Lexeme)
	if size == 0 {
		return "", false
	}
	return string(r), true
}

// group parses an opener, a paragraph and the matching closer.
func (g *grammar) group(kind texast.NodeKind, owns closer, closeKind texast.TokenKind) texast.NodeID {
	openIdx := g.pos
	openTok := g.peek()
	if !g.enter(openTok) {
		return texast.NoNode
	}
	defer g.leave()

	node := g.tree.Add(kind, "")
	g.pos++

	g.owned[owns]++
	para := g.paragraph()
	g.owned[owns]--
	g.tree.AppendChild(node, para)

	if g.peekKind(closeKind) {
		g.pos++
	} else {
		g.errorf(openTok, "expected '%s' to close '%s'", closingLexeme(closeKind), openTok.Lexeme)
	}
	g.tree.SetSpan(node, openIdx, max(openIdx, g.pos-1))
	return node
}

// math parses '$...$' or '$$...$$'. The body is the token range up to the next
// delimiter of the same kind within the current paragraph.
func (g *grammar) math(kind texast.NodeKind) texast.NodeID {
	openIdx := g.pos
	openTok := g.peek()

	closeIdx := g.findMathCloser(openIdx)
	if closeIdx < 0 {
		g.errorf(openTok, "unmatched '%s'", openTok.Lexeme)
		g.pos++
		return texast.NoNode
	}
	if !g.enter(openTok) {
		return texast.NoNode
	}
	defer g.leave()

	node := g.tree.Add(kind, "")

	savedLimit, savedOwned := g.limit, g.owned
	g.limit, g.owned = closeIdx, [closerCount]int{}
	g.pos = openIdx + 1

	para := g.tree.Add(texast.NodeParagraph, "")
	for !g.atEnd() {
		g.fillParagraph(para)
		g.skipNewlines()
	}
	g.spanChildren(para)
	g.tree.AppendChild(node, para)

	g.limit, g.owned = savedLimit, savedOwned
	if !g.aborted {
		g.pos = closeIdx + 1
	}
	g.tree.SetSpan(node, openIdx, closeIdx)
	return node
}

// findMathCloser returns the index of the delimiter closing the math opened
// at openIdx, or -1. The search stops at a paragraph break and at a closer
// owned by an enclosing rule that is not balanced inside the body.
func (g *grammar) findMathCloser(openIdx int) int {
	delim := g.tokens[openIdx].Kind
	var braces, brackets, envs int
	for i := openIdx + 1; i < g.limit; i++ {
		tok := g.tokens[i]
		switch {
		case tok.Kind == delim:
			return i
		case tok.Kind == texast.TokNewline && i+1 < g.limit && g.tokens[i+1].Kind == texast.TokNewline:
			return -1
		case tok.Kind == texast.TokLeftBrace:
			braces++
		case tok.Kind == texast.TokLeftBracket:
			brackets++
		case tok.IsBeginEnvr():
			envs++
		case tok.Kind == texast.TokRightBrace:
			if braces == 0 && g.owned[closeBrace] > 0 {
				return -1
			}
			braces = max(braces-1, 0)
		case tok.Kind == texast.TokRightBracket:
			if brackets == 0 && g.owned[closeBracket] > 0 {
				return -1
			}
			brackets = max(brackets-1, 0)
		case tok.Kind == texast.TokSlashCloseBracket:
			if g.owned[closeDisplay] > 0 {
				return -1
			}
		case tok.IsEndEnvr():
			if envs == 0 && g.owned[closeEnvr] > 0 {
				return -1
			}
			envs = max(envs-1, 0)
		}
	}
	return -1
}

// command parses a command and any bracket or brace arguments that follow it.
func (g *grammar) command() texast.NodeID {
	cmdIdx := g.pos
	node := g.tree.Add(texast.NodeCommand, g.peek().Lexeme)
	g.pos++

	for !g.atEnd() {
		var arg texast.NodeID
		switch {
		case g.peekKind(texast.TokLeftBracket):
			arg = g.group(texast.NodeSquareBracketArg, closeBracket, texast.TokRightBracket)
		case g.peekKind(texast.TokLeftBrace):
			arg = g.group(texast.NodeCurlyBracketArg, closeBrace, texast.TokRightBrace)
		default:
			g.tree.SetSpan(node, cmdIdx, g.pos-1)
			return node
		}
		g.appendIfAny(node, arg)
	}
	g.tree.SetSpan(node, cmdIdx, g.pos-1)
	return node
}

// environment parses \begin{name} Passage \end{name}.
func (g *grammar) environment() texast.NodeID {
	beginIdx := g.pos
	beginTok := g.peek()
	g.pos++

	if !g.peekKind(texast.TokLeftBrace) {
		g.errorf(beginTok, `expected '{' after \begin`)
		node := g.tree.Add(texast.NodeCommand, beginTok.Lexeme)
		g.tree.SetSpan(node, beginIdx, beginIdx)
		return node
	}
	if !g.enter(beginTok) {
		return texast.NoNode
	}
	defer g.leave()

	nameArg := g.group(texast.NodeCurlyBracketArg, closeBrace, texast.TokRightBrace)
	name := g.tree.Text(nameArg)
	node := g.tree.Add(texast.NodeEnvr, name)

	body := g.tree.Add(texast.NodePassage, "")
	g.owned[closeEnvr]++
	g.passage(body)
	g.owned[closeEnvr]--
	g.tree.AppendChild(node, body)

	if g.atEnd() || !g.peek().IsEndEnvr() {
		g.errorf(beginTok, `missing \end{%s}`, name)
		g.tree.SetSpan(node, beginIdx, max(beginIdx, g.pos-1))
		return node
	}

	endTok := g.peek()
	g.pos++
	if !g.peekKind(texast.TokLeftBrace) {
		g.errorf(endTok, `expected '{' after \end`)
		g.tree.SetSpan(node, beginIdx, g.pos-1)
		return node
	}

	endArg := g.group(texast.NodeCurlyBracketArg, closeBrace, texast.TokRightBrace)
	if endName := g.tree.Text(endArg); endName != name {
		g.errorf(endTok, `environment mismatch: \begin{%s} ended by \end{%s}`, name, endName)
	}
	g.tree.SetSpan(node, beginIdx, g.pos-1)
	return node
}

// strayEnd reports an \end no environment is waiting for and skips it along
// with its name argument.
func (g *grammar) strayEnd() {
	tok := g.peek()
	g.pos++
	if g.peekKind(texast.TokLeftBrace) {
		arg := g.group(texast.NodeCurlyBracketArg, closeBrace, texast.TokRightBrace)
		g.errorf(tok, `unexpected \end{%s} without matching \begin`, g.tree.Text(arg))
		return
	}
	g.errorf(tok, `unexpected \end without matching \begin`)
}

func closingLexeme(kind texast.TokenKind) string {
	switch kind {
	case texast.TokRightBrace:
		return "}"
	case texast.TokRightBracket:
		return "]"
	case texast.TokSlashCloseBracket:
		return `\]`
	default:
		return kind.String()
	}
}
