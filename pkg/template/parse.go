package template

import (
	"fmt"
	"strconv"
	"strings"
)

// The segment language is a deliberately small statement/expression
// interpreter substituted for host-language code execution. It exposes
// variable lookup, field access, arithmetic/string concatenation,
// comparisons, boolean branching, iteration, local assignment and a
// handful of builtins. No filesystem, network or arbitrary calls are
// reachable from a segment.
//
//	stmts  := stmt*
//	stmt   := "if" expr "{" stmts "}" [ "else" ( stmt-if | "{" stmts "}" ) ]
//	        | "for" IDENT "in" expr "{" stmts "}"
//	        | "set" IDENT "=" expr
//	        | expr                      -- value emitted to the output
//	expr   := or-chain of and/not/comparison/term/factor/postfix/primary

type stmt interface{ isStmt() }

type exprStmt struct{ e expr }
type setStmt struct {
	name string
	e    expr
}
type ifStmt struct {
	cond expr
	then []stmt
	els  []stmt
}
type forStmt struct {
	ident string
	seq   expr
	body  []stmt
}

func (exprStmt) isStmt() {}
func (setStmt) isStmt()  {}
func (ifStmt) isStmt()   {}
func (forStmt) isStmt()  {}

type expr interface{ isExpr() }

type litExpr struct{ v any }
type identExpr struct{ name string }
type fieldExpr struct {
	x    expr
	name string
}
type indexExpr struct {
	x, i expr
}
type callExpr struct {
	name string
	args []expr
}
type unaryExpr struct {
	op string
	x  expr
}
type binaryExpr struct {
	op   string
	l, r expr
}

func (litExpr) isExpr()    {}
func (identExpr) isExpr()  {}
func (fieldExpr) isExpr()  {}
func (indexExpr) isExpr()  {}
func (callExpr) isExpr()   {}
func (unaryExpr) isExpr()  {}
func (binaryExpr) isExpr() {}

type parser struct {
	tokens []token
	pos    int
}

// parseSegment parses one code segment into a statement sequence.
func parseSegment(src string) ([]stmt, error) {
	lx := newLexer(src)
	var tokens []token
	for {
		tok, err := lx.next()
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, tok)
		if tok.kind == tokenEOF {
			break
		}
	}

	p := &parser{tokens: tokens}
	stmts, err := p.parseStmts()
	if err != nil {
		return nil, err
	}
	if !p.atEOF() {
		return nil, fmt.Errorf("unexpected %q", p.peek().text)
	}
	return stmts, nil
}

func (p *parser) parseStmts() ([]stmt, error) {
	var stmts []stmt
	for !p.atEOF() && !p.check(tokenOp, "}") {
		s, err := p.parseStmt()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, s)
	}
	return stmts, nil
}

func (p *parser) parseStmt() (stmt, error) {
	switch {
	case p.check(tokenKeyword, "if"):
		return p.parseIf()
	case p.check(tokenKeyword, "for"):
		return p.parseFor()
	case p.check(tokenKeyword, "set"):
		return p.parseSet()
	default:
		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		return exprStmt{e: e}, nil
	}
}

func (p *parser) parseIf() (stmt, error) {
	p.advance() // "if"
	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	then, err := p.parseBlock()
	if err != nil {
		return nil, err
	}

	var els []stmt
	if p.check(tokenKeyword, "else") {
		p.advance()
		if p.check(tokenKeyword, "if") {
			chained, err := p.parseIf()
			if err != nil {
				return nil, err
			}
			els = []stmt{chained}
		} else {
			els, err = p.parseBlock()
			if err != nil {
				return nil, err
			}
		}
	}

	return ifStmt{cond: cond, then: then, els: els}, nil
}

func (p *parser) parseFor() (stmt, error) {
	p.advance() // "for"
	if p.peek().kind != tokenIdent {
		return nil, fmt.Errorf("expected loop variable, got %q", p.peek().text)
	}
	name := p.advance().text

	if !p.check(tokenKeyword, "in") {
		return nil, fmt.Errorf("expected \"in\", got %q", p.peek().text)
	}
	p.advance()

	seq, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return forStmt{ident: name, seq: seq, body: body}, nil
}

func (p *parser) parseSet() (stmt, error) {
	p.advance() // "set"
	if p.peek().kind != tokenIdent {
		return nil, fmt.Errorf("expected variable name, got %q", p.peek().text)
	}
	name := p.advance().text

	if !p.check(tokenOp, "=") {
		return nil, fmt.Errorf("expected \"=\", got %q", p.peek().text)
	}
	p.advance()

	e, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	return setStmt{name: name, e: e}, nil
}

func (p *parser) parseBlock() ([]stmt, error) {
	if !p.check(tokenOp, "{") {
		return nil, fmt.Errorf("expected \"{\", got %q", p.peek().text)
	}
	p.advance()
	stmts, err := p.parseStmts()
	if err != nil {
		return nil, err
	}
	if !p.check(tokenOp, "}") {
		return nil, fmt.Errorf("expected \"}\", got %q", p.peek().text)
	}
	p.advance()
	return stmts, nil
}

func (p *parser) parseExpr() (expr, error) {
	return p.parseOr()
}

func (p *parser) parseOr() (expr, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.check(tokenKeyword, "or") {
		p.advance()
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = binaryExpr{op: "or", l: left, r: right}
	}
	return left, nil
}

func (p *parser) parseAnd() (expr, error) {
	left, err := p.parseComparison()
	if err != nil {
		return nil, err
	}
	for p.check(tokenKeyword, "and") {
		p.advance()
		right, err := p.parseComparison()
		if err != nil {
			return nil, err
		}
		left = binaryExpr{op: "and", l: left, r: right}
	}
	return left, nil
}

func (p *parser) parseComparison() (expr, error) {
	left, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	for p.peek().kind == tokenOp {
		op := p.peek().text
		if op != "==" && op != "!=" && op != "<" && op != "<=" && op != ">" && op != ">=" {
			break
		}
		p.advance()
		right, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		left = binaryExpr{op: op, l: left, r: right}
	}
	return left, nil
}

func (p *parser) parseTerm() (expr, error) {
	left, err := p.parseFactor()
	if err != nil {
		return nil, err
	}
	for p.checkOp("+") || p.checkOp("-") {
		op := p.advance().text
		right, err := p.parseFactor()
		if err != nil {
			return nil, err
		}
		left = binaryExpr{op: op, l: left, r: right}
	}
	return left, nil
}

func (p *parser) parseFactor() (expr, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for p.checkOp("*") || p.checkOp("/") || p.checkOp("%") {
		op := p.advance().text
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = binaryExpr{op: op, l: left, r: right}
	}
	return left, nil
}

func (p *parser) parseUnary() (expr, error) {
	if p.check(tokenKeyword, "not") || p.checkOp("-") {
		op := p.advance().text
		x, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return unaryExpr{op: op, x: x}, nil
	}
	return p.parsePostfix()
}

func (p *parser) parsePostfix() (expr, error) {
	e, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}

	for {
		switch {
		case p.checkOp("."):
			p.advance()
			if p.peek().kind != tokenIdent {
				return nil, fmt.Errorf("expected field name after \".\", got %q", p.peek().text)
			}
			e = fieldExpr{x: e, name: p.advance().text}

		case p.checkOp("["):
			p.advance()
			idx, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			if !p.checkOp("]") {
				return nil, fmt.Errorf("expected \"]\", got %q", p.peek().text)
			}
			p.advance()
			e = indexExpr{x: e, i: idx}

		case p.checkOp("("):
			ident, ok := e.(identExpr)
			if !ok {
				return nil, fmt.Errorf("only builtin functions may be called")
			}
			p.advance()
			var args []expr
			for !p.checkOp(")") {
				arg, err := p.parseExpr()
				if err != nil {
					return nil, err
				}
				args = append(args, arg)
				if p.checkOp(",") {
					p.advance()
				} else {
					break
				}
			}
			if !p.checkOp(")") {
				return nil, fmt.Errorf("expected \")\", got %q", p.peek().text)
			}
			p.advance()
			e = callExpr{name: ident.name, args: args}

		default:
			return e, nil
		}
	}
}

func (p *parser) parsePrimary() (expr, error) {
	tok := p.peek()
	switch tok.kind {
	case tokenNumber:
		p.advance()
		if strings.Contains(tok.text, ".") {
			f, err := strconv.ParseFloat(tok.text, 64)
			if err != nil {
				return nil, fmt.Errorf("bad number %q", tok.text)
			}
			return litExpr{v: f}, nil
		}
		n, err := strconv.ParseInt(tok.text, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("bad number %q", tok.text)
		}
		return litExpr{v: n}, nil

	case tokenString:
		p.advance()
		return litExpr{v: tok.text}, nil

	case tokenIdent:
		p.advance()
		return identExpr{name: tok.text}, nil

	case tokenKeyword:
		switch tok.text {
		case "true":
			p.advance()
			return litExpr{v: true}, nil
		case "false":
			p.advance()
			return litExpr{v: false}, nil
		case "nil":
			p.advance()
			return litExpr{v: nil}, nil
		}
		return nil, fmt.Errorf("unexpected keyword %q", tok.text)

	case tokenOp:
		if tok.text == "(" {
			p.advance()
			e, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			if !p.checkOp(")") {
				return nil, fmt.Errorf("expected \")\", got %q", p.peek().text)
			}
			p.advance()
			return e, nil
		}
	}
	if tok.kind == tokenEOF {
		return nil, fmt.Errorf("unexpected end of segment")
	}
	return nil, fmt.Errorf("unexpected %q", tok.text)
}

func (p *parser) peek() token {
	return p.tokens[p.pos]
}

func (p *parser) advance() token {
	tok := p.tokens[p.pos]
	if p.pos < len(p.tokens)-1 {
		p.pos++
	}
	return tok
}

func (p *parser) atEOF() bool {
	return p.peek().kind == tokenEOF
}

func (p *parser) check(kind tokenKind, text string) bool {
	tok := p.peek()
	return tok.kind == kind && tok.text == text
}

func (p *parser) checkOp(text string) bool {
	return p.check(tokenOp, text)
}
