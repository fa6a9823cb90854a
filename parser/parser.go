// Package parser turns the textual query language into query statements. A query consists of statements like
//
//	// all tiles touching a region, given by its lower and upper corner
//	region(0,0,9,9).any
//	region(0,0,9,9).full
//	domain.inner
//	domain.border
//	domain.all
//	cell(13,13).tile
//
// The package also parses the box and tile size literals used by the CLI and the HTTP API, e.g. "box(0,0,53,53)"
// and "size(4,4)".
package parser

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/hauke96/sigolo/v2"
	"tilepart/box"
	"tilepart/query"
)

var (
	regionLocationExpression = "region"
	domainLocationExpression = "domain"
	cellLocationExpression   = "cell"
	locationExpressions      = []string{regionLocationExpression, domainLocationExpression, cellLocationExpression}

	regionSelectors = []string{"any", "full"}
	domainSelectors = []string{"inner", "border", "all"}
	cellSelectors   = []string{"tile"}

	boxLiteral  = "box"
	sizeLiteral = "size"
)

type Parser struct {
	token []*Token
	index int
}

func newParser(text string) (*Parser, error) {
	runes := []rune(strings.Trim(text, "\n\r\t "))
	lexer := Lexer{
		input: runes,
		index: 0,
	}

	token, err := lexer.read()
	if err != nil {
		return nil, err
	}

	sigolo.Tracef("Found %d token", len(token))
	for _, t := range token {
		sigolo.Tracef("  kind=%s, pos=%d : %s", t.kind, t.startPosition, t.lexeme)
	}

	return &Parser{
		token: token,
		index: 0,
	}, nil
}

func ParseQueryString(queryString string) (*query.Query, error) {
	parser, err := newParser(queryString)
	if err != nil {
		return nil, err
	}
	return parser.parse()
}

// ParseBox parses a literal like "box(0,0,53,53)" with the lower corner followed by the upper corner.
func ParseBox(text string) (box.Box, error) {
	parser, err := newParser(text)
	if err != nil {
		return box.Box{}, err
	}

	numbers, err := parser.parseLiteral(boxLiteral)
	if err != nil {
		return box.Box{}, err
	}

	lower, upper, err := parser.splitCorners(numbers)
	if err != nil {
		return box.Box{}, err
	}
	return box.New(lower, upper), nil
}

// ParseSize parses a literal like "size(4,4)" with one value per dimension.
func ParseSize(text string) ([]int, error) {
	parser, err := newParser(text)
	if err != nil {
		return nil, err
	}

	numbers, err := parser.parseLiteral(sizeLiteral)
	if err != nil {
		return nil, err
	}
	if len(numbers) == 0 {
		token := parser.currentToken()
		return nil, ParsingErrorExpectedButFound("at least one number", token.startPosition, token.lexeme, token.kind)
	}
	return numbers, nil
}

func (p *Parser) moveToNextToken() *Token {
	p.index++
	sigolo.Debugb(1, "Moved to next token: %+v", p.currentToken())
	return p.currentToken()
}

func (p *Parser) peekNextToken() *Token {
	if p.index+1 >= len(p.token) {
		return nil
	}
	return p.token[p.index+1]
}

func (p *Parser) hasNextToken() bool {
	return p.peekNextToken() != nil
}

func (p *Parser) getNextTokenStartPosition() int {
	if p.hasNextToken() {
		return p.peekNextToken().startPosition
	} else if p.currentToken() != nil {
		// No next token, so the start position of this hypothetical next token is right behind the current one.
		return p.currentToken().startPosition + len(p.currentToken().lexeme)
	}
	return 0
}

func (p *Parser) currentToken() *Token {
	if p.index >= len(p.token) {
		return nil
	}
	return p.token[p.index]
}

// expectNextToken moves to the next token and makes sure it is of the given kind.
func (p *Parser) expectNextToken(kind TokenKind) (*Token, error) {
	if !p.hasNextToken() {
		return nil, ParsingTokenStreamEndAtPosition(p.getNextTokenStartPosition(), fmt.Sprintf("'%s'", kind.Lexeme()))
	}
	token := p.moveToNextToken()
	if token.kind != kind {
		return nil, ParsingErrorExpectedTokenKind(token.startPosition, token.lexeme, token.kind, kind)
	}
	return token, nil
}

// parse reads all statements. Each parse function starts at the first token of its expression and stops at the last
// one.
func (p *Parser) parse() (*query.Query, error) {
	var statements []query.Statement

	for p.currentToken() != nil {
		statement, err := p.parseStatement()
		if err != nil {
			return nil, err
		}

		statements = append(statements, statement)
		p.moveToNextToken()
	}

	return query.NewQuery(statements), nil
}

func (p *Parser) parseStatement() (query.Statement, error) {
	token := p.currentToken()
	if token.kind != TokenKindKeyword {
		return nil, ParsingErrorExpectedButFound("location expression keyword", token.startPosition, token.lexeme, token.kind)
	}

	switch token.lexeme {
	case regionLocationExpression:
		return p.parseRegionStatement()
	case domainLocationExpression:
		return p.parseDomainStatement()
	case cellLocationExpression:
		return p.parseCellStatement()
	}

	return nil, ParsingErrorExpectedButFound(fmt.Sprintf("location expression (one of: %s)", strings.Join(locationExpressions, ", ")), token.startPosition, token.lexeme, token.kind)
}

func (p *Parser) parseRegionStatement() (query.Statement, error) {
	numbers, err := p.parseNumberList()
	if err != nil {
		return nil, err
	}

	lower, upper, err := p.splitCorners(numbers)
	if err != nil {
		return nil, err
	}
	region := box.New(lower, upper)

	selector, err := p.parseSelector(regionSelectors)
	if err != nil {
		return nil, err
	}

	if selector == "full" {
		return query.OverlapsFullyStatement{Region: region}, nil
	}
	return query.OverlapsAnyStatement{Region: region}, nil
}

func (p *Parser) parseDomainStatement() (query.Statement, error) {
	selector, err := p.parseSelector(domainSelectors)
	if err != nil {
		return nil, err
	}

	switch selector {
	case "inner":
		return query.InnerStatement{}, nil
	case "border":
		return query.BorderStatement{}, nil
	}
	return query.AllStatement{}, nil
}

func (p *Parser) parseCellStatement() (query.Statement, error) {
	numbers, err := p.parseNumberList()
	if err != nil {
		return nil, err
	}
	if len(numbers) == 0 {
		token := p.currentToken()
		return nil, ParsingErrorExpectedButFound("at least one coordinate in cell expression", token.startPosition, token.lexeme, token.kind)
	}

	_, err = p.parseSelector(cellSelectors)
	if err != nil {
		return nil, err
	}

	return query.CellStatement{Cell: numbers}, nil
}

// parseSelector expects a '.' followed by one of the given keywords.
func (p *Parser) parseSelector(selectors []string) (string, error) {
	_, err := p.expectNextToken(TokenKindExpressionSeparator)
	if err != nil {
		return "", err
	}

	expected := fmt.Sprintf("selector (one of: %s)", strings.Join(selectors, ", "))
	if !p.hasNextToken() {
		return "", ParsingTokenStreamEndAtPosition(p.getNextTokenStartPosition(), expected)
	}

	token := p.moveToNextToken()
	for _, selector := range selectors {
		if token.kind == TokenKindKeyword && token.lexeme == selector {
			return selector, nil
		}
	}

	return "", ParsingErrorExpectedButFound(expected, token.startPosition, token.lexeme, token.kind)
}

// parseNumberList parses a parenthesised list of integers following the current token. The parser stops at the
// closing parenthesis.
func (p *Parser) parseNumberList() ([]int, error) {
	_, err := p.expectNextToken(TokenKindOpeningParenthesis)
	if err != nil {
		return nil, err
	}

	var numbers []int
	for {
		if !p.hasNextToken() {
			return nil, ParsingTokenStreamEndAtPosition(p.getNextTokenStartPosition(), "number or ')'")
		}

		token := p.moveToNextToken()
		if token.kind == TokenKindClosingParenthesis {
			return numbers, nil
		}

		value, err := strconv.Atoi(token.lexeme)
		if token.kind != TokenKindNumber || err != nil {
			return nil, ParsingErrorExpectedButFound("integer number or ')'", token.startPosition, token.lexeme, token.kind)
		}
		numbers = append(numbers, value)
	}
}

// splitCorners interprets the numbers as lower corner followed by the upper corner. The parser has to be at the
// closing parenthesis of the number list.
func (p *Parser) splitCorners(numbers []int) (box.Point, box.Point, error) {
	if len(numbers) == 0 || len(numbers)%2 != 0 {
		token := p.currentToken()
		return nil, nil, ParsingErrorExpectedButFound(fmt.Sprintf("an even, non-zero number of coordinates instead of %d", len(numbers)), token.startPosition, token.lexeme, token.kind)
	}

	dim := len(numbers) / 2
	return numbers[:dim], numbers[dim:], nil
}

// parseLiteral parses a whole input consisting of the keyword and a list of numbers.
func (p *Parser) parseLiteral(keyword string) ([]int, error) {
	token := p.currentToken()
	if token == nil {
		return nil, ParsingTokenStreamEndAtPosition(0, fmt.Sprintf("'%s' literal", keyword))
	}
	if token.kind != TokenKindKeyword || token.lexeme != keyword {
		return nil, ParsingErrorExpectedButFound(fmt.Sprintf("'%s' literal", keyword), token.startPosition, token.lexeme, token.kind)
	}

	numbers, err := p.parseNumberList()
	if err != nil {
		return nil, err
	}

	if p.hasNextToken() {
		token = p.peekNextToken()
		return nil, ParsingErrorExpectedButFound("end of input", token.startPosition, token.lexeme, token.kind)
	}

	return numbers, nil
}
