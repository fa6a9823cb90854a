package parser

import (
	"fmt"
	"slices"
	"unicode"

	"github.com/hauke96/sigolo/v2"
	"github.com/pkg/errors"
)

type Lexer struct {
	input []rune
	index int // Position in input.
}

var (
	keywordChars = []rune{
		'a', 'b', 'c', 'd', 'e', 'f', 'g', 'h', 'i', 'j', 'k', 'l', 'm', 'n', 'o', 'p', 'q', 'r', 's', 't', 'u', 'v', 'w', 'x', 'y', 'z',
		'A', 'B', 'C', 'D', 'E', 'F', 'G', 'H', 'I', 'J', 'K', 'L', 'M', 'N', 'O', 'P', 'Q', 'R', 'S', 'T', 'U', 'V', 'W', 'X', 'Y', 'Z',
		'_'}
	numberChars = []rune{'1', '2', '3', '4', '5', '6', '7', '8', '9', '0'}
)

// char returns the rune at the current location or the rune '-1' if there is no next char.
func (l *Lexer) char() rune {
	if l.index >= len(l.input) {
		return -1
	}
	return l.input[l.index]
}

// nextChar returns the next rune, so the one after the rune char() returns, or the rune '-1' if there is no next char.
func (l *Lexer) nextChar() rune {
	if l.index+1 >= len(l.input) {
		return -1
	}
	return l.input[l.index+1]
}

func (l *Lexer) read() ([]*Token, error) {
	var tokens []*Token
	for l.index < len(l.input) {
		token, err := l.nextToken()
		if err != nil {
			return nil, err
		}
		if token != nil {
			l.tracef("Found token kind=%s, pos=%d, lexeme=\"%s\"", token.kind, token.startPosition, token.lexeme)
			tokens = append(tokens, token)
		}
	}
	return tokens, nil
}

// nextToken returns the token at or after the current index. The token is nil when a comment or the end of the
// input was reached instead.
func (l *Lexer) nextToken() (*Token, error) {
	for ; l.index < len(l.input); l.index++ {
		char := l.char()
		l.tracef("Process next char")

		// Commas only separate numbers and are treated like whitespace
		if unicode.IsSpace(char) || char == ',' {
			continue
		}

		// Ignore comments until next linebreak
		if char == '/' {
			err := l.skipComment()
			if err != nil {
				return nil, err
			}
			return nil, nil
		}

		switch char {
		case '(':
			return l.currentSingleCharToken(TokenKindOpeningParenthesis), nil
		case ')':
			return l.currentSingleCharToken(TokenKindClosingParenthesis), nil
		case '.':
			return l.currentSingleCharToken(TokenKindExpressionSeparator), nil
		}

		if slices.Contains(keywordChars, char) {
			return l.currentKeyword(), nil
		}

		if slices.Contains(numberChars, char) || char == '-' && slices.Contains(numberChars, l.nextChar()) {
			return l.currentNumber(), nil
		}

		return nil, errors.Errorf("Unexpected character '%c' at index %d", char, l.index)
	}

	return nil, nil
}

func (l *Lexer) skipComment() error {
	l.tracef("Potential comment start")
	l.index++
	if l.index >= len(l.input) || l.char() != '/' {
		// Text ended or next rune is not '/'
		l.index--
		return errors.Errorf("Unexpected '%c' at index %d", l.char(), l.index)
	}
	l.tracef("Found comment start")

	for ; l.index < len(l.input); l.index++ {
		if l.char() == '\n' || l.char() == '\r' {
			return nil
		}
	}

	l.tracef("Done parsing comment")
	return nil
}

func (l *Lexer) currentSingleCharToken(tokenKind TokenKind) *Token {
	token := &Token{
		kind:          tokenKind,
		lexeme:        string(l.char()),
		startPosition: l.index,
	}
	l.index++
	return token
}

// currentKeyword returns the keyword starting at the current index.
func (l *Lexer) currentKeyword() *Token {
	lexeme := ""
	startIndex := l.index

	for ; l.index < len(l.input) && slices.Contains(keywordChars, l.char()); l.index++ {
		lexeme += string(l.char())
	}

	return &Token{
		kind:          TokenKindKeyword,
		lexeme:        lexeme,
		startPosition: startIndex,
	}
}

// currentNumber returns the integer starting at the current index, including an optional leading '-'.
func (l *Lexer) currentNumber() *Token {
	lexeme := string(l.char())
	startIndex := l.index
	l.index++

	for ; l.index < len(l.input) && slices.Contains(numberChars, l.char()); l.index++ {
		lexeme += string(l.char())
	}

	return &Token{
		kind:          TokenKindNumber,
		lexeme:        lexeme,
		startPosition: startIndex,
	}
}

func (l *Lexer) tracef(format string, args ...any) {
	formattedMessage := format
	if len(args) > 0 {
		formattedMessage = fmt.Sprintf(format, args...)
	}
	sigolo.Traceb(1, "[%d, %q] %s", l.index, l.char(), formattedMessage)
}
