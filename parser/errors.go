package parser

import "fmt"

// Error is returned for any document that does not parse. Message is shown
// to feature authors as is.
type Error struct {
	Message string
	Line    int
	File    string
	Err     error
}

func (e *Error) Error() string {
	if e.File == "" {
		return e.Message
	}
	return e.Message + " in file: " + e.File
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (p *Parser) errorf(line int, format string, args ...any) *Error {
	return &Error{Message: fmt.Sprintf(format, args...), Line: line, File: p.file}
}

// wrap carries a lexer or node error to the caller with location context.
func (p *Parser) wrap(err error, line int) *Error {
	msg := err.Error()
	if line > 0 {
		msg = fmt.Sprintf("%s on line: %d", msg, line)
	}
	return &Error{Message: msg, Line: line, File: p.file, Err: err}
}
