package export

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/mastercactapus/autonpath/route"
)

// ErrSyntax is wrapped by every parse error.
var ErrSyntax = errors.New("invalid export data")

// Parser decodes actions from export text, one block per Read.
type Parser struct {
	br   *bufio.Reader
	line int
	done bool
}

func NewParser(r io.Reader) *Parser {
	if br, ok := r.(*bufio.Reader); ok {
		return &Parser{br: br}
	}

	return &Parser{br: bufio.NewReader(r)}
}

func (p *Parser) errorf(format string, args ...interface{}) error {
	return fmt.Errorf("line %d: %w: %s", p.line, ErrSyntax, fmt.Sprintf(format, args...))
}

// next returns the next non-blank line.
func (p *Parser) next() (string, error) {
	for {
		s, err := p.br.ReadString('\n')
		if err == io.EOF && s != "" {
			err = nil
		}
		if err != nil {
			return "", err
		}
		p.line++

		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		return s, nil
	}
}

// params reads a line of exactly n numbers.
func (p *Parser) params(n int) ([]float64, error) {
	s, err := p.next()
	if err == io.EOF {
		return nil, p.errorf("unexpected end of data")
	}
	if err != nil {
		return nil, err
	}
	fields := strings.Fields(s)
	if len(fields) != n {
		return nil, p.errorf("expected %d values, got %q", n, s)
	}
	res := make([]float64, n)
	for i, f := range fields {
		res[i], err = strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, p.errorf("bad number %q", f)
		}
	}
	return res, nil
}

func (p *Parser) readFollow() (Action, error) {
	v, err := p.params(3)
	if err != nil {
		return Action{}, err
	}
	a := Action{Type: route.Follow, EndTol: v[0], Timeout: int(v[1]), Lookahead: v[2]}
	for {
		s, err := p.next()
		if err == io.EOF {
			return Action{}, p.errorf("follow route missing %q", TagFollowEnd)
		}
		if err != nil {
			return Action{}, err
		}
		fields := strings.Fields(s)
		switch {
		case fields[0] == TagFollowEnd && len(fields) == 1:
			return a, nil
		case fields[0] == TagPoint && len(fields) == 3:
			var pt Point
			pt.X, err = strconv.ParseFloat(fields[1], 64)
			if err == nil {
				pt.Y, err = strconv.ParseFloat(fields[2], 64)
			}
			if err != nil {
				return Action{}, p.errorf("bad point %q", s)
			}
			a.Points = append(a.Points, pt)
		default:
			return Action{}, p.errorf("unexpected line in follow route: %q", s)
		}
	}
}

// Read returns the next action, or io.EOF once the end marker or the
// end of input is reached.
func (p *Parser) Read() (Action, error) {
	if p.done {
		return Action{}, io.EOF
	}
	tag, err := p.next()
	if err != nil {
		return Action{}, err
	}

	switch tag {
	case TagEOF:
		p.done = true
		return Action{}, io.EOF
	case TagFollowStart:
		return p.readFollow()
	case TagLateral, TagTurn:
		v, err := p.params(3)
		if err != nil {
			return Action{}, err
		}
		a := Action{Type: route.Lateral, Specific: v[0], EndTol: v[1], Timeout: int(v[2])}
		if tag == TagTurn {
			a.Type = route.Turn
		}
		return a, nil
	case TagCommand:
		name, err := p.next()
		if err == io.EOF {
			return Action{}, p.errorf("command missing name")
		}
		if err != nil {
			return Action{}, err
		}
		return Action{Type: route.Command, Name: name}, nil
	}

	return Action{}, p.errorf("invalid or unhandled line: %q", tag)
}

// Parse decodes every action in data.
func Parse(data string) ([]Action, error) {
	r := NewParser(strings.NewReader(data))
	var a []Action
	for {
		act, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		a = append(a, act)
	}
	return a, nil
}

func MustParse(data string) []Action {
	a, err := Parse(data)
	if err != nil {
		panic(err)
	}
	return a
}
