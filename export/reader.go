package export

import "io"

// Reader is a source of actions; Parser is one.
type Reader interface {
	Read() (Action, error)
}

var _ Reader = &Parser{}

type ActionsReader struct {
	Actions []Action
	n       int
}

func (a *ActionsReader) Read() (Action, error) {
	if a.n == len(a.Actions) {
		return Action{}, io.EOF
	}

	a.n++
	return a.Actions[a.n-1], nil
}
