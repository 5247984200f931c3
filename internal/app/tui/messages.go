package tui

import "github.com/vburojevic/registrar/internal/query"

// ScreenMsg is delivered only to the screen with the matching name.
type ScreenMsg interface {
	ScreenName() string
}

// pageLoadedMsg carries a list response. seq ties it to the request so
// late responses for superseded queries are dropped.
type pageLoadedMsg[T any] struct {
	screen string
	seq    int
	page   query.Page[T]
	err    error
}

func (m pageLoadedMsg[T]) ScreenName() string { return m.screen }

type detailLoadedMsg[T any] struct {
	screen string
	seq    int
	key    string
	item   T
	err    error
}

func (m detailLoadedMsg[T]) ScreenName() string { return m.screen }

type mutation int

const (
	opCreate mutation = iota
	opUpdate
	opDelete
)

type mutationDoneMsg[T any] struct {
	screen string
	op     mutation
	item   T
	count  int
	failed int
	err    error
}

func (m mutationDoneMsg[T]) ScreenName() string { return m.screen }
