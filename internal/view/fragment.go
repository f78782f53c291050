// Package view turns backend collections into UI descriptions. Builders are pure:
// the same records always produce the same Fragment, and painting happens elsewhere.
package view

// Panel is anything that replaces the content of one container on the page.
type Panel interface {
	Target() string
}

// Fragment describes the full content of a list container. When Items is empty the
// container shows only Placeholder.
type Fragment struct {
	ID          string
	Placeholder string
	Items       []Item
}

func (f Fragment) Target() string { return f.ID }

func (f Fragment) Empty() bool { return len(f.Items) == 0 }

type Kind string

const (
	KindCard     Kind = "card"
	KindListItem Kind = "list-item"
)

// Item is one rendered record.
type Item struct {
	Kind    Kind
	Variant string
	Title   string
	Meta    []string
	Badge   *Badge
	Actions []Action
}

type Badge struct {
	Class string
	Label string
}

// Action is a trigger on an item. Method is the HTTP method the browser uses
// against Path.
type Action struct {
	Label  string
	Class  string
	Method string
	Path   string
}
