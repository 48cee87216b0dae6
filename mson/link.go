package mson

import "github.com/ardnew/mson/model"

// LinkPrefix marks a string component as a reference to another component
// by name.
const LinkPrefix = "#"

// link exports the component called target, once per build.
type link struct {
	target string
}

func newLink(target string) *link { return &link{target: target} }

func (l *link) Export(c Context) (model.Node, error) {
	return c.Memo(l.target, func() (model.Node, error) {
		return c.FindByName(c, l.target)
	})
}

func (l *link) String() string { return LinkPrefix + l.target }
