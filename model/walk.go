package model

import (
	"iter"
	"strings"
)

// PathSeparator joins the names of nested children in a node path.
const PathSeparator = "."

// Visitor is called for each node encountered by [Walk]. If a Visit method
// returns a nil Visitor, the children of that node are not walked.
type Visitor interface {
	VisitPart(p *Part) (Visitor, error)
	VisitModel(m *Model) (Visitor, error)
	VisitGeometry(g *Geometry) error
}

// Walk traverses the tree rooted at n depth-first. The children of a part
// are visited before its cubes, and a model is followed into its tree.
func Walk(v Visitor, n Node) error {
	switch n := n.(type) {
	case *Part:
		w, err := v.VisitPart(n)
		if err != nil || w == nil {
			return err
		}

		for _, c := range n.Children.All() {
			if err := Walk(w, c); err != nil {
				return err
			}
		}

		for _, g := range n.Cubes {
			if err := w.VisitGeometry(g); err != nil {
				return err
			}
		}

	case *Model:
		w, err := v.VisitModel(n)
		if err != nil || w == nil || n.Tree == nil {
			return err
		}

		return Walk(w, n.Tree)

	case *Geometry:
		return v.VisitGeometry(n)
	}

	return nil
}

// All yields every part and model below root with its path. The root
// itself is not yielded. The children of a model's tree are addressed
// directly under the model's path.
func All(root Node) iter.Seq2[string, Node] {
	return func(yield func(string, Node) bool) {
		walkPaths(root, "", yield)
	}
}

func walkPaths(n Node, prefix string, yield func(string, Node) bool) bool {
	var children *Children

	switch n := n.(type) {
	case *Part:
		children = n.Children
	case *Model:
		if n.Tree != nil {
			children = n.Tree.Children
		}
	}

	for name, c := range children.All() {
		path := name
		if prefix != "" {
			path = prefix + PathSeparator + name
		}

		if !yield(path, c) || !walkPaths(c, path, yield) {
			return false
		}
	}

	return true
}

// Find returns the node at path below root.
func Find(root Node, path string) (Node, bool) {
	n := root
	if path == "" {
		return n, true
	}

	for name := range strings.SplitSeq(path, PathSeparator) {
		var children *Children

		switch p := n.(type) {
		case *Part:
			children = p.Children
		case *Model:
			if p.Tree != nil {
				children = p.Tree.Children
			}
		}

		c, ok := children.Get(name)
		if !ok {
			return nil, false
		}

		n = c
	}

	return n, true
}
