package mson

import (
	"log/slog"

	"github.com/ardnew/mson/elem"
	"github.com/ardnew/mson/local"
	"github.com/ardnew/mson/model"
)

// imported is the single root of another file, exported in place.
type imported struct {
	name   Name
	data   *Future
	locals *local.Block
}

func newImportComponent(fc FileContext, name Name, obj *elem.Object) (Component, error) {
	return newImport(fc, name, elem.ObjectOf(obj))
}

// newImport parses an import given as a file id or as an object with data
// and locals members.
func newImport(fc FileContext, name Name, v elem.Value) (*imported, error) {
	imp := &imported{name: name}

	raw := v

	if obj, ok := v.AsObject(); ok {
		imp.name = resolveName(name, obj)

		data, err := requireMember(obj, "data", ImportID.String()+" in "+fc.Locals().ModelID().String())
		if err != nil {
			return nil, err
		}

		block, err := local.ParseBlock(member(obj, "locals"))
		if err != nil {
			return nil, err
		}

		raw, imp.locals = data, &block
	}

	future, err := fc.Resolve(raw)
	if err != nil {
		return nil, err
	}

	imp.data = future

	fc.AddNamed(imp.name, imp)

	return imp, nil
}

func (imp *imported) Export(c Context) (model.Node, error) {
	return c.Memo(imp.name.String(), func() (model.Node, error) {
		file, err := imp.data.File()
		if err != nil {
			return nil, err
		}

		var scope FileLocals = file.Locals()
		if imp.locals != nil {
			scope = &overlayLocals{parent: scope, locals: *imp.locals}
		}

		fileContext := file.CreateContext(c.Model(), NewModelLocals(scope.ModelID(), scope))

		tree := model.NewChildren()
		if err := fileContext.Tree(tree, fileContext); err != nil {
			return nil, err
		}

		if tree.Len() != 1 {
			return nil, ErrImportArity.
				With(slog.String("model", file.ID().String()), slog.Int("roots", tree.Len())).
				Errorf("imported file must define exactly one part, %s defines %d", file.ID(), tree.Len())
		}

		root, _ := tree.Get(tree.Keys()[0])

		if p, ok := root.(*model.Part); ok && !imp.name.IsZero() {
			return p.Renamed(imp.name.Key)
		}

		return root, nil
	})
}
