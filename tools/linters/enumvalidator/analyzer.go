// Package enumvalidator reports string literals assigned to struct fields whose
// type is a string enum, so statuses, teams and actions always go through the
// declared constants.
package enumvalidator

import (
	"go/ast"
	"go/token"
	"go/types"

	"golang.org/x/tools/go/analysis"
	"golang.org/x/tools/go/analysis/passes/inspect"
	"golang.org/x/tools/go/ast/inspector"
)

var Analyzer = &analysis.Analyzer{
	Name:     "enumvalidator",
	Doc:      "reports string literals assigned to enum-typed struct fields",
	Requires: []*analysis.Analyzer{inspect.Analyzer},
	Run:      run,
}

func run(pass *analysis.Pass) (any, error) {
	insp := pass.ResultOf[inspect.Analyzer].(*inspector.Inspector)
	enums := map[*types.Named]bool{}

	check := func(ident *ast.Ident, value ast.Expr) {
		if !isStringLit(value) {
			return
		}
		field, ok := pass.TypesInfo.ObjectOf(ident).(*types.Var)
		if !ok || !field.IsField() {
			return
		}
		if isEnum(field.Type(), enums) {
			pass.Reportf(value.Pos(), "enum field %s assigned string literal", ident.Name)
		}
	}

	nodeFilter := []ast.Node{
		(*ast.AssignStmt)(nil),
		(*ast.CompositeLit)(nil),
	}
	insp.Preorder(nodeFilter, func(n ast.Node) {
		switch n := n.(type) {
		case *ast.AssignStmt:
			if len(n.Lhs) != len(n.Rhs) {
				return
			}
			for i, lhs := range n.Lhs {
				if sel, ok := lhs.(*ast.SelectorExpr); ok {
					check(sel.Sel, n.Rhs[i])
				}
			}
		case *ast.CompositeLit:
			for _, elt := range n.Elts {
				kv, ok := elt.(*ast.KeyValueExpr)
				if !ok {
					continue
				}
				if key, ok := kv.Key.(*ast.Ident); ok {
					check(key, kv.Value)
				}
			}
		}
	})

	return nil, nil
}

func isStringLit(e ast.Expr) bool {
	lit, ok := ast.Unparen(e).(*ast.BasicLit)
	return ok && lit.Kind == token.STRING
}

// isEnum reports whether t is a named string type with at least one constant
// of that type declared in its package.
func isEnum(t types.Type, cache map[*types.Named]bool) bool {
	named, ok := types.Unalias(t).(*types.Named)
	if !ok {
		return false
	}
	if v, ok := cache[named]; ok {
		return v
	}

	result := false
	basic, ok := named.Underlying().(*types.Basic)
	if ok && basic.Info()&types.IsString != 0 && named.Obj().Pkg() != nil {
		scope := named.Obj().Pkg().Scope()
		for _, name := range scope.Names() {
			if c, ok := scope.Lookup(name).(*types.Const); ok && types.Identical(c.Type(), named) {
				result = true
				break
			}
		}
	}

	cache[named] = result
	return result
}
