package opt

import (
	"zyl/internal/ast"
)

// CollectNames returns every identifier appearing in the tree: declarations
// (variables, functions, parameters, returns) and references (identifier
// expressions and call targets).
func CollectNames(b *ast.Block) map[string]struct{} {
	names := make(map[string]struct{})
	ast.InspectBlock(b,
		func(s *ast.Stmt) bool {
			switch data := s.Data.(type) {
			case ast.VarDeclData:
				for _, n := range data.Names {
					names[n] = struct{}{}
				}
			case ast.AssignData:
				for _, n := range data.Names {
					names[n] = struct{}{}
				}
			case ast.FuncDefData:
				names[data.Name] = struct{}{}
				for _, n := range data.Params {
					names[n] = struct{}{}
				}
				for _, n := range data.Returns {
					names[n] = struct{}{}
				}
			}
			return true
		},
		func(e *ast.Expr) bool {
			switch data := e.Data.(type) {
			case ast.IdentData:
				names[data.Name] = struct{}{}
			case ast.CallData:
				names[data.Func] = struct{}{}
			}
			return true
		})
	return names
}

// CountReferences returns how often each name is read: identifier
// expressions and call targets count, declarations and assignment targets
// do not.
func CountReferences(b *ast.Block) map[string]int {
	counts := make(map[string]int)
	ast.InspectBlock(b, nil, func(e *ast.Expr) bool {
		switch data := e.Data.(type) {
		case ast.IdentData:
			counts[data.Name]++
		case ast.CallData:
			counts[data.Func]++
		}
		return true
	})
	return counts
}

// CollectAssignedNames returns every name that is the target of an
// assignment anywhere within the statement, including nested blocks but not
// nested function bodies (their locals are invisible outside).
func CollectAssignedNames(s *ast.Stmt) map[string]struct{} {
	out := make(map[string]struct{})
	var walkBlock func(b *ast.Block)
	var walkStmt func(st *ast.Stmt)
	walkStmt = func(st *ast.Stmt) {
		if st.Kind == ast.StmtFuncDef {
			return
		}
		if data, ok := st.Data.(ast.AssignData); ok {
			for _, n := range data.Names {
				out[n] = struct{}{}
			}
		}
		for _, sub := range ast.SubBlocks(st) {
			walkBlock(sub)
		}
	}
	walkBlock = func(b *ast.Block) {
		if b == nil {
			return
		}
		for i := range b.Stmts {
			walkStmt(&b.Stmts[i])
		}
	}
	walkStmt(s)
	return out
}

// declaredTwice scans the tree for a declaration collision and returns the
// offending name. Passes use this to verify the disambiguation invariant.
func declaredTwice(b *ast.Block) (string, bool) {
	seen := make(map[string]struct{})
	declare := func(name string) (string, bool) {
		if _, dup := seen[name]; dup {
			return name, true
		}
		seen[name] = struct{}{}
		return "", false
	}

	var collision string
	found := false
	ast.InspectBlock(b, func(s *ast.Stmt) bool {
		if found {
			return false
		}
		var names []string
		switch data := s.Data.(type) {
		case ast.VarDeclData:
			names = data.Names
		case ast.FuncDefData:
			names = append(append([]string{data.Name}, data.Params...), data.Returns...)
		}
		for _, n := range names {
			if name, dup := declare(n); dup {
				collision, found = name, true
				return false
			}
		}
		return true
	}, nil)
	return collision, found
}

// checkDisambiguated returns a PreconditionError if the tree violates the
// unique-names invariant.
func checkDisambiguated(pass string, b *ast.Block) error {
	if name, dup := declaredTwice(b); dup {
		return preconditionf(pass, "tree is not disambiguated: %q declared more than once", name)
	}
	return nil
}
