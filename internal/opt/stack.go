package opt

import (
	"sort"

	"zyl/internal/ast"
)

// Rematerialize reduces peak stack pressure by re-materializing literals.
// For every function region (the top-level block and each function body),
// it measures the maximum number of simultaneously live variables; while
// the peak exceeds Context.StackLimit, it picks a literal-initialized,
// never-reassigned variable live across the peak, replaces its uses with
// the literal, and drops the declaration. Only provably pure literal values
// are rematerialized. If no combination of rematerializations brings the
// peak to the limit, the pass fails with an ExhaustedError and the caller's
// tree stays unchanged.
func Rematerialize(ctx *Context, b *ast.Block) error {
	if err := checkDisambiguated("remat", b); err != nil {
		return err
	}
	regions := collectRegions(b)
	for _, region := range regions {
		if err := rematRegion(ctx, region); err != nil {
			return err
		}
	}
	return nil
}

// region is a unit of stack accounting: the top-level block, or a function
// body together with its parameter and return bindings.
type region struct {
	block  *ast.Block
	bound  []string // params and returns, live from entry
	fnName string   // "" for the top level
}

func collectRegions(b *ast.Block) []region {
	regions := []region{{block: b}}
	ast.InspectBlock(b, func(s *ast.Stmt) bool {
		if data, ok := s.Data.(ast.FuncDefData); ok {
			regions = append(regions, region{
				block:  data.Body,
				bound:  append(append([]string{}, data.Params...), data.Returns...),
				fnName: data.Name,
			})
		}
		return true
	}, nil)
	return regions
}

// liveRange approximates a variable's lifetime as the interval between its
// declaration point and its last textual use within the region.
type liveRange struct {
	name     string
	decl     int
	last     int
	literal  *ast.Expr // non-nil when initialized from a bare literal
	assigned bool
}

type regionScan struct {
	pos    int
	ranges map[string]*liveRange
}

func scanRegion(r region) *regionScan {
	sc := &regionScan{ranges: make(map[string]*liveRange)}
	for _, name := range r.bound {
		sc.ranges[name] = &liveRange{name: name, decl: 0, last: 0, assigned: true}
	}
	sc.block(r.block)
	return sc
}

func (sc *regionScan) use(name string) {
	if lr, ok := sc.ranges[name]; ok {
		lr.last = sc.pos
	}
}

func (sc *regionScan) useExpr(e *ast.Expr) {
	ast.InspectExpr(e, func(sub *ast.Expr) bool {
		if data, ok := sub.Data.(ast.IdentData); ok {
			sc.use(data.Name)
		}
		return true
	})
}

func (sc *regionScan) block(b *ast.Block) {
	if b == nil {
		return
	}
	for i := range b.Stmts {
		sc.pos++
		sc.stmt(&b.Stmts[i])
	}
}

func (sc *regionScan) stmt(s *ast.Stmt) {
	switch data := s.Data.(type) {
	case ast.ExprStmtData:
		sc.useExpr(data.Expr)
	case ast.VarDeclData:
		sc.useExpr(data.Value)
		for _, name := range data.Names {
			lr := &liveRange{name: name, decl: sc.pos, last: sc.pos}
			if len(data.Names) == 1 && data.Value != nil && data.Value.Kind == ast.ExprLiteral {
				lr.literal = data.Value
			}
			sc.ranges[name] = lr
		}
	case ast.AssignData:
		sc.useExpr(data.Value)
		for _, name := range data.Names {
			sc.use(name)
			if lr, ok := sc.ranges[name]; ok {
				lr.assigned = true
			}
		}
	case ast.IfData:
		sc.useExpr(data.Cond)
		sc.block(data.Body)
	case ast.SwitchData:
		sc.useExpr(data.Expr)
		for _, c := range data.Cases {
			sc.block(c.Body)
		}
		sc.block(data.Default)
	case ast.ForData:
		loopStart := sc.pos
		sc.block(data.Pre)
		sc.useExpr(data.Cond)
		sc.block(data.Body)
		sc.block(data.Post)
		// A loop may revisit anything it touched; a variable from outside
		// that is used anywhere inside stays live until the loop ends.
		for _, lr := range sc.ranges {
			if lr.decl < loopStart && lr.last >= loopStart {
				lr.last = sc.pos
			}
		}
	case ast.BlockStmtData:
		sc.block(data.Block)
	case ast.FuncDefData:
		// Separate region.
	}
}

// peak returns the maximum number of simultaneously live variables and the
// position where it first occurs.
func (sc *regionScan) peak() (int, int) {
	best, bestPos := 0, 0
	for p := 0; p <= sc.pos; p++ {
		count := 0
		for _, lr := range sc.ranges {
			if lr.decl <= p && p <= lr.last {
				count++
			}
		}
		if count > best {
			best, bestPos = count, p
		}
	}
	return best, bestPos
}

func rematRegion(ctx *Context, r region) error {
	for {
		sc := scanRegion(r)
		peak, peakPos := sc.peak()
		if peak <= ctx.StackLimit {
			return nil
		}
		candidate := pickCandidate(sc, peakPos)
		if candidate == nil {
			where := "top-level block"
			if r.fnName != "" {
				where = "function " + r.fnName
			}
			return exhaustedf("remat",
				"cannot reduce stack pressure in %s below %d (limit %d): no rematerializable literal crosses the peak",
				where, peak, ctx.StackLimit)
		}
		rematerializeVar(r.block, candidate.name, candidate.literal)
	}
}

// pickCandidate selects the literal-valued, never-reassigned variable live
// across the peak with the widest remaining range, so each rematerialization
// relieves as many pressure points as possible.
func pickCandidate(sc *regionScan, peakPos int) *liveRange {
	var candidates []*liveRange
	for _, lr := range sc.ranges {
		if lr.literal == nil || lr.assigned {
			continue
		}
		if lr.decl <= peakPos && peakPos <= lr.last {
			candidates = append(candidates, lr)
		}
	}
	if len(candidates) == 0 {
		return nil
	}
	sort.Slice(candidates, func(i, j int) bool {
		si, sj := candidates[i].last-candidates[i].decl, candidates[j].last-candidates[j].decl
		if si != sj {
			return si > sj
		}
		return candidates[i].name < candidates[j].name
	})
	return candidates[0]
}

// rematerializeVar replaces every read of name within the region with the
// literal and removes the declaration. Nested function bodies cannot
// reference the variable, so the whole region is rewritten safely.
func rematerializeVar(b *ast.Block, name string, literal *ast.Expr) {
	var rewriteBlock func(blk *ast.Block)
	rewriteBlock = func(blk *ast.Block) {
		if blk == nil {
			return
		}
		kept := blk.Stmts[:0]
		for i := range blk.Stmts {
			s := blk.Stmts[i]
			if data, ok := s.Data.(ast.VarDeclData); ok {
				if len(data.Names) == 1 && data.Names[0] == name {
					continue
				}
			}
			if s.Kind != ast.StmtFuncDef {
				rewriteStmtExprs(&s, name, literal)
				for _, sub := range ast.SubBlocks(&s) {
					rewriteBlock(sub)
				}
			}
			kept = append(kept, s)
		}
		blk.Stmts = kept
	}
	rewriteBlock(b)
}

func rewriteStmtExprs(s *ast.Stmt, name string, literal *ast.Expr) {
	rewrite := func(e *ast.Expr) {
		ast.InspectExpr(e, func(sub *ast.Expr) bool {
			if data, ok := sub.Data.(ast.IdentData); ok && data.Name == name {
				repl := ast.CloneExpr(literal)
				sub.Kind = repl.Kind
				sub.Data = repl.Data
			}
			return true
		})
	}
	switch data := s.Data.(type) {
	case ast.ExprStmtData:
		rewrite(data.Expr)
	case ast.VarDeclData:
		rewrite(data.Value)
	case ast.AssignData:
		rewrite(data.Value)
	case ast.IfData:
		rewrite(data.Cond)
	case ast.SwitchData:
		rewrite(data.Expr)
	case ast.ForData:
		rewrite(data.Cond)
	}
}
