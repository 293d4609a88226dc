package rewrite_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"peep/internal/consts"
	"peep/internal/ir"
	"peep/internal/rewrite"
)

func TestPrintCallEndToEnd(t *testing.T) {
	fn := parseFunction(t, `func main() {
entry:
  $0 = global print
  $1 = const 1
  $2 = const 2
  r = call $0($1, $2)
  return r
}`)
	original := fn.Blocks[0]
	assign := original.Body[3].(*ir.Assign)
	call := assign.Value.(*ir.CallExpr)

	report := runFunction(t, registryWith(t, rewrite.PrintCallRewriteName), fn)
	assert.Equal(t, 1, report.Applied[rewrite.PrintCallRewriteName])

	block := fn.Blocks[0]
	require.Len(t, block.Body, 6)

	node, ok := block.Body[3].(*ir.Print)
	require.True(t, ok, "expected a print node, got %s", block.Body[3])
	require.Len(t, node.Args, 2)
	assert.Equal(t, "$1", node.Args[0].Name)
	assert.Equal(t, "$2", node.Args[1].Name)
	assert.Nil(t, node.Vararg)
	assert.Empty(t, node.Consts)
	assert.Equal(t, call.Loc, node.Loc)

	result, ok := block.Body[4].(*ir.Assign)
	require.True(t, ok)
	assert.Equal(t, "r", result.Target.Name)
	value, ok := result.Value.(*ir.Const)
	require.True(t, ok)
	assert.True(t, value.Value.IsNone())
	assert.Equal(t, assign.Loc, result.Loc)

	// the matched block itself was not modified
	assert.Len(t, original.Body, 5)
	assert.Same(t, assign, original.Body[3])
}

func TestPrintCallKeepsVararg(t *testing.T) {
	fn := parseFunction(t, `func main(rest) {
entry:
  p = global print
  a = arg(0)
  r = call p(a, *rest)
  return r
}`)

	runFunction(t, registryWith(t, rewrite.PrintCallRewriteName), fn)

	nodes := ir.FindInsts[*ir.Print](fn.Blocks[0])
	require.Len(t, nodes, 1)
	require.NotNil(t, nodes[0].Vararg)
	assert.Equal(t, "rest", nodes[0].Vararg.Name)
}

func TestPrintCallSkipsKeywordArguments(t *testing.T) {
	fn := parseFunction(t, `func main() {
entry:
  p = global print
  x = const 1
  y = const "y"
  r = call p(x, fmt=y)
  return r
}`)
	before := bodyStrings(fn.Blocks[0])

	report := runFunction(t, rewrite.DefaultRegistry(), fn)

	assert.Zero(t, report.Total())
	assert.Empty(t, ir.FindInsts[*ir.Print](fn.Blocks[0]))
	assert.Equal(t, before, bodyStrings(fn.Blocks[0]))
}

func TestPrintCallSkipsOtherCallees(t *testing.T) {
	fn := parseFunction(t, `func main(f) {
entry:
  l = global len
  g = arg(0)
  s = const "abc"
  n = call l(s)
  m = call g(s)
  return n
}`)

	report := runFunction(t, rewrite.DefaultRegistry(), fn)

	assert.Zero(t, report.Total())
	assert.Empty(t, ir.FindInsts[*ir.Print](fn.Blocks[0]))
}

func TestPartialConstantResolution(t *testing.T) {
	fn := parseFunction(t, `func main(y) {
entry:
  p = global print
  one = const 1
  y0 = arg(0)
  r = call p(one, y0)
  return r
}`)

	runFunction(t, rewrite.DefaultRegistry(), fn)

	nodes := ir.FindInsts[*ir.Print](fn.Blocks[0])
	require.Len(t, nodes, 1)
	assert.Equal(t, map[int]ir.Constant{0: ir.Int(1)}, nodes[0].Consts)
	assert.Equal(t, "print(one, y0) ; consts {0: 1}", nodes[0].String())
}

func TestConstPrintArgumentIdempotent(t *testing.T) {
	fn := parseFunction(t, `func main() {
entry:
  a = const "a"
  b = const 2.5
  print(a, b)
  jump entry
}`)
	block := fn.Blocks[0]
	ctx := rewrite.NewContext(consts.New(fn))

	rule := rewrite.NewConstPrintArgumentRewrite()
	plan, ok := rule.Match(ctx, block)
	require.True(t, ok)
	once := plan.Apply()

	second := rewrite.NewConstPrintArgumentRewrite()
	_, ok = second.Match(ctx, once)
	assert.False(t, ok, "annotated print nodes are final")

	nodes := ir.FindInsts[*ir.Print](once)
	require.Len(t, nodes, 1)
	assert.Equal(t, `{0: "a", 1: 2.5}`, ir.ConstsString(nodes[0].Consts))

	// the original node was not annotated in place
	assert.Empty(t, ir.FindInsts[*ir.Print](block)[0].Consts)
}

func TestConstPrintArgumentNoConstants(t *testing.T) {
	fn := parseFunction(t, `func main(x) {
entry:
  a = arg(0)
  print(a)
  return a
}`)

	rule := rewrite.NewConstPrintArgumentRewrite()
	_, ok := rule.Match(rewrite.NewContext(consts.New(fn)), fn.Blocks[0])
	assert.False(t, ok)
}
