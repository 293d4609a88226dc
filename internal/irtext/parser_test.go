package irtext

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"peep/internal/ir"
)

const sample = `; lowered from example.py
func main(x, rest) {
entry:
  $0 = global print
  $1 = const 1
  $2 = const -2.5
  $3 = const "a \"b\""
  $4 = const None
  $5 = const True
  a = arg(0)
  r = call $0($1, a, *rest)
  k = call $0($1, sep=$3)
  g = getitem a[$1]
  s = static_getitem $3[0]
  b = binop $1 // $1
  print($1, a)
  branch $5, entry, exit
exit:
  return r
}
`

func parseOK(t *testing.T, source string) []*ir.Function {
	t.Helper()
	functions, errs := ParseSource("test.pir", source)
	require.Empty(t, errs)
	return functions
}

func parseErrors(t *testing.T, source string) []Error {
	t.Helper()
	_, errs := ParseSource("test.pir", source)
	require.NotEmpty(t, errs)
	return errs
}

func TestParseSample(t *testing.T) {
	functions := parseOK(t, sample)
	require.Len(t, functions, 1)

	fn := functions[0]
	assert.Equal(t, "main", fn.Name)
	assert.Equal(t, []string{"x", "rest"}, fn.Params)
	require.Len(t, fn.Blocks, 2)

	entry := fn.Blocks[0]
	assert.Equal(t, "entry", entry.Label)
	assert.Equal(t, []string{"entry", "exit"}, entry.Successors)
	assert.Equal(t, 3, entry.Loc.Line)
	require.Len(t, entry.Body, 14)

	assigns := ir.FindInsts[*ir.Assign](entry)
	values := make(map[string]ir.Value)
	for _, a := range assigns {
		values[a.Target.Name] = a.Value
	}

	assert.Equal(t, "print", values["$0"].(*ir.Global).Name)
	assert.Equal(t, ir.Int(1), values["$1"].(*ir.Const).Value)
	assert.Equal(t, "-2.5", values["$2"].(*ir.Const).Value.String())
	assert.Equal(t, ir.String(`a "b"`), values["$3"].(*ir.Const).Value)
	assert.True(t, values["$4"].(*ir.Const).Value.IsNone())
	assert.Equal(t, ir.Bool(true), values["$5"].(*ir.Const).Value)

	arg := values["a"].(*ir.Arg)
	assert.Equal(t, 0, arg.Index)
	assert.Equal(t, "x", arg.Name)

	call := values["r"].(*ir.CallExpr)
	assert.Equal(t, "$0", call.Func.Name)
	require.Len(t, call.Args, 2)
	assert.Equal(t, "a", call.Args[1].Name)
	require.NotNil(t, call.Vararg)
	assert.Equal(t, "rest", call.Vararg.Name)
	assert.False(t, call.HasKeywords())
	assert.Equal(t, ir.Loc{Filename: "test.pir", Line: 11, Column: 7}, call.Loc)

	kw := values["k"].(*ir.CallExpr)
	require.Len(t, kw.Kws, 1)
	assert.Equal(t, "sep", kw.Kws[0].Name)
	assert.Equal(t, "$3", kw.Kws[0].Value.Name)

	assert.IsType(t, &ir.GetItemExpr{}, values["g"])
	static := values["s"].(*ir.StaticGetItemExpr)
	assert.Equal(t, ir.Int(0), static.Index)
	assert.Nil(t, static.IndexVar)

	assert.Equal(t, "//", values["b"].(*ir.BinOpExpr).Op)

	prints := ir.FindInsts[*ir.Print](entry)
	require.Len(t, prints, 1)
	assert.Len(t, prints[0].Args, 2)
	assert.NotNil(t, prints[0].Consts)

	branch, ok := entry.Terminator().(*ir.Branch)
	require.True(t, ok)
	assert.Equal(t, "$5", branch.Cond.Name)

	ret, ok := fn.Blocks[1].Terminator().(*ir.Return)
	require.True(t, ok)
	assert.Equal(t, "r", ret.Value.Name)
}

func TestParseRoundTrip(t *testing.T) {
	functions := parseOK(t, sample)
	printed := ir.PrintFunction(functions[0])

	again := parseOK(t, printed)
	require.Len(t, again, 1)
	assert.Equal(t, printed, ir.PrintFunction(again[0]))
}

func TestParseMultipleFunctions(t *testing.T) {
	functions := parseOK(t, `
func a() {
entry:
  jump entry
}
func b(y) {
start:
  v = arg(0)
  return v
}`)
	require.Len(t, functions, 2)
	assert.Equal(t, "a", functions[0].Name)
	assert.Equal(t, "start", functions[1].Entry().Label)
}

func TestParseFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "main.pir")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o644))

	functions, errs, err := ParseFile(path)
	require.NoError(t, err)
	assert.Empty(t, errs)
	require.Len(t, functions, 1)
	assert.Equal(t, path, functions[0].Loc.Filename)

	_, _, err = ParseFile(filepath.Join(t.TempDir(), "missing.pir"))
	assert.Error(t, err)
}

func TestSyntaxError(t *testing.T) {
	errs := parseErrors(t, "func main() {\nentry:\n  x = = 1\n}\n")
	require.Len(t, errs, 1)
	assert.Equal(t, SyntaxError, errs[0].Kind)
	assert.Equal(t, 3, errs[0].Loc.Line)
	assert.Equal(t, "test.pir", errs[0].Loc.Filename)
}

func TestStructuralErrors(t *testing.T) {
	tests := []struct {
		name   string
		source string
		kind   ErrorKind
		line   int
	}{
		{
			name:   "duplicate label",
			source: "func main() {\nentry:\n  jump entry\nentry:\n  jump entry\n}",
			kind:   DuplicateLabel,
			line:   4,
		},
		{
			name:   "unknown target",
			source: "func main() {\nentry:\n  a = const 1\n  branch a, entry, nowhere\n}",
			kind:   UnknownTarget,
			line:   4,
		},
		{
			name:   "duplicate keyword",
			source: "func main() {\nentry:\n  f = global print\n  r = call f(sep=f, sep=f)\n  return r\n}",
			kind:   DuplicateKeyword,
			line:   4,
		},
		{
			name:   "misplaced terminator",
			source: "func main() {\nentry:\n  a = const 1\n  return a\n  b = const 2\n}",
			kind:   MisplacedTerminator,
			line:   4,
		},
		{
			name:   "integer overflow",
			source: "func main() {\nentry:\n  a = const 99999999999999999999\n  return a\n}",
			kind:   InvalidLiteral,
			line:   3,
		},
		{
			name:   "argument out of range",
			source: "func main(x) {\nentry:\n  a = arg(1)\n  return a\n}",
			kind:   InvalidArgument,
			line:   3,
		},
		{
			name:   "positional after keyword",
			source: "func main() {\nentry:\n  f = global print\n  r = call f(sep=f, f)\n  return r\n}",
			kind:   InvalidArgument,
			line:   4,
		},
		{
			name:   "two varargs",
			source: "func main() {\nentry:\n  f = global print\n  r = call f(*f, *f)\n  return r\n}",
			kind:   InvalidArgument,
			line:   4,
		},
		{
			name:   "keyword on print node",
			source: "func main() {\nentry:\n  f = global print\n  print(f, sep=f)\n  return f\n}",
			kind:   InvalidArgument,
			line:   4,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := parseErrors(t, tt.source)
			require.Len(t, errs, 1, "errors: %v", errs)
			assert.Equal(t, tt.kind, errs[0].Kind)
			assert.Equal(t, tt.line, errs[0].Loc.Line)
			assert.Contains(t, errs[0].Error(), "test.pir:")
		})
	}
}

func TestParseLiteral(t *testing.T) {
	tests := []struct {
		text     string
		expected string
	}{
		{"1", "1"},
		{"-7", "-7"},
		{" 2.5 ", "2.5"},
		{`"a b"`, `"a b"`},
		{"None", "None"},
		{"True", "True"},
		{"False", "False"},
	}

	for _, tt := range tests {
		value, err := ParseLiteral(tt.text)
		require.NoError(t, err, tt.text)
		assert.Equal(t, tt.expected, value.String())
	}

	for _, text := range []string{"", "x", "1 2", "99999999999999999999"} {
		_, err := ParseLiteral(text)
		assert.Error(t, err, text)
	}
}

func TestParseBinding(t *testing.T) {
	name, value, err := ParseBinding("DEBUG=True")
	require.NoError(t, err)
	assert.Equal(t, "DEBUG", name)
	assert.Equal(t, ir.Bool(true), value)

	name, value, err = ParseBinding(`greeting="a=b"`)
	require.NoError(t, err)
	assert.Equal(t, "greeting", name)
	assert.Equal(t, ir.String("a=b"), value)

	_, _, err = ParseBinding("DEBUG")
	assert.Error(t, err)
	_, _, err = ParseBinding("1x=1")
	assert.Error(t, err)
	_, _, err = ParseBinding("x=y")
	assert.Error(t, err)
}
