package rewrite_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"peep/internal/consts"
	"peep/internal/ir"
	"peep/internal/irtext"
	"peep/internal/rewrite"
)

func parseFunction(t *testing.T, source string) *ir.Function {
	t.Helper()
	functions, errs := irtext.ParseSource("test.pir", source)
	require.Empty(t, errs)
	require.Len(t, functions, 1)
	return functions[0]
}

// registryWith builds a frozen registry holding the named built-in rules
func registryWith(t *testing.T, names ...string) *rewrite.Registry {
	t.Helper()
	factories := map[string]rewrite.Factory{
		rewrite.ConstGetitemRewriteName:       rewrite.NewConstGetitemRewrite,
		rewrite.PrintCallRewriteName:          rewrite.NewPrintCallRewrite,
		rewrite.ConstPrintArgumentRewriteName: rewrite.NewConstPrintArgumentRewrite,
	}

	reg := rewrite.NewRegistry()
	for _, name := range names {
		factory, ok := factories[name]
		require.True(t, ok, "unknown rule %s", name)
		require.NoError(t, reg.Register(rewrite.StageBeforeInference, name, factory))
	}
	reg.Freeze()
	return reg
}

func runFunction(t *testing.T, reg *rewrite.Registry, fn *ir.Function) *rewrite.Report {
	t.Helper()
	driver := rewrite.NewDriver(reg, rewrite.DefaultConfig())
	report, err := driver.RunFunction(rewrite.StageBeforeInference, rewrite.NewContext(consts.New(fn)), fn)
	require.NoError(t, err)
	return report
}

func bodyStrings(block *ir.Block) []string {
	out := make([]string, len(block.Body))
	for i, inst := range block.Body {
		out[i] = inst.String()
	}
	return out
}
