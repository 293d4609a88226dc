package lsp_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"peep/internal/lsp"
	"peep/internal/rewrite"
)

const uri = "file:///work/example.pir"

type notification struct {
	method string
	params *protocol.PublishDiagnosticsParams
}

func newContext(sent *[]notification) *glsp.Context {
	return &glsp.Context{
		Notify: func(method string, params any) {
			p, _ := params.(*protocol.PublishDiagnosticsParams)
			*sent = append(*sent, notification{method: method, params: p})
		},
	}
}

func newHandler() *lsp.PeepHandler {
	return lsp.NewPeepHandler(rewrite.DefaultRegistry(), rewrite.StageBeforeInference, rewrite.DefaultConfig())
}

func open(t *testing.T, h *lsp.PeepHandler, ctx *glsp.Context, text string) {
	t.Helper()
	err := h.TextDocumentDidOpen(ctx, &protocol.DidOpenTextDocumentParams{
		TextDocument: protocol.TextDocumentItem{URI: uri, LanguageID: "pir", Version: 1, Text: text},
	})
	require.NoError(t, err)
}

func codes(diags []protocol.Diagnostic) []string {
	var out []string
	for _, d := range diags {
		if d.Code != nil {
			out = append(out, d.Code.Value.(string))
		}
	}
	return out
}

func TestDidOpenPublishesRewriteHints(t *testing.T) {
	var sent []notification
	ctx := newContext(&sent)
	h := newHandler()

	open(t, h, ctx, `func main(y) {
entry:
  $0 = global print
  $1 = const 1
  $2 = arg(0)
  r = call $0($1, $2)
  return r
}
`)

	require.Len(t, sent, 1)
	assert.Equal(t, protocol.ServerTextDocumentPublishDiagnostics, sent[0].method)
	require.NotNil(t, sent[0].params)
	assert.Equal(t, uri, sent[0].params.URI)

	diags := sent[0].params.Diagnostics
	assert.Equal(t, []string{"H0001", "H0002"}, codes(diags))

	hint := diags[0]
	require.NotNil(t, hint.Severity)
	assert.Equal(t, protocol.DiagnosticSeverityHint, *hint.Severity)
	assert.Equal(t, uint32(5), hint.Range.Start.Line)

	info := diags[1]
	assert.Contains(t, info.Message, "{0: 1}")

	analysis, ok := h.Analysis(uri)
	require.True(t, ok)
	require.Len(t, analysis.Functions, 1)
}

func TestDidOpenReportsSyntaxErrors(t *testing.T) {
	var sent []notification
	ctx := newContext(&sent)
	h := newHandler()

	open(t, h, ctx, `func main() {
entry:
  r = = 1
}
`)

	require.Len(t, sent, 1)
	diags := sent[0].params.Diagnostics
	require.Len(t, diags, 1)
	assert.Equal(t, "E0100", diags[0].Code.Value)
	assert.Equal(t, protocol.DiagnosticSeverityError, *diags[0].Severity)
	assert.Equal(t, uint32(2), diags[0].Range.Start.Line)
}

func TestDidChangeReplacesAnalysis(t *testing.T) {
	var sent []notification
	ctx := newContext(&sent)
	h := newHandler()

	open(t, h, ctx, `func main() {
entry:
  jump missing
}
`)
	require.Len(t, sent, 1)
	assert.Equal(t, []string{"E0102"}, codes(sent[0].params.Diagnostics))

	err := h.TextDocumentDidChange(ctx, &protocol.DidChangeTextDocumentParams{
		TextDocument: protocol.VersionedTextDocumentIdentifier{
			TextDocumentIdentifier: protocol.TextDocumentIdentifier{URI: uri},
			Version:                2,
		},
		ContentChanges: []any{
			protocol.TextDocumentContentChangeEventWhole{Text: "func main() {\nentry:\n  jump entry\n}\n"},
		},
	})
	require.NoError(t, err)

	require.Len(t, sent, 2)
	assert.Empty(t, sent[1].params.Diagnostics)
}

func TestDidCloseForgetsDocument(t *testing.T) {
	var sent []notification
	ctx := newContext(&sent)
	h := newHandler()

	open(t, h, ctx, "func main() {\nentry:\n  jump entry\n}\n")

	_, ok := h.Analysis(uri)
	require.True(t, ok)

	err := h.TextDocumentDidClose(ctx, &protocol.DidCloseTextDocumentParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: uri},
	})
	require.NoError(t, err)

	_, ok = h.Analysis(uri)
	assert.False(t, ok)
}

func TestCompletionIncludesLabels(t *testing.T) {
	var sent []notification
	ctx := newContext(&sent)
	h := newHandler()

	open(t, h, ctx, "func main() {\nentry:\n  jump exit\nexit:\n  jump entry\n}\n")

	result, err := h.TextDocumentCompletion(ctx, &protocol.CompletionParams{
		TextDocumentPositionParams: protocol.TextDocumentPositionParams{
			TextDocument: protocol.TextDocumentIdentifier{URI: uri},
		},
	})
	require.NoError(t, err)

	list, ok := result.(*protocol.CompletionList)
	require.True(t, ok)

	labels := make(map[string]bool)
	for _, item := range list.Items {
		labels[item.Label] = true
	}
	assert.True(t, labels["print"])
	assert.True(t, labels["static_getitem"])
	assert.True(t, labels["entry"])
	assert.True(t, labels["exit"])
}
