package lsp

import (
	"fmt"
	"net/url"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"

	"github.com/tliron/commonlog"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"peep/internal/ir"
	"peep/internal/rewrite"
)

var log = commonlog.GetLogger("peep.lsp")

// keywords of the textual IR offered as completions
var keywords = []string{
	"func", "const", "global", "arg", "call", "getitem", "static_getitem",
	"binop", "print", "jump", "branch", "return", "None", "True", "False",
}

// PeepHandler implements the LSP server handlers for textual IR files
type PeepHandler struct {
	mu       sync.RWMutex
	content  map[string]string
	analyses map[string]*Analysis
	driver   *rewrite.Driver
	stage    string
}

// NewPeepHandler creates a handler that rewrites documents with the rules
// of stage taken from registry
func NewPeepHandler(registry *rewrite.Registry, stage string, config rewrite.Config) *PeepHandler {
	return &PeepHandler{
		content:  make(map[string]string),
		analyses: make(map[string]*Analysis),
		driver:   rewrite.NewDriver(registry, config),
		stage:    stage,
	}
}

// Initialize responds to the LSP client's initialize request and advertises the server's capabilities
func (h *PeepHandler) Initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	log.Info("LSP Initialize called")

	return &protocol.InitializeResult{
		Capabilities: protocol.ServerCapabilities{
			TextDocumentSync: &protocol.TextDocumentSyncOptions{
				OpenClose: ptrBool(true), // notify on open/close events
				Change:    ptrSyncKind(protocol.TextDocumentSyncKindFull),
			},
			CompletionProvider: &protocol.CompletionOptions{
				ResolveProvider: ptrBool(false),
			},
		},
	}, nil
}

// Initialized is called after the client receives the server's capabilities and completes initialization
func (h *PeepHandler) Initialized(ctx *glsp.Context, params *protocol.InitializedParams) error {
	log.Info("peep LSP Initialized")
	return nil
}

// Shutdown handles the LSP shutdown request
func (h *PeepHandler) Shutdown(ctx *glsp.Context) error {
	log.Info("peep LSP Shutdown")
	protocol.SetTraceValue(protocol.TraceValueOff)
	return nil
}

// SetTrace records the trace level requested by the client
func (h *PeepHandler) SetTrace(ctx *glsp.Context, params *protocol.SetTraceParams) error {
	protocol.SetTraceValue(params.Value)
	return nil
}

// TextDocumentDidOpen handles file open notifications from the editor
func (h *PeepHandler) TextDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	log.Infof("Opened file: %s", params.TextDocument.URI)
	return h.update(ctx, params.TextDocument.URI, params.TextDocument.Text)
}

// TextDocumentDidChange handles file change notifications from the editor
func (h *PeepHandler) TextDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	log.Infof("Changed file: %s", params.TextDocument.URI)

	var text *string
	for _, change := range params.ContentChanges {
		switch c := change.(type) {
		case protocol.TextDocumentContentChangeEventWhole:
			text = &c.Text
		case protocol.TextDocumentContentChangeEvent:
			// full sync was advertised, a ranged change carries the whole text
			text = &c.Text
		}
	}
	if text == nil {
		return nil
	}

	return h.update(ctx, params.TextDocument.URI, *text)
}

// TextDocumentDidClose handles file close notifications from the editor
func (h *PeepHandler) TextDocumentDidClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	log.Infof("Closed file: %s", params.TextDocument.URI)

	rawURI := params.TextDocument.URI

	path, err := uriToPath(rawURI)
	if err != nil {
		return fmt.Errorf("failed to convert URI %s: %w", rawURI, err)
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.content, path)
	delete(h.analyses, path)

	return nil
}

// TextDocumentCompletion offers IR keywords, builtin globals and block labels
func (h *PeepHandler) TextDocumentCompletion(ctx *glsp.Context, params *protocol.CompletionParams) (interface{}, error) {
	var items []protocol.CompletionItem

	keywordKind := protocol.CompletionItemKindKeyword
	for _, kw := range keywords {
		items = append(items, protocol.CompletionItem{Label: kw, Kind: &keywordKind})
	}

	builtinKind := protocol.CompletionItemKindFunction
	builtins := make([]string, 0, len(ir.Builtins))
	for name := range ir.Builtins {
		builtins = append(builtins, name)
	}
	sort.Strings(builtins)
	for _, name := range builtins {
		items = append(items, protocol.CompletionItem{Label: name, Kind: &builtinKind})
	}

	if path, err := uriToPath(params.TextDocument.URI); err == nil {
		labelKind := protocol.CompletionItemKindReference
		for _, label := range h.labels(path) {
			items = append(items, protocol.CompletionItem{Label: label, Kind: &labelKind})
		}
	}

	return &protocol.CompletionList{
		IsIncomplete: false,
		Items:        items,
	}, nil
}

// Analysis returns the latest analysis of a document
func (h *PeepHandler) Analysis(rawURI protocol.DocumentUri) (*Analysis, bool) {
	path, err := uriToPath(rawURI)
	if err != nil {
		return nil, false
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	a, ok := h.analyses[path]
	return a, ok
}

func (h *PeepHandler) labels(path string) []string {
	h.mu.RLock()
	defer h.mu.RUnlock()

	a, ok := h.analyses[path]
	if !ok {
		return nil
	}

	var labels []string
	for _, fn := range a.Functions {
		for _, block := range fn.Blocks {
			labels = append(labels, block.Label)
		}
	}
	return labels
}

func (h *PeepHandler) update(ctx *glsp.Context, rawURI protocol.DocumentUri, text string) error {
	path, err := uriToPath(rawURI)
	if err != nil {
		return fmt.Errorf("failed to convert URI %s: %w", rawURI, err)
	}

	analysis := Analyze(h.driver, h.stage, path, text)

	h.mu.Lock()
	h.content[path] = text
	h.analyses[path] = analysis
	h.mu.Unlock()

	sendDiagnosticNotification(ctx, rawURI, ConvertDiagnostics(analysis.Diagnostics))
	return nil
}

// Convert URI to platform-local file path
func uriToPath(rawURI string) (string, error) {
	u, err := url.Parse(rawURI)
	if err != nil {
		return "", fmt.Errorf("invalid URI %s: %w", rawURI, err)
	}

	path := u.Path

	// On Windows, remove leading slash (e.g., /C:/...) -> C:/...
	if runtime.GOOS == "windows" && strings.HasPrefix(path, "/") && len(path) > 3 && path[2] == ':' {
		path = path[1:]
	}

	// Normalize to platform-specific separators
	return filepath.FromSlash(path), nil
}

func sendDiagnosticNotification(ctx *glsp.Context, uri protocol.URI, diagnostics []protocol.Diagnostic) {
	log.Debugf("Sending %d diagnostics for %s", len(diagnostics), uri)

	if ctx == nil || ctx.Notify == nil {
		return
	}

	ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, &protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: diagnostics,
	})
}

func ptrBool(b bool) *bool {
	return &b
}

func ptrSyncKind(k protocol.TextDocumentSyncKind) *protocol.TextDocumentSyncKind {
	return &k
}
