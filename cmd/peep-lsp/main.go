// SPDX-License-Identifier: Apache-2.0
package main

import (
	"log"
	"os"

	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"

	"peep/internal/lsp"
	"peep/internal/rewrite"
)

const lsName = "peep" // Name identifier for the language server

var handler protocol.Handler // Protocol handler instance (wired up below)

func main() {
	// Configure debug logging (1 = info level, nil = default writer)
	commonlog.Configure(1, nil)

	peepHandler := lsp.NewPeepHandler(rewrite.DefaultRegistry(), rewrite.StageBeforeInference, rewrite.DefaultConfig())

	handler = protocol.Handler{
		Initialize:             peepHandler.Initialize,
		Initialized:            peepHandler.Initialized,
		Shutdown:               peepHandler.Shutdown,
		SetTrace:               peepHandler.SetTrace,
		TextDocumentDidOpen:    peepHandler.TextDocumentDidOpen,
		TextDocumentDidClose:   peepHandler.TextDocumentDidClose,
		TextDocumentDidChange:  peepHandler.TextDocumentDidChange,
		TextDocumentCompletion: peepHandler.TextDocumentCompletion,
	}

	// debug=false keeps glsp's own protocol logging off
	s := server.NewServer(&handler, lsName, false)

	log.Println("Starting peep LSP server...")

	if err := s.RunStdio(); err != nil {
		log.Println("Error starting peep LSP server:", err)
		os.Exit(1)
	}
}
