package main

import (
	"fmt"
	"sort"
	"strings"

	"peep/internal/ir"
	"peep/internal/irtext"
)

// globalFlags collects repeated -global NAME=LITERAL flags
type globalFlags map[string]ir.Constant

func (g globalFlags) String() string {
	names := make([]string, 0, len(g))
	for name := range g {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, len(names))
	for i, name := range names {
		parts[i] = name + "=" + g[name].String()
	}
	return strings.Join(parts, ",")
}

func (g globalFlags) Set(value string) error {
	name, constant, err := irtext.ParseBinding(value)
	if err != nil {
		return err
	}
	if _, ok := g[name]; ok {
		return fmt.Errorf("global %s bound twice", name)
	}
	g[name] = constant
	return nil
}
