package ast

import "neplcore/internal/source"

// Directive is the common type of every `#...` source-level directive.
type Directive interface {
	isDirective()
	Span() source.Span
}

type directiveBase struct{ span source.Span }

func (directiveBase) isDirective()          {}
func (d directiveBase) Span() source.Span   { return d.span }

// TargetDirective is `#target <name>`.
type TargetDirective struct {
	directiveBase
	Name string // raw text; ast.ParseTarget validates it downstream
}

func NewTargetDirective(span source.Span, name string) TargetDirective {
	return TargetDirective{directiveBase{span}, name}
}

// EntryDirective is `#entry <ident>`.
type EntryDirective struct {
	directiveBase
	Name string
}

func NewEntryDirective(span source.Span, name string) EntryDirective {
	return EntryDirective{directiveBase{span}, name}
}

// ImportClauseKind distinguishes the forms an #import clause may take.
type ImportClauseKind uint8

const (
	ImportDefaultAlias ImportClauseKind = iota
	ImportAlias
	ImportOpen
	ImportSelective
	ImportMerge
)

// ImportItem is one entry of a selective import list; Glob marks `name::*`.
type ImportItem struct {
	Name  string
	Alias string // "" if not renamed
	Glob  bool
}

// ImportDirective is `#import "<path>" [as <alias>|as *|selective list]`.
type ImportDirective struct {
	directiveBase
	Path      string
	Clause    ImportClauseKind
	Alias     string       // set when Clause == ImportAlias
	Selective []ImportItem // set when Clause == ImportSelective
}

func NewImportDirective(span source.Span, path string, clause ImportClauseKind) ImportDirective {
	return ImportDirective{directiveBase{span}, path, clause, "", nil}
}

// IncludeDirective is `#include "<path>"`: always inlined, never deduped.
type IncludeDirective struct {
	directiveBase
	Path string
}

func NewIncludeDirective(span source.Span, path string) IncludeDirective {
	return IncludeDirective{directiveBase{span}, path}
}

// IndentDirective is `#indent <N>`.
type IndentDirective struct {
	directiveBase
	Width int
}

func NewIndentDirective(span source.Span, width int) IndentDirective {
	return IndentDirective{directiveBase{span}, width}
}

// GateKind distinguishes the two predicate forms a gate directive supports.
type GateKind uint8

const (
	GateTarget GateKind = iota
	GateProfile
)

// GateDirective is `#if[target=T]` or `#if[profile=P]`, guarding the item
// that immediately follows it.
type GateDirective struct {
	directiveBase
	Kind  GateKind
	Value string // target name or "debug"/"release"
}

func NewGateDirective(span source.Span, kind GateKind, value string) GateDirective {
	return GateDirective{directiveBase{span}, kind, value}
}
