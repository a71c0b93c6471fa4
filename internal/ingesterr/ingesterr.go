// Package ingesterr defines the closed set of error kinds the ingestion
// pipeline can raise. Every kind names the file and the offending
// construct so a driver can print a single diagnostic and abort.
package ingesterr

import "fmt"

// Io wraps a filesystem-capability failure.
type Io struct {
	Path string
	Err  error
}

func (e *Io) Error() string { return fmt.Sprintf("io error at %s: %v", e.Path, e.Err) }
func (e *Io) Unwrap() error { return e.Err }

// ParseError describes a file whose contents the parser cannot make sense
// of. internal/dtsparse recovers from malformed input by skipping tokens
// and never fails, so no stage of this module returns ParseError.
type ParseError struct {
	File   string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error in %s: %s", e.File, e.Reason)
}

// NotFound is raised by the module resolver.
type NotFound struct {
	BaseDir   string
	Specifier string
}

func (e *NotFound) Error() string {
	return fmt.Sprintf("could not resolve %q from %s", e.Specifier, e.BaseDir)
}

// BadPackageManifest describes a node_modules package.json that cannot be
// read or parsed as expected. internal/resolve does not return it: an
// unreadable package.json falls back to the package's index file, and one
// that fails to parse leaves the package unresolved (NotFound).
type BadPackageManifest struct {
	Path   string
	Reason string
}

func (e *BadPackageManifest) Error() string {
	return fmt.Sprintf("bad package manifest %s: %s", e.Path, e.Reason)
}

// UnsupportedTypeNode is raised by the collector for a TsType shape it does
// not know how to translate. Fatal unless config.StrictMissing is false.
type UnsupportedTypeNode struct {
	File string
	Node string
}

func (e *UnsupportedTypeNode) Error() string {
	return fmt.Sprintf("unsupported type node in %s: %s", e.File, e.Node)
}

// UnresolvedReference is raised by the name-resolution pass when a Ref
// matches neither a program-table entry, a builtin, nor a lexically-scoped
// generic parameter.
type UnresolvedReference struct {
	File string
	Name string
}

func (e *UnresolvedReference) Error() string {
	return fmt.Sprintf("unresolved reference %s in %s", e.Name, e.File)
}

// InvalidNamespaceDefault is raised when a `default` export occurs inside a
// namespace body.
type InvalidNamespaceDefault struct {
	File      string
	Namespace string
}

func (e *InvalidNamespaceDefault) Error() string {
	return fmt.Sprintf("default export inside namespace %s in %s is not allowed", e.Namespace, e.File)
}

// UnsupportedLiteral is raised for bigint and template-literal type
// literals, which are explicitly out of scope.
type UnsupportedLiteral struct {
	File    string
	Literal string
}

func (e *UnsupportedLiteral) Error() string {
	return fmt.Sprintf("unsupported literal type in %s: %s", e.File, e.Literal)
}
