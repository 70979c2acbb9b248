// Package rules provides the built-in lint rules for texhelper.
//
// # Rules
//
//   - Syntax:
//
//   - TEX001: syntax-error - Every structural problem reported by the parser
//
//   - Math:
//
//   - TEX002: no-dollar-display-math - Display math should use \[ ... \] instead of $$ ... $$
//
//   - TEX004: no-eqnarray - The eqnarray environment should be replaced by align
//
//   - Commands:
//
//   - TEX003: deprecated-font-command - Two-letter font switches such as \bf are obsolete
//
//   - Listings:
//
//   - TEX005: listing-language - lstlisting environments should declare a language
//
//   - Whitespace and layout:
//
//   - TEX006: no-trailing-whitespace - Lines should not end in spaces or tabs
//
//   - TEX007: no-multiple-blank-lines - Runs of blank lines should be collapsed
//
//   - TEX008: line-length - Lines should not exceed the configured maximum
//
// # Fixes
//
// Rules marked fixable attach text edits to their diagnostics. The engine
// collects them, drops conflicting ones and the pipeline applies the rest
// when --fix is given. Verbatim environments (config format.verbatim) are
// skipped by the whitespace rules because their bodies are printed as-is.
//
// # Registration
//
// Importing this package registers every rule with lint.DefaultRegistry and
// makes the rule list available to config.GenerateTemplate.
package rules
