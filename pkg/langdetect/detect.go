// Package langdetect names the programming language of a code listing in
// the spelling the LaTeX listings package expects for language=.
//
// Detection is backed by go-enry; a few strong textual markers are checked
// first because short listings give the classifier too little to go on.
package langdetect

import (
	"bytes"
	"regexp"
	"strings"

	"github.com/go-enry/go-enry/v2"
)

// classifierCandidates limits the enry classifier to languages people put in
// papers and theses.
//
//nolint:gochecknoglobals // read-only lookup table
var classifierCandidates = []string{
	"Go", "Python", "Shell", "C", "C++", "Java", "JavaScript", "Rust",
	"Ruby", "Haskell", "R", "MATLAB", "SQL", "HTML", "XML", "JSON", "YAML",
}

// listingsNames maps enry language names to listings language names where
// the two differ.
//
//nolint:gochecknoglobals // read-only lookup table
var listingsNames = map[string]string{
	"Shell":       "bash",
	"C#":          "[Sharp]C",
	"MATLAB":      "Matlab",
	"Emacs Lisp":  "Lisp",
	"Common Lisp": "Lisp",
	"Objective-C": "[Objective]C",
}

// marker is a pattern that identifies a language on its own.
type marker struct {
	pattern  *regexp.Regexp
	language string
}

//nolint:gochecknoglobals // compiled once
var markers = []marker{
	{regexp.MustCompile(`(?m)^package \w+\s*$`), "Go"},
	{regexp.MustCompile(`(?m)^\s*def \w+\(.*\):\s*$`), "Python"},
	{regexp.MustCompile(`__name__\s*==\s*['"]__main__['"]`), "Python"},
	{regexp.MustCompile(`(?m)^\s*fn \w+\(.*\)(\s*->.*)?\s*\{`), "Rust"},
	{regexp.MustCompile(`(?m)^#include\s*[<"]`), "C++"},
	{regexp.MustCompile(`(?m)public\s+(static\s+)?(class|void)\s`), "Java"},
	{regexp.MustCompile(`(?i)^\s*(select|insert|update|delete|create)\s`), "SQL"},
	{regexp.MustCompile(`(?i)<!doctype html|<html[\s>]`), "HTML"},
	{regexp.MustCompile(`console\.log\(|=>\s*\{`), "JavaScript"},
}

// Detect returns the listings language name of content. ok is false when no
// language could be determined with confidence.
func Detect(content []byte) (string, bool) {
	trimmed := bytes.TrimSpace(content)
	if len(trimmed) == 0 {
		return "", false
	}

	if lang, safe := enry.GetLanguageByShebang(trimmed); safe && lang != "" {
		return ListingsName(lang), true
	}

	for _, m := range markers {
		if m.pattern.Match(trimmed) {
			return m.language, true
		}
	}

	if looksLikeJSON(trimmed) {
		return "JSON", true
	}

	if lang, safe := enry.GetLanguageByClassifier(trimmed, classifierCandidates); safe && lang != "" {
		return ListingsName(lang), true
	}
	return "", false
}

// FromAlias resolves a Markdown fence tag or file extension alias ("go",
// "sh", "py", "c++") to a listings language name.
func FromAlias(alias string) (string, bool) {
	alias = strings.TrimSpace(alias)
	if alias == "" {
		return "", false
	}
	lang, ok := enry.GetLanguageByAlias(alias)
	if !ok {
		return "", false
	}
	return ListingsName(lang), true
}

// ListingsName converts an enry language name to its listings spelling.
func ListingsName(enryName string) string {
	if name, ok := listingsNames[enryName]; ok {
		return name
	}
	return enryName
}

func looksLikeJSON(trimmed []byte) bool {
	first, last := trimmed[0], trimmed[len(trimmed)-1]
	return ((first == '{' && last == '}') || (first == '[' && last == ']')) &&
		bytes.Contains(trimmed, []byte(`":`))
}
