// Package parser reads the individual files of a content package.
//
// Every parser reports which package-relative paths it handles and turns one
// file into a typed result. Parsers never touch shared state, so any number
// of files may be parsed concurrently.
package parser

import (
	"path"
	"strings"
)

// Matcher reports whether a file belongs to a parser. rel is the
// slash-separated path of the file relative to its package root.
type Matcher interface {
	CanParse(rel string) bool
}

// Parser is the interface for all package file parsers.
type Parser[T any] interface {
	Matcher
	// Parse reads the file at filePath.
	Parse(filePath string) (T, error)
}

// inDir reports whether rel is a direct child of dir with extension ext.
func inDir(rel, dir, ext string) bool {
	return path.Dir(rel) == dir && strings.EqualFold(path.Ext(rel), ext)
}

// underDir reports whether rel lies anywhere below dir with extension ext.
func underDir(rel, dir, ext string) bool {
	return strings.HasPrefix(rel, dir+"/") && strings.EqualFold(path.Ext(rel), ext)
}
