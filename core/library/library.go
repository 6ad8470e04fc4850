// Package library selects MP3 files in a directory tree and applies one
// frame edit to each of them.
package library

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"

	"github.com/ankit-chaubey/id3-surgery/core/id3"
	"github.com/woozymasta/pathrules"
)

// ErrInvalidPattern means a selection rule could not be compiled.
var ErrInvalidPattern = errors.New("invalid selection pattern")

// DefaultPattern selects files when no include rule is given.
const DefaultPattern = "*.mp3"

// Options selects files for Scan.
type Options struct {
	// Include and Exclude are gitignore-style patterns relative to the
	// scanned root. Excludes are applied after includes, so they win.
	Include []string
	Exclude []string
	// CaseSensitive disables case-insensitive matching.
	CaseSensitive bool
}

// Rules returns the ordered rule list for opts.
func (o Options) Rules() []pathrules.Rule {
	include := o.Include
	if len(include) == 0 {
		include = []string{DefaultPattern}
	}

	rules := make([]pathrules.Rule, 0, len(include)+len(o.Exclude))
	for _, p := range include {
		if p != "" {
			rules = append(rules, pathrules.Rule{Action: pathrules.ActionInclude, Pattern: p})
		}
	}
	for _, p := range o.Exclude {
		if p != "" {
			rules = append(rules, pathrules.Rule{Action: pathrules.ActionExclude, Pattern: p})
		}
	}
	return rules
}

// Scan walks root and returns the selected regular files in lexical order.
func Scan(root string, opts Options) ([]string, error) {
	matcher, err := pathrules.NewMatcher(opts.Rules(), pathrules.MatcherOptions{
		CaseInsensitive: !opts.CaseSensitive,
		DefaultAction:   pathrules.ActionExclude,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: compile rules: %w", ErrInvalidPattern, err)
	}

	var files []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		if matcher.Included(filepath.ToSlash(rel), false) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", root, err)
	}

	sort.Strings(files)
	return files, nil
}

// Outcome is the result of one file in a batch.
type Outcome struct {
	Path   string
	Result *id3.Result
	Err    error
}

// EditAll runs editor.EditFrame on every file in order. A failing file does
// not stop the batch.
func EditAll(editor *id3.Editor, files []string, id string, data []byte) []Outcome {
	out := make([]Outcome, 0, len(files))
	for _, path := range files {
		res, err := editor.EditFrame(path, id, data)
		out = append(out, Outcome{Path: path, Result: res, Err: err})
	}
	return out
}

// Failed counts outcomes with an error.
func Failed(outcomes []Outcome) int {
	n := 0
	for _, o := range outcomes {
		if o.Err != nil {
			n++
		}
	}
	return n
}
