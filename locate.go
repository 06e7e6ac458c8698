// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/xtm

package xtm

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// partNameRe captures <base>.<NNN>.<ext>: a fixed 3-digit zero-padded index
// between the base name and a dot-free extension. The rightmost index wins
// when the base itself contains dot-digit groups.
var partNameRe = regexp.MustCompile(`^(?P<base>.+)\.(?P<num>\d{3})\.(?P<ext>[^.]+)$`)

// PartName is the decomposed <base>.<NNN>.<ext> form of a part file name.
type PartName struct {
	// Base is the shared name portion before the numeric index.
	Base string `json:"base" yaml:"base"`
	// Ext is the fixed archive extension without the leading dot.
	Ext string `json:"ext" yaml:"ext"`
	// Index is the parsed part index (1-based for well-formed archives).
	Index int `json:"index" yaml:"index"`
}

// ParsePartName decomposes a part file path into its naming pattern.
// Returns ErrInvalidName when the file name does not match <base>.<NNN>.<ext>.
func ParsePartName(path string) (PartName, error) {
	name := filepath.Base(path)
	m := partNameRe.FindStringSubmatch(name)
	if m == nil {
		return PartName{}, fmt.Errorf("%w: %s", ErrInvalidName, name)
	}

	index, err := strconv.Atoi(m[2])
	if err != nil {
		return PartName{}, fmt.Errorf("%w: %s", ErrInvalidName, name)
	}

	return PartName{Base: m[1], Ext: m[3], Index: index}, nil
}

// siblingPattern compiles the case-insensitive matcher for every part of the
// same archive: <base>.<3 digits>.<ext> with base and extension quoted.
func (n PartName) siblingPattern() *regexp.Regexp {
	expr := `(?i)^` + regexp.QuoteMeta(n.Base) + `\.\d{3}\.` + regexp.QuoteMeta(n.Ext) + `$`
	return regexp.MustCompile(expr)
}

// LocateParts derives the part naming pattern from any one part's path and
// returns every sibling part in the same directory, sorted ascending by index
// (lexicographic over the case-folded name, equal to numeric order because
// indices are zero-padded). Raw sizes are filled from directory metadata and
// roles are assigned positionally: the first element carries the header, the
// last carries the trailer, a single element carries both.
//
// Only the immediate directory is read. The payload ranges of the returned
// parts are not yet resolved.
func LocateParts(path string) ([]Part, error) {
	pattern, err := ParsePartName(path)
	if err != nil {
		return nil, err
	}

	dir := filepath.Dir(path)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("list parts: %w", err)
	}

	siblingRe := pattern.siblingPattern()
	parts := make([]Part, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !siblingRe.MatchString(entry.Name()) {
			continue
		}

		info, infoErr := entry.Info()
		if infoErr != nil {
			return nil, fmt.Errorf("stat part %s: %w", entry.Name(), infoErr)
		}

		name, nameErr := ParsePartName(entry.Name())
		if nameErr != nil {
			return nil, nameErr
		}

		parts = append(parts, Part{
			Path:  filepath.Join(dir, entry.Name()),
			Index: name.Index,
			Size:  info.Size(),
		})
	}

	if len(parts) == 0 {
		return nil, fmt.Errorf("%w: no parts matching %s.NNN.%s in %s",
			fs.ErrNotExist, pattern.Base, pattern.Ext, dir)
	}

	sort.Slice(parts, func(i, j int) bool {
		return strings.ToLower(filepath.Base(parts[i].Path)) < strings.ToLower(filepath.Base(parts[j].Path))
	})

	parts[0].Role |= RoleFirst
	parts[len(parts)-1].Role |= RoleLast

	return parts, nil
}
