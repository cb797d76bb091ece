package overlay

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// DefaultListPattern matches every edit set under an edits directory
const DefaultListPattern = "*/*.yaml"

// EditSetRef locates a persisted edit set
type EditSetRef struct {
	MapName   string
	EditsName string
	Path      string
}

// ListEditSets finds persisted edit sets under dir whose path relative to dir
// matches pattern. Matches that are not <map>/<edits>.yaml are skipped.
func ListEditSets(dir, pattern string) ([]EditSetRef, error) {
	if pattern == "" {
		pattern = DefaultListPattern
	}
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("invalid pattern %q", pattern)
	}
	matches, err := doublestar.Glob(os.DirFS(dir), pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("glob error: %w", err)
	}

	var refs []EditSetRef
	for _, match := range matches {
		parts := strings.Split(match, "/")
		if len(parts) != 2 || filepath.Ext(parts[1]) != ".yaml" {
			continue
		}
		refs = append(refs, EditSetRef{
			MapName:   parts[0],
			EditsName: strings.TrimSuffix(parts[1], ".yaml"),
			Path:      filepath.Join(dir, filepath.FromSlash(match)),
		})
	}
	sort.Slice(refs, func(i, j int) bool {
		if refs[i].MapName != refs[j].MapName {
			return refs[i].MapName < refs[j].MapName
		}
		return refs[i].EditsName < refs[j].EditsName
	})
	return refs, nil
}
