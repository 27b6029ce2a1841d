package workspace

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/gobwas/glob"
	"github.com/karrick/godirwalk"
	"github.com/sabhiram/go-gitignore"

	"github.com/home-lang/pantry/internal/manifest"
)

// Discover expands a manifest's workspace package globs (e.g.
// "packages/*") against root into concrete member directories, each
// containing a manifest file, honoring a root .gitignore if present.
func Discover(root string, m *manifest.Manifest) ([]Member, error) {
	patterns := m.WorkspacePackages()
	if len(patterns) == 0 {
		return nil, nil
	}

	ignorer := loadIgnore(root)

	var globs []glob.Glob
	var negations []glob.Glob
	for _, p := range patterns {
		negate := strings.HasPrefix(p, "!")
		pattern := strings.TrimPrefix(p, "!")
		pattern = strings.TrimSuffix(pattern, "/")
		g, err := glob.Compile(pattern, '/')
		if err != nil {
			continue
		}
		if negate {
			negations = append(negations, g)
		} else {
			globs = append(globs, g)
		}
	}

	var members []Member
	seen := make(map[string]bool)

	err := godirwalk.Walk(root, &godirwalk.Options{
		Callback: func(path string, de *godirwalk.Dirent) error {
			if !de.IsDir() || path == root {
				return nil
			}
			rel, err := filepath.Rel(root, path)
			if err != nil {
				return nil
			}
			rel = filepath.ToSlash(rel)
			if strings.Contains(rel, "node_modules") {
				return godirwalk.SkipThis
			}
			if ignorer != nil && ignorer.MatchesPath(rel) {
				return godirwalk.SkipThis
			}

			manifestPath := filepath.Join(path, "package.json")
			if _, statErr := os.Stat(manifestPath); statErr != nil {
				return nil
			}

			if !anyMatch(globs, rel) {
				return nil
			}
			if anyMatch(negations, rel) {
				return nil
			}
			if seen[rel] {
				return nil
			}
			seen[rel] = true

			mf, parseErr := manifest.Load(manifestPath)
			name := rel
			if parseErr == nil && mf.Name != "" {
				name = mf.Name
			}
			members = append(members, Member{Name: name, Path: rel})
			return nil
		},
		Unsorted: false,
	})
	if err != nil {
		return nil, err
	}
	return members, nil
}

func anyMatch(globs []glob.Glob, path string) bool {
	for _, g := range globs {
		if g.Match(path) {
			return true
		}
	}
	return false
}

func loadIgnore(root string) *ignore.GitIgnore {
	data, err := ignore.CompileIgnoreFile(filepath.Join(root, ".gitignore"))
	if err != nil {
		return nil
	}
	return data
}
