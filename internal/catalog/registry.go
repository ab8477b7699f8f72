// Package catalog holds the compiled category registry.
//
// The default definitions (categories c1, c2, c3) are embedded so the
// binary is self-contained; an alternate directory of .cue files can be
// loaded instead for running a modified experiment without rebuilding.
package catalog

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"

	"github.com/kanolab/patternshop/internal/compiler"
	"github.com/kanolab/patternshop/internal/order"
)

//go:embed categories/*.cue
var defaultDefinitions embed.FS

// Registry is an immutable lookup table of compiled categories,
// preserving definition order for index rendering.
type Registry struct {
	byID  map[string]*order.Category
	order []string
}

// LoadDefault compiles the embedded category definitions.
func LoadDefault() (*Registry, error) {
	return loadFS(defaultDefinitions, "categories")
}

// LoadDir compiles every .cue file in a directory, sorted by filename.
func LoadDir(dir string) (*Registry, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("categories directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("categories directory: not a directory: %s", dir)
	}
	return loadFS(os.DirFS(dir), ".")
}

func loadFS(fsys fs.FS, root string) (*Registry, error) {
	entries, err := fs.ReadDir(fsys, root)
	if err != nil {
		return nil, fmt.Errorf("read categories: %w", err)
	}

	var files []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".cue") {
			files = append(files, e.Name())
		}
	}
	sort.Strings(files)
	if len(files) == 0 {
		return nil, fmt.Errorf("read categories: no .cue files found")
	}

	ctx := cuecontext.New()
	reg := &Registry{byID: make(map[string]*order.Category)}

	for _, name := range files {
		data, err := fs.ReadFile(fsys, filepath.Join(root, name))
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", name, err)
		}
		v := ctx.CompileBytes(data, cue.Filename(name))
		cats, err := compiler.CompileCategories(v)
		if err != nil {
			return nil, fmt.Errorf("compile %s: %w", name, err)
		}
		for _, cat := range cats {
			if _, dup := reg.byID[cat.ID]; dup {
				return nil, fmt.Errorf("compile %s: duplicate category id %q", name, cat.ID)
			}
			reg.byID[cat.ID] = cat
			reg.order = append(reg.order, cat.ID)
		}
	}
	return reg, nil
}

// Lookup returns the category with the given id.
func (r *Registry) Lookup(id string) (*order.Category, bool) {
	cat, ok := r.byID[id]
	return cat, ok
}

// IDs returns category ids in definition order.
func (r *Registry) IDs() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Categories returns compiled categories in definition order.
func (r *Registry) Categories() []*order.Category {
	out := make([]*order.Category, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.byID[id])
	}
	return out
}
