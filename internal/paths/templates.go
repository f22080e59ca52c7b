package paths

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
)

// Entry describes one template file found in the search path.
type Entry struct {
	// Name is the template name relative to its search directory, without
	// the template extension, using forward slashes.
	Name string
	Path string
	Dir  string
	// HasData reports whether a default data file resolves for Name.
	HasData bool
	// Shadowed is true when an earlier search directory holds a template with the same name.
	Shadowed bool
}

// Templates walks every search directory in order and returns the templates
// with extension ext. dataExts are checked to fill Entry.HasData. Missing
// search directories are skipped.
func (r *Resolver) Templates(ext string, dataExts []string) ([]Entry, error) {
	seen := make(map[string]bool)
	order := make(map[string]int)

	var entries []Entry
	for i, dir := range r.dirs {
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			continue
		}

		err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() || filepath.Ext(d.Name()) != "."+ext {
				return nil
			}

			rel, err := filepath.Rel(dir, path)
			if err != nil {
				return err
			}

			name := filepath.ToSlash(TrimExt(rel, ext))
			entries = append(entries, Entry{
				Name:     name,
				Path:     path,
				Dir:      dir,
				Shadowed: seen[name],
			})
			seen[name] = true
			order[path] = i

			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	for i := range entries {
		if entries[i].Shadowed {
			continue
		}
		for _, dataExt := range dataExts {
			if _, ok := r.Resolve(entries[i].Name, dataExt); ok {
				entries[i].HasData = true
				break
			}
		}
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Name != entries[j].Name {
			return entries[i].Name < entries[j].Name
		}
		return order[entries[i].Path] < order[entries[j].Path]
	})

	return entries, nil
}

// Names returns the distinct template names of entries, skipping shadowed ones.
func Names(entries []Entry) []string {
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.Shadowed {
			names = append(names, e.Name)
		}
	}

	return names
}
