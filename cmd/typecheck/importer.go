package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/declaratypel/typecheck/ast"
	"github.com/declaratypel/typecheck/checker"
	"github.com/declaratypel/typecheck/errors"
	"github.com/declaratypel/typecheck/internal/astjson"
)

var moduleExtensions = []string{".json", ".yaml", ".yml"}

// dirImporter resolves an import source to a module file below dir,
// checks that module with its own checker, and serves its exports. Each
// module is checked once per importer.
type dirImporter struct {
	dir     string
	opts    []checker.Option
	log     zerolog.Logger
	modules map[string]checker.Exports
	loading map[string]bool
}

func newDirImporter(dir string, opts []checker.Option, log zerolog.Logger) *dirImporter {
	return &dirImporter{
		dir:     dir,
		opts:    opts,
		log:     log,
		modules: map[string]checker.Exports{},
		loading: map[string]bool{},
	}
}

// Import implements checker.Importer.
func (d *dirImporter) Import(source, name string, isType bool) (ast.Type, error) {
	exports, err := d.load(source)
	if err != nil {
		return nil, err
	}
	return checker.MapImporter{source: exports}.Import(source, name, isType)
}

func (d *dirImporter) load(source string) (checker.Exports, error) {
	if exports, ok := d.modules[source]; ok {
		return exports, nil
	}
	if d.loading[source] {
		return checker.Exports{}, loadError(source, "import cycle")
	}
	if !filepath.IsLocal(sourcePath(source)) {
		return checker.Exports{}, loadError(source, "import source is outside the modules directory")
	}
	path, ok := d.find(source)
	if !ok {
		return checker.Exports{}, errors.UnknownModule(source)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return checker.Exports{}, loadError(source, err.Error())
	}
	if ext := filepath.Ext(path); ext == ".yaml" || ext == ".yml" {
		if data, err = astjson.FromYAML(data); err != nil {
			return checker.Exports{}, loadError(source, err.Error())
		}
	}
	items, err := astjson.DecodeModule(data)
	if err != nil {
		return checker.Exports{}, loadError(source, err.Error())
	}

	d.loading[source] = true
	defer delete(d.loading, source)

	d.log.Debug().Str("source", source).Str("path", path).Msg("checking imported module")
	c := checker.New(append(d.opts[:len(d.opts):len(d.opts)], checker.WithImporter(d))...)
	mod, err := c.CheckModule(items, nil)
	if err != nil {
		reason := err.Error()
		if checkErrs := errors.Flatten(err); len(checkErrs) > 0 {
			reason = checkErrs[0].Message
			if note := checkErrs[0].Note; note != "" {
				reason += ": " + note
			}
		}
		return checker.Exports{}, loadError(source, reason)
	}

	// Exported types may name the module's own type aliases, which mean
	// nothing to the importer.
	exports := mod.ExportTable()
	for _, table := range []map[string]ast.Type{exports.Values, exports.Types} {
		for name, t := range table {
			resolved, err := c.Resolve(t, mod.Scope)
			if err != nil {
				return checker.Exports{}, loadError(source, err.Error())
			}
			table[name] = resolved
		}
	}
	d.modules[source] = exports
	return exports, nil
}

// find maps an import source such as "./lib" or "lib" to a file below dir.
func (d *dirImporter) find(source string) (string, bool) {
	rel := sourcePath(source)
	candidates := []string{filepath.Join(d.dir, rel)}
	for _, ext := range moduleExtensions {
		candidates = append(candidates, filepath.Join(d.dir, rel+ext))
	}
	for _, path := range candidates {
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path, true
		}
	}
	return "", false
}

// sourcePath maps an import source to a path relative to the modules
// directory.
func sourcePath(source string) string {
	return filepath.FromSlash(strings.TrimPrefix(source, "./"))
}

func loadError(source, reason string) *errors.CheckError {
	return &errors.CheckError{
		Code:    errors.UnknownModuleCode,
		Message: fmt.Sprintf("cannot load module %q", source),
		Name:    source,
		Note:    reason,
	}
}
