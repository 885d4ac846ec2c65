package loader

import (
	"io/fs"
	"sort"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

// Manifest is the YAML form of LoadOptions.
//
//	defaults:
//	  lifetime: scoped
//	patterns:
//	  - glob: "repositories/*"
//	    lifetime: singleton
//	  - glob: "services/*"
//	    injectionMode: classic
type Manifest struct {
	Path     string    `yaml:"-"`
	Defaults Options   `yaml:"defaults"`
	Patterns []Pattern `yaml:"patterns"`
}

// ReadManifests parses every file of fsys matching glob, in lexical order.
func ReadManifests(fsys fs.FS, glob string) ([]Manifest, error) {
	paths, err := fs.Glob(fsys, glob)
	if err != nil {
		return nil, errors.Wrapf(err, "glob %q", glob)
	}
	sort.Strings(paths)

	manifests := make([]Manifest, 0, len(paths))
	for _, p := range paths {
		raw, err := fs.ReadFile(fsys, p)
		if err != nil {
			return nil, errors.Wrapf(err, "read manifest %s", p)
		}

		var m Manifest
		if err := yaml.UnmarshalStrict(raw, &m); err != nil {
			return nil, errors.Wrapf(err, "parse manifest %s", p)
		}
		m.Path = p
		manifests = append(manifests, m)
	}
	return manifests, nil
}

// Merge folds manifests into one LoadOptions: defaults of later manifests
// override earlier ones, patterns are concatenated in order.
func Merge(manifests ...Manifest) LoadOptions {
	var opts LoadOptions
	for _, m := range manifests {
		opts.Defaults = opts.Defaults.merge(m.Defaults)
		opts.Patterns = append(opts.Patterns, m.Patterns...)
	}
	return opts
}
