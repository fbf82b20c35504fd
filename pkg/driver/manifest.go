package driver

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Manifest represents the parsed contents of package.yml: the metadata
// of an L5 package and the check targets and dependencies it declares.
type Manifest struct {
	Path         string
	Name         string
	Version      string
	License      string
	Authors      []string
	Targets      map[string]*TargetSpec
	TargetOrder  []string
	Dependencies map[string]*DependencySpec
}

// TargetSpec describes a named check target: an L5 source file the
// toolchain type-checks as a unit.
type TargetSpec struct {
	Name string
	Main string
}

// DependencySpec describes a dependency descriptor in the manifest.
// Exactly one source (path or git) must be set.
type DependencySpec struct {
	Version string `yaml:"version"`
	Git     string `yaml:"git"`
	Rev     string `yaml:"rev"`
	Tag     string `yaml:"tag"`
	Branch  string `yaml:"branch"`
	Path    string `yaml:"path"`
}

// ValidationError aggregates manifest validation failures.
type ValidationError struct {
	Issues []string
}

func (e *ValidationError) Error() string {
	if len(e.Issues) == 0 {
		return "manifest: invalid configuration"
	}
	var b strings.Builder
	b.WriteString("manifest validation failed:")
	for _, issue := range e.Issues {
		b.WriteString("\n  - ")
		b.WriteString(issue)
	}
	return b.String()
}

type manifestFile struct {
	Name         string                     `yaml:"name"`
	Version      string                     `yaml:"version"`
	License      string                     `yaml:"license"`
	Authors      []string                   `yaml:"authors"`
	Targets      map[string]*targetFile     `yaml:"targets"`
	Dependencies map[string]*DependencySpec `yaml:"dependencies"`
}

type targetFile struct {
	Main string `yaml:"main"`
}

// LoadManifest parses and validates package.yml at path.
func LoadManifest(path string) (*Manifest, error) {
	if path == "" {
		return nil, fmt.Errorf("manifest: empty path")
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("manifest: resolve %s: %w", path, err)
	}
	file, err := os.Open(absPath)
	if err != nil {
		return nil, fmt.Errorf("manifest: open %s: %w", absPath, err)
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)

	var raw manifestFile
	if err := decoder.Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("manifest: %s is empty", absPath)
		}
		return nil, fmt.Errorf("manifest: parse %s: %w", absPath, err)
	}

	manifest := raw.toManifest(absPath)
	if err := manifest.validate(); err != nil {
		return nil, err
	}
	return manifest, nil
}

func (mf manifestFile) toManifest(path string) *Manifest {
	manifest := &Manifest{
		Path:         path,
		Name:         strings.TrimSpace(mf.Name),
		Version:      strings.TrimSpace(mf.Version),
		License:      strings.TrimSpace(mf.License),
		Authors:      append([]string(nil), mf.Authors...),
		Targets:      make(map[string]*TargetSpec, len(mf.Targets)),
		Dependencies: make(map[string]*DependencySpec, len(mf.Dependencies)),
	}
	for name, target := range mf.Targets {
		if target == nil {
			target = &targetFile{}
		}
		manifest.Targets[name] = &TargetSpec{
			Name: name,
			Main: strings.TrimSpace(target.Main),
		}
		manifest.TargetOrder = append(manifest.TargetOrder, name)
	}
	sort.Strings(manifest.TargetOrder)
	for name, dep := range mf.Dependencies {
		if dep == nil {
			dep = &DependencySpec{}
		}
		dep.normalize()
		manifest.Dependencies[name] = dep
	}
	return manifest
}

func (m *Manifest) validate() error {
	var errs ValidationError
	if m.Name == "" {
		errs.Issues = append(errs.Issues, "name must be provided")
	}
	for i, author := range m.Authors {
		if strings.TrimSpace(author) == "" {
			errs.Issues = append(errs.Issues, fmt.Sprintf("authors[%d] must be a non-empty string", i))
		}
	}
	for _, name := range m.TargetOrder {
		target := m.Targets[name]
		if target.Main == "" {
			errs.Issues = append(errs.Issues, fmt.Sprintf("target %q requires a main source file", name))
		}
	}
	for name, dep := range m.Dependencies {
		for _, issue := range dep.validate() {
			errs.Issues = append(errs.Issues, fmt.Sprintf("dependencies.%s: %s", name, issue))
		}
	}
	if len(errs.Issues) > 0 {
		sort.Strings(errs.Issues)
		return &errs
	}
	return nil
}

// DefaultTarget returns the single declared target, or the target named
// "main" when several are declared.
func (m *Manifest) DefaultTarget() (*TargetSpec, error) {
	if len(m.TargetOrder) == 0 {
		return nil, fmt.Errorf("manifest %q declares no targets", m.Name)
	}
	if len(m.TargetOrder) == 1 {
		return m.Targets[m.TargetOrder[0]], nil
	}
	if target, ok := m.Targets["main"]; ok {
		return target, nil
	}
	return nil, fmt.Errorf("manifest %q declares %d targets; name one of them \"main\" or pass a target explicitly", m.Name, len(m.TargetOrder))
}

// FindTarget looks up a target by name.
func (m *Manifest) FindTarget(name string) (*TargetSpec, bool) {
	target, ok := m.Targets[name]
	return target, ok
}

func (d *DependencySpec) normalize() {
	d.Version = strings.TrimSpace(d.Version)
	d.Git = strings.TrimSpace(d.Git)
	d.Rev = strings.TrimSpace(d.Rev)
	d.Tag = strings.TrimSpace(d.Tag)
	d.Branch = strings.TrimSpace(d.Branch)
	d.Path = strings.TrimSpace(d.Path)
}

func (d *DependencySpec) validate() []string {
	var issues []string
	sources := 0
	if d.Path != "" {
		sources++
	}
	if d.Git != "" {
		sources++
	}
	switch {
	case sources == 0:
		issues = append(issues, "must declare a path or git source")
	case sources > 1:
		issues = append(issues, "path and git sources are mutually exclusive")
	}
	if d.Git == "" && (d.Rev != "" || d.Tag != "" || d.Branch != "") {
		issues = append(issues, "rev, tag and branch require a git source")
	}
	pins := 0
	for _, pin := range []string{d.Rev, d.Tag, d.Branch} {
		if pin != "" {
			pins++
		}
	}
	if pins > 1 {
		issues = append(issues, "rev, tag and branch are mutually exclusive")
	}
	return issues
}
