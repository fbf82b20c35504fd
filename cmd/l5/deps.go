package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"l5/checker-go/pkg/driver"
)

func runDeps(args []string) int {
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "l5 deps requires a subcommand (install, update)")
		return 1
	}
	switch args[0] {
	case "install":
		if len(args) > 1 {
			fmt.Fprintf(os.Stderr, "l5 deps install does not take arguments (received %s)\n", strings.Join(args[1:], " "))
			return 1
		}
		return runDepsInstall()
	case "update":
		return runDepsUpdate(args[1:])
	default:
		fmt.Fprintf(os.Stderr, "unknown deps subcommand %q\n", args[0])
		return 1
	}
}

func runDepsInstall() int {
	manifest, cacheDir, code := depsSetup()
	if code != 0 {
		return code
	}

	lockPath := filepath.Join(filepath.Dir(manifest.Path), "package.lock")
	lock, err := driver.LoadLockfile(lockPath)
	lockCreated := false
	switch {
	case err == nil:
		if lock.Root != manifest.Name {
			fmt.Fprintf(os.Stderr, "lockfile root %q does not match manifest name %q\n", lock.Root, manifest.Name)
			return 1
		}
	case errors.Is(err, os.ErrNotExist):
		lock = driver.NewLockfile(manifest.Name, cliToolVersion)
		lock.Path = lockPath
		lockCreated = true
	default:
		fmt.Fprintf(os.Stderr, "failed to read lockfile: %v\n", err)
		return 1
	}
	lock.Path = lockPath
	lock.Tool = cliToolVersion

	installer := newDependencyInstaller(manifest, cacheDir)
	changed, logs, err := installer.Install(lock)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to resolve dependencies: %v\n", err)
		return 1
	}
	for _, line := range logs {
		fmt.Fprintln(os.Stdout, line)
	}

	if changed || lockCreated {
		action := "Updated"
		if lockCreated {
			action = "Created"
		}
		if err := driver.WriteLockfile(lock, lockPath); err != nil {
			fmt.Fprintf(os.Stderr, "failed to write lockfile: %v\n", err)
			return 1
		}
		fmt.Fprintf(os.Stdout, "%s package.lock: %s\n", action, lock.Path)
	} else {
		fmt.Fprintf(os.Stdout, "package.lock already up to date: %s\n", lock.Path)
	}
	return 0
}

func runDepsUpdate(targets []string) int {
	manifest, cacheDir, code := depsSetup()
	if code != 0 {
		return code
	}

	for _, target := range targets {
		if _, ok := manifest.Dependencies[target]; !ok {
			fmt.Fprintf(os.Stderr, "dependency %q not declared in manifest\n", target)
			return 1
		}
	}

	lockPath := filepath.Join(filepath.Dir(manifest.Path), "package.lock")
	lock, err := driver.LoadLockfile(lockPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			lock = driver.NewLockfile(manifest.Name, cliToolVersion)
			lock.Path = lockPath
		} else {
			fmt.Fprintf(os.Stderr, "failed to read lockfile: %v\n", err)
			return 1
		}
	}
	lock.Tool = cliToolVersion

	installer := newDependencyInstaller(manifest, cacheDir)
	changed, logs, err := installer.Update(lock, targets)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to update dependencies: %v\n", err)
		return 1
	}
	for _, line := range logs {
		fmt.Fprintln(os.Stdout, line)
	}

	if changed {
		if err := driver.WriteLockfile(lock, lockPath); err != nil {
			fmt.Fprintf(os.Stderr, "failed to write lockfile: %v\n", err)
			return 1
		}
		fmt.Fprintf(os.Stdout, "Updated package.lock: %s\n", lock.Path)
	} else {
		fmt.Fprintln(os.Stdout, "Dependencies already up to date.")
	}
	return 0
}

func depsSetup() (*driver.Manifest, string, int) {
	cwd, err := os.Getwd()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to determine working directory: %v\n", err)
		return nil, "", 1
	}
	manifestPath, err := findManifest(cwd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "unable to locate package.yml: %v\n", err)
		return nil, "", 1
	}
	manifest, err := driver.LoadManifest(manifestPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to read manifest: %v\n", err)
		return nil, "", 1
	}
	cacheDir, err := resolveL5Home()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to resolve L5_HOME: %v\n", err)
		return nil, "", 1
	}
	return manifest, cacheDir, 0
}

type dependencyInstaller struct {
	manifest     *driver.Manifest
	manifestRoot string
	cacheDir     string
	logs         []string
	git          *gitFetcher
}

func newDependencyInstaller(manifest *driver.Manifest, cacheDir string) *dependencyInstaller {
	var root string
	if manifest != nil {
		root = filepath.Dir(manifest.Path)
	}
	return &dependencyInstaller{
		manifest:     manifest,
		manifestRoot: root,
		cacheDir:     cacheDir,
		logs:         []string{},
		git:          newGitFetcher(cacheDir),
	}
}

// Install resolves every manifest dependency and folds the results into
// the lockfile. It reports whether the lockfile changed.
func (d *dependencyInstaller) Install(lock *driver.Lockfile) (bool, []string, error) {
	if d.manifest == nil {
		return false, d.logs, nil
	}

	names := make([]string, 0, len(d.manifest.Dependencies))
	for name := range d.manifest.Dependencies {
		names = append(names, name)
	}
	sort.Strings(names)

	changed := false
	for _, name := range names {
		spec := d.manifest.Dependencies[name]
		if spec == nil {
			return changed, d.logs, fmt.Errorf("dependency %q has no descriptor", name)
		}
		pkg, err := d.resolve(name, spec)
		if err != nil {
			return changed, d.logs, err
		}
		if lock.Upsert(pkg) {
			changed = true
		}
		d.logs = append(d.logs, fmt.Sprintf("Resolved %s %s (%s)", pkg.Name, pkg.Version, pkg.Source))
	}
	return changed, d.logs, nil
}

// Update re-resolves the named dependencies (all of them when none are
// named), dropping their locked entries first so pins are refreshed.
func (d *dependencyInstaller) Update(lock *driver.Lockfile, targets []string) (bool, []string, error) {
	if len(targets) == 0 {
		for name := range d.manifest.Dependencies {
			targets = append(targets, name)
		}
	}
	kept := lock.Packages[:0]
	stale := make(map[string]bool, len(targets))
	for _, name := range targets {
		stale[name] = true
	}
	for _, pkg := range lock.Packages {
		if pkg != nil && !stale[pkg.Name] {
			kept = append(kept, pkg)
		}
	}
	lock.Packages = kept
	return d.Install(lock)
}

func (d *dependencyInstaller) resolve(name string, spec *driver.DependencySpec) (*driver.LockedPackage, error) {
	switch {
	case spec.Path != "":
		return d.resolvePath(name, spec)
	case spec.Git != "":
		return d.git.Fetch(name, spec)
	default:
		return nil, fmt.Errorf("dependency %q declares no path or git source", name)
	}
}

func (d *dependencyInstaller) resolvePath(name string, spec *driver.DependencySpec) (*driver.LockedPackage, error) {
	depRoot := filepath.FromSlash(spec.Path)
	if !filepath.IsAbs(depRoot) {
		depRoot = filepath.Join(d.manifestRoot, depRoot)
	}
	info, err := os.Stat(depRoot)
	if err != nil {
		return nil, fmt.Errorf("dependency %q: path source %s: %w", name, depRoot, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("dependency %q: path source %s is not a directory", name, depRoot)
	}

	version := spec.Version
	if depManifest, err := driver.LoadManifest(filepath.Join(depRoot, "package.yml")); err == nil {
		if depManifest.Version != "" {
			version = depManifest.Version
		}
	}
	if version == "" {
		version = "0.0.0"
	}

	cacheSrc := filepath.Join(d.cacheDir, "pkg", "src", name, version)
	if err := copyOrSyncDir(depRoot, cacheSrc); err != nil {
		return nil, fmt.Errorf("dependency %q: sync %s -> %s: %w", name, depRoot, cacheSrc, err)
	}

	checksum, err := dirChecksum(depRoot)
	if err != nil {
		return nil, fmt.Errorf("dependency %q: checksum %s: %w", name, depRoot, err)
	}

	return &driver.LockedPackage{
		Name:     name,
		Version:  version,
		Source:   "path:" + spec.Path,
		Checksum: checksum,
	}, nil
}
