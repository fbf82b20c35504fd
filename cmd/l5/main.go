package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"l5/checker-go/pkg/driver"
	"l5/checker-go/pkg/typechecker"
)

const cliToolVersion = "l5-cli 0.1.0-dev"

var errManifestNotFound = errors.New("package.yml not found")

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	if len(args) == 0 {
		printUsage()
		return 1
	}

	switch args[0] {
	case "--help", "-h":
		printUsage()
		return 0
	case "--version", "-V", "version":
		fmt.Fprintln(os.Stdout, cliToolVersion)
		return 0
	case "type":
		return runType(args[1:])
	case "repl":
		return runRepl()
	case "deps":
		return runDeps(args[1:])
	default:
		return runType(args)
	}
}

func runType(args []string) int {
	if len(args) >= 1 && args[0] == "-e" {
		if len(args) < 2 {
			fmt.Fprintln(os.Stderr, "l5 type -e requires a source argument")
			return 1
		}
		return checkSource(strings.Join(args[1:], " "))
	}

	if len(args) == 1 && looksLikePathCandidate(args[0]) {
		return checkFile(args[0])
	}

	manifest, err := loadManifestFrom(".")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load manifest: %v\n", err)
		return 1
	}

	var target *driver.TargetSpec
	switch len(args) {
	case 0:
		target, err = manifest.DefaultTarget()
		if err != nil {
			fmt.Fprintf(os.Stderr, "manifest error: %v\n", err)
			return 1
		}
	case 1:
		var ok bool
		target, ok = manifest.FindTarget(args[0])
		if !ok {
			fmt.Fprintf(os.Stderr, "manifest %q has no target %q\n", manifest.Name, args[0])
			return 1
		}
	default:
		fmt.Fprintf(os.Stderr, "l5 type takes at most one target (received %s)\n", strings.Join(args, " "))
		return 1
	}

	return checkFile(resolveTargetMain(manifest, target))
}

func checkFile(path string) int {
	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to read %s: %v\n", path, err)
		return 1
	}
	return checkSource(string(data))
}

func checkSource(src string) int {
	typeStr, err := typechecker.CheckSourceType(strings.TrimSpace(src))
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return 1
	}
	fmt.Fprintln(os.Stdout, typeStr)
	return 0
}

func looksLikePathCandidate(arg string) bool {
	if arg == "" {
		return false
	}
	if strings.Contains(arg, string(os.PathSeparator)) || strings.Contains(arg, "/") {
		return true
	}
	if filepath.Ext(arg) == ".l5" {
		return true
	}
	return strings.HasPrefix(arg, ".")
}

func loadManifestFrom(start string) (*driver.Manifest, error) {
	if start == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("resolve working directory: %w", err)
		}
		start = cwd
	}
	manifestPath, err := findManifest(start)
	if err != nil {
		return nil, err
	}
	return driver.LoadManifest(manifestPath)
}

func findManifest(start string) (string, error) {
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", fmt.Errorf("resolve start directory %q: %w", start, err)
	}
	if info, statErr := os.Stat(dir); statErr == nil && !info.IsDir() {
		dir = filepath.Dir(dir)
	}
	origin := dir
	for {
		candidate := filepath.Join(dir, "package.yml")
		info, err := os.Stat(candidate)
		if err == nil && !info.IsDir() {
			return candidate, nil
		}
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return "", err
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("no package.yml found from %s upwards: %w", origin, errManifestNotFound)
		}
		dir = parent
	}
}

func resolveTargetMain(manifest *driver.Manifest, target *driver.TargetSpec) string {
	mainPath := filepath.FromSlash(target.Main)
	if filepath.IsAbs(mainPath) {
		return filepath.Clean(mainPath)
	}
	return filepath.Join(filepath.Dir(manifest.Path), mainPath)
}

func resolveL5Home() (string, error) {
	if home := strings.TrimSpace(os.Getenv("L5_HOME")); home != "" {
		abs, err := filepath.Abs(home)
		if err != nil {
			return "", fmt.Errorf("resolve L5_HOME %q: %w", home, err)
		}
		return abs, nil
	}
	userHome, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve user home: %w", err)
	}
	return filepath.Join(userHome, ".l5"), nil
}

func printUsage() {
	fmt.Fprintln(os.Stderr, "Usage:")
	fmt.Fprintln(os.Stderr, "  l5 type [target]")
	fmt.Fprintln(os.Stderr, "  l5 type <file.l5>")
	fmt.Fprintln(os.Stderr, "  l5 type -e <source>")
	fmt.Fprintln(os.Stderr, "  l5 <file.l5>")
	fmt.Fprintln(os.Stderr, "  l5 repl")
	fmt.Fprintln(os.Stderr, "  l5 deps install")
	fmt.Fprintln(os.Stderr, "  l5 deps update [dependency ...]")
}
