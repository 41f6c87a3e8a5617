//go:build mage

// Package main provides build targets for casefile using Mage.
//
// Usage:
//
//	mage build     Compile the casefile binary to bin/
//	mage test      Run all tests
//	mage cover     Run tests with a coverage profile in bin/
//	mage lint      Run go vet and golangci-lint
//	mage smoke     Build, then drive the binary against a scratch store
//	mage clean     Remove build artifacts
//	mage install   Install casefile to GOPATH/bin
//	mage stats     Print Go lines of code per package
package main

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const (
	binaryName = "casefile"
	binaryDir  = "bin"
	cmdDir     = "./cmd/casefile"
	coverFile  = "coverage.out"
)

var binaryPath = filepath.Join(binaryDir, binaryName)

// Build compiles the casefile binary to bin/.
func Build() error {
	if err := os.MkdirAll(binaryDir, 0o755); err != nil {
		return err
	}
	return sh.RunV("go", "build", "-v", "-o", binaryPath, cmdDir)
}

// Test runs every package's tests.
func Test() error {
	return sh.RunV("go", "test", "./...")
}

// Cover runs the tests with a coverage profile and prints the per-function
// summary.
func Cover() error {
	if err := os.MkdirAll(binaryDir, 0o755); err != nil {
		return err
	}
	profile := filepath.Join(binaryDir, coverFile)
	if err := sh.RunV("go", "test", "-coverprofile="+profile, "./..."); err != nil {
		return err
	}
	return sh.RunV("go", "tool", "cover", "-func="+profile)
}

// Lint runs go vet, then golangci-lint.
func Lint() error {
	if err := sh.RunV("go", "vet", "./..."); err != nil {
		return err
	}
	return sh.RunV("golangci-lint", "run", "./...")
}

// Smoke builds the binary and runs a short session against a scratch
// store: init, add two linked cases, summarize, export, and migrate again.
func Smoke() error {
	mg.Deps(Build)

	scratch, err := os.MkdirTemp("", "casefile-smoke-*")
	if err != nil {
		return err
	}
	defer os.RemoveAll(scratch)

	run := func(args ...string) error {
		base := []string{"--config-dir", filepath.Join(scratch, "config"), "--data-dir", filepath.Join(scratch, "data")}
		return sh.RunV(binaryPath, append(base, args...)...)
	}
	steps := [][]string{
		{"init"},
		{"case", "add", "--title", "Smoke test burglary", "--date", "2023-01-02", "--crime-type", "Burglary", "--scene-lat", "51.5", "--scene-lon", "-0.12"},
		{"case", "add", "--title", "Smoke test theft", "--date", "2023-01-09", "--crime-type", "Theft", "--crime-type", "Burglary"},
		{"link", "cases", "1", "2", "--note", "same street"},
		{"case", "list"},
		{"network"},
		{"summary"},
		{"export", filepath.Join(scratch, "export")},
		{"migrate", "--status"},
	}
	for _, step := range steps {
		if err := run(step...); err != nil {
			return fmt.Errorf("casefile %s: %w", strings.Join(step, " "), err)
		}
	}
	return nil
}

// Clean removes build artifacts.
func Clean() error {
	if err := os.RemoveAll(binaryDir); err != nil {
		return err
	}
	return sh.RunV("go", "clean")
}

// Install builds and copies the binary to GOPATH/bin.
func Install() error {
	mg.Deps(Build)
	gopath, err := sh.Output("go", "env", "GOPATH")
	if err != nil {
		return err
	}
	return sh.Copy(filepath.Join(gopath, "bin", binaryName), binaryPath)
}

// Stats prints production and test lines of Go per package directory.
func Stats() error {
	type counts struct{ prod, test int }
	perDir := map[string]*counts{}

	err := filepath.WalkDir(".", func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			name := d.Name()
			if path != "." && (path == binaryDir || path == "magefiles" || strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_")) {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(path, ".go") {
			return nil
		}
		n, err := countLines(path)
		if err != nil {
			return nil
		}
		dir := filepath.Dir(path)
		if perDir[dir] == nil {
			perDir[dir] = &counts{}
		}
		if strings.HasSuffix(path, "_test.go") {
			perDir[dir].test += n
		} else {
			perDir[dir].prod += n
		}
		return nil
	})
	if err != nil {
		return err
	}

	dirs := make([]string, 0, len(perDir))
	for dir := range perDir {
		dirs = append(dirs, dir)
	}
	sort.Strings(dirs)

	var total counts
	fmt.Printf("%-20s %8s %8s\n", "PACKAGE", "PROD", "TEST")
	for _, dir := range dirs {
		c := perDir[dir]
		fmt.Printf("%-20s %8d %8d\n", dir, c.prod, c.test)
		total.prod += c.prod
		total.test += c.test
	}
	fmt.Printf("%-20s %8d %8d\n", "total", total.prod, total.test)
	return nil
}

func countLines(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	count := 0
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		count++
	}
	return count, scanner.Err()
}
