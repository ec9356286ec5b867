// Command depscheck fails when a simulation core package imports transport,
// persistence or rendering code.
package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sort"
	"strings"
)

const modulePath = "github.com/exotic24-7/zephyrax.io"

type packageInfo struct {
	ImportPath string
	Imports    []string
}

// corePackages hold the deterministic simulation.
var corePackages = []string{
	modulePath + "/internal/ai",
	modulePath + "/internal/catalog",
	modulePath + "/internal/combat",
	modulePath + "/internal/physics",
	modulePath + "/internal/rarity",
	modulePath + "/internal/sim",
	modulePath + "/internal/state",
	modulePath + "/internal/waves",
}

// forbidden lists import prefixes the core must not reach.
var forbidden = []string{
	modulePath + "/internal/app",
	modulePath + "/internal/net",
	modulePath + "/internal/store",
	modulePath + "/internal/viewer",
	modulePath + "/logging/sinks",
	"github.com/gorilla/websocket",
	"github.com/gdamore/tcell",
	"gorm.io/",
	"net/http",
}

func main() {
	cmd := exec.Command("go", "list", "-json", "./internal/...")
	cmd.Env = os.Environ()
	output, err := cmd.Output()
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			os.Stderr.Write(exitErr.Stderr)
		}
		fmt.Fprintf(os.Stderr, "depscheck: failed to list packages: %v\n", err)
		os.Exit(1)
	}

	pkgs, err := decodePackages(bytes.NewReader(output))
	if err != nil {
		fmt.Fprintf(os.Stderr, "depscheck: failed to decode package info: %v\n", err)
		os.Exit(1)
	}

	if violations := findViolations(pkgs); len(violations) > 0 {
		fmt.Fprintln(os.Stderr, "depscheck: found forbidden imports:")
		for _, violation := range violations {
			fmt.Fprintf(os.Stderr, "  %s\n", violation)
		}
		os.Exit(1)
	}
}

func decodePackages(r io.Reader) ([]packageInfo, error) {
	decoder := json.NewDecoder(r)
	var pkgs []packageInfo
	for {
		var pkg packageInfo
		if err := decoder.Decode(&pkg); err != nil {
			if errors.Is(err, io.EOF) {
				return pkgs, nil
			}
			return nil, err
		}
		pkgs = append(pkgs, pkg)
	}
}

func findViolations(pkgs []packageInfo) []string {
	var violations []string
	for _, pkg := range pkgs {
		if !isCore(pkg.ImportPath) {
			continue
		}
		for _, imp := range pkg.Imports {
			for _, prefix := range forbidden {
				if strings.HasPrefix(imp, prefix) {
					violations = append(violations, fmt.Sprintf("%s -> %s", pkg.ImportPath, imp))
					break
				}
			}
		}
	}
	sort.Strings(violations)
	return violations
}

func isCore(path string) bool {
	for _, core := range corePackages {
		if path == core || strings.HasPrefix(path, core+"/") {
			return true
		}
	}
	return false
}
