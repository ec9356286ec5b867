package main

import (
	"strings"
	"testing"
)

func TestFindViolations(t *testing.T) {
	input := `{"ImportPath": "github.com/exotic24-7/zephyrax.io/internal/sim", "Imports": ["github.com/exotic24-7/zephyrax.io/internal/state", "net/http"]}
{"ImportPath": "github.com/exotic24-7/zephyrax.io/internal/combat", "Imports": ["gorm.io/gorm", "math"]}
{"ImportPath": "github.com/exotic24-7/zephyrax.io/internal/net", "Imports": ["github.com/gorilla/websocket", "github.com/exotic24-7/zephyrax.io/internal/sim"]}
{"ImportPath": "github.com/exotic24-7/zephyrax.io/internal/simulated", "Imports": ["net/http"]}`

	pkgs, err := decodePackages(strings.NewReader(input))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(pkgs) != 4 {
		t.Fatalf("expected 4 packages, got %d", len(pkgs))
	}

	got := findViolations(pkgs)
	want := []string{
		"github.com/exotic24-7/zephyrax.io/internal/combat -> gorm.io/gorm",
		"github.com/exotic24-7/zephyrax.io/internal/sim -> net/http",
	}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("violation %d: expected %q, got %q", i, want[i], got[i])
		}
	}
}

func TestFindViolationsClean(t *testing.T) {
	pkgs := []packageInfo{{
		ImportPath: "github.com/exotic24-7/zephyrax.io/internal/waves",
		Imports:    []string{"github.com/exotic24-7/zephyrax.io/internal/rarity", "math/rand"},
	}}
	if got := findViolations(pkgs); len(got) != 0 {
		t.Fatalf("expected no violations, got %v", got)
	}
}
