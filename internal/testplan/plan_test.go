// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-08-18
// Last Modified: 2026-08-23

package testplan

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

const planYAML = `
repositories:
  acme/console:
    default_branch: main
    branches:
      main:
        - debian-testing
        - arch/networking
      rhel-7.9:
        - centos-7
    manual:
      - fedora-rawhide
  acme/bots: {}
`

func TestParse(t *testing.T) {
	plan, err := Parse([]byte(planYAML))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	rp, ok := plan.Repo("acme/console")
	if !ok {
		t.Fatal("expected acme/console in plan")
	}
	if rp.DefaultBranch != "main" {
		t.Errorf("DefaultBranch = %q, want %q", rp.DefaultBranch, "main")
	}
	if got := rp.Branches["main"]; !reflect.DeepEqual(got, []string{"debian-testing", "arch/networking"}) {
		t.Errorf("main branch contexts = %v", got)
	}
	if got := rp.Manual; !reflect.DeepEqual(got, []string{"fedora-rawhide"}) {
		t.Errorf("manual contexts = %v", got)
	}

	if _, ok := plan.Repo("acme/bots"); !ok {
		t.Error("expected acme/bots in plan even with no contexts")
	}
	if _, ok := plan.Repo("acme/unknown"); ok {
		t.Error("unexpected repository in plan")
	}
}

func TestParseExpandsEnv(t *testing.T) {
	t.Setenv("TESTPLAN_BRANCH", "release-1")

	plan, err := Parse([]byte(`
repositories:
  acme/console:
    branches:
      ${TESTPLAN_BRANCH}:
        - debian-testing
`))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	rp, _ := plan.Repo("acme/console")
	if _, ok := rp.Branches["release-1"]; !ok {
		t.Errorf("expected expanded branch name, got %v", rp.Branches)
	}
}

func TestParseInvalid(t *testing.T) {
	if _, err := Parse([]byte("repositories: [not, a, mapping")); err == nil {
		t.Error("expected error for invalid YAML")
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "testplan.yaml")
	if err := os.WriteFile(path, []byte(planYAML), 0o644); err != nil {
		t.Fatal(err)
	}

	plan, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if _, ok := plan.Repo("acme/console"); !ok {
		t.Error("expected acme/console in loaded plan")
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestContexts(t *testing.T) {
	plan := New(map[string]RepoPlan{
		"acme/console": {
			Branches: map[string][]string{
				// no default_branch set, "main" is assumed
				"main": {"debian-testing", "arch/networking", "debian-testing"},
			},
			Manual: []string{"fedora-rawhide", "arch/networking"},
		},
	})

	got := plan.Contexts("acme/console")
	want := []string{"debian-testing", "arch/networking", "fedora-rawhide"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Contexts = %v, want %v", got, want)
	}

	if got := plan.Contexts("acme/unknown"); got != nil {
		t.Errorf("Contexts for unknown repo = %v, want nil", got)
	}
}
