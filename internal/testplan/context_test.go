// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-08-18
// Last Modified: 2026-08-23

package testplan

import "testing"

func TestSplitContext(t *testing.T) {
	tests := []struct {
		input string
		want  Ref
	}{
		{"myos", Ref{ImageScenario: "myos"}},
		{"myos/scen", Ref{ImageScenario: "myos/scen"}},
		{"myos@owner/repo", Ref{ImageScenario: "myos", ForeignRepo: "owner/repo"}},
		{"myos/scen@owner/repo", Ref{ImageScenario: "myos/scen", ForeignRepo: "owner/repo"}},
		{"myos@owner/repo/branch", Ref{ImageScenario: "myos", ForeignRepo: "owner/repo", ForeignBranch: "branch"}},
		{"myos@bots#1234", Ref{ImageScenario: "myos", PRNumber: 1234, HasPR: true}},
		{"myos/scen@bots#1234", Ref{ImageScenario: "myos/scen", PRNumber: 1234, HasPR: true}},
		{"myos/scen@bots#1234@owner/repo", Ref{ImageScenario: "myos/scen", PRNumber: 1234, HasPR: true, ForeignRepo: "owner/repo"}},
		{"myos/scen@bots#1234@owner/repo/branch", Ref{ImageScenario: "myos/scen", PRNumber: 1234, HasPR: true, ForeignRepo: "owner/repo", ForeignBranch: "branch"}},
		{"a@b/c#12@d/e/f", Ref{ImageScenario: "a", PRNumber: 12, HasPR: true, ForeignRepo: "d/e", ForeignBranch: "f"}},
		// partial references
		{"myos@owner", Ref{ImageScenario: "myos", ForeignRepo: "owner"}},
		{"myos@", Ref{ImageScenario: "myos"}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := SplitContext(tt.input)
			if err != nil {
				t.Fatalf("SplitContext(%q) returned error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("SplitContext(%q) = %+v, want %+v", tt.input, got, tt.want)
			}
		})
	}
}

func TestSplitContextNoReference(t *testing.T) {
	// Any string without "@" comes back unchanged with no reference fields.
	for _, input := range []string{"", "plain", "image/scenario", "weird#1234", "a/b/c/d"} {
		got, err := SplitContext(input)
		if err != nil {
			t.Fatalf("SplitContext(%q) returned error: %v", input, err)
		}
		want := Ref{ImageScenario: input}
		if got != want {
			t.Errorf("SplitContext(%q) = %+v, want %+v", input, got, want)
		}
	}
}

func TestSplitContextMalformedPRNumber(t *testing.T) {
	for _, input := range []string{"myos@bots#abc", "myos@bots#", "myos@bots#12x"} {
		if _, err := SplitContext(input); err == nil {
			t.Errorf("SplitContext(%q) expected error for non-numeric PR number", input)
		}
	}
}

func TestRefImageScenario(t *testing.T) {
	ref := Ref{ImageScenario: "myos/scen"}
	if ref.Image() != "myos" {
		t.Errorf("Image() = %q, want %q", ref.Image(), "myos")
	}
	if ref.Scenario() != "scen" {
		t.Errorf("Scenario() = %q, want %q", ref.Scenario(), "scen")
	}

	bare := Ref{ImageScenario: "myos"}
	if bare.Image() != "myos" || bare.Scenario() != "" {
		t.Errorf("bare image: Image() = %q, Scenario() = %q", bare.Image(), bare.Scenario())
	}
}

func TestSplitRepoSlug(t *testing.T) {
	tests := []struct {
		slug       string
		wantRepo   string
		wantBranch string
	}{
		{"owner/repo", "owner/repo", ""},
		{"owner/repo/branch", "owner/repo", "branch"},
		{"owner", "owner", ""},
	}

	for _, tt := range tests {
		repo, branch := SplitRepoSlug(tt.slug)
		if repo != tt.wantRepo || branch != tt.wantBranch {
			t.Errorf("SplitRepoSlug(%q) = (%q, %q), want (%q, %q)",
				tt.slug, repo, branch, tt.wantRepo, tt.wantBranch)
		}
	}
}
