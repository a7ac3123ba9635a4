// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-08-18
// Last Modified: 2026-08-23

// Package testplan decides which CI contexts are defined for which
// repositories and branches. A context names an image plus an optional
// scenario, and may be qualified with a reference to a foreign
// repository/branch or to a pull request of the current repository.
package testplan

import (
	"fmt"
	"strconv"
	"strings"
)

// Ref is a context identifier decomposed into its fields.
//
// The compact form is:
//
//	<image>[/<scenario>][@<owner>/<repo>[#<pr-number>]][/<branch>]
//
// PRNumber and ForeignRepo are mutually exclusive ways of naming the
// alternate source that defines the context: the PR form carries no branch
// suffix, the repo form may carry one.
type Ref struct {
	// ImageScenario is "<image>" or "<image>/<scenario>". Always set.
	ImageScenario string

	// PRNumber is the pull request number of a "#<digits>" reference.
	// Only meaningful when HasPR is true.
	PRNumber int
	HasPR    bool

	// ForeignRepo is an "owner/repo" slug when the context refers to a
	// different repository. Empty for same-repo contexts.
	ForeignRepo string

	// ForeignBranch qualifies ForeignRepo with a branch name.
	ForeignBranch string
}

// Image returns the image part of ImageScenario.
func (r Ref) Image() string {
	image, _, _ := strings.Cut(r.ImageScenario, "/")
	return image
}

// Scenario returns the scenario part of ImageScenario, or "" if the
// context names a bare image.
func (r Ref) Scenario() string {
	_, scenario, _ := strings.Cut(r.ImageScenario, "/")
	return scenario
}

// SplitContext decomposes a context identifier. It is total over any input
// string: the only reported error is a non-numeric value in the "#"
// position, which marks the whole context as malformed.
//
// The reference part after the first "@" is parsed in order: a "#" splits
// off the PR number (the label before the "#" is a display shorthand and is
// discarded), and a second "@" after the number is tolerated, its trailing
// portion still parsed as "owner/repo[/branch]".
func SplitContext(context string) (Ref, error) {
	ref := Ref{ImageScenario: context}

	imageScenario, reference, found := strings.Cut(context, "@")
	if !found {
		return ref, nil
	}
	ref.ImageScenario = imageScenario

	if _, after, ok := strings.Cut(reference, "#"); ok {
		number, trailer, _ := strings.Cut(after, "@")
		pr, err := strconv.Atoi(number)
		if err != nil {
			return Ref{}, fmt.Errorf("malformed PR number %q in context %q", number, context)
		}
		ref.PRNumber = pr
		ref.HasPR = true
		if trailer == "" {
			return ref, nil
		}
		reference = trailer
	}

	// Up to three segments: the first two form "owner/repo", the rest is
	// the branch name.
	parts := strings.SplitN(reference, "/", 3)
	if len(parts) >= 2 {
		ref.ForeignRepo = parts[0] + "/" + parts[1]
	} else {
		ref.ForeignRepo = parts[0]
	}
	if len(parts) == 3 {
		ref.ForeignBranch = parts[2]
	}
	return ref, nil
}

// SplitRepoSlug splits a repository slug into "owner/name" and an optional
// pinned branch. Slugs may carry an appended branch segment
// ("owner/name/branch") to force evaluation against that branch instead of
// the repository default.
func SplitRepoSlug(slug string) (repo, branch string) {
	parts := strings.SplitN(slug, "/", 3)
	if len(parts) < 2 {
		return slug, ""
	}
	repo = parts[0] + "/" + parts[1]
	if len(parts) == 3 {
		branch = parts[2]
	}
	return repo, branch
}
