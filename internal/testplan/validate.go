// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-08-18
// Last Modified: 2026-08-23

package testplan

import (
	"context"
	"strings"
)

// PRBranchResolver maps a pull request number to its current head branch.
// Implemented by the GitHub client; injected so the validator itself stays
// free of network access.
type PRBranchResolver interface {
	ResolvePRBranch(ctx context.Context, repo string, number int) (string, error)
}

// Validator answers whether a context is a legitimate, currently-defined CI
// job for a repository. It is a pure lookup over an immutable Plan and is
// safe for concurrent use.
type Validator struct {
	plan *Plan
}

// NewValidator creates a Validator over the given plan.
func NewValidator(plan *Plan) *Validator {
	return &Validator{plan: plan}
}

// IsValidContext reports whether context names a defined CI job for repo.
// The repo slug may carry a pinned branch ("owner/name/branch"); otherwise
// the repository's default branch is evaluated.
//
// All failure modes reject rather than error: malformed syntax, unknown
// repositories, unknown branches, and non-numeric PR segments all return
// false. Lookups are always scoped to the effective repository, so a
// repository with no entries of its own rejects every same-repo context
// even when the image name exists elsewhere in the plan.
//
// PR-numbered contexts ("image@label#123") are an approximation here:
// resolving the PR's head branch needs a network call, so the context is
// accepted when it is defined on any branch of the repository. Callers that
// can reach the API should use IsValidContextForPR instead.
func (v *Validator) IsValidContext(contextStr, repo string) bool {
	ref, err := SplitContext(contextStr)
	if err != nil {
		return false
	}

	targetRepo, targetBranch := SplitRepoSlug(repo)
	if ref.ForeignRepo != "" {
		targetRepo = ref.ForeignRepo
		targetBranch = ref.ForeignBranch
	}

	rp, ok := v.plan.Repo(targetRepo)
	if !ok {
		return false
	}

	if ref.HasPR && ref.ForeignRepo == "" {
		for _, contexts := range rp.Branches {
			if matchBranchContext(ref.ImageScenario, contexts) {
				return true
			}
		}
		return matchManualContext(ref.ImageScenario, rp.Manual)
	}

	if targetBranch == "" {
		targetBranch = rp.defaultBranch()
	}
	return matchBranchContext(ref.ImageScenario, rp.Branches[targetBranch]) ||
		matchManualContext(ref.ImageScenario, rp.Manual)
}

// IsValidContextForPR is IsValidContext with full PR resolution: when the
// context carries a PR number and a resolver is available, the PR's head
// branch is looked up and the context checked against that branch (manual
// contexts included). Resolution failures reject.
func (v *Validator) IsValidContextForPR(ctx context.Context, contextStr, repo string, resolver PRBranchResolver) bool {
	ref, err := SplitContext(contextStr)
	if err != nil {
		return false
	}
	if !ref.HasPR || ref.ForeignRepo != "" || resolver == nil {
		return v.IsValidContext(contextStr, repo)
	}

	targetRepo, _ := SplitRepoSlug(repo)
	rp, ok := v.plan.Repo(targetRepo)
	if !ok {
		return false
	}

	branch, err := resolver.ResolvePRBranch(ctx, targetRepo, ref.PRNumber)
	if err != nil || branch == "" {
		return false
	}
	return matchBranchContext(ref.ImageScenario, rp.Branches[branch]) ||
		matchManualContext(ref.ImageScenario, rp.Manual)
}

// matchBranchContext reports whether imageScenario matches an entry in a
// branch context list. Branch lists match by image: any entry under the
// query's image accepts, so a listed image authorizes every scenario not
// explicitly enumerated.
func matchBranchContext(imageScenario string, contexts []string) bool {
	image, _, _ := strings.Cut(imageScenario, "/")
	for _, entry := range contexts {
		entryImage, _, _ := strings.Cut(entry, "/")
		if entryImage == image {
			return true
		}
	}
	return false
}

// matchManualContext reports whether imageScenario matches an entry in the
// manual list. Manual entries are stricter than branch entries: a pair
// entry accepts only its exact scenario. A bare-image entry still
// authorizes every scenario, and a bare-image query matches any entry
// under that image.
func matchManualContext(imageScenario string, contexts []string) bool {
	image, _, hasScenario := strings.Cut(imageScenario, "/")
	for _, entry := range contexts {
		if entry == imageScenario || entry == image {
			return true
		}
		if !hasScenario {
			entryImage, _, _ := strings.Cut(entry, "/")
			if entryImage == imageScenario {
				return true
			}
		}
	}
	return false
}
