// Package git provides git context detection using go-git.
package git

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"

	"github.com/xvierd/tempo-cli/internal/ports"
)

// ErrNotRepository is returned when no repository encloses the directory.
var ErrNotRepository = errors.New("not inside a git repository")

// Detector implements the ports.GitDetector interface using go-git.
type Detector struct{}

// NewDetector creates a new git detector.
func NewDetector() *Detector {
	return &Detector{}
}

// Ensure Detector implements ports.GitDetector.
var _ ports.GitDetector = (*Detector)(nil)

// Detect opens the repository enclosing workingDir and reads HEAD.
// An empty workingDir means the process working directory.
func (d *Detector) Detect(ctx context.Context, workingDir string) (*ports.GitInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if workingDir == "" {
		var err error
		workingDir, err = os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}
	}

	repo, err := git.PlainOpenWithOptions(workingDir, &git.PlainOpenOptions{DetectDotGit: true})
	if errors.Is(err, git.ErrRepositoryNotExists) {
		return nil, ErrNotRepository
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open git repository: %w", err)
	}

	head, err := repo.Head()
	if errors.Is(err, plumbing.ErrReferenceNotFound) {
		// Fresh repository without commits: HEAD names a branch that has no ref yet.
		ref, refErr := repo.Reference(plumbing.HEAD, false)
		if refErr != nil {
			return nil, fmt.Errorf("failed to read HEAD: %w", refErr)
		}
		return &ports.GitInfo{
			Branch:     ref.Target().Short(),
			Repository: remoteName(repo),
		}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get HEAD: %w", err)
	}

	branch := head.Name().Short()
	if !head.Name().IsBranch() {
		branch = "HEAD detached"
	}

	return &ports.GitInfo{
		Branch:     branch,
		Commit:     head.Hash().String(),
		Repository: remoteName(repo),
	}, nil
}

func remoteName(repo *git.Repository) string {
	remotes, err := repo.Remotes()
	if err != nil || len(remotes) == 0 {
		return ""
	}
	urls := remotes[0].Config().URLs
	if len(urls) == 0 {
		return ""
	}
	return extractRepoName(urls[0])
}

// extractRepoName extracts the owner/repo part of a git URL.
func extractRepoName(url string) string {
	// Handle SSH URLs like git@github.com:user/repo.git
	if strings.HasPrefix(url, "git@") {
		parts := strings.Split(url, ":")
		if len(parts) >= 2 {
			return strings.TrimSuffix(parts[len(parts)-1], ".git")
		}
	}

	// Handle HTTPS URLs like https://github.com/user/repo.git
	if strings.HasPrefix(url, "http") {
		parts := strings.Split(strings.TrimSuffix(url, "/"), "/")
		if len(parts) >= 2 {
			repo := strings.TrimSuffix(parts[len(parts)-1], ".git")
			return parts[len(parts)-2] + "/" + repo
		}
	}

	return url
}

// ShortCommit returns a shortened commit hash.
func ShortCommit(commit string) string {
	if len(commit) > 7 {
		return commit[:7]
	}
	return commit
}
