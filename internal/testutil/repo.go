package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// fixtureEpoch is the author time of the first fixture commit. Each later
// commit is one minute newer so history order is deterministic.
var fixtureEpoch = time.Date(2024, 3, 1, 10, 0, 0, 0, time.FixedZone("CET", 3600))

// Repo is a throwaway repository built with go-git for tests.
type Repo struct {
	t    *testing.T
	Dir  string
	repo *git.Repository
	tick int
}

// NewRepo initialises an empty repository in a temp directory.
func NewRepo(t *testing.T) *Repo {
	t.Helper()

	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	if err != nil {
		t.Fatalf("init repository: %v", err)
	}

	return &Repo{t: t, Dir: dir, repo: repo}
}

func (r *Repo) signature() *object.Signature {
	return &object.Signature{
		Name:  "Ada Lovelace",
		Email: "ada@example.com",
		When:  fixtureEpoch.Add(time.Duration(r.tick) * time.Minute),
	}
}

// Commit writes a file and commits it on the current branch. It returns the
// commit SHA.
func (r *Repo) Commit(message string) string {
	r.t.Helper()
	return r.commit(message, nil)
}

// Merge commits with the given parents, producing a merge commit when more
// than one is passed.
func (r *Repo) Merge(message string, parents ...string) string {
	r.t.Helper()

	hashes := make([]plumbing.Hash, len(parents))
	for i, p := range parents {
		hashes[i] = plumbing.NewHash(p)
	}
	return r.commit(message, hashes)
}

func (r *Repo) commit(message string, parents []plumbing.Hash) string {
	r.t.Helper()

	wt, err := r.repo.Worktree()
	if err != nil {
		r.t.Fatalf("worktree: %v", err)
	}

	r.tick++
	name := fmt.Sprintf("file-%03d.txt", r.tick)
	if err := os.WriteFile(filepath.Join(r.Dir, name), []byte(message+"\n"), 0o644); err != nil {
		r.t.Fatalf("write %s: %v", name, err)
	}
	if _, err := wt.Add(name); err != nil {
		r.t.Fatalf("add %s: %v", name, err)
	}

	sig := r.signature()
	hash, err := wt.Commit(message, &git.CommitOptions{
		Author:    sig,
		Committer: sig,
		Parents:   parents,
	})
	if err != nil {
		r.t.Fatalf("commit %q: %v", message, err)
	}
	return hash.String()
}

// Tag creates a lightweight tag at HEAD.
func (r *Repo) Tag(name string) {
	r.t.Helper()
	r.createTag(name, nil)
}

// AnnotatedTag creates an annotated tag at HEAD.
func (r *Repo) AnnotatedTag(name, message string) {
	r.t.Helper()
	r.createTag(name, &git.CreateTagOptions{Tagger: r.signature(), Message: message})
}

func (r *Repo) createTag(name string, opts *git.CreateTagOptions) {
	r.t.Helper()

	head, err := r.repo.Head()
	if err != nil {
		r.t.Fatalf("HEAD: %v", err)
	}
	if _, err := r.repo.CreateTag(name, head.Hash(), opts); err != nil {
		r.t.Fatalf("tag %s: %v", name, err)
	}
}

// SetOrigin configures the origin remote URL.
func (r *Repo) SetOrigin(url string) {
	r.t.Helper()

	_, err := r.repo.CreateRemote(&config.RemoteConfig{Name: "origin", URLs: []string{url}})
	if err != nil {
		r.t.Fatalf("create origin: %v", err)
	}
}
