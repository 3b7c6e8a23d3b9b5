package changelog

import (
	"fmt"
	"sort"
	"strings"
)

// TagNotFoundError is returned when a requested tag isn't part of the changelog.
type TagNotFoundError struct {
	Tag           string
	AvailableTags []string
}

func (e *TagNotFoundError) Error() string {
	return fmt.Sprintf("tag %q not found (available: %s)",
		e.Tag, strings.Join(e.AvailableTags, ", "))
}

// GetTag retrieves a tag by name.
// Returns TagNotFoundError if the tag isn't in the changelog.
func (c *Changelog) GetTag(name string) (*Tag, error) {
	for _, t := range c.Tags {
		if t.Name == name {
			return t, nil
		}
	}

	return nil, &TagNotFoundError{
		Tag:           name,
		AvailableTags: c.ListTags(),
	}
}

// ListTags returns the tag names in changelog order (newest first).
func (c *Changelog) ListTags() []string {
	names := make([]string, len(c.Tags))
	for i, t := range c.Tags {
		names[i] = t.Name
	}
	return names
}

// CommitsFor returns the commits of a tag's release window, newest first.
func (c *Changelog) CommitsFor(t *Tag) []Commit {
	commits := make([]Commit, 0, len(t.CommitSHAs))
	for _, sha := range t.CommitSHAs {
		if commit, ok := c.Commits[sha]; ok {
			commits = append(commits, commit)
		}
	}
	return commits
}

// OrderedSHAs returns every commit SHA in changelog order: tags in order, each
// tag's commits newest first, then any commit not referenced by a tag in
// lexical order. Each SHA appears once.
func (c *Changelog) OrderedSHAs() []string {
	seen := make(map[string]bool, len(c.Commits))
	shas := make([]string, 0, len(c.Commits))

	for _, t := range c.Tags {
		for _, sha := range t.CommitSHAs {
			if seen[sha] {
				continue
			}
			if _, ok := c.Commits[sha]; !ok {
				continue
			}
			seen[sha] = true
			shas = append(shas, sha)
		}
	}

	var rest []string
	for sha := range c.Commits {
		if !seen[sha] {
			rest = append(rest, sha)
		}
	}
	sort.Strings(rest)

	return append(shas, rest...)
}

// Validate checks the structural invariants of a built changelog: tag names
// are unique and every SHA listed under a tag is present in Commits.
func (c *Changelog) Validate() error {
	seen := make(map[string]bool, len(c.Tags))

	for _, t := range c.Tags {
		if seen[t.Name] {
			return fmt.Errorf("duplicate tag %q", t.Name)
		}
		seen[t.Name] = true

		for _, sha := range t.CommitSHAs {
			if _, ok := c.Commits[sha]; !ok {
				return fmt.Errorf("tag %q references unknown commit %s", t.Name, sha)
			}
		}
	}

	return nil
}
