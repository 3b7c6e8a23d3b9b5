package changelog

import (
	"strings"
)

// Field layouts of the pretty formats below. Fields are joined with %x09 so
// git emits a literal tab between them.
const (
	commitFieldCount = 11
	tagFieldCount    = 6

	// tagMarker prefixes tag refs inside a %d decoration.
	tagMarker = "tag: "
)

var (
	// CommitFormat is the --pretty format for commit records:
	// hash, tree, author name/email/date, committer name/email/date, subject, body, parents.
	CommitFormat = joinFormat("%H", "%T", "%an", "%ae", "%aI", "%cn", "%ce", "%cI", "%s", "%b", "%P")

	// TagFormat is the --pretty format for decorated tag records:
	// hash, decorations, name, email, date, subject.
	TagFormat = joinFormat("%H", "%d", "%an", "%ae", "%aI", "%s")
)

func joinFormat(placeholders ...string) string {
	return strings.Join(placeholders, "%x09")
}

// ParseCommits parses output produced with CommitFormat.
// Blank lines between records are skipped and empty output yields no commits.
// A body spanning several lines is reassembled: a record closes once its last
// tab-separated field reads as a parents list and the next non-blank line
// starts another record. Lines that cannot start a record are dropped.
func ParseCommits(output string) []Commit {
	var commits []Commit
	var pending []string

	lines := strings.Split(output, "\n")
	for i, line := range lines {
		if pending == nil {
			if !startsRecord(line) {
				continue
			}
		}
		pending = append(pending, line)

		if recordComplete(pending) && nextStartsRecord(lines[i+1:]) {
			commits = append(commits, newCommit(pending))
			pending = nil
		}
	}

	if pending != nil {
		commits = append(commits, newCommit(pending))
	}

	return commits
}

// startsRecord reports whether line opens a commit record with a hex hash.
func startsRecord(line string) bool {
	sha, _, found := strings.Cut(line, "\t")
	return found && isHexSHA(sha)
}

func recordComplete(lines []string) bool {
	record := strings.Join(lines, "\n")
	if strings.Count(record, "\t") < commitFieldCount-1 {
		return false
	}
	return isParentList(record[strings.LastIndex(record, "\t")+1:])
}

func nextStartsRecord(rest []string) bool {
	for _, line := range rest {
		if strings.TrimSpace(line) != "" {
			// A full header runs through the subject.
			return startsRecord(line) && strings.Count(line, "\t") >= commitFieldCount-2
		}
	}
	return true
}

func isParentList(s string) bool {
	for _, sha := range strings.Fields(s) {
		if !isHexSHA(sha) {
			return false
		}
	}
	return strings.TrimSpace(s) == s
}

func isHexSHA(s string) bool {
	if s == "" || len(s) > 64 {
		return false
	}
	for _, r := range s {
		if !strings.ContainsRune("0123456789abcdef", r) {
			return false
		}
	}
	return true
}

// splitRecord cuts a reassembled record into its fields. The body may hold
// tabs and newlines; the parents field never does, so it is taken from the
// last tab.
func splitRecord(lines []string) []string {
	record := strings.Join(lines, "\n")
	fields := strings.SplitN(record, "\t", commitFieldCount-1)
	if len(fields) < commitFieldCount-1 {
		return fields
	}

	rest := fields[len(fields)-1]
	idx := strings.LastIndex(rest, "\t")
	if idx < 0 {
		return fields
	}
	fields[len(fields)-1] = rest[:idx]
	return append(fields, rest[idx+1:])
}

func newCommit(lines []string) Commit {
	fields := splitRecord(lines)
	field := func(i int) string {
		if i < len(fields) {
			return fields[i]
		}
		return ""
	}

	return Commit{
		SHA:     field(0),
		TreeSHA: field(1),
		Author: Person{
			Name:  field(2),
			Email: field(3),
			Date:  field(4),
		},
		Committer: Person{
			Name:  field(5),
			Email: field(6),
			Date:  field(7),
		},
		Subject:    field(8),
		Body:       strings.TrimRight(field(9), "\n"),
		ParentSHAs: parseParents(field(10)),
	}
}

func parseParents(s string) []string {
	parents := strings.Fields(s)
	if parents == nil {
		return []string{}
	}
	return parents
}

// ParseTags parses output produced with TagFormat. Lines that do not have
// exactly six fields, or whose decoration carries no tag ref, are dropped:
// decorated history also contains branch heads and plain commits.
func ParseTags(output string) []*Tag {
	var tags []*Tag

	for _, line := range strings.Split(output, "\n") {
		fields := strings.Split(line, "\t")
		if len(fields) != tagFieldCount || !strings.Contains(fields[1], tagMarker) {
			continue
		}

		name := tagName(fields[1])
		if name == "" {
			continue
		}

		tags = append(tags, &Tag{
			SHA:     fields[0],
			Name:    name,
			Message: fields[5],
			Tagger: Person{
				Name:  fields[2],
				Email: fields[3],
				Date:  fields[4],
			},
			CommitSHAs: []string{},
		})
	}

	return tags
}

// tagName extracts the first tag name from a decoration such as
// " (HEAD -> main, tag: v1.2.0, tag: latest, origin/main)".
func tagName(decoration string) string {
	refs := strings.NewReplacer("(", "", ")", "").Replace(decoration)

	for _, ref := range strings.Split(refs, ",") {
		ref = strings.TrimSpace(ref)
		if !strings.Contains(ref, tagMarker) {
			continue
		}
		if name := strings.TrimSpace(strings.Replace(ref, tagMarker, "", 1)); name != "" {
			return name
		}
	}

	return ""
}
