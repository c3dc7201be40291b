// Package roster extracts people's names from a Markdown roster file.
//
// Names come from a YAML frontmatter "people" list and from bullet items
// in the body:
//
//	---
//	title: Platform team
//	people: [Ada, Bo]
//	---
//	- Carol
//	* Dan
package roster

import (
	"bytes"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

var bulletRe = regexp.MustCompile(`^\s*[-*+]\s+(.+?)\s*$`)

// Roster is the parsed content of a roster file.
type Roster struct {
	Title string
	Names []string
}

type frontmatter struct {
	Title  string   `yaml:"title"`
	People []string `yaml:"people"`
}

// Parse extracts a title and de-duplicated names (case-insensitive, first
// spelling wins) in the order they appear.
func Parse(data []byte) (*Roster, error) {
	fm, body, err := splitFrontmatter(data)
	if err != nil {
		return nil, err
	}

	r := &Roster{Title: deriveTitle(fm, body)}
	seen := make(map[string]struct{})
	add := func(name string) {
		name = strings.TrimSpace(name)
		if name == "" {
			return
		}
		k := strings.ToLower(name)
		if _, dup := seen[k]; dup {
			return
		}
		seen[k] = struct{}{}
		r.Names = append(r.Names, name)
	}

	for _, n := range fm.People {
		add(n)
	}
	for _, line := range strings.Split(body, "\n") {
		if m := bulletRe.FindStringSubmatch(line); m != nil {
			add(m[1])
		}
	}
	return r, nil
}

// splitFrontmatter separates YAML frontmatter (between leading --- delimiters)
// from the body. Without frontmatter the entire content is body.
func splitFrontmatter(data []byte) (frontmatter, string, error) {
	const delim = "---"
	var fm frontmatter
	trimmed := bytes.TrimLeft(data, "\n\r")

	if !bytes.HasPrefix(trimmed, []byte(delim)) {
		return fm, string(data), nil
	}

	rest := trimmed[len(delim):]
	idx := bytes.Index(rest, []byte("\n"+delim))
	if idx < 0 {
		return fm, string(data), nil
	}

	yamlBlock := rest[:idx]
	body := strings.TrimLeft(string(rest[idx+1+len(delim):]), "\n\r")

	if err := yaml.Unmarshal(yamlBlock, &fm); err != nil {
		return fm, "", err
	}
	return fm, body, nil
}

// deriveTitle returns the frontmatter title if present, otherwise the first
// H1 heading, otherwise empty string.
func deriveTitle(fm frontmatter, body string) string {
	if fm.Title != "" {
		return fm.Title
	}
	for _, line := range strings.Split(body, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "# ") {
			return strings.TrimSpace(trimmed[2:])
		}
	}
	return ""
}
