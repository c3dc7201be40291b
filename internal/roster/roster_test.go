package roster

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseFrontmatterAndBullets(t *testing.T) {
	input := []byte(`---
title: Platform team
people:
  - Ada
  - Bo
---

Some intro text.

- Carol
* ada
+ Dan
`)
	r, err := Parse(input)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if r.Title != "Platform team" {
		t.Errorf("title = %q", r.Title)
	}
	if diff := cmp.Diff([]string{"Ada", "Bo", "Carol", "Dan"}, r.Names); diff != "" {
		t.Errorf("names (-want +got):\n%s", diff)
	}
}

func TestParseNoFrontmatter(t *testing.T) {
	r, err := Parse([]byte("# Interns\n\n-   Eve  \n- \nplain line\n"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if r.Title != "Interns" {
		t.Errorf("title = %q", r.Title)
	}
	if diff := cmp.Diff([]string{"Eve"}, r.Names); diff != "" {
		t.Errorf("names (-want +got):\n%s", diff)
	}
}

func TestParseUnclosedFrontmatter(t *testing.T) {
	r, err := Parse([]byte("---\ntitle: x\n- Zed\n"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if diff := cmp.Diff([]string{"Zed"}, r.Names); diff != "" {
		t.Errorf("names (-want +got):\n%s", diff)
	}
}

func TestParseInvalidYAML(t *testing.T) {
	if _, err := Parse([]byte("---\npeople: [unclosed\n---\n")); err == nil {
		t.Error("expected error for invalid frontmatter")
	}
}
