// Package input parses the two small text formats the CLI accepts:
// term-group files (one comma-separated group per line) and accession
// lists (one per line, commas also allowed).
package input

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// IsFile reports whether path names an existing regular file. Used to
// decide if a positional argument is inline terms or a file of them.
func IsFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// SplitTerms splits an inline comma-separated term string, trimming
// whitespace and dropping empty entries.
func SplitTerms(s string) []string {
	var terms []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			terms = append(terms, part)
		}
	}
	return terms
}

// ReadTermGroups reads a term-group file: each non-blank line is one
// independent group of comma-separated terms.
func ReadTermGroups(path string) ([][]string, error) {
	lines, err := readLines(path)
	if err != nil {
		return nil, err
	}

	var groups [][]string
	for _, line := range lines {
		if terms := SplitTerms(line); len(terms) > 0 {
			groups = append(groups, terms)
		}
	}
	return groups, nil
}

// ReadAccessions reads an accession list file. Accessions may be one per
// line, comma-separated within a line, or a mix of both.
func ReadAccessions(path string) ([]string, error) {
	lines, err := readLines(path)
	if err != nil {
		return nil, err
	}

	var accs []string
	for _, line := range lines {
		accs = append(accs, SplitTerms(line)...)
	}
	return accs, nil
}

func readLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	defer f.Close()

	var lines []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		lines = append(lines, strings.TrimRight(sc.Text(), "\r\n"))
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return lines, nil
}
