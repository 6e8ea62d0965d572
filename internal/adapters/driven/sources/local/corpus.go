package local

import (
	"bufio"
	"io"
	"regexp"
	"strings"
)

// section is one numbered entry of the corpus, header line included.
type section struct {
	header string
	lines  []string
}

// corpus is the parsed form of the corpus file.
type corpus struct {
	sections []section
}

// parseCorpus splits r into sections. A section starts at a numbered header
// line ("N. Title"). Lines before the first header are dropped.
func parseCorpus(r io.Reader) (*corpus, error) {
	c := &corpus{}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if isHeader(line) {
			c.sections = append(c.sections, section{header: strings.TrimSpace(line), lines: []string{line}})
			continue
		}
		if n := len(c.sections); n > 0 {
			c.sections[n-1].lines = append(c.sections[n-1].lines, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return c, nil
}

// headerPattern matches a numbered section header such as "12. Asthma".
var headerPattern = regexp.MustCompile(`^\s*\d+\.\s+\S`)

func isHeader(line string) bool {
	return headerPattern.MatchString(line)
}

// find returns the text of the first section whose header ends with term
// (case-insensitive). Directly following headers that also end with term are
// joined to it. Returns "" when nothing matches.
func (c *corpus) find(term string) string {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return ""
	}

	var matched []string
	for _, s := range c.sections {
		hit := strings.HasSuffix(strings.ToLower(s.header), term)
		if !hit {
			if len(matched) > 0 {
				break
			}
			continue
		}
		matched = append(matched, s.lines...)
	}
	return strings.TrimSpace(strings.Join(matched, "\n"))
}
