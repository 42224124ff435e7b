package topic

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
)

// Scout documents are markdown files with one numbered heading per topic:
//
//	## 1. **Some title**
//	Body text...
//	**Why it matters:** more text
//	**Link:** [label](https://example.com)
//	**Post-worthy?** yes, because...
var (
	sectionRe    = regexp.MustCompile(`\n## \d+\.\s+`)
	titleRe      = regexp.MustCompile(`^\*\*(.+?)\*\*`)
	linkRe       = regexp.MustCompile(`\*\*Link:\*\*\s*\[.*?\]\((.*?)\)`)
	postWorthyRe = regexp.MustCompile(`\*\*Post-worthy\?\*\*\s*(.*)`)
	whyMattersRe = regexp.MustCompile(`^\*\*Why it matters:\*\*\s*`)
	boldLabelRe  = regexp.MustCompile(`^\*\*`)
)

// ParseScoutDocument extracts topics from one scout document. Malformed
// sections degrade to empty fields or a synthesized title; they never fail.
// The text before the first heading is preamble and is dropped.
func ParseScoutDocument(source, content string) []Topic {
	sections := sectionRe.Split(content, -1)

	var topics []Topic
	for i := 1; i < len(sections); i++ {
		section := sections[i]

		title := fmt.Sprintf("Topic %d", i)
		if m := titleRe.FindStringSubmatch(section); m != nil {
			title = strings.TrimSpace(strings.ReplaceAll(m[1], "**", ""))
		}

		link := ""
		if m := linkRe.FindStringSubmatch(section); m != nil {
			link = m[1]
		}

		postWorthy := ""
		if m := postWorthyRe.FindStringSubmatch(section); m != nil {
			postWorthy = strings.TrimSpace(m[1])
		}

		var summary, details strings.Builder
		inWhyMatters := false
		for _, line := range strings.Split(section, "\n") {
			if strings.HasPrefix(line, "**Link:") || strings.HasPrefix(line, "**Post-worthy") {
				continue
			}
			if whyMattersRe.MatchString(line) {
				inWhyMatters = true
				details.WriteString(whyMattersRe.ReplaceAllString(line, ""))
				details.WriteString(" ")
				continue
			}
			if inWhyMatters {
				if !boldLabelRe.MatchString(line) && strings.TrimSpace(line) != "" {
					details.WriteString(strings.TrimSpace(line))
					details.WriteString(" ")
				}
				continue
			}
			if !boldLabelRe.MatchString(line) && strings.TrimSpace(line) != "" {
				summary.WriteString(strings.TrimSpace(line))
				summary.WriteString(" ")
			}
		}

		topics = append(topics, Topic{
			ID:          TitleID(title),
			Index:       i,
			Title:       title,
			Summary:     strings.TrimSpace(summary.String()),
			Details:     strings.TrimSpace(details.String()),
			Link:        link,
			PostWorthy:  postWorthy,
			Source:      source,
			TopicSource: SourceScout,
		})
	}

	return topics
}

// LoadScoutDir parses every markdown file in dir, newest file first (by
// name, descending), and deduplicates by id across documents. A missing dir
// yields an empty list.
func LoadScoutDir(dir string) ([]Topic, error) {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read scout dir: %w", err)
	}

	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".md") {
			names = append(names, e.Name())
		}
	}
	sort.Sort(sort.Reverse(sort.StringSlice(names)))

	var topics []Topic
	for _, name := range names {
		content, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("read scout file %s: %w", name, err)
		}
		topics = append(topics, ParseScoutDocument(strings.TrimSuffix(name, ".md"), string(content))...)
	}

	return Dedupe(topics), nil
}
