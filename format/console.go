package format

import (
	"fmt"
	"strings"

	"github.com/s0up4200/marquee/catalog"
)

// Options controls how much of each item the console formatter prints
type Options struct {
	ShowDetails bool
	ShowImages  bool
}

// ConsoleFormatter renders catalog items as a tree for terminal output
type ConsoleFormatter struct {
	fmt      *Formatter
	resolver *catalog.Resolver
}

// NewConsoleFormatter creates a console formatter. resolver may be nil, in
// which case image URLs are never printed.
func NewConsoleFormatter(f *Formatter, resolver *catalog.Resolver) *ConsoleFormatter {
	if f == nil {
		f = english
	}
	return &ConsoleFormatter{fmt: f, resolver: resolver}
}

// FormatItemList formats a list of items for console display
func (c *ConsoleFormatter) FormatItemList(items []catalog.Item, options Options) string {
	if len(items) == 0 {
		return "No movies found"
	}

	var sb strings.Builder

	sb.WriteString("\nMovie")
	if len(items) != 1 {
		sb.WriteString("s")
	}
	fmt.Fprintf(&sb, " (%d):\n\n", len(items))

	for i, item := range items {
		isLast := i == len(items)-1
		c.formatItem(&sb, item, isLast, options)

		if !isLast {
			sb.WriteString("│\n")
		}
	}

	sb.WriteString("\n")
	return sb.String()
}

// FormatItemDetail formats a single fully loaded item
func (c *ConsoleFormatter) FormatItemDetail(item catalog.Item) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "\n%s (%s)\n", item.Title, Release(item.ReleaseDate))
	fmt.Fprintf(&sb, "├── ID: %d\n", item.ID)
	fmt.Fprintf(&sb, "├── Runtime: %s\n", c.fmt.Duration(item.RuntimeMinutes))
	fmt.Fprintf(&sb, "├── Genres: %s\n", Genres(item.Genres))
	fmt.Fprintf(&sb, "├── Languages: %s\n", Languages(item.SpokenLanguages))
	fmt.Fprintf(&sb, "├── Popularity: %s\n", Popularity(item.Popularity))
	fmt.Fprintf(&sb, "├── Rating: %s\n", Rating(item.VoteAverage))
	if url := c.resolver.ItemURL(item); url != "" {
		fmt.Fprintf(&sb, "├── Image: %s\n", url)
	}
	fmt.Fprintf(&sb, "╰── Overview:\n")
	for _, line := range wrap(Overview(item.Overview), 72) {
		fmt.Fprintf(&sb, "    %s\n", line)
	}

	return sb.String()
}

func (c *ConsoleFormatter) formatItem(sb *strings.Builder, item catalog.Item, isLast bool, options Options) {
	prefix := "├"
	if isLast {
		prefix = "╰"
	}

	fmt.Fprintf(sb, "%s── %s (%s)\n", prefix, item.Title, Release(item.ReleaseDate))

	indent := "│   "
	if isLast {
		indent = "    "
	}

	if options.ShowDetails {
		fmt.Fprintf(sb, "%sID: %d | Popularity: %s | Rating: %s\n",
			indent, item.ID, Popularity(item.Popularity), Rating(item.VoteAverage))
	}

	if options.ShowImages {
		if url := c.resolver.ItemURL(item); url != "" {
			fmt.Fprintf(sb, "%sImage: %s\n", indent, url)
		}
	}
}

// wrap breaks text on spaces so no line exceeds width, unless a single word
// is longer than width
func wrap(text string, width int) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return []string{text}
	}

	var lines []string
	line := words[0]
	for _, w := range words[1:] {
		if len(line)+1+len(w) > width {
			lines = append(lines, line)
			line = w
			continue
		}
		line += " " + w
	}
	return append(lines, line)
}
