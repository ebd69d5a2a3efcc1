package resolver

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"verifyica/pkg/api"
)

// ClassNameFilter is one include or exclude record of a filter file or an
// equivalent programmatic filter.
type ClassNameFilter struct {
	// Include marks the record as INCLUDE; false means EXCLUDE.
	Include bool
	// Pattern matches against the registered class name.
	Pattern *regexp.Regexp
}

// Filters is the resolved set of class-definition filters.
type Filters struct {
	// ClassName holds include/exclude class-name regex records. A class is
	// kept iff it matches at least one include (or no includes exist) and
	// matches no exclude.
	ClassName []ClassNameFilter
	// IncludeTags keeps only classes carrying at least one of the tags.
	// Empty means no tag restriction.
	IncludeTags []string
	// ExcludeTags removes classes carrying any of the tags.
	ExcludeTags []string
}

// IncludeClassName appends an include record.
func (f *Filters) IncludeClassName(pattern string) error {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return fmt.Errorf("invalid include pattern %q: %w", pattern, err)
	}
	f.ClassName = append(f.ClassName, ClassNameFilter{Include: true, Pattern: re})
	return nil
}

// ExcludeClassName appends an exclude record.
func (f *Filters) ExcludeClassName(pattern string) error {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return fmt.Errorf("invalid exclude pattern %q: %w", pattern, err)
	}
	f.ClassName = append(f.ClassName, ClassNameFilter{Include: false, Pattern: re})
	return nil
}

// KeepsClass evaluates the class-name and tag records against a class.
func (f *Filters) KeepsClass(className string, tags []string) bool {
	hasInclude := false
	included := false
	for _, record := range f.ClassName {
		if record.Include {
			hasInclude = true
			if record.Pattern.MatchString(className) {
				included = true
			}
		} else if record.Pattern.MatchString(className) {
			return false
		}
	}
	if hasInclude && !included {
		return false
	}

	tagSet := make(map[string]bool, len(tags))
	for _, tag := range tags {
		tagSet[tag] = true
	}
	for _, tag := range f.ExcludeTags {
		if tagSet[tag] {
			return false
		}
	}
	if len(f.IncludeTags) > 0 {
		for _, tag := range f.IncludeTags {
			if tagSet[tag] {
				return true
			}
		}
		return false
	}
	return true
}

// ParseFilterFile parses newline-delimited filter records:
//
//	INCLUDE CLASS_NAME <regex>
//	EXCLUDE CLASS_NAME <regex>
//
// Blank lines and lines starting with '#' are comments. Parse errors are
// discovery errors.
func ParseFilterFile(r io.Reader) (*Filters, error) {
	filters := &Filters{}
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.SplitN(line, " ", 3)
		if len(fields) != 3 || fields[1] != "CLASS_NAME" {
			return nil, &api.DiscoveryError{Err: fmt.Errorf("filter file line %d: malformed record %q", lineNo, line)}
		}
		switch fields[0] {
		case "INCLUDE":
			if err := filters.IncludeClassName(fields[2]); err != nil {
				return nil, &api.DiscoveryError{Err: fmt.Errorf("filter file line %d: %w", lineNo, err)}
			}
		case "EXCLUDE":
			if err := filters.ExcludeClassName(fields[2]); err != nil {
				return nil, &api.DiscoveryError{Err: fmt.Errorf("filter file line %d: %w", lineNo, err)}
			}
		default:
			return nil, &api.DiscoveryError{Err: fmt.Errorf("filter file line %d: unknown directive %q", lineNo, fields[0])}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, &api.DiscoveryError{Err: fmt.Errorf("reading filter file: %w", err)}
	}
	return filters, nil
}

// LoadFilterFile parses the filter file at path.
func LoadFilterFile(path string) (*Filters, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &api.DiscoveryError{Err: fmt.Errorf("opening filter file: %w", err)}
	}
	defer f.Close()
	return ParseFilterFile(f)
}
