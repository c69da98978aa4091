// Package gitignore provides utilities for parsing and matching .gitignore patterns.
//
// Supported syntax: comments, `!` negation (last matching rule wins),
// trailing `/` for directory-only rules, leading or inner `/` to anchor a
// rule at the root, `*`, `?`, `[...]` and `**` wildcards.
package gitignore

import (
	"bufio"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// GitIgnore represents a compiled set of gitignore rules. The zero value ignores nothing.
type GitIgnore struct {
	patterns []string
	rules    []rule
}

type rule struct {
	re      *regexp.Regexp
	negate  bool
	dirOnly bool
}

// LoadGitIgnore loads and parses a .gitignore file from the specified path.
// A missing file yields an empty rule set.
func LoadGitIgnore(gitignorePath string) (*GitIgnore, error) {
	file, err := os.Open(gitignorePath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &GitIgnore{}, nil
		}
		return nil, err
	}
	defer func() { _ = file.Close() }()

	var lines []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return ParseGitIgnoreLines(lines), nil
}

// LoadGitIgnoreFromDir loads .gitignore file from the specified directory
func LoadGitIgnoreFromDir(dirPath string) (*GitIgnore, error) {
	return LoadGitIgnore(filepath.Join(dirPath, ".gitignore"))
}

// ParseGitIgnoreLines parses gitignore patterns from a slice of strings
func ParseGitIgnoreLines(lines []string) *GitIgnore {
	gi := &GitIgnore{}
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		r, ok := compile(line)
		if !ok {
			continue
		}
		gi.patterns = append(gi.patterns, line)
		gi.rules = append(gi.rules, r)
	}
	return gi
}

// GetPatterns returns all loaded patterns
func (gi *GitIgnore) GetPatterns() []string {
	return gi.patterns
}

// IsIgnored reports whether path is ignored when its type is unknown.
// Directory-only rules are applied as well.
func (gi *GitIgnore) IsIgnored(path string) bool {
	return gi.Match(path, true)
}

// Match reports whether the root-relative path is ignored.
// A path inside an ignored directory is ignored regardless of later negations,
// the same way git never descends into an excluded directory.
func (gi *GitIgnore) Match(path string, isDir bool) bool {
	if gi == nil || len(gi.rules) == 0 {
		return false
	}
	p := strings.TrimPrefix(filepath.ToSlash(path), "./")
	p = strings.Trim(p, "/")
	if p == "" || p == "." {
		return false
	}

	parts := strings.Split(p, "/")
	for i := 1; i < len(parts); i++ {
		if gi.decide(strings.Join(parts[:i], "/"), true) {
			return true
		}
	}
	return gi.decide(p, isDir)
}

// decide applies every rule in order; the last match wins.
func (gi *GitIgnore) decide(path string, isDir bool) bool {
	ignored := false
	for _, r := range gi.rules {
		if r.dirOnly && !isDir {
			continue
		}
		if r.re.MatchString(path) {
			ignored = !r.negate
		}
	}
	return ignored
}

// FilterIgnoredPaths filters out ignored paths from a list of paths
func (gi *GitIgnore) FilterIgnoredPaths(paths []string) []string {
	var result []string
	for _, path := range paths {
		if !gi.Match(path, false) {
			result = append(result, path)
		}
	}
	return result
}

// compile turns one gitignore line into a rule.
func compile(line string) (rule, bool) {
	var r rule
	p := line
	switch {
	case strings.HasPrefix(p, `\!`), strings.HasPrefix(p, `\#`):
		p = p[1:]
	case strings.HasPrefix(p, "!"):
		r.negate = true
		p = p[1:]
	}
	if strings.HasSuffix(p, "/") {
		r.dirOnly = true
		p = strings.TrimRight(p, "/")
	}
	if p == "" {
		return r, false
	}

	// 前导或中间的 / 使规则锚定在根目录
	anchored := strings.Contains(p, "/")
	p = strings.TrimPrefix(p, "/")
	if strings.HasPrefix(p, "**/") {
		anchored = false
		p = strings.TrimPrefix(p, "**/")
	}

	var b strings.Builder
	b.WriteString("^")
	if !anchored {
		b.WriteString("(?:.*/)?")
	}
	b.WriteString(globToRegexp(p))
	b.WriteString("$")

	re, err := regexp.Compile(b.String())
	if err != nil {
		return r, false
	}
	r.re = re
	return r, true
}

// globToRegexp converts a gitignore glob (without leading/trailing slash handling) to a regexp body.
func globToRegexp(p string) string {
	var b strings.Builder
	for i := 0; i < len(p); i++ {
		c := p[i]
		switch c {
		case '*':
			if i+1 < len(p) && p[i+1] == '*' {
				switch {
				case i+2 < len(p) && p[i+2] == '/':
					// a/**/b 匹配零个或多个目录
					b.WriteString("(?:.*/)?")
					i += 2
				case i+2 == len(p):
					// a/** 匹配其下所有内容
					b.WriteString(".*")
					i++
				default:
					b.WriteString("[^/]*")
					i++
				}
				continue
			}
			b.WriteString("[^/]*")
		case '?':
			b.WriteString("[^/]")
		case '[':
			end := strings.IndexByte(p[i+1:], ']')
			if end < 0 {
				b.WriteString(`\[`)
				continue
			}
			class := p[i+1 : i+1+end]
			if strings.HasPrefix(class, "!") {
				class = "^" + class[1:]
			}
			b.WriteString("[" + class + "]")
			i += end + 1
		case '\\':
			if i+1 < len(p) {
				i++
				b.WriteString(regexp.QuoteMeta(string(p[i])))
			}
		default:
			b.WriteString(regexp.QuoteMeta(string(c)))
		}
	}
	return b.String()
}
