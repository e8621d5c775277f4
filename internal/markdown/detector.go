package markdown

import (
	"regexp"
	"strings"
)

// linkPattern matches inline markdown links: [label](target).
var linkPattern = regexp.MustCompile(`\[([^\]]+)\]\(([^)]+)\)`)

// IsMarkdownFile checks if the filename has a markdown extension.
func IsMarkdownFile(name string) bool {
	return strings.HasSuffix(name, ".md")
}

// IsHTMLFile checks if the filename has an HTML extension.
func IsHTMLFile(name string) bool {
	return strings.HasSuffix(name, ".html")
}

// IsPostFile reports whether a directory entry counts as a blog post.
// Matching is on the exact suffix, like the rest of the site tooling.
func IsPostFile(name string) bool {
	return IsMarkdownFile(name) || IsHTMLFile(name)
}

// ConvertLinks rewrites every [label](target) span into an HTML anchor.
// Text that does not match (unbalanced or nested brackets) is left as is.
func ConvertLinks(text string) string {
	return linkPattern.ReplaceAllString(text, `<a href="${2}">${1}</a>`)
}
