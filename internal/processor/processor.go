package processor

import (
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"golang.org/x/net/html"

	"github.com/mfenderov/thoughts/internal/markdown"
)

// Processor turns post files into plain Markdown text.
type Processor struct{}

// New creates a new post processor.
func New() *Processor {
	return &Processor{}
}

// Convert transforms HTML content into Markdown.
func (p *Processor) Convert(htmlContent string) (string, error) {
	if htmlContent == "" {
		return "", nil
	}

	md, err := htmltomarkdown.ConvertString(htmlContent)
	if err != nil {
		return "", err
	}

	// Clean up excessive whitespace
	md = strings.TrimSpace(md)
	return md, nil
}

// ExtractTitle extracts the <title> content from HTML.
func (p *Processor) ExtractTitle(htmlContent string) string {
	doc, err := html.Parse(strings.NewReader(htmlContent))
	if err != nil {
		return ""
	}

	var title string
	var findTitle func(*html.Node)
	findTitle = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "title" {
			if n.FirstChild != nil {
				title = n.FirstChild.Data
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			findTitle(c)
		}
	}
	findTitle(doc)

	return strings.TrimSpace(title)
}

// PostText returns the text of a post as Markdown. Markdown posts are
// returned as is; HTML posts are converted, with their <title> (if any)
// as a leading heading.
func (p *Processor) PostText(filename, content string) (string, error) {
	if !markdown.IsHTMLFile(filename) {
		return content, nil
	}

	md, err := p.Convert(content)
	if err != nil {
		return "", err
	}
	if title := p.ExtractTitle(content); title != "" {
		md = "# " + title + "\n\n" + md
	}
	return md, nil
}
