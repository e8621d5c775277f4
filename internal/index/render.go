package index

import (
	"bytes"
	"fmt"
	"html/template"
	"time"

	"github.com/mfenderov/thoughts/pkg/models"
)

// dateLayout renders as "January 05, 2024".
const dateLayout = "January 02, 2006"

var pageTemplates = template.Must(template.New("page").Parse(`
{{- define "header" -}}
<!DOCTYPE html>
<html>
<head>
  <meta charset="UTF-8">
  <title>{{.Title}}</title>
  <link rel="stylesheet" href="{{.Stylesheet}}">
</head>
<body>
  <div class="blog-index">
    <h1>A Few of <a href="{{.HomeURL}}">{{.Author}}</a>'s <a href="{{.ThoughtsURL}}">Thoughts</a></h1>
{{end -}}

{{- define "post" -}}
<div class="post">
  <img class="thumb" src="{{.Thumbnail}}" alt="{{.Title}} thumbnail">
  <div class="info">
    <a href="{{.URL}}">{{.Title}}</a>
    <div class="date">({{.Date}})</div>
{{if .Description}}    <p>{{.Description}}</p>
{{end}}  </div>
</div>
{{end -}}

{{- define "footer" -}}
  </div>
</body>
</html>
{{end -}}
`))

// Header holds the fixed strings of the page header.
type Header struct {
	Title       string
	Author      string
	HomeURL     string
	ThoughtsURL string
	Stylesheet  string
}

type postBlock struct {
	Title       string
	URL         string
	Thumbnail   string
	Date        string
	Description template.HTML
}

// FormatDate formats a post time in the process's local time zone.
func FormatDate(t time.Time) string {
	return t.In(time.Local).Format(dateLayout)
}

// PostURL returns the public link for a post.
func PostURL(baseURL string, p models.Post) string {
	return baseURL + p.Slug
}

// Render assembles the full index document for posts, in the given order.
func Render(header Header, baseURL string, thumbnail ThumbnailFunc, ps []models.Post) ([]byte, error) {
	var buf bytes.Buffer

	if err := pageTemplates.ExecuteTemplate(&buf, "header", header); err != nil {
		return nil, fmt.Errorf("failed to render header: %w", err)
	}

	for _, p := range ps {
		buf.WriteByte('\n')
		block := postBlock{
			Title:     p.Title,
			URL:       PostURL(baseURL, p),
			Thumbnail: thumbnail(p),
			Date:      FormatDate(p.ModTime),
			// Descriptions carry anchors produced by link rewriting.
			Description: template.HTML(p.Description),
		}
		if err := pageTemplates.ExecuteTemplate(&buf, "post", block); err != nil {
			return nil, fmt.Errorf("failed to render post %s: %w", p.Filename, err)
		}
	}

	buf.WriteByte('\n')
	if err := pageTemplates.ExecuteTemplate(&buf, "footer", nil); err != nil {
		return nil, fmt.Errorf("failed to render footer: %w", err)
	}

	return buf.Bytes(), nil
}
