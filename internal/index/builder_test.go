package index

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"golang.org/x/net/html"
)

const testBaseURL = "https://example.com/thoughts/0stack/"

var testHeader = Header{
	Title:       "Test Thoughts",
	Author:      "Tester",
	HomeURL:     "https://example.com",
	ThoughtsURL: "https://example.com/thoughts",
	Stylesheet:  "style.css",
}

func writePost(t *testing.T, dir, name, content string, mtime time.Time) {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	if err := os.Chtimes(path, mtime, mtime); err != nil {
		t.Fatalf("failed to set mtime on %s: %v", name, err)
	}
}

func build(t *testing.T, opts Options) ([]byte, *Result) {
	t.Helper()
	b, err := New(opts)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	result, err := b.Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	out, err := os.ReadFile(opts.OutputPath)
	if err != nil {
		t.Fatalf("failed to read output: %v", err)
	}
	return out, result
}

func defaultOptions(src, out string) Options {
	return Options{
		SourceDir:  src,
		OutputPath: out,
		BaseURL:    testBaseURL,
		Header:     testHeader,
	}
}

// postNodes returns the <div class="post"> elements of a rendered page.
func postNodes(t *testing.T, page []byte) []*html.Node {
	t.Helper()
	doc, err := html.Parse(bytes.NewReader(page))
	if err != nil {
		t.Fatalf("failed to parse output: %v", err)
	}

	var found []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "div" {
			for _, a := range n.Attr {
				if a.Key == "class" && a.Val == "post" {
					found = append(found, n)
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return found
}

func TestBuild_NoPostFiles(t *testing.T) {
	src := t.TempDir()
	now := time.Now()
	writePost(t, src, "notes.txt", "not a post", now)
	writePost(t, src, "img.jpg", "binary", now)
	out := filepath.Join(t.TempDir(), "index.html")

	page, result := build(t, defaultOptions(src, out))

	if result.Posts != 0 {
		t.Errorf("Posts = %d, want 0", result.Posts)
	}
	if n := len(postNodes(t, page)); n != 0 {
		t.Errorf("found %d post blocks, want 0", n)
	}
	s := string(page)
	if !strings.HasPrefix(s, "<!DOCTYPE html>") {
		t.Errorf("output does not start with doctype:\n%s", s)
	}
	if !strings.Contains(s, "<title>Test Thoughts</title>") {
		t.Errorf("output missing title:\n%s", s)
	}
	if !strings.HasSuffix(s, "</body>\n</html>\n") {
		t.Errorf("output missing footer:\n%s", s)
	}
}

func TestBuild_HelloWorldExample(t *testing.T) {
	src := t.TempDir()
	writePost(t, src, "Hello World.md", "A short thought.\n\nMore text follows.", time.Date(2023, 3, 3, 12, 0, 0, 0, time.Local))
	out := filepath.Join(t.TempDir(), "index.html")

	page, _ := build(t, defaultOptions(src, out))
	s := string(page)

	for _, want := range []string{
		`<a href="` + testBaseURL + `Hello-World">Hello World</a>`,
		`<div class="date">(March 03, 2023)</div>`,
		`<p>A short thought.</p>`,
		`<img class="thumb" src="img.jpg" alt="Hello World thumbnail">`,
	} {
		if !strings.Contains(s, want) {
			t.Errorf("output missing %q:\n%s", want, s)
		}
	}
	if n := len(postNodes(t, page)); n != 1 {
		t.Errorf("found %d post blocks, want 1", n)
	}
}

func TestBuild_HrefOncePerPost(t *testing.T) {
	src := t.TempDir()
	now := time.Now()
	names := []string{"First Post.md", "second.html", "Why not?.md"}
	for i, name := range names {
		writePost(t, src, name, "Body.", now.Add(-time.Duration(i)*time.Hour))
	}
	out := filepath.Join(t.TempDir(), "index.html")

	page, _ := build(t, defaultOptions(src, out))
	s := string(page)

	for _, slug := range []string{"First-Post", "second", "Why-not%3F"} {
		href := `href="` + testBaseURL + slug + `"`
		if c := strings.Count(s, href); c != 1 {
			t.Errorf("href %s appears %d times, want 1", href, c)
		}
	}
}

func TestBuild_SortsByModTimeDescending(t *testing.T) {
	src := t.TempDir()
	base := time.Date(2024, 6, 1, 9, 0, 0, 0, time.Local)
	// Names chosen so that directory order differs from recency order.
	writePost(t, src, "a.md", "oldest", base)
	writePost(t, src, "b.md", "newest", base.Add(72*time.Hour))
	writePost(t, src, "c.md", "middle", base.Add(24*time.Hour))
	out := filepath.Join(t.TempDir(), "index.html")

	page, _ := build(t, defaultOptions(src, out))
	s := string(page)

	iNew := strings.Index(s, ">b</a>")
	iMid := strings.Index(s, ">c</a>")
	iOld := strings.Index(s, ">a</a>")
	if iNew < 0 || iMid < 0 || iOld < 0 {
		t.Fatalf("missing post anchors in output:\n%s", s)
	}
	if !(iNew < iMid && iMid < iOld) {
		t.Errorf("posts not ordered newest first: b=%d c=%d a=%d", iNew, iMid, iOld)
	}
}

func TestBuild_Idempotent(t *testing.T) {
	src := t.TempDir()
	base := time.Date(2024, 1, 5, 8, 0, 0, 0, time.Local)
	writePost(t, src, "one.md", "See [here](http://x.com) for more", base)
	writePost(t, src, "two.html", "<p>two</p>", base)
	writePost(t, src, "three.md", "", base.Add(time.Minute))
	out := filepath.Join(t.TempDir(), "index.html")

	first, _ := build(t, defaultOptions(src, out))
	second, _ := build(t, defaultOptions(src, out))

	if !bytes.Equal(first, second) {
		t.Errorf("builds differ:\n--- first\n%s\n--- second\n%s", first, second)
	}
}

func TestBuild_DescriptionLinksAndEmpty(t *testing.T) {
	src := t.TempDir()
	now := time.Now()
	writePost(t, src, "linked.md", "See [here](http://x.com) for more", now)
	writePost(t, src, "empty.md", "\n\n", now.Add(-time.Hour))
	out := filepath.Join(t.TempDir(), "index.html")

	page, _ := build(t, defaultOptions(src, out))
	s := string(page)

	if !strings.Contains(s, `<p>See <a href="http://x.com">here</a> for more</p>`) {
		t.Errorf("link not rewritten:\n%s", s)
	}
	if c := strings.Count(s, "<p>"); c != 1 {
		t.Errorf("found %d paragraphs, want 1 (empty description renders none)", c)
	}
}

func TestBuild_PerPostThumbnail(t *testing.T) {
	src := t.TempDir()
	writePost(t, src, "Why not?.md", "x", time.Now())
	out := filepath.Join(t.TempDir(), "index.html")

	opts := defaultOptions(src, out)
	opts.Thumbnail = PerPostThumbnail("thumbnails/")
	page, _ := build(t, opts)

	if !strings.Contains(string(page), `src="thumbnails/Why-not.jpg"`) {
		t.Errorf("per-post thumbnail not used:\n%s", page)
	}
}

func TestBuild_OverwritesOutput(t *testing.T) {
	src := t.TempDir()
	out := filepath.Join(t.TempDir(), "index.html")
	if err := os.WriteFile(out, bytes.Repeat([]byte("stale "), 10000), 0o644); err != nil {
		t.Fatal(err)
	}

	page, _ := build(t, defaultOptions(src, out))
	if bytes.Contains(page, []byte("stale")) {
		t.Error("output still contains previous content")
	}
}

func TestBuild_Errors(t *testing.T) {
	t.Run("missing source dir", func(t *testing.T) {
		b, err := New(defaultOptions(filepath.Join(t.TempDir(), "missing"), filepath.Join(t.TempDir(), "index.html")))
		if err != nil {
			t.Fatalf("New() error = %v", err)
		}
		if _, err := b.Build(); err == nil {
			t.Error("Build() expected error for missing source directory")
		}
	})

	t.Run("unwritable output", func(t *testing.T) {
		out := filepath.Join(t.TempDir(), "no-such-dir", "index.html")
		b, err := New(defaultOptions(t.TempDir(), out))
		if err != nil {
			t.Fatalf("New() error = %v", err)
		}
		if _, err := b.Build(); err == nil {
			t.Error("Build() expected error for unwritable output path")
		}
	})
}

func TestNew_Validation(t *testing.T) {
	tests := []struct {
		name    string
		opts    Options
		wantErr bool
	}{
		{"empty source", Options{OutputPath: "index.html"}, true},
		{"empty output", Options{SourceDir: "posts"}, true},
		{"valid", Options{SourceDir: "posts", OutputPath: "index.html"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.opts)
			if (err != nil) != tt.wantErr {
				t.Errorf("New() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestBuild_WritesFeedAndCopiesStatic(t *testing.T) {
	src := t.TempDir()
	writePost(t, src, "Hello World.md", "A *short* thought.", time.Date(2023, 3, 3, 12, 0, 0, 0, time.Local))

	static := t.TempDir()
	if err := os.WriteFile(filepath.Join(static, "style.css"), []byte("body{}"), 0o644); err != nil {
		t.Fatal(err)
	}

	outDir := t.TempDir()
	opts := defaultOptions(src, filepath.Join(outDir, "index.html"))
	opts.FeedPath = filepath.Join(outDir, "index.xml")
	opts.FeedAuthor = "Tester"
	opts.StaticDir = static

	_, result := build(t, opts)

	if result.FeedPath != opts.FeedPath {
		t.Errorf("FeedPath = %q, want %q", result.FeedPath, opts.FeedPath)
	}
	feed, err := os.ReadFile(opts.FeedPath)
	if err != nil {
		t.Fatalf("failed to read feed: %v", err)
	}
	if !strings.Contains(string(feed), "Hello World") {
		t.Errorf("feed missing entry title:\n%s", feed)
	}
	if _, err := os.Stat(filepath.Join(outDir, "style.css")); err != nil {
		t.Errorf("static file not copied: %v", err)
	}
}

func TestFormatDate(t *testing.T) {
	d := time.Date(2024, 1, 5, 23, 0, 0, 0, time.Local)
	if got := FormatDate(d); got != "January 05, 2024" {
		t.Errorf("FormatDate() = %q, want %q", got, "January 05, 2024")
	}
}
