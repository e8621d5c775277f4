package index

import (
	"fmt"
	"time"

	"github.com/russross/blackfriday/v2"
	atom "github.com/thomas11/atomgenerator"

	"github.com/mfenderov/thoughts/internal/markdown"
	"github.com/mfenderov/thoughts/internal/posts"
	"github.com/mfenderov/thoughts/pkg/models"
)

// FeedInfo describes the feed itself.
type FeedInfo struct {
	Title   string
	Link    string
	Author  string
	SiteURL string
}

// RenderFeed builds an Atom feed with one entry per post.
// The feed date is the newest post's mtime, so unchanged posts give an
// unchanged feed.
func RenderFeed(info FeedInfo, baseURL string, ps []models.Post) ([]byte, error) {
	feed := atom.Feed{
		Title:   info.Title,
		Link:    info.Link,
		PubDate: latest(ps),
	}
	feed.AddAuthor(atom.Author{
		Name: info.Author,
		Uri:  info.SiteURL,
	})

	for _, p := range ps {
		body, err := posts.ReadBody(p.Path)
		if err != nil {
			return nil, err
		}
		content := body
		if markdown.IsMarkdownFile(p.Filename) {
			content = string(blackfriday.Run([]byte(body)))
		}

		feed.AddEntry(&atom.Entry{
			Title:       p.Title,
			Description: p.Description,
			Link:        PostURL(baseURL, p),
			PubDate:     p.ModTime,
			Content:     content,
		})
	}

	if errs := feed.Validate(); len(errs) > 0 {
		return nil, fmt.Errorf("invalid atom feed: %w", errs[0])
	}

	return feed.GenXml()
}

func latest(ps []models.Post) time.Time {
	t := time.Unix(0, 0).UTC()
	for _, p := range ps {
		if p.ModTime.After(t) {
			t = p.ModTime
		}
	}
	return t
}
