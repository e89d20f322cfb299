package docverter

import (
	"fmt"
	"io"
	"strings"

	"github.com/mmcdole/gofeed"
)

// FeedBackend parses RSS and Atom feeds: the feed title becomes the top
// heading, each item contributes a heading and its content as paragraphs.
type FeedBackend struct {
	html *HTMLBackend
}

// NewFeedBackend creates a new FeedBackend.
func NewFeedBackend() *FeedBackend {
	return &FeedBackend{html: NewHTMLBackend()}
}

func (b *FeedBackend) Parse(reader io.ReadSeeker, info StreamInfo) (*Document, error) {
	fp := gofeed.NewParser()
	feed, err := fp.Parse(reader)
	if err != nil {
		return nil, fmt.Errorf("parse feed: %w", err)
	}

	doc := NewDocument(Origin{Filename: info.Filename, MIMEType: info.MIMEType})
	doc.Title = feed.Title

	if feed.Title != "" {
		doc.AddItem(&Heading{Text: feed.Title, Level: 1})
	}
	if feed.Description != "" {
		doc.AddItem(&Paragraph{Text: feed.Description})
	}

	for _, item := range feed.Items {
		if item.Title != "" {
			doc.AddItem(&Heading{Text: item.Title, Level: 2})
		}
		if item.Published != "" {
			doc.AddItem(&Paragraph{Text: "Published: " + item.Published})
		} else if item.Updated != "" {
			doc.AddItem(&Paragraph{Text: "Updated: " + item.Updated})
		}

		content := item.Content
		if content == "" {
			content = item.Description
		}
		if content == "" {
			continue
		}
		// HTML-shaped content keeps its inline formatting
		if strings.Contains(content, "<") && strings.Contains(content, ">") {
			if md := b.html.inlineMarkdownString(content); md != "" {
				content = md
			}
		}
		doc.AddItem(&Paragraph{Text: strings.TrimSpace(content)})
	}

	return doc, nil
}
