package extract

import (
	"bytes"
	"fmt"

	"github.com/mmcdole/gofeed"

	"github.com/hyperjump/storefront/internal/models"
	"github.com/hyperjump/storefront/pkg/utils"
)

// extractFeed reads an RSS, Atom or JSON feed as blog posts. The first feed
// category becomes the item category and every category is also a tag.
func extractFeed(content []byte) ([]*models.ListItem, error) {
	fp := gofeed.NewParser()
	feed, err := fp.Parse(bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("parse feed: %w", err)
	}

	items := make([]*models.ListItem, 0, len(feed.Items))
	for _, fi := range feed.Items {
		it := &models.ListItem{
			ID:    fi.GUID,
			Title: fi.Title,
			Link:  fi.Link,
		}
		it.Excerpt = htmlToText(fi.Description)
		if it.Excerpt == "" {
			it.Excerpt = htmlToText(fi.Content)
		}
		if len(fi.Categories) > 0 {
			it.Category = utils.Slugify(fi.Categories[0])
			it.CategoryLabel = fi.Categories[0]
		}
		for _, c := range fi.Categories {
			if c = utils.CollapseSpace(c); c != "" {
				it.Tags = append(it.Tags, c)
			}
		}
		switch {
		case fi.PublishedParsed != nil:
			it.PublishedAt = *fi.PublishedParsed
		case fi.UpdatedParsed != nil:
			it.PublishedAt = *fi.UpdatedParsed
		}
		items = append(items, it)
	}
	return items, nil
}
