package article

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
)

// ErrInvalidFeed marks raw input that could not be parsed as an RSS or Atom
// document. Callers skip the ingestion cycle and retry on the next schedule.
var ErrInvalidFeed = errors.New("invalid feed document")

type Parser struct {
	gofeedParser *gofeed.Parser
}

func NewParser() *Parser {
	return &Parser{
		gofeedParser: gofeed.NewParser(),
	}
}

// Document is one parsed feed: its title and the normalized articles in
// document order.
type Document struct {
	Title    string
	Articles []Article
}

// Parse turns raw feed text into normalized articles in document order.
// A structurally valid feed with zero items yields an empty slice.
func (p *Parser) Parse(data []byte) ([]Article, error) {
	doc, err := p.ParseDocument(data)
	if err != nil {
		return nil, err
	}
	return doc.Articles, nil
}

// ParseDocument parses the full document including feed-level metadata.
func (p *Parser) ParseDocument(data []byte) (*Document, error) {
	feed, err := p.gofeedParser.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFeed, err)
	}

	articles := make([]Article, 0, len(feed.Items))
	for _, item := range feed.Items {
		articles = append(articles, p.normalizeItem(item))
	}

	return &Document{Title: feed.Title, Articles: articles}, nil
}

func (p *Parser) normalizeItem(item *gofeed.Item) Article {
	a := Article{Fields: make(map[string]string)}

	setField(a.Fields, FieldTitle, item.Title)
	setField(a.Fields, FieldDescription, item.Description)
	setField(a.Fields, FieldLink, item.Link)
	setField(a.Fields, FieldGUID, item.GUID)
	setField(a.Fields, FieldContent, item.Content)
	setField(a.Fields, FieldAuthor, extractAuthor(item))
	if len(item.Categories) > 0 {
		a.Fields[FieldCategories] = strings.Join(item.Categories, ",")
	}
	if item.PublishedParsed != nil {
		a.Fields[FieldPublished] = item.PublishedParsed.UTC().Format(time.RFC3339)
	}

	a.ID = p.deriveID(item)
	return a
}

// deriveID prefers the item's explicit identifier and falls back to a hash of
// link and title so that re-parsing identical raw bytes yields identical ids.
func (p *Parser) deriveID(item *gofeed.Item) string {
	if item.GUID != "" {
		return item.GUID
	}

	content := fmt.Sprintf("%s|%s", item.Link, item.Title)
	hash := sha256.Sum256([]byte(content))
	return hex.EncodeToString(hash[:])
}

func extractAuthor(item *gofeed.Item) string {
	if len(item.Authors) > 0 && item.Authors[0] != nil {
		return formatAuthor(item.Authors[0].Name, item.Authors[0].Email)
	}
	if item.Author != nil {
		return formatAuthor(item.Author.Name, item.Author.Email)
	}
	return ""
}

func formatAuthor(name, email string) string {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)

	if name != "" && email != "" {
		return fmt.Sprintf("%s (%s)", email, name)
	} else if name != "" {
		return name
	}
	return email
}

func setField(fields map[string]string, name, value string) {
	if value != "" {
		fields[name] = value
	}
}
