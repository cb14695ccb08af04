package models

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
)

type ArticleType int

const (
	ArticleTypeArticle    ArticleType = 1
	ArticleTypeNewsletter ArticleType = 2
)

func (t ArticleType) String() string {
	switch t {
	case ArticleTypeArticle:
		return "article"
	case ArticleTypeNewsletter:
		return "newsletter"
	}
	return fmt.Sprintf("unknown article type %d", int(t))
}

func ParseArticleType(s string) (ArticleType, error) {
	switch s {
	case "article":
		return ArticleTypeArticle, nil
	case "newsletter":
		return ArticleTypeNewsletter, nil
	}
	return 0, fmt.Errorf("unknown article type %q", s)
}

type ArticleStatus int

const (
	ArticleStatusDraft           ArticleStatus = 1
	ArticleStatusPendingApproval ArticleStatus = 2
	ArticleStatusPublished       ArticleStatus = 3
	ArticleStatusRejected        ArticleStatus = 4
)

func (s ArticleStatus) String() string {
	switch s {
	case ArticleStatusDraft:
		return "draft"
	case ArticleStatusPendingApproval:
		return "pending_approval"
	case ArticleStatusPublished:
		return "published"
	case ArticleStatusRejected:
		return "rejected"
	}
	return fmt.Sprintf("unknown article status %d", int(s))
}

func ParseArticleStatus(s string) (ArticleStatus, error) {
	switch s {
	case "draft":
		return ArticleStatusDraft, nil
	case "pending_approval":
		return ArticleStatusPendingApproval, nil
	case "published":
		return ArticleStatusPublished, nil
	case "rejected":
		return ArticleStatusRejected, nil
	}
	return 0, fmt.Errorf("unknown article status %q", s)
}

type Article struct {
	ID int `db:"id"`

	Title string `db:"title"`
	Slug  string `db:"slug"` // unique

	AuthorID      *int `db:"author_id"`      // NULL when the author account was deleted
	PublicationID *int `db:"publication_id"` // NULL for independent articles

	Type   ArticleType   `db:"type"`
	Status ArticleStatus `db:"status"`

	Content  string `db:"content"`
	Feedback string `db:"feedback"` // editor feedback on rejection

	CreatedAt   time.Time  `db:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at"`
	PublishedAt *time.Time `db:"published_at"`
}

func (a *Article) IsIndependent() bool {
	return a.PublicationID == nil
}

/*
Applies the publication rule to an article being created or saved by its
author. Independent articles publish immediately; publication-linked ones go
to the publication's editors for review.

PublishedAt tracks the most recent continuous published interval: linking a
publication clears it, and auto-publishing stamps it only when unset, so a
save that keeps an article published keeps its original timestamp.
*/
func (a *Article) ResolveOnSave(now time.Time) {
	if a.PublicationID != nil {
		a.Status = ArticleStatusPendingApproval
		a.PublishedAt = nil
	} else {
		a.Status = ArticleStatusPublished
		if a.PublishedAt == nil {
			a.PublishedAt = &now
		}
	}
}

/*
Derives a unique slug from an article title, using the creation time as a
disambiguator ("breaking-news-1700000000"). Titles with no usable characters
fall back to a random fragment.
*/
func GenerateSlug(title string, now time.Time) string {
	base := slugify(title)
	if base == "" {
		base = uuid.New().String()[:8]
	}
	return fmt.Sprintf("%s-%d", base, now.Unix())
}

func slugify(s string) string {
	var b strings.Builder
	lastWasHyphen := true // suppress leading hyphens
	for _, r := range strings.ToLower(s) {
		switch {
		case ('a' <= r && r <= 'z') || ('0' <= r && r <= '9'):
			b.WriteRune(r)
			lastWasHyphen = false
		default:
			if !lastWasHyphen {
				b.WriteRune('-')
				lastWasHyphen = true
			}
		}
	}
	return strings.TrimRight(b.String(), "-")
}

// The arithmetic mean of all ratings, rounded to one decimal place, or zero
// when no ratings exist.
func AverageRating(scores []int) float64 {
	if len(scores) == 0 {
		return 0
	}
	sum := 0
	for _, s := range scores {
		sum += s
	}
	return math.Round(float64(sum)/float64(len(scores))*10) / 10
}
