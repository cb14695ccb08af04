package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestResolveOnSave(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	pubID := 3

	t.Run("independent articles publish immediately", func(t *testing.T) {
		a := Article{Title: "Breaking"}
		a.ResolveOnSave(now)
		assert.Equal(t, ArticleStatusPublished, a.Status)
		if assert.NotNil(t, a.PublishedAt) {
			assert.Equal(t, now, *a.PublishedAt)
		}
	})

	t.Run("publication-linked articles await approval", func(t *testing.T) {
		a := Article{Title: "Breaking", PublicationID: &pubID}
		a.ResolveOnSave(now)
		assert.Equal(t, ArticleStatusPendingApproval, a.Status)
		assert.Nil(t, a.PublishedAt)
	})

	t.Run("linking a publication clears published_at", func(t *testing.T) {
		earlier := now.Add(-time.Hour)
		a := Article{Title: "Breaking", Status: ArticleStatusPublished, PublishedAt: &earlier}
		a.PublicationID = &pubID
		a.ResolveOnSave(now)
		assert.Equal(t, ArticleStatusPendingApproval, a.Status)
		assert.Nil(t, a.PublishedAt)
	})

	t.Run("re-publishing keeps the existing timestamp", func(t *testing.T) {
		earlier := now.Add(-time.Hour)
		a := Article{Title: "Breaking", Status: ArticleStatusPublished, PublishedAt: &earlier}
		a.ResolveOnSave(now)
		assert.Equal(t, ArticleStatusPublished, a.Status)
		if assert.NotNil(t, a.PublishedAt) {
			assert.Equal(t, earlier, *a.PublishedAt)
		}
	})
}

func TestGenerateSlug(t *testing.T) {
	now := time.Unix(1700000000, 0)
	assert.Equal(t, "breaking-news-1700000000", GenerateSlug("Breaking News", now))
	assert.Equal(t, "what-s-up-2024-1700000000", GenerateSlug("  What's up, 2024?  ", now))

	// Unusable titles still produce something unique-ish
	slug := GenerateSlug("???", now)
	assert.NotEqual(t, "-1700000000", slug)
	assert.Contains(t, slug, "-1700000000")
}

func TestAverageRating(t *testing.T) {
	assert.Equal(t, 0.0, AverageRating(nil))
	assert.Equal(t, 3.0, AverageRating([]int{3}))
	assert.Equal(t, 3.5, AverageRating([]int{3, 4}))
	assert.Equal(t, 3.7, AverageRating([]int{3, 4, 4}))
	assert.Equal(t, 1.0, AverageRating([]int{1, 1, 1}))
}

func TestEnumStrings(t *testing.T) {
	assert.Equal(t, "article", ArticleTypeArticle.String())
	assert.Equal(t, "newsletter", ArticleTypeNewsletter.String())
	assert.Equal(t, "pending_approval", ArticleStatusPendingApproval.String())

	role, err := ParseRole("Editor")
	assert.NoError(t, err)
	assert.Equal(t, RoleEditor, role)
	_, err = ParseRole("admin")
	assert.Error(t, err)
}
