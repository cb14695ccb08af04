package email

import (
	"testing"

	"git.newshub.network/newshub/newshub/src/models"
	"github.com/stretchr/testify/assert"
)

func TestPublicationNotice(t *testing.T) {
	t.Run("article", func(t *testing.T) {
		article := &models.Article{Title: "Big Scoop", Type: models.ArticleTypeArticle}
		subject, body := publicationNotice(article, "Jo Byline")
		assert.Equal(t, "New Article: Big Scoop", subject)
		assert.Contains(t, body, "A new article has just been published")
		assert.Contains(t, body, "Title: Big Scoop")
		assert.Contains(t, body, "Author: Jo Byline")
	})

	t.Run("newsletter", func(t *testing.T) {
		article := &models.Article{Title: "Weekly Digest", Type: models.ArticleTypeNewsletter}
		subject, body := publicationNotice(article, "Jo Byline")
		assert.Equal(t, "New Newsletter: Weekly Digest", subject)
		assert.Contains(t, body, "A new newsletter has just been published")
	})
}

func TestIsEmail(t *testing.T) {
	assert.True(t, IsEmail("reader@example.com"))
	assert.False(t, IsEmail("not an email"))
	assert.False(t, IsEmail("missing@tld"))
}
