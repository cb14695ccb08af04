package nhdata

import (
	"testing"

	"git.newshub.network/newshub/newshub/src/models"
	"github.com/stretchr/testify/assert"
)

func TestDedupeEmails(t *testing.T) {
	assert.Equal(t,
		[]string{"alice@example.com", "bob@example.com"},
		dedupeEmails([]string{"bob@example.com", "alice@example.com", "", "bob@example.com"}),
	)
	assert.Empty(t, dedupeEmails(nil))
	assert.Empty(t, dedupeEmails([]string{"", ""}))
}

func TestArticleForUpdateQuery(t *testing.T) {
	t.Run("anonymous sees published only", func(t *testing.T) {
		qb := articleForUpdateQuery(nil, 1)
		query := qb.String()
		assert.Contains(t, query, "article.status = $2")
		assert.Contains(t, query, "FOR UPDATE")
		assert.Equal(t, []any{1, models.ArticleStatusPublished}, qb.Args())
	})
	t.Run("journalists additionally see their own", func(t *testing.T) {
		journalist := &models.User{ID: 7, Role: models.RoleJournalist}
		qb := articleForUpdateQuery(journalist, 1)
		query := qb.String()
		assert.Contains(t, query, "article.author_id = $3")
		assert.Contains(t, query, "FOR UPDATE")
		assert.Equal(t, []any{1, models.ArticleStatusPublished, 7}, qb.Args())
	})
	t.Run("editors additionally see their publications", func(t *testing.T) {
		editor := &models.User{ID: 9, Role: models.RoleEditor}
		qb := articleForUpdateQuery(editor, 1)
		query := qb.String()
		assert.Contains(t, query, "publication_editor")
		assert.Contains(t, query, "FOR UPDATE")
	})
}

func TestSoleTarget(t *testing.T) {
	assert.True(t, soleTarget([]int{3}, 3))
	assert.False(t, soleTarget([]int{3}, 4))
	assert.False(t, soleTarget([]int{3, 4}, 3))
	assert.False(t, soleTarget(nil, 3))
}

func TestArticleInputValidate(t *testing.T) {
	good := ArticleInput{
		Title:   "  Big News  ",
		Content: "words",
		Type:    models.ArticleTypeArticle,
	}
	assert.Nil(t, good.validate())
	assert.Equal(t, "Big News", good.Title)

	bad := good
	bad.Title = "   "
	var verr ValidationError
	assert.ErrorAs(t, bad.validate(), &verr)
	assert.Equal(t, "title", verr.Field)

	bad = good
	bad.Content = ""
	assert.ErrorAs(t, bad.validate(), &verr)
	assert.Equal(t, "content", verr.Field)

	bad = good
	bad.Type = 99
	assert.ErrorAs(t, bad.validate(), &verr)
}

func TestIntPtrEqual(t *testing.T) {
	three, alsoThree, four := 3, 3, 4
	assert.True(t, intPtrEqual(nil, nil))
	assert.True(t, intPtrEqual(&three, &alsoThree))
	assert.False(t, intPtrEqual(&three, &four))
	assert.False(t, intPtrEqual(&three, nil))
}
