package perms

import (
	"testing"

	"git.newshub.network/newshub/newshub/src/models"
	"github.com/stretchr/testify/assert"
)

var (
	reader     = &models.User{ID: 1, Role: models.RoleReader}
	journalist = &models.User{ID: 2, Role: models.RoleJournalist}
	editor     = &models.User{ID: 3, Role: models.RoleEditor}
)

func articleBy(authorID int, target ArticleTarget) ArticleTarget {
	target.AuthorID = &authorID
	return target
}

func TestReadersNeverWrite(t *testing.T) {
	actions := []Action{ActionCreate, ActionUpdate, ActionDelete, ActionSubmit, ActionApprove, ActionReject}
	targets := []Target{
		articleBy(reader.ID, ArticleTarget{}),
		PublicationTarget{ActorIsEditor: true},
		JoinRequestTarget{ActorIsPublicationEditor: true},
	}
	for _, action := range actions {
		for _, target := range targets {
			assert.False(t, Can(reader, action, target), "reader must not %v %T", action, target)
		}
	}
}

func TestNilActor(t *testing.T) {
	assert.False(t, Can(nil, ActionCreate, ArticleTarget{}))
}

func TestJournalistArticleActions(t *testing.T) {
	t.Run("create independent", func(t *testing.T) {
		assert.True(t, Can(journalist, ActionCreate, ArticleTarget{}))
	})
	t.Run("create under publication requires membership", func(t *testing.T) {
		assert.False(t, Can(journalist, ActionCreate, ArticleTarget{HasPublication: true}))
		assert.True(t, Can(journalist, ActionCreate, ArticleTarget{
			HasPublication:               true,
			ActorIsPublicationJournalist: true,
		}))
	})
	t.Run("own articles only", func(t *testing.T) {
		own := articleBy(journalist.ID, ArticleTarget{})
		other := articleBy(99, ArticleTarget{})
		orphaned := ArticleTarget{} // author account deleted

		for _, action := range []Action{ActionUpdate, ActionDelete, ActionSubmit} {
			assert.True(t, Can(journalist, action, own))
			assert.False(t, Can(journalist, action, other))
			assert.False(t, Can(journalist, action, orphaned))
		}
	})
	t.Run("never approves or rejects", func(t *testing.T) {
		own := articleBy(journalist.ID, ArticleTarget{HasPublication: true, ActorIsPublicationJournalist: true})
		assert.False(t, Can(journalist, ActionApprove, own))
		assert.False(t, Can(journalist, ActionReject, own))
	})
	t.Run("no publication management", func(t *testing.T) {
		assert.False(t, Can(journalist, ActionCreate, PublicationTarget{}))
		assert.False(t, Can(journalist, ActionDelete, PublicationTarget{ActorIsEditor: true}))
	})
}

func TestEditorArticleActions(t *testing.T) {
	inOwnPublication := articleBy(99, ArticleTarget{HasPublication: true, ActorIsPublicationEditor: true})
	inOtherPublication := articleBy(99, ArticleTarget{HasPublication: true})
	independent := articleBy(99, ArticleTarget{})

	t.Run("decides within own publications", func(t *testing.T) {
		for _, action := range []Action{ActionUpdate, ActionDelete, ActionApprove, ActionReject} {
			assert.True(t, Can(editor, action, inOwnPublication))
			assert.False(t, Can(editor, action, inOtherPublication))
		}
	})
	t.Run("no access to independent articles", func(t *testing.T) {
		for _, action := range []Action{ActionUpdate, ActionDelete, ActionApprove, ActionReject} {
			assert.False(t, Can(editor, action, independent))
		}
	})
	t.Run("never creates articles", func(t *testing.T) {
		assert.False(t, Can(editor, ActionCreate, ArticleTarget{}))
		assert.False(t, Can(editor, ActionCreate, ArticleTarget{HasPublication: true, ActorIsPublicationEditor: true}))
	})
}

func TestPublicationActions(t *testing.T) {
	assert.True(t, Can(editor, ActionCreate, PublicationTarget{}))
	assert.True(t, Can(editor, ActionDelete, PublicationTarget{ActorIsEditor: true}))
	assert.False(t, Can(editor, ActionDelete, PublicationTarget{}))
	assert.True(t, Can(editor, ActionUpdate, PublicationTarget{ActorIsEditor: true}))
	assert.False(t, Can(editor, ActionUpdate, PublicationTarget{}))
}

func TestSubscriptionActions(t *testing.T) {
	assert.True(t, Can(reader, ActionCreate, SubscriptionTarget{}))
	assert.True(t, Can(reader, ActionDelete, SubscriptionTarget{}))
	assert.False(t, Can(reader, ActionUpdate, SubscriptionTarget{}))

	assert.False(t, Can(journalist, ActionCreate, SubscriptionTarget{}))
	assert.False(t, Can(editor, ActionCreate, SubscriptionTarget{}))
	assert.False(t, Can(nil, ActionCreate, SubscriptionTarget{}))
}

func TestJoinRequestActions(t *testing.T) {
	assert.True(t, Can(journalist, ActionCreate, JoinRequestTarget{}))
	assert.False(t, Can(editor, ActionCreate, JoinRequestTarget{}))

	assert.True(t, Can(editor, ActionApprove, JoinRequestTarget{ActorIsPublicationEditor: true}))
	assert.True(t, Can(editor, ActionReject, JoinRequestTarget{ActorIsPublicationEditor: true}))
	assert.False(t, Can(editor, ActionApprove, JoinRequestTarget{}))
	assert.False(t, Can(journalist, ActionApprove, JoinRequestTarget{ActorIsPublicationEditor: true}))
}
