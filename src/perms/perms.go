/*
Every mutating operation in the domain layer funnels through this package's
single decision table. Call sites gather the facts about the target (ownership,
membership) and ask Can; nothing else in the codebase branches on roles.
*/
package perms

import (
	"git.newshub.network/newshub/newshub/src/models"
)

type Action int

const (
	ActionCreate Action = iota + 1
	ActionUpdate
	ActionDelete
	ActionSubmit
	ActionApprove
	ActionReject
)

// Facts about a target needed to make an authorization decision. Exactly one
// of these types accompanies each Can call.
type Target interface {
	isTarget()
}

type ArticleTarget struct {
	AuthorID       *int // nil when the author account was deleted
	HasPublication bool

	// Facts about the acting user, resolved by the caller against the
	// article's publication. Both are false for independent articles.
	ActorIsPublicationEditor     bool
	ActorIsPublicationJournalist bool
}

func (ArticleTarget) isTarget() {}

type PublicationTarget struct {
	// True when the acting user is in this publication's editor set. Ignored
	// for ActionCreate, where there is no publication yet.
	ActorIsEditor bool
}

func (PublicationTarget) isTarget() {}

type JoinRequestTarget struct {
	// True when the acting user edits the publication the request targets.
	ActorIsPublicationEditor bool
}

func (JoinRequestTarget) isTarget() {}

// Subscriptions belong to readers; journalists and editors are on the
// producing side and follow their own dashboards instead.
type SubscriptionTarget struct{}

func (SubscriptionTarget) isTarget() {}

/*
The decision table. Readers never write. Journalists write only what they
authored, and may only place articles with publications they belong to.
Editors decide only for publications that list them, and never touch
independent articles.
*/
func Can(actor *models.User, action Action, target Target) bool {
	if actor == nil {
		return false
	}

	switch target := target.(type) {
	case ArticleTarget:
		return canArticle(actor, action, target)
	case PublicationTarget:
		return canPublication(actor, action, target)
	case JoinRequestTarget:
		return canJoinRequest(actor, action, target)
	case SubscriptionTarget:
		switch action {
		case ActionCreate, ActionDelete:
			return actor.Role == models.RoleReader
		}
		return false
	}
	return false
}

func canArticle(actor *models.User, action Action, target ArticleTarget) bool {
	switch actor.Role {
	case models.RoleJournalist:
		switch action {
		case ActionCreate:
			// Placing an article with a publication requires membership.
			return !target.HasPublication || target.ActorIsPublicationJournalist
		case ActionUpdate, ActionDelete, ActionSubmit:
			return target.AuthorID != nil && *target.AuthorID == actor.ID
		}
		return false
	case models.RoleEditor:
		switch action {
		case ActionUpdate, ActionDelete, ActionApprove, ActionReject:
			return target.HasPublication && target.ActorIsPublicationEditor
		}
		return false
	}
	return false
}

func canPublication(actor *models.User, action Action, target PublicationTarget) bool {
	if actor.Role != models.RoleEditor {
		return false
	}
	switch action {
	case ActionCreate:
		return true
	case ActionUpdate, ActionDelete:
		return target.ActorIsEditor
	}
	return false
}

func canJoinRequest(actor *models.User, action Action, target JoinRequestTarget) bool {
	switch action {
	case ActionCreate:
		return actor.Role == models.RoleJournalist
	case ActionApprove, ActionReject:
		return actor.Role == models.RoleEditor && target.ActorIsPublicationEditor
	}
	return false
}
