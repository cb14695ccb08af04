package site

import (
	"net/http"
	"time"

	"git.newshub.network/newshub/newshub/src/models"
	"git.newshub.network/newshub/newshub/src/nhdata"
)

type subscriptionResponse struct {
	ID            int       `json:"id"`
	PublicationID *int      `json:"publication_id,omitempty"`
	JournalistID  *int      `json:"journalist_id,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

func (s *site) listSubscriptions(c *RequestContext) error {
	subs, err := nhdata.FetchSubscriptions(c.Req.Context(), s.conn, nhdata.SubscriptionsQuery{
		SubscriberIDs: []int{c.CurrentUser.ID},
	})
	if err != nil {
		return err
	}

	resp := make([]subscriptionResponse, len(subs))
	for i, sub := range subs {
		resp[i] = subscriptionResponse{
			ID:            sub.ID,
			PublicationID: sub.PublicationID,
			JournalistID:  sub.JournalistID,
			CreatedAt:     sub.CreatedAt,
		}
	}
	return writeJSON(c, http.StatusOK, resp)
}

type subscriptionPayload struct {
	PublicationID *int `json:"publication_id"`
	JournalistID  *int `json:"journalist_id"`
}

func (s *site) subscribe(c *RequestContext) error {
	var payload subscriptionPayload
	if err := readJSON(c, &payload); err != nil {
		return err
	}

	sub, created, err := nhdata.Subscribe(c.Req.Context(), s.conn, c.CurrentUser, models.Subscription{
		PublicationID: payload.PublicationID,
		JournalistID:  payload.JournalistID,
	})
	if err != nil {
		return err
	}

	status := "subscribed"
	if !created {
		status = "already subscribed"
	}
	return writeJSON(c, http.StatusOK, map[string]any{
		"status": status,
		"id":     sub.ID,
	})
}

func (s *site) unsubscribe(c *RequestContext) error {
	var payload subscriptionPayload
	if err := readJSON(c, &payload); err != nil {
		return err
	}

	removed, err := nhdata.Unsubscribe(c.Req.Context(), s.conn, c.CurrentUser, models.Subscription{
		PublicationID: payload.PublicationID,
		JournalistID:  payload.JournalistID,
	})
	if err != nil {
		return err
	}

	status := "unsubscribed"
	if !removed {
		status = "not subscribed"
	}
	return writeJSON(c, http.StatusOK, map[string]string{"status": status})
}
