package site

import (
	"net/http"
	"strconv"
	"time"

	"git.newshub.network/newshub/newshub/src/models"
	"git.newshub.network/newshub/newshub/src/nhdata"
)

type publicationResponse struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

func publicationToResponse(p *models.Publication) publicationResponse {
	return publicationResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
	}
}

func (s *site) listPublications(c *RequestContext) error {
	pubs, err := nhdata.FetchPublications(c.Req.Context(), s.conn, nhdata.PublicationsQuery{})
	if err != nil {
		return err
	}

	resp := make([]publicationResponse, len(pubs))
	for i, p := range pubs {
		resp[i] = publicationToResponse(p)
	}
	return writeJSON(c, http.StatusOK, resp)
}

func (s *site) getPublication(c *RequestContext) error {
	pubId, err := c.intParam("id")
	if err != nil {
		return err
	}

	pub, err := nhdata.FetchPublication(c.Req.Context(), s.conn, pubId)
	if err != nil {
		return err
	}
	return writeJSON(c, http.StatusOK, publicationToResponse(pub))
}

func (s *site) createPublication(c *RequestContext) error {
	var payload struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	}
	if err := readJSON(c, &payload); err != nil {
		return err
	}

	pub, err := nhdata.CreatePublication(c.Req.Context(), s.conn, c.CurrentUser, nhdata.PublicationInput{
		Name:        payload.Name,
		Description: payload.Description,
	})
	if err != nil {
		return err
	}
	return writeJSON(c, http.StatusCreated, publicationToResponse(pub))
}

func (s *site) updatePublication(c *RequestContext) error {
	pubId, err := c.intParam("id")
	if err != nil {
		return err
	}
	var payload struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	}
	if err := readJSON(c, &payload); err != nil {
		return err
	}

	pub, err := nhdata.UpdatePublication(c.Req.Context(), s.conn, c.CurrentUser, pubId, nhdata.PublicationInput{
		Name:        payload.Name,
		Description: payload.Description,
	})
	if err != nil {
		return err
	}
	return writeJSON(c, http.StatusOK, publicationToResponse(pub))
}

func (s *site) deletePublication(c *RequestContext) error {
	pubId, err := c.intParam("id")
	if err != nil {
		return err
	}

	err = nhdata.DeletePublication(c.Req.Context(), s.conn, c.CurrentUser, pubId)
	if err != nil {
		return err
	}
	return writeJSON(c, http.StatusOK, map[string]string{"status": "deleted"})
}

type joinRequestResponse struct {
	ID          int        `json:"id"`
	Publication string     `json:"publication"`
	Requester   string     `json:"requester"`
	Message     string     `json:"message"`
	Status      string     `json:"status"`
	Feedback    string     `json:"feedback,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	ReviewedAt  *time.Time `json:"reviewed_at"`
}

func joinRequestToResponse(row *nhdata.JoinRequestAndStuff) joinRequestResponse {
	resp := joinRequestResponse{
		ID:         row.JoinRequest.ID,
		Message:    row.JoinRequest.Message,
		Status:     row.JoinRequest.Status.String(),
		Feedback:   row.JoinRequest.Feedback,
		CreatedAt:  row.JoinRequest.CreatedAt,
		ReviewedAt: row.JoinRequest.ReviewedAt,
	}
	if row.Publication != nil {
		resp.Publication = row.Publication.Name
	}
	if row.User != nil {
		resp.Requester = row.User.BestName()
	}
	return resp
}

func (s *site) createJoinRequest(c *RequestContext) error {
	pubId, err := c.intParam("id")
	if err != nil {
		return err
	}
	var payload struct {
		Message string `json:"message"`
	}
	if err := readJSON(c, &payload); err != nil {
		return err
	}

	req, err := nhdata.CreateJoinRequest(c.Req.Context(), s.conn, c.CurrentUser, pubId, payload.Message)
	if err != nil {
		return err
	}
	return writeJSON(c, http.StatusCreated, map[string]any{
		"id":     req.ID,
		"status": req.Status.String(),
	})
}

// listJoinRequests shows a journalist their own requests. Editors can filter
// by publication to review incoming requests instead.
func (s *site) listJoinRequests(c *RequestContext) error {
	q := nhdata.JoinRequestsQuery{}

	if v := c.Req.URL.Query().Get("publication"); v != "" {
		pubId, err := strconv.Atoi(v)
		if err != nil {
			return errBadRequest
		}
		isEditor, err := nhdata.UserIsPublicationEditor(c.Req.Context(), s.conn, c.CurrentUser.ID, pubId)
		if err != nil {
			return err
		}
		if !isEditor {
			return nhdata.ErrUnauthorized
		}
		q.PublicationIDs = []int{pubId}
	} else {
		q.UserIDs = []int{c.CurrentUser.ID}
	}

	reqs, err := nhdata.FetchJoinRequests(c.Req.Context(), s.conn, q)
	if err != nil {
		return err
	}

	resp := make([]joinRequestResponse, len(reqs))
	for i, row := range reqs {
		resp[i] = joinRequestToResponse(row)
	}
	return writeJSON(c, http.StatusOK, resp)
}

func (s *site) approveJoinRequest(c *RequestContext) error {
	requestId, err := c.intParam("id")
	if err != nil {
		return err
	}

	req, err := nhdata.ApproveJoinRequest(c.Req.Context(), s.conn, c.CurrentUser, requestId)
	if err != nil {
		return err
	}
	return writeJSON(c, http.StatusOK, map[string]string{"status": req.Status.String()})
}

func (s *site) rejectJoinRequest(c *RequestContext) error {
	requestId, err := c.intParam("id")
	if err != nil {
		return err
	}
	var payload struct {
		Feedback string `json:"feedback"`
	}
	if err := readJSON(c, &payload); err != nil {
		return err
	}

	req, err := nhdata.RejectJoinRequest(c.Req.Context(), s.conn, c.CurrentUser, requestId, payload.Feedback)
	if err != nil {
		return err
	}
	return writeJSON(c, http.StatusOK, map[string]string{"status": req.Status.String()})
}
