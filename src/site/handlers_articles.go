package site

import (
	"net/http"
	"strconv"
	"time"

	"git.newshub.network/newshub/newshub/src/models"
	"git.newshub.network/newshub/newshub/src/nhdata"
)

type articleResponse struct {
	ID          int        `json:"id"`
	Title       string     `json:"title"`
	Slug        string     `json:"slug"`
	Content     string     `json:"content"`
	Type        string     `json:"type"`
	Status      string     `json:"status"`
	Feedback    string     `json:"feedback,omitempty"`
	Author      *string    `json:"author"`
	Publication *string    `json:"publication"`
	CreatedAt   time.Time  `json:"created_at"`
	PublishedAt *time.Time `json:"published_at"`

	AverageRating *float64 `json:"average_rating,omitempty"`
}

func articleToResponse(row *nhdata.ArticleAndStuff) articleResponse {
	resp := articleResponse{
		ID:          row.Article.ID,
		Title:       row.Article.Title,
		Slug:        row.Article.Slug,
		Content:     row.Article.Content,
		Type:        row.Article.Type.String(),
		Status:      row.Article.Status.String(),
		Feedback:    row.Article.Feedback,
		CreatedAt:   row.Article.CreatedAt,
		PublishedAt: row.Article.PublishedAt,
	}
	if row.Author != nil {
		name := row.Author.BestName()
		resp.Author = &name
	}
	if row.Publication != nil {
		resp.Publication = &row.Publication.Name
	}
	return resp
}

type articlePayload struct {
	Title         string `json:"title"`
	Content       string `json:"content"`
	Type          string `json:"type"`
	PublicationID *int   `json:"publication_id"`
}

func (p articlePayload) toInput() (nhdata.ArticleInput, error) {
	articleType := models.ArticleTypeArticle
	if p.Type != "" {
		var err error
		articleType, err = models.ParseArticleType(p.Type)
		if err != nil {
			return nhdata.ArticleInput{}, errBadRequest
		}
	}
	return nhdata.ArticleInput{
		Title:         p.Title,
		Content:       p.Content,
		Type:          articleType,
		PublicationID: p.PublicationID,
	}, nil
}

func (s *site) listArticles(c *RequestContext) error {
	q := nhdata.ArticlesQuery{
		OrderByPublished: true,
		Limit:            50,
	}
	query := c.Req.URL.Query()
	if v := query.Get("publication"); v != "" {
		id, err := strconv.Atoi(v)
		if err != nil {
			return errBadRequest
		}
		q.PublicationIDs = []int{id}
	}
	if v := query.Get("author"); v != "" {
		id, err := strconv.Atoi(v)
		if err != nil {
			return errBadRequest
		}
		q.AuthorIDs = []int{id}
	}
	if v := query.Get("status"); v != "" {
		status, err := models.ParseArticleStatus(v)
		if err != nil {
			return errBadRequest
		}
		q.Statuses = []models.ArticleStatus{status}
	}
	if v := query.Get("type"); v != "" {
		articleType, err := models.ParseArticleType(v)
		if err != nil {
			return errBadRequest
		}
		q.Types = []models.ArticleType{articleType}
	}
	if query.Get("independent") == "true" {
		q.IndependentOnly = true
	}
	if v := query.Get("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil || limit < 1 || limit > 200 {
			return errBadRequest
		}
		q.Limit = limit
	}
	if v := query.Get("offset"); v != "" {
		offset, err := strconv.Atoi(v)
		if err != nil || offset < 0 {
			return errBadRequest
		}
		q.Offset = offset
	}

	rows, err := nhdata.FetchArticles(c.Req.Context(), s.conn, c.CurrentUser, q)
	if err != nil {
		return err
	}

	resp := make([]articleResponse, len(rows))
	for i, row := range rows {
		resp[i] = articleToResponse(row)
	}
	return writeJSON(c, http.StatusOK, resp)
}

func (s *site) getArticle(c *RequestContext) error {
	articleId, err := c.intParam("id")
	if err != nil {
		return err
	}

	row, err := nhdata.FetchArticle(c.Req.Context(), s.conn, c.CurrentUser, articleId)
	if err != nil {
		return err
	}

	avg, err := nhdata.FetchAverageRating(c.Req.Context(), s.conn, articleId)
	if err != nil {
		return err
	}

	resp := articleToResponse(row)
	resp.AverageRating = &avg
	return writeJSON(c, http.StatusOK, resp)
}

func (s *site) createArticle(c *RequestContext) error {
	var payload articlePayload
	if err := readJSON(c, &payload); err != nil {
		return err
	}

	input, err := payload.toInput()
	if err != nil {
		return err
	}

	article, err := nhdata.CreateArticle(c.Req.Context(), s.conn, c.CurrentUser, input, s.notifier)
	if err != nil {
		return err
	}

	row, err := nhdata.FetchArticle(c.Req.Context(), s.conn, c.CurrentUser, article.ID)
	if err != nil {
		return err
	}
	return writeJSON(c, http.StatusCreated, articleToResponse(row))
}

func (s *site) updateArticle(c *RequestContext) error {
	articleId, err := c.intParam("id")
	if err != nil {
		return err
	}
	var payload articlePayload
	if err := readJSON(c, &payload); err != nil {
		return err
	}

	input, err := payload.toInput()
	if err != nil {
		return err
	}

	article, err := nhdata.UpdateArticle(c.Req.Context(), s.conn, c.CurrentUser, articleId, input, s.notifier)
	if err != nil {
		return err
	}

	row, err := nhdata.FetchArticle(c.Req.Context(), s.conn, c.CurrentUser, article.ID)
	if err != nil {
		return err
	}
	return writeJSON(c, http.StatusOK, articleToResponse(row))
}

func (s *site) deleteArticle(c *RequestContext) error {
	articleId, err := c.intParam("id")
	if err != nil {
		return err
	}

	err = nhdata.DeleteArticle(c.Req.Context(), s.conn, c.CurrentUser, articleId)
	if err != nil {
		return err
	}
	return writeJSON(c, http.StatusOK, map[string]string{"status": "deleted"})
}

func (s *site) submitArticle(c *RequestContext) error {
	articleId, err := c.intParam("id")
	if err != nil {
		return err
	}

	article, submitted, err := nhdata.SubmitForApproval(c.Req.Context(), s.conn, c.CurrentUser, articleId)
	if err != nil {
		return err
	}

	status := "submitted for approval"
	if !submitted {
		status = "no approval needed"
	}
	return writeJSON(c, http.StatusOK, map[string]any{
		"status":         status,
		"article_status": article.Status.String(),
	})
}

func (s *site) approveArticle(c *RequestContext) error {
	articleId, err := c.intParam("id")
	if err != nil {
		return err
	}

	article, err := nhdata.ApproveArticle(c.Req.Context(), s.conn, c.CurrentUser, articleId, s.notifier)
	if err != nil {
		return err
	}
	return writeJSON(c, http.StatusOK, map[string]string{"article_status": article.Status.String()})
}

func (s *site) rejectArticle(c *RequestContext) error {
	articleId, err := c.intParam("id")
	if err != nil {
		return err
	}
	var payload struct {
		Feedback string `json:"feedback"`
	}
	if err := readJSON(c, &payload); err != nil {
		return err
	}

	article, err := nhdata.RejectArticle(c.Req.Context(), s.conn, c.CurrentUser, articleId, payload.Feedback)
	if err != nil {
		return err
	}
	return writeJSON(c, http.StatusOK, map[string]string{"article_status": article.Status.String()})
}

func (s *site) listComments(c *RequestContext) error {
	articleId, err := c.intParam("id")
	if err != nil {
		return err
	}

	// Comments on an invisible article are invisible too.
	if _, err := nhdata.FetchArticle(c.Req.Context(), s.conn, c.CurrentUser, articleId); err != nil {
		return err
	}

	comments, err := nhdata.FetchComments(c.Req.Context(), s.conn, articleId)
	if err != nil {
		return err
	}

	type commentResponse struct {
		ID        int       `json:"id"`
		Author    string    `json:"author"`
		Text      string    `json:"text"`
		CreatedAt time.Time `json:"created_at"`
	}
	resp := make([]commentResponse, len(comments))
	for i, row := range comments {
		resp[i] = commentResponse{
			ID:        row.Comment.ID,
			Text:      row.Comment.Text,
			CreatedAt: row.Comment.CreatedAt,
		}
		if row.Author != nil {
			resp[i].Author = row.Author.BestName()
		}
	}
	return writeJSON(c, http.StatusOK, resp)
}

func (s *site) createComment(c *RequestContext) error {
	articleId, err := c.intParam("id")
	if err != nil {
		return err
	}
	var payload struct {
		Text string `json:"text"`
	}
	if err := readJSON(c, &payload); err != nil {
		return err
	}

	comment, err := nhdata.CommentOnArticle(c.Req.Context(), s.conn, c.CurrentUser, articleId, payload.Text)
	if err != nil {
		return err
	}
	return writeJSON(c, http.StatusCreated, map[string]any{
		"id":   comment.ID,
		"text": comment.Text,
	})
}

func (s *site) rateArticle(c *RequestContext) error {
	articleId, err := c.intParam("id")
	if err != nil {
		return err
	}
	var payload struct {
		Score int `json:"score"`
	}
	if err := readJSON(c, &payload); err != nil {
		return err
	}

	_, err = nhdata.RateArticle(c.Req.Context(), s.conn, c.CurrentUser, articleId, payload.Score)
	if err != nil {
		return err
	}

	avg, err := nhdata.FetchAverageRating(c.Req.Context(), s.conn, articleId)
	if err != nil {
		return err
	}
	return writeJSON(c, http.StatusOK, map[string]any{"average_rating": avg})
}
