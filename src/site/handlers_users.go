package site

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"git.newshub.network/newshub/newshub/src/auth"
	"git.newshub.network/newshub/newshub/src/db"
	"git.newshub.network/newshub/newshub/src/models"
	"git.newshub.network/newshub/newshub/src/nhdata"
)

type userResponse struct {
	ID        int    `json:"id"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

func userToResponse(u *models.User) userResponse {
	return userResponse{
		ID:        u.ID,
		Email:     u.Email,
		Role:      u.Role.String(),
		FirstName: u.FirstName,
		LastName:  u.LastName,
	}
}

func (s *site) signup(c *RequestContext) error {
	var payload struct {
		Email     string `json:"email"`
		Password  string `json:"password"`
		FirstName string `json:"first_name"`
		LastName  string `json:"last_name"`
	}
	if err := readJSON(c, &payload); err != nil {
		return err
	}

	user, err := nhdata.CreateUser(c.Req.Context(), s.conn, nhdata.CreateUserInput{
		Email:     payload.Email,
		Password:  payload.Password,
		FirstName: payload.FirstName,
		LastName:  payload.LastName,
	})
	if err != nil {
		return err
	}

	return writeJSON(c, http.StatusCreated, userToResponse(user))
}

func (s *site) login(c *RequestContext) error {
	var payload struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := readJSON(c, &payload); err != nil {
		return err
	}

	user, err := nhdata.FetchUserByEmail(c.Req.Context(), s.conn, payload.Email)
	if err != nil {
		if errors.Is(err, db.NotFound) {
			return writeError(c.Res, errors.New("bad credentials"), http.StatusUnauthorized)
		}
		return err
	}

	hashed, err := auth.ParsePasswordString(user.Password)
	if err != nil {
		return err
	}
	ok, err := auth.CheckPassword(payload.Password, hashed)
	if err != nil {
		return err
	}
	if !ok {
		return writeError(c.Res, errors.New("bad credentials"), http.StatusUnauthorized)
	}

	session, err := auth.CreateSession(c.Req.Context(), s.conn, user.ID)
	if err != nil {
		return err
	}

	return writeJSON(c, http.StatusOK, map[string]any{
		"token":      session.ID,
		"expires_at": session.ExpiresAt.Format(time.RFC3339),
		"user":       userToResponse(user),
	})
}

func (s *site) logout(c *RequestContext) error {
	header := c.Req.Header.Get("Authorization")
	token, _ := strings.CutPrefix(header, "Bearer ")
	err := auth.DeleteSession(c.Req.Context(), s.conn, token)
	if err != nil {
		return err
	}
	return writeJSON(c, http.StatusOK, map[string]string{"status": "logged out"})
}

func (s *site) me(c *RequestContext) error {
	return writeJSON(c, http.StatusOK, userToResponse(c.CurrentUser))
}
