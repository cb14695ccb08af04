package site

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"git.newshub.network/newshub/newshub/src/auth"
	"git.newshub.network/newshub/newshub/src/db"
	"git.newshub.network/newshub/newshub/src/logging"
	"git.newshub.network/newshub/newshub/src/models"
	"git.newshub.network/newshub/newshub/src/nhdata"
	"git.newshub.network/newshub/newshub/src/notify"
	"github.com/julienschmidt/httprouter"
)

// RequestContext carries everything a handler needs for one request. The
// current user is resolved from the bearer token before the handler runs and
// is nil for anonymous requests.
type RequestContext struct {
	Req    *http.Request
	Res    http.ResponseWriter
	Params httprouter.Params

	CurrentUser *models.User
}

type Handler func(c *RequestContext) error

type site struct {
	conn     db.ConnOrTx
	notifier *notify.Notifier
}

func (s *site) wrap(h Handler) httprouter.Handle {
	return func(res http.ResponseWriter, req *http.Request, params httprouter.Params) {
		defer func() {
			if recovered := recover(); recovered != nil {
				logging.LogPanicValue(nil, recovered, "panic when handling request")
				writeError(res, errors.New("internal error"), http.StatusInternalServerError)
			}
		}()

		c := &RequestContext{
			Req:    req,
			Res:    res,
			Params: params,
		}

		user, err := s.currentUser(c)
		if err != nil {
			logging.Error().Err(err).Msg("failed to resolve current user")
			writeError(res, errors.New("internal error"), http.StatusInternalServerError)
			return
		}
		c.CurrentUser = user

		start := time.Now()
		err = h(c)
		if err != nil {
			s.respondError(c, err)
		}
		logging.Info().
			Str("method", req.Method).
			Str("path", req.URL.Path).
			Dur("duration", time.Since(start)).
			Msg("handled request")
	}
}

// requireUser makes a handler that rejects anonymous requests outright.
func (s *site) requireUser(h Handler) httprouter.Handle {
	return s.wrap(func(c *RequestContext) error {
		if c.CurrentUser == nil {
			return writeError(c.Res, errors.New("login required"), http.StatusUnauthorized)
		}
		return h(c)
	})
}

func (s *site) currentUser(c *RequestContext) (*models.User, error) {
	header := c.Req.Header.Get("Authorization")
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok {
		return nil, nil
	}

	session, err := auth.GetSession(c.Req.Context(), s.conn, token)
	if err != nil {
		if errors.Is(err, auth.ErrNoSession) {
			return nil, nil
		}
		return nil, err
	}

	user, err := nhdata.FetchUser(c.Req.Context(), s.conn, session.UserID)
	if err != nil {
		if errors.Is(err, db.NotFound) {
			return nil, nil
		}
		return nil, err
	}

	return user, nil
}

// respondError maps data-layer failures onto HTTP statuses.
func (s *site) respondError(c *RequestContext, err error) {
	var verr nhdata.ValidationError
	switch {
	case errors.As(err, &verr):
		writeError(c.Res, verr, http.StatusBadRequest)
	case errors.Is(err, nhdata.ErrUnauthorized):
		writeError(c.Res, err, http.StatusForbidden)
	case errors.Is(err, nhdata.ErrConflict), errors.Is(err, nhdata.ErrInvalidState):
		writeError(c.Res, err, http.StatusConflict)
	case errors.Is(err, db.NotFound):
		writeError(c.Res, errors.New("not found"), http.StatusNotFound)
	case errors.Is(err, errBadRequest):
		writeError(c.Res, err, http.StatusBadRequest)
	default:
		logging.Error().Err(err).Msg("request failed")
		writeError(c.Res, errors.New("internal error"), http.StatusInternalServerError)
	}
}

var errBadRequest = errors.New("bad request")

func readJSON(c *RequestContext, dest any) error {
	err := json.NewDecoder(c.Req.Body).Decode(dest)
	if err != nil {
		return errBadRequest
	}
	return nil
}

func writeJSON(c *RequestContext, status int, payload any) error {
	c.Res.Header().Set("Content-Type", "application/json")
	c.Res.WriteHeader(status)
	return json.NewEncoder(c.Res).Encode(payload)
}

func writeError(res http.ResponseWriter, err error, status int) error {
	res.Header().Set("Content-Type", "application/json")
	res.WriteHeader(status)
	return json.NewEncoder(res).Encode(map[string]string{"error": err.Error()})
}

func (c *RequestContext) intParam(name string) (int, error) {
	val, err := strconv.Atoi(c.Params.ByName(name))
	if err != nil {
		return 0, errBadRequest
	}
	return val, nil
}
