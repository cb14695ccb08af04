package site

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"git.newshub.network/newshub/newshub/src/db"
	"git.newshub.network/newshub/newshub/src/nhdata"
	"git.newshub.network/newshub/newshub/src/oops"
	"github.com/stretchr/testify/assert"
)

func TestRespondError(t *testing.T) {
	s := &site{}

	statusFor := func(err error) int {
		rec := httptest.NewRecorder()
		c := &RequestContext{Res: rec, Req: httptest.NewRequest(http.MethodGet, "/", nil)}
		s.respondError(c, err)
		return rec.Code
	}

	assert.Equal(t, http.StatusForbidden, statusFor(nhdata.ErrUnauthorized))
	assert.Equal(t, http.StatusConflict, statusFor(nhdata.ErrConflict))
	assert.Equal(t, http.StatusConflict, statusFor(nhdata.ErrInvalidState))
	assert.Equal(t, http.StatusNotFound, statusFor(db.NotFound))
	assert.Equal(t, http.StatusBadRequest, statusFor(nhdata.ValidationError{Field: "title", Msg: "bad"}))
	assert.Equal(t, http.StatusBadRequest, statusFor(errBadRequest))
	assert.Equal(t, http.StatusInternalServerError, statusFor(oops.New(errors.New("boom"), "db exploded")))
}
