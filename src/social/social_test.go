package social

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"git.newshub.network/newshub/newshub/src/config"
	"github.com/stretchr/testify/assert"
)

func TestDisabledClientDoesNothing(t *testing.T) {
	c := NewClientWithConfig(config.SocialConfig{})
	assert.False(t, c.Enabled())
	assert.Nil(t, c.PostArticle(context.Background(), "Title", "Author"))

	var nilClient *Client
	assert.False(t, nilClient.Enabled())
}

func TestPostArticle(t *testing.T) {
	var requests atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		assert.Equal(t, "Bearer token123", r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewClientWithConfig(config.SocialConfig{
		PostUrl:     srv.URL,
		AccessToken: "token123",
		MaxAttempts: 3,
	})
	assert.Nil(t, c.PostArticle(context.Background(), "Big News", "June Journalist"))
	assert.EqualValues(t, 1, requests.Load())
}

func TestPostArticleGivesUp(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewClientWithConfig(config.SocialConfig{
		PostUrl:     srv.URL,
		MaxAttempts: 1,
	})
	assert.NotNil(t, c.PostArticle(context.Background(), "Big News", "June Journalist"))
}
