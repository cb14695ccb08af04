package notify

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"git.newshub.network/newshub/newshub/src/config"
	"git.newshub.network/newshub/newshub/src/models"
	"git.newshub.network/newshub/newshub/src/social"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArticlePublished(t *testing.T) {
	var mu sync.Mutex
	var sentTo [][]string
	sent := make(chan struct{}, 10)

	n := &Notifier{
		resolveRecipients: func(ctx context.Context, article *models.Article) ([]string, error) {
			return []string{"alice@example.com", "bob@example.com"}, nil
		},
		sendEmail: func(recipients []string, article *models.Article, authorName string) error {
			mu.Lock()
			sentTo = append(sentTo, recipients)
			mu.Unlock()
			sent <- struct{}{}
			return nil
		},
	}

	article := &models.Article{ID: 1, Title: "Big News", Slug: "big-news-123"}
	author := &models.User{FirstName: "Alice", LastName: "Author"}

	n.ArticlePublished(context.Background(), article, author)

	select {
	case <-sent:
	case <-time.After(time.Second):
		t.Fatal("notification was never dispatched")
	}
	n.Shutdown(time.Second)

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, sentTo, 1)
	assert.Equal(t, []string{"alice@example.com", "bob@example.com"}, sentTo[0])
}

func TestFinishedDispatchesArePruned(t *testing.T) {
	n := &Notifier{
		resolveRecipients: func(ctx context.Context, article *models.Article) ([]string, error) {
			return nil, nil
		},
		sendEmail: func(recipients []string, article *models.Article, authorName string) error {
			return nil
		},
	}

	for i := 0; i < 5; i++ {
		n.ArticlePublished(context.Background(), &models.Article{ID: i + 1}, nil)
	}

	deadline := time.Now().Add(time.Second)
	for {
		n.mu.Lock()
		remaining := len(n.pending)
		n.mu.Unlock()
		if remaining == 0 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("%d finished dispatches still tracked", remaining)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestSocialFailureDoesNotBlockEmail(t *testing.T) {
	socialHit := make(chan struct{}, 10)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		socialHit <- struct{}{}
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	sent := make(chan []string, 10)
	n := &Notifier{
		social: social.NewClientWithConfig(config.SocialConfig{
			PostUrl:     srv.URL,
			MaxAttempts: 1,
		}),
		resolveRecipients: func(ctx context.Context, article *models.Article) ([]string, error) {
			return []string{"alice@example.com"}, nil
		},
		sendEmail: func(recipients []string, article *models.Article, authorName string) error {
			sent <- recipients
			return nil
		},
	}

	n.ArticlePublished(context.Background(), &models.Article{ID: 3, Title: "Big News", Slug: "big-news-123"}, nil)

	select {
	case recipients := <-sent:
		assert.Equal(t, []string{"alice@example.com"}, recipients)
	case <-time.After(time.Second):
		t.Fatal("email was never sent")
	}
	select {
	case <-socialHit:
	case <-time.After(time.Second):
		t.Fatal("social post was never attempted")
	}
	n.Shutdown(time.Second)
}

func TestNoSubscribersSendsNothing(t *testing.T) {
	var mu sync.Mutex
	sendCount := 0

	n := &Notifier{
		resolveRecipients: func(ctx context.Context, article *models.Article) ([]string, error) {
			return nil, nil
		},
		sendEmail: func(recipients []string, article *models.Article, authorName string) error {
			mu.Lock()
			sendCount++
			mu.Unlock()
			return nil
		},
	}

	n.ArticlePublished(context.Background(), &models.Article{ID: 2}, nil)
	n.Shutdown(time.Second)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 0, sendCount)
}
