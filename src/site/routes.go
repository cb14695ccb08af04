package site

import (
	"net/http"

	"git.newshub.network/newshub/newshub/src/db"
	"git.newshub.network/newshub/newshub/src/notify"
	"github.com/julienschmidt/httprouter"
)

func NewRouter(conn db.ConnOrTx, notifier *notify.Notifier) http.Handler {
	s := &site{conn: conn, notifier: notifier}
	router := httprouter.New()

	router.POST("/api/signup", s.wrap(s.signup))
	router.POST("/api/login", s.wrap(s.login))
	router.POST("/api/logout", s.requireUser(s.logout))
	router.GET("/api/users/me", s.requireUser(s.me))

	router.GET("/api/articles", s.wrap(s.listArticles))
	router.POST("/api/articles", s.requireUser(s.createArticle))
	router.GET("/api/articles/:id", s.wrap(s.getArticle))
	router.PUT("/api/articles/:id", s.requireUser(s.updateArticle))
	router.DELETE("/api/articles/:id", s.requireUser(s.deleteArticle))
	router.POST("/api/articles/:id/submit", s.requireUser(s.submitArticle))
	router.POST("/api/articles/:id/approve", s.requireUser(s.approveArticle))
	router.POST("/api/articles/:id/reject", s.requireUser(s.rejectArticle))
	router.GET("/api/articles/:id/comments", s.wrap(s.listComments))
	router.POST("/api/articles/:id/comments", s.requireUser(s.createComment))
	router.POST("/api/articles/:id/ratings", s.requireUser(s.rateArticle))

	router.GET("/api/publications", s.wrap(s.listPublications))
	router.POST("/api/publications", s.requireUser(s.createPublication))
	router.GET("/api/publications/:id", s.wrap(s.getPublication))
	router.PUT("/api/publications/:id", s.requireUser(s.updatePublication))
	router.DELETE("/api/publications/:id", s.requireUser(s.deletePublication))
	router.POST("/api/publications/:id/join", s.requireUser(s.createJoinRequest))

	router.GET("/api/joinrequests", s.requireUser(s.listJoinRequests))
	router.POST("/api/joinrequests/:id/approve", s.requireUser(s.approveJoinRequest))
	router.POST("/api/joinrequests/:id/reject", s.requireUser(s.rejectJoinRequest))

	router.GET("/api/subscriptions", s.requireUser(s.listSubscriptions))
	router.POST("/api/subscribe", s.requireUser(s.subscribe))
	router.POST("/api/unsubscribe", s.requireUser(s.unsubscribe))

	return router
}
