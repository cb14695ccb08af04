package notify

import (
	"context"
	"sync"
	"time"

	"git.newshub.network/newshub/newshub/src/db"
	"git.newshub.network/newshub/newshub/src/email"
	"git.newshub.network/newshub/newshub/src/jobs"
	"git.newshub.network/newshub/newshub/src/logging"
	"git.newshub.network/newshub/newshub/src/models"
	"git.newshub.network/newshub/newshub/src/nhdata"
	"git.newshub.network/newshub/newshub/src/social"
)

// EmailSender sends the publication notice email. Swappable for tests.
type EmailSender func(recipients []string, article *models.Article, authorName string) error

// Notifier fans out "article published" events to subscribers by email and,
// when configured, to the social feed. It satisfies nhdata.PublishNotifier.
//
// Dispatch happens on background jobs with their own context, so a
// notification in flight survives the request that triggered it. Failures are
// logged and never propagated; publishing an article must not fail because
// the mail server is down.
type Notifier struct {
	social *social.Client

	resolveRecipients func(ctx context.Context, article *models.Article) ([]string, error)
	sendEmail         EmailSender

	mu      sync.Mutex
	pending jobs.Jobs
}

func NewNotifier(dbConn db.ConnOrTx, socialClient *social.Client) *Notifier {
	return &Notifier{
		social: socialClient,
		resolveRecipients: func(ctx context.Context, article *models.Article) ([]string, error) {
			return nhdata.PublicationNoticeRecipients(ctx, dbConn, article)
		},
		sendEmail: email.SendPublicationNotice,
	}
}

var _ nhdata.PublishNotifier = &Notifier{}

func (n *Notifier) ArticlePublished(ctx context.Context, article *models.Article, author *models.User) {
	job := jobs.New("publication notice")

	n.mu.Lock()
	n.pending = append(n.pending, job)
	n.mu.Unlock()

	go func() {
		defer func() {
			job.Finish()
			n.forget(job)
		}()
		n.dispatch(job.Ctx, article, author)
	}()
}

// Drops a finished job from the pending list so it does not pile up for the
// lifetime of the process.
func (n *Notifier) forget(job *jobs.Job) {
	n.mu.Lock()
	defer n.mu.Unlock()
	for i, j := range n.pending {
		if j == job {
			n.pending = append(n.pending[:i], n.pending[i+1:]...)
			return
		}
	}
}

func (n *Notifier) dispatch(ctx context.Context, article *models.Article, author *models.User) {
	logger := logging.ExtractLogger(ctx).With().
		Int("article", article.ID).
		Str("slug", article.Slug).
		Logger()

	authorName := "Unknown"
	if author != nil {
		authorName = author.BestName()
	}

	recipients, err := n.resolveRecipients(ctx, article)
	if err != nil {
		logger.Error().Err(err).Msg("failed to resolve notice recipients")
	} else if len(recipients) == 0 {
		logger.Info().Msg("article published with no subscribers to notify")
	} else {
		err := n.sendEmail(recipients, article, authorName)
		if err != nil {
			logger.Error().Err(err).Msg("failed to send publication notice")
		} else {
			logger.Info().Int("recipients", len(recipients)).Msg("sent publication notice")
		}
	}

	if n.social.Enabled() {
		err := n.social.PostArticle(ctx, article.Title, authorName)
		if err != nil {
			logger.Error().Err(err).Msg("failed to post article to social feed")
		}
	}
}

// Shutdown cancels in-flight dispatches and waits for them to wind down.
func (n *Notifier) Shutdown(timeout time.Duration) {
	n.mu.Lock()
	pending := n.pending
	n.pending = nil
	n.mu.Unlock()

	unfinished := pending.CancelAndWait(timeout)
	for _, name := range unfinished {
		logging.Warn().Str("job", name).Msg("notification job did not finish in time")
	}
}
