package email

import (
	"fmt"
	"mime"
	"net/smtp"
	"regexp"
	"strings"
	"time"

	"git.newshub.network/newshub/newshub/src/config"
	"git.newshub.network/newshub/newshub/src/models"
	"git.newshub.network/newshub/newshub/src/oops"
)

// Sends the "new article/newsletter" notice for a freshly published piece to
// every interested subscriber. One mail per publish event, not per recipient.
// The caller is responsible for deduplicating and sorting the address list
// and for skipping the send entirely when it is empty.
func SendPublicationNotice(toAddresses []string, article *models.Article, authorName string) error {
	if len(toAddresses) == 0 {
		return oops.New(nil, "refusing to send a publication notice with no recipients")
	}

	subject, body := publicationNotice(article, authorName)
	err := sendMail(toAddresses, subject, body)
	if err != nil {
		return oops.New(err, "failed to send publication notice")
	}
	return nil
}

func publicationNotice(article *models.Article, authorName string) (subject, body string) {
	contentType := article.Type.String()
	subject = fmt.Sprintf("New %s: %s", capitalize(contentType), article.Title)
	body = fmt.Sprintf(
		"A new %s has just been published on Newshub!\r\n\r\n"+
			"Title: %s\r\n"+
			"Author: %s\r\n\r\n"+
			"Read it on %s\r\n",
		contentType,
		article.Title,
		authorName,
		config.Config.BaseUrl,
	)
	return subject, body
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

var EmailRegex = regexp.MustCompile(`^[^:\p{Cc} ]+@[^:\p{Cc} ]+\.[^:\p{Cc} ]+$`)

func IsEmail(address string) bool {
	return EmailRegex.Match([]byte(address))
}

func sendMail(toAddresses []string, subject, contentText string) error {
	if config.Config.Email.ForceToAddress != "" {
		toAddresses = []string{config.Config.Email.ForceToAddress}
	}
	contents := prepMailContents(
		strings.Join(toAddresses, ", "),
		makeHeaderAddress(config.Config.Email.FromAddress, config.Config.Email.FromName),
		subject,
		contentText,
	)
	return smtp.SendMail(
		fmt.Sprintf("%s:%d", config.Config.Email.ServerAddress, config.Config.Email.ServerPort),
		smtp.PlainAuth("", config.Config.Email.MailerUsername, config.Config.Email.MailerPassword, config.Config.Email.ServerAddress),
		config.Config.Email.FromAddress,
		toAddresses,
		contents,
	)
}

func makeHeaderAddress(email, fullname string) string {
	if fullname != "" {
		encoded := mime.BEncoding.Encode("utf-8", fullname)
		if encoded == fullname {
			encoded = strings.ReplaceAll(encoded, `"`, `\"`)
			encoded = fmt.Sprintf("\"%s\"", encoded)
		}
		return fmt.Sprintf("%s <%s>", encoded, email)
	} else {
		return email
	}
}

func prepMailContents(toLine string, fromLine string, subject string, contentText string) []byte {
	var builder strings.Builder

	builder.WriteString(fmt.Sprintf("To: %s\r\n", toLine))
	builder.WriteString(fmt.Sprintf("From: %s\r\n", fromLine))
	builder.WriteString(fmt.Sprintf("Date: %s\r\n", time.Now().UTC().Format(time.RFC1123Z)))
	builder.WriteString(fmt.Sprintf("Subject: %s\r\n", mime.QEncoding.Encode("utf-8", subject)))
	builder.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	builder.WriteString("\r\n")
	builder.WriteString(contentText)
	builder.WriteString("\r\n")

	return []byte(builder.String())
}
