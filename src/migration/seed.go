package migration

import (
	"context"
	"fmt"

	"git.newshub.network/newshub/newshub/src/db"
	"git.newshub.network/newshub/newshub/src/migration/types"
	"git.newshub.network/newshub/newshub/src/models"
	"git.newshub.network/newshub/newshub/src/nhdata"
	"git.newshub.network/newshub/newshub/src/site"
	"github.com/spf13/cobra"
)

func init() {
	seedCommand := &cobra.Command{
		Use:   "seed",
		Short: "Migrate to the latest version and fill the database with sample data",
		Run: func(cmd *cobra.Command, args []string) {
			SampleSeed()
		},
	}
	site.SiteCommand.AddCommand(seedCommand)
}

func LatestVersion() types.MigrationVersion {
	allVersions := getSortedMigrationVersions()
	return allVersions[len(allVersions)-1]
}

// Fills the database with enough sample data to click around locally: an
// editor running a publication, journalists inside and outside it, and
// readers with subscriptions. All accounts share the password "password".
func SampleSeed() {
	Migrate(LatestVersion())

	ctx := context.Background()
	conn := db.NewConnPool()
	defer conn.Close()

	editor := seedUser(ctx, conn, "edna@newshub.local", "Edna", "Editor", models.RoleEditor)
	june := seedUser(ctx, conn, "june@newshub.local", "June", "Journalist", models.RoleJournalist)
	frank := seedUser(ctx, conn, "frank@newshub.local", "Frank", "Freelance", models.RoleJournalist)
	rita := seedUser(ctx, conn, "rita@newshub.local", "Rita", "Reader", models.RoleReader)

	fmt.Println("Creating publication...")
	pub, err := nhdata.CreatePublication(ctx, conn, editor, nhdata.PublicationInput{
		Name:        "The Daily Byte",
		Description: "Technology news, every day.",
	})
	if err != nil {
		panic(err)
	}

	fmt.Println("Approving June's membership...")
	req, err := nhdata.CreateJoinRequest(ctx, conn, june, pub.ID, "I would like to write for you.")
	if err != nil {
		panic(err)
	}
	_, err = nhdata.ApproveJoinRequest(ctx, conn, editor, req.ID)
	if err != nil {
		panic(err)
	}

	fmt.Println("Creating articles...")
	pending, err := nhdata.CreateArticle(ctx, conn, june, nhdata.ArticleInput{
		Title:         "Compilers Are Just Parsers With Ambition",
		Content:       "An in-depth look at what happens after the parse tree.",
		Type:          models.ArticleTypeArticle,
		PublicationID: &pub.ID,
	}, nil)
	if err != nil {
		panic(err)
	}
	_, err = nhdata.ApproveArticle(ctx, conn, editor, pending.ID, nil)
	if err != nil {
		panic(err)
	}

	independent, err := nhdata.CreateArticle(ctx, conn, frank, nhdata.ArticleInput{
		Title:   "Notes From a Freelance Desk",
		Content: "Observations collected over a month of independent reporting.",
		Type:    models.ArticleTypeNewsletter,
	}, nil)
	if err != nil {
		panic(err)
	}

	fmt.Println("Subscribing Rita...")
	pubTarget := models.Subscription{PublicationID: &pub.ID}
	if _, _, err := nhdata.Subscribe(ctx, conn, rita, pubTarget); err != nil {
		panic(err)
	}
	jourTarget := models.Subscription{JournalistID: &frank.ID}
	if _, _, err := nhdata.Subscribe(ctx, conn, rita, jourTarget); err != nil {
		panic(err)
	}

	fmt.Println("Rating and commenting...")
	if _, err := nhdata.RateArticle(ctx, conn, rita, independent.ID, 5); err != nil {
		panic(err)
	}
	if _, err := nhdata.CommentOnArticle(ctx, conn, rita, independent.ID, "Great read, thank you!"); err != nil {
		panic(err)
	}

	fmt.Println("Done!")
}

func seedUser(ctx context.Context, conn db.ConnOrTx, email, firstName, lastName string, role models.Role) *models.User {
	fmt.Printf("Creating user %s...\n", email)
	user, err := nhdata.CreateUser(ctx, conn, nhdata.CreateUserInput{
		Email:     email,
		Password:  "password",
		FirstName: firstName,
		LastName:  lastName,
	})
	if err != nil {
		panic(err)
	}

	if role != models.RoleReader {
		user, err = nhdata.SetUserRole(ctx, conn, user.ID, role)
		if err != nil {
			panic(err)
		}
	}

	return user
}
