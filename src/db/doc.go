/*
This package wraps pgx with conveniences for querying directly into Go structs.

Query and its variants take a type argument describing the destination type.
When the query contains the placeholder `$columns`, the destination type must
be a struct whose fields are tagged with `db:"column_name"`. The placeholder
is replaced with the tagged columns of the struct, nested structs producing
`table.column` names based on the tag of the containing field:

	type articleRow struct {
		Article models.Article `db:"article"`
		Author  *models.User   `db:"author"`
	}

	rows, err := db.Query[articleRow](ctx, conn, `
		SELECT $columns
		FROM article
		LEFT JOIN nh_user AS author ON author.id = article.author_id
	`)

Pointer fields of struct type become nil when every column of the joined
struct is NULL, which maps naturally onto LEFT JOINs.
*/
package db
