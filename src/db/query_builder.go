package db

import (
	"fmt"
	"strings"
)

// QueryBuilder assembles a query from chunks of SQL, renumbering `$?`
// placeholders as arguments are added. Fetch helpers use it to tack optional
// filters onto a base query without doing placeholder bookkeeping by hand.
type QueryBuilder struct {
	sql  strings.Builder
	args []any
}

// Appends a chunk of SQL to the query. Each `$?` in the chunk is replaced
// with the numbered placeholder for the corresponding argument:
//
//	qb.Add(`AND article.status = $?`, status)
//
// The number of `$?` placeholders must match the number of arguments; a
// mismatch is a bug at the call site and panics.
func (qb *QueryBuilder) Add(sql string, args ...any) {
	numPlaceholders := strings.Count(sql, "$?")
	if numPlaceholders != len(args) {
		panic(fmt.Errorf("cannot add chunk to query; expected %d arguments but got %d", numPlaceholders, len(args)))
	}

	for _, arg := range args {
		sql = strings.Replace(sql, "$?", fmt.Sprintf("$%d", len(qb.args)+1), 1)
		qb.args = append(qb.args, arg)
	}

	qb.sql.WriteString(sql)
	qb.sql.WriteString("\n")
}

func (qb *QueryBuilder) String() string {
	return qb.sql.String()
}

func (qb *QueryBuilder) Args() []any {
	return qb.args
}
