package db

import (
	"reflect"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPaths(t *testing.T) {
	type CustomInt int
	type S struct {
		I   int        `db:"I"`
		PI  *int       `db:"PI"`
		CI  CustomInt  `db:"CI"`
		PCI *CustomInt `db:"PCI"`
		B   bool       `db:"B"`
		PB  *bool      `db:"PB"`

		NoTag int
	}
	type Nested struct {
		S  S  `db:"S"`
		PS *S `db:"PS"`

		NoTag S
	}

	names, paths := getColumnNamesAndPaths(reflect.TypeOf(Nested{}), nil, nil)
	assert.Equal(t, []columnName{
		{"S", "I"}, {"S", "PI"},
		{"S", "CI"}, {"S", "PCI"},
		{"S", "B"}, {"S", "PB"},
		{"PS", "I"}, {"PS", "PI"},
		{"PS", "CI"}, {"PS", "PCI"},
		{"PS", "B"}, {"PS", "PB"},
	}, names)
	assert.Equal(t, []fieldPath{
		{0, 0}, {0, 1}, {0, 2}, {0, 3}, {0, 4}, {0, 5},
		{1, 0}, {1, 1}, {1, 2}, {1, 3}, {1, 4}, {1, 5},
	}, paths)
	assert.True(t, len(names) == len(paths))

	testStruct := Nested{}
	for i, path := range paths {
		val, field := followPathThroughStructs(reflect.ValueOf(&testStruct), path)
		assert.True(t, val.IsValid())
		assert.True(t, strings.Contains(strings.Join(names[i], "."), field.Name))
	}
}

func TestQueryBuilder(t *testing.T) {
	t.Run("renumbers placeholders across chunks", func(t *testing.T) {
		var qb QueryBuilder
		qb.Add(`SELECT id FROM article WHERE TRUE`)
		qb.Add(`AND status = $?`, 3)
		qb.Add(`AND author_id = $? AND publication_id = $?`, 7, 9)

		query := qb.String()
		assert.Contains(t, query, "status = $1")
		assert.Contains(t, query, "author_id = $2")
		assert.Contains(t, query, "publication_id = $3")
		assert.Equal(t, []any{3, 7, 9}, qb.Args())
	})
	t.Run("panics on argument mismatch", func(t *testing.T) {
		var qb QueryBuilder
		assert.Panics(t, func() {
			qb.Add(`AND status = $?`)
		})
	})
}

func TestCompileQuery(t *testing.T) {
	type Dest struct {
		ID    int    `db:"id"`
		Title string `db:"title"`
	}
	t.Run("plain columns", func(t *testing.T) {
		compiled := compileQuery(`SELECT $columns FROM article`, reflect.TypeOf(Dest{}))
		assert.Equal(t, `SELECT id, title FROM article`, compiled.query)
	})
	t.Run("prefixed columns", func(t *testing.T) {
		compiled := compileQuery(`SELECT $columns{article} FROM article`, reflect.TypeOf(Dest{}))
		assert.Equal(t, `SELECT article.id, article.title FROM article`, compiled.query)
	})
}
