package listing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

var usersSort = Sort{
	Columns: map[string]string{
		"name":       "name",
		"email":      "email",
		"created_at": "created_at",
	},
	DefaultField: "created_at",
	DefaultOrder: Desc,
}

func TestResolve_Allowed(t *testing.T) {
	assert.Equal(t, " ORDER BY name ASC", usersSort.Resolve("name", "asc"))
	assert.Equal(t, " ORDER BY email DESC", usersSort.Resolve("email", "DESC"))
}

func TestResolve_BlankOrderKeepsField(t *testing.T) {
	assert.Equal(t, " ORDER BY name DESC", usersSort.Resolve("name", ""))
	assert.Equal(t, " ORDER BY email DESC", usersSort.Resolve(" email ", "  "))

	ratingsSort := Sort{
		Columns:      map[string]string{"rating": "r.rating", "created_at": "r.created_at"},
		DefaultField: "created_at",
		DefaultOrder: Desc,
	}
	assert.Equal(t, " ORDER BY r.rating DESC", ratingsSort.Resolve("rating", ""))
}

func TestResolve_FallsBackToDefault(t *testing.T) {
	cases := []struct{ sortBy, sortOrder string }{
		{"foo", "ASC"},
		{"; DROP TABLE users", "ASC"},
		{"name", "sideways"},
		{"name", "ASC; DELETE FROM users"},
		{"", ""},
		{"", "ASC"},
	}
	for _, tc := range cases {
		assert.Equal(t, " ORDER BY created_at DESC", usersSort.Resolve(tc.sortBy, tc.sortOrder), "%q %q", tc.sortBy, tc.sortOrder)
	}
}

func TestSearchPattern(t *testing.T) {
	assert.Equal(t, "%shop%", SearchPattern(" shop "))
	assert.Equal(t, `%50\%\_off%`, SearchPattern("50%_off"))
}
