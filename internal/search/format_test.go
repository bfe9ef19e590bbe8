package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/5w1tchy/books-search/internal/googlebooks"
)

func TestFormatItem(t *testing.T) {
	got := FormatItem(googlebooks.Item{
		Title:       "Eloquent Ruby",
		Authors:     []string{"Russ Olsen", "Someone Else"},
		Publisher:   "Addison-Wesley",
		Description: "<p>Ruby the <b>right</b> way &amp; more</p>",
		ImageLinks:  map[string]string{"thumbnail": "https://example.com/t.jpg"},
		Identifiers: map[string]string{"ISBN_13": "9780321584106"},
	})

	assert.Equal(t, "Eloquent Ruby", got.Title)
	assert.Equal(t, "Russ Olsen, Someone Else", got.Authors)
	assert.Equal(t, "Addison-Wesley", got.Publisher)
	assert.Equal(t, "https://example.com/t.jpg", got.CoverImage)
	assert.Equal(t, "Ruby the right way & more", got.Description)
	require.NotNil(t, got.ISBN)
	assert.Equal(t, "9780321584106", *got.ISBN)
}

func TestFormatItem_Placeholders(t *testing.T) {
	got := FormatItem(googlebooks.Item{})

	assert.Equal(t, unknownTitle, got.Title)
	assert.Equal(t, unknownPublisher, got.Publisher)
	assert.Equal(t, "", got.Authors)
	assert.Equal(t, "", got.CoverImage)
	assert.Equal(t, "", got.Description)
	assert.Nil(t, got.ISBN)
}

func TestStripHTML(t *testing.T) {
	assert.Equal(t, "plain", StripHTML("plain"))
	assert.Equal(t, "line oneline two", StripHTML("line one<br/>line two"))
	assert.Equal(t, "a < b", StripHTML("a &lt; b"))
	assert.Equal(t, "", StripHTML("<div></div>"))
	assert.Equal(t, "", StripHTML(""))
}
