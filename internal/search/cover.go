package search

import (
	"fmt"
	"strings"
)

const openLibraryCover = "https://covers.openlibrary.org/b/isbn/%s-M.jpg"

var coverPriority = []string{"extraLarge", "large", "medium", "small", "thumbnail", "smallThumbnail"}

// ResolveCover picks the largest available image variant, falling back to
// Open Library by ISBN. Empty when neither exists.
func ResolveCover(images, identifiers map[string]string) string {
	for _, size := range coverPriority {
		if u := strings.TrimSpace(images[size]); u != "" {
			return upgradeImageURL(u)
		}
	}
	if isbn := ExtractISBN(identifiers); isbn != "" {
		return fmt.Sprintf(openLibraryCover, isbn)
	}
	return ""
}

// ExtractISBN prefers ISBN-13 over ISBN-10.
func ExtractISBN(identifiers map[string]string) string {
	if v := identifiers["ISBN_13"]; v != "" {
		return v
	}
	return identifiers["ISBN_10"]
}

func upgradeImageURL(u string) string {
	if strings.HasPrefix(u, "http:") {
		u = "https:" + strings.TrimPrefix(u, "http:")
	}
	if !strings.Contains(u, "books.google") {
		return u
	}
	if !strings.Contains(u, "zoom=") {
		u = appendParam(u, "zoom=1")
	}
	if !strings.Contains(u, "edge=") {
		u = appendParam(u, "edge=curl")
	}
	return u
}

func appendParam(u, kv string) string {
	if strings.Contains(u, "?") {
		return u + "&" + kv
	}
	return u + "?" + kv
}
