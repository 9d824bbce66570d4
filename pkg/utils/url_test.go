package utils

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashURL(t *testing.T) {
	a := HashURL("https://example.com/a")
	assert.Len(t, a, 64)
	assert.Equal(t, a, HashURL("https://example.com/a"))
	assert.NotEqual(t, a, HashURL("https://example.com/b"))
}

func TestSearchURL(t *testing.T) {
	raw, err := SearchURL("https://world.openfoodfacts.org/api/v2/search", 3, 50, "popularity_key", "code,nutriments")
	require.NoError(t, err)

	u, err := url.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "/api/v2/search", u.Path)
	assert.Equal(t, "3", u.Query().Get("page"))
	assert.Equal(t, "50", u.Query().Get("page_size"))
	assert.Equal(t, "popularity_key", u.Query().Get("sort_by"))
	assert.Equal(t, "code,nutriments", u.Query().Get("fields"))

	again, err := SearchURL("https://world.openfoodfacts.org/api/v2/search", 3, 50, "popularity_key", "code,nutriments")
	require.NoError(t, err)
	assert.Equal(t, raw, again)
}

func TestSearchURL_InvalidBase(t *testing.T) {
	_, err := SearchURL("://bad", 1, 1, "", "")
	assert.Error(t, err)
}

func TestProductURL(t *testing.T) {
	raw, err := ProductURL("https://world.openfoodfacts.org/api/v2/product", "3017620422003", "code,nutriments")
	require.NoError(t, err)

	u, err := url.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "/api/v2/product/3017620422003.json", u.Path)
	assert.Equal(t, "code,nutriments", u.Query().Get("fields"))

	bare, err := ProductURL("https://world.openfoodfacts.org/api/v2/product/", "42", "")
	require.NoError(t, err)
	assert.Equal(t, "https://world.openfoodfacts.org/api/v2/product/42.json", bare)
}
