package utils

import (
	"crypto/sha256"
	"encoding/hex"
	"net/url"
	"strconv"
)

// HashURL creates a SHA256 hash of a URL string.
// This is useful for creating consistent, safe keys for Redis.
func HashURL(rawURL string) string {
	h := sha256.New()
	h.Write([]byte(rawURL))
	return hex.EncodeToString(h.Sum(nil))
}

// SearchURL appends the pagination query to a search endpoint. Parameters are
// encoded in sorted key order so equal requests produce equal URLs.
func SearchURL(base string, page, pageSize int, sortBy, fields string) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", err
	}
	q := u.Query()
	q.Set("page", strconv.Itoa(page))
	q.Set("page_size", strconv.Itoa(pageSize))
	if sortBy != "" {
		q.Set("sort_by", sortBy)
	}
	if fields != "" {
		q.Set("fields", fields)
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// ProductURL builds the single-product endpoint `<base>/<barcode>.json`.
func ProductURL(base, barcode, fields string) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", err
	}
	u = u.JoinPath(url.PathEscape(barcode) + ".json")
	if fields != "" {
		q := u.Query()
		q.Set("fields", fields)
		u.RawQuery = q.Encode()
	}
	return u.String(), nil
}
