// internal/app/system/inputval/inputval.go

// Package inputval validates and sanitizes user-supplied text before it
// reaches the stores. All HTML is stripped; length limits apply to the
// sanitized result.
package inputval

import (
	"strings"
	"unicode/utf8"

	"github.com/giftgrove/giftgrove/internal/app/system/apperr"
	"github.com/microcosm-cc/bluemonday"
)

// Length limits on sanitized input, counted in runes.
const (
	MaxGroupNameLen        = 100
	MaxGroupDescriptionLen = 500
	MaxWishlistValueLen    = 255
)

var strict = bluemonday.StrictPolicy()

// CleanText strips all HTML markup and trims surrounding whitespace.
func CleanText(s string) string {
	return strings.TrimSpace(strict.Sanitize(s))
}

// GroupName sanitizes and validates a group name. Names are required and
// capped at MaxGroupNameLen characters.
func GroupName(s string) (string, error) {
	clean := CleanText(s)
	if clean == "" {
		return "", &apperr.Validation{Field: "name", Reason: "must not be empty"}
	}
	if utf8.RuneCountInString(clean) > MaxGroupNameLen {
		return "", &apperr.Validation{Field: "name", Reason: "too long"}
	}
	return clean, nil
}

// GroupDescription sanitizes and validates a group description. Empty is
// allowed.
func GroupDescription(s string) (string, error) {
	clean := CleanText(s)
	if utf8.RuneCountInString(clean) > MaxGroupDescriptionLen {
		return "", &apperr.Validation{Field: "description", Reason: "too long"}
	}
	return clean, nil
}

// WishlistValue sanitizes and validates the free-text value of a wishlist
// item: required, at most MaxWishlistValueLen characters.
func WishlistValue(s string) (string, error) {
	clean := CleanText(s)
	if clean == "" {
		return "", &apperr.Validation{Field: "value", Reason: "must not be empty"}
	}
	if utf8.RuneCountInString(clean) > MaxWishlistValueLen {
		return "", &apperr.Validation{Field: "value", Reason: "too long"}
	}
	return clean, nil
}
