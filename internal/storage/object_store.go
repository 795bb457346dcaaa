// Package storage keeps meal photos outside the database. Callers get back a
// public reference that is stored with the meal.
package storage

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"mime"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/blake2b"
)

var ErrInvalidKey = errors.New("invalid object key")

type ObjectStore interface {
	Put(ctx context.Context, key string, data []byte, contentType string) (string, error)
	Delete(ctx context.Context, key string) error
}

const contentHashPrefixLen = 16

// MealImageKey builds meals/<user>/<content hash prefix>-<uuid><ext>. The
// hash groups identical uploads; the uuid keeps every key unique.
func MealImageKey(userID string, data []byte, contentType string) string {
	sum := blake2b.Sum256(data)
	hash := hex.EncodeToString(sum[:])[:contentHashPrefixLen]
	return fmt.Sprintf("meals/%s/%s-%s%s", sanitizeSegment(userID), hash, uuid.NewString(), extensionFor(contentType))
}

func extensionFor(contentType string) string {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return ""
	}
	switch mediaType {
	case "image/jpeg", "image/jpg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/webp":
		return ".webp"
	case "image/heic":
		return ".heic"
	}
	if exts, _ := mime.ExtensionsByType(mediaType); len(exts) > 0 {
		return exts[0]
	}
	if _, subtype, ok := strings.Cut(mediaType, "/"); ok && subtype != "" {
		return "." + sanitizeSegment(subtype)
	}
	return ""
}

func sanitizeSegment(value string) string {
	var builder strings.Builder
	for _, r := range strings.TrimSpace(value) {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			builder.WriteRune(r)
		default:
			builder.WriteRune('_')
		}
	}
	if builder.Len() == 0 {
		return "anonymous"
	}
	return builder.String()
}

func validateKey(key string) error {
	trimmed := strings.TrimSpace(key)
	if trimmed == "" || strings.HasPrefix(trimmed, "/") || strings.Contains(trimmed, "..") || strings.Contains(trimmed, "\\") {
		return fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return nil
}

func joinURL(base string, key string) string {
	return strings.TrimRight(base, "/") + "/" + key
}
