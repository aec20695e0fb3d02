package utils

import (
	"crypto/sha1"
	"encoding/hex"
	"strconv"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Version is one revision of one document.
type Version struct {
	ID        primitive.ObjectID
	UpdatedAt time.Time
}

// GenerateETag derives a weak validator from a document's id and update
// time. extra folds in anything else the response depends on.
func GenerateETag(id primitive.ObjectID, updatedAt time.Time, extra ...string) string {
	return GenerateListETag([]Version{{ID: id, UpdatedAt: updatedAt}}, extra...)
}

// GenerateListETag covers every version in order, so removing, adding or
// reordering a document changes the tag as well as editing one.
func GenerateListETag(versions []Version, extra ...string) string {
	h := sha1.New()
	for _, v := range versions {
		h.Write(v.ID[:])
		h.Write([]byte(strconv.FormatInt(v.UpdatedAt.UnixNano(), 10)))
	}
	for _, e := range extra {
		h.Write([]byte{0})
		h.Write([]byte(e))
	}
	return `W/"` + hex.EncodeToString(h.Sum(nil)[:12]) + `"`
}
