package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"path"
	"time"

	"github.com/google/uuid"
)

const defaultArchivePrefix = "brackets"

// ObjectStore is the bucket snapshots are written to.
type ObjectStore interface {
	Upload(ctx context.Context, key string, contentType string, body io.Reader) (*UploadResult, error)
	// PublicURL returns "" when the bucket has no public domain.
	PublicURL(key string) string
}

// UploadResult describes a stored object.
type UploadResult struct {
	Key  string `json:"key"`
	URL  string `json:"url,omitempty"`
	ETag string `json:"etag,omitempty"`
}

// BracketArchiver stores JSON snapshots of finished brackets.
type BracketArchiver struct {
	uploader ObjectStore
	prefix   string
	now      func() time.Time
}

func NewBracketArchiver(uploader ObjectStore, prefix string) *BracketArchiver {
	if prefix == "" {
		prefix = defaultArchivePrefix
	}
	return &BracketArchiver{uploader: uploader, prefix: prefix, now: time.Now}
}

// ArchiveKey returns the object key of a snapshot taken at t.
func (a *BracketArchiver) ArchiveKey(tournamentID uuid.UUID, t time.Time) string {
	return path.Join(a.prefix, tournamentID.String(), "final-"+t.UTC().Format("20060102T150405Z")+".json")
}

func (a *BracketArchiver) Archive(ctx context.Context, tournamentID uuid.UUID, snapshot interface{}) (*UploadResult, error) {
	body, err := json.Marshal(snapshot)
	if err != nil {
		return nil, fmt.Errorf("failed to encode bracket snapshot for tournament %s: %w", tournamentID, err)
	}
	return a.uploader.Upload(ctx, a.ArchiveKey(tournamentID, a.now()), "application/json", bytes.NewReader(body))
}
