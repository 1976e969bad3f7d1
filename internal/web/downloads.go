package web

import (
	"sync"

	"github.com/google/uuid"

	"github.com/mgpai22/cuetap/internal/export"
)

// Downloads holds the exports that can currently be fetched, keyed by an
// unguessable token. It is shared by all sessions of a server.
type Downloads struct {
	mu    sync.Mutex
	items map[string]export.Artifact
}

func NewDownloads() *Downloads {
	return &Downloads{items: make(map[string]export.Artifact)}
}

func (d *Downloads) Put(artifact export.Artifact) string {
	token := uuid.NewString()
	d.mu.Lock()
	d.items[token] = artifact
	d.mu.Unlock()
	return token
}

func (d *Downloads) Get(token string) (export.Artifact, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	artifact, ok := d.items[token]
	return artifact, ok
}

func (d *Downloads) Revoke(token string) {
	d.mu.Lock()
	delete(d.items, token)
	d.mu.Unlock()
}

func (d *Downloads) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.items)
}

// Exporter publishes one session's exports. Only the latest stays
// downloadable: publishing revokes the previous token first.
type Exporter struct {
	downloads *Downloads
	token     string
}

func NewExporter(downloads *Downloads) *Exporter {
	return &Exporter{downloads: downloads}
}

func (e *Exporter) Publish(artifact export.Artifact) string {
	e.Close()
	e.token = e.downloads.Put(artifact)
	return e.token
}

// Close revokes the current download, if any.
func (e *Exporter) Close() {
	if e.token != "" {
		e.downloads.Revoke(e.token)
		e.token = ""
	}
}
