package job

import (
	"Memoria/internal/model"
	"context"
	"errors"
	"testing"
	"time"
)

type memPendingImages struct {
	images map[string]model.PendingImage
}

func (m *memPendingImages) Track(_ context.Context, img model.PendingImage) error {
	m.images[img.ObjectName] = img
	return nil
}

func (m *memPendingImages) Pending(_ context.Context) ([]model.PendingImage, error) {
	res := make([]model.PendingImage, 0, len(m.images))
	for _, img := range m.images {
		res = append(res, img)
	}
	return res, nil
}

func (m *memPendingImages) Forget(_ context.Context, objectName string) error {
	delete(m.images, objectName)
	return nil
}

type memImageRefs struct {
	urls map[string]bool
}

func (m *memImageRefs) Referenced(_ context.Context, url string) (bool, error) {
	return m.urls[url], nil
}

type memRemover struct {
	removed []string
	fail    map[string]bool
}

func (m *memRemover) Delete(_ context.Context, objectName string) error {
	if m.fail[objectName] {
		return errors.New("minio unavailable")
	}
	m.removed = append(m.removed, objectName)
	return nil
}

func TestImageCleanup(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	old := now.Add(-48 * time.Hour).Unix()
	fresh := now.Add(-time.Hour).Unix()

	pending := &memPendingImages{images: map[string]model.PendingImage{
		"images/a.png": {ObjectName: "images/a.png", URL: "u/a", CreatedAt: old},
		"images/b.png": {ObjectName: "images/b.png", URL: "u/b", CreatedAt: old},
		"images/c.png": {ObjectName: "images/c.png", URL: "u/c", CreatedAt: fresh},
		"images/d.png": {ObjectName: "images/d.png", URL: "u/d", CreatedAt: old},
	}}
	refs := &memImageRefs{urls: map[string]bool{"u/b": true}}
	remover := &memRemover{fail: map[string]bool{"images/d.png": true}}

	n := NewImageCleanupJob(pending, refs, remover, 24*time.Hour).Cleanup(context.Background(), now)
	if n != 1 {
		t.Fatalf("cleaned %d, want 1", n)
	}
	if len(remover.removed) != 1 || remover.removed[0] != "images/a.png" {
		t.Fatalf("removed = %v", remover.removed)
	}
	if _, ok := pending.images["images/b.png"]; ok {
		t.Fatalf("referenced image still pending")
	}
	if _, ok := pending.images["images/c.png"]; !ok {
		t.Fatalf("fresh image dropped")
	}
	if _, ok := pending.images["images/d.png"]; !ok {
		t.Fatalf("failed delete must stay pending for retry")
	}
}
