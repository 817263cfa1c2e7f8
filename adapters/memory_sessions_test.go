package adapters

import (
	"context"
	"testing"
	"time"

	"github.com/stegavox/stegavox/domain/entities"
)

func TestMemorySessionRepository(t *testing.T) {
	repo := NewMemorySessionRepository()
	ctx := context.Background()

	session := entities.NewHideSession(entities.MediaTypeImage, "hash123", "open sesame", "stego_hash123.png")
	if err := repo.Create(ctx, session); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	loaded, err := repo.GetByID(ctx, session.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if loaded == nil {
		t.Fatal("Expected session to be found")
	}
	if loaded.MessageHash != "hash123" {
		t.Errorf("Expected message hash hash123, got %s", loaded.MessageHash)
	}

	// Unknown ID returns nil without error
	missing, err := repo.GetByID(ctx, "does-not-exist")
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if missing != nil {
		t.Error("Expected nil for unknown session ID")
	}

	// Update round trip
	loaded.MarkRevealed()
	if err := repo.Update(ctx, loaded); err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	updated, _ := repo.GetByID(ctx, session.ID)
	if updated.Status != entities.HideSessionStatusRevealed {
		t.Errorf("Expected revealed status, got %s", updated.Status)
	}
}

func TestMemorySessionRepositoryDeleteExpired(t *testing.T) {
	repo := NewMemorySessionRepository()
	ctx := context.Background()

	fresh := entities.NewHideSession(entities.MediaTypeImage, "fresh", "phrase", "stego_fresh.png")
	stale := entities.NewHideSession(entities.MediaTypeAudio, "stale", "phrase", "stego_stale.wav")
	stale.ExpiresAt = time.Now().Add(-time.Minute)

	if err := repo.Create(ctx, fresh); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if err := repo.Create(ctx, stale); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	deleted, err := repo.DeleteExpired(ctx)
	if err != nil {
		t.Fatalf("DeleteExpired failed: %v", err)
	}
	if deleted != 1 {
		t.Errorf("Expected 1 deleted session, got %d", deleted)
	}

	if remaining, _ := repo.GetByID(ctx, fresh.ID); remaining == nil {
		t.Error("Fresh session should survive cleanup")
	}
	if gone, _ := repo.GetByID(ctx, stale.ID); gone != nil {
		t.Error("Stale session should be removed")
	}
}
