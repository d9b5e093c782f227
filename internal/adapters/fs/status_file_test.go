package fs

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/bft-labs/turingcv/internal/domain"
)

func TestStatusFileRepository_LoadMissing(t *testing.T) {
	repo := NewStatusFileRepository(t.TempDir())

	st, err := repo.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if st.Edges != 0 || st.Bits != "" {
		t.Errorf("Load on empty dir = %+v, want zero status", st)
	}
}

func TestStatusFileRepository_SaveLoad(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested")
	repo := NewStatusFileRepository(dir)
	ctx := context.Background()

	want := domain.Status{
		Seed:       0,
		Register:   1,
		Bits:       "00000001",
		Code:       15,
		Millivolts: 18,
		Encoder:    "full",
		Feedback:   "internal",
		Edges:      1,
		LastSource: "force-high",
		LastEdgeAt: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
		StartedAt:  time.Date(2024, 1, 2, 3, 4, 0, 0, time.UTC),
		UpdatedAt:  time.Date(2024, 1, 2, 3, 4, 6, 0, time.UTC),
	}
	if err := repo.Save(ctx, want); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if _, err := os.Stat(repo.Path() + ".tmp"); !os.IsNotExist(err) {
		t.Errorf("temp file left behind: %v", err)
	}

	got, err := repo.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !got.LastEdgeAt.Equal(want.LastEdgeAt) || !got.StartedAt.Equal(want.StartedAt) || !got.UpdatedAt.Equal(want.UpdatedAt) {
		t.Errorf("timestamps = %v/%v/%v, want %v/%v/%v",
			got.LastEdgeAt, got.StartedAt, got.UpdatedAt, want.LastEdgeAt, want.StartedAt, want.UpdatedAt)
	}
	got.LastEdgeAt, got.StartedAt, got.UpdatedAt = want.LastEdgeAt, want.StartedAt, want.UpdatedAt
	if got != want {
		t.Errorf("Load() = %+v, want %+v", got, want)
	}
}

func TestStatusFileRepository_LoadCorrupt(t *testing.T) {
	dir := t.TempDir()
	repo := NewStatusFileRepository(dir)
	if err := os.WriteFile(repo.Path(), []byte("{not json"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := repo.Load(context.Background()); err == nil {
		t.Error("Load of corrupt file succeeded")
	}
}
