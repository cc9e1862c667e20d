package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/lukebdev/termlink/internal/core"
)

func newTestRepo(t *testing.T) *TranscriptRepo {
	t.Helper()
	db, err := NewDB(context.Background(), filepath.Join(t.TempDir(), "termlink.db"))
	if err != nil {
		t.Fatalf("NewDB: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewTranscriptRepo(db)
}

func TestTranscriptRoundTrip(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	base := time.Now().Truncate(time.Second)
	turns := []core.HistoryEntry{
		{Author: core.AuthorUser, Text: "skills", At: base},
		{Author: core.AuthorBot, Text: "> SKILLS", At: base.Add(time.Second)},
		{Author: core.BridgeAuthor("luke"), Text: "hi from the operator", At: base.Add(2 * time.Second)},
	}
	for _, e := range turns {
		if err := repo.Record(ctx, "cid-1", e); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}
	if err := repo.Record(ctx, "cid-other", core.HistoryEntry{Author: core.AuthorUser, Text: "unrelated", At: base}); err != nil {
		t.Fatalf("Record: %v", err)
	}

	got, err := repo.Recent(ctx, "cid-1", 10)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("rows = %d, want 3", len(got))
	}
	for i, e := range got {
		if e.Author != turns[i].Author || e.Text != turns[i].Text {
			t.Errorf("row %d = %+v, want %+v", i, e, turns[i])
		}
	}
}

func TestTranscriptRecentLimit(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		entry := core.HistoryEntry{Author: core.AuthorUser, Text: string(rune('a' + i)), At: time.Now()}
		if err := repo.Record(ctx, "cid-1", entry); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}

	got, err := repo.Recent(ctx, "cid-1", 2)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	// Last two turns, oldest first.
	if len(got) != 2 || got[0].Text != "d" || got[1].Text != "e" {
		t.Errorf("got %+v", got)
	}
}

func TestTranscriptName(t *testing.T) {
	if name := (&TranscriptRepo{}).Name(); name != "transcripts" {
		t.Errorf("Name() = %q", name)
	}
}
