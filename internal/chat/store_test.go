package chat

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func storeImpls(t *testing.T) map[string]Store {
	t.Helper()
	sq, err := OpenSQLiteStore(filepath.Join(t.TempDir(), "db", "chat.db"))
	if err != nil {
		t.Fatalf("OpenSQLiteStore: %v", err)
	}
	t.Cleanup(func() { _ = sq.Close() })
	return map[string]Store{
		"memory": NewMemoryStore(),
		"sqlite": sq,
	}
}

func TestStoreRecent(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	msgs := []Message{
		{ID: "1", Author: "a", Text: "one", Lang: "en", Origin: "en", Timestamp: base},
		{ID: "2", Author: "b", Text: "deux", Lang: "fr", Origin: "fr", Timestamp: base.Add(time.Second)},
		{ID: "3", Author: "a", Text: "three", Lang: "en", Origin: "en", Timestamp: base.Add(2 * time.Second)},
		{ID: "4", Author: "c", Text: "four", Lang: "en", Origin: "en", Timestamp: base.Add(3 * time.Second)},
	}

	for name, store := range storeImpls(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			for _, m := range msgs {
				if err := store.Append(ctx, m); err != nil {
					t.Fatalf("Append: %v", err)
				}
			}

			tests := []struct {
				lang  string
				limit int
				want  []string
			}{
				{"", 0, []string{"1", "2", "3", "4"}},
				{"", 2, []string{"3", "4"}},
				{"en", 0, []string{"1", "3", "4"}},
				{"en", 2, []string{"3", "4"}},
				{"fr", 5, []string{"2"}},
				{"de", 0, nil},
			}
			for _, tt := range tests {
				got, err := store.Recent(ctx, tt.lang, tt.limit)
				if err != nil {
					t.Fatalf("Recent(%q, %d): %v", tt.lang, tt.limit, err)
				}
				if len(got) != len(tt.want) {
					t.Fatalf("Recent(%q, %d) returned %d messages, want %d", tt.lang, tt.limit, len(got), len(tt.want))
				}
				for i := range got {
					if got[i].ID != tt.want[i] {
						t.Errorf("Recent(%q, %d)[%d] = %s, want %s", tt.lang, tt.limit, i, got[i].ID, tt.want[i])
					}
				}
			}
		})
	}
}

func TestSQLiteStoreRoundTripsFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chat.db")
	ts := time.UnixMilli(1714560000123)
	want := Message{ID: "x", Author: "alice", AuthorID: "u1", Text: "hi", Lang: "en", Origin: "de", Timestamp: ts}

	store, err := OpenSQLiteStore(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := store.Append(context.Background(), want); err != nil {
		t.Fatal(err)
	}
	// duplicate IDs are ignored
	if err := store.Append(context.Background(), want); err != nil {
		t.Fatal(err)
	}
	if err := store.Close(); err != nil {
		t.Fatal(err)
	}

	reopened, err := OpenSQLiteStore(path)
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = reopened.Close() }()

	got, err := reopened.Recent(context.Background(), "", 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d messages, want 1", len(got))
	}
	if !got[0].Timestamp.Equal(want.Timestamp) {
		t.Errorf("timestamp %v, want %v", got[0].Timestamp, want.Timestamp)
	}
	got[0].Timestamp = want.Timestamp
	if got[0] != want {
		t.Errorf("got %+v, want %+v", got[0], want)
	}
}
