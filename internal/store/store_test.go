package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/verte-zerg/tuimind/internal/model"
	"github.com/verte-zerg/tuimind/internal/progress"
	"github.com/verte-zerg/tuimind/internal/sched"
)

var _ progress.KV = (*Store)(nil)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := Open(filepath.Join(t.TempDir(), "nested", "tuimind.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})
	return st
}

func TestKVRoundTrip(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	if _, ok, err := st.Load(ctx, "missing"); err != nil || ok {
		t.Fatalf("expected missing key, got ok=%v err=%v", ok, err)
	}
	if err := st.Save(ctx, "k", []byte(`{"a":1}`)); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := st.Save(ctx, "k", []byte(`{"a":2}`)); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	got, ok, err := st.Load(ctx, "k")
	if err != nil || !ok {
		t.Fatalf("load: ok=%v err=%v", ok, err)
	}
	if string(got) != `{"a":2}` {
		t.Fatalf("unexpected value %s", got)
	}
	if err := st.Delete(ctx, "k"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := st.Delete(ctx, "k"); err != nil {
		t.Fatalf("delete missing: %v", err)
	}
	if _, ok, _ := st.Load(ctx, "k"); ok {
		t.Fatalf("expected key to be deleted")
	}
}

func TestTrackerOnSQLite(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	clock := sched.NewManualClock(time.Date(2026, 2, 3, 12, 0, 0, 0, time.Local))
	tr := progress.New(st, progress.WithClock(clock))

	if _, err := tr.Update(ctx, model.GameSequence, 1, 33, 100, 12); err != nil {
		t.Fatalf("update: %v", err)
	}
	reopened := progress.New(st, progress.WithClock(clock))
	p := reopened.Progress(ctx, model.GameSequence)
	if p.CurrentLevel != 2 || p.CompletedLevels != 1 || p.BestScore != 33 {
		t.Fatalf("unexpected progress after reload: %+v", p)
	}
	if reopened.Streak(ctx) != 1 {
		t.Fatalf("expected streak 1, got %d", reopened.Streak(ctx))
	}
}

func TestSessionsHistory(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	base := time.Date(2026, 2, 3, 12, 0, 0, 0, time.UTC)

	games := []model.GameType{model.GameSequence, model.GameMatching, model.GameSequence, model.GameSequence}
	var ids []string
	for i, g := range games {
		start := base.Add(time.Duration(i) * time.Minute)
		id, err := st.InsertSession(ctx, model.SessionRecord{
			Profile:   "default",
			GameType:  g,
			Level:     i + 1,
			Score:     10 * (i + 1),
			Accuracy:  90,
			TimeSpent: 20,
			StartedAt: start,
			EndedAt:   start.Add(20 * time.Second),
		})
		if err != nil {
			t.Fatalf("insert session: %v", err)
		}
		if id == "" {
			t.Fatalf("expected generated id")
		}
		ids = append(ids, id)
	}
	if _, err := st.InsertSession(ctx, model.SessionRecord{Profile: "other", GameType: model.GameSequence, StartedAt: base, EndedAt: base}); err != nil {
		t.Fatalf("insert other profile: %v", err)
	}

	seq, err := st.ListSessions(ctx, model.SessionFilter{Profile: "default", GameType: model.GameSequence, Last: 2})
	if err != nil {
		t.Fatalf("list sessions: %v", err)
	}
	if len(seq) != 2 {
		t.Fatalf("expected 2 sessions, got %d", len(seq))
	}
	if seq[0].ID != ids[2] || seq[1].ID != ids[3] {
		t.Fatalf("unexpected order: %+v", seq)
	}
	if seq[1].Score != 40 || seq[1].Level != 4 || !seq[1].EndedAt.Equal(base.Add(3*time.Minute+20*time.Second)) {
		t.Fatalf("unexpected row: %+v", seq[1])
	}

	since := base.Add(90 * time.Second)
	recent, err := st.ListSessions(ctx, model.SessionFilter{Profile: "default", Since: &since})
	if err != nil {
		t.Fatalf("list since: %v", err)
	}
	if len(recent) != 2 {
		t.Fatalf("expected 2 recent sessions, got %d", len(recent))
	}

	if err := st.DeleteSessions(ctx, "default"); err != nil {
		t.Fatalf("delete sessions: %v", err)
	}
	all, err := st.ListSessions(ctx, model.SessionFilter{})
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if len(all) != 1 || all[0].Profile != "other" {
		t.Fatalf("expected only the other profile to remain, got %+v", all)
	}
}
