package store

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/gradewise/internal/analytics"
	"github.com/abhisek/gradewise/internal/task"
)

// openTestStore opens a private in-memory database. The name is unique per
// test so shared-cache connections never see another test's rows.
func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open("file:" + uuid.NewString() + "?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpenClose(t *testing.T) {
	s := openTestStore(t)

	for _, tbl := range tables {
		var name string
		err := s.DB().QueryRow(
			`SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`, tbl.Name).Scan(&name)
		if err != nil {
			t.Errorf("table %s not migrated: %v", tbl.Name, err)
		}
	}
}

func TestPragmasApplied(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	tests := []struct {
		pragma string
		want   string
	}{
		// journal_mode reports "memory" for in-memory databases; see
		// TestFileStoreUsesWAL.
		{"foreign_keys", "1"},
		{"synchronous", "1"}, // NORMAL
		{"busy_timeout", "5000"},
	}
	for _, tt := range tests {
		var got string
		if err := db.QueryRow("PRAGMA " + tt.pragma).Scan(&got); err != nil {
			t.Errorf("PRAGMA %s: %v", tt.pragma, err)
			continue
		}
		if got != tt.want {
			t.Errorf("PRAGMA %s = %q, want %q", tt.pragma, got, tt.want)
		}
	}
}

func TestWithPragmas(t *testing.T) {
	got := withPragmas("file:x.db?mode=rwc")
	want := "file:x.db?mode=rwc&_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)" +
		"&_pragma=foreign_keys(1)&_pragma=synchronous(NORMAL)"
	if got != want {
		t.Errorf("withPragmas = %q, want %q", got, want)
	}
}

func TestFileStoreUsesWAL(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "gradewise.db")
	if err := EnsureDir(path); err != nil {
		t.Fatalf("EnsureDir: %v", err)
	}

	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer s.Close()

	var mode string
	if err := s.DB().QueryRow("PRAGMA journal_mode").Scan(&mode); err != nil {
		t.Fatalf("PRAGMA journal_mode: %v", err)
	}
	if mode != "wal" {
		t.Errorf("journal_mode = %q, want %q", mode, "wal")
	}
}

func TestReopenKeepsSequence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gradewise.db")
	ctx := context.Background()

	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	first, err := s.seq.Next(ctx)
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	s.Close()

	s, err = Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s.Close()
	second, err := s.seq.Next(ctx)
	if err != nil {
		t.Fatalf("Next after reopen: %v", err)
	}
	if second != first+1 {
		t.Errorf("sequence after reopen = %d, want %d", second, first+1)
	}
}

func TestDefaultDBPath(t *testing.T) {
	dir := t.TempDir()

	explicit := filepath.Join(dir, "explicit", "x.db")
	t.Setenv("GRADEWISE_DB", explicit)
	p, err := DefaultDBPath()
	if err != nil {
		t.Fatalf("DefaultDBPath: %v", err)
	}
	if p != explicit {
		t.Errorf("path = %q, want %q", p, explicit)
	}
	if fi, err := os.Stat(filepath.Dir(explicit)); err != nil || !fi.IsDir() {
		t.Errorf("parent dir not created: %v", err)
	}

	t.Setenv("GRADEWISE_DB", "")
	t.Setenv("XDG_DATA_HOME", dir)
	p, err = DefaultDBPath()
	if err != nil {
		t.Fatalf("DefaultDBPath: %v", err)
	}
	if want := filepath.Join(dir, "gradewise", "gradewise.db"); p != want {
		t.Errorf("path = %q, want %q", p, want)
	}
}

func TestSequenceCounterIsMonotonicUnderConcurrency(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	var mu sync.Mutex
	seen := map[int64]bool{}
	var wg sync.WaitGroup
	for range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			n, err := s.seq.Next(ctx)
			if err != nil {
				t.Errorf("Next: %v", err)
				return
			}
			mu.Lock()
			seen[n] = true
			mu.Unlock()
		}()
	}
	wg.Wait()

	if len(seen) != 20 {
		t.Fatalf("got %d distinct sequences, want 20", len(seen))
	}
	for i := int64(1); i <= 20; i++ {
		if !seen[i] {
			t.Errorf("missing sequence %d", i)
		}
	}
}

func appendEvents(t *testing.T, repo EventRepo, events ...LLMRequestEventData) {
	t.Helper()
	for _, e := range events {
		if err := repo.AppendLLMRequest(context.Background(), e); err != nil {
			t.Fatalf("AppendLLMRequest: %v", err)
		}
	}
}

func TestLLMEvents_QueryAndGet(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	appendEvents(t, repo,
		LLMRequestEventData{Provider: "anthropic", Model: "claude-haiku-4-5", Purpose: "rubric-judgment",
			InputTokens: 100, OutputTokens: 20, LatencyMs: 300, Success: true,
			RequestBody: "[user]\nwork", ResponseBody: `{"score":3}`},
		LLMRequestEventData{Provider: "anthropic", Model: "claude-haiku-4-5", Purpose: "rubric-judgment",
			InputTokens: 80, LatencyMs: 100, Success: false, ErrorMessage: "rate limit"},
		LLMRequestEventData{Provider: "openai", Model: "gpt-4o-mini", Purpose: "puzzle-judgment",
			InputTokens: 50, OutputTokens: 10, LatencyMs: 200, Success: true},
	)

	all, err := repo.QueryLLMEvents(ctx, QueryOpts{})
	if err != nil {
		t.Fatalf("QueryLLMEvents: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("got %d events, want 3", len(all))
	}
	if all[0].Purpose != "puzzle-judgment" {
		t.Errorf("first purpose = %q, want newest first", all[0].Purpose)
	}
	if all[0].Sequence <= all[1].Sequence {
		t.Errorf("sequences not descending: %d, %d", all[0].Sequence, all[1].Sequence)
	}

	judged, err := repo.QueryLLMEvents(ctx, QueryOpts{Purpose: "rubric-judgment"})
	if err != nil {
		t.Fatalf("query by purpose: %v", err)
	}
	if len(judged) != 2 {
		t.Errorf("purpose filter returned %d, want 2", len(judged))
	}

	limited, err := repo.QueryLLMEvents(ctx, QueryOpts{Limit: 1})
	if err != nil {
		t.Fatalf("query with limit: %v", err)
	}
	if len(limited) != 1 {
		t.Errorf("limit returned %d, want 1", len(limited))
	}

	after, err := repo.QueryLLMEvents(ctx, QueryOpts{After: all[1].Sequence})
	if err != nil {
		t.Fatalf("query after: %v", err)
	}
	if len(after) != 1 || after[0].ID != all[0].ID {
		t.Errorf("after filter = %+v, want only event %d", after, all[0].ID)
	}

	future, err := repo.QueryLLMEvents(ctx, QueryOpts{From: time.Now().Add(time.Hour)})
	if err != nil {
		t.Fatalf("query from: %v", err)
	}
	if len(future) != 0 {
		t.Errorf("future window returned %d events", len(future))
	}

	got, err := repo.GetLLMEvent(ctx, all[2].ID)
	if err != nil {
		t.Fatalf("GetLLMEvent: %v", err)
	}
	if got == nil {
		t.Fatal("expected event, got nil")
	}
	if got.ResponseBody != `{"score":3}` {
		t.Errorf("ResponseBody = %q", got.ResponseBody)
	}
	if got.RequestBody != "[user]\nwork" {
		t.Errorf("RequestBody = %q", got.RequestBody)
	}
	if !got.Success {
		t.Error("Success = false, want true")
	}
	if d := time.Since(got.Timestamp); d < 0 || d > time.Minute {
		t.Errorf("Timestamp %v not recent", got.Timestamp)
	}

	missing, err := repo.GetLLMEvent(ctx, 9999)
	if err != nil {
		t.Fatalf("GetLLMEvent missing: %v", err)
	}
	if missing != nil {
		t.Errorf("missing event = %+v, want nil", missing)
	}
}

func TestLLMEvents_Usage(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	appendEvents(t, repo,
		LLMRequestEventData{Model: "m1", Purpose: "rubric-judgment", InputTokens: 100, OutputTokens: 10, LatencyMs: 100, Success: true},
		LLMRequestEventData{Model: "m1", Purpose: "rubric-judgment", InputTokens: 200, OutputTokens: 30, LatencyMs: 300, Success: true},
		LLMRequestEventData{Model: "m2", Purpose: "puzzle-judgment", InputTokens: 50, LatencyMs: 50, Success: false},
	)

	byPurpose, err := repo.LLMUsageByPurpose(ctx)
	if err != nil {
		t.Fatalf("LLMUsageByPurpose: %v", err)
	}
	if len(byPurpose) != 2 {
		t.Fatalf("got %d purposes, want 2", len(byPurpose))
	}
	wantPurpose := PurposeUsage{Purpose: "rubric-judgment", Calls: 2, InputTokens: 300, OutputTokens: 40, AvgLatencyMs: 200}
	if byPurpose[0] != wantPurpose {
		t.Errorf("byPurpose[0] = %+v, want %+v", byPurpose[0], wantPurpose)
	}

	byModel, err := repo.LLMUsageByModel(ctx)
	if err != nil {
		t.Fatalf("LLMUsageByModel: %v", err)
	}
	// Failed calls are not billed usage.
	if len(byModel) != 1 {
		t.Fatalf("got %d models, want 1", len(byModel))
	}
	wantModel := ModelUsage{Model: "m1", Calls: 2, InputTokens: 300, OutputTokens: 40}
	if byModel[0] != wantModel {
		t.Errorf("byModel[0] = %+v, want %+v", byModel[0], wantModel)
	}
}

func points(v float64) *float64 { return &v }

func TestScores_UpsertBySubmission(t *testing.T) {
	s := openTestStore(t)
	repo := s.ScoreRepo()
	ctx := context.Background()

	first := ScoreRecord{
		SessionID: "s1", SubmissionID: "sub-1", TaskID: "t1", StudentID: "ana",
		Result: task.ScoreResult{Score: points(3), MaxPoints: points(10), Method: task.MethodRuleBased},
	}
	if err := repo.SaveScore(ctx, first); err != nil {
		t.Fatalf("SaveScore: %v", err)
	}
	if err := repo.SaveScore(ctx, ScoreRecord{
		SessionID: "s1", SubmissionID: "sub-2", TaskID: "t2", StudentID: "ana",
		Result: task.ScoreResult{Method: task.MethodNone},
	}); err != nil {
		t.Fatalf("SaveScore: %v", err)
	}

	rescored := first
	rescored.Result = task.ScoreResult{Score: points(7), MaxPoints: points(10), Method: task.MethodAIRubric, Reason: "regraded"}
	if err := repo.SaveScore(ctx, rescored); err != nil {
		t.Fatalf("SaveScore rescored: %v", err)
	}

	recs, err := repo.ScoresForSession(ctx, "s1")
	if err != nil {
		t.Fatalf("ScoresForSession: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("got %d records, want 2", len(recs))
	}

	// The upsert moves the record to the newest sequence.
	if recs[0].SubmissionID != "sub-2" {
		t.Errorf("recs[0] = %q, want sub-2", recs[0].SubmissionID)
	}
	if recs[0].Result.Scored() {
		t.Error("sub-2 should be unscored")
	}
	r := recs[1]
	if r.SubmissionID != "sub-1" || r.Result.Points() != 7 || r.Result.Method != task.MethodAIRubric || r.Result.Reason != "regraded" {
		t.Errorf("rescored record = %+v", r)
	}

	other, err := repo.ScoresForSession(ctx, "s2")
	if err != nil {
		t.Fatalf("ScoresForSession s2: %v", err)
	}
	if len(other) != 0 {
		t.Errorf("s2 has %d records, want 0", len(other))
	}
}

func TestScores_RequiresIDs(t *testing.T) {
	s := openTestStore(t)
	if err := s.ScoreRepo().SaveScore(context.Background(), ScoreRecord{SessionID: "s1"}); err == nil {
		t.Error("expected error for missing submission id")
	}
}

func TestAnalytics_SaveLatestPrune(t *testing.T) {
	s := openTestStore(t)
	repo := s.AnalyticsRepo()
	ctx := context.Background()

	latest, err := repo.Latest(ctx, "s1")
	if err != nil {
		t.Fatalf("Latest: %v", err)
	}
	if latest != nil {
		t.Fatalf("expected nil run before any save, got %+v", latest)
	}

	for i := range 4 {
		run := &AnalyticsRun{
			SessionID: "s1",
			Result: analytics.Result{Session: analytics.SessionAnalytics{
				SessionID:         "s1",
				ClassAverageScore: 10 * (i + 1),
			}},
		}
		if err := repo.Save(ctx, run); err != nil {
			t.Fatalf("Save: %v", err)
		}
		if run.ID == "" {
			t.Error("Save did not assign an id")
		}
	}
	if err := repo.Save(ctx, &AnalyticsRun{SessionID: "s2"}); err != nil {
		t.Fatalf("Save s2: %v", err)
	}

	latest, err = repo.Latest(ctx, "s1")
	if err != nil {
		t.Fatalf("Latest: %v", err)
	}
	if latest == nil || latest.Result.Session.ClassAverageScore != 40 {
		t.Fatalf("latest = %+v, want class average 40", latest)
	}

	sessions, err := repo.Sessions(ctx)
	if err != nil {
		t.Fatalf("Sessions: %v", err)
	}
	if len(sessions) != 2 || sessions[0] != "s2" || sessions[1] != "s1" {
		t.Errorf("sessions = %v, want [s2 s1]", sessions)
	}

	if err := repo.Prune(ctx, "s1", 2); err != nil {
		t.Fatalf("Prune: %v", err)
	}
	var remaining int
	if err := s.DB().QueryRow(
		`SELECT COUNT(*) FROM analytics_runs WHERE session_id = 's1'`).Scan(&remaining); err != nil {
		t.Fatalf("count runs: %v", err)
	}
	if remaining != 2 {
		t.Errorf("remaining runs = %d, want 2", remaining)
	}

	latest, err = repo.Latest(ctx, "s1")
	if err != nil {
		t.Fatalf("Latest after prune: %v", err)
	}
	if latest.Result.Session.ClassAverageScore != 40 {
		t.Errorf("latest after prune = %d, want 40", latest.Result.Session.ClassAverageScore)
	}

	// Pruning fewer runs than keep is a no-op.
	if err := repo.Prune(ctx, "s2", 5); err != nil {
		t.Errorf("Prune s2: %v", err)
	}
}

func TestAnalytics_RequiresSession(t *testing.T) {
	s := openTestStore(t)
	if err := s.AnalyticsRepo().Save(context.Background(), &AnalyticsRun{}); err == nil {
		t.Error("expected error for missing session id")
	}
}
