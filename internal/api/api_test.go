package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sadopc/fitgrid/internal/cache"
	"github.com/sadopc/fitgrid/internal/store"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.NewMemory()
	if err != nil {
		t.Fatalf("new memory store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	s := newTestStore(t)
	c := cache.New(s)
	sess := &store.Session{
		Email:    "ada@example.com",
		Token:    "tok",
		UserID:   "u1",
		DeviceID: "d1",
	}
	return NewClient(srv.URL, sess, c, cache.DefaultTTL)
}

// healthyMux answers the reachability probe so fetches go remote.
func healthyMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {})
	return mux
}

// ============================================================
// Login
// ============================================================

func TestLogin(t *testing.T) {
	mux := healthyMux()
	mux.HandleFunc("/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var creds map[string]string
		json.NewDecoder(r.Body).Decode(&creds)
		if creds["email"] != "ada@example.com" || creds["password"] != "pw" {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"error": "bad credentials"})
			return
		}
		json.NewEncoder(w).Encode(map[string]string{"token": "t-123", "user_id": "u-9"})
	})
	c := newTestClient(t, mux)

	sess, err := c.Login(context.Background(), "ada@example.com", "pw")
	if err != nil {
		t.Fatal(err)
	}
	if sess.Token != "t-123" || sess.UserID != "u-9" {
		t.Fatalf("session = %+v", sess)
	}
	if sess.DeviceID == "" {
		t.Fatal("login should assign a device id")
	}
	if c.Session() != sess {
		t.Fatal("login should install the session on the client")
	}
}

func TestLoginKeepsDeviceID(t *testing.T) {
	mux := healthyMux()
	mux.HandleFunc("/auth/login", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"token": "t", "user_id": "u"})
	})
	c := newTestClient(t, mux)

	sess, err := c.Login(context.Background(), "ada@example.com", "pw")
	if err != nil {
		t.Fatal(err)
	}
	if sess.DeviceID != "d1" {
		t.Fatalf("re-login should keep the existing device id, got %q", sess.DeviceID)
	}
}

func TestLoginBadCredentials(t *testing.T) {
	mux := healthyMux()
	mux.HandleFunc("/auth/login", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"error": "bad credentials"})
	})
	c := newTestClient(t, mux)

	_, err := c.Login(context.Background(), "ada@example.com", "wrong")
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %T: %v", err, err)
	}
	if apiErr.Status != http.StatusUnauthorized || apiErr.Message != "bad credentials" {
		t.Fatalf("apiErr = %+v", apiErr)
	}
}

// ============================================================
// Authenticated requests
// ============================================================

func TestRequestHeaders(t *testing.T) {
	mux := healthyMux()
	var gotAuth, gotDevice string
	mux.HandleFunc("/user/profile", func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotDevice = r.Header.Get("X-Device-ID")
		json.NewEncoder(w).Encode(Profile{ID: "u1", Name: "Ada"})
	})
	c := newTestClient(t, mux)

	if _, _, err := c.Profile(context.Background()); err != nil {
		t.Fatal(err)
	}
	if gotAuth != "Bearer tok" {
		t.Fatalf("Authorization = %q", gotAuth)
	}
	if gotDevice != "d1" {
		t.Fatalf("X-Device-ID = %q", gotDevice)
	}
}

// ============================================================
// Cached resource fetches
// ============================================================

func TestProfileFreshFetchGoesRemoteEveryTime(t *testing.T) {
	mux := healthyMux()
	hits := 0
	mux.HandleFunc("/user/profile", func(w http.ResponseWriter, r *http.Request) {
		hits++
		json.NewEncoder(w).Encode(Profile{ID: "u1", Name: "Ada", Level: "advanced", WeeklyGoal: 4})
	})
	c := newTestClient(t, mux)
	ctx := context.Background()

	// While reachable, every fetch goes remote; the cache is a fallback,
	// not a rate limiter.
	for i := 0; i < 2; i++ {
		p, origin, err := c.Profile(ctx)
		if err != nil {
			t.Fatal(err)
		}
		if origin != cache.OriginFresh || p.Name != "Ada" {
			t.Fatalf("fetch %d: %+v origin=%v", i, p, origin)
		}
	}
	if hits != 2 {
		t.Fatalf("expected 2 remote hits, got %d", hits)
	}
}

func TestProfileRemoteFailureServesCached(t *testing.T) {
	mux := healthyMux()
	fail := false
	mux.HandleFunc("/user/profile", func(w http.ResponseWriter, r *http.Request) {
		if fail {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		json.NewEncoder(w).Encode(Profile{ID: "u1", Name: "Ada"})
	})
	c := newTestClient(t, mux)
	ctx := context.Background()

	if _, _, err := c.Profile(ctx); err != nil {
		t.Fatal(err)
	}

	fail = true
	p, origin, err := c.Profile(ctx)
	if err != nil {
		t.Fatalf("cached copy should mask the remote failure: %v", err)
	}
	if p.Name != "Ada" {
		t.Fatalf("profile = %+v", p)
	}
	if origin != cache.OriginCached {
		t.Fatalf("origin = %v, want cached", origin)
	}
}

func TestProfileRemoteFailureNoCache(t *testing.T) {
	mux := healthyMux()
	mux.HandleFunc("/user/profile", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		json.NewEncoder(w).Encode(map[string]string{"message": "subscription expired"})
	})
	c := newTestClient(t, mux)

	_, _, err := c.Profile(context.Background())
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("remote error should propagate as *APIError, got %v", err)
	}
	if apiErr.Status != http.StatusForbidden || apiErr.Message != "subscription expired" {
		t.Fatalf("apiErr = %+v", apiErr)
	}
}

func TestProgramsList(t *testing.T) {
	mux := healthyMux()
	mux.HandleFunc("/content/programs", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]Program{
			{ID: "p1", Title: "Strength Base", Level: "beginner", Weeks: 8, Sessions: 3},
			{ID: "p2", Title: "Hypertrophy Block", Level: "advanced", Weeks: 6, Sessions: 4},
		})
	})
	c := newTestClient(t, mux)

	ps, origin, err := c.Programs(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(ps) != 2 || ps[1].Sessions != 4 {
		t.Fatalf("programs = %+v", ps)
	}
	if origin != cache.OriginFresh {
		t.Fatalf("origin = %v", origin)
	}
}

func TestProgramDetail(t *testing.T) {
	mux := healthyMux()
	mux.HandleFunc("/content/programs/p1", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(Program{ID: "p1", Title: "Strength Base", Description: "Linear progression"})
	})
	c := newTestClient(t, mux)

	p, _, err := c.Program(context.Background(), "p1")
	if err != nil {
		t.Fatal(err)
	}
	if p.Description != "Linear progression" {
		t.Fatalf("program = %+v", p)
	}
}

func TestExerciseDetail(t *testing.T) {
	mux := healthyMux()
	mux.HandleFunc("/content/exercises/e1", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(Exercise{ID: "e1", Name: "Back Squat", MuscleGroup: "legs", Equipment: "barbell"})
	})
	c := newTestClient(t, mux)

	e, _, err := c.Exercise(context.Background(), "e1")
	if err != nil {
		t.Fatal(err)
	}
	if e.Name != "Back Squat" || e.MuscleGroup != "legs" {
		t.Fatalf("exercise = %+v", e)
	}
}

func TestHistory(t *testing.T) {
	mux := healthyMux()
	mux.HandleFunc("/user/history", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]HistoryEntry{
			{Date: "2026-03-10", WorkoutID: "w1", WorkoutTitle: "Upper Body", DurationMin: 45},
		})
	})
	c := newTestClient(t, mux)

	hs, _, err := c.History(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(hs) != 1 || hs[0].DurationMin != 45 {
		t.Fatalf("history = %+v", hs)
	}
}

func TestCalendarDropsBadDates(t *testing.T) {
	mux := healthyMux()
	mux.HandleFunc("/user/calendar", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("year") != "2026" || r.URL.Query().Get("month") != "3" {
			t.Errorf("unexpected query: %s", r.URL.RawQuery)
		}
		json.NewEncoder(w).Encode([]calendarDay{
			{Date: "2026-03-10", WorkoutID: "w1", WorkoutTitle: "Upper Body", Trained: true},
			{Date: "not-a-date", WorkoutID: "w2"},
			{Date: "2026-13-40", WorkoutID: "w3"},
		})
	})
	c := newTestClient(t, mux)

	records, _, err := c.Calendar(context.Background(), 2026, 3)
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 1 {
		t.Fatalf("bad dates should be dropped, got %d records", len(records))
	}
	if records[0].WorkoutID != "w1" || !records[0].Trained {
		t.Fatalf("record = %+v", records[0])
	}
}

// ============================================================
// Offline behavior
// ============================================================

func TestUnreachableServiceServesCacheAcrossRestart(t *testing.T) {
	mux := healthyMux()
	mux.HandleFunc("/user/profile", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(Profile{ID: "u1", Name: "Ada"})
	})
	srv := httptest.NewServer(mux)

	s := newTestStore(t)
	kv := cache.New(s)
	sess := &store.Session{Token: "tok", UserID: "u1", DeviceID: "d1"}
	c := NewClient(srv.URL, sess, kv, cache.DefaultTTL)

	if _, _, err := c.Profile(context.Background()); err != nil {
		t.Fatal(err)
	}

	// Service goes away; a new client over the same store still answers.
	srv.Close()
	c2 := NewClient(srv.URL, sess, kv, cache.DefaultTTL)
	p, origin, err := c2.Profile(context.Background())
	if err != nil {
		t.Fatalf("cached profile should survive the outage: %v", err)
	}
	if p.Name != "Ada" {
		t.Fatalf("profile = %+v", p)
	}
	if origin != cache.OriginCached {
		t.Fatalf("origin = %v, want cached", origin)
	}
}

func TestUnreachableServiceNoCache(t *testing.T) {
	s := newTestStore(t)
	c := NewClient("http://127.0.0.1:1", &store.Session{Token: "tok", UserID: "u1"}, cache.New(s), cache.DefaultTTL)

	_, _, err := c.Profile(context.Background())
	if !errors.Is(err, cache.ErrNoCachedData) {
		t.Fatalf("expected ErrNoCachedData, got %v", err)
	}
}

// ============================================================
// Helpers
// ============================================================

func TestParseCivil(t *testing.T) {
	tests := []struct {
		in   string
		ok   bool
		year int
	}{
		{"2026-03-15", true, 2026},
		{"0000-03-15", true, 0},
		{"2026-13-15", false, 0},
		{"2026-03-40", false, 0},
		{"garbage", false, 0},
		{"", false, 0},
	}
	for _, tt := range tests {
		d, ok := parseCivil(tt.in)
		if ok != tt.ok {
			t.Errorf("parseCivil(%q) ok = %v, want %v", tt.in, ok, tt.ok)
		}
		if ok && d.Year != tt.year {
			t.Errorf("parseCivil(%q) year = %d, want %d", tt.in, d.Year, tt.year)
		}
	}
}

func TestAPIErrorString(t *testing.T) {
	e := &APIError{Status: 401, Message: "bad credentials"}
	if e.Error() != "api: bad credentials (status 401)" {
		t.Fatalf("Error() = %q", e.Error())
	}
	e = &APIError{Status: 500}
	if e.Error() != "api: status 500" {
		t.Fatalf("Error() = %q", e.Error())
	}
}

func TestReachable(t *testing.T) {
	c := newTestClient(t, healthyMux())
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if !c.Reachable(ctx) {
		t.Fatal("test server should be reachable")
	}

	down := NewClient("http://127.0.0.1:1", nil, cache.New(newTestStore(t)), cache.DefaultTTL)
	if down.Reachable(ctx) {
		t.Fatal("closed port should be unreachable")
	}
}
