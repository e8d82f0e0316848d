package redis

import (
	"math/rand"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"image-quiz/internal/app"
	"image-quiz/internal/domain"
)

func TestSessionStoreSetsAndClearsKeys(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := NewSessionStore(client, time.Minute)

	session := newSession(t, "s1")
	store.Save(session)
	if !mr.Exists(Key("s1")) {
		t.Fatalf("expected redis key to be set")
	}
	if got, _ := mr.Get(Key("s1")); got != "0/2" {
		t.Fatalf("expected progress 0/2, got %q", got)
	}
	if ttl := mr.TTL(Key("s1")); ttl != time.Minute {
		t.Fatalf("expected ttl 1m, got %v", ttl)
	}

	if _, err := session.SubmitAnswer("paris"); err != nil {
		t.Fatalf("submit: %v", err)
	}
	store.Save(session)
	if got, _ := mr.Get(Key("s1")); got != "1/2" {
		t.Fatalf("expected progress 1/2, got %q", got)
	}

	if got, ok := store.Get("s1"); !ok || got != session {
		t.Fatalf("expected session from local map")
	}

	store.Delete("s1")
	if mr.Exists(Key("s1")) {
		t.Fatalf("expected redis key to be removed")
	}
	if _, ok := store.Get("s1"); ok {
		t.Fatalf("expected session removed")
	}
}

func TestSessionMarkerExpires(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := NewSessionStore(client, time.Minute)
	store.Save(newSession(t, "s2"))

	mr.FastForward(2 * time.Minute)
	if mr.Exists(Key("s2")) {
		t.Fatalf("expected marker to expire")
	}
}

func newSession(t *testing.T, id string) *app.Session {
	t.Helper()
	quiz := domain.Quiz{
		ID:    "quiz.json",
		Title: "Capitals",
		Questions: []domain.Question{
			{ImagePath: "france.png", Answer: "paris"},
			{ImagePath: "italy.png", Answer: "rome"},
		},
	}
	session, err := app.NewSession(id, quiz, 0, rand.New(rand.NewSource(1)))
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	return session
}
