package memory

import (
	"math/rand"
	"testing"

	"image-quiz/internal/app"
)

func TestSessionStoreLifecycle(t *testing.T) {
	store := NewSessionStore()

	session, err := app.NewSession("s1", sampleQuiz(), 0, rand.New(rand.NewSource(1)))
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	store.Save(session)
	if got, ok := store.Get("s1"); !ok || got != session {
		t.Fatalf("expected session present")
	}
	if store.Len() != 1 {
		t.Fatalf("expected 1 session, got %d", store.Len())
	}

	store.Delete("s1")
	if _, ok := store.Get("s1"); ok {
		t.Fatalf("expected session removed")
	}
	store.Delete("s1")
}
