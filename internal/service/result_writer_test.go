package service

import (
	"testing"

	"go.uber.org/zap"

	"whichcharacter/internal/domain"
)

func TestResultWriterPersistsEnqueued(t *testing.T) {
	repo := &mockResultRepo{}
	w := NewResultWriter(repo, zap.NewNop(), 8)

	w.Enqueue(domain.QuizResult{ID: "r1", Name: "a"})
	w.Enqueue(domain.QuizResult{ID: "r2", Name: "b"})
	w.Close()

	if len(repo.results) != 2 {
		t.Fatalf("expected 2 persisted results, got %d", len(repo.results))
	}
	if repo.results[0].ID != "r1" || repo.results[1].ID != "r2" {
		t.Fatalf("expected insertion order preserved, got %q, %q", repo.results[0].ID, repo.results[1].ID)
	}
}

func TestResultWriterFullQueueDoesNotBlock(t *testing.T) {
	// Repo que nunca termina no hace falta: con el worker todavia corriendo,
	// encolar mas que la capacidad simplemente descarta sin bloquear.
	repo := &mockResultRepo{}
	w := NewResultWriter(repo, zap.NewNop(), 1)

	done := make(chan struct{})
	go func() {
		for i := 0; i < 100; i++ {
			w.Enqueue(domain.QuizResult{ID: "x"})
		}
		close(done)
	}()

	<-done // si Enqueue bloqueara, el test colgaria aca
	w.Close()
}

func TestResultWriterCloseIsIdempotent(t *testing.T) {
	w := NewResultWriter(&mockResultRepo{}, zap.NewNop(), 1)
	w.Close()
	w.Close()
}
