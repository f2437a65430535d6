package service

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"whichcharacter/internal/domain"
	"whichcharacter/internal/repository"
)

// ResultWriter persiste registros de auditoria en segundo plano con una cola
// acotada. La escritura nunca bloquea ni falla la respuesta del request: si la
// cola esta llena o el insert falla, se loguea y se descarta.
type ResultWriter struct {
	repo   repository.ResultRepository
	logger *zap.Logger
	queue  chan domain.QuizResult
	wg     sync.WaitGroup
	once   sync.Once
}

func NewResultWriter(repo repository.ResultRepository, logger *zap.Logger, queueSize int) *ResultWriter {
	if queueSize <= 0 {
		queueSize = 64
	}
	w := &ResultWriter{
		repo:   repo,
		logger: logger,
		queue:  make(chan domain.QuizResult, queueSize),
	}
	w.wg.Add(1)
	go w.run()
	return w
}

func (w *ResultWriter) run() {
	defer w.wg.Done()
	for result := range w.queue {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := w.repo.Insert(ctx, result); err != nil {
			w.logger.Warn("audit result insert failed",
				zap.String("result_id", result.ID),
				zap.Error(err),
			)
		}
		cancel()
	}
}

// Enqueue encola sin bloquear; cola llena implica descarte con log.
func (w *ResultWriter) Enqueue(result domain.QuizResult) {
	select {
	case w.queue <- result:
	default:
		w.logger.Warn("audit queue full, dropping result", zap.String("result_id", result.ID))
	}
}

// Close drena la cola y espera al worker.
func (w *ResultWriter) Close() {
	w.once.Do(func() {
		close(w.queue)
	})
	w.wg.Wait()
}
