package janitor

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"rental_showcase/internal/lib/logger/sl"
	"rental_showcase/internal/metrics"
	filestorage "rental_showcase/internal/storage/filestorage"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
)

const DefaultSchedule = "0 3 * * *"

type ObjectStore interface {
	Walk(ctx context.Context, fn func(filestorage.ObjectInfo) error) error
	Delete(ctx context.Context, objectID uuid.UUID) error
}

type ReferenceSource interface {
	ReferencedURLs(ctx context.Context) (map[string]struct{}, error)
}

// Janitor удаляет загруженные объекты, на которые не ссылается ни одно изображение.
// Объекты моложе grace не трогаются: клиент мог ещё не сохранить форму.
type Janitor struct {
	log     *slog.Logger
	objects ObjectStore
	refs    ReferenceSource
	grace   time.Duration
	cron    *cron.Cron
	mu      sync.Mutex
	running bool
	now     func() time.Time
}

func New(log *slog.Logger, objects ObjectStore, refs ReferenceSource, grace time.Duration) *Janitor {
	return &Janitor{
		log:     log,
		objects: objects,
		refs:    refs,
		grace:   grace,
		cron:    cron.New(),
		now:     time.Now,
	}
}

// Start регистрирует задачу по расписанию в формате cron
func (j *Janitor) Start(schedule string) error {
	const op = "janitor.Start"

	if schedule == "" {
		schedule = DefaultSchedule
	}

	_, err := j.cron.AddFunc(schedule, func() {
		if _, err := j.RunNow(context.Background()); err != nil {
			j.log.Error("scheduled sweep failed", slog.String("op", op), sl.Err(err))
		}
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	j.cron.Start()
	j.log.Info("janitor started", slog.String("schedule", schedule), slog.Duration("grace", j.grace))

	return nil
}

// Stop ждёт завершения текущего прохода
func (j *Janitor) Stop() {
	<-j.cron.Stop().Done()
	j.log.Info("janitor stopped")
}

// RunNow выполняет один проход и возвращает число удалённых объектов.
// Параллельный вызов во время прохода ничего не делает.
func (j *Janitor) RunNow(ctx context.Context) (int, error) {
	const op = "janitor.RunNow"

	j.mu.Lock()
	if j.running {
		j.mu.Unlock()
		return 0, nil
	}
	j.running = true
	j.mu.Unlock()

	defer func() {
		j.mu.Lock()
		j.running = false
		j.mu.Unlock()
	}()

	log := j.log.With(slog.String("op", op))

	referenced, err := j.refs.ReferencedURLs(ctx)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	cutoff := j.now().Add(-j.grace)
	deleted := 0

	err = j.objects.Walk(ctx, func(info filestorage.ObjectInfo) error {
		if info.ModTime.After(cutoff) {
			return nil
		}
		if _, ok := referenced[filestorage.ObjectPrefix+info.ID.String()]; ok {
			return nil
		}

		if err := j.objects.Delete(ctx, info.ID); err != nil {
			log.Warn("failed to delete orphan", slog.String("object_id", info.ID.String()), sl.Err(err))
			return nil
		}
		deleted++
		metrics.OrphansDeleted.Inc()

		return nil
	})
	if err != nil {
		return deleted, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("sweep finished", slog.Int("deleted", deleted), slog.Int("referenced", len(referenced)))

	return deleted, nil
}
