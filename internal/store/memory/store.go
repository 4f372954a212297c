// Package memory implementa el DAO genérico en memoria: una secuencia ordenada por
// identificador, una tabla de equivalencias y resolución determinista de colisiones.
//
// Cada Store es un valor construido explícitamente (sin singletons) y serializa
// sus operaciones con un único mutex por instancia.
package memory

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/dropDatabas3/juegovida/internal/domain/repository"
	"github.com/dropDatabas3/juegovida/internal/observability/logger"
	"github.com/dropDatabas3/juegovida/internal/store/collision"
)

// Seeder produce los registros predeterminados. Se invoca al construir y en cada Reset.
type Seeder[T any] func(ctx context.Context) ([]T, error)

// Recorder recibe métricas de operación. Ver internal/metrics.
type Recorder interface {
	Operation(store, op, result string)
	Collision(store string)
	Records(store string, n int)
}

// Options configura un Store.
type Options struct {
	// Name identifica el almacén en logs y métricas ("usuarios", "sesiones"...).
	Name string

	// MaxVariants limita los intentos de variación de ID. Default: collision.MaxAttempts.
	MaxVariants int

	// Recorder opcional.
	Recorder Recorder

	// Logger opcional. Default: logger.Named("store").
	Logger *zap.Logger
}

// Store es el DAO en memoria de un tipo de entidad.
type Store[T repository.Record[T]] struct {
	name        string
	maxVariants int
	seed        Seeder[T]
	rec         Recorder
	log         *zap.Logger

	mu sync.Mutex
	t  *table[T]
}

// New construye el almacén y carga los predeterminados.
func New[T repository.Record[T]](ctx context.Context, opts Options, seed Seeder[T]) (*Store[T], error) {
	if opts.MaxVariants <= 0 {
		opts.MaxVariants = collision.MaxAttempts
	}
	if opts.Recorder == nil {
		opts.Recorder = nopRecorder{}
	}
	if opts.Logger == nil {
		opts.Logger = logger.Named("store")
	}
	s := &Store[T]{
		name:        opts.Name,
		maxVariants: opts.MaxVariants,
		seed:        seed,
		rec:         opts.Recorder,
		log:         opts.Logger.With(logger.Store(opts.Name)),
		t:           newTable[T](),
	}
	if err := s.Reset(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// Name devuelve el nombre del almacén.
func (s *Store[T]) Name() string { return s.name }

// Get busca key como ID y, si no hay registro con ese ID, la resuelve como alias.
func (s *Store[T]) Get(ctx context.Context, key string) (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.t.get(key)
	if !ok {
		s.rec.Operation(s.name, "get", "miss")
		var zero T
		return zero, false
	}
	s.rec.Operation(s.name, "get", "hit")
	return rec.Clone(), true
}

// GetRecord busca por el ID del registro dado.
func (s *Store[T]) GetRecord(ctx context.Context, rec T) (T, bool) {
	return s.Get(ctx, rec.ID())
}

// Insert da de alta rec (alta).
func (s *Store[T]) Insert(ctx context.Context, rec T) (T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, err := s.insertLocked(ctx, rec.Clone())
	if err != nil {
		s.rec.Operation(s.name, "insert", "error")
		var zero T
		return zero, err
	}
	s.rec.Operation(s.name, "insert", "ok")
	s.rec.Records(s.name, s.t.len())
	return stored.Clone(), nil
}

func (s *Store[T]) insertLocked(ctx context.Context, rec T) (T, error) {
	var zero T
	pos := s.t.locate(rec.ID())
	if pos <= 0 {
		s.t.insert(pos, rec)
		logger.FromWithFields(ctx, logger.Store(s.name)).Debug("alta", logger.Op("insert"), logger.ID(rec.ID()))
		return rec, nil
	}

	if s.t.at(pos).Equal(rec) {
		return zero, fmt.Errorf("%s.insert: %w: %s", s.name, repository.ErrDuplicateID, rec.ID())
	}

	variant, vpos, err := collision.Resolve(rec, s.t.locateStored, s.maxVariants)
	if err != nil {
		s.log.Warn("colisión sin resolver", logger.Op("insert"), logger.ID(rec.ID()), logger.Err(err))
		return zero, fmt.Errorf("%s.insert: %w", s.name, err)
	}
	s.t.insert(vpos, variant)
	s.rec.Collision(s.name)
	s.log.Warn("colisión de identificador, se almacena variante",
		logger.Op("insert"), logger.ID(rec.ID()), logger.String("variant", variant.ID()))
	return variant, nil
}

// Delete da de baja por ID (baja).
func (s *Store[T]) Delete(ctx context.Context, id string) (T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	pos := s.t.locate(id)
	if pos <= 0 {
		s.rec.Operation(s.name, "delete", "not_found")
		var zero T
		return zero, fmt.Errorf("%s.delete: %w: %s", s.name, repository.ErrNotFound, id)
	}
	removed := s.t.remove(pos)
	s.rec.Operation(s.name, "delete", "ok")
	s.rec.Records(s.name, s.t.len())
	logger.FromWithFields(ctx, logger.Store(s.name)).Debug("baja", logger.Op("delete"), logger.ID(id))
	return removed, nil
}

// Update reemplaza el registro con el mismo ID (actualizar). El ID no cambia.
func (s *Store[T]) Update(ctx context.Context, rec T) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	pos := s.t.locate(rec.ID())
	if pos <= 0 {
		s.rec.Operation(s.name, "update", "not_found")
		return fmt.Errorf("%s.update: %w: %s", s.name, repository.ErrNotFound, rec.ID())
	}
	s.t.replace(pos, rec.Clone())
	s.rec.Operation(s.name, "update", "ok")
	logger.FromWithFields(ctx, logger.Store(s.name)).Debug("actualizar", logger.Op("update"), logger.ID(rec.ID()))
	return nil
}

// ListData vuelca cada registro precedido de salto de línea.
func (s *Store[T]) ListData(ctx context.Context) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	var b strings.Builder
	for _, r := range s.t.seq {
		b.WriteString("\n")
		b.WriteString(r.String())
	}
	return b.String()
}

// ListIDs vuelca cada ID precedido de salto de línea.
func (s *Store[T]) ListIDs(ctx context.Context) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	var b strings.Builder
	for _, r := range s.t.seq {
		b.WriteString("\n")
		b.WriteString(r.ID())
	}
	return b.String()
}

// All devuelve copias de todos los registros en orden.
func (s *Store[T]) All(ctx context.Context) []T {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]T, 0, s.t.len())
	for _, r := range s.t.seq {
		out = append(out, r.Clone())
	}
	return out
}

// Scan devuelve copias de los registros cuyo ID empieza por prefix, en orden.
func (s *Store[T]) Scan(ctx context.Context, prefix string) []T {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []T
	for _, r := range s.t.scan(prefix) {
		out = append(out, r.Clone())
	}
	return out
}

// Len devuelve el número de registros.
func (s *Store[T]) Len(ctx context.Context) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.t.len()
}

// Reset vacía el almacén y recarga los predeterminados (borrarTodo).
// Un fallo al sembrar se devuelve; el almacén queda vacío en ese caso.
func (s *Store[T]) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.t.reset()
	if s.seed == nil {
		s.rec.Records(s.name, 0)
		return nil
	}
	recs, err := s.seed(ctx)
	if err != nil {
		s.log.Error("fallo generando predeterminados", logger.Op("reset"), logger.Err(err))
		return fmt.Errorf("%s.reset: seed: %w", s.name, err)
	}
	for _, r := range recs {
		if _, err := s.insertLocked(ctx, r.Clone()); err != nil {
			s.t.reset()
			s.log.Error("fallo cargando predeterminado", logger.Op("reset"), logger.ID(r.ID()), logger.Err(err))
			return fmt.Errorf("%s.reset: seed %s: %w", s.name, r.ID(), err)
		}
	}
	s.rec.Records(s.name, s.t.len())
	s.log.Debug("predeterminados cargados", logger.Op("reset"), logger.Count(s.t.len()))
	return nil
}

type nopRecorder struct{}

func (nopRecorder) Operation(string, string, string) {}
func (nopRecorder) Collision(string)                 {}
func (nopRecorder) Records(string, int)              {}
