// Package datos es la fachada de acceso a datos: agrupa los cuatro almacenes
// (usuarios, sesiones, simulaciones y mundos) y expone sus operaciones por entidad.
//
// Los almacenes se construyen explícitamente en New; no hay instancias globales.
package datos

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/dropDatabas3/juegovida/internal/domain/repository"
	"github.com/dropDatabas3/juegovida/internal/observability/logger"
	"github.com/dropDatabas3/juegovida/internal/store/memory"
	"github.com/dropDatabas3/juegovida/internal/store/seed"
)

// Nombres de almacén usados en logs y métricas.
const (
	StoreUsers       = "usuarios"
	StoreSessions    = "sesiones"
	StoreSimulations = "simulaciones"
	StoreWorlds      = "mundos"
)

type Options struct {
	MaxVariants int
	Recorder    memory.Recorder
	Logger      *zap.Logger
}

// Datos agrupa los repositorios.
type Datos struct {
	Users       repository.Repository[repository.User]
	Sessions    repository.Repository[repository.Session]
	Simulations repository.Repository[repository.Simulation]
	Worlds      repository.Repository[repository.World]

	log *zap.Logger
}

// New construye los cuatro almacenes con los generadores dados.
func New(ctx context.Context, seeds seed.Seeds, opts Options) (*Datos, error) {
	if opts.Logger == nil {
		opts.Logger = logger.Named("datos")
	}
	storeOpts := func(name string) memory.Options {
		return memory.Options{Name: name, MaxVariants: opts.MaxVariants, Recorder: opts.Recorder, Logger: opts.Logger}
	}

	d := &Datos{log: opts.Logger}
	var err error
	if d.Users, err = memory.New(ctx, storeOpts(StoreUsers), seeds.Users); err != nil {
		return nil, fmt.Errorf("datos: %w", err)
	}
	if d.Sessions, err = memory.New(ctx, storeOpts(StoreSessions), seeds.Sessions); err != nil {
		return nil, fmt.Errorf("datos: %w", err)
	}
	if d.Simulations, err = memory.New(ctx, storeOpts(StoreSimulations), seeds.Simulations); err != nil {
		return nil, fmt.Errorf("datos: %w", err)
	}
	if d.Worlds, err = memory.New(ctx, storeOpts(StoreWorlds), seeds.Worlds); err != nil {
		return nil, fmt.Errorf("datos: %w", err)
	}
	return d, nil
}

// ---- Usuarios ----

func (d *Datos) GetUser(ctx context.Context, key string) (repository.User, bool) {
	return d.Users.Get(ctx, key)
}

func (d *Datos) InsertUser(ctx context.Context, u repository.User) (repository.User, error) {
	return d.Users.Insert(ctx, u)
}

func (d *Datos) DeleteUser(ctx context.Context, id string) (repository.User, error) {
	return d.Users.Delete(ctx, id)
}

func (d *Datos) UpdateUser(ctx context.Context, u repository.User) error {
	return d.Users.Update(ctx, u)
}

func (d *Datos) UsersData(ctx context.Context) string { return d.Users.ListData(ctx) }

func (d *Datos) UserIDs(ctx context.Context) string { return d.Users.ListIDs(ctx) }

func (d *Datos) ResetUsers(ctx context.Context) error { return d.Users.Reset(ctx) }

// ---- Sesiones ----

func (d *Datos) GetSession(ctx context.Context, key string) (repository.Session, bool) {
	return d.Sessions.Get(ctx, key)
}

func (d *Datos) InsertSession(ctx context.Context, s repository.Session) (repository.Session, error) {
	return d.Sessions.Insert(ctx, s)
}

func (d *Datos) DeleteSession(ctx context.Context, id string) (repository.Session, error) {
	return d.Sessions.Delete(ctx, id)
}

func (d *Datos) UpdateSession(ctx context.Context, s repository.Session) error {
	return d.Sessions.Update(ctx, s)
}

func (d *Datos) SessionsData(ctx context.Context) string { return d.Sessions.ListData(ctx) }

func (d *Datos) SessionIDs(ctx context.Context) string { return d.Sessions.ListIDs(ctx) }

func (d *Datos) ResetSessions(ctx context.Context) error { return d.Sessions.Reset(ctx) }

// SessionsRegistered devuelve el número de sesiones almacenadas.
func (d *Datos) SessionsRegistered(ctx context.Context) int { return d.Sessions.Len(ctx) }

// ---- Simulaciones ----

func (d *Datos) GetSimulation(ctx context.Context, id string) (repository.Simulation, bool) {
	return d.Simulations.Get(ctx, id)
}

func (d *Datos) InsertSimulation(ctx context.Context, s repository.Simulation) (repository.Simulation, error) {
	return d.Simulations.Insert(ctx, s)
}

func (d *Datos) DeleteSimulation(ctx context.Context, id string) (repository.Simulation, error) {
	return d.Simulations.Delete(ctx, id)
}

func (d *Datos) UpdateSimulation(ctx context.Context, s repository.Simulation) error {
	return d.Simulations.Update(ctx, s)
}

func (d *Datos) SimulationsData(ctx context.Context) string { return d.Simulations.ListData(ctx) }

func (d *Datos) SimulationIDs(ctx context.Context) string { return d.Simulations.ListIDs(ctx) }

func (d *Datos) ResetSimulations(ctx context.Context) error { return d.Simulations.Reset(ctx) }

// SimulationsOfUser devuelve las simulaciones de userID en orden de ID
// (es decir, cronológico) usando el prefijo común de sus identificadores.
func (d *Datos) SimulationsOfUser(ctx context.Context, userID string) []repository.Simulation {
	return d.Simulations.Scan(ctx, repository.SimulationPrefix(userID))
}

// ---- Mundos ----

func (d *Datos) GetWorld(ctx context.Context, name string) (repository.World, bool) {
	return d.Worlds.Get(ctx, name)
}

func (d *Datos) InsertWorld(ctx context.Context, w repository.World) (repository.World, error) {
	return d.Worlds.Insert(ctx, w)
}

func (d *Datos) DeleteWorld(ctx context.Context, name string) (repository.World, error) {
	return d.Worlds.Delete(ctx, name)
}

func (d *Datos) UpdateWorld(ctx context.Context, w repository.World) error {
	return d.Worlds.Update(ctx, w)
}

func (d *Datos) WorldsData(ctx context.Context) string { return d.Worlds.ListData(ctx) }

func (d *Datos) WorldIDs(ctx context.Context) string { return d.Worlds.ListIDs(ctx) }

func (d *Datos) ResetWorlds(ctx context.Context) error { return d.Worlds.Reset(ctx) }

// ResetAll reinicia los cuatro almacenes en paralelo. Son independientes entre sí.
func (d *Datos) ResetAll(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return d.Users.Reset(gctx) })
	g.Go(func() error { return d.Sessions.Reset(gctx) })
	g.Go(func() error { return d.Simulations.Reset(gctx) })
	g.Go(func() error { return d.Worlds.Reset(gctx) })
	if err := g.Wait(); err != nil {
		d.log.Error("fallo reiniciando almacenes", logger.Op("reset_all"), logger.Err(err))
		return fmt.Errorf("datos.reset_all: %w", err)
	}
	d.log.Debug("almacenes reiniciados", logger.Op("reset_all"))
	return nil
}

// Close libera los almacenes. Solo vuelca el log; los datos viven en memoria.
func (d *Datos) Close() error {
	d.log.Debug("cerrando datos",
		logger.Int(StoreUsers, d.Users.Len(context.Background())),
		logger.Int(StoreSessions, d.Sessions.Len(context.Background())))
	return nil
}
