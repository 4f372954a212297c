package repository

import (
	"fmt"
	"time"
)

// SimulationState es el estado de una simulación.
type SimulationState string

const (
	SimulationPrepared  SimulationState = "PREPARADA"
	SimulationStarted   SimulationState = "INICIADA"
	SimulationCompleted SimulationState = "COMPLETADA"
)

// Simulation es la ejecución de un mundo por un usuario. ID = user.ID + ":" + marca de tiempo.
type Simulation struct {
	id     string
	User   User
	Date   time.Time
	World  World
	Cycles int
	State  SimulationState
}

// NewSimulation prepara una simulación.
func NewSimulation(u User, date time.Time, w World, cycles int) Simulation {
	return Simulation{
		id:     SimulationPrefix(u.ID()) + date.Format(StampLayout),
		User:   u,
		Date:   date,
		World:  w.Clone(),
		Cycles: cycles,
		State:  SimulationPrepared,
	}
}

// SimulationPrefix es el prefijo de ID común a todas las simulaciones de un usuario.
func SimulationPrefix(userID string) string { return userID + ":" }

func (s Simulation) ID() string { return s.id }

func (s Simulation) Aliases() []string { return nil }

func (s Simulation) WithID(id string) Simulation {
	c := s.Clone()
	c.id = id
	return c
}

func (s Simulation) Equal(o Simulation) bool {
	return s.id == o.id &&
		s.User.Equal(o.User) &&
		s.Date.Equal(o.Date) &&
		s.World.Equal(o.World) &&
		s.Cycles == o.Cycles &&
		s.State == o.State
}

func (s Simulation) Clone() Simulation {
	s.World = s.World.Clone()
	return s
}

func (s Simulation) String() string {
	return fmt.Sprintf("%s | %s | %s | ciclos=%d | %s", s.id, s.User.ID(), s.World.Name(), s.Cycles, s.State)
}
