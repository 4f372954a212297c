// Package seed genera los datos predeterminados de cada almacén a partir de un
// fichero YAML (por defecto el embebido seed.yaml).
package seed

import (
	"context"
	_ "embed"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/dropDatabas3/juegovida/internal/domain/repository"
	"github.com/dropDatabas3/juegovida/internal/domain/types"
	"github.com/dropDatabas3/juegovida/internal/store/memory"
)

//go:embed seed.yaml
var embedded []byte

// Alive es el carácter de celda viva en la rejilla del YAML.
const Alive = 'X'

type Data struct {
	RegisteredAt string            `yaml:"registered_at"`
	Users        []UserEntry       `yaml:"users"`
	Worlds       []WorldEntry      `yaml:"worlds"`
	Simulations  []SimulationEntry `yaml:"simulations"`
	Sessions     []SessionEntry    `yaml:"sessions"`
}

// UserEntry describe un usuario. Con PasswordHash (PHC argon2id) no se vuelve
// a hashear Password.
type UserEntry struct {
	Nif          string        `yaml:"nif"`
	Name         string        `yaml:"name"`
	Surnames     string        `yaml:"surnames"`
	Email        string        `yaml:"email"`
	Address      *AddressEntry `yaml:"address"`
	BirthDate    string        `yaml:"birth_date"`
	Password     string        `yaml:"password"`
	PasswordHash string        `yaml:"password_hash"`
	Role         string        `yaml:"role"`
}

type AddressEntry struct {
	Street     string `yaml:"street"`
	Number     string `yaml:"number"`
	PostalCode string `yaml:"postal_code"`
	Town       string `yaml:"town"`
}

type WorldEntry struct {
	Name    string   `yaml:"name"`
	Size    int      `yaml:"size"`
	Born    []int    `yaml:"born"`
	Survive []int    `yaml:"survive"`
	Grid    []string `yaml:"grid"`
}

type SimulationEntry struct {
	User   string `yaml:"user"`
	World  string `yaml:"world"`
	Date   string `yaml:"date"`
	Cycles int    `yaml:"cycles"`
}

type SessionEntry struct {
	User      string `yaml:"user"`
	StartedAt string `yaml:"started_at"`
	Token     string `yaml:"token"`
}

// Parse decodifica un documento de predeterminados.
func Parse(b []byte) (*Data, error) {
	var d Data
	if err := yaml.Unmarshal(b, &d); err != nil {
		return nil, fmt.Errorf("seed: %w", err)
	}
	return &d, nil
}

// Load lee path; con path vacío usa los predeterminados embebidos.
func Load(path string) (*Data, error) {
	if path == "" {
		return Parse(embedded)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("seed: %w", err)
	}
	return Parse(b)
}

// Seeds agrupa un generador por almacén.
type Seeds struct {
	Users       memory.Seeder[repository.User]
	Sessions    memory.Seeder[repository.Session]
	Simulations memory.Seeder[repository.Simulation]
	Worlds      memory.Seeder[repository.World]
}

// Seeders construye los generadores. Cada invocación crea registros nuevos,
// así que dos reinicios producen exactamente el mismo estado.
func (d *Data) Seeders(rules types.Rules) Seeds {
	return Seeds{
		Users: func(ctx context.Context) ([]repository.User, error) {
			return d.users(rules)
		},
		Worlds: func(ctx context.Context) ([]repository.World, error) {
			return d.worlds()
		},
		Simulations: func(ctx context.Context) ([]repository.Simulation, error) {
			return d.simulations(rules)
		},
		Sessions: func(ctx context.Context) ([]repository.Session, error) {
			return d.sessions(rules)
		},
	}
}

func (d *Data) users(rules types.Rules) ([]repository.User, error) {
	return d.buildUsers(rules, true)
}

// buildUsers construye los usuarios; sin withPasswords la clave queda vacía
// (o con el hash precalculado) y no se ejecuta argon2id.
func (d *Data) buildUsers(rules types.Rules, withPasswords bool) ([]repository.User, error) {
	registered, err := parseDate(d.RegisteredAt)
	if err != nil {
		return nil, fmt.Errorf("seed: registered_at: %w", err)
	}
	out := make([]repository.User, 0, len(d.Users))
	for i, s := range d.Users {
		u, err := s.build(rules, registered, withPasswords)
		if err != nil {
			return nil, fmt.Errorf("seed: users[%d]: %w", i, err)
		}
		out = append(out, u)
	}
	return out, nil
}

func (s UserEntry) build(rules types.Rules, registered time.Time, withPassword bool) (repository.User, error) {
	nif, err := rules.Nif(s.Nif)
	if err != nil {
		return repository.User{}, err
	}
	email, err := rules.Email(s.Email)
	if err != nil {
		return repository.User{}, err
	}
	addr := types.DefaultPostalAddress()
	if s.Address != nil {
		if addr, err = rules.PostalAddress(s.Address.Street, s.Address.Number, s.Address.PostalCode, s.Address.Town); err != nil {
			return repository.User{}, err
		}
	}
	birth, err := parseDate(s.BirthDate)
	if err != nil {
		return repository.User{}, fmt.Errorf("birth_date: %w", err)
	}
	pw := types.PasswordFromHash(s.PasswordHash)
	if s.PasswordHash == "" && withPassword {
		if pw, err = rules.Password(s.Password); err != nil {
			return repository.User{}, err
		}
	}
	role, err := repository.ParseRole(s.Role)
	if err != nil {
		return repository.User{}, err
	}
	return repository.NewUser(repository.NewUserInput{
		Nif:          nif,
		Name:         s.Name,
		Surnames:     s.Surnames,
		Address:      addr,
		Email:        email,
		BirthDate:    birth,
		RegisteredAt: registered,
		Password:     pw,
		Role:         role,
	})
}

func (d *Data) worlds() ([]repository.World, error) {
	out := make([]repository.World, 0, len(d.Worlds))
	for i, s := range d.Worlds {
		w, err := s.build()
		if err != nil {
			return nil, fmt.Errorf("seed: worlds[%d]: %w", i, err)
		}
		out = append(out, w)
	}
	return out, nil
}

func (s WorldEntry) build() (repository.World, error) {
	w, err := repository.NewWorld(s.Name, s.Size, s.Born, s.Survive)
	if err != nil {
		return repository.World{}, err
	}
	if len(s.Grid) > s.Size {
		return repository.World{}, fmt.Errorf("%w: %d filas para dimensión %d", repository.ErrInvalidInput, len(s.Grid), s.Size)
	}
	for row, line := range s.Grid {
		if len(line) > s.Size {
			return repository.World{}, fmt.Errorf("%w: fila %d excede la dimensión %d", repository.ErrInvalidInput, row, s.Size)
		}
		for col := 0; col < len(line); col++ {
			if line[col] == Alive {
				w.Set(row, col)
			}
		}
	}
	return w, nil
}

func (d *Data) simulations(rules types.Rules) ([]repository.Simulation, error) {
	if len(d.Simulations) == 0 {
		return nil, nil
	}
	users, err := d.userIndex(rules)
	if err != nil {
		return nil, err
	}
	worlds, err := d.worlds()
	if err != nil {
		return nil, err
	}
	byName := make(map[string]repository.World, len(worlds))
	for _, w := range worlds {
		byName[w.Name()] = w
	}

	out := make([]repository.Simulation, 0, len(d.Simulations))
	for i, s := range d.Simulations {
		u, ok := users[s.User]
		if !ok {
			return nil, fmt.Errorf("seed: simulations[%d]: %w: usuario %s", i, repository.ErrNotFound, s.User)
		}
		w, ok := byName[s.World]
		if !ok {
			return nil, fmt.Errorf("seed: simulations[%d]: %w: mundo %s", i, repository.ErrNotFound, s.World)
		}
		date, err := parseStamp(s.Date)
		if err != nil {
			return nil, fmt.Errorf("seed: simulations[%d]: date: %w", i, err)
		}
		out = append(out, repository.NewSimulation(u, date, w, s.Cycles))
	}
	return out, nil
}

func (d *Data) sessions(rules types.Rules) ([]repository.Session, error) {
	if len(d.Sessions) == 0 {
		return nil, nil
	}
	users, err := d.userIndex(rules)
	if err != nil {
		return nil, err
	}
	out := make([]repository.Session, 0, len(d.Sessions))
	for i, s := range d.Sessions {
		u, ok := users[s.User]
		if !ok {
			return nil, fmt.Errorf("seed: sessions[%d]: %w: usuario %s", i, repository.ErrNotFound, s.User)
		}
		at, err := parseStamp(s.StartedAt)
		if err != nil {
			return nil, fmt.Errorf("seed: sessions[%d]: started_at: %w", i, err)
		}
		out = append(out, repository.NewSession(u, at, s.Token))
	}
	return out, nil
}

// userIndex indexa los usuarios del documento por ID, sin hashear claves.
func (d *Data) userIndex(rules types.Rules) (map[string]repository.User, error) {
	users, err := d.buildUsers(rules, false)
	if err != nil {
		return nil, err
	}
	m := make(map[string]repository.User, len(users))
	for _, u := range users {
		m[u.ID()] = u
	}
	return m, nil
}

func parseDate(s string) (time.Time, error) {
	return time.ParseInLocation(repository.DateLayout, s, time.UTC)
}

func parseStamp(s string) (time.Time, error) {
	return time.ParseInLocation(time.DateTime, s, time.UTC)
}
