package datos

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/dropDatabas3/juegovida/internal/domain/repository"
	"github.com/dropDatabas3/juegovida/internal/domain/types"
	"github.com/dropDatabas3/juegovida/internal/metrics"
	"github.com/dropDatabas3/juegovida/internal/security/password"
	"github.com/dropDatabas3/juegovida/internal/store/seed"
)

func newDatos(t *testing.T, rec *metrics.Recorder) *Datos {
	t.Helper()
	rules := types.DefaultRules()
	rules.Hash = password.Fast
	d, err := seed.Load("")
	require.NoError(t, err)
	opts := Options{Logger: zap.NewNop()}
	if rec != nil {
		opts.Recorder = rec
	}
	db, err := New(context.Background(), d.Seeders(rules), opts)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestNew_Baseline(t *testing.T) {
	ctx := context.Background()
	db := newDatos(t, nil)

	assert.Equal(t, "\nAAA0T\nIII1R", db.UserIDs(ctx))
	assert.Equal(t, "\nDemo0", db.WorldIDs(ctx))
	assert.Equal(t, "\nIII1R:20180101000001", db.SimulationIDs(ctx))
	assert.Equal(t, "", db.SessionIDs(ctx))
	assert.Equal(t, "", db.SessionsData(ctx))
	assert.Equal(t, 0, db.SessionsRegistered(ctx))

	g := goldie.New(t)
	g.Assert(t, "users_listing", []byte(db.UsersData(ctx)))
	g.Assert(t, "worlds_listing", []byte(db.WorldsData(ctx)))
	g.Assert(t, "simulations_listing", []byte(db.SimulationsData(ctx)))
}

func TestUsers_ByAlias(t *testing.T) {
	ctx := context.Background()
	db := newDatos(t, nil)

	for _, key := range []string{"AAA0T", "00000000T", "jv.admin@gmail.com"} {
		u, ok := db.GetUser(ctx, key)
		require.True(t, ok, key)
		assert.Equal(t, "AAA0T", u.ID())
	}
	_, ok := db.GetUser(ctx, "nadie")
	assert.False(t, ok)
}

func TestUsers_CollisionAndDelete(t *testing.T) {
	ctx := context.Background()
	db := newDatos(t, nil)
	admin, _ := db.GetUser(ctx, "AAA0T")

	// Mismo ID calculado, otro correo: se guarda una variante.
	rules := types.DefaultRules()
	rules.Hash = password.Fast
	email, err := rules.Email("otro.admin@gmail.com")
	require.NoError(t, err)
	twin, err := repository.NewUser(repository.NewUserInput{
		Nif: admin.Nif, Name: "Ana", Surnames: "Alonso Arias", Email: email,
		Address: admin.Address, BirthDate: admin.BirthDate, RegisteredAt: admin.RegisteredAt,
		Password: admin.Password,
	})
	require.NoError(t, err)
	require.Equal(t, "AAA0T", twin.ID())

	stored, err := db.InsertUser(ctx, twin)
	require.NoError(t, err)
	assert.Equal(t, "AAA0U", stored.ID())
	assert.Equal(t, "\nAAA0T\nAAA0U\nIII1R", db.UserIDs(ctx))

	// El NIF compartido resuelve al último registrado.
	u, _ := db.GetUser(ctx, "00000000T")
	assert.Equal(t, "AAA0U", u.ID())

	_, err = db.InsertUser(ctx, admin)
	assert.ErrorIs(t, err, repository.ErrDuplicateID)

	_, err = db.DeleteUser(ctx, "AAA0T")
	require.NoError(t, err)
	_, ok := db.GetUser(ctx, "jv.admin@gmail.com")
	assert.False(t, ok)
	u, ok = db.GetUser(ctx, "00000000T")
	require.True(t, ok)
	assert.Equal(t, "AAA0U", u.ID())

	_, err = db.DeleteUser(ctx, "AAA0T")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestUpdateUser(t *testing.T) {
	ctx := context.Background()
	db := newDatos(t, nil)

	u, _ := db.GetUser(ctx, "III1R")
	u.Role = repository.RoleNormal
	require.NoError(t, db.UpdateUser(ctx, u))
	got, _ := db.GetUser(ctx, "III1R")
	assert.Equal(t, repository.RoleNormal, got.Role)
}

func TestSimulationsOfUser(t *testing.T) {
	ctx := context.Background()
	db := newDatos(t, nil)

	guest, _ := db.GetUser(ctx, "III1R")
	admin, _ := db.GetUser(ctx, "AAA0T")
	w, ok := db.GetWorld(ctx, "Demo0")
	require.True(t, ok)

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		_, err := db.InsertSimulation(ctx, repository.NewSimulation(guest, base.Add(time.Duration(i)*time.Hour), w, 5))
		require.NoError(t, err)
	}
	_, err := db.InsertSimulation(ctx, repository.NewSimulation(admin, base, w, 5))
	require.NoError(t, err)

	sims := db.SimulationsOfUser(ctx, "III1R")
	require.Len(t, sims, 4)
	assert.Equal(t, "III1R:20180101000001", sims[0].ID())
	assert.Equal(t, "III1R:20240101020000", sims[3].ID())
	assert.Len(t, db.SimulationsOfUser(ctx, "AAA0T"), 1)
	assert.Empty(t, db.SimulationsOfUser(ctx, "ZZZ0Z"))
}

func TestSessionsAndWorlds(t *testing.T) {
	ctx := context.Background()
	db := newDatos(t, nil)
	u, _ := db.GetUser(ctx, "AAA0T")

	s, err := db.InsertSession(ctx, repository.NewSession(u, time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC), "tok"))
	require.NoError(t, err)
	assert.Equal(t, 1, db.SessionsRegistered(ctx))
	got, ok := db.GetSession(ctx, "tok")
	require.True(t, ok)
	assert.Equal(t, s.ID(), got.ID())
	require.NoError(t, db.UpdateSession(ctx, got.Close()))
	_, err = db.DeleteSession(ctx, s.ID())
	require.NoError(t, err)
	assert.Equal(t, 0, db.SessionsRegistered(ctx))

	w, err := repository.NewWorld("Vacio", 3, []int{3}, []int{2, 3})
	require.NoError(t, err)
	_, err = db.InsertWorld(ctx, w)
	require.NoError(t, err)
	w.Set(1, 1)
	require.NoError(t, db.UpdateWorld(ctx, w))
	stored, _ := db.GetWorld(ctx, "Vacio")
	assert.Equal(t, 1, stored.Alive())
	_, err = db.DeleteWorld(ctx, "Vacio")
	require.NoError(t, err)
	assert.Equal(t, "\nDemo0", db.WorldIDs(ctx))
}

func TestResetAll(t *testing.T) {
	ctx := context.Background()
	rec := metrics.New()
	db := newDatos(t, rec)
	baseline := db.UsersData(ctx) + db.WorldsData(ctx) + db.SimulationsData(ctx)

	_, err := db.DeleteUser(ctx, "III1R")
	require.NoError(t, err)
	_, err = db.DeleteWorld(ctx, "Demo0")
	require.NoError(t, err)
	u, _ := db.GetUser(ctx, "AAA0T")
	_, err = db.InsertSession(ctx, repository.NewSession(u, time.Now(), "x"))
	require.NoError(t, err)

	require.NoError(t, db.ResetAll(ctx))
	assert.Equal(t, baseline, db.UsersData(ctx)+db.WorldsData(ctx)+db.SimulationsData(ctx))
	assert.Equal(t, 0, db.SessionsRegistered(ctx))
	_, ok := db.GetSession(ctx, "x")
	assert.False(t, ok)
	assert.Equal(t, 2.0, testutil.ToFloat64(rec.RecordsGauge.WithLabelValues(StoreUsers)))

	require.NoError(t, db.ResetUsers(ctx))
	require.NoError(t, db.ResetSessions(ctx))
	require.NoError(t, db.ResetSimulations(ctx))
	require.NoError(t, db.ResetWorlds(ctx))
}

func TestNew_SeedError(t *testing.T) {
	seeds := seed.Seeds{
		Users: func(context.Context) ([]repository.User, error) { return nil, errors.New("boom") },
	}
	_, err := New(context.Background(), seeds, Options{Logger: zap.NewNop()})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
}
