package auth

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/dropDatabas3/juegovida/internal/domain/repository"
	"github.com/dropDatabas3/juegovida/internal/domain/types"
	"github.com/dropDatabas3/juegovida/internal/metrics"
	"github.com/dropDatabas3/juegovida/internal/rate"
	"github.com/dropDatabas3/juegovida/internal/security/password"
	"github.com/dropDatabas3/juegovida/internal/store/memory"
	"github.com/dropDatabas3/juegovida/internal/store/seed"
)

type fixture struct {
	auth     *Authenticator
	users    *memory.Store[repository.User]
	sessions *memory.Store[repository.Session]
	metrics  *metrics.Recorder
	now      time.Time
	tokens   int
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	rules := types.DefaultRules()
	rules.Hash = password.Fast

	d, err := seed.Load("")
	require.NoError(t, err)
	seeds := d.Seeders(rules)

	nop := zap.NewNop()
	users, err := memory.New(ctx, memory.Options{Name: "usuarios", Logger: nop}, seeds.Users)
	require.NoError(t, err)
	sessions, err := memory.New(ctx, memory.Options{Name: "sesiones", Logger: nop}, seeds.Sessions)
	require.NoError(t, err)

	f := &fixture{
		users:    users,
		sessions: sessions,
		metrics:  metrics.New(),
		now:      time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC),
	}
	limiter := rate.NewMemoryLimiter("login:", 3, time.Minute)
	limiter.Now = func() time.Time { return f.now }
	f.auth = New(users, sessions, Options{
		MaxFailedAttempts: 3,
		LockWindow:        time.Minute,
		Limiter:           limiter,
		Recorder:          f.metrics,
		Now:               func() time.Time { return f.now },
		NewToken: func() string {
			f.tokens++
			return fmt.Sprintf("tok-%d", f.tokens)
		},
		Logger: nop,
	})
	return f
}

func TestLogin_ByAnyKey(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	for i, key := range []string{"AAA0T", "00000000T", "jv.admin@gmail.com"} {
		f.now = f.now.Add(time.Second)
		s, err := f.auth.Login(ctx, key, "Miau#0")
		require.NoError(t, err, key)
		assert.Equal(t, "AAA0T", s.User.ID())
		assert.Equal(t, repository.SessionActive, s.State)
		assert.Equal(t, fmt.Sprintf("tok-%d", i+1), s.Token)
	}
	assert.Equal(t, 3, f.sessions.Len(ctx))
	assert.Equal(t, 3.0, testutil.ToFloat64(f.metrics.LoginsTotal.WithLabelValues("ok")))

	got, ok := f.sessions.Get(ctx, "tok-2")
	require.True(t, ok, "token resolves to the session")
	assert.Equal(t, "AAA0T:20240601120002", got.ID())
}

func TestLogin_SameSecondGetsVariant(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	a, err := f.auth.Login(ctx, "III1R", "Miau#0")
	require.NoError(t, err)
	b, err := f.auth.Login(ctx, "III1R", "Miau#0")
	require.NoError(t, err)
	assert.Equal(t, "III1R:20240601120000", a.ID())
	assert.Equal(t, "III1R:20240601120000B", b.ID())
}

func TestLogin_LockAfterMaxFailures(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.auth.Login(ctx, "AAA0T", "mal")
	assert.ErrorIs(t, err, repository.ErrUnauthorized)
	_, err = f.auth.Login(ctx, "00000000T", "mal")
	assert.ErrorIs(t, err, repository.ErrUnauthorized, "counted per user, whatever the key")
	_, err = f.auth.Login(ctx, "jv.admin@gmail.com", "mal")
	assert.ErrorIs(t, err, repository.ErrTooManyAttempts)

	// Bloqueado incluso con la clave correcta.
	_, err = f.auth.Login(ctx, "AAA0T", "Miau#0")
	assert.ErrorIs(t, err, repository.ErrTooManyAttempts)
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.LoginsTotal.WithLabelValues("locked")))
	assert.Equal(t, 3.0, testutil.ToFloat64(f.metrics.LoginsTotal.WithLabelValues("unauthorized")))

	// Otro usuario no está afectado.
	_, err = f.auth.Login(ctx, "III1R", "Miau#0")
	assert.NoError(t, err)

	// Al terminar la ventana se desbloquea.
	f.now = f.now.Add(time.Minute)
	_, err = f.auth.Login(ctx, "AAA0T", "Miau#0")
	assert.NoError(t, err)
}

func TestLogin_SuccessResetsCounter(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	for i := 0; i < 2; i++ {
		_, err := f.auth.Login(ctx, "III1R", "mal")
		require.ErrorIs(t, err, repository.ErrUnauthorized)
	}
	_, err := f.auth.Login(ctx, "III1R", "Miau#0")
	require.NoError(t, err)

	f.now = f.now.Add(time.Second)
	_, err = f.auth.Login(ctx, "III1R", "mal")
	assert.ErrorIs(t, err, repository.ErrUnauthorized)
}

func TestLogin_UnknownUser(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.auth.Login(ctx, "nadie@jv.es", "Miau#0")
	assert.ErrorIs(t, err, repository.ErrUnauthorized)
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.LoginsTotal.WithLabelValues("not_found")))
	assert.Equal(t, 0, f.sessions.Len(ctx))
}

func TestLogout(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	s, err := f.auth.Login(ctx, "AAA0T", "Miau#0")
	require.NoError(t, err)

	closed, err := f.auth.Logout(ctx, s.Token)
	require.NoError(t, err)
	assert.Equal(t, repository.SessionClosed, closed.State)

	stored, ok := f.sessions.Get(ctx, s.ID())
	require.True(t, ok)
	assert.Equal(t, repository.SessionClosed, stored.State)

	again, err := f.auth.Logout(ctx, s.Token)
	require.NoError(t, err)
	assert.Equal(t, repository.SessionClosed, again.State)

	_, err = f.auth.Logout(ctx, "no-existe")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}
