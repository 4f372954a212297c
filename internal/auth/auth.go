// Package auth abre y cierra sesiones de usuario.
//
// Un usuario se identifica por cualquiera de sus claves (ID, NIF o correo).
// Los fallos se cuentan por usuario en una ventana fija; al llegar a
// MaxFailedAttempts la clave queda bloqueada hasta que termina la ventana.
package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dropDatabas3/juegovida/internal/domain/repository"
	"github.com/dropDatabas3/juegovida/internal/observability/logger"
	"github.com/dropDatabas3/juegovida/internal/rate"
	"github.com/dropDatabas3/juegovida/internal/util"
)

// LoginRecorder recibe el resultado de cada intento. Ver metrics.Recorder.
type LoginRecorder interface {
	Login(result string)
}

type Options struct {
	// MaxFailedAttempts antes de bloquear. Default: 3.
	MaxFailedAttempts int
	// LockWindow es la ventana de conteo y bloqueo. Default: 5m.
	LockWindow time.Duration

	// Limiter opcional. Default: rate.NewMemoryLimiter con los valores anteriores.
	Limiter rate.Limiter
	// Recorder opcional.
	Recorder LoginRecorder
	// Now y NewToken permiten fijar reloj y tokens en tests.
	Now      func() time.Time
	NewToken func() string
	Logger   *zap.Logger
}

type Authenticator struct {
	users    repository.Repository[repository.User]
	sessions repository.Repository[repository.Session]

	limiter  rate.Limiter
	rec      LoginRecorder
	now      func() time.Time
	newToken func() string
	log      *zap.Logger
}

func New(users repository.Repository[repository.User], sessions repository.Repository[repository.Session], opts Options) *Authenticator {
	if opts.MaxFailedAttempts <= 0 {
		opts.MaxFailedAttempts = 3
	}
	if opts.LockWindow <= 0 {
		opts.LockWindow = 5 * time.Minute
	}
	if opts.Limiter == nil {
		opts.Limiter = rate.NewMemoryLimiter("login:", opts.MaxFailedAttempts, opts.LockWindow)
	}
	if opts.Recorder == nil {
		opts.Recorder = nopRecorder{}
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.NewToken == nil {
		opts.NewToken = uuid.NewString
	}
	if opts.Logger == nil {
		opts.Logger = logger.Named("auth")
	}
	return &Authenticator{
		users:    users,
		sessions: sessions,
		limiter:  opts.Limiter,
		rec:      opts.Recorder,
		now:      opts.Now,
		newToken: opts.NewToken,
		log:      opts.Logger,
	}
}

// Login valida la clave de acceso y registra una sesión activa.
//
// Errores: ErrUnauthorized si el usuario no existe o la clave no coincide;
// ErrTooManyAttempts si el usuario está bloqueado o este fallo agota los intentos.
func (a *Authenticator) Login(ctx context.Context, key, plain string) (repository.Session, error) {
	key = strings.TrimSpace(key)
	log := logger.FromWithFields(ctx, logger.Component("auth")).With(logger.Key(util.MaskKey(key)))

	u, found := a.users.Get(ctx, key)
	// Los intentos se cuentan por usuario, no por la clave usada.
	subject := key
	if found {
		subject = u.ID()
	}

	peek, err := a.limiter.Peek(ctx, subject)
	if err != nil {
		return repository.Session{}, fmt.Errorf("auth.login: %w", err)
	}
	if !peek.Allowed {
		a.rec.Login("locked")
		log.Warn("intento sobre clave bloqueada", logger.String("retry_after", peek.RetryAfter.String()))
		return repository.Session{}, fmt.Errorf("auth.login: %w: reintentar en %s", repository.ErrTooManyAttempts, peek.RetryAfter.Round(time.Second))
	}

	if !found || !u.Password.Verify(plain) {
		return repository.Session{}, a.fail(ctx, log, subject, found)
	}

	if err := a.limiter.Reset(ctx, subject); err != nil {
		log.Warn("no se pudo reiniciar el contador de intentos", logger.Err(err))
	}
	s, err := a.sessions.Insert(ctx, repository.NewSession(u, a.now(), a.newToken()))
	if err != nil {
		return repository.Session{}, fmt.Errorf("auth.login: %w", err)
	}
	a.rec.Login("ok")
	log.Info("sesión iniciada", logger.UserID(u.ID()), logger.SessionID(s.ID()))
	return s, nil
}

func (a *Authenticator) fail(ctx context.Context, log *zap.Logger, subject string, found bool) error {
	res, err := a.limiter.Allow(ctx, subject)
	if err != nil {
		return fmt.Errorf("auth.login: %w", err)
	}
	if found {
		a.rec.Login("unauthorized")
	} else {
		a.rec.Login("not_found")
	}
	attempt := int(res.CurrentHits)
	if !res.Allowed || res.Remaining == 0 {
		log.Warn("intentos agotados", logger.Attempt(attempt))
		return fmt.Errorf("auth.login: %w", repository.ErrTooManyAttempts)
	}
	log.Info("credenciales incorrectas", logger.Attempt(attempt), logger.Int("remaining", int(res.Remaining)))
	return fmt.Errorf("auth.login: %w: quedan %d intentos", repository.ErrUnauthorized, res.Remaining)
}

// Logout cierra la sesión asociada a token. Cerrar una sesión ya cerrada no es error.
func (a *Authenticator) Logout(ctx context.Context, token string) (repository.Session, error) {
	s, ok := a.sessions.Get(ctx, token)
	if !ok {
		return repository.Session{}, fmt.Errorf("auth.logout: %w: sesión", repository.ErrNotFound)
	}
	if s.State == repository.SessionClosed {
		return s, nil
	}
	closed := s.Close()
	if err := a.sessions.Update(ctx, closed); err != nil {
		return repository.Session{}, fmt.Errorf("auth.logout: %w", err)
	}
	logger.FromWithFields(ctx, logger.Component("auth")).Info("sesión cerrada", logger.SessionID(closed.ID()))
	return closed, nil
}

type nopRecorder struct{}

func (nopRecorder) Login(string) {}
