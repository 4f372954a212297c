package repository

import (
	"fmt"
	"time"
)

// StampLayout es la marca de tiempo que forma parte de los IDs de sesión y simulación.
const StampLayout = "20060102150405"

// SessionState es el estado de una sesión de usuario.
type SessionState string

const (
	SessionActive SessionState = "ACTIVA"
	SessionClosed SessionState = "CERRADA"
)

// Session representa una sesión de usuario. ID = user.ID + ":" + marca de tiempo.
type Session struct {
	id        string
	User      User
	StartedAt time.Time
	State     SessionState
	// Token es un identificador opaco que resuelve a la sesión como alias.
	Token string
}

// NewSession abre una sesión activa.
func NewSession(u User, startedAt time.Time, token string) Session {
	return Session{
		id:        SessionID(u.ID(), startedAt),
		User:      u,
		StartedAt: startedAt,
		State:     SessionActive,
		Token:     token,
	}
}

// SessionID compone el identificador de una sesión.
func SessionID(userID string, at time.Time) string {
	return userID + ":" + at.Format(StampLayout)
}

func (s Session) ID() string { return s.id }

func (s Session) Aliases() []string {
	if s.Token == "" {
		return nil
	}
	return []string{s.Token}
}

func (s Session) WithID(id string) Session {
	s.id = id
	return s
}

func (s Session) Equal(o Session) bool {
	return s.id == o.id &&
		s.User.Equal(o.User) &&
		s.StartedAt.Equal(o.StartedAt) &&
		s.State == o.State &&
		s.Token == o.Token
}

func (s Session) Clone() Session { return s }

// Close devuelve la sesión en estado CERRADA.
func (s Session) Close() Session {
	s.State = SessionClosed
	return s
}

func (s Session) String() string {
	return fmt.Sprintf("%s | %s | %s | %s", s.id, s.User.ID(), s.State, s.StartedAt.Format(time.DateTime))
}
