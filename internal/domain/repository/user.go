package repository

import (
	"fmt"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/dropDatabas3/juegovida/internal/domain/types"
)

// DateLayout es el formato de fecha de los volcados.
const DateLayout = "2006-01-02"

// Role es el rol de un usuario.
type Role string

const (
	RoleAdmin  Role = "ADMINISTRADOR"
	RoleNormal Role = "NORMAL"
	RoleGuest  Role = "INVITADO"
)

// ParseRole acepta el nombre del rol sin distinguir mayúsculas. Vacío = NORMAL.
func ParseRole(s string) (Role, error) {
	switch Role(strings.ToUpper(strings.TrimSpace(s))) {
	case "", RoleNormal:
		return RoleNormal, nil
	case RoleAdmin:
		return RoleAdmin, nil
	case RoleGuest:
		return RoleGuest, nil
	}
	return "", fmt.Errorf("%w: rol %q", ErrInvalidInput, s)
}

// User representa un usuario registrado.
type User struct {
	id           string
	Nif          types.Nif
	Name         string
	Surnames     string
	Address      types.PostalAddress
	Email        types.Email
	BirthDate    time.Time
	RegisteredAt time.Time
	Password     types.Password
	Role         Role
}

// NewUserInput contiene los datos para crear un usuario.
type NewUserInput struct {
	Nif          types.Nif
	Name         string
	Surnames     string
	Address      types.PostalAddress
	Email        types.Email
	BirthDate    time.Time
	RegisteredAt time.Time
	Password     types.Password
	Role         Role
}

// NewUser construye un usuario y calcula su ID.
func NewUser(in NewUserInput) (User, error) {
	name := strings.TrimSpace(in.Name)
	surnames := strings.Join(strings.Fields(in.Surnames), " ")
	if name == "" || surnames == "" {
		return User{}, fmt.Errorf("%w: nombre y apellidos son obligatorios", ErrInvalidInput)
	}
	if in.Role == "" {
		in.Role = RoleNormal
	}
	u := User{
		Nif:          in.Nif,
		Name:         name,
		Surnames:     surnames,
		Address:      in.Address,
		Email:        in.Email,
		BirthDate:    in.BirthDate,
		RegisteredAt: in.RegisteredAt,
		Password:     in.Password,
		Role:         in.Role,
	}
	u.id = UserID(name, surnames, in.Nif)
	return u, nil
}

// UserID calcula el identificador: inicial del nombre, iniciales de los dos
// primeros apellidos y los dos últimos caracteres del NIF, sin tildes y en mayúsculas.
//
//	UserID("Admin", "Admin Admin", nif("00000000T")) == "AAA0T"
func UserID(name, surnames string, nif types.Nif) string {
	words := strings.Fields(surnames)
	first, second := "", ""
	if len(words) > 0 {
		first = words[0]
		second = words[0]
	}
	if len(words) > 1 {
		second = words[1]
	}
	text := nif.Text()
	suffix := text
	if len(text) > 2 {
		suffix = text[len(text)-2:]
	}
	return initial(name) + initial(first) + initial(second) + suffix
}

func initial(s string) string {
	// Un Transformer encadenado tiene estado: uno por llamada.
	fold := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(fold, s)
	if err != nil {
		folded = s
	}
	for _, r := range folded {
		return string(unicode.ToUpper(r))
	}
	return ""
}

func (u User) ID() string { return u.id }

// Aliases: NIF y correo permiten iniciar sesión además del ID.
func (u User) Aliases() []string {
	return []string{u.Nif.Text(), u.Email.Text()}
}

func (u User) WithID(id string) User {
	u.id = id
	return u
}

// Equal compara todos los atributos salvo el hash de la clave, que lleva sal aleatoria.
func (u User) Equal(o User) bool {
	return u.id == o.id &&
		u.Nif == o.Nif &&
		u.Name == o.Name &&
		u.Surnames == o.Surnames &&
		u.Address == o.Address &&
		u.Email == o.Email &&
		u.BirthDate.Equal(o.BirthDate) &&
		u.RegisteredAt.Equal(o.RegisteredAt) &&
		u.Role == o.Role
}

func (u User) Clone() User { return u }

func (u User) String() string {
	return fmt.Sprintf("%s | %s | %s %s | %s | %s | %s | %s | %s",
		u.id, u.Nif, u.Name, u.Surnames, u.Email, u.Address,
		u.BirthDate.Format(DateLayout), u.RegisteredAt.Format(DateLayout), u.Role)
}
