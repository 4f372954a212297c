// Package types define los objetos valor del modelo: nif, correo, dirección
// postal y clave de acceso.
//
// Todos se construyen a través de Rules, que decide qué hacer con una entrada
// inválida según validation.Mode: sustituirla por el valor predeterminado
// (Lenient, comportamiento histórico) o devolver ErrInvalidInput (Strict).
package types

import (
	"fmt"
	"strings"

	"github.com/dropDatabas3/juegovida/internal/security/password"
	"github.com/dropDatabas3/juegovida/internal/validation"
)

// Valores predeterminados usados por Lenient.
const (
	DefaultNif        = "00000000T"
	DefaultEmail      = "correo@correo.es"
	DefaultStreet     = "Calle"
	DefaultNumber     = "00"
	DefaultPostalCode = "01000"
	DefaultTown       = "Población"
	DefaultPassword   = "Miau#0"
)

// Rules construye objetos valor.
type Rules struct {
	Mode   validation.Mode
	Policy password.Policy
	Hash   password.Params
}

// DefaultRules: modo Lenient, política por defecto y argon2id estándar.
func DefaultRules() Rules {
	return Rules{Mode: validation.Lenient, Policy: password.DefaultPolicy, Hash: password.Default}
}

// Nif es un número de identificación fiscal (8 dígitos + letra de control).
type Nif struct{ text string }

func (r Rules) Nif(s string) (Nif, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	v, err := r.Mode.Apply("nif", s, DefaultNif, validation.ValidNif(s))
	if err != nil {
		return Nif{}, err
	}
	return Nif{text: v}, nil
}

func (n Nif) Text() string   { return n.text }
func (n Nif) String() string { return n.text }

// Email es una dirección de correo.
type Email struct{ text string }

func (r Rules) Email(s string) (Email, error) {
	s = strings.TrimSpace(s)
	v, err := r.Mode.Apply("correo", s, DefaultEmail, validation.ValidEmail(s))
	if err != nil {
		return Email{}, err
	}
	return Email{text: v}, nil
}

func (e Email) Text() string   { return e.text }
func (e Email) String() string { return e.text }

// PostalAddress es una dirección postal. Cada campo se valida por separado.
type PostalAddress struct {
	Street     string
	Number     string
	PostalCode string
	Town       string
}

// DefaultPostalAddress devuelve "Calle, 00, 01000, Población".
func DefaultPostalAddress() PostalAddress {
	return PostalAddress{Street: DefaultStreet, Number: DefaultNumber, PostalCode: DefaultPostalCode, Town: DefaultTown}
}

func (r Rules) PostalAddress(street, number, postalCode, town string) (PostalAddress, error) {
	var (
		a   PostalAddress
		err error
	)
	if a.Street, err = r.Mode.Apply("calle", street, DefaultStreet, validation.ValidStreet(street)); err != nil {
		return PostalAddress{}, err
	}
	if a.Number, err = r.Mode.Apply("numero", number, DefaultNumber, validation.ValidNumber(number)); err != nil {
		return PostalAddress{}, err
	}
	if a.PostalCode, err = r.Mode.Apply("cp", postalCode, DefaultPostalCode, validation.ValidPostalCode(postalCode)); err != nil {
		return PostalAddress{}, err
	}
	if a.Town, err = r.Mode.Apply("poblacion", town, DefaultTown, validation.ValidTown(town)); err != nil {
		return PostalAddress{}, err
	}
	return a, nil
}

func (a PostalAddress) String() string {
	return a.Street + ", " + a.Number + ", " + a.PostalCode + ", " + a.Town
}

// Password guarda solo el hash argon2id de la clave.
type Password struct{ hash string }

// Password comprueba la fortaleza de plain y la hashea.
func (r Rules) Password(plain string) (Password, error) {
	ok, reasons := r.Policy.Validate(plain)
	if !ok {
		if r.Mode == validation.Strict {
			return Password{}, fmt.Errorf("%w: clave %s", validation.ErrInvalidInput, strings.Join(reasons, ","))
		}
		plain = DefaultPassword
	}
	h, err := password.Hash(r.Hash, plain)
	if err != nil {
		return Password{}, err
	}
	return Password{hash: h}, nil
}

// PasswordFromHash envuelve un hash ya calculado.
func PasswordFromHash(h string) Password { return Password{hash: h} }

func (p Password) Hash() string { return p.hash }

// Verify compara una clave en claro con el hash.
func (p Password) Verify(plain string) bool {
	if p.hash == "" {
		return false
	}
	return password.Verify(plain, p.hash)
}

// String nunca expone el hash.
func (p Password) String() string {
	if p.hash == "" {
		return ""
	}
	return "********"
}
