// Package validation contiene las reglas de formato de los objetos valor
// (nif, correo, dirección postal) y el modo de tratamiento de entradas inválidas.
package validation

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// ErrInvalidInput indica que un valor no cumple su formato.
var ErrInvalidInput = errors.New("invalid input")

// Mode decide qué hacer con una entrada inválida.
type Mode int

const (
	// Lenient sustituye silenciosamente el valor inválido por el predeterminado.
	Lenient Mode = iota
	// Strict devuelve un error ErrInvalidInput.
	Strict
)

func (m Mode) String() string {
	switch m {
	case Strict:
		return "strict"
	default:
		return "lenient"
	}
}

// ParseMode convierte "lenient" | "strict" (sin distinguir mayúsculas). Vacío = Lenient.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "lenient":
		return Lenient, nil
	case "strict":
		return Strict, nil
	default:
		return Lenient, fmt.Errorf("%w: validation mode %q", ErrInvalidInput, s)
	}
}

// nifLetters es la tabla de letras de control del NIF (posición = número % 23).
const nifLetters = "TRWAGMYFPDXBNJZSQVHLCKE"

var (
	nifRe    = regexp.MustCompile(`^\d{8}[` + nifLetters + `]$`)
	emailRe  = regexp.MustCompile(`^[\w+-]+(\.\w+)*@[\w-]+(\.\w+)*(\.[a-z]{2,})$`)
	streetRe = regexp.MustCompile(`^[A-ZÑÁÉÍÓÚa-zñáéíóú/\d ]+$`)
	numberRe = regexp.MustCompile(`^\d+[A-Z]?$`)
	// Código postal entre 01000 y 52999.
	postalCodeRe = regexp.MustCompile(`^([1-9]{2}|[0-9][1-9]|[1-9][0-9])[0-9]{3}$`)
	townRe       = regexp.MustCompile(`^[A-ZÑÁÉÍÓÚ][áéíóúña-z \w]+$`)
)

// ValidNif comprueba formato y letra de control.
func ValidNif(s string) bool {
	if !nifRe.MatchString(s) {
		return false
	}
	n, err := strconv.Atoi(s[:8])
	if err != nil {
		return false
	}
	return s[8] == nifLetters[n%23]
}

// ValidEmail comprueba el formato de un correo.
func ValidEmail(s string) bool { return emailRe.MatchString(s) }

// ValidStreet comprueba el nombre de una calle.
func ValidStreet(s string) bool { return streetRe.MatchString(s) }

// ValidNumber comprueba un número de portal (dígitos y letra opcional).
func ValidNumber(s string) bool { return numberRe.MatchString(s) }

// ValidPostalCode comprueba un código postal español.
func ValidPostalCode(s string) bool {
	if !postalCodeRe.MatchString(s) {
		return false
	}
	n, _ := strconv.Atoi(s)
	return n >= 1000 && n <= 52999
}

// ValidTown comprueba el nombre de una población.
func ValidTown(s string) bool { return townRe.MatchString(s) }

// Apply resuelve un campo según el modo: si valid es true devuelve v; si no,
// en Lenient devuelve def y en Strict un error con el nombre del campo.
func (m Mode) Apply(field, v, def string, valid bool) (string, error) {
	if valid {
		return v, nil
	}
	if m == Strict {
		return "", fmt.Errorf("%w: %s %q", ErrInvalidInput, field, v)
	}
	return def, nil
}
