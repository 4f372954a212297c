package repository

import (
	"errors"
	"fmt"

	"github.com/dropDatabas3/juegovida/internal/validation"
)

var (
	// ErrNotFound indica que el registro solicitado no existe.
	ErrNotFound = errors.New("not found")

	// ErrConflict indica un conflicto de identificador.
	ErrConflict = errors.New("conflict")

	// ErrDuplicateID indica el alta de un registro ya presente e igual al almacenado.
	ErrDuplicateID = fmt.Errorf("%w: duplicate identifier", ErrConflict)

	// ErrExhaustedVariants indica que no quedan variantes libres del identificador.
	ErrExhaustedVariants = fmt.Errorf("%w: identifier variants exhausted", ErrConflict)

	// ErrInvalidInput indica que los datos de entrada son inválidos.
	// Es el mismo valor que devuelven los objetos valor en modo Strict.
	ErrInvalidInput = validation.ErrInvalidInput

	// ErrUnauthorized indica credenciales incorrectas.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrTooManyAttempts indica que la clave quedó bloqueada por intentos fallidos.
	ErrTooManyAttempts = errors.New("too many failed attempts")
)

// IsNotFound verifica si el error es ErrNotFound.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsConflict verifica si el error es un conflicto (duplicado o variantes agotadas).
func IsConflict(err error) bool {
	return errors.Is(err, ErrConflict)
}

// IsDuplicateID verifica si el error es ErrDuplicateID.
func IsDuplicateID(err error) bool {
	return errors.Is(err, ErrDuplicateID)
}

// IsExhaustedVariants verifica si el error es ErrExhaustedVariants.
func IsExhaustedVariants(err error) bool {
	return errors.Is(err, ErrExhaustedVariants)
}

// IsInvalidInput verifica si el error es ErrInvalidInput.
func IsInvalidInput(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}
