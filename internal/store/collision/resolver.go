// Package collision deriva variantes deterministas de un identificador cuando
// dos registros distintos calculan el mismo ID.
package collision

import (
	"fmt"
	"strings"

	"github.com/dropDatabas3/juegovida/internal/domain/repository"
)

// Alphabet son las letras de control candidatas (sin I, O ni Ñ).
const Alphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ"

// MaxAttempts es el número de variantes que se prueban por defecto.
const MaxAttempts = len(Alphabet)

// implicitSuffix es la letra que se asume cuando el ID no termina en una letra del alfabeto.
const implicitSuffix = 'A'

// Variant devuelve la variante número attempt (1..n) de id.
//
// Si id termina en una letra de Alphabet, esa letra se sustituye por la que está
// attempt posiciones después (cíclico). Si no, se asume sufijo 'A' y se añade la
// letra correspondiente: "A1" -> "A1B", "A1C", ...
func Variant(id string, attempt int) string {
	n := len(Alphabet)
	if id != "" {
		if i := strings.IndexByte(Alphabet, id[len(id)-1]); i >= 0 {
			return id[:len(id)-1] + string(Alphabet[(i+attempt)%n])
		}
	}
	base := strings.IndexRune(Alphabet, implicitSuffix)
	return id + string(Alphabet[(base+attempt)%n])
}

// Locator busca un ID en la secuencia del almacén. Devuelve la posición codificada
// (ver index.Locate) y, si existe, el registro almacenado.
type Locator[T any] func(id string) (pos int, stored T)

// Resolve prueba variantes de candidate hasta encontrar un hueco libre.
// Devuelve el candidato con el nuevo ID y la posición (no encontrada) reportada
// por locate, lista para la inserción ordenada.
//
// Un hueco ocupado por un registro igual al candidato con ese ID es un alta
// repetida y falla con ErrDuplicateID. Agotar los intentos falla con ErrExhaustedVariants.
func Resolve[T repository.Record[T]](candidate T, locate Locator[T], maxAttempts int) (T, int, error) {
	if maxAttempts <= 0 {
		maxAttempts = MaxAttempts
	}
	base := candidate.ID()
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		variant := candidate.WithID(Variant(base, attempt))
		pos, stored := locate(variant.ID())
		if pos <= 0 {
			return variant, pos, nil
		}
		if stored.Equal(variant) {
			var zero T
			return zero, pos, fmt.Errorf("%w: %s", repository.ErrDuplicateID, variant.ID())
		}
	}
	var zero T
	return zero, 0, fmt.Errorf("%w: %s after %d attempts", repository.ErrExhaustedVariants, base, maxAttempts)
}
