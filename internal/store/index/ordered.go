// Package index contiene las piezas de posicionamiento del almacén en memoria:
// búsqueda binaria sobre una secuencia ordenada por identificador y la tabla de
// equivalencias (alias) que resuelve claves secundarias al identificador canónico.
package index

import "strings"

// Keyed es cualquier elemento ordenable por su identificador.
type Keyed interface {
	ID() string
}

// Locate busca key en seq (ordenada ascendente por ID, comparación byte a byte).
//
// Codificación del resultado:
//   - p > 0: coincidencia exacta en el offset p-1 (base 1).
//   - p <= 0: no existe; -p-1 es el offset de inserción que mantiene el orden.
//
// El mismo valor sirve para "¿existe?" y para "¿dónde inserto?".
func Locate[T Keyed](key string, seq []T) int {
	lo, hi := 0, len(seq)-1
	for lo <= hi {
		mid := int(uint(lo+hi) >> 1)
		switch c := strings.Compare(seq[mid].ID(), key); {
		case c < 0:
			lo = mid + 1
		case c > 0:
			hi = mid - 1
		default:
			return mid + 1
		}
	}
	return -(lo + 1)
}

// LocatePrefix devuelve el primer offset cuyo ID es >= prefix.
func LocatePrefix[T Keyed](prefix string, seq []T) int {
	p := Locate(prefix, seq)
	if Found(p) {
		return Offset(p)
	}
	return InsertionOffset(p)
}

// Found indica si la posición es una coincidencia exacta.
func Found(p int) bool { return p > 0 }

// Offset convierte una posición encontrada a offset en base 0.
func Offset(p int) int { return p - 1 }

// InsertionOffset convierte una posición no encontrada a offset de inserción.
func InsertionOffset(p int) int { return -p - 1 }

// InsertAt inserta v en el offset i desplazando el resto. Coste O(n).
func InsertAt[T any](seq []T, i int, v T) []T {
	var zero T
	seq = append(seq, zero)
	copy(seq[i+1:], seq[i:])
	seq[i] = v
	return seq
}

// RemoveAt elimina el elemento del offset i. Coste O(n).
func RemoveAt[T any](seq []T, i int) ([]T, T) {
	v := seq[i]
	copy(seq[i:], seq[i+1:])
	var zero T
	seq[len(seq)-1] = zero
	return seq[:len(seq)-1], v
}
