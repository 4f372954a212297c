package memory

import (
	"strings"

	"github.com/dropDatabas3/juegovida/internal/domain/repository"
	"github.com/dropDatabas3/juegovida/internal/store/index"
)

// table agrupa la secuencia ordenada y la tabla de equivalencias.
// Sus métodos son los únicos puntos de mutación: un alias solo se registra al
// insertar un registro y se retira al eliminarlo o reemplazarlo.
type table[T repository.Record[T]] struct {
	seq     []T
	aliases *index.Aliases
}

func newTable[T repository.Record[T]]() *table[T] {
	return &table[T]{aliases: index.NewAliases()}
}

func (t *table[T]) len() int { return len(t.seq) }

func (t *table[T]) locate(id string) int {
	return index.Locate(id, t.seq)
}

// locateStored adapta locate a collision.Locator.
func (t *table[T]) locateStored(id string) (int, T) {
	pos := index.Locate(id, t.seq)
	if index.Found(pos) {
		return pos, t.seq[index.Offset(pos)]
	}
	var zero T
	return pos, zero
}

// at devuelve el registro de una posición encontrada (base 1).
func (t *table[T]) at(pos int) T {
	return t.seq[index.Offset(pos)]
}

// get busca key como ID y, si no existe, la resuelve por la tabla de equivalencias.
// El ID propio de un registro siempre lo encuentra aunque otro registro tenga
// ese mismo valor como alias.
func (t *table[T]) get(key string) (T, bool) {
	if pos := t.locate(key); index.Found(pos) {
		return t.at(pos), true
	}
	id, ok := t.aliases.Resolve(key)
	if !ok {
		var zero T
		return zero, false
	}
	pos := t.locate(id)
	if !index.Found(pos) {
		var zero T
		return zero, false
	}
	return t.at(pos), true
}

// insert coloca rec en la posición no encontrada pos y registra sus alias.
func (t *table[T]) insert(pos int, rec T) {
	t.seq = index.InsertAt(t.seq, index.InsertionOffset(pos), rec)
	t.aliases.Register(rec.ID(), rec.Aliases()...)
}

// remove quita el registro de la posición encontrada pos junto con sus alias.
func (t *table[T]) remove(pos int) T {
	var removed T
	t.seq, removed = index.RemoveAt(t.seq, index.Offset(pos))
	t.aliases.UnregisterOwned(removed.ID(), removed.Aliases()...)
	return removed
}

// replace sustituye el registro de la posición encontrada pos. El ID se conserva.
func (t *table[T]) replace(pos int, rec T) {
	i := index.Offset(pos)
	old := t.seq[i]
	t.seq[i] = rec
	t.aliases.Replace(rec.ID(), old.Aliases(), rec.Aliases())
}

// scan devuelve la subsecuencia de IDs con el prefijo dado.
func (t *table[T]) scan(prefix string) []T {
	start := index.LocatePrefix(prefix, t.seq)
	end := start
	for end < len(t.seq) && strings.HasPrefix(t.seq[end].ID(), prefix) {
		end++
	}
	return t.seq[start:end]
}

func (t *table[T]) reset() {
	clear(t.seq)
	t.seq = t.seq[:0]
	t.aliases.Reset()
}
