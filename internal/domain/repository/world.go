package repository

import (
	"bytes"
	"fmt"
	"slices"
	"strings"
)

// World es un mundo del juego de la vida: una rejilla cuadrada y sus reglas.
// ID = nombre.
type World struct {
	name    string
	Grid    [][]byte
	Born    []int
	Survive []int
}

// NewWorld crea un mundo vacío de size x size celdas.
func NewWorld(name string, size int, born, survive []int) (World, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return World{}, fmt.Errorf("%w: nombre de mundo vacío", ErrInvalidInput)
	}
	if size <= 0 {
		return World{}, fmt.Errorf("%w: dimensión %d", ErrInvalidInput, size)
	}
	grid := make([][]byte, size)
	for i := range grid {
		grid[i] = make([]byte, size)
	}
	return World{name: name, Grid: grid, Born: slices.Clone(born), Survive: slices.Clone(survive)}, nil
}

func (w World) Name() string { return w.name }

// Size es la dimensión de la rejilla.
func (w World) Size() int { return len(w.Grid) }

// Set marca viva la celda (row, col). Fuera de rango se ignora.
func (w World) Set(row, col int) {
	if row < 0 || row >= len(w.Grid) || col < 0 || col >= len(w.Grid[row]) {
		return
	}
	w.Grid[row][col] = 1
}

// Alive cuenta las celdas vivas.
func (w World) Alive() int {
	n := 0
	for _, row := range w.Grid {
		n += bytes.Count(row, []byte{1})
	}
	return n
}

func (w World) ID() string { return w.name }

func (w World) Aliases() []string { return nil }

func (w World) WithID(id string) World {
	c := w.Clone()
	c.name = id
	return c
}

func (w World) Equal(o World) bool {
	if w.name != o.name || len(w.Grid) != len(o.Grid) {
		return false
	}
	for i := range w.Grid {
		if !bytes.Equal(w.Grid[i], o.Grid[i]) {
			return false
		}
	}
	return slices.Equal(w.Born, o.Born) && slices.Equal(w.Survive, o.Survive)
}

func (w World) Clone() World {
	c := World{name: w.name, Born: slices.Clone(w.Born), Survive: slices.Clone(w.Survive)}
	if w.Grid != nil {
		c.Grid = make([][]byte, len(w.Grid))
		for i, row := range w.Grid {
			c.Grid[i] = bytes.Clone(row)
		}
	}
	return c
}

// Rule devuelve la regla en notación B/S, p.ej. "B3/S23".
func (w World) Rule() string {
	var b strings.Builder
	b.WriteString("B")
	for _, n := range w.Born {
		fmt.Fprintf(&b, "%d", n)
	}
	b.WriteString("/S")
	for _, n := range w.Survive {
		fmt.Fprintf(&b, "%d", n)
	}
	return b.String()
}

func (w World) String() string {
	return fmt.Sprintf("%s | %dx%d | %s | vivas=%d", w.name, w.Size(), w.Size(), w.Rule(), w.Alive())
}
