package repository

import "context"

// Record es el contrato que cumple toda entidad almacenable.
// El almacén solo mira el ID para ordenar y Equal para distinguir colisiones de duplicados.
type Record[T any] interface {
	// ID es el identificador canónico, único dentro de su almacén.
	ID() string

	// Aliases son claves secundarias que también resuelven al registro (nif, correo...).
	Aliases() []string

	// WithID devuelve una copia con otro identificador. Lo usa la resolución de colisiones.
	WithID(id string) T

	// Equal compara por valor, identificador incluido.
	Equal(other T) bool

	// Clone devuelve una copia profunda; el almacén nunca entrega sus referencias internas.
	Clone() T

	// String es la línea de volcado para ListData.
	String() string
}

// Repository define las operaciones que cada DAO expone hacia la fachada.
type Repository[T Record[T]] interface {
	// Get resuelve key (ID o alias) y devuelve el registro. ok=false si no existe.
	Get(ctx context.Context, key string) (T, bool)

	// GetRecord busca usando el ID del propio registro.
	GetRecord(ctx context.Context, rec T) (T, bool)

	// Insert da de alta el registro. Si el ID colisiona con otro registro distinto
	// se almacena una variante; el valor devuelto es el registro tal como quedó.
	// Retorna ErrDuplicateID o ErrExhaustedVariants.
	Insert(ctx context.Context, rec T) (T, error)

	// Delete da de baja por ID y devuelve el registro eliminado.
	// Retorna ErrNotFound si no existe.
	Delete(ctx context.Context, id string) (T, error)

	// Update reemplaza el registro con el mismo ID.
	// Retorna ErrNotFound si no existe.
	Update(ctx context.Context, rec T) error

	// ListData vuelca todos los registros en orden, uno por línea.
	ListData(ctx context.Context) string

	// ListIDs vuelca solo los identificadores.
	ListIDs(ctx context.Context) string

	// All devuelve copias de todos los registros en orden.
	All(ctx context.Context) []T

	// Scan devuelve copias de los registros cuyo ID empieza por prefix.
	Scan(ctx context.Context, prefix string) []T

	// Len devuelve el número de registros.
	Len(ctx context.Context) int

	// Reset elimina todo y vuelve a cargar los predeterminados.
	Reset(ctx context.Context) error
}
