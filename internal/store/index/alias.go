package index

// Aliases mapea claves secundarias (nif, correo, token...) al identificador canónico.
// No es seguro para uso concurrente; el dueño serializa el acceso.
type Aliases struct {
	byKey map[string]string
}

// NewAliases crea una tabla de equivalencias vacía.
func NewAliases() *Aliases {
	return &Aliases{byKey: make(map[string]string)}
}

// Register añade una entrada por clave apuntando a id.
// Si la clave ya existía se sobrescribe (gana la última escritura).
func (a *Aliases) Register(id string, keys ...string) {
	for _, k := range keys {
		if k == "" {
			continue
		}
		a.byKey[k] = id
	}
}

// Resolve devuelve el identificador asociado a key.
func (a *Aliases) Resolve(key string) (string, bool) {
	id, ok := a.byKey[key]
	return id, ok
}

// Unregister elimina las claves dadas. Claves ausentes se ignoran.
func (a *Aliases) Unregister(keys ...string) {
	for _, k := range keys {
		delete(a.byKey, k)
	}
}

// UnregisterOwned elimina solo las claves que todavía apuntan a id, de modo que
// un alias reasignado a otro registro (última escritura) no se pierde.
func (a *Aliases) UnregisterOwned(id string, keys ...string) {
	for _, k := range keys {
		if cur, ok := a.byKey[k]; ok && cur == id {
			delete(a.byKey, k)
		}
	}
}

// Replace cambia las claves de id en un solo paso: quita oldKeys y registra newKeys.
func (a *Aliases) Replace(id string, oldKeys, newKeys []string) {
	a.UnregisterOwned(id, oldKeys...)
	a.Register(id, newKeys...)
}

// Len devuelve el número de entradas.
func (a *Aliases) Len() int { return len(a.byKey) }

// Reset vacía la tabla.
func (a *Aliases) Reset() {
	clear(a.byKey)
}
