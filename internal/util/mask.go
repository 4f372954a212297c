// Package util contiene utilidades pequeñas sin dependencias del modelo.
package util

import "strings"

// MaskKey oculta una clave de acceso para los logs. Los correos se enmascaran
// conservando la primera letra del usuario y del dominio; los NIF conservan la letra
// de control. Otras claves (IDs de usuario) no son datos personales y se devuelven tal cual.
func MaskKey(s string) string {
	s = strings.TrimSpace(s)
	switch {
	case strings.ContainsRune(s, '@'):
		return MaskEmail(s)
	case looksLikeNif(s):
		return "********" + s[len(s)-1:]
	}
	return s
}

func MaskEmail(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	i := strings.IndexByte(s, '@')
	if i <= 0 {
		if s == "" {
			return ""
		}
		r := []rune(s)
		if len(r) <= 3 {
			return "***"
		}
		return string(r[:1]) + "…" + string(r[len(r)-1:])
	}
	user, dom := []rune(s[:i]), s[i+1:]
	if len(user) > 1 {
		user = append(user[:1], '…')
	}
	dparts := strings.Split(dom, ".")
	if r := []rune(dparts[0]); len(r) > 1 {
		dparts[0] = string(r[:1]) + "…"
	}
	return string(user) + "@" + strings.Join(dparts, ".")
}

func looksLikeNif(s string) bool {
	if len(s) != 9 {
		return false
	}
	for i := 0; i < 8; i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
