package password

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"
	"unicode"
)

// Policy son las reglas de fortaleza de una clave de acceso.
type Policy struct {
	MinLength     int
	RequireUpper  bool
	RequireLower  bool
	RequireDigit  bool
	RequireSymbol bool

	// Blacklist son claves prohibidas (comparación sin mayúsculas).
	Blacklist map[string]struct{}
}

// DefaultPolicy: al menos 6 caracteres con mayúscula, minúscula, dígito y símbolo.
var DefaultPolicy = Policy{MinLength: 6, RequireUpper: true, RequireLower: true, RequireDigit: true, RequireSymbol: true}

func (p Policy) Validate(s string) (ok bool, reasons []string) {
	if len([]rune(s)) < p.MinLength {
		reasons = append(reasons, "too_short")
	}
	var hasU, hasL, hasD, hasS bool
	for _, r := range s {
		switch {
		case unicode.IsUpper(r):
			hasU = true
		case unicode.IsLower(r):
			hasL = true
		case unicode.IsDigit(r):
			hasD = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			hasS = true
		}
	}
	if p.RequireUpper && !hasU {
		reasons = append(reasons, "missing_upper")
	}
	if p.RequireLower && !hasL {
		reasons = append(reasons, "missing_lower")
	}
	if p.RequireDigit && !hasD {
		reasons = append(reasons, "missing_digit")
	}
	if p.RequireSymbol && !hasS {
		reasons = append(reasons, "missing_symbol")
	}
	if _, banned := p.Blacklist[strings.ToLower(strings.TrimSpace(s))]; banned {
		reasons = append(reasons, "blacklisted")
	}
	return len(reasons) == 0, reasons
}

// LoadBlacklist lee una clave por línea; ignora vacías y comentarios (#).
// Ruta vacía devuelve una lista vacía.
func LoadBlacklist(path string) (map[string]struct{}, error) {
	out := map[string]struct{}{}
	if strings.TrimSpace(path) == "" {
		return out, nil
	}
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, err
	}
	defer f.Close()
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		s := strings.TrimSpace(strings.ToLower(sc.Text()))
		if s != "" && !strings.HasPrefix(s, "#") {
			out[s] = struct{}{}
		}
	}
	return out, sc.Err()
}
