package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/dropDatabas3/juegovida/internal/security/password"
	"github.com/dropDatabas3/juegovida/internal/validation"
)

type Config struct {
	App struct {
		// dev | prod | test
		Env string `yaml:"app_env"`
	} `yaml:"app"`

	Log struct {
		// debug | info | warn | error
		Level string `yaml:"level"`
		// dev | prod | nop. Vacío: se deriva de App.Env.
		Format string `yaml:"format"`
	} `yaml:"log"`

	Validation struct {
		// lenient | strict
		Mode string `yaml:"mode"`
	} `yaml:"validation"`

	Auth struct {
		MaxFailedAttempts int    `yaml:"max_failed_attempts"`
		LockWindow        string `yaml:"lock_window"`
	} `yaml:"auth"`

	Store struct {
		MaxVariants int `yaml:"max_variants"`
	} `yaml:"store"`

	Seed struct {
		// Fichero YAML con los predeterminados. Vacío: los embebidos.
		File string `yaml:"file"`
	} `yaml:"seed"`

	Security struct {
		PasswordBlacklistPath string `yaml:"password_blacklist_path"`
		Argon2                struct {
			MemoryKiB   uint32 `yaml:"memory_kib"`
			Time        uint32 `yaml:"time"`
			Parallelism uint8  `yaml:"parallelism"`
		} `yaml:"argon2"`
	} `yaml:"security"`
}

// Default devuelve la configuración sin fichero: defaults + variables de entorno.
func Default() *Config {
	var c Config
	c.setDefaults()
	c.applyEnvOverrides()
	return &c
}

// Load lee path, aplica defaults y variables de entorno y valida el resultado.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	c.setDefaults()
	c.applyEnvOverrides()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// sane defaults
func (c *Config) setDefaults() {
	if c.App.Env == "" {
		c.App.Env = "dev"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Validation.Mode == "" {
		c.Validation.Mode = "lenient"
	}
	if c.Auth.MaxFailedAttempts == 0 {
		c.Auth.MaxFailedAttempts = 3
	}
	if c.Auth.LockWindow == "" {
		c.Auth.LockWindow = "5m"
	}
	if c.Store.MaxVariants == 0 {
		c.Store.MaxVariants = 24
	}
	if c.Security.Argon2.MemoryKiB == 0 {
		c.Security.Argon2.MemoryKiB = 64 * 1024
	}
	if c.Security.Argon2.Time == 0 {
		c.Security.Argon2.Time = 3
	}
	if c.Security.Argon2.Parallelism == 0 {
		c.Security.Argon2.Parallelism = 1
	}
}

// ---- Helpers env ----

func getEnvStr(key string) (string, bool) {
	v := os.Getenv(key)
	return v, v != ""
}
func getEnvInt(key string) (int, bool) {
	if s, ok := getEnvStr(key); ok {
		if i, err := strconv.Atoi(strings.TrimSpace(s)); err == nil {
			return i, true
		}
	}
	return 0, false
}
func getEnvUint(key string, bits int) (uint64, bool) {
	if s, ok := getEnvStr(key); ok {
		if u, err := strconv.ParseUint(strings.TrimSpace(s), 10, bits); err == nil {
			return u, true
		}
	}
	return 0, false
}

// applyEnvOverrides: pisa config.yaml con variables de entorno.
func (c *Config) applyEnvOverrides() {
	if v, ok := getEnvStr("APP_ENV"); ok {
		c.App.Env = strings.ToLower(v)
	}

	if v, ok := getEnvStr("LOG_LEVEL"); ok {
		c.Log.Level = strings.ToLower(v)
	}
	if v, ok := getEnvStr("LOG_FORMAT"); ok {
		c.Log.Format = strings.ToLower(v)
	}

	if v, ok := getEnvStr("VALIDATION_MODE"); ok {
		c.Validation.Mode = strings.ToLower(v)
	}

	if v, ok := getEnvInt("AUTH_MAX_FAILED_ATTEMPTS"); ok {
		c.Auth.MaxFailedAttempts = v
	}
	if v, ok := getEnvStr("AUTH_LOCK_WINDOW"); ok {
		c.Auth.LockWindow = v
	}

	if v, ok := getEnvInt("STORE_MAX_VARIANTS"); ok {
		c.Store.MaxVariants = v
	}

	if v, ok := getEnvStr("SEED_FILE"); ok {
		c.Seed.File = v
	}

	if v, ok := getEnvStr("SECURITY_PASSWORD_BLACKLIST_PATH"); ok {
		c.Security.PasswordBlacklistPath = v
	}
	if v, ok := getEnvUint("SECURITY_ARGON2_MEMORY_KIB", 32); ok {
		c.Security.Argon2.MemoryKiB = uint32(v)
	}
	if v, ok := getEnvUint("SECURITY_ARGON2_TIME", 32); ok {
		c.Security.Argon2.Time = uint32(v)
	}
	if v, ok := getEnvUint("SECURITY_ARGON2_PARALLELISM", 8); ok {
		c.Security.Argon2.Parallelism = uint8(v)
	}
}

// Validate comprueba los valores críticos. Devuelve todos los problemas juntos.
func (c *Config) Validate() error {
	var errs []error
	if _, err := validation.ParseMode(c.Validation.Mode); err != nil {
		errs = append(errs, err)
	}
	if c.Auth.MaxFailedAttempts < 1 {
		errs = append(errs, fmt.Errorf("auth.max_failed_attempts must be >= 1, got %d", c.Auth.MaxFailedAttempts))
	}
	if d, err := time.ParseDuration(c.Auth.LockWindow); err != nil || d <= 0 {
		errs = append(errs, fmt.Errorf("auth.lock_window: invalid duration %q", c.Auth.LockWindow))
	}
	if c.Store.MaxVariants < 1 || c.Store.MaxVariants > 24 {
		errs = append(errs, fmt.Errorf("store.max_variants must be in [1,24], got %d", c.Store.MaxVariants))
	}
	return errors.Join(errs...)
}

// ValidationMode devuelve el modo ya parseado. Llamar tras Validate.
func (c *Config) ValidationMode() validation.Mode {
	m, _ := validation.ParseMode(c.Validation.Mode)
	return m
}

// LockWindow devuelve la ventana de bloqueo ya parseada. Llamar tras Validate.
func (c *Config) LockWindow() time.Duration {
	d, _ := time.ParseDuration(c.Auth.LockWindow)
	return d
}

// HashParams devuelve los parámetros argon2id configurados.
func (c *Config) HashParams() password.Params {
	return password.Params{
		Memory:      c.Security.Argon2.MemoryKiB,
		Time:        c.Security.Argon2.Time,
		Parallelism: c.Security.Argon2.Parallelism,
		KeyLen:      password.Default.KeyLen,
	}
}

// LogFormat devuelve el formato del logger: el explícito o el derivado del entorno.
func (c *Config) LogFormat() string {
	if c.Log.Format != "" {
		return c.Log.Format
	}
	switch c.App.Env {
	case "prod", "production":
		return "prod"
	case "test":
		return "nop"
	}
	return "dev"
}
