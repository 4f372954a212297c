package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/juegovida/internal/security/password"
	"github.com/dropDatabas3/juegovida/internal/validation"
)

func lenient() Rules {
	return Rules{Mode: validation.Lenient, Policy: password.DefaultPolicy, Hash: password.Fast}
}

func strict() Rules {
	r := lenient()
	r.Mode = validation.Strict
	return r
}

func TestNif(t *testing.T) {
	n, err := lenient().Nif(" 00000001r ")
	require.NoError(t, err)
	assert.Equal(t, "00000001R", n.Text())

	n, err = lenient().Nif("12")
	require.NoError(t, err)
	assert.Equal(t, DefaultNif, n.Text())

	_, err = strict().Nif("12")
	assert.ErrorIs(t, err, validation.ErrInvalidInput)
}

func TestEmail(t *testing.T) {
	e, err := lenient().Email("no-es-correo")
	require.NoError(t, err)
	assert.Equal(t, DefaultEmail, e.Text())

	_, err = strict().Email("no-es-correo")
	assert.ErrorIs(t, err, validation.ErrInvalidInput)

	e, err = strict().Email("jv.admin@gmail.com")
	require.NoError(t, err)
	assert.Equal(t, "jv.admin@gmail.com", e.String())
}

func TestPostalAddress_LenientSubstitutesPerField(t *testing.T) {
	a, err := lenient().PostalAddress("Mayor", "5B", "99999", "murcia")
	require.NoError(t, err)
	assert.Equal(t, PostalAddress{Street: "Mayor", Number: "5B", PostalCode: DefaultPostalCode, Town: DefaultTown}, a)
	assert.Equal(t, "Mayor, 5B, 01000, Población", a.String())
}

func TestPostalAddress_Strict(t *testing.T) {
	_, err := strict().PostalAddress("Mayor", "5B", "99999", "Murcia")
	require.ErrorIs(t, err, validation.ErrInvalidInput)
	assert.Contains(t, err.Error(), "cp")

	a, err := strict().PostalAddress("Mayor", "5B", "30001", "Murcia")
	require.NoError(t, err)
	assert.Equal(t, "Murcia", a.Town)
}

func TestDefaultPostalAddress(t *testing.T) {
	assert.Equal(t, "Calle, 00, 01000, Población", DefaultPostalAddress().String())
}

func TestPassword(t *testing.T) {
	p, err := lenient().Password("Miau#0")
	require.NoError(t, err)
	assert.True(t, p.Verify("Miau#0"))
	assert.Equal(t, "********", p.String())

	p, err = lenient().Password("debil")
	require.NoError(t, err)
	assert.True(t, p.Verify(DefaultPassword), "lenient substitutes the default password")
	assert.False(t, p.Verify("debil"))

	_, err = strict().Password("debil")
	assert.ErrorIs(t, err, validation.ErrInvalidInput)

	assert.False(t, Password{}.Verify(""))
}
