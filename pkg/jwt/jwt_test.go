package jwt_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgjwt "github.com/jhoicas/concesionario-api/pkg/jwt"
)

func TestGenerateParse(t *testing.T) {
	tok, err := pkgjwt.Generate("s3cret", "u-1", pkgjwt.RoleWarehouse, "concesionario-api", 5)
	require.NoError(t, err)

	claims, err := pkgjwt.Parse("s3cret", "concesionario-api", tok)
	require.NoError(t, err)
	assert.Equal(t, "u-1", claims.UserID)
	assert.Equal(t, pkgjwt.RoleWarehouse, claims.Role)
}

func TestParse_Rechazos(t *testing.T) {
	tok, err := pkgjwt.Generate("s3cret", "u-1", pkgjwt.RoleAdmin, "concesionario-api", 5)
	require.NoError(t, err)

	_, err = pkgjwt.Parse("otro", "", tok)
	assert.Error(t, err, "firma distinta")

	_, err = pkgjwt.Parse("s3cret", "otro-emisor", tok)
	assert.Error(t, err, "emisor distinto")

	expired, err := pkgjwt.Generate("s3cret", "u-1", pkgjwt.RoleAdmin, "", -1)
	require.NoError(t, err)
	_, err = pkgjwt.Parse("s3cret", "", expired)
	assert.Error(t, err, "expirado")

	_, err = pkgjwt.Parse("", "", tok)
	assert.Error(t, err)
}

func TestGenerate_Validaciones(t *testing.T) {
	_, err := pkgjwt.Generate("", "u-1", pkgjwt.RoleAdmin, "", 5)
	assert.Error(t, err)
	_, err = pkgjwt.Generate("s", "", pkgjwt.RoleAdmin, "", 5)
	assert.Error(t, err)
}
