package jwt_test

import (
	"testing"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-stock/pkg/jwt"
)

var admin = jwt.Identity{UserID: "user-1", CompanyID: "company-1", Role: "admin"}

func TestGenerateParse_RoundTrip(t *testing.T) {
	token, err := jwt.Generate("secreto", admin, "inventario-stock", 5*time.Minute)
	require.NoError(t, err)

	id, err := jwt.Parse("secreto", "inventario-stock", token)
	require.NoError(t, err)
	assert.Equal(t, admin, id)
}

func TestParse_EmisorDistinto(t *testing.T) {
	token, err := jwt.Generate("secreto", admin, "otro-servicio", 5*time.Minute)
	require.NoError(t, err)

	_, err = jwt.Parse("secreto", "inventario-stock", token)
	assert.ErrorIs(t, err, gojwt.ErrTokenInvalidIssuer)

	_, err = jwt.Parse("secreto", "", token)
	assert.NoError(t, err, "sin emisor configurado no se verifica")
}

func TestParse_FirmaIncorrecta(t *testing.T) {
	token, err := jwt.Generate("secreto", admin, "", 5*time.Minute)
	require.NoError(t, err)

	_, err = jwt.Parse("otro-secreto", "", token)
	assert.ErrorIs(t, err, gojwt.ErrTokenSignatureInvalid)
}

func TestParse_Expirado(t *testing.T) {
	token, err := jwt.Generate("secreto", admin, "", -time.Minute)
	require.NoError(t, err)

	_, err = jwt.Parse("secreto", "", token)
	assert.ErrorIs(t, err, gojwt.ErrTokenExpired)
}

func TestParse_RechazaOtroAlgoritmo(t *testing.T) {
	token, err := gojwt.NewWithClaims(gojwt.SigningMethodHS512, gojwt.MapClaims{
		"company_id": "company-1",
		"exp":        time.Now().Add(time.Minute).Unix(),
	}).SignedString([]byte("secreto"))
	require.NoError(t, err)

	_, err = jwt.Parse("secreto", "", token)
	assert.Error(t, err)
}

func TestSecretVacio(t *testing.T) {
	_, err := jwt.Generate("", admin, "", time.Minute)
	assert.ErrorIs(t, err, jwt.ErrMissingSecret)
	_, err = jwt.Parse("", "", "x")
	assert.ErrorIs(t, err, jwt.ErrMissingSecret)
}
