package token

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oneiros-project/oneiros/internal/ids"
	"github.com/oneiros-project/oneiros/internal/model"
	"github.com/oneiros-project/oneiros/internal/wire"
)

func sampleClaims() model.TokenClaims {
	return model.TokenClaims{
		BrainID:  model.BrainID{ID: ids.NewID()},
		TenantID: model.TenantID{ID: ids.NewID()},
		ActorID:  model.ActorID{ID: ids.NewID()},
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	claims := sampleClaims()
	text := Encode(claims)

	decoded, err := Decode(text)
	require.NoError(t, err)
	assert.Equal(t, claims, decoded)
}

func TestDecodeLegacyV0(t *testing.T) {
	claims := sampleClaims()
	legacy := wire.NewEncoder().
		Uint8(versionLegacyV0).
		Fixed(claims.BrainID.Bytes()).
		Fixed(claims.TenantID.Bytes()).
		Fixed(claims.ActorID.Bytes()).
		Finish()
	legacyText := b64.EncodeToString(legacy)

	decoded, err := Decode(legacyText)
	require.NoError(t, err)
	assert.Equal(t, claims, decoded)
}

func TestReencodeLegacyEmitsCurrentVersion(t *testing.T) {
	claims := sampleClaims()
	legacy := wire.NewEncoder().
		Uint8(versionLegacyV0).
		Fixed(claims.BrainID.Bytes()).
		Fixed(claims.TenantID.Bytes()).
		Fixed(claims.ActorID.Bytes()).
		Finish()
	legacyText := b64.EncodeToString(legacy)

	decoded, err := Decode(legacyText)
	require.NoError(t, err)

	reencoded := Encode(decoded)
	raw, err := b64.DecodeString(reencoded)
	require.NoError(t, err)
	assert.Equal(t, uint8(versionCurrent), raw[0])
}

func TestDecodeUnsupportedVersion(t *testing.T) {
	raw := wire.NewEncoder().Uint8(99).Finish()
	_, err := Decode(b64.EncodeToString(raw))
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestDecodeMalformedBase64(t *testing.T) {
	_, err := Decode("not valid base64url!!!")
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestHashDistinguishesTokenText(t *testing.T) {
	claims := sampleClaims()
	current := Encode(claims)

	legacy := wire.NewEncoder().
		Uint8(versionLegacyV0).
		Fixed(claims.BrainID.Bytes()).
		Fixed(claims.TenantID.Bytes()).
		Fixed(claims.ActorID.Bytes()).
		Finish()
	legacyText := b64.EncodeToString(legacy)

	assert.NotEqual(t, Hash(current), Hash(legacyText), "distinct token texts must hash differently")
	assert.Equal(t, Hash(current), Hash(current))
}
