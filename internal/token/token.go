// Package token implements the self-contained capability token: a
// versioned, binary-serialized encoding of TokenClaims that clients
// present as a bearer credential. A token never round-trips through the
// system database to discover its claims — decoding happens entirely
// client-token-side; only the separate ticket lookup (see
// internal/system) confirms the token is still authorized.
package token

import (
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/oneiros-project/oneiros/internal/ids"
	"github.com/oneiros-project/oneiros/internal/model"
	"github.com/oneiros-project/oneiros/internal/wire"
)

// ErrMalformed is returned when a token fails to decode: truncated
// input, an unsupported version byte, or trailing garbage.
var ErrMalformed = errors.New("token: malformed")

const (
	versionLegacyV0 = 0
	versionCurrent  = 1
)

var b64 = base64.URLEncoding.WithPadding(base64.NoPadding)

// Encode serializes claims under the current version and returns the
// base64url-no-pad token text. Re-encoding a decoded legacy token always
// emits the current version, per the stability rule: decode is forever,
// encode is always current.
func Encode(claims model.TokenClaims) string {
	raw := wire.NewEncoder().
		Uint8(versionCurrent).
		Fixed(claims.BrainID.Bytes()).
		Fixed(claims.TenantID.Bytes()).
		Fixed(claims.ActorID.Bytes()).
		Finish()
	return b64.EncodeToString(raw)
}

// Decode parses token text under either the current version or the
// legacy V0 shape (raw UUID triples with no other structure), returning
// the claims either way.
func Decode(text string) (model.TokenClaims, error) {
	raw, err := b64.DecodeString(text)
	if err != nil {
		return model.TokenClaims{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	dec := wire.NewDecoder(raw)
	version, err := dec.Uint8()
	if err != nil {
		return model.TokenClaims{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	switch version {
	case versionCurrent, versionLegacyV0:
		claims, err := decodeTriple(dec)
		if err != nil {
			return model.TokenClaims{}, err
		}
		if err := dec.ExpectDone(); err != nil {
			return model.TokenClaims{}, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		return claims, nil
	default:
		return model.TokenClaims{}, fmt.Errorf("%w: unsupported version %d", ErrMalformed, version)
	}
}

func decodeTriple(dec *wire.Decoder) (model.TokenClaims, error) {
	brainRaw, err := dec.Fixed(16)
	if err != nil {
		return model.TokenClaims{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	tenantRaw, err := dec.Fixed(16)
	if err != nil {
		return model.TokenClaims{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	actorRaw, err := dec.Fixed(16)
	if err != nil {
		return model.TokenClaims{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	var brainID, tenantID, actorID ids.ID
	copy(brainID[:], brainRaw)
	copy(tenantID[:], tenantRaw)
	copy(actorID[:], actorRaw)

	return model.TokenClaims{
		BrainID:  model.BrainID{ID: brainID},
		TenantID: model.TenantID{ID: tenantID},
		ActorID:  model.ActorID{ID: actorID},
	}, nil
}

// Hash returns the lookup key stored alongside an issued ticket: the
// hex-lowercase SHA-256 of the token's text bytes exactly as presented
// by the client. Distinct token texts (e.g. a re-encoded legacy token)
// therefore hash differently, which is correct — only the token text a
// ticket was actually issued for should validate against it.
func Hash(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}
