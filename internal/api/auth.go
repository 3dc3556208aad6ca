package api

import (
	"net/http"
	"strings"

	"github.com/oneiros-project/oneiros/internal/apperr"
	"github.com/oneiros-project/oneiros/internal/system"
	"github.com/oneiros-project/oneiros/internal/token"
)

// authenticate implements the authentication contract: extract claims
// from the bearer token, validate the ticket against the system
// database, resolve the brain path, and open a dedicated connection to
// that brain's database for the lifetime of the request.
func (s *Server) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			writeError(w, apperr.ErrNoAuthHeader)
			return
		}
		const prefix = "Bearer "
		if !strings.HasPrefix(header, prefix) {
			writeError(w, apperr.ErrInvalidAuthHeader)
			return
		}
		tokenText := strings.TrimPrefix(header, prefix)

		claims, err := token.Decode(tokenText)
		if err != nil {
			writeError(w, apperr.ErrMalformedToken)
			return
		}

		tokenHash := token.Hash(tokenText)
		var ticketValid bool
		var brainPath string
		err = s.withSystemWrite(func(sys *system.Store) error {
			ok, err := sys.ValidateTicket(tokenHash)
			if err != nil {
				return err
			}
			ticketValid = ok
			if !ok {
				return nil
			}
			ticket, err := sys.GetTicketByHash(tokenHash)
			if err != nil {
				return err
			}
			if ticket.TenantID != claims.TenantID || ticket.BrainID != claims.BrainID {
				ticketValid = false
				return nil
			}
			path, err := sys.GetBrainPath(claims.BrainID)
			if err != nil {
				if err == system.ErrNotFound {
					return apperr.NotFound("Brain", claims.BrainID.String())
				}
				return err
			}
			brainPath = path
			return nil
		})
		if err != nil {
			writeError(w, err)
			return
		}
		if !ticketValid {
			writeError(w, apperr.ErrInvalidOrExpiredTicket)
			return
		}

		brainStore, err := s.openBrain(brainPath)
		if err != nil {
			writeError(w, apperr.Internal(err))
			return
		}
		defer brainStore.Close()

		ac := &authContext{Store: brainStore, Claims: claims}
		next.ServeHTTP(w, r.WithContext(withAuth(r.Context(), ac)))
	})
}
