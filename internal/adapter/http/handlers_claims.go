package adapthttp

import (
	"errors"
	"net/http"

	"claimportal/internal/app"
	"claimportal/internal/domain"
	"claimportal/internal/validate"

	"github.com/go-chi/chi/v5"
)

func (s *Server) handleSubmitClaim(w http.ResponseWriter, r *http.Request) {
	var req app.ClaimSubmission
	if err := parseJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	if !ownsUserID(r, req.UserID) {
		writeError(w, http.StatusForbidden, errForbidden)
		return
	}

	id, err := s.claims.Submit(r.Context(), req)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Claim submitted successfully!",
		"claimId": id,
	})
}

func (s *Server) handleListClaims(w http.ResponseWriter, r *http.Request) {
	raw := chi.URLParam(r, "userId")

	if !ownsUserID(r, raw) {
		writeError(w, http.StatusForbidden, errForbidden)
		return
	}

	claims, err := s.claims.ListByUser(r.Context(), raw)
	if errors.Is(err, domain.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, map[string]any{"message": err.Error()})
		return
	}
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, claims)
}

// ownsUserID reports whether the authenticated caller, if any, may act on
// the user id v. It parses v exactly as the claims service does, so ids the
// service would accept cannot slip past the comparison.
func ownsUserID(r *http.Request, v any) bool {
	uid, ok := userFromContext(r.Context())
	if !ok {
		return true
	}
	id, valid := validate.ID(v)
	return !valid || id == uid
}
