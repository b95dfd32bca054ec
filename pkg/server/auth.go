package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/wattbill/wattbill/pkg/log"
	"github.com/wattbill/wattbill/pkg/types"
)

type contextKey string

const (
	siteIDContextKey  contextKey = "siteID"
	subjectContextKey contextKey = "subject"
)

// authMiddleware extracts the siteID from the request and, when an OIDC
// audience is configured, requires a valid bearer token on every API call.
func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		ctx = log.With(ctx, log.Ctx(ctx).With(slog.String("reqPath", r.URL.Path)))

		// extract SiteID
		var siteID string
		if r.Method == http.MethodGet {
			siteID = r.URL.Query().Get("siteID")
		} else {
			// read body to find SiteID
			var bodyBytes []byte
			if r.Body != nil {
				// Limit body size to prevent DoS. Meter exports are large, so
				// allow up to 16MB.
				r.Body = http.MaxBytesReader(w, r.Body, 16<<20)
				var err error
				bodyBytes, err = io.ReadAll(r.Body)
				if err != nil {
					log.Ctx(ctx).ErrorContext(ctx, "failed to read request body", slog.Any("error", err))
					// since we failed to read, don't return JSON error
					http.Error(w, "invalid request", http.StatusBadRequest)
					return
				}
				// restore body for the next handler
				r.Body = io.NopCloser(bytes.NewBuffer(bodyBytes))
			}

			// try to unmarshal just the SiteID
			if len(bodyBytes) > 0 {
				var justSiteID struct {
					SiteID string `json:"siteID"`
				}
				if err := json.Unmarshal(bodyBytes, &justSiteID); err != nil {
					log.Ctx(ctx).ErrorContext(ctx, "failed to unmarshal request body", slog.Any("error", err))
					http.Error(w, "invalid request", http.StatusBadRequest)
					return
				}
				siteID = justSiteID.SiteID
			}
		}

		if s.verifier != nil {
			authHeader := r.Header.Get("Authorization")
			if !strings.HasPrefix(authHeader, "Bearer ") {
				writeJSONError(w, "missing bearer token", http.StatusUnauthorized)
				return
			}
			token, err := s.verifier(ctx, strings.TrimPrefix(authHeader, "Bearer "))
			if err != nil {
				log.Ctx(ctx).WarnContext(ctx, "token validation failed", slog.Any("error", err))
				writeJSONError(w, "invalid token", http.StatusUnauthorized)
				return
			}
			ctx = context.WithValue(ctx, subjectContextKey, token.Subject)
			ctx = log.With(ctx, log.Ctx(ctx).With(slog.String("subject", token.Subject)))
		}

		if siteID == "" {
			if !s.singleSite {
				writeJSONError(w, "missing siteID", http.StatusBadRequest)
				return
			}
			siteID = types.SiteIDNone
		}
		ctx = context.WithValue(ctx, siteIDContextKey, siteID)
		ctx = log.With(ctx, log.Ctx(ctx).With(slog.String("siteID", siteID)))

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *Server) getSiteID(r *http.Request) string {
	if siteID, ok := r.Context().Value(siteIDContextKey).(string); ok {
		return siteID
	}
	// we want to have a stack trace when this happens
	panic("no siteID in context")
}
