package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"conceptlab/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequireAnalyst(t *testing.T) {
	auth := service.NewAuthService("analyst", "secret", "signing-key")
	login, err := auth.Login("analyst", "secret")
	require.NoError(t, err)
	runToken, err := auth.GenerateRunToken("run-1", login.AnalystID)
	require.NoError(t, err)

	var seen string
	h := NewAuthMiddleware(auth).RequireAnalyst(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetAnalystID(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	tests := []struct {
		name    string
		header  string
		want    int
		wantErr string
	}{
		{"valid", "Bearer " + login.Token, http.StatusNoContent, ""},
		{"lowercase scheme", "bearer " + login.Token, http.StatusNoContent, ""},
		{"missing", "", http.StatusUnauthorized, "missing authorization header"},
		{"wrong scheme", "Basic " + login.Token, http.StatusUnauthorized, "missing authorization header"},
		{"run token", "Bearer " + runToken, http.StatusUnauthorized, "invalid or expired token"},
		{"garbage", "Bearer abc", http.StatusUnauthorized, "invalid or expired token"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seen = ""
			req := httptest.NewRequest(http.MethodGet, "/v1/concepts", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(t, tt.want, rec.Code)
			if tt.wantErr == "" {
				assert.Equal(t, login.AnalystID, seen)
				return
			}
			assert.Empty(t, seen)
			assert.JSONEq(t, `{"error":"`+tt.wantErr+`"}`, rec.Body.String())
		})
	}
}
