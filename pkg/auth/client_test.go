package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-playground/assert/v2"

	"github.com/forummlcb/topdup/internal/model"
)

func TestResolveUser(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer good-token" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		json.NewEncoder(w).Encode(map[string]interface{}{"userId": 42})
	}))
	defer srv.Close()

	client := NewClient(srv.URL)

	userID, err := client.ResolveUser(context.Background(), "good-token")
	assert.Equal(t, nil, err)
	assert.Equal(t, int64(42), userID)

	_, err = client.ResolveUser(context.Background(), "bad-token")
	assert.Equal(t, true, model.IsKind(err, model.KindUnauthenticated))
}

func TestResolveUser_MissingCredential(t *testing.T) {
	client := NewClient("http://auth.invalid")

	_, err := client.ResolveUser(context.Background(), "")
	assert.Equal(t, true, model.IsKind(err, model.KindUnauthenticated))
}
