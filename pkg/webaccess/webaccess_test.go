package webaccess

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCheckAll_ReportsStatusCodes(t *testing.T) {
	okServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer okServer.Close()

	notFoundServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer notFoundServer.Close()

	results := CheckAll(context.Background(), []string{okServer.URL, notFoundServer.URL}, 2)

	assert.Len(t, results, 2)
	assert.True(t, results[0].Reachable)
	assert.Equal(t, http.StatusOK, results[0].StatusCode)
	assert.Equal(t, http.StatusNotFound, results[1].StatusCode)
}

func TestCheckAll_UnreachableURLReportsError(t *testing.T) {
	results := CheckAll(context.Background(), []string{"http://127.0.0.1:1"}, 1)
	assert.Len(t, results, 1)
	assert.False(t, results[0].Reachable)
	assert.NotEmpty(t, results[0].Error)
}
