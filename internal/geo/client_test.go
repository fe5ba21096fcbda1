package geo

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_Resolve(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/search", r.URL.Path)

		switch r.URL.Query().Get("q") {
		case "Abay Ave 10":
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`[{"lat":"43.2400","lon":"76.9500"}]`))
		case "nowhere":
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`[]`))
		default:
			w.WriteHeader(http.StatusInternalServerError)
		}
	}))
	defer srv.Close()

	client := NewClient(srv.URL)

	point, err := client.Resolve(context.Background(), "Abay Ave 10")
	require.NoError(t, err)
	assert.InDelta(t, 43.24, point.Latitude, 0.0001)
	assert.InDelta(t, 76.95, point.Longitude, 0.0001)

	_, err = client.Resolve(context.Background(), "nowhere")
	assert.ErrorIs(t, err, ErrAddressNotFound)

	_, err = client.Resolve(context.Background(), "boom")
	assert.Error(t, err)
}
