package content

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRemoteConverter(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var in convertPayload
		_ = json.NewDecoder(r.Body).Decode(&in)
		if in.Body == "reject" {
			w.WriteHeader(http.StatusUnprocessableEntity)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(convertPayload{Body: r.URL.Path + ":" + in.Body})
	}))
	defer srv.Close()

	conv := NewRemoteConverter(srv.URL, time.Second)
	ctx := context.Background()

	got, err := conv.ToMarkupLite(ctx, "<p>x</p>")
	require.NoError(t, err)
	assert.Equal(t, "/to-lite:<p>x</p>", got)

	got, err = conv.ToRich(ctx, "x")
	require.NoError(t, err)
	assert.Equal(t, "/to-rich:x", got)

	_, err = conv.ToRich(ctx, "reject")
	assert.ErrorIs(t, err, ErrMalformed)
}
