package catalog

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseWriteRequest(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		want        Fields
		wantMissing []string
		wantErr     string
	}{
		{
			name: "all fields",
			body: `{"name":"Widget","description":"d","price":5,"quantity":7}`,
			want: Fields{Name: "Widget", Description: "d", Price: 5, Quantity: 7},
		},
		{
			name: "zero values count as present",
			body: `{"name":"","description":"","price":0,"quantity":0}`,
			want: Fields{},
		},
		{
			name: "unknown fields ignored",
			body: `{"id":99,"name":"n","description":"d","price":1,"quantity":2,"color":"red"}`,
			want: Fields{Name: "n", Description: "d", Price: 1, Quantity: 2},
		},
		{
			name:        "missing price",
			body:        `{"name":"Widget","description":"d","quantity":7}`,
			wantMissing: []string{"price"},
			wantErr:     "missing required fields: price",
		},
		{
			name:        "null counts as missing",
			body:        `{"name":null,"description":"d","price":1,"quantity":null}`,
			wantMissing: []string{"name", "quantity"},
			wantErr:     "missing required fields: name, quantity",
		},
		{
			name:        "empty object",
			body:        `{}`,
			wantMissing: []string{"name", "description", "price", "quantity"},
			wantErr:     "missing required fields: name, description, price, quantity",
		},
		{name: "empty body", body: ``, wantErr: "malformed request body"},
		{name: "not an object", body: `[1,2]`, wantErr: "malformed request body"},
		{name: "null body", body: `null`, wantErr: "malformed request body"},
		{name: "null body with whitespace", body: " null \n", wantErr: "malformed request body"},
		{name: "wrong type", body: `{"name":"n","description":"d","price":"5","quantity":7}`, wantErr: "malformed request body"},
		{name: "fractional integer", body: `{"name":"n","description":"d","price":1.5,"quantity":7}`, wantErr: "malformed request body"},
		{name: "trailing data", body: `{"name":"n","description":"d","price":1,"quantity":7} {}`, wantErr: "malformed request body"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodPost, "/products/", strings.NewReader(tt.body))
			w := httptest.NewRecorder()

			got, err := parseWriteRequest(w, r)
			if tt.wantErr == "" {
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
				return
			}

			var ve *ValidationError
			require.True(t, errors.As(err, &ve), "want *ValidationError, got %T", err)
			assert.Equal(t, tt.wantErr, ve.Error())
			assert.Equal(t, tt.wantMissing, ve.Missing)
		})
	}
}

func TestParseWriteRequest_BodyTooLarge(t *testing.T) {
	body := `{"name":"` + strings.Repeat("x", maxBodyBytes) + `","description":"d","price":1,"quantity":1}`
	r := httptest.NewRequest(http.MethodPost, "/products/", strings.NewReader(body))

	_, err := parseWriteRequest(httptest.NewRecorder(), r)

	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Empty(t, ve.Missing)
	var tooLarge *http.MaxBytesError
	assert.ErrorAs(t, err, &tooLarge)
}
