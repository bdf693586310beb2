// AngelaMos | 2026
// handler_test.go

package expense

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func windowRequest(t *testing.T, query string) *http.Request {
	t.Helper()
	return httptest.NewRequest(http.MethodGet, "/v1/groups/g/expenses"+query, nil)
}

func TestParseWindowDefaults(t *testing.T) {
	from, to, err := parseWindow(windowRequest(t, ""))
	require.NoError(t, err)

	now := time.Now()
	wantFrom := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, wantFrom, from)
	assert.Equal(t, wantFrom.AddDate(0, 1, 0), to)
}

func TestParseWindowExplicitBounds(t *testing.T) {
	from, to, err := parseWindow(windowRequest(t,
		"?from=2026-01-01T00:00:00Z&to=2026-03-01T00:00:00Z",
	))
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), from)
	assert.Equal(t, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), to)
}

func TestParseWindowRejections(t *testing.T) {
	cases := []struct {
		name  string
		query string
	}{
		{"malformed from", "?from=yesterday"},
		{"malformed to", "?to=2026-01-01"},
		{"inverted bounds", "?from=2026-03-01T00:00:00Z&to=2026-01-01T00:00:00Z"},
		{"equal bounds", "?from=2026-01-01T00:00:00Z&to=2026-01-01T00:00:00Z"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := parseWindow(windowRequest(t, tc.query))
			assert.Error(t, err)
		})
	}
}
