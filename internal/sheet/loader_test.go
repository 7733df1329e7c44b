package sheet

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salespulse/internal/shared/testutil"
)

var _ TableLoader = (*Loader)(nil)

func TestLoaderParsesSnapshot(t *testing.T) {
	body := "Timestamp,BDE NAME,CLOSED AMOUNT\n" +
		"2024-03-01,Asha,1200\n" +
		"2024-03-02,Ravi\n"
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(body))
	}))
	defer server.Close()

	logger, _ := testutil.NewTestLogger(t)
	table := NewLoader(server.URL, server.Client(), logger).Load(context.Background())

	assert.Equal(t, []string{"Timestamp", "BDE NAME", "CLOSED AMOUNT"}, table.Columns)
	require.Len(t, table.Records, 2)
	assert.Equal(t, "1200", table.Records[0].Cell("CLOSED AMOUNT"))

	// The second row is short; its trailing cell is absent, not empty.
	_, ok := table.Records[1].Cells["CLOSED AMOUNT"]
	assert.False(t, ok)
}

func TestLoaderEmptyBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer server.Close()

	logger, _ := testutil.NewTestLogger(t)
	table := NewLoader(server.URL, server.Client(), logger).Load(context.Background())

	assert.True(t, table.Empty())
}

func TestLoaderHTTPErrorServesEmptySnapshot(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	logger, handler := testutil.NewTestLogger(t)
	table := NewLoader(server.URL, server.Client(), logger).Load(context.Background())

	assert.True(t, table.Empty())
	testutil.AssertLogContains(t, handler, slog.LevelWarn, "sheet fetch failed")
}

func TestLoaderNetworkErrorServesEmptySnapshot(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	logger, handler := testutil.NewTestLogger(t)
	table := NewLoader(url, nil, logger).Load(context.Background())

	assert.True(t, table.Empty())
	testutil.AssertLogContains(t, handler, slog.LevelWarn, "sheet fetch failed")
}

func TestLoaderMalformedCSVServesEmptySnapshot(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("a,b\n\"unterminated\n"))
	}))
	defer server.Close()

	logger, handler := testutil.NewTestLogger(t)
	table := NewLoader(server.URL, server.Client(), logger).Load(context.Background())

	assert.True(t, table.Empty())
	testutil.AssertLogContains(t, handler, slog.LevelWarn, "sheet fetch failed")
}
