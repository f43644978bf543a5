package scraper

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"collectkit/lib/fault"
	"collectkit/lib/telemetry"

	"github.com/stretchr/testify/require"
)

func setup(t testing.TB) func() {
	return telemetry.SetupForTesting(t, "test:lib/scraper")
}

func TestFetchReturnsRawText(t *testing.T) {
	cleanup := setup(t)
	defer cleanup()

	page := "<html><body><h1>hello</h1></body></html>"
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/page", r.URL.Path)
		fmt.Fprint(w, page)
	}))
	defer server.Close()

	fetcher := NewFetcher("pages", Options{BaseUrl: server.URL})
	text, err := fetcher.Fetch(context.Background(), "page", nil)
	if err != nil {
		t.Fatal(err)
	}
	require.Equal(t, page, text)
}

func TestFetchStatusClassification(t *testing.T) {
	cleanup := setup(t)
	defer cleanup()

	var status int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		fmt.Fprint(w, "<html></html>")
	}))
	defer server.Close()

	fetcher := NewFetcher("status", Options{BaseUrl: server.URL})

	for _, status = range []int{200, 299, 399} {
		_, err := fetcher.Fetch(context.Background(), "page", nil)
		if err != nil {
			t.Fatal(status, err)
		}
	}

	for _, status = range []int{400, 403, 404, 500, 599} {
		_, err := fetcher.Fetch(context.Background(), "page", nil)
		var herr *fault.HTTPError
		require.ErrorAs(t, err, &herr)
		require.Equal(t, status, herr.StatusCode)
	}
}

func TestFetchLogsErrorLineOnFailure(t *testing.T) {
	cleanup := setup(t)
	defer cleanup()

	// the logger registry snapshots the default handler at first lookup,
	// so the capture has to be installed before NewFetcher runs
	prev := slog.Default()
	defer slog.SetDefault(prev)
	var buf bytes.Buffer
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, nil)))

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(404)
	}))
	defer server.Close()

	fetcher := NewFetcher("errlog-fetch", Options{BaseUrl: server.URL})
	_, err := fetcher.Fetch(context.Background(), "page", nil)

	var herr *fault.HTTPError
	require.ErrorAs(t, err, &herr)

	logged := buf.String()
	recordAt := strings.Index(logged, "fetch completed in")
	errorAt := strings.Index(logged, "level=ERROR")
	require.NotEqual(t, -1, recordAt)
	require.NotEqual(t, -1, errorAt)
	require.Less(t, recordAt, errorAt)
	require.Contains(t, logged, "with status code 404")
	require.Contains(t, logged, "http error occurred while fetching page")
	require.Equal(t, 1, strings.Count(logged, "level=ERROR"))
}

func TestFetchTransportError(t *testing.T) {
	cleanup := setup(t)
	defer cleanup()

	// nothing listens on port 1
	fetcher := NewFetcher("unreachable", Options{BaseUrl: "http://127.0.0.1:1"})
	_, err := fetcher.Fetch(context.Background(), "page", nil)

	var terr *fault.TransportError
	require.ErrorAs(t, err, &terr)
}

func TestFetchTimesOutAtTenSeconds(t *testing.T) {
	if testing.Short() {
		t.Skip("waits out the full fetch timeout")
	}
	cleanup := setup(t)
	defer cleanup()

	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer server.Close()
	defer close(release)

	fetcher := NewFetcher("stalled", Options{BaseUrl: server.URL})

	start := time.Now()
	_, err := fetcher.Fetch(context.Background(), "page", nil)
	elapsed := time.Since(start)

	var terr *fault.TransportError
	require.ErrorAs(t, err, &terr)
	require.Greater(t, elapsed, time.Second*9)
	require.Less(t, elapsed, time.Second*12)
}

func TestFetchSendsIdentityAndQuery(t *testing.T) {
	cleanup := setup(t)
	defer cleanup()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "spider/2.0", r.Header.Get("User-Agent"))
		require.Equal(t, "3", r.URL.Query().Get("page"))
		fmt.Fprint(w, "<html></html>")
	}))
	defer server.Close()

	fetcher := NewFetcher("identity", Options{
		BaseUrl:   server.URL,
		UserAgent: "spider/2.0",
	})

	query := url.Values{}
	query.Set("page", "3")
	_, err := fetcher.Fetch(context.Background(), "list", query)
	if err != nil {
		t.Fatal(err)
	}
}

func TestFetchDefaultUserAgent(t *testing.T) {
	cleanup := setup(t)
	defer cleanup()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, DefaultUserAgent, r.Header.Get("User-Agent"))
		fmt.Fprint(w, "<html></html>")
	}))
	defer server.Close()

	fetcher := NewFetcher("defaultagent", Options{BaseUrl: server.URL})
	_, err := fetcher.Fetch(context.Background(), "page", nil)
	if err != nil {
		t.Fatal(err)
	}
}
