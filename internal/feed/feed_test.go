package feed_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parkerlabs/radar/internal/feed"
)

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

var feedNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

const rssFixture = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
  <channel>
    <title>Search results</title>
    <item>
      <title>District Board Approves Bond</title>
      <link>https://www.anytown.k12.oh.us/news/bond-update</link>
      <pubDate>Mon, 09 Mar 2026 08:00:00 +0000</pubDate>
    </item>
    <item>
      <title>Undated announcement</title>
      <link>https://example.com/undated</link>
    </item>
  </channel>
</rss>`

func newClient() *feed.Client {
	return feed.New(feed.Config{UserAgent: "radar-bot/1.0", Timeout: 5 * time.Second}, fixedClock{feedNow})
}

func serve(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func TestFetchItems(t *testing.T) {
	var gotAgent string
	srv := serve(t, func(w http.ResponseWriter, r *http.Request) {
		gotAgent = r.UserAgent()
		w.Header().Set("Content-Type", "application/rss+xml")
		_, _ = w.Write([]byte(rssFixture))
	})

	result, err := newClient().FetchItems(context.Background(), srv.URL+"/rss")
	require.NoError(t, err)

	assert.Equal(t, "radar-bot/1.0", gotAgent)
	assert.Equal(t, []byte(rssFixture), result.Raw)
	require.Len(t, result.Items, 2)

	assert.Equal(t, "District Board Approves Bond", result.Items[0].Title)
	assert.Equal(t, "https://www.anytown.k12.oh.us/news/bond-update", result.Items[0].Link)
	assert.Equal(t, time.Date(2026, 3, 9, 8, 0, 0, 0, time.UTC), result.Items[0].Published)

	// Items without a parseable date default to the current time.
	assert.Equal(t, feedNow, result.Items[1].Published)
}

func TestFetchItemsHTTPError(t *testing.T) {
	srv := serve(t, func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	})

	_, err := newClient().FetchItems(context.Background(), srv.URL+"/rss")
	require.Error(t, err)
}

func TestFetchItemsBadDocument(t *testing.T) {
	srv := serve(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("<html>this is not a feed</html>"))
	})

	_, err := newClient().FetchItems(context.Background(), srv.URL+"/rss")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse feed")
}

func TestFetchItemsEmptyBody(t *testing.T) {
	srv := serve(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	_, err := newClient().FetchItems(context.Background(), srv.URL+"/rss")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty")
}

func TestFetchItemsUnreachable(t *testing.T) {
	srv := serve(t, func(http.ResponseWriter, *http.Request) {})
	url := srv.URL + "/rss"
	srv.Close()

	_, err := newClient().FetchItems(context.Background(), url)
	require.Error(t, err)
}
