package radar_test

import (
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parkerlabs/radar/internal/radar"
)

type stubBias struct{ clause string }

func (s stubBias) SiteBiasClause(string) string { return s.clause }

func TestBuildQueries(t *testing.T) {
	target := radar.WatchTarget{
		Organization: "Anytown City Schools",
		Region:       "Ohio",
		FitRating:    80,
	}
	queries := radar.BuildQueries(target, stubBias{clause: "site:.k12.oh.us OR site:.gov"})
	require.Len(t, queries, 2)

	byEngine := map[string]string{}
	for _, q := range queries {
		byEngine[q.Engine] = q.URL
	}
	require.Contains(t, byEngine, radar.EngineGoogleNews)
	require.Contains(t, byEngine, radar.EngineBingNews)

	t.Run("GoogleNews", func(t *testing.T) {
		u, err := url.Parse(byEngine[radar.EngineGoogleNews])
		require.NoError(t, err)
		assert.Equal(t, "news.google.com", u.Host)
		assert.Equal(t, "/rss/search", u.Path)

		params := u.Query()
		assert.Equal(t, "en-US", params.Get("hl"))
		assert.Equal(t, "US", params.Get("gl"))
		assert.Equal(t, "US:en", params.Get("ceid"))

		q := params.Get("q")
		assert.True(t, strings.HasPrefix(q, `"Anytown City Schools"`))
		assert.Contains(t, q, "robotics OR STEM")
		assert.Contains(t, q, `("Ohio" OR "Anytown City Schools")`)
		assert.Contains(t, q, "(site:.k12.oh.us OR site:.gov)")
	})

	t.Run("BingNews", func(t *testing.T) {
		u, err := url.Parse(byEngine[radar.EngineBingNews])
		require.NoError(t, err)
		assert.Equal(t, "www.bing.com", u.Host)
		assert.Equal(t, "rss", u.Query().Get("format"))
		assert.Contains(t, u.Query().Get("q"), `"Anytown City Schools"`)
	})

	t.Run("SameQueryBothEngines", func(t *testing.T) {
		gu, err := url.Parse(byEngine[radar.EngineGoogleNews])
		require.NoError(t, err)
		bu, err := url.Parse(byEngine[radar.EngineBingNews])
		require.NoError(t, err)
		assert.Equal(t, gu.Query().Get("q"), bu.Query().Get("q"))
	})
}
