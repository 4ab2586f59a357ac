package reference

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCatalog(t *testing.T, ttl time.Duration) (*Catalog, *test.Hook) {
	t.Helper()
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	return NewCatalog(DefaultColumns, ttl, logger), hook
}

func TestCatalog_SourceFindsBundledRows(t *testing.T) {
	c, _ := newTestCatalog(t, time.Minute)
	src := c.Source(filepath.Join("testdata", "food.csv"))

	row, ok := src.Find("Banana")
	require.True(t, ok)
	v, _ := row.Get("Data.Kilocalories")
	assert.Equal(t, "105", v)

	// "apple" appears twice; the first row in file order wins.
	row, ok = src.Find("APPLE")
	require.True(t, ok)
	v, _ = row.Get("Data.Kilocalories")
	assert.Equal(t, "95", v)
}

func TestCatalog_MissingFileIsNotFound(t *testing.T) {
	c, hook := newTestCatalog(t, time.Minute)
	src := c.Source(filepath.Join(t.TempDir(), "nope.csv"))

	_, ok := src.Find("Apple")
	assert.False(t, ok)

	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, "Reference table unavailable", hook.LastEntry().Message)
}

func TestCatalog_CachesUntilInvalidated(t *testing.T) {
	path := filepath.Join(t.TempDir(), "food.csv")
	require.NoError(t, os.WriteFile(path, []byte("Description\nApple\n"), 0o600))

	c, _ := newTestCatalog(t, time.Hour)
	src := c.Source(path)
	_, ok := src.Find("Apple")
	require.True(t, ok)

	require.NoError(t, os.WriteFile(path, []byte("Description\nPear\n"), 0o600))
	_, ok = src.Find("Pear")
	assert.False(t, ok, "cached table should still be served")

	c.Invalidate(path)
	_, ok = src.Find("Pear")
	assert.True(t, ok)
}

func TestCatalog_ZeroTTLRereads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "food.csv")
	require.NoError(t, os.WriteFile(path, []byte("Description\nApple\n"), 0o600))

	c, _ := newTestCatalog(t, 0)
	src := c.Source(path)
	_, ok := src.Find("Apple")
	require.True(t, ok)

	require.NoError(t, os.WriteFile(path, []byte("Description\nPear\n"), 0o600))
	_, ok = src.Find("Pear")
	assert.True(t, ok)
}
