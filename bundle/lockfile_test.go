package bundle_test

import (
	"testing"
	"time"

	"github.com/quillkit-dev/quillkit-host-sdk/bundle"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLockfile(t *testing.T) {
	t.Parallel()

	lock := bundle.NewLockfile()
	assert.Equal(t, 1, lock.Version)
	assert.False(t, lock.Generated.IsZero())
	assert.Empty(t, lock.Bundles)
}

func TestLockfile_AddBundle(t *testing.T) {
	t.Parallel()

	t.Run("valid bundle", func(t *testing.T) {
		lock := bundle.NewLockfile()
		entry := bundle.Lock{
			Requested: "^1.0",
			Resolved:  "1.0.2",
			Source:    "ghcr.io",
			Digest:    "sha256:123456",
			Fetched:   time.Now(),
		}

		err := lock.AddBundle("drawboard", entry)
		require.NoError(t, err)
		assert.Equal(t, 1, lock.BundleCount())

		retrieved := lock.GetBundle("drawboard")
		require.NotNil(t, retrieved)
		assert.Equal(t, "1.0.2", retrieved.Resolved)
	})

	t.Run("missing digest", func(t *testing.T) {
		lock := bundle.NewLockfile()
		entry := bundle.Lock{
			Requested: "^1.0",
			Resolved:  "1.0.2",
			// Digest missing
		}

		err := lock.AddBundle("drawboard", entry)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "digest is required")
		assert.Equal(t, 0, lock.BundleCount())
	})

	t.Run("get nonexistent bundle", func(t *testing.T) {
		lock := bundle.NewLockfile()
		assert.Nil(t, lock.GetBundle("missing"))
	})
}

func TestLockfile_Validate(t *testing.T) {
	t.Parallel()

	t.Run("valid, empty", func(t *testing.T) {
		lock := bundle.NewLockfile()
		assert.NoError(t, lock.Validate())
	})

	t.Run("valid, populated", func(t *testing.T) {
		lock := bundle.NewLockfile()
		_ = lock.AddBundle("b1", bundle.Lock{Digest: "hash"})
		assert.NoError(t, lock.Validate())
	})

	t.Run("missing timestamp with bundles", func(t *testing.T) {
		lock := bundle.NewLockfile()
		_ = lock.AddBundle("b1", bundle.Lock{Digest: "hash"})
		lock.Generated = time.Time{} // Clear timestamp
		assert.ErrorContains(t, lock.Validate(), "generated timestamp")
	})
}
