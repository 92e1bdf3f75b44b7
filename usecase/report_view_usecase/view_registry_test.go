package report_view_usecase

import (
	"fmt"
	"testing"
	"time"

	"report-assembler/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRegistry(loader ReportLoader, maxViews int) *ViewRegistry {
	r := NewViewRegistry(loader, RegistryConfig{ResizeThrottle: time.Millisecond, MaxViews: maxViews}, discardLogger())
	n := 0
	r.newID = func() string {
		n++
		return fmt.Sprintf("view-%d", n)
	}
	return r
}

func TestViewRegistry_MountGetUnmount(t *testing.T) {
	r := newTestRegistry(readyLoader(), 0)
	defer r.Close()

	v, err := r.Mount("r1")
	require.NoError(t, err)
	assert.Equal(t, "view-1", v.ID())
	assert.Equal(t, "r1", v.ReportID())
	waitLoaded(t, v)

	got, err := r.Get("view-1")
	require.NoError(t, err)
	assert.Same(t, v, got)
	assert.Equal(t, 1, r.Len())

	require.NoError(t, r.Unmount("view-1"))
	assert.Equal(t, 0, r.Len())

	_, err = r.Get("view-1")
	assert.ErrorIs(t, err, domain.ErrViewNotFound)
	assert.ErrorIs(t, r.Unmount("view-1"), domain.ErrViewNotFound)
	assert.ErrorIs(t, v.Reload(), domain.ErrViewClosed)
}

func TestViewRegistry_MaxViews(t *testing.T) {
	r := newTestRegistry(readyLoader(), 2)
	defer r.Close()

	_, err := r.Mount("r1")
	require.NoError(t, err)
	_, err = r.Mount("r2")
	require.NoError(t, err)

	_, err = r.Mount("r3")
	assert.ErrorIs(t, err, domain.ErrTooManyViews)

	require.NoError(t, r.Unmount("view-1"))
	_, err = r.Mount("r3")
	assert.NoError(t, err)
}

func TestViewRegistry_CloseUnmountsEverything(t *testing.T) {
	loader := readyLoader()
	loader.release = make(chan struct{})
	r := newTestRegistry(loader, 0)

	v1, err := r.Mount("r1")
	require.NoError(t, err)
	v2, err := r.Mount("r2")
	require.NoError(t, err)

	r.Close()

	assert.Equal(t, 0, r.Len())
	assert.ErrorIs(t, v1.Reload(), domain.ErrViewClosed)
	assert.ErrorIs(t, v2.Reload(), domain.ErrViewClosed)
	require.Eventually(t, func() bool { return loader.aborted.Load() == 2 }, time.Second, 5*time.Millisecond)

	_, err = r.Mount("r3")
	assert.ErrorIs(t, err, domain.ErrViewClosed)
}
