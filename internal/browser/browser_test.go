// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package browser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slusenc/convpix/pkg/types"
)

// fakeLister serves canned listings per subpath.
type fakeLister struct {
	listings map[string]types.Listing
}

func (f *fakeLister) ListDir(bases []string, subpath string) (types.Listing, error) {
	return f.listings[subpath], nil
}

func truckTree() *fakeLister {
	return &fakeLister{listings: map[string]types.Listing{
		"/": {
			Subpath: "/",
			Dirs:    []string{"vehicle"},
			Files:   []string{"manifest.sii"},
		},
		"/vehicle": {
			Subpath: "/vehicle",
			Dirs:    []string{"truck"},
		},
		"/vehicle/truck": {
			Subpath: "/vehicle/truck",
			Dirs:    []string{"anim"},
			Files:   []string{"cab.pmg", "chassis.pmg", "idle.pma", "readme.txt"},
		},
		"/vehicle/truck/anim": {
			Subpath: "/vehicle/truck/anim",
			Files:   []string{"drive.pma", "idle.pma"},
		},
	}}
}

func names(entries []types.Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Name
	}
	return out
}

func TestRefreshOrdersAndFilters(t *testing.T) {
	b := New(truckTree(), []string{"base.scs"}, "*", false)
	require.NoError(t, b.SetSubpath("/vehicle/truck"))

	assert.Equal(t,
		[]string{"..", "anim", "cab.pmg", "chassis.pmg", "idle.pma", "readme.txt"},
		names(b.Entries()))
}

func TestExtensionFilter(t *testing.T) {
	b := New(truckTree(), []string{"base.scs"}, ".pmg", false)
	require.NoError(t, b.SetSubpath("/vehicle/truck"))

	assert.Equal(t, []string{"..", "anim", "cab.pmg", "chassis.pmg"}, names(b.Entries()))
}

func TestEnterDescendsAndAscends(t *testing.T) {
	b := New(truckTree(), []string{"base.scs"}, "*", false)
	require.NoError(t, b.Refresh())

	require.NoError(t, b.Enter("vehicle"))
	assert.Equal(t, "/vehicle", b.Subpath())

	require.NoError(t, b.Enter("truck"))
	assert.Equal(t, "/vehicle/truck", b.Subpath())

	require.NoError(t, b.Enter(".."))
	assert.Equal(t, "/vehicle", b.Subpath())
}

func TestEnterParentAtRootStays(t *testing.T) {
	b := New(truckTree(), []string{"base.scs"}, "*", false)
	require.NoError(t, b.Refresh())

	require.NoError(t, b.Enter(".."))
	assert.Equal(t, "/", b.Subpath())
}

func TestEnterUnknownEntry(t *testing.T) {
	b := New(truckTree(), []string{"base.scs"}, "*", false)
	require.NoError(t, b.Refresh())

	err := b.Enter("nope")
	assert.Error(t, err)
}

func TestSingleSelectReplaces(t *testing.T) {
	b := New(truckTree(), []string{"base.scs"}, ".pmg", false)
	require.NoError(t, b.SetSubpath("/vehicle/truck"))

	require.NoError(t, b.Enter("cab.pmg"))
	require.NoError(t, b.Enter("chassis.pmg"))

	assert.Equal(t, []string{"/vehicle/truck/chassis.pmg"}, b.Selected())
}

func TestMultiSelectToggles(t *testing.T) {
	b := New(truckTree(), []string{"base.scs"}, ".pma", true)
	require.NoError(t, b.SetSubpath("/vehicle/truck"))

	require.NoError(t, b.Enter("idle.pma"))
	assert.True(t, b.IsSelected("idle.pma"))
	assert.Equal(t, []string{"/vehicle/truck/idle.pma"}, b.Selected())

	require.NoError(t, b.Enter("idle.pma"))
	assert.Empty(t, b.Selected())
}

func TestSelectionSurvivesNavigation(t *testing.T) {
	b := New(truckTree(), []string{"base.scs"}, "*", true)
	require.NoError(t, b.SetSubpath("/vehicle/truck"))
	require.NoError(t, b.Enter("idle.pma"))

	require.NoError(t, b.Enter(".."))
	require.NoError(t, b.Enter(".."))

	assert.Equal(t, []string{"/vehicle/truck/idle.pma"}, b.Selected())

	b.ClearSelection()
	assert.Empty(t, b.Selected())
}

func TestSetSubpathFallsBackToRoot(t *testing.T) {
	b := New(truckTree(), []string{"base.scs"}, "*", false)

	require.NoError(t, b.SetSubpath("/gone/away"))
	assert.Equal(t, "/", b.Subpath())
	assert.Equal(t, []string{"..", "vehicle", "manifest.sii"}, names(b.Entries()))
}

func TestSetSubpathKeepsDirWithOnlyFilteredFiles(t *testing.T) {
	// A directory holding nothing but animations still exists for a
	// model-only browser; restoring it must not fall back to the root.
	b := New(truckTree(), []string{"base.scs"}, ".pmg", false)

	require.NoError(t, b.SetSubpath("/vehicle/truck/anim"))
	assert.Equal(t, "/vehicle/truck/anim", b.Subpath())
	assert.Equal(t, []string{".."}, names(b.Entries()))
}
