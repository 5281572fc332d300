package permissions

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBundlesContainOnlyKnownAtoms(t *testing.T) {
	for _, p := range DefaultBundle() {
		assert.True(t, IsKnown(p), "default bundle atom %s missing from catalog", p)
	}
	for _, p := range AdminBundle() {
		assert.True(t, IsKnown(p), "admin bundle atom %s missing from catalog", p)
	}
}

func TestIsKnownRejectsForeignAtoms(t *testing.T) {
	assert.False(t, IsKnown("DoEverything"))
	assert.False(t, IsKnown(""))
	assert.True(t, IsKnown(ReadOwnAuthToken))
}

func TestBundlesReturnFreshSlices(t *testing.T) {
	first := DefaultBundle()
	first[0] = "Mutated"
	assert.NotEqual(t, Permission("Mutated"), DefaultBundle()[0])
}

func TestAdminBundleCoversEveryResource(t *testing.T) {
	expected := []Permission{
		ManageAccount, ManageAuthToken, ManageOrganization,
		ManageProject, ManageMoulinette, ManageMoulinetteSource, ManageRun,
		UpdateAccountPermissions,
	}
	assert.ElementsMatch(t, expected, AdminBundle())
}

func TestStrings(t *testing.T) {
	got := Strings([]Permission{ReadOwnAccount, CreateRun})
	assert.Equal(t, []string{"ReadOwnAccount", "CreateRun"}, got)
}
