package ability

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-mouli/pkg/permissions"
)

// testToken is a minimal auth token instance for evaluation tests.
type testToken struct {
	ownerID string
}

func (t testToken) AbilityResource() Resource { return ResourceAuthToken }

func (t testToken) AbilityField(path string) (string, bool) {
	if path == FieldAccountID && t.ownerID != "" {
		return t.ownerID, true
	}
	return "", false
}

// testOrg is an organization instance with an owner reference.
type testOrg struct {
	ownerID string
}

func (o testOrg) AbilityResource() Resource { return ResourceOrganization }

func (o testOrg) AbilityField(path string) (string, bool) {
	if path == FieldOwnerID && o.ownerID != "" {
		return o.ownerID, true
	}
	return "", false
}

func TestEmptyPermissionSetDeniesEverything(t *testing.T) {
	ab := ForAccount(Snapshot{ID: "u1"})

	actions := []Action{ActionCreate, ActionRead, ActionUpdate, ActionDelete, ActionManage}
	resources := []Resource{
		ResourceAccount, ResourceAuthToken, ResourceOrganization,
		ResourceProject, ResourceMoulinette, ResourceMoulinetteSource, ResourceRun,
	}
	for _, action := range actions {
		for _, resource := range resources {
			assert.False(t, ab.Can(action, resource), "%s on %s should be denied", action, resource)
		}
	}
}

func TestUnconditionalGrantIgnoresOwnership(t *testing.T) {
	ab := ForAccount(Snapshot{
		ID:          "u1",
		Permissions: []string{string(permissions.ReadAuthToken)},
	})

	assert.True(t, ab.Can(ActionRead, testToken{ownerID: "u1"}))
	assert.True(t, ab.Can(ActionRead, testToken{ownerID: "u2"}))
	assert.True(t, ab.Can(ActionRead, ResourceAuthToken))
}

func TestOwnGrantMatchesOnlyOwnedInstances(t *testing.T) {
	ab := ForAccount(Snapshot{
		ID:          "u1",
		Permissions: []string{string(permissions.ReadOwnAuthToken)},
	})

	assert.True(t, ab.Can(ActionRead, testToken{ownerID: "u1"}))
	assert.False(t, ab.Can(ActionRead, testToken{ownerID: "u2"}))
}

func TestOwnGrantNeverSatisfiesBareTypeCheck(t *testing.T) {
	ab := ForAccount(Snapshot{
		ID:          "u1",
		Permissions: []string{string(permissions.DeleteOwnAuthToken)},
	})

	// A conditional grant has no instance to resolve against.
	assert.False(t, ab.Can(ActionDelete, ResourceAuthToken))
	assert.True(t, ab.Can(ActionDelete, testToken{ownerID: "u1"}))
}

func TestOwnTokenGrants(t *testing.T) {
	ab := ForAccount(Snapshot{
		ID: "u1",
		Permissions: []string{
			string(permissions.ReadOwnAuthToken),
			string(permissions.DeleteOwnAuthToken),
		},
	})

	assert.True(t, ab.Can(ActionRead, testToken{ownerID: "u1"}))
	assert.False(t, ab.Can(ActionRead, testToken{ownerID: "u2"}))
	assert.True(t, ab.Can(ActionDelete, testToken{ownerID: "u1"}))
	assert.False(t, ab.Can(ActionCreate, ResourceAuthToken))
}

func TestManageImpliesAllCrudActions(t *testing.T) {
	ab := ForAccount(Snapshot{
		ID:          "admin",
		Permissions: permissions.Strings(permissions.AdminBundle()),
	})

	assert.True(t, ab.Can(ActionDelete, ResourceMoulinette))
	assert.True(t, ab.Can(ActionCreate, ResourceMoulinette))
	assert.True(t, ab.Can(ActionUpdate, testOrg{ownerID: "somebody-else"}))
	assert.True(t, ab.Can(ActionRead, ResourceRun))
}

func TestManageRequestOnlyMatchesManageGrants(t *testing.T) {
	ab := ForAccount(Snapshot{
		ID:          "u1",
		Permissions: []string{string(permissions.ReadAuthToken)},
	})

	// A plain read grant must not answer a manage query.
	assert.False(t, ab.Can(ActionManage, ResourceAuthToken))
}

func TestUnknownAtomIsIgnored(t *testing.T) {
	with := ForAccount(Snapshot{
		ID:          "u1",
		Permissions: []string{string(permissions.ReadOwnAuthToken), "LaunchMissiles"},
	})
	without := ForAccount(Snapshot{
		ID:          "u1",
		Permissions: []string{string(permissions.ReadOwnAuthToken)},
	})

	require.Len(t, with.Grants(), 1)
	assert.Equal(t, without.Grants(), with.Grants())
	assert.True(t, with.Can(ActionRead, testToken{ownerID: "u1"}))
	assert.False(t, with.Can(ActionRead, testToken{ownerID: "u2"}))
}

func TestMissingFieldIsNonMatch(t *testing.T) {
	ab := ForAccount(Snapshot{
		ID:          "u1",
		Permissions: []string{string(permissions.ReadOwnAuthToken)},
	})

	// Token with no populated owner reference cannot satisfy an
	// own-scoped grant.
	assert.False(t, ab.Can(ActionRead, testToken{}))
}

func TestBuilderIsIdempotent(t *testing.T) {
	snapshot := Snapshot{
		ID:          "u1",
		Permissions: permissions.Strings(permissions.DefaultBundle()),
	}

	first := ForAccount(snapshot)
	second := ForAccount(snapshot)
	require.Equal(t, first.Grants(), second.Grants())

	subjects := []Subject{
		ResourceAccount, ResourceAuthToken, ResourceRun,
		testToken{ownerID: "u1"}, testToken{ownerID: "u2"}, testOrg{ownerID: "u1"},
	}
	actions := []Action{ActionCreate, ActionRead, ActionUpdate, ActionDelete, ActionManage}
	for _, subject := range subjects {
		for _, action := range actions {
			assert.Equal(t, first.Can(action, subject), second.Can(action, subject))
		}
	}
}

func TestDefaultBundleShape(t *testing.T) {
	ab := ForAccount(Snapshot{
		ID:          "u1",
		Permissions: permissions.Strings(permissions.DefaultBundle()),
	})

	// Runs can be created, the public catalog read, other accounts not.
	assert.True(t, ab.Can(ActionCreate, ResourceRun))
	assert.True(t, ab.Can(ActionRead, ResourceProject))
	assert.True(t, ab.Can(ActionRead, ResourceMoulinette))
	assert.False(t, ab.Can(ActionRead, ResourceAccount))
	assert.False(t, ab.Can(ActionUpdate, ResourceAccountPermissions))
}

func TestNilSubjectDenied(t *testing.T) {
	ab := ForAccount(Snapshot{
		ID:          "u1",
		Permissions: permissions.Strings(permissions.AdminBundle()),
	})
	assert.False(t, ab.Can(ActionRead, nil))
}

func TestEveryCatalogAtomHasAGrant(t *testing.T) {
	for _, atom := range permissions.All() {
		ab := ForAccount(Snapshot{ID: "u1", Permissions: []string{string(atom)}})
		assert.Len(t, ab.Grants(), 1, "atom %s has no grant mapping", atom)
	}
}
