// Package permissions defines the closed catalog of grantable permission
// atoms and the named bundles assigned to accounts at creation time.
// Atoms are opaque strings; their meaning lives in the ability grant
// table. The catalog is pure data and never mutated at runtime.
package permissions

// Permission is a single grantable right. "Own" variants are distinct
// atoms from their unconditional counterparts.
type Permission string

// Account permissions.
const (
	ReadAccount              Permission = "ReadAccount"
	ReadOwnAccount           Permission = "ReadOwnAccount"
	UpdateAccount            Permission = "UpdateAccount"
	UpdateOwnAccount         Permission = "UpdateOwnAccount"
	DeleteAccount            Permission = "DeleteAccount"
	DeleteOwnAccount         Permission = "DeleteOwnAccount"
	ManageAccount            Permission = "ManageAccount"
	UpdateAccountPermissions Permission = "UpdateAccountPermissions"
)

// Auth token permissions.
const (
	ReadAuthToken      Permission = "ReadAuthToken"
	ReadOwnAuthToken   Permission = "ReadOwnAuthToken"
	CreateAuthToken    Permission = "CreateAuthToken"
	DeleteAuthToken    Permission = "DeleteAuthToken"
	DeleteOwnAuthToken Permission = "DeleteOwnAuthToken"
	ManageAuthToken    Permission = "ManageAuthToken"
	ManageOwnAuthToken Permission = "ManageOwnAuthToken"
)

// Organization permissions.
const (
	ReadOrganization      Permission = "ReadOrganization"
	CreateOrganization    Permission = "CreateOrganization"
	UpdateOwnOrganization Permission = "UpdateOwnOrganization"
	DeleteOwnOrganization Permission = "DeleteOwnOrganization"
	ManageOrganization    Permission = "ManageOrganization"
)

// Project permissions.
const (
	ReadProject      Permission = "ReadProject"
	CreateProject    Permission = "CreateProject"
	UpdateOwnProject Permission = "UpdateOwnProject"
	DeleteOwnProject Permission = "DeleteOwnProject"
	ManageProject    Permission = "ManageProject"
)

// Moulinette permissions.
const (
	ReadMoulinette      Permission = "ReadMoulinette"
	CreateMoulinette    Permission = "CreateMoulinette"
	UpdateOwnMoulinette Permission = "UpdateOwnMoulinette"
	DeleteOwnMoulinette Permission = "DeleteOwnMoulinette"
	ManageMoulinette    Permission = "ManageMoulinette"
)

// Moulinette source permissions.
const (
	ReadMoulinetteSource      Permission = "ReadMoulinetteSource"
	CreateMoulinetteSource    Permission = "CreateMoulinetteSource"
	DeleteOwnMoulinetteSource Permission = "DeleteOwnMoulinetteSource"
	ManageMoulinetteSource    Permission = "ManageMoulinetteSource"
)

// Run permissions.
const (
	CreateRun  Permission = "CreateRun"
	ReadRun    Permission = "ReadRun"
	ReadOwnRun Permission = "ReadOwnRun"
	DeleteRun  Permission = "DeleteRun"
	ManageRun  Permission = "ManageRun"
)

// catalog lists every atom the platform knows about. Adding a capability
// means adding the atom here and wiring it into the ability grant table.
var catalog = map[Permission]struct{}{
	ReadAccount: {}, ReadOwnAccount: {}, UpdateAccount: {}, UpdateOwnAccount: {},
	DeleteAccount: {}, DeleteOwnAccount: {}, ManageAccount: {}, UpdateAccountPermissions: {},
	ReadAuthToken: {}, ReadOwnAuthToken: {}, CreateAuthToken: {}, DeleteAuthToken: {},
	DeleteOwnAuthToken: {}, ManageAuthToken: {}, ManageOwnAuthToken: {},
	ReadOrganization: {}, CreateOrganization: {}, UpdateOwnOrganization: {},
	DeleteOwnOrganization: {}, ManageOrganization: {},
	ReadProject: {}, CreateProject: {}, UpdateOwnProject: {}, DeleteOwnProject: {}, ManageProject: {},
	ReadMoulinette: {}, CreateMoulinette: {}, UpdateOwnMoulinette: {}, DeleteOwnMoulinette: {}, ManageMoulinette: {},
	ReadMoulinetteSource: {}, CreateMoulinetteSource: {}, DeleteOwnMoulinetteSource: {}, ManageMoulinetteSource: {},
	CreateRun: {}, ReadRun: {}, ReadOwnRun: {}, DeleteRun: {}, ManageRun: {},
}

// IsKnown reports whether the atom is part of the catalog. The ability
// builder tolerates unknown atoms (they grant nothing); this check is for
// the administrative permission-update endpoint, which rejects them.
func IsKnown(p Permission) bool {
	_, ok := catalog[p]
	return ok
}

// All returns every atom in the catalog, for introspection endpoints.
func All() []Permission {
	out := make([]Permission, 0, len(catalog))
	for p := range catalog {
		out = append(out, p)
	}
	return out
}

// DefaultBundle is the permission set assigned to self-registered
// accounts: control over their own account and tokens, read access to
// the public catalog, and the ability to submit runs.
func DefaultBundle() []Permission {
	return []Permission{
		ReadOwnAccount,
		UpdateOwnAccount,
		DeleteOwnAccount,
		ReadOwnAuthToken,
		CreateAuthToken,
		DeleteOwnAuthToken,
		ReadOrganization,
		ReadProject,
		ReadMoulinette,
		ReadMoulinetteSource,
		CreateRun,
		ReadOwnRun,
	}
}

// AdminBundle is the elevated permission set: wholesale management of
// every resource type plus the right to rewrite account permission sets.
func AdminBundle() []Permission {
	return []Permission{
		ManageAccount,
		UpdateAccountPermissions,
		ManageAuthToken,
		ManageOrganization,
		ManageProject,
		ManageMoulinette,
		ManageMoulinetteSource,
		ManageRun,
	}
}

// Strings converts a bundle to the raw string form persisted on accounts.
func Strings(perms []Permission) []string {
	out := make([]string, len(perms))
	for i, p := range perms {
		out[i] = string(p)
	}
	return out
}
