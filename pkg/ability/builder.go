package ability

import "go-mouli/pkg/permissions"

// Field paths bound by own-scoped grants. Models resolve these in their
// AbilityField implementations.
const (
	FieldID                 = "id"
	FieldAccountID          = "account.id"
	FieldOwnerID            = "owner.id"
	FieldMaintainerID       = "maintainer.id"
	FieldSourceMaintainerID = "moulinette.maintainer.id"
)

// Snapshot is the account state the builder consumes: the id and the
// persisted permission atoms, as loaded by the accounts collaborator.
type Snapshot struct {
	ID          string
	Permissions []string
}

// grantTable maps each catalog atom to its grant template. Exactly one
// (action, resource) pair per atom; own-scoped atoms carry the field
// path resolved against the checked instance at query time.
var grantTable = map[permissions.Permission]Grant{
	permissions.ReadAccount:              {Action: ActionRead, Resource: ResourceAccount},
	permissions.ReadOwnAccount:           {Action: ActionRead, Resource: ResourceAccount, OwnField: FieldID},
	permissions.UpdateAccount:            {Action: ActionUpdate, Resource: ResourceAccount},
	permissions.UpdateOwnAccount:         {Action: ActionUpdate, Resource: ResourceAccount, OwnField: FieldID},
	permissions.DeleteAccount:            {Action: ActionDelete, Resource: ResourceAccount},
	permissions.DeleteOwnAccount:         {Action: ActionDelete, Resource: ResourceAccount, OwnField: FieldID},
	permissions.ManageAccount:            {Action: ActionManage, Resource: ResourceAccount},
	permissions.UpdateAccountPermissions: {Action: ActionUpdate, Resource: ResourceAccountPermissions},

	permissions.ReadAuthToken:      {Action: ActionRead, Resource: ResourceAuthToken},
	permissions.ReadOwnAuthToken:   {Action: ActionRead, Resource: ResourceAuthToken, OwnField: FieldAccountID},
	permissions.CreateAuthToken:    {Action: ActionCreate, Resource: ResourceAuthToken},
	permissions.DeleteAuthToken:    {Action: ActionDelete, Resource: ResourceAuthToken},
	permissions.DeleteOwnAuthToken: {Action: ActionDelete, Resource: ResourceAuthToken, OwnField: FieldAccountID},
	permissions.ManageAuthToken:    {Action: ActionManage, Resource: ResourceAuthToken},
	permissions.ManageOwnAuthToken: {Action: ActionManage, Resource: ResourceAuthToken, OwnField: FieldAccountID},

	permissions.ReadOrganization:      {Action: ActionRead, Resource: ResourceOrganization},
	permissions.CreateOrganization:    {Action: ActionCreate, Resource: ResourceOrganization},
	permissions.UpdateOwnOrganization: {Action: ActionUpdate, Resource: ResourceOrganization, OwnField: FieldOwnerID},
	permissions.DeleteOwnOrganization: {Action: ActionDelete, Resource: ResourceOrganization, OwnField: FieldOwnerID},
	permissions.ManageOrganization:    {Action: ActionManage, Resource: ResourceOrganization},

	permissions.ReadProject:      {Action: ActionRead, Resource: ResourceProject},
	permissions.CreateProject:    {Action: ActionCreate, Resource: ResourceProject},
	permissions.UpdateOwnProject: {Action: ActionUpdate, Resource: ResourceProject, OwnField: FieldOwnerID},
	permissions.DeleteOwnProject: {Action: ActionDelete, Resource: ResourceProject, OwnField: FieldOwnerID},
	permissions.ManageProject:    {Action: ActionManage, Resource: ResourceProject},

	permissions.ReadMoulinette:      {Action: ActionRead, Resource: ResourceMoulinette},
	permissions.CreateMoulinette:    {Action: ActionCreate, Resource: ResourceMoulinette},
	permissions.UpdateOwnMoulinette: {Action: ActionUpdate, Resource: ResourceMoulinette, OwnField: FieldMaintainerID},
	permissions.DeleteOwnMoulinette: {Action: ActionDelete, Resource: ResourceMoulinette, OwnField: FieldMaintainerID},
	permissions.ManageMoulinette:    {Action: ActionManage, Resource: ResourceMoulinette},

	permissions.ReadMoulinetteSource:      {Action: ActionRead, Resource: ResourceMoulinetteSource},
	permissions.CreateMoulinetteSource:    {Action: ActionCreate, Resource: ResourceMoulinetteSource},
	permissions.DeleteOwnMoulinetteSource: {Action: ActionDelete, Resource: ResourceMoulinetteSource, OwnField: FieldSourceMaintainerID},
	permissions.ManageMoulinetteSource:    {Action: ActionManage, Resource: ResourceMoulinetteSource},

	permissions.CreateRun:  {Action: ActionCreate, Resource: ResourceRun},
	permissions.ReadRun:    {Action: ActionRead, Resource: ResourceRun},
	permissions.ReadOwnRun: {Action: ActionRead, Resource: ResourceRun, OwnField: FieldAccountID},
	permissions.DeleteRun:  {Action: ActionDelete, Resource: ResourceRun},
	permissions.ManageRun:  {Action: ActionManage, Resource: ResourceRun},
}

// ForAccount compiles the account's permission atoms into an Ability.
// Atoms outside the grant table are skipped: an unknown atom must never
// grant anything, and must never fail construction either, so that old
// deployments tolerate atoms added by newer catalog versions. An empty
// or fully unknown permission set yields an Ability that denies
// everything.
func ForAccount(acct Snapshot) *Ability {
	grants := make([]Grant, 0, len(acct.Permissions))
	for _, atom := range acct.Permissions {
		if g, ok := grantTable[permissions.Permission(atom)]; ok {
			grants = append(grants, g)
		}
	}
	return &Ability{accountID: acct.ID, grants: grants}
}
