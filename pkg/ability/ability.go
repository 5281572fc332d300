// Package ability implements the capability engine that gates every
// protected operation on the platform. An Ability is compiled from an
// account's permission atoms and answers Can(action, subject) queries
// against its grants. Evaluation is pure and default-deny.
package ability

// Action is the operation being authorized. Manage is a wildcard that
// implies the four CRUD actions.
type Action string

const (
	ActionCreate Action = "create"
	ActionRead   Action = "read"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
	ActionManage Action = "manage"
)

// Resource tags every checkable subject with its type. Resource services
// set the tag at model construction time; the engine never inspects
// runtime types.
type Resource string

const (
	ResourceAccount            Resource = "account"
	ResourceAccountPermissions Resource = "account_permissions"
	ResourceAuthToken          Resource = "auth_token"
	ResourceOrganization       Resource = "organization"
	ResourceProject            Resource = "project"
	ResourceMoulinette         Resource = "moulinette"
	ResourceMoulinetteSource   Resource = "moulinette_source"
	ResourceRun                Resource = "run"
)

// AbilityResource makes a bare Resource usable as a check subject, for
// Create-style checks where no instance exists yet.
func (r Resource) AbilityResource() Resource { return r }

// Subject is anything an Ability can be queried about: either a bare
// Resource tag or a concrete model instance.
type Subject interface {
	AbilityResource() Resource
}

// Instance is a concrete record that can satisfy own-scoped grants.
// AbilityField resolves one of the field paths used by the grant table
// (for example "account.id" on an auth token) and reports whether the
// field is populated. An unpopulated field never matches.
type Instance interface {
	Subject
	AbilityField(path string) (string, bool)
}

// Grant is a single compiled rule: an action allowed on a resource type,
// optionally restricted to instances owned by the acting account.
// An empty OwnField means the grant is unconditional.
type Grant struct {
	Action   Action
	Resource Resource
	OwnField string
}

// Ability is the immutable set of grants compiled for one account. It is
// built per authorization check and discarded; it holds no shared state.
type Ability struct {
	accountID string
	grants    []Grant
}

// Can reports whether the acting account may perform action on subject.
//
// A grant matches when its resource equals the subject's resource tag and
// its action equals the requested action or is Manage. An unconditional
// match allows immediately. An own-scoped grant allows only when the
// subject is a concrete instance whose bound field resolves to the acting
// account's id; bare resource tags therefore never satisfy own-scoped
// grants. No grant matching means deny.
func (a *Ability) Can(action Action, subject Subject) bool {
	if subject == nil {
		return false
	}
	resource := subject.AbilityResource()
	for _, g := range a.grants {
		if g.Resource != resource {
			continue
		}
		if g.Action != action && g.Action != ActionManage {
			continue
		}
		if g.OwnField == "" {
			return true
		}
		inst, ok := subject.(Instance)
		if !ok {
			continue
		}
		if value, ok := inst.AbilityField(g.OwnField); ok && value == a.accountID {
			return true
		}
	}
	return false
}

// AccountID returns the id of the account the Ability was built for.
func (a *Ability) AccountID() string { return a.accountID }

// Grants returns a copy of the compiled grant list.
func (a *Ability) Grants() []Grant {
	out := make([]Grant, len(a.grants))
	copy(out, a.grants)
	return out
}
