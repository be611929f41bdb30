package authz

import "github.com/fieldaid/backend/models"

// capabilities mirrors the five flags of a stored permission rule.
type capabilities struct {
	view, create, edit, del, manage bool
}

func (c capabilities) allows(action models.Action) bool {
	switch action {
	case models.ActionView:
		return c.view
	case models.ActionCreate:
		return c.create
	case models.ActionEdit:
		return c.edit
	case models.ActionDelete:
		return c.del
	case models.ActionManage:
		return c.manage
	default:
		return false
	}
}

// fallbackMatrix holds the default capability grants used when the
// permission store is unreachable or has no row for a (role, kind) pair.
// It mirrors the rows seeded at deployment (see DefaultRules) and must stay
// in lockstep with them: the fallback is a degraded copy of the seeded
// defaults, never a richer grant.
//
// The owner-scoped my_resources kind has no entry for any role. Owner
// editing is explicit configuration written through the permission
// management surface; a missing owner-scoped row must resolve to deny, not
// drift back to an allow when the row is deleted or the store is down.
var fallbackMatrix = map[models.Role]map[models.ResourceKind]capabilities{
	models.RoleGuest: {
		models.KindGrids:         {view: true},
		models.KindAnnouncements: {view: true},
		models.FacetGridContact:  {view: true},
	},
	models.RoleUser: {
		models.KindGrids:         {view: true},
		models.KindVolunteers:    {view: true, create: true},
		models.KindDonations:     {view: true, create: true},
		models.KindAnnouncements: {view: true},
		models.FacetGridContact:  {view: true},
	},
	models.RoleGridManager: {
		models.KindGrids:             {view: true, create: true, edit: true},
		models.KindVolunteers:        {view: true, create: true, edit: true},
		models.KindDonations:         {view: true, create: true, edit: true},
		models.KindAnnouncements:     {view: true, create: true, edit: true},
		models.FacetVolunteerContact: {view: true},
		models.FacetDonorContact:     {view: true},
		models.FacetGridContact:      {view: true},
	},
	models.RoleAdmin: {
		models.KindGrids:             {view: true, create: true, edit: true, del: true, manage: true},
		models.KindVolunteers:        {view: true, create: true, edit: true, del: true, manage: true},
		models.KindDonations:         {view: true, create: true, edit: true, del: true, manage: true},
		models.KindAnnouncements:     {view: true, create: true, edit: true, del: true, manage: true},
		models.KindUsers:             {view: true, edit: true},
		models.KindPermissions:       {view: true},
		models.KindTrashGrids:        {del: true},
		models.KindTrashVolunteers:   {del: true},
		models.KindTrashDonations:    {del: true},
		models.KindTrashDiscussion:   {del: true},
		models.FacetVolunteerContact: {view: true},
		models.FacetDonorContact:     {view: true},
		models.FacetGridContact:      {view: true},
	},
	// super_admin bypasses resolution entirely; no entries needed.
}

// DefaultRules materializes the fallback matrix as permission rules,
// suitable for seeding the store at deployment.
func DefaultRules() []*models.PermissionRule {
	var rules []*models.PermissionRule
	for role, kinds := range fallbackMatrix {
		for kind, caps := range kinds {
			rules = append(rules, &models.PermissionRule{
				Role:         role,
				ResourceKind: kind,
				CanView:      caps.view,
				CanCreate:    caps.create,
				CanEdit:      caps.edit,
				CanDelete:    caps.del,
				CanManage:    caps.manage,
			})
		}
	}
	return rules
}
