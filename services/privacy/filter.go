package privacy

import (
	"context"

	"github.com/fieldaid/backend/models"
	"github.com/fieldaid/backend/services/authz"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Sentinel replaces undisclosed contact fields. It is a distinct marker,
// never confusable with an empty value, so clients can render a
// "requires permission" state.
const Sentinel = "***"

// Viewer carries everything the filter needs about the requesting actor.
// Facet grants are resolved once per request, never per row.
type Viewer struct {
	ID     uuid.UUID
	Role   models.Role
	Facets map[models.ResourceKind]bool
}

// HasFacet reports whether the viewer holds the view grant for a facet.
func (v Viewer) HasFacet(facet models.ResourceKind) bool {
	return v.Facets[facet]
}

// ResolveViewer builds a Viewer for an actor, resolving all contact facets
// up front against the permission resolver.
func ResolveViewer(ctx context.Context, resolver *authz.Resolver, actorID uuid.UUID, role models.Role) Viewer {
	facets := map[models.ResourceKind]bool{}
	for _, f := range []models.ResourceKind{
		models.FacetVolunteerContact,
		models.FacetDonorContact,
		models.FacetGridContact,
	} {
		facets[f] = resolver.Resolve(ctx, role, f, models.ActionView).Allowed
	}
	return Viewer{ID: actorID, Role: role, Facets: facets}
}

// Filter applies facet-based contact redaction to API responses.
type Filter struct {
	publicFacets map[models.ResourceKind]bool
	logger       *zap.Logger
}

// NewFilter creates a new Filter. Grid contact info is public by default:
// grids represent demand and their on-site contact must stay reachable.
func NewFilter(logger *zap.Logger) *Filter {
	return &Filter{
		publicFacets: map[models.ResourceKind]bool{
			models.FacetGridContact: true,
		},
		logger: logger,
	}
}

// disclose is the single disclosure rule every contact field goes through:
// the viewer holds the facet grant AND owns the parent resource, or the
// contact is the viewer's own, or the facet is configured public. The
// highest role always sees through.
func (f *Filter) disclose(v Viewer, facet models.ResourceKind, subjectID uuid.UUID, ownsParent bool) bool {
	if v.Role == models.RoleSuperAdmin {
		return true
	}
	if f.publicFacets[facet] {
		return true
	}
	if subjectID != uuid.Nil && subjectID == v.ID {
		return true
	}
	return v.HasFacet(facet) && ownsParent
}

// FilterGrid returns a copy of the grid with contact fields redacted unless
// the viewer may see them. The input is never mutated, so a privileged pass
// cannot leak through a reused row.
func (f *Filter) FilterGrid(g *models.Grid, v Viewer) *models.Grid {
	if g == nil {
		return nil
	}
	out := *g
	if !f.disclose(v, models.FacetGridContact, uuid.Nil, ownedBy(g, v.ID)) {
		out.ContactPhone = Sentinel
		out.ContactEmail = Sentinel
	}
	return &out
}

// FilterGrids filters a slice of grids.
func (f *Filter) FilterGrids(grids []*models.Grid, v Viewer) []*models.Grid {
	out := make([]*models.Grid, len(grids))
	for i, g := range grids {
		out[i] = f.FilterGrid(g, v)
	}
	return out
}

// FilterRegistration redacts volunteer contact fields. ownsGrid tells
// whether the viewer owns the parent grid; the caller resolves it once for
// the whole request.
func (f *Filter) FilterRegistration(r *models.VolunteerRegistration, v Viewer, ownsGrid bool) *models.VolunteerRegistration {
	if r == nil {
		return nil
	}
	out := *r
	if !f.disclose(v, models.FacetVolunteerContact, r.SubjectID(), ownsGrid) {
		out.VolunteerPhone = Sentinel
		out.VolunteerEmail = Sentinel
	}
	return &out
}

// FilterRegistrations filters registrations that may span multiple grids.
// ownedGrids maps grid IDs the viewer owns.
func (f *Filter) FilterRegistrations(regs []*models.VolunteerRegistration, v Viewer, ownedGrids map[uuid.UUID]bool) []*models.VolunteerRegistration {
	out := make([]*models.VolunteerRegistration, len(regs))
	for i, r := range regs {
		out[i] = f.FilterRegistration(r, v, ownedGrids[r.GridID])
	}
	return out
}

// FilterDonation redacts donor contact fields.
func (f *Filter) FilterDonation(d *models.SupplyDonation, v Viewer, ownsGrid bool) *models.SupplyDonation {
	if d == nil {
		return nil
	}
	out := *d
	if !f.disclose(v, models.FacetDonorContact, d.SubjectID(), ownsGrid) {
		out.DonorPhone = Sentinel
		out.DonorEmail = Sentinel
	}
	return &out
}

// FilterDonations filters donations that may span multiple grids.
func (f *Filter) FilterDonations(donations []*models.SupplyDonation, v Viewer, ownedGrids map[uuid.UUID]bool) []*models.SupplyDonation {
	out := make([]*models.SupplyDonation, len(donations))
	for i, d := range donations {
		out[i] = f.FilterDonation(d, v, ownedGrids[d.GridID])
	}
	return out
}

func ownedBy(resource models.Ownable, actorID uuid.UUID) bool {
	if actorID == uuid.Nil {
		return false
	}
	for _, id := range resource.OwnerIDs() {
		if id == actorID {
			return true
		}
	}
	return false
}
