package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fieldaid/backend/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestEffectiveRole(t *testing.T) {
	tests := []struct {
		name   string
		actor  *Actor
		signal string
		want   models.Role
	}{
		{
			name:   "no signal keeps actual role",
			actor:  &Actor{Role: models.RoleAdmin, Authenticated: true},
			signal: "",
			want:   models.RoleAdmin,
		},
		{
			name:   "admin downgrades to user",
			actor:  &Actor{Role: models.RoleAdmin, Authenticated: true},
			signal: "user",
			want:   models.RoleUser,
		},
		{
			name:   "grid manager downgrades to user",
			actor:  &Actor{Role: models.RoleGridManager, Authenticated: true},
			signal: "user",
			want:   models.RoleUser,
		},
		{
			name:   "super admin downgrades to user",
			actor:  &Actor{Role: models.RoleSuperAdmin, Authenticated: true},
			signal: "user",
			want:   models.RoleUser,
		},
		{
			name:   "escalation ignored",
			actor:  &Actor{Role: models.RoleUser, Authenticated: true},
			signal: "admin",
			want:   models.RoleUser,
		},
		{
			name:   "escalation to super admin ignored",
			actor:  &Actor{Role: models.RoleAdmin, Authenticated: true},
			signal: "super_admin",
			want:   models.RoleAdmin,
		},
		{
			name:   "unknown role ignored",
			actor:  &Actor{Role: models.RoleAdmin, Authenticated: true},
			signal: "moderator",
			want:   models.RoleAdmin,
		},
		{
			name:   "same role is a no-op",
			actor:  &Actor{Role: models.RoleUser, Authenticated: true},
			signal: "user",
			want:   models.RoleUser,
		},
		{
			name:   "downgrade to grid manager not in allow list",
			actor:  &Actor{Role: models.RoleAdmin, Authenticated: true},
			signal: "grid_manager",
			want:   models.RoleAdmin,
		},
		{
			name:   "anonymous actor cannot downgrade",
			actor:  AnonymousActor(),
			signal: "user",
			want:   models.RoleGuest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, EffectiveRole(tt.actor, tt.signal))
		})
	}
}

func TestSelectActingRole_DowngradesEffectiveRoleOnly(t *testing.T) {
	m := NewActingRoleMiddleware(zap.NewNop())

	actorID := uuid.New()
	var seen *Actor
	handler := m.SelectActingRole(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetActorFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/grids", nil)
	req.Header.Set(ActingRoleHeader, "user")
	actor := &Actor{ID: actorID, Role: models.RoleAdmin, EffectiveRole: models.RoleAdmin, Authenticated: true}
	req = req.WithContext(WithActor(req.Context(), actor))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	require.NotNil(t, seen)
	assert.Equal(t, models.RoleAdmin, seen.Role, "actual role survives for auditing")
	assert.Equal(t, models.RoleUser, seen.EffectiveRole)
	assert.Equal(t, actorID, seen.ID)

	// The request-scoped downgrade never leaks into the shared actor.
	assert.Equal(t, models.RoleAdmin, actor.EffectiveRole)
}

func TestSelectActingRole_InvalidSignalPassesThrough(t *testing.T) {
	m := NewActingRoleMiddleware(zap.NewNop())

	var seen *Actor
	handler := m.SelectActingRole(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetActorFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/grids", nil)
	req.Header.Set(ActingRoleHeader, "root")
	req = req.WithContext(WithActor(req.Context(),
		&Actor{ID: uuid.New(), Role: models.RoleAdmin, EffectiveRole: models.RoleAdmin, Authenticated: true}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	// Silent ignore: no error response, actual role stands.
	assert.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, seen)
	assert.Equal(t, models.RoleAdmin, seen.EffectiveRole)
}
