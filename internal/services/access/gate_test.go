package access

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/magabrotheeeer/gymhub/internal/models"
)

func TestGate_Evaluate(t *testing.T) {
	tests := []struct {
		name         string
		principal    *models.Principal
		path         string
		wantOutcome  Outcome
		wantLocation string
		wantReason   error
	}{
		{
			name:        "owner on own dashboard",
			principal:   &models.Principal{Role: models.RoleOwner, GymID: "g1"},
			path:        "/dashboard/owner",
			wantOutcome: Allow,
		},
		{
			name:        "owner on nested dashboard page",
			principal:   &models.Principal{Role: models.RoleOwner, GymID: "g1"},
			path:        "/dashboard/owner/members",
			wantOutcome: Allow,
		},
		{
			name:         "member on owner dashboard",
			principal:    &models.Principal{Role: models.RoleMember, GymID: "g1"},
			path:         "/dashboard/owner",
			wantOutcome:  Redirect,
			wantLocation: "/dashboard/member",
			wantReason:   ErrRoleMismatch,
		},
		{
			name:         "trainer on superadmin dashboard",
			principal:    &models.Principal{Role: models.RoleTrainer, GymID: "g1"},
			path:         "/dashboard/superadmin/gyms",
			wantOutcome:  Redirect,
			wantLocation: "/dashboard/trainer",
			wantReason:   ErrRoleMismatch,
		},
		{
			name:         "prefix without segment boundary",
			principal:    &models.Principal{Role: models.RoleOwner, GymID: "g1"},
			path:         "/dashboard/ownerx",
			wantOutcome:  Redirect,
			wantLocation: "/dashboard/owner",
			wantReason:   ErrRoleMismatch,
		},
		{
			name:         "dashboard root",
			principal:    &models.Principal{Role: models.RoleSuperAdmin},
			path:         "/dashboard/",
			wantOutcome:  Redirect,
			wantLocation: "/dashboard/superadmin",
			wantReason:   ErrRoleMismatch,
		},
		{
			name:         "no session",
			principal:    nil,
			path:         "/dashboard/owner",
			wantOutcome:  Redirect,
			wantLocation: LoginPath,
			wantReason:   ErrSessionMissing,
		},
		{
			name:         "unknown role",
			principal:    &models.Principal{Role: models.RoleUnknown},
			path:         "/dashboard/member",
			wantOutcome:  Redirect,
			wantLocation: LoginPath,
			wantReason:   ErrSessionMissing,
		},
	}

	gate := NewGate()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := gate.Evaluate(tt.principal, tt.path)
			assert.Equal(t, tt.wantOutcome, d.Outcome)
			assert.Equal(t, tt.wantLocation, d.Location)
			if tt.wantReason == nil {
				assert.NoError(t, d.Reason)
				assert.True(t, d.Allowed())
			} else {
				assert.ErrorIs(t, d.Reason, tt.wantReason)
				assert.False(t, d.Allowed())
			}
		})
	}
}

func TestGate_Evaluate_Idempotent(t *testing.T) {
	gate := NewGate()
	p := &models.Principal{Role: models.RoleMember, GymID: "g1"}
	first := gate.Evaluate(p, "/dashboard/owner")
	for range 5 {
		assert.Equal(t, first, gate.Evaluate(p, "/dashboard/owner"))
	}
	assert.Equal(t, models.Principal{Role: models.RoleMember, GymID: "g1"}, *p, "principal is not mutated")
}

func TestGate_Evaluate_RedirectAlwaysMatchesRole(t *testing.T) {
	gate := NewGate()
	paths := []string{"/dashboard/owner", "/dashboard/trainer", "/dashboard/member", "/dashboard/superadmin", "/dashboard/x"}
	for _, role := range models.Roles() {
		for _, path := range paths {
			d := gate.Evaluate(&models.Principal{Role: role}, path)
			if d.Allowed() {
				assert.True(t, HasPathPrefix(path, role.DashboardPrefix()))
				continue
			}
			assert.Equal(t, role.DashboardPrefix(), d.Location)
		}
	}
}

func TestGate_Evaluate_CountsDecisions(t *testing.T) {
	gate := NewGate()
	before := testutil.ToFloat64(decisions.WithLabelValues("redirect", "session_missing"))
	gate.Evaluate(nil, "/dashboard/owner")
	after := testutil.ToFloat64(decisions.WithLabelValues("redirect", "session_missing"))
	assert.Equal(t, before+1, after)
}

func TestHasPathPrefix(t *testing.T) {
	assert.True(t, HasPathPrefix("/dashboard/member", "/dashboard/member"))
	assert.True(t, HasPathPrefix("/dashboard/member/", "/dashboard/member"))
	assert.True(t, HasPathPrefix("/dashboard/member/payments", "/dashboard/member"))
	assert.False(t, HasPathPrefix("/dashboard/members", "/dashboard/member"))
	assert.False(t, HasPathPrefix("/dashboard", "/dashboard/member"))
}
