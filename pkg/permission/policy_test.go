package permission_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/statekit/pkg/permission"
	"github.com/dmitrymomot/statekit/pkg/statemachine"
)

type fakeGate struct {
	abilities map[string]bool
	calls     []string
}

func (g *fakeGate) AbilityRegistered(name string) bool {
	_, ok := g.abilities[name]
	return ok
}

func (g *fakeGate) Check(ctx context.Context, ability string, p statemachine.Performer, e statemachine.Entity) bool {
	g.calls = append(g.calls, ability)
	return g.abilities[ability]
}

func TestPolicyChecker_Ability(t *testing.T) {
	t.Parallel()

	checker := permission.NewPolicyChecker(&fakeGate{})

	tests := []struct {
		state string
		want  string
	}{
		{"published", "transitionToPublished"},
		{"under_review", "transitionToUnderReview"},
		{"awaiting-approval", "transitionToAwaitingApproval"},
		{"archived v2", "transitionToArchivedV2"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, checker.Ability(tt.state), tt.state)
	}
}

func TestPolicyChecker_CanTransition(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	entity := &testArticle{id: "a1", status: "review"}
	from := statemachine.StateDefinition{Name: "review"}
	to := statemachine.StateDefinition{Name: "published"}
	user := &plainUser{id: "u1"}

	t.Run("unregistered ability allows", func(t *testing.T) {
		t.Parallel()

		checker := permission.NewPolicyChecker(&fakeGate{abilities: map[string]bool{}})
		assert.True(t, checker.CanTransition(ctx, entity, from, to, user))
	})

	t.Run("registered ability consults gate", func(t *testing.T) {
		t.Parallel()

		gate := &fakeGate{abilities: map[string]bool{"transitionToPublished": true}}
		checker := permission.NewPolicyChecker(gate)
		assert.True(t, checker.CanTransition(ctx, entity, from, to, user))
		assert.Equal(t, []string{"transitionToPublished"}, gate.calls)
	})

	t.Run("registered ability denying", func(t *testing.T) {
		t.Parallel()

		gate := &fakeGate{abilities: map[string]bool{"transitionToPublished": false}}
		checker := permission.NewPolicyChecker(gate)
		assert.False(t, checker.CanTransition(ctx, entity, from, to, user))
	})

	t.Run("nil performer always denied", func(t *testing.T) {
		t.Parallel()

		checker := permission.NewPolicyChecker(&fakeGate{abilities: map[string]bool{}})
		assert.False(t, checker.CanTransition(ctx, entity, from, to, nil))
	})

	t.Run("custom prefix", func(t *testing.T) {
		t.Parallel()

		gate := &fakeGate{abilities: map[string]bool{"canEnterPublished": true}}
		checker := permission.NewPolicyChecker(gate, permission.WithAbilityPrefix("canEnter"))
		assert.True(t, checker.CanTransition(ctx, entity, from, to, user))
	})
}

func TestPolicyChecker_DenialReason(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	entity := &testArticle{id: "a1", status: "review"}
	from := statemachine.StateDefinition{Name: "review"}
	to := statemachine.StateDefinition{Name: "published"}

	checker := permission.NewPolicyChecker(&fakeGate{abilities: map[string]bool{"transitionToPublished": false}})

	reason := checker.DenialReason(ctx, entity, from, to, &plainUser{id: "u1"})
	require.NotEmpty(t, reason)
	assert.Contains(t, reason, "transitionToPublished")
	assert.Contains(t, reason, "u1")

	anon := checker.DenialReason(ctx, entity, from, to, nil)
	assert.Contains(t, anon, "anonymous")
}

func TestNewPolicyChecker_NilGatePanics(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() {
		permission.NewPolicyChecker(nil)
	})
}
