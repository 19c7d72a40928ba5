package permission_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/statekit/pkg/permission"
	"github.com/dmitrymomot/statekit/pkg/statemachine"
)

type testArticle struct {
	id     string
	status string
}

func (a *testArticle) EntityType() string { return "article" }
func (a *testArticle) EntityID() string   { return a.id }

func (a *testArticle) StateName(field string) string { return a.status }

func (a *testArticle) SetStateName(field, name string) { a.status = name }

type roleUser struct {
	id    string
	roles []string
}

func (u *roleUser) PerformerID() string { return u.id }
func (u *roleUser) Roles() []string     { return u.roles }

type singleRoleUser struct {
	id   string
	role string
}

func (u *singleRoleUser) PerformerID() string { return u.id }
func (u *singleRoleUser) Role() string        { return u.role }

type attributeUser struct {
	id    string
	attrs map[string]any
}

func (u *attributeUser) PerformerID() string { return u.id }

func (u *attributeUser) Attribute(name string) any { return u.attrs[name] }

type plainUser struct {
	id string
}

func (u *plainUser) PerformerID() string { return u.id }

func published(roles ...string) statemachine.StateDefinition {
	return statemachine.StateDefinition{Name: "published", PermittedRoles: roles}
}

func TestRoleChecker_CanTransition(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	checker := permission.NewRoleChecker()
	entity := &testArticle{id: "a1", status: "review"}
	from := statemachine.StateDefinition{Name: "review"}

	t.Run("unrestricted state allows anyone", func(t *testing.T) {
		t.Parallel()

		user := &roleUser{id: "u1", roles: []string{"author"}}
		assert.True(t, checker.CanTransition(ctx, entity, from, published(), user))
	})

	t.Run("matching role allows", func(t *testing.T) {
		t.Parallel()

		user := &roleUser{id: "u1", roles: []string{"author", "admin"}}
		assert.True(t, checker.CanTransition(ctx, entity, from, published("admin"), user))
	})

	t.Run("missing role denies", func(t *testing.T) {
		t.Parallel()

		user := &roleUser{id: "u1", roles: []string{"author"}}
		assert.False(t, checker.CanTransition(ctx, entity, from, published("admin", "editor"), user))
	})

	t.Run("single role carrier", func(t *testing.T) {
		t.Parallel()

		user := &singleRoleUser{id: "u2", role: "editor"}
		assert.True(t, checker.CanTransition(ctx, entity, from, published("editor"), user))
		assert.False(t, checker.CanTransition(ctx, entity, from, published("admin"), user))
	})

	t.Run("attribute carrier with string slice", func(t *testing.T) {
		t.Parallel()

		user := &attributeUser{id: "u3", attrs: map[string]any{"role": []string{"moderator"}}}
		assert.True(t, checker.CanTransition(ctx, entity, from, published("moderator"), user))
	})

	t.Run("attribute carrier with scalar", func(t *testing.T) {
		t.Parallel()

		user := &attributeUser{id: "u3", attrs: map[string]any{"role": "admin"}}
		assert.True(t, checker.CanTransition(ctx, entity, from, published("admin"), user))
	})

	t.Run("no resolvable roles denies restricted state", func(t *testing.T) {
		t.Parallel()

		user := &plainUser{id: "u4"}
		assert.False(t, checker.CanTransition(ctx, entity, from, published("admin"), user))
	})

	t.Run("custom role attribute", func(t *testing.T) {
		t.Parallel()

		custom := permission.NewRoleChecker(permission.WithRoleAttribute("group"))
		user := &attributeUser{id: "u5", attrs: map[string]any{"group": "admin"}}
		assert.True(t, custom.CanTransition(ctx, entity, from, published("admin"), user))
	})
}

func TestRoleChecker_DenialReason(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	checker := permission.NewRoleChecker()
	entity := &testArticle{id: "a1", status: "review"}
	from := statemachine.StateDefinition{Name: "review"}
	user := &roleUser{id: "u1", roles: []string{"author"}}

	reason := checker.DenialReason(ctx, entity, from, published("admin"), user)
	require.NotEmpty(t, reason)
	assert.Contains(t, reason, "author")
	assert.Contains(t, reason, "not permitted")

	assert.Empty(t, checker.DenialReason(ctx, entity, from, published(), user))
}

func TestRoleChecker_RoleOf(t *testing.T) {
	t.Parallel()

	checker := permission.NewRoleChecker()

	assert.Equal(t, []string{"a", "b"}, checker.RoleOf(&roleUser{id: "u", roles: []string{"a", "b"}}))
	assert.Equal(t, []string{"editor"}, checker.RoleOf(&singleRoleUser{id: "u", role: "editor"}))
	assert.Nil(t, checker.RoleOf(&plainUser{id: "u"}))
	assert.Nil(t, checker.RoleOf(nil))
}
