package statemachine_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/statekit/pkg/statemachine"
)

func newArticleRegistry(t *testing.T) *statemachine.Registry {
	t.Helper()

	reg := statemachine.NewRegistry("article", "status")
	require.NoError(t, reg.Register(statemachine.StateDefinition{Name: "draft", IsDefault: true}))
	require.NoError(t, reg.Register(statemachine.StateDefinition{Name: "review", Title: "In Review"}))
	require.NoError(t, reg.Register(statemachine.StateDefinition{Name: "published", PermittedRoles: []string{"admin"}}))
	require.NoError(t, reg.Register(statemachine.StateDefinition{Name: "rejected"}))
	require.NoError(t, reg.Allow("draft", "review"))
	require.NoError(t, reg.Allow("review", "published"))
	require.NoError(t, reg.Allow("review", "rejected"))
	require.NoError(t, reg.Allow("rejected", "draft"))
	return reg
}

func TestRegistry_Register(t *testing.T) {
	t.Run("blank name fails", func(t *testing.T) {
		reg := statemachine.NewRegistry("article", "status")
		err := reg.Register(statemachine.StateDefinition{})
		assert.ErrorIs(t, err, statemachine.ErrConfiguration)
		assert.ErrorIs(t, err, statemachine.ErrBlankStateName)
	})

	t.Run("identical re-registration is idempotent", func(t *testing.T) {
		reg := statemachine.NewRegistry("article", "status")
		def := statemachine.StateDefinition{Name: "draft", Title: "Draft", PermittedRoles: []string{"author"}}
		require.NoError(t, reg.Register(def))
		require.NoError(t, reg.Register(def))
		assert.Len(t, reg.States(), 1)
	})

	t.Run("conflicting re-registration fails", func(t *testing.T) {
		reg := statemachine.NewRegistry("article", "status")
		require.NoError(t, reg.Register(statemachine.StateDefinition{Name: "draft", Title: "Draft"}))

		err := reg.Register(statemachine.StateDefinition{Name: "draft", Title: "Something Else"})
		assert.ErrorIs(t, err, statemachine.ErrConfiguration)
		assert.True(t, statemachine.IsStateRedeclaredError(err))
	})

	t.Run("definition check rejects", func(t *testing.T) {
		checkErr := errors.New("not a lifecycle state")
		reg := statemachine.NewRegistry("article", "status",
			statemachine.WithDefinitionCheck(func(def statemachine.StateDefinition) error {
				if def.Name == "bogus" {
					return checkErr
				}
				return nil
			}),
		)

		require.NoError(t, reg.Register(statemachine.StateDefinition{Name: "draft"}))

		err := reg.Register(statemachine.StateDefinition{Name: "bogus"})
		assert.ErrorIs(t, err, statemachine.ErrConfiguration)
		assert.True(t, statemachine.IsDefinitionRejectedError(err))
		assert.ErrorIs(t, err, checkErr)
	})

	t.Run("definition check applies to implicit registration", func(t *testing.T) {
		reg := statemachine.NewRegistry("article", "status",
			statemachine.WithDefinitionCheck(func(def statemachine.StateDefinition) error {
				if def.Name == "limbo" {
					return errors.New("unknown state")
				}
				return nil
			}),
		)

		err := reg.Allow("draft", "limbo")
		assert.ErrorIs(t, err, statemachine.ErrConfiguration)
	})
}

func TestRegistry_Allow(t *testing.T) {
	t.Run("registers both states implicitly", func(t *testing.T) {
		reg := statemachine.NewRegistry("article", "status")
		require.NoError(t, reg.Allow("draft", "review"))

		assert.Len(t, reg.States(), 2)
		assert.True(t, reg.IsAllowed("draft", "review"))
		assert.False(t, reg.IsAllowed("review", "draft"))
	})

	t.Run("blank endpoint fails", func(t *testing.T) {
		reg := statemachine.NewRegistry("article", "status")
		assert.ErrorIs(t, reg.Allow("", "review"), statemachine.ErrEdgeIncomplete)
		assert.ErrorIs(t, reg.Allow("draft", ""), statemachine.ErrEdgeIncomplete)
	})

	t.Run("self loop only when registered", func(t *testing.T) {
		reg := statemachine.NewRegistry("article", "status")
		require.NoError(t, reg.Allow("draft", "draft"))
		assert.True(t, reg.IsAllowed("draft", "draft"))
		assert.False(t, reg.IsAllowed("review", "review"))
	})

	t.Run("handler binding", func(t *testing.T) {
		reg := statemachine.NewRegistry("article", "status")
		require.NoError(t, reg.Allow("review", "published", statemachine.WithHandler("publish")))

		handler, ok := reg.HandlerFor("review", "published")
		require.True(t, ok)
		assert.Equal(t, "publish", handler)

		_, ok = reg.HandlerFor("draft", "review")
		assert.False(t, ok)
	})
}

func TestRegistry_AllowPairs(t *testing.T) {
	t.Run("bulk registration", func(t *testing.T) {
		reg := statemachine.NewRegistry("article", "status")
		err := reg.AllowPairs([]statemachine.Pair{
			{From: "draft", To: "review"},
			{From: "review", To: "published", Handler: "publish"},
		})
		require.NoError(t, err)
		assert.True(t, reg.IsAllowed("draft", "review"))

		handler, ok := reg.HandlerFor("review", "published")
		require.True(t, ok)
		assert.Equal(t, "publish", handler)
	})

	t.Run("pair missing endpoint fails whole batch", func(t *testing.T) {
		reg := statemachine.NewRegistry("article", "status")
		err := reg.AllowPairs([]statemachine.Pair{
			{From: "draft", To: "review"},
			{From: "review"},
		})
		assert.ErrorIs(t, err, statemachine.ErrEdgeIncomplete)
		assert.False(t, reg.IsAllowed("draft", "review"))
	})
}

func TestRegistry_Default(t *testing.T) {
	t.Run("flagged default wins", func(t *testing.T) {
		reg := newArticleRegistry(t)
		def, ok := reg.Default()
		require.True(t, ok)
		assert.Equal(t, "draft", def.Name)
	})

	t.Run("first registered wins when several flagged", func(t *testing.T) {
		reg := statemachine.NewRegistry("article", "status")
		require.NoError(t, reg.Register(statemachine.StateDefinition{Name: "first", IsDefault: true}))
		require.NoError(t, reg.Register(statemachine.StateDefinition{Name: "second", IsDefault: true}))

		def, ok := reg.Default()
		require.True(t, ok)
		assert.Equal(t, "first", def.Name)
	})

	t.Run("falls back to first registered", func(t *testing.T) {
		reg := statemachine.NewRegistry("article", "status")
		require.NoError(t, reg.Register(statemachine.StateDefinition{Name: "draft"}))
		require.NoError(t, reg.Register(statemachine.StateDefinition{Name: "review"}))

		def, ok := reg.Default()
		require.True(t, ok)
		assert.Equal(t, "draft", def.Name)
	})

	t.Run("empty registry has no default", func(t *testing.T) {
		reg := statemachine.NewRegistry("article", "status")
		_, ok := reg.Default()
		assert.False(t, ok)
	})
}

func TestRegistry_AllowedTransitions(t *testing.T) {
	reg := newArticleRegistry(t)

	targets := reg.AllowedTransitions("review")
	require.Len(t, targets, 2)
	assert.Equal(t, "published", targets[0].Name)
	assert.Equal(t, "rejected", targets[1].Name)

	assert.Empty(t, reg.AllowedTransitions("published"))
	assert.Empty(t, reg.AllowedTransitions("unknown"))
}

func TestRegistry_Resolve(t *testing.T) {
	t.Run("registered name", func(t *testing.T) {
		reg := newArticleRegistry(t)
		def, ok := reg.Resolve("review")
		require.True(t, ok)
		assert.Equal(t, "In Review", def.Title)
	})

	t.Run("unknown name", func(t *testing.T) {
		reg := newArticleRegistry(t)
		_, ok := reg.Resolve("limbo")
		assert.False(t, ok)
	})

	t.Run("resolver fallback is cached", func(t *testing.T) {
		calls := 0
		reg := statemachine.NewRegistry("article", "status",
			statemachine.WithResolvers(statemachine.ResolverFunc(func(name string) (statemachine.StateDefinition, bool) {
				calls++
				if name == "archived" {
					return statemachine.StateDefinition{Name: "archived", Title: "Archived"}, true
				}
				return statemachine.StateDefinition{}, false
			})),
		)

		def, ok := reg.Resolve("archived")
		require.True(t, ok)
		assert.Equal(t, "Archived", def.Title)

		_, _ = reg.Resolve("archived")
		assert.Equal(t, 1, calls)
	})

	t.Run("map resolver", func(t *testing.T) {
		reg := statemachine.NewRegistry("article", "status",
			statemachine.WithResolvers(statemachine.MapResolver{
				"archived": {Name: "archived"},
			}),
		)

		_, ok := reg.Resolve("archived")
		assert.True(t, ok)
	})
}

func TestRegistry_Merge(t *testing.T) {
	reg := statemachine.NewRegistry("article", "status")
	require.NoError(t, reg.Register(statemachine.StateDefinition{
		Name:           "draft",
		Title:          "Draft",
		PermittedRoles: []string{"author"},
		IsDefault:      true,
	}))

	require.NoError(t, reg.Merge(statemachine.StateDefinition{
		Name:           "draft",
		Title:          "Working Draft",
		Color:          "#999999",
		PermittedRoles: []string{"editor"},
	}))

	def, ok := reg.Resolve("draft")
	require.True(t, ok)
	assert.Equal(t, "Working Draft", def.Title)
	assert.Equal(t, "#999999", def.Color)
	assert.ElementsMatch(t, []string{"author", "editor"}, def.PermittedRoles)
	assert.True(t, def.IsDefault)
}

func TestBuilder(t *testing.T) {
	t.Run("fluent assembly", func(t *testing.T) {
		reg, err := statemachine.NewBuilder("article", "status").
			State(statemachine.StateDefinition{Name: "draft", IsDefault: true}).
			State(statemachine.StateDefinition{Name: "review"}).
			State(statemachine.StateDefinition{Name: "published"}).
			Allow("draft", "review").
			AllowMany("review", "published", "draft").
			Build()
		require.NoError(t, err)

		assert.True(t, reg.IsAllowed("review", "published"))
		assert.True(t, reg.IsAllowed("review", "draft"))
	})

	t.Run("first error wins", func(t *testing.T) {
		_, err := statemachine.NewBuilder("article", "status").
			State(statemachine.StateDefinition{}).
			Allow("draft", "review").
			Build()
		assert.ErrorIs(t, err, statemachine.ErrBlankStateName)
	})

	t.Run("must build panics on error", func(t *testing.T) {
		assert.Panics(t, func() {
			statemachine.NewBuilder("article", "status").
				State(statemachine.StateDefinition{}).
				MustBuild()
		})
	})
}

func TestMermaid(t *testing.T) {
	reg := statemachine.NewBuilder("article", "status").
		State(statemachine.StateDefinition{Name: "draft", IsDefault: true}).
		State(statemachine.StateDefinition{Name: "review", Title: "In Review"}).
		Allow("draft", "review", statemachine.WithHandler("submit")).
		MustBuild()

	out := statemachine.Mermaid(reg)
	assert.Contains(t, out, "graph TD")
	assert.Contains(t, out, `draft(("draft"))`)
	assert.Contains(t, out, `review["In Review"]`)
	assert.Contains(t, out, "draft -->|submit| review")
}
