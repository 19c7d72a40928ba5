package rules_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/statekit/pkg/rules"
)

func TestSet_Validate(t *testing.T) {
	ctx := context.Background()

	baseEnv := rules.Env{
		EntityType: "article",
		EntityID:   "a1",
		Field:      "status",
		From:       "draft",
		To:         "review",
		Metadata:   map[string]any{"priority": "high"},
	}

	t.Run("all rules pass", func(t *testing.T) {
		set := rules.NewSet(
			rules.Must("priority", "priority is required", func(ctx context.Context, env rules.Env) bool {
				v, ok := env.Metadata["priority"].(string)
				return ok && v != ""
			}),
		)

		violations, err := set.Validate(ctx, baseEnv)
		require.NoError(t, err)
		assert.Nil(t, violations)
	})

	t.Run("violations collected per field", func(t *testing.T) {
		set := rules.NewSet(
			rules.Must("priority", "priority must be low", func(ctx context.Context, env rules.Env) bool {
				return env.Metadata["priority"] == "low"
			}),
			rules.Must("priority", "priority must be short", func(ctx context.Context, env rules.Env) bool {
				return false
			}),
			rules.Must("reason", "reason is required", func(ctx context.Context, env rules.Env) bool {
				return false
			}),
		)

		violations, err := set.Validate(ctx, baseEnv)
		require.NoError(t, err)
		require.NotNil(t, violations)
		assert.Len(t, violations["priority"], 2)
		assert.Equal(t, []string{"reason is required"}, violations["reason"])
		assert.Equal(t, []string{"priority", "reason"}, violations.Fields())
	})

	t.Run("empty set allows", func(t *testing.T) {
		violations, err := rules.NewSet().Validate(ctx, baseEnv)
		require.NoError(t, err)
		assert.Nil(t, violations)
	})
}

func TestExpr(t *testing.T) {
	ctx := context.Background()

	t.Run("expression over metadata", func(t *testing.T) {
		rule, err := rules.Expr("priority", "priority must be high", `metadata.priority == "high"`)
		require.NoError(t, err)

		set := rules.NewSet(rule)

		violations, err := set.Validate(ctx, rules.Env{Metadata: map[string]any{"priority": "high"}})
		require.NoError(t, err)
		assert.Nil(t, violations)

		violations, err = set.Validate(ctx, rules.Env{Metadata: map[string]any{"priority": "low"}})
		require.NoError(t, err)
		assert.True(t, violations.Has("priority"))
	})

	t.Run("expression over transition facts", func(t *testing.T) {
		rule, err := rules.Expr("reason", "reason required for rejections",
			`to != "rejected" || (metadata.reason ?? "") != ""`)
		require.NoError(t, err)

		set := rules.NewSet(rule)

		violations, err := set.Validate(ctx, rules.Env{To: "rejected", Metadata: map[string]any{}})
		require.NoError(t, err)
		assert.True(t, violations.Has("reason"))

		violations, err = set.Validate(ctx, rules.Env{To: "review", Metadata: map[string]any{}})
		require.NoError(t, err)
		assert.Nil(t, violations)
	})

	t.Run("compile failure", func(t *testing.T) {
		_, err := rules.Expr("x", "bad", `metadata.priority ==`)
		assert.ErrorIs(t, err, rules.ErrInvalidExpression)
	})

	t.Run("must expr panics on compile failure", func(t *testing.T) {
		assert.Panics(t, func() {
			rules.MustExpr("x", "bad", `][`)
		})
	})
}

func TestValidationErrors_Error(t *testing.T) {
	ve := rules.ValidationErrors{}
	ve.Add("priority", "priority is required")
	ve.Add("reason", "reason is required")

	msg := ve.Error()
	assert.Contains(t, msg, "validation failed")
	assert.Contains(t, msg, "priority: priority is required")
	assert.Contains(t, msg, "reason: reason is required")
}
