package statemachine_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/statekit/pkg/statemachine"
)

type testArticle struct {
	id     string
	states map[string]string
}

func newTestArticle(id string) *testArticle {
	return &testArticle{id: id, states: make(map[string]string)}
}

func (a *testArticle) EntityType() string { return "article" }
func (a *testArticle) EntityID() string   { return a.id }

func (a *testArticle) StateName(field string) string {
	return a.states[field]
}

func (a *testArticle) SetStateName(field, name string) {
	a.states[field] = name
}

func TestStateOf(t *testing.T) {
	reg := newArticleRegistry(t)

	t.Run("entity without state resolves to default", func(t *testing.T) {
		article := newTestArticle("a1")
		st := reg.StateOf(article)
		assert.Equal(t, "draft", st.Name())
		assert.True(t, st.IsDefault())
	})

	t.Run("entity with state", func(t *testing.T) {
		article := newTestArticle("a2")
		article.SetStateName("status", "review")
		st := reg.StateOf(article)
		assert.Equal(t, "review", st.Name())
		assert.False(t, st.IsDefault())
	})
}

func TestState_MetadataChain(t *testing.T) {
	reg := statemachine.NewRegistry("article", "status", statemachine.WithDefaults(statemachine.Defaults{
		Color: "#cccccc",
		Icon:  "circle",
	}))
	require.NoError(t, reg.Register(statemachine.StateDefinition{
		Name:  "review",
		Title: "In Review",
		Color: "#f39c12",
		Meta:  map[string]any{"icon": "eye", "description": "under editorial review"},
	}))
	require.NoError(t, reg.Register(statemachine.StateDefinition{Name: "draft"}))

	tests := []struct {
		name  string
		state statemachine.State
		want  map[string]string
	}{
		{
			name:  "definition field wins over meta and defaults",
			state: reg.State("review"),
			want: map[string]string{
				"title":       "In Review",
				"color":       "#f39c12",
				"icon":        "eye",
				"description": "under editorial review",
			},
		},
		{
			name:  "bare definition falls back to registry defaults and name",
			state: reg.State("draft"),
			want: map[string]string{
				"title":       "draft",
				"color":       "#cccccc",
				"icon":        "circle",
				"description": "",
			},
		},
		{
			name:  "override wins over everything",
			state: reg.State("review").WithOverride("title", "Needs Eyes").WithOverride("color", "#000000"),
			want: map[string]string{
				"title":       "Needs Eyes",
				"color":       "#000000",
				"icon":        "eye",
				"description": "under editorial review",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want["title"], tt.state.Title())
			assert.Equal(t, tt.want["color"], tt.state.Color())
			assert.Equal(t, tt.want["icon"], tt.state.Icon())
			assert.Equal(t, tt.want["description"], tt.state.Description())
		})
	}
}

func TestState_Equal(t *testing.T) {
	reg := newArticleRegistry(t)
	st := reg.State("draft")
	def, _ := reg.Resolve("draft")

	assert.True(t, st.Equal("draft"))
	assert.True(t, st.Equal(reg.State("draft")))
	assert.True(t, st.Equal(def))
	assert.True(t, st.Equal(&def))
	assert.False(t, st.Equal("review"))
	assert.False(t, st.Equal(42))
}

func TestState_Transitions(t *testing.T) {
	reg := newArticleRegistry(t)

	st := reg.State("draft")
	assert.True(t, st.CanTransitionTo("review"))
	assert.False(t, st.CanTransitionTo("published"))

	next := st.NextStates()
	require.Len(t, next, 1)
	assert.Equal(t, "review", next[0].Name())
}

func TestState_SerializationForms(t *testing.T) {
	reg := newArticleRegistry(t)
	article := newTestArticle("a1")
	article.SetStateName("status", "draft")

	st := reg.State("review")
	minimal := st.Minimal()
	ui := st.UI()
	full := st.Full(article)

	t.Run("minimal keys", func(t *testing.T) {
		assert.Len(t, minimal, 2)
		assert.Equal(t, "review", minimal["name"])
		assert.Equal(t, "In Review", minimal["title"])
	})

	t.Run("ui adds exactly color icon description", func(t *testing.T) {
		assert.Len(t, ui, 5)
		for k := range minimal {
			assert.Contains(t, ui, k)
		}
		assert.Contains(t, ui, "color")
		assert.Contains(t, ui, "icon")
		assert.Contains(t, ui, "description")
	})

	t.Run("full adds exactly flags and metadata", func(t *testing.T) {
		assert.Len(t, full, 9)
		for k := range ui {
			assert.Contains(t, full, k)
		}
		assert.Equal(t, false, full["is_default"])
		assert.Equal(t, false, full["is_current"])
		assert.Equal(t, true, full["can_transition_to"])
		assert.Equal(t, map[string]any{}, full["metadata"])
	})

	t.Run("full relative to current state", func(t *testing.T) {
		cur := reg.State("draft").Full(article)
		assert.Equal(t, true, cur["is_default"])
		assert.Equal(t, true, cur["is_current"])
		assert.Equal(t, false, cur["can_transition_to"])
	})
}
