package agent

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goalmesh/goalmesh/core"
)

func TestExtractRecipeQuery(t *testing.T) {
	tests := []struct {
		goal string
		want string
	}{
		{"how to make chocolate chip cookies", "chocolate chip cookies"},
		{"recipe for vegetarian lasagna", "vegetarian lasagna"},
		{"find me a keto dinner", "a keto dinner"},
		{"how tall is the eiffel tower", "how tall is the eiffel tower"},
	}

	for _, tt := range tests {
		t.Run(tt.goal, func(t *testing.T) {
			assert.Equal(t, tt.want, extractRecipeQuery(tt.goal))
		})
	}
}

func TestRecipeAgent_ProcessMockWithoutAPIKey(t *testing.T) {
	agent := NewRecipeAgent()

	out := agent.Process(context.Background(), core.NewContext("recipe for pancakes"))

	require.True(t, out.HasData("recipe_data"))
	data := out.GetMap("recipe_data")
	assert.Equal(t, "pancakes", data["query"])

	recipes := data["recipes"].([]map[string]any)
	require.Len(t, recipes, 2)
	assert.Equal(t, "Mock Pancakes Recipe", recipes[0]["title"])
	assert.Equal(t, "Easy Pancakes", recipes[1]["title"])
	assert.Contains(t, data["note"], "mock data")
}

func TestRecipeAgent_Process(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/recipes/complexSearch", r.URL.Path)
		assert.Equal(t, "pancakes", r.URL.Query().Get("query"))
		json.NewEncoder(w).Encode(map[string]any{
			"results": []map[string]any{
				{
					"id":             7345,
					"title":          "Fluffy Pancakes",
					"readyInMinutes": 20,
					"servings":       4,
					"sourceUrl":      "https://example.com/pancakes",
					"extendedIngredients": []map[string]any{
						{"name": "flour", "amount": 2.0, "unit": "cups"},
						{"name": "milk", "amount": 1.5, "unit": "cups"},
					},
					"analyzedInstructions": []map[string]any{
						{"steps": []map[string]any{
							{"step": "Whisk the dry ingredients."},
							{"step": "Fold in the milk and cook."},
						}},
					},
				},
			},
		})
	}))
	defer srv.Close()

	agent := NewRecipeAgent(func(o *RecipeOptions) {
		o.APIKey = "key"
		o.BaseURL = srv.URL
		o.Client = srv.Client()
	})

	out := agent.Process(context.Background(), core.NewContext("recipe for pancakes"))

	data := out.GetMap("recipe_data")
	recipes := data["recipes"].([]map[string]any)
	require.Len(t, recipes, 1)
	assert.Equal(t, "Fluffy Pancakes", recipes[0]["title"])

	ingredients := recipes[0]["ingredients"].([]map[string]any)
	require.Len(t, ingredients, 2)
	assert.Equal(t, "flour", ingredients[0]["name"])

	steps := recipes[0]["instructions"].([]string)
	assert.Equal(t, []string{"Whisk the dry ingredients.", "Fold in the milk and cook."}, steps)
}

func TestRecipeAgent_ProcessFallsBackToMockOnAPIFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusPaymentRequired)
	}))
	defer srv.Close()

	agent := NewRecipeAgent(func(o *RecipeOptions) {
		o.APIKey = "key"
		o.BaseURL = srv.URL
		o.Client = srv.Client()
	})

	out := agent.Process(context.Background(), core.NewContext("recipe for pancakes"))

	data := out.GetMap("recipe_data")
	assert.Contains(t, data["note"], "mock data")
}
