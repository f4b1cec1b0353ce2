package agent

import (
	"context"
	"math/rand"
	"net/http"
	"net/url"
	"strings"

	"github.com/goalmesh/goalmesh/core"
	"github.com/goalmesh/goalmesh/logging"
)

const spoonacularAPIURL = "https://api.spoonacular.com"

// RecipeOptions configure the recipe agent.
type RecipeOptions struct {
	APIKey  string
	BaseURL string
	Client  *http.Client
	Logger  logging.Logger
	Rand    *rand.Rand
}

// RecipeAgent searches for recipes via the Spoonacular API. Without an API
// key, or when the search fails, it serves mock recipes so the pipeline can
// still complete.
type RecipeAgent struct {
	opts RecipeOptions
}

// NewRecipeAgent constructs the agent with optional overrides.
func NewRecipeAgent(optFns ...func(o *RecipeOptions)) *RecipeAgent {
	opts := RecipeOptions{
		BaseURL: spoonacularAPIURL,
		Logger:  logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &RecipeAgent{opts: opts}
}

// Name implements core.Agent.
func (a *RecipeAgent) Name() string { return core.AgentRecipe }

// Process implements core.Agent.
func (a *RecipeAgent) Process(ctx context.Context, in core.Context) core.Context {
	result := in.Clone()

	query := extractRecipeQuery(result.Goal())

	var data map[string]any
	if a.opts.APIKey == "" {
		a.opts.Logger.Warn("SPOONACULAR_API_KEY not set, using mock recipe data")
		data = a.mockRecipes(query)
	} else {
		var err error
		data, err = a.search(ctx, query)
		if err != nil {
			a.opts.Logger.Warn("recipe search failed, using mock data", "query", query, "error", err)
			data = a.mockRecipes(query)
		}
	}

	result.Set(core.DataKey(a.Name()), data)

	a.opts.Logger.Info("recipe search completed", "query", query)

	return result
}

var foodKeywords = []string{
	"recipe", "food", "meal", "dish", "cook", "bake", "breakfast",
	"lunch", "dinner", "dessert", "snack", "appetizer", "cuisine",
	"vegetarian", "vegan", "gluten-free", "keto", "paleo", "low-carb",
}

var recipeQuestionPhrases = []string{
	"how to make", "how do i make", "recipe for", "how to cook",
	"tell me about", "what is", "find me", "i want", "can you give me",
}

// extractRecipeQuery strips question boilerplate from food-related goals so
// the remainder can feed the search API directly.
func extractRecipeQuery(goal string) string {
	lower := strings.ToLower(goal)

	foodRelated := false
	for _, kw := range foodKeywords {
		if strings.Contains(lower, kw) {
			foodRelated = true
			break
		}
	}
	if !foodRelated {
		return goal
	}

	query := lower
	for _, phrase := range recipeQuestionPhrases {
		query = strings.ReplaceAll(query, phrase, "")
	}
	return strings.TrimSpace(query)
}

type spoonacularSearchResponse struct {
	Results []struct {
		ID                  int     `json:"id"`
		Title               string  `json:"title"`
		Image               string  `json:"image"`
		ReadyInMinutes      int     `json:"readyInMinutes"`
		Servings            int     `json:"servings"`
		Summary             string  `json:"summary"`
		SourceURL           string  `json:"sourceUrl"`
		ExtendedIngredients []struct {
			Name   string  `json:"name"`
			Amount float64 `json:"amount"`
			Unit   string  `json:"unit"`
		} `json:"extendedIngredients"`
		AnalyzedInstructions []struct {
			Steps []struct {
				Step string `json:"step"`
			} `json:"steps"`
		} `json:"analyzedInstructions"`
	} `json:"results"`
}

func (a *RecipeAgent) search(ctx context.Context, query string) (map[string]any, error) {
	params := url.Values{}
	params.Set("apiKey", a.opts.APIKey)
	params.Set("query", query)
	params.Set("number", "3")
	params.Set("addRecipeInformation", "true")
	params.Set("fillIngredients", "true")

	var resp spoonacularSearchResponse
	if err := getJSON(ctx, a.opts.Client, a.opts.BaseURL+"/recipes/complexSearch", params, &resp); err != nil {
		return nil, err
	}

	recipes := make([]map[string]any, 0, len(resp.Results))
	for _, r := range resp.Results {
		ingredients := make([]map[string]any, 0, len(r.ExtendedIngredients))
		for _, ing := range r.ExtendedIngredients {
			ingredients = append(ingredients, map[string]any{
				"name":   ing.Name,
				"amount": ing.Amount,
				"unit":   ing.Unit,
			})
		}

		var steps []string
		for _, instr := range r.AnalyzedInstructions {
			for _, s := range instr.Steps {
				steps = append(steps, s.Step)
			}
		}

		recipes = append(recipes, map[string]any{
			"id":             r.ID,
			"title":          r.Title,
			"image":          r.Image,
			"readyInMinutes": r.ReadyInMinutes,
			"servings":       r.Servings,
			"summary":        r.Summary,
			"sourceUrl":      r.SourceURL,
			"ingredients":    ingredients,
			"instructions":   steps,
		})
	}

	return map[string]any{
		"query":   query,
		"recipes": recipes,
	}, nil
}

func (a *RecipeAgent) mockRecipes(query string) map[string]any {
	minutes := func() int {
		if a.opts.Rand != nil {
			return 15 + a.opts.Rand.Intn(46)
		}
		return 15 + rand.Intn(46)
	}
	servings := func() int {
		if a.opts.Rand != nil {
			return 2 + a.opts.Rand.Intn(5)
		}
		return 2 + rand.Intn(5)
	}

	title := titleCase(query)

	return map[string]any{
		"query": query,
		"recipes": []map[string]any{
			{
				"id":             1,
				"title":          "Mock " + title + " Recipe",
				"image":          "https://spoonacular.com/recipeImages/mock-image.jpg",
				"readyInMinutes": minutes(),
				"servings":       servings(),
				"summary":        "A delicious " + query + " recipe that's perfect for any occasion. This is mock data as the Spoonacular API key is not available.",
				"sourceUrl":      "https://example.com/mock-recipe",
				"ingredients": []map[string]any{
					{"name": "ingredient 1", "amount": 2.0, "unit": "cups"},
					{"name": "ingredient 2", "amount": 1.0, "unit": "tablespoon"},
					{"name": "ingredient 3", "amount": 3.0, "unit": "ounces"},
				},
				"instructions": []string{
					"Step 1: Prepare the ingredients.",
					"Step 2: Mix everything together.",
					"Step 3: Cook until done.",
					"Step 4: Serve and enjoy!",
				},
			},
			{
				"id":             2,
				"title":          "Easy " + title,
				"image":          "https://spoonacular.com/recipeImages/mock-image-2.jpg",
				"readyInMinutes": minutes(),
				"servings":       servings(),
				"summary":        "A quick and easy " + query + " that anyone can make. This is mock data as the Spoonacular API key is not available.",
				"sourceUrl":      "https://example.com/mock-recipe-2",
				"ingredients": []map[string]any{
					{"name": "ingredient A", "amount": 1.0, "unit": "cup"},
					{"name": "ingredient B", "amount": 2.0, "unit": "teaspoons"},
					{"name": "ingredient C", "amount": 4.0, "unit": "ounces"},
				},
				"instructions": []string{
					"Step 1: Gather all ingredients.",
					"Step 2: Combine in a bowl.",
					"Step 3: Cook according to preference.",
					"Step 4: Garnish and serve.",
				},
			},
		},
		"note": "This is mock data. To get real recipe information, please add your Spoonacular API key to the .env file.",
	}
}
