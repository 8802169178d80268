package usecase

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/nutriswap/backend/internal/domain"
	applog "github.com/nutriswap/backend/internal/log"
)

var punctuationRegex = regexp.MustCompile(`[^\p{L}\p{N}\s]`)

// Token weight categories for scoring
const (
	weightFood        = 3.0 // Core food terms (chicken, apple, oats)
	weightDescriptive = 2.0 // Preparation and cut (raw, roasted, skinless)
	weightDefault     = 1.0
	fuzzyWeightFactor = 0.8 // Fuzzy matches get 80% of normal weight
)

const substringMatchBonus = 10.0

// foodTerms contains high-importance food keywords
var foodTerms = map[string]bool{
	// Protein foods
	"chicken": true, "beef": true, "pork": true, "fish": true, "salmon": true,
	"turkey": true, "lamb": true, "shrimp": true, "tuna": true, "duck": true,
	"egg": true, "eggs": true, "tofu": true, "lentils": true, "beans": true,
	"chickpeas": true, "peanut": true, "almonds": true, "veal": true, "ham": true,
	// Dairy
	"milk": true, "cheese": true, "yogurt": true, "yoghurt": true, "butter": true,
	"cream": true, "cheddar": true, "mozzarella": true,
	// Grains
	"bread": true, "rice": true, "pasta": true, "cereal": true, "oats": true,
	"oatmeal": true, "wheat": true, "flour": true, "barley": true, "quinoa": true,
	"bagel": true, "tortilla": true, "noodles": true,
	// Vegetables and fruits
	"apple": true, "apples": true, "banana": true, "bananas": true, "orange": true,
	"raspberries": true, "strawberries": true, "blueberries": true, "grapes": true,
	"lettuce": true, "tomato": true, "tomatoes": true, "potato": true, "potatoes": true,
	"onion": true, "carrot": true, "carrots": true, "broccoli": true, "spinach": true,
	"avocado": true, "pepper": true, "corn": true, "peas": true, "squash": true,
	// Sweets and beverages
	"candy": true, "chocolate": true, "cake": true, "cookies": true, "honey": true,
	"syrup": true, "jam": true, "juice": true, "soda": true, "coffee": true, "tea": true,
}

// descriptiveTerms contains medium-importance descriptive keywords
var descriptiveTerms = map[string]bool{
	"whole": true, "skim": true, "partly": true, "skimmed": true, "fat": true,
	"raw": true, "cooked": true, "boiled": true, "baked": true, "broiled": true,
	"fried": true, "roasted": true, "stewed": true, "steamed": true, "grilled": true,
	"canned": true, "frozen": true, "dried": true, "fresh": true, "rolled": true,
	"breast": true, "thigh": true, "leg": true, "wing": true, "ground": true,
	"skin": true, "skinless": true, "boneless": true, "lean": true, "meat": true,
	"white": true, "brown": true, "enriched": true, "sweetened": true, "unsweetened": true,
	"hard": true, "plain": true, "flavoured": true, "flavored": true,
}

var searchStopWords = map[string]bool{
	"a": true, "an": true, "the": true, "and": true, "or": true,
	"of": true, "in": true, "on": true, "at": true, "to": true,
	"for": true, "with": true, "by": true, "from": true, "is": true,
	"without": true, "only": true, "type": true, "prepared": true,
	"g": true, "oz": true, "ml": true, "cup": true, "cups": true, "tbsp": true, "tsp": true,
}

// SearchServiceConfig holds configuration for catalog search
type SearchServiceConfig struct {
	MinScore            float64
	MaxCandidates       int
	EnableFuzzyMatching bool
	FuzzyEditDistance   int
}

// SearchService ranks catalog foods against a free-text query
type SearchService struct {
	store               domain.NutrientStore
	minScore            float64
	maxCandidates       int
	enableFuzzyMatching bool
	fuzzyEditDistance   int
}

// NewSearchService creates a search service with the given configuration
func NewSearchService(store domain.NutrientStore, config SearchServiceConfig) *SearchService {
	minScore := config.MinScore
	if minScore <= 0 {
		minScore = 30.0
	}
	candidates := config.MaxCandidates
	if candidates <= 0 {
		candidates = 200
	}
	fuzzyDist := config.FuzzyEditDistance
	if fuzzyDist <= 0 {
		fuzzyDist = 1
	}
	return &SearchService{
		store:               store,
		minScore:            minScore,
		maxCandidates:       candidates,
		enableFuzzyMatching: config.EnableFuzzyMatching,
		fuzzyEditDistance:   fuzzyDist,
	}
}

// SearchFoods returns up to limit foods matching query, best first.
// Candidates are fetched by the query's most significant token and then
// scored on weighted token coverage. Ties go to the lowest food id.
func (s *SearchService) SearchFoods(ctx context.Context, query string, limit int) ([]domain.FoodMatch, error) {
	tokens := tokenize(query)
	if len(tokens) == 0 {
		return nil, fmt.Errorf("%w: query has no searchable words", domain.ErrInvalidRequest)
	}
	if limit <= 0 {
		limit = 10
	}
	if limit > 50 {
		limit = 50
	}

	anchor := keywordsByImportance(tokens)[0]
	candidates, err := s.store.SearchFoods(ctx, anchor, s.maxCandidates)
	if err != nil {
		return nil, err
	}

	matches := make([]domain.FoodMatch, 0, len(candidates))
	for _, food := range candidates {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		score, matched := s.calculateMatchScore(query, tokens, food.DisplayName)
		if score < s.minScore {
			continue
		}
		matches = append(matches, domain.FoodMatch{Food: food, Score: score, MatchedTokens: matched})
	}

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Score != matches[j].Score {
			return matches[i].Score > matches[j].Score
		}
		return matches[i].Food.ID < matches[j].Food.ID
	})
	if len(matches) > limit {
		matches = matches[:limit]
	}

	applog.Debug(ctx, "food search", "query", query, "anchor", anchor,
		"candidates", len(candidates), "matches", len(matches))
	return matches, nil
}

// calculateMatchScore computes similarity between a query and a food description.
// Uses a weighted combination of:
//   - Query coverage: weighted share of query tokens found in the description (most important)
//   - Description coverage: share of description tokens found in the query
//   - Jaccard overlap
//   - Substring bonus when the whole query appears in the description
//
// Returns the score (0-100) and the list of matched tokens.
func (s *SearchService) calculateMatchScore(query string, queryTokens []string, description string) (float64, []string) {
	descTokens := tokenize(description)
	if len(queryTokens) == 0 || len(descTokens) == 0 {
		return 0, nil
	}

	descSet := make(map[string]bool, len(descTokens))
	for _, t := range descTokens {
		descSet[t] = true
	}

	var matchedWeight, totalWeight float64
	var matched []string
	seen := make(map[string]bool)
	for _, qt := range queryTokens {
		if seen[qt] {
			continue
		}
		seen[qt] = true

		w := tokenWeight(qt)
		totalWeight += w
		if descSet[qt] {
			matchedWeight += w
			matched = append(matched, qt)
			continue
		}
		if s.enableFuzzyMatching {
			for _, dt := range descTokens {
				if fuzzyTokenMatch(qt, dt, s.fuzzyEditDistance) {
					matchedWeight += w * fuzzyWeightFactor
					matched = append(matched, dt)
					break
				}
			}
		}
	}
	queryCoverage := matchedWeight / totalWeight

	descMatched, _ := findIntersection(descTokens, queryTokens)
	descCoverage := float64(descMatched) / float64(len(uniqueTokens(descTokens)))

	exact, _ := findIntersection(queryTokens, descTokens)
	jaccard := float64(exact) / float64(findUnion(queryTokens, descTokens))

	score := (queryCoverage*0.60 + descCoverage*0.20 + jaccard*0.20) * 100

	queryLower := strings.ToLower(strings.TrimSpace(query))
	if len(queryLower) > 3 && strings.Contains(strings.ToLower(description), queryLower) {
		score += substringMatchBonus
	}

	if score > 100 {
		score = 100
	}
	return score, matched
}

// keywordsByImportance orders tokens by weight, then by length
func keywordsByImportance(tokens []string) []string {
	out := uniqueTokens(tokens)
	sort.SliceStable(out, func(i, j int) bool {
		wi, wj := tokenWeight(out[i]), tokenWeight(out[j])
		if wi != wj {
			return wi > wj
		}
		return len(out[i]) > len(out[j])
	})
	return out
}

func tokenWeight(token string) float64 {
	switch {
	case foodTerms[token]:
		return weightFood
	case descriptiveTerms[token]:
		return weightDescriptive
	default:
		return weightDefault
	}
}

// tokenize splits a string into normalized lowercase tokens.
// Removes punctuation, stop words, and pure numeric tokens.
func tokenize(s string) []string {
	cleaned := punctuationRegex.ReplaceAllString(strings.ToLower(s), " ")

	var tokens []string
	for _, word := range strings.Fields(cleaned) {
		if len(word) <= 1 {
			continue
		}
		if searchStopWords[word] {
			continue
		}
		if isNumeric(word) {
			continue
		}
		tokens = append(tokens, word)
	}
	return tokens
}

// isNumeric checks if a string contains only digits
func isNumeric(s string) bool {
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return len(s) > 0
}

func uniqueTokens(tokens []string) []string {
	seen := make(map[string]bool, len(tokens))
	out := make([]string, 0, len(tokens))
	for _, t := range tokens {
		if !seen[t] {
			seen[t] = true
			out = append(out, t)
		}
	}
	return out
}

// fuzzyTokenMatch checks if two tokens are similar within the edit distance threshold
func fuzzyTokenMatch(token1, token2 string, threshold int) bool {
	if token1 == token2 {
		return true
	}

	// Only apply fuzzy matching to longer tokens to avoid false positives
	if len(token1) < 4 || len(token2) < 4 {
		return false
	}

	lenDiff := len(token1) - len(token2)
	if lenDiff < 0 {
		lenDiff = -lenDiff
	}
	if lenDiff > threshold {
		return false
	}

	return levenshteinDistance(token1, token2) <= threshold
}

// levenshteinDistance calculates the edit distance between two strings
func levenshteinDistance(s1, s2 string) int {
	r1 := []rune(s1)
	r2 := []rune(s2)
	if len(r1) == 0 {
		return len(r2)
	}
	if len(r2) == 0 {
		return len(r1)
	}

	// Two rows instead of the full matrix
	prev := make([]int, len(r2)+1)
	curr := make([]int, len(r2)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(r1); i++ {
		curr[0] = i
		for j := 1; j <= len(r2); j++ {
			cost := 0
			if r1[i-1] != r2[j-1] {
				cost = 1
			}
			curr[j] = min(
				prev[j]+1,      // deletion
				curr[j-1]+1,    // insertion
				prev[j-1]+cost, // substitution
			)
		}
		prev, curr = curr, prev
	}

	return prev[len(r2)]
}

// findIntersection returns the count of common tokens and the list of matched tokens
func findIntersection(tokens1, tokens2 []string) (int, []string) {
	set := make(map[string]bool)
	for _, t := range tokens1 {
		set[t] = true
	}

	var matched []string
	seen := make(map[string]bool)
	for _, t := range tokens2 {
		if set[t] && !seen[t] {
			matched = append(matched, t)
			seen[t] = true
		}
	}

	return len(matched), matched
}

// findUnion returns the count of unique tokens across both sets
func findUnion(tokens1, tokens2 []string) int {
	set := make(map[string]bool)
	for _, t := range tokens1 {
		set[t] = true
	}
	for _, t := range tokens2 {
		set[t] = true
	}
	return len(set)
}
