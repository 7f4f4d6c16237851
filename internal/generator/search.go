package generator

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"time"

	"toonstream/internal/models"
)

// yearPattern matches a four-digit year anywhere in search result text.
var yearPattern = regexp.MustCompile(`\b(19|20)\d{2}\b`)

// fallbackCandidates keeps the generator productive with no search
// credentials configured. Titles are original to this project.
var fallbackCandidates = []SearchResult{
	{
		Title:   "Cosmo Cat and the Clockwork City",
		Year:    1998,
		Summary: "Cosmo Cat and his young friend Milo stumble into a hidden city run entirely by gears and have one night to wind it back up before dawn.",
	},
	{
		Title:   "Cosmo Cat: Voyage to the Paper Moon",
		Year:    2003,
		Summary: "A folded paper moon drifts down into the schoolyard and Cosmo Cat leads the neighborhood kids on a voyage to return it to the night sky.",
	},
	{
		Title:   "Cosmo Cat and the Summer of Small Giants",
		Year:    2010,
		Summary: "Shrunk to the size of beetles for one summer, Cosmo Cat and Milo discover the backyard is a wilderness full of small giants and big lessons.",
	},
}

// searchResponse mirrors the subset of the Custom Search JSON API the
// generator reads.
type searchResponse struct {
	Items []searchItem `json:"items"`
}

type searchItem struct {
	Title   string `json:"title"`
	Snippet string `json:"snippet"`
	Link    string `json:"link"`
	PageMap struct {
		CSEImage []struct {
			Src string `json:"src"`
		} `json:"cse_image"`
	} `json:"pagemap"`
}

// FetchCandidates returns movie candidates for the batch. It queries the
// configured search provider when both search_api_key and search_engine_id
// are present in site_config, and returns the built-in fallback list on
// missing credentials, transport errors, or an empty result set. It never
// returns an error.
func (g *Generator) FetchCandidates(ctx context.Context, cfg models.SiteConfig, query string) []SearchResult {
	apiKey := cfg[models.ConfigSearchAPIKey]
	engineID := cfg[models.ConfigSearchEngineID]
	if apiKey == "" || engineID == "" {
		slog.Info("search credentials not configured, using fallback candidates")
		return fallbackCandidates
	}

	results, err := g.search(ctx, apiKey, engineID, query)
	if err != nil {
		slog.Warn("search provider failed, using fallback candidates", "error", err)
		return fallbackCandidates
	}
	if len(results) == 0 {
		slog.Info("search returned no results, using fallback candidates", "query", query)
		return fallbackCandidates
	}
	return results
}

func (g *Generator) search(ctx context.Context, apiKey, engineID, query string) ([]SearchResult, error) {
	params := url.Values{}
	params.Set("key", apiKey)
	params.Set("cx", engineID)
	params.Set("q", query)
	params.Set("num", "10")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.searchBaseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build search request: %w", err)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call search api: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search api returned status %d", resp.StatusCode)
	}

	var parsed searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	results := make([]SearchResult, 0, len(parsed.Items))
	for _, item := range parsed.Items {
		if item.Title == "" {
			continue
		}
		r := SearchResult{
			Title:   item.Title,
			Year:    extractYear(item.Title + " " + item.Snippet),
			Summary: item.Snippet,
		}
		if len(item.PageMap.CSEImage) > 0 {
			r.ImageURL = item.PageMap.CSEImage[0].Src
		} else {
			r.ImageURL = item.Link
		}
		results = append(results, r)
	}
	return results, nil
}

// extractYear pulls the first four-digit year out of text, falling back
// to the current year when none is present.
func extractYear(text string) int {
	match := yearPattern.FindString(text)
	if match == "" {
		return time.Now().Year()
	}
	year, err := strconv.Atoi(match)
	if err != nil {
		return time.Now().Year()
	}
	return year
}
