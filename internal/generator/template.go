package generator

import (
	"fmt"
	"unicode/utf8"
)

// seo bundles the meta fields derived from a candidate.
type seo struct {
	Title       string
	Description string
	Keywords    string
}

const articleSystemPrompt = "You are a film blogger writing warm, family-friendly reviews of animated movies. Respond with HTML paragraphs only, no markdown."

func articlePrompt(movie SearchResult) string {
	return fmt.Sprintf(
		"Write a 4-paragraph review of the animated movie %q (%d). Plot summary: %s",
		movie.Title, movie.Year, movie.Summary)
}

// SEOData derives the meta title, description and keywords for a movie
// candidate. Same input always yields the same output.
func SEOData(movie SearchResult) seo {
	return seo{
		Title:       fmt.Sprintf("Watch %s (%d) Online Free - ToonStream", movie.Title, movie.Year),
		Description: truncateDescription(movie.Summary, 155),
		Keywords:    fmt.Sprintf("%s, watch online, animated movie, %d, free streaming", movie.Title, movie.Year),
	}
}

// truncateDescription caps a meta description at max bytes without
// splitting a multi-byte rune, appending "..." when it cuts.
func truncateDescription(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := max - 3
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}

// TemplateBlogContent builds the deterministic review article for a
// candidate. This is the default path; an AI provider only replaces the
// body, never the derived fields.
func TemplateBlogContent(movie SearchResult) BlogContent {
	body := fmt.Sprintf(`<p><strong>%s</strong> (%d) is a delightful animated adventure that has charmed audiences of all ages. %s</p>

<h2>What Makes It Special</h2>
<p>Released in %d, %s stands out for its heartfelt storytelling and imaginative world. The film balances laugh-out-loud moments with genuine emotional weight, making it a favorite for family movie nights.</p>

<h2>The Story</h2>
<p>%s The pacing keeps younger viewers engaged while the themes of friendship and courage resonate with parents just as strongly.</p>

<h2>Should You Watch It?</h2>
<p>Absolutely. Whether you are revisiting a childhood favorite or discovering %s for the first time, it delivers the kind of warm, wholesome entertainment that animated cinema does best. Press play and enjoy.</p>`,
		movie.Title, movie.Year, movie.Summary,
		movie.Year, movie.Title,
		movie.Summary,
		movie.Title)

	excerpt := fmt.Sprintf("Our review of %s (%d): a heartfelt animated adventure worth watching with the whole family.", movie.Title, movie.Year)

	meta := SEOData(movie)
	return BlogContent{
		Title:          fmt.Sprintf("%s (%d) Review: A Family Adventure Worth Watching", movie.Title, movie.Year),
		Content:        body,
		Excerpt:        excerpt,
		SEOTitle:       fmt.Sprintf("%s (%d) Review - ToonStream", movie.Title, movie.Year),
		SEODescription: meta.Description,
		Keywords:       meta.Keywords,
	}
}
