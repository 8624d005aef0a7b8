package app

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/TransferDaily/internal/domain"
)

// Character limits per platform.
var socialLimits = map[domain.SocialPlatform]int{
	domain.PlatformX:         280,
	domain.PlatformFacebook:  63206,
	domain.PlatformInstagram: 2200,
	domain.PlatformLinkedIn:  3000,
}

var socialPlatforms = []domain.SocialPlatform{
	domain.PlatformX,
	domain.PlatformFacebook,
	domain.PlatformInstagram,
	domain.PlatformLinkedIn,
}

// GenerateSocialPosts builds one post per platform from the article.
// The output depends only on the article and url.
func GenerateSocialPosts(a *domain.Article, articleURL string) []domain.SocialPost {
	tags := hashtags(a)
	posts := make([]domain.SocialPost, 0, len(socialPlatforms))
	for _, p := range socialPlatforms {
		limit := socialLimits[p]
		var text string
		switch p {
		case domain.PlatformX:
			tail := "\n\n" + articleURL
			if len(tags) > 0 {
				tail += " " + strings.Join(firstN(tags, 2), " ")
			}
			text = truncate(a.Title, limit-utf8.RuneCountInString(tail)) + tail
		case domain.PlatformFacebook:
			text = fmt.Sprintf("%s\n\n%s\n\nRead more: %s", a.Title, domain.Excerpt(a.Content, 300), articleURL)
		case domain.PlatformInstagram:
			text = fmt.Sprintf("%s\n\n%s\n\n%s\n\nLink in bio.", a.Title, domain.Excerpt(a.Content, 200), strings.Join(tags, " "))
		case domain.PlatformLinkedIn:
			text = fmt.Sprintf("%s\n\n%s\n\n%s", a.Title, domain.Excerpt(a.Content, 400), articleURL)
		}
		posts = append(posts, domain.SocialPost{
			Platform: p,
			Text:     truncate(text, limit),
			Limit:    limit,
		})
	}
	return posts
}

var titleCase = cases.Title(language.English)

func hashtags(a *domain.Article) []string {
	seen := map[string]bool{}
	var tags []string
	for _, src := range []string{"Transfer News", a.League, a.PlayerName, a.ToClub} {
		slug := domain.Slugify(src)
		if slug == "" {
			continue
		}
		tag := "#" + strings.ReplaceAll(titleCase.String(strings.ReplaceAll(slug, "-", " ")), " ", "")
		if !seen[tag] {
			seen[tag] = true
			tags = append(tags, tag)
		}
	}
	return tags
}

func firstN(s []string, n int) []string {
	if len(s) < n {
		return s
	}
	return s[:n]
}

// truncate cuts s to at most max runes, ending with an ellipsis when cut.
func truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	r := []rune(s)
	return strings.TrimSpace(string(r[:max-1])) + "…"
}
