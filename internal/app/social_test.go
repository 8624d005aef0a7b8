package app

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TransferDaily/internal/domain"
)

func TestGenerateSocialPosts(t *testing.T) {
	a := draftArticle()
	url := "https://transferdaily.test/en/articles/rice-joins-arsenal"

	posts := GenerateSocialPosts(a, url)
	require.Len(t, posts, 4)

	byPlatform := map[domain.SocialPlatform]domain.SocialPost{}
	for _, p := range posts {
		byPlatform[p.Platform] = p
		assert.LessOrEqual(t, utf8.RuneCountInString(p.Text), p.Limit, p.Platform)
	}

	x := byPlatform[domain.PlatformX]
	assert.Contains(t, x.Text, url)
	assert.Contains(t, x.Text, "#TransferNews")

	ig := byPlatform[domain.PlatformInstagram]
	assert.Contains(t, ig.Text, "#DeclanRice")
	assert.Contains(t, ig.Text, "#Arsenal")
	assert.NotContains(t, ig.Text, url)

	assert.Equal(t, posts, GenerateSocialPosts(a, url), "generation is deterministic")
}

func TestGenerateSocialPosts_LongTitleFitsX(t *testing.T) {
	a := draftArticle()
	a.Title = strings.Repeat("Transfer saga continues ", 20)

	posts := GenerateSocialPosts(a, "https://transferdaily.test/en/articles/x")
	x := posts[0]
	require.Equal(t, domain.PlatformX, x.Platform)
	assert.LessOrEqual(t, utf8.RuneCountInString(x.Text), 280)
	assert.Contains(t, x.Text, "…")
	assert.Contains(t, x.Text, "https://transferdaily.test/en/articles/x")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcd…", truncate("abcdefgh", 5))
	assert.Equal(t, "", truncate("abc", 0))
}
