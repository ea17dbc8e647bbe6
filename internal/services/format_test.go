package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatLeaderboard(t *testing.T) {
	lb := leaderboard("2023", 10,
		member(10, "Alice", 5),
		member(2, "Bob", 5),
		member(1, "", 3),
	)

	got := FormatLeaderboard(lb, "https://adventofcode.com/", "tlmn00bs")
	want := "[tlmn00bs 2023 leaderboard](https://adventofcode.com/2023/leaderboard/private/view/10?order=stars)\n" +
		"**5** ⭐ Bob, Alice\n" +
		"**3** ⭐ anonymous user #1\n"
	assert.Equal(t, want, got)

	// deterministic regardless of map iteration
	for i := 0; i < 10; i++ {
		assert.Equal(t, want, FormatLeaderboard(lb, "https://adventofcode.com", "tlmn00bs"))
	}
}

func TestFormatLeaderboardOwnerTitle(t *testing.T) {
	lb := leaderboard("2021", 7, member(7, "Zoë", 12))
	got := FormatLeaderboard(lb, "https://adventofcode.com", "")
	assert.Equal(t, "[Zoë's 2021 leaderboard](https://adventofcode.com/2021/leaderboard/private/view/7?order=stars)\n**12** ⭐ Zoë\n", got)

	orphan := leaderboard("2021", 99)
	assert.Equal(t, "[anonymous user #99's 2021 leaderboard](https://adventofcode.com/2021/leaderboard/private/view/99?order=stars)\n",
		FormatLeaderboard(orphan, "https://adventofcode.com", ""))
}

func TestFormatLeaderboardHTML(t *testing.T) {
	lb := leaderboard("2023", 10,
		member(10, "<Alice>", 5),
		member(2, "Bob & co", 5),
	)

	got := FormatLeaderboardHTML(lb, "https://adventofcode.com", "")
	want := "<a href=\"https://adventofcode.com/2023/leaderboard/private/view/10?order=stars\">&lt;Alice&gt;&#39;s 2023 leaderboard</a>\n" +
		"<b>5</b> ⭐ Bob &amp; co, &lt;Alice&gt;\n"
	assert.Equal(t, want, got)
}
