package markup

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDescribe(t *testing.T) {
	content := "# Title\n\nSome **bold** and _underlined_ text with a " +
		"[link](https://example.com) and ![img](https://example.com/i.png).\n\n" +
		"```go\nfmt.Println(\"skipped\")\n```\n\nAnd `inline` code."

	got := Describe(content, 200)

	assert.Contains(t, got, "Some bold and underlined text")
	assert.Contains(t, got, "link")
	assert.NotContains(t, got, "https://example.com")
	assert.NotContains(t, got, "Println")
	assert.NotContains(t, got, "#")
	assert.NotContains(t, got, "`")
}

func TestDescribe_Truncates(t *testing.T) {
	content := strings.Repeat("word ", 100)
	got := Describe(content, 50)

	assert.LessOrEqual(t, len(got), 54)
	assert.True(t, strings.HasSuffix(got, "..."))
}

func TestDescribe_ShortContentUntouched(t *testing.T) {
	assert.Equal(t, "short note", Describe("short note", 200))
}
