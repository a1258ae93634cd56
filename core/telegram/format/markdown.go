package format

import "regexp"

var (
	mdV1Re = regexp.MustCompile("([_*\\[`])")
	mdV2Re = regexp.MustCompile("[" + regexp.QuoteMeta("_*[]()~`>#+-=|{}.!") + "]")
)

// EscapeMarkdown escapes special characters in user-supplied text for
// Telegram Markdown (version 1) parse mode.
func EscapeMarkdown(text string) string {
	return mdV1Re.ReplaceAllString(text, `\$1`)
}

// EscapeMarkdownV2 escapes special characters for MarkdownV2 parse mode.
func EscapeMarkdownV2(text string) string {
	return mdV2Re.ReplaceAllString(text, `\$0`)
}
