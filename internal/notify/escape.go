package notify

import "strings"

// caracteres reservados do MarkdownV2 do Telegram
const reserved = "_*[]()~`>#+-=|{}.!\\"

// Escape prefixa com barra invertida cada caractere reservado do MarkdownV2
func Escape(text string) string {
	var b strings.Builder
	b.Grow(len(text) + 8)
	for _, r := range text {
		if strings.ContainsRune(reserved, r) {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// EscapeLinkURL escapa a parte (...) de um link inline, onde só ')' e '\'
// precisam de escape
func EscapeLinkURL(url string) string {
	url = strings.ReplaceAll(url, `\`, `\\`)
	return strings.ReplaceAll(url, ")", `\)`)
}
