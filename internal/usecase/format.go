package usecase

import (
	"fmt"
	"strings"

	"ArticleCourier/internal/domain"
)

// FormatDelivery renders the daily article message: title, summary, the
// key-term bullet list, and the link to the full article.
func FormatDelivery(article domain.Article) string {
	var b strings.Builder

	fmt.Fprintf(&b, "📚 *%s*\n\n", article.Title)
	if article.Summary != "" {
		fmt.Fprintf(&b, "%s\n\n", article.Summary)
	}

	if len(article.KeyTerms) > 0 {
		b.WriteString("*Key Terms:*\n")
		for _, entry := range article.KeyTerms {
			fmt.Fprintf(&b, "• %s: %s\n", entry.Term, strings.Join(entry.Definitions, "; "))
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "[Read full article](%s)", article.Link)
	return b.String()
}

// FormatReminder renders the nag message repeating the article title.
func FormatReminder(article domain.Article) string {
	return fmt.Sprintf("⏰ Reminder: Have you read today's article?\n*%s*", article.Title)
}

func greeting(firstName string) string {
	name := strings.TrimSpace(firstName)
	if name == "" {
		name = "there"
	}
	return fmt.Sprintf(
		"Hi %s! I'll send you a daily article every morning. "+
			"You'll receive reminders until you mark it as read.", name)
}
