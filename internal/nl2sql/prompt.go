package nl2sql

import (
	"fmt"
	"strings"
)

const systemPrompt = "You are a professional SQL developer. " +
	"Using valid SQLite syntax, answer the question for the table information provided. " +
	"Return ONLY a single SQL query. No markdown, no explanation."

// BuildPrompt renders the generation prompt for one request.
func BuildPrompt(req Request) string {
	return fmt.Sprintf(
		"### Database Tables Schema\n%s\n\nGiven the table structure from database, provide SQL query to question: %s\n\nSQL query:",
		strings.TrimSpace(req.Schema),
		strings.TrimSpace(req.Question),
	)
}
