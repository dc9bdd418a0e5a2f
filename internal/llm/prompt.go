package llm

// BasicSystemPrompt is used when tool calling is disabled for a request.
const BasicSystemPrompt = "You are a helpful AI assistant. Keep answers clear and concise."

const SystemPrompt = `You are a helpful assistant that can search the web for up-to-date information.

Guidelines:
- When the user asks about live data, news, companies, or anything recent, call the web_search tool.
- If the query contains relative time expressions ("this year", "recently"), call current_time first to resolve them, then build a search query with concrete dates.
- After using tools, answer accurately and concisely based on the results.
- If the search results are insufficient or irrelevant, say so honestly instead of guessing.`

// WithToolGuidance merges a caller-supplied system prompt with the tool
// usage instructions, keeping the caller's persona while still steering
// tool calls.
func WithToolGuidance(custom string) string {
	if custom == "" {
		return SystemPrompt
	}
	return custom + "\n\n[Tool usage]\n" + SystemPrompt
}
