// Package prompt assembles the message lists sent to the model provider for
// the chat-assistant and generate-insight operations.
package prompt

import (
	"fmt"
	"strings"

	"lumina-backend/internal/models"
)

// HistoryWindow is the number of prior turns kept as chat context. Older
// turns are dropped silently; there is no summarization.
const HistoryWindow = 10

// ChatMessages builds the provider message list for a chat turn: persona
// system prompt, the last HistoryWindow history messages, then the new user
// message.
func ChatMessages(message string, history []models.ProviderMessage, language string) []models.ProviderMessage {
	if len(history) > HistoryWindow {
		history = history[len(history)-HistoryWindow:]
	}

	messages := make([]models.ProviderMessage, 0, len(history)+2)
	messages = append(messages, models.ProviderMessage{
		Role:    "system",
		Content: chatSystemPrompt(language),
	})
	messages = append(messages, history...)
	messages = append(messages, models.ProviderMessage{
		Role:    "user",
		Content: message,
	})

	return messages
}

func chatSystemPrompt(language string) string {
	if language == "" {
		language = "English"
	}

	var b strings.Builder

	// Layer 1: Role
	b.WriteString("You are Lumi, a warm, empathetic, and supportive AI Journal Assistant.\n")
	b.WriteString("Your goal is to provide emotional support, listen to the user, and offer gentle guidance.\n\n")

	// Layer 2: Persona rules
	b.WriteString("**Persona Rules:**\n")
	b.WriteString("- Name: Lumi.\n")
	b.WriteString("- Tone: Friendly, calm, non-judgmental, and human-like.\n")
	b.WriteString(fmt.Sprintf("- Language: You MUST respond in the language specified by the user: %s.\n", language))
	b.WriteString("- Length: Keep responses concise (2-4 sentences) unless the user asks for a detailed explanation. Avoid long lectures.\n\n")

	// Layer 3: Safety guardrails
	b.WriteString("**Safety Guardrails (CRITICAL):**\n")
	b.WriteString("- If the user mentions self-harm, suicide, or severe mental health crisis:\n")
	b.WriteString("  - DO NOT try to treat them.\n")
	b.WriteString("  - Respond with immediate empathy and suggest professional help (in the target language).\n")
	b.WriteString("  - Example: \"I hear that you're in a lot of pain right now, and I'm concerned about you. Please reach out to a professional or a trusted person who can support you safely. You are not alone.\"\n")
	b.WriteString("- Do not provide medical diagnoses.\n\n")

	// Layer 4: Context
	b.WriteString("**Context:**\n")
	b.WriteString("- You are chatting with a user of the \"Lumina\" app (AI Journal & Mood Tracker).\n")
	b.WriteString("- Use the provided conversation history to maintain context.\n")

	return b.String()
}

// InsightMessages builds the provider message list for insight generation.
// System and user content are merged into a single user-role message because
// some chat-completion deployments reject system-role messages.
func InsightMessages(moodLevel int, journalContent, language string) []models.ProviderMessage {
	if journalContent == "" {
		journalContent = "Tidak ada catatan jurnal."
	}

	var b strings.Builder

	b.WriteString("Kamu adalah teman yang empatik dan bijaksana (Lumina).\n")
	b.WriteString("Tugasmu adalah memberikan insight singkat dan afirmasi positif berdasarkan mood dan jurnal pengguna.\n")
	b.WriteString(`Format respons harus JSON: { "insight": "...", "affirmation": "...", "suggested_action": "..." }` + "\n")
	b.WriteString(fmt.Sprintf("Gunakan %s yang hangat dan suportif.\n\n", insightLanguageName(language)))

	b.WriteString(fmt.Sprintf("Mood Level: %d/5.\n", moodLevel))
	b.WriteString(fmt.Sprintf("Journal Content: %q", journalContent))

	return []models.ProviderMessage{
		{Role: "user", Content: b.String()},
	}
}

// insightLanguageName collapses every locale to either English or Bahasa
// Indonesia. The app ships twelve locales but the insight prompt has always
// resolved to this binary mapping; kept as observed.
func insightLanguageName(language string) string {
	if language == "en" {
		return "English"
	}
	return "Bahasa Indonesia"
}
