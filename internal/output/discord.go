package output

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/rsilvagit/go-jobboard/internal/model"
)

// Discord rejects messages over 2000 characters.
const discordLimit = 1900

// DiscordWriter posts new jobs to a channel webhook.
type DiscordWriter struct {
	webhookURL string
	client     *http.Client
}

// NewDiscordWriter posts to webhookURL.
func NewDiscordWriter(webhookURL string) *DiscordWriter {
	return &DiscordWriter{
		webhookURL: webhookURL,
		client:     &http.Client{Timeout: notifyTimeout},
	}
}

// WriteJobs sends nothing for an empty list.
func (dw *DiscordWriter) WriteJobs(jobs []model.Job) error {
	if len(jobs) == 0 {
		return nil
	}

	entries := make([]string, len(jobs))
	for i, j := range jobs {
		entries[i] = discordEntry(i+1, j)
	}
	header := fmt.Sprintf("**%d new job(s):**\n\n", len(jobs))

	for _, msg := range splitMessages(header, entries, discordLimit) {
		payload := struct {
			Content string `json:"content"`
		}{msg}
		if err := postJSON(dw.client, "discord", dw.webhookURL, payload, "message"); err != nil {
			return err
		}
	}
	return nil
}

func discordEntry(n int, j model.Job) string {
	var b strings.Builder
	fmt.Fprintf(&b, "**%d. %s**\n", n, j.Title)
	for _, f := range jobFacts(j) {
		fmt.Fprintf(&b, "> %s: %s\n", f[0], f[1])
	}
	if j.ApplyURL != "" {
		fmt.Fprintf(&b, "> [View job](<%s>)\n", j.ApplyURL)
	}
	b.WriteString("\n")
	return b.String()
}
