package output

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/rsilvagit/go-jobboard/internal/model"
)

const (
	telegramAPI   = "https://api.telegram.org"
	telegramLimit = 3800 // below the 4096 hard limit, leaves room for escapes
)

var markdownEscaper = strings.NewReplacer(
	"_", "\\_", "*", "\\*", "[", "\\[", "]", "\\]",
	"(", "\\(", ")", "\\)", "~", "\\~", "`", "\\`",
	">", "\\>", "#", "\\#", "+", "\\+", "-", "\\-",
	"=", "\\=", "|", "\\|", "{", "\\{", "}", "\\}",
	".", "\\.", "!", "\\!",
)

// TelegramWriter posts new jobs to a chat through the Bot API.
type TelegramWriter struct {
	token   string
	chatID  string
	apiBase string
	client  *http.Client
}

// NewTelegramWriter sends as the bot identified by token to chatID.
func NewTelegramWriter(token, chatID string) *TelegramWriter {
	return &TelegramWriter{
		token:   token,
		chatID:  chatID,
		apiBase: telegramAPI,
		client:  &http.Client{Timeout: notifyTimeout},
	}
}

// WriteJobs sends nothing for an empty list.
func (tw *TelegramWriter) WriteJobs(jobs []model.Job) error {
	if len(jobs) == 0 {
		return nil
	}

	entries := make([]string, len(jobs))
	for i, j := range jobs {
		entries[i] = telegramEntry(i+1, j)
	}
	header := fmt.Sprintf("*%d new job\\(s\\):*\n\n", len(jobs))

	endpoint := fmt.Sprintf("%s/bot%s/sendMessage", tw.apiBase, tw.token)
	for _, msg := range splitMessages(header, entries, telegramLimit) {
		payload := map[string]string{
			"chat_id":    tw.chatID,
			"text":       msg,
			"parse_mode": "MarkdownV2",
		}
		if err := postJSON(tw.client, "telegram", endpoint, payload, "description"); err != nil {
			return err
		}
	}
	return nil
}

func telegramEntry(n int, j model.Job) string {
	var b strings.Builder
	fmt.Fprintf(&b, "*%d\\. %s*\n", n, escapeMarkdown(j.Title))
	for _, f := range jobFacts(j) {
		fmt.Fprintf(&b, "%s: %s\n", f[0], escapeMarkdown(f[1]))
	}
	if j.ApplyURL != "" {
		fmt.Fprintf(&b, "[View job](%s)\n", j.ApplyURL)
	}
	b.WriteString("\n")
	return b.String()
}

func escapeMarkdown(s string) string {
	return markdownEscaper.Replace(s)
}
