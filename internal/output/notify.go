package output

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rsilvagit/go-jobboard/internal/model"
)

// notifyTimeout bounds one chat API call.
const notifyTimeout = 15 * time.Second

// splitMessages packs header and entries into messages of at most limit
// bytes. An entry is never split across messages.
func splitMessages(header string, entries []string, limit int) []string {
	var msgs []string
	var cur strings.Builder
	cur.WriteString(header)
	for _, e := range entries {
		if cur.Len() > 0 && cur.Len()+len(e) > limit {
			msgs = append(msgs, cur.String())
			cur.Reset()
		}
		cur.WriteString(e)
	}
	if cur.Len() > 0 {
		msgs = append(msgs, cur.String())
	}
	return msgs
}

// jobFacts returns the labelled lines shared by every chat format.
func jobFacts(j model.Job) [][2]string {
	facts := [][2]string{{"Company", j.Company}, {"Location", j.Location}}
	if j.ContractType != "" {
		facts = append(facts, [2]string{"Contract", j.ContractType})
	}
	if j.SalaryMin > 0 || j.SalaryMax > 0 {
		facts = append(facts, [2]string{"Salary", salary(j.SalaryMin) + " - " + salary(j.SalaryMax)})
	}
	if !j.PostedAt.IsZero() {
		facts = append(facts, [2]string{"Posted", j.PostedAt.Format("2006-01-02")})
	}
	return facts
}

// postJSON sends payload to url. On a non-2xx answer the error carries the
// field errKey of the JSON body, which is where chat APIs put the reason.
func postJSON(client *http.Client, service, url string, payload any, errKey string) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("%s: marshaling payload: %w", service, err)
	}

	resp, err := client.Post(url, "application/json", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%s: sending message: %w", service, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var result map[string]any
		json.NewDecoder(resp.Body).Decode(&result)
		return fmt.Errorf("%s: API error %d: %v", service, resp.StatusCode, result[errKey])
	}
	return nil
}
