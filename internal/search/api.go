package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/rsilvagit/go-jobboard/internal/model"
)

const (
	jobsPath     = "/api/jobs"
	maxBodyBytes = 10 << 20
)

// Doer executes HTTP requests. *httpclient.Client and *http.Client both
// satisfy it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// API queries GET {baseURL}/api/jobs.
type API struct {
	client  Doer
	baseURL string
}

// NewAPI sends requests through client to baseURL.
func NewAPI(client Doer, baseURL string) *API {
	return &API{
		client:  client,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// Search fetches one page. Non-2xx answers and network failures come
// back as *TransportError.
func (a *API) Search(ctx context.Context, r Request) (*model.ResultPage, error) {
	searchURL := fmt.Sprintf("%s%s?%s", a.baseURL, jobsPath, r.Values().Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		return nil, fmt.Errorf("search: building request: %w", err)
	}
	resp, err := a.client.Do(req)
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, &TransportError{Err: fmt.Errorf("reading body: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &TransportError{Status: resp.StatusCode, Body: string(body)}
	}

	var raw apiResponse
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("search: decoding response: %w", err)
	}
	return raw.page(), nil
}

type displayName struct {
	DisplayName string `json:"display_name"`
}

type apiJob struct {
	ID           flexID      `json:"id"`
	Title        string      `json:"title"`
	Company      displayName `json:"company"`
	Location     displayName `json:"location"`
	Description  string      `json:"description"`
	Created      string      `json:"created"`
	SalaryMin    float64     `json:"salary_min"`
	SalaryMax    float64     `json:"salary_max"`
	ContractType string      `json:"contract_type"`
	RedirectURL  string      `json:"redirect_url"`
}

type apiResponse struct {
	Results []apiJob `json:"results"`
	Count   int      `json:"count"`
}

func (r apiResponse) page() *model.ResultPage {
	jobs := make([]model.Job, 0, len(r.Results))
	for _, j := range r.Results {
		jobs = append(jobs, model.Job{
			ID:           string(j.ID),
			Title:        plainText(j.Title),
			Company:      strings.TrimSpace(j.Company.DisplayName),
			Location:     strings.TrimSpace(j.Location.DisplayName),
			Description:  plainText(j.Description),
			PostedAt:     parseTime(j.Created),
			SalaryMin:    j.SalaryMin,
			SalaryMax:    j.SalaryMax,
			ContractType: j.ContractType,
			ApplyURL:     j.RedirectURL,
		})
	}
	return &model.ResultPage{Jobs: jobs, Count: max(0, r.Count)}
}

// flexID accepts ids sent either as JSON strings or numbers.
type flexID string

func (f *flexID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*f = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("search: id is neither string nor number: %s", b)
	}
	*f = flexID(n.String())
	return nil
}

var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// parseTime returns the zero time when s can't be parsed.
func parseTime(s string) time.Time {
	s = strings.TrimSpace(s)
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

// plainText strips markup the API sometimes leaves in titles and
// descriptions (<strong> highlights, <br> and the like).
func plainText(s string) string {
	if !strings.ContainsRune(s, '<') {
		return strings.Join(strings.Fields(s), " ")
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return strings.Join(strings.Fields(s), " ")
	}
	return strings.Join(strings.Fields(doc.Text()), " ")
}
