package metrics_test

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/playperu/jurybot/internal/festival"
	"github.com/playperu/jurybot/internal/metrics"
)

func scrape(t *testing.T, m *metrics.Metrics, update func()) string {
	t.Helper()
	rec := httptest.NewRecorder()
	m.Handler(update).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("scrape status = %d", rec.Code)
	}
	body, _ := io.ReadAll(rec.Body)
	return string(body)
}

func TestVoteAndAuthCounters(t *testing.T) {
	m := metrics.New()
	m.VoteRecorded(festival.JuryPopular)
	m.VoteRejected(festival.JuryPopular, fmt.Errorf("wrapped: %w", festival.ErrDuplicateVote))
	m.VoteRejected("", festival.ErrNotAuthorized)
	m.AuthAttempt(festival.RoleOwner, nil)
	m.AuthAttempt("", festival.ErrInvalidCredential)
	m.PersistFailed(errors.New("disk"))

	body := scrape(t, m, nil)
	for _, want := range []string{
		`jurybot_votes_total{jury="popular",result="recorded"} 1`,
		`jurybot_votes_total{jury="popular",result="duplicate"} 1`,
		`jurybot_votes_total{jury="none",result="not_authorized"} 1`,
		`jurybot_auth_attempts_total{result="ok",role="owner"} 1`,
		`jurybot_auth_attempts_total{result="invalid_credential",role="none"} 1`,
		`jurybot_persist_failures_total 1`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("scrape missing %q", want)
		}
	}
}

func TestGaugesRefreshOnScrape(t *testing.T) {
	m := metrics.New()
	body := scrape(t, m, func() { m.SetJuries(3, 2, 7) })
	for _, want := range []string{
		`jurybot_jury_members{jury="popular"} 3`,
		`jurybot_jury_members{jury="technical"} 2`,
		`jurybot_artists 7`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("scrape missing %q", want)
		}
	}
}

func TestRequestMiddleware(t *testing.T) {
	m := metrics.New()
	h := metrics.RequestMiddleware(m)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/bad" {
			http.Error(w, "nope", http.StatusBadRequest)
			return
		}
		w.Write([]byte("ok"))
	}))
	for _, p := range []string{"/ok", "/bad", "/ok"} {
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, p, nil))
	}

	body := scrape(t, m, nil)
	if !strings.Contains(body, "jurybot_http_requests_total 3") {
		t.Errorf("requests counter wrong:\n%s", body)
	}
	if !strings.Contains(body, "jurybot_http_errors_total 1") {
		t.Errorf("errors counter wrong:\n%s", body)
	}
}
