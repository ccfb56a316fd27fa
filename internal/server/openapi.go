package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	openapi "github.com/swaggest/openapi-go"
	"github.com/swaggest/openapi-go/openapi3"

	"github.com/playperu/jurybot/internal/festival"
	"github.com/playperu/jurybot/internal/handler/health"
	"github.com/playperu/jurybot/internal/voting"
)

// ErrorResponse is returned for all error responses.
type ErrorResponse struct {
	Error string `json:"error"`
}

type webhookPath struct {
	Secret string `path:"secret" description:"Bot token."`
}

type feedQuery struct {
	Token string `query:"token" description:"Owner password, for clients that cannot set headers."`
}

func newOpenAPISpec() (*openapi3.Spec, error) {
	r := openapi3.NewReflector()
	var errs []error
	add := func(oc openapi.OperationContext) {
		if err := r.AddOperation(oc); err != nil {
			errs = append(errs, err)
		}
	}
	r.Spec.Info.Title = "Jury Bot API"
	r.Spec.Info.Version = "0.1.0"
	r.Spec.Info.WithDescription("Webhook and owner API of the festival jury voting bot.")

	// GET /healthz
	getHealthz := mustOperation(r, http.MethodGet, "/healthz")
	getHealthz.SetSummary("Health check")
	getHealthz.SetDescription("Returns the status of the document stores.")
	getHealthz.AddRespStructure(health.Report{}, openapi.WithHTTPStatus(http.StatusOK))
	getHealthz.AddRespStructure(health.Report{}, openapi.WithHTTPStatus(http.StatusServiceUnavailable))
	add(getHealthz)

	// POST /telegram/{secret}
	postUpdate := mustOperation(r, http.MethodPost, "/telegram/{secret}")
	postUpdate.SetSummary("Telegram webhook")
	postUpdate.SetDescription("Receives Bot API updates. The path segment must be the bot token.")
	postUpdate.AddReqStructure(webhookPath{})
	postUpdate.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusOK))
	postUpdate.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	postUpdate.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	add(postUpdate)

	// GET /api/owner/ranking
	getRanking := mustOperation(r, http.MethodGet, "/api/owner/ranking")
	getRanking.SetSummary("Current ranking")
	getRanking.SetDescription("Blended popular and technical averages per category. Requires the owner password as Bearer token.")
	getRanking.AddRespStructure(festival.Ranking{}, openapi.WithHTTPStatus(http.StatusOK))
	getRanking.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	add(getRanking)

	// GET /api/owner/artists
	getArtists := mustOperation(r, http.MethodGet, "/api/owner/artists")
	getArtists.SetSummary("List artists")
	getArtists.SetDescription("The competition roster. Requires the owner password as Bearer token.")
	getArtists.AddRespStructure([]festival.Artist{}, openapi.WithHTTPStatus(http.StatusOK))
	getArtists.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	add(getArtists)

	// GET /api/owner/juries
	getJuries := mustOperation(r, http.MethodGet, "/api/owner/juries")
	getJuries.SetSummary("List juries")
	getJuries.SetDescription("Jury rosters, owners and size limits. Requires the owner password as Bearer token.")
	getJuries.AddRespStructure(voting.Juries{}, openapi.WithHTTPStatus(http.StatusOK))
	getJuries.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	add(getJuries)

	// GET /api/owner/feed
	getFeed := mustOperation(r, http.MethodGet, "/api/owner/feed")
	getFeed.SetSummary("SSE voting feed")
	getFeed.SetDescription("Server-Sent Events stream of voting events. Each data line is a FeedEvent.")
	getFeed.AddReqStructure(feedQuery{})
	getFeed.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusOK),
		openapi.WithContentType("text/event-stream"))
	getFeed.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	add(getFeed)

	// GET /ws/feed
	getWSFeed := mustOperation(r, http.MethodGet, "/ws/feed")
	getWSFeed.SetSummary("WebSocket voting feed")
	getWSFeed.SetDescription("Upgrades to a WebSocket connection carrying one FeedEvent per text message.")
	getWSFeed.AddReqStructure(feedQuery{})
	getWSFeed.AddRespStructure(FeedEvent{}, openapi.WithHTTPStatus(http.StatusSwitchingProtocols))
	getWSFeed.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	add(getWSFeed)

	return r.Spec, errors.Join(errs...)
}

func mustOperation(r *openapi3.Reflector, method, path string) openapi.OperationContext {
	oc, err := r.NewOperationContext(method, path)
	if err != nil {
		panic(fmt.Sprintf("openapi: %s %s: %v", method, path, err))
	}
	return oc
}

func handleOpenAPI() http.HandlerFunc {
	spec, err := newOpenAPISpec()
	if err != nil {
		panic(fmt.Sprintf("openapi: %v", err))
	}
	data, err := json.MarshalIndent(spec, "", "  ")
	if err != nil {
		panic(fmt.Sprintf("openapi: encoding spec: %v", err))
	}

	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
	}
}
