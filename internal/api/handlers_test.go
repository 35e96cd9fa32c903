// GameHoard - Game Library Import and Catalog Reconciliation
// Copyright 2026 GameHoard contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/gamehoard/gamehoard

package api

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/gamehoard/gamehoard/internal/auth"
	"github.com/gamehoard/gamehoard/internal/catalog"
	"github.com/gamehoard/gamehoard/internal/config"
	"github.com/gamehoard/gamehoard/internal/database"
	"github.com/gamehoard/gamehoard/internal/ingest"
	"github.com/gamehoard/gamehoard/internal/models"
)

// testServer bundles the wired application over an in-memory database.
type testServer struct {
	srv *httptest.Server
	db  *database.DB
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	db, err := database.NewInMemory()
	if err != nil {
		t.Fatalf("open in-memory database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	cfg := &config.Config{
		Import: config.ImportConfig{
			MaxBatchEntries:   10000,
			RateLimitRequests: 1000,
			RateLimitWindow:   time.Hour,
		},
		Security: config.SecurityConfig{CORSOrigins: []string{"*"}},
	}

	resolver := catalog.NewResolver(db)
	importer := ingest.NewImporter(
		ingest.NewReconciler(db),
		ingest.NewProjector(db),
		ingest.NewSweeper(db),
		resolver,
		db,
		nil,
	)
	handler := NewHandler(cfg, db, importer, resolver, auth.NewTokenManager(db), nil, nil)

	srv := httptest.NewServer(handler.Router())
	t.Cleanup(srv.Close)

	return &testServer{srv: srv, db: db}
}

// bootstrap creates an account and a device, returning the device token.
func (ts *testServer) bootstrap(t *testing.T) (accountID uuid.UUID, token string) {
	t.Helper()

	resp := ts.post(t, "/api/v1/accounts", "", map[string]interface{}{
		"owner_id":     uuid.New().String(),
		"provider":     "playnite",
		"account_name": "main-library",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create account: status %d", resp.StatusCode)
	}
	var accountEnvelope struct {
		Data models.ExternalAccount `json:"data"`
	}
	decodeBody(t, resp, &accountEnvelope)
	accountID = accountEnvelope.Data.ID

	resp = ts.post(t, fmt.Sprintf("/api/v1/accounts/%s/devices", accountID), "", map[string]interface{}{
		"name": "gaming-desktop",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("register device: status %d", resp.StatusCode)
	}
	var deviceEnvelope struct {
		Data struct {
			Token string `json:"token"`
		} `json:"data"`
	}
	decodeBody(t, resp, &deviceEnvelope)
	if deviceEnvelope.Data.Token == "" {
		t.Fatal("no device token in registration response")
	}
	return accountID, deviceEnvelope.Data.Token
}

func (ts *testServer) post(t *testing.T, path, token string, body interface{}) *http.Response {
	t.Helper()

	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal request: %v", err)
	}
	req, err := http.NewRequest(http.MethodPost, ts.srv.URL+path, bytes.NewReader(payload))
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := ts.srv.Client().Do(req)
	if err != nil {
		t.Fatalf("request %s: %v", path, err)
	}
	return resp
}

func (ts *testServer) get(t *testing.T, path, token string) *http.Response {
	t.Helper()

	req, err := http.NewRequest(http.MethodGet, ts.srv.URL+path, nil)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := ts.srv.Client().Do(req)
	if err != nil {
		t.Fatalf("request %s: %v", path, err)
	}
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, dst interface{}) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

func playniteExport(games ...map[string]interface{}) map[string]interface{} {
	return map[string]interface{}{
		"aggregator": "playnite",
		"exportedAt": "2026-08-25T10:00:00Z",
		"games":      games,
	}
}

func steamGamePayload(name, gameID string) map[string]interface{} {
	return map[string]interface{}{
		"playniteDatabaseId":       uuid.New().String(),
		"name":                     name,
		"playtimeSeconds":          3600,
		"installed":                true,
		"originalProviderPluginId": "cb91dfc9-b977-43bf-8e70-55f46e410fab",
		"originalProviderName":     "Steam",
		"originalProviderGameId":   gameID,
	}
}

func TestHealthz(t *testing.T) {
	ts := newTestServer(t)

	resp := ts.get(t, "/api/v1/healthz", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var envelope struct {
		Status string `json:"status"`
	}
	decodeBody(t, resp, &envelope)
	if envelope.Status != "success" {
		t.Errorf("status = %q, want success", envelope.Status)
	}
}

func TestImportRequiresAuth(t *testing.T) {
	ts := newTestServer(t)

	resp := ts.post(t, "/api/v1/import/playnite", "", playniteExport(steamGamePayload("Hades", "1145360")))
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", resp.StatusCode)
	}
}

func TestImportEndToEnd(t *testing.T) {
	ts := newTestServer(t)
	_, token := ts.bootstrap(t)

	resp := ts.post(t, "/api/v1/import/playnite", token,
		playniteExport(
			steamGamePayload("Hades", "1145360"),
			steamGamePayload("Celeste", "504230"),
		))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var envelope struct {
		Data models.ImportResult `json:"data"`
	}
	decodeBody(t, resp, &envelope)

	counts := envelope.Data.Counts
	if counts.Received != 2 || counts.Created != 2 {
		t.Errorf("counts = %+v, want received=2 created=2", counts)
	}

	// Replay is idempotent: nothing changes the second time.
	resp = ts.post(t, "/api/v1/import/playnite", token,
		playniteExport(
			steamGamePayload("Hades", "1145360"),
			steamGamePayload("Celeste", "504230"),
		))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("replay status = %d, want 200", resp.StatusCode)
	}
	decodeBody(t, resp, &envelope)
	// The same Steam IDs resolve to the same entries, so nothing is
	// created; the replay games carry fresh playniteDatabaseId values
	// but identity comes from the provider identity pair.
	if envelope.Data.Counts.Created != 0 {
		t.Errorf("replay created = %d, want 0", envelope.Data.Counts.Created)
	}
}

func TestImportValidationCollectsAllViolations(t *testing.T) {
	ts := newTestServer(t)
	_, token := ts.bootstrap(t)

	// Three violations at once: bad aggregator, missing exportedAt, and
	// a game without a name.
	resp := ts.post(t, "/api/v1/import/playnite", token, map[string]interface{}{
		"aggregator": "steam",
		"games": []map[string]interface{}{
			{
				"playniteDatabaseId":       uuid.New().String(),
				"originalProviderPluginId": "cb91dfc9-b977-43bf-8e70-55f46e410fab",
				"originalProviderName":     "Steam",
			},
		},
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}

	var envelope struct {
		Error struct {
			Code    string                 `json:"code"`
			Details map[string]interface{} `json:"details"`
		} `json:"error"`
	}
	decodeBody(t, resp, &envelope)

	if envelope.Error.Code != "VALIDATION_ERROR" {
		t.Errorf("code = %q, want VALIDATION_ERROR", envelope.Error.Code)
	}
	fields, ok := envelope.Error.Details["fields"].([]interface{})
	if !ok {
		t.Fatalf("details.fields missing, details = %v", envelope.Error.Details)
	}
	if len(fields) < 3 {
		t.Errorf("got %d violations, want at least 3 reported together", len(fields))
	}
}

func TestImportRejectsOversizedBatch(t *testing.T) {
	ts := newTestServer(t)
	_, token := ts.bootstrap(t)

	games := make([]map[string]interface{}, 0, 10001)
	for i := 0; i < 10001; i++ {
		games = append(games, steamGamePayload(fmt.Sprintf("Game %d", i), fmt.Sprintf("%d", i)))
	}

	resp := ts.post(t, "/api/v1/import/playnite", token, map[string]interface{}{
		"aggregator": "playnite",
		"exportedAt": "2026-08-25T10:00:00Z",
		"games":      games,
	})
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
}

func TestJobEndpointsAfterImport(t *testing.T) {
	ts := newTestServer(t)
	accountID, token := ts.bootstrap(t)

	resp := ts.post(t, "/api/v1/import/playnite", token, playniteExport(steamGamePayload("Hades", "1145360")))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("import status = %d", resp.StatusCode)
	}
	resp.Body.Close()

	resp = ts.get(t, "/api/v1/jobs?account_id="+accountID.String(), token)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("list jobs status = %d", resp.StatusCode)
	}

	var envelope struct {
		Data struct {
			Jobs []models.SyncJob `json:"jobs"`
		} `json:"data"`
	}
	decodeBody(t, resp, &envelope)

	if len(envelope.Data.Jobs) != 1 {
		t.Fatalf("jobs = %d, want 1", len(envelope.Data.Jobs))
	}
	job := envelope.Data.Jobs[0]
	if job.Status != models.SyncJobStatusCompleted {
		t.Errorf("job status = %q, want COMPLETED", job.Status)
	}
	if job.EntriesProcessed != 1 {
		t.Errorf("entries processed = %d, want 1", job.EntriesProcessed)
	}

	resp = ts.get(t, "/api/v1/jobs/"+job.ID.String(), token)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("get job status = %d", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestReviewQueueAfterFallbackImport(t *testing.T) {
	ts := newTestServer(t)
	accountID, token := ts.bootstrap(t)

	// No plugin id and no provider game id: the entry falls back to the
	// database-id key and lands in the review queue.
	resp := ts.post(t, "/api/v1/import/playnite", token, playniteExport(map[string]interface{}{
		"playniteDatabaseId":       "abc-123",
		"name":                     "Some Custom Game",
		"originalProviderPluginId": "ffffffff-0000-0000-0000-000000000000",
		"originalProviderName":     "Unknown Store",
	}))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("import status = %d", resp.StatusCode)
	}

	var importEnvelope struct {
		Data models.ImportResult `json:"data"`
	}
	decodeBody(t, resp, &importEnvelope)
	if importEnvelope.Data.Counts.NeedsReview != 1 {
		t.Errorf("needsReview = %d, want 1", importEnvelope.Data.Counts.NeedsReview)
	}

	resp = ts.get(t, "/api/v1/review", token)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("review queue status = %d", resp.StatusCode)
	}

	var reviewEnvelope struct {
		Data struct {
			Pending []models.GameExternalMapping `json:"pending"`
			Count   int                          `json:"count"`
		} `json:"data"`
	}
	decodeBody(t, resp, &reviewEnvelope)
	if reviewEnvelope.Data.Count != 1 {
		t.Fatalf("pending count = %d, want 1", reviewEnvelope.Data.Count)
	}
	if reviewEnvelope.Data.Pending[0].Status != models.MappingStatusPending {
		t.Errorf("mapping status = %q, want PENDING", reviewEnvelope.Data.Pending[0].Status)
	}

	// The imported copy carries the review flag until a human confirms
	// the mapping.
	key := "playnite-db:abc-123"
	item, err := ts.db.GetItemByProvenance(context.Background(), "playnite", accountID, key)
	if err != nil {
		t.Fatalf("item lookup: %v", err)
	}
	if !item.NeedsReview {
		t.Fatal("imported item not flagged for review")
	}

	pending := reviewEnvelope.Data.Pending[0]
	resp = ts.post(t, fmt.Sprintf("/api/v1/review/%s/resolve", pending.ID), token, map[string]interface{}{
		"release_id": pending.ReleaseID.String(),
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("resolve status = %d", resp.StatusCode)
	}
	resp.Body.Close()

	item, err = ts.db.GetItemByProvenance(context.Background(), "playnite", accountID, key)
	if err != nil {
		t.Fatalf("item lookup after resolve: %v", err)
	}
	if item.NeedsReview {
		t.Error("review flag not cleared after mapping resolution")
	}
}

func TestMergeValidation(t *testing.T) {
	ts := newTestServer(t)
	_, token := ts.bootstrap(t)

	resp := ts.post(t, "/api/v1/catalog/merge", token, map[string]interface{}{
		"kind":      "albums",
		"source_id": uuid.New().String(),
		"target_id": uuid.New().String(),
	})
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
}

func TestMetadataEndpointsDisabled(t *testing.T) {
	ts := newTestServer(t)
	_, token := ts.bootstrap(t)

	resp := ts.post(t, "/api/v1/metadata/resync", token, map[string]interface{}{})
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503 when enrichment is disabled", resp.StatusCode)
	}
}

func TestGetJobNotFound(t *testing.T) {
	ts := newTestServer(t)
	_, token := ts.bootstrap(t)

	resp := ts.get(t, "/api/v1/jobs/"+uuid.New().String(), token)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", resp.StatusCode)
	}
}
