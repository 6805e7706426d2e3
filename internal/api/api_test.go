package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/havenmind/haven-server/internal/config"
	"github.com/havenmind/haven-server/internal/model"
	"github.com/havenmind/haven-server/internal/store"
	memstore "github.com/havenmind/haven-server/internal/store/memory"
	"github.com/havenmind/haven-server/internal/webhook"
)

func newTestServer(t *testing.T, mutate func(*config.Config)) (*httptest.Server, store.Store) {
	t.Helper()
	cfg := config.NewForTesting()
	if mutate != nil {
		mutate(cfg)
	}
	st := memstore.New()
	srv := httptest.NewServer(NewRouter(cfg, st, nil, zerolog.Nop()))
	t.Cleanup(srv.Close)
	return srv, st
}

func postJSON(t *testing.T, url, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(url, "application/json", bytes.NewBufferString(body))
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, out interface{}) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

func TestWebhook_CallEnded_CreatesRecord(t *testing.T) {
	srv, _ := newTestServer(t, nil)

	body := `{"type":"call.ended","analysis":{"transcript":"hello","summary":"a call","Data":"{\"ground_emotion\":\"calm\"}"}}`
	resp := postJSON(t, srv.URL+"/api/webhooks/voice", body)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var ack map[string]bool
	decodeBody(t, resp, &ack)
	assert.True(t, ack["success"])

	var list struct {
		Calls []*model.CallRecord `json:"calls"`
		Count int                 `json:"count"`
	}
	resp = getURL(t, srv.URL+"/api/users/anonymous/calls")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeBody(t, resp, &list)

	require.Equal(t, 1, list.Count)
	rec := list.Calls[0]
	assert.Equal(t, "hello", rec.Transcript)
	assert.Equal(t, "a call", rec.Summary)
	require.NotNil(t, rec.EmotionalData)
	assert.Equal(t, "calm", rec.EmotionalData.GroundEmotion)
}

func TestWebhook_CallEndedWithoutAnalysis_StoresDiagnostic(t *testing.T) {
	srv, _ := newTestServer(t, nil)

	resp := postJSON(t, srv.URL+"/api/webhooks/voice", `{"type":"call-ended"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	var list struct {
		Calls []*model.CallRecord `json:"calls"`
	}
	resp = getURL(t, srv.URL+"/api/users/anonymous/calls")
	decodeBody(t, resp, &list)
	require.Len(t, list.Calls, 1)
	assert.Equal(t, webhook.DiagnosticSummary, list.Calls[0].Summary)
}

func TestWebhook_WrongTypedEnvelope_StoresDiagnostic(t *testing.T) {
	srv, _ := newTestServer(t, nil)

	// Valid JSON with wrong-typed envelope fields still acks and persists
	// a diagnostic record; 500 is reserved for unparsable bodies.
	bodies := []string{
		`{"type":123}`,
		`{"type":"call-ended","analysis":"nope"}`,
	}
	for _, body := range bodies {
		resp := postJSON(t, srv.URL+"/api/webhooks/voice", body)
		require.Equal(t, http.StatusOK, resp.StatusCode, body)

		var ack map[string]bool
		decodeBody(t, resp, &ack)
		assert.True(t, ack["success"], body)
	}

	var list struct {
		Calls []*model.CallRecord `json:"calls"`
	}
	resp := getURL(t, srv.URL+"/api/users/anonymous/calls")
	decodeBody(t, resp, &list)
	require.Len(t, list.Calls, len(bodies))
	for i, rec := range list.Calls {
		assert.Equal(t, webhook.DiagnosticSummary, rec.Summary)
		assert.Equal(t, bodies[i], rec.Transcript)
	}
}

func TestWebhook_InvalidJSON_Returns500(t *testing.T) {
	srv, _ := newTestServer(t, nil)

	resp := postJSON(t, srv.URL+"/api/webhooks/voice", `{not json`)
	require.Equal(t, http.StatusInternalServerError, resp.StatusCode)

	var out map[string]string
	decodeBody(t, resp, &out)
	assert.Equal(t, "Failed to process webhook", out["error"])
}

func TestWebhook_RecognizedNonEndedTypes_Return200NoRecord(t *testing.T) {
	srv, _ := newTestServer(t, nil)

	for _, typ := range []string{"call-started", "message", "transcription"} {
		resp := postJSON(t, srv.URL+"/api/webhooks/voice", `{"type":"`+typ+`"}`)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		resp.Body.Close()
	}

	var list struct {
		Count int `json:"count"`
	}
	resp := getURL(t, srv.URL+"/api/users/anonymous/calls")
	decodeBody(t, resp, &list)
	assert.Equal(t, 0, list.Count)
}

func TestWebhook_SecretRequiredWhenConfigured(t *testing.T) {
	srv, _ := newTestServer(t, func(cfg *config.Config) { cfg.WebhookSecret = "s3cret" })

	resp := postJSON(t, srv.URL+"/api/webhooks/voice", `{"type":"call-ended"}`)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()

	req, err := http.NewRequest(http.MethodPost, srv.URL+"/api/webhooks/voice", bytes.NewBufferString(`{"type":"call-ended"}`))
	require.NoError(t, err)
	req.Header.Set("X-Webhook-Secret", "s3cret")
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()
}

func TestGetCall_OwnershipEnforced(t *testing.T) {
	srv, st := newTestServer(t, nil)

	rec := &model.CallRecord{ID: "call-1", UserID: "alice", Transcript: "hi"}
	_, err := st.CallRecords().Save(context.Background(), rec)
	require.NoError(t, err)

	resp := getURL(t, srv.URL+"/api/users/alice/calls/call-1")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	// A foreign user's id behaves exactly like a missing one.
	resp = getURL(t, srv.URL+"/api/users/bob/calls/call-1")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()

	resp = getURL(t, srv.URL+"/api/users/alice/calls/no-such-call")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestListCalls_FiltersByUser(t *testing.T) {
	srv, st := newTestServer(t, nil)

	_, err := st.CallRecords().Save(context.Background(), &model.CallRecord{ID: "a1", UserID: "alice"})
	require.NoError(t, err)
	_, err = st.CallRecords().Save(context.Background(), &model.CallRecord{ID: "b1", UserID: "bob"})
	require.NoError(t, err)

	var list struct {
		Calls []*model.CallRecord `json:"calls"`
	}
	resp := getURL(t, srv.URL+"/api/users/alice/calls")
	decodeBody(t, resp, &list)
	require.Len(t, list.Calls, 1)
	assert.Equal(t, "a1", list.Calls[0].ID)
}

func TestDeleteAllCalls_GatedByConfig(t *testing.T) {
	srv, st := newTestServer(t, func(cfg *config.Config) { cfg.AllowDestructiveOps = false })

	_, err := st.CallRecords().Save(context.Background(), &model.CallRecord{ID: "a1", UserID: "alice"})
	require.NoError(t, err)

	req, err := http.NewRequest(http.MethodDelete, srv.URL+"/api/calls", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	recs, err := st.CallRecords().List(context.Background(), "alice")
	require.NoError(t, err)
	assert.Len(t, recs, 1)
}

func TestDeleteAllCalls_ClearsEveryUser(t *testing.T) {
	srv, st := newTestServer(t, nil)

	_, err := st.CallRecords().Save(context.Background(), &model.CallRecord{ID: "a1", UserID: "alice"})
	require.NoError(t, err)
	_, err = st.CallRecords().Save(context.Background(), &model.CallRecord{ID: "b1", UserID: "bob"})
	require.NoError(t, err)

	req, err := http.NewRequest(http.MethodDelete, srv.URL+"/api/calls", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	for _, user := range []string{"alice", "bob"} {
		recs, err := st.CallRecords().List(context.Background(), user)
		require.NoError(t, err)
		assert.Empty(t, recs)
	}
}

func TestMoods_RecordAndList(t *testing.T) {
	srv, _ := newTestServer(t, nil)

	resp := postJSON(t, srv.URL+"/api/users/alice/moods", `{"mood":"calm","intensity":7,"note":"after a walk"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created model.MoodEntry
	decodeBody(t, resp, &created)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "alice", created.UserID)

	resp = postJSON(t, srv.URL+"/api/users/alice/moods", `{"mood":"calm","intensity":0}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	var list struct {
		Moods []*model.MoodEntry `json:"moods"`
		Count int                `json:"count"`
	}
	resp = getURL(t, srv.URL+"/api/users/alice/moods")
	decodeBody(t, resp, &list)
	assert.Equal(t, 1, list.Count)
}

func TestStats_ReflectsStoredRecords(t *testing.T) {
	srv, st := newTestServer(t, nil)

	_, err := st.CallRecords().Save(context.Background(), &model.CallRecord{ID: "a1", UserID: "alice"})
	require.NoError(t, err)
	resp := postJSON(t, srv.URL+"/api/users/alice/moods", `{"mood":"calm","intensity":5}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	var stats model.WellnessStats
	resp = getURL(t, srv.URL+"/api/users/alice/stats")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeBody(t, resp, &stats)

	assert.Equal(t, 1, stats.CallCount)
	assert.Equal(t, 1, stats.MoodCount)
	assert.Equal(t, 60, stats.XP)
	assert.Equal(t, 1, stats.CurrentStreak)
}

func TestContacts_CRUD(t *testing.T) {
	srv, _ := newTestServer(t, nil)

	resp := postJSON(t, srv.URL+"/api/users/alice/contacts", `{"name":"Sam","phone":"+15550100","relationship":"friend"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created model.Contact
	decodeBody(t, resp, &created)
	require.NotEmpty(t, created.ID)

	resp = postJSON(t, srv.URL+"/api/users/alice/contacts", `{"name":"NoPhone"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	var list struct {
		Contacts []*model.Contact `json:"contacts"`
	}
	resp = getURL(t, srv.URL+"/api/users/alice/contacts")
	decodeBody(t, resp, &list)
	require.Len(t, list.Contacts, 1)

	// A different user cannot remove alice's contact.
	req, err := http.NewRequest(http.MethodDelete, srv.URL+"/api/users/bob/contacts/"+created.ID, nil)
	require.NoError(t, err)
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()

	req, err = http.NewRequest(http.MethodDelete, srv.URL+"/api/users/alice/contacts/"+created.ID, nil)
	require.NoError(t, err)
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp.Body.Close()
}

func TestHealth_ReportsBoundStatus(t *testing.T) {
	srv, _ := newTestServer(t, nil)

	BindServiceHealth(func() bool { return true })
	t.Cleanup(func() { BindServiceHealth(func() bool { return false }) })

	var out map[string]interface{}
	resp := getURL(t, srv.URL+"/api/health")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeBody(t, resp, &out)
	assert.Equal(t, "healthy", out["status"])
}

func getURL(t *testing.T, url string) *http.Response {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	return resp
}
