package server

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/usmedlab/docsearch/internal/chat"
	"github.com/usmedlab/docsearch/internal/config"
	"github.com/usmedlab/docsearch/internal/fileguard"
	"github.com/usmedlab/docsearch/internal/oracle"
	"github.com/usmedlab/docsearch/internal/sqlexec"
	"github.com/usmedlab/docsearch/internal/synthesizer"
)

type fakeSynth struct {
	result synthesizer.SynthesizedQuery
	asked  string
}

func (f *fakeSynth) Synthesize(_ context.Context, userText string) synthesizer.SynthesizedQuery {
	f.asked = userText
	return f.result
}

type fakeExec struct {
	result   *sqlexec.Result
	count    int
	countErr error
	gotSQL   string
	gotOpts  sqlexec.Options
}

func (f *fakeExec) Execute(_ context.Context, sqlText string, opts sqlexec.Options) *sqlexec.Result {
	f.gotSQL = sqlText
	f.gotOpts = opts
	if opts.Replay {
		if err := sqlexec.ValidateReplay(sqlText); err != nil {
			return &sqlexec.Result{SQL: sqlText, Error: err.Error()}
		}
	}
	return f.result
}

func (f *fakeExec) CountRecords(_ context.Context) (int, error) {
	return f.count, f.countErr
}

type fakeOracle struct {
	reply string
	err   error
}

func (f *fakeOracle) Chat(_ context.Context, _ []oracle.Message, _ oracle.Options) (string, error) {
	return f.reply, f.err
}

type testEnv struct {
	svc   *Service
	synth *fakeSynth
	exec  *fakeExec
	orc   *fakeOracle
	root  string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	cfg := config.Default()
	cfg.OracleKey = "sk-test"
	cfg.StoreDir = t.TempDir()
	cfg.StaticDir = t.TempDir()

	root := t.TempDir()
	guard, err := fileguard.New(root)
	require.NoError(t, err)

	synth := &fakeSynth{}
	exec := &fakeExec{}
	orc := &fakeOracle{}
	chats := chat.NewStore(cfg.StoreDir, orc)

	return &testEnv{
		svc:   New(cfg, synth, exec, chats, guard),
		synth: synth,
		exec:  exec,
		orc:   orc,
		root:  root,
	}
}

func (e *testEnv) post(t *testing.T, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	e.svc.Router().ServeHTTP(w, req)
	return w
}

func (e *testEnv) get(t *testing.T, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	e.svc.Router().ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestQueryMissingQuery(t *testing.T) {
	e := newTestEnv(t)

	w := e.post(t, "/query", map[string]any{"query": "   "})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "No query provided", decodeBody(t, w)["error"])
}

func TestQuerySynthesisFailureReportedInBand(t *testing.T) {
	e := newTestEnv(t)
	e.synth.result = synthesizer.SynthesizedQuery{Text: "Error: rate limited", IsError: true}

	w := e.post(t, "/query", map[string]any{"query": "all contracts"})
	assert.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, "Error: rate limited", body["error"])
	assert.Nil(t, body["sql"])
	assert.Nil(t, body["results"])
}

func TestQueryExecutionFailureReportedInBand(t *testing.T) {
	e := newTestEnv(t)
	e.synth.result = synthesizer.SynthesizedQuery{Text: "SELECT bogus FROM uml_temp"}
	e.exec.result = &sqlexec.Result{
		SQL:   "SELECT bogus FROM uml_temp",
		Error: `column "bogus" does not exist`,
	}

	w := e.post(t, "/query", map[string]any{"query": "bogus things"})
	assert.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, `column "bogus" does not exist`, body["error"])
	assert.Equal(t, "SELECT bogus FROM uml_temp", body["sql"])
	assert.Nil(t, body["results"])
}

func TestQueryHappyPath(t *testing.T) {
	e := newTestEnv(t)
	e.synth.result = synthesizer.SynthesizedQuery{Text: "SELECT id, description FROM uml_temp LIMIT 100"}
	e.exec.result = &sqlexec.Result{
		Success: true,
		SQL:     "SELECT id, description FROM uml_temp LIMIT 100",
		Columns: []string{"id", "description"},
		Rows:    [][]any{{1, strings.Repeat("x", 250)}},
		Count:   1,
	}

	w := e.post(t, "/query", map[string]any{"query": "documents"})
	assert.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, "SELECT id, description FROM uml_temp LIMIT 100", body["sql"])
	assert.EqualValues(t, 1, body["total_count"])
	assert.EqualValues(t, 1, body["returned_count"])

	results := body["results"].([]any)
	require.Len(t, results, 1)
	desc := results[0].(map[string]any)["description"].(string)
	assert.Len(t, desc, sqlexec.DescriptionPreviewLen+3)
	assert.True(t, strings.HasSuffix(desc, "..."))

	assert.False(t, e.exec.gotOpts.Unbounded)
}

func TestQueryShowAllRequestsUnbounded(t *testing.T) {
	e := newTestEnv(t)
	e.synth.result = synthesizer.SynthesizedQuery{Text: "SELECT id FROM uml_temp"}
	e.exec.result = &sqlexec.Result{
		Success: true,
		SQL:     "SELECT id FROM uml_temp",
		Columns: []string{"id"},
		Rows:    [][]any{{1}},
		Count:   1,
	}

	w := e.post(t, "/query", map[string]any{"query": "documents", "show_all": true})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, e.exec.gotOpts.Unbounded)
}

func TestRunSQLRejectsNonSelect(t *testing.T) {
	e := newTestEnv(t)

	w := e.post(t, "/run-sql", map[string]any{"sql": "DELETE FROM uml_temp"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Only SELECT queries are allowed", decodeBody(t, w)["error"])
	// Rejected before reaching the executor.
	assert.Empty(t, e.exec.gotSQL)
}

func TestRunSQLEmpty(t *testing.T) {
	e := newTestEnv(t)

	w := e.post(t, "/run-sql", map[string]any{"sql": ""})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRunSQLReturnsFullSet(t *testing.T) {
	e := newTestEnv(t)
	rows := make([][]any, 150)
	for i := range rows {
		rows[i] = []any{i}
	}
	e.exec.result = &sqlexec.Result{
		Success: true,
		SQL:     "SELECT id FROM uml_temp",
		Columns: []string{"id"},
		Rows:    rows,
		Count:   150,
	}

	w := e.post(t, "/run-sql", map[string]any{"sql": "SELECT id FROM uml_temp"})
	assert.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	assert.Len(t, body["results"].([]any), 150)
	assert.EqualValues(t, 150, body["returned_count"])
	assert.True(t, e.exec.gotOpts.Replay)
}

func TestSummaryChatValidation(t *testing.T) {
	e := newTestEnv(t)

	w := e.post(t, "/summary-chat", map[string]any{"message": "hi"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Missing files or message", decodeBody(t, w)["error"])

	w = e.post(t, "/summary-chat", map[string]any{
		"files": []map[string]any{{"filename": "a.pdf", "description": "d"}},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSummaryChatRound(t *testing.T) {
	e := newTestEnv(t)
	e.orc.reply = "These documents describe lab operations."

	w := e.post(t, "/summary-chat", map[string]any{
		"files":   []map[string]any{{"filename": "sop.pdf", "description": "Lab SOP"}},
		"message": "what do these cover?",
	})
	assert.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "These documents describe lab operations.", body["response"])
	convID := body["conversation_id"].(string)
	assert.True(t, strings.HasPrefix(convID, "conv_"))
	assert.Len(t, body["messages"].([]any), 2)

	// Follow-up on the same id accumulates history.
	w = e.post(t, "/summary-chat", map[string]any{
		"files":           []map[string]any{{"filename": "sop.pdf", "description": "Lab SOP"}},
		"message":         "anything about safety?",
		"conversation_id": convID,
	})
	assert.Equal(t, http.StatusOK, w.Code)
	body = decodeBody(t, w)
	assert.Equal(t, convID, body["conversation_id"])
	assert.Len(t, body["messages"].([]any), 4)
}

func TestSummaryChatOracleFailure(t *testing.T) {
	e := newTestEnv(t)
	e.orc.err = errors.New("oracle unavailable")

	w := e.post(t, "/summary-chat", map[string]any{
		"files":   []map[string]any{{"filename": "a.pdf", "description": "d"}},
		"message": "hello",
	})
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, false, body["success"])
	assert.Contains(t, body["error"], "oracle unavailable")
}

func TestAnalyseChatRequiresFiles(t *testing.T) {
	e := newTestEnv(t)

	w := e.post(t, "/analyse-chat", map[string]any{"message": "analyse"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "No files provided for analysis", decodeBody(t, w)["error"])

	w = e.post(t, "/analyse-chat", map[string]any{"files": []any{}, "message": "analyse"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAnalyseChatFallbackStillSucceeds(t *testing.T) {
	e := newTestEnv(t)
	e.orc.reply = "plain prose, not JSON"

	w := e.post(t, "/analyse-chat", map[string]any{
		"files": []map[string]any{{"filename": "inv.pdf", "description": "Invoices", "category": "Finance"}},
	})
	assert.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, true, body["success"])
	analysis := body["analysis"].(map[string]any)
	assert.Equal(t, "plain prose, not JSON", analysis["analysis_text"])
	assert.Empty(t, analysis["charts"])
	convID := body["conversation_id"].(string)
	assert.True(t, strings.HasPrefix(convID, "analyse_"))
}

func TestSaveChatsRejectsNonList(t *testing.T) {
	e := newTestEnv(t)

	w := e.post(t, "/save-chats", map[string]any{"chats": map[string]any{"oops": 1}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid payload; 'chats' must be a list.", decodeBody(t, w)["error"])

	w = e.post(t, "/save-chats", map[string]any{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSaveChatsThenList(t *testing.T) {
	e := newTestEnv(t)

	w := e.post(t, "/save-chats", map[string]any{
		"chats": []map[string]any{{"title": "Q2 review"}},
	})
	assert.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, true, body["saved"])
	assert.True(t, strings.HasPrefix(body["file"].(string), "chats_"))

	w = e.get(t, "/chats")
	assert.Equal(t, http.StatusOK, w.Code)
	chats := decodeBody(t, w)["chats"].([]any)
	require.Len(t, chats, 1)
}

func TestListChatsEmpty(t *testing.T) {
	e := newTestEnv(t)

	w := e.get(t, "/chats")
	assert.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	chats, ok := body["chats"].([]any)
	require.True(t, ok)
	assert.Empty(t, chats)
}

func TestOpenFileOutcomes(t *testing.T) {
	e := newTestEnv(t)

	served := filepath.Join(e.root, "doc.txt")
	require.NoError(t, os.WriteFile(served, []byte("file body"), 0o644))

	w := e.get(t, "/open-file")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Missing file path", decodeBody(t, w)["error"])

	w = e.get(t, "/open-file?path="+filepath.Join(e.root, "..", "escape.txt"))
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "Access denied for this path", decodeBody(t, w)["error"])

	w = e.get(t, "/open-file?path="+filepath.Join(e.root, "missing.txt"))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "File not found", decodeBody(t, w)["error"])

	w = e.get(t, "/open-file?path="+served)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "file body", w.Body.String())
}

func TestHealth(t *testing.T) {
	e := newTestEnv(t)
	e.exec.count = 1234

	w := e.get(t, "/health")
	assert.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "connected", body["database"])
	assert.EqualValues(t, 1234, body["total_records"])
}

func TestHealthUnreachableDatabase(t *testing.T) {
	e := newTestEnv(t)
	e.exec.countErr = errors.New("connection refused")

	w := e.get(t, "/health")
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, "unhealthy", body["status"])
	assert.Contains(t, body["error"], "connection refused")
}
