package diagnosis

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubRenderer struct {
	doc []byte
	err error
	got Result
}

func (s *stubRenderer) Render(_ uuid.UUID, res Result) ([]byte, error) {
	s.got = res
	return s.doc, s.err
}

func newTestRouter(t *testing.T, rnd Source, rr ReportRenderer) http.Handler {
	t.Helper()
	log := logrus.New()
	log.SetOutput(io.Discard)

	h := NewHandler(newTestService(t, rnd, noDelay()), rr, logrus.NewEntry(log))
	r := chi.NewRouter()
	r.Route("/api", func(r chi.Router) {
		RegisterRoutes(r, h)
	})
	return r
}

func TestHandler_PredictShape(t *testing.T) {
	router := newTestRouter(t, NewSource(), &stubRenderer{})

	for i := 0; i < 50; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/predict", strings.NewReader(`{"image":"data:image/png;base64,AAAA"}`))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
		_, err := uuid.Parse(rec.Header().Get(ScanIDHeader))
		assert.NoError(t, err)

		var body map[string]json.RawMessage
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.ElementsMatch(t, []string{"disease", "confidence", "status", "data"}, keys(body))

		var data map[string]json.RawMessage
		require.NoError(t, json.Unmarshal(body["data"], &data))
		assert.ElementsMatch(t,
			[]string{"name", "overview", "causes", "symptoms", "precautions", "doctor_advice", "recommendation"},
			keys(data))
		assert.JSONEq(t, string(body["disease"]), string(data["name"]))
	}
}

func TestHandler_PredictScenario(t *testing.T) {
	router := newTestRouter(t, fixedSource{index: 4, value: 0.91}, &stubRenderer{})

	req := httptest.NewRequest(http.MethodPost, "/api/predict", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var res Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, "Normal", res.Disease)
	assert.Equal(t, 0.91, res.Confidence)
	assert.Equal(t, "Healthy", res.Status)
	assert.Equal(t, "Eyes look healthy. Maintain regular checkups.", res.Data.Recommendation)
	assert.Contains(t, rec.Body.String(), `"confidence":0.91`)
}

func TestHandler_PredictClientGone(t *testing.T) {
	router := newTestRouter(t, NewSource(), &stubRenderer{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	req := httptest.NewRequest(http.MethodPost, "/api/predict", nil).WithContext(ctx)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.False(t, rec.Flushed)
	assert.Empty(t, rec.Body.String())
	assert.Empty(t, rec.Header().Get(ScanIDHeader))
}

func TestHandler_PredictRejectsGet(t *testing.T) {
	router := newTestRouter(t, NewSource(), &stubRenderer{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/predict", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestHandler_PredictReport(t *testing.T) {
	rr := &stubRenderer{doc: []byte("%PDF-1.4 stub")}
	router := newTestRouter(t, fixedSource{index: 1, value: 0.87}, rr)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/predict/report", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	scanID := rec.Header().Get(ScanIDHeader)
	assert.Equal(t, `attachment; filename="report_`+scanID+`.pdf"`, rec.Header().Get("Content-Disposition"))
	assert.Equal(t, "%PDF-1.4 stub", rec.Body.String())
	assert.Equal(t, "Glaucoma", rr.got.Disease)
	assert.Equal(t, StatusDetected, rr.got.Status)
}

func TestHandler_PredictReportFailure(t *testing.T) {
	router := newTestRouter(t, NewSource(), &stubRenderer{err: errors.New("no font")})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/predict/report", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"report rendering failed"}`, rec.Body.String())
}

func TestHandler_ListConditions(t *testing.T) {
	router := newTestRouter(t, NewSource(), &stubRenderer{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/conditions", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var views []ConditionView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &views))
	require.Len(t, views, 5)
	assert.Equal(t, "Cataract", views[0].Name)
	assert.InDelta(t, 0.15, views[0].Probability, 1e-9)
	assert.Equal(t, "Normal", views[4].Data.Name)
	assert.InDelta(t, 0.40, views[4].Weight, 1e-9)
}

func keys(m map[string]json.RawMessage) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
