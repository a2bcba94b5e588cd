package diagnosis

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"eye-diagnosis-api/internal/knowledge"
)

// ScanIDHeader carries the id assigned to each prediction.
const ScanIDHeader = "X-Scan-ID"

// ReportRenderer renders a prediction as a document.
// We define it here to decouple from the specific report implementation.
type ReportRenderer interface {
	Render(scanID uuid.UUID, res Result) ([]byte, error)
}

type Handler struct {
	svc    Service
	report ReportRenderer
	log    *logrus.Entry
}

func NewHandler(svc Service, report ReportRenderer, log *logrus.Entry) *Handler {
	return &Handler{svc: svc, report: report, log: log}
}

type errorResponse struct {
	Error string `json:"error"`
}

type ConditionView struct {
	Name        string              `json:"name"`
	Weight      float64             `json:"weight"`
	Probability float64             `json:"probability"`
	Data        knowledge.Condition `json:"data"`
}

// ConditionViews lists the catalog with normalized selection probabilities.
func ConditionViews(kb *knowledge.Base) []ConditionView {
	weights := kb.Weights()
	views := make([]ConditionView, kb.Len())
	for i, c := range kb.Conditions() {
		views[i] = ConditionView{
			Name:        c.Name,
			Weight:      weights[i],
			Probability: kb.Probability(i),
			Data:        c,
		}
	}
	return views
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (h *Handler) logger(r *http.Request, scanID uuid.UUID) *logrus.Entry {
	return h.log.WithFields(logrus.Fields{
		"request_id": middleware.GetReqID(r.Context()),
		"scan_id":    scanID.String(),
	})
}

// predict runs one prediction. ok is false when the response has already been handled.
func (h *Handler) predict(w http.ResponseWriter, r *http.Request, scanID uuid.UUID) (Result, bool) {
	res, err := h.svc.Predict(r.Context())
	if err != nil {
		h.logger(r, scanID).WithError(err).Error("prediction failed")
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "prediction failed"})
		return Result{}, false
	}
	if err := r.Context().Err(); err != nil {
		h.logger(r, scanID).WithError(err).Debug("client went away during prediction")
		return Result{}, false
	}
	return res, true
}

// Predict ignores the request body; any POST yields a prediction.
func (h *Handler) Predict(w http.ResponseWriter, r *http.Request) {
	scanID := uuid.New()
	res, ok := h.predict(w, r, scanID)
	if !ok {
		return
	}

	h.logger(r, scanID).WithFields(logrus.Fields{
		"disease":    res.Disease,
		"confidence": res.Confidence,
	}).Info("prediction served")

	w.Header().Set(ScanIDHeader, scanID.String())
	writeJSON(w, http.StatusOK, res)
}

func (h *Handler) PredictReport(w http.ResponseWriter, r *http.Request) {
	scanID := uuid.New()
	res, ok := h.predict(w, r, scanID)
	if !ok {
		return
	}

	doc, err := h.report.Render(scanID, res)
	if err != nil {
		h.logger(r, scanID).WithError(err).Error("report rendering failed")
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "report rendering failed"})
		return
	}

	w.Header().Set(ScanIDHeader, scanID.String())
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="report_%s.pdf"`, scanID))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(doc)
}

func (h *Handler) ListConditions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, ConditionViews(h.svc.Catalog()))
}

func RegisterRoutes(r chi.Router, h *Handler) {
	r.Post("/predict", h.Predict)
	r.Post("/predict/report", h.PredictReport)
	r.Get("/conditions", h.ListConditions)
}
