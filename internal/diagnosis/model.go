package diagnosis

import "eye-diagnosis-api/internal/knowledge"

// Status labels derived from the selected condition.
const (
	StatusHealthy  = "Healthy"
	StatusDetected = "Early-stage detected"
)

// Result is the response envelope of one prediction. Disease duplicates Data.Name.
type Result struct {
	Disease    string              `json:"disease"`
	Confidence float64             `json:"confidence"`
	Status     string              `json:"status"`
	Data       knowledge.Condition `json:"data"`
}

// StatusFor maps a condition to its status label. It depends only on the condition's identity.
func StatusFor(c knowledge.Condition) string {
	if c.IsHealthy() {
		return StatusHealthy
	}
	return StatusDetected
}

func newResult(c knowledge.Condition, confidence float64) Result {
	return Result{
		Disease:    c.Name,
		Confidence: confidence,
		Status:     StatusFor(c),
		Data:       c,
	}
}
