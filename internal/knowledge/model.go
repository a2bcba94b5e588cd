package knowledge

import "slices"

// HealthySentinel is the catalog entry that maps to a "Healthy" status.
const HealthySentinel = "Normal"

// Condition is one entry of the catalog: an eye condition or the healthy baseline.
type Condition struct {
	Name           string   `json:"name" yaml:"name"`
	Overview       string   `json:"overview" yaml:"overview"`
	Causes         []string `json:"causes" yaml:"causes"`
	Symptoms       []string `json:"symptoms" yaml:"symptoms"`
	Precautions    []string `json:"precautions" yaml:"precautions"`
	DoctorAdvice   string   `json:"doctor_advice" yaml:"doctor_advice"`
	Recommendation string   `json:"recommendation" yaml:"recommendation"`
}

// IsHealthy reports whether c is the healthy sentinel.
func (c Condition) IsHealthy() bool {
	return c.Name == HealthySentinel
}

func (c Condition) clone() Condition {
	c.Causes = slices.Clone(c.Causes)
	c.Symptoms = slices.Clone(c.Symptoms)
	c.Precautions = slices.Clone(c.Precautions)
	return c
}

// Entry pairs a condition with its selection weight. Sources produce entries.
type Entry struct {
	Condition `yaml:",inline"`
	Weight    float64 `json:"weight" yaml:"weight"`
}
