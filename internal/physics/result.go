package physics

import (
	"encoding/json"
	"fmt"
	"strings"
)

type Status string

const (
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

// Result is the outcome of one estimator invocation.
type Result struct {
	Status       Status  `json:"status"`
	K            float64 `json:"k_wmk"`
	TemperatureK float64 `json:"T_K"`
	DiameterNM   float64 `json:"D_nm"`
	Material     string  `json:"material"`
	Note         string  `json:"note"`
	Message      string  `json:"message,omitempty"`
}

// ErrorResult wraps an estimator input problem as a result.
func ErrorResult(err error) Result {
	return Result{Status: StatusError, Message: err.Error()}
}

func (r Result) OK() bool {
	return r.Status == StatusSuccess
}

type errorResultJSON struct {
	Status  Status `json:"status"`
	Message string `json:"message"`
}

type successResultJSON struct {
	Status       Status  `json:"status"`
	K            float64 `json:"k_wmk"`
	TemperatureK float64 `json:"T_K"`
	DiameterNM   float64 `json:"D_nm"`
	Material     string  `json:"material"`
	Note         string  `json:"note"`
}

// MarshalJSON emits only status and message for error results.
func (r Result) MarshalJSON() ([]byte, error) {
	if r.Status == StatusError {
		return json.Marshal(errorResultJSON{Status: r.Status, Message: r.Message})
	}
	return json.Marshal(successResultJSON{
		Status:       r.Status,
		K:            r.K,
		TemperatureK: r.TemperatureK,
		DiameterNM:   r.DiameterNM,
		Material:     r.Material,
		Note:         r.Note,
	})
}

// String is the textual form embedded in the transcript.
func (r Result) String() string {
	b, err := json.Marshal(r)
	if err != nil {
		return fmt.Sprintf(`{"status":"error","message":%q}`, err.Error())
	}
	return string(b)
}

// ParseObservation decodes the JSON payload of an observation entry.
func ParseObservation(payload string) (Result, error) {
	var r Result
	if err := json.Unmarshal([]byte(strings.TrimSpace(payload)), &r); err != nil {
		return Result{}, fmt.Errorf("parse observation: %w", err)
	}
	if r.Status != StatusSuccess && r.Status != StatusError {
		return Result{}, fmt.Errorf("parse observation: unknown status %q", r.Status)
	}
	return r, nil
}
