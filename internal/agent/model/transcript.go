package model

import (
	"fmt"
	"strings"

	"github.com/nash-core-poc/server/internal/physics"
)

// Transcript entry tags.
const (
	ThoughtPrefix     = "Theorist thought: "
	ObservationPrefix = "System Observation: "
	ErrorPrefix       = "Error: "
)

// Fixed transcript and answer texts.
const (
	MsgInvalidJSON        = "Error: Theorist produced invalid JSON."
	MsgUnknownAction      = "Error: Theorist returned an unknown action."
	MsgDuplicateRefused   = "Error: Simulation already performed; refusing to run again."
	MsgDuplicateAnswer    = "Error: Simulation already performed; provide the audit instead."
	msgStepLimitFormat    = "Error: Max steps (%d) reached without a final answer."
	msgAdvisorUnavailable = "Error: advisory service unavailable: %v"
	msgRunCancelled       = "Error: run cancelled: %v"
	msgRunFailed          = "Error: %v"
)

func StepLimitMessage(maxSteps int) string {
	return fmt.Sprintf(msgStepLimitFormat, maxSteps)
}

func AdvisorUnavailableMessage(err error) string {
	return fmt.Sprintf(msgAdvisorUnavailable, err)
}

func CancelledMessage(err error) string {
	return fmt.Sprintf(msgRunCancelled, err)
}

func FailedMessage(err error) string {
	return fmt.Sprintf(msgRunFailed, err)
}

func Thought(decision string) string {
	return ThoughtPrefix + decision
}

func Observation(res physics.Result) string {
	return ObservationPrefix + res.String()
}

func IsObservation(entry string) bool {
	return strings.HasPrefix(entry, ObservationPrefix)
}

// HasObservation reports whether the estimator already ran in this transcript.
func HasObservation(history []string) bool {
	for _, e := range history {
		if IsObservation(e) {
			return true
		}
	}
	return false
}

// LatestObservation re-parses the most recent observation payload.
func LatestObservation(history []string) (physics.Result, bool) {
	for i := len(history) - 1; i >= 0; i-- {
		if !IsObservation(history[i]) {
			continue
		}
		res, err := physics.ParseObservation(strings.TrimPrefix(history[i], ObservationPrefix))
		if err != nil {
			return physics.Result{}, false
		}
		return res, true
	}
	return physics.Result{}, false
}
