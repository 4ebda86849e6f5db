package domain

import "strings"

// Processor failure messages are free text; map known fragments to a
// message fit for the paying user.
var failureReasons = []struct {
	fragment string
	reason   string
}{
	{"insufficient", "The paying account has insufficient balance."},
	{"declined", "The payment was declined."},
	{"timeout", "The approval request expired before it was answered."},
	{"cancel", "The payment was cancelled on the paying device."},
	{"invalid", "The payment details were rejected as invalid."},
}

const genericFailureReason = "The payment could not be completed."

// FailureReason extracts a human-readable reason from the processor's
// free-text message.
func FailureReason(message string) string {
	normalized := strings.ToLower(message)
	for _, candidate := range failureReasons {
		if strings.Contains(normalized, candidate.fragment) {
			return candidate.reason
		}
	}
	return genericFailureReason
}
