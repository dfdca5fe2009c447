package route

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Domain prefixes for content-addressed identity (CP-1).
// Version suffix enables future algorithm migration.
const (
	DomainAttempt  = "waygate/attempt/v1"
	DomainHookCall = "waygate/hookcall/v1"
)

// hashWithDomain computes SHA-256 with domain separation.
// Format: SHA256(domain + 0x00 + data). The null byte prevents
// domain/data boundary ambiguity.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// AttemptID computes the content-addressed ID for a navigation attempt.
// Stable across restarts given the same token, endpoints and seq: replaying
// a journal reproduces identical IDs.
func AttemptID(navToken string, from, to State, seq int64) (string, error) {
	obj := map[string]any{
		"nav_token": navToken,
		"from":      from.canonicalMap(),
		"to":        to.canonicalMap(),
		"seq":       seq,
	}

	canonical, err := MarshalCanonical(obj)
	if err != nil {
		return "", fmt.Errorf("AttemptID: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainAttempt, canonical), nil
}

// HookCallID computes the content-addressed ID for one hook invocation
// within an attempt. Links to the attempt via attemptID.
func HookCallID(attemptID, nodePath, hook string, seq int64) (string, error) {
	obj := map[string]any{
		"attempt_id": attemptID,
		"node_path":  nodePath,
		"hook":       hook,
		"seq":        seq,
	}

	canonical, err := MarshalCanonical(obj)
	if err != nil {
		return "", fmt.Errorf("HookCallID: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainHookCall, canonical), nil
}
