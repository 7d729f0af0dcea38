package cache

import "fmt"

// systemPromptPrefixLen bounds how much of the system prompt participates in
// the fingerprint. Prompts routinely share a long common prefix across modes,
// so the first 50 characters are enough to separate them without hashing the
// full text on every call.
const systemPromptPrefixLen = 50

// Fingerprint derives the deterministic cache key for a request from the
// model id, a prefix of the system prompt, and the raw user message.
func Fingerprint(model, systemPrompt, userMessage string) string {
	prefix := systemPrompt
	if len(prefix) > systemPromptPrefixLen {
		prefix = prefix[:systemPromptPrefixLen]
	}
	return fmt.Sprintf("%x", hashBytes([]byte(model+":"+prefix+":"+userMessage)))
}

// hashBytes returns the FNV-1a hash of the input bytes.
func hashBytes(data []byte) uint64 {
	var h uint64 = 14695981039346656037 // FNV offset basis
	for _, b := range data {
		h ^= uint64(b)
		h *= 1099511628211 // FNV prime
	}
	return h
}
