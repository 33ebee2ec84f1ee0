package synthetic

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"strings"
	"sync"

	"github.com/solvaholic/teamsmine/internal/record"
)

var sensitiveKeys = map[string]bool{
	"mri":            true,
	"displayName":    true,
	"mail":           true,
	"email":          true,
	"content":        true,
	"imDisplayName":  true,
	"from":           true,
	"conversationId": true,
	"id":             true,
}

var identifierKeys = map[string]bool{
	"id":             true,
	"mri":            true,
	"userid":         true,
	"conversationid": true,
	"messageid":      true,
}

// processSalt is shared by every unseeded Anonymizer in this process.
var processSalt = sync.OnceValue(func() []byte {
	salt := make([]byte, 16)
	if _, err := rand.Read(salt); err != nil {
		panic(fmt.Sprintf("failed to read random salt: %v", err))
	}
	return salt
})

// Anonymizer replaces identities, names, addresses and message content with
// salted hashes that keep the structural hints downstream parsing relies on:
// identity prefixes, email domains, channel and meeting markers.
//
// Output for a given input is stable across runs only when the Anonymizer
// was built with a non-zero seed. With seed 0 it is stable within the
// process.
type Anonymizer struct {
	salt []byte
}

// NewAnonymizer returns an anonymizer salted with seed, or with a random
// per-process salt when seed is 0.
func NewAnonymizer(seed int64) *Anonymizer {
	if seed == 0 {
		return &Anonymizer{salt: processSalt()}
	}
	salt := make([]byte, 8)
	binary.BigEndian.PutUint64(salt, uint64(seed))
	return &Anonymizer{salt: salt}
}

// Record anonymizes a record's value. Keys that look like identities are
// hashed as well, since stores commonly key records by MRI or conversation
// id.
func (a *Anonymizer) Record(rec record.Record) record.Record {
	key := rec.Key
	if looksLikeIdentifier(key) {
		key = a.Hash(key)
	}
	return record.Record{Key: key, Value: a.Value(rec.Value)}
}

// Value returns an anonymized deep copy of v. Map keys are never changed, so
// message maps stay keyed by message id.
func (a *Anonymizer) Value(v record.Value) record.Value {
	if v == nil {
		return nil
	}
	out := make(record.Value, len(v))
	for key, raw := range v {
		out[key] = a.field(key, raw)
	}
	return out
}

func (a *Anonymizer) field(key string, raw any) any {
	if nested, ok := record.AsValue(raw); ok {
		return map[string]any(a.Value(nested))
	}

	switch val := raw.(type) {
	case nil:
		return nil
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			if nested, ok := record.AsValue(item); ok {
				out[i] = map[string]any(a.Value(nested))
			} else {
				out[i] = item
			}
		}
		return out
	case string:
		if sensitiveKeys[key] || isIdentifierKey(key) || looksLikeIdentifier(val) {
			return a.Hash(val)
		}
		return val
	default:
		if sensitiveKeys[key] {
			return a.Hash(fmt.Sprint(val))
		}
		return val
	}
}

// Hash maps s to a synthetic value carrying the same structural prefix.
func (a *Anonymizer) Hash(s string) string {
	h := sha256.New()
	h.Write(a.salt)
	h.Write([]byte(s))
	digest := hex.EncodeToString(h.Sum(nil))[:16]

	switch {
	case strings.HasPrefix(s, "8:orgid:"):
		return "8:orgid:synth-" + digest
	case strings.HasPrefix(s, "8:"):
		return "8:synth-" + digest
	case strings.HasPrefix(s, "9:"):
		return "9:synth-" + digest
	case strings.HasPrefix(s, "19:") && strings.Contains(s, "@"):
		// Thread ids keep their kind marker and suffix so classification
		// by id stays the same.
		_, suffix, _ := strings.Cut(s, "@")
		if strings.Contains(strings.ToLower(s), "meeting_") {
			return "19:meeting_synth-" + digest + "@" + suffix
		}
		return "19:synth-" + digest + "@" + suffix
	case strings.Contains(strings.ToLower(s), "meeting_"):
		return "meeting_synth-" + digest
	case strings.Contains(s, "@thread."):
		return "19:synth-" + digest + "@thread.tacv2"
	case strings.Contains(s, "@"):
		if local, domain, ok := strings.Cut(s, "@"); ok && local != "" && domain != "" && !strings.Contains(domain, "@") {
			return "user-" + digest + "@" + domain
		}
		return "synth-" + digest + "@example.com"
	default:
		return "synth-" + digest
	}
}

func isIdentifierKey(key string) bool {
	return identifierKeys[strings.ToLower(key)] || strings.HasSuffix(key, "Id") || strings.HasSuffix(key, "ID")
}

// looksLikeIdentifier matches email addresses, MRIs and thread ids.
func looksLikeIdentifier(s string) bool {
	if strings.Contains(s, "@") && strings.Contains(s, ".") {
		return true
	}
	return strings.HasPrefix(s, "8:") || strings.HasPrefix(s, "9:")
}
