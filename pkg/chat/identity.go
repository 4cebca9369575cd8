package chat

import (
	"strings"
)

// Identity identifies one participant on the bus as a single bit
// in a 5-bit space.
type Identity uint8

// Known participants. Bit values are pairwise disjoint powers of two.
const (
	None Identity = 0
	JZ   Identity = 0x01
	RH   Identity = 0x02
	WM   Identity = 0x04
	EH   Identity = 0x08
	PL   Identity = 0x10
)

// identityBits is the width of the identity space.
const identityBits = 5

// identityMask masks a value to the identity space.
const identityMask = (1 << identityBits) - 1

// All is the set of every known participant.
const All = RecipientSet(JZ | RH | WM | EH | PL)

var identityNames = map[Identity]string{
	None: "none",
	JZ:   "JZ",
	RH:   "RH",
	WM:   "WM",
	EH:   "EH",
	PL:   "PL",
}

// identityOrder lists participants in prompt order.
var identityOrder = []Identity{JZ, RH, WM, EH, PL}

// Identities returns the known participants in prompt order.
func Identities() []Identity {
	ids := make([]Identity, len(identityOrder))
	copy(ids, identityOrder)
	return ids
}

// FromOrdinal maps a 1-based prompt selection to an Identity.
// Out-of-range selections map to None.
func FromOrdinal(n int) Identity {
	if n < 1 || n > len(identityOrder) {
		return None
	}
	return identityOrder[n-1]
}

// IdentityByName maps a display name to an Identity, ignoring case.
func IdentityByName(name string) (Identity, bool) {
	for _, id := range identityOrder {
		if strings.EqualFold(id.String(), name) {
			return id, true
		}
	}
	return None, false
}

// IsValid reports whether the identity is exactly one known participant.
func (i Identity) IsValid() bool {
	return i != None && i&(i-1) == 0 && RecipientSet(i)&All == RecipientSet(i)
}

// String returns the display name.
func (i Identity) String() string {
	if name, ok := identityNames[i]; ok {
		return name
	}
	return "unknown"
}

// RecipientSet is a set of identities encoded as a bitmask.
type RecipientSet uint8

// Broadcast returns the set of every known participant except me.
func Broadcast(me Identity) RecipientSet {
	return All.Remove(me)
}

// Contains reports set membership.
func (s RecipientSet) Contains(i Identity) bool {
	return s&RecipientSet(i) != 0
}

// Add returns the set with i included.
func (s RecipientSet) Add(i Identity) RecipientSet {
	return s | RecipientSet(i)
}

// Remove returns the set with i excluded.
func (s RecipientSet) Remove(i Identity) RecipientSet {
	return s &^ RecipientSet(i)
}

// Union returns the union of both sets.
func (s RecipientSet) Union(o RecipientSet) RecipientSet {
	return s | o
}

// Diff returns the members of s not in o.
func (s RecipientSet) Diff(o RecipientSet) RecipientSet {
	return s &^ o
}

// IsEmpty reports whether the set has no members.
func (s RecipientSet) IsEmpty() bool {
	return s&All == 0
}

// Members returns the identities in the set, in prompt order.
func (s RecipientSet) Members() []Identity {
	var ids []Identity
	for _, i := range identityOrder {
		if s.Contains(i) {
			ids = append(ids, i)
		}
	}
	return ids
}

// String returns a comma separated list of member names.
func (s RecipientSet) String() string {
	if s.IsEmpty() {
		return "nobody"
	}
	var out string
	for _, i := range s.Members() {
		if out != "" {
			out += ","
		}
		out += i.String()
	}
	return out
}
