package referrals

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"
)

// Network is the in-memory referral index.
//
// It is read-mostly: lookups take a read lock, RecordPurchase and
// Reload take the write lock. Loading is best-effort; a missing or
// malformed data file yields an empty network and lookups simply
// report not-found.
type Network struct {
	mu        sync.RWMutex
	path      string
	referrers []*Referrer
	byID      map[string]*Referrer
	tiers     map[string]TierInfo
}

// Load reads the referral data file at path. Errors are logged, not
// returned: absence of data is a normal degraded state, not a fault.
func Load(path string) *Network {
	n := &Network{
		path: path,
		byID: map[string]*Referrer{},
	}
	if err := n.Reload(); err != nil {
		slog.Warn("referral data unavailable, starting empty", "path", path, "error", err)
	}
	return n
}

// Reload re-reads the data file and swaps the index wholesale.
// Used at startup and by the file watcher.
func (n *Network) Reload() error {
	raw, err := os.ReadFile(n.path)
	if err != nil {
		return fmt.Errorf("read referral data: %w", err)
	}

	var file dataFile
	if err := json.Unmarshal(raw, &file); err != nil {
		return fmt.Errorf("parse referral data: %w", err)
	}

	byID := make(map[string]*Referrer, len(file.Referrers))
	for _, ref := range file.Referrers {
		byID[ref.ID] = ref
	}

	n.mu.Lock()
	n.referrers = file.Referrers
	n.byID = byID
	n.tiers = file.Tiers
	n.mu.Unlock()

	slog.Info("referral data loaded", "path", n.path, "referrers", len(file.Referrers))
	return nil
}

// Len returns the number of known referrers.
func (n *Network) Len() int {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return len(n.referrers)
}

// Get returns the referrer with the given id.
func (n *Network) Get(id string) (*Referrer, bool) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	ref, ok := n.byID[id]
	return ref, ok
}

// Discount returns the discount percentage for a tier, 0 if the tier
// table has no entry.
func (n *Network) Discount(tier Tier) int {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.discountLocked(tier)
}

func (n *Network) discountLocked(tier Tier) int {
	return n.tiers[string(tier)].Discount
}

// queryKind is the identifier shape of a lookup query.
type queryKind int

const (
	kindName queryKind = iota
	kindEmail
	kindPhone
)

// classify dispatches on query shape: anything with "@" is an email,
// a string that is mostly digits (>= 10 of them, > 70% of the
// space-stripped length) is a phone number, the rest is a name.
func classify(query string) queryKind {
	if strings.Contains(query, "@") {
		return kindEmail
	}
	digits := digitsOnly(query)
	compact := strings.ReplaceAll(query, " ", "")
	if len(digits) >= 10 && len(compact) > 0 &&
		float64(len(digits))/float64(len(compact)) > 0.7 {
		return kindPhone
	}
	return kindName
}

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// matches tests a single referrer's identifiers against the query,
// using only the identifier kind the query was classified as.
func matches(kind queryKind, query string, ref *Referrer) (MatchMethod, bool) {
	switch kind {
	case kindEmail:
		want := strings.ToLower(strings.TrimSpace(query))
		for _, email := range ref.Emails {
			if strings.ToLower(email) == want {
				return MethodEmail, true
			}
		}
	case kindPhone:
		want := digitsOnly(query)
		if len(want) < 10 {
			return "", false
		}
		for _, phone := range ref.Phones {
			if digitsOnly(phone) == want {
				return MethodPhone, true
			}
		}
	case kindName:
		if namesMatch(query, ref.Name) || namesMatch(query, ref.Nickname) {
			return MethodName, true
		}
	}
	return "", false
}

// Lookup resolves a query to a direct match. Referrers are scanned in
// data-file order and the first sufficient match wins, which keeps
// results deterministic when two referrers are similarly named.
func (n *Network) Lookup(query string) (*Match, bool) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, false
	}

	n.mu.RLock()
	defer n.mu.RUnlock()

	kind := classify(query)
	for _, ref := range n.referrers {
		if method, ok := matches(kind, query, ref); ok {
			return n.directMatchLocked(ref, method), true
		}
	}
	return nil, false
}

func (n *Network) directMatchLocked(ref *Referrer, method MatchMethod) *Match {
	return &Match{
		ReferrerID: ref.ID,
		Name:       ref.Name,
		Nickname:   ref.Nickname,
		Tier:       ref.Tier,
		Discount:   n.discountLocked(ref.Tier),
		Purchases:  ref.Purchases,
		MatchType:  MatchDirect,
		Method:     method,
	}
}

// LookupWithConnections resolves a query, falling back to one-hop
// relationship edges when no direct match exists. For each referrer R
// and each edge R->C the connected person C is tested with the same
// identifier dispatch; the first hit wins and is reported as a
// friend_of match connected through R.
func (n *Network) LookupWithConnections(query string) (*Match, bool) {
	if m, ok := n.Lookup(query); ok {
		return m, true
	}

	query = strings.TrimSpace(query)
	if query == "" {
		return nil, false
	}

	n.mu.RLock()
	defer n.mu.RUnlock()

	kind := classify(query)
	for _, ref := range n.referrers {
		for _, rel := range ref.Relationships {
			connected, ok := n.byID[rel.ID]
			if !ok {
				continue
			}
			method, ok := matches(kind, query, connected)
			if !ok {
				continue
			}
			return &Match{
				ReferrerID:       connected.ID,
				Name:             connected.Name,
				Nickname:         connected.Nickname,
				Tier:             TierFriendOf,
				Discount:         n.discountLocked(TierFriendOf),
				Purchases:        connected.Purchases,
				MatchType:        MatchFriendOf,
				Method:           method,
				ConnectedThrough: ref.Name,
				Relationship:     rel.Type,
			}, true
		}
	}
	return nil, false
}

// RecordPurchase increments a referrer's purchase count and applies
// tier upgrades: 10+ purchases earn ultra, 5+ move a buyer to vip.
// Tiers never downgrade. Mutates in-memory state only.
func (n *Network) RecordPurchase(id string) bool {
	n.mu.Lock()
	defer n.mu.Unlock()

	ref, ok := n.byID[id]
	if !ok {
		return false
	}

	ref.Purchases++
	switch {
	case ref.Purchases >= 10 && ref.Tier != TierUltra:
		ref.Tier = TierUltra
		slog.Info("referrer upgraded", "id", id, "tier", TierUltra, "purchases", ref.Purchases)
	case ref.Purchases >= 5 && ref.Tier == TierBuyer:
		ref.Tier = TierVIP
		slog.Info("referrer upgraded", "id", id, "tier", TierVIP, "purchases", ref.Purchases)
	}
	return true
}
