// Package referrals indexes the Monger's network of known buyers and
// resolves free-text identifiers (name, email, phone) to a referrer,
// including one-hop "friend of a friend" matches.
package referrals

// Tier is a referrer's discount bracket.
type Tier string

const (
	TierBuyer Tier = "buyer"
	TierVIP   Tier = "vip"
	TierUltra Tier = "ultra"

	// TierFriendOf is synthetic: assigned to one-hop matches only,
	// never stored on a referrer.
	TierFriendOf Tier = "friend_of"
)

// Relationship is a directed edge from a referrer to a connected
// person who may themselves be a referrer.
type Relationship struct {
	ID   string `json:"id"`
	Type string `json:"type"`
}

// Referrer is a known prior buyer.
type Referrer struct {
	ID            string         `json:"id"`
	Name          string         `json:"name"`
	Nickname      string         `json:"nickname,omitempty"`
	Emails        []string       `json:"emails,omitempty"`
	Phones        []string       `json:"phones,omitempty"`
	Tier          Tier           `json:"tier"`
	Purchases     int            `json:"purchases"`
	Relationships []Relationship `json:"relationships,omitempty"`
}

// TierInfo is one entry of the tier table.
type TierInfo struct {
	Discount int `json:"discount"`
}

// dataFile is the on-disk shape of the referral data source.
type dataFile struct {
	Referrers []*Referrer         `json:"referrers"`
	Tiers     map[string]TierInfo `json:"tiers"`
}

// MatchType says whether the query hit a referrer directly or through
// a relationship edge.
type MatchType string

const (
	MatchDirect   MatchType = "direct"
	MatchFriendOf MatchType = "friend_of"
)

// MatchMethod is the identifier kind that produced the hit.
type MatchMethod string

const (
	MethodName  MatchMethod = "name"
	MethodEmail MatchMethod = "email"
	MethodPhone MatchMethod = "phone"
)

// Match is the result of a lookup. Constructed fresh per query, never
// persisted.
type Match struct {
	ReferrerID string      `json:"referrer_id"`
	Name       string      `json:"name"`
	Nickname   string      `json:"nickname,omitempty"`
	Tier       Tier        `json:"tier"`
	Discount   int         `json:"discount"`
	Purchases  int         `json:"purchases"`
	MatchType  MatchType   `json:"match_type"`
	Method     MatchMethod `json:"match_method"`

	// Set for friend_of matches only.
	ConnectedThrough string `json:"connected_through,omitempty"`
	Relationship     string `json:"relationship,omitempty"`
}
