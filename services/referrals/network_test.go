package referrals

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeDataFile(t *testing.T, file dataFile) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "referrals.json")
	raw, err := json.Marshal(file)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, raw, 0644))
	return path
}

func testNetwork(t *testing.T) *Network {
	t.Helper()
	return Load(writeDataFile(t, dataFile{
		Referrers: []*Referrer{
			{
				ID:        "ref_001",
				Name:      "John Smith",
				Nickname:  "Smitty",
				Emails:    []string{"jane@example.com", "jsmith@work.com"},
				Phones:    []string{"5035550100"},
				Tier:      TierVIP,
				Purchases: 6,
				Relationships: []Relationship{
					{ID: "ref_002", Type: "sister"},
				},
			},
			{
				ID:        "ref_002",
				Name:      "Mara Delgado",
				Emails:    []string{"mara@delgado.net"},
				Phones:    []string{"(971) 555-0199"},
				Tier:      TierBuyer,
				Purchases: 2,
			},
		},
		Tiers: map[string]TierInfo{
			"buyer":     {Discount: 5},
			"vip":       {Discount: 15},
			"ultra":     {Discount: 25},
			"friend_of": {Discount: 5},
		},
	}))
}

func TestLookup_EmailCaseInsensitive(t *testing.T) {
	n := testNetwork(t)

	m, ok := n.Lookup("Jane@Example.com")
	require.True(t, ok)
	assert.Equal(t, "ref_001", m.ReferrerID)
	assert.Equal(t, MatchDirect, m.MatchType)
	assert.Equal(t, MethodEmail, m.Method)
	assert.Equal(t, 15, m.Discount)
}

func TestLookup_PhoneIgnoresFormatting(t *testing.T) {
	n := testNetwork(t)

	m, ok := n.Lookup("(503) 555-0100")
	require.True(t, ok)
	assert.Equal(t, "ref_001", m.ReferrerID)
	assert.Equal(t, MethodPhone, m.Method)

	// Stored number is formatted, query is bare digits.
	m, ok = n.Lookup("9715550199")
	require.True(t, ok)
	assert.Equal(t, "ref_002", m.ReferrerID)
}

func TestLookup_PhoneTooShort(t *testing.T) {
	n := testNetwork(t)

	// Nine digits is below the phone floor; falls through to name
	// matching and finds nothing.
	_, ok := n.Lookup("503555010")
	assert.False(t, ok)
}

func TestLookup_FuzzyName(t *testing.T) {
	n := testNetwork(t)

	m, ok := n.Lookup("jon smith")
	require.True(t, ok)
	assert.Equal(t, "ref_001", m.ReferrerID)
	assert.Equal(t, MethodName, m.Method)

	_, ok = n.Lookup("bob jones")
	assert.False(t, ok)
}

func TestLookup_Nickname(t *testing.T) {
	n := testNetwork(t)

	m, ok := n.Lookup("smitty")
	require.True(t, ok)
	assert.Equal(t, "ref_001", m.ReferrerID)
}

func TestLookup_EmptyQuery(t *testing.T) {
	n := testNetwork(t)

	_, ok := n.Lookup("   ")
	assert.False(t, ok)
	_, ok = n.LookupWithConnections("")
	assert.False(t, ok)
}

func TestLookupWithConnections_PrefersDirect(t *testing.T) {
	n := testNetwork(t)

	// ref_002 is both a referrer and a connection of ref_001; the
	// direct listing wins.
	m, ok := n.LookupWithConnections("mara@delgado.net")
	require.True(t, ok)
	assert.Equal(t, MatchDirect, m.MatchType)
	assert.Equal(t, TierBuyer, m.Tier)
}

func TestLookupWithConnections_FriendOf(t *testing.T) {
	// The connected person lives in the id index but not in the direct
	// scan list, so she is only reachable through the edge.
	bea := &Referrer{
		ID:        "ref_b",
		Name:      "Beatriz Park",
		Nickname:  "Bea",
		Emails:    []string{"bea@park.io"},
		Tier:      TierBuyer,
		Purchases: 3,
	}
	alice := &Referrer{
		ID:     "ref_a",
		Name:   "Alice Park",
		Emails: []string{"alice@park.io"},
		Tier:   TierUltra,
		Relationships: []Relationship{
			{ID: "ref_b", Type: "sister"},
		},
	}
	n := &Network{
		referrers: []*Referrer{alice},
		byID:      map[string]*Referrer{"ref_a": alice, "ref_b": bea},
		tiers: map[string]TierInfo{
			"ultra":     {Discount: 25},
			"buyer":     {Discount: 5},
			"friend_of": {Discount: 7},
		},
	}

	m, ok := n.LookupWithConnections("bea@park.io")
	require.True(t, ok)
	assert.Equal(t, MatchFriendOf, m.MatchType)
	assert.Equal(t, MethodEmail, m.Method)
	assert.Equal(t, "ref_b", m.ReferrerID)
	assert.Equal(t, "Beatriz Park", m.Name)
	assert.Equal(t, TierFriendOf, m.Tier)
	assert.Equal(t, 7, m.Discount)
	assert.Equal(t, "Alice Park", m.ConnectedThrough)
	assert.Equal(t, "sister", m.Relationship)

	// Fuzzy name typo resolves through the same edge.
	m, ok = n.LookupWithConnections("beatriz parks")
	require.True(t, ok)
	assert.Equal(t, MatchFriendOf, m.MatchType)
	assert.Equal(t, MethodName, m.Method)
}

func TestLookupWithConnections_DanglingEdge(t *testing.T) {
	path := writeDataFile(t, dataFile{
		Referrers: []*Referrer{
			{
				ID:     "ref_a",
				Name:   "Alice Park",
				Emails: []string{"alice@park.io"},
				Tier:   TierUltra,
				Relationships: []Relationship{
					{ID: "ref_gone", Type: "coworker"},
				},
			},
		},
		Tiers: map[string]TierInfo{
			"ultra":     {Discount: 25},
			"friend_of": {Discount: 7},
		},
	})
	n := Load(path)

	// The edge points at an id with no record; nothing resolves.
	_, ok := n.LookupWithConnections("bea@park.io")
	assert.False(t, ok)
}

func TestRecordPurchase_TierUpgrades(t *testing.T) {
	path := writeDataFile(t, dataFile{
		Referrers: []*Referrer{
			{ID: "r1", Name: "Nina Vale", Tier: TierBuyer, Purchases: 4},
			{ID: "r2", Name: "Oz Reyes", Tier: TierVIP, Purchases: 9},
			{ID: "r3", Name: "Pia Chen", Tier: TierUltra, Purchases: 20},
		},
		Tiers: map[string]TierInfo{},
	})
	n := Load(path)

	// 4 -> 5 crosses the vip line for a buyer.
	require.True(t, n.RecordPurchase("r1"))
	r1, _ := n.Get("r1")
	assert.Equal(t, TierVIP, r1.Tier)
	assert.Equal(t, 5, r1.Purchases)

	// 9 -> 10 crosses the ultra line regardless of current tier.
	require.True(t, n.RecordPurchase("r2"))
	r2, _ := n.Get("r2")
	assert.Equal(t, TierUltra, r2.Tier)

	// Already ultra: never downgrades.
	require.True(t, n.RecordPurchase("r3"))
	r3, _ := n.Get("r3")
	assert.Equal(t, TierUltra, r3.Tier)

	assert.False(t, n.RecordPurchase("nobody"))
}

func TestLoad_MissingFile(t *testing.T) {
	n := Load(filepath.Join(t.TempDir(), "does-not-exist.json"))

	assert.Zero(t, n.Len())
	_, ok := n.Lookup("jane@example.com")
	assert.False(t, ok)
	_, ok = n.LookupWithConnections("john smith")
	assert.False(t, ok)
}

func TestLoad_MalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "referrals.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

	n := Load(path)
	assert.Zero(t, n.Len())
}

func TestWatcher_ReloadsOnWrite(t *testing.T) {
	path := writeDataFile(t, dataFile{
		Referrers: []*Referrer{{ID: "r1", Name: "Nina Vale", Tier: TierBuyer}},
		Tiers:     map[string]TierInfo{},
	})
	n := Load(path)
	require.Equal(t, 1, n.Len())

	w, err := Watch(n)
	require.NoError(t, err)
	defer w.Close()

	updated, err := json.Marshal(dataFile{
		Referrers: []*Referrer{
			{ID: "r1", Name: "Nina Vale", Tier: TierBuyer},
			{ID: "r2", Name: "Oz Reyes", Tier: TierVIP},
		},
		Tiers: map[string]TierInfo{},
	})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, updated, 0644))

	assert.Eventually(t, func() bool {
		return n.Len() == 2
	}, 3*time.Second, 50*time.Millisecond)
}

func TestWatcher_KeepsPreviousDataOnBadWrite(t *testing.T) {
	path := writeDataFile(t, dataFile{
		Referrers: []*Referrer{{ID: "r1", Name: "Nina Vale", Tier: TierBuyer}},
		Tiers:     map[string]TierInfo{},
	})
	n := Load(path)

	w, err := Watch(n)
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, os.WriteFile(path, []byte("{broken"), 0644))

	// Give the debounce a chance to fire; the index must survive.
	time.Sleep(600 * time.Millisecond)
	assert.Equal(t, 1, n.Len())
	m, ok := n.Lookup("nina vale")
	require.True(t, ok)
	assert.Equal(t, "r1", m.ReferrerID)
}
