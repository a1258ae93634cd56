package conv

// SubscriptionChecker verifies a user's membership across partner
// channels. The default implementation accepts everyone; it exists as
// the seam where real verification can be plugged in later.
type SubscriptionChecker interface {
	IsSubscribed(userID int64) (bool, error)
}

type acceptAllChecker struct{}

func (acceptAllChecker) IsSubscribed(int64) (bool, error) { return true, nil }

// AcceptAllChecker returns the stub checker that treats every user as
// subscribed.
func AcceptAllChecker() SubscriptionChecker { return acceptAllChecker{} }

// requiresSubscription re-reads the partner list on every call so that
// partner edits take effect immediately for sessions mid-flow.
func (m *Machine) requiresSubscription() (bool, error) {
	n, err := m.store.CountPartners()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
