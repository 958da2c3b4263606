package authz

// UpgradeRequiredError is returned when a free user attempts a pro feature.
type UpgradeRequiredError struct {
	Feature string
}

func (e *UpgradeRequiredError) Error() string {
	return "this feature requires a Pro subscription: " + e.Feature
}

// SubscriptionExpiredError is returned when an expired pro user attempts a
// pro feature.
type SubscriptionExpiredError struct {
	Feature   string
	ExpiredAt string
}

func (e *SubscriptionExpiredError) Error() string {
	return "your Pro subscription has expired: " + e.Feature
}
