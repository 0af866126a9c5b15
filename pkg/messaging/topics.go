package messaging

// ChangeTopic names a rabbit exchange/queue pair used by the storefront.
type ChangeTopic string

const (
	// TopicTracking carries behavioural events (sessions, searches, cart
	// mutations, favorites, logins).
	TopicTracking ChangeTopic = "tracking"
	// TopicCatalogChange signals that the upstream catalog changed and
	// running storefronts should reload it.
	TopicCatalogChange ChangeTopic = "catalog_change"
)
