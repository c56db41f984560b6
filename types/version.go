package types

// Version is the msdev release version.
// Reported by `msdev version` and attached to build-completed notifications.
const Version = "0.4.0"

// NotificationVersion is the schema version of adapter event payloads.
// Bumped independently of Version when the payload shape changes.
const NotificationVersion = "1.0.0"
