// Package configs manages stylevault's configuration and on-disk layout.
//
// Configuration is a single TOML file, by default at:
//
//	<user config dir>/stylevault/config.toml
//
// # Configuration
//
//	[store]
//	data_dir = "/srv/stylevault"     # optional
//
//	[crypto]
//	max_concurrent_ops = 4           # RSA keygen / PBKDF2 admitted at once
//	queue_timeout = "30s"            # wait for a free slot
//
//	[assignment]
//	default_max_assignments = 10     # cap for stylists added without --max
//
// A missing file, or a missing field, falls back to Default().
//
// # Data Layout
//
// Stores live under the data directory ($XDG_DATA_HOME/stylevault unless
// overridden):
//
//	registry/public_keys/<id>.pub
//	registry/private_keys/<id>.key
//	designs/<design id>.json
//	stylists.toml
//	audit.jsonl
//
// Design and user IDs are random UUIDs from GenerateDesignID and GenerateUserID.
package configs
