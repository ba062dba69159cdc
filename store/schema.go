package store

const schemaDDL = `
CREATE TABLE IF NOT EXISTS events (
	event_id   TEXT PRIMARY KEY,
	kind       TEXT NOT NULL,
	timestamp  DATETIME NOT NULL,
	revision   DATETIME NOT NULL,
	replaces   TEXT NOT NULL DEFAULT '',
	deleted    BOOLEAN NOT NULL DEFAULT 0,
	payload    TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_events_timestamp ON events(timestamp);
CREATE INDEX IF NOT EXISTS idx_events_replaces ON events(replaces);

CREATE TABLE IF NOT EXISTS prices (
	asset_id  TEXT NOT NULL,
	currency  TEXT NOT NULL,
	timestamp DATETIME NOT NULL,
	price     TEXT NOT NULL,
	PRIMARY KEY (asset_id, timestamp)
);

CREATE INDEX IF NOT EXISTS idx_prices_asset ON prices(asset_id);

CREATE TABLE IF NOT EXISTS snapshots (
	date    TEXT PRIMARY KEY,
	payload TEXT NOT NULL
);
`
