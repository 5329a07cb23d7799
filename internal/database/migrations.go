package database

type migration struct {
	id   int
	name string
	sql  string
}

var migrations = []migration{
	{
		id:   1,
		name: "initial_schema",
		sql: `
			-- Maps table: one generated map per row, tiles stored as export JSON
			CREATE TABLE maps (
				id TEXT PRIMARY KEY,
				name TEXT NOT NULL,
				width INTEGER NOT NULL,
				height INTEGER NOT NULL,
				seed INTEGER NOT NULL,
				generator INTEGER NOT NULL,
				requested_generator INTEGER NOT NULL,
				num_continents INTEGER NOT NULL,
				params_json TEXT NOT NULL,
				map_json TEXT NOT NULL,
				created_at DATETIME DEFAULT CURRENT_TIMESTAMP
			);
			CREATE INDEX idx_maps_created ON maps(created_at);

			-- Start positions: one row per player slot
			CREATE TABLE map_starts (
				map_id TEXT NOT NULL,
				slot INTEGER NOT NULL,
				x INTEGER NOT NULL,
				y INTEGER NOT NULL,
				continent INTEGER NOT NULL,
				PRIMARY KEY (map_id, slot),
				FOREIGN KEY (map_id) REFERENCES maps(id) ON DELETE CASCADE
			);
		`,
	},
	{
		id:   2,
		name: "add_diagnostics",
		sql: `
			-- Diagnostics: state of runs that could not place players
			CREATE TABLE diagnostics (
				id TEXT PRIMARY KEY,
				seed INTEGER NOT NULL,
				cause TEXT NOT NULL,
				params_json TEXT NOT NULL,
				map_json TEXT NOT NULL,
				created_at DATETIME DEFAULT CURRENT_TIMESTAMP
			);
		`,
	},
}
