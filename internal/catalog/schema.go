package catalog

// Schema v1 - the full catalog. Creation order matters: libraries before
// artists, artists before albums, albums before tracks, entities before
// junction tables.
const schemaV1 = `
-- Single-row schema/version metadata
CREATE TABLE IF NOT EXISTS meta (
  version TEXT NOT NULL PRIMARY KEY,
  last_sync DATETIME
);

CREATE TABLE IF NOT EXISTS libraries (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  name TEXT NOT NULL UNIQUE,
  last_sync DATETIME
);

CREATE TABLE IF NOT EXISTS artists (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  name TEXT NOT NULL,
  sort_name TEXT NOT NULL,
  date_added DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
  origin_city TEXT,
  origin_state TEXT,
  origin_country TEXT,
  lib_id INTEGER NOT NULL REFERENCES libraries(id),
  UNIQUE (name, origin_city, origin_state, origin_country, lib_id)
);

CREATE INDEX IF NOT EXISTS idx_artists_name ON artists(name);
CREATE INDEX IF NOT EXISTS idx_artists_lib_id ON artists(lib_id);

CREATE TABLE IF NOT EXISTS albums (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  title TEXT NOT NULL,
  type TEXT NOT NULL DEFAULT 'lp'
    CHECK (type IN ('lp','ep','compilation','live','various','demo','single')),
  date_added DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
  release_date TEXT,
  original_release_date TEXT,
  recording_date TEXT,
  artist_id INTEGER NOT NULL REFERENCES artists(id) ON DELETE CASCADE,
  lib_id INTEGER NOT NULL REFERENCES libraries(id),
  UNIQUE (title, artist_id, lib_id, release_date, recording_date,
          original_release_date)
);

CREATE INDEX IF NOT EXISTS idx_albums_title ON albums(title);
CREATE INDEX IF NOT EXISTS idx_albums_artist_id ON albums(artist_id);
CREATE INDEX IF NOT EXISTS idx_albums_lib_id ON albums(lib_id);

CREATE TABLE IF NOT EXISTS tracks (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  path TEXT NOT NULL,
  size_bytes INTEGER NOT NULL,
  ctime DATETIME NOT NULL,
  mtime DATETIME NOT NULL,
  date_added DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
  time_secs REAL NOT NULL,
  title TEXT NOT NULL,
  track_num INTEGER,
  track_total INTEGER,
  media_num INTEGER,
  media_total INTEGER,
  bit_rate INTEGER,
  variable_bit_rate INTEGER DEFAULT 0,
  metadata_format TEXT NOT NULL,
  artist_id INTEGER NOT NULL REFERENCES artists(id) ON DELETE CASCADE,
  album_id INTEGER REFERENCES albums(id) ON DELETE CASCADE,
  lib_id INTEGER NOT NULL REFERENCES libraries(id),
  UNIQUE (path, lib_id)
);

CREATE INDEX IF NOT EXISTS idx_tracks_title ON tracks(title);
CREATE INDEX IF NOT EXISTS idx_tracks_artist_id ON tracks(artist_id);
CREATE INDEX IF NOT EXISTS idx_tracks_album_id ON tracks(album_id);
CREATE INDEX IF NOT EXISTS idx_tracks_lib_id ON tracks(lib_id);

CREATE TABLE IF NOT EXISTS tags (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  name TEXT NOT NULL,
  lib_id INTEGER NOT NULL REFERENCES libraries(id),
  UNIQUE (name, lib_id)
);

CREATE TABLE IF NOT EXISTS images (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  role TEXT NOT NULL
    CHECK (role IN ('front','back','misc','logo','artist','live')),
  mime_type TEXT NOT NULL,
  md5 TEXT NOT NULL,
  size INTEGER NOT NULL,
  description TEXT NOT NULL DEFAULT '',
  data BLOB NOT NULL
);

-- Junction tables
CREATE TABLE IF NOT EXISTS artist_tags (
  artist_id INTEGER REFERENCES artists(id) ON DELETE CASCADE,
  tag_id INTEGER REFERENCES tags(id) ON DELETE CASCADE,
  PRIMARY KEY (artist_id, tag_id)
);

CREATE TABLE IF NOT EXISTS album_tags (
  album_id INTEGER REFERENCES albums(id) ON DELETE CASCADE,
  tag_id INTEGER REFERENCES tags(id) ON DELETE CASCADE,
  PRIMARY KEY (album_id, tag_id)
);

CREATE TABLE IF NOT EXISTS track_tags (
  track_id INTEGER REFERENCES tracks(id) ON DELETE CASCADE,
  tag_id INTEGER REFERENCES tags(id) ON DELETE CASCADE,
  PRIMARY KEY (track_id, tag_id)
);

CREATE TABLE IF NOT EXISTS artist_images (
  artist_id INTEGER REFERENCES artists(id) ON DELETE CASCADE,
  img_id INTEGER REFERENCES images(id) ON DELETE CASCADE,
  PRIMARY KEY (artist_id, img_id)
);

CREATE TABLE IF NOT EXISTS album_images (
  album_id INTEGER REFERENCES albums(id) ON DELETE CASCADE,
  img_id INTEGER REFERENCES images(id) ON DELETE CASCADE,
  PRIMARY KEY (album_id, img_id)
);
`

// dropOrder lists tables in reverse-FK order for init --drop-all.
var dropOrder = []string{
	"album_images",
	"artist_images",
	"track_tags",
	"album_tags",
	"artist_tags",
	"images",
	"tags",
	"tracks",
	"albums",
	"artists",
	"libraries",
	"meta",
}

// coreTables are checked for existence when deciding whether the schema is
// present at all.
var coreTables = []string{
	"meta", "libraries", "artists", "albums", "tracks", "tags", "images",
}
