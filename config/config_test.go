package config

import "testing"

func TestBackendCascade(t *testing.T) {
	cases := []struct {
		name      string
		cfg       Config
		ephemeral string
		want      string
	}{
		{"mongo wins", Config{MongoURI: "mongodb://localhost", SQLitePath: "/tmp/x.db"}, "1", BackendMongo},
		{"sqlite when no mongo", Config{SQLitePath: "/tmp/x.db"}, "1", BackendSQLite},
		{"memory when ephemeral", Config{}, "1", BackendMemory},
		{"sqlite default", Config{}, "", BackendSQLite},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv("EVENTHORIZON_EPHEMERAL", tc.ephemeral)
			if got := tc.cfg.Backend(); got != tc.want {
				t.Fatalf("Backend() = %s, want %s", got, tc.want)
			}
		})
	}
}

func TestResolvedSQLitePath(t *testing.T) {
	if got := (Config{SQLitePath: "/data/app.db"}).ResolvedSQLitePath(); got != "/data/app.db" {
		t.Fatalf("got %s", got)
	}
	if got := (Config{}).ResolvedSQLitePath(); got != "./data/eventhorizon.db" {
		t.Fatalf("default path = %s", got)
	}
}
