package main

import "testing"

func TestWithMigrationsTable(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "no query",
			in:   "postgres://u:p@localhost:5432/filevault",
			want: "postgres://u:p@localhost:5432/filevault?x-migrations-table=migrations",
		},
		{
			name: "existing query",
			in:   "postgres://u:p@localhost:5432/filevault?sslmode=disable",
			want: "postgres://u:p@localhost:5432/filevault?sslmode=disable&x-migrations-table=migrations",
		},
		{
			name: "table already set",
			in:   "postgres://localhost/filevault?x-migrations-table=old",
			want: "postgres://localhost/filevault?x-migrations-table=migrations",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := withMigrationsTable(tt.in, "migrations")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("got %q, want %q", got, tt.want)
			}
		})
	}
}
