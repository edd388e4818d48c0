// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package migration_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/confkb/internal/platform/migration"
)

func TestToPgx5DSN(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"postgres://u:p@db:5432/confkb", "pgx5://u:p@db:5432/confkb"},
		{"postgresql://u:p@db/confkb?sslmode=disable", "pgx5://u:p@db/confkb?sslmode=disable"},
		{"pgx5://u:p@db/confkb", "pgx5://u:p@db/confkb"},
		{"host=db user=u", "host=db user=u"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, migration.ToPgx5DSN(tt.in))
	}
}
