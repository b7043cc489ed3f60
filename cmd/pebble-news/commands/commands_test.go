package commands

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marshallshelly/pebble-news/pkg/apperr"
	"github.com/marshallshelly/pebble-news/pkg/migration"
)

func TestBrowseParams(t *testing.T) {
	browseTopic, browseSearch, browseSort, browseOrder, browseLimit = "cats", "mitch", "votes", "asc", 5
	t.Cleanup(func() {
		browseTopic, browseSearch, browseSort, browseOrder, browseLimit = "", "", "created_at", "desc", 10
	})

	p, err := browseParams()
	require.NoError(t, err)
	assert.Equal(t, "cats", p.Topic)
	assert.Equal(t, "mitch", p.Search)
	assert.Equal(t, "votes", p.SortBy)
	assert.Equal(t, "ASC", p.Order)
	assert.Equal(t, 5, p.Limit)
	assert.Equal(t, 1, p.Page)
}

func TestBrowseParams_Invalid(t *testing.T) {
	tests := []struct {
		name string
		set  func()
		kind apperr.Kind
	}{
		{"sort", func() { browseSort = "body" }, apperr.InvalidColumn},
		{"order", func() { browseOrder = "sideways" }, apperr.InvalidOrder},
		{"limit", func() { browseLimit = 0 }, apperr.InvalidFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			browseSort, browseOrder, browseLimit = "created_at", "desc", 10
			tt.set()
			t.Cleanup(func() { browseSort, browseOrder, browseLimit = "created_at", "desc", 10 })

			_, err := browseParams()
			assert.Equal(t, tt.kind, apperr.KindOf(err))
		})
	}
}

func TestWriteStatusTable(t *testing.T) {
	at := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	msg := "syntax error"

	var buf bytes.Buffer
	writeStatusTable(&buf, []migration.MigrationRecord{
		{Version: "20250101120000", Name: "create_news_tables", Status: migration.StatusApplied, AppliedAt: &at},
		{Version: "20250102090000", Name: "add_listing_indexes", Status: migration.StatusFailed, Error: &msg},
		{Version: "20250103090000", Name: "later", Status: migration.StatusPending},
	})

	out := buf.String()
	assert.Contains(t, out, "20250101120000")
	assert.Contains(t, out, "2025-01-01 12:00:00")
	assert.Contains(t, out, "N/A")
	assert.Contains(t, out, "Summary: 1 applied, 1 pending, 1 failed")
}
