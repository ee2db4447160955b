package domain_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ammerola/reorder-dashboard/internal/core/domain"
)

func TestClassifyRunway(t *testing.T) {
	tests := []struct {
		name string
		days int
		want domain.Severity
	}{
		{name: "negative_runway_is_critical", days: -1, want: domain.SeverityCritical},
		{name: "zero_is_critical", days: 0, want: domain.SeverityCritical},
		{name: "twenty_nine_is_critical", days: 29, want: domain.SeverityCritical},
		{name: "thirty_is_warning", days: 30, want: domain.SeverityWarning},
		{name: "forty_four_is_warning", days: 44, want: domain.SeverityWarning},
		{name: "forty_five_is_good", days: 45, want: domain.SeverityGood},
		{name: "large_runway_is_good", days: 400, want: domain.SeverityGood},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, domain.ClassifyRunway(tt.days))
			assert.Equal(t, tt.want, domain.InventoryRecord{NumberOfDays: tt.days}.Severity())
		})
	}
}

func TestInventoryRecord_Validate(t *testing.T) {
	tests := []struct {
		name     string
		record   domain.InventoryRecord
		errorMsg string
	}{
		{
			name:   "valid_record",
			record: domain.InventoryRecord{SKUCode: "1001003", CurrentStock: 10, AvgDailySales: 1.5, NumberOfDays: 6},
		},
		{
			name:     "missing_sku",
			record:   domain.InventoryRecord{CurrentStock: 10},
			errorMsg: "sku_code is required",
		},
		{
			name:     "negative_stock",
			record:   domain.InventoryRecord{SKUCode: "A", CurrentStock: -1},
			errorMsg: "current_stock cannot be negative",
		},
		{
			name:     "negative_sales",
			record:   domain.InventoryRecord{SKUCode: "A", AvgDailySales: -0.5},
			errorMsg: "avg_daily_sales cannot be negative",
		},
		{
			name:     "negative_suggestion",
			record:   domain.InventoryRecord{SKUCode: "A", SuggestedReorderQty: -3},
			errorMsg: "suggested_reorder_qty cannot be negative",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.record.Validate()
			if tt.errorMsg == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errorMsg)
		})
	}
}

func TestSortByRunway(t *testing.T) {
	records := []domain.InventoryRecord{
		{SKUCode: "c", NumberOfDays: 50},
		{SKUCode: "a", NumberOfDays: 10},
		{SKUCode: "b", NumberOfDays: 10},
		{SKUCode: "d", NumberOfDays: 5},
	}

	sorted := domain.SortByRunway(records)

	codes := make([]string, len(sorted))
	for i, r := range sorted {
		codes[i] = r.SKUCode
	}
	assert.Equal(t, []string{"d", "a", "b", "c"}, codes)
	assert.Equal(t, "c", records[0].SKUCode, "input must not be reordered")
}

func TestStats_Add(t *testing.T) {
	var stats domain.Stats
	for _, r := range []domain.InventoryRecord{
		{SKUCode: "a", NumberOfDays: 5, SuggestedReorderQty: 100},
		{SKUCode: "b", NumberOfDays: 35},
		{SKUCode: "c", NumberOfDays: 60, SuggestedReorderQty: 1},
	} {
		stats.Add(r)
	}

	assert.Equal(t, domain.Stats{Total: 3, Critical: 1, Warning: 1, Healthy: 1, NeedsReorder: 2}, stats)
	assert.Equal(t, stats.Total, stats.Critical+stats.Warning+stats.Healthy)
}

func TestDefaultAllowList(t *testing.T) {
	allow := domain.DefaultAllowList()

	assert.Equal(t, 22, allow.Len())
	assert.True(t, allow.Contains("1001041-A"))
	assert.True(t, allow.Contains("ACC-04"))
	assert.False(t, allow.Contains("9999999"))
	assert.Equal(t, "Sunscreen Cream", allow.Describe("1001003"))
	assert.Equal(t, "", allow.Describe("9999999"))
	assert.Same(t, allow, domain.DefaultAllowList())
}

func TestAllowList_Matches(t *testing.T) {
	allow := domain.NewAllowList(
		domain.CatalogEntry{SKUCode: "1001003", Description: "Sunscreen Cream"},
		domain.CatalogEntry{SKUCode: "ACC-02", Description: "Ice Roller"},
	)

	tests := []struct {
		name string
		sku  string
		text string
		want bool
	}{
		{name: "empty_text_matches", sku: "1001003", text: "", want: true},
		{name: "description_case_insensitive", sku: "1001003", text: "SUNSCREEN", want: true},
		{name: "code_substring", sku: "ACC-02", text: "acc", want: true},
		{name: "no_match", sku: "ACC-02", text: "cream", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, allow.Matches(tt.sku, tt.text))
		})
	}
}

func TestParseSyncKind(t *testing.T) {
	for _, k := range domain.SyncKinds() {
		got, err := domain.ParseSyncKind(string(k))
		require.NoError(t, err)
		assert.Equal(t, k, got)
	}

	_, err := domain.ParseSyncKind("payments")
	var validationErr *domain.ValidationError
	assert.True(t, errors.As(err, &validationErr))
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		fallback string
		want     string
	}{
		{
			name:     "server_message_wins",
			err:      &domain.ServerError{Op: "sync orders", StatusCode: 504, Message: "upstream timeout"},
			fallback: "Orders sync failed",
			want:     "upstream timeout",
		},
		{
			name:     "wrapped_server_message",
			err:      fmt.Errorf("trigger: %w", &domain.ServerError{StatusCode: 500, Message: "db down"}),
			fallback: "Orders sync failed",
			want:     "db down",
		},
		{
			name:     "server_error_without_message_uses_fallback",
			err:      &domain.ServerError{StatusCode: 500},
			fallback: "Inventory sync failed",
			want:     "Inventory sync failed",
		},
		{
			name:     "network_error_uses_fallback",
			err:      &domain.NetworkError{Op: "fetch", Err: errors.New("connection refused")},
			fallback: "Failed to load reorder data",
			want:     "Failed to load reorder data",
		},
		{
			name:     "validation_message",
			err:      &domain.ValidationError{Field: "file", Message: "Please select a file to upload"},
			fallback: "Upload failed",
			want:     "Please select a file to upload",
		},
		{
			name: "generic_when_no_fallback",
			err:  errors.New("boom"),
			want: domain.GenericFailureMessage,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, domain.UserMessage(tt.err, tt.fallback))
		})
	}
}
