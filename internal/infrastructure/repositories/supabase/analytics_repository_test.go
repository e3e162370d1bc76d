package supabase

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/propertyease/propertyease/internal/domain/repositories"
	"github.com/propertyease/propertyease/internal/infrastructure/database/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakePostgREST serves canned JSON per table, honours the Range header and
// caps pages at maxRows like a PostgREST max-rows setting.
type fakePostgREST struct {
	mu      sync.Mutex
	tables  map[string]string
	maxRows int
	hits    []string
	queries []url.Values
}

func (f *fakePostgREST) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	table := r.URL.Path[strings.LastIndex(r.URL.Path, "/")+1:]

	f.mu.Lock()
	f.hits = append(f.hits, table)
	f.queries = append(f.queries, r.URL.Query())
	body, ok := f.tables[table]
	maxRows := f.maxRows
	f.mu.Unlock()

	var rows []json.RawMessage
	if ok {
		if err := json.Unmarshal([]byte(body), &rows); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
	}

	from, to := 0, len(rows)-1
	if rng := r.Header.Get("Range"); rng != "" {
		if _, err := fmt.Sscanf(rng, "%d-%d", &from, &to); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
	}
	if maxRows > 0 && to-from+1 > maxRows {
		to = from + maxRows - 1
	}
	if to > len(rows)-1 {
		to = len(rows) - 1
	}

	page := []json.RawMessage{}
	if from <= to {
		page = rows[from : to+1]
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(page)
}

func (f *fakePostgREST) hitCount(table string) int {
	f.mu.Lock()
	defer f.mu.Unlock()

	n := 0
	for _, hit := range f.hits {
		if hit == table {
			n++
		}
	}
	return n
}

func newTestRepository(t *testing.T, tables map[string]string) (*AnalyticsRepository, *fakePostgREST) {
	t.Helper()
	return newCappedTestRepository(t, tables, 0)
}

func newCappedTestRepository(t *testing.T, tables map[string]string, maxRows int) (*AnalyticsRepository, *fakePostgREST) {
	t.Helper()

	fake := &fakePostgREST{tables: tables, maxRows: maxRows}
	server := httptest.NewServer(fake)
	t.Cleanup(server.Close)

	repo, err := NewAnalyticsRepository(Config{URL: server.URL, APIKey: "test-anon-key"})
	require.NoError(t, err)
	return repo, fake
}

func paymentRows(n int) string {
	rows := make([]string, n)
	for i := range rows {
		rows[i] = fmt.Sprintf(`{"id":%q,"amount":10,"status":"paid","method":"cash","type":"rent","created_at":"2025-03-01T00:00:00Z"}`, uuid.NewString())
	}
	return "[" + strings.Join(rows, ",") + "]"
}

func propertyIDRows(n int) string {
	rows := make([]string, n)
	for i := range rows {
		rows[i] = fmt.Sprintf(`{"id":%q}`, uuid.NewString())
	}
	return "[" + strings.Join(rows, ",") + "]"
}

func TestNewAnalyticsRepository_RequiresCredentials(t *testing.T) {
	_, err := NewAnalyticsRepository(Config{URL: "https://example.supabase.co"})
	assert.Error(t, err)
}

func TestAnalyticsRepository_ListPayments_SortsByCreation(t *testing.T) {
	repo, _ := newTestRepository(t, map[string]string{
		"payments": `[
			{"id":"22222222-2222-2222-2222-222222222222","amount":500,"status":"pending","method":"cash","type":"rent","created_at":"2025-03-02T00:00:00Z"},
			{"id":"11111111-1111-1111-1111-111111111111","amount":"1250.50","status":"paid","method":"gcash","type":"rent","created_at":"2025-03-01T00:00:00Z"}
		]`,
	})

	payments, err := repo.ListPayments(context.Background(), repositories.SystemScope())
	require.NoError(t, err)
	require.Len(t, payments, 2)

	assert.Equal(t, "11111111-1111-1111-1111-111111111111", payments[0].ID.String())
	assert.Equal(t, "1250.5", payments[0].Amount.String())
	assert.Equal(t, models.PaymentPaid, payments[0].Status)
	assert.Equal(t, models.PaymentPending, payments[1].Status)
}

func TestAnalyticsRepository_ListMaintenanceRequests_NullableCosts(t *testing.T) {
	repo, _ := newTestRepository(t, map[string]string{
		"maintenance_requests": `[
			{"id":"33333333-3333-3333-3333-333333333333","status":"completed","priority":"high","estimated_cost":800,"actual_cost":null,
			 "created_at":"2025-03-01T00:00:00Z","updated_at":"2025-03-03T00:00:00Z"}
		]`,
	})

	requests, err := repo.ListMaintenanceRequests(context.Background(), repositories.SystemScope())
	require.NoError(t, err)
	require.Len(t, requests, 1)

	assert.True(t, requests[0].EstimatedCost.Valid)
	assert.False(t, requests[0].ActualCost.Valid)
	assert.Equal(t, models.MaintenanceCompleted, requests[0].Status)
}

func TestAnalyticsRepository_OwnerWithoutProperties(t *testing.T) {
	repo, fake := newTestRepository(t, map[string]string{
		"payments": `[{"id":"44444444-4444-4444-4444-444444444444","amount":1,"status":"paid","created_at":"2025-03-01T00:00:00Z"}]`,
	})

	payments, err := repo.ListPayments(context.Background(), repositories.OwnerScope(uuid.New()))
	require.NoError(t, err)
	assert.Empty(t, payments)
	assert.Equal(t, []string{"properties"}, fake.hits)
}

func TestAnalyticsRepository_CancelledContext(t *testing.T) {
	repo, fake := newTestRepository(t, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := repo.ListUsers(ctx, repositories.SystemScope())
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, fake.hits)
}

func TestAnalyticsRepository_ListPayments_ReadsPastRowCap(t *testing.T) {
	repo, fake := newCappedTestRepository(t, map[string]string{"payments": paymentRows(1500)}, 400)

	payments, err := repo.ListPayments(context.Background(), repositories.SystemScope())
	require.NoError(t, err)

	assert.Len(t, payments, 1500)
	// four capped pages of 400 (the last one short) and one empty page
	assert.Equal(t, 5, fake.hitCount("payments"))
}

func TestAnalyticsRepository_OwnerScope_BatchesPropertyFilter(t *testing.T) {
	repo, fake := newTestRepository(t, map[string]string{"properties": propertyIDRows(250)})

	tenancies, err := repo.ListTenancies(context.Background(), repositories.OwnerScope(uuid.New()))
	require.NoError(t, err)
	assert.Empty(t, tenancies)

	assert.Equal(t, 3, fake.hitCount("tenancies"))

	fake.mu.Lock()
	defer fake.mu.Unlock()
	total := 0
	for i, hit := range fake.hits {
		if hit != "tenancies" {
			continue
		}
		filter := fake.queries[i].Get("property_id")
		require.True(t, strings.HasPrefix(filter, "in.("), filter)
		ids := strings.Count(filter, ",") + 1
		assert.LessOrEqual(t, ids, idBatchSize)
		total += ids
	}
	assert.Equal(t, 250, total)
}
