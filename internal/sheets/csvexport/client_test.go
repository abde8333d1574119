package csvexport

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"expensedash/internal/log"
)

const exportBody = `Date,Mode,Category,Sub Category,For,Amount,Description,Priority,Avoidable,Frequency
2024-01-01,Cash,Food,Groceries,Self,45.50,"Weekly groceries, veg",High,No,Weekly
1/2/2024,UPI,Transport,Fuel,Self,"₹1,200",Petrol,Medium,No,Monthly
not-a-date,Cash,Food,Snacks,Self,4.50,Chips,Low,Yes,Daily

2024-01-03,Credit Card,Shopping,Clothes,Self,abc,Shirt,Low,Yes,Yearly
`

func serve(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		w.Header().Set("Content-Type", "text/csv")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newTestClient(url string) *Client {
	return New(url, 5*time.Second, WithLogger(log.Discard()))
}

func TestReadExpenses(t *testing.T) {
	srv := serve(t, http.StatusOK, exportBody)

	got, err := newTestClient(srv.URL).ReadExpenses(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 3)

	assert.Equal(t, "2024-01-01", got[0].Date)
	assert.Equal(t, "Weekly groceries, veg", got[0].Description)
	assert.InDelta(t, 45.5, got[0].Amount, 1e-9)

	assert.Equal(t, "2024-01-02", got[1].Date)
	assert.InDelta(t, 1200, got[1].Amount, 1e-9)

	assert.Equal(t, "2024-01-03", got[2].Date)
	assert.Zero(t, got[2].Amount)
}

func TestReadExpensesInvalidCalendarDate(t *testing.T) {
	srv := serve(t, http.StatusOK, "Date,Amount\n2024-02-30,10")

	got, err := newTestClient(srv.URL).ReadExpenses(context.Background())
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestReadExpensesFailures(t *testing.T) {
	cases := []struct {
		name   string
		status int
		body   string
		err    error
	}{
		{"not found", http.StatusNotFound, "nope", ErrUnexpectedStatus},
		{"server error", http.StatusInternalServerError, exportBody, ErrUnexpectedStatus},
		{"empty body", http.StatusOK, "", ErrEmptyBody},
		{"blank body", http.StatusOK, " \n\n ", ErrEmptyBody},
		{"too few fields", http.StatusOK, "Date,Amount,Category\n2024-01-01,10\n", ErrTooFewFields},
		{"too many fields", http.StatusOK, "Date,Amount\n2024-01-01,10,Food\n", ErrFieldMismatch},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := serve(t, tc.status, tc.body)
			_, err := newTestClient(srv.URL).ReadExpenses(context.Background())
			require.Error(t, err)
			assert.ErrorIs(t, err, tc.err)
		})
	}
}

func TestReadExpensesNetworkError(t *testing.T) {
	srv := serve(t, http.StatusOK, exportBody)
	url := srv.URL
	srv.Close()

	_, err := newTestClient(url).ReadExpenses(context.Background())
	assert.Error(t, err)
}

func TestParseRowsStripsBOMAndSkipsBlankLines(t *testing.T) {
	rows, err := ParseRows(strings.NewReader("\ufeffDate,Amount\n\n2024-01-01,1\n\n"))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "2024-01-01", rows[0]["Date"])
	assert.Equal(t, "1", rows[0]["Amount"])
}

func TestParseRowsNoHeader(t *testing.T) {
	_, err := ParseRows(strings.NewReader(""))
	assert.ErrorIs(t, err, ErrNoHeader)
}

func TestKind(t *testing.T) {
	c := newTestClient(" http://example.invalid/export.csv ")
	assert.Equal(t, "csv", string(c.Kind()))
	assert.Equal(t, "http://example.invalid/export.csv", c.URL())
}
