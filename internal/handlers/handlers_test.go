package handlers

import (
	"context"
	"encoding/csv"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"testing"
	"time"

	"budget-tracker/internal/analytics"
	"budget-tracker/internal/log"
	"budget-tracker/internal/models"
	"budget-tracker/internal/storage"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type HandlersTestSuite struct {
	suite.Suite
	db  *storage.DB
	h   *Handlers
	srv *httptest.Server
}

func (s *HandlersTestSuite) SetupTest() {
	db, err := storage.NewDB(":memory:")
	s.Require().NoError(err)
	s.db = db

	h, err := NewHandlers(db, log.Discard(), Options{})
	s.Require().NoError(err)
	s.h = h

	s.srv = httptest.NewServer(log.Middleware(log.Discard())(h.Routes()))
}

func (s *HandlersTestSuite) TearDownTest() {
	s.srv.Close()
	s.db.Close()
}

func TestHandlersTestSuite(t *testing.T) {
	suite.Run(t, new(HandlersTestSuite))
}

// newClient keeps cookies and does not follow redirects.
func (s *HandlersTestSuite) newClient() *http.Client {
	jar, err := cookiejar.New(nil)
	s.Require().NoError(err)
	return &http.Client{
		Jar: jar,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

func (s *HandlersTestSuite) get(c *http.Client, path string) (*http.Response, string) {
	resp, err := c.Get(s.srv.URL + path)
	s.Require().NoError(err)
	return resp, readBody(s.T(), resp)
}

func (s *HandlersTestSuite) post(c *http.Client, path string, form url.Values) (*http.Response, string) {
	resp, err := c.PostForm(s.srv.URL+path, form)
	s.Require().NoError(err)
	return resp, readBody(s.T(), resp)
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(b)
}

func (s *HandlersTestSuite) register(c *http.Client, username, password string) *http.Response {
	resp, _ := s.post(c, "/register", url.Values{"username": {username}, "password": {password}})
	return resp
}

func (s *HandlersTestSuite) login(c *http.Client, username, password string) *http.Response {
	resp, _ := s.post(c, "/login", url.Values{"username": {username}, "password": {password}})
	return resp
}

// userClient registers and logs in a fresh user.
func (s *HandlersTestSuite) userClient(username string) *http.Client {
	c := s.newClient()
	s.Require().Equal(http.StatusFound, s.register(c, username, "pw-"+username).StatusCode)
	resp := s.login(c, username, "pw-"+username)
	s.Require().Equal(http.StatusFound, resp.StatusCode)
	s.Require().Equal("/", resp.Header.Get("Location"))
	return c
}

func (s *HandlersTestSuite) addTransaction(c *http.Client, typ, amount, category, desc, date string) *http.Response {
	resp, _ := s.post(c, "/add", url.Values{
		"type":        {typ},
		"amount":      {amount},
		"category":    {category},
		"description": {desc},
		"date":        {date},
	})
	return resp
}

func (s *HandlersTestSuite) userID(username string) int64 {
	u, err := s.db.GetUserByUsername(context.Background(), username)
	s.Require().NoError(err)
	return u.ID
}

func (s *HandlersTestSuite) TestUnauthenticatedRedirects() {
	c := s.newClient()
	for _, path := range []string{"/", "/add", "/summary", "/summary/chart.png", "/export_csv", "/api/summary", "/goals", "/set_currency/EUR"} {
		resp, body := s.get(c, path)
		s.Equal(http.StatusFound, resp.StatusCode, path)
		s.Equal("/login", resp.Header.Get("Location"), path)
		s.NotContains(body, "transaction", path)
	}

	resp, _ := s.post(c, "/add", url.Values{"type": {"expense"}, "amount": {"1"}})
	s.Equal(http.StatusFound, resp.StatusCode)
	s.Equal("/login", resp.Header.Get("Location"))
}

func (s *HandlersTestSuite) TestBogusSessionCookieIsCleared() {
	c := s.newClient()
	u, _ := url.Parse(s.srv.URL)
	c.Jar.SetCookies(u, []*http.Cookie{{Name: SessionCookieName, Value: "forged"}})

	resp, _ := s.get(c, "/")
	s.Equal(http.StatusFound, resp.StatusCode)
	s.Empty(c.Jar.Cookies(u), "session cookie should be cleared")
}

func (s *HandlersTestSuite) TestRegisterThenLogin() {
	c := s.newClient()

	resp := s.register(c, "alice", "wonderland")
	s.Equal(http.StatusFound, resp.StatusCode)
	s.Equal("/login", resp.Header.Get("Location"))

	_, body := s.get(c, "/login")
	s.Contains(body, "Registration successful. Please log in.")

	// The flash is shown once.
	_, body = s.get(c, "/login")
	s.NotContains(body, "Registration successful")

	resp = s.login(c, "alice", "wonderland")
	s.Equal(http.StatusFound, resp.StatusCode)
	s.Equal("/", resp.Header.Get("Location"))

	resp, body = s.get(c, "/")
	s.Equal(http.StatusOK, resp.StatusCode)
	s.Contains(body, "alice")
	s.Contains(body, NoDataLabel)
	s.Contains(body, InsufficientDataLabel)

	// Logged-in users skip the login form.
	resp, _ = s.get(c, "/login")
	s.Equal(http.StatusFound, resp.StatusCode)
	s.Equal("/", resp.Header.Get("Location"))
}

func (s *HandlersTestSuite) TestRegisterDuplicate() {
	c := s.newClient()
	s.Equal(http.StatusFound, s.register(c, "bob", "one").StatusCode)

	resp, body := s.post(c, "/register", url.Values{"username": {"bob"}, "password": {"two"}})
	s.Equal(http.StatusOK, resp.StatusCode)
	s.Contains(body, "Username already exists")

	// The original password still works.
	s.Equal("/", s.login(c, "bob", "one").Header.Get("Location"))
}

func (s *HandlersTestSuite) TestRegisterRequiresCredentials() {
	c := s.newClient()
	for _, form := range []url.Values{
		{"username": {""}, "password": {"x"}},
		{"username": {"   "}, "password": {"x"}},
		{"username": {"carol"}, "password": {""}},
	} {
		resp, body := s.post(c, "/register", form)
		s.Equal(http.StatusOK, resp.StatusCode)
		s.Contains(body, "Username and password are required")
	}
	n, err := s.db.UserCount(context.Background())
	s.Require().NoError(err)
	s.Zero(n)
}

func (s *HandlersTestSuite) TestRegisterPasswordTooLong() {
	c := s.newClient()

	resp, body := s.post(c, "/register", url.Values{"username": {"lena"}, "password": {strings.Repeat("p", 80)}})
	s.Equal(http.StatusOK, resp.StatusCode)
	s.Contains(body, "Password must be at most 72 bytes")
	_, err := s.db.GetUserByUsername(context.Background(), "lena")
	s.ErrorIs(err, storage.ErrNotFound)

	// Exactly 72 bytes is still accepted.
	long := strings.Repeat("p", 72)
	s.Equal(http.StatusFound, s.register(c, "lena", long).StatusCode)
	s.Equal("/", s.login(c, "lena", long).Header.Get("Location"))
}

func (s *HandlersTestSuite) TestLoginFailuresAreGeneric() {
	c := s.newClient()
	s.register(c, "dave", "right")

	for _, creds := range [][2]string{{"dave", "wrong"}, {"nobody", "right"}} {
		resp, body := s.post(c, "/login", url.Values{"username": {creds[0]}, "password": {creds[1]}})
		s.Equal(http.StatusOK, resp.StatusCode)
		s.Contains(body, "Invalid username or password")
	}

	_, body := s.post(c, "/login", url.Values{"username": {"dave"}})
	s.Contains(body, "Username and password are required")
}

func (s *HandlersTestSuite) TestLogout() {
	c := s.userClient("erin")

	resp, _ := s.post(c, "/logout", nil)
	s.Equal(http.StatusFound, resp.StatusCode)
	s.Equal("/login", resp.Header.Get("Location"))

	resp, _ = s.get(c, "/")
	s.Equal(http.StatusFound, resp.StatusCode)

	// Logging out without a session still succeeds.
	resp, _ = s.get(s.newClient(), "/logout")
	s.Equal(http.StatusFound, resp.StatusCode)
}

func (s *HandlersTestSuite) TestAddTransaction() {
	c := s.userClient("frank")

	resp := s.addTransaction(c, "expense", "12.5", "Food", "lunch", "2024-03-01 12:30:00")
	s.Equal(http.StatusFound, resp.StatusCode)
	s.Equal("/", resp.Header.Get("Location"))

	_, body := s.get(c, "/")
	s.Contains(body, "Transaction added")
	s.Contains(body, "lunch")
	s.Contains(body, "$12.50")

	rows, err := s.db.ListTransactions(context.Background(), s.userID("frank"), storage.DateRange{})
	s.Require().NoError(err)
	s.Require().Len(rows, 1)
	s.Equal(models.Expense, rows[0].Type)
	s.Equal(12.5, rows[0].Amount)
	s.Equal("2024-03-01 12:30:00", rows[0].Date.Format(models.DateLayout))
}

func (s *HandlersTestSuite) TestAddTransactionDefaults() {
	c := s.userClient("gina")
	before := time.Now().Add(-time.Second)

	s.Equal(http.StatusFound, s.addTransaction(c, "income", "100", "", "", "").StatusCode)

	rows, err := s.db.ListTransactions(context.Background(), s.userID("gina"), storage.DateRange{})
	s.Require().NoError(err)
	s.Require().Len(rows, 1)
	s.Equal(defaultCategory, rows[0].Category)
	s.False(rows[0].Date.Before(before.Truncate(time.Second)))
}

func (s *HandlersTestSuite) TestAddTransactionAcceptsFormDateLayouts() {
	c := s.userClient("hank")
	for _, d := range []string{"2024-05-02T08:15", "2024-05-02"} {
		s.Equal(http.StatusFound, s.addTransaction(c, "expense", "1", "Misc", d, d).StatusCode, d)
	}
	rows, err := s.db.ListTransactions(context.Background(), s.userID("hank"), storage.DateRange{})
	s.Require().NoError(err)
	s.Require().Len(rows, 2)
	s.Equal("2024-05-02 08:15:00", rows[0].Date.Format(models.DateLayout))
	s.Equal("2024-05-02 00:00:00", rows[1].Date.Format(models.DateLayout))
}

func (s *HandlersTestSuite) TestAddTransactionValidation() {
	c := s.userClient("ivy")

	_, form := s.get(c, "/add")
	s.Contains(form, "Amount ($)")

	tests := []struct {
		typ, amount, date string
		want              string
	}{
		{"expense", "abc", "", "Amount must be a number"},
		{"expense", "", "", "Amount is required"},
		{"expense", "NaN", "", "Amount must be a number"},
		{"expense", "-5", "", "Amount cannot be negative"},
		{"expense", "1e13", "", "Amount is too large"},
		{"expense", "1e308", "", "Amount is too large"},
		{"transfer", "5", "", "Type must be income or expense"},
		{"expense", "5", "yesterday", "Date must look like"},
	}
	for _, tt := range tests {
		resp, body := s.post(c, "/add", url.Values{"type": {tt.typ}, "amount": {tt.amount}, "date": {tt.date}})
		s.Equal(http.StatusBadRequest, resp.StatusCode, tt.want)
		s.Contains(body, tt.want)
	}

	rows, err := s.db.ListTransactions(context.Background(), s.userID("ivy"), storage.DateRange{})
	s.Require().NoError(err)
	s.Empty(rows)
}

func (s *HandlersTestSuite) TestDeleteOnlyOwnTransactions() {
	owner := s.userClient("owner")
	other := s.userClient("other")

	s.addTransaction(owner, "expense", "42", "Rent", "mine", "2024-01-01 00:00:00")
	rows, err := s.db.ListTransactions(context.Background(), s.userID("owner"), storage.DateRange{})
	s.Require().NoError(err)
	s.Require().Len(rows, 1)
	id := rows[0].ID

	resp, _ := s.post(other, "/delete/"+itoa(id), nil)
	s.Equal(http.StatusFound, resp.StatusCode)

	rows, err = s.db.ListTransactions(context.Background(), s.userID("owner"), storage.DateRange{})
	s.Require().NoError(err)
	s.Len(rows, 1, "another user must not delete the row")

	// Missing ids are a silent no-op.
	resp, _ = s.post(owner, "/delete/99999", nil)
	s.Equal(http.StatusFound, resp.StatusCode)

	resp, _ = s.post(owner, "/delete/not-a-number", nil)
	s.Equal(http.StatusBadRequest, resp.StatusCode)

	resp, _ = s.post(owner, "/delete/"+itoa(id), nil)
	s.Equal(http.StatusFound, resp.StatusCode)
	rows, err = s.db.ListTransactions(context.Background(), s.userID("owner"), storage.DateRange{})
	s.Require().NoError(err)
	s.Empty(rows)
}

func (s *HandlersTestSuite) TestCSVExportRoundTrip() {
	c := s.userClient("jane")
	input := [][]string{
		{"expense", "12.34", "Food", "pizza, large", "2024-01-05 19:00:00"},
		{"income", "2500", "Salary", "January", "2024-01-01 09:00:00"},
		{"expense", "12.34", "Food", "pizza, large", "2024-01-05 19:00:00"},
		{"expense", "0.1", "Transport", `the "bus"`, "2024-01-03 08:00:00"},
	}
	for _, in := range input {
		s.Require().Equal(http.StatusFound, s.addTransaction(c, in[0], in[1], in[2], in[3], in[4]).StatusCode)
	}
	// Another user's rows never leak into the export.
	s.addTransaction(s.userClient("kim"), "expense", "999", "Secret", "", "2024-01-02 00:00:00")

	resp, body := s.get(c, "/export_csv")
	s.Equal(http.StatusOK, resp.StatusCode)
	s.Contains(resp.Header.Get("Content-Type"), "text/csv")
	s.Equal(`attachment; filename="transactions.csv"`, resp.Header.Get("Content-Disposition"))

	records, err := csv.NewReader(strings.NewReader(body)).ReadAll()
	s.Require().NoError(err)
	s.Require().Len(records, len(input)+1)
	s.Equal([]string{"type", "amount", "category", "description", "date"}, records[0])

	key := func(r []string) string { return strings.Join(r, "\x00") }
	var want, got []string
	for _, r := range input {
		want = append(want, key(r))
	}
	for _, r := range records[1:] {
		got = append(got, key(r))
	}
	sort.Strings(want)
	sort.Strings(got)
	s.Equal(want, got)
}

func (s *HandlersTestSuite) TestCSVExportDateFilter() {
	c := s.userClient("leo")
	s.addTransaction(c, "expense", "1", "A", "", "2024-01-01 10:00:00")
	s.addTransaction(c, "expense", "2", "B", "", "2024-01-15 23:59:59")
	s.addTransaction(c, "expense", "3", "C", "", "2024-01-16 00:00:00")

	_, body := s.get(c, "/export_csv?start=2024-01-15&end=2024-01-15")
	records, err := csv.NewReader(strings.NewReader(body)).ReadAll()
	s.Require().NoError(err)
	s.Require().Len(records, 2)
	s.Equal("B", records[1][2])

	// An unparsable bound is ignored.
	_, body = s.get(c, "/export_csv?start=garbage&end=2024-01-15")
	records, err = csv.NewReader(strings.NewReader(body)).ReadAll()
	s.Require().NoError(err)
	s.Len(records, 3)
}

func (s *HandlersTestSuite) TestDashboardAnalytics() {
	c := s.userClient("mia")
	s.addTransaction(c, "expense", "50", "Food", "", "2024-01-10 12:00:00")
	s.addTransaction(c, "expense", "50", "Food", "", "2024-01-10 13:00:00")
	s.addTransaction(c, "expense", "250", "Rent", "", "2024-02-10 12:00:00")
	s.addTransaction(c, "income", "1000", "Salary", "", "2024-02-01 12:00:00")

	_, body := s.get(c, "/")
	s.Contains(body, "Rent ($250.00)")
	s.Contains(body, `data-testid="forecast">$400.00<`, "forecast from [100, 250]")
	s.Contains(body, `data-testid="balance">$650.00<`)
	s.Contains(body, `data-testid="range-label">`+analytics.RangeAllTime+`<`)

	_, body = s.get(c, "/?start=2024-01-10&end=2024-01-10")
	s.Contains(body, "Food ($100.00)")
	s.Contains(body, `data-testid="range-label">`+analytics.RangeDay+`<`)
	s.Contains(body, `data-testid="forecast">`+InsufficientDataLabel+`<`, "one month in range")

	_, body = s.get(c, "/?start=2024-01-01&end=2024-02-29")
	s.Contains(body, `data-testid="forecast">$400.00<`)

	_, body = s.get(c, "/?start=2024-02-01")
	s.Contains(body, `data-testid="range-label">`+analytics.RangeCustom+`<`)
	s.Contains(body, "Rent ($250.00)")
	s.Equal(2, strings.Count(body, `data-testid="transaction"`), "rent and salary only")
}

func (s *HandlersTestSuite) TestDashboardSurvivesHugeAmounts() {
	c := s.userClient("huge")
	id := s.userID("huge")
	for _, d := range []time.Time{
		time.Date(2024, 1, 10, 12, 0, 0, 0, time.Local),
		time.Date(2024, 2, 10, 12, 0, 0, 0, time.Local),
	} {
		s.Require().NoError(s.db.CreateTransaction(context.Background(), &models.Transaction{
			UserID: id, Type: models.Expense, Amount: 1e308, Category: "Yacht", Date: d,
		}))
	}

	resp, body := s.get(c, "/")
	s.Equal(http.StatusOK, resp.StatusCode)
	s.Contains(body, `data-testid="forecast">`+InsufficientDataLabel+`<`)
	s.Contains(body, `data-testid="total-expense">$∞<`)
}

func (s *HandlersTestSuite) TestAPISummary() {
	c := s.userClient("nina")
	s.addTransaction(c, "expense", "50", "Food", "", "2024-01-01 10:00:00")
	s.addTransaction(c, "expense", "30", "Food", "", "2024-01-02 10:00:00")
	s.addTransaction(c, "expense", "40", "Travel", "", "2024-01-02 11:00:00")

	resp, body := s.get(c, "/api/summary")
	s.Equal(http.StatusOK, resp.StatusCode)
	s.Equal("application/json", resp.Header.Get("Content-Type"))

	var got SummaryResponse
	s.Require().NoError(json.Unmarshal([]byte(body), &got))
	s.Require().NotNil(got.HighestCategory)
	s.Equal("Food", got.HighestCategory.Category)
	s.Equal(80.0, got.HighestCategory.Amount)
	s.Equal(120.0, got.Totals.Expense)
	s.Equal(60.0, got.AverageDailySpend)
	s.Nil(got.Forecast, "one month is not enough")
	s.Equal(3, got.TransactionCount)
	s.Equal("USD", got.Currency)
}

func (s *HandlersTestSuite) TestSummaryAndChart() {
	c := s.userClient("otto")

	resp, body := s.get(c, "/summary")
	s.Equal(http.StatusOK, resp.StatusCode)
	s.Contains(body, "No expense data to chart")

	resp, _ = s.get(c, "/summary/chart.png")
	s.Equal(http.StatusNotFound, resp.StatusCode)

	s.addTransaction(c, "expense", "30", "Food", "", "2024-01-01 10:00:00")
	s.addTransaction(c, "expense", "10", "Fun", "", "2024-01-01 11:00:00")

	_, body = s.get(c, "/summary")
	s.Contains(body, "/summary/chart.png")
	s.Contains(body, "75%")

	resp, body = s.get(c, "/summary/chart.png")
	s.Equal(http.StatusOK, resp.StatusCode)
	s.Equal("image/png", resp.Header.Get("Content-Type"))
	s.True(strings.HasPrefix(body, "\x89PNG"))
}

func (s *HandlersTestSuite) TestSetCurrency() {
	c := s.userClient("pia")
	s.addTransaction(c, "expense", "1234.5", "Food", "", "")

	req, err := http.NewRequest(http.MethodGet, s.srv.URL+"/set_currency/eur", nil)
	s.Require().NoError(err)
	req.Header.Set("Referer", s.srv.URL+"/summary")
	resp, err := c.Do(req)
	s.Require().NoError(err)
	resp.Body.Close()
	s.Equal(http.StatusFound, resp.StatusCode)
	s.Equal("/summary", resp.Header.Get("Location"))

	_, body := s.get(c, "/")
	s.Contains(body, "€1,234.50")

	resp, _ = s.get(c, "/set_currency/BTC")
	s.Equal(http.StatusFound, resp.StatusCode)
	s.Equal("/", resp.Header.Get("Location"))
	_, body = s.get(c, "/")
	s.Contains(body, "Unsupported currency")
	s.Contains(body, "€1,234.50", "currency unchanged")

	// A fresh login starts with the default currency again.
	c2 := s.newClient()
	s.login(c2, "pia", "pw-pia")
	_, body = s.get(c2, "/")
	s.Contains(body, "$1,234.50")
}

func (s *HandlersTestSuite) TestGoals() {
	c := s.userClient("quinn")
	s.addTransaction(c, "expense", "80", "Food", "", "")

	resp, _ := s.post(c, "/goals", url.Values{"category": {"Food"}, "limit": {"50"}})
	s.Equal(http.StatusFound, resp.StatusCode)
	s.Equal("/goals", resp.Header.Get("Location"))

	_, body := s.get(c, "/goals")
	s.Contains(body, "Goal saved")
	s.Contains(body, "$80.00")
	s.Contains(body, "160%")

	_, body = s.get(c, "/")
	s.Contains(body, "Over budget this month")

	// Saving again replaces the limit.
	s.post(c, "/goals", url.Values{"category": {"Food"}, "limit": {"100"}})
	goals, err := s.db.ListGoals(context.Background(), s.userID("quinn"))
	s.Require().NoError(err)
	s.Require().Len(goals, 1)
	s.Equal(100.0, goals[0].MonthlyLimit)

	resp, body = s.post(c, "/goals", url.Values{"category": {"Food"}, "limit": {"-1"}})
	s.Equal(http.StatusBadRequest, resp.StatusCode)
	s.Contains(body, "Limit must be greater than zero")

	resp, body = s.post(c, "/goals", url.Values{"category": {"Food"}, "limit": {"1e300"}})
	s.Equal(http.StatusBadRequest, resp.StatusCode)
	s.Contains(body, "Limit is too large")

	// Another user cannot delete the goal.
	s.post(s.userClient("rex"), "/goals/"+itoa(goals[0].ID)+"/delete", nil)
	goals, err = s.db.ListGoals(context.Background(), s.userID("quinn"))
	s.Require().NoError(err)
	s.Len(goals, 1)

	s.post(c, "/goals/"+itoa(goals[0].ID)+"/delete", nil)
	goals, err = s.db.ListGoals(context.Background(), s.userID("quinn"))
	s.Require().NoError(err)
	s.Empty(goals)
}

func (s *HandlersTestSuite) TestRollingSessionRenewal() {
	ctx := context.Background()
	u, err := s.db.CreateUser(ctx, "sam", "hash")
	s.Require().NoError(err)
	s.Require().NoError(s.db.CreateSession(ctx, "almost-expired", u.ID, "USD", time.Now().Add(24*time.Hour)))

	c := s.newClient()
	srvURL, _ := url.Parse(s.srv.URL)
	c.Jar.SetCookies(srvURL, []*http.Cookie{{Name: SessionCookieName, Value: "almost-expired"}})

	resp, _ := s.get(c, "/")
	s.Equal(http.StatusOK, resp.StatusCode)

	var renewed bool
	for _, ck := range resp.Cookies() {
		if ck.Name == SessionCookieName && ck.Value == "almost-expired" && ck.MaxAge > 0 {
			renewed = true
		}
	}
	s.True(renewed, "cookie should be reissued")

	info, err := s.db.ValidateSessionWithInfo(ctx, "almost-expired")
	s.Require().NoError(err)
	s.True(info.ExpiresAt.After(time.Now().Add(SessionDuration-time.Minute)))
}

func (s *HandlersTestSuite) TestHealth() {
	resp, body := s.get(s.newClient(), "/healthz")
	s.Equal(http.StatusOK, resp.StatusCode)
	s.Contains(body, `"status":"ok"`)

	resp, body = s.get(s.newClient(), "/readyz")
	s.Equal(http.StatusOK, resp.StatusCode)
	s.Contains(body, `"database":"ok"`)
}

func TestLocalRedirectTarget(t *testing.T) {
	tests := []struct {
		referer string
		want    string
	}{
		{"", "/"},
		{"http://example.com/summary", "/summary"},
		{"http://example.com/?start=2024-01-01", "/?start=2024-01-01"},
		{"http://evil.test/phish", "/"},
		{"//evil.test/phish", "/"},
		{"::not a url", "/"},
	}
	for _, tt := range tests {
		r := httptest.NewRequest(http.MethodGet, "http://example.com/set_currency/EUR", nil)
		if tt.referer != "" {
			r.Header.Set("Referer", tt.referer)
		}
		assert.Equal(t, tt.want, localRedirectTarget(r, "/"), tt.referer)
	}
}

func TestParseDateRange(t *testing.T) {
	rng := parseDateRange("2024-01-02", "bogus")
	assert.Equal(t, 2, rng.From.Day())
	assert.True(t, rng.To.IsZero())

	rng = parseDateRange("", "")
	assert.True(t, rng.From.IsZero())
	assert.True(t, rng.To.IsZero())
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}
