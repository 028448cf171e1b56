package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"investor-radar/internal/radar/config"
	"investor-radar/internal/radar/dto"
	"investor-radar/internal/radar/presenter"
	"investor-radar/internal/radar/repository"
	"investor-radar/internal/radar/service"
	"investor-radar/pkg/logger"

	"github.com/PuerkitoBio/goquery"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const cookieName = "radar_session"

func fakeRadarAPI(t *testing.T) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/api/stats":
			fmt.Fprint(w, `{"success":true,"data":{"total_companies":1200,"total_searches":88,"high_risk_companies":7,"recent_updates":null}}`)
		case "/api/trending":
			var items []string
			for i := 0; i < 8; i++ {
				items = append(items, fmt.Sprintf(`{"id":%d,"name":"Trend %d","symbol":"T%d","current_price":10,"risk_level":"medium","search_count":%d}`, i, i, i, 100-i))
			}
			fmt.Fprintf(w, `{"success":true,"data":[%s]}`, strings.Join(items, ","))
		case "/api/search":
			switch r.URL.Query().Get("q") {
			case "Tencent":
				fmt.Fprint(w, `{"success":true,"data":[
					{"id":700,"name":"Tencent","symbol":"00700.HK","exchange":"HKEX","current_price":388.6,"change":4.2,"change_percent":1.09,
					 "volume":15300000,"market_cap":3600000000000,"risk_level":"low",
					 "news":[{"title":"Record revenue","content":"Q4 beat","source":"Reuters","published_at":"2024-03-05T02:00:00Z","sentiment":"positive"},
					         {"title":"Fine","content":"Regulator","source":"Bloomberg","published_at":"2024-03-04T02:00:00Z","sentiment":"negative"}]},
					{"id":701,"name":"Tencent Music","symbol":"TME","exchange":"NYSE","current_price":9.1,"risk_level":"high"}
				]}`)
			case "escaped":
				fmt.Fprint(w, `{"success":true,"data":[
					{"id":"a%41","name":"Percent Co","risk_level":"low"},
					{"id":"x/y","name":"Slash Co","risk_level":"low"},
					{"id":"A B","name":"Space Co","risk_level":"low"}
				]}`)
			case "limited":
				w.WriteHeader(http.StatusTooManyRequests)
				fmt.Fprint(w, `{"success":false,"error":"rate limited"}`)
			default:
				fmt.Fprint(w, `{"success":true,"data":[]}`)
			}
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)
	return server
}

type client struct {
	t      *testing.T
	e      *echo.Echo
	cookie *http.Cookie
}

func newTestClient(t *testing.T) *client {
	t.Helper()
	upstream := fakeRadarAPI(t)

	cfg := &config.Config{}
	cfg.RadarAPI.BaseURL = upstream.URL + "/api"
	cfg.RadarAPI.Timeout = 2 * time.Second

	log := logger.NewNop()
	repo := repository.NewRadarAPIRepository(cfg, log)
	sessions := service.NewSessionService(repo, log, time.Minute, 5)

	renderer, err := NewTemplateRenderer()
	require.NoError(t, err)

	e := echo.New()
	e.Renderer = renderer
	e.Use(RequestLogger(log))
	h := NewDashboardHandler(sessions, log, cookieName, time.Minute, time.UTC)
	h.RegisterRoutes(e)
	h.RegisterAPIRoutes(e.Group("/api/v1"))

	return &client{t: t, e: e}
}

func (c *client) do(method, target string, form url.Values) *httptest.ResponseRecorder {
	c.t.Helper()
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	if c.cookie != nil {
		req.AddCookie(c.cookie)
	}
	rec := httptest.NewRecorder()
	c.e.ServeHTTP(rec, req)

	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == cookieName {
			c.cookie = cookie
		}
	}
	return rec
}

func (c *client) page() *goquery.Document {
	c.t.Helper()
	rec := c.do(http.MethodGet, "/", nil)
	require.Equal(c.t, http.StatusOK, rec.Code)
	doc, err := goquery.NewDocumentFromReader(rec.Body)
	require.NoError(c.t, err)
	return doc
}

func TestIndex_RendersStatsAndTrending(t *testing.T) {
	c := newTestClient(t)

	doc := c.page()

	require.NotNil(t, c.cookie)
	values := doc.Find("#stats .stat-value").Map(func(_ int, s *goquery.Selection) string {
		return strings.TrimSpace(s.Text())
	})
	assert.Equal(t, []string{"1200", "88", "7", "0"}, values)
	assert.Equal(t, 5, doc.Find("#trending .trending-card").Length())
	assert.Equal(t, "100 searches", strings.TrimSpace(doc.Find("#trending .search-count").First().Text()))
	assert.Equal(t, 0, doc.Find("#results").Length())
	assert.Equal(t, 0, doc.Find("#notice").Length())
}

func TestSearch_SelectsFirstAndRendersDetail(t *testing.T) {
	c := newTestClient(t)
	c.page()

	rec := c.do(http.MethodPost, "/search", url.Values{"q": {"Tencent"}})
	require.Equal(t, http.StatusSeeOther, rec.Code)

	doc := c.page()
	cards := doc.Find("#results .company-card")
	require.Equal(t, 2, cards.Length())
	assert.True(t, cards.First().HasClass("selected"))
	assert.False(t, cards.Last().HasClass("selected"))
	assert.Equal(t, "+1.09%", strings.TrimSpace(cards.First().Find(".change-percent").Text()))

	detail := doc.Find("#detail")
	assert.Equal(t, "Tencent", strings.TrimSpace(detail.Find(".detail-name").Text()))
	assert.Equal(t, "¥388.60", strings.TrimSpace(detail.Find(".detail-price").Text()))
	assert.Equal(t, "+4.20", strings.TrimSpace(detail.Find(".detail-change").Text()))
	assert.Equal(t, "15.3M", strings.TrimSpace(detail.Find(".detail-volume").Text()))
	assert.Equal(t, "¥3.6T", strings.TrimSpace(detail.Find(".detail-market-cap").Text()))

	positive := detail.Find(`.news-tab[data-sentiment="positive"]`)
	assert.Equal(t, "Positive (1)", strings.TrimSpace(positive.Find(".tab-title").Text()))
	assert.Equal(t, "2024/3/5", strings.TrimSpace(positive.Find(".news-date").Text()))
	neutral := detail.Find(`.news-tab[data-sentiment="neutral"]`)
	assert.Equal(t, 0, neutral.Find(".news-item").Length())
	assert.Equal(t, "No neutral news yet", strings.TrimSpace(neutral.Find(".placeholder").Text()))

	assert.Equal(t, "Tencent", doc.Find(`input[name="q"]`).AttrOr("value", ""))
}

func TestSearch_FailureShowsNoticeOnceAndKeepsResults(t *testing.T) {
	c := newTestClient(t)
	c.page()
	c.do(http.MethodPost, "/search", url.Values{"q": {"Tencent"}})

	rec := c.do(http.MethodPost, "/search", url.Values{"q": {"limited"}})
	require.Equal(t, http.StatusSeeOther, rec.Code)

	doc := c.page()
	assert.Equal(t, "rate limited", strings.TrimSpace(doc.Find("#notice").Text()))
	assert.Equal(t, 2, doc.Find("#results .company-card").Length())

	doc = c.page()
	assert.Equal(t, 0, doc.Find("#notice").Length())
}

func TestSearch_EmptyResultClearsResults(t *testing.T) {
	c := newTestClient(t)
	c.page()
	c.do(http.MethodPost, "/search", url.Values{"q": {"Tencent"}})
	c.do(http.MethodPost, "/search", url.Values{"q": {"nobody"}})

	doc := c.page()
	assert.Equal(t, 0, doc.Find("#results").Length())
	assert.Equal(t, 0, doc.Find("#detail").Length())
}

func TestSelect(t *testing.T) {
	c := newTestClient(t)
	c.page()
	c.do(http.MethodPost, "/search", url.Values{"q": {"Tencent"}})

	rec := c.do(http.MethodPost, "/companies/701/select", nil)
	require.Equal(t, http.StatusSeeOther, rec.Code)

	doc := c.page()
	assert.Equal(t, "701", doc.Find("#detail").AttrOr("data-key", ""))
	assert.True(t, doc.Find("#results .company-card").Last().HasClass("selected"))
	assert.Equal(t, 0, doc.Find("#detail .detail-change").Length())

	rec = c.do(http.MethodPost, "/companies/9988/select", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSelect_EscapedKeys(t *testing.T) {
	c := newTestClient(t)
	c.page()
	c.do(http.MethodPost, "/search", url.Values{"q": {"escaped"}})

	for _, key := range []string{"x/y", "A B", "a%41"} {
		rec := c.do(http.MethodPost, "/companies/"+url.PathEscape(key)+"/select", nil)
		require.Equal(t, http.StatusSeeOther, rec.Code, "key %q", key)

		doc := c.page()
		assert.Equal(t, key, doc.Find("#detail").AttrOr("data-key", ""))
	}
}

func TestAPI_SearchAndView(t *testing.T) {
	c := newTestClient(t)

	rec := c.do(http.MethodPost, "/api/v1/search?q=Tencent", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var page presenter.PageView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
	require.Len(t, page.Results, 2)
	require.NotNil(t, page.Detail)
	assert.Equal(t, "700", page.Detail.Key)
	assert.Len(t, page.Trending, 5)

	rec = c.do(http.MethodPost, "/api/v1/search?q=limited", nil)
	require.Equal(t, http.StatusBadGateway, rec.Code)
	var errResp dto.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &errResp))
	assert.Equal(t, "rate limited", errResp.Error)

	rec = c.do(http.MethodGet, "/api/v1/view", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	page = presenter.PageView{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
	assert.Len(t, page.Results, 2)
	assert.Empty(t, page.Notice)

	rec = c.do(http.MethodPost, "/api/v1/companies/nope/select", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHealth(t *testing.T) {
	c := newTestClient(t)
	rec := c.do(http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}
