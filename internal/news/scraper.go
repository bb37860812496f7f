package news

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/gocolly/colly/v2"
	"golang.org/x/time/rate"

	"stock-predictor/internal/api"
	"stock-predictor/internal/logger"
	"stock-predictor/internal/types"
)

const (
	SourceFinViz = "FinViz"
	SourceYahoo  = "Yahoo Finance"
)

// Params configures the scraper. Zero values fall back to DefaultParams.
type Params struct {
	FinVizURL         string
	YahooURL          string
	UserAgent         string
	Timeout           time.Duration
	RequestDelay      time.Duration
	MaxItemsPerSource int
	ContentMaxChars   int
}

func DefaultParams() Params {
	return Params{
		FinVizURL:         "https://finviz.com",
		YahooURL:          "https://finance.yahoo.com",
		UserAgent:         "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36",
		Timeout:           10 * time.Second,
		RequestDelay:      time.Second,
		MaxItemsPerSource: 10,
		ContentMaxChars:   2000,
	}
}

// Scraper pulls headline listings with colly and article bodies with goquery.
// Every outbound request waits on a shared limiter.
type Scraper struct {
	p       Params
	limiter *rate.Limiter
	pages   *api.Client
}

func NewScraper(p Params) *Scraper {
	d := DefaultParams()
	if p.FinVizURL == "" {
		p.FinVizURL = d.FinVizURL
	}
	if p.YahooURL == "" {
		p.YahooURL = d.YahooURL
	}
	if p.UserAgent == "" {
		p.UserAgent = d.UserAgent
	}
	if p.Timeout <= 0 {
		p.Timeout = d.Timeout
	}
	if p.MaxItemsPerSource <= 0 {
		p.MaxItemsPerSource = d.MaxItemsPerSource
	}
	if p.ContentMaxChars <= 0 {
		p.ContentMaxChars = d.ContentMaxChars
	}

	limit := rate.Inf
	if p.RequestDelay > 0 {
		limit = rate.Every(p.RequestDelay)
	}
	return &Scraper{
		p:       p,
		limiter: rate.NewLimiter(limit, 1),
		pages: api.NewClient(
			api.WithTimeout(p.Timeout),
			api.WithHeaders(api.BrowserHeaders(p.UserAgent)),
		),
	}
}

func (s *Scraper) newCollector(ctx context.Context, base string) *colly.Collector {
	c := colly.NewCollector(
		colly.AllowedDomains(hostname(base)),
		colly.MaxDepth(1),
		colly.StdlibContext(ctx),
	)
	c.SetRequestTimeout(s.p.Timeout)
	c.OnRequest(func(r *colly.Request) {
		r.Headers.Set("User-Agent", s.p.UserAgent)
	})
	return c
}

func (s *Scraper) visit(ctx context.Context, c *colly.Collector, target string) error {
	if err := s.limiter.Wait(ctx); err != nil {
		return err
	}
	var visitErr error
	c.OnError(func(r *colly.Response, err error) {
		visitErr = fmt.Errorf("%s: HTTP %d: %w", r.Request.URL, r.StatusCode, err)
	})
	if err := c.Visit(target); err != nil {
		return fmt.Errorf("failed to visit %s: %w", target, err)
	}
	c.Wait()
	return visitErr
}

// ScrapeFinViz reads the quote page news table: one row per headline, the
// first cell holding the time and the second the link.
func (s *Scraper) ScrapeFinViz(ctx context.Context, ticker string) ([]types.NewsItem, error) {
	var items []types.NewsItem
	c := s.newCollector(ctx, s.p.FinVizURL)

	c.OnHTML("table#news-table tr", func(e *colly.HTMLElement) {
		if len(items) >= s.p.MaxItemsPerSource {
			return
		}
		cells := e.DOM.Find("td")
		if cells.Length() < 2 {
			return
		}
		link := cells.Eq(1).Find("a").First()
		headline := strings.TrimSpace(link.Text())
		if headline == "" {
			return
		}
		href, _ := link.Attr("href")
		items = append(items, types.NewsItem{
			Headline: headline,
			URL:      absoluteURL(s.p.FinVizURL, href),
			Time:     strings.TrimSpace(cells.Eq(0).Text()),
			Source:   SourceFinViz,
		})
	})

	target := strings.TrimRight(s.p.FinVizURL, "/") + "/quote.ashx?t=" + url.QueryEscape(strings.ToUpper(ticker))
	if err := s.visit(ctx, c, target); err != nil {
		return nil, err
	}
	return items, nil
}

// ScrapeYahoo reads the quote page stream. Yahoo's markup changes often, so
// three layouts are tried in order: stream list items, mega cards, bare h3 links.
func (s *Scraper) ScrapeYahoo(ctx context.Context, ticker string) ([]types.NewsItem, error) {
	var items []types.NewsItem
	c := s.newCollector(ctx, s.p.YahooURL)

	c.OnHTML("html", func(e *colly.HTMLElement) {
		items = s.parseYahoo(e.DOM)
	})

	target := strings.TrimRight(s.p.YahooURL, "/") + "/quote/" + url.PathEscape(strings.ToUpper(ticker)) + "/"
	if err := s.visit(ctx, c, target); err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Scraper) parseYahoo(doc *goquery.Selection) []types.NewsItem {
	var items []types.NewsItem

	blocks := doc.Find(`li[class*="js-stream-content"]`)
	if blocks.Length() == 0 {
		blocks = doc.Find(`div[data-test-locator="mega"]`)
	}

	if blocks.Length() == 0 {
		doc.Find("h3").EachWithBreak(func(_ int, h3 *goquery.Selection) bool {
			if len(items) >= s.p.MaxItemsPerSource {
				return false
			}
			a := h3.Find("a").First()
			if a.Length() == 0 {
				return true
			}
			href, _ := a.Attr("href")
			items = append(items, types.NewsItem{
				Headline: strings.TrimSpace(h3.Text()),
				URL:      absoluteURL(s.p.YahooURL, href),
				Source:   SourceYahoo,
			})
			return true
		})
		return items
	}

	blocks.EachWithBreak(func(_ int, block *goquery.Selection) bool {
		if len(items) >= s.p.MaxItemsPerSource {
			return false
		}
		head := block.Find("h3").First()
		if head.Length() == 0 {
			head = block.Find("a").First()
		}
		if head.Length() == 0 {
			return true
		}
		link := head
		if goquery.NodeName(head) != "a" {
			link = head.Find("a").First()
		}
		href, _ := link.Attr("href")
		items = append(items, types.NewsItem{
			Headline: strings.TrimSpace(head.Text()),
			Summary:  strings.TrimSpace(block.Find("p").First().Text()),
			URL:      absoluteURL(s.p.YahooURL, href),
			Source:   SourceYahoo,
		})
		return true
	})
	return items
}

var contentSelectors = []string{
	`div[data-module="ArticleBody"]`,
	".caas-body",
	".article-body",
	".story-body",
	"article",
	".content",
}

var whitespace = regexp.MustCompile(`\s+`)

// FetchArticleContent returns the article body text, whitespace-collapsed
// and cut to ContentMaxChars. Failures yield "".
func (s *Scraper) FetchArticleContent(ctx context.Context, articleURL string) string {
	if articleURL == "" || strings.HasPrefix(articleURL, "#") {
		return ""
	}
	if err := s.limiter.Wait(ctx); err != nil {
		return ""
	}

	resp, err := s.pages.GET(ctx, articleURL, nil)
	if err != nil {
		logger.Warn(ctx, "Failed to fetch article content", "url", articleURL, "error", err)
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(resp.Body))
	if err != nil {
		logger.Warn(ctx, "Failed to parse article", "url", articleURL, "error", err)
		return ""
	}
	return s.extractContent(doc)
}

func (s *Scraper) extractContent(doc *goquery.Document) string {
	doc.Find("script, style").Remove()

	var content string
	for _, sel := range contentSelectors {
		if el := doc.Find(sel).First(); el.Length() > 0 {
			content = el.Text()
			break
		}
	}
	if strings.TrimSpace(content) == "" {
		var paras []string
		doc.Find("p").Each(func(_ int, p *goquery.Selection) {
			if t := strings.TrimSpace(p.Text()); t != "" {
				paras = append(paras, t)
			}
		})
		content = strings.Join(paras, " ")
	}

	content = strings.TrimSpace(whitespace.ReplaceAllString(content, " "))
	return types.Truncate(content, s.p.ContentMaxChars)
}

func absoluteURL(base, href string) string {
	if href == "" || strings.HasPrefix(href, "#") || strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") {
		return href
	}
	b, err := url.Parse(base)
	if err != nil {
		return href
	}
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	return b.ResolveReference(ref).String()
}

func hostname(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	return u.Hostname()
}
