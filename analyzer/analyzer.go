package analyzer

import (
	"bytes"
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/seoscope/seoscope/cache"
	"github.com/seoscope/seoscope/insight"
	"github.com/seoscope/seoscope/stats"
)

const (
	resultCacheTTL = 30 * time.Minute
	linkCacheTTL   = 10 * time.Minute
	maxLinkEntries = 10000
	userAgent      = "seoscope/1.0"
)

// Analyzer performs SEO analysis on a given URL. Results are cached in
// the injected store keyed by URL, depth and AI flag; link accessibility
// status is cached in-process.
type Analyzer struct {
	client *http.Client
	store  cache.Store
	stats  *stats.Storage
	ai     *insight.Client

	linkCache      map[string]linkCacheEntry
	linkCacheMutex sync.RWMutex
	linkTTL        time.Duration
	maxLinkEntries int

	done      chan struct{}
	closeOnce sync.Once
}

type linkCacheEntry struct {
	accessible bool
	timestamp  time.Time
}

// New creates an Analyzer. ai may be nil, in which case AI insights are
// never attached.
func New(store cache.Store, statsStorage *stats.Storage, ai *insight.Client) *Analyzer {
	transport := &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	}

	a := &Analyzer{
		client: &http.Client{
			Timeout:   15 * time.Second,
			Transport: transport,
		},
		store:          store,
		stats:          statsStorage,
		ai:             ai,
		linkCache:      make(map[string]linkCacheEntry),
		linkTTL:        linkCacheTTL,
		maxLinkEntries: maxLinkEntries,
		done:           make(chan struct{}),
	}

	go a.linkCacheJanitor(5 * time.Minute)

	return a
}

func (a *Analyzer) linkCacheJanitor(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			a.cleanupLinkCache()
		case <-a.done:
			return
		}
	}
}

// cleanupLinkCache drops expired link statuses, then the oldest entries
// while over the size cap.
func (a *Analyzer) cleanupLinkCache() {
	now := time.Now()

	a.linkCacheMutex.Lock()
	defer a.linkCacheMutex.Unlock()

	for key, entry := range a.linkCache {
		if now.Sub(entry.timestamp) > a.linkTTL {
			delete(a.linkCache, key)
		}
	}

	if len(a.linkCache) <= a.maxLinkEntries {
		return
	}

	type keyed struct {
		key       string
		timestamp time.Time
	}
	ordered := make([]keyed, 0, len(a.linkCache))
	for key, entry := range a.linkCache {
		ordered = append(ordered, keyed{key, entry.timestamp})
	}
	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].timestamp.Before(ordered[j].timestamp)
	})
	for i := 0; i < len(ordered)-a.maxLinkEntries; i++ {
		delete(a.linkCache, ordered[i].key)
	}
}

// cacheKey builds a store key covering every input that affects the
// result shape.
func cacheKey(req Request) string {
	hash := md5.Sum([]byte(fmt.Sprintf("%s|%s|%t", req.URL, req.Depth, req.IncludeAI)))
	return hex.EncodeToString(hash[:])
}

// Analyze performs a complete SEO analysis, serving from the result
// store when a fresh entry exists.
func (a *Analyzer) Analyze(ctx context.Context, req Request) (*SEOAnalysis, error) {
	req.Depth = NormalizeDepth(req.Depth)

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	key := cacheKey(req)
	if cached, err := a.store.Get(ctx, key); err != nil {
		log.Printf("result cache read failed: %v", err)
	} else if cached != nil {
		var analysis SEOAnalysis
		if err := json.Unmarshal(cached, &analysis); err == nil {
			a.stats.IncrementStats(1, 0, 0, 0)
			return &analysis, nil
		}
	}

	a.stats.IncrementStats(0, 1, 0, 0)

	analysis, err := a.analyze(ctx, req)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(analysis); err == nil {
		if err := a.store.Set(ctx, key, data, resultCacheTTL); err != nil {
			log.Printf("result cache write failed: %v", err)
		}
	}

	return analysis, nil
}

func (a *Analyzer) analyze(ctx context.Context, req Request) (*SEOAnalysis, error) {
	startTime := time.Now()

	analysis := &SEOAnalysis{
		URL:           req.URL,
		AnalysisDepth: req.Depth,
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, req.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	httpReq.Header.Set("User-Agent", userAgent)

	resp, err := a.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch page: %w", err)
	}
	defer resp.Body.Close()

	pageSize := 0
	if contentLength := resp.Header.Get("Content-Length"); contentLength != "" {
		if size, err := strconv.Atoi(contentLength); err == nil {
			pageSize = size
		}
	}

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, resp.Body); err != nil {
		return nil, fmt.Errorf("failed to read page body: %w", err)
	}
	if pageSize == 0 {
		pageSize = buf.Len()
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(buf.Bytes()))
	if err != nil {
		return nil, fmt.Errorf("failed to parse page: %w", err)
	}

	// Load time covers fetch plus body read, not the analysis itself.
	loadTime := time.Since(startTime)

	mobileOptimized := false
	doc.Find("meta[name='viewport']").Each(func(_ int, s *goquery.Selection) {
		content, exists := s.Attr("content")
		if exists && strings.Contains(strings.ToLower(content), "width=device-width") {
			mobileOptimized = true
		}
	})

	analysis.HTMLVersion = detectHTMLVersion(doc)
	analysis.Title = a.analyzeTitleTag(doc)
	analysis.Meta = a.analyzeMetaTags(doc)
	analysis.Headers = a.analyzeHeaders(doc)
	analysis.Content = a.analyzeContent(doc, req.Depth)
	analysis.Performance = a.analyzePerformance(pageSize, loadTime, mobileOptimized)
	analysis.Links = a.analyzeLinks(ctx, doc, req.URL, req.Depth)

	analysis.Score = a.calculateOverallScore(analysis)
	analysis.Recommendations = a.generateRecommendations(analysis)

	if req.IncludeAI && a.ai != nil {
		insights, err := a.ai.Generate(ctx, buildDigest(analysis))
		if err != nil {
			log.Printf("ai insights unavailable for %s: %v", req.URL, err)
		} else {
			analysis.AI = insights
		}
	}

	return analysis, nil
}

// detectHTMLVersion inspects the document's doctype node.
func detectHTMLVersion(doc *goquery.Document) string {
	root := doc.Get(0)
	if root == nil {
		return "Unknown"
	}

	for node := root.FirstChild; node != nil; node = node.NextSibling {
		if node.Type != html.DoctypeNode {
			continue
		}
		if node.Data == "html" && len(node.Attr) == 0 {
			return "HTML5"
		}
		for _, attr := range node.Attr {
			if attr.Key != "public" {
				continue
			}
			val := strings.ToLower(attr.Val)
			switch {
			case strings.Contains(val, "xhtml 1.0"):
				return "XHTML 1.0"
			case strings.Contains(val, "html 4.01"):
				return "HTML 4.01"
			default:
				return "Unknown (Pre-HTML5)"
			}
		}
	}
	return "Unknown"
}

func (a *Analyzer) analyzeTitleTag(doc *goquery.Document) TitleAnalysis {
	title := doc.Find("title").First().Text()
	length := len(title)

	score := 0
	if length > 0 {
		if length >= 30 && length <= 60 {
			score = 100
		} else if length < 30 {
			score = 50
		} else {
			score = 70
		}
	}

	return TitleAnalysis{
		Title:    title,
		Length:   length,
		HasTitle: length > 0,
		Score:    score,
	}
}

func (a *Analyzer) analyzeMetaTags(doc *goquery.Document) MetaAnalysis {
	meta := MetaAnalysis{}
	score := 0

	meta.Description, _ = doc.Find("meta[name='description']").Attr("content")
	meta.DescriptionLen = len(meta.Description)
	meta.HasDescription = meta.DescriptionLen > 0

	meta.Keywords, _ = doc.Find("meta[name='keywords']").Attr("content")
	meta.HasKeywords = len(meta.Keywords) > 0

	meta.Robots, _ = doc.Find("meta[name='robots']").Attr("content")
	meta.Viewport, _ = doc.Find("meta[name='viewport']").Attr("content")

	if meta.HasDescription {
		if meta.DescriptionLen >= 120 && meta.DescriptionLen <= 160 {
			score += 40
		} else {
			score += 20
		}
	}
	if meta.HasKeywords {
		score += 20
	}
	if meta.Viewport != "" {
		score += 20
	}
	if meta.Robots != "" {
		score += 20
	}

	meta.Score = score
	return meta
}

func (a *Analyzer) analyzeHeaders(doc *goquery.Document) HeaderAnalysis {
	headers := HeaderAnalysis{}

	headers.H1Count = doc.Find("h1").Length()
	headers.H2Count = doc.Find("h2").Length()
	headers.H3Count = doc.Find("h3").Length()

	doc.Find("h1").Each(func(_ int, s *goquery.Selection) {
		headers.H1Text = append(headers.H1Text, strings.TrimSpace(s.Text()))
	})

	score := 0
	if headers.H1Count == 1 {
		score += 40
	} else if headers.H1Count > 1 {
		score += 20
	}
	if headers.H2Count > 0 {
		score += 30
	}
	if headers.H3Count > 0 {
		score += 30
	}

	headers.Score = score
	return headers
}

func (a *Analyzer) analyzeContent(doc *goquery.Document, depth string) ContentAnalysis {
	content := ContentAnalysis{
		KeywordDensity: make(map[string]float64),
	}

	text := doc.Find("body").Text()
	words := strings.Fields(text)
	content.WordCount = len(words)

	if depth == DepthDeep {
		content.KeywordDensity = keywordDensity(words)
	}

	images := doc.Find("img")
	content.TotalImages = images.Length()
	content.HasImages = content.TotalImages > 0

	images.Each(func(_ int, s *goquery.Selection) {
		if _, exists := s.Attr("alt"); exists {
			content.ImagesWithAlt++
		}
	})

	score := 0
	if content.WordCount >= 300 {
		score += 30
	}
	if content.HasImages {
		score += 20
		if content.ImagesWithAlt == content.TotalImages {
			score += 30
		} else if content.ImagesWithAlt > 0 {
			score += 20
		}
	}

	content.Score = score
	return content
}

// stopwords excluded from keyword density.
var stopwords = map[string]bool{
	"about": true, "after": true, "also": true, "been": true, "before": true,
	"from": true, "have": true, "here": true, "more": true, "other": true,
	"over": true, "some": true, "than": true, "that": true,
	"their": true, "them": true, "then": true, "there": true, "these": true,
	"they": true, "this": true, "were": true, "what": true, "when": true,
	"which": true, "will": true, "with": true, "your": true,
}

// keywordDensity returns the ten most frequent meaningful words as a
// percentage of total word count.
func keywordDensity(words []string) map[string]float64 {
	if len(words) == 0 {
		return map[string]float64{}
	}

	counts := make(map[string]int)
	for _, word := range words {
		word = strings.ToLower(strings.Trim(word, ".,;:!?\"'()[]{}"))
		if len(word) < 4 || stopwords[word] {
			continue
		}
		counts[word]++
	}

	type wordCount struct {
		word  string
		count int
	}
	ordered := make([]wordCount, 0, len(counts))
	for word, count := range counts {
		ordered = append(ordered, wordCount{word, count})
	}
	sort.Slice(ordered, func(i, j int) bool {
		if ordered[i].count != ordered[j].count {
			return ordered[i].count > ordered[j].count
		}
		return ordered[i].word < ordered[j].word
	})

	density := make(map[string]float64, 10)
	total := float64(len(words))
	for i, wc := range ordered {
		if i >= 10 {
			break
		}
		density[wc.word] = float64(wc.count) / total * 100
	}
	return density
}

func (a *Analyzer) analyzePerformance(pageSize int, loadTime time.Duration, mobileOptimized bool) Performance {
	perf := Performance{
		PageSize:         pageSize,
		LoadTime:         int(loadTime.Milliseconds()),
		MobileOptimized:  mobileOptimized,
		PageSizeSeverity: "good",
		LoadTimeSeverity: "good",
	}

	score := 100

	// Page size: 40 points.
	pageSizeKB := float64(pageSize) / 1024.0
	switch {
	case pageSizeKB > 5120:
		score -= 40
		perf.PageSizeSeverity = "critical"
	case pageSizeKB > 2048:
		score -= 30
		perf.PageSizeSeverity = "major"
	case pageSizeKB > 1024:
		score -= 20
		perf.PageSizeSeverity = "moderate"
	case pageSizeKB > 500:
		score -= 10
		perf.PageSizeSeverity = "minor"
	}

	// Load time: 40 points.
	loadTimeMs := loadTime.Milliseconds()
	switch {
	case loadTimeMs > 3000:
		score -= 40
		perf.LoadTimeSeverity = "critical"
	case loadTimeMs > 2000:
		score -= 30
		perf.LoadTimeSeverity = "major"
	case loadTimeMs > 1500:
		score -= 20
		perf.LoadTimeSeverity = "moderate"
	case loadTimeMs > 1000:
		score -= 10
		perf.LoadTimeSeverity = "minor"
	}

	// Mobile optimization: 20 points.
	if !perf.MobileOptimized {
		score -= 20
	}

	perf.Score = score
	return perf
}

// analyzeLinks counts and categorizes links. Accessibility checks are
// skipped entirely at basic depth.
func (a *Analyzer) analyzeLinks(ctx context.Context, doc *goquery.Document, baseURL, depth string) LinkAnalysis {
	links := LinkAnalysis{}

	seen := make(map[string]bool)
	var linkURLs []string

	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, exists := s.Attr("href")
		if !exists || href == "" || href == "#" {
			return
		}

		href = strings.TrimSpace(href)
		if strings.HasPrefix(href, "//") {
			href = "https:" + href
		} else if strings.HasPrefix(href, "/") {
			href = baseURL + href
		}

		if seen[href] {
			return
		}
		seen[href] = true

		if strings.HasPrefix(href, baseURL) {
			links.InternalLinks++
			linkURLs = append(linkURLs, href)
		} else if strings.HasPrefix(href, "http") {
			links.ExternalLinks++
			linkURLs = append(linkURLs, href)
		}
	})

	if depth != DepthBasic {
		links.BrokenLinks = a.countBrokenLinks(ctx, linkURLs)
	}

	score := 100

	// Internal links: 40 points.
	switch {
	case links.InternalLinks == 0:
		score -= 40
	case links.InternalLinks < 3:
		score -= 30
	case links.InternalLinks < 5:
		score -= 20
	}

	// External links: 30 points.
	switch {
	case links.ExternalLinks == 0:
		score -= 30
	case links.ExternalLinks > 50:
		score -= 15
	}

	// Broken links: 30 points.
	switch {
	case links.BrokenLinks > 5:
		score -= 30
	case links.BrokenLinks > 3:
		score -= 20
	case links.BrokenLinks > 0:
		score -= 10
	}

	links.Score = score
	return links
}

// countBrokenLinks probes each URL concurrently, at most ten in flight.
func (a *Analyzer) countBrokenLinks(ctx context.Context, linkURLs []string) int {
	linkCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		broken    int
		semaphore = make(chan struct{}, 10)
	)

	for _, url := range linkURLs {
		select {
		case <-ctx.Done():
			return broken
		default:
		}

		wg.Add(1)
		go func(url string) {
			defer wg.Done()

			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			if !a.isLinkAccessible(linkCtx, url) {
				mu.Lock()
				broken++
				mu.Unlock()
			}
		}(url)
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		// Return the partial count collected so far.
	}

	mu.Lock()
	defer mu.Unlock()
	return broken
}

// isLinkAccessible checks a link with a HEAD request, consulting the
// link status cache first.
func (a *Analyzer) isLinkAccessible(ctx context.Context, url string) bool {
	key := url
	a.linkCacheMutex.RLock()
	if entry, found := a.linkCache[key]; found && time.Since(entry.timestamp) < a.linkTTL {
		a.linkCacheMutex.RUnlock()
		a.stats.IncrementStats(0, 0, 1, 0)
		return entry.accessible
	}
	a.linkCacheMutex.RUnlock()

	a.stats.IncrementStats(0, 0, 0, 1)

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		return a.cacheLinkStatus(key, false)
	}
	req.Header.Set("User-Agent", userAgent)

	client := &http.Client{
		Timeout:   5 * time.Second,
		Transport: a.client.Transport,
	}

	resp, err := client.Do(req)
	if err != nil {
		return a.cacheLinkStatus(key, false)
	}
	defer resp.Body.Close()

	accessible := resp.StatusCode >= 200 && resp.StatusCode < 400
	return a.cacheLinkStatus(key, accessible)
}

func (a *Analyzer) cacheLinkStatus(key string, accessible bool) bool {
	a.linkCacheMutex.Lock()
	defer a.linkCacheMutex.Unlock()

	a.linkCache[key] = linkCacheEntry{
		accessible: accessible,
		timestamp:  time.Now(),
	}
	return accessible
}

func (a *Analyzer) calculateOverallScore(analysis *SEOAnalysis) float64 {
	weights := map[string]float64{
		"title":       0.2,
		"meta":        0.2,
		"headers":     0.15,
		"content":     0.2,
		"performance": 0.15,
		"links":       0.1,
	}

	score := 0.0
	score += float64(analysis.Title.Score) * weights["title"]
	score += float64(analysis.Meta.Score) * weights["meta"]
	score += float64(analysis.Headers.Score) * weights["headers"]
	score += float64(analysis.Content.Score) * weights["content"]
	score += float64(analysis.Performance.Score) * weights["performance"]
	score += float64(analysis.Links.Score) * weights["links"]

	return score
}

func (a *Analyzer) generateRecommendations(analysis *SEOAnalysis) []string {
	var recommendations []string

	if !analysis.Title.HasTitle {
		recommendations = append(recommendations, "Add a title tag to your page")
	} else if analysis.Title.Length < 30 {
		recommendations = append(recommendations, "Title tag is too short (should be 30-60 characters)")
	} else if analysis.Title.Length > 60 {
		recommendations = append(recommendations, "Title tag is too long (should be 30-60 characters)")
	}

	if !analysis.Meta.HasDescription {
		recommendations = append(recommendations, "Add a meta description")
	} else if analysis.Meta.DescriptionLen < 120 {
		recommendations = append(recommendations, "Meta description is too short (should be 120-160 characters)")
	} else if analysis.Meta.DescriptionLen > 160 {
		recommendations = append(recommendations, "Meta description is too long (should be 120-160 characters)")
	}

	if analysis.Headers.H1Count == 0 {
		recommendations = append(recommendations, "Add an H1 heading")
	} else if analysis.Headers.H1Count > 1 {
		recommendations = append(recommendations, "Multiple H1 headings found - consider using only one")
	}

	if analysis.Content.WordCount < 300 {
		recommendations = append(recommendations, "Add more content (aim for at least 300 words)")
	}
	if analysis.Content.TotalImages > 0 && analysis.Content.ImagesWithAlt < analysis.Content.TotalImages {
		recommendations = append(recommendations, "Add alt text to all images")
	}

	pageSizeKB := float64(analysis.Performance.PageSize) / 1024.0
	if pageSizeKB > 5120 {
		recommendations = append(recommendations,
			"Critical: Page size is extremely large (>5MB). Consider optimizing images, minifying CSS/JS, and removing unnecessary resources")
	} else if pageSizeKB > 2048 {
		recommendations = append(recommendations,
			"Major: Page size is very large (>2MB). Optimize images and consider lazy loading for non-critical resources")
	} else if pageSizeKB > 1024 {
		recommendations = append(recommendations,
			"Moderate: Page size is large (>1MB). Look for opportunities to optimize images and resources")
	} else if pageSizeKB > 500 {
		recommendations = append(recommendations,
			"Minor: Page size is above optimal (>500KB). Consider basic optimization techniques")
	}

	if analysis.Performance.LoadTime > 3000 {
		recommendations = append(recommendations,
			"Critical: Page load time is extremely slow (>3s). Consider using a CDN, optimizing server response time, and reducing resource size")
	} else if analysis.Performance.LoadTime > 2000 {
		recommendations = append(recommendations,
			"Major: Page load time is slow (>2s). Optimize server response time and consider resource optimization")
	} else if analysis.Performance.LoadTime > 1500 {
		recommendations = append(recommendations,
			"Moderate: Page load time is above optimal (>1.5s). Look for opportunities to improve performance")
	} else if analysis.Performance.LoadTime > 1000 {
		recommendations = append(recommendations,
			"Minor: Page load time is slightly above optimal (>1s). Consider fine-tuning performance")
	}

	if !analysis.Performance.MobileOptimized {
		recommendations = append(recommendations,
			"Add a proper viewport meta tag for mobile optimization (e.g., <meta name=\"viewport\" content=\"width=device-width, initial-scale=1\">)")
	}

	if analysis.Links.BrokenLinks > 0 {
		recommendations = append(recommendations,
			"Fix broken links: Found "+strconv.Itoa(analysis.Links.BrokenLinks)+" broken link(s)")
	}
	if analysis.Links.InternalLinks < 3 {
		recommendations = append(recommendations,
			"Add more internal links to improve site navigation and SEO (aim for at least 3-5)")
	}
	if analysis.Links.ExternalLinks == 0 {
		recommendations = append(recommendations,
			"Add relevant external links to authoritative sources to improve content credibility")
	} else if analysis.Links.ExternalLinks > 50 {
		recommendations = append(recommendations,
			"Consider reducing the number of external links (current: "+strconv.Itoa(analysis.Links.ExternalLinks)+") to maintain focus")
	}

	return recommendations
}

// buildDigest flattens an analysis into the compact text handed to the
// insight model.
func buildDigest(analysis *SEOAnalysis) string {
	var b strings.Builder
	fmt.Fprintf(&b, "URL: %s\n", analysis.URL)
	fmt.Fprintf(&b, "Overall score: %.0f/100\n", analysis.Score)
	fmt.Fprintf(&b, "Title (%d chars, score %d): %q\n", analysis.Title.Length, analysis.Title.Score, analysis.Title.Title)
	fmt.Fprintf(&b, "Meta description (%d chars, score %d)\n", analysis.Meta.DescriptionLen, analysis.Meta.Score)
	fmt.Fprintf(&b, "Headings: %d h1, %d h2, %d h3 (score %d)\n",
		analysis.Headers.H1Count, analysis.Headers.H2Count, analysis.Headers.H3Count, analysis.Headers.Score)
	fmt.Fprintf(&b, "Content: %d words, %d/%d images with alt text (score %d)\n",
		analysis.Content.WordCount, analysis.Content.ImagesWithAlt, analysis.Content.TotalImages, analysis.Content.Score)
	fmt.Fprintf(&b, "Performance: %d bytes, %dms load, mobile optimized: %t (score %d)\n",
		analysis.Performance.PageSize, analysis.Performance.LoadTime,
		analysis.Performance.MobileOptimized, analysis.Performance.Score)
	fmt.Fprintf(&b, "Links: %d internal, %d external, %d broken (score %d)\n",
		analysis.Links.InternalLinks, analysis.Links.ExternalLinks, analysis.Links.BrokenLinks, analysis.Links.Score)
	for _, rec := range analysis.Recommendations {
		fmt.Fprintf(&b, "- %s\n", rec)
	}
	return b.String()
}

// GetStats returns the statistics storage instance
func (a *Analyzer) GetStats() *stats.Storage {
	return a.stats
}

// Shutdown stops background work and flushes statistics to disk.
func (a *Analyzer) Shutdown() error {
	if a == nil {
		return nil
	}

	a.closeOnce.Do(func() { close(a.done) })

	if a.stats != nil {
		if err := a.stats.Shutdown(); err != nil {
			return fmt.Errorf("failed to shutdown stats storage: %w", err)
		}
	}
	return nil
}
