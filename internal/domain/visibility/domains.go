package visibility

import "fmt"

// Web lookup sources.
const (
	SourceDuckDuckGo   = "DuckDuckGo"
	SourceMockFallback = "mock-fallback"
)

const (
	noImage   = "https://dummyimage.com/600x400/ccc/000.png&text=No+Image"
	demoImage = "https://dummyimage.com/600x400/ddd/000.png&text=Demo"
	noDesc    = "No description available."
)

// CompleteInfo fills the blanks of a successful lookup.
func CompleteInfo(domain string, info DomainInfo) DomainInfo {
	if info.Title == "" {
		info.Title = domain
	}
	if info.Description == "" {
		info.Description = noDesc
	}
	if info.Image == "" {
		info.Image = noImage
	}
	if info.Source == "" {
		info.Source = SourceDuckDuckGo
	}
	return info
}

// FallbackInfo is served when the web lookup is unavailable.
func FallbackInfo(domain string, base DomainRecord) DomainInfo {
	return DomainInfo{
		Title:       domain,
		Description: fmt.Sprintf("Demo data for %s. API unavailable or rate-limited.", domain),
		Image:       demoImage,
		Source:      SourceMockFallback,
		Trend:       append([]int(nil), base.Trend...),
	}
}

// Trend compares the first and last samples of a record.
func Trend(domain string, rec DomainRecord, source string) DomainTrend {
	t := DomainTrend{
		Domain:     domain,
		Visibility: rec.Visibility,
		Trend:      append([]int{}, rec.Trend...),
		Direction:  "flat",
		Source:     source,
	}
	if len(rec.Trend) > 1 {
		t.Change = rec.Trend[len(rec.Trend)-1] - rec.Trend[0]
	}
	switch {
	case t.Change > 0:
		t.Direction = "up"
	case t.Change < 0:
		t.Direction = "down"
	}
	return t
}
