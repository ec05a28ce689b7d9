package crawler

import (
	"net/url"
	"strings"
)

// InDomainFilter accepts links on Domain or any of its subdomains.
type InDomainFilter struct {
	Domain string
}

func NewInDomainFilter(domain string) InDomainFilter {
	return InDomainFilter{Domain: strings.ToLower(strings.TrimPrefix(domain, "www."))}
}

func (filter InDomainFilter) Filter(link string) bool {
	u, err := url.Parse(link)
	if err != nil || filter.Domain == "" {
		return false
	}

	host := strings.ToLower(u.Hostname())
	return host == filter.Domain || strings.HasSuffix(host, "."+filter.Domain)
}
