package crawler

import "strings"

// ApexDomain strips subdomains from hostname, returning everything after the
// second-to-last dot. Hostnames with fewer than two dots are returned unchanged.
//
// This is a naive approximation of the registrable domain: multi-label public
// suffixes such as "co.uk" are not special-cased, so "www.example.co.uk"
// yields "co.uk".
func ApexDomain(hostname string) string {
	last := strings.LastIndex(hostname, ".")
	if last == -1 {
		return hostname
	}
	penultimate := strings.LastIndex(hostname[:last], ".")
	return hostname[penultimate+1:]
}
