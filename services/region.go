package services

import "strings"

// RegionMatch decides whether an agent based in agentCity may handle a
// return at location. A blank city never matches.
func RegionMatch(agentCity, location string) bool {
	city := strings.ToLower(strings.TrimSpace(agentCity))
	if city == "" {
		return false
	}
	return strings.Contains(strings.ToLower(location), city)
}
