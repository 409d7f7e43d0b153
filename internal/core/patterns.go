package core

import (
	"regexp"
	"strings"
)

var (
	// stationCodePattern matches delivery station codes: three uppercase
	// letters followed by one digit 1-9 (e.g. DBO7).
	stationCodePattern = regexp.MustCompile(`^[A-Z]{3}[1-9]$`)

	// dpoLinkPattern matches dispatch-planner plan URLs. The plan segment
	// is free-form; whether it embeds the station code is a separate,
	// cross-field check.
	dpoLinkPattern = regexp.MustCompile(`^https://dispatch\.planner\.last-mile\.a2z\.com/plan/[A-Za-z0-9./_-]+$`)

	// simLinkPattern matches issue-tracker links for escalation tickets.
	simLinkPattern = regexp.MustCompile(`^https://(sim|issues)\.amazon\.com/issues/[A-Z][0-9]+$`)
)

// ValidStationCode reports whether s is a well-formed station code.
func ValidStationCode(s string) bool {
	return stationCodePattern.MatchString(s)
}

// ValidDpoLink reports whether link matches the dispatch-planner URL
// pattern and, when stationCode is non-empty, embeds the station code.
// With a blank station code the link is provisionally accepted on the
// pattern alone: the operator cannot complete the task without a station
// code anyway, and the cross-field check re-runs once one is entered.
func ValidDpoLink(link, stationCode string) bool {
	if !dpoLinkPattern.MatchString(link) {
		return false
	}
	if stationCode == "" {
		return true
	}
	return strings.Contains(link, stationCode)
}

// ValidSimLink reports whether link matches the issue-tracker URL pattern.
func ValidSimLink(link string) bool {
	return simLinkPattern.MatchString(link)
}
