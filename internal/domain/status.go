package domain

import (
	"fmt"
	"sort"
	"strings"
)

// ReportExecutionStatus is a campaign status a publisher can subscribe to
type ReportExecutionStatus string

const (
	// ReportStatusAll subscribes to every known status
	ReportStatusAll        ReportExecutionStatus = "ALL"
	ReportStatusSuccessful ReportExecutionStatus = "SUCCESSFUL"
	ReportStatusWarning    ReportExecutionStatus = "WARNING"
	ReportStatusFailed     ReportExecutionStatus = "FAILED"
	ReportStatusAborted    ReportExecutionStatus = "ABORTED"
)

// ReportExecutionStatuses lists every member of the enumeration, wildcard included
var ReportExecutionStatuses = []ReportExecutionStatus{
	ReportStatusAll,
	ReportStatusSuccessful,
	ReportStatusWarning,
	ReportStatusFailed,
	ReportStatusAborted,
}

// ParseReportExecutionStatus resolves a configured status by its exact name
func ParseReportExecutionStatus(name string) (ReportExecutionStatus, error) {
	for _, status := range ReportExecutionStatuses {
		if string(status) == name {
			return status, nil
		}
	}
	return "", fmt.Errorf("unknown report status %q", name)
}

// MatchReportStatus resolves the status of a campaign report against the enumeration.
// The match is exact and case-sensitive, and the ALL wildcard never matches a report.
func MatchReportStatus(status ExecutionStatus) (ReportExecutionStatus, bool) {
	for _, candidate := range ReportExecutionStatuses {
		if candidate == ReportStatusAll {
			continue
		}
		if string(candidate) == string(status) {
			return candidate, true
		}
	}
	return "", false
}

// StatusSet is the set of statuses a publisher is subscribed to
type StatusSet map[ReportExecutionStatus]struct{}

// NewStatusSet builds a set from the given statuses
func NewStatusSet(statuses ...ReportExecutionStatus) StatusSet {
	set := make(StatusSet, len(statuses))
	for _, status := range statuses {
		set[status] = struct{}{}
	}
	return set
}

// ParseStatusSet parses configured status names into a set
func ParseStatusSet(names []string) (StatusSet, error) {
	set := make(StatusSet, len(names))
	for _, name := range names {
		status, err := ParseReportExecutionStatus(strings.TrimSpace(name))
		if err != nil {
			return nil, err
		}
		set[status] = struct{}{}
	}
	return set, nil
}

// Contains reports whether the status is a member of the set
func (s StatusSet) Contains(status ReportExecutionStatus) bool {
	_, ok := s[status]
	return ok
}

// Accepts reports whether a report with the given matched status should be notified
func (s StatusSet) Accepts(status ReportExecutionStatus) bool {
	return s.Contains(ReportStatusAll) || s.Contains(status)
}

// Names returns the sorted status names of the set
func (s StatusSet) Names() []string {
	names := make([]string, 0, len(s))
	for status := range s {
		names = append(names, string(status))
	}
	sort.Strings(names)
	return names
}

// AuthenticationMode defines how the publisher authenticates against the SMTP server
type AuthenticationMode string

const (
	// AuthPlain connects without authentication
	AuthPlain AuthenticationMode = "PLAIN"

	// AuthUsernamePassword authenticates with the configured credentials
	AuthUsernamePassword AuthenticationMode = "USERNAME_PASSWORD"
)

// ParseAuthenticationMode resolves a configured authentication mode by its exact name
func ParseAuthenticationMode(name string) (AuthenticationMode, error) {
	switch AuthenticationMode(name) {
	case AuthPlain, AuthUsernamePassword:
		return AuthenticationMode(name), nil
	default:
		return "", fmt.Errorf("unknown authentication mode %q", name)
	}
}
