package core

import (
	"fmt"
	"math"
	"time"

	"github.com/kmarler/opsdesk/pkg/models"
)

// LMCP input field names.
const (
	FieldSource                 = "source"
	FieldNamespace              = "namespace"
	FieldType                   = "type"
	FieldWaveGroupName          = "waveGroupName"
	FieldShipOptionCategory     = "shipOptionCategory"
	FieldAddressType            = "addressType"
	FieldPackageType            = "packageType"
	FieldOfdDate                = "ofdDate"
	FieldEad                    = "ead"
	FieldCluster                = "cluster"
	FieldFulfillmentNetworkType = "fulfillmentNetworkType"
	FieldVolumeType             = "volumeType"
	FieldWeek                   = "week"
	FieldF                      = "f"
	FieldRequested              = "requested"
	FieldCurrentLmcp            = "currentLmcp"
	FieldCurrentAtrops          = "currentAtrops"
	FieldPdr                    = "pdr"
	FieldSimLink                = "simLink"
)

// Approval threshold ladder, in percent above the larger current
// capacity value. Fixed business policy: ties at a boundary round toward
// the lower-severity bucket.
const (
	autoApproveMaxPercent = 5
	l7RequiredMaxPercent  = 10
)

// Enum values accepted for the categorical LMCP fields. Empty is a valid
// member of each set.
var (
	shipOptionCategories = []string{"", "Premium", "Standard", "Economy", "Same Day AM", "Same Day PM"}
	addressTypes         = []string{"", "Commercial", "Residential"}
	packageTypes         = []string{"", "StandardParcel"}
)

// dateLayouts are the formats accepted for OFD/EAD input, tried in order.
var dateLayouts = []string{"2006-01-02", "2006/01/02", "01/02/2006", "1/2/2006"}

// ValidateLMCP applies every per-field rule to the raw inputs and returns
// the typed record alongside the accumulated errors. Date fields must
// fall within windowDays of now. Value is recomputed as requested - pdr;
// it is never taken from the inputs. Pure and idempotent.
func ValidateLMCP(in models.LMCPInputs, now time.Time, windowDays int) (models.LMCPTask, FieldErrors) {
	errs := FieldErrors{}

	task := models.LMCPTask{
		Source:                 in.Source,
		Namespace:              in.Namespace,
		Type:                   in.Type,
		WaveGroupName:          in.WaveGroupName,
		Cluster:                in.Cluster,
		FulfillmentNetworkType: in.FulfillmentNetworkType,
		VolumeType:             in.VolumeType,
		F:                      in.F,
	}

	if in.StationCode == "" {
		errs[FieldStationCode] = msgEmpty
	} else if !ValidStationCode(in.StationCode) {
		errs[FieldStationCode] = msgBadStation
	} else {
		task.StationCode = in.StationCode
	}

	if member(shipOptionCategories, in.ShipOptionCategory) {
		task.ShipOptionCategory = in.ShipOptionCategory
	} else {
		errs[FieldShipOptionCategory] = "invalid ship option category"
	}
	if member(addressTypes, in.AddressType) {
		task.AddressType = in.AddressType
	} else {
		errs[FieldAddressType] = "invalid address type"
	}
	if member(packageTypes, in.PackageType) {
		task.PackageType = in.PackageType
	} else {
		errs[FieldPackageType] = "invalid package type"
	}

	if d, msg := validateWindowedDate(in.OfdDate, now, windowDays); msg != "" {
		errs[FieldOfdDate] = msg
	} else {
		task.OfdDate = d
	}
	if d, msg := validateWindowedDate(in.Ead, now, windowDays); msg != "" {
		errs[FieldEad] = msg
	} else {
		task.Ead = d
	}

	if v, msg := requiredCount(in.Week); msg != "" {
		errs[FieldWeek] = msg
	} else if v > 53 {
		errs[FieldWeek] = msgWeekTooHigh
	} else {
		task.Week = v
	}

	if v, msg := requiredCount(in.Requested); msg != "" {
		errs[FieldRequested] = msg
	} else {
		task.Requested = v
	}
	if v, msg := requiredCount(in.CurrentLmcp); msg != "" {
		errs[FieldCurrentLmcp] = msg
	} else {
		task.CurrentLmcp = v
	}
	if v, msg := requiredCount(in.CurrentAtrops); msg != "" {
		errs[FieldCurrentAtrops] = msg
	} else {
		task.CurrentAtrops = v
	}

	// PDR is optional: an empty field means no planned reduction.
	if v, msg := optionalCount(in.Pdr); msg != "" {
		errs[FieldPdr] = msg
	} else {
		task.Pdr = v
	}

	if in.SimLink == "" {
		errs[FieldSimLink] = msgEmpty
	} else if !ValidSimLink(in.SimLink) {
		errs[FieldSimLink] = msgBadSimLink
	} else {
		task.SimLink = in.SimLink
	}

	task.Value = NetValue(task.Requested, task.Pdr)

	return task, errs
}

// member reports whether v is in set.
func member(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}

// optionalCount validates a non-negative integer string where the empty
// string maps to zero.
func optionalCount(raw string) (int, string) {
	if raw == "" {
		return 0, ""
	}
	return requiredCount(raw)
}

// validateWindowedDate parses raw as a calendar date and checks it falls
// within windowDays of now in either direction. Returns the normalized
// yyyy-mm-dd string.
func validateWindowedDate(raw string, now time.Time, windowDays int) (string, string) {
	if raw == "" {
		return "", msgEmpty
	}

	var parsed time.Time
	var err error
	for _, layout := range dateLayouts {
		parsed, err = time.Parse(layout, raw)
		if err == nil {
			break
		}
	}
	if err != nil {
		return "", "invalid date"
	}

	window := time.Duration(windowDays) * 24 * time.Hour
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if parsed.After(today.Add(window)) {
		return "", fmt.Sprintf("more than %d days in the future", windowDays)
	}
	if parsed.Before(today.Add(-window)) {
		return "", fmt.Sprintf("more than %d days in the past", windowDays)
	}

	return parsed.Format("2006-01-02"), ""
}

// NetValue is the requested capacity net of the planned reduction.
func NetValue(requested, pdr int) int {
	return requested - pdr
}

// AdjustmentPercent is how far requested sits above base, in percent.
// NaN when base is zero or either input is NaN. Computed as a scaled
// difference so integer inputs land exactly on the threshold boundaries.
func AdjustmentPercent(requested, base float64) float64 {
	if base == 0 || math.IsNaN(requested) || math.IsNaN(base) {
		return math.NaN()
	}
	return (requested - base) * 100 / base
}

// Classify buckets a capacity request against the larger of the two
// current capacity sources. Missing inputs or a zero base classify as
// unknown. Increasing requested never moves the result to a less
// restrictive bucket.
func Classify(requested, currentLmcp, currentAtrops float64) models.ApprovalStatus {
	base := math.Max(currentLmcp, currentAtrops)
	percent := AdjustmentPercent(requested, base)
	if math.IsNaN(percent) {
		return models.StatusUnknown
	}

	switch {
	case percent <= autoApproveMaxPercent:
		return models.StatusAutoApproved
	case percent <= l7RequiredMaxPercent:
		return models.StatusL7Required
	default:
		return models.StatusWarRoom
	}
}

// FormatPercent renders an adjustment percentage for display, clamping
// to coarse labels outside the +/-100% range.
func FormatPercent(percent float64) string {
	switch {
	case math.IsNaN(percent):
		return "???"
	case percent > 100:
		return "> 100%"
	case percent < -100:
		return "< -100%"
	default:
		return fmt.Sprintf("%.2f%%", percent)
	}
}

// UsingSource names which current capacity source supplies the
// comparison base. Empty when either value is zero or missing, since the
// comparison is undefined.
func UsingSource(currentLmcp, currentAtrops float64) string {
	if currentLmcp == 0 || currentAtrops == 0 || math.IsNaN(currentLmcp) || math.IsNaN(currentAtrops) {
		return ""
	}
	if currentAtrops > currentLmcp {
		return "ATROPS"
	}
	return "LMCP"
}

// EscalationBlurb renders the escalation summary for a validated request.
func EscalationBlurb(t models.LMCPTask, status models.ApprovalStatus) string {
	percent := AdjustmentPercent(float64(t.Requested), math.Max(float64(t.CurrentLmcp), float64(t.CurrentAtrops)))
	return fmt.Sprintf("/md\n**%s** LMCP adjustment: requested **%d** (net **%d** after PDR **%d**), current LMCP **%d** / ATROPS **%d**, delta **%s** => **%s**\nSIM: %s",
		t.StationCode, t.Requested, t.Value, t.Pdr, t.CurrentLmcp, t.CurrentAtrops, FormatPercent(percent), status, t.SimLink)
}
