package core

import (
	"fmt"
	"math"
	"strings"

	"github.com/kmarler/opsdesk/pkg/models"
)

// Same Day input field names, shared by the validator, drafts, and the UI.
const (
	FieldStationCode    = "stationCode"
	FieldRoutingType    = "routingType"
	FieldBufferPercent  = "bufferPercent"
	FieldDpoLink        = "dpoLink"
	FieldRouteCount     = "routeCount"
	FieldRoutedTbaCount = "routedTbaCount"
	FieldFileTbaCount   = "fileTbaCount"
)

// ValidateSameDay applies every per-field rule to the raw inputs and
// returns the typed record alongside the accumulated errors. The record
// is meaningful only when the returned FieldErrors is empty. The
// function is pure and idempotent; it is re-run synchronously on every
// field change.
func ValidateSameDay(in models.SameDayInputs) (models.SameDayTask, FieldErrors) {
	errs := FieldErrors{}
	var task models.SameDayTask

	if in.StationCode == "" {
		errs[FieldStationCode] = msgEmpty
	} else if !ValidStationCode(in.StationCode) {
		errs[FieldStationCode] = msgBadStation
	} else {
		task.StationCode = in.StationCode
	}

	switch models.RoutingType(in.RoutingType) {
	case models.RoutingSunrise, models.RoutingAM:
		task.RoutingType = models.RoutingType(in.RoutingType)
	default:
		errs[FieldRoutingType] = msgBadRouting
	}

	if v, msg := requiredNumber(in.BufferPercent); msg != "" {
		errs[FieldBufferPercent] = msg
	} else {
		task.BufferPercent = v
	}

	if in.DpoLink == "" {
		errs[FieldDpoLink] = msgEmpty
	} else if !ValidDpoLink(in.DpoLink, in.StationCode) {
		errs[FieldDpoLink] = msgBadDpoLink
	} else {
		task.DpoLink = in.DpoLink
	}

	if v, msg := requiredCount(in.RouteCount); msg != "" {
		errs[FieldRouteCount] = msg
	} else {
		task.RouteCount = v
	}

	if v, msg := requiredCount(in.RoutedTbaCount); msg != "" {
		errs[FieldRoutedTbaCount] = msg
	} else {
		task.RoutedTbaCount = v
	}

	// File TBA count is optional: it only helps verify volume.
	if in.FileTbaCount != "" {
		if v, msg := requiredCount(in.FileTbaCount); msg != "" {
			errs[FieldFileTbaCount] = msg
		} else {
			task.FileTbaCount = &v
		}
	}

	return task, errs
}

// requiredNumber validates a required, non-negative numeric string and
// returns the normalized value or a message.
func requiredNumber(raw string) (float64, string) {
	if raw == "" {
		return 0, msgEmpty
	}
	v := NormalizeNumeric(raw, NumericOptions{})
	if math.IsNaN(v) {
		return 0, msgNotNumber
	}
	if v < 0 {
		return 0, msgNegative
	}
	return v, ""
}

// requiredCount validates a required, non-negative integer string.
func requiredCount(raw string) (int, string) {
	v, msg := requiredNumber(raw)
	if msg != "" {
		return 0, msg
	}
	if v != math.Trunc(v) {
		return 0, msgNotInteger
	}
	return int(v), ""
}

// TotalRoutes is the generated route count plus the configured buffer,
// rounded up. Scaled before dividing so integer inputs produce exact
// totals instead of rounding up across a float artifact.
func TotalRoutes(routeCount int, bufferPercent float64) int {
	return int(math.Ceil(float64(routeCount) * (100 + bufferPercent) / 100))
}

// PercentChange is the relative difference of actual against expected,
// in percent. Positive means actual exceeds expected. NaN when expected
// is zero.
func PercentChange(expected, actual float64) float64 {
	if expected == 0 {
		return math.NaN()
	}
	return (actual - expected) * 100 / expected
}

// deltaText formats a volume delta for blurbs, with NaN rendered as
// unknown.
func deltaText(delta float64) string {
	if math.IsNaN(delta) {
		return "???"
	}
	return fmt.Sprintf("%.2f%%", delta)
}

// routingLabel is the wave name used in audit blurbs.
func routingLabel(rt models.RoutingType) string {
	if rt == models.RoutingSunrise {
		return "SAME_DAY_SUNRISE"
	}
	return "SAME_DAY_AM"
}

// routingName is the human wave name used in station-facing blurbs.
func routingName(rt models.RoutingType) string {
	if rt == models.RoutingSunrise {
		return "Same Day Sunrise"
	}
	return "Same Day AM"
}

// VolumeAudit renders the volume-check blurb comparing the imported file
// volume against the routed volume.
func VolumeAudit(stationCode string, rt models.RoutingType, fileTbaCount, routedTbaCount int) string {
	delta := PercentChange(float64(fileTbaCount), float64(routedTbaCount))
	return fmt.Sprintf("/md\n**%s** %s: Routing completed.\nFile: **%d** TBAs // Routed: **%d** TBAs // Delta: **%s**",
		stationCode, routingLabel(rt), fileTbaCount, routedTbaCount, deltaText(delta))
}

// DispatchAudit renders the dispatch audit blurb for a validated task,
// appending the volume line when a routing file was imported.
func DispatchAudit(t models.SameDayTask) string {
	total := TotalRoutes(t.RouteCount, t.BufferPercent)

	var b strings.Builder
	fmt.Fprintf(&b, "/md\n**%s** %s: **%d** total flex routes (**%d** + **%d** buffer)",
		t.StationCode, routingLabel(t.RoutingType), total, t.RouteCount, total-t.RouteCount)

	if t.FileTbaCount != nil {
		delta := PercentChange(float64(*t.FileTbaCount), float64(t.RoutedTbaCount))
		fmt.Fprintf(&b, "\nFile: **%d** TBAs // Routed: **%d** TBAs // Delta: **%s**",
			*t.FileTbaCount, t.RoutedTbaCount, deltaText(delta))
	}

	return b.String()
}

// StationBlurb renders the plain-text completion message sent to the
// station, including the dispatch plan link.
func StationBlurb(t models.SameDayTask) string {
	total := TotalRoutes(t.RouteCount, t.BufferPercent)
	return fmt.Sprintf("%s routing complete: %d TBAs routed. %d total flex routes (%d + %d buffer).\nDispatch plan: %s",
		routingName(t.RoutingType), t.RoutedTbaCount, total, t.RouteCount, total-t.RouteCount, t.DpoLink)
}
