package csvio

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/kmarler/opsdesk/pkg/models"
)

// uploadColumns is the fixed human-readable header schema for the
// adjustment file handed back to the capacity system. Order matters.
var uploadColumns = []Column{
	{"source", "Source"},
	{"namespace", "Namespace"},
	{"type", "Type"},
	{"stationCode", "StationCode"},
	{"waveGroupName", "WaveGroupName"},
	{"shipOptionCategory", "ShipOptionCategory"},
	{"addressType", "AddressType"},
	{"packageType", "PackageType"},
	{"ofdDate", "OFDDate"},
	{"ead", "EAD"},
	{"cluster", "Cluster"},
	{"fulfillmentNetworkType", "FulfillmentNetworkType"},
	{"volumeType", "VolumeType"},
	{"week", "Week"},
	{"f", "f"},
	{"value", "Value"},
}

// ParseRequestRows maps decoded rows of the external request export onto
// raw LMCP inputs. The export names its columns with a quoted,
// type-annotated convention (a column literally named `"Week (number)"`);
// both the quotes and the annotation are tolerated and stripped when
// matching, as are plain header names. The export's Value column
// populates the requested amount; the operator supplies current
// LMCP/ATROPS, PDR, and the SIM link by hand.
func ParseRequestRows(rows []map[string]string) []models.LMCPInputs {
	requests := make([]models.LMCPInputs, 0, len(rows))
	for _, row := range rows {
		canon := canonicalizeKeys(row)
		requests = append(requests, models.LMCPInputs{
			Source:                 canon["source"],
			Namespace:              canon["namespace"],
			Type:                   canon["type"],
			StationCode:            canon["stationcode"],
			WaveGroupName:          canon["wavegroupname"],
			ShipOptionCategory:     canon["shipoptioncategory"],
			AddressType:            canon["addresstype"],
			PackageType:            canon["packagetype"],
			OfdDate:                canon["ofddate"],
			Ead:                    canon["ead"],
			Cluster:                canon["cluster"],
			FulfillmentNetworkType: canon["fulfillmentnetworktype"],
			VolumeType:             canon["volumetype"],
			Week:                   canon["week"],
			F:                      canon["f"],
			Requested:              canon["value"],
		})
	}
	return requests
}

// canonicalizeKeys rewrites row keys by stripping surrounding quotes and
// the trailing " (string)" / " (number)" annotation, lower-cased. When
// two distinct raw headers canonicalize to the same name, which one wins
// is unspecified; real request exports never carry such pairs.
func canonicalizeKeys(row map[string]string) map[string]string {
	canon := make(map[string]string, len(row))
	for key, value := range row {
		canon[canonicalKey(key)] = value
	}
	return canon
}

func canonicalKey(key string) string {
	key = strings.TrimSpace(key)
	key = strings.Trim(key, `"`)
	if i := strings.Index(key, " ("); i >= 0 && strings.HasSuffix(key, ")") {
		key = key[:i]
	}
	return strings.ToLower(strings.TrimSpace(key))
}

// EncodeUpload renders one finalized record as upload-ready delimited
// text with the fixed human-readable headers.
func EncodeUpload(t models.LMCPTask) string {
	record := map[string]string{
		"source":                 t.Source,
		"namespace":              t.Namespace,
		"type":                   t.Type,
		"stationCode":            t.StationCode,
		"waveGroupName":          t.WaveGroupName,
		"shipOptionCategory":     t.ShipOptionCategory,
		"addressType":            t.AddressType,
		"packageType":            t.PackageType,
		"ofdDate":                t.OfdDate,
		"ead":                    t.Ead,
		"cluster":                t.Cluster,
		"fulfillmentNetworkType": t.FulfillmentNetworkType,
		"volumeType":             t.VolumeType,
		"week":                   strconv.Itoa(t.Week),
		"f":                      t.F,
		"value":                  strconv.Itoa(t.Value),
	}
	return Encode([]map[string]string{record}, uploadColumns)
}

// UploadFileName is the default export file name, embedding the station
// code and the current date.
func UploadFileName(stationCode string, now time.Time) string {
	return fmt.Sprintf("%s - %s - LMCP Adjustment.csv", stationCode, now.Format("2006-01-02"))
}
