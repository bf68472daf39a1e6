package core

import (
	"regexp"
	"strings"
)

// FieldLayout selects which group of basic-mode fields the editor shows.
type FieldLayout string

const (
	LayoutDevice      FieldLayout = "device"
	LayoutBuilding    FieldLayout = "building"
	LayoutUnsupported FieldLayout = ""
)

const (
	DeviceQueryName   = "device_query"
	BuildingQueryName = "building_query"
)

// BasicFields are the structured values the basic editor exposes. Only the
// pair matching the template's layout is meaningful.
type BasicFields struct {
	DeviceType    string `json:"device_type"`
	DeviceTable   string `json:"device_table"`
	BuildingPRK   string `json:"building_prk"`
	BuildingTable string `json:"building_table"`
}

// TemplateAdapter maps one known query template to and from BasicFields.
// It patches text; it does not parse SQL.
type TemplateAdapter interface {
	Layout() FieldLayout
	Extract(sql string) BasicFields
	Apply(sql string, fields BasicFields) string
}

var (
	deviceTypeRe   = regexp.MustCompile(`(?i)dvcDeviceType_FRK\s*=\s*(\d+)`)
	fromTableRe    = regexp.MustCompile(`(?i)\bFROM\s+(\w+)`)
	firstColumnRe  = regexp.MustCompile(`(?i)\bSELECT\s+(\w+)\s*,`)
	templateByName = map[string]TemplateAdapter{
		DeviceQueryName:   deviceAdapter{},
		BuildingQueryName: buildingAdapter{},
	}
)

// AdapterFor returns the adapter for a template name, or false when the
// template has no basic-mode support.
func AdapterFor(queryName string) (TemplateAdapter, bool) {
	a, ok := templateByName[queryName]
	return a, ok
}

type deviceAdapter struct{}

func (deviceAdapter) Layout() FieldLayout { return LayoutDevice }

func (deviceAdapter) Extract(sql string) BasicFields {
	return BasicFields{
		DeviceType:  firstGroup(deviceTypeRe, sql),
		DeviceTable: firstGroup(fromTableRe, sql),
	}
}

func (deviceAdapter) Apply(sql string, f BasicFields) string {
	if v := strings.TrimSpace(f.DeviceType); v != "" {
		sql = deviceTypeRe.ReplaceAllLiteralString(sql, "dvcDeviceType_FRK = "+v)
	}
	if v := strings.TrimSpace(f.DeviceTable); v != "" {
		sql = fromTableRe.ReplaceAllLiteralString(sql, "FROM "+v)
	}
	return sql
}

type buildingAdapter struct{}

func (buildingAdapter) Layout() FieldLayout { return LayoutBuilding }

func (buildingAdapter) Extract(sql string) BasicFields {
	return BasicFields{
		BuildingPRK:   firstGroup(firstColumnRe, sql),
		BuildingTable: firstGroup(fromTableRe, sql),
	}
}

func (buildingAdapter) Apply(sql string, f BasicFields) string {
	if v := strings.TrimSpace(f.BuildingPRK); v != "" {
		// Only the leading column is the PRK.
		if loc := firstColumnRe.FindStringIndex(sql); loc != nil {
			sql = sql[:loc[0]] + "SELECT " + v + "," + sql[loc[1]:]
		}
	}
	if v := strings.TrimSpace(f.BuildingTable); v != "" {
		sql = fromTableRe.ReplaceAllLiteralString(sql, "FROM "+v)
	}
	return sql
}

func firstGroup(re *regexp.Regexp, s string) string {
	m := re.FindStringSubmatch(s)
	if len(m) < 2 {
		return ""
	}
	return m[1]
}
