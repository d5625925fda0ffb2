// README: Query identifiers, the menu, and the report shape every query returns.
package analytics

import (
	"errors"

	"rideinsight/internal/modules/heatmap"
)

type QueryID string

const (
	QueryCompletedByYear  QueryID = "a"
	QueryStatusBreakdown  QueryID = "b"
	QueryDropoffHeatmap   QueryID = "c"
	QueryProductShare     QueryID = "d"
	QueryTripSummary      QueryID = "e"
	QueryFarePerKmPivot   QueryID = "f"
	QueryDistanceExtremes QueryID = "g"
	QueryLeadTime         QueryID = "h"
)

var ErrUnknownQuery = errors.New("unknown query")

const (
	InvalidChoiceMessage = "Invalid Choice! Please Select again."
	NoDataMessage        = "No data available for this query."
	HeatmapMessage       = "Heatmap created for dropoff locations."
)

type Query struct {
	ID    QueryID `json:"id"`
	Title string  `json:"title"`
}

var menu = []Query{
	{QueryCompletedByYear, "Total trips in the past"},
	{QueryStatusBreakdown, "Completed or canceled trips"},
	{QueryDropoffHeatmap, "Where did most of the dropoffs take place?"},
	{QueryProductShare, "Most selected product type"},
	{QueryTripSummary, "Average fare, distance, and time spent on trips"},
	{QueryFarePerKmPivot, "Fare per kilometer by year and weekday"},
	{QueryDistanceExtremes, "Longest / shortest ride"},
	{QueryLeadTime, "Average lead time before requesting a trip"},
}

// Queries returns the menu in display order.
func Queries() []Query {
	out := make([]Query, len(menu))
	copy(out, menu)
	return out
}

func ParseQueryID(s string) (QueryID, error) {
	for _, q := range menu {
		if string(q.ID) == s {
			return q.ID, nil
		}
	}
	return "", ErrUnknownQuery
}

func (id QueryID) Title() string {
	for _, q := range menu {
		if q.ID == id {
			return q.Title
		}
	}
	return ""
}

type Kind string

const (
	KindScalars  Kind = "scalars"
	KindTable    Kind = "table"
	KindArtifact Kind = "artifact"
	KindInvalid  Kind = "invalid"
)

// Report is the result of one query. Missing numbers are nil, never NaN.
type Report struct {
	Query    QueryID           `json:"query,omitempty"`
	Title    string            `json:"title,omitempty"`
	Kind     Kind              `json:"kind"`
	Scalars  []Scalar          `json:"scalars,omitempty"`
	Table    *TableData        `json:"table,omitempty"`
	Artifact *heatmap.Artifact `json:"artifact,omitempty"`
	NoData   bool              `json:"no_data,omitempty"`
	Message  string            `json:"message,omitempty"`
}

type Scalar struct {
	Label     string   `json:"label"`
	Value     *float64 `json:"value"`
	Unit      string   `json:"unit,omitempty"`
	Precision int      `json:"precision"`
}

// TableData is a labelled grid. Index names the row label column.
type TableData struct {
	Index   string   `json:"index"`
	Columns []string `json:"columns"`
	Rows    []Row    `json:"rows"`
}

type Row struct {
	Label string `json:"label"`
	Cells []Cell `json:"cells"`
}

// Cell holds either text or a number; a numeric cell with a nil Value is missing.
type Cell struct {
	Text      string   `json:"text,omitempty"`
	Value     *float64 `json:"value,omitempty"`
	Precision int      `json:"precision,omitempty"`
	Numeric   bool     `json:"numeric,omitempty"`
}

func num(v float64, precision int) Cell {
	return Cell{Value: &v, Precision: precision, Numeric: true}
}

func missing() Cell {
	return Cell{Numeric: true}
}

func text(s string) Cell {
	return Cell{Text: s}
}

func ptr(v float64) *float64 {
	return &v
}

// InvalidChoice is the report for any identifier outside the menu.
func InvalidChoice() Report {
	return Report{Kind: KindInvalid, Message: InvalidChoiceMessage}
}
