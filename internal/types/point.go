// README: Shared geographic value object used by trips and heatmap modules.
package types

type Point struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}
