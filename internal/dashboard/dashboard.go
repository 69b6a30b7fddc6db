package dashboard

import "time"

// Stats aggregates the counters the overview screen renders. Critical
// materials (zero stock) are a subset of the low-stock set.
type Stats struct {
	RequisitionCount int64      `json:"requisition_count"`
	MovementCount    int64      `json:"movement_count"`
	LowStockCount    int64      `json:"low_stock_count"`
	CriticalCount    int64      `json:"critical_count"`
	From             *time.Time `json:"from,omitempty"`
	To               *time.Time `json:"to,omitempty"`
}
