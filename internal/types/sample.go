// Package types holds the data structures shared between the simulation
// runner, the storage backends, and the REST controller.
package types

import "time"

// Sample is one evaluated parameter value: the output of a single parameter
// at a single timestep for a single scenario. Samples flow from the runner
// through the distributor channel into every configured storage backend.
type Sample struct {
	Time      time.Time `gorm:"column:time" json:"time"`
	RunID     string    `gorm:"column:run_id" json:"run_id"`
	Parameter string    `gorm:"column:parameter" json:"parameter"`
	Scenario  int       `gorm:"column:scenario" json:"scenario"`
	Value     float64   `gorm:"column:value" json:"value"`
}

// TableName implements the GORM Tabler interface so samples land in the
// hypertable the TimescaleDB backend provisions.
func (Sample) TableName() string {
	return "samples"
}
