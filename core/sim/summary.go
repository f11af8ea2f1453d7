package sim

// Summary aggregates one finished run into the figures the reporting layer
// consumes. All energies are kWh.
type Summary struct {
	Strategy            string  `json:"strategy"`
	Hours               int     `json:"hours"`
	TotalPVKWh          float64 `json:"total_pv_kwh"`
	TotalDemandKWh      float64 `json:"total_demand_kwh"`
	GridImportKWh       float64 `json:"grid_import_kwh"`
	GridExportKWh       float64 `json:"grid_export_kwh"`
	CurtailedKWh        float64 `json:"curtailed_kwh"`
	ChargedKWh          float64 `json:"charged_kwh"`
	DischargedKWh       float64 `json:"discharged_kwh"`
	LossesKWh           float64 `json:"losses_kwh"`
	NetCost             float64 `json:"net_cost"`
	FinalSoC            float64 `json:"final_soc"`
	RoundTripEfficiency float64 `json:"round_trip_efficiency"`
	EquivalentCycles    float64 `json:"equivalent_cycles"`
}

// Summarize derives the run summary from the result table and the battery's
// final snapshot.
func Summarize(res *Result) Summary {
	s := Summary{
		Strategy: res.Strategy,
		Hours:    len(res.Records),
	}
	for _, r := range res.Records {
		s.TotalPVKWh += r.PVKW * res.StepHours
		s.TotalDemandKWh += r.DemandKW * res.StepHours
		if r.GridKWh > 0 {
			s.GridImportKWh += r.GridKWh
		} else {
			s.GridExportKWh += -r.GridKWh
		}
		s.CurtailedKWh += r.CurtailedKWh
		s.NetCost += r.Cost
	}

	snap := res.Final
	s.ChargedKWh = snap.ChargedKWh
	s.DischargedKWh = snap.DischargedKWh
	s.LossesKWh = snap.LossesKWh
	s.FinalSoC = snap.SoC
	s.RoundTripEfficiency = snap.Config.ChargingEfficiency * snap.Config.DischargingEfficiency

	usable := snap.Config.CapacityKWh * (snap.Config.MaxSoC - snap.Config.MinSoC)
	if usable > 0 {
		s.EquivalentCycles = snap.DischargedKWh / usable
	}
	return s
}
