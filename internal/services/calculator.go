package services

// EmissionResult holds the carbon figures computed for one waste quantity.
type EmissionResult struct {
	// CurrentKg is the CO2 emitted by conventional disposal.
	CurrentKg float64
	// RecyclingKg is the CO2 emitted if the waste is recycled instead.
	RecyclingKg float64
	// SavingsKg is CurrentKg - RecyclingKg, always derived, never stored input.
	SavingsKg float64
}

// ComputeEmissions derives the carbon figures for weightKg of waste given the
// category's emission factor (kg CO2 per kg) and recycling efficiency
// (percentage reduction, expected in [0,100]).
//
// Out-of-range efficiency values are computed as-is rather than rejected;
// range validation belongs to the parameter-configuration path.
func ComputeEmissions(weightKg, emissionFactor, efficiencyPct float64) EmissionResult {
	current := weightKg * emissionFactor
	recycling := current * (1 - efficiencyPct/100)

	return EmissionResult{
		CurrentKg:   current,
		RecyclingKg: recycling,
		SavingsKg:   current - recycling,
	}
}
