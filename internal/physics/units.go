package physics

const (
	ElectronVolt = 1.602176634e-19 // J
	Boltzmann    = 1.380649e-23    // J/K
)

func MeVToJoule(mev float64) float64 {
	return mev * 1e-3 * ElectronVolt
}

func MeVToKelvin(mev float64) float64 {
	return MeVToJoule(mev) / Boltzmann
}
