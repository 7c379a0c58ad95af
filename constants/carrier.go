package constants

// Carrier identifies the transport company that owns a tracking guide.
type Carrier string

// Stable values (store these exact strings in DB).
const (
	CarrierInterRapidisimo Carrier = "INTER_RAPIDISIMO"
	CarrierEnvia           Carrier = "ENVIA"
	CarrierCoordinadora    Carrier = "COORDINADORA"
	CarrierTCC             Carrier = "TCC"
	CarrierVeloces         Carrier = "VELOCES"
	CarrierUnknown         Carrier = "UNKNOWN"
)

var allCarriers = []Carrier{
	CarrierInterRapidisimo,
	CarrierEnvia,
	CarrierCoordinadora,
	CarrierTCC,
	CarrierVeloces,
	CarrierUnknown,
}

// AllCarriers returns every carrier value including UNKNOWN.
func AllCarriers() []Carrier {
	out := make([]Carrier, len(allCarriers))
	copy(out, allCarriers)
	return out
}

// CarrierNames is the static display-name catalog: the spellings of each
// carrier that may appear verbatim inside pasted tracking text. Matching
// against these is case-sensitive, which is why common casings are listed.
var CarrierNames = map[Carrier][]string{
	CarrierInterRapidisimo: {"Inter Rapidisimo", "Inter Rapidísimo", "Interrapidisimo", "INTER RAPIDISIMO"},
	CarrierEnvia:           {"Envia", "Envía", "ENVIA"},
	CarrierCoordinadora:    {"Coordinadora", "COORDINADORA"},
	CarrierTCC:             {"TCC", "Tcc"},
	CarrierVeloces:         {"Veloces", "VELOCES"},
}

// NamedCarriers is the fixed evaluation order for name matching.
var NamedCarriers = []Carrier{
	CarrierInterRapidisimo,
	CarrierEnvia,
	CarrierCoordinadora,
	CarrierTCC,
	CarrierVeloces,
}

// DisplayName returns the preferred human-readable name for a carrier.
func (c Carrier) DisplayName() string {
	if names, ok := CarrierNames[c]; ok && len(names) > 0 {
		return names[0]
	}
	return "Desconocida"
}
