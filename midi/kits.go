package midi

import "sort"

// DrumKit maps 16 drum slots to MIDI notes
type DrumKit struct {
	Name  string
	Notes [16]uint8
}

// Drum slots
const (
	SlotKick = iota
	SlotSnare
	SlotClosedHH
	SlotOpenHH
	SlotLowTom
	SlotMidTom
	SlotHighTom
	SlotCrash
	SlotRide
	SlotClap
	SlotRimshot
	SlotCowbell
	SlotClave
	SlotMaracas
	SlotLowConga
	SlotHighConga
)

// Kits contains all available drum kit mappings
var Kits = map[string]DrumKit{
	"gm": {
		Name: "General MIDI",
		Notes: [16]uint8{
			36, // Kick
			38, // Snare
			42, // Closed HH
			46, // Open HH
			41, // Low Tom
			43, // Mid Tom
			45, // High Tom
			49, // Crash
			51, // Ride
			39, // Clap
			37, // Rimshot
			56, // Cowbell
			75, // Clave
			70, // Maracas
			64, // Low Conga
			63, // High Conga
		},
	},
	"rd8": {
		Name: "Behringer RD-8",
		Notes: [16]uint8{
			36, // Kick (BD)
			40, // Snare (SD) - RD-8 uses 40, not 38
			42, // Closed HH (CH)
			46, // Open HH (OH)
			45, // Low Tom (LT)
			48, // Mid Tom (MT)
			50, // High Tom (HT)
			49, // Crash (CY)
			51, // Ride (RC)
			39, // Clap (CP)
			37, // Rimshot (RS)
			56, // Cowbell (CB)
			75, // Clave (CL)
			70, // Maracas (MA)
			64, // Low Conga (LC)
			63, // High Conga (HC)
		},
	},
	"tr8s": {
		Name: "Roland TR-8S",
		Notes: [16]uint8{
			36, 38, 42, 46, 41, 43, 45, 49,
			51, 39, 37, 56, 75, 70,
			62, // Low Conga
			63,
		},
	},
}

// DefaultKit is the default kit name
const DefaultKit = "gm"

// KitNames returns the available kit names, sorted
func KitNames() []string {
	names := make([]string, 0, len(Kits))
	for name := range Kits {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// GetKit returns a kit by name, defaulting to GM if not found
func GetKit(name string) DrumKit {
	if kit, ok := Kits[name]; ok {
		return kit
	}
	return Kits[DefaultKit]
}

// noiseBands picks a drum slot from a noise centre frequency: low rumbles
// become kicks and toms, the mid band snares and claps, the top hats.
var noiseBands = []struct {
	below float64
	slot  int
}{
	{250, SlotKick},
	{500, SlotLowTom},
	{800, SlotMidTom},
	{1000, SlotHighTom},
	{1300, SlotSnare},
	{1800, SlotClap},
	{4000, SlotClosedHH},
}

// SlotForFrequency returns the drum slot a noise centred on freq triggers
func SlotForFrequency(freq float64) int {
	for _, b := range noiseBands {
		if freq < b.below {
			return b.slot
		}
	}
	return SlotOpenHH
}
