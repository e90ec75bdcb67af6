package sensor

// Thresholds shared by the status classifier and the per-field exceeded
// indicator.
const (
	TemperatureThreshold = 80.0 // °C
	VibrationThreshold   = 20.0 // mm/s
)

// Kind identifies one of the four measurements.
type Kind int

const (
	Temperature Kind = iota
	Vibration
	Current
	Voltage
)

// Field describes how a measurement is generated and displayed.
type Field struct {
	Kind         Kind
	Title        string
	Unit         string
	Icon         string
	Min          float64 // generator range, inclusive
	Max          float64
	Threshold    float64 // valid only when HasThreshold
	HasThreshold bool
}

// Exceeded reports whether v is strictly above the field's threshold.
// Fields without a threshold never exceed.
func (f Field) Exceeded(v float64) bool {
	return f.HasThreshold && v > f.Threshold
}

// Fields lists the measurements in display order.
var Fields = []Field{
	{Kind: Temperature, Title: "Temperature", Unit: "°C", Icon: "🌡️", Min: 20, Max: 100, Threshold: TemperatureThreshold, HasThreshold: true},
	{Kind: Vibration, Title: "Vibration", Unit: "mm/s", Icon: "📳", Min: 5, Max: 30, Threshold: VibrationThreshold, HasThreshold: true},
	{Kind: Current, Title: "Current", Unit: "A", Icon: "⚡", Min: 10, Max: 50},
	{Kind: Voltage, Title: "Voltage", Unit: "V", Icon: "🔌", Min: 200, Max: 250},
}

// FieldFor returns the descriptor for k.
func FieldFor(k Kind) Field {
	for _, f := range Fields {
		if f.Kind == k {
			return f
		}
	}
	return Field{Kind: k, Title: "Sensor"}
}
