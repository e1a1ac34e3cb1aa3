package lifecycle

// Lifecycle names one of the status machines.
type Lifecycle int

const (
	UnknownLifecycle Lifecycle = iota
	Order
	Cancellation
	Return
	Refund
	Shipment
)

func getLifecycleStrings() map[Lifecycle]string {
	return map[Lifecycle]string{
		UnknownLifecycle: "Unknown",
		Order:            "Order",
		Cancellation:     "Cancellation",
		Return:           "Return",
		Refund:           "Refund",
		Shipment:         "Shipment",
	}
}

func (l Lifecycle) String() string {
	if str, ok := getLifecycleStrings()[l]; ok {
		return str
	}
	return "Unknown"
}

// ParseLifecycle resolves a lifecycle by its String() name.
func ParseLifecycle(name string) (Lifecycle, bool) {
	for l, str := range getLifecycleStrings() {
		if l != UnknownLifecycle && str == name {
			return l, true
		}
	}
	return UnknownLifecycle, false
}

// IsAllowed reports whether lifecycle l may move from the status named from to
// the status named to. Unknown lifecycles and unknown names are never allowed.
func IsAllowed(l Lifecycle, from, to string) bool {
	g, ok := namedGraphs[l]
	if !ok {
		return false
	}
	return g.isAllowedByName(from, to)
}

// namedGraph lets the name based lookup span graphs of different status types.
type namedGraph interface {
	isAllowedByName(from, to string) bool
}

var namedGraphs = map[Lifecycle]namedGraph{
	Order:        orders,
	Cancellation: cancellations,
	Return:       returns,
	Refund:       refunds,
	Shipment:     shipments,
}
