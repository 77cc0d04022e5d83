package domain

// Plan is a purchasable subscription tier. Prices are in paise and
// are the only authoritative source for subscription order amounts.
type Plan struct {
	Name  string `json:"name"`
	Price int64  `json:"price"` // minor currency units
}

// The plan catalog. Order amounts are always resolved from here,
// never taken from the client.
var plans = map[string]Plan{
	"Basic": {Name: "Basic", Price: 49900},
	"Pro":   {Name: "Pro", Price: 149900},
	"Elite": {Name: "Elite", Price: 299900},
}

// PlanByName resolves a plan from the catalog.
func PlanByName(name string) (Plan, error) {
	p, ok := plans[name]
	if !ok {
		return Plan{}, ErrUnknownPlan
	}
	return p, nil
}

// Plans returns the full catalog.
func Plans() []Plan {
	out := make([]Plan, 0, len(plans))
	for _, p := range plans {
		out = append(out, p)
	}
	return out
}
