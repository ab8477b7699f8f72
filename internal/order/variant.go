package order

// Variant is one of two presentation treatments applied to an identical
// underlying order.
type Variant string

const (
	// VariantControl is the neutral presentation.
	VariantControl Variant = "control"
	// VariantDP is the manipulative ("deceptive patterns") presentation.
	VariantDP Variant = "dp"
)

// ResolveVariant normalizes an untrusted variant token to the closed
// {control, dp} set. Only the exact literal "dp" maps to VariantDP;
// anything else (missing, misspelled, repeated) is control.
//
// Total function, no errors. Callers resolve once per request and thread
// the result through every component, so pricing and presentation can
// never disagree about which treatment is active.
func ResolveVariant(token string) Variant {
	if token == string(VariantDP) {
		return VariantDP
	}
	return VariantControl
}
