// Package wire implements the flat wire format that carries a
// SelectionState between steps, and the link builder that targets it.
//
// The wire format is a multi-valued, string-keyed parameter set (URL query
// parameters):
//
//	variant       0..1  normalized by order.ResolveVariant
//	productId     0..1  opaque identifier, default ""
//	productPrice  0..1  string-encoded integer; parse failure or negative => 0
//	shippingId    0..1  absence meaning is category-dependent
//	opt           0..N  repeated key = set members; duplicates collapse
//
// Decoding is a total function: every malformed input has a defined
// default and nothing is escalated to an error. Encoding then decoding a
// state within the declared domains is lossless, including the absence of
// shippingId when unselected.
package wire
