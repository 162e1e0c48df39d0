// Package schema validates the parameters handed to remote routes.
//
// A Schema maps parameter names to types. Types can be built in Go or parsed from
// their names, which is how resolver configs and manifests declare them:
//
//	params:
//	  reviewer: "?int"      # null until a reviewer is picked
//	  years:    "[int]"
//	  filter:   record
//
// Validate reports every failure at once as an *AggregateError of *ValidationError.
package schema
