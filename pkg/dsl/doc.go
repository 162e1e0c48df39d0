/*
Package dsl provides a fluent builder for Lattice graphs.

References passed to Param, Field and Clamp become edges automatically: Propagating by
default, ResetOnly when the node is Passive. Explicit edges can be added with DependsOn
and ResetOn.

Example usage:

	b := dsl.New()

	b.Add("reviewers.data").Query("reviewers")
	b.Add("reviewers.value").Clamp("reviewers.data", nil)

	b.Add("years.data").
		Query("years").
		Param("reviewer", "reviewers.value")
	b.Add("years.value").Clamp("years.data", nil)

	b.Add("filter").
		Aggregate().
		Field("reviewer", "reviewers.value").
		Field("year", "years.value").
		Passive()

	b.Add("statistics").
		Fetch("statistics").
		Param("filter", "filter")

	g, err := b.Build()
*/
package dsl
