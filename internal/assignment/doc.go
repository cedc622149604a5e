// Package assignment picks the stylist who will be able to open a customer's design.
//
// Stylists live in a roster with a current workload and a cap. Automatic
// assignment takes the available, active stylist with the lowest workload
// below their cap, breaking ties by lowest ID; manual selection takes the
// stylist the customer named if they are eligible. Either way the chosen
// stylist's workload goes up by one and the roster is persisted before the
// counterparty is returned. Release undoes an assignment whose upload failed.
//
// The roster is a TOML file:
//
//	[[stylist]]
//	id = "stylist-1"
//	name = "Ada Lovelace"
//	active = true
//	available = true
//	current_assignments = 2
//	max_assignments = 10
package assignment
