// Package engine computes maintenance alerts for a fleet of vehicles.
// Given a snapshot of vehicles, service history, the template catalog and
// custom profile bindings, ComputeAlerts returns the ordered list of due
// operations. The computation is a pure function of its arguments: the
// reference time is an explicit parameter and two calls with identical
// inputs produce identical output.
package engine
