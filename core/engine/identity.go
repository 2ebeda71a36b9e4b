package engine

import "github.com/google/uuid"

// alertNamespace seeds the UUIDv5 derivation of alert identifiers. It must
// never change: consumers diff alert lists across recomputations and rely
// on identifiers being stable for identical inputs.
var alertNamespace = uuid.MustParse("c6a7de19-2f4b-4c1a-9f3e-5d8b24a90417")

// stableAlertID derives the identifier of an alert backed by a history
// entry. The same (vehicle, entry, template name) triple always yields the
// same id, so a serviced alert keeps its identity until a newer history
// entry moves the baseline.
func stableAlertID(vehicleID, entryID, templateName string) string {
	return uuid.NewSHA1(alertNamespace, []byte("history|"+vehicleID+"|"+entryID+"|"+templateName)).String()
}

// ephemeralAlertID derives the identifier of a never-serviced alert from
// the (vehicle, template) pair. Unlike a per-invocation counter this stays
// stable across recomputations as long as the pair produces an alert.
func ephemeralAlertID(vehicleID, templateID string) string {
	return uuid.NewSHA1(alertNamespace, []byte("pair|"+vehicleID+"|"+templateID)).String()
}
