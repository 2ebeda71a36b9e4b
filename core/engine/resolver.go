package engine

import "github.com/aguerin/carnet/core/model"

// ResolveTemplates computes the set of templates applicable to the vehicle,
// deduplicated by display name with catalog order preserved.
//
// A vehicle bound to a custom profile sees only the templates carrying that
// profile's id. The exclusion is strict: an empty profile yields an empty
// set, with no fallback to the general catalog. Unbound vehicles see the
// general catalog filtered by fuel and drivetrain applicability; vehicles
// with an unknown attribute only match templates scoped to both values.
func ResolveTemplates(v model.Vehicle, catalog []model.Template, profiles []model.CustomProfile) []model.Template {
	profileID := binding(v.ID, profiles)

	var eligible []model.Template
	for _, t := range catalog {
		if profileID != "" {
			if t.ProfileID == profileID {
				eligible = append(eligible, t)
			}
			continue
		}
		if t.ProfileID != "" {
			continue
		}
		if !t.AppliesTo(v) {
			continue
		}
		eligible = append(eligible, t)
	}
	return dedupByName(eligible)
}

// binding returns the id of the profile the vehicle is bound to, or "".
// At most one binding exists per vehicle; the first match wins.
func binding(vehicleID string, profiles []model.CustomProfile) string {
	for _, p := range profiles {
		if p.Contains(vehicleID) {
			return p.ID
		}
	}
	return ""
}

// dedupByName keeps the first template seen for each display name. The
// order dependence is deliberate: when the catalog carries duplicate names,
// the earlier entry (factory defaults come first) wins.
func dedupByName(ts []model.Template) []model.Template {
	if len(ts) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(ts))
	out := ts[:0:0]
	for _, t := range ts {
		if _, ok := seen[t.Name]; ok {
			continue
		}
		seen[t.Name] = struct{}{}
		out = append(out, t)
	}
	return out
}
