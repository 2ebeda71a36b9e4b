package catalog

import "github.com/aguerin/carnet/core/model"

// Default returns the factory template catalog. User-authored templates are
// merged after these entries, so on a display-name collision the factory
// definition wins in the resolver's first-occurrence dedup.
func Default() []model.Template {
	return []model.Template{
		{ID: "tpl-vidange", Name: "Vidange huile moteur", Category: "Moteur", DistanceKm: 15000, TimeMonths: 12},
		{ID: "tpl-filtre-huile", Name: "Filtre à huile", Category: "Moteur", DistanceKm: 15000, TimeMonths: 12},
		{ID: "tpl-filtre-air", Name: "Filtre à air", Category: "Moteur", DistanceKm: 30000, TimeMonths: 24},
		{ID: "tpl-filtre-habitacle", Name: "Filtre d'habitacle", Category: "Confort", DistanceKm: 15000, TimeMonths: 12},
		{ID: "tpl-filtre-essence", Name: "Filtre à essence", Category: "Moteur", DistanceKm: 60000, TimeMonths: 48, Fuel: model.FuelOnlyGas},
		{ID: "tpl-filtre-gazole", Name: "Filtre à gazole", Category: "Moteur", DistanceKm: 40000, TimeMonths: 24, Fuel: model.FuelOnlyDies},
		{ID: "tpl-bougies", Name: "Bougies d'allumage", Category: "Moteur", DistanceKm: 60000, TimeMonths: 48, Fuel: model.FuelOnlyGas},
		{ID: "tpl-prechauffage", Name: "Bougies de préchauffage", Category: "Moteur", DistanceKm: 80000, Fuel: model.FuelOnlyDies},
		{ID: "tpl-liquide-frein", Name: "Liquide de frein", Category: "Freinage", TimeMonths: 24},
		{ID: "tpl-plaquettes-av", Name: "Plaquettes de frein avant", Category: "Freinage", DistanceKm: 40000},
		{ID: "tpl-plaquettes-ar", Name: "Plaquettes de frein arrière", Category: "Freinage", DistanceKm: 60000},
		{ID: "tpl-refroidissement", Name: "Liquide de refroidissement", Category: "Moteur", DistanceKm: 60000, TimeMonths: 36},
		{ID: "tpl-distribution", Name: "Courroie de distribution", Category: "Moteur", DistanceKm: 120000, TimeMonths: 72},
		{ID: "tpl-accessoire", Name: "Courroie d'accessoire", Category: "Moteur", DistanceKm: 90000, TimeMonths: 60},
		{ID: "tpl-pneus", Name: "Pneumatiques", Category: "Liaison au sol", DistanceKm: 50000},
		{ID: "tpl-ct", Name: "Contrôle technique", Category: "Réglementaire", TimeMonths: 24},
		{ID: "tpl-boite-transfert", Name: "Huile de boîte de transfert", Category: "Transmission", DistanceKm: 60000, TimeMonths: 48, Drivetrain: model.Drive4x4},
		{ID: "tpl-ponts", Name: "Huile de ponts", Category: "Transmission", DistanceKm: 60000, TimeMonths: 48, Drivetrain: model.Drive4x4},
	}
}

// Merge appends user templates after the factory defaults. No dedup happens
// here: duplicate names are resolved per vehicle, first occurrence wins.
func Merge(factory, user []model.Template) []model.Template {
	out := make([]model.Template, 0, len(factory)+len(user))
	out = append(out, factory...)
	out = append(out, user...)
	return out
}
