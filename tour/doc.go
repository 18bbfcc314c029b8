// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package tour serves the localized guided-tour scripts shown on first use.

# Catalog

A Catalog maps user role (farmer, labor, driver) to screen name to an
ordered list of steps. The built-in catalog is embedded from
data/tours.yaml and is read-only for the life of the process:

	catalog, err := tour.Default()

# Localization

Each step carries an i18n.Text title and description. Tour and List
resolve them for the requested language, falling back to English:

	t, err := catalog.Tour("farmer", "dashboard", "si")
	// t.Steps[0].Order == 1, t.Steps[len-1].IsLastStep == true

Unknown roles return ErrRoleNotFound and unknown screens return
ErrScreenNotFound so the HTTP layer can tell the two apart.
*/
package tour
