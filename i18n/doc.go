// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package i18n resolves localized display strings.

The app ships text in three languages: English (en), Sinhala (si) and
Tamil (ta). English is always present and is the fallback for every
lookup:

	title := step.Title.Resolve("si")   // Sinhala when available
	title := step.Title.Resolve("fr")   // unknown code → English

Resolve never fails; any code that has no entry silently falls back.
*/
package i18n
