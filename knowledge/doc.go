// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package knowledge holds the read-only agricultural knowledge tables.

# Tables

Three tables are loaded once at startup and never mutated:

  - Market prices: district → variety → {dry, wet} price in LKR per kg
  - Cultivation calendar: season → {season window, planting, harvesting, varieties}
  - Problems: issue → {causes, solutions, severity}

The built-in tables are embedded from data/knowledge.yaml. A replacement
file with the same shape can be supplied at startup:

	store, err := knowledge.LoadFile(cfg.KnowledgeFile)

All keys are lower-cased when the store is built and when it is queried,
so lookups are case-insensitive.

# Lookups

Keyed lookups return (value, false) for unknown keys. Callers serving the
HTTP API then return the entire table instead of a not-found error; that
degradation is part of the public contract, see handlers.KnowledgeHandler.

# Search

Search performs a case-insensitive substring scan over district names,
season names and cultivation varieties. Results keep table order, market
entries first. An empty query matches every entry.
*/
package knowledge
