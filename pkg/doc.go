// Package pkg provides the core libraries for the Stacklume dashboard.
//
// # Overview
//
// Stacklume serves self-hosted widget dashboards. Widgets are arranged
// once on a canonical fixed-column grid; layouts for smaller screens are
// derived automatically. The pkg directory is organized into:
//
//  1. [grid] - Layout engine (occupancy, scaling, derivation, compaction)
//  2. [dashboard] - Dashboard and widget model plus persistence
//  3. [layouts] - Orchestration (load → derive → cache → save)
//  4. [cache], [session] - Infrastructure backends (file, Redis)
//  5. [errors], [observability] - Shared error codes and hooks
//
// # Architecture
//
// The typical data flow through Stacklume:
//
//	Canonical Arrangement (12 columns, persisted)
//	         ↓
//	    [grid] package (scale + place + compact per breakpoint)
//	         ↓
//	    [layouts] package (cache by content hash)
//	         ↓
//	    HTTP API / CLI output
//
// Edits made at a smaller breakpoint travel the reverse path: the edited
// arrangement is normalized back up to canonical coordinates and saved,
// and every other breakpoint rederives from the new canonical truth.
//
// # Quick Start
//
// Derive layouts for every breakpoint of a dashboard:
//
//	import (
//	    "context"
//	    "github.com/stacklume/stacklume/pkg/cache"
//	    "github.com/stacklume/stacklume/pkg/dashboard"
//	    "github.com/stacklume/stacklume/pkg/layouts"
//	)
//
//	store, _ := dashboard.NewFileStore("")
//	layoutCache, _ := cache.NewFileCache("/tmp/stacklume-cache")
//	runner := layouts.NewRunner(store, layoutCache, nil, nil)
//	result, err := runner.DeriveAll(context.Background(), dashboardID, layouts.Options{})
//
// See the package documentation of [grid] and [layouts] for details on
// the derivation rules.
package pkg
