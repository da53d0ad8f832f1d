// Package services holds the dashboard's application services.
//
// DatasetService owns the published dataset. Readers call Current and get
// an immutable snapshot; Reload builds a replacement off to the side and
// swaps it in atomically, leaving the previous dataset in place when the
// build fails.
//
// DashboardService turns a page and a type/company/version selection into
// a view: the resolved selection, the choices for every stage and the
// figures the page shows. It is a pure function of the current dataset.
//
// HealthService reports liveness, readiness and version information.
package services
