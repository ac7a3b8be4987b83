// Package guard provides the HTTP enforcement layer over the route-access
// table: a middleware that resolves the caller's session, consults the
// decision engine and answers 401 or 403 before the request reaches a
// handler.
//
// Paths absent from the table pass through untouched, so the guard can wrap
// an entire mux without listing public routes. Decisions are counted per
// route and outcome when a metrics collector is attached.
//
// Usage:
//
//	g := guard.New(engine, table, resolver,
//		guard.WithGuardLogger(logger),
//		guard.WithMetrics(guard.NewMetrics(prometheus.DefaultRegisterer)),
//	)
//	handler := g.Middleware(mux)
package guard
