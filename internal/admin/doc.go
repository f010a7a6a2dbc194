// Package admin serves the HTTP control surface: managing tracked articles,
// triggering checks, health and metrics.
//
// Endpoints:
//
//	GET    /articles       text listing of tracked articles
//	POST   /articles/{id}  track an article (201 added, 200 already present)
//	DELETE /articles/{id}  stop tracking an article (200 removed, 404 not found)
//	POST   /check          run a batch now, JSON summary
//	POST   /check/{id}     fetch one article now, JSON outcome
//	GET    /health         registry reachability
//	GET    /metrics        Prometheus exposition
//
// When a token is configured, every endpoint except /health and /metrics
// requires an "Authorization: Bearer <token>" header.
package admin
