// Package contracts holds the small interfaces shared between the service
// binaries and pkg/app, so neither has to import the other's packages.
package contracts

import "github.com/julienschmidt/httprouter"

// Handler is anything that can mount its routes on the shared router. Each
// service hands pkg/app one Handler for its API and one for health checks.
type Handler interface {
	RegisterRoutes(*httprouter.Router)
}
