package contracts

import "github.com/julienschmidt/httprouter"

// Handler is what a service module hands to the application shell: each
// module mounts its own routes on the shared router.
type Handler interface {
	RegisterRoutes(*httprouter.Router)
}
