package endpoints

// Endpoints groups the service endpoints exposed by the transports.
type Endpoints struct {
	ItineraryEndpoint ItineraryEndpoint
}
