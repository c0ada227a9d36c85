package api

const (
	// PingEndpoint is the endpoint for checking the API status
	PingEndpoint = "/ping"
	// AgentsEndpoint is the endpoint for registering an identity commitment
	AgentsEndpoint = "/agents"
	// AgentsRootEndpoint is the endpoint to get the current registry root
	AgentsRootEndpoint = "/agents/root"
	// AgentsProofEndpoint is the endpoint to get a merkle proof for a
	// registered identity commitment
	AgentsProofEndpoint = "/agents/proof"
	// ProofsEndpoint is the endpoint for generating a proof with one of the
	// supported circuits
	ProofsURLParam = "circuit"
	ProofsEndpoint = "/proofs/{" + ProofsURLParam + "}"
)
