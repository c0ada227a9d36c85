package types

const (
	// AgentTreeMaxLevels is the depth of the agent registry merkle tree.
	// Circuit merkle path and index vectors must have exactly this length.
	AgentTreeMaxLevels = 20
	// SecretSize is the byte length of agent secrets. 31 bytes keeps any
	// secret strictly below the bn254 scalar field modulus.
	SecretSize = 31
	// AgentIDSize is the byte length of an agent identifier.
	AgentIDSize = 31
	// SerializedFieldSize is the byte length of a serialized field element.
	SerializedFieldSize = 32
	// MaxTransactionCount is the upper bound for reputation transaction
	// counters, enforced before proving.
	MaxTransactionCount = 1<<32 - 1
)
