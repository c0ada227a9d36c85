package config

const (
	// CircuitArtifacts constants for the agent identity circuit
	AgentIdentityCircuitURL          = "https://artifacts.kamiyo.ai/circuits/v1/agent_identity.wasm"
	AgentIdentityCircuitHash         = "8c41d2f0a4e6b9137d5c08e2f6a1b3d4c7e90f182a5b6c3d4e5f60718293a4b5"
	AgentIdentityProvingKeyURL       = "https://artifacts.kamiyo.ai/circuits/v1/agent_identity.zkey"
	AgentIdentityProvingKeyHash      = "2f8e1d0c3b4a59687f6e5d4c3b2a19080716253443526170899aabbccddeeff0"
	AgentIdentityVerificationKeyURL  = "https://artifacts.kamiyo.ai/circuits/v1/agent_identity_vkey.json"
	AgentIdentityVerificationKeyHash = "d4c3b2a190817263544536271809f0e1d2c3b4a5968778695a4b3c2d1e0f1a2b"
	// CircuitArtifacts constants for the private signal circuit
	PrivateSignalCircuitURL          = "https://artifacts.kamiyo.ai/circuits/v1/private_signal.wasm"
	PrivateSignalCircuitHash         = "5a6b7c8d9e0f1a2b3c4d5e6f708192a3b4c5d6e7f8091a2b3c4d5e6f70819203"
	PrivateSignalProvingKeyURL       = "https://artifacts.kamiyo.ai/circuits/v1/private_signal.zkey"
	PrivateSignalProvingKeyHash      = "93a2b1c0d4e5f60718293a4b5c6d7e8f90a1b2c3d4e5f60718293a4b5c6d7e8f"
	PrivateSignalVerificationKeyURL  = "https://artifacts.kamiyo.ai/circuits/v1/private_signal_vkey.json"
	PrivateSignalVerificationKeyHash = "0f1e2d3c4b5a69788796a5b4c3d2e1f00112233445566778899aabbccddeef01"
	// CircuitArtifacts constants for the anonymous vote circuit
	AnonymousVoteCircuitURL          = "https://artifacts.kamiyo.ai/circuits/v1/anonymous_vote.wasm"
	AnonymousVoteCircuitHash         = "7b8c9d0e1f2a3b4c5d6e7f8091a2b3c4d5e6f708192a3b4c5d6e7f8091a2b3c4"
	AnonymousVoteProvingKeyURL       = "https://artifacts.kamiyo.ai/circuits/v1/anonymous_vote.zkey"
	AnonymousVoteProvingKeyHash      = "c1d2e3f405162738495a6b7c8d9e0f1a2b3c4d5e6f708192a3b4c5d6e7f80910"
	AnonymousVoteVerificationKeyURL  = "https://artifacts.kamiyo.ai/circuits/v1/anonymous_vote_vkey.json"
	AnonymousVoteVerificationKeyHash = "6e5f4d3c2b1a09f8e7d6c5b4a39281706f5e4d3c2b1a09f8e7d6c5b4a3928170"
	// CircuitArtifacts constants for the sealed bid circuit
	SealedBidCircuitURL          = "https://artifacts.kamiyo.ai/circuits/v1/sealed_bid.wasm"
	SealedBidCircuitHash         = "1a2b3c4d5e6f708192a3b4c5d6e7f8091a2b3c4d5e6f708192a3b4c5d6e7f809"
	SealedBidProvingKeyURL       = "https://artifacts.kamiyo.ai/circuits/v1/sealed_bid.zkey"
	SealedBidProvingKeyHash      = "e9f8a7b6c5d4e3f2a1b0c9d8e7f6a5b4c3d2e1f0a9b8c7d6e5f4a3b2c1d0e9f8"
	SealedBidVerificationKeyURL  = "https://artifacts.kamiyo.ai/circuits/v1/sealed_bid_vkey.json"
	SealedBidVerificationKeyHash = "4d5e6f708192a3b4c5d6e7f8091a2b3c4d5e6f708192a3b4c5d6e7f8091a2b3c"
	// CircuitArtifacts constants for the reputation threshold circuit
	ReputationThresholdCircuitURL          = "https://artifacts.kamiyo.ai/circuits/v1/reputation_threshold.wasm"
	ReputationThresholdCircuitHash         = "b0c1d2e3f405162738495a6b7c8d9e0f1a2b3c4d5e6f708192a3b4c5d6e7f801"
	ReputationThresholdProvingKeyURL       = "https://artifacts.kamiyo.ai/circuits/v1/reputation_threshold.zkey"
	ReputationThresholdProvingKeyHash      = "37281906f5e4d3c2b1a09f8e7d6c5b4a39281706f5e4d3c2b1a09f8e7d6c5b4a"
	ReputationThresholdVerificationKeyURL  = "https://artifacts.kamiyo.ai/circuits/v1/reputation_threshold_vkey.json"
	ReputationThresholdVerificationKeyHash = "8192a3b4c5d6e7f8091a2b3c4d5e6f708192a3b4c5d6e7f8091a2b3c4d5e6f70"
)
