package api

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math/big"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	qt "github.com/frankban/quicktest"
	"github.com/kamiyo-ai/kamiyo-zk/crypto/fields"
	"github.com/kamiyo-ai/kamiyo-zk/prover"
	"github.com/kamiyo-ai/kamiyo-zk/registry"
	"github.com/kamiyo-ai/kamiyo-zk/types"
	"go.vocdoni.io/dvote/db/metadb"
)

func testAPI(t *testing.T) (*API, *registry.Registry) {
	t.Helper()
	reg, err := registry.New(metadb.NewTest(t))
	qt.Assert(t, err, qt.IsNil)
	a := &API{
		registry: reg,
		engine:   prover.NewEngine(nil),
	}
	a.initRouter()
	return a, reg
}

func doRequest(t *testing.T, a *API, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		data, err := json.Marshal(body)
		qt.Assert(t, err, qt.IsNil)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	a.Router().ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	err := json.NewDecoder(rec.Body).Decode(&out)
	qt.Assert(t, err, qt.IsNil)
	return out
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) int {
	t.Helper()
	var out struct {
		Code int `json:"code"`
	}
	err := json.Unmarshal([]byte(strings.TrimSpace(rec.Body.String())), &out)
	qt.Assert(t, err, qt.IsNil, qt.Commentf("body: %s", rec.Body.String()))
	return out.Code
}

func TestPing(t *testing.T) {
	c := qt.New(t)
	a, _ := testAPI(t)
	rec := doRequest(t, a, http.MethodGet, PingEndpoint, nil)
	c.Assert(rec.Code, qt.Equals, http.StatusOK)
}

func TestRegisterAndProofRoundTrip(t *testing.T) {
	c := qt.New(t)
	a, reg := testAPI(t)

	commitment := big.NewInt(1234567)
	commitmentBytes, err := fields.FieldToBytes(commitment)
	c.Assert(err, qt.IsNil)

	// first registration gets leaf index 0
	rec := doRequest(t, a, http.MethodPost, AgentsEndpoint, &RegisterAgent{Commitment: commitmentBytes})
	c.Assert(rec.Code, qt.Equals, http.StatusOK, qt.Commentf("body: %s", rec.Body.String()))
	c.Assert(decodeBody[RegisterAgentResponse](t, rec).Index, qt.Equals, int64(0))

	// registering the same commitment again conflicts
	rec = doRequest(t, a, http.MethodPost, AgentsEndpoint, &RegisterAgent{Commitment: commitmentBytes})
	c.Assert(rec.Code, qt.Equals, http.StatusConflict)
	c.Assert(errorCode(t, rec), qt.Equals, ErrCommitmentExists.Code)

	// a second distinct commitment gets the next index
	otherBytes, err := fields.FieldToBytes(big.NewInt(7654321))
	c.Assert(err, qt.IsNil)
	rec = doRequest(t, a, http.MethodPost, AgentsEndpoint, &RegisterAgent{Commitment: otherBytes})
	c.Assert(rec.Code, qt.Equals, http.StatusOK)
	c.Assert(decodeBody[RegisterAgentResponse](t, rec).Index, qt.Equals, int64(1))

	// the served root matches the registry
	rec = doRequest(t, a, http.MethodGet, AgentsRootEndpoint, nil)
	c.Assert(rec.Code, qt.Equals, http.StatusOK)
	root, err := reg.Root()
	c.Assert(err, qt.IsNil)
	rootBytes, err := fields.FieldToBytes(root)
	c.Assert(err, qt.IsNil)
	c.Assert([]byte(decodeBody[RegistryRoot](t, rec).Root), qt.DeepEquals, rootBytes)

	// the merkle proof is padded to the tree depth and carries the same root
	rec = doRequest(t, a, http.MethodGet,
		fmt.Sprintf("%s?commitment=%s", AgentsProofEndpoint, hex.EncodeToString(commitmentBytes)), nil)
	c.Assert(rec.Code, qt.Equals, http.StatusOK, qt.Commentf("body: %s", rec.Body.String()))
	proof := decodeBody[RegistryProof](t, rec)
	c.Assert(proof.Siblings, qt.HasLen, 20)
	c.Assert(proof.Indices, qt.HasLen, 20)
	c.Assert([]byte(proof.Root), qt.DeepEquals, rootBytes)

	// an unregistered commitment yields a not found error
	missingBytes, err := fields.FieldToBytes(big.NewInt(999))
	c.Assert(err, qt.IsNil)
	rec = doRequest(t, a, http.MethodGet,
		fmt.Sprintf("%s?commitment=%s", AgentsProofEndpoint, hex.EncodeToString(missingBytes)), nil)
	c.Assert(rec.Code, qt.Equals, http.StatusNotFound)
	c.Assert(errorCode(t, rec), qt.Equals, ErrCommitmentNotFound.Code)
}

func TestRegisterRejections(t *testing.T) {
	c := qt.New(t)
	a, _ := testAPI(t)

	// malformed JSON body
	rec := doRequest(t, a, http.MethodPost, AgentsEndpoint, "{not json")
	c.Assert(rec.Code, qt.Equals, http.StatusBadRequest)
	c.Assert(errorCode(t, rec), qt.Equals, ErrMalformedBody.Code)

	// wrong length commitment
	rec = doRequest(t, a, http.MethodPost, AgentsEndpoint,
		&RegisterAgent{Commitment: make([]byte, 31)})
	c.Assert(rec.Code, qt.Equals, http.StatusBadRequest)
	c.Assert(errorCode(t, rec), qt.Equals, ErrMalformedCommitment.Code)

	// commitment above the field modulus
	tooBig := make([]byte, 32)
	for i := range tooBig {
		tooBig[i] = 0xff
	}
	rec = doRequest(t, a, http.MethodPost, AgentsEndpoint, &RegisterAgent{Commitment: tooBig})
	c.Assert(rec.Code, qt.Equals, http.StatusBadRequest)
	c.Assert(errorCode(t, rec), qt.Equals, ErrMalformedCommitment.Code)
}

func TestGenerateProofRejections(t *testing.T) {
	c := qt.New(t)
	a, _ := testAPI(t)
	proofPath := func(circuit string) string {
		return "/proofs/" + circuit
	}

	// unknown circuit name
	rec := doRequest(t, a, http.MethodPost, proofPath("no-such-circuit"), &ProofRequest{})
	c.Assert(rec.Code, qt.Equals, http.StatusBadRequest)
	c.Assert(errorCode(t, rec), qt.Equals, ErrUnknownCircuit.Code)

	// malformed body
	rec = doRequest(t, a, http.MethodPost, proofPath("agent-identity"), "{not json")
	c.Assert(rec.Code, qt.Equals, http.StatusBadRequest)
	c.Assert(errorCode(t, rec), qt.Equals, ErrMalformedBody.Code)

	// missing epoch is a validation error, not a zero epoch
	rec = doRequest(t, a, http.MethodPost, proofPath("agent-identity"), &ProofRequest{})
	c.Assert(rec.Code, qt.Equals, http.StatusBadRequest)
	c.Assert(errorCode(t, rec), qt.Equals, ErrInvalidProofRequest.Code)

	// wrong length secrets are rejected before touching the registry
	epoch := types.BigInt(*big.NewInt(100))
	rec = doRequest(t, a, http.MethodPost, proofPath("agent-identity"), &ProofRequest{
		OwnerSecret:        make([]byte, 16),
		AgentID:            make([]byte, 31),
		RegistrationSecret: make([]byte, 31),
		Epoch:              &epoch,
	})
	c.Assert(rec.Code, qt.Equals, http.StatusBadRequest)
	c.Assert(errorCode(t, rec), qt.Equals, ErrInvalidProofRequest.Code)

	// an unregistered identity cannot build a membership proof
	rec = doRequest(t, a, http.MethodPost, proofPath("agent-identity"), &ProofRequest{
		OwnerSecret:        bytes.Repeat([]byte{0x01}, 31),
		AgentID:            bytes.Repeat([]byte{0x02}, 31),
		RegistrationSecret: bytes.Repeat([]byte{0x03}, 31),
		Epoch:              &epoch,
	})
	c.Assert(rec.Code, qt.Equals, http.StatusNotFound)
	c.Assert(errorCode(t, rec), qt.Equals, ErrCommitmentNotFound.Code)

	// the reputation circuit validates thresholds before proving
	minRep := types.BigInt(*big.NewInt(900))
	minTx := types.BigInt(*big.NewInt(10))
	score := types.BigInt(*big.NewInt(100))
	count := types.BigInt(*big.NewInt(50))
	rec = doRequest(t, a, http.MethodPost, proofPath("reputation-threshold"), &ProofRequest{
		MinReputation:    &minRep,
		MinTransactions:  &minTx,
		ReputationScore:  &score,
		TransactionCount: &count,
		ReputationSecret: bytes.Repeat([]byte{0x04}, 31),
	})
	c.Assert(rec.Code, qt.Equals, http.StatusBadRequest)
	c.Assert(errorCode(t, rec), qt.Equals, ErrInvalidProofRequest.Code)
}

func TestProofRequestSecretsWiped(t *testing.T) {
	c := qt.New(t)
	a, _ := testAPI(t)
	allZero := func(b []byte) bool {
		return bytes.Equal(b, make([]byte, len(b)))
	}

	// the raw secret buffers are wiped even when the lookup fails
	req := &ProofRequest{
		OwnerSecret:        bytes.Repeat([]byte{0x01}, 31),
		AgentID:            bytes.Repeat([]byte{0x02}, 31),
		RegistrationSecret: bytes.Repeat([]byte{0x03}, 31),
	}
	_, _, err := a.agentKeys(req)
	c.Assert(err, qt.IsNotNil)
	c.Assert(allZero(req.OwnerSecret), qt.IsTrue)
	c.Assert(allZero(req.RegistrationSecret), qt.IsTrue)

	// the vote path wipes its salt too
	actionHash := types.BigInt(*big.NewInt(777))
	voteYes := true
	req = &ProofRequest{
		OwnerSecret:        bytes.Repeat([]byte{0x01}, 31),
		AgentID:            bytes.Repeat([]byte{0x02}, 31),
		RegistrationSecret: bytes.Repeat([]byte{0x03}, 31),
		ActionHash:         &actionHash,
		Vote:               &voteYes,
		VoteSalt:           bytes.Repeat([]byte{0x05}, 31),
	}
	httpReq := httptest.NewRequest(http.MethodPost, "/proofs/anonymous-vote", nil)
	_, err = a.voteRequest(httpReq, req)
	c.Assert(err, qt.IsNotNil)
	c.Assert(allZero(req.VoteSalt), qt.IsTrue)
	c.Assert(allZero(req.OwnerSecret), qt.IsTrue)
}
