package userop

import (
	"encoding/json"
	"math/big"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/common"
)

func TestWireJSONUsesHexQuantities(t *testing.T) {
	op := sampleOp()

	body, err := json.Marshal(op)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	s := string(body)
	for _, want := range []string{
		`"sender":"0xe272b72e51a5bf8cb720fc6d6df164a4d5e321c5"`,
		`"nonce":"0x7"`,
		`"callData":"0xb61d27f6"`,
		`"paymaster":"0x"`,
		`"maxFeePerGas":"0x6fc23ac00"`,
	} {
		if !strings.Contains(s, want) {
			t.Errorf("wire encoding missing %s in %s", want, s)
		}
	}
}

func TestWireJSONRoundTrip(t *testing.T) {
	op := sampleOp()

	body, err := json.Marshal(op)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	var back UserOperation
	if err := json.Unmarshal(body, &back); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	h1, _ := op.Hash(testEntryPoint, testChainID)
	h2, _ := back.Hash(testEntryPoint, testChainID)
	if h1 != h2 {
		t.Errorf("round trip changed the hash: %s vs %s", h1.Hex(), h2.Hex())
	}
	if string(back.Signature) != string(op.Signature) {
		t.Error("round trip lost the signature")
	}
}

func TestWithSignatureDoesNotMutate(t *testing.T) {
	op := sampleOp()
	op.Signature = []byte{0x01}

	signed := op.WithSignature([]byte{0x02, 0x03})
	if string(op.Signature) != "\x01" {
		t.Error("WithSignature mutated the receiver")
	}
	if string(signed.Signature) != "\x02\x03" {
		t.Error("WithSignature did not set the new signature")
	}
}

func TestPartialToUserOperationDefaults(t *testing.T) {
	op := (&UserOperationPartial{}).ToUserOperation()

	if op.Sender != (common.Address{}) {
		t.Error("absent sender should default to the zero address")
	}
	if op.Nonce.Sign() != 0 {
		t.Error("absent nonce should default to zero")
	}
	if op.Paymaster != NoPaymaster {
		t.Errorf("absent paymaster should default to %q, got %q", NoPaymaster, op.Paymaster)
	}
	if op.CallData == nil || len(op.CallData) != 0 {
		t.Error("absent calldata should default to empty bytes")
	}
	if op.Signature == nil || len(op.Signature) != 0 {
		t.Error("absent signature should default to empty bytes")
	}
}

func TestPartialCloneIsolation(t *testing.T) {
	sender := common.HexToAddress("0x01")
	p := &UserOperationPartial{
		Sender:   &sender,
		Nonce:    big.NewInt(5),
		CallData: []byte{0x01, 0x02},
	}

	c := p.Clone()
	*c.Sender = common.HexToAddress("0x02")
	c.Nonce.SetInt64(99)
	c.CallData[0] = 0xff

	if *p.Sender != sender {
		t.Error("clone shares the sender pointer")
	}
	if p.Nonce.Int64() != 5 {
		t.Error("clone shares the nonce")
	}
	if p.CallData[0] != 0x01 {
		t.Error("clone shares the calldata backing array")
	}
}

func TestPartialWireOmitsUnsetFields(t *testing.T) {
	sender := common.HexToAddress("0x01")
	p := &UserOperationPartial{Sender: &sender, CallData: []byte{0x01}}

	body, err := json.Marshal(p)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	s := string(body)
	if strings.Contains(s, "maxFeePerGas") {
		t.Errorf("unset fee field serialized: %s", s)
	}
	if strings.Contains(s, "paymaster") {
		t.Errorf("unset paymaster serialized: %s", s)
	}
	if !strings.Contains(s, `"sender"`) || !strings.Contains(s, `"callData"`) {
		t.Errorf("set fields missing from %s", s)
	}
}
