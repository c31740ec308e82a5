package userop

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"

	"github.com/AvaProtocol/aa-sdk/pkg/smartwallet"
)

func newTestBuilder(t *testing.T) *Builder {
	t.Helper()
	b, err := NewBuilder(nil, nil, common.HexToAddress("0x01"), smartwallet.KindSimpleAccount, nil, nil)
	if err != nil {
		t.Fatalf("new builder failed: %v", err)
	}
	return b
}

func TestNewBuilderRejectsUnknownKind(t *testing.T) {
	_, err := NewBuilder(nil, nil, common.Address{}, smartwallet.Kind("nonexistent-kind"), nil, nil)

	var kindErr *smartwallet.UnsupportedWalletKindError
	if !errors.As(err, &kindErr) {
		t.Fatalf("expected UnsupportedWalletKindError, got %v", err)
	}
	if kindErr.Kind != "nonexistent-kind" {
		t.Errorf("error names kind %q", kindErr.Kind)
	}
}

func TestFinalizeReportsFirstMissingField(t *testing.T) {
	b := newTestBuilder(t)

	_, err := b.Finalize()
	var missing *MissingFieldError
	if !errors.As(err, &missing) {
		t.Fatalf("expected MissingFieldError, got %v", err)
	}
	if missing.Field != "sender" {
		t.Errorf("first missing field should be sender, got %q", missing.Field)
	}

	b.SetSender(common.HexToAddress("0x01"))
	_, err = b.Finalize()
	if !errors.As(err, &missing) || missing.Field != "nonce" {
		t.Errorf("after sender, first missing field should be nonce, got %v", err)
	}

	b.SetNonce(big.NewInt(0)).
		SetFactory(common.HexToAddress("0x02")).
		SetFactoryData([]byte{}).
		SetCallData([]byte{0x01})
	_, err = b.Finalize()
	if !errors.As(err, &missing) || missing.Field != "call_gas_limit" {
		t.Errorf("expected call_gas_limit missing, got %v", err)
	}
}

func TestFinalizeRoundTrip(t *testing.T) {
	b := newTestBuilder(t)
	b.SetSender(common.HexToAddress("0x11")).
		SetNonce(big.NewInt(3)).
		SetFactory(common.HexToAddress("0x22")).
		SetFactoryData([]byte{0xf0}).
		SetCallData([]byte{0xca}).
		SetCallGasLimit(big.NewInt(1)).
		SetVerificationGasLimit(big.NewInt(2)).
		SetPreVerificationGas(big.NewInt(3)).
		SetMaxFeePerGas(big.NewInt(4)).
		SetMaxPriorityFeePerGas(big.NewInt(5)).
		SetPaymaster(NoPaymaster).
		SetPaymasterVerificationGasLimit(big.NewInt(6)).
		SetPaymasterPostOpGasLimit(big.NewInt(7)).
		SetPaymasterData([]byte{}).
		SetSignature([]byte{0x51})

	op, err := b.Finalize()
	if err != nil {
		t.Fatalf("finalize failed: %v", err)
	}
	if op.Sender != common.HexToAddress("0x11") {
		t.Error("sender not carried through")
	}
	if op.Nonce.Int64() != 3 || op.MaxPriorityFeePerGas.Int64() != 5 {
		t.Error("integer fields not carried through")
	}
	if op.Paymaster != NoPaymaster {
		t.Error("paymaster not carried through")
	}
	if string(op.Signature) != "\x51" {
		t.Error("signature not carried through")
	}
}

func TestSettersCopyBigInts(t *testing.T) {
	b := newTestBuilder(t)
	nonce := big.NewInt(9)
	b.SetNonce(nonce)
	nonce.SetInt64(100)

	if b.Partial().Nonce.Int64() != 9 {
		t.Error("SetNonce shares the caller's big.Int")
	}
}

func TestCloneIsolation(t *testing.T) {
	b := newTestBuilder(t)
	b.SetSender(common.HexToAddress("0x01")).SetCallData([]byte{0x01})

	c := b.Clone()
	c.SetSender(common.HexToAddress("0x02"))
	c.Partial().CallData[0] = 0xff

	if *b.Partial().Sender != common.HexToAddress("0x01") {
		t.Error("clone shares the sender")
	}
	if b.Partial().CallData[0] != 0x01 {
		t.Error("clone shares the calldata")
	}
}

func TestSwitchKindKeepsFields(t *testing.T) {
	b := newTestBuilder(t)
	b.SetSender(common.HexToAddress("0x01")).SetNonce(big.NewInt(4))

	if err := b.SwitchKind(smartwallet.KindMSASepolia); err != nil {
		t.Fatalf("switch kind failed: %v", err)
	}
	if b.Kind() != smartwallet.KindMSASepolia {
		t.Error("kind not switched")
	}
	if b.Partial().Nonce.Int64() != 4 {
		t.Error("switch kind dropped accumulated fields")
	}

	if err := b.SwitchKind(smartwallet.Kind("nonexistent-kind")); err == nil {
		t.Error("switch to unknown kind should fail")
	}
	if b.Kind() != smartwallet.KindMSASepolia {
		t.Error("failed switch should leave the kind untouched")
	}
}

func TestDeriveAddressRequiresSalt(t *testing.T) {
	b := newTestBuilder(t)

	_, err := b.DeriveAddress(context.Background())
	if !errors.Is(err, ErrSaltNotSet) {
		t.Errorf("expected ErrSaltNotSet, got %v", err)
	}
}
