package aa

import (
	"encoding/hex"
	"math/big"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

func TestPackExecuteSelector(t *testing.T) {
	calldata, err := PackExecute(common.HexToAddress("0x01"), big.NewInt(0), []byte{0xaa})
	if err != nil {
		t.Fatalf("pack failed: %v", err)
	}

	// execute(address,uint256,bytes)
	if hex.EncodeToString(calldata[:4]) != "b61d27f6" {
		t.Errorf("unexpected selector %x", calldata[:4])
	}
}

func TestPackModeExecuteSelector(t *testing.T) {
	var mode [32]byte
	calldata, err := PackModeExecute(mode, []byte{0x01, 0x02})
	if err != nil {
		t.Fatalf("pack failed: %v", err)
	}

	selector := crypto.Keccak256([]byte("execute(bytes32,bytes)"))[:4]
	if hex.EncodeToString(calldata[:4]) != hex.EncodeToString(selector) {
		t.Errorf("unexpected selector %x, want %x", calldata[:4], selector)
	}
}

func TestGetInitCodePrefixedWithFactory(t *testing.T) {
	factoryAddr := common.HexToAddress("0x9406Cc6185a346906296840746125a0E44976454")
	factory, err := NewSimpleFactory(factoryAddr, nil)
	if err != nil {
		t.Fatalf("bind factory: %v", err)
	}

	initCode, err := GetInitCode(factory, common.HexToAddress("0x02"), big.NewInt(7))
	if err != nil {
		t.Fatalf("init code failed: %v", err)
	}

	if !strings.HasPrefix(strings.ToLower(initCode), strings.ToLower(factoryAddr.Hex())) {
		t.Errorf("init code %s does not start with the factory address", initCode[:44])
	}

	calldata, _ := factory.CreateAccountCalldata(common.HexToAddress("0x02"), big.NewInt(7))
	if !strings.HasSuffix(initCode, hex.EncodeToString(calldata)) {
		t.Error("init code does not end with the createAccount calldata")
	}
}

func TestCreateAccountCalldataStable(t *testing.T) {
	factory, err := NewMSAFactory(common.HexToAddress("0x03"), nil)
	if err != nil {
		t.Fatalf("bind factory: %v", err)
	}

	var salt [32]byte
	salt[31] = 1
	c1, err := factory.CreateAccountCalldata(salt, []byte{})
	if err != nil {
		t.Fatalf("pack failed: %v", err)
	}
	c2, _ := factory.CreateAccountCalldata(salt, []byte{})
	if hex.EncodeToString(c1) != hex.EncodeToString(c2) {
		t.Error("createAccount calldata is not deterministic")
	}
}

func TestEntrypointAddressDefault(t *testing.T) {
	if EntrypointAddress != common.HexToAddress("0x0000000071727De22E5E9d8BAf0edAc6f37da032") {
		t.Errorf("unexpected default entry point %s", EntrypointAddress.Hex())
	}
}
