package cmd

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/argus-labs/xchain-router/pkg/gateway"
	"github.com/argus-labs/xchain-router/pkg/router"
	"github.com/argus-labs/xchain-router/pkg/router/axelar"
	"github.com/argus-labs/xchain-router/pkg/router/evm"
	"github.com/argus-labs/xchain-router/pkg/telemetry"
)

// sendFlags describe the router to configure for the domain. When target is empty the router is
// restored from gateway storage instead.
type sendFlags struct {
	domain   uint64
	target   string
	codeHash string
	value    string
	gasPrice string
	gasLimit uint64
	chain    string
	contract string
	sender   string
	payload  string
}

type receiptOutput struct {
	Domain  string `json:"domain"`
	TxHash  string `json:"txHash"`
	GasUsed uint64 `json:"gasUsed"`
	Status  uint64 `json:"status"`
}

func NewSendCmd() *cobra.Command {
	var f sendFlags

	cmd := &cobra.Command{
		Use:   "send",
		Short: "Send a message to a remote domain through an EVM node",
		Long: "Send a message to a remote domain. The node and the relayer key are read from EVM_RPC_URL and " +
			"EVM_RELAYER_KEY, the router storage from GATEWAY_* variables.",
		Example: fmt.Sprintf("%s send --domain 1284 --target 0xe432...8e31 --code-hash 0x... "+
			"--gas-limit 500000 --chain Moonbeam --contract 0x5c8a...f8a9 --payload 0x1234", appName),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSend(cmd, f)
		},
	}

	flags := cmd.Flags()
	flags.Uint64Var(&f.domain, "domain", 0, "EVM chain id of the remote domain")
	flags.StringVar(&f.target, "target", "", "contract called on the EVM chain (the Axelar gateway when --chain is set)")
	flags.StringVar(&f.codeHash, "code-hash", "", "expected keccak256 hash of the target contract code")
	flags.StringVar(&f.value, "value", "0", "wei attached to the transaction")
	flags.StringVar(&f.gasPrice, "gas-price", "0", "gas price in wei")
	flags.Uint64Var(&f.gasLimit, "gas-limit", 0, "gas limit of the transaction")
	flags.StringVar(&f.chain, "chain", "", "Axelar name of the destination chain; empty sends to the target directly")
	flags.StringVar(&f.contract, "contract", "", "address of the contract receiving the message on the destination chain")
	flags.StringVar(&f.sender, "sender", "", "hex encoded 32 byte account sending the message")
	flags.StringVar(&f.payload, "payload", "0x", "hex encoded message")
	_ = cmd.MarkFlagRequired("domain")
	return cmd
}

func runSend(cmd *cobra.Command, f sendFlags) error {
	ctx := cmd.Context()

	var sender router.AccountID
	if f.sender != "" {
		var err error
		if sender, err = router.ParseAccountID(f.sender); err != nil {
			return err
		}
	}
	msg, err := decodeHexFlag("payload", f.payload)
	if err != nil {
		return err
	}

	tel, err := telemetry.New(telemetry.Options{ServiceName: appName})
	if err != nil {
		return err
	}
	defer func() {
		_ = tel.Shutdown(context.Background())
	}()

	backend, err := evm.NewClientBackend(ctx, tel.GetLogger("evm"))
	if err != nil {
		return err
	}
	gw, err := gateway.New(ctx, backend, gateway.Options{Telemetry: &tel})
	if err != nil {
		return err
	}
	defer func() {
		_ = gw.Close()
	}()

	domain := gateway.Domain(f.domain)
	if f.target == "" {
		if err := gw.Restore(ctx); err != nil {
			return err
		}
	} else {
		cfg, err := f.routerConfig()
		if err != nil {
			return err
		}
		if err := gw.SetDomainRouter(ctx, domain, cfg); err != nil {
			return err
		}
	}

	receipt, err := gw.Send(ctx, domain, sender, msg)
	if err != nil {
		return err
	}
	return printJSON(cmd.OutOrStdout(), receiptOutput{
		Domain:  domain.String(),
		TxHash:  receipt.TxHash.Hex(),
		GasUsed: receipt.GasUsed,
		Status:  receipt.Status,
	})
}

func (f sendFlags) routerConfig() (gateway.RouterConfig, error) {
	if !common.IsHexAddress(f.target) {
		return gateway.RouterConfig{}, eris.Errorf("invalid target address %q", f.target)
	}
	codeHash, err := decodeHexFlag("code hash", f.codeHash)
	if err != nil {
		return gateway.RouterConfig{}, err
	}
	if len(codeHash) != common.HashLength {
		return gateway.RouterConfig{}, eris.Errorf("code hash must be %d bytes, got %d", common.HashLength, len(codeHash))
	}
	value, err := uint256.FromDecimal(f.value)
	if err != nil {
		return gateway.RouterConfig{}, eris.Wrap(err, "invalid value")
	}
	gasPrice, err := uint256.FromDecimal(f.gasPrice)
	if err != nil {
		return gateway.RouterConfig{}, eris.Wrap(err, "invalid gas price")
	}

	domain := evm.Domain{
		TargetContractAddress: common.HexToAddress(f.target),
		TargetContractHash:    common.BytesToHash(codeHash),
		FeeValues: evm.FeeValues{
			Value:    *value,
			GasPrice: *gasPrice,
			GasLimit: *uint256.NewInt(f.gasLimit),
		},
	}
	if f.chain == "" {
		return gateway.NewEVMRouterConfig(domain), nil
	}

	dest, err := axelar.ParseDestination(f.chain, f.contract)
	if err != nil {
		return gateway.RouterConfig{}, eris.Wrap(err, "invalid destination")
	}
	return gateway.NewAxelarEVMRouterConfig(domain, dest), nil
}
