package cmd

import (
	"context"
	"slices"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/spf13/cobra"

	"github.com/argus-labs/xchain-router/pkg/gateway"
	"github.com/argus-labs/xchain-router/pkg/telemetry"
)

type routerOutput struct {
	Domain           string `json:"domain"`
	Kind             string `json:"kind"`
	Target           string `json:"target"`
	TargetCodeHash   string `json:"targetCodeHash"`
	Value            string `json:"value"`
	GasPrice         string `json:"gasPrice"`
	GasLimit         string `json:"gasLimit"`
	DestinationChain string `json:"destinationChain,omitempty"`
	Destination      string `json:"destination,omitempty"`
}

func NewRoutersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "routers",
		Short: "List the domain routers persisted in gateway storage",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			tel, err := telemetry.New(telemetry.Options{ServiceName: appName})
			if err != nil {
				return err
			}
			defer func() {
				_ = tel.Shutdown(context.Background())
			}()

			// Restoring never touches the chain, so no node connection is needed.
			gw, err := gateway.New(ctx, offlineBackend{}, gateway.Options{Telemetry: &tel})
			if err != nil {
				return err
			}
			defer func() {
				_ = gw.Close()
			}()
			if err := gw.Restore(ctx); err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), listRouters(gw))
		},
	}
}

func listRouters(gw *gateway.Gateway) []routerOutput {
	domains := gw.Domains()
	slices.Sort(domains)

	out := make([]routerOutput, 0, len(domains))
	for _, domain := range domains {
		cfg, err := gw.DomainRouter(domain)
		if err != nil {
			continue
		}
		entry := routerOutput{
			Domain:         domain.String(),
			Kind:           cfg.Kind.String(),
			Target:         cfg.EVM.TargetContractAddress.Hex(),
			TargetCodeHash: cfg.EVM.TargetContractHash.Hex(),
			Value:          cfg.EVM.FeeValues.Value.Dec(),
			GasPrice:       cfg.EVM.FeeValues.GasPrice.Dec(),
			GasLimit:       cfg.EVM.FeeValues.GasLimit.Dec(),
		}
		if cfg.Kind == gateway.RouterKindAxelarEVM {
			entry.DestinationChain = string(cfg.Axelar.ChainID())
			entry.Destination = hexutil.Encode(cfg.Axelar.Contract().Bytes())
		}
		out = append(out, entry)
	}
	return out
}
