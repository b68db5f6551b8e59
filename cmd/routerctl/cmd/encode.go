package cmd

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/argus-labs/xchain-router/pkg/router/axelar"
)

type callOutput struct {
	Selector                   string `json:"selector"`
	DestinationChain           string `json:"destinationChain"`
	DestinationContractAddress string `json:"destinationContractAddress"`
	Payload                    string `json:"payload"`
}

func NewEncodeCmd() *cobra.Command {
	var chain, contract, payload string

	cmd := &cobra.Command{
		Use:     "encode",
		Short:   "Print the Axelar gateway callContract call data for a message",
		Example: fmt.Sprintf("%s encode --chain Moonbeam --contract 0x5c8a...f8a9 --payload 0x1234", appName),
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			dest, err := axelar.ParseDestination(chain, contract)
			if err != nil {
				return eris.Wrap(err, "invalid destination")
			}
			msg, err := decodeHexFlag("payload", payload)
			if err != nil {
				return err
			}
			data, err := axelar.EncodeCallContract(msg, dest.ChainID(), dest.Contract())
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), hexutil.Encode(data))
			return err
		},
	}

	cmd.Flags().StringVar(&chain, "chain", "", "Axelar name of the destination chain")
	cmd.Flags().StringVar(&contract, "contract", "", "address of the contract receiving the message")
	cmd.Flags().StringVar(&payload, "payload", "0x", "hex encoded message")
	_ = cmd.MarkFlagRequired("chain")
	_ = cmd.MarkFlagRequired("contract")
	return cmd
}

func NewDecodeCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "decode [calldata]",
		Short:   "Decode Axelar gateway callContract call data",
		Example: fmt.Sprintf("%s decode 0x1c92115f...", appName),
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := decodeHexFlag("calldata", args[0])
			if err != nil {
				return err
			}
			call, err := axelar.DecodeCallContract(data)
			if err != nil {
				return err
			}
			selector, err := axelar.Selector()
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), callOutput{
				Selector:                   hexutil.Encode(selector),
				DestinationChain:           call.DestinationChain,
				DestinationContractAddress: call.DestinationContractAddress,
				Payload:                    hexutil.Encode(call.Payload),
			})
		},
	}
}

func decodeHexFlag(name, value string) ([]byte, error) {
	data, err := hexutil.Decode(value)
	if err != nil {
		return nil, eris.Wrapf(err, "invalid %s", name)
	}
	return data, nil
}
