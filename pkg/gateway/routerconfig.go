package gateway

import (
	"errors"
	"strconv"

	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"

	"github.com/argus-labs/xchain-router/pkg/assert"
	"github.com/argus-labs/xchain-router/pkg/router"
	"github.com/argus-labs/xchain-router/pkg/router/axelar"
	"github.com/argus-labs/xchain-router/pkg/router/evm"
)

// RouterConfigEncodedLen is the fixed size of a marshaled RouterConfig: kind, EVM domain, Axelar destination.
const RouterConfigEncodedLen = 1 + evm.DomainEncodedLen + axelar.DestinationEncodedLen

var (
	ErrUnknownRouterKind    = errors.New("unknown router kind")
	ErrMissingDestination   = errors.New("axelar router requires a destination")
	ErrInvalidEncodedConfig = errors.New("invalid encoded router config")
)

// Domain identifies a remote chain by its EVM chain id.
type Domain uint64

func (d Domain) String() string {
	return "evm:" + d.key()
}

// key is the storage key of the domain.
func (d Domain) key() string {
	return strconv.FormatUint(uint64(d), 10)
}

type RouterKind uint8

const (
	RouterKindUndefined RouterKind = iota
	// RouterKindEVM calls the target contract directly with the message as call data.
	RouterKindEVM
	// RouterKindAxelarEVM wraps the message in an Axelar gateway callContract call.
	RouterKindAxelarEVM
)

const (
	evmRouterKindString       = "EVM"
	axelarEVMRouterKindString = "AXELAR_EVM"
	undefinedRouterKindString = "UNDEFINED"
)

func (k RouterKind) String() string {
	switch k {
	case RouterKindEVM:
		return evmRouterKindString
	case RouterKindAxelarEVM:
		return axelarEVMRouterKindString
	case RouterKindUndefined:
		return undefinedRouterKindString
	default:
		return undefinedRouterKindString
	}
}

// ParseRouterKind converts a string to a RouterKind. Unknown strings map to RouterKindUndefined.
func ParseRouterKind(s string) RouterKind {
	switch s {
	case evmRouterKindString:
		return RouterKindEVM
	case axelarEVMRouterKindString:
		return RouterKindAxelarEVM
	default:
		return RouterKindUndefined
	}
}

// RouterConfig is the persisted description of the router serving one domain. EVM holds the contract
// the transaction is sent to; for RouterKindAxelarEVM that is the Axelar gateway and Axelar names the
// final destination.
type RouterConfig struct {
	Kind   RouterKind
	EVM    evm.Domain
	Axelar axelar.Destination
}

// NewEVMRouterConfig describes a router that calls domain's target contract directly.
func NewEVMRouterConfig(domain evm.Domain) RouterConfig {
	return RouterConfig{Kind: RouterKindEVM, EVM: domain}
}

// NewAxelarEVMRouterConfig describes a router that sends through the Axelar gateway described by gateway.
func NewAxelarEVMRouterConfig(gateway evm.Domain, dest axelar.Destination) RouterConfig {
	return RouterConfig{Kind: RouterKindAxelarEVM, EVM: gateway, Axelar: dest}
}

// Validate performs the configuration-time checks. It does not touch the chain.
func (c RouterConfig) Validate() error {
	switch c.Kind {
	case RouterKindEVM:
	case RouterKindAxelarEVM:
		if c.Axelar.IsZero() {
			return ErrMissingDestination
		}
		if len(c.Axelar.ChainID()) == 0 {
			return axelar.ErrEmptyChainID
		}
	case RouterKindUndefined:
		return ErrUnknownRouterKind
	default:
		return eris.Wrapf(ErrUnknownRouterKind, "kind %d", c.Kind)
	}
	if err := c.EVM.Validate(); err != nil {
		return eris.Wrap(err, "invalid EVM domain")
	}
	return nil
}

func (c RouterConfig) Equal(other RouterConfig) bool {
	return c.Kind == other.Kind && c.EVM == other.EVM && c.Axelar.Equal(other.Axelar)
}

func (c RouterConfig) MarshalBinary() ([]byte, error) {
	evmData, err := c.EVM.MarshalBinary()
	if err != nil {
		return nil, eris.Wrap(err, "failed to marshal EVM domain")
	}
	destData, err := c.Axelar.MarshalBinary()
	if err != nil {
		return nil, eris.Wrap(err, "failed to marshal axelar destination")
	}

	out := make([]byte, 0, RouterConfigEncodedLen)
	out = append(out, byte(c.Kind))
	out = append(out, evmData...)
	out = append(out, destData...)
	assert.That(len(out) == RouterConfigEncodedLen, "router config encoded to %d bytes", len(out))
	return out, nil
}

func (c *RouterConfig) UnmarshalBinary(data []byte) error {
	if len(data) != RouterConfigEncodedLen {
		return eris.Wrapf(ErrInvalidEncodedConfig, "got %d bytes, want %d", len(data), RouterConfigEncodedLen)
	}

	var decoded RouterConfig
	decoded.Kind = RouterKind(data[0])
	if decoded.Kind != RouterKindEVM && decoded.Kind != RouterKindAxelarEVM {
		return eris.Wrapf(ErrUnknownRouterKind, "kind %d", data[0])
	}
	data = data[1:]
	if err := decoded.EVM.UnmarshalBinary(data[:evm.DomainEncodedLen]); err != nil {
		return eris.Wrap(err, "failed to unmarshal EVM domain")
	}
	if err := decoded.Axelar.UnmarshalBinary(data[evm.DomainEncodedLen:]); err != nil {
		return eris.Wrap(err, "failed to unmarshal axelar destination")
	}
	*c = decoded
	return nil
}

// build creates the router described by the config on top of backend.
func (c RouterConfig) build(backend evm.Backend, log zerolog.Logger) (router.Router, error) {
	direct := evm.NewRouter(c.EVM, backend, evm.WithLogger(log))
	switch c.Kind {
	case RouterKindEVM:
		return direct, nil
	case RouterKindAxelarEVM:
		return axelar.NewRouter(direct, c.Axelar), nil
	case RouterKindUndefined:
		return nil, ErrUnknownRouterKind
	default:
		return nil, eris.Wrapf(ErrUnknownRouterKind, "kind %d", c.Kind)
	}
}
