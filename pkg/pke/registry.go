package pke

import (
	"slices"
	"strings"

	"github.com/sara-star-quant/quantum-pke/internal/constants"
	qerrors "github.com/sara-star-quant/quantum-pke/internal/errors"
	"github.com/sara-star-quant/quantum-pke/pkg/chkem"
	"github.com/sara-star-quant/quantum-pke/pkg/crypto"
)

var kemFactories = map[string]func() crypto.KEM{
	constants.KEMNameMLKEM512:  func() crypto.KEM { return crypto.NewMLKEM512() },
	constants.KEMNameMLKEM768:  func() crypto.KEM { return crypto.NewMLKEM768() },
	constants.KEMNameMLKEM1024: func() crypto.KEM { return crypto.NewMLKEM1024() },
	constants.KEMNameCHKEM:     func() crypto.KEM { return chkem.Scheme() },
}

// KEMByName returns the KEM registered under name. Matching ignores case;
// an empty name selects the default, ML-KEM-1024.
func KEMByName(name string) (crypto.KEM, error) {
	if name == "" {
		name = constants.DefaultKEMName
	}
	for registered, factory := range kemFactories {
		if strings.EqualFold(registered, name) {
			return factory(), nil
		}
	}
	return nil, qerrors.NewCryptoError("pke.KEMByName", qerrors.ErrUnknownKEM)
}

// KEMNames lists the registered KEM names in sorted order.
func KEMNames() []string {
	names := make([]string, 0, len(kemFactories))
	for name := range kemFactories {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
