package memstore

import (
	"testing"

	"github.com/cognicore/rxnkit/pkg/rxnkit/store"
	"github.com/cognicore/rxnkit/pkg/rxnkit/store/storetest"
)

func TestMemStore(t *testing.T) {
	storetest.Run(t, func(t *testing.T) store.Store { return New() })
}
