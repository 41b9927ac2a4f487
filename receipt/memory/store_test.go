package memory

import (
	"testing"

	"github.com/code-payments/flipchat-billing/receipt/tests"
)

func TestReceipt_MemoryStore(t *testing.T) {
	testStore := NewInMemory()
	teardown := func() {
		testStore.(*InMemoryStore).reset()
	}
	tests.RunStoreTests(t, testStore, teardown)
}
