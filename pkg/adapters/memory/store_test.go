package memory_test

import (
	"testing"

	"github.com/masonrylabs/masonry/pkg/adapters/memory"
	"github.com/masonrylabs/masonry/pkg/ports"
)

func TestMemoryStore_Contract(t *testing.T) {
	ports.RunSessionStoreContract(t, memory.NewStore())
}
