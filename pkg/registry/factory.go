package registry

import "fmt"

// NewTokenRegistry creates a token registry based on the persistence type.
func NewTokenRegistry(persistenceType, dataDir string) (TokenRegistry, error) {
	switch persistenceType {
	case "", "memory":
		return NewInMemTokenRegistry(), nil
	case "file":
		if dataDir == "" {
			return nil, fmt.Errorf("dataDir required for file registry")
		}
		return NewFileTokenRegistry(dataDir)
	default:
		return nil, fmt.Errorf("unsupported persistence type: %s (supported: memory, file)", persistenceType)
	}
}
