package recommend

import "fmt"

type Config struct {
	// TopK is how many combinations a recommendation returns.
	TopK int
	// Order of the returned combinations.
	Order Order
	// StrictFeatures rejects records with missing attributes instead of
	// encoding them as 0.
	StrictFeatures bool
}

const defaultTopK = 3

func DefaultConfig() Config {
	return Config{
		TopK:           defaultTopK,
		Order:          OrderAscending,
		StrictFeatures: true,
	}
}

func (c Config) validate(combinations int) error {
	if c.TopK <= 0 || c.TopK > combinations {
		return fmt.Errorf("top-k must be between 1 and %d, got %d", combinations, c.TopK)
	}
	if _, err := ParseOrder(string(c.Order)); err != nil {
		return err
	}
	return nil
}
